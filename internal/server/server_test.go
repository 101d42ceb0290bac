package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/feedlens/feedlens/internal/config"
	apperrors "github.com/feedlens/feedlens/internal/errors"
	"github.com/feedlens/feedlens/internal/server/handlers"
	servermw "github.com/feedlens/feedlens/internal/server/middleware"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := New(config.ServerConfig{Host: "127.0.0.1", Port: 0})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	t.Cleanup(handlers.ResetHTTPErrorResponder)
	return ts
}

func TestNotFoundEnvelope(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/no/such/route")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	var body apperrors.HTTPErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "NOT_FOUND", body.Error.Code)
	require.NotEmpty(t, body.Error.RequestID)
}

func TestMethodNotAllowedEnvelope(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/v1/classify/restore")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	var body apperrors.HTTPErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "METHOD_NOT_ALLOWED", body.Error.Code)
}

func TestRequestIDPropagation(t *testing.T) {
	ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/version", nil)
	require.NoError(t, err)
	req.Header.Set(servermw.RequestIDHeader, "test-request-id")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "test-request-id", resp.Header.Get(servermw.RequestIDHeader))
}

func TestHealthEndpoints(t *testing.T) {
	handlers.InitHealthManager("test")
	ts := newTestServer(t)

	for _, path := range []string{"/health", "/health/live", "/health/ready"} {
		resp, err := http.Get(ts.URL + path)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode, path)
		resp.Body.Close()
	}
}

func TestClassifyRestoreEndpoint(t *testing.T) {
	ts := newTestServer(t)

	body := map[string]any{
		"parent_id": "f47ac10b-58cc-4372-a567-0e02b2c3d479",
		"sources": []map[string]any{
			{"name": "nuget.org", "location": "https://api.nuget.org/v3/index.json", "enabled": true},
			{"name": "legacy", "location": "https://www.nuget.org/api/v2", "enabled": true},
			{"name": "local", "location": `C:\feeds\local`, "enabled": true},
			{"name": "off", "location": "https://example.com/v2", "enabled": false},
		},
	}
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(ts.URL+"/v1/classify/restore", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var decoded handlers.RestoreClassifyResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))

	require.Equal(t, 1, decoded.Summary.Local)
	require.Equal(t, 1, decoded.Summary.HTTPv2)
	require.Equal(t, 1, decoded.Summary.HTTPv3)
	require.Equal(t, "YesV3", string(decoded.Summary.NuGetOrg))

	require.NotNil(t, decoded.Event)
	require.Equal(t, "RestorePackageSourceSummary", decoded.Event.Name())

	parentID, ok := decoded.Event.Property("ParentId")
	require.True(t, ok)
	require.Equal(t, "f47ac10b-58cc-4372-a567-0e02b2c3d479", parentID)
}

func TestClassifySearchEndpoint(t *testing.T) {
	ts := newTestServer(t)

	body := map[string]any{
		"sources": []map[string]any{
			{"name": "curated", "location": "https://www.nuget.org/api/v2/curated-feeds/microsoftdotnet/", "enabled": true},
		},
	}
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(ts.URL+"/v1/classify/search", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var decoded handlers.SearchClassifyResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))

	require.True(t, decoded.Summary.DotnetCuratedFeed)
	require.Equal(t, "NotPresent", decoded.Summary.NuGetOrg.String())
	require.Equal(t, "SearchPackageSourceSummary", decoded.Event.Name())
}

func TestClassifyInvalidParentID(t *testing.T) {
	ts := newTestServer(t)

	payload := []byte(`{"parent_id":"not-a-uuid","sources":[]}`)
	resp, err := http.Post(ts.URL+"/v1/classify/restore", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body apperrors.HTTPErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "INVALID_INPUT", body.Error.Code)
}

func TestClassifyMalformedBody(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/v1/classify/restore", "application/json", bytes.NewReader([]byte("{not json")))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
