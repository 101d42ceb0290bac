package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewSourceDescriptorHTTPDetection(t *testing.T) {
	src := NewSourceDescriptor("nuget.org", "https://api.nuget.org/v3/index.json", true, nil)
	require.True(t, src.IsHTTP)
	require.NotNil(t, src.Parsed)
	require.Equal(t, "api.nuget.org", src.Parsed.Hostname())

	src = NewSourceDescriptor("insecure", "HTTP://example.com/v2", true, nil)
	require.True(t, src.IsHTTP)

	src = NewSourceDescriptor("local", `C:\feeds\local`, true, nil)
	require.False(t, src.IsHTTP)
	require.Nil(t, src.Parsed)

	src = NewSourceDescriptor("unc", `\\share\packages`, true, nil)
	require.False(t, src.IsHTTP)
}

func TestNewSourceDescriptorMalformedURL(t *testing.T) {
	// HTTP prefix with an unparsable remainder still classifies as HTTP,
	// it just carries no parsed URL
	src := NewSourceDescriptor("broken", "https://exa mple.com/%zz", true, nil)
	require.True(t, src.IsHTTP)
	require.Nil(t, src.Parsed)
}

func TestNewSourceDescriptorKeepsProtocolVersion(t *testing.T) {
	version := 3
	src := NewSourceDescriptor("v3", "https://example.com/feed", false, &version)
	require.False(t, src.Enabled)
	require.NotNil(t, src.ProtocolVersion)
	require.Equal(t, 3, *src.ProtocolVersion)
}

func TestSearchPresenceString(t *testing.T) {
	require.Equal(t, "NotPresent", SearchNotPresent.String())
	require.Equal(t, "YesV2", SearchV2.String())
	require.Equal(t, "YesV3", SearchV3.String())
	require.Equal(t, "YesV3AndV2", (SearchV2 | SearchV3).String())
}

func TestSearchSummaryJSON(t *testing.T) {
	summary := SearchSummary{
		Local:    1,
		HTTPv2:   2,
		HTTPv3:   3,
		NuGetOrg: SearchV2 | SearchV3,
	}

	data, err := json.Marshal(summary)
	require.NoError(t, err)
	require.Contains(t, string(data), `"nuget_org":"YesV3AndV2"`)
}
