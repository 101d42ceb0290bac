package telemetry

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/feedlens/feedlens/internal/core"
)

func TestNewRestoreSourceSummaryEvent(t *testing.T) {
	parentID := uuid.New()
	summary := core.RestoreSummary{
		Local:    2,
		HTTPv2:   1,
		HTTPv3:   1,
		NuGetOrg: core.RestoreYesV3,
	}

	event := NewRestoreSourceSummaryEvent(parentID, summary)
	require.Equal(t, RestoreSourceSummaryEventName, event.Name())

	props := event.Properties()
	require.Equal(t, parentID.String(), props[PropParentID])
	require.Equal(t, 2, props[PropNumLocalFeeds])
	require.Equal(t, 1, props[PropNumHTTPv2Feeds])
	require.Equal(t, 1, props[PropNumHTTPv3Feeds])
	require.Equal(t, "YesV3", props[PropNuGetOrg])
}

func TestNewSearchSourceSummaryEvent(t *testing.T) {
	parentID := uuid.New()
	summary := core.SearchSummary{
		Local:             1,
		HTTPv2:            1,
		HTTPv3:            1,
		NuGetOrg:          core.SearchV2 | core.SearchV3,
		VSOfflinePackages: true,
		DotnetCuratedFeed: true,
	}

	event := NewSearchSourceSummaryEvent(parentID, summary)
	require.Equal(t, SearchSourceSummaryEventName, event.Name())

	props := event.Properties()
	require.Equal(t, "YesV3AndV2", props[PropNuGetOrg])
	require.Equal(t, true, props[PropVSOfflinePackages])
	require.Equal(t, true, props[PropDotnetCuratedFeed])
}

func TestNewSearchPageEvent(t *testing.T) {
	parentID := uuid.New()
	event := NewSearchPageEvent(parentID, 2, 25, 1500*time.Millisecond, PageLoadReady)
	require.Equal(t, SearchPageEventName, event.Name())

	props := event.Properties()
	require.Equal(t, 2, props[PropPageIndex])
	require.Equal(t, 25, props[PropResultCount])
	require.Equal(t, 1.5, props[PropDuration])
	require.Equal(t, "Ready", props[PropLoadingStatus])
}

func TestEventPropertiesAreCopied(t *testing.T) {
	input := map[string]any{"key": "value"}
	event := NewEvent("Example", input)

	input["key"] = "mutated"
	value, ok := event.Property("key")
	require.True(t, ok)
	require.Equal(t, "value", value)

	returned := event.Properties()
	returned["key"] = "mutated again"
	value, _ = event.Property("key")
	require.Equal(t, "value", value)
}

func TestEventJSONRoundTrip(t *testing.T) {
	event := NewSearchPageEvent(uuid.New(), 0, 10, 2*time.Second, PageLoadFailed)

	data, err := json.Marshal(event)
	require.NoError(t, err)

	decoded := &Event{}
	require.NoError(t, json.Unmarshal(data, decoded))
	require.Equal(t, event.Name(), decoded.Name())

	status, ok := decoded.Property(PropLoadingStatus)
	require.True(t, ok)
	require.Equal(t, "Failed", status)

	duration, ok := decoded.Property(PropDuration)
	require.True(t, ok)
	require.Equal(t, 2.0, duration)
}

func TestLogEmitterNilSafe(t *testing.T) {
	emitter := &LogEmitter{}
	require.NoError(t, emitter.Emit(context.Background(), NewEvent("Example", nil)))
	require.NoError(t, emitter.Emit(context.Background(), nil))

	var nilEmitter *LogEmitter
	require.NoError(t, nilEmitter.Emit(context.Background(), nil))
}

func TestMultiEmitterFansOut(t *testing.T) {
	first := &countingEmitter{}
	second := &countingEmitter{}

	multi := MultiEmitter{first, nil, second}
	require.NoError(t, multi.Emit(context.Background(), NewEvent("Example", nil)))
	require.Equal(t, 1, first.calls)
	require.Equal(t, 1, second.calls)
}

type countingEmitter struct {
	calls int
}

func (c *countingEmitter) Emit(_ context.Context, _ *Event) error {
	c.calls++
	return nil
}
