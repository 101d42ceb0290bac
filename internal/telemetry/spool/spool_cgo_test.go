//go:build cgo

package spool

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/feedlens/feedlens/internal/config"
	"github.com/feedlens/feedlens/internal/core"
	"github.com/feedlens/feedlens/internal/telemetry"
)

func openMemorySpool(t *testing.T) *Spool {
	t.Helper()
	ctx := context.Background()

	s, err := Open(ctx, config.StoreConfig{Driver: "libsql", Path: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, s.Migrate(ctx))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenMemorySpool(t *testing.T) {
	s := openMemorySpool(t)
	require.Equal(t, "libsql", s.Driver())
}

func TestAppendAndPending(t *testing.T) {
	ctx := context.Background()
	s := openMemorySpool(t)

	first := telemetry.NewRestoreSourceSummaryEvent(uuid.New(), core.RestoreSummary{
		Local:    1,
		NuGetOrg: core.RestoreNotPresent,
	})
	second := telemetry.NewSearchPageEvent(uuid.New(), 1, 20, 750*time.Millisecond, telemetry.PageLoadReady)

	require.NoError(t, s.Append(ctx, first))
	require.NoError(t, s.Append(ctx, second))

	count, err := s.PendingCount(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), count)

	entries, err := s.Pending(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Oldest first
	require.Equal(t, telemetry.RestoreSourceSummaryEventName, entries[0].Event.Name())
	require.Equal(t, telemetry.SearchPageEventName, entries[1].Event.Name())

	duration, ok := entries[1].Event.Property(telemetry.PropDuration)
	require.True(t, ok)
	require.Equal(t, 0.75, duration)
}

func TestPendingLimit(t *testing.T) {
	ctx := context.Background()
	s := openMemorySpool(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Append(ctx, telemetry.NewEvent("Example", nil)))
	}

	entries, err := s.Pending(ctx, 3)
	require.NoError(t, err)
	require.Len(t, entries, 3)
}

func TestMarkShipped(t *testing.T) {
	ctx := context.Background()
	s := openMemorySpool(t)

	require.NoError(t, s.Append(ctx, telemetry.NewEvent("First", nil)))
	require.NoError(t, s.Append(ctx, telemetry.NewEvent("Second", nil)))

	entries, err := s.Pending(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	require.NoError(t, s.MarkShipped(ctx, []int64{entries[0].ID}))

	remaining, err := s.Pending(ctx, 0)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	require.Equal(t, "Second", remaining[0].Event.Name())

	// Empty id list is a no-op
	require.NoError(t, s.MarkShipped(ctx, nil))
}

func TestAppendNilEvent(t *testing.T) {
	ctx := context.Background()
	s := openMemorySpool(t)

	require.NoError(t, s.Append(ctx, nil))
	count, err := s.PendingCount(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(0), count)
}

func TestOpenUnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), config.StoreConfig{Driver: "postgres"})
	require.Error(t, err)
}
