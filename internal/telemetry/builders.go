package telemetry

import (
	"time"

	"github.com/google/uuid"

	"github.com/feedlens/feedlens/internal/core"
)

// Event names. These and the property keys below are the wire contract with
// the telemetry backend; changing them breaks downstream analysis.
const (
	RestoreSourceSummaryEventName = "RestorePackageSourceSummary"
	SearchSourceSummaryEventName  = "SearchPackageSourceSummary"
	SearchPageEventName           = "SearchPageFetch"
)

// Property keys.
const (
	PropParentID          = "ParentId"
	PropNumLocalFeeds     = "NumLocalFeeds"
	PropNumHTTPv2Feeds    = "NumHTTPv2Feeds"
	PropNumHTTPv3Feeds    = "NumHTTPv3Feeds"
	PropNuGetOrg          = "NuGetOrg"
	PropVSOfflinePackages = "VsOfflinePackages"
	PropDotnetCuratedFeed = "DotnetCuratedFeed"
	PropPageIndex         = "PageIndex"
	PropResultCount       = "ResultCount"
	PropDuration          = "Duration"
	PropLoadingStatus     = "LoadingStatus"
)

// PageLoadStatus describes the outcome of a search result page fetch.
type PageLoadStatus string

const (
	PageLoadReady        PageLoadStatus = "Ready"
	PageLoadLoading      PageLoadStatus = "Loading"
	PageLoadNoItemsFound PageLoadStatus = "NoItemsFound"
	PageLoadFailed       PageLoadStatus = "Failed"
	PageLoadCancelled    PageLoadStatus = "Cancelled"
)

// NewRestoreSourceSummaryEvent packages a restore classification into its
// telemetry event. parentID correlates the summary with the restore
// operation that produced it.
func NewRestoreSourceSummaryEvent(parentID uuid.UUID, summary core.RestoreSummary) *Event {
	return NewEvent(RestoreSourceSummaryEventName, map[string]any{
		PropParentID:       parentID.String(),
		PropNumLocalFeeds:  summary.Local,
		PropNumHTTPv2Feeds: summary.HTTPv2,
		PropNumHTTPv3Feeds: summary.HTTPv3,
		PropNuGetOrg:       string(summary.NuGetOrg),
	})
}

// NewSearchSourceSummaryEvent packages a search classification into its
// telemetry event.
func NewSearchSourceSummaryEvent(parentID uuid.UUID, summary core.SearchSummary) *Event {
	return NewEvent(SearchSourceSummaryEventName, map[string]any{
		PropParentID:          parentID.String(),
		PropNumLocalFeeds:     summary.Local,
		PropNumHTTPv2Feeds:    summary.HTTPv2,
		PropNumHTTPv3Feeds:    summary.HTTPv3,
		PropNuGetOrg:          summary.NuGetOrg.String(),
		PropVSOfflinePackages: summary.VSOfflinePackages,
		PropDotnetCuratedFeed: summary.DotnetCuratedFeed,
	})
}

// NewSearchPageEvent packages caller-supplied page-fetch measurements. No
// classification happens here; duration is reported in float seconds.
func NewSearchPageEvent(parentID uuid.UUID, pageIndex, resultCount int, duration time.Duration, status PageLoadStatus) *Event {
	return NewEvent(SearchPageEventName, map[string]any{
		PropParentID:      parentID.String(),
		PropPageIndex:     pageIndex,
		PropResultCount:   resultCount,
		PropDuration:      duration.Seconds(),
		PropLoadingStatus: string(status),
	})
}
