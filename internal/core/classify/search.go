package classify

import "github.com/feedlens/feedlens/internal/core"

// curatedFeedMarker identifies curated feeds hosted under the nuget.org v2
// API. Matched as an ordinal case-insensitive substring so both singular and
// plural path forms are caught.
const curatedFeedMarker = "api/v2/curated-feed"

// ForSearch classifies the enabled sources into the summary reported with
// search telemetry. The bucketing matches ForRestore; the nuget.org tag is a
// bit union instead of a single value, and two extra detections run:
//
//   - a legacy nuget.org source whose location contains the curated-feed
//     marker sets DotnetCuratedFeed and is carved out of the tag union, so a
//     curated feed alone never reports a v2 presence;
//   - a local source equal to the expected VS offline-packages directory
//     (trailing separators stripped, case-insensitive) sets
//     VSOfflinePackages.
func ForSearch(sources []core.SourceDescriptor) core.SearchSummary {
	summary := core.SearchSummary{NuGetOrg: core.SearchNotPresent}

	for _, src := range sources {
		if !src.Enabled {
			continue
		}

		switch {
		case IsServiceIndex(src):
			summary.HTTPv3++
			if IsNuGetOrgDomainOrSubdomain(src) {
				summary.NuGetOrg |= core.SearchV3
			}
		case src.IsHTTP:
			summary.HTTPv2++
			if IsNuGetOrgDomainOrSubdomain(src) {
				if containsFold(src.Location, curatedFeedMarker) {
					summary.DotnetCuratedFeed = true
				} else {
					summary.NuGetOrg |= core.SearchV2
				}
			}
		default:
			summary.Local++
			if matchesOfflinePackages(src.Location) {
				summary.VSOfflinePackages = true
			}
		}
	}

	return summary
}
