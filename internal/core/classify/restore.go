package classify

import "github.com/feedlens/feedlens/internal/core"

// ForRestore classifies the enabled sources into the summary reported with
// restore telemetry. Every enabled source lands in exactly one of the three
// buckets, so Local + HTTPv2 + HTTPv3 equals the enabled count.
//
// The nuget.org tag prefers v3: a v3 match always sets YesV3, and a v2 match
// only sets YesV2 while YesV3 has not been observed. The outcome is therefore
// order-independent.
//
// A nil or empty slice yields an all-zero summary with tag NotPresent.
func ForRestore(sources []core.SourceDescriptor) core.RestoreSummary {
	summary := core.RestoreSummary{NuGetOrg: core.RestoreNotPresent}

	for _, src := range sources {
		if !src.Enabled {
			continue
		}

		switch {
		case IsServiceIndex(src):
			summary.HTTPv3++
			if IsNuGetOrgSubdomain(src) {
				summary.NuGetOrg = core.RestoreYesV3
			}
		case src.IsHTTP:
			summary.HTTPv2++
			if summary.NuGetOrg != core.RestoreYesV3 && IsNuGetOrgSubdomain(src) {
				summary.NuGetOrg = core.RestoreYesV2
			}
		default:
			summary.Local++
		}
	}

	return summary
}
