package core

import (
	"encoding/json"
	"net/url"
	"strings"
)

// SourceDescriptor describes one configured package source. Descriptors are
// read-only snapshots: classification never mutates them, so callers may
// share a slice across goroutines.
type SourceDescriptor struct {
	Name            string   `json:"name,omitempty"`
	Enabled         bool     `json:"enabled"`
	IsHTTP          bool     `json:"is_http"`
	Location        string   `json:"location"`
	ProtocolVersion *int     `json:"protocol_version,omitempty"`
	Parsed          *url.URL `json:"-"`
}

// NewSourceDescriptor builds a descriptor from a raw source location.
// HTTP detection looks at the location prefix; the URL parse is best-effort
// and a failure leaves Parsed nil rather than returning an error.
func NewSourceDescriptor(name, location string, enabled bool, protocolVersion *int) SourceDescriptor {
	descriptor := SourceDescriptor{
		Name:            name,
		Enabled:         enabled,
		Location:        location,
		ProtocolVersion: protocolVersion,
	}

	lower := strings.ToLower(strings.TrimSpace(location))
	descriptor.IsHTTP = strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")

	if descriptor.IsHTTP {
		if parsed, err := url.Parse(strings.TrimSpace(location)); err == nil {
			descriptor.Parsed = parsed
		}
	}

	return descriptor
}

// RestorePresence is the nuget.org tag reported by restore summaries.
// It holds a single best-known protocol: once v3 is observed the value is
// never downgraded.
type RestorePresence string

const (
	RestoreNotPresent RestorePresence = "NotPresent"
	RestoreYesV2      RestorePresence = "YesV2"
	RestoreYesV3      RestorePresence = "YesV3"
)

// SearchPresence is the nuget.org tag reported by search summaries. Unlike
// RestorePresence it is a bit set: both protocols can be recorded at once.
type SearchPresence int

const (
	SearchNotPresent SearchPresence = 0
	SearchV2         SearchPresence = 1 << 0
	SearchV3         SearchPresence = 1 << 1
)

// MarshalJSON encodes the presence in its wire form.
func (p SearchPresence) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON restores a presence from its wire form.
func (p *SearchPresence) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "YesV3AndV2":
		*p = SearchV2 | SearchV3
	case "YesV3":
		*p = SearchV3
	case "YesV2":
		*p = SearchV2
	default:
		*p = SearchNotPresent
	}
	return nil
}

// MarshalYAML encodes the presence in its wire form.
func (p SearchPresence) MarshalYAML() (interface{}, error) {
	return p.String(), nil
}

// String returns the wire form used in telemetry events.
func (p SearchPresence) String() string {
	switch {
	case p&SearchV2 != 0 && p&SearchV3 != 0:
		return "YesV3AndV2"
	case p&SearchV3 != 0:
		return "YesV3"
	case p&SearchV2 != 0:
		return "YesV2"
	default:
		return "NotPresent"
	}
}

// RestoreSummary is the classification result consumed by restore telemetry.
// Local + HTTPv2 + HTTPv3 always equals the number of enabled descriptors
// that produced it.
type RestoreSummary struct {
	Local    int             `json:"local" yaml:"local"`
	HTTPv2   int             `json:"http_v2" yaml:"http_v2"`
	HTTPv3   int             `json:"http_v3" yaml:"http_v3"`
	NuGetOrg RestorePresence `json:"nuget_org" yaml:"nuget_org"`
}

// SearchSummary is the classification result consumed by search telemetry.
type SearchSummary struct {
	Local             int            `json:"local" yaml:"local"`
	HTTPv2            int            `json:"http_v2" yaml:"http_v2"`
	HTTPv3            int            `json:"http_v3" yaml:"http_v3"`
	NuGetOrg          SearchPresence `json:"nuget_org" yaml:"nuget_org"`
	VSOfflinePackages bool           `json:"vs_offline_packages" yaml:"vs_offline_packages"`
	DotnetCuratedFeed bool           `json:"dotnet_curated_feed" yaml:"dotnet_curated_feed"`
}
