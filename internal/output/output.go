package output

import (
	"fmt"
	"strings"

	"github.com/feedlens/feedlens/internal/core"
	"github.com/feedlens/feedlens/internal/core/classify"
)

// Format represents an output format.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// Formatter renders source reports.
type Formatter interface {
	FormatReport(report *Report) (string, error)
}

// ParseFormat validates and normalizes a format string.
func ParseFormat(value string) (Format, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch normalized {
	case "", string(FormatTable):
		return FormatTable, nil
	case string(FormatJSON):
		return FormatJSON, nil
	case string(FormatYAML):
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", value)
	}
}

// NewFormatter returns a formatter for the requested format.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: true}
	case FormatYAML:
		return &YAMLFormatter{}
	default:
		return &TableFormatter{}
	}
}

// Row describes one configured source in a report.
type Row struct {
	Name     string `json:"name" yaml:"name"`
	Location string `json:"location" yaml:"location"`
	Category string `json:"category" yaml:"category"`
	NuGetOrg bool   `json:"nuget_org" yaml:"nuget_org"`
}

// Report is the renderable view of a source configuration: one row per
// source plus the restore and search summaries over the enabled ones.
type Report struct {
	Rows    []Row               `json:"sources" yaml:"sources"`
	Restore core.RestoreSummary `json:"restore" yaml:"restore"`
	Search  core.SearchSummary  `json:"search" yaml:"search"`
}

// BuildReport classifies the descriptors and assembles the report.
func BuildReport(descriptors []core.SourceDescriptor) *Report {
	report := &Report{
		Rows:    make([]Row, 0, len(descriptors)),
		Restore: classify.ForRestore(descriptors),
		Search:  classify.ForSearch(descriptors),
	}

	for _, descriptor := range descriptors {
		report.Rows = append(report.Rows, Row{
			Name:     descriptor.Name,
			Location: descriptor.Location,
			Category: categorize(descriptor),
			NuGetOrg: classify.IsNuGetOrgDomainOrSubdomain(descriptor),
		})
	}

	return report
}

func categorize(descriptor core.SourceDescriptor) string {
	switch {
	case !descriptor.Enabled:
		return "disabled"
	case classify.IsServiceIndex(descriptor):
		return "http-v3"
	case descriptor.IsHTTP:
		return "http-v2"
	default:
		return "local"
	}
}
