package output

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/feedlens/feedlens/internal/core"
)

func descriptors() []core.SourceDescriptor {
	return []core.SourceDescriptor{
		core.NewSourceDescriptor("nuget.org", "https://api.nuget.org/v3/index.json", true, nil),
		core.NewSourceDescriptor("legacy", "https://www.nuget.org/api/v2", true, nil),
		core.NewSourceDescriptor("local", `C:\feeds\local`, true, nil),
		core.NewSourceDescriptor("off", "https://example.com/v2", false, nil),
	}
}

func TestParseFormat(t *testing.T) {
	format, err := ParseFormat("")
	require.NoError(t, err)
	require.Equal(t, FormatTable, format)

	format, err = ParseFormat(" JSON ")
	require.NoError(t, err)
	require.Equal(t, FormatJSON, format)

	format, err = ParseFormat("yaml")
	require.NoError(t, err)
	require.Equal(t, FormatYAML, format)

	_, err = ParseFormat("xml")
	require.Error(t, err)
}

func TestBuildReportCategories(t *testing.T) {
	report := BuildReport(descriptors())
	require.Len(t, report.Rows, 4)

	require.Equal(t, "http-v3", report.Rows[0].Category)
	require.True(t, report.Rows[0].NuGetOrg)
	require.Equal(t, "http-v2", report.Rows[1].Category)
	require.Equal(t, "local", report.Rows[2].Category)
	require.Equal(t, "disabled", report.Rows[3].Category)

	require.Equal(t, 1, report.Restore.Local)
	require.Equal(t, 1, report.Restore.HTTPv2)
	require.Equal(t, 1, report.Restore.HTTPv3)
	require.Equal(t, core.RestoreYesV3, report.Restore.NuGetOrg)
	require.Equal(t, "YesV3AndV2", report.Search.NuGetOrg.String())
}

func TestTableFormatter(t *testing.T) {
	report := BuildReport(descriptors())

	rendered, err := (&TableFormatter{}).FormatReport(report)
	require.NoError(t, err)
	require.Contains(t, rendered, "nuget.org")
	require.Contains(t, rendered, "http-v3")

	// go-pretty upper-cases header and footer cells
	lowered := strings.ToLower(rendered)
	require.Contains(t, lowered, "yesv3")
	require.Contains(t, lowered, "1 local, 1 http-v2, 1 http-v3")
}

func TestJSONFormatter(t *testing.T) {
	report := BuildReport(descriptors())

	rendered, err := (&JSONFormatter{Indent: true}).FormatReport(report)
	require.NoError(t, err)

	decoded := &Report{}
	require.NoError(t, json.Unmarshal([]byte(rendered), decoded))
	require.Len(t, decoded.Rows, 4)
	require.Equal(t, core.RestoreYesV3, decoded.Restore.NuGetOrg)
}

func TestYAMLFormatter(t *testing.T) {
	report := BuildReport(descriptors())

	rendered, err := (&YAMLFormatter{}).FormatReport(report)
	require.NoError(t, err)
	require.Contains(t, rendered, "sources:")
	require.Contains(t, rendered, "nuget_org: YesV3AndV2")
}

func TestFormattersNilReport(t *testing.T) {
	for _, formatter := range []Formatter{&TableFormatter{}, &JSONFormatter{}, &YAMLFormatter{}} {
		rendered, err := formatter.FormatReport(nil)
		require.NoError(t, err)
		require.Empty(t, rendered)
	}
}
