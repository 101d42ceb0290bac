package output

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
)

// TableFormatter renders reports as an ASCII table.
type TableFormatter struct{}

// FormatReport renders a report as a table with a summary footer.
func (f *TableFormatter) FormatReport(report *Report) (string, error) {
	if report == nil {
		return "", nil
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Name", "Location", "Category", "nuget.org"})

	for _, row := range report.Rows {
		nugetOrg := ""
		if row.NuGetOrg {
			nugetOrg = "yes"
		}
		t.AppendRow(table.Row{
			row.Name,
			row.Location,
			row.Category,
			nugetOrg,
		})
	}

	summary := fmt.Sprintf("%d local, %d http-v2, %d http-v3",
		report.Restore.Local,
		report.Restore.HTTPv2,
		report.Restore.HTTPv3,
	)
	t.AppendFooter(table.Row{
		"",
		"",
		summary,
		string(report.Restore.NuGetOrg),
	})

	rendered := t.Render()

	if report.Search.VSOfflinePackages || report.Search.DotnetCuratedFeed {
		rendered += "\n"
		if report.Search.VSOfflinePackages {
			rendered += "\nVS offline packages cache detected"
		}
		if report.Search.DotnetCuratedFeed {
			rendered += "\nCurated dotnet feed detected"
		}
	}

	return rendered, nil
}
