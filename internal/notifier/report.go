package notifier

import (
	"fmt"
	"html/template"
	"sort"
	"strings"
	"time"

	"github.com/pfrederiksen/schedule-watch/internal/schedule"
)

// maxRowsPerSection caps each added/removed table in the report so the email
// stays readable; the report notes how many rows were cut.
const maxRowsPerSection = 20

type reportSection struct {
	Heading     string
	HeaderClass string
	Columns     []string
	Rows        [][]string
	Total       int
}

func (s reportSection) Truncated() bool {
	return s.Total > len(s.Rows)
}

type reportData struct {
	GeneratedAt string
	TotalRows   int
	SourceURL   string
	Sections    []reportSection
}

func (d reportData) HasChanges() bool {
	return len(d.Sections) > 0
}

var reportTemplate = template.Must(template.New("report").Parse(`<html>
  <head>
    <style>
      table { border-collapse: collapse; width: 100%; margin-bottom: 20px; }
      th { background-color: #4CAF50; color: white; padding: 12px; text-align: left; border: 1px solid #ddd; }
      td { padding: 10px; text-align: left; border: 1px solid #ddd; }
      tr:nth-child(even) { background-color: #f2f2f2; }
      th.added { background-color: #4CAF50; }
      th.removed { background-color: #f44336; }
    </style>
  </head>
  <body>
    <h2>Schedule Update</h2>
    <p><strong>Update Time:</strong> {{.GeneratedAt}}</p>
    <p><strong>Total Records:</strong> {{.TotalRows}}</p>
    <p><strong>Website:</strong> <a href="{{.SourceURL}}">{{.SourceURL}}</a></p>
    <hr>
{{- range .Sections}}
    <h3>{{.Heading}} ({{.Total}})</h3>
    <table>
      <tr>
{{- $class := .HeaderClass}}
{{- range .Columns}}
        <th class="{{$class}}">{{.}}</th>
{{- end}}
      </tr>
{{- range .Rows}}
      <tr>
{{- range .}}
        <td>{{.}}</td>
{{- end}}
      </tr>
{{- end}}
    </table>
{{- if .Truncated}}
    <p><em>Showing first {{len .Rows}} of {{.Total}} entries</em></p>
{{- end}}
{{- end}}
{{- if not .HasChanges}}
    <p>No changes detected in this run.</p>
{{- end}}
    <hr>
    <p>This is an automated notification from the schedule monitoring system.</p>
  </body>
</html>
`))

// BuildReport renders the HTML change report: run timestamp, total row count,
// source link, then the added and removed rows (each capped at
// maxRowsPerSection).
func BuildReport(changes *schedule.ChangeSet, table *schedule.Table, sourceURL string, now time.Time) (string, error) {
	data := reportData{
		GeneratedAt: now.Format("2006-01-02 15:04:05"),
		TotalRows:   len(table.Rows),
		SourceURL:   sourceURL,
	}

	if changes != nil && len(changes.Added) > 0 {
		data.Sections = append(data.Sections,
			buildSection("New Entries Added", "added", table.Columns, changes.Added))
	}
	if changes != nil && len(changes.Removed) > 0 {
		data.Sections = append(data.Sections,
			buildSection("Entries Removed", "removed", table.Columns, changes.Removed))
	}

	var out strings.Builder
	if err := reportTemplate.Execute(&out, data); err != nil {
		return "", fmt.Errorf("rendering report: %w", err)
	}
	return out.String(), nil
}

func buildSection(heading, headerClass string, columns []string, rows []schedule.Row) reportSection {
	columns = sectionColumns(columns, rows)
	section := reportSection{
		Heading:     heading,
		HeaderClass: headerClass,
		Columns:     columns,
		Total:       len(rows),
	}
	for _, row := range rows {
		if len(section.Rows) == maxRowsPerSection {
			break
		}
		section.Rows = append(section.Rows, row.Cells(columns))
	}
	return section
}

// sectionColumns renders each section against the field names its rows
// actually carry. Removed rows come from the previous snapshot and can keep
// headers the page no longer uses; the fetched table's column order is
// preferred for the fields it still covers, with the rows' leftover fields
// appended in sorted order.
func sectionColumns(fallback []string, rows []schedule.Row) []string {
	present := make(map[string]bool)
	for _, row := range rows {
		for field := range row {
			present[field] = true
		}
	}

	columns := make([]string, 0, len(present))
	for _, col := range fallback {
		if present[col] {
			columns = append(columns, col)
			delete(present, col)
		}
	}
	rest := make([]string, 0, len(present))
	for field := range present {
		rest = append(rest, field)
	}
	sort.Strings(rest)
	return append(columns, rest...)
}
