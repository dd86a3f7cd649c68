package report

import (
	"io"
	"log/slog"
	"strings"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"

	"github.com/ylchen07/jira-changes/internal/jira"
)

// validColumns is the legacy column set a report may select from.
var validColumns = map[string]struct{}{
	"Assignee":    {},
	"Component":   {},
	"Created":     {},
	"Fix Version": {},
	"Id":          {},
	"Key":         {},
	"Priority":    {},
	"Reporter":    {},
	"Resolution":  {},
	"Status":      {},
	"Summary":     {},
	"Type":        {},
	"Updated":     {},
	"Version":     {},
}

// DefaultColumns is the column selection used when none is configured.
const DefaultColumns = "Key,Summary,Status,Resolution,Assignee"

const dateFormat = "2006-01-02"

const reportTemplate = `{{ if .Rows -}}
| {{ join " | " .Columns }} |
| {{ join " | " .Separators }} |
{{ range .Rows -}}
| {{ join " | " . }} |
{{ end -}}
{{ else -}}
No issues found.
{{ end -}}`

// Renderer writes issue records as a Markdown table with a configurable
// column selection.
type Renderer struct {
	columns []string
	tmpl    *template.Template
}

type reportData struct {
	Columns    []string
	Separators []string
	Rows       [][]string
}

// NewRenderer parses a comma-separated column selection. Unknown column names
// are logged and dropped; an empty selection falls back to DefaultColumns.
func NewRenderer(columnNames string, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	if strings.TrimSpace(columnNames) == "" {
		columnNames = DefaultColumns
	}

	var columns []string
	for _, name := range strings.Split(columnNames, ",") {
		name = strings.TrimSpace(name)
		if _, ok := validColumns[name]; !ok {
			logger.Warn("ignoring unknown report column", slog.String("column", name))
			continue
		}
		columns = append(columns, name)
	}
	if len(columns) == 0 {
		columns = strings.Split(DefaultColumns, ",")
	}

	tmpl := template.Must(template.New("report").Funcs(sprig.FuncMap()).Parse(reportTemplate))

	return &Renderer{columns: columns, tmpl: tmpl}
}

// Render writes the records as one table, a row per issue, in batch order.
func (r *Renderer) Render(w io.Writer, issues []jira.Issue) error {
	data := reportData{
		Columns:    r.columns,
		Separators: make([]string, len(r.columns)),
		Rows:       make([][]string, 0, len(issues)),
	}
	for i := range data.Separators {
		data.Separators[i] = "---"
	}

	for _, is := range issues {
		row := make([]string, 0, len(r.columns))
		for _, col := range r.columns {
			row = append(row, cellValue(col, is))
		}
		data.Rows = append(data.Rows, row)
	}

	return r.tmpl.Execute(w, data)
}

func cellValue(column string, is jira.Issue) string {
	switch column {
	case "Assignee":
		return is.Assignee
	case "Component":
		return strings.Join(is.Components, ", ")
	case "Created":
		return formatDate(is.Created)
	case "Fix Version":
		return strings.Join(is.FixVersions, ", ")
	case "Id":
		return is.ID
	case "Key":
		return is.Key
	case "Priority":
		return is.Priority
	case "Reporter":
		return is.Reporter
	case "Resolution":
		return is.Resolution
	case "Status":
		return is.Status
	case "Summary":
		return is.Summary
	case "Type":
		return is.Type
	case "Updated":
		return formatDate(is.Updated)
	case "Version":
		return is.Version
	}
	return ""
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateFormat)
}
