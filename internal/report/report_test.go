package report

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/ylchen07/jira-changes/internal/jira"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(new(bytes.Buffer), nil))
}

func TestRenderTable(t *testing.T) {
	t.Parallel()

	created := time.Date(2024, 3, 7, 9, 15, 0, 0, time.UTC)
	issues := []jira.Issue{
		{Key: "DOG-1", Summary: "Leash breaks", Status: "Closed", Created: &created},
		{Key: "DOG-2", Summary: "Collar too tight", Status: "Open"},
	}

	r := NewRenderer("Key,Summary,Status,Created", testLogger())

	var buf bytes.Buffer
	if err := r.Render(&buf, issues); err != nil {
		t.Fatalf("render: %v", err)
	}

	want := "| Key | Summary | Status | Created |\n" +
		"| --- | --- | --- | --- |\n" +
		"| DOG-1 | Leash breaks | Closed | 2024-03-07 |\n" +
		"| DOG-2 | Collar too tight | Open |  |\n"
	if buf.String() != want {
		t.Fatalf("unexpected output:\n%q\nwant:\n%q", buf.String(), want)
	}
}

func TestRenderEmpty(t *testing.T) {
	t.Parallel()

	r := NewRenderer("", testLogger())

	var buf bytes.Buffer
	if err := r.Render(&buf, nil); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "No issues found.") {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestNewRendererDropsUnknownColumns(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	r := NewRenderer("Key,Bogus,Status", logger)
	if len(r.columns) != 2 || r.columns[0] != "Key" || r.columns[1] != "Status" {
		t.Fatalf("unexpected columns: %v", r.columns)
	}
	if !strings.Contains(buf.String(), "Bogus") {
		t.Fatalf("expected warning naming the unknown column, got %q", buf.String())
	}
}

func TestNewRendererFallsBackToDefaults(t *testing.T) {
	t.Parallel()

	r := NewRenderer("Bogus,Nope", testLogger())
	if strings.Join(r.columns, ",") != DefaultColumns {
		t.Fatalf("unexpected fallback columns: %v", r.columns)
	}
}

func TestRenderAllColumns(t *testing.T) {
	t.Parallel()

	updated := time.Date(2024, 3, 8, 10, 0, 0, 0, time.UTC)
	issues := []jira.Issue{{
		ID:          "10001",
		Key:         "DOG-1",
		Summary:     "Leash breaks",
		Type:        "Bug",
		Priority:    "Major",
		Reporter:    "grace",
		Assignee:    "ada",
		Resolution:  "Fixed",
		Status:      "Closed",
		Updated:     &updated,
		Version:     "1.0, 1.0.1",
		Components:  []string{"harness", "collar"},
		FixVersions: []string{"1.1"},
	}}

	r := NewRenderer("Id,Type,Priority,Reporter,Component,Fix Version,Version,Updated", testLogger())

	var buf bytes.Buffer
	if err := r.Render(&buf, issues); err != nil {
		t.Fatalf("render: %v", err)
	}

	row := "| 10001 | Bug | Major | grace | harness, collar | 1.1 | 1.0, 1.0.1 | 2024-03-08 |"
	if !strings.Contains(buf.String(), row) {
		t.Fatalf("output missing row %q:\n%s", row, buf.String())
	}
}
