package jira

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// dateLayout is the fixed timestamp format the search endpoint uses for
// created/updated, e.g. 2024-03-07T09:15:00.000+0100.
const dateLayout = "2006-01-02T15:04:05.000-0700"

// Issue is the normalized record built from one search hit. A record is
// assembled once and never mutated afterwards; fields absent from the
// response keep their zero value (nil for the timestamps).
type Issue struct {
	ID          string
	Key         string
	Link        string
	Summary     string
	Title       string
	Type        string
	Priority    string
	Status      string
	Resolution  string
	Assignee    string
	Reporter    string
	Created     *time.Time
	Updated     *time.Time
	Version     string
	Components  []string
	FixVersions []string
	Comments    []string
}

// newIssue maps one decoded search hit into a record. Every field is read
// defensively; a timestamp that does not match dateLayout is logged and left
// unset without failing the rest of the record.
func newIssue(node issueNode, baseURL string, logger *slog.Logger) Issue {
	var is Issue

	if node.ID != nil {
		is.ID = *node.ID
	}
	if node.Key != nil {
		is.Key = *node.Key
		is.Link = fmt.Sprintf("%s/browse/%s", baseURL, *node.Key)
	}

	f := node.Fields
	is.Assignee = personName(f.Assignee)
	is.Reporter = personName(f.Reporter)
	is.Created = parseTimestamp(f.Created, "created", logger)
	is.Updated = parseTimestamp(f.Updated, "updated", logger)
	is.Type = nodeName(f.IssueType)
	is.Priority = nodeName(f.Priority)
	is.Resolution = nodeName(f.Resolution)
	is.Status = nodeName(f.Status)
	is.Components = names(f.Components)
	is.FixVersions = names(f.FixVersions)
	is.Version = joinVersionNames(f.Versions)

	if f.Comment != nil {
		for _, c := range f.Comment.Comments {
			is.Comments = append(is.Comments, c.Body)
		}
	}
	if f.Summary != nil {
		is.Summary = *f.Summary
	}
	if f.Title != nil {
		is.Title = *f.Title
	}

	return is
}

// personName prefers the display name and falls back to the login name.
func personName(p *personNode) string {
	if p == nil {
		return ""
	}
	if p.DisplayName != nil {
		return *p.DisplayName
	}
	if p.Name != nil {
		return *p.Name
	}
	return ""
}

func nodeName(n *namedNode) string {
	if n == nil {
		return ""
	}
	return n.Name
}

func names(nodes []namedNode) []string {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Name)
	}
	return out
}

// joinVersionNames flattens the affected versions into one comma-joined
// string. An empty list leaves the attribute unset, not "".
func joinVersionNames(nodes []namedNode) string {
	if len(nodes) == 0 {
		return ""
	}
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		parts = append(parts, n.Name)
	}
	return strings.Join(parts, ", ")
}

func parseTimestamp(raw *string, field string, logger *slog.Logger) *time.Time {
	if raw == nil {
		return nil
	}
	t, err := time.Parse(dateLayout, *raw)
	if err != nil {
		logger.Warn("invalid issue date", slog.String("field", field), slog.String("value", *raw))
		return nil
	}
	return &t
}

// FilterByFixVersion keeps only the records whose fix versions include the
// given version name. Used when the report is limited to the current release.
func FilterByFixVersion(issues []Issue, version string) []Issue {
	if version == "" {
		return issues
	}
	filtered := make([]Issue, 0, len(issues))
	for _, is := range issues {
		for _, fv := range is.FixVersions {
			if fv == version {
				filtered = append(filtered, is)
				break
			}
		}
	}
	return filtered
}
