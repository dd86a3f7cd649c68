package jira

import (
	"log/slog"
	"net/url"
	"strings"
)

// QueryBuilder assembles a JQL search expression from facet values. Facet
// methods accumulate typed clauses in call order; nothing is rendered until
// Build, which joins the clauses with AND, appends the ORDER BY suffix and
// optionally percent-encodes the result.
//
// A non-blank raw Filter replaces every accumulated clause verbatim; the sort
// clause is still appended after it.
type QueryBuilder struct {
	clauses   []clause
	sort      []sortColumn
	filter    string
	urlEncode bool
	logger    *slog.Logger
}

// clause is one predicate: either key=value or key IN (v1,v2,...).
type clause struct {
	key    string
	values []string
	multi  bool
}

type sortColumn struct {
	name string
	desc bool
}

// NewQueryBuilder returns a builder that percent-encodes its output by
// default. Callers embedding the query in a JSON body must disable encoding
// with URLEncode(false); the body has its own escaping and double encoding
// breaks the query.
func NewQueryBuilder(logger *slog.Logger) *QueryBuilder {
	if logger == nil {
		logger = slog.Default()
	}
	return &QueryBuilder{urlEncode: true, logger: logger}
}

// URLEncode controls whether Build percent-encodes the final expression as a
// single UTF-8 query value.
func (b *QueryBuilder) URLEncode(encode bool) *QueryBuilder {
	b.urlEncode = encode
	return b
}

// Filter sets a raw JQL predicate that overrides all other facets.
func (b *QueryBuilder) Filter(filter string) *QueryBuilder {
	b.filter = filter
	return b
}

// Project restricts the query to a single project key.
func (b *QueryBuilder) Project(project string) *QueryBuilder {
	return b.addValue("project", project)
}

// FixVersion restricts the query to a single fix version by name.
func (b *QueryBuilder) FixVersion(fixVersion string) *QueryBuilder {
	return b.addValue("fixVersion", fixVersion)
}

// FixVersionIDs restricts the query to the given fix version ids.
func (b *QueryBuilder) FixVersionIDs(fixVersionIDs ...string) *QueryBuilder {
	return b.addValues("fixVersion", fixVersionIDs)
}

// Statuses restricts the query to the given statuses.
func (b *QueryBuilder) Statuses(statuses ...string) *QueryBuilder {
	return b.addValues("status", statuses)
}

// Priorities restricts the query to the given priorities.
func (b *QueryBuilder) Priorities(priorities ...string) *QueryBuilder {
	return b.addValues("priority", priorities)
}

// Resolutions restricts the query to the given resolutions.
func (b *QueryBuilder) Resolutions(resolutions ...string) *QueryBuilder {
	return b.addValues("resolution", resolutions)
}

// Components restricts the query to the given component ids.
func (b *QueryBuilder) Components(components ...string) *QueryBuilder {
	return b.addValues("component", components)
}

// Types restricts the query to the given issue types.
func (b *QueryBuilder) Types(types ...string) *QueryBuilder {
	return b.addValues("type", types)
}

// SortColumnNames parses a comma-separated list of "column [asc|desc]" tokens
// into the ORDER BY clause. Column names are lowercased with internal spaces
// removed; a missing direction suffix means ascending.
func (b *QueryBuilder) SortColumnNames(sortColumnNames string) *QueryBuilder {
	if strings.TrimSpace(sortColumnNames) == "" {
		return b
	}
	for _, token := range strings.Split(sortColumnNames, ",") {
		name := strings.ToLower(strings.TrimSpace(token))
		desc := false
		switch {
		case strings.HasSuffix(name, "desc"):
			desc = true
			name = strings.TrimSpace(name[:len(name)-4])
		case strings.HasSuffix(name, "asc"):
			name = strings.TrimSpace(name[:len(name)-3])
		}
		name = strings.ReplaceAll(name, " ", "")
		b.sort = append(b.sort, sortColumn{name: name, desc: desc})
	}
	return b
}

// Build renders the accumulated facets into the final JQL string.
func (b *QueryBuilder) Build() string {
	var jql string
	if strings.TrimSpace(b.filter) != "" {
		jql = b.filter + b.renderOrderBy()
	} else {
		jql = b.renderPredicate() + b.renderOrderBy()
	}

	if b.urlEncode {
		b.logger.Debug("encoding JQL query", slog.String("jql", jql))
		encoded := url.QueryEscape(jql)
		b.logger.Debug("encoded JQL query", slog.String("jql", encoded))
		return encoded
	}
	return jql
}

func (b *QueryBuilder) renderPredicate() string {
	var sb strings.Builder
	for _, c := range b.clauses {
		if sb.Len() > 0 {
			sb.WriteString(" AND ")
		}
		sb.WriteString(c.key)
		if !c.multi {
			sb.WriteByte('=')
			sb.WriteString(trimAndQuoteValue(c.values[0]))
			continue
		}
		sb.WriteString(" IN (")
		for i, v := range c.values {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(trimAndQuoteValue(v))
		}
		sb.WriteByte(')')
	}
	return sb.String()
}

// renderOrderBy keeps the legacy shape: a leading space, single comma between
// columns and an explicit ASC/DESC per column. The leading space is the
// separator between the predicate (or raw filter) and the sort clause.
func (b *QueryBuilder) renderOrderBy() string {
	if len(b.sort) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(" ORDER BY ")
	for i, col := range b.sort {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(col.name)
		if col.desc {
			sb.WriteString(" DESC")
		} else {
			sb.WriteString(" ASC")
		}
	}
	return sb.String()
}

func (b *QueryBuilder) addValue(key, value string) *QueryBuilder {
	if strings.TrimSpace(value) == "" {
		return b
	}
	b.clauses = append(b.clauses, clause{key: key, values: []string{value}})
	return b
}

func (b *QueryBuilder) addValues(key string, values []string) *QueryBuilder {
	if len(values) == 0 {
		return b
	}
	b.clauses = append(b.clauses, clause{key: key, values: values, multi: true})
	return b
}

// trimAndQuoteValue wraps a trimmed value in double quotes when it contains a
// space or a period; the search grammar requires quoting for both. Either way
// the emitted token is the trimmed value.
func trimAndQuoteValue(value string) string {
	trimmed := strings.TrimSpace(value)
	if strings.ContainsAny(trimmed, " .") {
		return `"` + trimmed + `"`
	}
	return trimmed
}
