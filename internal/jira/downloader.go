package jira

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ylchen07/jira-changes/internal/atlassian"
	"github.com/ylchen07/jira-changes/internal/auth"
)

const (
	serverInfoPath = "/rest/api/3/serverInfo"
	searchPath     = "/rest/api/3/search"

	// snapshotSuffix marks a development version and is stripped from the
	// computed fix-for version.
	snapshotSuffix = "-SNAPSHOT"
)

// Options configures one download. Comma-separated fields mirror the legacy
// configuration surface; blank fields contribute nothing to the query.
type Options struct {
	// BrowseURL is the issue management URL, e.g. https://host/browse/KEY.
	BrowseURL string

	// User and Password authenticate the search request. Both must be
	// non-blank for it to carry an Authorization header; the capability
	// probe is always unauthenticated.
	User     string
	Password string

	// MaxEntries bounds the result; issues beyond it are simply not
	// returned, there is no follow-up page fetch.
	MaxEntries int

	// Locale is sent as Accept-Language.
	Locale string

	// Version and VersionPrefix yield the fix-for version: prefix+version
	// with a trailing -SNAPSHOT stripped.
	Version       string
	VersionPrefix string

	// OnlyCurrentVersion keeps only issues fixed in the fix-for version.
	OnlyCurrentVersion bool

	FixVersionIDs   string
	Statuses        string
	Priorities      string
	Resolutions     string
	ComponentIDs    string
	Types           string
	Filter          string
	SortColumnNames string
}

// Downloader fetches issues from the server's REST search endpoint and maps
// them into records. It is stateless across calls: each FetchIssues performs
// one serverInfo probe and one search, sequentially, with no retries.
type Downloader struct {
	opts       Options
	httpClient *http.Client
	logger     *slog.Logger
}

// NewDownloader creates a Downloader. The http.Client carries the fully
// assembled transport (proxy, timeouts) for this call; credentials are
// attached per request from the options.
func NewDownloader(opts Options, httpClient *http.Client, logger *slog.Logger) *Downloader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Downloader{
		opts:       opts,
		httpClient: httpClient,
		logger:     logger,
	}
}

// FetchIssues performs the probe and the search and returns the mapped
// records. The call fails as a whole on a malformed browse URL, an
// unsupported server, a rejected query or a transport error; only per-issue
// mapping is tolerant of bad fields.
func (d *Downloader) FetchIssues(ctx context.Context) ([]Issue, error) {
	baseURL, project, err := ParseBrowseURL(d.opts.BrowseURL)
	if err != nil {
		return nil, err
	}

	client := atlassian.NewClient(baseURL, d.httpClient, d.logger)

	if err := d.probe(ctx, client); err != nil {
		return nil, err
	}

	jql := d.buildQuery(project)
	d.logger.Debug("searching issues", slog.String("jql", jql))

	issues, err := d.search(ctx, client, baseURL, jql)
	if err != nil {
		return nil, err
	}

	if d.opts.OnlyCurrentVersion {
		issues = FilterByFixVersion(issues, d.fixFor())
	}
	return issues, nil
}

// probe verifies the server supports version 3 of the REST API before the
// real query is issued. It never carries credentials; authentication only
// applies to the search that follows.
func (d *Downloader) probe(ctx context.Context, client *atlassian.Client) error {
	req, err := client.NewRequest(ctx, http.MethodGet, serverInfoPath, nil)
	if err != nil {
		return err
	}

	if err := client.Do(req, nil); err != nil {
		var apiErr *atlassian.Error
		if errors.As(err, &apiErr) {
			return &UnsupportedServerError{StatusCode: apiErr.StatusCode}
		}
		return fmt.Errorf("jira: reach server: %w", err)
	}
	return nil
}

func (d *Downloader) search(ctx context.Context, client *atlassian.Client, baseURL, jql string) ([]Issue, error) {
	body := searchRequest{
		JQL:        jql,
		MaxResults: d.opts.MaxEntries,
		Fields:     []string{"*all"},
	}

	req, err := client.NewRequest(ctx, http.MethodPost, searchPath, body)
	if err != nil {
		return nil, err
	}
	if d.opts.Locale != "" {
		req.Header.Set("Accept-Language", d.opts.Locale)
		req.Header.Set("X-Force-Accept-Language", "true")
	}
	if header := auth.BasicHeader(d.opts.User, d.opts.Password); header != "" {
		req.Header.Set("Authorization", header)
	}

	var result searchResponse
	if err := client.Do(req, &result); err != nil {
		var apiErr *atlassian.Error
		if errors.As(err, &apiErr) {
			for _, msg := range apiErr.Messages() {
				d.logger.Error(msg)
			}
			return nil, &QueryError{StatusCode: apiErr.StatusCode, Messages: apiErr.Messages()}
		}
		return nil, fmt.Errorf("jira: query issues: %w", err)
	}

	issues := make([]Issue, 0, len(result.Issues))
	for _, node := range result.Issues {
		issues = append(issues, newIssue(node, baseURL, d.logger))
	}
	return issues, nil
}

// buildQuery renders the JQL for this download. Encoding is disabled because
// the query travels inside a JSON body with its own escaping.
func (d *Downloader) buildQuery(project string) string {
	return NewQueryBuilder(d.logger).
		URLEncode(false).
		Project(project).
		FixVersion(d.fixFor()).
		FixVersionIDs(splitList(d.opts.FixVersionIDs)...).
		Statuses(splitList(d.opts.Statuses)...).
		Priorities(splitList(d.opts.Priorities)...).
		Resolutions(splitList(d.opts.Resolutions)...).
		Components(splitList(d.opts.ComponentIDs)...).
		Types(splitList(d.opts.Types)...).
		SortColumnNames(d.opts.SortColumnNames).
		Filter(d.opts.Filter).
		Build()
}

// fixFor computes the release identifier the report is about: the configured
// prefix plus the version, with a development suffix stripped.
func (d *Downloader) fixFor() string {
	version := d.opts.VersionPrefix + d.opts.Version
	return strings.TrimSuffix(version, snapshotSuffix)
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.Split(s, ",")
}
