package integration

import (
	"os"
	"strings"
	"testing"

	"github.com/ylchen07/jira-changes/internal/jira"
)

// requireIntegration skips the test unless JIRA_CHANGES_INTEGRATION is set.
func requireIntegration(t *testing.T) {
	t.Helper()
	if os.Getenv("JIRA_CHANGES_INTEGRATION") == "" {
		t.Skip("JIRA_CHANGES_INTEGRATION not set; skipping integration tests")
	}
}

// ensureHTTPS adds an https:// prefix to URLs if not already present.
func ensureHTTPS(site string) string {
	trimmed := strings.TrimSpace(site)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return trimmed
	}
	return "https://" + trimmed
}

// optionsFromEnv assembles downloader options from the environment.
func optionsFromEnv() jira.Options {
	return jira.Options{
		BrowseURL:       ensureHTTPS(os.Getenv("JIRA_CHANGES_JIRA_URL")),
		User:            os.Getenv("JIRA_CHANGES_JIRA_USER"),
		Password:        os.Getenv("JIRA_CHANGES_JIRA_PASSWORD"),
		MaxEntries:      10,
		Locale:          "en",
		SortColumnNames: "Key DESC",
	}
}
