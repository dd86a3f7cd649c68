package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ylchen07/jira-changes/internal/atlassian"
	"github.com/ylchen07/jira-changes/internal/config"
	"github.com/ylchen07/jira-changes/internal/jira"
	"github.com/ylchen07/jira-changes/internal/report"
	"github.com/ylchen07/jira-changes/pkg/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgPath string
	var output string

	cmd := &cobra.Command{
		Use:           "jira-changes",
		Short:         "Fetch issues for a release from a Jira server and render a change report",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cfgPath, output)
		},
	}

	cmd.Flags().StringVar(&cfgPath, "config", "", "path to configuration directory or file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the report to this file instead of stdout")

	return cmd
}

func run(ctx context.Context, cfgPath, output string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	logger := logging.New(os.Stderr, cfg.Server.LogLevel)

	downloader := jira.NewDownloader(downloaderOptions(cfg), newHTTPClient(cfg), logger)

	issues, err := downloader.FetchIssues(ctx)
	if err != nil {
		// Legacy behavior: a failed download degrades to an empty report
		// instead of failing the build.
		logger.Warn("failed to download issues", slog.Any("error", err))
		issues = nil
	}

	var out io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	renderer := report.NewRenderer(cfg.Report.Columns, logger)
	return renderer.Render(out, issues)
}

func newHTTPClient(cfg *config.Config) *http.Client {
	tcfg := atlassian.TransportConfig{
		ConnectionTimeout: time.Duration(cfg.Jira.ConnectionTimeoutMS) * time.Millisecond,
		ResponseTimeout:   time.Duration(cfg.Jira.ResponseTimeoutMS) * time.Millisecond,
		Proxy:             proxyConfig(cfg.Jira.Proxy),
	}

	return atlassian.NewHTTPClient(tcfg, atlassian.NewTransport(tcfg))
}

func proxyConfig(p config.ProxyConfig) *atlassian.ProxyConfig {
	if p.Host == "" {
		return nil
	}
	return &atlassian.ProxyConfig{
		Host:          p.Host,
		Port:          p.Port,
		User:          p.User,
		Password:      p.Password,
		NonProxyHosts: splitNonProxyHosts(p.NonProxyHosts),
	}
}

func splitNonProxyHosts(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "|")
}

func downloaderOptions(cfg *config.Config) jira.Options {
	return jira.Options{
		BrowseURL:          cfg.Jira.URL,
		User:               cfg.Jira.User,
		Password:           cfg.Jira.Password,
		MaxEntries:         cfg.Jira.MaxEntries,
		Locale:             cfg.Jira.Locale,
		Version:            cfg.Jira.Version,
		VersionPrefix:      cfg.Jira.VersionPrefix,
		OnlyCurrentVersion: cfg.Jira.OnlyCurrentVersion,
		FixVersionIDs:      cfg.Jira.Filters.FixVersionIDs,
		Statuses:           cfg.Jira.Filters.Statuses,
		Priorities:         cfg.Jira.Filters.Priorities,
		Resolutions:        cfg.Jira.Filters.Resolutions,
		ComponentIDs:       cfg.Jira.Filters.ComponentIDs,
		Types:              cfg.Jira.Filters.Types,
		Filter:             cfg.Jira.Filters.Filter,
		SortColumnNames:    cfg.Jira.Filters.SortColumnNames,
	}
}
