package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the full application configuration loaded from file/env.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Jira   JiraConfig   `mapstructure:"jira"`
	Report ReportConfig `mapstructure:"report"`
}

// ServerConfig holds application-level options.
type ServerConfig struct {
	LogLevel string `mapstructure:"log_level"`
}

// JiraConfig describes the tracker connection and the query facets.
type JiraConfig struct {
	// URL is the issue "browse" URL, e.g. https://host/browse/KEY.
	URL      string `mapstructure:"url"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`

	MaxEntries          int    `mapstructure:"max_entries"`
	ConnectionTimeoutMS int    `mapstructure:"connection_timeout_ms"`
	ResponseTimeoutMS   int    `mapstructure:"response_timeout_ms"`
	Locale              string `mapstructure:"locale"`

	Version            string `mapstructure:"version"`
	VersionPrefix      string `mapstructure:"version_prefix"`
	OnlyCurrentVersion bool   `mapstructure:"only_current_version"`

	Proxy   ProxyConfig  `mapstructure:"proxy"`
	Filters FilterConfig `mapstructure:"filters"`
}

// ProxyConfig describes an optional HTTP proxy. NonProxyHosts is a
// |-separated pattern list in the classic format.
type ProxyConfig struct {
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	User          string `mapstructure:"user"`
	Password      string `mapstructure:"password"`
	NonProxyHosts string `mapstructure:"non_proxy_hosts"`
}

// FilterConfig carries the query facets, comma-separated where multiple
// values are allowed. All fields are optional.
type FilterConfig struct {
	Statuses        string `mapstructure:"statuses"`
	Resolutions     string `mapstructure:"resolutions"`
	Priorities      string `mapstructure:"priorities"`
	ComponentIDs    string `mapstructure:"component_ids"`
	FixVersionIDs   string `mapstructure:"fix_version_ids"`
	Types           string `mapstructure:"types"`
	Filter          string `mapstructure:"filter"`
	SortColumnNames string `mapstructure:"sort_column_names"`
}

// ReportConfig controls the rendered output.
type ReportConfig struct {
	// Columns selects the report columns, comma-separated, in order.
	Columns string `mapstructure:"columns"`
}

// Load reads configuration from the provided directory or file and from
// JIRA_CHANGES_* environment variables.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if path != "" {
		info, err := os.Stat(path)
		if err == nil && info.IsDir() {
			v.AddConfigPath(path)
		} else {
			v.SetConfigFile(path)
		}
	} else {
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("jira_changes")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.log_level", "info")
	v.SetDefault("jira.max_entries", 100)
	v.SetDefault("jira.connection_timeout_ms", 36000)
	v.SetDefault("jira.response_timeout_ms", 36000)
	v.SetDefault("jira.locale", "en")
	v.SetDefault("report.columns", "Key,Summary,Status,Resolution,Assignee")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	cfg.resolveCredentials()

	return cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Jira.URL) == "" {
		return fmt.Errorf("config: no URL set in issue management configuration; no report can be generated")
	}

	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}

	return nil
}

// resolveCredentials falls back to ~/.netrc when no credentials are
// configured, keyed by the tracker host.
func (c *Config) resolveCredentials() {
	if c.Jira.User != "" || c.Jira.Password != "" {
		return
	}

	parsed, err := url.Parse(c.Jira.URL)
	if err != nil {
		return
	}

	login, password, ok := lookupNetrc(parsed.Hostname())
	if ok {
		c.Jira.User = login
		c.Jira.Password = password
	}
}
