package atlassian

import (
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// TransportConfig carries the per-call transport settings. Nothing here is
// process-global: every download call assembles its own transport from the
// configuration in force at that moment.
type TransportConfig struct {
	// ConnectionTimeout bounds connection establishment (dialer).
	ConnectionTimeout time.Duration
	// ResponseTimeout bounds the whole request/response exchange.
	ResponseTimeout time.Duration
	Proxy           *ProxyConfig
}

// ProxyConfig describes an HTTP proxy plus the hosts that must bypass it.
type ProxyConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	// NonProxyHosts are matched against the target host; * wildcards the
	// start and/or end of a pattern.
	NonProxyHosts []string
}

const (
	defaultConnectionTimeout = 36 * time.Second
	defaultResponseTimeout   = 36 * time.Second
)

// NewTransport builds a tuned http.Transport honoring the proxy and
// connection-timeout settings.
func NewTransport(cfg TransportConfig) *http.Transport {
	connTimeout := cfg.ConnectionTimeout
	if connTimeout <= 0 {
		connTimeout = defaultConnectionTimeout
	}

	return &http.Transport{
		Proxy: proxyFunc(cfg.Proxy),

		DialContext: (&net.Dialer{
			Timeout:   connTimeout,
			KeepAlive: 60 * time.Second,
		}).DialContext,

		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}

// NewHTTPClient builds the http.Client for a single download call. A non-nil
// rt (typically the transport from NewTransport wrapped with auth) overrides
// the default assembly.
func NewHTTPClient(cfg TransportConfig, rt http.RoundTripper) *http.Client {
	if rt == nil {
		rt = NewTransport(cfg)
	}
	respTimeout := cfg.ResponseTimeout
	if respTimeout <= 0 {
		respTimeout = defaultResponseTimeout
	}
	return &http.Client{
		Timeout:   respTimeout,
		Transport: rt,
	}
}

// proxyFunc resolves the proxy for each request: the configured proxy unless
// the target host matches a non-proxy pattern. Without configuration the
// environment proxy settings apply.
func proxyFunc(p *ProxyConfig) func(*http.Request) (*url.URL, error) {
	if p == nil || p.Host == "" {
		return http.ProxyFromEnvironment
	}

	proxyURL := &url.URL{
		Scheme: "http",
		Host:   net.JoinHostPort(p.Host, fmt.Sprintf("%d", p.Port)),
	}
	if p.User != "" {
		proxyURL.User = url.UserPassword(p.User, p.Password)
	}

	return func(req *http.Request) (*url.URL, error) {
		host := req.URL.Hostname()
		for _, pattern := range p.NonProxyHosts {
			if matchNonProxyHost(pattern, host) {
				return nil, nil
			}
		}
		return proxyURL, nil
	}
}

// matchNonProxyHost matches a host against one non-proxy pattern,
// case-insensitively. A leading or trailing * wildcards that end of the
// pattern.
func matchNonProxyHost(pattern, host string) bool {
	pattern = strings.ToLower(strings.TrimSpace(pattern))
	host = strings.ToLower(host)
	if pattern == "" {
		return false
	}

	leading := strings.HasPrefix(pattern, "*")
	trailing := strings.HasSuffix(pattern, "*")
	trimmed := strings.Trim(pattern, "*")

	switch {
	case leading && trailing:
		return strings.Contains(host, trimmed)
	case leading:
		return strings.HasSuffix(host, trimmed)
	case trailing:
		return strings.HasPrefix(host, trimmed)
	default:
		return pattern == host
	}
}
