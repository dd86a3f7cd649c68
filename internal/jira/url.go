package jira

import (
	"fmt"
	"strings"
)

const browseSegment = "/browse"

// ParseBrowseURL splits an issue management "browse" URL of the form
// scheme://host[:port]/.../browse/KEY[/...] into the server base URL
// (everything before /browse) and the project key (the path segment right
// after /browse/). The base URL is returned exactly as configured, without
// trailing-slash or case normalization.
func ParseBrowseURL(browseURL string) (baseURL, project string, err error) {
	idx := strings.Index(browseURL, browseSegment)
	if idx == -1 {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidBrowseURL, browseURL)
	}

	baseURL = browseURL[:idx]

	rest := browseURL[idx+len(browseSegment):]
	rest = strings.TrimPrefix(rest, "/")
	if slash := strings.IndexByte(rest, '/'); slash >= 0 {
		rest = rest[:slash]
	}

	return baseURL, rest, nil
}

// BaseHost returns the scheme://host[:port] part of a server URL, dropping
// any path.
func BaseHost(serverURL string) string {
	// skip past "http://" or "https://"
	if len(serverURL) <= 8 {
		return serverURL
	}
	if idx := strings.IndexByte(serverURL[8:], '/'); idx >= 0 {
		return serverURL[:8+idx]
	}
	return serverURL
}
