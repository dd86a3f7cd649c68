package jira

import (
	"errors"
	"fmt"
)

// ErrInvalidBrowseURL indicates an issue management URL without a /browse
// segment, from which neither the server base nor the project key can be
// derived.
var ErrInvalidBrowseURL = errors.New("jira: issue management URL has no /browse segment")

// UnsupportedServerError is returned when the serverInfo probe does not answer
// with 200 OK, meaning the configured server does not speak version 3 of the
// REST API.
type UnsupportedServerError struct {
	StatusCode int
}

func (e *UnsupportedServerError) Error() string {
	return fmt.Sprintf("jira: server does not support REST API v3 (serverInfo returned %d)", e.StatusCode)
}

// QueryError is returned when the search call is rejected. Messages holds
// whatever the server reported in its JSON error body; it is empty when the
// body was not JSON.
type QueryError struct {
	StatusCode int
	Messages   []string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("jira: failed to query issues; response %d", e.StatusCode)
}
