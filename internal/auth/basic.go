// Package auth derives the credential material attached to tracker requests.
package auth

import (
	"encoding/base64"
	"strings"
)

// BasicHeader returns the Authorization value for HTTP Basic authentication.
// Authentication is only considered configured when both the user and the
// secret are non-blank; otherwise the empty string is returned and the request
// goes out unauthenticated.
func BasicHeader(user, secret string) string {
	if strings.TrimSpace(user) == "" || strings.TrimSpace(secret) == "" {
		return ""
	}
	token := base64.StdEncoding.EncodeToString([]byte(user + ":" + secret))
	return "Basic " + token
}
