// Package logging builds the structured logger shared by the jira-changes
// command and the download pipeline.
package logging

import (
	"io"
	"log/slog"
	"strings"
)

// New creates a JSON slog.Logger writing to w at the provided level. Unknown
// level strings fall back to info.
func New(w io.Writer, level string) *slog.Logger {
	l := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	}

	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: l})
	return slog.New(handler)
}
