// Package logging builds the slog loggers shared by the API and the CLI.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/EleftheriaBatsou/revamp-personal-website/internal/config"
)

const redacted = "[redacted]"

// Keys whose values never reach the log output, matched case-insensitively.
var sensitiveKeys = map[string]bool{
	"token":         true,
	"github_token":  true,
	"authorization": true,
	"password":      true,
	"secret":        true,
}

// New returns the logger for one service, writing to stdout. Every record
// carries service=<service>.
func New(cfg config.LoggingConfig, service string) (*slog.Logger, func() error, error) {
	return NewWriter(cfg, service, os.Stdout)
}

// NewWriter is New with a different console writer. When cfg.File is set the
// records are copied to that file; the returned func closes it.
func NewWriter(cfg config.LoggingConfig, service string, console io.Writer) (*slog.Logger, func() error, error) {
	out, closeOut, err := sink(cfg.File, console)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	opts := &slog.HandlerOptions{
		Level:       parseLevel(cfg.Level),
		AddSource:   true,
		ReplaceAttr: replaceAttr,
	}
	logger := slog.New(newHandler(cfg.Format, out, opts))
	if service != "" {
		logger = logger.With("service", service)
	}
	return logger, closeOut, nil
}

// Component scopes logger to one part of the service.
func Component(logger *slog.Logger, name string) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return logger.With("component", name)
}

func newHandler(format string, w io.Writer, opts *slog.HandlerOptions) slog.Handler {
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

func sink(path string, console io.Writer) (io.Writer, func() error, error) {
	if path == "" {
		return console, func() error { return nil }, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, err
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return io.MultiWriter(console, f), f.Close, nil
}

func replaceAttr(groups []string, a slog.Attr) slog.Attr {
	if sensitiveKeys[strings.ToLower(a.Key)] {
		return slog.String(a.Key, redacted)
	}
	if a.Key == slog.SourceKey && len(groups) == 0 {
		if src, ok := a.Value.Any().(*slog.Source); ok && src != nil {
			return slog.String(slog.SourceKey, fmt.Sprintf("%s:%d", filepath.Base(src.File), src.Line))
		}
	}
	return a
}

func parseLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
