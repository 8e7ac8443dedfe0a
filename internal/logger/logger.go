// Package logger builds the process-wide slog logger.
package logger

import (
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/lmittmann/tint"
)

// New creates a structured logger writing to out: a tinted text handler by
// default, a JSON handler when format is "json". The logger is also installed
// as the slog default.
func New(level, format string, out io.Writer) *slog.Logger {
	resolvedLevel := func() slog.Level {
		switch strings.ToLower(level) {
		case "debug":
			return slog.LevelDebug
		case "warn":
			return slog.LevelWarn
		case "error":
			return slog.LevelError
		default:
			return slog.LevelInfo
		}
	}

	replaceAttrs := func(groups []string, a slog.Attr) slog.Attr {
		if a.Key == slog.SourceKey {
			source := a.Value.Any().(*slog.Source)
			source.File = filepath.Base(source.File)
		}
		return a
	}

	var log *slog.Logger
	if strings.ToLower(format) == "json" {
		log = slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
			AddSource:   true,
			Level:       resolvedLevel(),
			ReplaceAttr: replaceAttrs}))
	} else {
		log = slog.New(tint.NewHandler(out, &tint.Options{
			AddSource:   true,
			Level:       resolvedLevel(),
			ReplaceAttr: replaceAttrs}))
	}

	slog.SetDefault(log)
	return log
}
