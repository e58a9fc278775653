package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// ErrUnknownLevel is returned for a level name outside debug/info/warn/error.
var ErrUnknownLevel = errors.New("logging: unknown level")

// Config selects the handler. The zero value logs text at info to stderr.
type Config struct {
	// Level is one of "debug", "info", "warn", "error" (case-insensitive).
	Level string

	// JSON switches from the text handler to the JSON handler.
	JSON bool

	// Service is attached to every record as the "service" attribute.
	Service string

	// Output defaults to os.Stderr so stdout stays free for results.
	Output io.Writer
}

// ParseLevel maps a level name to slog.Level. The empty string is info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
	}
}

// New builds a logger from cfg.
func New(cfg Config) (*slog.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	hopts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	if cfg.JSON {
		h = slog.NewJSONHandler(out, hopts)
	} else {
		h = slog.NewTextHandler(out, hopts)
	}
	logger := slog.New(h)
	if cfg.Service != "" {
		logger = logger.With(slog.String("service", cfg.Service))
	}

	return logger, nil
}
