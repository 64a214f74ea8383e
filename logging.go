package btree

import (
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	logOnce sync.Once
	log     = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
)

// ConfigureLogging installs a TextHandler slog.Logger at the given
// level as this package's logger, matching the teacher's logger.go
// pattern of a single package-level *slog.Logger consulted by every
// operation that logs. Safe to call more than once; the most recent
// call wins.
func ConfigureLogging(level slog.Level) {
	log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// init seeds the logger from BTREE_LOG_LEVEL (debug, info, warn, error;
// case-insensitive), defaulting to warn, the same env-driven bootstrap
// the teacher's SOP_LOG_LEVEL performs.
func init() {
	logOnce.Do(func() {
		level := slog.LevelWarn
		switch strings.ToLower(os.Getenv("BTREE_LOG_LEVEL")) {
		case "debug":
			level = slog.LevelDebug
		case "info":
			level = slog.LevelInfo
		case "warn", "warning":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}
		log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	})
}
