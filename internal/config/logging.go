package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// SetupLogOutput returns the writer the server logs to. Stdout always
// receives logs; when dir is set a rotating server.log is added.
// The returned closer must be closed on shutdown.
func SetupLogOutput(dir string) (io.Writer, io.Closer) {
	if dir == "" {
		return os.Stdout, io.NopCloser(nil)
	}

	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(dir, "server.log"),
		MaxSize:    10, // megabytes
		MaxBackups: 5,
		MaxAge:     30, // days
		Compress:   true,
	}
	return io.MultiWriter(os.Stdout, rotator), rotator
}

// NewLogger builds the JSON slog logger for the given level name.
func NewLogger(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: parseLevel(level),
	}))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
