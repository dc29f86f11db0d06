package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/claude/liftlog/internal/config"
)

// New builds the process logger. Logs go to stdout (stderr when cfg.Stderr
// is set), or to a size-rotated file when cfg.File is set.
func New(cfg config.LoggingConfig) (*slog.Logger, io.Closer) {
	var out io.Writer = os.Stdout
	var closer io.Closer = nopCloser{}
	if cfg.Stderr {
		out = os.Stderr
	}

	if cfg.File != "" {
		name := cfg.File
		if !strings.HasSuffix(name, ".log") {
			name += ".log"
		}
		rotator := &lumberjack.Logger{
			Filename: name,
			MaxSize:  50, // megabytes
			Compress: true,
		}
		out, closer = rotator, rotator
	}

	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: Level(cfg.Level)})), closer
}

// Level maps a config level name to a slog level. Unknown names read as info.
func Level(name string) slog.Level {
	switch strings.ToLower(name) {
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

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
