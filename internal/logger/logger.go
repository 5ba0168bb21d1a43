// Package logger builds the process-wide slog logger: a pterm or JSON
// terminal handler, an optional rotating JSON file, and one shared level that
// config reloads can move.
package logger

import (
	"log/slog"
	"os"
	"strings"

	"github.com/fraudknight/hsproxy/internal/util"
	"github.com/fraudknight/hsproxy/theme"
)

type Config struct {
	Level      string
	LogDir     string
	Theme      string
	MaxSize    int // megabytes
	MaxBackups int
	MaxAge     int // days
	FileOutput bool
}

const (
	DefaultLogOutputName  = "hsproxy.log"
	DefaultDetailedCookie = "detailed"

	LogLevelDebug   = "debug"
	LogLevelInfo    = "info"
	LogLevelWarn    = "warn"
	LogLevelWarning = "warning"
	LogLevelError   = "error"
)

var levelVar = new(slog.LevelVar)

// SetLevel moves every logger built by New to level. Unknown names mean info.
func SetLevel(level string) {
	levelVar.Set(parseLevel(level))
}

func Level() slog.Level {
	return levelVar.Level()
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn, LogLevelWarning:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New returns the logger and a cleanup func that closes the log file, if any
func New(cfg *Config) (*slog.Logger, func(), error) {
	SetLevel(cfg.Level)
	terminal := newTerminalHandler(os.Stdout, theme.GetTheme(cfg.Theme))

	if !cfg.FileOutput {
		return slog.New(terminal), func() {}, nil
	}

	file, closeFile, err := newFileHandler(cfg)
	if err != nil {
		return nil, nil, err
	}
	return slog.New(&splitHandler{terminal: terminal, file: file}), closeFile, nil
}

// NewWithTheme also returns the StyledLogger everything else logs through.
// Styling is only applied when colours will actually render.
func NewWithTheme(cfg *Config) (*slog.Logger, StyledLogger, func(), error) {
	logger, cleanup, err := New(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	if util.ShouldUseColors() {
		return logger, NewPrettyStyledLogger(logger, theme.GetTheme(cfg.Theme)), cleanup, nil
	}
	return logger, NewPlainStyledLogger(logger), cleanup, nil
}

// FatalWithLogger logs at error and exits 1. Deferred funcs do not run.
func FatalWithLogger(logger *slog.Logger, msg string, args ...any) {
	logger.Error(msg, args...)
	os.Exit(1)
}
