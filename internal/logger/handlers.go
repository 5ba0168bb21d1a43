package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pterm/pterm"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/fraudknight/hsproxy/internal/util"
	"github.com/fraudknight/hsproxy/theme"
)

const fileTimeFormat = "2006-01-02 15:04:05"

// newTerminalHandler uses pterm on a colour terminal and JSON otherwise, which
// is what container log collectors expect
func newTerminalHandler(w io.Writer, appTheme *theme.Theme) slog.Handler {
	if !util.ShouldUseColors() {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: levelVar, ReplaceAttr: replaceAttr})
	}

	// pterm has its own level filter; open it fully and gate on levelVar
	plogger := pterm.DefaultLogger.
		WithLevel(pterm.LogLevelTrace).
		WithWriter(w).
		WithFormatter(pterm.LogFormatterColorful).
		WithKeyStyles(map[string]pterm.Style{
			"level":      *appTheme.Info,
			"msg":        *appTheme.Info,
			"time":       *appTheme.Muted,
			"request_id": *appTheme.Muted,
			"route":      *appTheme.Route,
			"upstream":   *appTheme.Upstream,
		})
	return &levelGate{leveler: levelVar, next: pterm.NewSlogHandler(plogger)}
}

func newFileHandler(cfg *Config) (slog.Handler, func(), error) {
	if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory %s: %w", cfg.LogDir, err)
	}

	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.LogDir, DefaultLogOutputName),
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   true,
	}
	handler := slog.NewJSONHandler(rotator, &slog.HandlerOptions{Level: levelVar, ReplaceAttr: replaceAttr})
	return handler, func() { _ = rotator.Close() }, nil
}

// replaceAttr flattens values for JSON output: errors become their message,
// styled strings lose their escape codes
func replaceAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey {
		return slog.String("timestamp", a.Value.Time().Format(fileTimeFormat))
	}

	switch a.Value.Kind() {
	case slog.KindString:
		if s := a.Value.String(); strings.IndexByte(s, '\x1b') >= 0 {
			return slog.String(a.Key, stripANSI(s))
		}
	case slog.KindAny:
		if err, ok := a.Value.Any().(error); ok {
			return slog.String(a.Key, err.Error())
		}
		return slog.String(a.Key, fmt.Sprintf("%v", a.Value.Any()))
	}
	return a
}

// stripANSI drops CSI sequences (ESC '[' params final-letter)
func stripANSI(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		if s[i] != '\x1b' || i+1 >= len(s) || s[i+1] != '[' {
			b.WriteByte(s[i])
			continue
		}
		j := i + 2
		for j < len(s) && !isLetter(s[j]) {
			j++
		}
		i = j
	}
	return b.String()
}

func isLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// levelGate adds a dynamic level to a handler that only has a static one
type levelGate struct {
	leveler slog.Leveler
	next    slog.Handler
}

func (g *levelGate) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= g.leveler.Level() && g.next.Enabled(ctx, level)
}

func (g *levelGate) Handle(ctx context.Context, record slog.Record) error {
	return g.next.Handle(ctx, record)
}

func (g *levelGate) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelGate{leveler: g.leveler, next: g.next.WithAttrs(attrs)}
}

func (g *levelGate) WithGroup(name string) slog.Handler {
	return &levelGate{leveler: g.leveler, next: g.next.WithGroup(name)}
}

// splitHandler writes every record to the file and all but detailed records
// to the terminal. A record is detailed when its context carries
// DefaultDetailedCookie=true.
type splitHandler struct {
	terminal slog.Handler
	file     slog.Handler
}

func isDetailed(ctx context.Context) bool {
	detailed, _ := ctx.Value(DefaultDetailedCookie).(bool)
	return detailed
}

func (h *splitHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.terminal.Enabled(ctx, level) || h.file.Enabled(ctx, level)
}

func (h *splitHandler) Handle(ctx context.Context, record slog.Record) error {
	if !isDetailed(ctx) && h.terminal.Enabled(ctx, record.Level) {
		if err := h.terminal.Handle(ctx, record.Clone()); err != nil {
			return err
		}
	}
	if h.file.Enabled(ctx, record.Level) {
		return h.file.Handle(ctx, record)
	}
	return nil
}

func (h *splitHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &splitHandler{terminal: h.terminal.WithAttrs(attrs), file: h.file.WithAttrs(attrs)}
}

func (h *splitHandler) WithGroup(name string) slog.Handler {
	return &splitHandler{terminal: h.terminal.WithGroup(name), file: h.file.WithGroup(name)}
}
