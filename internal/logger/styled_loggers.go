package logger

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/fraudknight/hsproxy/theme"
)

// painter decorates the variable part of a message. The plain painter leaves
// text untouched so JSON and file output stay greppable.
type painter struct {
	count    func(string) string
	route    func(string) string
	upstream func(string) string
}

func identity(s string) string { return s }

var plainPainter = painter{count: identity, route: identity, upstream: identity}

func themePainter(t *theme.Theme) painter {
	return painter{
		count:    func(s string) string { return t.Counts.Sprint(s) },
		route:    func(s string) string { return t.Route.Sprint(s) },
		upstream: func(s string) string { return t.Upstream.Sprint(s) },
	}
}

// styledCore carries the shared behaviour of both StyledLogger flavours
type styledCore struct {
	logger *slog.Logger
	paint  painter
}

func (c styledCore) Debug(msg string, args ...any) { c.logger.Debug(msg, args...) }
func (c styledCore) Info(msg string, args ...any)  { c.logger.Info(msg, args...) }
func (c styledCore) Warn(msg string, args ...any)  { c.logger.Warn(msg, args...) }
func (c styledCore) Error(msg string, args ...any) { c.logger.Error(msg, args...) }

func (c styledCore) GetUnderlying() *slog.Logger { return c.logger }

func (c styledCore) InfoWithCount(msg string, count int, args ...any) {
	c.logger.Info(msg+" ("+c.paint.count(strconv.Itoa(count))+")", args...)
}

func (c styledCore) InfoWithRoute(msg string, route string, args ...any) {
	c.logger.Info(msg+" "+c.paint.route(route), args...)
}

func (c styledCore) ErrorWithUpstream(msg string, upstream string, args ...any) {
	c.logger.Error(msg+" "+c.paint.upstream(upstream), args...)
}

// WarnWithContext logs UserArgs everywhere, then repeats the line with
// DetailedArgs appended as a file-only record
func (c styledCore) WarnWithContext(msg string, route string, lc LogContext) {
	line := msg + " " + c.paint.route(route)
	c.logger.Warn(line, lc.UserArgs...)

	if len(lc.DetailedArgs) == 0 {
		return
	}
	all := make([]any, 0, len(lc.UserArgs)+len(lc.DetailedArgs))
	all = append(all, lc.UserArgs...)
	all = append(all, lc.DetailedArgs...)
	ctx := context.WithValue(context.Background(), DefaultDetailedCookie, true)
	c.logger.WarnContext(ctx, line, all...)
}

func (c styledCore) with(args ...any) styledCore {
	return styledCore{logger: c.logger.With(args...), paint: c.paint}
}

// PlainStyledLogger is used when colours will not render
type PlainStyledLogger struct {
	styledCore
}

func NewPlainStyledLogger(logger *slog.Logger) *PlainStyledLogger {
	return &PlainStyledLogger{styledCore{logger: logger, paint: plainPainter}}
}

func (sl *PlainStyledLogger) With(args ...any) StyledLogger {
	return &PlainStyledLogger{sl.with(args...)}
}

func (sl *PlainStyledLogger) WithRequestID(requestID string) StyledLogger {
	return sl.With("request_id", requestID)
}

// PrettyStyledLogger paints counts, routes and upstream URLs with the theme
type PrettyStyledLogger struct {
	styledCore
}

func NewPrettyStyledLogger(logger *slog.Logger, t *theme.Theme) *PrettyStyledLogger {
	return &PrettyStyledLogger{styledCore{logger: logger, paint: themePainter(t)}}
}

func (sl *PrettyStyledLogger) With(args ...any) StyledLogger {
	return &PrettyStyledLogger{sl.with(args...)}
}

func (sl *PrettyStyledLogger) WithRequestID(requestID string) StyledLogger {
	return sl.With("request_id", requestID)
}
