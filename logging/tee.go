package logging

import (
	"context"
	"errors"
	"log/slog"
)

// sink 一个输出目标。min 非空时低于该级别的记录不写入此目标。
type sink struct {
	handler slog.Handler
	min     slog.Leveler
}

func (s sink) enabled(ctx context.Context, level slog.Level) bool {
	if s.min != nil && level < s.min.Level() {
		return false
	}
	return s.handler.Enabled(ctx, level)
}

// teeHandler 把记录写入每个接受该级别的目标，单个目标失败不影响其余目标。
type teeHandler struct {
	sinks []sink
}

func newTeeHandler(sinks ...sink) *teeHandler {
	return &teeHandler{sinks: sinks}
}

func (t *teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, s := range t.sinks {
		if s.enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (t *teeHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, s := range t.sinks {
		if !s.enabled(ctx, r.Level) {
			continue
		}
		if err := s.handler.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (t *teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return t.derive(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (t *teeHandler) WithGroup(name string) slog.Handler {
	return t.derive(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (t *teeHandler) derive(fn func(slog.Handler) slog.Handler) *teeHandler {
	sinks := make([]sink, len(t.sinks))
	for i, s := range t.sinks {
		sinks[i] = sink{handler: fn(s.handler), min: s.min}
	}
	return &teeHandler{sinks: sinks}
}
