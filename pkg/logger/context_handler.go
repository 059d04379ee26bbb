package logger

import (
	"context"
	"log/slog"
)

// ContextExtractor pulls one attribute out of a context.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

// contextHandler adds request-scoped attributes to every record. An extracted
// attribute is skipped when the record already carries its key, so call sites
// may log e.g. request_id explicitly without duplicating it.
type contextHandler struct {
	next       slog.Handler
	extractors []ContextExtractor
}

// NewContextHandler wraps next. Nil extractors are ignored; with none left,
// next is returned unchanged.
func NewContextHandler(next slog.Handler, extractors ...ContextExtractor) slog.Handler {
	var kept []ContextExtractor
	for _, ex := range extractors {
		if ex != nil {
			kept = append(kept, ex)
		}
	}
	if len(kept) == 0 {
		return next
	}
	return &contextHandler{next: next, extractors: kept}
}

func (h *contextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *contextHandler) Handle(ctx context.Context, rec slog.Record) error {
	var present map[string]struct{}
	for _, ex := range h.extractors {
		attr, ok := ex(ctx)
		if !ok {
			continue
		}
		if present == nil {
			present = make(map[string]struct{}, rec.NumAttrs())
			rec.Attrs(func(a slog.Attr) bool {
				present[a.Key] = struct{}{}
				return true
			})
		}
		if _, dup := present[attr.Key]; dup {
			continue
		}
		present[attr.Key] = struct{}{}
		rec.AddAttrs(attr)
	}
	return h.next.Handle(ctx, rec)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{next: h.next.WithAttrs(attrs), extractors: h.extractors}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{next: h.next.WithGroup(name), extractors: h.extractors}
}
