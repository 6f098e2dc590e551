// Package logctx enriches slog records with collection context carried on
// the request context: the session being collected and the question being
// asked. Wrap any slog.Handler with Handler and annotate contexts with the
// With* functions; log call sites stay free of repeated attributes.
package logctx

import (
	"context"
	"log/slog"
)

type sessionKey struct{}
type questionKey struct{}

// WithSessionID annotates the context with the collection session ID.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionKey{}, sessionID)
}

// WithQuestionPath annotates the context with the dotted path of the
// question currently being asked.
func WithQuestionPath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, questionKey{}, path)
}

// Handler decorates an slog.Handler, appending any collection context found
// on the record's context.
type Handler struct {
	slog.Handler
}

func (h Handler) Handle(ctx context.Context, r slog.Record) error {
	if id, ok := ctx.Value(sessionKey{}).(string); ok {
		r.AddAttrs(slog.String("session_id", id))
	}
	if path, ok := ctx.Value(questionKey{}).(string); ok {
		r.AddAttrs(slog.String("question", path))
	}
	return h.Handler.Handle(ctx, r)
}

func (h Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return Handler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h Handler) WithGroup(name string) slog.Handler {
	return Handler{Handler: h.Handler.WithGroup(name)}
}
