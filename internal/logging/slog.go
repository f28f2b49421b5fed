package logging

import (
	"context"
	"log/slog"
)

// SlogLogger adapts the standard library slog to the Logger interface the
// vault services depend on. The wrapped logger decides handler and level;
// typically a text handler on stderr so log lines never mix with the REPL
// output on stdout.
type SlogLogger struct {
	l *slog.Logger
}

func NewSlogLogger(l *slog.Logger) *SlogLogger {
	return &SlogLogger{l: l}
}

func (s *SlogLogger) Info(ctx context.Context, msg string, args ...any) {
	s.l.InfoContext(ctx, msg, args...)
}

func (s *SlogLogger) Warn(ctx context.Context, msg string, args ...any) {
	s.l.WarnContext(ctx, msg, args...)
}

func (s *SlogLogger) Error(ctx context.Context, msg string, args ...any) {
	s.l.ErrorContext(ctx, msg, args...)
}

// With scopes a child logger to a component, e.g. With("component", "sync").
// Secrets and full user ids must never be passed here; use ShortID.
func (s *SlogLogger) With(args ...any) Logger {
	return &SlogLogger{l: s.l.With(args...)}
}
