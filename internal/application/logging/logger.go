package logging

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"
)

type contextKey int

const loggerKey contextKey = iota

var discard = func() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}()

// WithLogger adds a logger to the context
func WithLogger(ctx context.Context, logger *logrus.Entry) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext extracts the logger from context, or returns a discarding logger if not found
func LoggerFromContext(ctx context.Context) *logrus.Entry {
	if logger, ok := ctx.Value(loggerKey).(*logrus.Entry); ok {
		return logger
	}
	return discard
}

// WithFields derives a logger carrying extra fields and stores it in the context
func WithFields(ctx context.Context, fields logrus.Fields) (context.Context, *logrus.Entry) {
	logger := LoggerFromContext(ctx).WithFields(fields)
	return WithLogger(ctx, logger), logger
}
