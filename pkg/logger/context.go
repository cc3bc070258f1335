package logger

import (
	"context"

	"github.com/labstack/echo/v4"
)

type contextKey string

const loggerKey contextKey = "logger"

// FromContext returns the request-scoped logger, or fallback when none is attached.
func FromContext(ctx context.Context, fallback ZapLogger) ZapLogger {
	if l, ok := ctx.Value(loggerKey).(ZapLogger); ok {
		return l
	}
	return fallback
}

func WithContext(ctx context.Context, l ZapLogger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

func FromEcho(c echo.Context, fallback ZapLogger) ZapLogger {
	if l, ok := c.Get(string(loggerKey)).(ZapLogger); ok {
		return l
	}
	return fallback
}
