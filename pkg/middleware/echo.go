package middleware

import (
	"time"

	"github.com/fekuna/omnipos-retail-service/pkg/logger"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequestIDMiddleware tags every request with an id and a child logger that
// handlers fetch with logger.FromEcho.
func RequestIDMiddleware(log logger.ZapLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			requestID := req.Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = uuid.New().String()
				req.Header.Set(echo.HeaderXRequestID, requestID)
			}
			c.Response().Header().Set(echo.HeaderXRequestID, requestID)

			ctxLogger := log.With(zap.String("request_id", requestID))
			c.Set("logger", ctxLogger)

			ctx := logger.WithContext(req.Context(), ctxLogger)
			ctx = ctxWithRequestID(ctx, requestID)
			if op := req.Header.Get(HeaderOperatorID); op != "" {
				ctx = WithOperatorID(ctx, op)
			}
			c.SetRequest(req.WithContext(ctx))
			return next(c)
		}
	}
}

func AccessLogMiddleware(log logger.ZapLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			logger.FromEcho(c, log).Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.Int("status", c.Response().Status),
				zap.Duration("latency", time.Since(start)),
			)
			return nil
		}
	}
}
