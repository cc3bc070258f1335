package middleware

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-retail-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const (
	requestIDKey  ctxKey = "request_id"
	operatorIDKey ctxKey = "operator_id"

	HeaderRequestID  = "x-request-id"
	HeaderOperatorID = "x-operator-id"
)

func RequestID(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey).(string)
	return v
}

// OperatorID is the staff member acting on the request, when the caller sent one.
func OperatorID(ctx context.Context) string {
	v, _ := ctx.Value(operatorIDKey).(string)
	return v
}

func WithOperatorID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, operatorIDKey, id)
}

// ContextInterceptor copies request metadata into the context and attaches a
// request scoped logger.
func ContextInterceptor(log logger.ZapLogger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		md, _ := metadata.FromIncomingContext(ctx)

		requestID := first(md, HeaderRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		ctx = ctxWithRequestID(ctx, requestID)
		if op := first(md, HeaderOperatorID); op != "" {
			ctx = WithOperatorID(ctx, op)
		}
		ctx = logger.WithContext(ctx, log.With(zap.String("request_id", requestID)))

		grpc.SetHeader(ctx, metadata.Pairs(HeaderRequestID, requestID))
		return handler(ctx, req)
	}
}

func LoggingInterceptor(log logger.ZapLogger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		l := logger.FromContext(ctx, log)
		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.String("code", status.Code(err).String()),
			zap.Duration("latency", time.Since(start)),
		}
		if err != nil {
			l.Warn("grpc call failed", append(fields, zap.Error(err))...)
		} else {
			l.Debug("grpc call", fields...)
		}
		return resp, err
	}
}

func first(md metadata.MD, key string) string {
	if v := md.Get(key); len(v) > 0 {
		return v[0]
	}
	return ""
}

func ctxWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}
