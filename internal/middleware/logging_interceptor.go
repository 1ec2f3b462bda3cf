package middleware

import (
	"context"
	"time"

	"github.com/DarshaunDavis/teststrip-marketplace/internal/platform/logger"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

func requestFields(ctx context.Context, method string) []zap.Field {
	sc := trace.SpanFromContext(ctx).SpanContext()
	fields := []zap.Field{
		zap.String("method", method),
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	}
	if uid := UserIDFromContext(ctx); uid != "" {
		fields = append(fields, zap.String("user_id", uid))
	}
	if role := RoleFromContext(ctx); role != "" {
		fields = append(fields, zap.String("user_role", string(role)))
	}
	return fields
}

func logOutcome(log *logger.Logger, fields []zap.Field, start time.Time, err error) {
	fields = append(fields,
		zap.Duration("duration", time.Since(start)),
		zap.String("status_code", status.Code(err).String()))
	if err != nil {
		log.Error("gRPC request failed", append(fields, zap.Error(err))...)
		return
	}
	log.Info("gRPC request completed", fields...)
}

// LoggingInterceptor logs every unary request with its outcome.
func LoggingInterceptor(log *logger.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		fields := requestFields(ctx, info.FullMethod)
		log.Debug("gRPC request received", fields...)

		resp, err := handler(ctx, req)
		logOutcome(log, fields, start, err)
		return resp, err
	}
}

// StreamLoggingInterceptor logs stream lifetimes.
func StreamLoggingInterceptor(log *logger.Logger) grpc.StreamServerInterceptor {
	return func(srv interface{}, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		start := time.Now()
		fields := requestFields(ss.Context(), info.FullMethod)
		log.Info("gRPC stream opened", fields...)

		err := handler(srv, ss)
		logOutcome(log, fields, start, err)
		return err
	}
}
