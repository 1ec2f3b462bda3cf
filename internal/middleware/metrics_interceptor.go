package middleware

import (
	"context"
	"time"

	"github.com/DarshaunDavis/teststrip-marketplace/internal/platform/metrics"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// MetricsInterceptor records latency and error counts per unary method.
func MetricsInterceptor(m *metrics.MetricsManager) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		m.APILatency.WithLabelValues(info.FullMethod).Observe(time.Since(start).Seconds())
		if err != nil {
			m.APIErrorsTotal.WithLabelValues(info.FullMethod, status.Code(err).String()).Inc()
		}
		return resp, err
	}
}
