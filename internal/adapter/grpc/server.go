package grpc

import (
	"github.com/DarshaunDavis/teststrip-marketplace/internal/marketplace/domain"
	"github.com/DarshaunDavis/teststrip-marketplace/internal/middleware"
	"github.com/DarshaunDavis/teststrip-marketplace/internal/platform/logger"
	"github.com/DarshaunDavis/teststrip-marketplace/internal/platform/metrics"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// PublicMethods may be called without a token. Feeds still apply the
// caller's role when a token is sent.
func PublicMethods() map[string]bool {
	return map[string]bool{
		MethodListAds:              true,
		MethodListDirectory:        true,
		MethodFindDirectoryListing: true,
		MethodWatchAds:             true,
		MethodWatchDirectory:       true,

		grpc_health_v1.Health_Check_FullMethodName: true,
		grpc_health_v1.Health_Watch_FullMethodName: true,
	}
}

// RequiredRoles restricts operator methods to staff token roles.
func RequiredRoles() map[string][]string {
	staff := []string{string(domain.RoleAdmin), string(domain.RoleModerator)}
	return map[string][]string{
		MethodCreateDirectoryBuyer:   staff,
		MethodEnsureDirectoryListing: staff,
	}
}

// NewGRPCServer creates the gRPC server with tracing, metrics, auth and
// logging, and registers the marketplace and health services. The health
// server is returned so the caller can flip serving status.
func NewGRPCServer(
	appLogger *logger.Logger,
	jwtSecret string,
	m *metrics.MetricsManager,
	handler MarketplaceServer,
) (*grpc.Server, *health.Server) {
	auth := middleware.NewAuthenticator(jwtSecret, appLogger, PublicMethods(), RequiredRoles())

	unaryInterceptors := []grpc.UnaryServerInterceptor{
		auth.UnaryInterceptor(),
		middleware.LoggingInterceptor(appLogger),
	}
	if m != nil {
		unaryInterceptors = append([]grpc.UnaryServerInterceptor{middleware.MetricsInterceptor(m)}, unaryInterceptors...)
	}
	streamInterceptors := []grpc.StreamServerInterceptor{
		auth.StreamInterceptor(),
		middleware.StreamLoggingInterceptor(appLogger),
	}

	server := grpc.NewServer(
		middleware.TracingOption(),
		grpc.ChainUnaryInterceptor(unaryInterceptors...),
		grpc.ChainStreamInterceptor(streamInterceptors...),
	)

	appLogger.Info("gRPC server configured with interceptors",
		zap.Bool("tracing_enabled", true),
		zap.Bool("metrics_enabled", m != nil),
		zap.Bool("auth_enabled", true),
	)

	RegisterMarketplaceServer(server, handler)
	reflection.Register(server)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(server, healthServer)
	return server, healthServer
}
