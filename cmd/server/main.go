package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	// Adapters
	"github.com/DarshaunDavis/teststrip-marketplace/internal/adapter/cache"
	grpcAdapter "github.com/DarshaunDavis/teststrip-marketplace/internal/adapter/grpc"
	natsAdapter "github.com/DarshaunDavis/teststrip-marketplace/internal/adapter/messaging/nats"
	"github.com/DarshaunDavis/teststrip-marketplace/internal/adapter/rest"
	s3Adapter "github.com/DarshaunDavis/teststrip-marketplace/internal/adapter/storage/s3"
	memoryStore "github.com/DarshaunDavis/teststrip-marketplace/internal/adapter/store/memory"
	mongoStore "github.com/DarshaunDavis/teststrip-marketplace/internal/adapter/store/mongodb"

	"github.com/DarshaunDavis/teststrip-marketplace/internal/config"
	"github.com/DarshaunDavis/teststrip-marketplace/internal/marketplace/domain"
	"github.com/DarshaunDavis/teststrip-marketplace/internal/marketplace/usecase"

	"github.com/DarshaunDavis/teststrip-marketplace/internal/platform/logger"
	"github.com/DarshaunDavis/teststrip-marketplace/internal/platform/metrics"
	"github.com/DarshaunDavis/teststrip-marketplace/internal/platform/tracer"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health/grpc_health_v1"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("INFO: .env file not found or error loading: %v. Relying on OS environment variables.\n", err)
	}

	// 1. Logger
	appLogger := logger.NewLogger()
	defer func() { _ = appLogger.Sync() }()

	// 2. Configuration
	cfg, err := config.LoadConfig(appLogger)
	if err != nil {
		appLogger.Fatal("Failed to load configuration", zap.Error(err))
	}
	serviceName := cfg.ServiceName
	appLogger.Info("Application starting...", zap.String("service_name", serviceName))
	appLogger.Info("Configuration loaded successfully",
		zap.String("grpc_port", cfg.GRPCPort),
		zap.String("http_port", cfg.HTTPPort),
		zap.String("store_driver", cfg.StoreDriver),
		zap.Bool("redis_enabled", cfg.RedisAddress != ""),
		zap.Bool("nats_enabled", cfg.NATSURL != ""),
		zap.Bool("minio_enabled", cfg.MinioEndpoint != ""),
	)

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	// 3. Tracer
	tp := tracer.InitTracer(serviceName, cfg.OTExporterOTLPEndpoint, appLogger)
	defer func() {
		ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancelShutdown()
		if err := tp.Shutdown(ctxShutdown); err != nil {
			appLogger.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}()

	// 4. Record store
	var policy domain.AccessPolicy = domain.AllowAll{}
	if cfg.DenyDirectoryUpdates {
		policy = domain.DenyUpdates{Collections: []string{domain.CollectionDirectoryBuyers}}
		appLogger.Info("Directory updates are denied by policy; claims will be filed as requests")
	}

	var store domain.RecordStore
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		store = memoryStore.NewStore(policy, appLogger)
		appLogger.Warn("Using in-memory record store; data is lost on restart")
	default:
		mongoClient, err := mongo.Connect(rootCtx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			appLogger.Fatal("Failed to connect to MongoDB", zap.Error(err))
		}
		defer func() {
			appLogger.Info("Disconnecting from MongoDB...")
			if err := mongoClient.Disconnect(context.Background()); err != nil {
				appLogger.Error("Error disconnecting from MongoDB", zap.Error(err))
			}
		}()
		ctxPing, cancelPing := context.WithTimeout(rootCtx, 5*time.Second)
		if err := mongoClient.Ping(ctxPing, nil); err != nil {
			cancelPing()
			appLogger.Fatal("Failed to ping MongoDB", zap.Error(err))
		}
		cancelPing()
		appLogger.Info("Successfully connected and pinged MongoDB.")

		ms := mongoStore.NewStore(mongoClient.Database(cfg.MongoDatabase), policy, appLogger)
		ms.EnsureIndexes(rootCtx)
		store = ms
	}

	// 5. Optional infrastructure
	var roles domain.RoleCache
	if cfg.RedisAddress != "" {
		redisClient, err := cache.NewRedisClient(rootCtx, cfg.RedisAddress, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			appLogger.Warn("Redis unavailable, role cache disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
			roles = cache.NewRoleCache(redisClient, cfg.RoleCacheTTL)
			appLogger.Info("Role cache initialized.", zap.Duration("ttl", cfg.RoleCacheTTL))
		}
	}

	var events domain.EventPublisher
	if cfg.NATSURL != "" {
		natsPublisher, err := natsAdapter.NewPublisher(cfg.NATSURL, appLogger, serviceName)
		if err != nil {
			appLogger.Warn("NATS unavailable, domain events disabled", zap.Error(err))
		} else {
			defer natsPublisher.Close()
			events = natsPublisher
			appLogger.Info("NATS Publisher initialized.")
		}
	}

	var images domain.ImageStorage
	if cfg.MinioEndpoint != "" {
		s3Storage, err := s3Adapter.NewS3Storage(rootCtx, cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL, appLogger)
		if err != nil {
			appLogger.Warn("Object storage unavailable, image uploads disabled", zap.Error(err))
		} else {
			images = s3Storage
		}
	}

	// 6. Usecases
	metricsManager := metrics.NewMetricsManager(serviceName)
	directoryUsecase := usecase.NewDirectoryUsecase(store, events, metricsManager, appLogger)
	adUsecase := usecase.NewAdUsecase(store, images, events, metricsManager, appLogger)
	accountUsecase := usecase.NewAccountUsecase(store, roles, directoryUsecase, appLogger)
	feedUsecase := usecase.NewFeedUsecase(store, metricsManager, appLogger)
	if err := feedUsecase.Start(rootCtx); err != nil {
		appLogger.Fatal("Failed to start feed sessions", zap.Error(err))
	}
	defer feedUsecase.Close()

	// 7. gRPC server
	handler := grpcAdapter.NewMarketplaceHandler(feedUsecase, directoryUsecase, adUsecase, accountUsecase, appLogger)
	grpcSrv, healthServer := grpcAdapter.NewGRPCServer(appLogger, cfg.JWTSecret, metricsManager, handler)
	healthServer.SetServingStatus(grpcAdapter.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		appLogger.Fatal("Failed to listen for gRPC", zap.String("port", cfg.GRPCPort), zap.Error(err))
	}
	go func() {
		appLogger.Info("Starting gRPC server", zap.String("port", cfg.GRPCPort))
		if err := grpcSrv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			appLogger.Fatal("gRPC server Serve error", zap.Error(err))
		}
	}()

	// 8. HTTP server
	httpSrv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           rest.NewRouter(rest.NewFeedHandler(feedUsecase, appLogger), metricsManager, appLogger),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		appLogger.Info("Starting HTTP server", zap.String("port", cfg.HTTPPort))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// 9. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	appLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	healthServer.SetServingStatus(grpcAdapter.ServiceName, grpc_health_v1.HealthCheckResponse_NOT_SERVING)

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := httpSrv.Shutdown(ctxShutdown); err != nil {
		appLogger.Error("HTTP server shutdown failed", zap.Error(err))
	}

	// Watch streams stay open until their clients leave, so graceful stop is bounded.
	stopped := make(chan struct{})
	go func() {
		grpcSrv.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-ctxShutdown.Done():
		appLogger.Warn("gRPC graceful stop timed out, closing open streams")
		grpcSrv.Stop()
	}
	appLogger.Info("Application shutting down...")
}
