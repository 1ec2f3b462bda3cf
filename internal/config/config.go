package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/DarshaunDavis/teststrip-marketplace/internal/platform/logger"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	StoreDriverMongo  = "mongo"
	StoreDriverMemory = "memory"

	defaultJWTSecret = "change-me-marketplace-secret"
)

// Config holds all configuration for the service.
type Config struct {
	ServiceName            string        `mapstructure:"SERVICE_NAME"`
	GRPCPort               string        `mapstructure:"GRPC_PORT"`
	HTTPPort               string        `mapstructure:"HTTP_PORT"`
	StoreDriver            string        `mapstructure:"STORE_DRIVER"`
	MongoURI               string        `mapstructure:"MONGO_URI"`
	MongoDatabase          string        `mapstructure:"MONGO_DATABASE"`
	RedisAddress           string        `mapstructure:"REDIS_ADDRESS"`
	RedisPassword          string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB                int           `mapstructure:"REDIS_DB"`
	RoleCacheTTL           time.Duration `mapstructure:"ROLE_CACHE_TTL"`
	NATSURL                string        `mapstructure:"NATS_URL"`
	MinioEndpoint          string        `mapstructure:"MINIO_ENDPOINT"`
	MinioAccessKey         string        `mapstructure:"MINIO_ACCESS_KEY"`
	MinioSecretKey         string        `mapstructure:"MINIO_SECRET_KEY"`
	MinioBucket            string        `mapstructure:"MINIO_BUCKET"`
	MinioUseSSL            bool          `mapstructure:"MINIO_USE_SSL"`
	JWTSecret              string        `mapstructure:"JWT_SECRET"`
	LogLevel               string        `mapstructure:"LOG_LEVEL"`
	LogFormat              string        `mapstructure:"LOG_FORMAT"`
	OTExporterOTLPEndpoint string        `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	DenyDirectoryUpdates   bool          `mapstructure:"DENY_DIRECTORY_UPDATES"`
}

// LoadConfig reads configuration from environment variables. A .env file, if
// any, is loaded by main before this runs.
func LoadConfig(appLogger *logger.Logger) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		appLogger.Error("Failed to unmarshal configuration", zap.Error(err))
		return nil, err
	}
	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.JWTSecret == defaultJWTSecret {
		appLogger.Warn("JWT_SECRET is set to its default insecure value. Please set a strong secret in your environment.")
	}

	appLogger.Debug("Configuration loaded",
		zap.String("service_name", cfg.ServiceName),
		zap.String("grpc_port", cfg.GRPCPort),
		zap.String("http_port", cfg.HTTPPort),
		zap.String("store_driver", cfg.StoreDriver),
		zap.String("mongo_database", cfg.MongoDatabase),
		zap.String("redis_address", cfg.RedisAddress),
		zap.Duration("role_cache_ttl", cfg.RoleCacheTTL),
		zap.String("nats_url", cfg.NATSURL),
		zap.String("minio_endpoint", cfg.MinioEndpoint),
		zap.String("minio_bucket", cfg.MinioBucket),
		zap.String("log_level", cfg.LogLevel),
		zap.String("otel_endpoint", cfg.OTExporterOTLPEndpoint),
		zap.Bool("deny_directory_updates", cfg.DenyDirectoryUpdates),
	)
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVICE_NAME", "teststrip-marketplace")
	v.SetDefault("GRPC_PORT", "50055")
	v.SetDefault("HTTP_PORT", "8085")
	v.SetDefault("STORE_DRIVER", StoreDriverMongo)
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "teststrip_marketplace")
	v.SetDefault("REDIS_ADDRESS", "") // empty disables the role cache
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("ROLE_CACHE_TTL", 10*time.Minute)
	v.SetDefault("NATS_URL", "nats://localhost:4222")
	v.SetDefault("MINIO_ENDPOINT", "") // empty disables image uploads
	v.SetDefault("MINIO_ACCESS_KEY", "")
	v.SetDefault("MINIO_SECRET_KEY", "")
	v.SetDefault("MINIO_BUCKET", "ad-images")
	v.SetDefault("MINIO_USE_SSL", false)
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("DENY_DIRECTORY_UPDATES", false)
}

// Validate checks the settings the service cannot start without.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreDriverMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required for store driver %q", c.StoreDriver)
		}
		if c.MongoDatabase == "" {
			return fmt.Errorf("MONGO_DATABASE is required for store driver %q", c.StoreDriver)
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.GRPCPort == "" {
		return fmt.Errorf("GRPC_PORT is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	return nil
}
