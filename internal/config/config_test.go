package config

import (
	"testing"
	"time"

	"github.com/DarshaunDavis/teststrip-marketplace/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(logger.NewNop())
	require.NoError(t, err)

	assert.Equal(t, "teststrip-marketplace", cfg.ServiceName)
	assert.Equal(t, StoreDriverMongo, cfg.StoreDriver)
	assert.Equal(t, 10*time.Minute, cfg.RoleCacheTTL)
	assert.Equal(t, "ad-images", cfg.MinioBucket)
	assert.False(t, cfg.DenyDirectoryUpdates)
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", " Memory ")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("ROLE_CACHE_TTL", "30s")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("DENY_DIRECTORY_UPDATES", "true")

	cfg, err := LoadConfig(logger.NewNop())
	require.NoError(t, err)

	assert.Equal(t, StoreDriverMemory, cfg.StoreDriver)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 30*time.Second, cfg.RoleCacheTTL)
	assert.True(t, cfg.MinioUseSSL)
	assert.True(t, cfg.DenyDirectoryUpdates)
}

func TestLoadConfig_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")

	_, err := LoadConfig(logger.NewNop())
	assert.ErrorContains(t, err, "unknown STORE_DRIVER")
}

func TestConfig_Validate(t *testing.T) {
	base := Config{StoreDriver: StoreDriverMongo, MongoURI: "mongodb://x", MongoDatabase: "db", GRPCPort: "1", JWTSecret: "s"}
	require.NoError(t, base.Validate())

	noDB := base
	noDB.MongoDatabase = ""
	assert.Error(t, noDB.Validate())

	memory := base
	memory.StoreDriver = StoreDriverMemory
	memory.MongoURI = ""
	assert.NoError(t, memory.Validate())

	noSecret := base
	noSecret.JWTSecret = ""
	assert.Error(t, noSecret.Validate())
}
