package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DarshaunDavis/teststrip-marketplace/internal/marketplace/domain"
	"github.com/redis/go-redis/v9"
)

const roleKeyPrefix = "marketplace:role:"

// RoleCache keeps account roles in Redis so feed requests do not hit the
// record store for every caller.
type RoleCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient connects and pings the server.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return client, nil
}

func NewRoleCache(client *redis.Client, ttl time.Duration) *RoleCache {
	return &RoleCache{client: client, ttl: ttl}
}

func roleKey(uid string) string {
	return roleKeyPrefix + uid
}

// GetRole returns the cached role; ok is false on a cache miss.
func (c *RoleCache) GetRole(ctx context.Context, uid string) (domain.UserRole, bool, error) {
	val, err := c.client.Get(ctx, roleKey(uid)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return domain.NormalizeRole(val), true, nil
}

func (c *RoleCache) SetRole(ctx context.Context, uid string, role domain.UserRole) error {
	return c.client.Set(ctx, roleKey(uid), string(role), c.ttl).Err()
}

// Invalidate drops the cached role for uid.
func (c *RoleCache) Invalidate(ctx context.Context, uid string) error {
	return c.client.Del(ctx, roleKey(uid)).Err()
}
