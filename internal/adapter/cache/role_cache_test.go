package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestRoleKey(t *testing.T) {
	assert.Equal(t, "marketplace:role:u1", roleKey("u1"))
}

func TestRoleCache_UnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	defer client.Close()
	c := NewRoleCache(client, time.Minute)

	_, ok, err := c.GetRole(context.Background(), "u1")
	assert.Error(t, err)
	assert.False(t, ok)
	assert.Error(t, c.SetRole(context.Background(), "u1", "buyer"))
}

func TestNewRedisClient_FailsFast(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "127.0.0.1:1", "", 0)
	assert.Error(t, err)
}
