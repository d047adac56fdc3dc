package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const denylistKeyPrefix = "session:revoked:"

// RedisTokenDenylist - реализация TokenDenylist, использующая Redis
type RedisTokenDenylist struct {
	redisClient *redis.Client
}

// NewRedisTokenDenylist создает новый RedisTokenDenylist
func NewRedisTokenDenylist(client *redis.Client) *RedisTokenDenylist {
	return &RedisTokenDenylist{
		redisClient: client,
	}
}

// Revoke помечает jti отозванным на время жизни токена
func (d *RedisTokenDenylist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	key := denylistKeyPrefix + jti
	if err := d.redisClient.Set(ctx, key, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token in Redis: %w", err)
	}
	return nil
}

// IsRevoked проверяет, отозван ли jti
func (d *RedisTokenDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	key := denylistKeyPrefix + jti
	_, err := d.redisClient.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check token denylist: %w", err)
	}
	return true, nil
}
