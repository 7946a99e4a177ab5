package services

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisTokenBlacklist stores revoked tokens until their natural expiry.
// Redis evicts the keys itself, so no cleanup pass is needed.
type RedisTokenBlacklist struct {
	client *redis.Client
}

func NewTokenBlacklist(redisURL string) (*RedisTokenBlacklist, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &RedisTokenBlacklist{client: client}, nil
}

// Blacklist marks a token revoked until expiresAt. Tokens already past
// expiry are ignored.
func (tb *RedisTokenBlacklist) Blacklist(ctx context.Context, tokenString string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}

	key := fmt.Sprintf("blacklist:%s", tokenString)
	if err := tb.client.Set(ctx, key, "1", ttl).Err(); err != nil {
		return fmt.Errorf("blacklist token: %w", err)
	}
	return nil
}

// IsBlacklisted reports whether a token has been revoked. A Redis failure
// counts as not blacklisted so auth keeps working without the cache.
func (tb *RedisTokenBlacklist) IsBlacklisted(ctx context.Context, tokenString string) bool {
	key := fmt.Sprintf("blacklist:%s", tokenString)
	exists, err := tb.client.Exists(ctx, key).Result()
	if err != nil {
		return false
	}
	return exists > 0
}

func (tb *RedisTokenBlacklist) Close() error {
	return tb.client.Close()
}
