package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	OrderCacheTTL   = 5 * time.Minute
	ProductCacheTTL = 10 * time.Minute
)

var ErrCacheMiss = errors.New("cache miss")

// GetJSON lit une valeur JSON, ErrCacheMiss si la clé est absente
func GetJSON(ctx context.Context, rdb redis.Cmdable, key string, dst any) error {
	data, err := rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("décodage cache %s: %w", key, err)
	}
	return nil
}

// SetJSON écrit avec un TTL légèrement aléatoire pour étaler les expirations
func SetJSON(ctx context.Context, rdb redis.Cmdable, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encodage cache %s: %w", key, err)
	}
	if err := rdb.Set(ctx, key, data, ttl+jitter(ttl)).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func jitter(ttl time.Duration) time.Duration {
	max := int64(ttl / 10)
	if max <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(max))
}
