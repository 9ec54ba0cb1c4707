package cartstore

import (
	"context"
	"errors"
	"time"

	"github.com/angelmondragon/storefront-cart/internal/cart"
	pkgredis "github.com/angelmondragon/storefront-cart/pkg/redis"
)

type redisKV interface {
	GetEx(ctx context.Context, key string, ttl time.Duration) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CartKey(slotKey string) string
	Ping(ctx context.Context) error
}

// RedisStore keeps each slot as a string key. Reads and writes both refresh
// the TTL, so a cart expires after ttl without visits.
type RedisStore struct {
	kv  redisKV
	ttl time.Duration
}

func NewRedisStore(kv redisKV, ttl time.Duration) *RedisStore {
	return &RedisStore{kv: kv, ttl: ttl}
}

func (s *RedisStore) Read(ctx context.Context, key string) (string, error) {
	value, err := s.kv.GetEx(ctx, s.kv.CartKey(key), s.ttl)
	if errors.Is(err, pkgredis.Nil) {
		return "", cart.ErrSlotEmpty
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *RedisStore) Write(ctx context.Context, key, value string) error {
	return s.kv.Set(ctx, s.kv.CartKey(key), value, s.ttl)
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.kv.Ping(ctx)
}

func (s *RedisStore) Name() string {
	return "redis"
}
