package cart

import (
	"context"
	"errors"
	"time"

	pkgredis "github.com/shadeworks/storefront/pkg/redis"
)

type redisCommands interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// RedisSlot persists the cart under one namespaced redis key.
type RedisSlot struct {
	client redisCommands
	key    string
}

// NewRedisSlot builds a slot stored at the given namespaced key.
func NewRedisSlot(client redisCommands, key string) (*RedisSlot, error) {
	if client == nil {
		return nil, errors.New("redis client required")
	}
	if key == "" {
		return nil, errors.New("slot key required")
	}
	return &RedisSlot{client: client, key: key}, nil
}

func (s *RedisSlot) Read(ctx context.Context) ([]byte, error) {
	value, err := s.client.Get(ctx, s.key)
	if errors.Is(err, pkgredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []byte(value), nil
}

func (s *RedisSlot) Write(ctx context.Context, payload []byte) error {
	return s.client.Set(ctx, s.key, string(payload), 0)
}
