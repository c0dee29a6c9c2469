package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Addr     string `split_words:"true" default:"localhost:6379"`
	Password string `split_words:"true"`
	DB       int    `envconfig:"DB" default:"0"`
}

// RedisStore persists SessionState in a self-hosted Redis.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
	now       func() time.Time
}

// NewRedisClient connects and pings the server.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return client, nil
}

func NewRedisStore(client *redis.Client, opts ...StoreOption) (*RedisStore, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	o := defaultStoreOptions()
	if err := o.apply(opts); err != nil {
		return nil, err
	}
	return &RedisStore{
		client:    client,
		keyPrefix: o.keyPrefix,
		ttl:       o.ttl,
		now:       o.now,
	}, nil
}

func (s *RedisStore) Load(ctx context.Context, sessionID string) (*SessionState, error) {
	key, err := sessionKey(s.keyPrefix, sessionID)
	if err != nil {
		return nil, err
	}

	payload, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrStateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return decodeState(payload)
}

func (s *RedisStore) Save(ctx context.Context, st *SessionState) error {
	payload, err := encodeState(st, s.now())
	if err != nil {
		return err
	}
	key, err := sessionKey(s.keyPrefix, st.SessionID)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, key, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	key, err := sessionKey(s.keyPrefix, sessionID)
	if err != nil {
		return err
	}
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}
