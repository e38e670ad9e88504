package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a Store backed by a shared Redis instance.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

// redisEnvelope carries the payload together with its write timestamp,
// since the age check happens client-side rather than via Redis TTLs.
type redisEnvelope struct {
	Timestamp int64  `json:"ts"` // unix milliseconds
	Data      []byte `json:"data"`
}

// NewRedisStore creates a RedisStore and pings the server.
func NewRedisStore(ctx context.Context, addr, password string, db int) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisStore{rdb: rdb, prefix: "getracker:"}, nil
}

func (s *RedisStore) key(key string) string { return s.prefix + key }

func (s *RedisStore) Get(ctx context.Context, key string) (Entry, error) {
	raw, err := s.rdb.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, &Error{Op: "get", Key: key, Err: err}
	}
	var env redisEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Entry{}, &Error{Op: "get", Key: key, Err: err}
	}
	return Entry{Data: env.Data, Timestamp: time.UnixMilli(env.Timestamp)}, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, entry Entry) error {
	raw, err := json.Marshal(redisEnvelope{
		Timestamp: entry.Timestamp.UnixMilli(),
		Data:      entry.Data,
	})
	if err != nil {
		return &Error{Op: "set", Key: key, Err: err}
	}
	// No Redis-side expiration: expired entries must stay readable for
	// the stale-while-error fallback.
	if err := s.rdb.Set(ctx, s.key(key), raw, 0).Err(); err != nil {
		return &Error{Op: "set", Key: key, Err: err}
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, s.key(key)).Err(); err != nil {
		return &Error{Op: "delete", Key: key, Err: err}
	}
	return nil
}

func (s *RedisStore) Close() error { return s.rdb.Close() }
