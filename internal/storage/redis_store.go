package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"
)

const DefaultRedisPrefix = "apolo:"

type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client, prefix string) (*RedisStore, error) {
	if client == nil {
		return nil, errors.New("storage: nil redis client")
	}
	return &RedisStore{client: client, prefix: prefix}, nil
}

// OpenRedis connects and pings the server before returning.
func OpenRedis(ctx context.Context, addr, password string, db int, prefix string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", addr, err)
	}
	return NewRedisStore(client, prefix)
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, s.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("get %s: %w", key, err)
	}
	return value, nil
}

func (s *RedisStore) Put(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	n, err := s.client.Del(ctx, s.prefix+key).Result()
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *RedisStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	out := make([]string, 0)
	full := s.prefix + prefix
	iter := s.client.Scan(ctx, 0, globLiteral(full)+"*", 100).Iterator()
	for iter.Next(ctx) {
		if key := iter.Val(); strings.HasPrefix(key, full) {
			out = append(out, strings.TrimPrefix(key, s.prefix))
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	sort.Strings(out)
	return out, nil
}

// globLiteral cuts p at the first glob metacharacter so SCAN MATCH never
// reads part of a key as a pattern. Callers filter the wider result.
func globLiteral(p string) string {
	if i := strings.IndexAny(p, `*?[]\`); i >= 0 {
		return p[:i]
	}
	return p
}
