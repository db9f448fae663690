package state

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/jaki95/hls-asset-manager/internal/asset"
)

// DefaultRedisKey is the hash holding every asset's state.
const DefaultRedisKey = "asset:download_states"

// RedisStore keeps states in a single Redis hash.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore creates a new store backed by Redis.
func NewRedisStore(addr string, password string, db int) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisStore{client: rdb, key: DefaultRedisKey}
}

// NewRedisStoreWithClient uses an existing client and hash key.
func NewRedisStoreWithClient(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{client: client, key: key}
}

func (s *RedisStore) State(ctx context.Context, name string) (asset.DownloadState, bool, error) {
	raw, err := s.client.HGet(ctx, s.key, name).Result()
	if errors.Is(err, redis.Nil) {
		return asset.NotDownloaded, false, nil
	}
	if err != nil {
		return asset.NotDownloaded, false, fmt.Errorf("redis state error: %w", err)
	}

	st, err := asset.ParseDownloadState(raw)
	if err != nil {
		return asset.NotDownloaded, false, fmt.Errorf("%w: %s: %v", ErrCorruptRecord, name, err)
	}
	return st, true, nil
}

func (s *RedisStore) SetState(ctx context.Context, name string, st asset.DownloadState) error {
	if err := validate(name, st); err != nil {
		return err
	}
	if err := s.client.HSet(ctx, s.key, name, string(st)).Err(); err != nil {
		return fmt.Errorf("redis state error: %w", err)
	}
	return nil
}

func (s *RedisStore) Remove(ctx context.Context, name string) error {
	if err := s.client.HDel(ctx, s.key, name).Err(); err != nil {
		return fmt.Errorf("redis state error: %w", err)
	}
	return nil
}

func (s *RedisStore) All(ctx context.Context) (map[string]asset.DownloadState, error) {
	values, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis state error: %w", err)
	}

	result := make(map[string]asset.DownloadState, len(values))
	for name, raw := range values {
		st, err := asset.ParseDownloadState(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrCorruptRecord, name, err)
		}
		result[name] = st
	}
	return result, nil
}

// Close closes the Redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
