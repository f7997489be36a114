package workspace

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pkordes/seminar-planner/internal/domain"
)

// redisKeyPrefix namespaces draft keys.
const redisKeyPrefix = "seminar:draft:"

// maxUpdateRetries bounds optimistic retries when a WATCHed key changes.
const maxUpdateRetries = 10

// RedisStore keeps drafts as JSON strings with a sliding TTL, so drafts
// survive restarts and are shared between API replicas. Updates use
// WATCH/MULTI so concurrent reducers on one draft never lose writes.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore returns a store on rdb whose drafts expire after ttl.
func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func redisKey(id string) string { return redisKeyPrefix + id }

func (s *RedisStore) Create(ctx context.Context, d Draft) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("workspace.RedisStore.Create: %w", err)
	}
	if err := s.rdb.Set(ctx, redisKey(d.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("workspace.RedisStore.Create: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (Draft, error) {
	d, err := decodeDraft(s.rdb.Get(ctx, redisKey(id)).Bytes())
	if err != nil {
		return Draft{}, fmt.Errorf("workspace.RedisStore.Get: %w", err)
	}
	return d, nil
}

func (s *RedisStore) Update(ctx context.Context, id string, fn func(*Draft) error) (Draft, error) {
	key := redisKey(id)
	var result Draft

	txf := func(tx *redis.Tx) error {
		d, err := decodeDraft(tx.Get(ctx, key).Bytes())
		if err != nil {
			return err
		}
		if err := fn(&d); err != nil {
			return err
		}
		data, err := json.Marshal(d)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, s.ttl)
			return nil
		})
		if err == nil {
			result = d
		}
		return err
	}

	for range maxUpdateRetries {
		err := s.rdb.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return Draft{}, fmt.Errorf("workspace.RedisStore.Update: %w", err)
		}
		return result, nil
	}
	return Draft{}, fmt.Errorf("workspace.RedisStore.Update: %w: too many concurrent edits", domain.ErrConflict)
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	n, err := s.rdb.Del(ctx, redisKey(id)).Result()
	if err != nil {
		return fmt.Errorf("workspace.RedisStore.Delete: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("workspace.RedisStore.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func decodeDraft(data []byte, err error) (Draft, error) {
	if errors.Is(err, redis.Nil) {
		return Draft{}, domain.ErrNotFound
	}
	if err != nil {
		return Draft{}, err
	}
	var d Draft
	if err := json.Unmarshal(data, &d); err != nil {
		return Draft{}, fmt.Errorf("decode draft: %w", err)
	}
	return d, nil
}
