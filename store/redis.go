package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/tailored-agentic-units/statewire/codec"
	"github.com/tailored-agentic-units/statewire/serialization"
)

// DefaultRedisPrefix namespaces run IDs in a shared Redis database.
const DefaultRedisPrefix = "statewire:run:"

const redisScanCount = 100

type redisStore struct {
	client redis.UniversalClient
	codec  codec.Codec
	prefix string
}

// NewRedisStore creates a Store that keeps each document under
// prefix+runID in Redis.
func NewRedisStore(client redis.UniversalClient, prefix string, c codec.Codec) Store {
	if c == nil {
		c = codec.JSON()
	}
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &redisStore{client: client, codec: c, prefix: prefix}
}

func (r *redisStore) key(runID string) string {
	return r.prefix + runID
}

func (r *redisStore) Save(ctx context.Context, runID string, doc serialization.Document) error {
	if err := ValidateRunID(runID); err != nil {
		return err
	}
	data, err := encode(r.codec, runID, doc)
	if err != nil {
		return err
	}

	if err := r.client.Set(ctx, r.key(runID), data, 0).Err(); err != nil {
		return fmt.Errorf("%w: redis set: %w", ErrSaveFailed, err)
	}
	return nil
}

func (r *redisStore) Load(ctx context.Context, runID string) (serialization.Document, error) {
	if err := ValidateRunID(runID); err != nil {
		return nil, err
	}

	data, err := r.client.Get(ctx, r.key(runID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
		}
		return nil, fmt.Errorf("%w: redis get: %w", ErrLoadFailed, err)
	}
	return decode(r.codec, runID, data)
}

func (r *redisStore) Delete(ctx context.Context, runID string) error {
	if err := ValidateRunID(runID); err != nil {
		return err
	}
	if err := r.client.Del(ctx, r.key(runID)).Err(); err != nil {
		return fmt.Errorf("%w: redis del: %w", ErrDeleteFailed, err)
	}
	return nil
}

func (r *redisStore) List(ctx context.Context) ([]string, error) {
	ids := []string{}
	iter := r.client.Scan(ctx, 0, r.prefix+"*", redisScanCount).Iterator()
	for iter.Next(ctx) {
		ids = append(ids, strings.TrimPrefix(iter.Val(), r.prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("%w: redis scan: %w", ErrLoadFailed, err)
	}

	slices.Sort(ids)
	return slices.Compact(ids), nil
}
