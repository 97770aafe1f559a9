package store

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/tailored-agentic-units/statewire/codec"
)

// Factory builds a Store from configuration. The returned close function
// releases connections and may be nil.
type Factory func(ctx context.Context, cfg *Config, c codec.Codec) (Store, func() error, error)

var (
	backends = map[string]Factory{
		BackendMemory:   openMemory,
		BackendFile:     openFile,
		BackendRedis:    openRedis,
		BackendPostgres: openPostgres,
	}
	mutex sync.RWMutex
)

// RegisterBackend adds or replaces a named backend factory.
func RegisterBackend(name string, f Factory) {
	mutex.Lock()
	defer mutex.Unlock()

	backends[name] = f
}

// Backends returns the registered backend names in sorted order.
func Backends() []string {
	mutex.RLock()
	defer mutex.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Open builds the configured backend with the configured codec. Callers
// must invoke the returned close function when done.
func Open(ctx context.Context, cfg *Config) (Store, func() error, error) {
	mutex.RLock()
	factory, exists := backends[cfg.Backend]
	mutex.RUnlock()

	if !exists {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownBackend, cfg.Backend)
	}

	name := cfg.Codec
	if name == "" {
		name = codec.NameJSON
	}
	c, err := codec.Lookup(name)
	if err != nil {
		return nil, nil, err
	}

	s, closer, err := factory(ctx, cfg, c)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s store: %w", cfg.Backend, err)
	}
	if closer == nil {
		closer = func() error { return nil }
	}
	return s, closer, nil
}

func openMemory(_ context.Context, _ *Config, c codec.Codec) (Store, func() error, error) {
	return NewMemoryStore(c), nil, nil
}

func openFile(_ context.Context, cfg *Config, c codec.Codec) (Store, func() error, error) {
	if cfg.Path == "" {
		return nil, nil, fmt.Errorf("file store requires a path")
	}
	return NewFileStore(cfg.Path, c), nil, nil
}

func openRedis(ctx context.Context, cfg *Config, c codec.Codec) (Store, func() error, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewRedisStore(client, cfg.Redis.Prefix, c), client.Close, nil
}

func openPostgres(ctx context.Context, cfg *Config, c codec.Codec) (Store, func() error, error) {
	if cfg.Postgres.DSN == "" {
		return nil, nil, fmt.Errorf("postgres store requires a dsn")
	}
	pool, err := ConnectPostgres(ctx, cfg.Postgres.DSN)
	if err != nil {
		return nil, nil, err
	}

	s := NewPostgresStore(pool, cfg.Postgres.Table, c)
	if cfg.Postgres.EnsureSchema {
		if err := s.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
	}
	return s, func() error { pool.Close(); return nil }, nil
}
