// Package repository persists the match as JSON documents under string keys.
//
// The session writes its whole snapshot through SaveAll after every
// mutation, so a backend only needs atomic multi-key writes and point reads.
package repository

import (
	"context"
	"fmt"
)

// Supported drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

// Store is a small key-value persistence port.
type Store interface {
	// Save writes one key.
	Save(ctx context.Context, key string, value []byte) error

	// SaveAll writes every key in values atomically.
	SaveAll(ctx context.Context, values map[string][]byte) error

	// Load returns the value of key, or ErrNotFound.
	Load(ctx context.Context, key string) ([]byte, error)

	// Clear removes every key owned by this store.
	Clear(ctx context.Context) error

	Close() error
}

// Open builds the Store for driver.
func Open(ctx context.Context, driver string, opts ...Option) (Store, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	switch driver {
	case DriverMemory:
		return NewMemoryStore(), nil
	case DriverSQLite:
		return NewSQLiteStore(ctx, o.path, o.keyPrefix)
	case DriverRedis:
		if o.redisClient != nil {
			return NewRedisStoreFromClient(ctx, o.redisClient, o.keyPrefix)
		}
		return NewRedisStore(ctx, o.redisAddr, o.redisPassword, o.redisDB, o.keyPrefix)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}
