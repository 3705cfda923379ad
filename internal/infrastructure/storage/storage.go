// Package storage provides the durable key-value backends behind the cart and
// the session flag.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/mrops-br/shophub-api/internal/domain"
	"github.com/mrops-br/shophub-api/internal/infrastructure/config"
)

const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

// New opens the backend selected by cfg.Driver
func New(cfg *config.StorageConfig) (domain.KeyValueStore, error) {
	switch cfg.Driver {
	case DriverMemory:
		return NewMemoryStore(), nil
	case DriverSQLite:
		store, err := OpenSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return store, nil
	case DriverRedis:
		store, err := openRedisStore(&cfg.Redis)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// openRedisStore pings the server before handing the store out. An
// unreachable server is an error.
func openRedisStore(cfg *config.RedisConfig) (*RedisStore, error) {
	timeout := cfg.DialTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	store := NewRedisStore(cfg)
	if err := store.Ping(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("redis storage at %s: %w", cfg.Addr, err)
	}
	return store, nil
}
