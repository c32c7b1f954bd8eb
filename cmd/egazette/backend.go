package main

import (
	"context"
	"fmt"

	"egazette/internal/db"
	"egazette/internal/store"
	"egazette/pkg/types"
)

// openBackend constructs the record store backend named by the config.
func openBackend(ctx context.Context, cfg *types.Config) (store.Backend, error) {
	switch cfg.StorageBackend {
	case "memory":
		return store.NewMemoryBackend(), nil
	case "redis":
		return store.NewRedisBackend(ctx, cfg)
	case "postgres":
		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return store.NewPostgresBackend(pool), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
