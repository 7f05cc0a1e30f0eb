package dashboard

import (
	"context"
	"fmt"

	core "github.com/goliatone/go-home-dashboard/components/dashboard"
	"github.com/goliatone/go-home-dashboard/pkg/config"
)

// OpenStorage returns the configured backend and a closer for its client.
func OpenStorage(ctx context.Context, cfg config.StorageConfig) (Storage, func(), error) {
	noop := func() {}
	switch cfg.Driver {
	case "", config.DriverMemory:
		return core.NewMemoryStorage(), noop, nil
	case config.DriverFile:
		storage, err := core.NewFileStorage(cfg.Dir)
		if err != nil {
			return nil, nil, err
		}
		return storage, noop, nil
	case config.DriverRedis:
		storage, client, err := core.NewRedisStorage(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Prefix)
		if err != nil {
			return nil, nil, err
		}
		return storage, func() { _ = client.Close() }, nil
	case config.DriverPostgres:
		storage, pool, err := core.NewPostgresStorage(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, nil, err
		}
		return storage, pool.Close, nil
	}
	return nil, nil, fmt.Errorf("dashboard: unknown storage driver %q", cfg.Driver)
}
