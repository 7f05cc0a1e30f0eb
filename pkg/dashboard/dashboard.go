package dashboard

import (
	"context"

	core "github.com/goliatone/go-home-dashboard/components/dashboard"
)

// Service exposes the underlying components/dashboard.Service type.
type Service = core.Service

// Options re-export for convenience.
type Options = core.Options

// Components is a fully wired dashboard.
type Components = core.Components

// BootstrapOptions re-export for convenience.
type BootstrapOptions = core.BootstrapOptions

// Widget and Configuration are the persisted model.
type (
	Widget        = core.Widget
	Configuration = core.Configuration
	Storage       = core.Storage
)

// NewService proxies to the internal constructor.
func NewService(opts Options) *Service {
	return core.NewService(opts)
}

// Bootstrap proxies to the internal wiring.
func Bootstrap(ctx context.Context, opts BootstrapOptions) (*Components, error) {
	return core.Bootstrap(ctx, opts)
}

// NewMemoryStorage returns an in-process Storage.
func NewMemoryStorage() *core.MemoryStorage {
	return core.NewMemoryStorage()
}

// NewFileStorage returns a Storage keeping one file per key under dir.
func NewFileStorage(dir string) (*core.FileStorage, error) {
	return core.NewFileStorage(dir)
}
