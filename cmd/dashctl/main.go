package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/goliatone/go-home-dashboard/components/dashboard"
	"github.com/goliatone/go-home-dashboard/components/dashboard/httpapi"
	"github.com/goliatone/go-home-dashboard/components/devices"
	"github.com/goliatone/go-home-dashboard/pkg/config"
	dashboardpkg "github.com/goliatone/go-home-dashboard/pkg/dashboard"
	"github.com/goliatone/go-home-dashboard/pkg/logging"
)

type cli struct {
	Globals

	Config   configCmd   `cmd:"" help:"Inspect or reset the persisted dashboard configuration."`
	Widgets  widgetsCmd  `cmd:"" help:"List and edit widgets on the active view."`
	Presets  presetsCmd  `cmd:"" help:"Manage saved layout presets."`
	Theme    themeCmd    `cmd:"" help:"List or select the color theme."`
	Template templateCmd `cmd:"" help:"Scaffold widget templates into a manifest."`
}

// Globals are shared by every subcommand.
type Globals struct {
	ConfigFile string `name:"config" short:"c" type:"path" help:"Optional YAML configuration file."`
	EnvFile    string `name:"env-file" type:"path" help:"Dotenv file to load."`
	Verbose    bool   `short:"v" help:"Log component activity to stderr."`

	Stdout io.Writer `kong:"-"`
}

func main() {
	var c cli
	ctx := kong.Parse(&c,
		kong.Name("dashctl"),
		kong.Description("Command line access to the home dashboard state."),
		kong.UsageOnError(),
	)
	c.Globals.Stdout = os.Stdout
	ctx.FatalIfErrorf(ctx.Run(&c.Globals))
}

// session is one opened dashboard over the configured storage.
type session struct {
	ctx        context.Context
	components *dashboard.Components
	exec       httpapi.Executor
	close      func()
}

func (g *Globals) open() (*session, error) {
	cfg, err := config.Load(config.Options{File: g.ConfigFile, EnvFile: g.EnvFile})
	if err != nil {
		return nil, err
	}
	logger := zap.NewNop()
	if g.Verbose {
		if logger, err = logging.New(cfg.Log.Level, "console"); err != nil {
			return nil, err
		}
	}
	ctx := context.Background()
	storage, closeStorage, err := dashboardpkg.OpenStorage(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}
	registry := devices.NewRegistry(devices.RegistryOptions{Logger: logger.Named("devices")})
	components, err := dashboard.Bootstrap(ctx, dashboard.BootstrapOptions{
		Storage:    storage,
		Devices:    registry,
		DevicePool: registry.IDs,
		Scheme:     dashboard.StaticScheme(cfg.Theme.Scheme),
		Manifest:   cfg.Templates.Manifest,
		Notifier:   dashboard.LogNotifier{Logger: logger.Named("toast")},
		Logger:     logger,
	})
	if err != nil {
		closeStorage()
		return nil, err
	}
	return &session{
		ctx:        ctx,
		components: components,
		exec:       httpapi.NewCommandExecutor(components, registry, nil),
		close: func() {
			_ = logger.Sync()
			closeStorage()
		},
	}, nil
}

func (g *Globals) out() io.Writer {
	if g.Stdout == nil {
		return os.Stdout
	}
	return g.Stdout
}

func (g *Globals) printJSON(v any) error {
	encoder := json.NewEncoder(g.out())
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("dashctl: encode output: %w", err)
	}
	return nil
}

func (g *Globals) printf(format string, args ...any) {
	fmt.Fprintf(g.out(), format, args...)
}
