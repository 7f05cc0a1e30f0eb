package dashboard

import (
	"context"
	"fmt"
	"math/rand"

	"go.uber.org/zap"
)

// BootstrapOptions describes how to assemble a dashboard.
type BootstrapOptions struct {
	Storage  Storage
	Devices  DeviceLister
	// DevicePool feeds template drops; defaults to the eight mock device ids.
	DevicePool func() []string
	Scheme     SchemePreference
	Sink       StyleSink
	// Manifest is an optional YAML file with extra templates and themes.
	Manifest  string
	Rand      *rand.Rand
	Renderer  Renderer
	Telemetry Telemetry
	// Notifier also receives toasts; the broadcast hook always does.
	Notifier Notifier
	Logger   *zap.Logger
}

// Components is a fully wired dashboard.
type Components struct {
	Configs    *ConfigStore
	Presets    *PresetStore
	Themes     *ThemeManager
	Templates  *TemplateLibrary
	EditMode   *EditMode
	Broadcast  *BroadcastHook
	Service    *Service
	Controller *Controller
}

// Bootstrap wires every component over one storage backend, loads the
// optional manifest, applies the persisted theme and loads the configuration.
func Bootstrap(ctx context.Context, opts BootstrapOptions) (*Components, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Storage == nil {
		opts.Storage = NewMemoryStorage()
	}
	configs := NewConfigStore(ConfigStoreOptions{Storage: opts.Storage, Logger: opts.Logger.Named("config")})
	presets := NewPresetStore(PresetStoreOptions{Configs: configs, Logger: opts.Logger.Named("presets")})
	themes := NewThemeManager(ThemeManagerOptions{
		Storage: opts.Storage,
		Sink:    opts.Sink,
		Scheme:  opts.Scheme,
		Logger:  opts.Logger.Named("theme"),
	})
	templates := NewTemplateLibrary()
	if opts.Manifest != "" {
		doc, err := templates.LoadManifestFile(opts.Manifest)
		if err != nil {
			return nil, err
		}
		if err := doc.RegisterThemes(themes); err != nil {
			return nil, err
		}
		opts.Logger.Info("manifest loaded",
			zap.String("path", opts.Manifest),
			zap.Int("templates", len(doc.Templates)),
			zap.Int("themes", len(doc.Themes)),
		)
	}

	editMode := NewEditMode()
	broadcast := NewBroadcastHook()
	var notifier Notifier = broadcast
	if opts.Notifier != nil {
		notifier = Notifiers{broadcast, opts.Notifier}
	}
	service := NewService(Options{
		Configs: configs,
		Presets: presets,
		Factory: NewWidgetFactory(WidgetFactoryOptions{
			Rand:    opts.Rand,
			Devices: opts.DevicePool,
		}),
		EditMode:    editMode,
		RefreshHook: broadcast,
		Notifier:    notifier,
		Telemetry:   opts.Telemetry,
		Logger:      opts.Logger.Named("service"),
	})
	controller := NewController(ControllerOptions{
		Service:   service,
		Devices:   opts.Devices,
		Themes:    themes,
		EditMode:  editMode,
		Templates: templates,
		Renderer:  opts.Renderer,
	})

	applied := themes.Initialize(ctx)
	cfg := service.Reload(ctx)
	opts.Logger.Info("dashboard ready",
		zap.String("title", cfg.Title),
		zap.Int("views", len(cfg.Views)),
		zap.String("theme", applied.Requested),
	)
	return &Components{
		Configs:    configs,
		Presets:    presets,
		Themes:     themes,
		Templates:  templates,
		EditMode:   editMode,
		Broadcast:  broadcast,
		Service:    service,
		Controller: controller,
	}, nil
}

// ApplyTheme applies a theme and relays the change to subscribers.
func (c *Components) ApplyTheme(ctx context.Context, id string) (AppliedTheme, error) {
	applied, err := c.Themes.Apply(ctx, id)
	if err != nil {
		c.Broadcast.Notify(ctx, Toast{Variant: ToastError, Title: fmt.Sprintf("Failed to apply theme %s", id)})
		return AppliedTheme{}, err
	}
	c.Broadcast.ThemeApplied(applied)
	return applied, nil
}
