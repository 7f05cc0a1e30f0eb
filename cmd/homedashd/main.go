package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/goliatone/go-home-dashboard/components/dashboard"
	"github.com/goliatone/go-home-dashboard/components/dashboard/gorouter"
	"github.com/goliatone/go-home-dashboard/components/dashboard/httpapi"
	"github.com/goliatone/go-home-dashboard/components/devices"
	"github.com/goliatone/go-home-dashboard/pkg/config"
	dashboardpkg "github.com/goliatone/go-home-dashboard/pkg/dashboard"
	"github.com/goliatone/go-home-dashboard/pkg/logging"
)

type cli struct {
	Config  string `short:"c" type:"path" help:"Optional YAML configuration file."`
	EnvFile string `name:"env-file" type:"path" help:"Dotenv file to load (defaults to ./.env when present)."`
}

func main() {
	var args cli
	kctx := kong.Parse(&args,
		kong.Name("homedashd"),
		kong.Description("Smart home dashboard server."),
		kong.UsageOnError(),
	)
	kctx.FatalIfErrorf(run(args))
}

func run(args cli) error {
	cfg, err := config.Load(config.Options{File: args.Config, EnvFile: args.EnvFile})
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	deviceMetrics := devices.NewMetrics(reg)
	telemetry := dashboard.NewPrometheusTelemetry(reg, logger.Named("telemetry"))

	registry := devices.NewRegistry(devices.RegistryOptions{
		Latency:  cfg.Devices.Latency,
		Logger:   logger.Named("devices"),
		Observer: deviceMetrics,
	})
	if list, err := registry.List(ctx); err == nil {
		for _, d := range list {
			deviceMetrics.Observe(d)
		}
	}

	storage, closeStorage, err := dashboardpkg.OpenStorage(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer closeStorage()

	renderer, err := dashboard.NewTemplateRenderer()
	if err != nil {
		return err
	}
	components, err := dashboard.Bootstrap(ctx, dashboard.BootstrapOptions{
		Storage:    storage,
		Devices:    registry,
		DevicePool: registry.IDs,
		Scheme:     dashboard.StaticScheme(cfg.Theme.Scheme),
		Manifest:   cfg.Templates.Manifest,
		Renderer:   renderer,
		Telemetry:  telemetry,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	feed := devices.NewFeed(devices.FeedOptions{
		Interval:     cfg.Feed.Interval,
		ConnectDelay: cfg.Feed.ConnectDelay,
		DeviceIDs:    registry.IDs(),
		Logger:       logger.Named("feed"),
	})
	wireFeed(feed, registry, components.Broadcast, deviceMetrics, logger)

	if cfg.MQTT.Broker != "" {
		client, err := devices.ConnectMQTT(cfg.MQTT.Broker, cfg.MQTT.ClientID)
		if err != nil {
			return err
		}
		defer client.Disconnect(250)
		bridge := &devices.MQTTBridge{
			Publisher:   devices.ClientPublisher{Client: client, QoS: 1, Retained: true},
			TopicPrefix: cfg.MQTT.TopicPrefix,
			Logger:      logger.Named("mqtt"),
		}
		feed.Subscribe(devices.EventDeviceUpdate, bridge.Listener())
		logger.Info("mqtt bridge enabled", zap.String("broker", cfg.MQTT.Broker))
	}

	server := router.NewFiberAdapter()
	if err := gorouter.Register(gorouter.Config[*fiber.App]{
		Router:     server.Router(),
		Controller: components.Controller,
		API:        httpapi.NewCommandExecutor(components, registry, telemetry),
		Broadcast:  components.Broadcast,
		BasePath:   cfg.HTTP.BasePath,
	}); err != nil {
		return err
	}

	ops := &http.Server{
		Addr:              cfg.Ops.Addr,
		Handler:           opsHandler(reg, components.Broadcast),
		ReadHeaderTimeout: 5 * time.Second,
	}

	if cfg.Feed.Enabled {
		if err := feed.Start(); err != nil {
			return err
		}
		defer feed.Stop()
	}

	errs := make(chan error, 2)
	go func() {
		logger.Info("dashboard listening", zap.String("addr", cfg.HTTP.Addr), zap.String("base_path", cfg.HTTP.BasePath))
		errs <- server.Serve(cfg.HTTP.Addr)
	}()
	go func() {
		logger.Info("ops listening", zap.String("addr", cfg.Ops.Addr))
		if err := ops.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errs:
		logger.Error("server stopped", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("dashboard shutdown", zap.Error(err))
	}
	if err := ops.Shutdown(shutdownCtx); err != nil {
		logger.Warn("ops shutdown", zap.Error(err))
	}
	return nil
}

// wireFeed applies feed deltas to the registry and relays every message to
// push subscribers and metrics.
func wireFeed(feed *devices.Feed, registry *devices.Registry, broadcast *dashboard.BroadcastHook, metrics *devices.Metrics, logger *zap.Logger) {
	feed.Subscribe(devices.EventDeviceUpdate, func(msg devices.Message) {
		if msg.Update == nil {
			return
		}
		if _, err := registry.Apply(*msg.Update); err != nil {
			logger.Warn("apply device update", zap.String("device_id", msg.Update.DeviceID), zap.Error(err))
		}
	})
	for _, event := range []string{devices.EventDeviceUpdate, devices.EventConnected} {
		feed.Subscribe(event, broadcast.FeedListener())
		feed.Subscribe(event, metrics.Listener())
	}
}

func opsHandler(reg *prometheus.Registry, broadcast *dashboard.BroadcastHook) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	mux.HandleFunc("/events", broadcast.ServeSSE)
	mux.HandleFunc("/ws", broadcast.ServeWebSocket)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}
