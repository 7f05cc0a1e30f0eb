package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces every environment override (HOMEDASH_HTTP_ADDR, ...).
const EnvPrefix = "HOMEDASH"

// Storage drivers understood by the binaries.
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

// Config holds the runtime configuration of homedashd and dashctl.
type Config struct {
	HTTP      HTTPConfig      `mapstructure:"http"`
	Ops       OpsConfig       `mapstructure:"ops"`
	Storage   StorageConfig   `mapstructure:"storage"`
	MQTT      MQTTConfig      `mapstructure:"mqtt"`
	Feed      FeedConfig      `mapstructure:"feed"`
	Devices   DevicesConfig   `mapstructure:"devices"`
	Theme     ThemeConfig     `mapstructure:"theme"`
	Templates TemplatesConfig `mapstructure:"templates"`
	Log       LogConfig       `mapstructure:"log"`
}

type HTTPConfig struct {
	Addr     string `mapstructure:"addr"`
	BasePath string `mapstructure:"base_path"`
}

// OpsConfig is the side listener serving /metrics and /events.
type OpsConfig struct {
	Addr string `mapstructure:"addr"`
}

type StorageConfig struct {
	Driver   string         `mapstructure:"driver"`
	Dir      string         `mapstructure:"dir"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type PostgresConfig struct {
	DSN string `mapstructure:"dsn"`
}

// MQTTConfig enables the device state bridge when Broker is set.
type MQTTConfig struct {
	Broker      string `mapstructure:"broker"`
	ClientID    string `mapstructure:"client_id"`
	TopicPrefix string `mapstructure:"topic_prefix"`
}

type FeedConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Interval     time.Duration `mapstructure:"interval"`
	ConnectDelay time.Duration `mapstructure:"connect_delay"`
}

type DevicesConfig struct {
	Latency time.Duration `mapstructure:"latency"`
}

// ThemeConfig.Scheme is the system preference used to resolve "auto".
type ThemeConfig struct {
	Scheme string `mapstructure:"scheme"`
}

type TemplatesConfig struct {
	Manifest string `mapstructure:"manifest"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Options controls where Load looks for configuration.
type Options struct {
	// File is an optional YAML file. A missing file is an error only when set.
	File string
	// EnvFile defaults to ".env"; a missing default file is ignored.
	EnvFile string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.base_path", "/home")
	v.SetDefault("ops.addr", ":9123")
	v.SetDefault("storage.driver", DriverMemory)
	v.SetDefault("storage.dir", "data")
	v.SetDefault("storage.redis.addr", "localhost:6379")
	v.SetDefault("storage.redis.password", "")
	v.SetDefault("storage.redis.db", 0)
	v.SetDefault("storage.redis.prefix", "homedash:")
	v.SetDefault("storage.postgres.dsn", "")
	v.SetDefault("mqtt.broker", "")
	v.SetDefault("mqtt.client_id", "homedashd")
	v.SetDefault("mqtt.topic_prefix", "home/devices")
	v.SetDefault("feed.enabled", true)
	v.SetDefault("feed.interval", 5*time.Second)
	v.SetDefault("feed.connect_delay", time.Second)
	v.SetDefault("devices.latency", 200*time.Millisecond)
	v.SetDefault("theme.scheme", "dark")
	v.SetDefault("templates.manifest", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Load resolves defaults, the optional YAML file, the .env file and
// HOMEDASH_* environment variables, in increasing precedence.
func Load(opts Options) (Config, error) {
	if err := loadEnvFile(opts.EnvFile); err != nil {
		return Config{}, err
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigType("yaml")

	if opts.File != "" {
		data, err := os.ReadFile(opts.File)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", opts.File, err)
		}
		if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", opts.File, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadEnvFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: load env file %s: %w", path, err)
	}
	return nil
}

// Validate rejects values the binaries cannot act on.
func (c Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMemory:
	case DriverFile:
		if c.Storage.Dir == "" {
			return errors.New("config: storage.dir is required for the file driver")
		}
	case DriverRedis:
		if c.Storage.Redis.Addr == "" {
			return errors.New("config: storage.redis.addr is required for the redis driver")
		}
	case DriverPostgres:
		if c.Storage.Postgres.DSN == "" {
			return errors.New("config: storage.postgres.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("config: unknown storage driver %q", c.Storage.Driver)
	}
	switch c.Theme.Scheme {
	case "light", "dark":
	default:
		return fmt.Errorf("config: theme.scheme must be light or dark, got %q", c.Theme.Scheme)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format must be json or console, got %q", c.Log.Format)
	}
	return nil
}
