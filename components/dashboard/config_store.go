package dashboard

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"
)

var errMissingStorage = errors.New("dashboard: storage not configured")

// ConfigStoreOptions configures a ConfigStore.
type ConfigStoreOptions struct {
	Storage   Storage
	Validator ConfigValidator
	Defaults  func() Configuration
	Logger    *zap.Logger
}

// ConfigStore loads and saves the configuration document. Persistence
// failures never reach the caller: loads fall back to the default document
// and saves are logged and dropped.
type ConfigStore struct {
	storage   Storage
	validator ConfigValidator
	defaults  func() Configuration
	logger    *zap.Logger
}

// NewConfigStore builds a store; a nil Storage falls back to MemoryStorage.
func NewConfigStore(opts ConfigStoreOptions) *ConfigStore {
	if opts.Storage == nil {
		opts.Storage = NewMemoryStorage()
	}
	if opts.Validator == nil {
		opts.Validator = NewJSONSchemaValidator()
	}
	if opts.Defaults == nil {
		opts.Defaults = DefaultConfiguration
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &ConfigStore{
		storage:   opts.Storage,
		validator: opts.Validator,
		defaults:  opts.Defaults,
		logger:    opts.Logger,
	}
}

// Load returns the stored configuration, synthesizing and persisting the
// default document when nothing usable is stored.
func (s *ConfigStore) Load(ctx context.Context) Configuration {
	raw, found, err := s.storage.GetItem(ctx, ConfigKey)
	switch {
	case err != nil:
		s.logger.Warn("read dashboard config", zap.Error(err))
	case !found:
		s.logger.Debug("dashboard config missing, using defaults")
	default:
		cfg, err := s.decode([]byte(raw))
		if err == nil {
			return cfg
		}
		s.logger.Warn("stored dashboard config rejected", zap.Error(err))
	}
	cfg := s.defaults()
	s.Save(ctx, cfg)
	return cfg
}

// Save replaces the stored document. Errors are logged only.
func (s *ConfigStore) Save(ctx context.Context, cfg Configuration) {
	if err := s.save(ctx, cfg); err != nil {
		s.logger.Error("save dashboard config", zap.Error(err))
	}
}

// Persist replaces the stored document and reports failures. It backs the
// user initiated flows (applying a preset) that surface errors.
func (s *ConfigStore) Persist(ctx context.Context, cfg Configuration) error {
	return s.save(ctx, cfg)
}

// Reset overwrites storage with the default document and returns it.
func (s *ConfigStore) Reset(ctx context.Context) Configuration {
	cfg := s.defaults()
	s.Save(ctx, cfg)
	return cfg
}

func (s *ConfigStore) save(ctx context.Context, cfg Configuration) error {
	if s.storage == nil {
		return errMissingStorage
	}
	data, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	return s.storage.SetItem(ctx, ConfigKey, string(data))
}

func (s *ConfigStore) decode(raw []byte) (Configuration, error) {
	if err := s.validator.ValidateConfiguration(raw); err != nil {
		return Configuration{}, err
	}
	var cfg Configuration
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return Configuration{}, err
	}
	for i := range cfg.Views {
		if cfg.Views[i].Widgets == nil {
			cfg.Views[i].Widgets = []Widget{}
		}
	}
	return cfg, nil
}
