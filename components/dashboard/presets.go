package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultPresetID identifies the preset mirroring the saved default layout.
const DefaultPresetID = "default"

var (
	// ErrPresetNotFound is returned when a preset id is unknown.
	ErrPresetNotFound = errors.New("dashboard: preset not found")
	// ErrInvalidPreset is returned when a preset holds a configuration the
	// config store would refuse to load.
	ErrInvalidPreset = errors.New("dashboard: preset configuration is invalid")
)

// PresetStoreOptions configures a PresetStore.
type PresetStoreOptions struct {
	Storage   Storage
	Configs   *ConfigStore
	Validator ConfigValidator
	Clock     func() time.Time
	IDs       func() string
	Logger    *zap.Logger
}

// PresetStore manages the saved preset collection.
type PresetStore struct {
	mu        sync.Mutex
	storage   Storage
	configs   *ConfigStore
	validator ConfigValidator
	clock     func() time.Time
	ids       func() string
	logger    *zap.Logger
}

// NewPresetStore builds a preset store sharing configs' storage by default.
func NewPresetStore(opts PresetStoreOptions) *PresetStore {
	if opts.Configs == nil {
		opts.Configs = NewConfigStore(ConfigStoreOptions{Storage: opts.Storage, Logger: opts.Logger})
	}
	if opts.Storage == nil {
		opts.Storage = opts.Configs.storage
	}
	if opts.Validator == nil {
		opts.Validator = NewJSONSchemaValidator()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.IDs == nil {
		opts.IDs = func() string { return "preset-" + uuid.NewString() }
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &PresetStore{
		storage:   opts.Storage,
		configs:   opts.Configs,
		validator: opts.Validator,
		clock:     opts.Clock,
		ids:       opts.IDs,
		logger:    opts.Logger,
	}
}

// Load returns the saved presets. When nothing usable is stored a single
// default preset snapshotting the current configuration is persisted.
func (s *PresetStore) Load(ctx context.Context) []Preset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Save replaces the whole collection.
func (s *PresetStore) Save(ctx context.Context, presets []Preset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, presets)
}

// CreatePresetRequest captures the fields of a new preset.
type CreatePresetRequest struct {
	ID          string        `json:"id,omitempty"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Config      Configuration `json:"config"`
}

// Create appends a preset stamped with the current time.
func (s *PresetStore) Create(ctx context.Context, req CreatePresetRequest) (Preset, error) {
	if strings.TrimSpace(req.Name) == "" {
		return Preset{}, errors.New("dashboard: preset name is required")
	}
	if len(req.Config.Views) == 0 {
		return Preset{}, errors.New("dashboard: preset config needs at least one view")
	}
	if err := s.check(req.Config); err != nil {
		return Preset{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	presets := s.load(ctx)
	if req.ID == "" {
		req.ID = s.ids()
	}
	if indexOfPreset(presets, req.ID) >= 0 {
		return Preset{}, fmt.Errorf("dashboard: preset %s already exists", req.ID)
	}
	preset := Preset{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
		Config:      req.Config.Clone(),
		CreatedAt:   s.clock(),
	}
	if err := s.save(ctx, append(presets, preset)); err != nil {
		return Preset{}, err
	}
	return preset, nil
}

// SaveCurrentAsDefault snapshots the stored configuration into the default
// preset, replacing it in place or prepending it.
func (s *PresetStore) SaveCurrentAsDefault(ctx context.Context) (Preset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	presets := s.load(ctx)
	preset := s.defaultPreset(s.configs.Load(ctx))
	if idx := indexOfPreset(presets, DefaultPresetID); idx >= 0 {
		presets[idx] = preset
	} else {
		presets = append([]Preset{preset}, presets...)
	}
	if err := s.save(ctx, presets); err != nil {
		return Preset{}, err
	}
	return preset, nil
}

// Apply writes the preset configuration through the config store.
func (s *PresetStore) Apply(ctx context.Context, id string) (Preset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	presets := s.load(ctx)
	idx := indexOfPreset(presets, id)
	if idx < 0 {
		return Preset{}, fmt.Errorf("%w: %s", ErrPresetNotFound, id)
	}
	preset := presets[idx]
	if err := s.check(preset.Config); err != nil {
		return Preset{}, fmt.Errorf("dashboard: apply preset %s: %w", id, err)
	}
	if err := s.configs.Persist(ctx, preset.Config); err != nil {
		return Preset{}, fmt.Errorf("dashboard: apply preset %s: %w", id, err)
	}
	s.logger.Info("preset applied", zap.String("preset", id), zap.String("name", preset.Name))
	return preset, nil
}

// Delete removes a preset.
func (s *PresetStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	presets := s.load(ctx)
	idx := indexOfPreset(presets, id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrPresetNotFound, id)
	}
	return s.save(ctx, append(presets[:idx:idx], presets[idx+1:]...))
}

// check runs cfg through the same validation the config store applies on load.
func (s *PresetStore) check(cfg Configuration) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("dashboard: encode preset configuration: %w", err)
	}
	if err := s.validator.ValidateConfiguration(raw); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPreset, err)
	}
	return nil
}

func (s *PresetStore) load(ctx context.Context) []Preset {
	raw, found, err := s.storage.GetItem(ctx, PresetsKey)
	switch {
	case err != nil:
		s.logger.Warn("read presets", zap.Error(err))
	case !found:
	default:
		presets, err := s.decode([]byte(raw))
		if err == nil {
			return presets
		}
		s.logger.Warn("stored presets rejected", zap.Error(err))
	}
	presets := []Preset{s.defaultPreset(s.configs.Load(ctx))}
	if err := s.save(ctx, presets); err != nil {
		s.logger.Error("save presets", zap.Error(err))
	}
	return presets
}

func (s *PresetStore) decode(raw []byte) ([]Preset, error) {
	if err := s.validator.ValidatePresets(raw); err != nil {
		return nil, err
	}
	var presets []Preset
	if err := json.Unmarshal(raw, &presets); err != nil {
		return nil, err
	}
	return presets, nil
}

func (s *PresetStore) save(ctx context.Context, presets []Preset) error {
	if presets == nil {
		presets = []Preset{}
	}
	data, err := json.Marshal(presets)
	if err != nil {
		return err
	}
	if err := s.storage.SetItem(ctx, PresetsKey, string(data)); err != nil {
		return fmt.Errorf("dashboard: save presets: %w", err)
	}
	return nil
}

func (s *PresetStore) defaultPreset(cfg Configuration) Preset {
	return Preset{
		ID:          DefaultPresetID,
		Name:        "Default",
		Description: "Your current dashboard configuration",
		Config:      cfg,
		CreatedAt:   s.clock(),
		IsDefault:   true,
	}
}

func indexOfPreset(presets []Preset, id string) int {
	for i, p := range presets {
		if p.ID == id {
			return i
		}
	}
	return -1
}
