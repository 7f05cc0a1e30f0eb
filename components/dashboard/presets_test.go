package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPresetStore(storage Storage) *PresetStore {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return NewPresetStore(PresetStoreOptions{
		Configs: NewConfigStore(ConfigStoreOptions{Storage: storage}),
		Clock:   func() time.Time { return now },
		IDs:     sequentialIDs("preset"),
	})
}

func TestPresetStoreSeedsDefault(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	presets := newTestPresetStore(storage).Load(ctx)

	require.Len(t, presets, 1)
	assert.Equal(t, DefaultPresetID, presets[0].ID)
	assert.True(t, presets[0].IsDefault)
	assert.Equal(t, DefaultConfiguration(), presets[0].Config)

	_, found, err := storage.GetItem(ctx, PresetsKey)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestPresetStoreCreateAndApply(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	store := newTestPresetStore(storage)

	cfg := DefaultConfiguration()
	cfg.Title = "Night"
	cfg.Views[0].Widgets = cfg.Views[0].Widgets[:1]
	created, err := store.Create(ctx, CreatePresetRequest{Name: "Night", Description: "dim", Config: cfg})
	require.NoError(t, err)
	assert.Equal(t, "preset-1", created.ID)
	assert.Equal(t, 2024, created.CreatedAt.Year())

	reloaded := newTestPresetStore(storage).Load(ctx)
	require.Len(t, reloaded, 2)
	assert.Equal(t, "Night", reloaded[1].Name)
	assert.True(t, reloaded[1].CreatedAt.Equal(created.CreatedAt))

	applied, err := store.Apply(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Night", applied.Config.Title)
	assert.Equal(t, cfg, NewConfigStore(ConfigStoreOptions{Storage: storage}).Load(ctx))

	_, err = store.Apply(ctx, "nope")
	assert.ErrorIs(t, err, ErrPresetNotFound)
}

func TestPresetStoreCreateValidates(t *testing.T) {
	store := newTestPresetStore(NewMemoryStorage())
	_, err := store.Create(context.Background(), CreatePresetRequest{Name: " ", Config: DefaultConfiguration()})
	assert.Error(t, err)
	_, err = store.Create(context.Background(), CreatePresetRequest{Name: "Empty"})
	assert.Error(t, err)
	_, err = store.Create(context.Background(), CreatePresetRequest{ID: DefaultPresetID, Name: "Clash", Config: DefaultConfiguration()})
	assert.Error(t, err)
}

func TestPresetStoreSaveCurrentAsDefault(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	store := newTestPresetStore(storage)
	_, err := store.Create(ctx, CreatePresetRequest{Name: "Other", Config: DefaultConfiguration()})
	require.NoError(t, err)

	cfg := DefaultConfiguration()
	cfg.Title = "Current"
	NewConfigStore(ConfigStoreOptions{Storage: storage}).Save(ctx, cfg)

	preset, err := store.SaveCurrentAsDefault(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Current", preset.Config.Title)

	presets := store.Load(ctx)
	require.Len(t, presets, 2)
	assert.Equal(t, DefaultPresetID, presets[0].ID)
	assert.Equal(t, "Current", presets[0].Config.Title)
}

func TestPresetStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := newTestPresetStore(NewMemoryStorage())
	created, err := store.Create(ctx, CreatePresetRequest{Name: "Temp", Config: DefaultConfiguration()})
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, created.ID))
	assert.Len(t, store.Load(ctx), 1)
	assert.ErrorIs(t, store.Delete(ctx, created.ID), ErrPresetNotFound)
}

func TestPresetStoreRejectsCorruptCollection(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	require.NoError(t, storage.SetItem(ctx, PresetsKey, `[{"id":"x"}]`))

	presets := newTestPresetStore(storage).Load(ctx)
	require.Len(t, presets, 1)
	assert.Equal(t, DefaultPresetID, presets[0].ID)
}

func duplicateWidgetConfig() Configuration {
	cfg := DefaultConfiguration()
	cfg.Views[0].Widgets = []Widget{
		{ID: "w", DeviceID: "device-1", Type: WidgetLight, Size: SizeSmall, Customization: DefaultCustomization()},
		{ID: "w", DeviceID: "device-2", Type: WidgetLock, Size: SizeSmall, Customization: DefaultCustomization()},
	}
	return cfg
}

func TestPresetStoreCreateRejectsDuplicateWidgetIDs(t *testing.T) {
	ctx := context.Background()
	store := newTestPresetStore(NewMemoryStorage())

	_, err := store.Create(ctx, CreatePresetRequest{Name: "Dup", Config: duplicateWidgetConfig()})
	assert.ErrorIs(t, err, ErrInvalidPreset)
	assert.Len(t, store.Load(ctx), 1)
}

func TestPresetStoreDropsCollectionWithDuplicateWidgetIDs(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	store := newTestPresetStore(storage)
	require.NoError(t, store.Save(ctx, []Preset{{ID: "dup", Name: "Dup", Config: duplicateWidgetConfig()}}))

	presets := newTestPresetStore(storage).Load(ctx)
	require.Len(t, presets, 1)
	assert.Equal(t, DefaultPresetID, presets[0].ID)
}

// lenientPresets accepts any preset collection, as an older build might have.
type lenientPresets struct {
	*JSONSchemaValidator
}

func (lenientPresets) ValidatePresets([]byte) error { return nil }

func TestPresetStoreApplyRefusesInvalidConfiguration(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	configs := NewConfigStore(ConfigStoreOptions{Storage: storage})
	store := NewPresetStore(PresetStoreOptions{
		Configs:   configs,
		Validator: lenientPresets{NewJSONSchemaValidator()},
	})
	before := DefaultConfiguration()
	before.Title = "Mine"
	require.NoError(t, configs.Persist(ctx, before))
	require.NoError(t, store.Save(ctx, []Preset{{ID: "dup", Name: "Dup", Config: duplicateWidgetConfig()}}))

	_, err := store.Apply(ctx, "dup")
	assert.ErrorIs(t, err, ErrInvalidPreset)
	assert.Equal(t, before, configs.Load(ctx))
}
