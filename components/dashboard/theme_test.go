package dashboard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultThemesCatalog(t *testing.T) {
	themes := DefaultThemes()
	require.Len(t, themes, 8)
	ids := make([]string, len(themes))
	for i, theme := range themes {
		ids[i] = theme.ID
		assert.Equal(t, ThemeBuiltIn, theme.Type)
	}
	assert.Contains(t, ids, "light")
	assert.Contains(t, ids, "dark")
}

func TestThemeVariablesIncludeAliases(t *testing.T) {
	theme := Theme{
		ID:           "x",
		Colors:       ThemeColors{Primary: "#111111", Background: "#222222", Text: "#333333"},
		CSSVariables: map[string]string{"radius": "8px", "--gap": "4px"},
	}
	vars := theme.Variables()
	assert.Equal(t, "#111111", vars["--theme-primary"])
	assert.Equal(t, "#111111", vars["--primary"])
	assert.Equal(t, "#222222", vars["--background"])
	assert.Equal(t, "#333333", vars["--foreground"])
	assert.Equal(t, "8px", vars["--radius"])
	assert.Equal(t, "4px", vars["--gap"])

	assert.Equal(t, "--a: 1; --b: 2;", CSSVariablesInline(map[string]string{"--b": "2", "--a": "1", "--c": ""}))
}

func TestThemeApplyPersistsAndInitializeRestores(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	sheet := NewStyleSheet()
	manager := NewThemeManager(ThemeManagerOptions{Storage: storage, Sink: sheet})

	applied, err := manager.Apply(ctx, "light")
	require.NoError(t, err)
	assert.Equal(t, "light", applied.Theme.ID)
	assert.Equal(t, "light", sheet.ModeClass())
	assert.Equal(t, applied.Theme.Colors.Background, sheet.Variables()["--theme-background"])

	stored, found, err := storage.GetItem(ctx, ThemeKey)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "light", stored)

	restored := NewThemeManager(ThemeManagerOptions{Storage: storage}).Initialize(ctx)
	assert.Equal(t, "light", restored.Requested)
	assert.Equal(t, "light", restored.Theme.ID)
}

func TestThemeAutoFollowsScheme(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()

	light := NewThemeManager(ThemeManagerOptions{Storage: storage, Scheme: StaticScheme(SchemeLight)})
	applied, err := light.Apply(ctx, "auto")
	require.NoError(t, err)
	assert.Equal(t, "auto", applied.Requested)
	assert.Equal(t, "light", applied.Theme.ID)

	stored, _, _ := storage.GetItem(ctx, ThemeKey)
	assert.Equal(t, "auto", stored)

	dark := NewThemeManager(ThemeManagerOptions{Storage: storage, Scheme: StaticScheme(SchemeDark)})
	restored := dark.Initialize(ctx)
	assert.Equal(t, "auto", restored.Requested)
	assert.Equal(t, "dark", restored.Theme.ID)
}

func TestThemeInitializeFallsBackToDark(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	manager := NewThemeManager(ThemeManagerOptions{Storage: storage})
	assert.Equal(t, DefaultThemeID, manager.Initialize(ctx).Theme.ID)

	require.NoError(t, storage.SetItem(ctx, ThemeKey, "neon-pink"))
	applied := manager.Initialize(ctx)
	assert.Equal(t, DefaultThemeID, applied.Requested)
	assert.Equal(t, DefaultThemeID, manager.Active().Theme.ID)
}

func TestThemeApplyUnknown(t *testing.T) {
	manager := NewThemeManager(ThemeManagerOptions{})
	manager.Initialize(context.Background())
	_, err := manager.Apply(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrThemeNotFound)
	assert.Equal(t, DefaultThemeID, manager.Active().Theme.ID)
}

func TestThemeRegisterCustom(t *testing.T) {
	manager := NewThemeManager(ThemeManagerOptions{})
	require.NoError(t, manager.Register(Theme{ID: "brand", Name: "Brand", Colors: ThemeColors{Primary: "#ff0000"}}))
	assert.Error(t, manager.Register(Theme{ID: "dark"}))
	assert.Error(t, manager.Register(Theme{}))

	themes := manager.List()
	require.Len(t, themes, 9)
	assert.Equal(t, "brand", themes[8].ID)
	assert.Equal(t, ThemeCustom, themes[8].Type)

	applied, err := manager.Apply(context.Background(), "brand")
	require.NoError(t, err)
	assert.Equal(t, "#ff0000", applied.Theme.Colors.Primary)
}

func TestThemeSwitchDropsPreviousExtraVariables(t *testing.T) {
	ctx := context.Background()
	sheet := NewStyleSheet()
	sheet.SetVariable("--page-gutter", "2rem")
	manager := NewThemeManager(ThemeManagerOptions{Sink: sheet})
	require.NoError(t, manager.Register(Theme{
		ID:           "neon",
		Name:         "Neon",
		Colors:       ThemeColors{Primary: "#39ff14"},
		CSSVariables: map[string]string{"glow": "0 0 8px #39ff14"},
	}))

	_, err := manager.Apply(ctx, "neon")
	require.NoError(t, err)
	assert.Equal(t, "0 0 8px #39ff14", sheet.Variables()["--glow"])

	_, err = manager.Apply(ctx, "ocean")
	require.NoError(t, err)
	vars := sheet.Variables()
	assert.NotContains(t, vars, "--glow")
	assert.Equal(t, "2rem", vars["--page-gutter"], "variables set outside the manager are left alone")
	assert.Equal(t, "ocean", sheet.ModeClass())
}
