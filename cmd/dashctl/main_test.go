package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-home-dashboard/components/dashboard"
)

func newGlobals(t *testing.T) (*Globals, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOMEDASH_STORAGE_DRIVER", "file")
	t.Setenv("HOMEDASH_STORAGE_DIR", filepath.Join(dir, "state"))
	var out bytes.Buffer
	return &Globals{Stdout: &out}, &out
}

func TestWidgetCommandsPersistAcrossSessions(t *testing.T) {
	g, out := newGlobals(t)

	add := &widgetsAddCmd{Device: "device-5", Type: "light", Size: "large"}
	require.NoError(t, add.Run(g))
	assert.Contains(t, out.String(), "added widget-")

	out.Reset()
	require.NoError(t, widgetsListCmd{}.Run(g))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 7)
	assert.Contains(t, lines[6], "device-5")

	require.NoError(t, (&widgetsMoveCmd{ID: "widget-3", Position: 0}).Run(g))
	require.NoError(t, (&widgetsRemoveCmd{ID: "widget-1"}).Run(g))
	assert.Error(t, (&widgetsRemoveCmd{ID: "widget-1"}).Run(g))

	out.Reset()
	require.NoError(t, configShowCmd{}.Run(g))
	var cfg dashboard.Configuration
	require.NoError(t, json.Unmarshal(out.Bytes(), &cfg))
	widgets := cfg.Views[0].Widgets
	require.Len(t, widgets, 6)
	assert.Equal(t, "widget-3", widgets[0].ID)

	require.NoError(t, configResetCmd{}.Run(g))
	out.Reset()
	require.NoError(t, configShowCmd{}.Run(g))
	var restored dashboard.Configuration
	require.NoError(t, json.Unmarshal(out.Bytes(), &restored))
	require.Len(t, restored.Views[0].Widgets, 6)
	assert.Equal(t, "widget-1", restored.Views[0].Widgets[0].ID)
}

func TestThemeAndPresetCommands(t *testing.T) {
	g, out := newGlobals(t)

	require.NoError(t, (&themeSetCmd{ID: "forest"}).Run(g))
	assert.Error(t, (&themeSetCmd{ID: "plaid"}).Run(g))

	out.Reset()
	require.NoError(t, themeListCmd{}.Run(g))
	assert.Contains(t, out.String(), "* forest")

	out.Reset()
	require.NoError(t, (&presetsSaveCmd{Name: "Evening"}).Run(g))
	id := strings.TrimSpace(strings.TrimPrefix(out.String(), "saved "))
	require.True(t, strings.HasPrefix(id, "preset-"))

	require.NoError(t, (&presetsApplyCmd{ID: id}).Run(g))
	assert.ErrorIs(t, (&presetsApplyCmd{ID: "preset-missing"}).Run(g), dashboard.ErrPresetNotFound)
	require.NoError(t, presetsDefaultCmd{}.Run(g))

	out.Reset()
	require.NoError(t, presetsListCmd{}.Run(g))
	assert.Contains(t, out.String(), "Evening")
	assert.Contains(t, out.String(), dashboard.DefaultPresetID)
}

func TestMoveIDClampsPosition(t *testing.T) {
	widgets := []dashboard.Widget{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	ids, err := moveID(widgets, "a", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "a"}, ids)

	ids, err = moveID(widgets, "c", -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, ids)

	_, err = moveID(widgets, "z", 0)
	assert.Error(t, err)
}

func TestTemplateAddWritesManifest(t *testing.T) {
	g, _ := newGlobals(t)
	path := filepath.Join(t.TempDir(), "manifests", "garden.yaml")

	cmd := &templateAddCmd{Name: "Sprinkler Zone", Type: "switch", Category: "Utilities", ManifestPath: path}
	require.NoError(t, cmd.Run(g))
	assert.Error(t, cmd.Run(g))
	cmd.Overwrite = true
	cmd.Description = "Garden irrigation"
	require.NoError(t, cmd.Run(g))

	doc, err := dashboard.ReadManifest(path)
	require.NoError(t, err)
	require.Len(t, doc.Templates, 1)
	assert.Equal(t, "sprinkler-zone-widget", doc.Templates[0].ID)
	assert.Equal(t, "Garden irrigation", doc.Templates[0].Description)
	assert.Equal(t, dashboard.WidgetSwitch, doc.Templates[0].Type)

	library := dashboard.NewTemplateLibrary()
	require.NoError(t, library.LoadManifestDocument(doc))
	_, ok := library.Get("sprinkler-zone-widget")
	assert.True(t, ok)
}
