package main

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-home-dashboard/components/dashboard"
)

type configCmd struct {
	Show  configShowCmd  `cmd:"" help:"Print the configuration document."`
	Reset configResetCmd `cmd:"" help:"Restore the default configuration."`
}

type configShowCmd struct{}

func (configShowCmd) Run(g *Globals) error {
	s, err := g.open()
	if err != nil {
		return err
	}
	defer s.close()
	return g.printJSON(s.components.Service.Configuration(s.ctx))
}

type configResetCmd struct{}

func (configResetCmd) Run(g *Globals) error {
	s, err := g.open()
	if err != nil {
		return err
	}
	defer s.close()
	cfg, err := s.exec.Reset(s.ctx)
	if err != nil {
		return err
	}
	g.printf("configuration reset (%d widgets)\n", len(cfg.Views[0].Widgets))
	return nil
}

type widgetsCmd struct {
	List      widgetsListCmd      `cmd:"" help:"List widgets in display order."`
	Add       widgetsAddCmd       `cmd:"" help:"Append a widget."`
	Remove    widgetsRemoveCmd    `cmd:"" help:"Remove a widget."`
	Duplicate widgetsDuplicateCmd `cmd:"" help:"Clone a widget to the end of the view."`
	Move      widgetsMoveCmd      `cmd:"" help:"Move a widget to a zero-based position."`
}

type widgetsListCmd struct{}

func (widgetsListCmd) Run(g *Globals) error {
	s, err := g.open()
	if err != nil {
		return err
	}
	defer s.close()
	for i, w := range s.components.Service.Widgets(s.ctx) {
		g.printf("%d\t%s\t%s\t%s\t%s\n", i, w.ID, w.Type, w.Size, w.DeviceID)
	}
	return nil
}

type widgetsAddCmd struct {
	Device string `required:"" help:"Device id the widget is bound to."`
	Type   string `required:"" enum:"light,thermostat,security,media,sensor,switch,camera,lock,weather,grid-toggle,energy,network" help:"Widget type."`
	Size   string `default:"medium" enum:"small,medium,large" help:"Widget size."`
}

func (cmd *widgetsAddCmd) Run(g *Globals) error {
	s, err := g.open()
	if err != nil {
		return err
	}
	defer s.close()
	w, err := s.exec.AddWidget(s.ctx, dashboard.Widget{
		DeviceID:      cmd.Device,
		Type:          dashboard.WidgetType(cmd.Type),
		Size:          dashboard.WidgetSize(cmd.Size),
		Customization: dashboard.DefaultCustomization(),
	})
	if err != nil {
		return err
	}
	g.printf("added %s\n", w.ID)
	return nil
}

type widgetsRemoveCmd struct {
	ID string `arg:"" help:"Widget id."`
}

func (cmd *widgetsRemoveCmd) Run(g *Globals) error {
	s, err := g.open()
	if err != nil {
		return err
	}
	defer s.close()
	if !containsWidget(s.components.Service.Widgets(s.ctx), cmd.ID) {
		return fmt.Errorf("dashctl: widget %s not found", cmd.ID)
	}
	if err := s.exec.RemoveWidget(s.ctx, cmd.ID); err != nil {
		return err
	}
	g.printf("removed %s\n", cmd.ID)
	return nil
}

type widgetsDuplicateCmd struct {
	ID string `arg:"" help:"Widget id."`
}

func (cmd *widgetsDuplicateCmd) Run(g *Globals) error {
	s, err := g.open()
	if err != nil {
		return err
	}
	defer s.close()
	clone, err := s.exec.DuplicateWidget(s.ctx, cmd.ID)
	if err != nil {
		return err
	}
	g.printf("duplicated %s as %s\n", cmd.ID, clone.ID)
	return nil
}

type widgetsMoveCmd struct {
	ID       string `arg:"" help:"Widget id."`
	Position int    `arg:"" help:"Target position."`
}

func (cmd *widgetsMoveCmd) Run(g *Globals) error {
	s, err := g.open()
	if err != nil {
		return err
	}
	defer s.close()
	ids, err := moveID(s.components.Service.Widgets(s.ctx), cmd.ID, cmd.Position)
	if err != nil {
		return err
	}
	if _, err := s.exec.Reorder(s.ctx, ids); err != nil {
		return err
	}
	g.printf("moved %s to %d\n", cmd.ID, cmd.Position)
	return nil
}

// moveID returns the widget ids with id relocated to position, clamped to
// the valid range.
func moveID(widgets []dashboard.Widget, id string, position int) ([]string, error) {
	ids := make([]string, 0, len(widgets))
	found := false
	for _, w := range widgets {
		if w.ID == id {
			found = true
			continue
		}
		ids = append(ids, w.ID)
	}
	if !found {
		return nil, fmt.Errorf("dashctl: widget %s not found", id)
	}
	if position < 0 {
		position = 0
	}
	if position > len(ids) {
		position = len(ids)
	}
	ids = append(ids[:position], append([]string{id}, ids[position:]...)...)
	return ids, nil
}

func containsWidget(widgets []dashboard.Widget, id string) bool {
	for _, w := range widgets {
		if w.ID == id {
			return true
		}
	}
	return false
}

type presetsCmd struct {
	List    presetsListCmd    `cmd:"" help:"List saved presets."`
	Save    presetsSaveCmd    `cmd:"" help:"Save the current layout as a preset."`
	Apply   presetsApplyCmd   `cmd:"" help:"Replace the layout with a preset."`
	Default presetsDefaultCmd `cmd:"" help:"Overwrite the default preset with the current layout."`
}

type presetsListCmd struct{}

func (presetsListCmd) Run(g *Globals) error {
	s, err := g.open()
	if err != nil {
		return err
	}
	defer s.close()
	presets, err := s.exec.Presets(s.ctx)
	if err != nil {
		return err
	}
	for _, p := range presets {
		g.printf("%s\t%s\t%s\n", p.ID, p.Name, p.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

type presetsSaveCmd struct {
	Name        string `required:"" help:"Preset name."`
	Description string `help:"Optional description."`
}

func (cmd *presetsSaveCmd) Run(g *Globals) error {
	s, err := g.open()
	if err != nil {
		return err
	}
	defer s.close()
	preset, err := s.exec.CreatePreset(s.ctx, cmd.Name, cmd.Description)
	if err != nil {
		return err
	}
	g.printf("saved %s\n", preset.ID)
	return nil
}

type presetsApplyCmd struct {
	ID string `arg:"" help:"Preset id."`
}

func (cmd *presetsApplyCmd) Run(g *Globals) error {
	s, err := g.open()
	if err != nil {
		return err
	}
	defer s.close()
	preset, err := s.exec.ApplyPreset(s.ctx, cmd.ID)
	if err != nil {
		return err
	}
	g.printf("applied %s\n", preset.Name)
	return nil
}

type presetsDefaultCmd struct{}

func (presetsDefaultCmd) Run(g *Globals) error {
	s, err := g.open()
	if err != nil {
		return err
	}
	defer s.close()
	if _, err := s.exec.SaveDefaultPreset(s.ctx); err != nil {
		return err
	}
	g.printf("default preset updated\n")
	return nil
}

type themeCmd struct {
	List themeListCmd `cmd:"" help:"List available themes."`
	Set  themeSetCmd  `cmd:"" help:"Apply and persist a theme."`
}

type themeListCmd struct{}

func (themeListCmd) Run(g *Globals) error {
	s, err := g.open()
	if err != nil {
		return err
	}
	defer s.close()
	catalog, err := s.exec.Themes(s.ctx)
	if err != nil {
		return err
	}
	for _, theme := range catalog.Themes {
		marker := " "
		if theme.ID == catalog.Active.Requested {
			marker = "*"
		}
		g.printf("%s %s\t%s\n", marker, theme.ID, theme.Name)
	}
	return nil
}

type themeSetCmd struct {
	ID string `arg:"" help:"Theme id (or auto)."`
}

func (cmd *themeSetCmd) Run(g *Globals) error {
	s, err := g.open()
	if err != nil {
		return err
	}
	defer s.close()
	applied, err := s.exec.ApplyTheme(s.ctx, cmd.ID)
	if err != nil {
		if errors.Is(err, dashboard.ErrThemeNotFound) {
			return fmt.Errorf("dashctl: unknown theme %q", cmd.ID)
		}
		return err
	}
	g.printf("theme %s (palette %s)\n", applied.Requested, applied.Theme.ID)
	return nil
}
