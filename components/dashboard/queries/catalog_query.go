package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-home-dashboard/components/dashboard"
	"github.com/goliatone/go-home-dashboard/components/devices"
)

// DevicesInput optionally narrows the listing to one room.
type DevicesInput struct {
	Room string `json:"room,omitempty"`
}

type deviceLister interface {
	List(ctx context.Context) ([]devices.Device, error)
}

// DevicesQuery lists devices from the registry.
type DevicesQuery struct {
	registry deviceLister
}

// NewDevicesQuery builds the query.
func NewDevicesQuery(registry deviceLister) *DevicesQuery {
	return &DevicesQuery{registry: registry}
}

var _ gocommand.Querier[DevicesInput, []devices.Device] = (*DevicesQuery)(nil)

func (q *DevicesQuery) Query(ctx context.Context, input DevicesInput) ([]devices.Device, error) {
	list, err := q.registry.List(ctx)
	if err != nil || input.Room == "" {
		return list, err
	}
	out := make([]devices.Device, 0, len(list))
	for _, d := range list {
		if d.Room == input.Room {
			out = append(out, d)
		}
	}
	return out, nil
}

// PresetsInput has no filters.
type PresetsInput struct{}

type presetLister interface {
	Presets(ctx context.Context) []dashboard.Preset
}

// PresetsQuery lists saved presets.
type PresetsQuery struct {
	service presetLister
}

// NewPresetsQuery builds the query.
func NewPresetsQuery(service presetLister) *PresetsQuery {
	return &PresetsQuery{service: service}
}

var _ gocommand.Querier[PresetsInput, []dashboard.Preset] = (*PresetsQuery)(nil)

func (q *PresetsQuery) Query(ctx context.Context, _ PresetsInput) ([]dashboard.Preset, error) {
	return q.service.Presets(ctx), nil
}

// ThemesInput has no filters.
type ThemesInput struct{}

// ThemeCatalog is the theme listing plus the active selection.
type ThemeCatalog struct {
	Themes []dashboard.Theme      `json:"themes"`
	Active dashboard.AppliedTheme `json:"active"`
}

type themeLister interface {
	List() []dashboard.Theme
	Active() dashboard.AppliedTheme
}

// ThemesQuery lists the theme catalog.
type ThemesQuery struct {
	themes themeLister
}

// NewThemesQuery builds the query.
func NewThemesQuery(themes themeLister) *ThemesQuery {
	return &ThemesQuery{themes: themes}
}

var _ gocommand.Querier[ThemesInput, ThemeCatalog] = (*ThemesQuery)(nil)

func (q *ThemesQuery) Query(context.Context, ThemesInput) (ThemeCatalog, error) {
	return ThemeCatalog{Themes: q.themes.List(), Active: q.themes.Active()}, nil
}

// TemplatesInput searches the widget library; an empty query lists all.
type TemplatesInput struct {
	Search string `json:"search,omitempty"`
}

// TemplatesQuery searches the widget template library.
type TemplatesQuery struct {
	library *dashboard.TemplateLibrary
}

// NewTemplatesQuery builds the query.
func NewTemplatesQuery(library *dashboard.TemplateLibrary) *TemplatesQuery {
	return &TemplatesQuery{library: library}
}

var _ gocommand.Querier[TemplatesInput, []dashboard.WidgetTemplate] = (*TemplatesQuery)(nil)

func (q *TemplatesQuery) Query(_ context.Context, input TemplatesInput) ([]dashboard.WidgetTemplate, error) {
	return q.library.Search(input.Search), nil
}
