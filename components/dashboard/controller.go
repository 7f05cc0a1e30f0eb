package dashboard

import (
	"context"
	"errors"
	"io"

	"github.com/goliatone/go-home-dashboard/components/devices"
)

const defaultPageTemplate = "dashboard"

var errMissingRenderer = errors.New("dashboard: renderer not configured")

// DeviceLister is the device data source consumed by the render layer.
type DeviceLister interface {
	List(ctx context.Context) ([]devices.Device, error)
}

// ControllerOptions wires the render layer.
type ControllerOptions struct {
	Service   *Service
	Devices   DeviceLister
	Themes    *ThemeManager
	EditMode  *EditMode
	Templates *TemplateLibrary
	Renderer  Renderer
	Template  string
}

// Controller assembles layout payloads and renders HTML pages.
type Controller struct {
	opts ControllerOptions
}

// NewController wires the collaborators into a controller.
func NewController(opts ControllerOptions) *Controller {
	if opts.EditMode == nil {
		opts.EditMode = NewEditMode()
	}
	if opts.Themes == nil {
		opts.Themes = NewThemeManager(ThemeManagerOptions{})
	}
	if opts.Templates == nil {
		opts.Templates = NewTemplateLibrary()
	}
	if opts.Template == "" {
		opts.Template = defaultPageTemplate
	}
	return &Controller{opts: opts}
}

// ViewSummary lists a view for navigation.
type ViewSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Path  string `json:"path"`
}

// LayoutPayload is the JSON document served to the front end.
type LayoutPayload struct {
	Title      string           `json:"title"`
	View       ViewSummary      `json:"view"`
	Views      []ViewSummary    `json:"views"`
	Grid       Grid             `json:"grid"`
	EditMode   EditModeState    `json:"editMode"`
	Theme      AppliedTheme     `json:"theme"`
	ThemeStyle string           `json:"themeStyle"`
	Templates  []WidgetTemplate `json:"templates,omitempty"`
}

// LayoutPayload resolves the active view against current device state.
func (c *Controller) LayoutPayload(ctx context.Context) (LayoutPayload, error) {
	if c.opts.Service == nil {
		return LayoutPayload{}, nil
	}
	cfg := c.opts.Service.Configuration(ctx)
	view := c.opts.Service.ActiveView(ctx)
	var list []devices.Device
	if c.opts.Devices != nil {
		var err error
		if list, err = c.opts.Devices.List(ctx); err != nil {
			return LayoutPayload{}, err
		}
	}
	edit := c.opts.EditMode.State()
	theme := c.opts.Themes.Active()
	payload := LayoutPayload{
		Title:      cfg.Title,
		View:       summarize(view),
		Grid:       BuildGrid(view.Widgets, list, edit.Enabled),
		EditMode:   edit,
		Theme:      theme,
		ThemeStyle: CSSVariablesInline(theme.Theme.Variables()),
	}
	for _, v := range cfg.Views {
		payload.Views = append(payload.Views, summarize(v))
	}
	if edit.Enabled {
		payload.Templates = c.opts.Templates.List()
	}
	return payload, nil
}

// RenderTemplate renders the dashboard page with the layout payload.
func (c *Controller) RenderTemplate(ctx context.Context, out io.Writer) (string, error) {
	if c.opts.Renderer == nil {
		return "", errMissingRenderer
	}
	payload, err := c.LayoutPayload(ctx)
	if err != nil {
		return "", err
	}
	data := map[string]any{
		"title":       payload.Title,
		"view":        payload.View,
		"views":       payload.Views,
		"cells":       payload.Grid.Cells,
		"editing":     payload.EditMode.Enabled,
		"selected":    payload.EditMode.Selected,
		"theme_class": payload.Theme.Theme.ID,
		"theme_style": payload.ThemeStyle,
		"templates":   payload.Templates,
	}
	if out == nil {
		return c.opts.Renderer.Render(c.opts.Template, data)
	}
	return c.opts.Renderer.Render(c.opts.Template, data, out)
}

func summarize(v View) ViewSummary {
	return ViewSummary{ID: v.ID, Title: v.Title, Path: v.Path}
}
