package dashboard

import "github.com/goliatone/go-home-dashboard/components/devices"

// GridCell is one rendered grid position.
type GridCell struct {
	ID     string          `json:"id"`
	Empty  bool            `json:"empty"`
	Span   string          `json:"span"`
	Widget *Widget         `json:"widget,omitempty"`
	Device *devices.Device `json:"device,omitempty"`
}

// Grid is the render-ready dashboard body.
type Grid struct {
	Cells       []GridCell `json:"cells"`
	WidgetCount int        `json:"widgetCount"`
	Editing     bool       `json:"editing"`
}

// Renderable reports whether a widget type has a front-end renderer.
func Renderable(t WidgetType) bool {
	switch t {
	case WidgetLight, WidgetThermostat, WidgetSecurity, WidgetCamera, WidgetLock, WidgetSensor:
		return true
	}
	return false
}

// SpanClass maps a widget size to its grid column span.
func SpanClass(size WidgetSize) string {
	if size == SizeLarge {
		return "col-span-1 md:col-span-2"
	}
	return "col-span-1"
}

// BuildGrid joins widgets with their devices. Widgets whose device cannot be
// resolved, or whose type has no renderer, are skipped. Empty slots are only
// laid out while editing.
func BuildGrid(widgets []Widget, list []devices.Device, editing bool) Grid {
	byID := make(map[string]devices.Device, len(list))
	for _, d := range list {
		byID[d.ID] = d
	}
	grid := Grid{WidgetCount: len(widgets), Editing: editing}
	for _, item := range GridItems(widgets) {
		if item.Empty {
			if editing {
				grid.Cells = append(grid.Cells, GridCell{ID: item.ID, Empty: true, Span: "col-span-1"})
			}
			continue
		}
		device, ok := byID[item.Widget.DeviceID]
		if !ok || !Renderable(item.Widget.Type) {
			continue
		}
		w := item.Widget
		grid.Cells = append(grid.Cells, GridCell{
			ID:     w.ID,
			Span:   SpanClass(w.Size),
			Widget: &w,
			Device: &device,
		})
	}
	return grid
}
