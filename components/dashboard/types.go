package dashboard

import (
	"context"
	"time"
)

// Storage is the durable key/value store backing the dashboard. A missing key
// is reported through found=false, never as an error.
type Storage interface {
	GetItem(ctx context.Context, key string) (value string, found bool, err error)
	SetItem(ctx context.Context, key, value string) error
}

// RefreshHook notifies transports (REST/WebSocket) about layout changes.
type RefreshHook interface {
	LayoutUpdated(ctx context.Context, event LayoutEvent) error
}

// WidgetType mirrors the device type a widget renders.
type WidgetType string

const (
	WidgetLight      WidgetType = "light"
	WidgetThermostat WidgetType = "thermostat"
	WidgetSecurity   WidgetType = "security"
	WidgetMedia      WidgetType = "media"
	WidgetSensor     WidgetType = "sensor"
	WidgetSwitch     WidgetType = "switch"
	WidgetCamera     WidgetType = "camera"
	WidgetLock       WidgetType = "lock"
	WidgetWeather    WidgetType = "weather"
	WidgetGridToggle WidgetType = "grid-toggle"
	WidgetEnergy     WidgetType = "energy"
	WidgetNetwork    WidgetType = "network"
)

// WidgetSize controls how many grid columns a widget spans.
type WidgetSize string

const (
	SizeSmall  WidgetSize = "small"
	SizeMedium WidgetSize = "medium"
	SizeLarge  WidgetSize = "large"
)

// Scheme is the light/dark preference attached to widgets and themes.
type Scheme string

const (
	SchemeLight Scheme = "light"
	SchemeDark  Scheme = "dark"
	SchemeAuto  Scheme = "auto"
)

// Customization holds per-widget presentation settings.
type Customization struct {
	Theme      Scheme `json:"theme"`
	Color      string `json:"color"`
	ShowLabel  bool   `json:"showLabel"`
	ShowStatus bool   `json:"showStatus"`
}

// Widget is a dashboard tile bound to one device. DeviceID is a weak
// reference; widgets whose device cannot be resolved are not rendered.
type Widget struct {
	ID            string        `json:"id"`
	DeviceID      string        `json:"deviceId"`
	Type          WidgetType    `json:"type"`
	Size          WidgetSize    `json:"size"`
	Customization Customization `json:"customization"`
}

// WidgetPatch is a shallow update; nil fields are left untouched and a
// non-nil Customization replaces the whole block.
type WidgetPatch struct {
	DeviceID      *string        `json:"deviceId,omitempty"`
	Type          *WidgetType    `json:"type,omitempty"`
	Size          *WidgetSize    `json:"size,omitempty"`
	Customization *Customization `json:"customization,omitempty"`
}

// View is a dashboard page holding an ordered widget sequence.
type View struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Path    string   `json:"path"`
	Widgets []Widget `json:"widgets"`
}

// Configuration is the persisted dashboard document.
type Configuration struct {
	Title string `json:"title"`
	Views []View `json:"views"`
}

// Preset is a named snapshot of a full configuration.
type Preset struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Config      Configuration `json:"config"`
	CreatedAt   time.Time     `json:"createdAt"`
	IsDefault   bool          `json:"isDefault,omitempty"`
}

// WidgetTemplate is a blueprint offered by the widget library.
type WidgetTemplate struct {
	ID          string     `json:"id" yaml:"id"`
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description" yaml:"description"`
	Category    string     `json:"category" yaml:"category"`
	Type        WidgetType `json:"type" yaml:"type"`
}

// LayoutEvent describes changes that transports might care about.
type LayoutEvent struct {
	ViewID    string   `json:"viewId"`
	Widget    *Widget  `json:"widget,omitempty"`
	WidgetIDs []string `json:"widgetIds,omitempty"`
	Reason    string   `json:"reason"`
}

// Clone returns a deep copy of the configuration.
func (c Configuration) Clone() Configuration {
	out := Configuration{Title: c.Title}
	if c.Views != nil {
		out.Views = make([]View, len(c.Views))
		for i, v := range c.Views {
			v.Widgets = cloneWidgets(v.Widgets)
			out.Views[i] = v
		}
	}
	return out
}

// View returns the view with id.
func (c Configuration) View(id string) (View, bool) {
	for _, v := range c.Views {
		if v.ID == id {
			return v, true
		}
	}
	return View{}, false
}

func cloneWidgets(widgets []Widget) []Widget {
	if widgets == nil {
		return nil
	}
	out := make([]Widget, len(widgets))
	copy(out, widgets)
	return out
}

func widgetIDs(widgets []Widget) []string {
	ids := make([]string, len(widgets))
	for i, w := range widgets {
		ids[i] = w.ID
	}
	return ids
}
