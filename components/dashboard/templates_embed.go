package dashboard

import (
	"embed"
	"fmt"

	template "github.com/goliatone/go-template"
)

//go:embed templates/*.html
var embeddedTemplates embed.FS

// widgetIcons maps widget types to the icon names used by the page.
var widgetIcons = map[WidgetType]string{
	WidgetLight:      "lightbulb",
	WidgetThermostat: "thermometer",
	WidgetSecurity:   "shield",
	WidgetMedia:      "music",
	WidgetSensor:     "activity",
	WidgetSwitch:     "power",
	WidgetCamera:     "camera",
	WidgetLock:       "lock",
	WidgetWeather:    "cloud-sun",
	WidgetGridToggle: "layout-grid",
	WidgetEnergy:     "zap",
	WidgetNetwork:    "wifi",
}

// WidgetIcon returns the icon name for a widget type, "square" when unknown.
func WidgetIcon(t WidgetType) string {
	if icon, ok := widgetIcons[t]; ok {
		return icon
	}
	return "square"
}

// templateFuncs are the helpers available to dashboard templates.
func templateFuncs() map[string]any {
	return map[string]any{
		"widget_icon": func(kind any) string {
			return WidgetIcon(WidgetType(fmt.Sprint(kind)))
		},
	}
}

// NewTemplateRenderer creates a go-template renderer backed by the embedded
// templates and the dashboard helpers. Extra options are applied last.
func NewTemplateRenderer(opts ...template.Option) (Renderer, error) {
	base := []template.Option{
		template.WithFS(embeddedTemplates),
		template.WithBaseDir("templates"),
		template.WithExtension(".html"),
		template.WithTemplateFunc(templateFuncs()),
	}
	return template.NewRenderer(append(base, opts...)...)
}
