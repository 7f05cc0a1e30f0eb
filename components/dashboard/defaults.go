package dashboard

const (
	// ConfigKey stores the dashboard configuration document.
	ConfigKey = "dashboard-config"
	// ThemeKey stores the bare id of the selected theme.
	ThemeKey = "selected-theme"
	// PresetsKey stores the saved preset collection.
	PresetsKey = "dashboard-presets"

	DefaultTitle   = "My Dashboard"
	DefaultViewID  = "view-1"
	DefaultThemeID = "dark"

	defaultWidgetColor = "#3B82F6"
)

// DefaultCustomization is applied to widgets created from templates.
func DefaultCustomization() Customization {
	return Customization{
		Theme:      SchemeAuto,
		Color:      defaultWidgetColor,
		ShowLabel:  true,
		ShowStatus: true,
	}
}

func starterWidget(id, deviceID string, typ WidgetType, size WidgetSize, color string) Widget {
	return Widget{
		ID:       id,
		DeviceID: deviceID,
		Type:     typ,
		Size:     size,
		Customization: Customization{
			Theme:      SchemeAuto,
			Color:      color,
			ShowLabel:  true,
			ShowStatus: true,
		},
	}
}

// DefaultWidgets returns the fixed six widget starter set.
func DefaultWidgets() []Widget {
	return []Widget{
		starterWidget("widget-1", "device-1", WidgetLight, SizeMedium, "#3B82F6"),
		starterWidget("widget-2", "device-2", WidgetThermostat, SizeLarge, "#14B8A6"),
		starterWidget("widget-3", "device-3", WidgetLight, SizeMedium, "#F97316"),
		starterWidget("widget-4", "device-4", WidgetCamera, SizeLarge, "#8B5CF6"),
		starterWidget("widget-5", "device-6", WidgetLock, SizeMedium, "#EF4444"),
		starterWidget("widget-6", "device-8", WidgetSensor, SizeSmall, "#10B981"),
	}
}

// DefaultConfiguration is synthesized whenever no usable document is stored.
func DefaultConfiguration() Configuration {
	return Configuration{
		Title: DefaultTitle,
		Views: []View{{
			ID:      DefaultViewID,
			Title:   "Home",
			Path:    "home",
			Widgets: DefaultWidgets(),
		}},
	}
}

// DefaultTemplates returns the built-in widget library.
func DefaultTemplates() []WidgetTemplate {
	return []WidgetTemplate{
		{ID: "light-widget", Name: "Light", Description: "Control your smart lights", Category: "Control", Type: WidgetLight},
		{ID: "thermostat-widget", Name: "Thermostat", Description: "Manage your home temperature", Category: "Control", Type: WidgetThermostat},
		{ID: "camera-widget", Name: "Camera", Description: "View your security camera feed", Category: "Security", Type: WidgetCamera},
		{ID: "lock-widget", Name: "Lock", Description: "Control your smart locks", Category: "Security", Type: WidgetLock},
		{ID: "security-widget", Name: "Security System", Description: "Monitor your home security", Category: "Security", Type: WidgetSecurity},
		{ID: "sensor-widget", Name: "Motion Sensor", Description: "Detect movement in your home", Category: "Sensors", Type: WidgetSensor},
		{ID: "energy-widget", Name: "Energy Monitor", Description: "Track your energy usage", Category: "Utilities", Type: WidgetEnergy},
		{ID: "network-widget", Name: "Network Status", Description: "Monitor your network connection", Category: "Utilities", Type: WidgetNetwork},
	}
}

// DefaultThemes returns the built-in theme catalog in display order.
func DefaultThemes() []Theme {
	return []Theme{
		builtinTheme("light", "Light Theme", "Clean and bright", ThemeColors{
			Primary: "#3b82f6", Secondary: "#f1f5f9", Accent: "#0ea5e9", Background: "#ffffff",
			Surface: "#f8fafc", Text: "#1e293b", TextSecondary: "#64748b", Border: "#e2e8f0",
		}),
		builtinTheme("dark", "Dark Theme", "Easy on the eyes", ThemeColors{
			Primary: "#3b82f6", Secondary: "#1e293b", Accent: "#0ea5e9", Background: "#0f172a",
			Surface: "#1e293b", Text: "#f1f5f9", TextSecondary: "#94a3b8", Border: "#334155",
		}),
		builtinTheme("auto", "Auto Theme", "Follows system preference", ThemeColors{
			Primary: "#3b82f6", Secondary: "#f1f5f9", Accent: "#0ea5e9", Background: "#ffffff",
			Surface: "#f8fafc", Text: "#1e293b", TextSecondary: "#64748b", Border: "#e2e8f0",
		}),
		builtinTheme("ocean", "Ocean Blue", "Cool blue tones", ThemeColors{
			Primary: "#0ea5e9", Secondary: "#0f172a", Accent: "#06b6d4", Background: "#0c1626",
			Surface: "#1e293b", Text: "#e0f2fe", TextSecondary: "#7dd3fc", Border: "#0369a1",
		}),
		builtinTheme("sunset", "Sunset Orange", "Warm orange gradient", ThemeColors{
			Primary: "#ea580c", Secondary: "#1a1a1a", Accent: "#f59e0b", Background: "#1c1917",
			Surface: "#292524", Text: "#fef3c7", TextSecondary: "#fbbf24", Border: "#ea580c",
		}),
		builtinTheme("forest", "Forest Green", "Natural green theme", ThemeColors{
			Primary: "#059669", Secondary: "#064e3b", Accent: "#10b981", Background: "#022c22",
			Surface: "#064e3b", Text: "#d1fae5", TextSecondary: "#6ee7b7", Border: "#047857",
		}),
		builtinTheme("purple", "Royal Purple", "Elegant purple tones", ThemeColors{
			Primary: "#7c3aed", Secondary: "#1e1b4b", Accent: "#a855f7", Background: "#1e1b4b",
			Surface: "#312e81", Text: "#f3e8ff", TextSecondary: "#c4b5fd", Border: "#6d28d9",
		}),
		builtinTheme("rose", "Rose Gold", "Warm rose and gold", ThemeColors{
			Primary: "#e11d48", Secondary: "#4c1d95", Accent: "#f59e0b", Background: "#1f1827",
			Surface: "#2d1b69", Text: "#fdf2f8", TextSecondary: "#f9a8d4", Border: "#be185d",
		}),
	}
}

func builtinTheme(id, name, description string, colors ThemeColors) Theme {
	return Theme{ID: id, Name: name, Description: description, Type: ThemeBuiltIn, Colors: colors}
}
