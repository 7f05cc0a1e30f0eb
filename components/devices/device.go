package devices

import (
	"errors"
	"time"
)

// ErrDeviceNotFound is returned when an operation references an unknown device id.
var ErrDeviceNotFound = errors.New("devices: device not found")

// DeviceType tags the kind of device (and the widget that renders it).
type DeviceType string

const (
	TypeLight      DeviceType = "light"
	TypeThermostat DeviceType = "thermostat"
	TypeSecurity   DeviceType = "security"
	TypeMedia      DeviceType = "media"
	TypeSensor     DeviceType = "sensor"
	TypeSwitch     DeviceType = "switch"
	TypeCamera     DeviceType = "camera"
	TypeLock       DeviceType = "lock"
	TypeWeather    DeviceType = "weather"
	TypeGridToggle DeviceType = "grid-toggle"
)

// Valid reports whether t is one of the known device types.
func (t DeviceType) Valid() bool {
	switch t {
	case TypeLight, TypeThermostat, TypeSecurity, TypeMedia, TypeSensor,
		TypeSwitch, TypeCamera, TypeLock, TypeWeather, TypeGridToggle:
		return true
	}
	return false
}

// Status is the connectivity state reported for a device.
type Status string

const (
	StatusOnline  Status = "online"
	StatusOffline Status = "offline"
	StatusError   Status = "error"
)

// Properties is the open, type specific property bag of a device.
type Properties map[string]any

// Device is a single controllable or observable thing in the home.
type Device struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Type        DeviceType `json:"type"`
	Room        string     `json:"room"`
	Status      Status     `json:"status"`
	Properties  Properties `json:"properties"`
	LastUpdated time.Time  `json:"lastUpdated"`
}

// Room groups devices by physical location.
type Room struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Devices []string `json:"devices"`
	Color   string   `json:"color"`
}

// DevicePatch carries the fields an update may change. Nil fields are left
// untouched; Properties are merged key by key.
type DevicePatch struct {
	Name       *string    `json:"name,omitempty"`
	Room       *string    `json:"room,omitempty"`
	Status     *Status    `json:"status,omitempty"`
	Properties Properties `json:"properties,omitempty"`
}

// NewDevice captures the input required to register a device.
type NewDevice struct {
	Name       string     `json:"name"`
	Type       DeviceType `json:"type"`
	Room       string     `json:"room"`
	Status     Status     `json:"status"`
	Properties Properties `json:"properties"`
}

// Update is a property delta pushed by the live feed.
type Update struct {
	DeviceID   string     `json:"deviceId"`
	Properties Properties `json:"properties"`
	Timestamp  time.Time  `json:"timestamp"`
}

func (d Device) clone() Device {
	d.Properties = d.Properties.clone()
	return d
}

func (p Properties) clone() Properties {
	if p == nil {
		return Properties{}
	}
	out := make(Properties, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

func (p Properties) merge(delta Properties) Properties {
	out := p.clone()
	for k, v := range delta {
		out[k] = v
	}
	return out
}

// Bool reads a boolean property, reporting false when missing or mistyped.
func (p Properties) Bool(key string) bool {
	v, _ := p[key].(bool)
	return v
}

// Number reads a numeric property as float64.
func (p Properties) Number(key string) (float64, bool) {
	switch v := p[key].(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}
