package devices

import "time"

// DefaultRooms returns the rooms the mock registry is seeded with.
func DefaultRooms() []Room {
	return []Room{
		{ID: "room-1", Name: "Living Room", Devices: []string{"device-1", "device-2"}, Color: "#3B82F6"},
		{ID: "room-2", Name: "Bedroom", Devices: []string{"device-3", "device-4"}, Color: "#14B8A6"},
		{ID: "room-3", Name: "Kitchen", Devices: []string{"device-5", "device-6"}, Color: "#F97316"},
		{ID: "room-4", Name: "Office", Devices: []string{"device-7", "device-8"}, Color: "#8B5CF6"},
	}
}

// DefaultDevices returns the eight devices the mock registry is seeded with.
func DefaultDevices(now time.Time) []Device {
	return []Device{
		{
			ID: "device-1", Name: "Main Lights", Type: TypeLight, Room: "Living Room", Status: StatusOnline,
			Properties: Properties{"brightness": 75, "color": "#FFFFFF", "on": true},
		},
		{
			ID: "device-2", Name: "Living Room Thermostat", Type: TypeThermostat, Room: "Living Room", Status: StatusOnline,
			Properties: Properties{"temperature": 22, "targetTemp": 24, "mode": "heating"},
		},
		{
			ID: "device-3", Name: "Bedroom Lights", Type: TypeLight, Room: "Bedroom", Status: StatusOnline,
			Properties: Properties{"brightness": 50, "color": "#FFB366", "on": false},
		},
		{
			ID: "device-4", Name: "Security Camera", Type: TypeCamera, Room: "Bedroom", Status: StatusOnline,
			Properties: Properties{"recording": true, "motionDetected": false},
		},
		{
			ID: "device-5", Name: "Kitchen Lights", Type: TypeLight, Room: "Kitchen", Status: StatusOnline,
			Properties: Properties{"brightness": 90, "color": "#FFFFFF", "on": true},
		},
		{
			ID: "device-6", Name: "Smart Lock", Type: TypeLock, Room: "Kitchen", Status: StatusOnline,
			Properties: Properties{"locked": true, "battery": 85},
		},
		{
			ID: "device-7", Name: "Office Thermostat", Type: TypeThermostat, Room: "Office", Status: StatusOnline,
			Properties: Properties{"temperature": 20, "targetTemp": 22, "mode": "heating"},
		},
		{
			ID: "device-8", Name: "Motion Sensor", Type: TypeSensor, Room: "Office", Status: StatusOnline,
			Properties: Properties{"motion": false, "battery": 92, "lastMotion": now},
		},
	}
}

// DefaultFeedDevices lists the devices the live feed picks from.
func DefaultFeedDevices() []string {
	return []string{"device-1", "device-2", "device-3", "device-4"}
}
