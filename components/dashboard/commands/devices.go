package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-home-dashboard/components/devices"
)

// ToggleDeviceInput flips a device's "on" property.
type ToggleDeviceInput struct {
	DeviceID string          `json:"deviceId"`
	Result   *devices.Device `json:"-"`
}

type toggleService interface {
	Toggle(ctx context.Context, id string) (devices.Device, error)
}

// ToggleDeviceCommand wraps Registry.Toggle.
type ToggleDeviceCommand struct {
	registry  toggleService
	telemetry Telemetry
}

// NewToggleDeviceCommand creates the command.
func NewToggleDeviceCommand(registry toggleService, telemetry Telemetry) *ToggleDeviceCommand {
	return &ToggleDeviceCommand{registry: registry, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ToggleDeviceInput] = (*ToggleDeviceCommand)(nil)

// Execute toggles the device.
func (c *ToggleDeviceCommand) Execute(ctx context.Context, msg ToggleDeviceInput) error {
	if c.registry == nil {
		return errors.New("toggle command requires device registry")
	}
	device, err := c.registry.Toggle(ctx, msg.DeviceID)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = device
	}
	c.telemetry.Record(ctx, "devices.command.toggle", map[string]any{
		"device_id": device.ID,
		"on":        device.Properties.Bool("on"),
	})
	return nil
}

// UpdateDeviceInput patches a device.
type UpdateDeviceInput struct {
	DeviceID string              `json:"deviceId"`
	Patch    devices.DevicePatch `json:"patch"`
	Result   *devices.Device     `json:"-"`
}

type deviceUpdateService interface {
	Update(ctx context.Context, id string, patch devices.DevicePatch) (devices.Device, error)
}

// UpdateDeviceCommand wraps Registry.Update.
type UpdateDeviceCommand struct {
	registry  deviceUpdateService
	telemetry Telemetry
}

// NewUpdateDeviceCommand creates the command.
func NewUpdateDeviceCommand(registry deviceUpdateService, telemetry Telemetry) *UpdateDeviceCommand {
	return &UpdateDeviceCommand{registry: registry, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[UpdateDeviceInput] = (*UpdateDeviceCommand)(nil)

// Execute merges the patch into the device.
func (c *UpdateDeviceCommand) Execute(ctx context.Context, msg UpdateDeviceInput) error {
	if c.registry == nil {
		return errors.New("update device command requires device registry")
	}
	device, err := c.registry.Update(ctx, msg.DeviceID, msg.Patch)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = device
	}
	c.telemetry.Record(ctx, "devices.command.update", map[string]any{
		"device_id": device.ID,
		"keys":      len(msg.Patch.Properties),
	})
	return nil
}
