package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-home-dashboard/components/dashboard"
)

type presetService interface {
	CreatePreset(ctx context.Context, name, description string) (dashboard.Preset, error)
	ApplyPreset(ctx context.Context, id string) (dashboard.Preset, error)
	SaveAsDefault(ctx context.Context) (dashboard.Preset, error)
}

// CreatePresetInput snapshots the current configuration under a name.
type CreatePresetInput struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Result      *dashboard.Preset `json:"-"`
}

// CreatePresetCommand wraps Service.CreatePreset.
type CreatePresetCommand struct {
	service   presetService
	telemetry Telemetry
}

// NewCreatePresetCommand creates the command.
func NewCreatePresetCommand(service presetService, telemetry Telemetry) *CreatePresetCommand {
	return &CreatePresetCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[CreatePresetInput] = (*CreatePresetCommand)(nil)

// Execute stores the preset.
func (c *CreatePresetCommand) Execute(ctx context.Context, msg CreatePresetInput) error {
	if err := requireService("create preset", c.service == nil); err != nil {
		return err
	}
	preset, err := c.service.CreatePreset(ctx, msg.Name, msg.Description)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = preset
	}
	c.telemetry.Record(ctx, "dashboard.command.preset_create", map[string]any{"preset": preset.ID})
	return nil
}

// ApplyPresetInput identifies the preset to restore.
type ApplyPresetInput struct {
	PresetID string            `json:"presetId"`
	Result   *dashboard.Preset `json:"-"`
}

// ApplyPresetCommand wraps Service.ApplyPreset.
type ApplyPresetCommand struct {
	service   presetService
	telemetry Telemetry
}

// NewApplyPresetCommand creates the command.
func NewApplyPresetCommand(service presetService, telemetry Telemetry) *ApplyPresetCommand {
	return &ApplyPresetCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ApplyPresetInput] = (*ApplyPresetCommand)(nil)

// Execute writes the preset configuration and reloads the dashboard.
func (c *ApplyPresetCommand) Execute(ctx context.Context, msg ApplyPresetInput) error {
	if err := requireService("apply preset", c.service == nil); err != nil {
		return err
	}
	if msg.PresetID == "" {
		return errors.New("apply preset command requires preset id")
	}
	preset, err := c.service.ApplyPreset(ctx, msg.PresetID)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = preset
	}
	c.telemetry.Record(ctx, "dashboard.command.preset_apply", map[string]any{"preset": preset.ID})
	return nil
}

// SaveDefaultPresetInput has no parameters; Result receives the default preset.
type SaveDefaultPresetInput struct {
	Result *dashboard.Preset `json:"-"`
}

// SaveDefaultPresetCommand wraps Service.SaveAsDefault.
type SaveDefaultPresetCommand struct {
	service   presetService
	telemetry Telemetry
}

// NewSaveDefaultPresetCommand creates the command.
func NewSaveDefaultPresetCommand(service presetService, telemetry Telemetry) *SaveDefaultPresetCommand {
	return &SaveDefaultPresetCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SaveDefaultPresetInput] = (*SaveDefaultPresetCommand)(nil)

func (c *SaveDefaultPresetCommand) Execute(ctx context.Context, msg SaveDefaultPresetInput) error {
	if err := requireService("save default", c.service == nil); err != nil {
		return err
	}
	preset, err := c.service.SaveAsDefault(ctx)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = preset
	}
	c.telemetry.Record(ctx, "dashboard.command.preset_default", nil)
	return nil
}
