package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-home-dashboard/components/dashboard"
)

// EditModeInput changes the edit mode. Toggle wins over Enabled; Select is
// applied after the mode change.
type EditModeInput struct {
	Toggle  bool                     `json:"toggle,omitempty"`
	Enabled *bool                    `json:"enabled,omitempty"`
	Select  *string                  `json:"select,omitempty"`
	Result  *dashboard.EditModeState `json:"-"`
}

// EditModeCommand drives the shared EditMode controller.
type EditModeCommand struct {
	mode      *dashboard.EditMode
	telemetry Telemetry
}

// NewEditModeCommand creates the command.
func NewEditModeCommand(mode *dashboard.EditMode, telemetry Telemetry) *EditModeCommand {
	return &EditModeCommand{mode: mode, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[EditModeInput] = (*EditModeCommand)(nil)

// Execute applies the requested transition.
func (c *EditModeCommand) Execute(ctx context.Context, msg EditModeInput) error {
	if c.mode == nil {
		return errors.New("edit mode command requires controller")
	}
	state := c.mode.State()
	switch {
	case msg.Toggle:
		state = c.mode.Toggle()
	case msg.Enabled != nil:
		state = c.mode.SetEnabled(*msg.Enabled)
	}
	if msg.Select != nil {
		state = c.mode.Select(*msg.Select)
	}
	if msg.Result != nil {
		*msg.Result = state
	}
	c.telemetry.Record(ctx, "dashboard.command.edit_mode", map[string]any{
		"enabled": state.Enabled,
	})
	return nil
}
