package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-home-dashboard/components/dashboard"
)

// ApplyThemeInput selects a theme by id ("auto" follows the system scheme).
type ApplyThemeInput struct {
	ThemeID string                  `json:"themeId"`
	Result  *dashboard.AppliedTheme `json:"-"`
}

type themeService interface {
	ApplyTheme(ctx context.Context, id string) (dashboard.AppliedTheme, error)
}

// ApplyThemeCommand wraps Components.ApplyTheme.
type ApplyThemeCommand struct {
	service   themeService
	telemetry Telemetry
}

// NewApplyThemeCommand creates the command.
func NewApplyThemeCommand(service themeService, telemetry Telemetry) *ApplyThemeCommand {
	return &ApplyThemeCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ApplyThemeInput] = (*ApplyThemeCommand)(nil)

// Execute applies and persists the theme.
func (c *ApplyThemeCommand) Execute(ctx context.Context, msg ApplyThemeInput) error {
	if err := requireService("theme", c.service == nil); err != nil {
		return err
	}
	if msg.ThemeID == "" {
		return errors.New("theme command requires theme id")
	}
	applied, err := c.service.ApplyTheme(ctx, msg.ThemeID)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = applied
	}
	c.telemetry.Record(ctx, "dashboard.command.theme", map[string]any{
		"requested": applied.Requested,
		"theme":     applied.Theme.ID,
	})
	return nil
}
