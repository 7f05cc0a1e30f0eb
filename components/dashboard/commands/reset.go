package commands

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-home-dashboard/components/dashboard"
)

// ResetDashboardInput restores the default configuration. ClearSelection
// also drops the edit mode selection.
type ResetDashboardInput struct {
	ClearSelection bool                     `json:"clearSelection"`
	Result         *dashboard.Configuration `json:"-"`
}

type resetService interface {
	Reset(ctx context.Context) dashboard.Configuration
}

// ResetDashboardCommand overwrites the stored layout with the starter set.
type ResetDashboardCommand struct {
	service   resetService
	mode      *dashboard.EditMode
	telemetry Telemetry
}

// NewResetDashboardCommand wires dependencies; mode may be nil.
func NewResetDashboardCommand(service resetService, mode *dashboard.EditMode, telemetry Telemetry) *ResetDashboardCommand {
	return &ResetDashboardCommand{service: service, mode: mode, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ResetDashboardInput] = (*ResetDashboardCommand)(nil)

// Execute runs the reset.
func (c *ResetDashboardCommand) Execute(ctx context.Context, msg ResetDashboardInput) error {
	if err := requireService("reset", c.service == nil); err != nil {
		return err
	}
	cfg := c.service.Reset(ctx)
	if msg.ClearSelection && c.mode != nil {
		c.mode.Select("")
	}
	if msg.Result != nil {
		*msg.Result = cfg
	}
	c.telemetry.Record(ctx, "dashboard.command.reset", map[string]any{"views": len(cfg.Views)})
	return nil
}

// RefreshLayoutInput re-announces a layout event to transports.
type RefreshLayoutInput struct {
	Event dashboard.LayoutEvent `json:"event"`
}

type refreshNotifier interface {
	NotifyLayoutUpdated(ctx context.Context, event dashboard.LayoutEvent) error
}

// RefreshLayoutCommand triggers refresh hooks without a mutation, e.g. after
// an external writer changed storage.
type RefreshLayoutCommand struct {
	service   refreshNotifier
	telemetry Telemetry
}

// NewRefreshLayoutCommand creates the command.
func NewRefreshLayoutCommand(service refreshNotifier, telemetry Telemetry) *RefreshLayoutCommand {
	return &RefreshLayoutCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[RefreshLayoutInput] = (*RefreshLayoutCommand)(nil)

// Execute notifies the dashboard service's refresh hooks.
func (c *RefreshLayoutCommand) Execute(ctx context.Context, msg RefreshLayoutInput) error {
	if err := requireService("refresh", c.service == nil); err != nil {
		return err
	}
	if msg.Event.Reason == "" {
		msg.Event.Reason = "refresh"
	}
	if err := c.service.NotifyLayoutUpdated(ctx, msg.Event); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.refresh", map[string]any{
		"view_id": msg.Event.ViewID,
	})
	return nil
}
