package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	leads "github.com/goliatone/go-leads/components/leads"
	"github.com/goliatone/go-leads/pkg/activity"
)

// UpdateStatusInput captures a status write-back.
type UpdateStatusInput struct {
	LeadID   string `json:"lead_id"`
	Status   string `json:"status"`
	ActorID  string `json:"actor_id"`
	UserID   string `json:"user_id"`
	TenantID string `json:"tenant_id"`
}

type statusService interface {
	UpdateStatus(ctx context.Context, id, status string) error
}

// UpdateStatusCommand wraps Service.UpdateStatus.
type UpdateStatusCommand struct {
	service   statusService
	telemetry Telemetry
	activity  *activity.Emitter
}

// NewUpdateStatusCommand creates the command.
func NewUpdateStatusCommand(service statusService, telemetry Telemetry, emitter *activity.Emitter) *UpdateStatusCommand {
	return &UpdateStatusCommand{
		service:   service,
		telemetry: normalizeTelemetry(telemetry),
		activity:  emitter,
	}
}

var _ gocommand.Commander[UpdateStatusInput] = (*UpdateStatusCommand)(nil)

// Execute writes the lead status through the service.
func (c *UpdateStatusCommand) Execute(ctx context.Context, msg UpdateStatusInput) error {
	if c.service == nil {
		return errors.New("status command requires service")
	}
	if msg.LeadID == "" {
		return errors.New("status command requires lead id")
	}
	if msg.Status == "" {
		return errors.New("status command requires status")
	}
	ctx = leads.ContextWithActivity(ctx, leads.ActivityContext{
		ActorID:  msg.ActorID,
		UserID:   msg.UserID,
		TenantID: msg.TenantID,
	})
	if err := c.service.UpdateStatus(ctx, msg.LeadID, msg.Status); err != nil {
		return err
	}
	if err := c.activity.Emit(ctx, activity.Event{
		Verb:       "update_status",
		ActorID:    msg.ActorID,
		UserID:     msg.UserID,
		TenantID:   msg.TenantID,
		ObjectType: "lead",
		ObjectID:   msg.LeadID,
		Metadata:   map[string]any{"status": msg.Status},
	}); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "leads.command.update_status", map[string]any{
		"lead_id": msg.LeadID,
		"status":  msg.Status,
	})
	return nil
}
