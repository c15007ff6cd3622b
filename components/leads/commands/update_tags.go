package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	leads "github.com/goliatone/go-leads/components/leads"
	"github.com/goliatone/go-leads/pkg/activity"
)

// UpdateTagsInput captures a tags write-back. An empty Tags value clears the
// field.
type UpdateTagsInput struct {
	LeadID   string `json:"lead_id"`
	Tags     string `json:"tags"`
	ActorID  string `json:"actor_id"`
	UserID   string `json:"user_id"`
	TenantID string `json:"tenant_id"`
}

type tagsService interface {
	UpdateTags(ctx context.Context, id, tags string) error
}

// UpdateTagsCommand wraps Service.UpdateTags.
type UpdateTagsCommand struct {
	service   tagsService
	telemetry Telemetry
	activity  *activity.Emitter
}

// NewUpdateTagsCommand creates the command.
func NewUpdateTagsCommand(service tagsService, telemetry Telemetry, emitter *activity.Emitter) *UpdateTagsCommand {
	return &UpdateTagsCommand{
		service:   service,
		telemetry: normalizeTelemetry(telemetry),
		activity:  emitter,
	}
}

var _ gocommand.Commander[UpdateTagsInput] = (*UpdateTagsCommand)(nil)

// Execute writes the lead tags through the service.
func (c *UpdateTagsCommand) Execute(ctx context.Context, msg UpdateTagsInput) error {
	if c.service == nil {
		return errors.New("tags command requires service")
	}
	if msg.LeadID == "" {
		return errors.New("tags command requires lead id")
	}
	ctx = leads.ContextWithActivity(ctx, leads.ActivityContext{
		ActorID:  msg.ActorID,
		UserID:   msg.UserID,
		TenantID: msg.TenantID,
	})
	if err := c.service.UpdateTags(ctx, msg.LeadID, msg.Tags); err != nil {
		return err
	}
	if err := c.activity.Emit(ctx, activity.Event{
		Verb:       "update_tags",
		ActorID:    msg.ActorID,
		UserID:     msg.UserID,
		TenantID:   msg.TenantID,
		ObjectType: "lead",
		ObjectID:   msg.LeadID,
		Metadata:   map[string]any{"tags": msg.Tags},
	}); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "leads.command.update_tags", map[string]any{
		"lead_id": msg.LeadID,
	})
	return nil
}
