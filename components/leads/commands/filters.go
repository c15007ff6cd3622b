package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	leads "github.com/goliatone/go-leads/components/leads"
)

// ApplyFiltersInput merges a filter patch into the shared filter state.
type ApplyFiltersInput struct {
	Patch  leads.FilterPatch   `json:"patch"`
	Viewer leads.ViewerContext `json:"viewer"`
}

type filterService interface {
	ApplyFilters(ctx context.Context, patch leads.FilterPatch) (leads.FilterCriteria, error)
}

// ApplyFiltersCommand wraps Service.ApplyFilters.
type ApplyFiltersCommand struct {
	service   filterService
	telemetry Telemetry
}

// NewApplyFiltersCommand creates the command.
func NewApplyFiltersCommand(service filterService, telemetry Telemetry) *ApplyFiltersCommand {
	return &ApplyFiltersCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ApplyFiltersInput] = (*ApplyFiltersCommand)(nil)

// Execute merges the patch and records the resulting period.
func (c *ApplyFiltersCommand) Execute(ctx context.Context, msg ApplyFiltersInput) error {
	if c.service == nil {
		return errors.New("filters command requires service")
	}
	criteria, err := c.service.ApplyFilters(ctx, msg.Patch)
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "leads.command.apply_filters", map[string]any{
		"user_id": msg.Viewer.UserID,
		"period":  criteria.Period,
	})
	return nil
}
