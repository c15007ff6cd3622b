package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	leads "github.com/goliatone/go-leads/components/leads"
)

// RefreshDatasetInput forces a dataset reload and notifies transports.
type RefreshDatasetInput struct {
	Event leads.DatasetEvent `json:"event"`
}

type refreshService interface {
	LoadDataset(ctx context.Context, force bool) (leads.Dataset, error)
	NotifyDatasetUpdated(ctx context.Context, event leads.DatasetEvent) error
}

// RefreshDatasetCommand refetches the dataset and fans out the event.
type RefreshDatasetCommand struct {
	service   refreshService
	telemetry Telemetry
}

// NewRefreshDatasetCommand creates the command.
func NewRefreshDatasetCommand(service refreshService, telemetry Telemetry) *RefreshDatasetCommand {
	return &RefreshDatasetCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[RefreshDatasetInput] = (*RefreshDatasetCommand)(nil)

// Execute reloads the dataset, then notifies refresh hooks.
func (c *RefreshDatasetCommand) Execute(ctx context.Context, msg RefreshDatasetInput) error {
	if c.service == nil {
		return errors.New("refresh command requires service")
	}
	dataset, err := c.service.LoadDataset(ctx, true)
	if err != nil {
		return err
	}
	event := msg.Event
	if event.Reason == "" {
		event.Reason = "reload"
	}
	if err := c.service.NotifyDatasetUpdated(ctx, event); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "leads.command.refresh", map[string]any{
		"reason": event.Reason,
		"count":  len(dataset.Leads),
	})
	return nil
}
