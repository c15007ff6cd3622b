package commands

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	gocommand "github.com/goliatone/go-command"
	leads "github.com/goliatone/go-leads/components/leads"
)

// ExportInput renders a CSV export for the date range and optionally writes
// it to a directory.
type ExportInput struct {
	From      string `json:"from"`
	To        string `json:"to"`
	OutputDir string `json:"output_dir,omitempty"`
}

type exportService interface {
	Export(ctx context.Context, from, to string) (leads.ExportResult, error)
}

// ExportCommand wraps Service.Export.
type ExportCommand struct {
	service   exportService
	telemetry Telemetry

	// Result holds the last export so in-process callers can read it back.
	Result leads.ExportResult
}

// NewExportCommand creates the command.
func NewExportCommand(service exportService, telemetry Telemetry) *ExportCommand {
	return &ExportCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ExportInput] = (*ExportCommand)(nil)

// Execute renders the export and writes the file when OutputDir is set.
func (c *ExportCommand) Execute(ctx context.Context, msg ExportInput) error {
	if c.service == nil {
		return errors.New("export command requires service")
	}
	result, err := c.service.Export(ctx, msg.From, msg.To)
	if err != nil {
		return err
	}
	c.Result = result
	if msg.OutputDir != "" {
		path := filepath.Join(msg.OutputDir, result.Filename)
		if err := os.WriteFile(path, result.Content, 0o644); err != nil {
			return err
		}
	}
	c.telemetry.Record(ctx, "leads.command.export", map[string]any{
		"from": msg.From,
		"to":   msg.To,
		"rows": result.Rows,
	})
	return nil
}
