package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	leads "github.com/goliatone/go-leads/components/leads"
)

// SavePresetInput stores the current filters under a name.
type SavePresetInput struct {
	Name   string              `json:"name"`
	Viewer leads.ViewerContext `json:"viewer"`
}

// LoadPresetInput applies a previously saved preset. Loading an unknown
// preset leaves the filters untouched.
type LoadPresetInput struct {
	Name   string              `json:"name"`
	Viewer leads.ViewerContext `json:"viewer"`
}

type presetStore interface {
	SavePreset(name string) error
	LoadPreset(name string)
}

// SavePresetCommand persists the active filter criteria as a named preset.
type SavePresetCommand struct {
	store     presetStore
	telemetry Telemetry
}

// NewSavePresetCommand creates the command.
func NewSavePresetCommand(store presetStore, telemetry Telemetry) *SavePresetCommand {
	return &SavePresetCommand{store: store, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SavePresetInput] = (*SavePresetCommand)(nil)

// Execute saves the preset.
func (c *SavePresetCommand) Execute(ctx context.Context, msg SavePresetInput) error {
	if c.store == nil {
		return errors.New("preset command requires filter state")
	}
	if err := c.store.SavePreset(msg.Name); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "leads.command.save_preset", map[string]any{
		"name":    msg.Name,
		"user_id": msg.Viewer.UserID,
	})
	return nil
}

// LoadPresetCommand applies a named preset to the filter state.
type LoadPresetCommand struct {
	store     presetStore
	telemetry Telemetry
}

// NewLoadPresetCommand creates the command.
func NewLoadPresetCommand(store presetStore, telemetry Telemetry) *LoadPresetCommand {
	return &LoadPresetCommand{store: store, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[LoadPresetInput] = (*LoadPresetCommand)(nil)

// Execute loads the preset.
func (c *LoadPresetCommand) Execute(ctx context.Context, msg LoadPresetInput) error {
	if c.store == nil {
		return errors.New("preset command requires filter state")
	}
	if msg.Name == "" {
		return leads.ErrPresetNameRequired
	}
	c.store.LoadPreset(msg.Name)
	c.telemetry.Record(ctx, "leads.command.load_preset", map[string]any{
		"name":    msg.Name,
		"user_id": msg.Viewer.UserID,
	})
	return nil
}
