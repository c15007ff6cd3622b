package httpapi

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-leads/components/leads/commands"
)

// Executor abstracts the command surface transports dispatch to. Router
// adapters depend on this interface instead of concrete commands so bus-based
// dispatchers can slot in.
type Executor interface {
	UpdateStatus(ctx context.Context, input commands.UpdateStatusInput) error
	UpdateTags(ctx context.Context, input commands.UpdateTagsInput) error
	ApplyFilters(ctx context.Context, input commands.ApplyFiltersInput) error
	SavePreset(ctx context.Context, input commands.SavePresetInput) error
	LoadPreset(ctx context.Context, input commands.LoadPresetInput) error
	Refresh(ctx context.Context, input commands.RefreshDatasetInput) error
}

// CommandExecutor dispatches directly to in-process commands.
type CommandExecutor struct {
	StatusCommander     gocommand.Commander[commands.UpdateStatusInput]
	TagsCommander       gocommand.Commander[commands.UpdateTagsInput]
	FiltersCommander    gocommand.Commander[commands.ApplyFiltersInput]
	SavePresetCommander gocommand.Commander[commands.SavePresetInput]
	LoadPresetCommander gocommand.Commander[commands.LoadPresetInput]
	RefreshCommander    gocommand.Commander[commands.RefreshDatasetInput]
}

var _ Executor = (*CommandExecutor)(nil)

var errMissingCommand = errors.New("httpapi: command not configured")

// UpdateStatus dispatches a status write-back.
func (e *CommandExecutor) UpdateStatus(ctx context.Context, input commands.UpdateStatusInput) error {
	if e.StatusCommander == nil {
		return errMissingCommand
	}
	return e.StatusCommander.Execute(ctx, input)
}

// UpdateTags dispatches a tags write-back.
func (e *CommandExecutor) UpdateTags(ctx context.Context, input commands.UpdateTagsInput) error {
	if e.TagsCommander == nil {
		return errMissingCommand
	}
	return e.TagsCommander.Execute(ctx, input)
}

// ApplyFilters dispatches a filter patch.
func (e *CommandExecutor) ApplyFilters(ctx context.Context, input commands.ApplyFiltersInput) error {
	if e.FiltersCommander == nil {
		return errMissingCommand
	}
	return e.FiltersCommander.Execute(ctx, input)
}

// SavePreset dispatches a preset save.
func (e *CommandExecutor) SavePreset(ctx context.Context, input commands.SavePresetInput) error {
	if e.SavePresetCommander == nil {
		return errMissingCommand
	}
	return e.SavePresetCommander.Execute(ctx, input)
}

// LoadPreset dispatches a preset load.
func (e *CommandExecutor) LoadPreset(ctx context.Context, input commands.LoadPresetInput) error {
	if e.LoadPresetCommander == nil {
		return errMissingCommand
	}
	return e.LoadPresetCommander.Execute(ctx, input)
}

// Refresh dispatches a forced dataset reload.
func (e *CommandExecutor) Refresh(ctx context.Context, input commands.RefreshDatasetInput) error {
	if e.RefreshCommander == nil {
		return errMissingCommand
	}
	return e.RefreshCommander.Execute(ctx, input)
}
