package adminshell

import (
	"context"
	"errors"

	activitypkg "github.com/goliatone/go-leads/pkg/activity"
	leadspkg "github.com/goliatone/go-leads/pkg/leads"
)

// MenuBuilder ensures lead dashboard entries exist within the admin navigation.
type MenuBuilder interface {
	EnsureMenuItem(ctx context.Context, menuCode string, item MenuItem) error
}

// MenuItem captures dashboard link metadata.
type MenuItem struct {
	Label    string
	Route    string
	Icon     string
	Position int
}

// Config wires the leads service + feature flags into an admin shell.
type Config struct {
	EnableLeads     bool
	MenuCode        string
	MenuBuilder     MenuBuilder
	Service         *leadspkg.Service
	DefaultMenuItem MenuItem
	ActivityHooks   activitypkg.Hooks
	ActivityConfig  activitypkg.Config
}

// Shell exposes helpers for admin style applications.
type Shell struct {
	cfg Config
}

// New creates a Shell helper that can seed lead dashboard menus.
func New(cfg Config) (*Shell, error) {
	if cfg.EnableLeads && cfg.Service == nil {
		return nil, errors.New("adminshell: leads service is required when enabled")
	}
	if cfg.MenuCode == "" {
		cfg.MenuCode = "admin.main"
	}
	if cfg.DefaultMenuItem.Label == "" {
		cfg.DefaultMenuItem.Label = "Leads"
	}
	if cfg.DefaultMenuItem.Route == "" {
		cfg.DefaultMenuItem.Route = "admin.leads"
	}
	if cfg.DefaultMenuItem.Icon == "" {
		cfg.DefaultMenuItem.Icon = "users"
	}
	return &Shell{cfg: cfg}, nil
}

// Emitter builds an activity emitter from the configured hooks.
func (s *Shell) Emitter() *activitypkg.Emitter {
	return activitypkg.NewEmitter(s.cfg.ActivityHooks, s.cfg.ActivityConfig)
}

// Leads exposes the configured leads service when enabled.
func (s *Shell) Leads() *leadspkg.Service {
	if !s.cfg.EnableLeads {
		return nil
	}
	return s.cfg.Service
}

// Bootstrap seeds menu entries when lead dashboard support is enabled.
func (s *Shell) Bootstrap(ctx context.Context) error {
	if !s.cfg.EnableLeads || s.cfg.MenuBuilder == nil {
		return nil
	}
	return s.cfg.MenuBuilder.EnsureMenuItem(ctx, s.cfg.MenuCode, s.cfg.DefaultMenuItem)
}
