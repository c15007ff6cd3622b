package activity

import "context"

// Config controls activity emission.
type Config struct {
	Enabled bool
}

// Emitter publishes events to its hooks when enabled. A nil or hook-less
// emitter is inert, so callers can emit unconditionally.
type Emitter struct {
	hooks   Hooks
	enabled bool
}

// NewEmitter builds an emitter from hooks and configuration.
func NewEmitter(hooks Hooks, cfg Config) *Emitter {
	return &Emitter{
		hooks:   hooks,
		enabled: cfg.Enabled,
	}
}

// Enabled reports whether events will actually be delivered.
func (e *Emitter) Enabled() bool {
	return e != nil && e.enabled && len(e.hooks) > 0
}

// Emit publishes the event. Disabled emitters drop events silently.
func (e *Emitter) Emit(ctx context.Context, evt Event) error {
	if !e.Enabled() {
		return nil
	}
	return e.hooks.Notify(ctx, evt)
}
