package computer

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/zyedidia/generic/mapset"

	"darkterminal/pkg/obs"
)

// Effect is what running an action did to the session
type Effect struct {
	Message    string
	EndSession bool // Session terminates after the action
	Consume    bool // Option is removed from the terminal
}

// ActionContext is passed to action handlers
type ActionContext struct {
	Computer  *Computer
	Actor     Actor
	Clearance int
}

// ActionHandler runs one action kind
type ActionHandler func(ctx *ActionContext) Effect

// Dispatcher maps every action kind to its handler
type Dispatcher struct {
	handlers map[ActionKind]ActionHandler
}

// NewDispatcher builds a dispatcher. It fails unless every action kind has a handler.
func NewDispatcher(handlers map[ActionKind]ActionHandler) (*Dispatcher, error) {
	registered := mapset.New[ActionKind]()
	for kind, h := range handlers {
		if !kind.Valid() {
			return nil, errors.Wrapf(ErrUnknownAction, "handler registered for %d", int(kind))
		}
		if h != nil {
			registered.Put(kind)
		}
	}

	var missing []string
	for _, kind := range AllActionKinds() {
		if !registered.Has(kind) {
			missing = append(missing, kind.String())
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, errors.Wrap(ErrUnhandledAction, strings.Join(missing, ", "))
	}

	table := make(map[ActionKind]ActionHandler, len(handlers))
	for kind, h := range handlers {
		table[kind] = h
	}
	return &Dispatcher{handlers: table}, nil
}

// DefaultHandlers returns a complete handler table that forwards each action to sink
// and reports the effect recorded in ActionTypes
func DefaultHandlers(sink EffectSink) map[ActionKind]ActionHandler {
	handlers := make(map[ActionKind]ActionHandler, actionCount)
	for _, kind := range AllActionKinds() {
		handlers[kind] = forwardHandler(kind, sink)
	}

	resetLockout := handlers[ActionResetLockout]
	handlers[ActionResetLockout] = func(ctx *ActionContext) Effect {
		ctx.Computer.ResetLockout()
		return resetLockout(ctx)
	}
	return handlers
}

func forwardHandler(kind ActionKind, sink EffectSink) ActionHandler {
	info := kind.Info()
	return func(ctx *ActionContext) Effect {
		if sink != nil {
			sink.ApplyAction(kind, effectContext(ctx.Computer, ctx.Actor))
		}
		return Effect{
			Message:    info.Message,
			EndSession: info.EndsSession,
			Consume:    info.OneShot,
		}
	}
}

// Invoke runs action for a session that has proven ctx.Clearance. Callers gate on
// security first; a clearance below required is a contract violation and is refused.
func (d *Dispatcher) Invoke(ctx *ActionContext, action ActionKind, required int) (Effect, error) {
	if ctx.Clearance < required {
		return Effect{}, errors.Wrapf(ErrInsufficientClearance, "%s needs %d, have %d", action, required, ctx.Clearance)
	}
	h, ok := d.handlers[action]
	if !ok {
		return Effect{}, errors.Wrapf(ErrUnhandledAction, "%s", action)
	}
	obs.ActionRun(action.String())
	return h(ctx), nil
}
