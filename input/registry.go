// Package input maps string ids onto host input actions, tracks their
// press/release edge state and coordinates interactive rebinding.
package input

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Mode is how an action was registered.
type Mode int

const (
	// ModeListen actions report phase events and can be listened to.
	ModeListen Mode = iota + 1
	// ModeValue actions are only polled.
	ModeValue
)

func (m Mode) String() string {
	switch m {
	case ModeListen:
		return "listen"
	case ModeValue:
		return "value"
	}
	return "unknown"
}

// Handle is a registry-local token for a registered action. Zero is invalid.
type Handle uint32

func (h Handle) Valid() bool {
	return h != 0
}

// BindingErrorName is returned by BindingName when no name can be resolved.
const BindingErrorName = "Binding Error"

type entry struct {
	id          string
	action      Action
	mode        Mode
	pressed     bool
	released    bool
	unsubscribe func()
	events      [3]Observers[struct{}]
}

// Registry holds the actions of one input subsystem. It is not safe for
// concurrent use; every call is expected on the game loop.
type Registry struct {
	log     zerolog.Logger
	entries []*entry
	byID    map[string]Handle
}

type Option func(*Registry)

// WithLogger sets the logger diagnostics are written to.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Registry) {
		r.log = l
	}
}

func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		log:  log.Logger,
		byID: make(map[string]Handle),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.log = r.log.With().Str("component", "input").Logger()
	return r
}

// RegisterAction registers a listenable action under id. If the host action
// implements EventSource its phase events drive the edge state and the
// listeners added with Listen.
func (r *Registry) RegisterAction(id string, action Action, autoEnable bool) Handle {
	return r.register(id, action, ModeListen, autoEnable)
}

// RegisterValue registers an action that can only be polled.
func (r *Registry) RegisterValue(id string, action Action, autoEnable bool) Handle {
	return r.register(id, action, ModeValue, autoEnable)
}

func (r *Registry) register(id string, action Action, mode Mode, autoEnable bool) Handle {
	if action == nil {
		r.log.Error().Str("action", id).Msg("cannot register a nil action")
		return 0
	}

	h, exists := r.byID[id]
	var e *entry
	if exists {
		e = r.entries[h-1]
		if e.mode != mode {
			r.log.Error().
				Err(ErrInvalidRegistrationMode).
				Str("action", id).
				Stringer("registered", e.mode).
				Stringer("requested", mode).
				Msg("cannot re-register action in a different mode")
			return h
		}
		if e.unsubscribe != nil {
			e.unsubscribe()
			e.unsubscribe = nil
		}
	} else {
		e = &entry{id: id, mode: mode}
		r.entries = append(r.entries, e)
		h = Handle(len(r.entries))
		r.byID[id] = h
	}

	e.action = action
	e.pressed = false
	e.released = false

	if mode == ModeListen {
		if src, ok := action.(EventSource); ok {
			e.unsubscribe = src.Subscribe(func(evt EventType) {
				r.dispatch(h, evt)
			})
		}
	}

	if autoEnable {
		action.Enable()
	}
	return h
}

// Lookup resolves id to its handle.
func (r *Registry) Lookup(id string) (Handle, bool) {
	h, ok := r.byID[id]
	return h, ok
}

// ID returns the id a handle was registered under.
func (r *Registry) ID(h Handle) string {
	if e := r.get(h); e != nil {
		return e.id
	}
	return ""
}

// Mode returns the registration mode of h.
func (r *Registry) Mode(h Handle) Mode {
	if e := r.get(h); e != nil {
		return e.mode
	}
	return 0
}

// Handles returns every registered handle in registration order.
func (r *Registry) Handles() []Handle {
	out := make([]Handle, len(r.entries))
	for i := range r.entries {
		out[i] = Handle(i + 1)
	}
	return out
}

// Action returns the host action registered under id, or nil.
func (r *Registry) Action(id string) Action {
	e := r.resolve(id, "cannot get action")
	if e == nil {
		return nil
	}
	return e.action
}

// Enable enables the host action registered under id.
func (r *Registry) Enable(id string) {
	if e := r.resolve(id, "cannot enable action"); e != nil {
		e.action.Enable()
	}
}

// Disable disables the host action registered under id.
func (r *Registry) Disable(id string) {
	if e := r.resolve(id, "cannot disable action"); e != nil {
		e.action.Disable()
	}
}

// Triggered reports whether the action performed during the current tick.
func (r *Registry) Triggered(id string) bool {
	e := r.resolve(id, "cannot read trigger")
	return e != nil && e.action.Triggered()
}

// IsPressed reports whether the action is held.
func (r *Registry) IsPressed(id string) bool {
	e := r.resolve(id, "cannot check pressed")
	return e != nil && e.pressed
}

// IsReleased reports a release once: it returns true on the first call after
// the action was cancelled and false afterwards. It is always false while the
// action is pressed.
func (r *Registry) IsReleased(id string) bool {
	e := r.resolve(id, "cannot check released")
	return e != nil && e.consumeRelease()
}

func (r *Registry) ReadFloat(id string) float64 {
	e := r.resolve(id, "cannot read float")
	if e == nil {
		return 0
	}
	return e.action.ReadFloat()
}

func (r *Registry) ReadVector2(id string) Vector2 {
	e := r.resolve(id, "cannot read vector2")
	if e == nil {
		return Vector2{}
	}
	return e.action.ReadVector2()
}

// Fired is Triggered for a handle.
func (r *Registry) Fired(h Handle) bool {
	e := r.resolveHandle(h, "cannot read trigger")
	return e != nil && e.action.Triggered()
}

// Pressed is IsPressed for a handle.
func (r *Registry) Pressed(h Handle) bool {
	e := r.resolveHandle(h, "cannot check pressed")
	return e != nil && e.pressed
}

// Released is IsReleased for a handle.
func (r *Registry) Released(h Handle) bool {
	e := r.resolveHandle(h, "cannot check released")
	return e != nil && e.consumeRelease()
}

func (r *Registry) Float(h Handle) float64 {
	e := r.resolveHandle(h, "cannot read float")
	if e == nil {
		return 0
	}
	return e.action.ReadFloat()
}

func (r *Registry) Vector2(h Handle) Vector2 {
	e := r.resolveHandle(h, "cannot read vector2")
	if e == nil {
		return Vector2{}
	}
	return e.action.ReadVector2()
}

// BindingName returns the display name of a binding, or BindingErrorName.
func (r *Registry) BindingName(id string, index int) string {
	e := r.resolve(id, "cannot get binding name")
	if e == nil {
		return BindingErrorName
	}
	name, ok := e.action.BindingDisplay(index)
	if !ok {
		r.log.Error().
			Err(ErrInvalidBindingIndex).
			Str("action", id).
			Int("index", index).
			Msg("cannot get binding name")
		return BindingErrorName
	}
	return name
}

// BindingPath returns the effective path of a binding.
func (r *Registry) BindingPath(id string, index int) (string, bool) {
	e := r.resolve(id, "cannot get binding path")
	if e == nil {
		return "", false
	}
	return e.action.BindingPath(index)
}

// ApplyBindingOverride points the binding at index of action id to path.
func (r *Registry) ApplyBindingOverride(id string, index int, path string) error {
	e := r.resolve(id, "cannot apply binding override")
	if e == nil {
		return fmt.Errorf("%w: %s", ErrMissingAction, id)
	}
	if err := e.action.ApplyBindingOverride(index, path); err != nil {
		return fmt.Errorf("input: override %s:%d: %w", id, index, err)
	}
	return nil
}

// Listen adds fn to the event list of a listenable action.
func (r *Registry) Listen(event EventType, id string, fn func()) Token {
	e := r.listenable(event, id, "cannot listen to input")
	if e == nil || fn == nil {
		return 0
	}
	return e.events[event].Add(func(struct{}) { fn() })
}

// Mute removes a callback previously added with Listen.
func (r *Registry) Mute(event EventType, id string, t Token) bool {
	e := r.listenable(event, id, "cannot mute input")
	if e == nil {
		return false
	}
	return e.events[event].Remove(t)
}

func (r *Registry) listenable(event EventType, id, msg string) *entry {
	e := r.resolve(id, msg)
	if e == nil {
		return nil
	}
	if e.mode != ModeListen {
		r.log.Error().
			Err(ErrInvalidRegistrationMode).
			Str("action", id).
			Stringer("event", event).
			Msg(msg + ": registered as a value, use RegisterAction to listen")
		return nil
	}
	if event < EventStarted || event > EventCancelled {
		r.log.Error().Str("action", id).Int("event", int(event)).Msg(msg + ": unknown event type")
		return nil
	}
	return e
}

func (r *Registry) dispatch(h Handle, evt EventType) {
	e := r.get(h)
	if e == nil {
		return
	}
	switch evt {
	case EventStarted:
		e.events[EventStarted].Notify(struct{}{})
	case EventPerformed:
		e.pressed = true
		e.released = false
		e.events[EventPerformed].Notify(struct{}{})
	case EventCancelled:
		e.pressed = false
		e.released = true
		e.events[EventCancelled].Notify(struct{}{})
	}
}

func (e *entry) consumeRelease() bool {
	if e.pressed {
		e.released = false
		return false
	}
	if e.released {
		e.released = false
		return true
	}
	return false
}

func (r *Registry) get(h Handle) *entry {
	if h == 0 || int(h) > len(r.entries) {
		return nil
	}
	return r.entries[h-1]
}

func (r *Registry) resolve(id, msg string) *entry {
	h, ok := r.byID[id]
	if !ok {
		r.log.Error().Err(ErrMissingAction).Str("action", id).Msg(msg)
		return nil
	}
	return r.entries[h-1]
}

func (r *Registry) resolveHandle(h Handle, msg string) *entry {
	e := r.get(h)
	if e == nil {
		r.log.Error().Err(ErrMissingAction).Uint32("handle", uint32(h)).Msg(msg)
	}
	return e
}
