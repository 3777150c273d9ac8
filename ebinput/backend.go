// Package ebinput implements the host input backend on top of ebiten: actions
// with positional bindings, per tick polling and interactive rebinding.
package ebinput

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/milk9111/rebind/input"
)

// ErrRebindBusy is returned when an interactive rebind is already running.
var ErrRebindBusy = errors.New("ebinput: interactive rebind already running")

type Backend struct {
	dev     Device
	log     zerolog.Logger
	actions []*Action
	byID    map[string]*Action

	op      *rebindOp
	pressed []Control
}

type rebindOp struct {
	input.RebindOperation
	cancel    Control
	hasCancel bool
	armed     bool
}

var (
	_ input.Backend         = (*Backend)(nil)
	_ input.RebindCanceller = (*Backend)(nil)
)

type Option func(*Backend)

// WithDevice replaces the ebiten device.
func WithDevice(d Device) Option {
	return func(b *Backend) {
		b.dev = d
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(b *Backend) {
		b.log = l
	}
}

func New(opts ...Option) *Backend {
	b := &Backend{
		log:  log.Logger,
		byID: make(map[string]*Action),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.dev == nil {
		b.dev = NewEbitenDevice(DefaultDeadzone)
	}
	b.log = b.log.With().Str("component", "ebinput").Logger()
	return b
}

// NewAction creates an action polled by Update. Actions start disabled.
func (b *Backend) NewAction(id string, kind Kind, defs []BindingDef) (*Action, error) {
	if _, ok := b.byID[id]; ok {
		return nil, fmt.Errorf("ebinput: action %s already exists", id)
	}
	a, err := newAction(id, kind, defs)
	if err != nil {
		return nil, err
	}
	b.actions = append(b.actions, a)
	b.byID[id] = a
	return a, nil
}

// Action returns the action created under id.
func (b *Backend) Action(id string) (*Action, bool) {
	a, ok := b.byID[id]
	return a, ok
}

// Update polls the device. A running rebind sees the tick's input before any
// action does.
func (b *Backend) Update() {
	b.dev.Update()
	if b.op != nil {
		b.pollRebind()
	}
	for _, a := range b.actions {
		a.update(b.dev)
	}
}

func (b *Backend) Rebinding() bool {
	return b.op != nil
}

// PerformInteractiveRebind listens for the next press in op.Group, starting
// with the next tick so the press that requested the rebind is not captured.
func (b *Backend) PerformInteractiveRebind(op input.RebindOperation) error {
	if b.op != nil {
		return ErrRebindBusy
	}
	if op.Action == nil {
		return errors.New("ebinput: rebind without an action")
	}
	if op.Group != GroupKeyboard && op.Group != GroupGamepad {
		return fmt.Errorf("ebinput: unknown binding group %q", op.Group)
	}

	ro := &rebindOp{RebindOperation: op}
	if op.CancelPath != "" {
		c, err := ParsePath(op.CancelPath)
		if err != nil {
			return fmt.Errorf("ebinput: cancel path: %w", err)
		}
		ro.cancel, ro.hasCancel = c, true
	}
	b.op = ro
	b.log.Debug().Str("group", op.Group).Int("index", op.Index).Msg("listening for binding")
	return nil
}

// CancelRebind aborts the running operation and calls its OnCancel.
func (b *Backend) CancelRebind() {
	op := b.op
	if op == nil {
		return
	}
	b.op = nil
	if op.OnCancel != nil {
		op.OnCancel()
	}
}

func (b *Backend) pollRebind() {
	op := b.op
	if !op.armed {
		op.armed = true
		return
	}

	b.pressed = b.dev.AppendJustPressed("", b.pressed[:0])
	if op.hasCancel {
		for _, c := range b.pressed {
			if c == op.cancel {
				b.CancelRebind()
				return
			}
		}
	}

	for _, c := range b.pressed {
		if c.Group() != op.Group {
			continue
		}
		path := c.Path()
		if err := op.Action.ApplyBindingOverride(op.Index, path); err != nil {
			b.log.Warn().Err(err).Str("path", path).Msg("ignoring control for rebind")
			continue
		}
		b.op = nil
		if op.OnComplete != nil {
			op.OnComplete(path)
		}
		return
	}
}
