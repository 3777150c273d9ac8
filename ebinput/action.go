package ebinput

import (
	"fmt"
	"math"
	"strings"

	"github.com/milk9111/rebind/input"
)

// Kind is how an action interprets its bindings.
type Kind int

const (
	// KindButton actuates when any binding is pressed past PressPoint.
	KindButton Kind = iota
	// KindAxis reports a signed value and performs whenever it changes.
	KindAxis
	// KindVector2 reports a 2D value.
	KindVector2
)

// PressPoint is the magnitude at which a button action counts as pressed.
const PressPoint = 0.5

func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "button":
		return KindButton, nil
	case "axis":
		return KindAxis, nil
	case "vector2":
		return KindVector2, nil
	}
	return 0, fmt.Errorf("ebinput: unknown action kind %q", s)
}

func (k Kind) String() string {
	switch k {
	case KindButton:
		return "button"
	case KindAxis:
		return "axis"
	case KindVector2:
		return "vector2"
	}
	return "unknown"
}

// Part places a binding inside a composite.
type Part int

const (
	PartNone Part = iota
	PartNegative
	PartPositive
)

func ParsePart(s string) (Part, error) {
	switch strings.ToLower(s) {
	case "":
		return PartNone, nil
	case "negative":
		return PartNegative, nil
	case "positive":
		return PartPositive, nil
	}
	return PartNone, fmt.Errorf("ebinput: unknown composite part %q", s)
}

// BindingDef declares one binding of an action. A composite header
// (Path CompositeAxis) is followed by its negative and positive parts.
type BindingDef struct {
	Path   string
	Group  string
	Part   Part
	Invert bool
}

type binding struct {
	def     string
	path    string
	control Control
	group   string
	part    Part
	invert  bool
}

// Action is a host action polled by the Backend each tick.
type Action struct {
	id       string
	kind     Kind
	bindings []binding

	enabled   bool
	actuated  bool
	holdover  bool
	triggered bool
	value     float64
	vector    input.Vector2

	events input.Observers[input.EventType]
}

var (
	_ input.Action      = (*Action)(nil)
	_ input.EventSource = (*Action)(nil)
)

func newAction(id string, kind Kind, defs []BindingDef) (*Action, error) {
	a := &Action{id: id, kind: kind, bindings: make([]binding, 0, len(defs))}
	inComposite := false
	for i, d := range defs {
		c, err := ParsePath(d.Path)
		if err != nil {
			return nil, fmt.Errorf("ebinput: action %s binding %d: %w", id, i, err)
		}
		b := binding{def: c.Path(), path: c.Path(), control: c, group: c.Group(), part: d.Part, invert: d.Invert}

		switch {
		case c.Kind == ControlComposite:
			if kind != KindAxis {
				return nil, fmt.Errorf("ebinput: action %s binding %d: composite on a %s action", id, i, kind)
			}
			b.group = d.Group
			inComposite = true
		case d.Part != PartNone:
			if !inComposite {
				return nil, fmt.Errorf("ebinput: action %s binding %d: part outside a composite", id, i)
			}
		default:
			inComposite = false
		}
		if err := a.accepts(b, c); err != nil {
			return nil, fmt.Errorf("ebinput: action %s binding %d: %w", id, i, err)
		}
		a.bindings = append(a.bindings, b)
	}
	return a, nil
}

func (a *Action) ID() string { return a.id }
func (a *Action) Kind() Kind { return a.kind }
func (a *Action) Enabled() bool { return a.enabled }

func (a *Action) Enable() {
	if a.enabled {
		return
	}
	a.enabled = true
	a.holdover = a.kind == KindButton
}

// Disable stops polling. An actuated action reports cancelled.
func (a *Action) Disable() {
	if !a.enabled {
		return
	}
	a.enabled = false
	a.triggered = false
	a.value = 0
	a.vector = input.Vector2{}
	if a.actuated {
		a.actuated = false
		a.events.Notify(input.EventCancelled)
	}
}

func (a *Action) Triggered() bool { return a.triggered }

func (a *Action) ReadFloat() float64 { return a.value }

func (a *Action) ReadVector2() input.Vector2 { return a.vector }

func (a *Action) Subscribe(fn func(input.EventType)) func() {
	t := a.events.Add(fn)
	return func() { a.events.Remove(t) }
}

// BindingCount returns the number of bindings including composite headers.
func (a *Action) BindingCount() int { return len(a.bindings) }

func (a *Action) BindingPath(index int) (string, bool) {
	if index < 0 || index >= len(a.bindings) {
		return "", false
	}
	return a.bindings[index].path, true
}

// BindingGroup returns the group of the binding at index.
func (a *Action) BindingGroup(index int) (string, bool) {
	if index < 0 || index >= len(a.bindings) {
		return "", false
	}
	return a.bindings[index].group, true
}

// BindingDisplay names the binding at index. Composite headers list their
// parts, as in "A/D".
func (a *Action) BindingDisplay(index int) (string, bool) {
	if index < 0 || index >= len(a.bindings) {
		return "", false
	}
	b := a.bindings[index]
	if b.control.Kind != ControlComposite {
		return b.control.DisplayName(), true
	}
	var parts []string
	for _, p := range a.parts(index) {
		parts = append(parts, a.bindings[p].control.DisplayName())
	}
	return strings.Join(parts, "/"), true
}

// ApplyBindingOverride points the binding at index to path. An empty path
// restores the default.
func (a *Action) ApplyBindingOverride(index int, path string) error {
	if index < 0 || index >= len(a.bindings) {
		return fmt.Errorf("%w: %s:%d", input.ErrInvalidBindingIndex, a.id, index)
	}
	b := &a.bindings[index]
	if b.control.Kind == ControlComposite {
		return fmt.Errorf("ebinput: %s:%d is a composite and cannot be overridden", a.id, index)
	}
	if path == "" {
		path = b.def
	}
	c, err := ParsePath(path)
	if err != nil {
		return err
	}
	if err := a.accepts(*b, c); err != nil {
		return err
	}
	b.control = c
	b.path = c.Path()
	b.group = c.Group()
	return nil
}

func (a *Action) accepts(b binding, c Control) error {
	if c.Kind == ControlComposite && b.control.Kind != ControlComposite {
		return fmt.Errorf("%w: composite in a plain binding", ErrInvalidPath)
	}
	if c.IsVector() && (a.kind != KindVector2 || b.part != PartNone) {
		return fmt.Errorf("%w: %s needs a vector2 action", ErrInvalidPath, c.Path())
	}
	return nil
}

// parts returns the indices of the parts following the composite at index.
func (a *Action) parts(index int) []int {
	var idx []int
	for i := index + 1; i < len(a.bindings) && a.bindings[i].part != PartNone; i++ {
		idx = append(idx, i)
	}
	return idx
}

func (a *Action) update(dev Device) {
	a.triggered = false
	if !a.enabled {
		return
	}

	var active bool
	changed := false
	switch a.kind {
	case KindVector2:
		v := a.readVector(dev)
		changed = v != a.vector
		a.vector = v
		a.value = math.Hypot(v.X, v.Y)
		active = a.value > 0
	case KindAxis:
		v := a.readAxis(dev)
		changed = v != a.value
		a.value = v
		a.vector = input.Vector2{X: v}
		active = v != 0
	default:
		v := a.readAxis(dev)
		a.value = math.Abs(v)
		a.vector = input.Vector2{X: a.value}
		active = a.value >= PressPoint
	}

	if a.holdover {
		if active {
			return
		}
		a.holdover = false
	}

	switch {
	case active && !a.actuated:
		a.actuated = true
		a.triggered = true
		a.events.Notify(input.EventStarted)
		a.events.Notify(input.EventPerformed)
	case active && changed:
		a.triggered = true
		a.events.Notify(input.EventPerformed)
	case !active && a.actuated:
		a.actuated = false
		a.events.Notify(input.EventCancelled)
	}
}

// readAxis returns the value of the binding with the largest magnitude.
func (a *Action) readAxis(dev Device) float64 {
	var best float64
	for i := 0; i < len(a.bindings); i++ {
		b := a.bindings[i]
		var v float64
		switch {
		case b.control.Kind == ControlComposite:
			for _, p := range a.parts(i) {
				pv := math.Abs(dev.Value(a.bindings[p].control))
				if a.bindings[p].part == PartNegative {
					pv = -pv
				}
				v += pv
			}
			i += len(a.parts(i))
		default:
			v = dev.Value(b.control)
		}
		if b.invert {
			v = -v
		}
		if math.Abs(v) > math.Abs(best) {
			best = v
		}
	}
	return best
}

func (a *Action) readVector(dev Device) input.Vector2 {
	var best input.Vector2
	var mag float64
	for _, b := range a.bindings {
		v := dev.Vector(b.control)
		if b.invert {
			v = input.Vector2{X: -v.X, Y: -v.Y}
		}
		if m := math.Hypot(v.X, v.Y); m > mag {
			best, mag = v, m
		}
	}
	return best
}
