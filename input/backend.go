package input

// EventType identifies one of the three phases a listenable action reports.
type EventType int

const (
	EventStarted EventType = iota
	EventPerformed
	EventCancelled
)

func (e EventType) String() string {
	switch e {
	case EventStarted:
		return "started"
	case EventPerformed:
		return "performed"
	case EventCancelled:
		return "cancelled"
	}
	return "unknown"
}

// Vector2 is a 2D action value such as a cursor position or a stick.
type Vector2 struct {
	X, Y float64
}

// Action is a live handle to an action owned by the host input backend.
type Action interface {
	Enable()
	Disable()
	Enabled() bool
	// Triggered reports whether the action performed during the current tick.
	Triggered() bool
	ReadFloat() float64
	ReadVector2() Vector2
	// BindingPath returns the effective path of the binding at index.
	BindingPath(index int) (string, bool)
	// BindingDisplay returns a human readable name of the binding at index.
	BindingDisplay(index int) (string, bool)
	ApplyBindingOverride(index int, path string) error
}

// EventSource is implemented by host actions that report phase events.
// The returned func detaches fn.
type EventSource interface {
	Subscribe(fn func(EventType)) (unsubscribe func())
}

// Scheme selects the binding group a rebind listens on.
type Scheme int

const (
	SchemeKeyboard Scheme = iota
	SchemeGamepad
)

// BindingGroup returns the host binding group name of the scheme.
func (s Scheme) BindingGroup() string {
	if s == SchemeGamepad {
		return "gamepad"
	}
	return "keyboard"
}

func (s Scheme) String() string {
	return s.BindingGroup()
}

// RebindOperation is handed to the backend when an interactive rebind starts.
// Exactly one of OnComplete or OnCancel is called when the operation ends.
type RebindOperation struct {
	Action     Action
	Index      int
	Group      string
	CancelPath string
	OnComplete func(path string)
	OnCancel   func()
}

// Backend is the host primitive that listens for the next physical input.
type Backend interface {
	PerformInteractiveRebind(op RebindOperation) error
}

// RebindCanceller is implemented by backends that can abort an operation in
// flight. Aborting must call the operation's OnCancel.
type RebindCanceller interface {
	CancelRebind()
}
