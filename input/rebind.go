package input

import (
	"fmt"

	"github.com/milk9111/rebind/bindings"
	"github.com/rs/zerolog"
)

// RebindResult describes a finished rebind session. On success Path is the
// captured binding path; Err is set when the new bindings could not be saved.
type RebindResult struct {
	Action string
	Index  int
	Path   string
	Err    error
}

type rebindSession struct {
	seq        uint64
	handle     Handle
	index      int
	scheme     Scheme
	cancelPath string
	wasEnabled bool
}

// Rebinder runs at most one interactive rebind at a time. A request made
// while a session is active is rejected with ErrRebindInProgress.
type Rebinder struct {
	registry *Registry
	backend  Backend
	store    *bindings.Store
	log      zerolog.Logger

	session *rebindSession
	seq     uint64

	success Observers[RebindResult]
	failure Observers[RebindResult]
}

// NewRebinder returns an idle rebinder. store may be nil, in which case
// captured bindings are applied but never persisted.
func NewRebinder(registry *Registry, backend Backend, store *bindings.Store) *Rebinder {
	return &Rebinder{
		registry: registry,
		backend:  backend,
		store:    store,
		log:      registry.log.With().Str("component", "rebind").Logger(),
	}
}

// Rebinding reports whether a session is active.
func (rb *Rebinder) Rebinding() bool {
	return rb.session != nil
}

// Target returns the action id and binding index of the active session.
func (rb *Rebinder) Target() (string, int, bool) {
	if rb.session == nil {
		return "", 0, false
	}
	return rb.registry.ID(rb.session.handle), rb.session.index, true
}

func (rb *Rebinder) OnSuccess(fn func(RebindResult)) Token {
	return rb.success.Add(fn)
}

func (rb *Rebinder) OnFailure(fn func(RebindResult)) Token {
	return rb.failure.Add(fn)
}

func (rb *Rebinder) MuteSuccess(t Token) bool {
	return rb.success.Remove(t)
}

func (rb *Rebinder) MuteFailure(t Token) bool {
	return rb.failure.Remove(t)
}

// RequestRebind disables the action registered under id and asks the backend
// to capture the next input of scheme for binding index. cancelPath aborts
// the capture. It returns as soon as the backend has started listening.
func (rb *Rebinder) RequestRebind(id string, index int, scheme Scheme, cancelPath string) error {
	if rb.session != nil {
		active, activeIndex, _ := rb.Target()
		return fmt.Errorf("%w: %s:%d", ErrRebindInProgress, active, activeIndex)
	}

	h, ok := rb.registry.Lookup(id)
	if !ok {
		rb.log.Error().Err(ErrMissingAction).Str("action", id).Msg("cannot start rebinding")
		return fmt.Errorf("%w: %s", ErrMissingAction, id)
	}
	action := rb.registry.get(h).action
	if _, ok := action.BindingPath(index); !ok {
		return fmt.Errorf("%w: %s:%d", ErrInvalidBindingIndex, id, index)
	}

	rb.seq++
	s := &rebindSession{
		seq:        rb.seq,
		handle:     h,
		index:      index,
		scheme:     scheme,
		cancelPath: cancelPath,
		wasEnabled: action.Enabled(),
	}
	rb.session = s
	action.Disable()

	rb.log.Debug().
		Str("action", id).
		Int("index", index).
		Stringer("scheme", scheme).
		Msg("waiting for new binding")

	err := rb.backend.PerformInteractiveRebind(RebindOperation{
		Action:     action,
		Index:      index,
		Group:      scheme.BindingGroup(),
		CancelPath: cancelPath,
		OnComplete: func(path string) { rb.complete(s, path) },
		OnCancel:   func() { rb.cancel(s) },
	})
	if err != nil {
		if rb.session == s {
			rb.session = nil
			rb.restore(s)
		}
		return fmt.Errorf("input: rebind %s:%d: %w", id, index, err)
	}
	return nil
}

// CancelRebind aborts the active session. Failure listeners are notified.
func (rb *Rebinder) CancelRebind() bool {
	s := rb.session
	if s == nil {
		return false
	}
	if c, ok := rb.backend.(RebindCanceller); ok {
		c.CancelRebind()
	}
	if rb.session == s {
		rb.cancel(s)
	}
	return true
}

func (rb *Rebinder) complete(s *rebindSession, path string) {
	if rb.session != s {
		rb.log.Warn().Uint64("session", s.seq).Msg("ignoring completion of a stale rebind")
		return
	}

	id := rb.registry.ID(s.handle)
	res := RebindResult{Action: id, Index: s.index, Path: path}
	if rb.store != nil {
		rb.store.Set(bindings.Key{Action: id, Index: s.index}, path)
		if err := rb.store.SaveCurrent(); err != nil {
			rb.log.Error().Err(err).Str("action", id).Msg("rebind applied but bindings were not saved")
			res.Err = err
		}
	}

	rb.restore(s)
	rb.session = nil
	rb.log.Info().Str("action", id).Int("index", s.index).Str("path", path).Msg("rebinding finished")
	rb.success.Notify(res)
}

func (rb *Rebinder) cancel(s *rebindSession) {
	if rb.session != s {
		return
	}

	id := rb.registry.ID(s.handle)
	rb.restore(s)
	rb.session = nil
	rb.log.Info().Str("action", id).Int("index", s.index).Msg("rebinding cancelled")
	rb.failure.Notify(RebindResult{Action: id, Index: s.index})
}

func (rb *Rebinder) restore(s *rebindSession) {
	if !s.wasEnabled {
		return
	}
	if e := rb.registry.get(s.handle); e != nil {
		e.action.Enable()
	}
}
