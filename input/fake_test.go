package input

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

type fakeAction struct {
	enabled   bool
	triggered bool
	value     float64
	vec       Vector2
	paths     []string
	subs      Observers[EventType]
	overrides int
}

func newFakeAction(paths ...string) *fakeAction {
	return &fakeAction{paths: paths}
}

func (a *fakeAction) Enable()              { a.enabled = true }
func (a *fakeAction) Disable()             { a.enabled = false }
func (a *fakeAction) Enabled() bool        { return a.enabled }
func (a *fakeAction) Triggered() bool      { return a.triggered }
func (a *fakeAction) ReadFloat() float64   { return a.value }
func (a *fakeAction) ReadVector2() Vector2 { return a.vec }

func (a *fakeAction) BindingPath(index int) (string, bool) {
	if index < 0 || index >= len(a.paths) {
		return "", false
	}
	return a.paths[index], true
}

func (a *fakeAction) BindingDisplay(index int) (string, bool) {
	path, ok := a.BindingPath(index)
	if !ok {
		return "", false
	}
	return strings.ToUpper(path[strings.LastIndex(path, "/")+1:]), true
}

func (a *fakeAction) ApplyBindingOverride(index int, path string) error {
	if index < 0 || index >= len(a.paths) {
		return ErrInvalidBindingIndex
	}
	a.paths[index] = path
	a.overrides++
	return nil
}

func (a *fakeAction) Subscribe(fn func(EventType)) func() {
	t := a.subs.Add(fn)
	return func() { a.subs.Remove(t) }
}

func (a *fakeAction) emit(evt EventType) {
	a.subs.Notify(evt)
}

// valueOnly hides Subscribe so the action cannot report events.
type valueOnly struct {
	*fakeAction
}

func (valueOnly) Subscribe() {}

type fakeBackend struct {
	ops     []RebindOperation
	fail    error
	cancels int
}

func (b *fakeBackend) PerformInteractiveRebind(op RebindOperation) error {
	if b.fail != nil {
		return b.fail
	}
	b.ops = append(b.ops, op)
	return nil
}

func (b *fakeBackend) last() RebindOperation {
	return b.ops[len(b.ops)-1]
}

// capture finishes the newest operation the way a host would: the override
// is applied to the action before completion is reported.
func (b *fakeBackend) capture(path string) {
	op := b.last()
	_ = op.Action.ApplyBindingOverride(op.Index, path)
	op.OnComplete(path)
}

type cancellingBackend struct {
	fakeBackend
}

func (b *cancellingBackend) CancelRebind() {
	b.cancels++
	b.last().OnCancel()
}

func newTestLogger() (zerolog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return zerolog.New(&buf), &buf
}

func countLines(t *testing.T, buf *bytes.Buffer) int {
	t.Helper()
	out := strings.TrimSpace(buf.String())
	if out == "" {
		return 0
	}
	return len(strings.Split(out, "\n"))
}
