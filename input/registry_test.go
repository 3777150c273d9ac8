package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryEdgeState(t *testing.T) {
	logger, _ := newTestLogger()
	r := NewRegistry(WithLogger(logger))
	shoot := newFakeAction("keyboard/space")
	h := r.RegisterAction("Shoot", shoot, true)
	require.True(t, h.Valid())
	require.True(t, shoot.Enabled())

	assert.False(t, r.IsPressed("Shoot"))
	assert.False(t, r.IsReleased("Shoot"))

	shoot.emit(EventPerformed)
	assert.True(t, r.IsPressed("Shoot"))
	assert.False(t, r.IsReleased("Shoot"))
	assert.True(t, r.Pressed(h))

	shoot.emit(EventCancelled)
	assert.False(t, r.IsPressed("Shoot"))
	assert.True(t, r.IsReleased("Shoot"), "first query after release")
	assert.False(t, r.IsReleased("Shoot"), "release is reported once")
}

func TestRegistryReleasedNeverWhilePressed(t *testing.T) {
	cases := []struct {
		name   string
		events []EventType
	}{
		{"press", []EventType{EventPerformed}},
		{"release_then_press", []EventType{EventPerformed, EventCancelled, EventPerformed}},
		{"double_release_then_press", []EventType{EventCancelled, EventCancelled, EventPerformed}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			logger, _ := newTestLogger()
			r := NewRegistry(WithLogger(logger))
			a := newFakeAction("keyboard/space")
			r.RegisterAction("Shoot", a, true)
			for _, evt := range c.events {
				a.emit(evt)
			}
			require.True(t, r.IsPressed("Shoot"))
			assert.False(t, r.IsReleased("Shoot"))
			assert.True(t, r.IsPressed("Shoot"))

			// the pending release was cleared while pressed
			a.emit(EventCancelled)
			assert.True(t, r.IsReleased("Shoot"))
			assert.False(t, r.IsReleased("Shoot"))
		})
	}
}

func TestRegistryStartedDoesNotChangeState(t *testing.T) {
	logger, _ := newTestLogger()
	r := NewRegistry(WithLogger(logger))
	a := newFakeAction("keyboard/space")
	r.RegisterAction("Shoot", a, true)

	started := 0
	r.Listen(EventStarted, "Shoot", func() { started++ })
	a.emit(EventStarted)

	assert.Equal(t, 1, started)
	assert.False(t, r.IsPressed("Shoot"))
	assert.False(t, r.IsReleased("Shoot"))
}

func TestRegistryDispatchOrder(t *testing.T) {
	logger, _ := newTestLogger()
	r := NewRegistry(WithLogger(logger))
	a := newFakeAction("keyboard/space")
	r.RegisterAction("Shoot", a, true)

	var got []string
	r.Listen(EventPerformed, "Shoot", func() {
		got = append(got, "first")
		assert.True(t, r.IsPressed("Shoot"), "state is updated before listeners run")
	})
	second := r.Listen(EventPerformed, "Shoot", func() { got = append(got, "second") })
	r.Listen(EventPerformed, "Shoot", func() { got = append(got, "third") })
	r.Listen(EventCancelled, "Shoot", func() {
		got = append(got, "cancelled")
		assert.False(t, r.IsPressed("Shoot"))
	})

	a.emit(EventPerformed)
	a.emit(EventCancelled)
	assert.Equal(t, []string{"first", "second", "third", "cancelled"}, got)

	got = nil
	require.True(t, r.Mute(EventPerformed, "Shoot", second))
	assert.False(t, r.Mute(EventPerformed, "Shoot", second), "token is only removable once")
	a.emit(EventPerformed)
	assert.Equal(t, []string{"first", "third"}, got)
}

func TestRegistryValueOnlyCannotListen(t *testing.T) {
	logger, buf := newTestLogger()
	r := NewRegistry(WithLogger(logger))
	a := newFakeAction("mouse/position")
	a.vec = Vector2{X: 3, Y: 4}
	r.RegisterValue("CursorPosition", a, true)

	tok := r.Listen(EventPerformed, "CursorPosition", func() { t.Fatal("value actions have no listeners") })
	assert.Zero(t, tok)
	assert.Equal(t, 1, countLines(t, buf))
	assert.Contains(t, buf.String(), ErrInvalidRegistrationMode.Error())

	a.emit(EventPerformed)
	assert.False(t, r.IsPressed("CursorPosition"))
	assert.Equal(t, Vector2{X: 3, Y: 4}, r.ReadVector2("CursorPosition"))
}

func TestRegistryReRegistration(t *testing.T) {
	logger, buf := newTestLogger()
	r := NewRegistry(WithLogger(logger))
	first := newFakeAction("keyboard/space")
	h := r.RegisterAction("Shoot", first, false)
	assert.False(t, first.Enabled())

	calls := 0
	r.Listen(EventPerformed, "Shoot", func() { calls++ })
	first.emit(EventPerformed)
	require.True(t, r.IsPressed("Shoot"))

	second := newFakeAction("keyboard/enter")
	h2 := r.RegisterAction("Shoot", second, true)
	assert.Equal(t, h, h2, "handle slot is reused")
	assert.False(t, r.IsPressed("Shoot"), "edge state is reset")
	assert.Same(t, second, r.Action("Shoot"))

	first.emit(EventPerformed)
	assert.False(t, r.IsPressed("Shoot"), "old action is detached")
	second.emit(EventPerformed)
	assert.True(t, r.IsPressed("Shoot"))
	assert.Equal(t, 2, calls, "listeners survive re-registration")

	buf.Reset()
	h3 := r.RegisterValue("Shoot", newFakeAction("keyboard/x"), true)
	assert.Equal(t, h, h3)
	assert.Same(t, second, r.Action("Shoot"), "incompatible mode keeps the old registration")
	assert.Contains(t, buf.String(), ErrInvalidRegistrationMode.Error())
}

func TestRegistryWithoutEventSource(t *testing.T) {
	logger, _ := newTestLogger()
	r := NewRegistry(WithLogger(logger))
	a := valueOnly{newFakeAction("keyboard/space")}
	a.triggered = true
	r.RegisterAction("Shoot", a, true)

	assert.True(t, r.Triggered("Shoot"))
	assert.NotZero(t, r.Listen(EventPerformed, "Shoot", func() {}))
}

func TestRegistryMissingAction(t *testing.T) {
	cases := []struct {
		name string
		call func(r *Registry) any
		want any
	}{
		{"triggered", func(r *Registry) any { return r.Triggered("Nope") }, false},
		{"is_pressed", func(r *Registry) any { return r.IsPressed("Nope") }, false},
		{"is_released", func(r *Registry) any { return r.IsReleased("Nope") }, false},
		{"read_float", func(r *Registry) any { return r.ReadFloat("Nope") }, 0.0},
		{"read_vector2", func(r *Registry) any { return r.ReadVector2("Nope") }, Vector2{}},
		{"binding_name", func(r *Registry) any { return r.BindingName("Nope", 0) }, BindingErrorName},
		{"action", func(r *Registry) any { return r.Action("Nope") == nil }, true},
		{"listen", func(r *Registry) any { return r.Listen(EventPerformed, "Nope", func() {}) }, Token(0)},
		{"mute", func(r *Registry) any { return r.Mute(EventPerformed, "Nope", 1) }, false},
		{"pressed_handle", func(r *Registry) any { return r.Pressed(Handle(42)) }, false},
		{"released_handle", func(r *Registry) any { return r.Released(0) }, false},
		{"float_handle", func(r *Registry) any { return r.Float(Handle(9)) }, 0.0},
		{"vector2_handle", func(r *Registry) any { return r.Vector2(Handle(9)) }, Vector2{}},
		{"fired_handle", func(r *Registry) any { return r.Fired(Handle(9)) }, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			logger, buf := newTestLogger()
			r := NewRegistry(WithLogger(logger))
			r.RegisterAction("Shoot", newFakeAction("keyboard/space"), true)

			assert.NotPanics(t, func() {
				assert.Equal(t, c.want, c.call(r))
			})
			assert.Equal(t, 1, countLines(t, buf), "exactly one diagnostic per call")
			assert.Contains(t, buf.String(), ErrMissingAction.Error())
		})
	}
}

func TestRegistryBindingNameAndOverride(t *testing.T) {
	logger, _ := newTestLogger()
	r := NewRegistry(WithLogger(logger))
	a := newFakeAction("keyboard/space", "mouse/left")
	r.RegisterAction("Shoot", a, true)

	assert.Equal(t, "SPACE", r.BindingName("Shoot", 0))
	assert.Equal(t, BindingErrorName, r.BindingName("Shoot", 5))

	require.NoError(t, r.ApplyBindingOverride("Shoot", 0, "keyboard/enter"))
	assert.Equal(t, "ENTER", r.BindingName("Shoot", 0))

	err := r.ApplyBindingOverride("Shoot", 7, "keyboard/enter")
	assert.ErrorIs(t, err, ErrInvalidBindingIndex)
	assert.ErrorIs(t, r.ApplyBindingOverride("Jump", 0, "keyboard/w"), ErrMissingAction)
}

func TestRegistryInstancesAreIndependent(t *testing.T) {
	logger, _ := newTestLogger()
	a := NewRegistry(WithLogger(logger))
	b := NewRegistry(WithLogger(logger))

	shootA := newFakeAction("keyboard/space")
	shootB := newFakeAction("keyboard/space")
	a.RegisterAction("Shoot", shootA, true)
	b.RegisterAction("Shoot", shootB, true)

	shootA.emit(EventPerformed)
	assert.True(t, a.IsPressed("Shoot"))
	assert.False(t, b.IsPressed("Shoot"))
}

func TestRegistryEnableDisable(t *testing.T) {
	logger, _ := newTestLogger()
	r := NewRegistry(WithLogger(logger))
	a := newFakeAction("keyboard/space")
	r.RegisterValue("Shoot", a, false)
	assert.False(t, a.Enabled())

	r.Enable("Shoot")
	assert.True(t, a.Enabled())
	r.Disable("Shoot")
	assert.False(t, a.Enabled())

	h, ok := r.Lookup("Shoot")
	require.True(t, ok)
	assert.Equal(t, "Shoot", r.ID(h))
	assert.Equal(t, ModeValue, r.Mode(h))
	assert.Equal(t, []Handle{h}, r.Handles())
}
