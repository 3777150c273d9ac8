package ebinput

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/rebind/bindings"
	"github.com/milk9111/rebind/config"
	"github.com/milk9111/rebind/input"
)

type opResult struct {
	completed []string
	cancelled int
}

func (r *opResult) op(a input.Action, index int, group, cancel string) input.RebindOperation {
	return input.RebindOperation{
		Action:     a,
		Index:      index,
		Group:      group,
		CancelPath: cancel,
		OnComplete: func(path string) { r.completed = append(r.completed, path) },
		OnCancel:   func() { r.cancelled++ },
	}
}

func TestRebindSkipsRequestingTick(t *testing.T) {
	b, dev := newTestBackend(t)
	a, err := b.NewAction("Shoot", KindButton, []BindingDef{{Path: "keyboard/space"}})
	require.NoError(t, err)

	var res opResult
	require.NoError(t, b.PerformInteractiveRebind(res.op(a, 0, GroupKeyboard, "keyboard/escape")))
	assert.True(t, b.Rebinding())

	dev.press(t, "mouse/left")
	dev.tick(b)
	assert.Empty(t, res.completed)

	dev.press(t, "gamepad/north")
	dev.tick(b)
	assert.Empty(t, res.completed, "other groups are ignored")

	dev.press(t, "keyboard/k")
	dev.tick(b)
	assert.Equal(t, []string{"keyboard/k"}, res.completed)
	assert.False(t, b.Rebinding())

	path, _ := a.BindingPath(0)
	assert.Equal(t, "keyboard/k", path)
}

func TestRebindCancelPath(t *testing.T) {
	b, dev := newTestBackend(t)
	a, err := b.NewAction("Shoot", KindButton, []BindingDef{{Path: "gamepad/south"}})
	require.NoError(t, err)

	var res opResult
	require.NoError(t, b.PerformInteractiveRebind(res.op(a, 0, GroupGamepad, "keyboard/escape")))
	dev.tick(b)

	dev.press(t, "keyboard/escape")
	dev.press(t, "gamepad/east")
	dev.tick(b)
	assert.Equal(t, 1, res.cancelled)
	assert.Empty(t, res.completed)
	assert.False(t, b.Rebinding())

	path, _ := a.BindingPath(0)
	assert.Equal(t, "gamepad/south", path)
}

func TestRebindSkipsRejectedControls(t *testing.T) {
	b, dev := newTestBackend(t)
	a, err := b.NewAction("Shoot", KindButton, []BindingDef{{Path: "keyboard/space"}})
	require.NoError(t, err)

	var res opResult
	require.NoError(t, b.PerformInteractiveRebind(res.op(a, 3, GroupKeyboard, "")))
	dev.tick(b)
	dev.press(t, "keyboard/k")
	dev.tick(b)
	assert.Empty(t, res.completed)
	assert.True(t, b.Rebinding())

	b.CancelRebind()
	assert.Equal(t, 1, res.cancelled)
	b.CancelRebind()
	assert.Equal(t, 1, res.cancelled)
}

func TestPerformInteractiveRebindErrors(t *testing.T) {
	b, _ := newTestBackend(t)
	a, err := b.NewAction("Shoot", KindButton, []BindingDef{{Path: "keyboard/space"}})
	require.NoError(t, err)

	var res opResult
	assert.Error(t, b.PerformInteractiveRebind(res.op(nil, 0, GroupKeyboard, "")))
	assert.Error(t, b.PerformInteractiveRebind(res.op(a, 0, "joystick", "")))
	assert.ErrorIs(t, b.PerformInteractiveRebind(res.op(a, 0, GroupKeyboard, "keyboard/nope")), ErrInvalidPath)
	assert.False(t, b.Rebinding())

	require.NoError(t, b.PerformInteractiveRebind(res.op(a, 0, GroupKeyboard, "")))
	assert.ErrorIs(t, b.PerformInteractiveRebind(res.op(a, 0, GroupKeyboard, "")), ErrRebindBusy)
}

func installDefaults(t *testing.T) (*Backend, *fakeDevice, *input.Registry, *bindings.Store, string) {
	t.Helper()
	set, err := config.LoadActionSet("")
	require.NoError(t, err)

	b, dev := newTestBackend(t)
	reg := input.NewRegistry(input.WithLogger(zerolog.Nop()))
	store := bindings.NewStore(t.TempDir(), "", "", bindings.WithLogger(zerolog.Nop()))
	cancelPath, err := b.Install(set, reg, store)
	require.NoError(t, err)
	require.NoError(t, store.LoadAndApply(reg))
	return b, dev, reg, store, cancelPath
}

func TestInstall(t *testing.T) {
	b, _, reg, store, cancelPath := installDefaults(t)
	assert.Equal(t, "keyboard/escape", cancelPath)

	h, ok := reg.Lookup("Shoot")
	require.True(t, ok)
	assert.Equal(t, input.ModeListen, reg.Mode(h))
	h, ok = reg.Lookup("Horizontal")
	require.True(t, ok)
	assert.Equal(t, input.ModeValue, reg.Mode(h))

	def, ok := store.Default(bindings.Key{Action: "Horizontal", Index: 1})
	require.True(t, ok)
	assert.Equal(t, "keyboard/a", def)
	_, ok = store.Default(bindings.Key{Action: "Horizontal", Index: 0})
	assert.False(t, ok, "composite headers are not stored")
	_, ok = store.Default(bindings.Key{Action: "Escape", Index: 0})
	assert.False(t, ok, "only rebindable actions are stored")

	assert.Equal(t, "A/D", reg.BindingName("Horizontal", 0))
	a, ok := b.Action("Shoot")
	require.True(t, ok)
	assert.True(t, a.Enabled())
}

func TestInteractiveRebindEndToEnd(t *testing.T) {
	b, dev, reg, store, cancelPath := installDefaults(t)
	rb := input.NewRebinder(reg, b, store)
	var results []input.RebindResult
	rb.OnSuccess(func(r input.RebindResult) { results = append(results, r) })

	dev.tick(b)
	require.NoError(t, rb.RequestRebind("Shoot", 0, input.SchemeKeyboard, cancelPath))
	assert.False(t, reg.Action("Shoot").Enabled())

	dev.press(t, "mouse/left")
	dev.tick(b)
	dev.press(t, "keyboard/k")
	dev.tick(b)

	require.Len(t, results, 1)
	assert.Equal(t, input.RebindResult{Action: "Shoot", Index: 0, Path: "keyboard/k"}, results[0])
	assert.True(t, reg.Action("Shoot").Enabled())
	assert.False(t, reg.Triggered("Shoot"), "the captured press does not shoot")

	saved, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "keyboard/k", saved[bindings.Key{Action: "Shoot", Index: 0}])

	dev.release(t, "keyboard/k")
	dev.release(t, "mouse/left")
	dev.tick(b)
	dev.press(t, "keyboard/k")
	dev.tick(b)
	assert.True(t, reg.Triggered("Shoot"))

	// A fresh game picks up the saved binding.
	set, err := config.LoadActionSet("")
	require.NoError(t, err)
	b2, _ := newTestBackend(t)
	reg2 := input.NewRegistry(input.WithLogger(zerolog.Nop()))
	store2 := bindings.NewStore(filepath.Dir(store.Path()), "", "", bindings.WithLogger(zerolog.Nop()))
	_, err = b2.Install(set, reg2, store2)
	require.NoError(t, err)
	require.NoError(t, store2.LoadAndApply(reg2))
	path, ok := reg2.BindingPath("Shoot", 0)
	require.True(t, ok)
	assert.Equal(t, "keyboard/k", path)
}

func TestInteractiveRebindCancelled(t *testing.T) {
	b, dev, reg, store, cancelPath := installDefaults(t)
	rb := input.NewRebinder(reg, b, store)
	var failed []input.RebindResult
	rb.OnFailure(func(r input.RebindResult) { failed = append(failed, r) })

	require.NoError(t, rb.RequestRebind("Horizontal", 7, input.SchemeGamepad, cancelPath))
	dev.tick(b)
	dev.press(t, "keyboard/escape")
	dev.tick(b)

	require.Len(t, failed, 1)
	assert.Equal(t, "Horizontal", failed[0].Action)
	assert.False(t, rb.Rebinding())
	path, _ := reg.BindingPath("Horizontal", 7)
	assert.Equal(t, "gamepad/dpad/left", path)
	assert.True(t, reg.Action("Horizontal").Enabled())
}
