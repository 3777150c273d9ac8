package ebinput

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePathRoundTrip(t *testing.T) {
	paths := []string{
		"keyboard/space",
		"keyboard/a",
		"keyboard/left",
		"keyboard/escape",
		"mouse/left",
		"mouse/forward",
		"mouse/position",
		"mouse/scroll/y",
		"gamepad/south",
		"gamepad/dpad/up",
		"gamepad/start",
		"gamepad/leftstick/x",
		"composite/axis",
	}
	for _, p := range paths {
		c, err := ParsePath(p)
		require.NoError(t, err, p)
		assert.Equal(t, p, c.Path())
	}
}

func TestParsePathNormalises(t *testing.T) {
	c, err := ParsePath(" Keyboard/ArrowLeft ")
	require.NoError(t, err)
	assert.Equal(t, ebiten.KeyArrowLeft, c.Key)
	assert.Equal(t, "keyboard/left", c.Path())

	c, err = ParsePath("KEYBOARD/SPACE")
	require.NoError(t, err)
	assert.Equal(t, Control{Kind: ControlKey, Key: ebiten.KeySpace}, c)
}

func TestParsePathInvalid(t *testing.T) {
	for _, p := range []string{"", "keyboard", "keyboard/", "keyboard/nokey", "mouse/thumb", "gamepad/z", "joystick/1", "composite/2d"} {
		_, err := ParsePath(p)
		assert.ErrorIs(t, err, ErrInvalidPath, p)
	}
}

func TestGroupAndDisplay(t *testing.T) {
	cases := []struct {
		path    string
		group   string
		display string
	}{
		{"keyboard/space", GroupKeyboard, "Space"},
		{"keyboard/up", GroupKeyboard, "Up Arrow"},
		{"mouse/right", GroupKeyboard, "Right Click"},
		{"mouse/scroll/y", GroupKeyboard, "Scroll/Y"},
		{"gamepad/south", GroupGamepad, "A"},
		{"gamepad/dpad/left", GroupGamepad, "D-Pad Left"},
		{"gamepad/leftstick/y", GroupGamepad, "Left Stick Y"},
		{"composite/axis", "", ""},
	}
	for _, c := range cases {
		ctl, err := ParsePath(c.path)
		require.NoError(t, err)
		assert.Equal(t, c.group, ctl.Group(), c.path)
		assert.Equal(t, c.group, GroupOf(c.path), c.path)
		assert.Equal(t, c.display, ctl.DisplayName(), c.path)
	}
	assert.Equal(t, "", GroupOf("nope"))
}

func TestKnownPaths(t *testing.T) {
	all := KnownPaths("")
	assert.Contains(t, all, "keyboard/space")
	assert.Contains(t, all, "gamepad/south")
	assert.IsIncreasing(t, all)

	pad := KnownPaths(GroupGamepad)
	assert.Contains(t, pad, "gamepad/leftstick/x")
	assert.NotContains(t, pad, "keyboard/space")
	for _, p := range pad {
		_, err := ParsePath(p)
		assert.NoError(t, err, p)
	}
}
