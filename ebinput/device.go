package ebinput

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/milk9111/rebind/input"
)

// DefaultDeadzone is the stick magnitude below which gamepad axes read 0.
const DefaultDeadzone = 0.2

// Device reads physical controls. The ebiten implementation is used at
// runtime; tests supply their own.
type Device interface {
	// Update is called once per tick before any control is read.
	Update()
	// Value reads a scalar control. Buttons report 0 or 1.
	Value(c Control) float64
	// Vector reads a two dimensional control.
	Vector(c Control) input.Vector2
	// AppendJustPressed appends the digital controls of group that went down
	// this tick. An empty group matches every group.
	AppendJustPressed(group string, dst []Control) []Control
}

type ebitenDevice struct {
	deadzone float64
	gamepads []ebiten.GamepadID
	keys     []ebiten.Key
}

// NewEbitenDevice returns a device backed by ebiten's input state.
func NewEbitenDevice(deadzone float64) Device {
	return &ebitenDevice{deadzone: deadzone}
}

func (d *ebitenDevice) Update() {
	d.gamepads = ebiten.AppendGamepadIDs(d.gamepads[:0])
}

func (d *ebitenDevice) Value(c Control) float64 {
	switch c.Kind {
	case ControlKey:
		return boolValue(ebiten.IsKeyPressed(c.Key))
	case ControlMouseButton:
		return boolValue(ebiten.IsMouseButtonPressed(c.Mouse))
	case ControlMousePosition, ControlMouseScroll:
		v := d.Vector(c)
		if c.Dim == DimY {
			return v.Y
		}
		return v.X
	case ControlGamepadButton:
		for _, id := range d.gamepads {
			if ebiten.IsStandardGamepadLayoutAvailable(id) && ebiten.IsStandardGamepadButtonPressed(id, c.Button) {
				return 1
			}
		}
	case ControlGamepadAxis:
		for _, id := range d.gamepads {
			if !ebiten.IsStandardGamepadLayoutAvailable(id) {
				continue
			}
			v := ebiten.StandardGamepadAxisValue(id, c.Axis)
			if math.Abs(v) >= d.deadzone {
				return v
			}
		}
	}
	return 0
}

func (d *ebitenDevice) Vector(c Control) input.Vector2 {
	switch c.Kind {
	case ControlMousePosition:
		x, y := ebiten.CursorPosition()
		return input.Vector2{X: float64(x), Y: float64(y)}
	case ControlMouseScroll:
		x, y := ebiten.Wheel()
		return input.Vector2{X: x, Y: y}
	}
	return input.Vector2{X: d.Value(c)}
}

func (d *ebitenDevice) AppendJustPressed(group string, dst []Control) []Control {
	if group == "" || group == GroupKeyboard {
		d.keys = inpututil.AppendJustPressedKeys(d.keys[:0])
		for _, k := range d.keys {
			dst = append(dst, Control{Kind: ControlKey, Key: k})
		}
		for b := ebiten.MouseButton(0); b <= ebiten.MouseButtonMax; b++ {
			if inpututil.IsMouseButtonJustPressed(b) {
				dst = append(dst, Control{Kind: ControlMouseButton, Mouse: b})
			}
		}
	}
	if group == "" || group == GroupGamepad {
		for _, id := range d.gamepads {
			if !ebiten.IsStandardGamepadLayoutAvailable(id) {
				continue
			}
			for b := ebiten.StandardGamepadButton(0); b <= ebiten.StandardGamepadButtonMax; b++ {
				if inpututil.IsStandardGamepadButtonJustPressed(id, b) {
					dst = append(dst, Control{Kind: ControlGamepadButton, Button: b})
				}
			}
		}
	}
	return dst
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
