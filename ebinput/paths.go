package ebinput

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// ErrInvalidPath is returned for binding paths that name no control.
var ErrInvalidPath = errors.New("ebinput: invalid binding path")

const (
	GroupKeyboard = "keyboard"
	GroupGamepad  = "gamepad"

	CompositeAxis = "composite/axis"
)

type ControlKind int

const (
	ControlNone ControlKind = iota
	ControlKey
	ControlMouseButton
	ControlMousePosition
	ControlMouseScroll
	ControlGamepadButton
	ControlGamepadAxis
	ControlComposite
)

// Dim selects the components a two dimensional control reports.
type Dim int

const (
	DimXY Dim = iota
	DimX
	DimY
)

// Control is a parsed binding path. It is comparable and can be used as a
// map key.
type Control struct {
	Kind   ControlKind
	Key    ebiten.Key
	Mouse  ebiten.MouseButton
	Button ebiten.StandardGamepadButton
	Axis   ebiten.StandardGamepadAxis
	Dim    Dim
}

// IsVector reports whether the control only makes sense as a 2D value.
func (c Control) IsVector() bool {
	return (c.Kind == ControlMousePosition || c.Kind == ControlMouseScroll) && c.Dim == DimXY
}

// Group returns the binding group the control belongs to. Mouse controls are
// part of the keyboard group.
func (c Control) Group() string {
	switch c.Kind {
	case ControlKey, ControlMouseButton, ControlMousePosition, ControlMouseScroll:
		return GroupKeyboard
	case ControlGamepadButton, ControlGamepadAxis:
		return GroupGamepad
	}
	return ""
}

var (
	keyByName = map[string]ebiten.Key{}
	keyToName = map[ebiten.Key]string{}

	keyAliases = map[string]ebiten.Key{
		"left":  ebiten.KeyArrowLeft,
		"right": ebiten.KeyArrowRight,
		"up":    ebiten.KeyArrowUp,
		"down":  ebiten.KeyArrowDown,
	}

	keyDisplay = map[ebiten.Key]string{
		ebiten.KeyArrowLeft:  "Left Arrow",
		ebiten.KeyArrowRight: "Right Arrow",
		ebiten.KeyArrowUp:    "Up Arrow",
		ebiten.KeyArrowDown:  "Down Arrow",
	}

	mouseNames = map[string]ebiten.MouseButton{
		"left":    ebiten.MouseButtonLeft,
		"right":   ebiten.MouseButtonRight,
		"middle":  ebiten.MouseButtonMiddle,
		"back":    ebiten.MouseButton3,
		"forward": ebiten.MouseButton4,
	}
	mouseToName = map[ebiten.MouseButton]string{}

	padNames = map[string]ebiten.StandardGamepadButton{
		"south":           ebiten.StandardGamepadButtonRightBottom,
		"east":            ebiten.StandardGamepadButtonRightRight,
		"west":            ebiten.StandardGamepadButtonRightLeft,
		"north":           ebiten.StandardGamepadButtonRightTop,
		"leftshoulder":    ebiten.StandardGamepadButtonFrontTopLeft,
		"rightshoulder":   ebiten.StandardGamepadButtonFrontTopRight,
		"lefttrigger":     ebiten.StandardGamepadButtonFrontBottomLeft,
		"righttrigger":    ebiten.StandardGamepadButtonFrontBottomRight,
		"select":          ebiten.StandardGamepadButtonCenterLeft,
		"start":           ebiten.StandardGamepadButtonCenterRight,
		"home":            ebiten.StandardGamepadButtonCenterCenter,
		"leftstickpress":  ebiten.StandardGamepadButtonLeftStick,
		"rightstickpress": ebiten.StandardGamepadButtonRightStick,
		"dpad/up":         ebiten.StandardGamepadButtonLeftTop,
		"dpad/down":       ebiten.StandardGamepadButtonLeftBottom,
		"dpad/left":       ebiten.StandardGamepadButtonLeftLeft,
		"dpad/right":      ebiten.StandardGamepadButtonLeftRight,
	}
	padToName = map[ebiten.StandardGamepadButton]string{}

	padDisplay = map[ebiten.StandardGamepadButton]string{
		ebiten.StandardGamepadButtonRightBottom:      "A",
		ebiten.StandardGamepadButtonRightRight:       "B",
		ebiten.StandardGamepadButtonRightLeft:        "X",
		ebiten.StandardGamepadButtonRightTop:         "Y",
		ebiten.StandardGamepadButtonFrontTopLeft:     "LB",
		ebiten.StandardGamepadButtonFrontTopRight:    "RB",
		ebiten.StandardGamepadButtonFrontBottomLeft:  "LT",
		ebiten.StandardGamepadButtonFrontBottomRight: "RT",
		ebiten.StandardGamepadButtonCenterLeft:       "Select",
		ebiten.StandardGamepadButtonCenterRight:      "Start",
		ebiten.StandardGamepadButtonCenterCenter:     "Home",
		ebiten.StandardGamepadButtonLeftStick:        "LS",
		ebiten.StandardGamepadButtonRightStick:       "RS",
		ebiten.StandardGamepadButtonLeftTop:          "D-Pad Up",
		ebiten.StandardGamepadButtonLeftBottom:       "D-Pad Down",
		ebiten.StandardGamepadButtonLeftLeft:         "D-Pad Left",
		ebiten.StandardGamepadButtonLeftRight:        "D-Pad Right",
	}

	axisNames = map[string]ebiten.StandardGamepadAxis{
		"leftstick/x":  ebiten.StandardGamepadAxisLeftStickHorizontal,
		"leftstick/y":  ebiten.StandardGamepadAxisLeftStickVertical,
		"rightstick/x": ebiten.StandardGamepadAxisRightStickHorizontal,
		"rightstick/y": ebiten.StandardGamepadAxisRightStickVertical,
	}
	axisToName = map[ebiten.StandardGamepadAxis]string{}

	axisDisplay = map[ebiten.StandardGamepadAxis]string{
		ebiten.StandardGamepadAxisLeftStickHorizontal:  "Left Stick X",
		ebiten.StandardGamepadAxisLeftStickVertical:    "Left Stick Y",
		ebiten.StandardGamepadAxisRightStickHorizontal: "Right Stick X",
		ebiten.StandardGamepadAxisRightStickVertical:   "Right Stick Y",
	}
)

func init() {
	for k := ebiten.Key(0); k <= ebiten.KeyMax; k++ {
		name := strings.ToLower(k.String())
		keyByName[name] = k
		keyToName[k] = name
	}
	for name, k := range keyAliases {
		keyByName[name] = k
		keyToName[k] = name
	}
	for name, b := range mouseNames {
		mouseToName[b] = name
	}
	for name, b := range padNames {
		padToName[b] = name
	}
	for name, a := range axisNames {
		axisToName[a] = name
	}
}

// ParsePath parses a binding path such as "keyboard/space", "mouse/left",
// "mouse/scroll/y", "gamepad/south", "gamepad/leftstick/x" or
// "composite/axis". Paths are case insensitive.
func ParsePath(path string) (Control, error) {
	p := strings.ToLower(strings.TrimSpace(path))
	device, rest, ok := strings.Cut(p, "/")
	if !ok || rest == "" {
		return Control{}, fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}

	switch device {
	case "keyboard":
		if k, ok := keyByName[rest]; ok {
			return Control{Kind: ControlKey, Key: k}, nil
		}
	case "mouse":
		switch rest {
		case "position":
			return Control{Kind: ControlMousePosition}, nil
		case "position/x":
			return Control{Kind: ControlMousePosition, Dim: DimX}, nil
		case "position/y":
			return Control{Kind: ControlMousePosition, Dim: DimY}, nil
		case "scroll":
			return Control{Kind: ControlMouseScroll}, nil
		case "scroll/x":
			return Control{Kind: ControlMouseScroll, Dim: DimX}, nil
		case "scroll/y":
			return Control{Kind: ControlMouseScroll, Dim: DimY}, nil
		}
		if b, ok := mouseNames[rest]; ok {
			return Control{Kind: ControlMouseButton, Mouse: b}, nil
		}
	case "gamepad":
		if b, ok := padNames[rest]; ok {
			return Control{Kind: ControlGamepadButton, Button: b}, nil
		}
		if a, ok := axisNames[rest]; ok {
			return Control{Kind: ControlGamepadAxis, Axis: a}, nil
		}
	case "composite":
		if rest == "axis" {
			return Control{Kind: ControlComposite}, nil
		}
	}
	return Control{}, fmt.Errorf("%w: %q", ErrInvalidPath, path)
}

// Path formats the control back into its canonical binding path.
func (c Control) Path() string {
	switch c.Kind {
	case ControlKey:
		return "keyboard/" + keyToName[c.Key]
	case ControlMouseButton:
		return "mouse/" + mouseToName[c.Mouse]
	case ControlMousePosition:
		return "mouse/position" + dimSuffix(c.Dim)
	case ControlMouseScroll:
		return "mouse/scroll" + dimSuffix(c.Dim)
	case ControlGamepadButton:
		return "gamepad/" + padToName[c.Button]
	case ControlGamepadAxis:
		return "gamepad/" + axisToName[c.Axis]
	case ControlComposite:
		return CompositeAxis
	}
	return ""
}

// DisplayName is the label shown to players.
func (c Control) DisplayName() string {
	switch c.Kind {
	case ControlKey:
		if name, ok := keyDisplay[c.Key]; ok {
			return name
		}
		return c.Key.String()
	case ControlMouseButton:
		name := mouseToName[c.Mouse]
		return strings.ToUpper(name[:1]) + name[1:] + " Click"
	case ControlMousePosition:
		return "Mouse" + strings.ToUpper(dimSuffix(c.Dim))
	case ControlMouseScroll:
		return "Scroll" + strings.ToUpper(dimSuffix(c.Dim))
	case ControlGamepadButton:
		return padDisplay[c.Button]
	case ControlGamepadAxis:
		return axisDisplay[c.Axis]
	}
	return ""
}

func dimSuffix(d Dim) string {
	switch d {
	case DimX:
		return "/x"
	case DimY:
		return "/y"
	}
	return ""
}

// GroupOf returns the binding group of a path, or "" when it does not parse.
func GroupOf(path string) string {
	c, err := ParsePath(path)
	if err != nil {
		return ""
	}
	return c.Group()
}

// KnownPaths lists every bindable path of group, sorted. An empty group lists
// all of them.
func KnownPaths(group string) []string {
	var paths []string
	add := func(c Control) {
		if group == "" || c.Group() == group {
			paths = append(paths, c.Path())
		}
	}
	for k := range keyToName {
		add(Control{Kind: ControlKey, Key: k})
	}
	for b := range mouseToName {
		add(Control{Kind: ControlMouseButton, Mouse: b})
	}
	for _, d := range []Dim{DimXY, DimX, DimY} {
		add(Control{Kind: ControlMousePosition, Dim: d})
		add(Control{Kind: ControlMouseScroll, Dim: d})
	}
	for b := range padToName {
		add(Control{Kind: ControlGamepadButton, Button: b})
	}
	for a := range axisToName {
		add(Control{Kind: ControlGamepadAxis, Axis: a})
	}
	sort.Strings(paths)
	return paths
}
