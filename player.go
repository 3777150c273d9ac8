package main

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"golang.org/x/image/colornames"

	"github.com/milk9111/rebind/input"
)

const (
	playerSize  = 24
	playerSpeed = 4
)

// Player moves with the Horizontal/Vertical actions and aims at the cursor.
type Player struct {
	X, Y float64
	// Facing is the last non-zero movement direction.
	Facing cp.Vector
	Aim    cp.Vector

	reg        *input.Registry
	horizontal input.Handle
	vertical   input.Handle
	cursor     input.Handle
	shoot      input.Handle
}

func NewPlayer(x, y float64, reg *input.Registry) *Player {
	p := &Player{X: x, Y: y, Facing: cp.Vector{X: 1}, reg: reg}
	p.horizontal, _ = reg.Lookup("Horizontal")
	p.vertical, _ = reg.Lookup("Vertical")
	p.cursor, _ = reg.Lookup("CursorPosition")
	p.shoot, _ = reg.Lookup("Shoot")
	return p
}

func (p *Player) Update(bounds cp.Vector) {
	dx := p.reg.Float(p.horizontal)
	dy := -p.reg.Float(p.vertical)
	if l := math.Hypot(dx, dy); l > 1 {
		dx, dy = dx/l, dy/l
	}
	if dx != 0 || dy != 0 {
		p.Facing = cp.Vector{X: dx, Y: dy}.Normalize()
	}

	half := playerSize / 2.0
	p.X = clamp(p.X+dx*playerSpeed, half, bounds.X-half)
	p.Y = clamp(p.Y+dy*playerSpeed, half, bounds.Y-half)

	cur := p.reg.Vector2(p.cursor)
	p.Aim = cp.Vector{X: cur.X - p.X, Y: cur.Y - p.Y}
}

// AimDirection points at the cursor, or along Facing when the cursor sits on
// the player.
func (p *Player) AimDirection() cp.Vector {
	if p.Aim.Length() < playerSize {
		return p.Facing
	}
	return p.Aim
}

func (p *Player) Position() cp.Vector {
	return cp.Vector{X: p.X, Y: p.Y}
}

func (p *Player) Draw(screen *ebiten.Image) {
	var clr color.Color = colornames.Cornflowerblue
	if p.reg.Pressed(p.shoot) {
		clr = colornames.Lightskyblue
	}
	x := float32(p.X - playerSize/2.0)
	y := float32(p.Y - playerSize/2.0)
	vector.FillRect(screen, x, y, playerSize, playerSize, clr, false)

	dir := p.AimDirection().Normalize()
	vector.StrokeLine(screen, float32(p.X), float32(p.Y), float32(p.X+dir.X*playerSize), float32(p.Y+dir.Y*playerSize), 2, colornames.Lightgrey, true)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
