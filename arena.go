package main

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
)

const (
	collisionTypeWall cp.CollisionType = iota + 1
	collisionTypeBullet
)

const (
	bulletRadius     = 4
	bulletSpeed      = 9
	bulletTTL        = 180 // ticks
	bulletMaxBounces = 3
	wallThickness    = 4
)

type bullet struct {
	body  *cp.Body
	shape *cp.Shape
	ttl   int
	hits  int
}

// Arena owns the Chipmunk space: walls around the screen and live bullets.
type Arena struct {
	space   *cp.Space
	width   float64
	height  float64
	bullets []*bullet
}

func NewArena(width, height float64) *Arena {
	space := cp.NewSpace()
	space.Iterations = 10
	space.SetGravity(cp.Vector{})

	a := &Arena{space: space, width: width, height: height}
	a.buildWalls()
	a.setupHandlers()
	return a
}

func (a *Arena) buildWalls() {
	corners := []cp.Vector{
		{X: 0, Y: 0},
		{X: a.width, Y: 0},
		{X: a.width, Y: a.height},
		{X: 0, Y: a.height},
	}
	for i := range corners {
		shape := cp.NewSegment(a.space.StaticBody, corners[i], corners[(i+1)%len(corners)], wallThickness)
		shape.SetElasticity(1)
		shape.SetFriction(0)
		shape.SetCollisionType(collisionTypeWall)
		a.space.AddShape(shape)
	}
}

func (a *Arena) setupHandlers() {
	handler := a.space.NewCollisionHandler(collisionTypeBullet, collisionTypeWall)
	handler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		shape, _ := arb.Shapes()
		if b, ok := shape.UserData.(*bullet); ok {
			b.hits++
		}
		return true
	}
}

// Fire spawns a bullet at from travelling along dir. A zero dir fires right.
func (a *Arena) Fire(from, dir cp.Vector) {
	if dir.LengthSq() == 0 {
		dir = cp.Vector{X: 1}
	}
	dir = dir.Normalize()

	body := cp.NewBody(1, cp.MomentForCircle(1, 0, bulletRadius, cp.Vector{}))
	body.SetPosition(from.Add(dir.Mult(bulletRadius * 3)))
	body.SetVelocityVector(dir.Mult(bulletSpeed))

	shape := cp.NewCircle(body, bulletRadius, cp.Vector{})
	shape.SetElasticity(1)
	shape.SetFriction(0)
	shape.SetCollisionType(collisionTypeBullet)

	b := &bullet{body: body, shape: shape, ttl: bulletTTL}
	shape.UserData = b

	a.space.AddBody(body)
	a.space.AddShape(shape)
	a.bullets = append(a.bullets, b)
}

// Step advances the simulation one tick and drops spent bullets.
func (a *Arena) Step() {
	a.space.Step(1.0)

	live := a.bullets[:0]
	for _, b := range a.bullets {
		b.ttl--
		if b.ttl <= 0 || b.hits > bulletMaxBounces {
			a.space.RemoveShape(b.shape)
			a.space.RemoveBody(b.body)
			continue
		}
		live = append(live, b)
	}
	clear(a.bullets[len(live):])
	a.bullets = live
}

func (a *Arena) Bullets() int {
	return len(a.bullets)
}

func (a *Arena) Draw(screen *ebiten.Image) {
	for _, b := range a.bullets {
		p := b.body.Position()
		vector.FillCircle(screen, float32(p.X), float32(p.Y), bulletRadius, color.RGBA{0xff, 0xd0, 0x40, 0xff}, true)
	}
	vector.StrokeRect(screen, 0, 0, float32(a.width), float32(a.height), wallThickness, color.RGBA{0x60, 0x60, 0x70, 0xff}, false)
}
