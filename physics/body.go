package physics

import (
	"github.com/jakecoffman/cp"

	"github.com/lixenwraith/polarchain/vmath"
)

// BodyID is a world-unique handle allocated when a body is created
// IDs are never reused within one world
type BodyID uint64

// NoBody is the zero handle, never allocated
const NoBody BodyID = 0

// Tag is an opaque caller-defined label carried by a body (render class, role)
type Tag uint8

// Filter is group/category/mask collision filtering
// Bodies sharing a non-zero group never collide; otherwise each mask must accept the other's category
type Filter struct {
	Group    uint
	Category uint
	Mask     uint
}

func (f Filter) shapeFilter() cp.ShapeFilter {
	return cp.ShapeFilter{Group: f.Group, Categories: f.Category, Mask: f.Mask}
}

// bodyFilter adds the reserved bits so every body meets the walls and the pointer
func (f Filter) bodyFilter() cp.ShapeFilter {
	sf := f.shapeFilter()
	sf.Categories |= categoryBody
	sf.Mask |= categoryBounds
	return sf
}

// CanCollide reports whether two filters allow contact
func CanCollide(a, b Filter) bool {
	return !a.shapeFilter().Reject(b.shapeFilter())
}

// BodyOptions configures a body at creation
type BodyOptions struct {
	Position vmath.Point
	Radius   float64
	Mass     float64 // ignored for static bodies, defaults to 1
	Static   bool
	Filter   Filter
	Tag      Tag
}

// Body is a circular rigid body backed by a chipmunk body and circle shape
type Body struct {
	ID     BodyID
	Static bool
	Filter Filter
	Tag    Tag

	world   *World
	body    *cp.Body
	shape   *cp.Shape
	radius  float64
	inWorld bool
}

// newShape attaches a fresh circle of the current radius to the body
func (b *Body) newShape() *cp.Shape {
	s := cp.NewCircle(b.body, b.radius, cp.Vector{})
	s.SetFilter(b.Filter.bodyFilter())
	s.SetElasticity(bodyElasticity)
	s.UserData = b
	return s
}

// Radius returns the collision radius
func (b *Body) Radius() float64 {
	return b.radius
}

// setRadius swaps the circle shape; chipmunk circles are fixed size once built
func (b *Body) setRadius(r float64) {
	if r == b.radius {
		return
	}
	space := b.world.space
	if b.inWorld {
		space.RemoveShape(b.shape)
	}
	b.radius = r
	b.shape = b.newShape()
	if b.inWorld {
		space.AddShape(b.shape)
	}
}

// Mass returns the body mass, zero for static bodies
func (b *Body) Mass() float64 {
	if b.Static {
		return 0
	}
	return b.body.Mass()
}

// InWorld reports whether the body is currently inserted in its world
func (b *Body) InWorld() bool {
	return b.inWorld
}

// Position returns the body center in world coordinates
func (b *Body) Position() vmath.Point {
	return fromVector(b.body.Position())
}

// SetPosition teleports the body, preserving its velocity
// Static shapes are re-inserted so the spatial index follows the move
func (b *Body) SetPosition(p vmath.Point) {
	b.body.SetPosition(toVector(p))
	if b.Static && b.inWorld {
		space := b.world.space
		space.RemoveShape(b.shape)
		space.AddShape(b.shape)
	}
}

// Velocity returns the linear velocity in world units per ms
func (b *Body) Velocity() vmath.Point {
	return fromVector(b.body.Velocity())
}

// SetVelocity overrides the linear velocity; ignored for static bodies
func (b *Body) SetVelocity(v vmath.Point) {
	if b.Static {
		return
	}
	b.body.SetVelocityVector(toVector(v))
}

// ApplyForce accumulates a force at the body center for the next step
func (b *Body) ApplyForce(f vmath.Point) {
	if b.Static {
		return
	}
	b.body.ApplyForceAtWorldPoint(toVector(f), b.body.Position())
}

func toVector(p vmath.Point) cp.Vector {
	return cp.Vector{X: p.X, Y: p.Y}
}

func fromVector(v cp.Vector) vmath.Point {
	return vmath.Pt(v.X, v.Y)
}
