package physics

import (
	"github.com/jakecoffman/cp"

	"github.com/lixenwraith/polarchain/vmath"
)

// ConstraintID is a world-unique constraint handle
type ConstraintID uint64

// ConstraintOptions configures an elastic link between two endpoints
// A nil body endpoint is a fixed world point given by PointA/PointB
// Otherwise the point is an offset from the body position
// Stiffness and Damping are unit-free, 1 being the stiffest stable spring
type ConstraintOptions struct {
	BodyA     *Body
	PointA    vmath.Point
	BodyB     *Body
	PointB    vmath.Point
	Length    float64
	Stiffness float64
	Damping   float64
}

// Constraint is a damped spring between two endpoints
type Constraint struct {
	ID        ConstraintID
	BodyA     *Body
	PointA    vmath.Point
	BodyB     *Body
	PointB    vmath.Point
	Length    float64
	Stiffness float64
	Damping   float64

	joint   *cp.Constraint
	inWorld bool
}

// InWorld reports whether the constraint is currently inserted in its world
func (c *Constraint) InWorld() bool {
	return c.inWorld
}

// WorldA returns endpoint A in world coordinates
func (c *Constraint) WorldA() vmath.Point {
	if c.BodyA == nil {
		return c.PointA
	}
	return vmath.Add(c.BodyA.Position(), c.PointA)
}

// WorldB returns endpoint B in world coordinates
func (c *Constraint) WorldB() vmath.Point {
	if c.BodyB == nil {
		return c.PointB
	}
	return vmath.Add(c.BodyB.Position(), c.PointB)
}

// endpoint resolves a constraint end to a chipmunk body and local anchor
// Fixed points hang off the space's static body, which sits at the origin
func (w *World) endpoint(b *Body, p vmath.Point) (*cp.Body, cp.Vector) {
	if b == nil {
		return w.space.StaticBody, toVector(p)
	}
	return b.body, toVector(p)
}

// NewConstraint creates a detached constraint with a fresh ID
func (w *World) NewConstraint(opts ConstraintOptions) *Constraint {
	w.nextConstraintID++
	c := &Constraint{
		ID:        w.nextConstraintID,
		BodyA:     opts.BodyA,
		PointA:    opts.PointA,
		BodyB:     opts.BodyB,
		PointB:    opts.PointB,
		Length:    opts.Length,
		Stiffness: opts.Stiffness,
		Damping:   opts.Damping,
	}
	a, anchorA := w.endpoint(opts.BodyA, opts.PointA)
	b, anchorB := w.endpoint(opts.BodyB, opts.PointB)
	c.joint = cp.NewDampedSpring(a, b, anchorA, anchorB, opts.Length,
		opts.Stiffness*springStiffness, opts.Damping*springDamping)
	return c
}

// AddConstraint inserts a constraint; already inserted constraints are ignored
func (w *World) AddConstraint(c *Constraint) {
	if c == nil || c.inWorld {
		return
	}
	w.space.AddConstraint(c.joint)
	c.inWorld = true
	w.constraints = append(w.constraints, c)
}

// RemoveConstraint detaches c, returning false if it was not inserted
func (w *World) RemoveConstraint(c *Constraint) bool {
	if c == nil || !c.inWorld {
		return false
	}
	w.space.RemoveConstraint(c.joint)
	for i, x := range w.constraints {
		if x == c {
			w.constraints = append(w.constraints[:i], w.constraints[i+1:]...)
			break
		}
	}
	c.inWorld = false
	return true
}

// Constraints returns inserted constraints; callers must not modify the slice
func (w *World) Constraints() []*Constraint {
	return w.constraints
}
