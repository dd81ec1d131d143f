package physics

import (
	"math"
	"time"

	"github.com/jakecoffman/cp"

	"github.com/lixenwraith/polarchain/parameter"
	"github.com/lixenwraith/polarchain/vmath"
)

const (
	// DefaultMouseStiffness is the fraction of pointer error corrected per frame
	DefaultMouseStiffness = 0.2
	mouseGrabSlop         = 2.0
)

// MouseConstraint drags whichever dynamic body the pointer grabs with a pivot joint
// The pointer is a kinematic body outside the space, moved directly by Move
type MouseConstraint struct {
	Stiffness float64

	world   *World
	pointer *cp.Body
	joint   *cp.Constraint
	grabbed *Body
}

func newMouseConstraint(w *World) *MouseConstraint {
	return &MouseConstraint{
		Stiffness: DefaultMouseStiffness,
		world:     w,
		pointer:   cp.NewKinematicBody(),
	}
}

// errorBias converts per-frame stiffness into the fraction of error left after one ms
func (m *MouseConstraint) errorBias() float64 {
	s := math.Min(math.Max(m.Stiffness, 0), 1)
	frame := float64(parameter.FrameUpdateInterval) / float64(time.Millisecond)
	return math.Pow(1-s, 1/frame)
}

// Press grabs the body under p, returning false if none
func (m *MouseConstraint) Press(p vmath.Point) bool {
	m.Release()
	b, ok := m.world.BodyAt(p, mouseGrabSlop)
	if !ok {
		return false
	}
	at := toVector(p)
	m.pointer.SetPosition(at)
	m.joint = cp.NewPivotJoint2(m.pointer, b.body, cp.Vector{}, b.body.WorldToLocal(at))
	m.joint.SetErrorBias(m.errorBias())
	m.world.space.AddConstraint(m.joint)
	m.grabbed = b
	return true
}

// Move updates the pointer position of an active grab
func (m *MouseConstraint) Move(p vmath.Point) {
	m.pointer.SetPosition(toVector(p))
}

// Release drops the grabbed body
func (m *MouseConstraint) Release() {
	if m.joint == nil {
		return
	}
	m.world.space.RemoveConstraint(m.joint)
	m.joint = nil
	m.grabbed = nil
}

// Grabbed returns the body currently held, if any
func (m *MouseConstraint) Grabbed() (*Body, bool) {
	if m.grabbed == nil || !m.grabbed.inWorld {
		return nil, false
	}
	return m.grabbed, true
}
