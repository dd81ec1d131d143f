package physics

import (
	"math"
	"time"

	"github.com/jakecoffman/cp"

	"github.com/lixenwraith/polarchain/parameter"
	"github.com/lixenwraith/polarchain/vmath"
)

// Time is measured in milliseconds inside the space so gravity scales stay in units per ms²
const (
	// maxSubstep bounds a single space step; explicit springs go unstable on long steps
	maxSubstep = 8.0

	// springStiffness converts unit stiffness into a spring constant (mass per ms²)
	springStiffness = 0.005
	// springDamping converts unit damping into a damping coefficient (mass per ms)
	springDamping = 0.05

	bodyElasticity = 0.2
	wallThickness  = 10.0
	minRadius      = 0.1

	// Reserved category bits, never set by callers
	categoryBody   uint = 1 << 30
	categoryBounds uint = 1 << 31
)

// ForceField is the ambient acceleration applied to every dynamic body each step
// Effective acceleration is (X, Y) * Scale in world units per ms²
type ForceField struct {
	X, Y  float64
	Scale float64
}

// Attractor computes the force a body exerts on another body during a step
// Returning ok=false applies nothing
type Attractor interface {
	Attract(a, b *Body) (force vmath.Point, ok bool)
}

// AttractorFunc adapts a function to Attractor
type AttractorFunc func(a, b *Body) (vmath.Point, bool)

// Attract calls f(a, b)
func (f AttractorFunc) Attract(a, b *Body) (vmath.Point, bool) {
	return f(a, b)
}

// Config holds world integration parameters
type Config struct {
	Field                ForceField
	FrictionAir          float64 // fraction of velocity lost per frame
	ConstraintIterations int
	// Bounds walls in the rectangle; zero-size disables
	BoundsMin, BoundsMax vmath.Point
}

// DefaultConfig returns the integration defaults
func DefaultConfig() Config {
	return Config{
		Field:                ForceField{X: 0, Y: 1, Scale: parameter.GravityScale},
		FrictionAir:          parameter.FrictionAir,
		ConstraintIterations: parameter.ConstraintIterations,
	}
}

// World wraps a chipmunk space with stable body ids, per-body attractors and an ambient field
// Not safe for concurrent use: one goroutine owns all mutation and stepping
type World struct {
	cfg   Config
	space *cp.Space

	nextBodyID       BodyID
	nextConstraintID ConstraintID

	bodies      []*Body
	index       map[BodyID]*Body
	constraints []*Constraint
	attractors  map[BodyID]Attractor

	mouse *MouseConstraint
	steps uint64
}

// NewWorld creates an empty world
func NewWorld(cfg Config) *World {
	if cfg.ConstraintIterations <= 0 {
		cfg.ConstraintIterations = 1
	}
	space := cp.NewSpace()
	space.Iterations = uint(cfg.ConstraintIterations)

	// FrictionAir is a per-frame loss; the space wants the fraction kept per ms
	frame := float64(parameter.FrameUpdateInterval) / float64(time.Millisecond)
	space.SetDamping(math.Pow(1-math.Min(math.Max(cfg.FrictionAir, 0), 1), 1/frame))

	w := &World{
		cfg:        cfg,
		space:      space,
		index:      make(map[BodyID]*Body),
		attractors: make(map[BodyID]Attractor),
	}
	w.applyField()
	w.addBounds()
	w.mouse = newMouseConstraint(w)
	return w
}

// addBounds lines the configured rectangle with static walls whose inner faces sit on the edges
func (w *World) addBounds() {
	lo, hi := w.cfg.BoundsMin, w.cfg.BoundsMax
	if hi.X <= lo.X || hi.Y <= lo.Y {
		return
	}
	r := wallThickness
	x0, y0, x1, y1 := lo.X-r, lo.Y-r, hi.X+r, hi.Y+r
	edges := [4][2]cp.Vector{
		{{X: x0, Y: y0}, {X: x1, Y: y0}},
		{{X: x1, Y: y0}, {X: x1, Y: y1}},
		{{X: x1, Y: y1}, {X: x0, Y: y1}},
		{{X: x0, Y: y1}, {X: x0, Y: y0}},
	}
	for _, e := range edges {
		wall := cp.NewSegment(w.space.StaticBody, e[0], e[1], r)
		wall.SetFilter(cp.ShapeFilter{Categories: categoryBounds, Mask: cp.ALL_CATEGORIES})
		wall.SetElasticity(1)
		w.space.AddShape(wall)
	}
}

// NewBody creates a body with a freshly allocated ID
// The body is detached until passed to Add
func (w *World) NewBody(opts BodyOptions) *Body {
	w.nextBodyID++
	b := &Body{
		ID:     w.nextBodyID,
		Static: opts.Static,
		Filter: opts.Filter,
		Tag:    opts.Tag,
		world:  w,
		radius: opts.Radius,
	}
	if opts.Static {
		b.body = cp.NewStaticBody()
	} else {
		m := opts.Mass
		if m <= 0 {
			m = 1
		}
		r := math.Max(opts.Radius, minRadius)
		b.body = cp.NewBody(m, cp.MomentForCircle(m, 0, r, cp.Vector{}))
	}
	b.body.UserData = b
	b.body.SetPosition(toVector(opts.Position))
	b.shape = b.newShape()
	return b
}

// Add inserts bodies into the simulation; already inserted bodies are ignored
func (w *World) Add(bodies ...*Body) {
	for _, b := range bodies {
		if b == nil || b.inWorld {
			continue
		}
		w.space.AddBody(b.body)
		w.space.AddShape(b.shape)
		b.inWorld = true
		w.bodies = append(w.bodies, b)
		w.index[b.ID] = b
	}
}

// Remove detaches bodies, their attractors and every constraint referencing them
func (w *World) Remove(bodies ...*Body) {
	for _, b := range bodies {
		if b == nil || !b.inWorld {
			continue
		}
		if held, ok := w.mouse.Grabbed(); ok && held == b {
			w.mouse.Release()
		}
		kept := w.constraints[:0]
		for _, c := range w.constraints {
			if c.BodyA == b || c.BodyB == b {
				w.space.RemoveConstraint(c.joint)
				c.inWorld = false
				continue
			}
			kept = append(kept, c)
		}
		w.constraints = kept

		w.space.RemoveShape(b.shape)
		w.space.RemoveBody(b.body)
		b.inWorld = false
		delete(w.index, b.ID)
		delete(w.attractors, b.ID)
		for i, x := range w.bodies {
			if x == b {
				w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
				break
			}
		}
	}
}

// Body looks up an inserted body by ID
func (w *World) Body(id BodyID) (*Body, bool) {
	b, ok := w.index[id]
	return b, ok
}

// Bodies returns inserted bodies in insertion order; callers must not modify the slice
func (w *World) Bodies() []*Body {
	return w.bodies
}

// SetAttractor installs the per-step force rule keyed to body id, nil clears it
func (w *World) SetAttractor(id BodyID, a Attractor) {
	if a == nil {
		delete(w.attractors, id)
		return
	}
	w.attractors[id] = a
}

// ForceField returns the current ambient field
func (w *World) ForceField() ForceField {
	return w.cfg.Field
}

// SetForceField overwrites the ambient field
func (w *World) SetForceField(f ForceField) {
	w.cfg.Field = f
	w.applyField()
}

func (w *World) applyField() {
	f := w.cfg.Field
	w.space.SetGravity(cp.Vector{X: f.X * f.Scale, Y: f.Y * f.Scale})
}

// Mouse returns the world's pointer constraint
func (w *World) Mouse() *MouseConstraint {
	return w.mouse
}

// Steps returns the number of completed steps
func (w *World) Steps() uint64 {
	return w.steps
}

// Step advances the simulation by dt, split into bounded substeps
// Attractor forces are recomputed before every substep
func (w *World) Step(dt time.Duration) {
	ms := float64(dt) / float64(time.Millisecond)
	if ms <= 0 {
		return
	}
	n := int(math.Ceil(ms / maxSubstep))
	h := ms / float64(n)
	for i := 0; i < n; i++ {
		w.applyAttractors()
		w.space.Step(h)
	}
	w.steps++
}

// applyAttractors evaluates every installed attractor against every other dynamic body
func (w *World) applyAttractors() {
	if len(w.attractors) == 0 {
		return
	}
	for _, a := range w.bodies {
		rule, ok := w.attractors[a.ID]
		if !ok {
			continue
		}
		for _, b := range w.bodies {
			if b == a || b.Static {
				continue
			}
			if f, ok := rule.Attract(a, b); ok {
				b.ApplyForce(f)
			}
		}
	}
}
