package chain

import (
	"github.com/lixenwraith/polarchain/physics"
	"github.com/lixenwraith/polarchain/vmath"
)

// Body tags for rendering
const (
	TagCore physics.Tag = iota + 2
	TagNorth
	TagSouth
)

// Link is one mobile unit: a core flanked by north and south satellites
type Link struct {
	Index int
	North *physics.Body
	Core  *physics.Body
	South *physics.Body

	NorthBond *physics.Constraint
	SouthBond *physics.Constraint

	// Partner ids fixed at construction; used for self-pair exclusion
	northPartner physics.BodyID
	southPartner physics.BodyID

	active *physics.Constraint
}

// Active returns the link's current re-anchor constraint, nil when free
func (l *Link) Active() *physics.Constraint {
	return l.active
}

// Partner returns the opposite satellite of id within this link, NoBody otherwise
func (l *Link) Partner(id physics.BodyID) physics.BodyID {
	switch id {
	case l.North.ID:
		return l.northPartner
	case l.South.ID:
		return l.southPartner
	}
	return physics.NoBody
}

// Target is an endpoint a link's core can be anchored to
type Target interface {
	endpoint() (*physics.Body, vmath.Point)
}

type bodyTarget struct{ body *physics.Body }

func (t bodyTarget) endpoint() (*physics.Body, vmath.Point) { return t.body, vmath.Point{} }

type pointTarget struct{ p vmath.Point }

func (t pointTarget) endpoint() (*physics.Body, vmath.Point) { return nil, t.p }

// To targets a body, typically an anchor
func To(b *physics.Body) Target {
	return bodyTarget{body: b}
}

// At targets a fixed world point
func At(p vmath.Point) Target {
	return pointTarget{p: p}
}

// Options tune a re-anchor constraint
type Options struct {
	Damping   float64
	Stiffness float64
}

// Option mutates Options
type Option func(*Options)

// WithDamping overrides the constraint damping
func WithDamping(d float64) Option {
	return func(o *Options) { o.Damping = d }
}

// WithStiffness overrides the constraint stiffness
func WithStiffness(s float64) Option {
	return func(o *Options) { o.Stiffness = s }
}
