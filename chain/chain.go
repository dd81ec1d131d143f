// Package chain implements polarity chains: links of a core body and two
// attracting satellites, re-anchored round-robin to spatial targets
package chain

import (
	"github.com/lixenwraith/polarchain/anchor"
	"github.com/lixenwraith/polarchain/parameter"
	"github.com/lixenwraith/polarchain/physics"
	"github.com/lixenwraith/polarchain/vmath"
)

// Chain is an ordered sequence of links sharing one attraction rule and one cursor
type Chain struct {
	Name string

	// AttractionScale multiplies north-south displacement into force
	AttractionScale float64

	world *physics.World
	links []*Link

	// Polarity membership by satellite id
	norths map[physics.BodyID]*Link
	souths map[physics.BodyID]*Link

	next  int
	owner string
}

// New creates an empty chain bound to world w
func New(w *physics.World, name string) *Chain {
	return &Chain{
		Name:            name,
		AttractionScale: parameter.AttractionScale,
		world:           w,
		norths:          make(map[physics.BodyID]*Link),
		souths:          make(map[physics.BodyID]*Link),
	}
}

// CreateLink builds a link at pos, appends it and inserts it into the world
// Body ids are allocated and registered before insertion
func (c *Chain) CreateLink(pos vmath.Point) *Link {
	w := c.world
	off := vmath.Pt(0, parameter.SatelliteOffset)

	north := w.NewBody(physics.BodyOptions{
		Position: vmath.Sub(pos, off),
		Radius:   parameter.SatelliteRadius,
		Mass:     parameter.SatelliteMass,
		Filter:   physics.Filter{Category: parameter.CategoryNorth, Mask: parameter.CategoryNorth},
		Tag:      TagNorth,
	})
	core := w.NewBody(physics.BodyOptions{
		Position: pos,
		Radius:   parameter.CoreRadius,
		Mass:     parameter.CoreMass,
		Filter:   physics.Filter{Category: parameter.CategoryCore, Mask: parameter.CategoryCore},
		Tag:      TagCore,
	})
	south := w.NewBody(physics.BodyOptions{
		Position: vmath.Add(pos, off),
		Radius:   parameter.SatelliteRadius,
		Mass:     parameter.SatelliteMass,
		Filter:   physics.Filter{Category: parameter.CategorySouth, Mask: parameter.CategorySouth},
		Tag:      TagSouth,
	})

	l := &Link{
		Index:        len(c.links),
		North:        north,
		Core:         core,
		South:        south,
		northPartner: south.ID,
		southPartner: north.ID,
	}
	l.NorthBond = w.NewConstraint(physics.ConstraintOptions{
		BodyA:     north,
		BodyB:     core,
		Length:    parameter.SatelliteOffset,
		Stiffness: parameter.SatelliteStiffness,
		Damping:   parameter.SatelliteDamping,
	})
	l.SouthBond = w.NewConstraint(physics.ConstraintOptions{
		BodyA:     south,
		BodyB:     core,
		Length:    parameter.SatelliteOffset,
		Stiffness: parameter.SatelliteStiffness,
		Damping:   parameter.SatelliteDamping,
	})

	c.links = append(c.links, l)
	c.norths[north.ID] = l
	c.souths[south.ID] = l
	w.SetAttractor(north.ID, c)
	w.SetAttractor(south.ID, c)

	w.Add(north, core, south)
	w.AddConstraint(l.NorthBond)
	w.AddConstraint(l.SouthBond)
	return l
}

// Attract pulls opposite-polarity satellites of other links in this chain toward satellite a
// A link's own satellites are excluded by partner id
func (c *Chain) Attract(a, b *physics.Body) (vmath.Point, bool) {
	var (
		src *Link
		dst *Link
		ok  bool
	)
	if src, ok = c.norths[a.ID]; ok {
		dst, ok = c.souths[b.ID]
	} else if src, ok = c.souths[a.ID]; ok {
		dst, ok = c.norths[b.ID]
	}
	if !ok || dst == nil || src.Partner(a.ID) == b.ID {
		return vmath.Point{}, false
	}
	return vmath.Scale(c.AttractionScale, vmath.Sub(a.Position(), b.Position())), true
}

// Links returns the chain's links in creation order; callers must not modify the slice
func (c *Chain) Links() []*Link {
	return c.links
}

// Len returns the number of links
func (c *Chain) Len() int {
	return len(c.links)
}

// Cursor returns the index of the link the next AnchorNext call will target
func (c *Chain) Cursor() int {
	return c.next
}

// ActiveCount returns the number of links holding a re-anchor constraint
func (c *Chain) ActiveCount() int {
	n := 0
	for _, l := range c.links {
		if l.active != nil {
			n++
		}
	}
	return n
}

// Owner returns the current owner tag, empty when unclaimed
func (c *Chain) Owner() string {
	return c.owner
}

// Acquire claims the chain for owner; fails if another owner holds it
func (c *Chain) Acquire(owner string) bool {
	if owner == "" {
		return false
	}
	if c.owner != "" && c.owner != owner {
		return false
	}
	c.owner = owner
	return true
}

// Release drops owner's claim; fails if owner does not hold it
func (c *Chain) Release(owner string) bool {
	if c.owner == "" || c.owner != owner {
		return false
	}
	c.owner = ""
	return true
}

// Writable reports whether actor may mutate the chain's anchoring
func (c *Chain) Writable(actor string) bool {
	return c.owner == "" || c.owner == actor
}

// AnchorNext re-anchors the link under the cursor to t and advances the cursor
// Returns the re-anchored link, nil for an empty chain
func (c *Chain) AnchorNext(t Target, opts ...Option) *Link {
	if len(c.links) == 0 {
		return nil
	}
	idx := c.next % len(c.links)
	l := c.links[idx]
	c.reanchor(l, t, resolve(opts))
	c.next = (idx + 1) % len(c.links)
	return l
}

// AnchorAll re-anchors every link, in chain order, to the same target
// The cursor is not moved
func (c *Chain) AnchorAll(t Target, opts ...Option) {
	o := resolve(opts)
	for _, l := range c.links {
		c.reanchor(l, t, o)
	}
}

// AnchorToSet re-anchors link i to anchor i, stopping at the shorter sequence
// Returns the number of links re-anchored
func (c *Chain) AnchorToSet(s *anchor.Set, opts ...Option) int {
	o := resolve(opts)
	n := min(len(c.links), s.Len())
	for i := 0; i < n; i++ {
		c.reanchor(c.links[i], To(s.At(i)), o)
	}
	return n
}

// FreeAll removes every active re-anchor constraint
func (c *Chain) FreeAll() {
	for _, l := range c.links {
		c.free(l)
	}
}

// reanchor replaces l's active constraint; removal always precedes creation
func (c *Chain) reanchor(l *Link, t Target, o Options) {
	c.free(l)
	body, p := t.endpoint()
	con := c.world.NewConstraint(physics.ConstraintOptions{
		BodyA:     body,
		PointA:    p,
		BodyB:     l.Core,
		Length:    0,
		Stiffness: o.Stiffness,
		Damping:   o.Damping,
	})
	c.world.AddConstraint(con)
	l.active = con
}

func (c *Chain) free(l *Link) {
	if l.active == nil {
		return
	}
	c.world.RemoveConstraint(l.active)
	l.active = nil
}

func resolve(opts []Option) Options {
	o := Options{
		Damping:   parameter.AnchorDamping,
		Stiffness: parameter.AnchorStiffness,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
