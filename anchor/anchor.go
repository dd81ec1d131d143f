// Package anchor builds static target points from sampled shapes
package anchor

import (
	"github.com/lixenwraith/polarchain/parameter"
	"github.com/lixenwraith/polarchain/physics"
	"github.com/lixenwraith/polarchain/vmath"
)

// TagAnchor labels anchor bodies for rendering
const TagAnchor physics.Tag = 1

// Transform is a group transform applied as scale, then rotate, then translate
// Zero scale components are treated as 1
type Transform struct {
	ScaleX, ScaleY float64
	Rotate         float64 // radians
	Translate      vmath.Point
	Origin         vmath.Point // pivot for scale and rotate
}

// Set is an ordered group of static anchors sharing one transform
type Set struct {
	Name    string
	Anchors []*physics.Body

	world *physics.World
}

// Build creates one static, non-colliding anchor per point
// Anchors are detached until AddTo is called
func Build(w *physics.World, name string, pts []vmath.Point) *Set {
	s := &Set{
		Name:    name,
		Anchors: make([]*physics.Body, 0, len(pts)),
		world:   w,
	}
	for _, p := range pts {
		s.Anchors = append(s.Anchors, w.NewBody(physics.BodyOptions{
			Position: p,
			Radius:   parameter.AnchorRadius,
			Static:   true,
			Filter:   physics.Filter{Category: parameter.CategoryAnchor, Mask: 0},
			Tag:      TagAnchor,
		}))
	}
	return s
}

// Apply mutates anchor positions in place: scale, rotate, translate
func (s *Set) Apply(t Transform) {
	sx, sy := t.ScaleX, t.ScaleY
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}
	if sx != 1 || sy != 1 {
		physics.ScaleBodies(s.Anchors, sx, sy, t.Origin)
	}
	if t.Rotate != 0 {
		physics.RotateBodies(s.Anchors, t.Rotate, t.Origin)
	}
	if t.Translate != (vmath.Point{}) {
		physics.TranslateBodies(s.Anchors, t.Translate)
	}
}

// AddTo inserts every anchor into the live simulation
func (s *Set) AddTo() {
	s.world.Add(s.Anchors...)
}

// Len returns the number of anchors
func (s *Set) Len() int {
	return len(s.Anchors)
}

// At returns anchor i
func (s *Set) At(i int) *physics.Body {
	return s.Anchors[i]
}
