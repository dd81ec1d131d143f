package physics

import (
	"github.com/jakecoffman/cp"

	"github.com/lixenwraith/polarchain/vmath"
)

// pickFilter matches body shapes only, walls are skipped
var pickFilter = cp.ShapeFilter{
	Group:      cp.NO_GROUP,
	Categories: cp.ALL_CATEGORIES,
	Mask:       categoryBody,
}

// BodyAt returns the dynamic body nearest p whose circle lies within slop of it
func (w *World) BodyAt(p vmath.Point, slop float64) (*Body, bool) {
	info := w.space.PointQueryNearest(toVector(p), slop, pickFilter)
	if info.Shape == nil {
		return nil, false
	}
	b, ok := info.Shape.UserData.(*Body)
	if !ok || b.Static || !b.inWorld {
		return nil, false
	}
	return b, true
}
