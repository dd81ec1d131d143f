package vmath

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// ScaleAbout scales p by (sx, sy) relative to origin
func ScaleAbout(p Point, sx, sy float64, origin Point) Point {
	return Point{
		X: origin.X + (p.X-origin.X)*sx,
		Y: origin.Y + (p.Y-origin.Y)*sy,
	}
}

// RotateAbout rotates p by angle radians around origin
func RotateAbout(p Point, angle float64, origin Point) Point {
	if angle == 0 {
		return p
	}
	return r2.Rotate(p, angle, origin)
}

// Bounds returns the axis-aligned bounding box of pts
// Returns ok=false for an empty slice
func Bounds(pts []Point) (lo, hi Point, ok bool) {
	if len(pts) == 0 {
		return Point{}, Point{}, false
	}
	lo = Point{X: math.Inf(1), Y: math.Inf(1)}
	hi = Point{X: math.Inf(-1), Y: math.Inf(-1)}
	for _, p := range pts {
		lo.X = math.Min(lo.X, p.X)
		lo.Y = math.Min(lo.Y, p.Y)
		hi.X = math.Max(hi.X, p.X)
		hi.Y = math.Max(hi.Y, p.Y)
	}
	return lo, hi, true
}
