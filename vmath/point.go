package vmath

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Point is a 2D world coordinate, also used as a displacement vector
type Point = r2.Vec

// Pt builds a Point from components
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p+q
func Add(p, q Point) Point { return r2.Add(p, q) }

// Sub returns p-q
func Sub(p, q Point) Point { return r2.Sub(p, q) }

// Scale returns p scaled by f
func Scale(f float64, p Point) Point { return r2.Scale(f, p) }

// Dot returns the dot product of p and q
func Dot(p, q Point) float64 { return r2.Dot(p, q) }

// Len returns the Euclidean length of p
func Len(p Point) float64 { return r2.Norm(p) }

// Dist returns the distance between p and q
func Dist(p, q Point) float64 { return r2.Norm(r2.Sub(p, q)) }

// Lerp interpolates linearly between p and q, t in [0,1]
func Lerp(p, q Point, t float64) Point {
	return Point{X: p.X + (q.X-p.X)*t, Y: p.Y + (q.Y-p.Y)*t}
}

// Normalize returns the unit vector of p, zero-safe
func Normalize(p Point) Point {
	n := r2.Norm(p)
	if n == 0 {
		return Point{}
	}
	return r2.Scale(1/n, p)
}

// Near reports whether p and q are within eps on both axes
func Near(p, q Point, eps float64) bool {
	return math.Abs(p.X-q.X) <= eps && math.Abs(p.Y-q.Y) <= eps
}
