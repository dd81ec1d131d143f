package render

import (
	"github.com/charmbracelet/harmonica"

	"github.com/lixenwraith/polarchain/parameter"
	"github.com/lixenwraith/polarchain/vmath"
)

// springAxis is one spring-driven scalar
type springAxis struct {
	pos, vel float64
}

// Viewport maps a world rectangle onto a cell grid
// The rectangle chases its target through critically damped springs
type Viewport struct {
	spring harmonica.Spring
	axes   [4]springAxis // min x, min y, max x, max y
	target [4]float64

	world  [4]float64
	follow bool

	cols, rows int
}

// NewViewport starts settled on the world rectangle [0,w]x[0,h]
func NewViewport(fps int, w, h float64) *Viewport {
	v := &Viewport{
		spring: harmonica.NewSpring(harmonica.FPS(fps), parameter.ViewportFrequency, parameter.ViewportDamping),
		world:  [4]float64{0, 0, w, h},
	}
	v.target = v.world
	for i := range v.axes {
		v.axes[i].pos = v.world[i]
	}
	return v
}

// Resize sets the drawable cell grid
func (v *Viewport) Resize(cols, rows int) {
	v.cols, v.rows = max(cols, 1), max(rows, 1)
}

// Size returns the drawable cell grid
func (v *Viewport) Size() (int, int) {
	return v.cols, v.rows
}

// Follow reports whether the view tracks bodies instead of the whole world
func (v *Viewport) Follow() bool {
	return v.follow
}

// ToggleFollow switches between body tracking and the whole world
func (v *Viewport) ToggleFollow() {
	v.follow = !v.follow
}

// Track sets the spring target from the given points when following, otherwise the world
func (v *Viewport) Track(pts []vmath.Point) {
	lo, hi, ok := vmath.Bounds(pts)
	if !v.follow || !ok {
		v.target = v.world
		return
	}
	pad := parameter.ViewportPadding
	lo = vmath.Sub(lo, vmath.Pt(pad, pad))
	hi = vmath.Add(hi, vmath.Pt(pad, pad))
	c := vmath.Lerp(lo, hi, 0.5)
	halfW := max(hi.X-lo.X, parameter.ViewportMinSpan) / 2
	halfH := max(hi.Y-lo.Y, parameter.ViewportMinSpan) / 2
	v.target = [4]float64{c.X - halfW, c.Y - halfH, c.X + halfW, c.Y + halfH}
}

// Step advances every axis one spring frame toward its target
func (v *Viewport) Step() {
	for i := range v.axes {
		a := &v.axes[i]
		a.pos, a.vel = v.spring.Update(a.pos, a.vel, v.target[i])
	}
}

// Rect returns the current world rectangle
func (v *Viewport) Rect() (lo, hi vmath.Point) {
	return vmath.Pt(v.axes[0].pos, v.axes[1].pos), vmath.Pt(v.axes[2].pos, v.axes[3].pos)
}

// ToCell maps a world point to a cell; ok is false outside the grid
func (v *Viewport) ToCell(p vmath.Point) (col, row int, ok bool) {
	lo, hi := v.Rect()
	w, h := hi.X-lo.X, hi.Y-lo.Y
	if w <= 0 || h <= 0 || v.cols == 0 || v.rows == 0 {
		return 0, 0, false
	}
	fx := (p.X - lo.X) / w * float64(v.cols)
	fy := (p.Y - lo.Y) / h * float64(v.rows)
	if fx < 0 || fy < 0 {
		return 0, 0, false
	}
	col, row = int(fx), int(fy)
	return col, row, col < v.cols && row < v.rows
}

// ToWorld maps the center of a cell to a world point
func (v *Viewport) ToWorld(col, row int) vmath.Point {
	lo, hi := v.Rect()
	if v.cols == 0 || v.rows == 0 {
		return lo
	}
	return vmath.Pt(
		lo.X+(float64(col)+0.5)/float64(v.cols)*(hi.X-lo.X),
		lo.Y+(float64(row)+0.5)/float64(v.rows)*(hi.Y-lo.Y),
	)
}
