package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/polarchain/anchor"
	"github.com/lixenwraith/polarchain/parameter"
	"github.com/lixenwraith/polarchain/physics"
	"github.com/lixenwraith/polarchain/vmath"
)

// Dot is one body as seen by the renderer
type Dot struct {
	Pos vmath.Point
	Tag physics.Tag
}

// Frame is a copy of the world taken under the scheduler lock
// Drawing happens from the copy so the simulation is never read mid-step
type Frame struct {
	Dots   []Dot
	Status string
}

// Capture copies body positions into f, reusing its backing array
func (f *Frame) Capture(w *physics.World, status string) {
	f.Dots = f.Dots[:0]
	for _, b := range w.Bodies() {
		f.Dots = append(f.Dots, Dot{Pos: b.Position(), Tag: b.Tag})
	}
	f.Status = status
}

// moving returns the positions of every non-anchor dot
func (f *Frame) moving() []vmath.Point {
	pts := make([]vmath.Point, 0, len(f.Dots))
	for _, d := range f.Dots {
		if d.Tag != anchor.TagAnchor {
			pts = append(pts, d.Pos)
		}
	}
	return pts
}

// Renderer draws frames to a tcell screen
type Renderer struct {
	screen tcell.Screen
	vp     *Viewport
	cells  map[[2]int]int // draw priority already used per cell this frame
}

// NewRenderer creates a renderer sized to the screen
func NewRenderer(screen tcell.Screen, vp *Viewport) *Renderer {
	r := &Renderer{
		screen: screen,
		vp:     vp,
		cells:  make(map[[2]int]int),
	}
	r.Resize()
	return r
}

// Viewport returns the renderer's camera
func (r *Renderer) Viewport() *Viewport {
	return r.vp
}

// Resize recomputes the drawable area from the screen size
func (r *Renderer) Resize() {
	w, h := r.screen.Size()
	r.vp.Resize(w, h-parameter.BottomMargin)
}

// Draw renders one frame and presents it
func (r *Renderer) Draw(f *Frame) {
	r.vp.Track(f.moving())
	r.vp.Step()

	bg := tcell.StyleDefault.Background(RgbBackground)
	r.screen.SetStyle(bg)
	r.screen.Clear()
	clear(r.cells)

	for _, d := range f.Dots {
		col, row, ok := r.vp.ToCell(d.Pos)
		if !ok {
			continue
		}
		prio := drawPriority(d.Tag)
		key := [2]int{col, row}
		if used, taken := r.cells[key]; taken && used > prio {
			continue
		}
		r.cells[key] = prio
		ch, style := glyph(d.Tag)
		r.screen.SetContent(col, row, ch, nil, style)
	}

	r.drawStatus(f.Status)
	r.screen.Show()
}

func (r *Renderer) drawStatus(text string) {
	w, h := r.screen.Size()
	if h <= 0 {
		return
	}
	row := h - 1
	style := tcell.StyleDefault.Foreground(RgbStatusBar).Background(RgbStatusBg)
	runes := []rune(text)
	for col := 0; col < w; col++ {
		ch := ' '
		if col < len(runes) {
			ch = runes[col]
		}
		r.screen.SetContent(col, row, ch, nil, style)
	}
}
