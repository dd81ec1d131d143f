package render

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/polarchain/anchor"
	"github.com/lixenwraith/polarchain/chain"
	"github.com/lixenwraith/polarchain/engine"
	"github.com/lixenwraith/polarchain/physics"
	"github.com/lixenwraith/polarchain/vmath"
)

// MockScreen is a minimal mock for tcell.Screen used in tests
type MockScreen struct {
	tcell.Screen
	width, height int
	cells         map[[2]int]rune
	shown         int
}

func newMockScreen(w, h int) *MockScreen {
	return &MockScreen{width: w, height: h, cells: make(map[[2]int]rune)}
}

func (m *MockScreen) Size() (int, int)         { return m.width, m.height }
func (m *MockScreen) Clear()                   { clear(m.cells) }
func (m *MockScreen) Show()                    { m.shown++ }
func (m *MockScreen) SetStyle(tcell.Style)     {}
func (m *MockScreen) SetContent(x, y int, mainc rune, combc []rune, style tcell.Style) {
	m.cells[[2]int{x, y}] = mainc
}

func TestViewport_CellRoundTrip(t *testing.T) {
	vp := NewViewport(60, 800, 600)
	vp.Resize(80, 30)

	col, row, ok := vp.ToCell(vmath.Pt(400, 300))
	require.True(t, ok)
	assert.Equal(t, 40, col)
	assert.Equal(t, 15, row)

	p := vp.ToWorld(col, row)
	assert.InDelta(t, 405, p.X, 1e-9)
	assert.InDelta(t, 310, p.Y, 1e-9)

	_, _, ok = vp.ToCell(vmath.Pt(-1, 10))
	assert.False(t, ok)
	_, _, ok = vp.ToCell(vmath.Pt(800, 10))
	assert.False(t, ok)
}

func TestViewport_FollowConvergesOnBodies(t *testing.T) {
	vp := NewViewport(60, 800, 600)
	vp.Resize(80, 30)
	vp.ToggleFollow()

	pts := []vmath.Point{vmath.Pt(100, 100), vmath.Pt(300, 200)}
	for i := 0; i < 600; i++ {
		vp.Track(pts)
		vp.Step()
	}
	lo, hi := vp.Rect()
	assert.InDelta(t, 60, lo.X, 0.5)
	assert.InDelta(t, 60, lo.Y, 0.5)
	assert.InDelta(t, 340, hi.X, 0.5)
	assert.InDelta(t, 240, hi.Y, 0.5)

	vp.ToggleFollow()
	for i := 0; i < 600; i++ {
		vp.Track(pts)
		vp.Step()
	}
	lo, hi = vp.Rect()
	assert.InDelta(t, 0, lo.X, 0.5)
	assert.InDelta(t, 800, hi.X, 0.5)
}

func TestViewport_FollowKeepsMinimumSpan(t *testing.T) {
	vp := NewViewport(60, 800, 600)
	vp.ToggleFollow()
	vp.Track([]vmath.Point{vmath.Pt(400, 300)})
	for i := 0; i < 600; i++ {
		vp.Step()
	}
	lo, hi := vp.Rect()
	assert.InDelta(t, 120, hi.X-lo.X, 0.5)
	assert.InDelta(t, 120, hi.Y-lo.Y, 0.5)
}

func TestRenderer_DrawsBodiesAndStatus(t *testing.T) {
	w := physics.NewWorld(physics.DefaultConfig())
	ch := chain.New(w, "left")
	ch.CreateLink(vmath.Pt(400, 300))
	set := anchor.Build(w, "fist", []vmath.Point{vmath.Pt(100, 100)})
	set.AddTo()

	screen := newMockScreen(80, 31)
	r := NewRenderer(screen, NewViewport(60, 800, 600))

	var f Frame
	f.Capture(w, "main=GATHERED")
	require.Len(t, f.Dots, 4)
	r.Draw(&f)

	assert.Equal(t, 1, screen.shown)
	assert.Equal(t, 'o', screen.cells[[2]int{40, 15}], "core wins its cell")
	assert.Equal(t, '·', screen.cells[[2]int{10, 5}])
	assert.Equal(t, 'm', screen.cells[[2]int{0, 30}])
	assert.Equal(t, ' ', screen.cells[[2]int{79, 30}])
}

func TestRenderer_CoreOutranksSatelliteInSharedCell(t *testing.T) {
	screen := newMockScreen(8, 7)
	r := NewRenderer(screen, NewViewport(60, 800, 600))
	f := Frame{Dots: []Dot{
		{Pos: vmath.Pt(10, 10), Tag: chain.TagCore},
		{Pos: vmath.Pt(12, 12), Tag: chain.TagNorth},
		{Pos: vmath.Pt(14, 14), Tag: anchor.TagAnchor},
	}}
	r.Draw(&f)
	assert.Equal(t, 'o', screen.cells[[2]int{0, 0}])
}

func TestInput_Keys(t *testing.T) {
	in := NewInput(NewViewport(60, 800, 600))

	cmd, ev, ok := in.Translate(tcell.NewEventKey(tcell.KeyRune, 's', tcell.ModNone))
	assert.Equal(t, CommandNone, cmd)
	require.True(t, ok)
	assert.Equal(t, engine.Trigger("side"), ev)

	cmd, _, ok = in.Translate(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone))
	assert.Equal(t, CommandQuit, cmd)
	assert.False(t, ok)

	cmd, _, _ = in.Translate(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl))
	assert.Equal(t, CommandQuit, cmd)

	cmd, _, ok = in.Translate(tcell.NewEventKey(tcell.KeyRune, 'f', tcell.ModNone))
	assert.Equal(t, CommandFollow, cmd)
	assert.False(t, ok)

	cmd, _, ok = in.Translate(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone))
	assert.Equal(t, CommandNone, cmd)
	assert.False(t, ok)
}

func TestInput_MouseDragSequence(t *testing.T) {
	vp := NewViewport(60, 800, 600)
	vp.Resize(80, 30)
	in := NewInput(vp)

	_, ev, ok := in.Translate(tcell.NewEventMouse(40, 15, tcell.Button1, tcell.ModNone))
	require.True(t, ok)
	assert.Equal(t, engine.EventMouseDown, ev.Kind)
	assert.InDelta(t, 405, ev.Point.X, 1e-9)

	_, ev, ok = in.Translate(tcell.NewEventMouse(41, 15, tcell.Button1, tcell.ModNone))
	require.True(t, ok)
	assert.Equal(t, engine.EventMouseMove, ev.Kind)

	_, ev, ok = in.Translate(tcell.NewEventMouse(41, 15, tcell.ButtonNone, tcell.ModNone))
	require.True(t, ok)
	assert.Equal(t, engine.EventMouseUp, ev.Kind)

	_, _, ok = in.Translate(tcell.NewEventMouse(42, 15, tcell.ButtonNone, tcell.ModNone))
	assert.False(t, ok, "hover without a press is ignored")
}
