package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/polarchain/anchor"
	"github.com/lixenwraith/polarchain/chain"
	"github.com/lixenwraith/polarchain/physics"
	"github.com/lixenwraith/polarchain/status"
	"github.com/lixenwraith/polarchain/vmath"
)

const tick = 16 * time.Millisecond

// miniScript mirrors the shape of the built-in choreography with short waits
const miniScript = `
[regions]
main = { initial = "GATHERED" }
side = { initial = "SIDE_IDLE" }

[states.GATHERED]
wait = "100ms"
next = "RELEASED"
on_enter = [
    { action = "gravity", x = 0.0, y = 1.0 },
    { action = "anchor_set", chain = "left", set = "fist" },
]

[states.RELEASED]
wait = "100ms"
next = "SPREAD"
on_enter = [
    { action = "free_all", chain = "left" },
    { action = "gravity", x = 0.0, y = -0.4 },
]

[states.SPREAD]
wait = "100ms"
next = "GATHERED"
on_enter = [
    { action = "gravity", x = 0.3, y = 0.0, scale = 0.002 },
    { action = "anchor_all", chain = "left", point = [220.0, 300.0] },
    { action = "anchor_next", chain = "left", set = "fist", index = 1, stiffness = 0.5 },
    { action = "anchor_set", chain = "sigil", set = "fist" },
    { action = "cue", freq = 440.0, ms = 50, wave = "triangle" },
]

[states.SIDE_IDLE]
transitions = [ { trigger = "side", target = "SIDE_FORM" } ]

[states.SIDE_FORM]
wait = "300ms"
next = "SIDE_FREE"
on_enter = [
    { action = "acquire", chain = "sigil" },
    { action = "anchor_set", chain = "sigil", set = "fist" },
]

[states.SIDE_FREE]
wait = "32ms"
next = "SIDE_IDLE"
on_enter = [
    { action = "free_all", chain = "sigil" },
    { action = "release", chain = "sigil" },
    { action = "log", text = "sigil released" },
]
`

type cueRecorder struct {
	freqs []float64
	waves []string
}

func (c *cueRecorder) Play(freq float64, _ time.Duration, wave string) {
	c.freqs = append(c.freqs, freq)
	c.waves = append(c.waves, wave)
}

func newTestContext(t *testing.T) *Context {
	t.Helper()
	w := physics.NewWorld(physics.DefaultConfig())
	ctx := NewContext(w, status.NewRegistry())

	pts := make([]vmath.Point, 5)
	for i := range pts {
		pts[i] = vmath.Pt(100+float64(i)*10, 100)
	}
	set := anchor.Build(w, "fist", pts)
	set.AddTo()
	require.NoError(t, ctx.AddSet(set))

	for ci, name := range []string{"left", "sigil"} {
		ch := chain.New(w, name)
		for i := 0; i < 5; i++ {
			ch.CreateLink(vmath.Pt(float64(i)*10, float64(ci)*200))
		}
		require.NoError(t, ctx.AddChain(ch))
	}
	return ctx
}

func newTestScheduler(t *testing.T, script string) *Scheduler {
	t.Helper()
	s := NewScheduler(newTestContext(t), tick, NewManualTimeProvider(time.Unix(0, 0)))
	require.NoError(t, s.LoadScript("", script))
	return s
}

func mustChain(t *testing.T, ctx *Context, name string) *chain.Chain {
	t.Helper()
	ch, ok := ctx.Chain(name)
	require.True(t, ok)
	return ch
}

func TestContext_RejectsDuplicates(t *testing.T) {
	ctx := newTestContext(t)
	assert.Error(t, ctx.AddChain(chain.New(ctx.World, "left")))
	set, _ := ctx.Set("fist")
	assert.Error(t, ctx.AddSet(set))
	assert.Equal(t, []string{"left", "sigil"}, ctx.ChainNames())
}

func TestLoadScript_InitRunsEntryActions(t *testing.T) {
	s := newTestScheduler(t, miniScript)
	ctx := s.Context()

	assert.Equal(t, "GATHERED", s.Machine().GetRegionState("main"))
	assert.Equal(t, "SIDE_IDLE", s.Machine().GetRegionState("side"))
	assert.Equal(t, 5, mustChain(t, ctx, "left").ActiveCount())
	assert.Equal(t, "GATHERED", ctx.Status.Strings.Get("fsm.main").Load())
	assert.Equal(t, 1.0, ctx.Status.Floats.Get("field.y").Get())
}

func TestLoadScript_RejectsUnknownNames(t *testing.T) {
	cases := map[string]string{
		"chain":  `{ action = "free_all", chain = "nope" }`,
		"set":    `{ action = "anchor_set", chain = "left", set = "nope" }`,
		"index":  `{ action = "anchor_next", chain = "left", set = "fist", index = 9 }`,
		"target": `{ action = "anchor_all", chain = "left" }`,
		"point":  `{ action = "anchor_all", chain = "left", point = [1.0] }`,
		"axis":   `{ action = "gravity", x = 1.0 }`,
		"cue":    `{ action = "cue", freq = -1.0 }`,
		"wave":   `{ action = "cue", freq = 440.0, wave = "noise" }`,
		"text":   `{ action = "log" }`,
	}
	for name, action := range cases {
		t.Run(name, func(t *testing.T) {
			script := "[regions]\nmain = { initial = \"A\" }\n[states.A]\non_enter = [ " + action + " ]\n"
			s := NewScheduler(newTestContext(t), tick, nil)
			assert.Error(t, s.LoadScript("", script))
		})
	}
}

func TestTick_GravityFlipsExactlyOnce(t *testing.T) {
	s := newTestScheduler(t, miniScript)
	world := s.Context().World

	var ys []float64
	for i := 0; i < 12; i++ {
		s.Tick(tick)
		if y := world.ForceField().Y; len(ys) == 0 || ys[len(ys)-1] != y {
			ys = append(ys, y)
		}
		if s.Machine().GetRegionState("main") == "SPREAD" {
			break
		}
	}
	require.Equal(t, "RELEASED", s.Machine().GetRegionState("main"))
	assert.Equal(t, []float64{1.0, -0.4}, ys)
	assert.Equal(t, 0, mustChain(t, s.Context(), "left").ActiveCount())
}

func TestTick_GravityIsAbsolute(t *testing.T) {
	s := newTestScheduler(t, miniScript)
	world := s.Context().World
	for i := 0; i < 14; i++ {
		s.Tick(tick)
	}
	require.Equal(t, "SPREAD", s.Machine().GetRegionState("main"))
	assert.Equal(t, physics.ForceField{X: 0.3, Y: 0, Scale: 0.002}, world.ForceField())

	for s.Machine().GetRegionState("main") != "GATHERED" {
		s.Tick(tick)
	}
	f := world.ForceField()
	assert.Equal(t, 0.0, f.X)
	assert.Equal(t, 1.0, f.Y)
	assert.Equal(t, 0.002, f.Scale, "scale persists until overwritten")
}

func TestTick_SpreadAnchorsInProgramOrder(t *testing.T) {
	s := newTestScheduler(t, miniScript)
	for s.Machine().GetRegionState("main") != "SPREAD" {
		s.Tick(tick)
	}
	left := mustChain(t, s.Context(), "left")
	fist, _ := s.Context().Set("fist")

	assert.Equal(t, 5, left.ActiveCount())
	assert.Equal(t, 1, left.Cursor())
	links := left.Links()
	assert.Equal(t, fist.At(1), links[0].Active().BodyA, "anchor_next replaced link 0 after anchor_all")
	assert.Equal(t, 0.5, links[0].Active().Stiffness)
	for _, l := range links[1:] {
		assert.Nil(t, l.Active().BodyA)
		assert.Equal(t, vmath.Pt(220, 300), l.Active().PointA)
	}
}

func TestSideSequence_FreesSigilAfterwards(t *testing.T) {
	s := newTestScheduler(t, miniScript)
	ctx := s.Context()
	sigil := mustChain(t, ctx, "sigil")

	for i := 0; i < 3; i++ {
		s.Tick(tick)
	}
	require.True(t, s.Dispatch(Trigger("side")))
	s.Tick(tick)

	assert.Equal(t, "SIDE_FORM", s.Machine().GetRegionState("side"))
	assert.Equal(t, "side", sigil.Owner())
	assert.Equal(t, 5, sigil.ActiveCount())

	// Re-trigger while running is ignored
	s.Dispatch(Trigger("side"))
	s.Tick(tick)
	assert.Equal(t, "SIDE_FORM", s.Machine().GetRegionState("side"))

	for s.Machine().GetRegionState("side") != "SIDE_IDLE" {
		s.Tick(tick)
	}
	assert.Equal(t, 0, sigil.ActiveCount())
	assert.Equal(t, "", sigil.Owner())
	assert.Equal(t, "GATHERED", s.Machine().GetRegionState("main"), "main loop wrapped around meanwhile")
	assert.Equal(t, int64(1), ctx.Status.Ints.Get("script.skipped").Load())
}

func TestOwnership_SkipsForeignRegion(t *testing.T) {
	s := newTestScheduler(t, miniScript)
	ctx := s.Context()
	sigil := mustChain(t, ctx, "sigil")

	s.Dispatch(Trigger("side"))
	s.Tick(tick)
	require.Equal(t, "side", sigil.Owner())
	before := sigil.Links()[0].Active()

	// Main reaches SPREAD while side still holds the sigil
	for s.Machine().GetRegionState("main") != "SPREAD" {
		s.Tick(tick)
	}
	require.Equal(t, "SIDE_FORM", s.Machine().GetRegionState("side"))
	assert.Same(t, before, sigil.Links()[0].Active())
	assert.Equal(t, int64(1), ctx.Status.Ints.Get("script.skipped").Load())
}

func TestCue_ReachesPlayer(t *testing.T) {
	s := NewScheduler(newTestContext(t), tick, nil)
	rec := &cueRecorder{}
	s.Context().Cue = rec
	require.NoError(t, s.LoadScript("", miniScript))

	for s.Machine().GetRegionState("main") != "SPREAD" {
		s.Tick(tick)
	}
	assert.Equal(t, []float64{440}, rec.freqs)
	assert.Equal(t, []string{"triangle"}, rec.waves)
}

func TestCue_WaveDefaultsToSine(t *testing.T) {
	script := "[regions]\nmain = { initial = \"A\" }\n[states.A]\non_enter = [ { action = \"cue\" } ]\n"
	s := NewScheduler(newTestContext(t), tick, nil)
	rec := &cueRecorder{}
	s.Context().Cue = rec
	require.NoError(t, s.LoadScript("", script))
	assert.Equal(t, []float64{440}, rec.freqs)
	assert.Equal(t, []string{"sine"}, rec.waves)
}

func TestTick_MouseEventsDriveMouseConstraint(t *testing.T) {
	s := newTestScheduler(t, miniScript)
	left := mustChain(t, s.Context(), "left")
	core := left.Links()[4].Core

	s.Dispatch(Event{Kind: EventMouseDown, Point: core.Position()})
	s.Tick(tick)
	grabbed, ok := s.Context().World.Mouse().Grabbed()
	require.True(t, ok)
	assert.Same(t, core, grabbed)

	s.Dispatch(Event{Kind: EventMouseUp})
	s.Tick(tick)
	_, ok = s.Context().World.Mouse().Grabbed()
	assert.False(t, ok)
}

func TestTick_UpdatesMetricsAndFrameHandler(t *testing.T) {
	s := newTestScheduler(t, miniScript)
	frames := 0
	s.SetFrameHandler(func() { frames++ })

	s.Tick(tick)
	s.Tick(tick)

	reg := s.Context().Status
	assert.Equal(t, 2, frames)
	assert.Equal(t, uint64(2), s.Ticks())
	assert.Equal(t, int64(2), reg.Ints.Get("sim.steps").Load())
	assert.Equal(t, int64(35), reg.Ints.Get("sim.bodies").Load())
	assert.Equal(t, int64(5), reg.Ints.Get("chain.left.active").Load())
	assert.Equal(t, int64(32), reg.Ints.Get("fsm.main.ms").Load())
	assert.Equal(t, int64(32), reg.Ints.Get("fsm.side.ms").Load())
}

func TestDispatch_DropsWhenFull(t *testing.T) {
	s := newTestScheduler(t, miniScript)
	for i := 0; i < cap(s.events); i++ {
		require.True(t, s.Dispatch(Trigger("noop")))
	}
	assert.False(t, s.Dispatch(Trigger("noop")))
	assert.Equal(t, int64(1), s.Context().Status.Ints.Get("engine.dropped").Load())
}

func TestFrameDelta_Clamped(t *testing.T) {
	tp := NewManualTimeProvider(time.Unix(100, 0))
	prev := tp.Now()

	tp.Advance(10 * time.Millisecond)
	assert.Equal(t, 10*time.Millisecond, frameDelta(prev, tp.Now(), 50*time.Millisecond))

	tp.Advance(time.Second)
	assert.Equal(t, 50*time.Millisecond, frameDelta(prev, tp.Now(), 50*time.Millisecond))

	assert.Equal(t, time.Duration(0), frameDelta(tp.Now(), prev, 50*time.Millisecond))
}

func TestStartStop_Ticks(t *testing.T) {
	s := NewScheduler(newTestContext(t), 2*time.Millisecond, nil)
	require.NoError(t, s.LoadScript("", miniScript))

	s.Start()
	require.Eventually(t, func() bool { return s.Ticks() >= 3 }, time.Second, time.Millisecond)
	s.Stop()
	s.Stop()

	n := s.Ticks()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, n, s.Ticks())
}

func TestStartStop_SteppingClockFixesFrameDelta(t *testing.T) {
	s := NewScheduler(newTestContext(t), time.Millisecond, NewSteppingTimeProvider(time.Unix(0, 0), tick))
	require.NoError(t, s.LoadScript("", miniScript))

	s.Start()
	require.Eventually(t, func() bool { return s.Ticks() >= 4 }, time.Second, time.Millisecond)
	s.Stop()

	// The side region idles without a timer, so it accumulates every frame delta
	n := s.Ticks()
	assert.Equal(t, time.Duration(n)*tick, s.Machine().RegionTimeInState("side"))
	assert.Equal(t, n, s.Context().World.Steps())
}

func TestManualTimeProvider(t *testing.T) {
	start := time.Unix(50, 0)
	tp := NewManualTimeProvider(start)
	assert.Equal(t, start, tp.Now())
	assert.Equal(t, start, tp.Now(), "frozen without a step")
	tp.Advance(time.Second)
	assert.Equal(t, start.Add(time.Second), tp.Now())

	st := NewSteppingTimeProvider(start, tick)
	assert.Equal(t, start.Add(tick), st.Now())
	assert.Equal(t, start.Add(2*tick), st.Now())
}
