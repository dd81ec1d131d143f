package fsm

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	log []string
}

const loopConfig = `
[regions]
main = { initial = "A" }
side = { initial = "IDLE" }

[states.A]
wait = "100ms"
next = "B"
on_enter = [ { action = "note", text = "enter A" } ]
on_exit = [ { action = "note", text = "exit A" } ]

[states.B]
wait = "50ms"
next = "A"
on_enter = [ { action = "note", text = "enter B" }, { action = "note", text = "B again" } ]

[states.IDLE]
transitions = [ { trigger = "go", target = "RUN" } ]

[states.RUN]
wait = "0s"
next = "IDLE"
on_enter = [ { action = "note", text = "run" } ]
`

func newTestMachine(t *testing.T, config string) *Machine[*recorder] {
	t.Helper()
	m := NewMachine[*recorder]()
	m.RegisterAction("note", func(ctx *recorder, region string, args any) {
		ctx.log = append(ctx.log, fmt.Sprintf("%s:%s", region, args.(string)))
	}, func(p Params) (any, error) {
		return p.String("text")
	})
	require.NoError(t, m.LoadConfig([]byte(config)))
	return m
}

func TestInit_EntersInitialStatesInRegionOrder(t *testing.T) {
	m := newTestMachine(t, loopConfig)
	rec := &recorder{}
	require.NoError(t, m.Init(rec))

	assert.Equal(t, []string{"main", "side"}, m.Regions())
	assert.Equal(t, "A", m.GetRegionState("main"))
	assert.Equal(t, "IDLE", m.GetRegionState("side"))
	assert.Equal(t, []string{"main:enter A"}, rec.log)
}

func TestUpdate_TimedLoop(t *testing.T) {
	m := newTestMachine(t, loopConfig)
	rec := &recorder{}
	require.NoError(t, m.Init(rec))

	m.Update(rec, 99*time.Millisecond)
	assert.Equal(t, "A", m.GetRegionState("main"))

	m.Update(rec, 1*time.Millisecond)
	assert.Equal(t, "B", m.GetRegionState("main"))
	assert.Equal(t, []string{"main:enter A", "main:exit A", "main:enter B", "main:B again"}, rec.log)

	m.Update(rec, 50*time.Millisecond)
	assert.Equal(t, "A", m.GetRegionState("main"), "loop has no terminal state")
}

func TestUpdate_OneTransitionPerTickWithCarry(t *testing.T) {
	m := newTestMachine(t, loopConfig)
	rec := &recorder{}
	require.NoError(t, m.Init(rec))

	m.Update(rec, 130*time.Millisecond)
	assert.Equal(t, "B", m.GetRegionState("main"))
	assert.Equal(t, 30*time.Millisecond, m.RegionTimeInState("main"))

	m.Update(rec, 20*time.Millisecond)
	assert.Equal(t, "A", m.GetRegionState("main"))
	assert.Equal(t, time.Duration(0), m.RegionTimeInState("main"))
}

func TestHandleEvent_SideRegion(t *testing.T) {
	m := newTestMachine(t, loopConfig)
	rec := &recorder{}
	require.NoError(t, m.Init(rec))

	assert.False(t, m.HandleEvent(rec, "unknown"))
	assert.True(t, m.HandleEvent(rec, "go"))
	assert.Equal(t, "RUN", m.GetRegionState("side"))
	assert.Equal(t, "A", m.GetRegionState("main"), "main region unaffected")

	assert.False(t, m.HandleEvent(rec, "go"), "RUN ignores the trigger")

	// Zero wait advances on the next tick, not within the event
	m.Update(rec, time.Millisecond)
	assert.Equal(t, "IDLE", m.GetRegionState("side"))
}

func TestOnTransition_Observer(t *testing.T) {
	m := newTestMachine(t, loopConfig)
	var seen []string
	m.OnTransition = func(region, from, to string) {
		seen = append(seen, region+":"+from+">"+to)
	}
	require.NoError(t, m.Init(&recorder{}))
	m.Update(&recorder{}, 100*time.Millisecond)
	assert.Equal(t, []string{"main:>A", "side:>IDLE", "main:A>B"}, seen)
}

func TestLoadConfig_Validation(t *testing.T) {
	cases := map[string]string{
		"no regions":     `[states.A]`,
		"unknown next":   "[regions]\nmain = { initial = \"A\" }\n[states.A]\nwait = \"1s\"\nnext = \"Z\"",
		"wait sans next": "[regions]\nmain = { initial = \"A\" }\n[states.A]\nwait = \"1s\"",
		"bad duration":   "[regions]\nmain = { initial = \"A\" }\n[states.A]\nwait = \"soon\"\nnext = \"A\"",
		"unknown action": "[regions]\nmain = { initial = \"A\" }\n[states.A]\non_enter = [ { action = \"explode\" } ]",
		"bad args":       "[regions]\nmain = { initial = \"A\" }\n[states.A]\non_enter = [ { action = \"note\" } ]",
		"no action key":  "[regions]\nmain = { initial = \"A\" }\n[states.A]\non_enter = [ { text = \"x\" } ]",
		"bad initial":    "[regions]\nmain = { initial = \"Q\" }\n[states.A]",
		"bad target":     "[regions]\nmain = { initial = \"A\" }\n[states.A]\ntransitions = [ { trigger = \"x\", target = \"Q\" } ]",
		"bad toml":       "[regions",
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			m := NewMachine[*recorder]()
			m.RegisterAction("note", func(*recorder, string, any) {}, func(p Params) (any, error) {
				return p.String("text")
			})
			assert.Error(t, m.LoadConfig([]byte(cfg)))
		})
	}
}

func TestInit_WithoutRegions(t *testing.T) {
	m := NewMachine[*recorder]()
	assert.Error(t, m.Init(&recorder{}))
}

func TestParams(t *testing.T) {
	p := Params{"action": "gravity", "x": int64(2), "y": -0.5, "point": []any{int64(1), 2.5}, "bad": []any{"a", 1.0}}

	assert.Equal(t, "gravity", p.Action())
	x, err := p.Float("x", 0)
	require.NoError(t, err)
	assert.Equal(t, 2.0, x)
	d, err := p.Float("missing", 7)
	require.NoError(t, err)
	assert.Equal(t, 7.0, d)
	_, err = p.Float("action", 0)
	assert.Error(t, err)

	px, py, err := p.Pair("point")
	require.NoError(t, err)
	assert.Equal(t, 1.0, px)
	assert.Equal(t, 2.5, py)
	_, _, err = p.Pair("bad")
	assert.Error(t, err)
	_, _, err = p.Pair("x")
	assert.Error(t, err)

	_, err = p.String("x")
	assert.Error(t, err)
	assert.True(t, p.Has("y"))
}
