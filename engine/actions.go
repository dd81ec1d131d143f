package engine

import (
	"fmt"
	"log"
	"slices"
	"time"

	"github.com/lixenwraith/polarchain/anchor"
	"github.com/lixenwraith/polarchain/chain"
	"github.com/lixenwraith/polarchain/engine/fsm"
	"github.com/lixenwraith/polarchain/parameter"
	"github.com/lixenwraith/polarchain/physics"
	"github.com/lixenwraith/polarchain/vmath"
)

// Script action names
const (
	ActionAnchorSet  = "anchor_set"
	ActionAnchorAll  = "anchor_all"
	ActionAnchorNext = "anchor_next"
	ActionFreeAll    = "free_all"
	ActionGravity    = "gravity"
	ActionAcquire    = "acquire"
	ActionRelease    = "release"
	ActionCue        = "cue"
	ActionLog        = "log"
)

// chainArgs names the chain an action operates on, plus constraint tuning
type chainArgs struct {
	Chain *chain.Chain
	Opts  []chain.Option
}

type anchorSetArgs struct {
	chainArgs
	Set *anchor.Set
}

// targetArgs carries a resolved target: a fixed point, or an anchor of a set
type targetArgs struct {
	chainArgs
	Target chain.Target
	Label  string
}

type gravityArgs struct {
	X, Y     float64
	Scale    float64
	HasScale bool
}

type cueArgs struct {
	Freq     float64
	Duration time.Duration
	Wave     string
}

// cueWaves are the oscillator names a cue may request
var cueWaves = []string{"sine", "triangle", "square", "sawtooth"}

// RegisterActions binds every script action to ctx; must precede LoadConfig
// Compilers resolve chain and set names eagerly so a bad script fails at load
func RegisterActions(m *fsm.Machine[*Context], ctx *Context) {
	m.RegisterAction(ActionAnchorSet, runAnchorSet, func(p fsm.Params) (any, error) {
		ca, err := compileChain(ctx, p)
		if err != nil {
			return nil, err
		}
		name, err := p.String("set")
		if err != nil {
			return nil, err
		}
		set, ok := ctx.Set(name)
		if !ok {
			return nil, fmt.Errorf("unknown anchor set '%s'", name)
		}
		return &anchorSetArgs{chainArgs: *ca, Set: set}, nil
	})

	m.RegisterAction(ActionAnchorAll, runAnchorAll, func(p fsm.Params) (any, error) {
		return compileTarget(ctx, p)
	})

	m.RegisterAction(ActionAnchorNext, runAnchorNext, func(p fsm.Params) (any, error) {
		return compileTarget(ctx, p)
	})

	m.RegisterAction(ActionFreeAll, runFreeAll, func(p fsm.Params) (any, error) {
		return compileChain(ctx, p)
	})

	m.RegisterAction(ActionAcquire, runAcquire, func(p fsm.Params) (any, error) {
		return compileChain(ctx, p)
	})

	m.RegisterAction(ActionRelease, runRelease, func(p fsm.Params) (any, error) {
		return compileChain(ctx, p)
	})

	m.RegisterAction(ActionGravity, runGravity, func(p fsm.Params) (any, error) {
		if !p.Has("x") || !p.Has("y") {
			return nil, fmt.Errorf("gravity requires both 'x' and 'y'")
		}
		x, err := p.Float("x", 0)
		if err != nil {
			return nil, err
		}
		y, err := p.Float("y", 0)
		if err != nil {
			return nil, err
		}
		scale, err := p.Float("scale", 0)
		if err != nil {
			return nil, err
		}
		return &gravityArgs{X: x, Y: y, Scale: scale, HasScale: p.Has("scale")}, nil
	})

	m.RegisterAction(ActionCue, runCue, func(p fsm.Params) (any, error) {
		freq, err := p.Float("freq", 440)
		if err != nil {
			return nil, err
		}
		ms, err := p.Float("ms", 120)
		if err != nil {
			return nil, err
		}
		if freq <= 0 || ms <= 0 {
			return nil, fmt.Errorf("cue 'freq' and 'ms' must be positive")
		}
		wave := "sine"
		if p.Has("wave") {
			if wave, err = p.String("wave"); err != nil {
				return nil, err
			}
			if !slices.Contains(cueWaves, wave) {
				return nil, fmt.Errorf("cue 'wave' must be one of %v, got %q", cueWaves, wave)
			}
		}
		return &cueArgs{Freq: freq, Duration: time.Duration(ms * float64(time.Millisecond)), Wave: wave}, nil
	})

	m.RegisterAction(ActionLog, runLog, func(p fsm.Params) (any, error) {
		return p.String("text")
	})
}

func compileChain(ctx *Context, p fsm.Params) (*chainArgs, error) {
	name, err := p.String("chain")
	if err != nil {
		return nil, err
	}
	ch, ok := ctx.Chain(name)
	if !ok {
		return nil, fmt.Errorf("unknown chain '%s'", name)
	}
	args := &chainArgs{Chain: ch}
	if p.Has("damping") {
		d, err := p.Float("damping", parameter.AnchorDamping)
		if err != nil {
			return nil, err
		}
		args.Opts = append(args.Opts, chain.WithDamping(d))
	}
	if p.Has("stiffness") {
		s, err := p.Float("stiffness", parameter.AnchorStiffness)
		if err != nil {
			return nil, err
		}
		args.Opts = append(args.Opts, chain.WithStiffness(s))
	}
	return args, nil
}

func compileTarget(ctx *Context, p fsm.Params) (*targetArgs, error) {
	ca, err := compileChain(ctx, p)
	if err != nil {
		return nil, err
	}
	switch {
	case p.Has("point"):
		x, y, err := p.Pair("point")
		if err != nil {
			return nil, err
		}
		return &targetArgs{chainArgs: *ca, Target: chain.At(vmath.Pt(x, y)), Label: fmt.Sprintf("(%.0f,%.0f)", x, y)}, nil
	case p.Has("set"):
		name, err := p.String("set")
		if err != nil {
			return nil, err
		}
		set, ok := ctx.Set(name)
		if !ok {
			return nil, fmt.Errorf("unknown anchor set '%s'", name)
		}
		idx, err := p.Float("index", 0)
		if err != nil {
			return nil, err
		}
		i := int(idx)
		if i < 0 || i >= set.Len() {
			return nil, fmt.Errorf("index %d out of range for anchor set '%s' (%d anchors)", i, name, set.Len())
		}
		return &targetArgs{chainArgs: *ca, Target: chain.To(set.At(i)), Label: fmt.Sprintf("%s[%d]", name, i)}, nil
	}
	return nil, fmt.Errorf("target requires 'point' or 'set'")
}

// writable gates chain mutations by ownership; skipped actions are logged and counted
func writable(ctx *Context, region, action string, ch *chain.Chain) bool {
	if ch.Writable(region) {
		return true
	}
	log.Printf("Skipped %s on chain '%s': owned by region '%s', issued by '%s'", action, ch.Name, ch.Owner(), region)
	ctx.Status.Ints.Get("script.skipped").Add(1)
	return false
}

func runAnchorSet(ctx *Context, region string, args any) {
	a := args.(*anchorSetArgs)
	if !writable(ctx, region, ActionAnchorSet, a.Chain) {
		return
	}
	n := a.Chain.AnchorToSet(a.Set, a.Opts...)
	if n < a.Chain.Len() || n < a.Set.Len() {
		log.Printf("Chain '%s' (%d links) anchored to set '%s' (%d anchors): %d pairs", a.Chain.Name, a.Chain.Len(), a.Set.Name, a.Set.Len(), n)
	}
}

func runAnchorAll(ctx *Context, region string, args any) {
	a := args.(*targetArgs)
	if !writable(ctx, region, ActionAnchorAll, a.Chain) {
		return
	}
	a.Chain.AnchorAll(a.Target, a.Opts...)
}

func runAnchorNext(ctx *Context, region string, args any) {
	a := args.(*targetArgs)
	if !writable(ctx, region, ActionAnchorNext, a.Chain) {
		return
	}
	a.Chain.AnchorNext(a.Target, a.Opts...)
}

func runFreeAll(ctx *Context, region string, args any) {
	a := args.(*chainArgs)
	if !writable(ctx, region, ActionFreeAll, a.Chain) {
		return
	}
	a.Chain.FreeAll()
}

func runAcquire(ctx *Context, region string, args any) {
	a := args.(*chainArgs)
	if !a.Chain.Acquire(region) {
		log.Printf("Region '%s' failed to acquire chain '%s' held by '%s'", region, a.Chain.Name, a.Chain.Owner())
	}
}

func runRelease(ctx *Context, region string, args any) {
	a := args.(*chainArgs)
	a.Chain.Release(region)
}

// runGravity overwrites the force field; values are absolute, never accumulated
func runGravity(ctx *Context, _ string, args any) {
	a := args.(*gravityArgs)
	f := ctx.World.ForceField()
	f.X, f.Y = a.X, a.Y
	if a.HasScale {
		f.Scale = a.Scale
	}
	ctx.World.SetForceField(f)
	ctx.publishField(f)
}

func runCue(ctx *Context, _ string, args any) {
	a := args.(*cueArgs)
	ctx.Cue.Play(a.Freq, a.Duration, a.Wave)
}

func runLog(_ *Context, region string, args any) {
	log.Printf("[%s] %s", region, args.(string))
}

func (c *Context) publishField(f physics.ForceField) {
	c.Status.Floats.Get("field.x").Set(f.X)
	c.Status.Floats.Get("field.y").Set(f.Y)
}
