package main

import (
	"fmt"
	"log"
	"math"

	"go.uber.org/multierr"
	billy "gopkg.in/src-d/go-billy.v4"

	"github.com/lixenwraith/polarchain/anchor"
	"github.com/lixenwraith/polarchain/chain"
	"github.com/lixenwraith/polarchain/engine"
	"github.com/lixenwraith/polarchain/physics"
	"github.com/lixenwraith/polarchain/shape"
	"github.com/lixenwraith/polarchain/status"
	"github.com/lixenwraith/polarchain/vmath"
)

// buildScene creates the world, samples every anchor set and spawns every chain
// All shape failures are collected before returning; nothing is partially registered on error
func buildScene(conf *Config, fs billy.Filesystem, reg *status.Registry) (*engine.Context, error) {
	wc := physics.DefaultConfig()
	wc.Field.Scale = conf.World.GravityScale
	wc.FrictionAir = conf.World.FrictionAir
	wc.ConstraintIterations = conf.World.ConstraintIterations
	if conf.World.Bounded {
		wc.BoundsMax = vmath.Pt(conf.World.Width, conf.World.Height)
	}
	w := physics.NewWorld(wc)
	ctx := engine.NewContext(w, reg)

	sets := make([]*anchor.Set, 0, len(conf.Anchors))
	var errs error
	for _, ac := range conf.Anchors {
		pts, err := shape.Load(fs, ac.Files, ac.Step)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("anchor set '%s': %w", ac.Name, err))
			continue
		}
		set := anchor.Build(w, ac.Name, pts)
		set.Apply(anchor.Transform{
			ScaleX:    ac.Scale[0],
			ScaleY:    ac.Scale[1],
			Rotate:    ac.Rotate * math.Pi / 180,
			Translate: vmath.Pt(ac.Translate[0], ac.Translate[1]),
			Origin:    vmath.Pt(ac.Origin[0], ac.Origin[1]),
		})
		sets = append(sets, set)
	}
	if errs != nil {
		return nil, errs
	}

	for _, set := range sets {
		if err := ctx.AddSet(set); err != nil {
			return nil, err
		}
		set.AddTo()
		log.Printf("Anchor set '%s': %d anchors", set.Name, set.Len())
	}

	for _, cc := range conf.Chains {
		ch := chain.New(w, cc.Name)
		if cc.Attraction != 0 {
			ch.AttractionScale = cc.Attraction
		}
		for i := 0; i < cc.Links; i++ {
			ch.CreateLink(vmath.Pt(cc.Origin[0]+float64(i)*cc.Spacing, cc.Origin[1]))
		}
		if err := ctx.AddChain(ch); err != nil {
			return nil, err
		}
		log.Printf("Chain '%s': %d links", ch.Name, ch.Len())
	}
	return ctx, nil
}
