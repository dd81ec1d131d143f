package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/multierr"

	"github.com/lixenwraith/polarchain/parameter"
)

// Config holds everything needed to build and run a scene
type Config struct {
	// Script is a choreography TOML file; empty uses the built-in script
	Script string
	// Shapes is a directory holding the shape files; empty uses the built-in shapes
	Shapes string

	FPS    int
	Sound  bool
	Volume float64 // linear gain, 0..1

	World   WorldConfig
	Chains  []ChainConfig
	Anchors []AnchorConfig
}

// WorldConfig holds physics parameters
type WorldConfig struct {
	Width, Height        float64
	GravityScale         float64 // world units per ms² at unit gravity
	FrictionAir          float64
	ConstraintIterations int
	Bounded              bool // reflect bodies at the world edges
}

// ChainConfig spawns Links links in a row starting at Origin
type ChainConfig struct {
	Name       string
	Links      int
	Origin     [2]float64
	Spacing    float64
	Attraction float64 // zero keeps the default scale
}

// AnchorConfig samples Files into one anchor set and places it
type AnchorConfig struct {
	Name      string
	Files     []string
	Step      float64    // sampling distance in shape units
	Scale     [2]float64 // zero components mean 1
	Rotate    float64    // degrees
	Translate [2]float64
	Origin    [2]float64 // pivot for scale and rotate
}

// DefaultConfig returns the built-in scene: two mirrored fists and a sigil
func DefaultConfig() *Config {
	return &Config{
		FPS:    int(1000 / parameter.FrameUpdateInterval.Milliseconds()),
		Volume: 0.3,
		World: WorldConfig{
			Width:                parameter.WorldWidth,
			Height:               parameter.WorldHeight,
			GravityScale:         parameter.GravityScale,
			FrictionAir:          parameter.FrictionAir,
			ConstraintIterations: parameter.ConstraintIterations,
			Bounded:              true,
		},
		Chains: []ChainConfig{
			{Name: "left", Links: 24, Origin: [2]float64{120, 100}, Spacing: 12},
			{Name: "right", Links: 24, Origin: [2]float64{400, 100}, Spacing: 12},
			{Name: "sigil", Links: 18, Origin: [2]float64{280, 40}, Spacing: 14},
		},
		Anchors: []AnchorConfig{
			{Name: "fist", Files: []string{"fist.svg"}, Step: 10, Scale: [2]float64{2, 2}, Translate: [2]float64{160, 220}},
			{Name: "fist_mirror", Files: []string{"fist.svg"}, Step: 10, Scale: [2]float64{-2, 2}, Translate: [2]float64{640, 220}},
			{Name: "sigil", Files: []string{"sigil.svg"}, Step: 20, Scale: [2]float64{1.5, 1.5}, Translate: [2]float64{325, 40}},
		},
	}
}

// ParseConfig decodes the TOML file at path over the defaults
// Chains and Anchors given in the file replace the default lists whole
func ParseConfig(path string) (*Config, error) {
	defaults := DefaultConfig()
	conf := DefaultConfig()
	conf.Chains, conf.Anchors = nil, nil

	md, err := toml.DecodeFile(path, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if !definedFold(md, "Chains") {
		conf.Chains = defaults.Chains
	}
	if !definedFold(md, "Anchors") {
		conf.Anchors = defaults.Anchors
	}
	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return conf, nil
}

// definedFold reports whether a top-level key is present, ignoring case as the decoder does
func definedFold(md toml.MetaData, key string) bool {
	for _, k := range md.Keys() {
		if len(k) > 0 && strings.EqualFold(k[0], key) {
			return true
		}
	}
	return false
}

// Validate reports every problem at once
func (c *Config) Validate() error {
	var errs error
	if c.FPS <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("fps must be positive, got %d", c.FPS))
	}
	if c.World.Width <= 0 || c.World.Height <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("world size must be positive, got %vx%v", c.World.Width, c.World.Height))
	}
	if c.World.ConstraintIterations < 1 {
		errs = multierr.Append(errs, fmt.Errorf("constraint iterations must be at least 1"))
	}

	seen := make(map[string]bool)
	for i, ch := range c.Chains {
		switch {
		case ch.Name == "":
			errs = multierr.Append(errs, fmt.Errorf("chain %d has no name", i))
		case seen[ch.Name]:
			errs = multierr.Append(errs, fmt.Errorf("duplicate chain '%s'", ch.Name))
		}
		seen[ch.Name] = true
		if ch.Links < 0 {
			errs = multierr.Append(errs, fmt.Errorf("chain '%s' has negative link count", ch.Name))
		}
	}

	seen = make(map[string]bool)
	for i, a := range c.Anchors {
		switch {
		case a.Name == "":
			errs = multierr.Append(errs, fmt.Errorf("anchor set %d has no name", i))
		case seen[a.Name]:
			errs = multierr.Append(errs, fmt.Errorf("duplicate anchor set '%s'", a.Name))
		}
		seen[a.Name] = true
		if len(a.Files) == 0 {
			errs = multierr.Append(errs, fmt.Errorf("anchor set '%s' has no files", a.Name))
		}
		if a.Step <= 0 {
			errs = multierr.Append(errs, fmt.Errorf("anchor set '%s' step must be positive", a.Name))
		}
	}
	return errs
}
