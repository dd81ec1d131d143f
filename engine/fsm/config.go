package fsm

import (
	"fmt"
)

// RootConfig represents the top-level config structure
type RootConfig struct {
	Regions map[string]RegionConfig `toml:"regions"`
	States  map[string]*StateConfig `toml:"states"`
}

// RegionConfig names a region's initial state
type RegionConfig struct {
	Initial string `toml:"initial"`
}

// StateConfig represents a single state definition
type StateConfig struct {
	Wait        string             `toml:"wait,omitempty"` // Go duration string, e.g. "6s"
	Next        string             `toml:"next,omitempty"` // state entered once Wait has elapsed
	OnEnter     []Params           `toml:"on_enter,omitempty"`
	OnExit      []Params           `toml:"on_exit,omitempty"`
	Transitions []TransitionConfig `toml:"transitions,omitempty"`
}

// TransitionConfig represents an event transition definition
type TransitionConfig struct {
	Trigger string `toml:"trigger"` // Event name
	Target  string `toml:"target"`  // Target state name
}

// Params is one action table from config; "action" selects the registered action
type Params map[string]any

// Action returns the action name
func (p Params) Action() string {
	s, _ := p["action"].(string)
	return s
}

// String returns a required string parameter
func (p Params) String(key string) (string, error) {
	v, ok := p[key]
	if !ok {
		return "", fmt.Errorf("missing '%s'", key)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("'%s' must be a non-empty string", key)
	}
	return s, nil
}

// Float returns a numeric parameter, or def when absent
func (p Params) Float(key string, def float64) (float64, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case int64:
		return float64(n), nil
	case int:
		return float64(n), nil
	}
	return 0, fmt.Errorf("'%s' must be a number, got %T", key, v)
}

// Has reports whether key is present
func (p Params) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// Pair returns a required two-element numeric array, e.g. point = [x, y]
func (p Params) Pair(key string) (float64, float64, error) {
	v, ok := p[key]
	if !ok {
		return 0, 0, fmt.Errorf("missing '%s'", key)
	}
	arr, ok := v.([]any)
	if !ok || len(arr) != 2 {
		return 0, 0, fmt.Errorf("'%s' must be a two-element array", key)
	}
	var out [2]float64
	for i, e := range arr {
		f, err := Params{"v": e}.Float("v", 0)
		if err != nil {
			return 0, 0, fmt.Errorf("'%s'[%d] must be a number", key, i)
		}
		out[i] = f
	}
	return out[0], out[1], nil
}
