package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/lixenwraith/polarchain/anchor"
	"github.com/lixenwraith/polarchain/chain"
	"github.com/lixenwraith/polarchain/physics"
	"github.com/lixenwraith/polarchain/status"
)

// CuePlayer plays a short tone; implementations must not block
// wave names the oscillator, empty meaning sine
type CuePlayer interface {
	Play(freq float64, d time.Duration, wave string)
}

type silentCue struct{}

func (silentCue) Play(float64, time.Duration, string) {}

// Context is the simulation context shared by the orchestrator's actions
// Owned by the runner; only the scheduler goroutine mutates it
type Context struct {
	World  *physics.World
	Status *status.Registry
	Cue    CuePlayer

	chains map[string]*chain.Chain
	sets   map[string]*anchor.Set
}

// NewContext creates a context around an existing world
func NewContext(w *physics.World, reg *status.Registry) *Context {
	if reg == nil {
		reg = status.NewRegistry()
	}
	return &Context{
		World:  w,
		Status: reg,
		Cue:    silentCue{},
		chains: make(map[string]*chain.Chain),
		sets:   make(map[string]*anchor.Set),
	}
}

// AddChain registers a chain by name
func (c *Context) AddChain(ch *chain.Chain) error {
	if _, exists := c.chains[ch.Name]; exists {
		return fmt.Errorf("chain '%s' already registered", ch.Name)
	}
	c.chains[ch.Name] = ch
	return nil
}

// AddSet registers an anchor set by name
func (c *Context) AddSet(s *anchor.Set) error {
	if _, exists := c.sets[s.Name]; exists {
		return fmt.Errorf("anchor set '%s' already registered", s.Name)
	}
	c.sets[s.Name] = s
	return nil
}

// Chain looks up a chain by name
func (c *Context) Chain(name string) (*chain.Chain, bool) {
	ch, ok := c.chains[name]
	return ch, ok
}

// Set looks up an anchor set by name
func (c *Context) Set(name string) (*anchor.Set, bool) {
	s, ok := c.sets[name]
	return s, ok
}

// ChainNames returns registered chain names in sorted order
func (c *Context) ChainNames() []string {
	names := make([]string, 0, len(c.chains))
	for n := range c.chains {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
