package fsm

import (
	"fmt"
	"sort"
	"time"

	"github.com/BurntSushi/toml"
)

// LoadConfig parses a TOML byte slice and populates the Machine
// Validates all references (states, regions, actions) and clears existing graph data
func (m *Machine[T]) LoadConfig(data []byte) error {
	var config RootConfig
	if _, err := toml.Decode(string(data), &config); err != nil {
		return fmt.Errorf("failed to unmarshal FSM config: %w", err)
	}
	return m.LoadRoot(&config)
}

// LoadRoot populates the Machine from an already decoded config
func (m *Machine[T]) LoadRoot(config *RootConfig) error {
	if len(config.States) == 0 {
		return fmt.Errorf("FSM config defines no states")
	}
	if len(config.Regions) == 0 {
		return fmt.Errorf("FSM config defines no regions")
	}

	m.nodes = make(map[StateID]*Node[T])
	m.names = make(map[string]StateID)
	m.regions = make(map[string]*RegionState)
	m.regionInitials = make(map[string]StateID)
	m.regionOrder = nil

	// First pass: sorted names give deterministic IDs
	stateNames := make([]string, 0, len(config.States))
	for name := range config.States {
		stateNames = append(stateNames, name)
	}
	sort.Strings(stateNames)
	for _, name := range stateNames {
		m.AddState(name)
	}

	// Second pass: resolve references and compile actions
	for _, name := range stateNames {
		cfg := config.States[name]
		if cfg == nil {
			cfg = &StateConfig{}
		}
		node := m.nodes[m.names[name]]

		if cfg.Wait != "" {
			d, err := time.ParseDuration(cfg.Wait)
			if err != nil {
				return fmt.Errorf("state '%s' wait: %w", name, err)
			}
			if d < 0 {
				return fmt.Errorf("state '%s' wait must not be negative", name)
			}
			node.Wait = d
		}
		if cfg.Next != "" {
			id, ok := m.names[cfg.Next]
			if !ok {
				return fmt.Errorf("state '%s' references unknown next state '%s'", name, cfg.Next)
			}
			node.Next = id
		} else if cfg.Wait != "" {
			return fmt.Errorf("state '%s' has a wait but no next state", name)
		}

		var err error
		if node.OnEnter, err = m.compileActions(cfg.OnEnter); err != nil {
			return fmt.Errorf("state '%s' on_enter: %w", name, err)
		}
		if node.OnExit, err = m.compileActions(cfg.OnExit); err != nil {
			return fmt.Errorf("state '%s' on_exit: %w", name, err)
		}

		for _, tc := range cfg.Transitions {
			if tc.Trigger == "" {
				return fmt.Errorf("state '%s' has a transition without trigger", name)
			}
			id, ok := m.names[tc.Target]
			if !ok {
				return fmt.Errorf("state '%s' transition references unknown target '%s'", name, tc.Target)
			}
			m.AddTransition(node.ID, Transition[T]{TargetID: id, Event: tc.Trigger})
		}
	}

	for regionName, rc := range config.Regions {
		id, ok := m.names[rc.Initial]
		if !ok {
			return fmt.Errorf("region '%s' references unknown initial state '%s'", regionName, rc.Initial)
		}
		if err := m.SetRegion(regionName, id); err != nil {
			return err
		}
	}

	return nil
}

func (m *Machine[T]) compileActions(configs []Params) ([]Action[T], error) {
	actions := make([]Action[T], 0, len(configs))
	for i, p := range configs {
		name := p.Action()
		if name == "" {
			return nil, fmt.Errorf("action %d has no 'action' field", i)
		}
		def, ok := m.actionReg[name]
		if !ok {
			return nil, fmt.Errorf("unknown action function '%s'", name)
		}
		var args any
		if def.Compile != nil {
			var err error
			if args, err = def.Compile(p); err != nil {
				return nil, fmt.Errorf("action '%s': %w", name, err)
			}
		}
		actions = append(actions, Action[T]{Name: name, Func: def.Func, Args: args})
	}
	return actions, nil
}

// GetStateID resolves a state name to ID
func (m *Machine[T]) GetStateID(name string) (StateID, bool) {
	id, ok := m.names[name]
	return id, ok
}

// StateName resolves an ID to its state name
func (m *Machine[T]) StateName(id StateID) string {
	if n, ok := m.nodes[id]; ok {
		return n.Name
	}
	return ""
}
