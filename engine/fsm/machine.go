package fsm

import (
	"fmt"
	"time"
)

// NewMachine creates a new FSM instance
func NewMachine[T any]() *Machine[T] {
	return &Machine[T]{
		nodes:          make(map[StateID]*Node[T]),
		names:          make(map[string]StateID),
		regionInitials: make(map[string]StateID),
		regions:        make(map[string]*RegionState),
		actionReg:      make(map[string]ActionDef[T]),
	}
}

// RegisterAction adds a side-effect function and its argument compiler to the registry
// Must be called before LoadConfig
func (m *Machine[T]) RegisterAction(name string, fn ActionFunc[T], compile CompileFunc) {
	m.actionReg[name] = ActionDef[T]{Func: fn, Compile: compile}
}

// Init enters the initial state of every region, executing OnEnter actions
func (m *Machine[T]) Init(ctx T) error {
	if len(m.regionInitials) == 0 {
		return fmt.Errorf("FSM has no defined regions to initialize")
	}
	m.regions = make(map[string]*RegionState, len(m.regionOrder))
	for _, name := range m.regionOrder {
		initialID := m.regionInitials[name]
		node, ok := m.nodes[initialID]
		if !ok {
			return fmt.Errorf("region '%s': initial state ID %d not found", name, initialID)
		}
		region := &RegionState{Name: name, ActiveStateID: initialID}
		m.regions[name] = region
		m.runActions(ctx, name, node.OnEnter)
		if m.OnTransition != nil {
			m.OnTransition(name, "", node.Name)
		}
	}
	return nil
}

// Update advances every region by dt
// A region follows at most one timed transition per call; leftover time carries into the new state
func (m *Machine[T]) Update(ctx T, dt time.Duration) {
	for _, name := range m.regionOrder {
		region, ok := m.regions[name]
		if !ok || region.ActiveStateID == StateNone {
			continue
		}
		region.TimeInState += dt

		node := m.nodes[region.ActiveStateID]
		if node.Next == StateNone || region.TimeInState < node.Wait {
			continue
		}
		carry := region.TimeInState - node.Wait
		m.transitionRegion(ctx, region, node.Next)
		region.TimeInState = carry
	}
}

// HandleEvent routes an external event through all regions in order
// Returns true if any region transitioned
func (m *Machine[T]) HandleEvent(ctx T, event string) bool {
	handled := false
	for _, name := range m.regionOrder {
		region, ok := m.regions[name]
		if !ok || region.ActiveStateID == StateNone {
			continue
		}
		node := m.nodes[region.ActiveStateID]
		for _, trans := range node.Transitions {
			if trans.Event == event {
				m.transitionRegion(ctx, region, trans.TargetID)
				handled = true
				break
			}
		}
	}
	return handled
}

// transitionRegion runs exit actions, switches state, then runs enter actions
// Self-transitions re-run both
func (m *Machine[T]) transitionRegion(ctx T, region *RegionState, targetID StateID) {
	target, ok := m.nodes[targetID]
	if !ok {
		panic(fmt.Sprintf("FSM: Attempted transition to unknown state ID %d in region '%s'", targetID, region.Name))
	}
	current := m.nodes[region.ActiveStateID]

	m.runActions(ctx, region.Name, current.OnExit)
	region.ActiveStateID = targetID
	region.TimeInState = 0
	m.runActions(ctx, region.Name, target.OnEnter)

	if m.OnTransition != nil {
		m.OnTransition(region.Name, current.Name, target.Name)
	}
}

func (m *Machine[T]) runActions(ctx T, region string, actions []Action[T]) {
	for _, a := range actions {
		a.Func(ctx, region, a.Args)
	}
}

// Regions returns region names in evaluation order
func (m *Machine[T]) Regions() []string {
	return m.regionOrder
}

// GetRegionState returns current state name for a region
func (m *Machine[T]) GetRegionState(regionName string) string {
	if region, ok := m.regions[regionName]; ok {
		return m.StateName(region.ActiveStateID)
	}
	return ""
}

// RegionTimeInState returns time spent in current state for a region
func (m *Machine[T]) RegionTimeInState(regionName string) time.Duration {
	if region, ok := m.regions[regionName]; ok {
		return region.TimeInState
	}
	return 0
}
