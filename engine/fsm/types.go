package fsm

import (
	"time"
)

// StateID is a unique identifier for a node
type StateID int

const (
	StateNone StateID = 0
)

// Machine is a flat, multi-region finite state machine driven by virtual time
// T is the context type passed to actions (e.g., *engine.Context)
// Each region holds one active state; regions advance independently
type Machine[T any] struct {
	// Graph Data (Immutable after load)
	nodes map[StateID]*Node[T]
	names map[string]StateID

	// Region initials in deterministic (sorted) order
	regionOrder    []string
	regionInitials map[string]StateID

	// Runtime State
	regions map[string]*RegionState

	// Dependency Injection
	actionReg map[string]ActionDef[T]

	// OnTransition observes every state change after enter actions ran
	OnTransition func(region string, from, to string)
}

// Node represents a state
type Node[T any] struct {
	ID   StateID
	Name string

	// Wait is the time spent in this state before following Next
	Wait time.Duration
	Next StateID

	// Lifecycle Actions, executed in order
	OnEnter []Action[T]
	OnExit  []Action[T]

	// Event transitions in evaluation order
	Transitions []Transition[T]
}

// Transition defines an event-triggered link between states
type Transition[T any] struct {
	TargetID StateID
	Event    string
}

// Action represents a side-effect with pre-compiled arguments
type Action[T any] struct {
	Name string
	Func ActionFunc[T]
	Args any
}

// ActionFunc executes a side effect on behalf of a region
type ActionFunc[T any] func(ctx T, region string, args any)

// CompileFunc validates raw action parameters from config into typed args
type CompileFunc func(p Params) (any, error)

// ActionDef couples an action with its argument compiler
// A nil Compile passes no args
type ActionDef[T any] struct {
	Func    ActionFunc[T]
	Compile CompileFunc
}

// RegionState holds the runtime state of one region
type RegionState struct {
	Name          string
	ActiveStateID StateID
	TimeInState   time.Duration
}
