package engine

import "github.com/lixenwraith/polarchain/vmath"

// EventKind classifies input delivered to the scheduler
type EventKind uint8

const (
	// EventTrigger carries a named choreography event (e.g. "side")
	EventTrigger EventKind = iota
	EventMouseDown
	EventMouseMove
	EventMouseUp
)

// Event is a discrete input, already translated to world coordinates
type Event struct {
	Kind  EventKind
	Name  string
	Point vmath.Point
}

// Trigger builds a named choreography event
func Trigger(name string) Event {
	return Event{Kind: EventTrigger, Name: name}
}
