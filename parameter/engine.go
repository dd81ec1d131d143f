package parameter

import "time"

// Loop & Engine Timing
const (
	// FrameUpdateInterval is the simulation step and render interval (~60 FPS)
	FrameUpdateInterval = 16 * time.Millisecond

	// MaxFrameDelta caps a single tick's dt so a stalled frame cannot fast-forward the script
	MaxFrameDelta = 50 * time.Millisecond
)

// Queue limits
const (
	// EventQueueSize is the buffered capacity of the scheduler input channel
	EventQueueSize = 256
)

// World defaults
const (
	WorldWidth  = 800.0
	WorldHeight = 600.0

	GravityScale = 0.001
	FrictionAir  = 0.01

	ConstraintIterations = 10
)
