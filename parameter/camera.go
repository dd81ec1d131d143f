package parameter

// Viewport smoothing
const (
	// ViewportFrequency is the spring angular frequency of the camera
	ViewportFrequency = 4.0
	// ViewportDamping is critical, so the camera settles without overshoot
	ViewportDamping = 1.0
	// ViewportPadding is the world-unit margin kept around followed bodies
	ViewportPadding = 40.0
	// ViewportMinSpan keeps the followed view from collapsing on a tight cluster
	ViewportMinSpan = 120.0
)

// Input
const (
	// KeySide fires the side sequence trigger
	KeySide = 's'
	// KeyFollow toggles viewport follow mode
	KeyFollow = 'f'
)
