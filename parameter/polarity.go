package parameter

// Polarity chain construction
const (
	CoreRadius      = 4.0
	CoreMass        = 2.0
	SatelliteRadius = 1.5
	SatelliteMass   = 0.5
	// SatelliteOffset is the bond rest length between each satellite and its core
	SatelliteOffset    = 6.0
	SatelliteStiffness = 0.1
	SatelliteDamping   = 0.05

	// AttractionScale multiplies the north-south displacement into a force
	AttractionScale = 1e-6
)

// Re-anchoring defaults
const (
	AnchorDamping   = 1.0
	AnchorStiffness = 0.05
	AnchorRadius    = 0.5
)

// Shape sampling
const (
	// SampleStep is the arc-length spacing between sampled path points
	SampleStep = 4.0
)

// Collision categories
const (
	CategoryAnchor uint = 1 << iota
	CategoryCore
	CategoryNorth
	CategorySouth
)
