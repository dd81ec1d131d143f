package physics

import (
	"math"

	"github.com/lixenwraith/polarchain/vmath"
)

// ScaleBodies scales body positions by (sx, sy) about origin
// Radii are scaled by the geometric mean of the factor magnitudes
func ScaleBodies(bodies []*Body, sx, sy float64, origin vmath.Point) {
	k := math.Sqrt(math.Abs(sx * sy))
	for _, b := range bodies {
		b.SetPosition(vmath.ScaleAbout(b.Position(), sx, sy, origin))
		b.setRadius(b.radius * k)
	}
}

// RotateBodies rotates body positions by angle radians about origin
func RotateBodies(bodies []*Body, angle float64, origin vmath.Point) {
	for _, b := range bodies {
		b.SetPosition(vmath.RotateAbout(b.Position(), angle, origin))
	}
}

// TranslateBodies offsets body positions by delta
func TranslateBodies(bodies []*Body, delta vmath.Point) {
	for _, b := range bodies {
		b.SetPosition(vmath.Add(b.Position(), delta))
	}
}
