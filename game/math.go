package game

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// DegenerateDirectionSqr is the squared length below which a direction between two
// positions is considered undefined (the positions coincide).
const DegenerateDirectionSqr float32 = 1e-6

// HorizontalDistance returns the distance between a and b on the ground plane, ignoring
// elevation.
func HorizontalDistance(a, b mgl32.Vec3) float32 {
	dx, dy := b.X()-a.X(), b.Y()-a.Y()
	return math32.Sqrt(dx*dx + dy*dy)
}

// FlatDirection returns the unit vector pointing from "from" to "to" with the vertical
// component flattened to zero. ok is false if the two positions coincide on the ground plane.
func FlatDirection(from, to mgl32.Vec3) (dir mgl32.Vec3, ok bool) {
	delta := to.Sub(from)
	delta[2] = 0

	lenSq := delta.LenSqr()
	if lenSq < DegenerateDirectionSqr {
		return mgl32.Vec3{}, false
	}
	return delta.Mul(1 / math32.Sqrt(lenSq)), true
}

// Round32 will round a float32 to a given precision.
func Round32(val float32, precision int) float32 {
	pwr := math32.Pow(10, float32(precision))
	return math32.Round(val*pwr) / pwr
}

// Float32ApproxEq determines whether two floating point numbers are close enough to each other
// by a threshold of 1e-5.
func Float32ApproxEq(a, b float32) bool {
	return math32.Abs(a-b) <= 1e-5
}

// ClampInt32 clamps v to [lo, hi].
func ClampInt32(v, lo, hi int32) int32 {
	return max(lo, min(v, hi))
}
