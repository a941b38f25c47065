package game

import (
	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
)

// AABBFromDimensions returns a bounding box standing on the origin, centered on the vertical
// axis. The Z axis points up.
func AABBFromDimensions(width, height float32) cube.BBox {
	h := width / 2
	return cube.Box(
		-h, -h, 0,
		h, h, height,
	)
}

// AABBHorizontalGap returns the distance on the ground plane between the closest sides of two
// boxes, or zero if they overlap on the ground plane.
func AABBHorizontalGap(a, b cube.BBox) float32 {
	x := math32.Max(0, math32.Max(b.Min().X()-a.Max().X(), a.Min().X()-b.Max().X()))
	y := math32.Max(0, math32.Max(b.Min().Y()-a.Max().Y(), a.Min().Y()-b.Max().Y()))
	return math32.Sqrt(x*x + y*y)
}
