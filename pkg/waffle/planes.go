package waffle

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/waffle/pkg/geom"
)

// AxisPlanes returns the cutting planes normal to axis between min and max.
// There are floor((max-min)/spacing)+1 planes, spacing apart, and the
// leftover extent is split evenly between both ends so the grid is
// centered. Each origin lies on the axis itself. Non-positive spacing
// returns nil.
func AxisPlanes(axis geom.Axis, min, max, spacing float64) []geom.Plane {
	if !(spacing > 0) || max < min {
		return nil
	}
	extent := max - min
	divisions := gridDivisions(extent, spacing)
	start := min + math.Max(0, extent-float64(divisions)*spacing)/2
	unit := axis.Unit()

	planes := make([]geom.Plane, divisions+1)
	for i := range planes {
		planes[i] = geom.AxisPlane(axis, r3.Scale(start+float64(i)*spacing, unit))
	}
	return planes
}

// gridDivisions is floor(extent/spacing) with the quotient snapped to the
// nearest integer when float division lands just short of it (0.3/0.1).
func gridDivisions(extent, spacing float64) int {
	q := extent / spacing
	if r := math.Round(q); math.Abs(q-r) <= 1e-9*math.Max(1, q) {
		return int(r)
	}
	return int(math.Floor(q))
}

// HorizontalPlanes returns Z planes between min and max, laid out like
// AxisPlanes.
func HorizontalPlanes(min, max, spacing float64) []geom.Plane {
	return AxisPlanes(geom.AxisZ, min, max, spacing)
}

// RadialPlanes returns count vertical planes through center fanned evenly
// over a full turn. The first plane spans world X and Z; plane i is the
// first rotated by i·2π/count about its own vertical axis, so the start
// plane is never repeated. Non-positive count returns nil.
func RadialPlanes(center r3.Vec, count int) []geom.Plane {
	if count <= 0 {
		return nil
	}
	seed := geom.NewPlane(center, r3.Vec{X: 1}, r3.Vec{Z: 1})
	step := 2 * math.Pi / float64(count)

	planes := make([]geom.Plane, count)
	for i := range planes {
		planes[i] = seed.Rotate(float64(i)*step, seed.YAxis)
	}
	return planes
}
