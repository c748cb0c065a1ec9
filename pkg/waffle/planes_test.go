package waffle

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/waffle/pkg/geom"
)

func TestAxisPlanesOffsets(t *testing.T) {
	planes := AxisPlanes(geom.AxisX, 0, 10, 3)
	require.Len(t, planes, 4)
	want := []float64{0.5, 3.5, 6.5, 9.5}
	for i, p := range planes {
		assert.InDelta(t, want[i], p.Origin.X, 1e-12, "plane %d", i)
		assert.Equal(t, r3.Vec{X: 1}, p.Normal(), "plane %d normal", i)
	}
}

func TestAxisPlanesCount(t *testing.T) {
	tests := []struct {
		min, max, spacing float64
		want              int
	}{
		{0, 10, 3, 4},
		{0, 10, 5, 3},
		{-7, 13, 2.5, 9},
		{1, 2, 5, 1},
		{0, 100, 7, 15},
		{-3.2, 4.9, 0.4, 21},
		{0, 0.3, 0.1, 4},
		{0, 0.7, 0.1, 8},
		{0.1, 0.7, 0.2, 4},
		{0, 0.29, 0.1, 3},
	}
	for _, tt := range tests {
		planes := AxisPlanes(geom.AxisZ, tt.min, tt.max, tt.spacing)
		require.Len(t, planes, tt.want, "extent [%g,%g] spacing %g", tt.min, tt.max, tt.spacing)

		for i := 1; i < len(planes); i++ {
			gap := planes[i].Origin.Z - planes[i-1].Origin.Z
			assert.InDelta(t, tt.spacing, gap, 1e-9)
		}
		// The grid is centered in the extent.
		first, last := planes[0].Origin.Z, planes[len(planes)-1].Origin.Z
		assert.InDelta(t, first-tt.min, tt.max-last, 1e-9)
	}
}

func TestAxisPlanesSinglePlaneAtCenter(t *testing.T) {
	planes := AxisPlanes(geom.AxisY, 2, 4, 5)
	require.Len(t, planes, 1)
	assert.InDelta(t, 3, planes[0].Origin.Y, 1e-12)
	assert.Equal(t, r3.Vec{Y: -1}, planes[0].Normal())
}

func TestAxisPlanesRejectsBadSpacing(t *testing.T) {
	assert.Nil(t, AxisPlanes(geom.AxisX, 0, 10, 0))
	assert.Nil(t, AxisPlanes(geom.AxisX, 0, 10, -1))
}

func TestHorizontalPlanes(t *testing.T) {
	planes := HorizontalPlanes(-10, 10, 6)
	require.Len(t, planes, 4)
	assert.InDelta(t, -9, planes[0].Origin.Z, 1e-12)
	assert.Equal(t, r3.Vec{Z: 1}, planes[0].Normal())
}

func TestRadialPlanes(t *testing.T) {
	center := r3.Vec{X: 1, Y: 2, Z: 3}
	planes := RadialPlanes(center, 10)
	require.Len(t, planes, 10)

	step := 2 * math.Pi / 10
	for i, p := range planes {
		assert.Equal(t, center, p.Origin, "plane %d origin", i)
		assert.InDelta(t, 1, p.YAxis.Z, 1e-12, "plane %d must contain the vertical axis", i)

		next := planes[(i+1)%len(planes)]
		cos := r3.Dot(p.XAxis, next.XAxis)
		sin := r3.Dot(r3.Cross(p.XAxis, next.XAxis), r3.Vec{Z: 1})
		assert.InDelta(t, step, math.Atan2(sin, cos), 1e-9, "angle between plane %d and the next", i)
	}
	// Ten 36° steps span exactly a full turn without repeating the start.
	assert.False(t, planes[9].ApproxEqual(planes[0], 1e-6))
	assert.True(t, planes[9].Rotate(step, r3.Vec{Z: 1}).ApproxEqual(planes[0], 1e-9))
}

func TestRadialPlanesRejectsBadCount(t *testing.T) {
	assert.Nil(t, RadialPlanes(r3.Vec{}, 0))
	assert.Nil(t, RadialPlanes(r3.Vec{}, -3))
}

func TestResolveCenter(t *testing.T) {
	bb := geom.Box{Min: r3.Vec{X: -2, Y: 0, Z: 4}, Max: r3.Vec{X: 2, Y: 6, Z: 10}}
	assert.Equal(t, r3.Vec{X: 0, Y: 3, Z: 7}, ResolveCenter(bb, nil))
	assert.Equal(t, r3.Vec{X: 5, Y: -1, Z: 7}, ResolveCenter(bb, &r3.Vec{X: 5, Y: -1, Z: 100}))
}
