package waffle

import (
	"bytes"
	"context"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
	"honnef.co/go/curve"

	"github.com/chazu/waffle/pkg/kernel/polyhedron"
)

func cylinderParams() RadialParams {
	p := NewRadialParams(6, 1)
	p.Count = 4
	p.CentralRadius = 2
	p.Tolerance = 1e-6
	return p
}

func TestRadialCylinder(t *testing.T) {
	k := polyhedron.New()
	solid := k.Cylinder(20, 10, 64)
	res, err := Radial(context.Background(), k, solid, cylinderParams())
	require.NoError(t, err)
	assert.Equal(t, TopologyRadial, res.Topology)
	require.Len(t, res.Families, 2)
	assert.Equal(t, FamilyHorizontal, res.Families[0].Name)
	assert.Equal(t, FamilyRadial, res.Families[1].Name)
	assert.Equal(t, 8, res.SliceCount())

	rad, _ := res.Family(FamilyRadial)
	require.Len(t, rad.Slices, 4)
	for i, s := range rad.Slices {
		assert.Equal(t, i, s.Index)
		assert.Len(t, s.Notches, 4, "%s", s)
		// 8x20 outside the central radius, less four 4x1 slots.
		assert.InDelta(t, 144, s.Area(), 1e-6, "%s", s)
		b := s.Region.Bounds()
		assert.InDelta(t, 2, b.X0, 1e-6, "%s trimmed to the central radius", s)

		fr := rad.Frames[i]
		assert.InDelta(t, 6, math.Hypot(fr.Origin.X, fr.Origin.Y), 1e-6, "%s frame", s)
		assert.InDelta(t, 0, fr.Origin.Z, 1e-6)
	}

	disc := 0.5 * 64 * 100 * math.Sin(2*math.Pi/64)
	hor, _ := res.Family(FamilyHorizontal)
	require.Len(t, hor.Slices, 4)
	for j, s := range hor.Slices {
		assert.InDelta(t, -9+6*float64(j), s.Plane.Origin.Z, 1e-12)
		assert.Len(t, s.Notches, 4, "%s", s)
		require.Len(t, s.Region.Holes, 1, "%s has a central hole", s)
		assert.False(t, s.Region.Contains(curve.Pt(0, 0)))
		assert.Less(t, s.Area(), disc-4*math.Pi)
		assert.Greater(t, s.Area(), disc-4*math.Pi-4*4-1)
	}
}

func TestRadialWithoutHoles(t *testing.T) {
	k := polyhedron.New()
	p := cylinderParams()
	p.WithHoles = false
	res, err := Radial(context.Background(), k, k.Cylinder(20, 10, 64), p)
	require.NoError(t, err)

	hor, _ := res.Family(FamilyHorizontal)
	for _, s := range hor.Slices {
		assert.Empty(t, s.Region.Holes, "%s", s)
		assert.True(t, s.Region.Contains(curve.Pt(0, 0)))
	}
}

func TestRadialOffsetCenter(t *testing.T) {
	k := polyhedron.New()
	p := cylinderParams()
	p.Center = &r3.Vec{X: 1, Y: -1, Z: 50}
	p.WithHoles = false
	res, err := Radial(context.Background(), k, k.Cylinder(20, 10, 64), p)
	require.NoError(t, err)

	rad, _ := res.Family(FamilyRadial)
	for _, s := range rad.Slices {
		assert.Equal(t, r3.Vec{X: 1, Y: -1, Z: 0}, s.Plane.Origin, "fan sits at mid-height")
	}
}

func TestRadialTrimsAwayEverything(t *testing.T) {
	k := polyhedron.New()
	p := cylinderParams()
	p.CentralRadius = 12
	_, err := Radial(context.Background(), k, k.Cylinder(20, 10, 64), p)

	var de *DegeneracyError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, StageTrim, de.Stage)
	assert.Equal(t, FamilyRadial, de.Family)
}

func TestRadialLogsRun(t *testing.T) {
	var buf bytes.Buffer
	k := polyhedron.New()
	p := cylinderParams()
	p.Logger = slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	res, err := Radial(context.Background(), k, k.Cylinder(20, 10, 64), p)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, res.RunID)
	assert.Contains(t, out, `"topology":"radial"`)
}

func TestRadialValidation(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*RadialParams)
		field string
	}{
		{"zero count", func(p *RadialParams) { p.Count = 0 }, "count"},
		{"zero vertical spacing", func(p *RadialParams) { p.VerticalSpacing = 0 }, "vertical_spacing"},
		{"thickness equals vertical spacing", func(p *RadialParams) { p.Thickness = 6 }, "thickness"},
		{"negative central radius", func(p *RadialParams) { p.CentralRadius = -1 }, "central_radius"},
		{"zero thickness", func(p *RadialParams) { p.Thickness = 0 }, "thickness"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := cylinderParams()
			tt.edit(&p)
			k := &boxSlicer{}
			_, err := Radial(context.Background(), k, cube(10), p)

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
			assert.Zero(t, k.calls.Load())
		})
	}
}
