package waffle

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
	"honnef.co/go/curve"

	"github.com/chazu/waffle/pkg/geom"
	"github.com/chazu/waffle/pkg/kernel"
)

// Notch is a rectangular slot in a slice's local frame. It starts at
// Center, runs along Dir for Length and is Width wide, centered on that
// line.
type Notch struct {
	Center curve.Point `json:"center"`
	Dir    curve.Vec2  `json:"dir"`
	Length float64     `json:"length"`
	Width  float64     `json:"width"`
}

// Ring returns the notch outline.
func (n Notch) Ring() geom.Ring {
	return geom.OrientedRect(n.Center, n.Dir, n.Length, n.Width)
}

// AxisNotch returns the slot an orthogonal slice needs at chord c. The slot
// starts at the chord midpoint and runs along the world direction toward
// for the chord's full length, which always reaches past the slice edge.
func AxisNotch(s Slice, c geom.Chord, toward r3.Vec, thickness float64) Notch {
	return Notch{
		Center: s.Plane.Local(c.Midpoint()),
		Dir:    s.Plane.LocalDir(toward),
		Length: c.Length(),
		Width:  thickness,
	}
}

// RadialNotch returns the slot a radial panel needs at chord c. The slot
// runs from the chord midpoint toward the rotation axis and stops at
// centralRadius-thickness, inside the trimmed clearance.
func RadialNotch(s Slice, c geom.Chord, centralRadius, thickness float64) Notch {
	mid := s.Plane.Local(c.Midpoint())
	return Notch{
		Center: mid,
		Dir:    curve.Vec(-1, 0),
		Length: mid.X - (centralRadius - thickness),
		Width:  thickness,
	}
}

// HorizontalNotch returns the slot a horizontal slice needs at chord c,
// which lies along a radial panel. The slot runs from the chord midpoint
// away from center for the chord's length.
func HorizontalNotch(s Slice, c geom.Chord, center r3.Vec, thickness float64) Notch {
	p0, p1 := s.Plane.Local(c.P0), s.Plane.Local(c.P1)
	o := s.Plane.Local(center)
	inner, outer := p0, p1
	if p1.Sub(o).Hypot() < p0.Sub(o).Hypot() {
		inner, outer = p1, p0
	}
	return Notch{
		Center: curve.Pt((p0.X+p1.X)/2, (p0.Y+p1.Y)/2),
		Dir:    outer.Sub(inner),
		Length: c.Length(),
		Width:  thickness,
	}
}

// CutNotches subtracts the notches, plus any extra cutter rings, from the
// slice and keeps the dominant surviving region (see Dominant). A slice
// with nothing to cut is returned unchanged. If nothing survives the
// result is a *DegeneracyError; the un-notched slice is never substituted.
func CutNotches(k kernel.Slicer, s Slice, notches []Notch, extra []geom.Ring, tol float64) (Slice, error) {
	if len(notches) == 0 && len(extra) == 0 {
		return s, nil
	}
	cutters := make([]geom.Ring, 0, len(notches)+len(extra))
	for _, n := range notches {
		cutters = append(cutters, n.Ring())
	}
	cutters = append(cutters, extra...)

	regions, err := k.RegionDifference(s.Region, cutters, tol)
	if err != nil {
		return Slice{}, fmt.Errorf("notch %s: %w", s, err)
	}
	if len(regions) == 0 {
		return Slice{}, &DegeneracyError{
			Stage:  StageNotch,
			Family: s.Family,
			Index:  s.Index,
			Reason: fmt.Sprintf("no material left after %d cuts", len(cutters)),
		}
	}
	out := s
	out.Region = regions[Dominant(regions)]
	out.Notches = append(append([]Notch(nil), s.Notches...), notches...)
	return out, nil
}
