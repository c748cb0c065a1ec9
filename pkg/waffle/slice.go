package waffle

import (
	"fmt"

	"github.com/chazu/waffle/pkg/geom"
	"github.com/chazu/waffle/pkg/kernel"
)

// Family names.
const (
	FamilyX          = "x"
	FamilyY          = "y"
	FamilyZ          = "z"
	FamilyRadial     = "radial"
	FamilyHorizontal = "horizontal"
)

// Slice is one panel: the region cut from the solid by one plane. Before
// notching the region is the representative contour with no holes.
type Slice struct {
	Family  string      `json:"family"`
	Index   int         `json:"index"`
	Plane   geom.Plane  `json:"plane"`
	Region  geom.Region `json:"region"`
	Notches []Notch     `json:"notches,omitempty"`
}

// Curve returns the outer boundary of the slice as a world-space curve.
func (s Slice) Curve() geom.Curve {
	return geom.Curve{Plane: s.Plane, Ring: s.Region.Outer}
}

// Area returns the enclosed area of the slice.
func (s Slice) Area() float64 {
	return s.Region.Area()
}

// Bounds returns the world-space bounding box of the slice.
func (s Slice) Bounds() geom.Box {
	return s.Curve().Bounds()
}

func (s Slice) String() string {
	return fmt.Sprintf("%s[%d]", s.Family, s.Index)
}

// SliceSolid cuts solid with p and keeps the longest resulting curve as
// the slice outline; inner loops and smaller lobes are discarded. A plane
// that misses the solid is a *DegeneracyError.
func SliceSolid(k kernel.Slicer, solid kernel.Solid, family string, index int, p geom.Plane, tol float64) (Slice, error) {
	curves, err := k.Contours(solid, p, tol)
	if err != nil {
		return Slice{}, fmt.Errorf("contour %s[%d]: %w", family, index, err)
	}
	if len(curves) == 0 {
		return Slice{}, &DegeneracyError{
			Stage:  StageContour,
			Family: family,
			Index:  index,
			Reason: "plane does not intersect the solid",
		}
	}
	best, bestLen := 0, curves[0].Length()
	for i, c := range curves[1:] {
		if l := c.Length(); l > bestLen {
			best, bestLen = i+1, l
		}
	}
	return Slice{
		Family: family,
		Index:  index,
		Plane:  p,
		Region: geom.Region{Outer: curves[best].Ring.CCW()},
	}, nil
}
