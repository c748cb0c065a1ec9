package waffle

import (
	"fmt"
	"math"

	"github.com/chazu/waffle/pkg/geom"
	"github.com/chazu/waffle/pkg/kernel"
)

// TrimCentral relieves a radial panel around the rotation axis. Everything
// in the panel's local frame with x below centralRadius is removed: the
// cutter spans from thickness beyond the panel's own near edge to
// centralRadius, and ±height vertically. Only the dominant piece is kept
// so that panel i still corresponds to radial plane i.
func TrimCentral(k kernel.Slicer, s Slice, centralRadius, thickness, height, tol float64) (Slice, error) {
	b := s.Region.Bounds()
	x0 := math.Min(b.X0, centralRadius) - thickness
	cutter := geom.Rect(x0, -height, centralRadius, height)

	regions, err := k.RegionDifference(s.Region, []geom.Ring{cutter}, tol)
	if err != nil {
		return Slice{}, fmt.Errorf("trim %s: %w", s, err)
	}
	if len(regions) == 0 {
		return Slice{}, &DegeneracyError{
			Stage:  StageTrim,
			Family: s.Family,
			Index:  s.Index,
			Reason: fmt.Sprintf("nothing left outside central radius %g", centralRadius),
		}
	}
	out := s
	out.Region = regions[Dominant(regions)]
	return out, nil
}
