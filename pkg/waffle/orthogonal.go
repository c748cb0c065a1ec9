package waffle

import (
	"context"
	"fmt"
	"slices"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/waffle/pkg/geom"
	"github.com/chazu/waffle/pkg/kernel"
)

// TopologyOrthogonal names orthogonal results.
const TopologyOrthogonal = "orthogonal"

var familyNames = map[geom.Axis]string{
	geom.AxisX: FamilyX,
	geom.AxisY: FamilyY,
	geom.AxisZ: FamilyZ,
}

// Orthogonal builds an orthogonal waffle of solid. Every pair of sliced
// axes (a, b), taken in X, Y, Z order, is notched where their panels
// cross: panels of a are slotted from the chord midpoint toward the
// positive remaining axis and panels of b toward the negative one, so the
// two slots meet halfway.
func Orthogonal(ctx context.Context, k kernel.Slicer, solid kernel.Solid, p OrthogonalParams) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := checkSolid(solid); err != nil {
		return nil, err
	}
	r := newRun(TopologyOrthogonal, k, solid, p.Tolerance, p.Workers, p.Logger)

	axes := append([]geom.Axis(nil), p.axes()...)
	slices.Sort(axes)

	bb := solid.BoundingBox()
	fams := make([]*family, len(axes))
	for n, a := range axes {
		planes := AxisPlanes(a, a.Of(bb.Min), a.Of(bb.Max), p.spacing(a))
		fams[n] = newFamily(familyNames[a], planes)
		r.log.Debug("planes", "family", fams[n].name, "count", len(planes))
	}

	if err := r.contours(ctx, fams...); err != nil {
		return nil, err
	}

	err := r.stage("chords", func() error {
		for i := range fams {
			for j := i + 1; j < len(fams); j++ {
				ch, err := FindChords(ctx, k, fams[i].slices, fams[j].slices, r.tol, r.workers)
				if err != nil {
					return fmt.Errorf("chords %s/%s: %w", fams[i].name, fams[j].name, err)
				}
				up := geom.Third(axes[i], axes[j]).Unit()
				addAxisNotches(fams[i], ch.A, up, p.Thickness)
				addAxisNotches(fams[j], ch.B, r3.Scale(-1, up), p.Thickness)
				r.log.Debug("chords", "a", fams[i].name, "b", fams[j].name, "count", ch.Count())
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := r.notch(ctx, fams...); err != nil {
		return nil, err
	}
	return r.result(TopologyOrthogonal, fams...), nil
}

func addAxisNotches(f *family, chords [][]geom.Chord, toward r3.Vec, thickness float64) {
	for i, row := range chords {
		for _, c := range row {
			f.notches[i] = append(f.notches[i], AxisNotch(f.slices[i], c, toward, thickness))
		}
	}
}
