package waffle

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/waffle/pkg/geom"
	"github.com/chazu/waffle/pkg/kernel"
)

// TopologyRadial names radial results.
const TopologyRadial = "radial"

// Radial builds a radial waffle of solid: horizontal slices stacked along
// Z and Count vertical panels fanned around the center. Each panel is
// first trimmed back to CentralRadius, then panels and horizontal slices
// are notched halfway into each other where they cross. With WithHoles
// and a positive CentralRadius, horizontal slices also lose a central
// disc.
//
// The result holds the horizontal family first, then the radial one.
func Radial(ctx context.Context, k kernel.Slicer, solid kernel.Solid, p RadialParams) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := checkSolid(solid); err != nil {
		return nil, err
	}
	r := newRun(TopologyRadial, k, solid, p.Tolerance, p.Workers, p.Logger)

	bb := solid.BoundingBox()
	center := ResolveCenter(bb, p.Center)
	height := bb.Size().Z

	hor := newFamily(FamilyHorizontal, HorizontalPlanes(bb.Min.Z, bb.Max.Z, p.VerticalSpacing))
	rad := newFamily(FamilyRadial, RadialPlanes(center, p.Count))
	r.log.Debug("planes", "horizontal", len(hor.planes), "radial", len(rad.planes), "center", center)

	if err := r.contours(ctx, hor, rad); err != nil {
		return nil, err
	}

	err := r.stage("trim", func() error {
		return r.forEach(ctx, []*family{rad}, func(f *family, i int) error {
			s, err := TrimCentral(k, f.slices[i], p.CentralRadius, p.Thickness, height, r.tol)
			if err != nil {
				return err
			}
			f.slices[i] = s
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	err = r.stage("chords", func() error {
		ch, err := FindPlaneChords(ctx, k, rad.slices, hor.slices, r.tol, r.workers)
		if err != nil {
			return fmt.Errorf("chords %s/%s: %w", rad.name, hor.name, err)
		}
		for i, row := range ch.A {
			for _, c := range row {
				rad.notches[i] = append(rad.notches[i], RadialNotch(rad.slices[i], c, p.CentralRadius, p.Thickness))
			}
		}
		for j, row := range ch.B {
			for _, c := range row {
				hor.notches[j] = append(hor.notches[j], HorizontalNotch(hor.slices[j], c, center, p.Thickness))
			}
		}
		r.log.Debug("chords", "count", ch.Count())
		return nil
	})
	if err != nil {
		return nil, err
	}

	if p.WithHoles && p.CentralRadius > 0 {
		for j, s := range hor.slices {
			disc := geom.Circle(s.Plane.Local(center), p.CentralRadius, r.tol)
			hor.extra[j] = append(hor.extra[j], disc)
		}
	}

	if err := r.notch(ctx, hor, rad); err != nil {
		return nil, err
	}
	return r.result(TopologyRadial, hor, rad), nil
}

// ResolveCenter returns the fan center for a solid with bounding box bb.
// The default is the box center; a supplied center keeps its X and Y.
// Either way the center sits at the box's mid-height.
func ResolveCenter(bb geom.Box, supplied *r3.Vec) r3.Vec {
	c := bb.Center()
	if supplied != nil {
		c.X, c.Y = supplied.X, supplied.Y
	}
	return c
}
