package planar

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/waffle/pkg/geom"
)

// Ops implements the planar queries of kernel.Slicer on plain polylines.
// Kernels embed it and only provide Contours themselves.
type Ops struct{}

// ErrEmptyRegion is returned when a region's outer ring has fewer than
// three points.
var ErrEmptyRegion = errors.New("planar: region has no outer ring")

// CurvePlane returns the points where c meets p, in curve order.
//
// Vertices within tol of the plane are reported as they are; edges whose
// ends lie strictly on opposite sides contribute their interpolated
// crossing. A curve touching the plane at one vertex therefore yields one
// point, and an edge lying in the plane yields its two ends.
func (Ops) CurvePlane(c geom.Curve, p geom.Plane, tol float64) []r3.Vec {
	pts := c.Points()
	n := len(pts)
	if n < 2 {
		return nil
	}
	d := make([]float64, n)
	for i, pt := range pts {
		d[i] = p.Distance(pt)
	}
	var out []r3.Vec
	for i := range pts {
		j := (i + 1) % n
		if math.Abs(d[i]) <= tol {
			out = appendDistinct(out, pts[i], tol)
			continue
		}
		if math.Abs(d[j]) <= tol || (d[i] < 0) == (d[j] < 0) {
			continue
		}
		t := d[i] / (d[i] - d[j])
		out = appendDistinct(out, r3.Add(pts[i], r3.Scale(t, r3.Sub(pts[j], pts[i]))), tol)
	}
	return out
}

// CurveCurve returns the points shared by two closed curves lying in
// transverse planes. Both curves are cut by the other's plane; crossings
// of a that lie within tol of a crossing of b are reported as the midpoint
// of the pair. Curves in parallel planes never intersect transversally and
// return nil.
func (o Ops) CurveCurve(a, b geom.Curve, tol float64) []r3.Vec {
	if r3.Norm(r3.Cross(a.Plane.Normal(), b.Plane.Normal())) < 1e-9 {
		return nil
	}
	pa := o.CurvePlane(a, b.Plane, tol)
	pb := o.CurvePlane(b, a.Plane, tol)
	var out []r3.Vec
	for _, x := range pa {
		best, bestD := -1, math.Inf(1)
		for j, y := range pb {
			if d := r3.Norm(r3.Sub(x, y)); d <= tol && d < bestD {
				best, bestD = j, d
			}
		}
		if best < 0 {
			continue
		}
		out = appendDistinct(out, r3.Scale(0.5, r3.Add(x, pb[best])), tol)
	}
	return out
}

// RegionDifference subtracts the union of cutters from base and returns the
// surviving regions. Pieces whose area is below tol² are dropped.
func (Ops) RegionDifference(base geom.Region, cutters []geom.Ring, tol float64) ([]geom.Region, error) {
	if len(base.Outer) < 3 {
		return nil, ErrEmptyRegion
	}
	if len(cutters) == 0 {
		return []geom.Region{base}, nil
	}
	subject := append([]geom.Ring{base.Outer}, base.Holes...)
	rings := Difference(subject, UnionAll(cutters))
	return Decompose(rings, tol*tol), nil
}

func appendDistinct(pts []r3.Vec, p r3.Vec, tol float64) []r3.Vec {
	for _, q := range pts {
		if r3.Norm(r3.Sub(p, q)) <= tol {
			return pts
		}
	}
	return append(pts, p)
}
