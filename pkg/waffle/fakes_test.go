package waffle

import (
	"math"
	"sync/atomic"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/waffle/pkg/geom"
	"github.com/chazu/waffle/pkg/kernel"
	"github.com/chazu/waffle/pkg/kernel/planar"
)

// boxSolid is an axis-aligned box, optionally reporting an open boundary.
type boxSolid struct {
	box  geom.Box
	open bool
}

func (s *boxSolid) BoundingBox() geom.Box { return s.box }
func (s *boxSolid) Closed() bool          { return !s.open }

func cube(side float64) *boxSolid {
	return &boxSolid{box: geom.Box{Max: r3.Vec{X: side, Y: side, Z: side}}}
}

// boxSlicer sections boxSolids analytically. Planes touching a face
// produce the full face.
type boxSlicer struct {
	planar.Ops
	calls atomic.Int64
}

func (k *boxSlicer) Contours(s kernel.Solid, p geom.Plane, tol float64) ([]geom.Curve, error) {
	k.calls.Add(1)
	b := s.BoundingBox()
	dmin, dmax := math.Inf(1), math.Inf(-1)
	u0, v0, u1, v1 := math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)
	for _, c := range b.Corners() {
		d := p.Distance(c)
		dmin, dmax = math.Min(dmin, d), math.Max(dmax, d)
		lp := p.Local(c)
		u0, u1 = math.Min(u0, lp.X), math.Max(u1, lp.X)
		v0, v1 = math.Min(v0, lp.Y), math.Max(v1, lp.Y)
	}
	if dmin > tol || dmax < -tol {
		return nil, nil
	}
	return []geom.Curve{{Plane: p, Ring: geom.Rect(u0, v0, u1, v1)}}, nil
}

// scriptedSlicer returns canned answers, for exercising bookkeeping.
type scriptedSlicer struct {
	planar.Ops
	contours   func(p geom.Plane) []geom.Curve
	curveCurve func(a, b geom.Curve) []r3.Vec
}

func (k *scriptedSlicer) Contours(s kernel.Solid, p geom.Plane, tol float64) ([]geom.Curve, error) {
	return k.contours(p), nil
}

func (k *scriptedSlicer) CurveCurve(a, b geom.Curve, tol float64) []r3.Vec {
	if k.curveCurve != nil {
		return k.curveCurve(a, b)
	}
	return k.Ops.CurveCurve(a, b, tol)
}
