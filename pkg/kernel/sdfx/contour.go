package sdfx

import (
	"math"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"honnef.co/go/curve"

	"github.com/chazu/waffle/pkg/geom"
	"github.com/chazu/waffle/pkg/kernel"
	"github.com/chazu/waffle/pkg/kernel/planar"
)

// Contours traces the boundary of the solid in plane p with sdfx's
// uniform marching squares renderer, run over the distance field as seen
// from p's own frame. Points within tol of the surface count as inside,
// so a plane resting on a face traces that face.
func (k *SdfxKernel) Contours(s kernel.Solid, p geom.Plane, tol float64) ([]geom.Curve, error) {
	field := newPlaneField(unwrap(s), s.BoundingBox(), p, tol, k.cells)
	if field == nil {
		return nil, nil
	}

	var lines lineSet
	render.NewMarchingSquaresUniform(k.cells).Render(field, &lines)

	rings := planar.Stitch(lines.segments(field.size))
	out := make([]geom.Curve, 0, len(rings))
	for _, r := range rings {
		if r.Area() <= tol*tol {
			continue
		}
		out = append(out, geom.Curve{Plane: p, Ring: r})
	}
	return out, nil
}

// planeField is the section of an SDF3 by a plane, as an SDF2 over the
// plane's local (u, v) coordinates.
type planeField struct {
	s    sdf.SDF3
	p    geom.Plane
	bias float64
	bb   sdf.Box2
	size float64
}

var _ sdf.SDF2 = (*planeField)(nil)

// newPlaneField returns the field of s in p, bounded by the projection of
// box onto p plus a two cell margin so every traced loop closes. It
// returns nil when the projection is empty.
func newPlaneField(s sdf.SDF3, box geom.Box, p geom.Plane, bias float64, cells int) *planeField {
	u0, v0 := math.Inf(1), math.Inf(1)
	u1, v1 := math.Inf(-1), math.Inf(-1)
	for _, c := range box.Corners() {
		lp := p.Local(c)
		u0, u1 = math.Min(u0, lp.X), math.Max(u1, lp.X)
		v0, v1 = math.Min(v0, lp.Y), math.Max(v1, lp.Y)
	}
	size := math.Max(u1-u0, v1-v0)
	if !(size > 0) || math.IsInf(size, 0) {
		return nil
	}
	m := 2 * size / float64(cells)
	return &planeField{
		s:    s,
		p:    p,
		bias: bias,
		bb: sdf.Box2{
			Min: v2.Vec{X: u0 - m, Y: v0 - m},
			Max: v2.Vec{X: u1 + m, Y: v1 + m},
		},
		size: size,
	}
}

// Evaluate returns the distance at local point q, shifted by the bias.
func (f *planeField) Evaluate(q v2.Vec) float64 {
	w := f.p.PointAt(q.X, q.Y)
	return f.s.Evaluate(v3.Vec{X: w.X, Y: w.Y, Z: w.Z}) - f.bias
}

// BoundingBox returns the sampled area.
func (f *planeField) BoundingBox() sdf.Box2 {
	return f.bb
}

// lineSet collects the renderer's output. Render writes from the calling
// goroutine, so no locking is needed.
type lineSet struct {
	lines []*sdf.Line2
}

func (l *lineSet) Write(in []*sdf.Line2) error {
	l.lines = append(l.lines, in...)
	return nil
}

func (l *lineSet) Close() error { return nil }

// segments keys every line end on a fine lattice. Neighbouring cells
// interpolate a shared crossing from the same samples in opposite order,
// so their ends differ by rounding error only; an end reuses any key
// already taken in the surrounding lattice cells.
func (l *lineSet) segments(size float64) []planar.Segment {
	q := size * 1e-9
	taken := make(map[planar.Key]bool, 2*len(l.lines))
	key := func(pt v2.Vec) planar.Key {
		i, j := int(math.Floor(pt.X/q)), int(math.Floor(pt.Y/q))
		for di := -1; di <= 1; di++ {
			for dj := -1; dj <= 1; dj++ {
				if k := (planar.Key{I: i + di, J: j + dj}); taken[k] {
					return k
				}
			}
		}
		k := planar.Key{I: i, J: j}
		taken[k] = true
		return k
	}
	segs := make([]planar.Segment, 0, len(l.lines))
	for _, ln := range l.lines {
		segs = append(segs, planar.Segment{
			A: key(ln[0]), B: key(ln[1]),
			PA: curve.Pt(ln[0].X, ln[0].Y), PB: curve.Pt(ln[1].X, ln[1].Y),
		})
	}
	return segs
}
