package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
	"honnef.co/go/curve"
)

// arclenAccuracy is passed to curve length queries. Rings only contain line
// segments, whose length is exact, so the value is nominal.
const arclenAccuracy = 1e-9

// Ring is a closed polyline in the local coordinates of a plane. The
// closing edge from the last point back to the first is implicit.
type Ring []curve.Point

// Path returns the ring as a closed Bézier path.
func (r Ring) Path() curve.BezPath {
	if len(r) == 0 {
		return nil
	}
	p := make(curve.BezPath, 0, len(r)+1)
	p.MoveTo(r[0])
	for _, pt := range r[1:] {
		p.LineTo(pt)
	}
	p.ClosePath()
	return p
}

// SignedArea returns the enclosed area, positive for counter-clockwise rings.
func (r Ring) SignedArea() float64 {
	if len(r) < 3 {
		return 0
	}
	return r.Path().SignedArea()
}

// Area returns the unsigned enclosed area.
func (r Ring) Area() float64 {
	return math.Abs(r.SignedArea())
}

// Perimeter returns the length of the closed ring.
func (r Ring) Perimeter() float64 {
	if len(r) < 2 {
		return 0
	}
	return r.Path().Perimeter(arclenAccuracy)
}

// Bounds returns the ring's bounding rectangle.
func (r Ring) Bounds() curve.Rect {
	if len(r) == 0 {
		return curve.Rect{}
	}
	b := curve.Rect{X0: r[0].X, Y0: r[0].Y, X1: r[0].X, Y1: r[0].Y}
	for _, pt := range r[1:] {
		b = b.UnionPoint(pt)
	}
	return b
}

// Contains reports whether pt lies inside the ring.
func (r Ring) Contains(pt curve.Point) bool {
	if len(r) < 3 {
		return false
	}
	return r.Path().Winding(pt) != 0
}

// Reversed returns a copy of the ring with the opposite orientation.
func (r Ring) Reversed() Ring {
	out := make(Ring, len(r))
	for i, pt := range r {
		out[len(r)-1-i] = pt
	}
	return out
}

// CCW returns the ring oriented counter-clockwise.
func (r Ring) CCW() Ring {
	if r.SignedArea() < 0 {
		return r.Reversed()
	}
	return r
}

// Rect returns the axis-aligned rectangle as a counter-clockwise ring.
func Rect(x0, y0, x1, y1 float64) Ring {
	x0, x1 = math.Min(x0, x1), math.Max(x0, x1)
	y0, y1 = math.Min(y0, y1), math.Max(y0, y1)
	return Ring{
		curve.Pt(x0, y0),
		curve.Pt(x1, y0),
		curve.Pt(x1, y1),
		curve.Pt(x0, y1),
	}
}

// OrientedRect returns the rectangle that starts at from, runs along dir
// for length and is width wide, centered on that line.
func OrientedRect(from curve.Point, dir curve.Vec2, length, width float64) Ring {
	d := dir.Normalize()
	n := curve.Vec(-d.Y, d.X).Mul(width / 2)
	to := from.Translate(d.Mul(length))
	return Ring{
		from.Translate(n.Negate()),
		to.Translate(n.Negate()),
		to.Translate(n),
		from.Translate(n),
	}.CCW()
}

// Circle returns a regular polygon inscribed in the circle of the given
// radius whose sagitta does not exceed tol.
func Circle(center curve.Point, radius, tol float64) Ring {
	n := 16
	if tol > 0 && tol < radius {
		// Sagitta of a chord subtending 2π/n is r(1−cos(π/n)).
		n = max(n, int(math.Ceil(math.Pi/math.Acos(1-tol/radius))))
	}
	n = min(n, 1024)
	out := make(Ring, n)
	for i := range out {
		th := 2 * math.Pi * float64(i) / float64(n)
		out[i] = curve.Pt(center.X+radius*math.Cos(th), center.Y+radius*math.Sin(th))
	}
	return out
}

// Region is a planar area bounded by one outer ring and zero or more holes,
// all in the local coordinates of the same plane.
type Region struct {
	Outer Ring   `json:"outer"`
	Holes []Ring `json:"holes,omitempty"`
}

// Area returns the enclosed area of the outer ring minus its holes.
func (g Region) Area() float64 {
	a := g.Outer.Area()
	for _, h := range g.Holes {
		a -= h.Area()
	}
	return a
}

// Perimeter returns the total boundary length, holes included.
func (g Region) Perimeter() float64 {
	p := g.Outer.Perimeter()
	for _, h := range g.Holes {
		p += h.Perimeter()
	}
	return p
}

// Bounds returns the bounding rectangle of the outer ring.
func (g Region) Bounds() curve.Rect {
	return g.Outer.Bounds()
}

// Contains reports whether pt lies inside the outer ring and outside every
// hole.
func (g Region) Contains(pt curve.Point) bool {
	if !g.Outer.Contains(pt) {
		return false
	}
	for _, h := range g.Holes {
		if h.Contains(pt) {
			return false
		}
	}
	return true
}

// Path returns all boundary rings as one path.
func (g Region) Path() curve.BezPath {
	p := g.Outer.Path()
	for _, h := range g.Holes {
		p = append(p, h.Path()...)
	}
	return p
}

// Curve is a closed planar curve in world space, stored as a ring in the
// local frame of its plane.
type Curve struct {
	Plane Plane `json:"plane"`
	Ring  Ring  `json:"ring"`
}

// Length returns the arclength of the closed curve.
func (c Curve) Length() float64 {
	return c.Ring.Perimeter()
}

// Points returns the curve's vertices in world coordinates.
func (c Curve) Points() []r3.Vec {
	out := make([]r3.Vec, len(c.Ring))
	for i, pt := range c.Ring {
		out[i] = c.Plane.World(pt)
	}
	return out
}

// Bounds returns the world-space bounding box of the curve.
func (c Curve) Bounds() Box {
	b := EmptyBox()
	for _, pt := range c.Ring {
		b = b.Extend(c.Plane.World(pt))
	}
	return b
}

// Chord is the segment between the two points where a pair of transverse
// slices cross.
type Chord struct {
	P0 r3.Vec `json:"p0"`
	P1 r3.Vec `json:"p1"`
}

// Midpoint returns the center of the chord.
func (c Chord) Midpoint() r3.Vec {
	return r3.Scale(0.5, r3.Add(c.P0, c.P1))
}

// Length returns the distance between the chord's endpoints.
func (c Chord) Length() float64 {
	return r3.Norm(r3.Sub(c.P1, c.P0))
}

// Direction returns the unit vector from P0 to P1.
func (c Chord) Direction() r3.Vec {
	return r3.Unit(r3.Sub(c.P1, c.P0))
}
