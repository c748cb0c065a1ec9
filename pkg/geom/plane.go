package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
	"honnef.co/go/curve"
)

// Plane is an oriented reference frame: an origin and two orthonormal
// in-plane axes. The normal is XAxis × YAxis. Planes are values; every
// operation returns a new Plane.
type Plane struct {
	Origin r3.Vec `json:"origin"`
	XAxis  r3.Vec `json:"x_axis"`
	YAxis  r3.Vec `json:"y_axis"`
}

// NewPlane returns a plane through origin spanned by xAxis and yAxis.
// The axes are orthonormalised; yAxis only fixes the side of the plane
// and must not be parallel to xAxis.
func NewPlane(origin, xAxis, yAxis r3.Vec) Plane {
	x := r3.Unit(xAxis)
	y := r3.Sub(yAxis, r3.Scale(r3.Dot(yAxis, x), x))
	return Plane{Origin: origin, XAxis: x, YAxis: r3.Unit(y)}
}

// AxisPlane returns the plane through origin whose normal is the given
// world axis. X planes span (Y, Z), Y planes span (X, Z) with normal −Y,
// and Z planes span (X, Y).
func AxisPlane(axis Axis, origin r3.Vec) Plane {
	switch axis {
	case AxisX:
		return Plane{Origin: origin, XAxis: r3.Vec{Y: 1}, YAxis: r3.Vec{Z: 1}}
	case AxisY:
		return Plane{Origin: origin, XAxis: r3.Vec{X: 1}, YAxis: r3.Vec{Z: 1}}
	default:
		return Plane{Origin: origin, XAxis: r3.Vec{X: 1}, YAxis: r3.Vec{Y: 1}}
	}
}

// Normal returns the unit normal of the plane.
func (p Plane) Normal() r3.Vec {
	return r3.Cross(p.XAxis, p.YAxis)
}

// PointAt returns the world point at local coordinates (u, v).
func (p Plane) PointAt(u, v float64) r3.Vec {
	return r3.Add(p.Origin, r3.Add(r3.Scale(u, p.XAxis), r3.Scale(v, p.YAxis)))
}

// World maps a local point to world coordinates.
func (p Plane) World(pt curve.Point) r3.Vec {
	return p.PointAt(pt.X, pt.Y)
}

// Local projects a world point onto the plane and returns its local
// coordinates.
func (p Plane) Local(pt r3.Vec) curve.Point {
	d := r3.Sub(pt, p.Origin)
	return curve.Pt(r3.Dot(d, p.XAxis), r3.Dot(d, p.YAxis))
}

// LocalDir projects a world direction onto the plane axes.
func (p Plane) LocalDir(d r3.Vec) curve.Vec2 {
	return curve.Vec(r3.Dot(d, p.XAxis), r3.Dot(d, p.YAxis))
}

// Distance returns the signed distance from pt to the plane, positive on
// the side the normal points to.
func (p Plane) Distance(pt r3.Vec) float64 {
	return r3.Dot(r3.Sub(pt, p.Origin), p.Normal())
}

// Rotate returns the plane rotated by angle radians about the line through
// its origin along axis.
func (p Plane) Rotate(angle float64, axis r3.Vec) Plane {
	rot := r3.NewRotation(angle, axis)
	return Plane{
		Origin: p.Origin,
		XAxis:  rot.Rotate(p.XAxis),
		YAxis:  rot.Rotate(p.YAxis),
	}
}

// Translate returns the plane moved by v.
func (p Plane) Translate(v r3.Vec) Plane {
	p.Origin = r3.Add(p.Origin, v)
	return p
}

// WithOrigin returns the plane with its origin replaced.
func (p Plane) WithOrigin(o r3.Vec) Plane {
	p.Origin = o
	return p
}

// ApproxEqual reports whether p and q describe the same frame to within tol.
func (p Plane) ApproxEqual(q Plane, tol float64) bool {
	return vecNear(p.Origin, q.Origin, tol) &&
		vecNear(p.XAxis, q.XAxis, tol) &&
		vecNear(p.YAxis, q.YAxis, tol)
}

func vecNear(a, b r3.Vec, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol && math.Abs(a.Z-b.Z) <= tol
}
