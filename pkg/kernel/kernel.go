// Package kernel defines the abstract geometry kernel interface.
// Implementations (sdfx, polyhedron) provide solid modeling, planar
// sectioning and boolean region operations behind this interface. The
// waffle pipeline only talks to Kernel, so backends can be swapped
// without changing the rest of the system.
package kernel

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/waffle/pkg/geom"
)

// DefaultTolerance is the geometric tolerance used when a caller does not
// supply one.
const DefaultTolerance = 0.001

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() geom.Box
}

// Closer is implemented by solids that can report whether their boundary
// is closed. Solids that do not implement it are assumed closed.
type Closer interface {
	Closed() bool
}

// Modeler builds solids.
type Modeler interface {
	// Primitives
	Box(x, y, z float64) Solid
	Cylinder(height, radius float64, segments int) Solid
	Sphere(radius float64) Solid

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees
}

// Slicer answers the planar queries the waffle pipeline needs.
type Slicer interface {
	// Contours returns the closed cross-section curves of s in plane p.
	// Every curve is expressed in p's local frame. A plane that misses the
	// solid returns no curves and no error.
	Contours(s Solid, p geom.Plane, tol float64) ([]geom.Curve, error)

	// CurvePlane returns the points where c crosses p.
	CurvePlane(c geom.Curve, p geom.Plane, tol float64) []r3.Vec

	// CurveCurve returns the points where two closed curves in transverse
	// planes touch each other.
	CurveCurve(a, b geom.Curve, tol float64) []r3.Vec

	// RegionDifference subtracts the union of cutters from base and returns
	// the surviving disjoint regions. Cutters are in base's local frame.
	RegionDifference(base geom.Region, cutters []geom.Ring, tol float64) ([]geom.Region, error)
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	Modeler
	Slicer
}

// IsClosed reports whether s has a closed boundary. Solids that cannot
// tell are assumed closed.
func IsClosed(s Solid) bool {
	if c, ok := s.(Closer); ok {
		return c.Closed()
	}
	return true
}
