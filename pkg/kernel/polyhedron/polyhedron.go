// Package polyhedron implements the kernel.Kernel interface on indexed
// triangle meshes. Sections are exact up to floating point: each triangle
// crossing the plane contributes one segment and segments are joined on
// shared mesh edges. Booleans are kept as a tree and evaluated per section
// with planar polygon clipping, so no 3D mesh boolean is ever computed.
package polyhedron

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/waffle/pkg/geom"
	"github.com/chazu/waffle/pkg/kernel"
	"github.com/chazu/waffle/pkg/kernel/planar"
)

// Compile-time interface check.
var _ kernel.Kernel = (*Kernel)(nil)

const (
	defaultSegments = 32
	sphereStacks    = 16
)

type op int

const (
	opUnion op = iota
	opDifference
	opIntersection
)

// solid is either a mesh leaf or a boolean node.
type solid struct {
	mesh *Mesh

	op   op
	a, b *solid
}

// BoundingBox returns the axis-aligned bounding box. Boolean nodes report
// a conservative box.
func (s *solid) BoundingBox() geom.Box {
	if s.mesh != nil {
		return s.mesh.Bounds()
	}
	switch s.op {
	case opUnion:
		return s.a.BoundingBox().Union(s.b.BoundingBox())
	case opIntersection:
		return s.a.BoundingBox().Intersect(s.b.BoundingBox())
	default:
		return s.a.BoundingBox()
	}
}

// Closed reports whether every mesh in the solid is closed.
func (s *solid) Closed() bool {
	if s.mesh != nil {
		return s.mesh.Closed()
	}
	return s.a.Closed() && s.b.Closed()
}

func (s *solid) transform(f func(r3.Vec) r3.Vec) *solid {
	if s.mesh != nil {
		return &solid{mesh: s.mesh.transform(f)}
	}
	return &solid{op: s.op, a: s.a.transform(f), b: s.b.transform(f)}
}

// section returns the even-odd contour set of the solid in plane p.
func (s *solid) section(p geom.Plane, tol float64) []geom.Ring {
	if s.mesh != nil {
		return s.mesh.section(p, tol)
	}
	a, b := s.a.section(p, tol), s.b.section(p, tol)
	switch s.op {
	case opUnion:
		return planar.Union(a, b)
	case opIntersection:
		return planar.Intersection(a, b)
	default:
		return planar.Difference(a, b)
	}
}

// Kernel implements kernel.Kernel on triangle meshes.
type Kernel struct {
	planar.Ops
}

// New returns a new polyhedral Kernel.
func New() *Kernel {
	return &Kernel{}
}

func unwrap(s kernel.Solid) *solid {
	return s.(*solid)
}

// FromMesh wraps a caller-built mesh as a solid. The mesh is not copied.
func (k *Kernel) FromMesh(m *Mesh) kernel.Solid {
	return &solid{mesh: m}
}

// Box creates a box with its minimum corner at the origin.
func (k *Kernel) Box(x, y, z float64) kernel.Solid {
	return &solid{mesh: boxMesh(x, y, z)}
}

// Cylinder creates a prism with the given number of sides along Z,
// centered on the origin.
func (k *Kernel) Cylinder(height, radius float64, segments int) kernel.Solid {
	if segments < 3 {
		segments = defaultSegments
	}
	return &solid{mesh: prismMesh(height, radius, segments)}
}

// Sphere creates a UV sphere centered on the origin.
func (k *Kernel) Sphere(radius float64) kernel.Solid {
	return &solid{mesh: sphereMesh(radius, defaultSegments, sphereStacks)}
}

// Union returns the union of two solids.
func (k *Kernel) Union(a, b kernel.Solid) kernel.Solid {
	return &solid{op: opUnion, a: unwrap(a), b: unwrap(b)}
}

// Difference returns the difference a - b.
func (k *Kernel) Difference(a, b kernel.Solid) kernel.Solid {
	return &solid{op: opDifference, a: unwrap(a), b: unwrap(b)}
}

// Intersection returns the intersection of two solids.
func (k *Kernel) Intersection(a, b kernel.Solid) kernel.Solid {
	return &solid{op: opIntersection, a: unwrap(a), b: unwrap(b)}
}

// Translate moves a solid by (x, y, z).
func (k *Kernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	d := r3.Vec{X: x, Y: y, Z: z}
	return unwrap(s).transform(func(v r3.Vec) r3.Vec { return r3.Add(v, d) })
}

// Rotate rotates a solid by Euler angles (degrees) around X, Y, Z axes,
// applied in that order.
func (k *Kernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	rx := r3.NewRotation(x*math.Pi/180, r3.Vec{X: 1})
	ry := r3.NewRotation(y*math.Pi/180, r3.Vec{Y: 1})
	rz := r3.NewRotation(z*math.Pi/180, r3.Vec{Z: 1})
	return unwrap(s).transform(func(v r3.Vec) r3.Vec {
		return rz.Rotate(ry.Rotate(rx.Rotate(v)))
	})
}

// Contours returns every closed loop of the section of s by p.
func (k *Kernel) Contours(s kernel.Solid, p geom.Plane, tol float64) ([]geom.Curve, error) {
	rings := unwrap(s).section(p, tol)
	out := make([]geom.Curve, 0, len(rings))
	for _, r := range rings {
		if r.Area() <= tol*tol {
			continue
		}
		out = append(out, geom.Curve{Plane: p, Ring: r})
	}
	return out, nil
}
