// Package geom defines the value types shared by the waffle pipeline and
// the geometry kernels: axes, oriented planes, bounding boxes, planar rings
// and regions, and chords.
//
// Three-dimensional vectors are gonum r3.Vec values. Planar geometry lives in
// the local (u, v) coordinates of a Plane and uses honnef.co/go/curve points,
// so area, perimeter and winding queries come from the curve package.
package geom
