// Package planar holds the tolerance-parameterised 2D and curve/plane
// primitives shared by every kernel: curve-plane and curve-curve
// intersection, boolean region difference, decomposition of contour sets
// into regions, and stitching of section segments into closed loops.
//
// Boolean operations run on github.com/ctessum/polyclip-go. Contour sets
// use even-odd fill, which is what the clipper expects.
package planar
