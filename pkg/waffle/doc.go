// Package waffle turns a closed solid into families of flat interlocking
// panels for laser or CNC fabrication.
//
// Two topologies are supported. Orthogonal waffles slice the solid with
// evenly spaced planes along two or three world axes; radial waffles slice
// it with horizontal planes and with planes fanned around a vertical axis.
// Wherever panels of two transverse families cross, both get a slot of
// the material thickness so they can be slotted together.
//
// The pipeline for either topology is:
//
//	planes → contours → (radial trim) → chords → notches → frames
//
// Contours, chords and notches run in parallel with a bounded worker
// count. The first degenerate plane or cut aborts the whole run and is
// reported as a *DegeneracyError naming the family and slice index; no
// partial result is returned.
package waffle
