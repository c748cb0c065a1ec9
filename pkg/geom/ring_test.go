package geom

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
	"honnef.co/go/curve"
)

func TestRectAreaPerimeter(t *testing.T) {
	r := Rect(0, 0, 4, 3)
	if got := r.Area(); math.Abs(got-12) > 1e-12 {
		t.Errorf("Area = %g, want 12", got)
	}
	if got := r.Perimeter(); math.Abs(got-14) > 1e-12 {
		t.Errorf("Perimeter = %g, want 14", got)
	}
	if r.SignedArea() <= 0 {
		t.Errorf("Rect should be counter-clockwise, signed area %g", r.SignedArea())
	}
	if got := r.Reversed().SignedArea(); got >= 0 {
		t.Errorf("reversed signed area = %g, want negative", got)
	}
}

func TestRingContains(t *testing.T) {
	r := Rect(-1, -1, 1, 1)
	if !r.Contains(curve.Pt(0, 0)) {
		t.Error("center should be inside")
	}
	if r.Contains(curve.Pt(2, 0)) {
		t.Error("(2,0) should be outside")
	}
	if r.Reversed().Contains(curve.Pt(0, 0)) != true {
		t.Error("orientation must not affect containment")
	}
}

func TestOrientedRect(t *testing.T) {
	r := OrientedRect(curve.Pt(1, 1), curve.Vec(0, 2), 3, 1)
	b := r.Bounds()
	want := curve.Rect{X0: 0.5, Y0: 1, X1: 1.5, Y1: 4}
	if math.Abs(b.X0-want.X0) > 1e-12 || math.Abs(b.Y0-want.Y0) > 1e-12 ||
		math.Abs(b.X1-want.X1) > 1e-12 || math.Abs(b.Y1-want.Y1) > 1e-12 {
		t.Errorf("Bounds = %+v, want %+v", b, want)
	}
	if got := r.Area(); math.Abs(got-3) > 1e-12 {
		t.Errorf("Area = %g, want 3", got)
	}
}

func TestCircleSagitta(t *testing.T) {
	const radius, tol = 10.0, 0.01
	c := Circle(curve.Pt(0, 0), radius, tol)
	n := float64(len(c))
	if sag := radius * (1 - math.Cos(math.Pi/n)); sag > tol {
		t.Errorf("sagitta %g exceeds tolerance %g with %d sides", sag, tol, len(c))
	}
	if got, want := c.Area(), math.Pi*radius*radius; got > want || want-got > 2*math.Pi*radius*tol {
		t.Errorf("polygon area %g not within tolerance of %g", got, want)
	}
}

func TestRegionAreaWithHole(t *testing.T) {
	g := Region{
		Outer: Rect(0, 0, 10, 10),
		Holes: []Ring{Rect(4, 4, 6, 6)},
	}
	if got := g.Area(); math.Abs(got-96) > 1e-12 {
		t.Errorf("Area = %g, want 96", got)
	}
	if got := g.Perimeter(); math.Abs(got-48) > 1e-12 {
		t.Errorf("Perimeter = %g, want 48", got)
	}
	if g.Contains(curve.Pt(5, 5)) {
		t.Error("point in hole reported inside")
	}
	if !g.Contains(curve.Pt(1, 1)) {
		t.Error("point in material reported outside")
	}
}

func TestCurveBounds(t *testing.T) {
	c := Curve{
		Plane: AxisPlane(AxisX, r3.Vec{X: 3}),
		Ring:  Rect(0, 0, 10, 5),
	}
	b := c.Bounds()
	want := Box{Min: r3.Vec{X: 3}, Max: r3.Vec{X: 3, Y: 10, Z: 5}}
	if !b.ApproxEqual(want, 1e-12) {
		t.Errorf("Bounds = %+v, want %+v", b, want)
	}
	if got := c.Length(); math.Abs(got-30) > 1e-12 {
		t.Errorf("Length = %g, want 30", got)
	}
}

func TestChord(t *testing.T) {
	c := Chord{P0: r3.Vec{Z: 0}, P1: r3.Vec{Z: 4}}
	if c.Length() != 4 {
		t.Errorf("Length = %g, want 4", c.Length())
	}
	if c.Midpoint() != (r3.Vec{Z: 2}) {
		t.Errorf("Midpoint = %v", c.Midpoint())
	}
	if c.Direction() != (r3.Vec{Z: 1}) {
		t.Errorf("Direction = %v", c.Direction())
	}
}
