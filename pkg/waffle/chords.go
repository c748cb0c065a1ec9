package waffle

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/waffle/pkg/geom"
	"github.com/chazu/waffle/pkg/kernel"
)

// Chords holds the chords found between two families, indexed by slice on
// both sides. A chord between A[i] and B[j] appears in both A[i] and B[j].
type Chords struct {
	A [][]geom.Chord
	B [][]geom.Chord
}

// Count returns the number of distinct chords.
func (c *Chords) Count() int {
	n := 0
	for _, row := range c.A {
		n += len(row)
	}
	return n
}

type hit struct {
	j     int
	chord geom.Chord
}

// FindChords intersects every slice of a with every slice of b using
// curve-curve intersection. Pairs with exactly two intersection points
// produce a chord; every other count is ignored.
func FindChords(ctx context.Context, k kernel.Slicer, a, b []Slice, tol float64, workers int) (*Chords, error) {
	curvesB := make([]geom.Curve, len(b))
	for j, s := range b {
		curvesB[j] = s.Curve()
	}
	return findChords(ctx, len(a), len(b), workers, func(i int) []hit {
		ca := a[i].Curve()
		var hits []hit
		for j := range b {
			if c, ok := chord(k.CurveCurve(ca, curvesB[j], tol)); ok {
				hits = append(hits, hit{j: j, chord: c})
			}
		}
		return hits
	})
}

// FindPlaneChords intersects every slice of a with the cutting plane of
// every slice of b. It is used for radial panels against horizontal
// slices, which share a plane with the horizontal cut.
func FindPlaneChords(ctx context.Context, k kernel.Slicer, a, b []Slice, tol float64, workers int) (*Chords, error) {
	return findChords(ctx, len(a), len(b), workers, func(i int) []hit {
		ca := a[i].Curve()
		var hits []hit
		for j := range b {
			if c, ok := chord(k.CurvePlane(ca, b[j].Plane, tol)); ok {
				hits = append(hits, hit{j: j, chord: c})
			}
		}
		return hits
	})
}

// findChords runs row(i) for every slice of family A in parallel, one
// worker per row, then files each hit under both slices.
func findChords(ctx context.Context, na, nb, workers int, row func(i int) []hit) (*Chords, error) {
	rows := make([][]hit, na)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < na; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rows[i] = row(i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &Chords{A: make([][]geom.Chord, na), B: make([][]geom.Chord, nb)}
	for i, hits := range rows {
		for _, h := range hits {
			if h.j < 0 || h.j >= nb {
				return nil, &InvariantError{Reason: fmt.Sprintf("chord for slice %d references slice %d of %d", i, h.j, nb)}
			}
			out.A[i] = append(out.A[i], h.chord)
			out.B[h.j] = append(out.B[h.j], h.chord)
		}
	}
	return out, nil
}

// chord returns the chord between exactly two points.
func chord(pts []r3.Vec) (geom.Chord, bool) {
	if len(pts) != 2 {
		return geom.Chord{}, false
	}
	return geom.Chord{P0: pts[0], P1: pts[1]}, true
}
