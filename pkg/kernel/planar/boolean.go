package planar

import (
	polyclip "github.com/ctessum/polyclip-go"
	"honnef.co/go/curve"

	"github.com/chazu/waffle/pkg/geom"
)

// Contour sets passed to the functions below are lists of rings filled by
// the even-odd rule; orientation is ignored.

// Union returns the rings bounding the union of a and b.
func Union(a, b []geom.Ring) []geom.Ring {
	return construct(polyclip.UNION, a, b)
}

// Difference returns the rings bounding a minus b.
func Difference(a, b []geom.Ring) []geom.Ring {
	return construct(polyclip.DIFFERENCE, a, b)
}

// Intersection returns the rings bounding the overlap of a and b.
func Intersection(a, b []geom.Ring) []geom.Ring {
	return construct(polyclip.INTERSECTION, a, b)
}

// UnionAll merges possibly overlapping simple rings into one contour set.
// Listing overlapping rings side by side would cancel their overlap under
// even-odd fill, so they are merged one at a time.
func UnionAll(rings []geom.Ring) []geom.Ring {
	var acc []geom.Ring
	for _, r := range rings {
		if len(r) < 3 {
			continue
		}
		if acc == nil {
			acc = []geom.Ring{r}
			continue
		}
		acc = Union(acc, []geom.Ring{r})
	}
	return acc
}

func construct(op polyclip.Op, a, b []geom.Ring) []geom.Ring {
	if len(b) == 0 {
		switch op {
		case polyclip.INTERSECTION:
			return nil
		default:
			return a
		}
	}
	if len(a) == 0 {
		if op == polyclip.UNION {
			return b
		}
		return nil
	}
	return fromPolygon(toPolygon(a).Construct(op, toPolygon(b)))
}

func toPolygon(rings []geom.Ring) polyclip.Polygon {
	poly := make(polyclip.Polygon, 0, len(rings))
	for _, r := range rings {
		if len(r) < 3 {
			continue
		}
		c := make(polyclip.Contour, len(r))
		for i, pt := range r {
			c[i] = polyclip.Point{X: pt.X, Y: pt.Y}
		}
		poly = append(poly, c)
	}
	return poly
}

func fromPolygon(poly polyclip.Polygon) []geom.Ring {
	out := make([]geom.Ring, 0, len(poly))
	for _, c := range poly {
		r := make(geom.Ring, len(c))
		for i, pt := range c {
			r[i] = curve.Pt(pt.X, pt.Y)
		}
		if r = compact(r); len(r) >= 3 {
			out = append(out, r)
		}
	}
	return out
}
