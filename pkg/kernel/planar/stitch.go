package planar

import (
	"math"

	"honnef.co/go/curve"

	"github.com/chazu/waffle/pkg/geom"
)

// Key identifies a node shared by adjacent section segments, typically the
// mesh edge or sampling-grid edge the node was interpolated on. Two
// segments meet exactly when they share a key, so stitching never depends
// on floating point comparisons.
type Key struct {
	I, J int
}

// EdgeKey returns the key for the undirected edge between vertices i and j.
func EdgeKey(i, j int) Key {
	if i > j {
		i, j = j, i
	}
	return Key{I: i, J: j}
}

// Segment is one piece of a section: a line between two keyed nodes.
type Segment struct {
	A, B   Key
	PA, PB curve.Point
}

// Stitch joins segments into closed rings. Chains that do not close are
// dropped, as are rings with fewer than three distinct points.
func Stitch(segs []Segment) []geom.Ring {
	adj := make(map[Key][]int, 2*len(segs))
	for i, s := range segs {
		if s.A == s.B {
			continue
		}
		adj[s.A] = append(adj[s.A], i)
		adj[s.B] = append(adj[s.B], i)
	}

	used := make([]bool, len(segs))
	var rings []geom.Ring
	for i, s := range segs {
		if used[i] || s.A == s.B {
			continue
		}
		used[i] = true
		start := s.A
		ring := geom.Ring{s.PA}
		cur, pt := s.B, s.PB
		closed := false
		for {
			if cur == start {
				closed = true
				break
			}
			ring = append(ring, pt)
			next := -1
			for _, j := range adj[cur] {
				if !used[j] {
					next = j
					break
				}
			}
			if next < 0 {
				break
			}
			used[next] = true
			n := segs[next]
			if n.A == cur {
				cur, pt = n.B, n.PB
			} else {
				cur, pt = n.A, n.PA
			}
		}
		if !closed {
			continue
		}
		if ring = dropCollinear(compact(ring)); len(ring) >= 3 {
			rings = append(rings, ring)
		}
	}
	return rings
}

// compact removes consecutive duplicate points, including a last point
// equal to the first.
func compact(r geom.Ring) geom.Ring {
	out := r[:0:0]
	for _, pt := range r {
		if len(out) > 0 && out[len(out)-1] == pt {
			continue
		}
		out = append(out, pt)
	}
	for len(out) > 1 && out[len(out)-1] == out[0] {
		out = out[:len(out)-1]
	}
	return out
}

// dropCollinear removes vertices that lie on the straight line through
// their neighbours. Mesh sections pick up one such vertex per triangle
// diagonal.
func dropCollinear(r geom.Ring) geom.Ring {
	out := make(geom.Ring, 0, len(r))
	for _, pt := range r {
		out = append(out, pt)
		for n := len(out); n >= 3 && collinear(out[n-3], out[n-2], out[n-1]); n = len(out) {
			out = append(out[:n-2], out[n-1])
		}
	}
	for len(out) > 3 {
		n := len(out)
		switch {
		case collinear(out[n-2], out[n-1], out[0]):
			out = out[:n-1]
		case collinear(out[n-1], out[0], out[1]):
			out = out[1:]
		default:
			return out
		}
	}
	return out
}

func collinear(a, b, c curve.Point) bool {
	u, v := b.Sub(a), c.Sub(b)
	return math.Abs(u.Cross(v)) <= 1e-12*u.Hypot()*v.Hypot() && u.Dot(v) > 0
}
