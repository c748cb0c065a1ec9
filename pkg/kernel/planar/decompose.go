package planar

import (
	"sort"

	"github.com/chazu/waffle/pkg/geom"
)

// Decompose groups an even-odd contour set into regions. A ring nested
// inside an even number of others is an outer boundary; a ring nested
// inside an odd number is a hole of the smallest outer that contains it.
// Rings with area below minArea are discarded. Outer rings are returned
// counter-clockwise and holes clockwise, largest region first.
func Decompose(rings []geom.Ring, minArea float64) []geom.Region {
	var kept []geom.Ring
	for _, r := range rings {
		if r.Area() > minArea {
			kept = append(kept, r.CCW())
		}
	}
	n := len(kept)
	area := make([]float64, n)
	for i, r := range kept {
		area[i] = r.Area()
	}

	// parent[i] is the smallest ring containing ring i, or -1.
	parent := make([]int, n)
	depth := make([]int, n)
	for i := range kept {
		parent[i] = -1
		for j := range kept {
			if i == j || area[j] <= area[i] || !inside(kept[i], kept[j]) {
				continue
			}
			depth[i]++
			if parent[i] < 0 || area[j] < area[parent[i]] {
				parent[i] = j
			}
		}
	}

	index := make(map[int]int)
	var out []geom.Region
	for i, r := range kept {
		if depth[i]%2 == 0 {
			index[i] = len(out)
			out = append(out, geom.Region{Outer: r})
		}
	}
	for i, r := range kept {
		if depth[i]%2 == 1 && parent[i] >= 0 {
			k, ok := index[parent[i]]
			if !ok {
				continue
			}
			out[k].Holes = append(out[k].Holes, r.Reversed())
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Area() > out[b].Area()
	})
	return out
}

// inside reports whether ring a lies inside ring b. Rings from a valid
// clipper result never cross, so a majority vote over a's vertices is
// enough and tolerates vertices that sit on b's boundary.
func inside(a, b geom.Ring) bool {
	if !overlaps(a, b) {
		return false
	}
	in, out := 0, 0
	for _, pt := range a {
		if b.Contains(pt) {
			in++
		} else {
			out++
		}
	}
	return in > out
}

func overlaps(a, b geom.Ring) bool {
	ba, bb := a.Bounds(), b.Bounds()
	return ba.X0 <= bb.X1 && bb.X0 <= ba.X1 && ba.Y0 <= bb.Y1 && bb.Y0 <= ba.Y1
}
