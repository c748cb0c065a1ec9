package waffle

import "github.com/chazu/waffle/pkg/geom"

// Dominant returns the index of the region a cut keeps: the one with the
// greatest enclosed area (holes subtracted), then the longest full
// boundary, then the earliest. It returns -1 for an empty slice.
func Dominant(regions []geom.Region) int {
	best := -1
	var bestArea, bestPerim float64
	for i, r := range regions {
		a, p := r.Area(), r.Perimeter()
		if best < 0 || a > bestArea || (a == bestArea && p > bestPerim) {
			best, bestArea, bestPerim = i, a, p
		}
	}
	return best
}
