package waffle

import "github.com/chazu/waffle/pkg/geom"

// Result is the output of one pipeline run.
type Result struct {
	RunID    string         `json:"run_id"`
	Topology string         `json:"topology"`
	Families []FamilyResult `json:"families"`
}

// FamilyResult holds the finished slices of one family, in plane order,
// with a placement frame and a world-space bounding box per slice.
type FamilyResult struct {
	Name   string       `json:"name"`
	Slices []Slice      `json:"slices"`
	Frames []geom.Plane `json:"frames"`
	Bounds []geom.Box   `json:"bounds"`
}

// Family returns the family with the given name.
func (r *Result) Family(name string) (FamilyResult, bool) {
	for _, f := range r.Families {
		if f.Name == name {
			return f, true
		}
	}
	return FamilyResult{}, false
}

// SliceCount returns the number of slices across all families.
func (r *Result) SliceCount() int {
	n := 0
	for _, f := range r.Families {
		n += len(f.Slices)
	}
	return n
}

func finish(name string, slices []Slice) FamilyResult {
	f := FamilyResult{
		Name:   name,
		Slices: slices,
		Frames: make([]geom.Plane, len(slices)),
		Bounds: make([]geom.Box, len(slices)),
	}
	for i, s := range slices {
		f.Frames[i] = ResolveFrame(s)
		f.Bounds[i] = s.Bounds()
	}
	return f
}
