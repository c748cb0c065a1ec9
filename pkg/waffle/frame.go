package waffle

import "github.com/chazu/waffle/pkg/geom"

// ResolveFrame returns the placement frame of a finished slice: the slice
// plane moved to the center of the slice's in-plane bounding box.
func ResolveFrame(s Slice) geom.Plane {
	c := s.Region.Bounds().Center()
	return s.Plane.WithOrigin(s.Plane.World(c))
}
