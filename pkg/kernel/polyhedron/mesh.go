package polyhedron

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/waffle/pkg/geom"
	"github.com/chazu/waffle/pkg/kernel/planar"
)

// Mesh is an indexed triangle mesh. Triangles that share an edge must share
// the vertex indices of that edge; sectioning relies on it to join
// segments.
type Mesh struct {
	Vertices  []r3.Vec `json:"vertices"`
	Triangles [][3]int `json:"triangles"`
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Triangles)
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Triangles) == 0
}

// Closed reports whether every edge is shared by exactly two triangles.
func (m *Mesh) Closed() bool {
	if m.IsEmpty() {
		return false
	}
	uses := make(map[planar.Key]int, 3*len(m.Triangles)/2)
	for _, t := range m.Triangles {
		for e := 0; e < 3; e++ {
			uses[planar.EdgeKey(t[e], t[(e+1)%3])]++
		}
	}
	for _, n := range uses {
		if n != 2 {
			return false
		}
	}
	return true
}

// Bounds returns the axis-aligned bounding box of the vertices.
func (m *Mesh) Bounds() geom.Box {
	b := geom.EmptyBox()
	for _, v := range m.Vertices {
		b = b.Extend(v)
	}
	return b
}

// transform returns a copy of the mesh with f applied to every vertex.
func (m *Mesh) transform(f func(r3.Vec) r3.Vec) *Mesh {
	out := &Mesh{
		Vertices:  make([]r3.Vec, len(m.Vertices)),
		Triangles: m.Triangles,
	}
	for i, v := range m.Vertices {
		out.Vertices[i] = f(v)
	}
	return out
}

// section cuts the mesh with p and returns the stitched loops in p's frame.
// Vertices within tol of the plane are snapped onto it and count as lying
// above it, so the crossing segments always close and trace the section
// just below the plane. Faces lying in the plane with the solid above them
// are missing from that section; their outline is merged in, which is how
// a plane resting on a bottom face still sees the solid.
func (m *Mesh) section(p geom.Plane, tol float64) []geom.Ring {
	d := make([]float64, len(m.Vertices))
	for i, v := range m.Vertices {
		if d[i] = p.Distance(v); math.Abs(d[i]) <= tol {
			d[i] = 0
		}
	}
	point := func(i, j int) r3.Vec {
		if i > j {
			i, j = j, i
		}
		t := d[i] / (d[i] - d[j])
		return r3.Add(m.Vertices[i], r3.Scale(t, r3.Sub(m.Vertices[j], m.Vertices[i])))
	}

	var segs []planar.Segment
	var faces [][3]int
	for _, t := range m.Triangles {
		if d[t[0]] == 0 && d[t[1]] == 0 && d[t[2]] == 0 {
			if r3.Dot(m.normal(t), p.Normal()) < 0 {
				faces = append(faces, t)
			}
			continue
		}
		var keys []planar.Key
		var pts []r3.Vec
		for e := 0; e < 3; e++ {
			i, j := t[e], t[(e+1)%3]
			if (d[i] >= 0) != (d[j] >= 0) {
				keys = append(keys, planar.EdgeKey(i, j))
				pts = append(pts, point(i, j))
			}
		}
		if len(keys) != 2 {
			continue
		}
		segs = append(segs, planar.Segment{
			A: keys[0], B: keys[1],
			PA: p.Local(pts[0]), PB: p.Local(pts[1]),
		})
	}
	rings := planar.Stitch(segs)
	if len(faces) == 0 {
		return rings
	}
	return planar.Union(rings, m.outline(faces, p))
}

// normal returns the unnormalized outward normal of triangle t.
func (m *Mesh) normal(t [3]int) r3.Vec {
	a, b, c := m.Vertices[t[0]], m.Vertices[t[1]], m.Vertices[t[2]]
	return r3.Cross(r3.Sub(b, a), r3.Sub(c, a))
}

// outline returns the boundary loops of a set of coplanar triangles: the
// edges only one of them uses.
func (m *Mesh) outline(faces [][3]int, p geom.Plane) []geom.Ring {
	uses := make(map[planar.Key]int, 3*len(faces))
	for _, t := range faces {
		for e := 0; e < 3; e++ {
			uses[planar.EdgeKey(t[e], t[(e+1)%3])]++
		}
	}
	var segs []planar.Segment
	for _, t := range faces {
		for e := 0; e < 3; e++ {
			i, j := t[e], t[(e+1)%3]
			if uses[planar.EdgeKey(i, j)] != 1 {
				continue
			}
			segs = append(segs, planar.Segment{
				A: planar.Key{I: i, J: -1}, B: planar.Key{I: j, J: -1},
				PA: p.Local(m.Vertices[i]), PB: p.Local(m.Vertices[j]),
			})
		}
	}
	return planar.Stitch(segs)
}

// boxMesh returns the box [0,x]×[0,y]×[0,z] with outward-facing triangles.
func boxMesh(x, y, z float64) *Mesh {
	m := &Mesh{}
	for i := 0; i < 8; i++ {
		v := r3.Vec{}
		if i&1 != 0 {
			v.X = x
		}
		if i&2 != 0 {
			v.Y = y
		}
		if i&4 != 0 {
			v.Z = z
		}
		m.Vertices = append(m.Vertices, v)
	}
	quads := [6][4]int{
		{0, 2, 3, 1}, // -Z
		{4, 5, 7, 6}, // +Z
		{0, 1, 5, 4}, // -Y
		{2, 6, 7, 3}, // +Y
		{0, 4, 6, 2}, // -X
		{1, 3, 7, 5}, // +X
	}
	for _, q := range quads {
		m.Triangles = append(m.Triangles, [3]int{q[0], q[1], q[2]}, [3]int{q[0], q[2], q[3]})
	}
	return m
}

// prismMesh returns a regular prism with the given number of sides,
// approximating a cylinder along Z centered on the origin.
func prismMesh(height, radius float64, sides int) *Mesh {
	m := &Mesh{}
	h := height / 2
	for i := 0; i < sides; i++ {
		th := 2 * math.Pi * float64(i) / float64(sides)
		x, y := radius*math.Cos(th), radius*math.Sin(th)
		m.Vertices = append(m.Vertices, r3.Vec{X: x, Y: y, Z: -h}, r3.Vec{X: x, Y: y, Z: h})
	}
	bottom, top := len(m.Vertices), len(m.Vertices)+1
	m.Vertices = append(m.Vertices, r3.Vec{Z: -h}, r3.Vec{Z: h})
	for i := 0; i < sides; i++ {
		j := (i + 1) % sides
		b0, t0, b1, t1 := 2*i, 2*i+1, 2*j, 2*j+1
		m.Triangles = append(m.Triangles,
			[3]int{b0, b1, t1},
			[3]int{b0, t1, t0},
			[3]int{bottom, b1, b0},
			[3]int{top, t0, t1},
		)
	}
	return m
}

// sphereMesh returns a UV sphere centered on the origin.
func sphereMesh(radius float64, slices, stacks int) *Mesh {
	m := &Mesh{}
	south := 0
	m.Vertices = append(m.Vertices, r3.Vec{Z: -radius})
	ring := func(k int) int { return 1 + (k-1)*slices }
	for k := 1; k < stacks; k++ {
		phi := math.Pi*float64(k)/float64(stacks) - math.Pi/2
		z, r := radius*math.Sin(phi), radius*math.Cos(phi)
		for i := 0; i < slices; i++ {
			th := 2 * math.Pi * float64(i) / float64(slices)
			m.Vertices = append(m.Vertices, r3.Vec{X: r * math.Cos(th), Y: r * math.Sin(th), Z: z})
		}
	}
	north := len(m.Vertices)
	m.Vertices = append(m.Vertices, r3.Vec{Z: radius})

	for i := 0; i < slices; i++ {
		j := (i + 1) % slices
		m.Triangles = append(m.Triangles, [3]int{south, ring(1) + j, ring(1) + i})
		for k := 1; k < stacks-1; k++ {
			a, b := ring(k)+i, ring(k)+j
			c, d := ring(k+1)+j, ring(k+1)+i
			m.Triangles = append(m.Triangles, [3]int{a, b, c}, [3]int{a, c, d})
		}
		top := ring(stacks - 1)
		m.Triangles = append(m.Triangles, [3]int{north, top + i, top + j})
	}
	return m
}
