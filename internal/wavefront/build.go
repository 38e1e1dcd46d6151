package wavefront

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

var fallbackNormal = vec3{0, 0, 1}

type group struct {
	name    string
	indices []uint32
}

type builder struct {
	materials MaterialMap

	positions []vec3
	// per-vertex normal accumulators, kept the same length as positions
	sums    []vec3
	touched []bool

	ungrouped []uint32
	groups    []*group
	byName    map[string]*group
	current   *group

	libraries []string
	face      []int
}

// Build parses OBJ text into a Mesh. Normals are always reconstructed from
// the faces; vn directives are ignored. materials may be nil, in which case
// every group uses DefaultMaterial.
func Build(text string, materials MaterialMap) (*Mesh, error) {
	b := &builder{
		materials: materials,
		byName:    map[string]*group{},
	}

	for _, l := range Lines(text) {
		var err error
		switch l.Keyword {
		case KeywordVertex:
			err = b.vertex(l)
		case KeywordUseMaterial:
			err = b.useMaterial(l)
		case KeywordFace:
			err = b.addFace(l)
		case KeywordMaterialLib:
			b.libraries = append(b.libraries, l.Fields...)
		}
		if err != nil {
			return nil, err
		}
	}

	return b.finish()
}

func (b *builder) vertex(l Line) error {
	if len(l.Fields) < 3 {
		return parseError(l, "%w: want 3 coordinates, got %d", ErrMalformed, len(l.Fields))
	}
	var p vec3
	for i := range 3 {
		f, err := strconv.ParseFloat(l.Fields[i], 32)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return parseError(l, "%w: bad coordinate %q", ErrMalformed, l.Fields[i])
		}
		p[i] = float(f)
	}
	b.positions = append(b.positions, p)
	b.sums = append(b.sums, vec3{})
	b.touched = append(b.touched, false)
	return nil
}

func (b *builder) useMaterial(l Line) error {
	name := l.Rest()
	if name == "" {
		return parseError(l, "%w: missing material name", ErrMalformed)
	}
	g, ok := b.byName[name]
	if !ok {
		g = &group{name: name}
		b.byName[name] = g
		b.groups = append(b.groups, g)
	}
	b.current = g
	return nil
}

func (b *builder) addFace(l Line) error {
	b.face = b.face[:0]
	for _, tok := range l.Fields {
		ref, _, _ := strings.Cut(tok, "/")
		n, err := strconv.Atoi(ref)
		if errors.Is(err, strconv.ErrRange) {
			return parseError(l, "%w: %s (have %d vertices)", ErrIndexRange, ref, len(b.positions))
		}
		if err != nil {
			return parseError(l, "%w: bad vertex reference %q", ErrMalformed, tok)
		}
		i := n - 1
		if i < 0 || i >= len(b.positions) {
			return parseError(l, "%w: %d (have %d vertices)", ErrIndexRange, n, len(b.positions))
		}
		b.face = append(b.face, i)
	}
	if len(b.face) < 3 {
		return parseError(l, "%w: face needs 3 vertices, got %d", ErrMalformed, len(b.face))
	}

	n := newell(b.positions, b.face)
	for _, i := range b.face {
		b.sums[i] = b.sums[i].Add(n)
		b.touched[i] = true
	}

	v0 := uint32(b.face[0])
	for i := 1; i+1 < len(b.face); i++ {
		tri := [3]uint32{v0, uint32(b.face[i]), uint32(b.face[i+1])}
		if b.current != nil {
			b.current.indices = append(b.current.indices, tri[:]...)
		} else {
			b.ungrouped = append(b.ungrouped, tri[:]...)
		}
	}
	return nil
}

// newell computes the unit normal of a polygon by Newell's method. A polygon
// without area yields the zero vector. Products are taken in float64 so large
// coordinates don't overflow.
func newell(positions []vec3, face []int) vec3 {
	var n [3]float64
	for k, i := range face {
		a := positions[i]
		c := positions[face[(k+1)%len(face)]]
		ax, ay, az := float64(a[0]), float64(a[1]), float64(a[2])
		cx, cy, cz := float64(c[0]), float64(c[1]), float64(c[2])
		n[0] += (ay - cy) * (az + cz)
		n[1] += (az - cz) * (ax + cx)
		n[2] += (ax - cx) * (ay + cy)
	}
	l := math.Sqrt(n[0]*n[0] + n[1]*n[1] + n[2]*n[2])
	if l == 0 {
		return vec3{}
	}
	return vec3{float(n[0] / l), float(n[1] / l), float(n[2] / l)}
}

func normalize(v vec3) vec3 {
	if l := v.Len(); l > 0 {
		return v.Mul(1 / l)
	}
	return v
}

func (b *builder) finish() (*Mesh, error) {
	fit, err := fitUnitCube(b.positions)
	if err != nil {
		return nil, err
	}

	mesh := &Mesh{
		Positions: make([]float, 0, len(b.positions)*3),
		Normals:   make([]float, 0, len(b.positions)*3),
		Libraries: b.libraries,
	}

	for i, p := range b.positions {
		p = fit(p)
		mesh.Positions = append(mesh.Positions, p[0], p[1], p[2])

		n := fallbackNormal
		if b.touched[i] {
			n = normalize(b.sums[i])
		}
		mesh.Normals = append(mesh.Normals, n[0], n[1], n[2])
	}

	// A material revisited after another one keeps a single range: each
	// group's triangles are laid out together in first-use order.
	total := len(b.ungrouped)
	for _, g := range b.groups {
		total += len(g.indices)
	}
	mesh.Indices = make([]uint32, 0, total)
	mesh.Indices = append(mesh.Indices, b.ungrouped...)

	for _, g := range b.groups {
		m, ok := b.materials[g.name]
		if !ok {
			m = DefaultMaterial()
			m.Name = g.name
		}
		mesh.Groups = append(mesh.Groups, MaterialGroup{
			Name:     g.name,
			Start:    len(mesh.Indices),
			Count:    len(g.indices),
			Material: m,
		})
		mesh.Indices = append(mesh.Indices, g.indices...)
	}

	return mesh, nil
}

// Libraries returns the material libraries referenced by mtllib directives
// without building the mesh, so they can be fetched before Build.
func Libraries(text string) []string {
	var libs []string
	for _, l := range Lines(text) {
		if l.Keyword == KeywordMaterialLib {
			libs = append(libs, l.Fields...)
		}
	}
	return libs
}
