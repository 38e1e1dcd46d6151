package wavefront

// MaterialGroup is a contiguous run of Mesh.Indices drawn with one material.
type MaterialGroup struct {
	Name     string
	Start    int
	Count    int
	Material Material
}

// End is one past the last index of the group.
func (g MaterialGroup) End() int {
	return g.Start + g.Count
}

// Mesh is the renderable result of Build. Positions and Normals hold three
// floats per vertex; Indices is a triangle list into them.
type Mesh struct {
	Positions []float
	Normals   []float
	Indices   []uint32

	// Groups are ordered by the first usemtl naming them. Their ranges abut
	// and end at len(Indices); triangles emitted before the first usemtl
	// sit in front of Groups[0].Start.
	Groups []MaterialGroup

	// Libraries lists mtllib references in source order.
	Libraries []string
}

func (m *Mesh) VertexCount() int {
	return len(m.Positions) / 3
}

func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

func (m *Mesh) Position(i int) vec3 {
	return vec3{m.Positions[i*3], m.Positions[i*3+1], m.Positions[i*3+2]}
}

func (m *Mesh) Normal(i int) vec3 {
	return vec3{m.Normals[i*3], m.Normals[i*3+1], m.Normals[i*3+2]}
}

// Group looks up a material group by name.
func (m *Mesh) Group(name string) (MaterialGroup, bool) {
	for _, g := range m.Groups {
		if g.Name == name {
			return g, true
		}
	}
	return MaterialGroup{}, false
}

// Ungrouped returns the number of leading indices drawn without a usemtl.
func (m *Mesh) Ungrouped() int {
	if len(m.Groups) == 0 {
		return len(m.Indices)
	}
	return m.Groups[0].Start
}
