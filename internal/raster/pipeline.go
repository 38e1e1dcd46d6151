package raster

import (
	"sort"

	"github.com/thedaneeffect/ebiten-objviewer/internal/wavefront"
)

// Viewport maps normalized device coordinates to pixels. Screen y grows
// downwards.
type Viewport struct {
	X, Y          int
	Width, Height int
}

func (v Viewport) transform(ndcX, ndcY float) (float, float) {
	halfW := float(v.Width) / 2
	halfH := float(v.Height) / 2
	x := float(v.X) + halfW*ndcX + halfW
	y := float(v.Y) + float(v.Height) - (halfH*ndcY + halfH)
	return x, y
}

// Vertex is a projected vertex ready for rasterization.
type Vertex struct {
	X, Y   float // pixels
	InvW   float // 1/w, larger is closer
	Normal vec3  // world space
	Color  vec4  // lit colour, straight alpha
}

// Triangle is one screen-space triangle. Group indexes Mesh.Groups, or is
// -1 for triangles drawn before the first usemtl.
type Triangle struct {
	V     [3]Vertex
	Group int
	Depth float
}

// Pipeline projects meshes. Its buffers are reused between frames so a
// Pipeline must not be shared between goroutines.
type Pipeline struct {
	Viewport Viewport
	Light    Light
	Eye      vec3 // camera position, the model is assumed to sit at the origin
	Cull     bool // drop triangles facing away from the camera
	Lit      bool // shade vertex colours, the GPU path lights per pixel instead

	clip    []clipVertex
	tris    []Triangle
	scratch clipScratch
}

// Project transforms, clips and culls every triangle of mesh, and shades its
// vertices when Lit is set. The returned slice is reused by the next call.
func (p *Pipeline) Project(mesh *wavefront.Mesh, mvp mat4) []Triangle {
	p.clip = p.clip[:0]
	p.tris = p.tris[:0]

	for i := range mesh.VertexCount() {
		p.clip = append(p.clip, clipVertex{
			pos:    mvp.Mul4x1(mesh.Position(i).Vec4(1)),
			normal: mesh.Normal(i),
		})
	}

	p.emit(mesh, 0, mesh.Ungrouped(), -1, wavefront.DefaultMaterial())
	for gi, g := range mesh.Groups {
		p.emit(mesh, g.Start, g.End(), gi, g.Material)
	}
	return p.tris
}

func (p *Pipeline) emit(mesh *wavefront.Mesh, start, end, group int, m wavefront.Material) {
	for i := start; i+2 < end; i += 3 {
		a := p.clip[mesh.Indices[i]]
		b := p.clip[mesh.Indices[i+1]]
		c := p.clip[mesh.Indices[i+2]]

		if !outside(a.pos) && !outside(b.pos) && !outside(c.pos) {
			p.screenTriangle(a, b, c, group, m)
			continue
		}

		poly := p.scratch.clipTriangle(a, b, c)
		for k := 2; k < len(poly); k++ {
			p.screenTriangle(poly[0], poly[k-1], poly[k], group, m)
		}
	}
}

func (p *Pipeline) screenTriangle(a, b, c clipVertex, group int, m wavefront.Material) {
	if a.pos.W() <= 0 || b.pos.W() <= 0 || c.pos.W() <= 0 {
		return
	}

	var t Triangle
	var ndc [3][2]float
	for k, v := range [3]clipVertex{a, b, c} {
		inv := 1 / v.pos.W()
		ndc[k] = [2]float{v.pos.X() * inv, v.pos.Y() * inv}
		t.V[k].InvW = inv
		t.V[k].Normal = v.normal
	}

	// counter-clockwise in ndc faces the camera
	dx12, dy12 := ndc[1][0]-ndc[0][0], ndc[1][1]-ndc[0][1]
	dx13, dy13 := ndc[2][0]-ndc[0][0], ndc[2][1]-ndc[0][1]
	if p.Cull && dx12*dy13-dx13*dy12 <= 0 {
		return
	}

	for k := range t.V {
		t.V[k].X, t.V[k].Y = p.Viewport.transform(ndc[k][0], ndc[k][1])
		if p.Lit {
			t.V[k].Color = Shade(t.V[k].Normal, p.Eye, m, p.Light)
		}
	}
	t.Group = group
	t.Depth = (t.V[0].InvW + t.V[1].InvW + t.V[2].InvW) / 3
	p.tris = append(p.tris, t)
}

// SortBackToFront orders triangles farthest first, keeping the original
// order between triangles at equal depth.
func SortBackToFront(tris []Triangle) {
	sort.SliceStable(tris, func(i, j int) bool {
		return tris[i].Depth < tris[j].Depth
	})
}
