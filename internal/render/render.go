// Package render draws a wavefront.Mesh with ebiten, either through a Kage
// shader or through the software rasterizer in package raster.
package render

import (
	"fmt"
	"image/color"

	mgl "github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/thedaneeffect/ebiten-objviewer/internal/camera"
	"github.com/thedaneeffect/ebiten-objviewer/internal/raster"
	"github.com/thedaneeffect/ebiten-objviewer/internal/wavefront"
)

// indices are 16 bit, flush before running out
const maxBatchVertices = 65535 / 3 * 3

// Frame is everything needed to draw one frame.
type Frame struct {
	Mesh       *wavefront.Mesh
	Camera     camera.State
	Projection mgl.Mat4
	Light      raster.Light
	Background color.RGBA
}

// Renderer keeps the per-frame buffers between frames to avoid allocating
// in Draw.
type Renderer struct {
	UseCPU bool
	Cull   bool

	shader   *ebiten.Shader
	pipeline raster.Pipeline

	vertices []ebiten.Vertex
	indices  []uint16

	framebuffer *raster.Framebuffer
	buffer      *ebiten.Image

	drawnTriangles int
	drawCalls      int
}

func New() (*Renderer, error) {
	shader, err := ebiten.NewShader(shaderSource)
	if err != nil {
		return nil, fmt.Errorf("compile shader: %w", err)
	}
	return &Renderer{
		Cull:   true,
		shader: shader,
	}, nil
}

// Stats reports the triangles and draw calls of the last frame.
func (r *Renderer) Stats() (triangles, drawCalls int) {
	return r.drawnTriangles, r.drawCalls
}

func (r *Renderer) Draw(target *ebiten.Image, f Frame) {
	r.drawnTriangles = 0
	r.drawCalls = 0

	if f.Mesh == nil {
		target.Fill(f.Background)
		return
	}

	bounds := target.Bounds()
	r.pipeline.Viewport = raster.Viewport{Width: bounds.Dx(), Height: bounds.Dy()}
	r.pipeline.Light = f.Light
	r.pipeline.Eye = f.Camera.Eye()
	r.pipeline.Cull = r.Cull
	r.pipeline.Lit = r.UseCPU

	mvp := f.Projection.Mul4(f.Camera.View())
	tris := r.pipeline.Project(f.Mesh, mvp)
	r.drawnTriangles = len(tris)

	if r.UseCPU {
		r.drawCPU(target, f, tris)
	} else {
		target.Fill(f.Background)
		r.drawGPU(target, f, tris)
	}
}

func (r *Renderer) drawCPU(target *ebiten.Image, f Frame, tris []raster.Triangle) {
	bounds := target.Bounds()
	if r.framebuffer == nil {
		r.framebuffer = raster.NewFramebuffer(bounds.Dx(), bounds.Dy())
	}
	r.framebuffer.Resize(bounds.Dx(), bounds.Dy())

	if r.buffer == nil || r.buffer.Bounds() != bounds {
		r.buffer = ebiten.NewImageWithOptions(bounds, &ebiten.NewImageOptions{
			Unmanaged: true,
		})
	}

	r.framebuffer.Clear(f.Background)
	r.framebuffer.DrawTriangles(tris)

	r.buffer.WritePixels(r.framebuffer.Bytes())
	target.DrawImage(r.buffer, nil)
	r.drawCalls = 1
}

// drawGPU has no depth buffer, so triangles are painted back to front and
// batched while consecutive triangles share a material.
func (r *Renderer) drawGPU(target *ebiten.Image, f Frame, tris []raster.Triangle) {
	raster.SortBackToFront(tris)

	eye := f.Camera.Eye()
	group := -2
	for _, t := range tris {
		if t.Group != group || len(r.vertices)+3 > maxBatchVertices {
			r.flush(target, f, group, eye)
			group = t.Group
		}

		first := uint16(len(r.vertices))
		for _, v := range t.V {
			n := v.Normal.Mul(v.InvW)
			r.vertices = append(r.vertices, ebiten.Vertex{
				DstX:    v.X,
				DstY:    v.Y,
				Custom0: n[0],
				Custom1: n[1],
				Custom2: n[2],
				Custom3: v.InvW,
			})
		}
		r.indices = append(r.indices, first, first+1, first+2)
	}
	r.flush(target, f, group, eye)
}

func (r *Renderer) flush(target *ebiten.Image, f Frame, group int, eye mgl.Vec3) {
	if len(r.vertices) == 0 {
		return
	}

	m := wavefront.DefaultMaterial()
	if group >= 0 && group < len(f.Mesh.Groups) {
		m = f.Mesh.Groups[group].Material
	}

	target.DrawTrianglesShader(r.vertices, r.indices, r.shader, &ebiten.DrawTrianglesShaderOptions{
		Uniforms:  uniforms(m, f.Light, eye),
		AntiAlias: false,
	})
	r.drawCalls++

	r.vertices = r.vertices[:0]
	r.indices = r.indices[:0]
}

func uniforms(m wavefront.Material, l raster.Light, eye mgl.Vec3) map[string]any {
	return map[string]any{
		"LightDir":   l.Direction[:],
		"LightColor": l.Color[:],
		"Ambient":    l.Ambient,
		"EyeDir":     eye[:],
		"Ka":         m.Ambient[:],
		"Kd":         m.Diffuse[:],
		"Ks":         m.Specular[:],
		"Shininess":  m.Shininess,
		"Opacity":    min(1, max(0, m.Opacity)),
	}
}
