// Package raster turns a wavefront.Mesh into lit, clipped screen-space
// triangles and can rasterize them in software.
package raster

import (
	"math"

	mgl "github.com/go-gl/mathgl/mgl32"

	"github.com/thedaneeffect/ebiten-objviewer/internal/wavefront"
)

type (
	float = float32
	vec3  = mgl.Vec3
	vec4  = mgl.Vec4
	mat4  = mgl.Mat4
)

// Light is a single directional light plus a uniform ambient term.
type Light struct {
	Direction vec3 // from the surface toward the light
	Color     vec3
	Ambient   float
}

func DefaultLight() Light {
	return Light{
		Direction: vec3{0.4, 0.8, 1},
		Color:     vec3{1, 1, 1},
		Ambient:   0.15,
	}
}

// Shade evaluates Blinn-Phong for a unit normal n seen from direction eye.
// The result is straight (not premultiplied) RGBA with alpha = opacity.
func Shade(n, eye vec3, m wavefront.Material, l Light) vec4 {
	rgb := m.Ambient.Mul(l.Ambient)

	dir := safeNormalize(l.Direction)
	n = safeNormalize(n)

	if diffuse := n.Dot(dir); diffuse > 0 {
		rgb = rgb.Add(hadamard(m.Diffuse, l.Color).Mul(diffuse))

		h := safeNormalize(dir.Add(safeNormalize(eye)))
		if s := n.Dot(h); s > 0 {
			spec := float(math.Pow(float64(s), float64(m.Shininess)))
			rgb = rgb.Add(hadamard(m.Specular, l.Color).Mul(spec))
		}
	}

	return vec4{
		mgl.Clamp(rgb[0], 0, 1),
		mgl.Clamp(rgb[1], 0, 1),
		mgl.Clamp(rgb[2], 0, 1),
		mgl.Clamp(m.Opacity, 0, 1),
	}
}

func hadamard(a, b vec3) vec3 {
	return vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

func safeNormalize(v vec3) vec3 {
	if l := v.Len(); l > 0 {
		return v.Mul(1 / l)
	}
	return v
}
