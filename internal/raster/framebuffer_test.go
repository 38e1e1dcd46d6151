package raster

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	black = color.RGBA{A: 0xFF}
	red   = color.RGBA{R: 0xFF, A: 0xFF}
	green = color.RGBA{G: 0xFF, A: 0xFF}
)

func flat(invW float, c vec4, pts ...float) Triangle {
	var t Triangle
	for k := range t.V {
		t.V[k] = Vertex{X: pts[k*2], Y: pts[k*2+1], InvW: invW, Color: c}
	}
	return t
}

func TestFillHalf(t *testing.T) {
	f := NewFramebuffer(10, 10)
	f.Clear(black)

	tri := flat(1, vec4{1, 0, 0, 1}, 0, 0, 10, 0, 0, 10)
	f.Fill(&tri)

	assert.Equal(t, red, f.At(1, 1))
	assert.Equal(t, red, f.At(0, 8))
	assert.Equal(t, black, f.At(8, 8))
	assert.Equal(t, black, f.At(9, 9))
}

func TestFillDepthTest(t *testing.T) {
	near := flat(1, vec4{1, 0, 0, 1}, -10, -10, 30, -10, -10, 30)
	far := flat(0.5, vec4{0, 1, 0, 1}, -10, -10, -10, 30, 30, -10)

	for _, order := range [][]Triangle{{near, far}, {far, near}} {
		f := NewFramebuffer(4, 4)
		f.Clear(black)
		f.DrawTriangles(order)
		for y := range 4 {
			for x := range 4 {
				require.Equal(t, red, f.At(x, y), "pixel %d,%d", x, y)
			}
		}
	}

	f := NewFramebuffer(4, 4)
	f.Clear(black)
	f.DrawTriangles([]Triangle{far})
	assert.Equal(t, green, f.At(2, 2))
}

func TestFillDegenerate(t *testing.T) {
	f := NewFramebuffer(4, 4)
	f.Clear(black)
	line := flat(1, vec4{1, 1, 1, 1}, 0, 0, 2, 2, 4, 4)
	f.Fill(&line)
	for y := range 4 {
		for x := range 4 {
			assert.Equal(t, black, f.At(x, y))
		}
	}
}

func TestFillInterpolatesColour(t *testing.T) {
	f := NewFramebuffer(100, 1)
	f.Clear(black)

	tri := Triangle{V: [3]Vertex{
		{X: 0, Y: -100, InvW: 1, Color: vec4{0, 0, 0, 1}},
		{X: 0, Y: 100, InvW: 1, Color: vec4{0, 0, 0, 1}},
		{X: 100, Y: 0, InvW: 1, Color: vec4{1, 1, 1, 1}},
	}}
	f.Fill(&tri)

	left, right := f.At(5, 0), f.At(90, 0)
	assert.Less(t, left.R, right.R)
	assert.InDelta(t, 0.905*255, float64(right.R), 2)
}

func TestFramebufferBytes(t *testing.T) {
	f := NewFramebuffer(3, 2)
	f.Clear(color.RGBA{R: 1, G: 2, B: 3, A: 4})

	b := f.Bytes()
	require.Len(t, b, 3*2*4)
	assert.Equal(t, []byte{1, 2, 3, 4}, b[:4])

	f.Resize(3, 2)
	assert.Len(t, f.Bytes(), 24)
	f.Resize(5, 5)
	assert.Len(t, f.Bytes(), 100)
}
