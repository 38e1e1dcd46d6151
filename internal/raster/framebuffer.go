package raster

import (
	"image/color"
	"math"
	"unsafe"
)

// Framebuffer is a software render target with a 1/w depth buffer.
// Opacity is ignored: every fragment that passes the depth test is opaque.
type Framebuffer struct {
	Width  int
	Height int

	pixels []uint32
	depth  []float
}

func NewFramebuffer(width, height int) *Framebuffer {
	f := &Framebuffer{}
	f.Resize(width, height)
	return f
}

// Resize reallocates the buffers when the size changes.
func (f *Framebuffer) Resize(width, height int) {
	if f.Width == width && f.Height == height && f.pixels != nil {
		return
	}
	f.Width = width
	f.Height = height
	f.pixels = make([]uint32, width*height)
	f.depth = make([]float, width*height)
}

func (f *Framebuffer) Clear(bg color.RGBA) {
	p := pack(bg)
	for i := range f.pixels {
		f.pixels[i] = p
	}
	clear(f.depth)
}

// Bytes exposes the pixels as RGBA bytes without copying.
func (f *Framebuffer) Bytes() []byte {
	if len(f.pixels) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(f.pixels))), len(f.pixels)*4)
}

func (f *Framebuffer) At(x, y int) color.RGBA {
	p := f.pixels[x+y*f.Width]
	return color.RGBA{R: uint8(p), G: uint8(p >> 8), B: uint8(p >> 16), A: uint8(p >> 24)}
}

func (f *Framebuffer) DrawTriangles(tris []Triangle) {
	for i := range tris {
		f.Fill(&tris[i])
	}
}

// Fill rasterizes one triangle, sampling at pixel centers. Colours are
// interpolated perspective correctly.
func (f *Framebuffer) Fill(t *Triangle) {
	a, b, c := t.V[0], t.V[1], t.V[2]
	area := edge(a, b, c.X, c.Y)
	if area == 0 {
		return
	}

	top, mid, bot := a, b, c
	if top.Y > bot.Y {
		top, bot = bot, top
	}
	if top.Y > mid.Y {
		top, mid = mid, top
	}
	if mid.Y > bot.Y {
		mid, bot = bot, mid
	}

	y0 := max(0, ceil(top.Y-0.5))
	y1 := min(f.Height-1, ceil(bot.Y-0.5)-1)

	for y := y0; y <= y1; y++ {
		yc := float(y) + 0.5

		xl := edgeX(top, bot, yc)
		xr := edgeX(mid, bot, yc)
		if yc < mid.Y {
			xr = edgeX(top, mid, yc)
		}
		if xl > xr {
			xl, xr = xr, xl
		}

		x0 := max(0, ceil(xl-0.5))
		x1 := min(f.Width-1, ceil(xr-0.5)-1)
		offset := y * f.Width

		for x := x0; x <= x1; x++ {
			xc := float(x) + 0.5
			wa := edge(b, c, xc, yc) / area
			wb := edge(c, a, xc, yc) / area
			wc := 1 - wa - wb

			depth := wa*a.InvW + wb*b.InvW + wc*c.InvW
			if depth <= f.depth[offset+x] {
				continue
			}

			col := a.Color.Mul(wa * a.InvW).
				Add(b.Color.Mul(wb * b.InvW)).
				Add(c.Color.Mul(wc * c.InvW)).
				Mul(1 / depth)

			f.depth[offset+x] = depth
			f.pixels[offset+x] = pack(color.RGBA{
				R: channel(col[0]),
				G: channel(col[1]),
				B: channel(col[2]),
				A: 0xFF,
			})
		}
	}
}

// edge is twice the signed area of (a, b, p).
func edge(a, b Vertex, x, y float) float {
	return (b.X-a.X)*(y-a.Y) - (b.Y-a.Y)*(x-a.X)
}

// edgeX is the x coordinate of edge a->b at height y.
func edgeX(a, b Vertex, y float) float {
	if b.Y == a.Y {
		return a.X
	}
	return a.X + (b.X-a.X)*(y-a.Y)/(b.Y-a.Y)
}

func ceil(v float) int {
	return int(math.Ceil(float64(v)))
}

func channel(v float) uint8 {
	return uint8(min(1, max(0, v))*255 + 0.5)
}

func pack(c color.RGBA) uint32 {
	return uint32(c.A)<<24 | uint32(c.B)<<16 | uint32(c.G)<<8 | uint32(c.R)
}
