package raster

// clipVertex is a vertex in clip space with the attributes that have to be
// carried through clipping.
type clipVertex struct {
	pos    vec4
	normal vec3
}

func lerpVertex(a, b clipVertex, t float) clipVertex {
	return clipVertex{
		pos:    a.pos.Add(b.pos.Sub(a.pos).Mul(t)),
		normal: a.normal.Add(b.normal.Sub(a.normal).Mul(t)),
	}
}

type plane struct {
	origin vec4
	normal vec4
}

// distance is positive when v is on the inside of the plane.
func (p plane) distance(v vec4) float {
	return v.Sub(p.origin).Dot(p.normal)
}

var clipPlanes = [...]plane{
	{origin: vec4{1, 0, 0, 1}, normal: vec4{-1, 0, 0, 1}}, // right
	{origin: vec4{-1, 0, 0, 1}, normal: vec4{1, 0, 0, 1}}, // left
	{origin: vec4{0, 1, 0, 1}, normal: vec4{0, -1, 0, 1}}, // top
	{origin: vec4{0, -1, 0, 1}, normal: vec4{0, 1, 0, 1}}, // bottom
	{origin: vec4{0, 0, 1, 1}, normal: vec4{0, 0, -1, 1}}, // far
	{origin: vec4{0, 0, -1, 1}, normal: vec4{0, 0, 1, 1}}, // near
}

func outside(v vec4) bool {
	x, y, z, w := v.X(), v.Y(), v.Z(), v.W()
	return x < -w || x > w || y < -w || y > w || z < -w || z > w
}

// a triangle clipped by six planes has at most 9 vertices
type clipScratch struct {
	in  [9]clipVertex
	out [9]clipVertex
}

// clipTriangle clips a triangle against the view volume with
// Sutherland-Hodgman. The result aliases s and is only valid until the next
// call.
func (s *clipScratch) clipTriangle(a, b, c clipVertex) []clipVertex {
	output := append(s.out[:0], a, b, c)
	for _, p := range clipPlanes {
		n := copy(s.in[:], output)
		input := s.in[:n]
		output = s.out[:0]
		if n == 0 {
			return nil
		}
		prev := input[n-1]
		prevDist := p.distance(prev.pos)
		for _, v := range input {
			dist := p.distance(v.pos)
			if dist > 0 {
				if prevDist <= 0 {
					output = append(output, lerpVertex(prev, v, prevDist/(prevDist-dist)))
				}
				output = append(output, v)
			} else if prevDist > 0 {
				output = append(output, lerpVertex(prev, v, prevDist/(prevDist-dist)))
			}
			prev, prevDist = v, dist
		}
	}
	return output
}
