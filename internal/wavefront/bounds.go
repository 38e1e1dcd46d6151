package wavefront

// Bounds is an axis aligned bounding box.
type Bounds struct {
	Min, Max vec3
}

// BoundsOf returns the bounding box of points. ok is false for an empty set.
func BoundsOf(points []vec3) (b Bounds, ok bool) {
	if len(points) == 0 {
		return Bounds{}, false
	}
	b.Min, b.Max = points[0], points[0]
	for _, p := range points[1:] {
		for i := range 3 {
			b.Min[i] = min(b.Min[i], p[i])
			b.Max[i] = max(b.Max[i], p[i])
		}
	}
	return b, true
}

// fitUnitCube returns the transform that maps points into a cube centered
// at the origin whose largest side spans 2 units. It works in float64 since
// the extent of finite float32 coordinates can overflow float32.
func fitUnitCube(points []vec3) (fit func(vec3) vec3, err error) {
	b, ok := BoundsOf(points)
	if !ok {
		return nil, ErrDegenerateMesh
	}
	var center [3]float64
	var largest float64
	for i := range 3 {
		lo, hi := float64(b.Min[i]), float64(b.Max[i])
		center[i] = lo/2 + hi/2
		largest = max(largest, hi-lo)
	}
	if largest <= 0 {
		return nil, ErrDegenerateMesh
	}
	scale := 2 / largest
	return func(p vec3) vec3 {
		for i := range 3 {
			p[i] = float((float64(p[i]) - center[i]) * scale)
		}
		return p
	}, nil
}
