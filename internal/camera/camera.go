// Package camera implements an orbit camera as a plain value that is advanced
// once per frame from the current input.
package camera

import (
	"math"

	mgl "github.com/go-gl/mathgl/mgl32"
)

type (
	float = float32
	vec3  = mgl.Vec3
	vec4  = mgl.Vec4
	mat4  = mgl.Mat4
)

// pitch stops just short of the poles so the view never flips
const pitchLimit = math.Pi/2 - 0.01

const (
	near = 0.1
	far  = 100
)

// State is the orbit camera: it always looks at the origin from Distance
// units away.
type State struct {
	Yaw      float
	Pitch    float
	Distance float

	Dragging bool
	LastX    int
	LastY    int
}

// Input is the input snapshot for one frame.
type Input struct {
	CursorX    int
	CursorY    int
	ButtonDown bool
	Wheel      float
	Dt         float // seconds since the previous frame
}

// Params tunes how input moves the camera.
type Params struct {
	Sensitivity float // radians per pixel dragged
	ZoomSpeed   float // distance per wheel notch
	MinDistance float
	MaxDistance float
	AutoRotate  float // radians per second while idle
}

func DefaultParams() Params {
	return Params{
		Sensitivity: 0.01,
		ZoomSpeed:   0.25,
		MinDistance: 1.5,
		MaxDistance: 20,
	}
}

// New returns a camera looking down -Z at the origin.
func New(distance float) State {
	return State{Distance: distance}
}

// Update returns the camera for the next frame.
func Update(s State, in Input, p Params) State {
	if in.ButtonDown {
		// the first pressed frame only records the cursor so the view
		// doesn't jump to wherever the last drag ended
		if s.Dragging {
			dx := float(in.CursorX - s.LastX)
			dy := float(in.CursorY - s.LastY)
			s.Yaw += dx * p.Sensitivity
			s.Pitch = mgl.Clamp(s.Pitch+dy*p.Sensitivity, -pitchLimit, pitchLimit)
		}
		s.Dragging = true
		s.LastX = in.CursorX
		s.LastY = in.CursorY
	} else {
		s.Dragging = false
		s.Yaw += p.AutoRotate * in.Dt
	}

	if s.Yaw > 2*math.Pi || s.Yaw < -2*math.Pi {
		s.Yaw = float(math.Mod(float64(s.Yaw), 2*math.Pi))
	}

	if in.Wheel != 0 {
		s.Distance -= in.Wheel * p.ZoomSpeed
	}
	if p.MaxDistance > 0 {
		s.Distance = mgl.Clamp(s.Distance, p.MinDistance, p.MaxDistance)
	}
	return s
}

func (s State) rotation() mat4 {
	return mgl.HomogRotate3DX(s.Pitch).Mul4(mgl.HomogRotate3DY(s.Yaw))
}

// View is the world to camera transform.
func (s State) View() mat4 {
	return mgl.Translate3D(0, 0, -s.Distance).Mul4(s.rotation())
}

// Eye is the camera position in world space.
func (s State) Eye() vec3 {
	inv := mgl.HomogRotate3DY(-s.Yaw).Mul4(mgl.HomogRotate3DX(-s.Pitch))
	return inv.Mul4x1(vec4{0, 0, s.Distance, 1}).Vec3()
}

// Projection is a perspective projection with a fixed depth range that
// comfortably holds a unit-cube model.
func Projection(fovY, aspect float) mat4 {
	return mgl.Perspective(fovY, aspect, near, far)
}
