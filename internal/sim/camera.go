package sim

import (
	"math"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// OrbitCamera circles a target point; the viewer keeps the target glued to
// the vehicle so the road scrolls under it.
type OrbitCamera struct {
	Target mgl64.Vec3
	Yaw    float64 // radians around world Y
	Pitch  float64 // radians above the horizon
	Dist   float64
}

func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Yaw:   math.Pi * 0.25,
		Pitch: 0.5,
		Dist:  28,
	}
}

// Eye returns the camera position in world space.
func (c *OrbitCamera) Eye() mgl64.Vec3 {
	cp := math.Cos(c.Pitch)
	return c.Target.Add(mgl64.Vec3{
		cp * math.Cos(c.Yaw) * c.Dist,
		math.Sin(c.Pitch) * c.Dist,
		cp * math.Sin(c.Yaw) * c.Dist,
	})
}

// HandleKeys orbits (J/L, I/K) and zooms (E/R) the camera.
func (c *OrbitCamera) HandleKeys(window *glfw.Window, dt float64) {
	c.Yaw += axis(window, glfw.KeyJ, glfw.KeyL) * 1.6 * dt
	c.Pitch += axis(window, glfw.KeyK, glfw.KeyI) * 1.2 * dt
	c.Pitch = clampF(c.Pitch, 0.05, 1.45)
	if window.GetKey(glfw.KeyE) == glfw.Press {
		c.Dist *= math.Exp(-1.2 * dt)
	}
	if window.GetKey(glfw.KeyR) == glfw.Press {
		c.Dist *= math.Exp(1.2 * dt)
	}
	c.Dist = clampF(c.Dist, 6, 160)
}

// Follow eases the target toward the tracked position.
func (c *OrbitCamera) Follow(pos mgl64.Vec3, dt float64) {
	t := clampF(6*dt, 0, 1)
	c.Target = c.Target.Add(pos.Sub(c.Target).Mul(t))
}

// ViewProjection builds the float32 matrix for the GL boundary.
func (c *OrbitCamera) ViewProjection(fbW, fbH int) mgl32.Mat4 {
	aspect := float32(1)
	if fbH > 0 {
		aspect = float32(fbW) / float32(fbH)
	}
	proj := mgl32.Perspective(mgl32.DegToRad(50), aspect, 0.1, 600)
	eye := c.Eye()
	view := mgl32.LookAtV(
		mgl32.Vec3{float32(eye[0]), float32(eye[1]), float32(eye[2])},
		mgl32.Vec3{float32(c.Target[0]), float32(c.Target[1]), float32(c.Target[2])},
		mgl32.Vec3{0, 1, 0},
	)
	return proj.Mul4(view)
}
