package sim

import (
	"fmt"
	"runtime"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl64"
)

// RunDesktop opens the viewer window and runs the simulation until closed.
// The simulation advances on a fixed physics step regardless of frame rate.
func RunDesktop(settings Settings) error {
	runtime.LockOSThread()

	window, err := initWindow()
	if err != nil {
		return err
	}
	defer glfw.Terminate()
	defer window.Destroy()

	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl init: %w", err)
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	gl.Enable(gl.PROGRAM_POINT_SIZE)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	world, err := NewWorld(settings.WorldParams())
	if err != nil {
		return fmt.Errorf("build world: %w", err)
	}

	vehicle := NewVehicle(spawnPoint(world))
	settings.Tuning.Apply(vehicle)
	world.AddVehicle(vehicle)

	rend, err := NewRenderer(world.Mesh)
	if err != nil {
		return fmt.Errorf("renderer: %w", err)
	}
	defer rend.Destroy()

	input := NewInput()
	cam := NewOrbitCamera()
	cam.Target = vehicle.Body.Position()

	paused := false
	acc := 0.0
	last := glfw.GetTime()
	for !window.ShouldClose() {
		now := glfw.GetTime()
		dt := now - last
		last = now
		if dt > MaxDriveLag {
			dt = MaxDriveLag
		}

		glfw.PollEvents()
		if window.GetKey(glfw.KeyEscape) == glfw.Press {
			window.SetShouldClose(true)
			continue
		}
		if input.JustPressed(window, glfw.KeySpace) {
			paused = !paused
		}
		if input.JustPressed(window, glfw.KeyH) {
			vehicle.Alignment.HoverEnabled = !vehicle.Alignment.HoverEnabled
		}
		if input.JustPressed(window, glfw.KeyG) {
			vehicle.Alignment.SetEnabled(!vehicle.Alignment.Enabled())
		}
		if input.JustPressed(window, glfw.KeyT) {
			resetVehicle(world, vehicle)
		}

		// Ramp the digital keys so throttle and steering feel analog.
		rawT, rawS := VehicleControls(window)
		vehicle.Throttle = approach(vehicle.Throttle, rawT, 6*dt)
		vehicle.Steering = approach(vehicle.Steering, rawS, 8*dt)
		cam.HandleKeys(window, dt)

		if !paused {
			acc += dt
			for acc >= PhysicsStep {
				world.Step(PhysicsStep)
				acc -= PhysicsStep
			}
		}
		cam.Follow(vehicle.Body.Position(), dt)

		fbW, fbH := window.GetFramebufferSize()
		if fbW <= 0 || fbH <= 0 {
			continue
		}
		viewProj := cam.ViewProjection(fbW, fbH)

		rend.BeginFrame(fbW, fbH)
		rend.DrawSurface(world, viewProj)
		rend.DrawSpray(world.Spray, viewProj, fbH)
		rend.DrawVehicle(vehicle, viewProj, fbH)
		window.SwapBuffers()
	}
	return nil
}

// spawnPoint places the vehicle a little above the start of the track.
func spawnPoint(w *World) mgl64.Vec3 {
	cp := w.Curve.PointAtDistance(0)
	return w.Xform.PointToWorld(cp.Position).Add(mgl64.Vec3{0, 2.5, 0})
}

func resetVehicle(w *World, v *Vehicle) {
	v.Body.Pos = spawnPoint(w)
	v.Body.Vel = mgl64.Vec3{}
	v.Body.Rot = mgl64.QuatIdent()
}
