package sim

import "github.com/go-gl/glfw/v3.3/glfw"

type Input struct {
	prevKeys map[glfw.Key]bool
}

func NewInput() *Input {
	return &Input{prevKeys: make(map[glfw.Key]bool)}
}

func (in *Input) JustPressed(window *glfw.Window, key glfw.Key) bool {
	down := window.GetKey(key) == glfw.Press
	jp := down && !in.prevKeys[key]
	in.prevKeys[key] = down
	return jp
}

// axis returns -1, 0, or +1 from a negative/positive key pair.
func axis(window *glfw.Window, neg, pos glfw.Key) float64 {
	v := 0.0
	if window.GetKey(neg) == glfw.Press {
		v -= 1
	}
	if window.GetKey(pos) == glfw.Press {
		v += 1
	}
	return v
}

// VehicleControls reads throttle (W/S) and steering (A/D) for the tick.
func VehicleControls(window *glfw.Window) (throttle, steering float64) {
	return axis(window, glfw.KeyS, glfw.KeyW), axis(window, glfw.KeyA, glfw.KeyD)
}
