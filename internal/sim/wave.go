package sim

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// WaveComponent is one traveling sine wave in the ground (XZ) plane.
type WaveComponent struct {
	Amplitude  float64
	Wavelength float64
	Speed      float64
	Direction  mgl64.Vec2 // travel direction in the ground plane
}

// WaveField superposes traveling sine waves into a height field over world
// (x, z). Height/Normal/VerticalVelocity are pure functions of position and
// the caller-supplied time; the only state is the component list and the
// monotonic time accumulator fed by Advance.
type WaveField struct {
	components []WaveComponent
	time       float64
}

// NewWaveField sanitizes the components once at construction: directions are
// normalized, zero-length directions mute the component, and wavelengths are
// clamped away from zero so no query can divide by zero.
func NewWaveField(components []WaveComponent) *WaveField {
	cleaned := make([]WaveComponent, 0, len(components))
	for _, c := range components {
		l := c.Direction.Len()
		if l < 1e-9 {
			// A component with no direction contributes nothing rather
			// than poisoning every height with NaN.
			c.Amplitude = 0
			c.Direction = mgl64.Vec2{0, 1}
		} else {
			c.Direction = c.Direction.Mul(1 / l)
		}
		if c.Wavelength < MinWavelength {
			c.Wavelength = MinWavelength
		}
		cleaned = append(cleaned, c)
	}
	return &WaveField{components: cleaned}
}

// Advance accumulates simulation time. Never called with negative dt.
func (f *WaveField) Advance(dt float64) {
	if dt > 0 {
		f.time += dt
	}
}

// Time returns the accumulated simulation time.
func (f *WaveField) Time() float64 { return f.time }

// Components returns the sanitized component list.
func (f *WaveField) Components() []WaveComponent { return f.components }

// Height returns the summed displacement at world (x, z) and time t.
// Bounded by the sum of component amplitudes.
func (f *WaveField) Height(x, z, t float64) float64 {
	h := 0.0
	for i := range f.components {
		c := &f.components[i]
		if c.Amplitude == 0 {
			continue
		}
		phase := 2 * math.Pi * ((x*c.Direction[0]+z*c.Direction[1])/c.Wavelength + t*c.Speed)
		h += c.Amplitude * math.Sin(phase)
	}
	return h
}

// Normal returns the unit surface normal at world (x, z) and time t via
// central finite differences of Height along X and Z.
func (f *WaveField) Normal(x, z, t float64) mgl64.Vec3 {
	e := NormalEpsilon
	dx := f.Height(x+e, z, t) - f.Height(x-e, z, t)
	dz := f.Height(x, z+e, t) - f.Height(x, z-e, t)
	tx := mgl64.Vec3{2 * e, dx, 0}
	tz := mgl64.Vec3{0, dz, 2 * e}
	// Degenerate tangents would normalize into NaN; epsilon is constant and
	// positive, so the cross can only collapse if the field itself blew up.
	return safeNormalize(tz.Cross(tx), mgl64.Vec3{0, 1, 0})
}

// VerticalVelocity returns the forward-difference rate of change of Height
// at (x, z) between t and t+dt. dt is typically one physics step.
func (f *WaveField) VerticalVelocity(x, z, t, dt float64) float64 {
	if dt <= 0 {
		return 0
	}
	return (f.Height(x, z, t+dt) - f.Height(x, z, t)) / dt
}

// FlowVelocity returns the horizontal transport of the primary (first)
// component: its travel direction scaled by speed. Consumers use this as a
// push vector for surf-boost style mechanics.
func (f *WaveField) FlowVelocity() mgl64.Vec3 {
	for i := range f.components {
		c := &f.components[i]
		if c.Amplitude == 0 {
			continue
		}
		return mgl64.Vec3{c.Direction[0] * c.Speed, 0, c.Direction[1] * c.Speed}
	}
	return mgl64.Vec3{}
}

// MaxAmplitude returns the height bound: the sum of component amplitudes.
func (f *WaveField) MaxAmplitude() float64 {
	sum := 0.0
	for i := range f.components {
		sum += math.Abs(f.components[i].Amplitude)
	}
	return sum
}
