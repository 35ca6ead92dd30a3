package sim

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func calmWorld(t *testing.T) *World {
	t.Helper()
	w, err := NewWorld(WorldParams{
		ControlPoints:  []mgl64.Vec3{{0, 0, -40}, {0, 0, 40}},
		Resolution:     20,
		RoadWidth:      12,
		WidthSegments:  16,
		LengthSegments: 160,
		Waves: []WaveComponent{
			{Amplitude: 0.5, Wavelength: 20, Speed: 0.3, Direction: mgl64.Vec2{0, 1}},
		},
	})
	require.NoError(t, err)
	return w
}

func TestNewWorldPrimesProxy(t *testing.T) {
	w := calmWorld(t)

	// The proxy is live before any Step: a tick-0 probe must see the surface
	// already shaped by the field at t = 0.
	hit, ok := w.Collider.CastRay(mgl64.Vec3{0, 10, 5}, mgl64.Vec3{0, -1, 0}, 20)
	require.True(t, ok)
	assert.InDelta(t, w.Field.Height(0, 5, 0), hit.Point[1], 0.1)
}

func TestNewWorldRejectsBadTrack(t *testing.T) {
	_, err := NewWorld(WorldParams{
		ControlPoints: []mgl64.Vec3{{0, 0, 0}},
		Resolution:    10,
		RoadWidth:     12,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTooFewControlPoints)
}

func TestStepKeepsProxyInSync(t *testing.T) {
	w := calmWorld(t)

	for i := 0; i < 30; i++ {
		w.Step(PhysicsStep)
	}

	// After a step the proxy mirrors the freshly deformed vertices exactly;
	// a stale snapshot would lag the field by at least one tick.
	cur := w.Mesh.CurrentPositions()
	require.Len(t, w.Collider.verts, len(cur))
	for _, i := range []int{0, 7, len(cur) / 2, len(cur) - 1} {
		assert.Equal(t, w.Xform.PointToWorld(cur[i]), w.Collider.verts[i])
	}

	tt := w.Field.Time()
	for _, z := range []float64{-15, 0, 12.5} {
		hit, ok := w.Collider.CastRay(mgl64.Vec3{0, 10, z}, mgl64.Vec3{0, -1, 0}, 20)
		require.True(t, ok, "z=%v", z)
		assert.InDelta(t, w.Field.Height(0, z, tt), hit.Point[1], 0.1, "z=%v", z)
	}
}

func TestStepIgnoresNonPositiveDt(t *testing.T) {
	w := calmWorld(t)
	w.Step(-1)
	w.Step(0)
	assert.Equal(t, 0.0, w.Field.Time())
}

func TestVehicleStaysAttached(t *testing.T) {
	w := calmWorld(t)
	v := NewVehicle(mgl64.Vec3{0, 1.5, 0})
	w.AddVehicle(v)

	attached := 0
	steps := 1200 // 10 seconds
	for i := 0; i < steps; i++ {
		w.Step(PhysicsStep)
		if v.Alignment.IsNearSurface() {
			attached++
		}

		h := w.Field.Height(v.Body.Pos[0], v.Body.Pos[2], w.Field.Time())
		assert.Less(t, v.Body.Pos[1]-h, 4.0, "step %d: drifted off the surface", i)
		assert.Greater(t, v.Body.Pos[1]-h, -1.0, "step %d: tunneled through the surface", i)
	}

	assert.True(t, v.Alignment.IsNearSurface())
	assert.Greater(t, attached, steps*9/10, "attachment holds through the swell")
	assert.InDelta(t, 1.0, v.Body.Up()[1], 0.2, "up axis tracks the gentle surface normal")
}

func TestVehicleDrivesForward(t *testing.T) {
	w := calmWorld(t)
	v := NewVehicle(mgl64.Vec3{0, 1, -20})
	w.AddVehicle(v)
	v.Throttle = 1

	for i := 0; i < 120; i++ {
		w.Step(PhysicsStep)
	}

	assert.Greater(t, v.Body.Pos[2], -15.0, "throttle moves the body along its forward axis")
	assert.Greater(t, v.Body.Vel.Len(), 1.0)
}

func TestVehicleSteeringYaws(t *testing.T) {
	w := calmWorld(t)
	v := NewVehicle(mgl64.Vec3{0, 1, 0})
	w.AddVehicle(v)
	v.Steering = 1

	before := v.Body.Forward()
	for i := 0; i < 120; i++ {
		w.Step(PhysicsStep)
	}
	after := v.Body.Forward()

	assert.Less(t, before.Dot(after), 0.9, "a second of full steering turns the heading")
	assert.InDelta(t, 1.0, after.Len(), 1e-9)
}

func TestSprayEmitsOnlyWhileAttached(t *testing.T) {
	w := calmWorld(t)

	// Nobody riding the surface: the pool stays empty no matter how the
	// field churns.
	for i := 0; i < 240; i++ {
		w.Step(PhysicsStep)
	}
	assert.Empty(t, w.Spray.P)

	v := NewVehicle(mgl64.Vec3{0, 1, 0})
	w.AddVehicle(v)
	v.Throttle = 1
	saw := false
	for i := 0; i < 240; i++ {
		w.Step(PhysicsStep)
		saw = saw || len(w.Spray.P) > 0
		assert.LessOrEqual(t, len(w.Spray.P), w.Spray.Max)
	}
	assert.True(t, saw, "a fast attached body kicks up spray")
}

func TestTuningApplyOverridesDefaults(t *testing.T) {
	v := NewVehicle(mgl64.Vec3{})
	ts := TuningSetting{
		DetectionDistance:  11,
		AlignmentThreshold: 2,
		AlignmentSpeed:     4,
		SmoothTime:         0.2,
		SuctionForce:       45,
		HoverEnabled:       true,
		HoverHeight:        1.2,
		HoverForce:         50,
		SlamThreshold:      7,
		SlamForce:          90,
	}
	ts.Apply(v)

	assert.Equal(t, 11.0, v.Tracker.DetectionDistance)
	assert.Equal(t, 2.0, v.Alignment.AlignmentThreshold)
	assert.True(t, v.Alignment.HoverEnabled)
	assert.Equal(t, 90.0, v.Alignment.SlamForce)
}
