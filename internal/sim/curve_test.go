package sim

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPathCurveStraightLine(t *testing.T) {
	curve, err := BuildPathCurve([]mgl64.Vec3{{0, 0, 0}, {0, 0, 10}}, false, 10)
	require.NoError(t, err)
	require.False(t, curve.Empty())

	assert.InDelta(t, 10.0, curve.TotalLength(), 1e-6)

	mid := curve.PointAtDistance(5)
	assert.InDelta(t, 0.0, mid.Position[0], 1e-6)
	assert.InDelta(t, 0.0, mid.Position[1], 1e-6)
	assert.InDelta(t, 5.0, mid.Position[2], 1e-6)
	assert.InDelta(t, 1.0, mid.Tangent[2], 1e-6)
	assert.InDelta(t, 1.0, mid.Normal[1], 1e-6)
}

func TestBuildPathCurveTooFewPoints(t *testing.T) {
	curve, err := BuildPathCurve([]mgl64.Vec3{{1, 2, 3}}, false, 10)
	require.ErrorIs(t, err, ErrTooFewControlPoints)
	require.True(t, curve.Empty())

	// Degenerate queries answer the identity fallback, never panic.
	assert.Equal(t, 0.0, curve.TotalLength())
	p := curve.PointAtDistance(42)
	assert.Equal(t, mgl64.Vec3{}, p.Position)
	assert.Equal(t, mgl64.Vec3{0, 0, 1}, p.Tangent)
	assert.Equal(t, mgl64.Vec3{0, 1, 0}, p.Normal)
}

func TestPathCurveOpenClampsAtEnds(t *testing.T) {
	curve, err := BuildPathCurve([]mgl64.Vec3{{0, 0, 0}, {0, 0, 10}}, false, 10)
	require.NoError(t, err)

	// Querying exactly the total length answers the endpoint; an open curve
	// must never wrap back to the start.
	end := curve.PointAtDistance(curve.TotalLength())
	assert.InDelta(t, 10.0, end.Position[2], 1e-6)

	beyond := curve.PointAtDistance(curve.TotalLength() + 5)
	assert.InDelta(t, 10.0, beyond.Position[2], 1e-6)

	before := curve.PointAtDistance(-3)
	assert.InDelta(t, 0.0, before.Position[2], 1e-6)
}

func TestPathCurveArcLengthMonotonic(t *testing.T) {
	pts := []mgl64.Vec3{{-30, 0, -30}, {30, 0, -30}, {30, 0, 30}, {-30, 0, 30}}
	curve, err := BuildPathCurve(pts, true, 12)
	require.NoError(t, err)

	for i := 1; i < len(curve.cumLen); i++ {
		assert.GreaterOrEqual(t, curve.cumLen[i], curve.cumLen[i-1], "cumulative length must never decrease")
	}
	assert.Greater(t, curve.TotalLength(), curve.cumLen[len(curve.cumLen)-1],
		"closed curve includes the seam segment")
}

func TestPathCurveClosedWraps(t *testing.T) {
	pts := []mgl64.Vec3{{-30, 0, -30}, {30, 0, -30}, {30, 0, 30}, {-30, 0, 30}}
	curve, err := BuildPathCurve(pts, true, 12)
	require.NoError(t, err)

	total := curve.TotalLength()
	a := curve.PointAtDistance(7.5)
	b := curve.PointAtDistance(7.5 + total)
	c := curve.PointAtDistance(7.5 - total)
	assert.InDelta(t, a.Position[0], b.Position[0], 1e-9)
	assert.InDelta(t, a.Position[2], b.Position[2], 1e-9)
	assert.InDelta(t, a.Position[0], c.Position[0], 1e-9)
	assert.InDelta(t, a.Position[2], c.Position[2], 1e-9)
}

func TestPathCurveUnitFrames(t *testing.T) {
	pts := []mgl64.Vec3{{0, 0, 0}, {10, 3, 10}, {0, 5, 20}, {-10, 1, 10}}
	curve, err := BuildPathCurve(pts, true, 8)
	require.NoError(t, err)

	total := curve.TotalLength()
	for i := 0; i < 50; i++ {
		p := curve.PointAtDistance(total * float64(i) / 50)
		assert.InDelta(t, 1.0, p.Tangent.Len(), 1e-6)
		assert.InDelta(t, 1.0, p.Normal.Len(), 1e-6)
	}
}
