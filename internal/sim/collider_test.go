package sim

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flatCollider(t *testing.T) (*MeshCollider, *SurfaceMesh) {
	t.Helper()
	mesh, err := GenerateSurfaceMesh(testCurve(t), 8, 20, 12)
	require.NoError(t, err)
	mesh.Deform(NewWaveField(nil), 0, IdentityTransform())
	mc := NewMeshCollider()
	mc.Refresh(mesh, IdentityTransform())
	return mc, mesh
}

func TestColliderCastStraightDown(t *testing.T) {
	mc, _ := flatCollider(t)

	hit, ok := mc.CastRay(mgl64.Vec3{0, 5, 0}, mgl64.Vec3{0, -1, 0}, 10)
	require.True(t, ok)
	assert.InDelta(t, 5.0, hit.Distance, 1e-6)
	assert.InDelta(t, 0.0, hit.Point[1], 1e-6)
	assert.InDelta(t, 1.0, hit.Normal[1], 1e-6)
}

func TestColliderDoubleSided(t *testing.T) {
	mc, _ := flatCollider(t)

	// Approaching from underneath still hits, with the normal flipped to
	// oppose the ray.
	hit, ok := mc.CastRay(mgl64.Vec3{0, -5, 0}, mgl64.Vec3{0, 1, 0}, 10)
	require.True(t, ok)
	assert.InDelta(t, 5.0, hit.Distance, 1e-6)
	assert.InDelta(t, -1.0, hit.Normal[1], 1e-6)
}

func TestColliderMissesOutsideStrip(t *testing.T) {
	mc, _ := flatCollider(t)

	// Way off the side of the 12-wide strip.
	_, ok := mc.CastRay(mgl64.Vec3{50, 5, 0}, mgl64.Vec3{0, -1, 0}, 10)
	assert.False(t, ok)

	// In range laterally but the ray runs out before the surface.
	_, ok = mc.CastRay(mgl64.Vec3{0, 50, 0}, mgl64.Vec3{0, -1, 0}, 10)
	assert.False(t, ok)
}

func TestColliderTracksDeformedSurface(t *testing.T) {
	mesh, err := GenerateSurfaceMesh(testCurve(t), 16, 160, 12)
	require.NoError(t, err)
	field := singleWave()
	xform := IdentityTransform()
	mc := NewMeshCollider()

	for _, tt := range []float64{0, 0.4, 1.1} {
		mesh.Deform(field, tt, xform)
		mc.Refresh(mesh, xform)

		for _, z := range []float64{-20, -2.5, 0, 7.5, 18} {
			want := field.Height(0, z, tt)
			hit, ok := mc.CastRay(mgl64.Vec3{0, 10, z}, mgl64.Vec3{0, -1, 0}, 20)
			require.True(t, ok, "z=%v t=%v", z, tt)
			// The proxy is a triangulation of the analytic field; station
			// spacing bounds the discretization error.
			assert.InDelta(t, want, hit.Point[1], 0.1, "z=%v t=%v", z, tt)
		}
	}
}

func TestColliderAngledRay(t *testing.T) {
	mc, _ := flatCollider(t)

	dir := mgl64.Vec3{0, -1, 1}.Normalize()
	hit, ok := mc.CastRay(mgl64.Vec3{0, 3, 0}, dir, 10)
	require.True(t, ok)
	assert.InDelta(t, 0.0, hit.Point[1], 1e-6)
	assert.InDelta(t, 3.0, hit.Point[2], 1e-6)
}

func TestColliderEmpty(t *testing.T) {
	mc := NewMeshCollider()
	_, ok := mc.CastRay(mgl64.Vec3{0, 5, 0}, mgl64.Vec3{0, -1, 0}, 10)
	assert.False(t, ok)
}
