package sim

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// MeshCollider is the raycastable proxy of a SurfaceMesh. Refresh mirrors the
// deformed vertices/normals into world space and rebuilds a uniform XZ cell
// grid over the front-winding triangles; CastRay walks that grid so a probe
// only tests nearby triangles instead of the whole strip.
//
// Ownership: written only by Refresh, which the tick runs strictly after the
// deform pass. Everything else gets read-only access through CastRay.
type MeshCollider struct {
	verts []mgl64.Vec3 // world space
	norms []mgl64.Vec3 // world space, unit
	tris  []uint32     // front winding only; intersection is double-sided

	minX, minZ float64
	cellSize   float64
	nx, nz     int
	cells      [][]int32

	visited []uint32 // per-triangle stamp, dedupes cell walks
	stamp   uint32
}

func NewMeshCollider() *MeshCollider {
	return &MeshCollider{}
}

// Refresh snapshots the mesh's current geometry in world space and rebuilds
// the cell grid. Buffers are reused across ticks.
func (mc *MeshCollider) Refresh(mesh *SurfaceMesh, xform Transform) {
	cur := mesh.CurrentPositions()
	nrm := mesh.CurrentNormals()
	if cap(mc.verts) < len(cur) {
		mc.verts = make([]mgl64.Vec3, len(cur))
		mc.norms = make([]mgl64.Vec3, len(cur))
	}
	mc.verts = mc.verts[:len(cur)]
	mc.norms = mc.norms[:len(cur)]

	minX, minZ := math.Inf(1), math.Inf(1)
	maxX, maxZ := math.Inf(-1), math.Inf(-1)
	for i := range cur {
		w := xform.PointToWorld(cur[i])
		mc.verts[i] = w
		mc.norms[i] = xform.DirToWorld(nrm[i])
		minX = math.Min(minX, w[0])
		maxX = math.Max(maxX, w[0])
		minZ = math.Min(minZ, w[2])
		maxZ = math.Max(maxZ, w[2])
	}
	mc.tris = mesh.Indices()[:mesh.FrontIndexCount()]

	triCount := len(mc.tris) / 3
	if cap(mc.visited) < triCount {
		mc.visited = make([]uint32, triCount)
	}
	mc.visited = mc.visited[:triCount]

	// Grid sized so a cell holds a handful of triangles.
	span := math.Max(maxX-minX, maxZ-minZ)
	if span < 1e-6 {
		span = 1e-6
	}
	mc.cellSize = math.Max(span/96, 1e-3)
	mc.minX, mc.minZ = minX, minZ
	mc.nx = int((maxX-minX)/mc.cellSize) + 1
	mc.nz = int((maxZ-minZ)/mc.cellSize) + 1
	want := mc.nx * mc.nz
	if cap(mc.cells) < want {
		mc.cells = make([][]int32, want)
	}
	mc.cells = mc.cells[:want]
	for i := range mc.cells {
		mc.cells[i] = mc.cells[i][:0]
	}

	// Insert each triangle into every cell its XZ bounds cover, inflated by
	// half a cell so the sampled ray walk in CastRay cannot clip past it.
	pad := mc.cellSize * 0.5
	for ti := 0; ti < triCount; ti++ {
		v0 := mc.verts[mc.tris[ti*3]]
		v1 := mc.verts[mc.tris[ti*3+1]]
		v2 := mc.verts[mc.tris[ti*3+2]]
		tminX := math.Min(v0[0], math.Min(v1[0], v2[0])) - pad
		tmaxX := math.Max(v0[0], math.Max(v1[0], v2[0])) + pad
		tminZ := math.Min(v0[2], math.Min(v1[2], v2[2])) - pad
		tmaxZ := math.Max(v0[2], math.Max(v1[2], v2[2])) + pad
		x0, z0 := mc.cellIndex(tminX, tminZ)
		x1, z1 := mc.cellIndex(tmaxX, tmaxZ)
		for cz := z0; cz <= z1; cz++ {
			for cx := x0; cx <= x1; cx++ {
				ci := cz*mc.nx + cx
				mc.cells[ci] = append(mc.cells[ci], int32(ti))
			}
		}
	}
}

func (mc *MeshCollider) cellIndex(x, z float64) (int, int) {
	cx := int((x - mc.minX) / mc.cellSize)
	cz := int((z - mc.minZ) / mc.cellSize)
	if cx < 0 {
		cx = 0
	}
	if cx >= mc.nx {
		cx = mc.nx - 1
	}
	if cz < 0 {
		cz = 0
	}
	if cz >= mc.nz {
		cz = mc.nz - 1
	}
	return cx, cz
}

// CastRay finds the closest double-sided triangle intersection within
// maxDist. The hit normal is the barycentric blend of the deformed vertex
// normals, flipped to oppose the ray.
func (mc *MeshCollider) CastRay(origin, dir mgl64.Vec3, maxDist float64) (RayHit, bool) {
	if len(mc.tris) == 0 || maxDist <= 0 {
		return RayHit{}, false
	}
	d := safeNormalize(dir, mgl64.Vec3{})
	if d.Len() == 0 {
		return RayHit{}, false
	}

	mc.stamp++
	if mc.stamp == 0 { // stamp wrapped, invalidate everything
		for i := range mc.visited {
			mc.visited[i] = 0
		}
		mc.stamp = 1
	}

	best := RayHit{Distance: maxDist + 1}
	found := false

	// Sample the ray's XZ projection at half-cell steps; triangle insertion
	// is padded by the same half cell, so this conservative walk covers
	// every cell the true ray footprint touches. A vertical ray degenerates
	// to its single column, which the first sample already visits.
	step := mc.cellSize * 0.5
	horiz := math.Hypot(d[0], d[2])
	steps := 1
	if horiz > 1e-9 {
		steps = int(maxDist*horiz/step) + 2
	}
	lastCx, lastCz := -1, -1
	for s := 0; s < steps; s++ {
		t := math.Min(float64(s)*step/math.Max(horiz, 1e-9), maxDist)
		px := origin[0] + d[0]*t
		pz := origin[2] + d[2]*t
		cx, cz := mc.cellIndex(px, pz)
		if cx == lastCx && cz == lastCz {
			continue
		}
		lastCx, lastCz = cx, cz
		for _, ti := range mc.cells[cz*mc.nx+cx] {
			if mc.visited[ti] == mc.stamp {
				continue
			}
			mc.visited[ti] = mc.stamp
			if hit, ok := mc.intersectTriangle(int(ti), origin, d, maxDist); ok && hit.Distance < best.Distance {
				best = hit
				found = true
			}
		}
	}
	if !found {
		return RayHit{}, false
	}
	return best, true
}

// intersectTriangle is Moller-Trumbore without backface culling.
func (mc *MeshCollider) intersectTriangle(ti int, origin, dir mgl64.Vec3, maxDist float64) (RayHit, bool) {
	i0 := mc.tris[ti*3]
	i1 := mc.tris[ti*3+1]
	i2 := mc.tris[ti*3+2]
	v0 := mc.verts[i0]
	e1 := mc.verts[i1].Sub(v0)
	e2 := mc.verts[i2].Sub(v0)

	p := dir.Cross(e2)
	det := e1.Dot(p)
	if math.Abs(det) < 1e-12 {
		return RayHit{}, false
	}
	inv := 1 / det
	s := origin.Sub(v0)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return RayHit{}, false
	}
	q := s.Cross(e1)
	v := dir.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return RayHit{}, false
	}
	t := e2.Dot(q) * inv
	if t < 1e-6 || t > maxDist {
		return RayHit{}, false
	}

	n := mc.norms[i0].Mul(1 - u - v).Add(mc.norms[i1].Mul(u)).Add(mc.norms[i2].Mul(v))
	n = safeNormalize(n, e1.Cross(e2).Normalize())
	if n.Dot(dir) > 0 {
		n = n.Mul(-1)
	}
	return RayHit{
		Point:    origin.Add(dir.Mul(t)),
		Normal:   n,
		Distance: t,
	}, true
}
