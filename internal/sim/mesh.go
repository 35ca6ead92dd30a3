package sim

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrEmptyCurve is returned by GenerateSurfaceMesh for a curve with no samples.
var ErrEmptyCurve = errors.New("surface mesh needs a non-empty path curve")

// SurfaceMesh is a fixed-topology road strip following the curve's
// cross-sections. Base positions are authored once in road-local space and
// never change; current positions and normals are overwritten every Deform.
// The index buffer carries both winding orders so the strip is visible and
// collidable from both sides (the vehicle can approach under a cresting wave).
type SurfaceMesh struct {
	WidthSegments  int
	LengthSegments int
	RoadWidth      float64

	base    []mgl64.Vec3 // local, immutable after generation
	current []mgl64.Vec3 // local, rewritten per tick
	normals []mgl64.Vec3 // local, rewritten per tick
	indices []uint32     // front winding then reverse winding, never mutated
}

// GenerateSurfaceMesh lays out (widthSegments+1) x (lengthSegments+1)
// vertices: for each station along the curve, right = cross(normal, tangent)
// and the cross-section spans [-roadWidth/2, +roadWidth/2] along right.
func GenerateSurfaceMesh(curve *PathCurve, widthSegments, lengthSegments int, roadWidth float64) (*SurfaceMesh, error) {
	if widthSegments < 1 {
		widthSegments = 1
	}
	if lengthSegments < 1 {
		lengthSegments = 1
	}
	if roadWidth <= 0 {
		roadWidth = DefaultRoadWidth
	}
	m := &SurfaceMesh{
		WidthSegments:  widthSegments,
		LengthSegments: lengthSegments,
		RoadWidth:      roadWidth,
	}
	if curve == nil || curve.Empty() {
		return m, ErrEmptyCurve
	}

	vcount := (widthSegments + 1) * (lengthSegments + 1)
	m.base = make([]mgl64.Vec3, 0, vcount)
	m.current = make([]mgl64.Vec3, vcount)
	m.normals = make([]mgl64.Vec3, vcount)

	total := curve.TotalLength()
	for j := 0; j <= lengthSegments; j++ {
		d := total * float64(j) / float64(lengthSegments)
		cp := curve.PointAtDistance(d)
		right := safeNormalize(cp.Normal.Cross(cp.Tangent), mgl64.Vec3{1, 0, 0})
		for i := 0; i <= widthSegments; i++ {
			off := -roadWidth/2 + roadWidth*float64(i)/float64(widthSegments)
			m.base = append(m.base, cp.Position.Add(right.Mul(off)))
		}
	}
	copy(m.current, m.base)
	for i := range m.normals {
		m.normals[i] = mgl64.Vec3{0, 1, 0}
	}

	// Two index sets: front winding and its reverse.
	m.indices = make([]uint32, 0, widthSegments*lengthSegments*6*2)
	row := widthSegments + 1
	for j := 0; j < lengthSegments; j++ {
		for i := 0; i < widthSegments; i++ {
			a := uint32(j*row + i)
			b := a + 1
			c := a + uint32(row)
			d := c + 1
			m.indices = append(m.indices, a, c, b, b, c, d)
		}
	}
	for j := 0; j < lengthSegments; j++ {
		for i := 0; i < widthSegments; i++ {
			a := uint32(j*row + i)
			b := a + 1
			c := a + uint32(row)
			d := c + 1
			m.indices = append(m.indices, a, b, c, b, d, c)
		}
	}
	return m, nil
}

// Deform overwrites every current position and normal from the wave field at
// time t: base -> world, sample the field, displace along the road frame's up
// axis, write back world -> local. Dominant per-tick cost; no allocation.
// The collision proxy must be refreshed after this completes, never during.
func (m *SurfaceMesh) Deform(field *WaveField, t float64, xform Transform) {
	up := xform.Up()
	for i, b := range m.base {
		w := xform.PointToWorld(b)
		h := field.Height(w[0], w[2], t)
		m.current[i] = xform.PointToLocal(w.Add(up.Mul(h)))
		m.normals[i] = xform.DirToLocal(field.Normal(w[0], w[2], t))
	}
}

// VertexCount returns the fixed vertex count.
func (m *SurfaceMesh) VertexCount() int { return len(m.base) }

// BasePositions returns the undeformed local-space vertices. Read-only.
func (m *SurfaceMesh) BasePositions() []mgl64.Vec3 { return m.base }

// CurrentPositions returns the deformed local-space vertices. Read-only.
func (m *SurfaceMesh) CurrentPositions() []mgl64.Vec3 { return m.current }

// CurrentNormals returns the deformed local-space normals. Read-only.
func (m *SurfaceMesh) CurrentNormals() []mgl64.Vec3 { return m.normals }

// Indices returns both winding orders, front set first. Read-only.
func (m *SurfaceMesh) Indices() []uint32 { return m.indices }

// FrontIndexCount is the length of the front-winding prefix of Indices.
func (m *SurfaceMesh) FrontIndexCount() int { return len(m.indices) / 2 }
