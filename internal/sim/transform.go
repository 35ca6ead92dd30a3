package sim

import "github.com/go-gl/mathgl/mgl64"

// Transform is the road's reference frame: world <-> local conversion for
// points and directions. Rotation must stay unit length.
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

// IdentityTransform returns a frame coincident with world space.
func IdentityTransform() Transform {
	return Transform{Rotation: mgl64.QuatIdent()}
}

func (t Transform) PointToWorld(p mgl64.Vec3) mgl64.Vec3 {
	return t.Rotation.Rotate(p).Add(t.Position)
}

func (t Transform) PointToLocal(p mgl64.Vec3) mgl64.Vec3 {
	return t.Rotation.Inverse().Rotate(p.Sub(t.Position))
}

func (t Transform) DirToWorld(d mgl64.Vec3) mgl64.Vec3 {
	return t.Rotation.Rotate(d)
}

func (t Transform) DirToLocal(d mgl64.Vec3) mgl64.Vec3 {
	return t.Rotation.Inverse().Rotate(d)
}

// Up returns the frame's up axis in world space.
func (t Transform) Up() mgl64.Vec3 {
	return t.Rotation.Rotate(mgl64.Vec3{0, 1, 0})
}
