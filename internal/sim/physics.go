package sim

import "github.com/go-gl/mathgl/mgl64"

// RayHit is the result of a successful raycast.
type RayHit struct {
	Point    mgl64.Vec3
	Normal   mgl64.Vec3 // unit, opposing the ray
	Distance float64
}

// Raycaster is the narrow physics-query capability the tracker consumes.
// MeshCollider implements it; an adapter over any other physics engine can
// stand in without the core noticing.
type Raycaster interface {
	CastRay(origin, dir mgl64.Vec3, maxDist float64) (RayHit, bool)
}

// Body is the rigid-body capability the alignment controller drives: read
// pose and velocity, set rotation, accumulate forces for the integrator.
type Body interface {
	Position() mgl64.Vec3
	Rotation() mgl64.Quat
	SetRotation(mgl64.Quat)
	Velocity() mgl64.Vec3
	AddForce(mgl64.Vec3)
}

// RigidBody is the built-in Body implementation: a point-mass pose with a
// per-tick force accumulator and semi-implicit Euler integration.
type RigidBody struct {
	Pos  mgl64.Vec3
	Rot  mgl64.Quat
	Vel  mgl64.Vec3
	Mass float64

	// GravityScale lets an attached body trade world gravity for suction.
	GravityScale float64

	force mgl64.Vec3
}

func NewRigidBody(pos mgl64.Vec3, mass float64) *RigidBody {
	if mass <= 0 {
		mass = 1
	}
	return &RigidBody{
		Pos:          pos,
		Rot:          mgl64.QuatIdent(),
		Mass:         mass,
		GravityScale: 1,
	}
}

func (rb *RigidBody) Position() mgl64.Vec3  { return rb.Pos }
func (rb *RigidBody) Rotation() mgl64.Quat  { return rb.Rot }
func (rb *RigidBody) Velocity() mgl64.Vec3  { return rb.Vel }
func (rb *RigidBody) SetRotation(q mgl64.Quat) { rb.Rot = q.Normalize() }

// AddForce accumulates a force for the next Integrate call.
func (rb *RigidBody) AddForce(f mgl64.Vec3) {
	rb.force = rb.force.Add(f)
}

// Forward returns the body's +Z axis in world space.
func (rb *RigidBody) Forward() mgl64.Vec3 { return rb.Rot.Rotate(mgl64.Vec3{0, 0, 1}) }

// Up returns the body's +Y axis in world space.
func (rb *RigidBody) Up() mgl64.Vec3 { return rb.Rot.Rotate(mgl64.Vec3{0, 1, 0}) }

// Right returns the body's +X axis in world space.
func (rb *RigidBody) Right() mgl64.Vec3 { return rb.Rot.Rotate(mgl64.Vec3{1, 0, 0}) }

// Integrate applies gravity plus the accumulated forces over dt and advances
// the position (semi-implicit Euler), then clears the accumulator.
func (rb *RigidBody) Integrate(dt float64, gravity mgl64.Vec3) {
	acc := gravity.Mul(rb.GravityScale).Add(rb.force.Mul(1 / rb.Mass))
	rb.Vel = rb.Vel.Add(acc.Mul(dt))
	rb.Pos = rb.Pos.Add(rb.Vel.Mul(dt))
	rb.force = mgl64.Vec3{}
}
