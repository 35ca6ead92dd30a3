package sim

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Vehicle is a rigid body driven tangent to the wave surface: the alignment
// controller keeps it attached while throttle/steering provide ordinary
// locomotion on top.
type Vehicle struct {
	Body      *RigidBody
	Tracker   *SurfaceTracker
	Alignment *AlignmentController

	Throttle float64 // -1..1
	Steering float64 // -1..1, yaw rate factor around the smoothed up axis
	Accel    float64
	TurnRate float64 // rad/s at full steering

	// Last probe result, kept one tick for the viewer's ray/contact overlay.
	LastSample  SurfaceSample
	LastTracked bool
}

func NewVehicle(pos mgl64.Vec3) *Vehicle {
	return &Vehicle{
		Body:      NewRigidBody(pos, VehicleMass),
		Tracker:   NewSurfaceTracker(),
		Alignment: NewAlignmentController(),
		Accel:     VehicleAccel,
		TurnRate:  2.2,
	}
}

// World owns one road instance and the bodies riding it, and runs the fixed
// tick in the one legal order: wave time, mesh deform, collider refresh,
// tracker probes, alignment, integration. The collider is only written in
// the refresh step, so no probe can ever observe a half-deformed mesh.
type World struct {
	Curve    *PathCurve
	Field    *WaveField
	Mesh     *SurfaceMesh
	Collider *MeshCollider
	Xform    Transform
	Vehicles []*Vehicle
	Spray    *SpraySystem

	Gravity mgl64.Vec3
}

// WorldParams collects everything needed to build a road instance.
type WorldParams struct {
	ControlPoints  []mgl64.Vec3
	Closed         bool
	Resolution     int
	RoadWidth      float64
	WidthSegments  int
	LengthSegments int
	Waves          []WaveComponent
}

// NewWorld builds the curve, mesh, and collider. Configuration errors are
// returned once here and never again at steady state; the world is still
// usable with safe defaults when err is non-nil only if the caller decides
// the degenerate curve is acceptable.
func NewWorld(p WorldParams) (*World, error) {
	curve, err := BuildPathCurve(p.ControlPoints, p.Closed, p.Resolution)
	if err != nil {
		return nil, fmt.Errorf("build path curve: %w", err)
	}
	mesh, err := GenerateSurfaceMesh(curve, p.WidthSegments, p.LengthSegments, p.RoadWidth)
	if err != nil {
		return nil, fmt.Errorf("generate surface mesh: %w", err)
	}
	w := &World{
		Curve:    curve,
		Field:    NewWaveField(p.Waves),
		Mesh:     mesh,
		Collider: NewMeshCollider(),
		Xform:    IdentityTransform(),
		Spray:    NewSpraySystem(MaxSprayParticles, 0x5EA),
		Gravity:  mgl64.Vec3{0, GravityY, 0},
	}
	// Prime the deformed buffers and proxy so tick 0 probes a live surface.
	w.Mesh.Deform(w.Field, 0, w.Xform)
	w.Collider.Refresh(w.Mesh, w.Xform)
	return w, nil
}

func (w *World) AddVehicle(v *Vehicle) {
	w.Vehicles = append(w.Vehicles, v)
}

// Step advances one fixed tick. Strict ordering invariant: every write to
// the mesh and collider completes before any probe reads them.
func (w *World) Step(dt float64) {
	if dt <= 0 {
		return
	}

	// (1) wave time, (2) deform, (3) proxy refresh.
	w.Field.Advance(dt)
	t := w.Field.Time()
	w.Mesh.Deform(w.Field, t, w.Xform)
	w.Collider.Refresh(w.Mesh, w.Xform)

	// (4) probes, (5) alignment + drive, (6) integration.
	for _, v := range w.Vehicles {
		sample, ok := v.Tracker.Probe(v.Body.Position(), v.Body.Rotation(), w.Collider)
		v.LastSample = sample
		v.LastTracked = ok

		v.Alignment.Update(dt, v.Body, sample, ok)
		w.drive(v, dt)
		v.Body.Integrate(dt, w.Gravity)
		if ok {
			w.resolveContact(v, sample.Normal)
		}

		if ok && v.Alignment.IsNearSurface() {
			p := sample.Point
			w.Spray.Emit(p, sample.Normal, w.Field.VerticalVelocity(p[0], p[2], t, dt), v.Body.Vel.Len(), dt)
		}
	}
	w.Spray.Update(dt)
}

// resolveContact keeps the integrated body from tunneling through the strip:
// cast back along the tracked normal and, if the hull is inside the ride
// height, snap it out and kill the approach velocity. A host physics engine
// would do this in its solver; the built-in body needs the explicit clamp.
func (w *World) resolveContact(v *Vehicle, n mgl64.Vec3) {
	origin := v.Body.Pos.Add(n.Mul(ContactCastBack))
	hit, ok := w.Collider.CastRay(origin, n.Mul(-1), ContactCastBack+ContactRideHeight)
	if !ok {
		return
	}
	if hit.Distance < ContactCastBack+ContactRideHeight {
		v.Body.Pos = hit.Point.Add(n.Mul(ContactRideHeight))
		vn := v.Body.Vel.Dot(n)
		if vn < 0 {
			v.Body.Vel = v.Body.Vel.Sub(n.Mul(vn))
		}
	}
}

// drive applies throttle along the surface-tangent forward direction plus a
// yaw torque approximated as a direct rotation about the smoothed up axis,
// and damps sideways sliding so the vehicle carves instead of drifting.
func (w *World) drive(v *Vehicle, dt float64) {
	if v.Throttle == 0 && v.Steering == 0 {
		return
	}
	up := v.Alignment.SmoothedUp()

	if v.Steering != 0 {
		yaw := mgl64.QuatRotate(v.Steering*v.TurnRate*dt, up)
		v.Body.SetRotation(yaw.Mul(v.Body.Rotation()))
	}

	forward := safeNormalize(projectOnPlane(v.Body.Forward(), up), v.Body.Forward())
	v.Body.AddForce(forward.Mul(v.Throttle * v.Accel * v.Body.Mass))

	if v.Alignment.IsNearSurface() {
		right := safeNormalize(up.Cross(forward), v.Body.Right())
		lat := v.Body.Velocity().Dot(right)
		v.Body.AddForce(right.Mul(-lat * 2.0 * v.Body.Mass))
	}
}
