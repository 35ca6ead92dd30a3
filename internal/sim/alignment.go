package sim

import "github.com/go-gl/mathgl/mgl64"

// SurfaceState classifies what the tracker is currently attached to.
type SurfaceState int

const (
	SurfaceNone SurfaceState = iota
	SurfaceGround
	SurfaceWall
)

func (s SurfaceState) String() string {
	switch s {
	case SurfaceGround:
		return "ground"
	case SurfaceWall:
		return "wall"
	default:
		return "none"
	}
}

// AlignmentController rotates a body so its up axis tracks the detected
// surface normal while its forward motion stays tangent to the surface, and
// applies the suction/hover/slam forces that keep it attached. With no
// surface in range it applies no force and only biases the rotation back
// toward world-up.
type AlignmentController struct {
	AlignmentThreshold float64
	AlignmentSpeed     float64
	SmoothTime         float64
	BiasRate           float64 // world-up recovery rate while detached

	SuctionForce       float64
	SuctionNearScale   float64
	SuctionFarScale    float64
	MaxSuctionDistance float64
	SuctionDamping     float64
	SuctionDampingDist float64

	HoverEnabled bool
	HoverHeight  float64
	HoverForce   float64

	SlamEnabled   bool
	SlamThreshold float64
	SlamForce     float64

	enabled    bool
	state      SurfaceState
	targetUp   mgl64.Vec3
	smoothedUp mgl64.Vec3
	upVelocity mgl64.Vec3 // smoothing spring state, persists across ticks
	normal     mgl64.Vec3 // last winning surface normal
}

func NewAlignmentController() *AlignmentController {
	return &AlignmentController{
		AlignmentThreshold: AlignmentThreshold,
		AlignmentSpeed:     AlignmentSpeed,
		SmoothTime:         UpSmoothTime,
		BiasRate:           NoSurfaceBiasRate,

		SuctionForce:       SuctionForce,
		SuctionNearScale:   SuctionNearScale,
		SuctionFarScale:    SuctionFarScale,
		MaxSuctionDistance: MaxSuctionDistance,
		SuctionDamping:     SuctionDamping,
		SuctionDampingDist: SuctionDampingDist,

		HoverHeight: HoverHeight,
		HoverForce:  HoverForce,

		SlamEnabled:   true,
		SlamThreshold: SlamThreshold,
		SlamForce:     SlamForce,

		enabled:    true,
		state:      SurfaceNone,
		targetUp:   mgl64.Vec3{0, 1, 0},
		smoothedUp: mgl64.Vec3{0, 1, 0},
		normal:     mgl64.Vec3{0, 1, 0},
	}
}

// SetEnabled toggles the controller; a disabled controller leaves the body
// entirely to its ordinary locomotion.
func (ac *AlignmentController) SetEnabled(on bool) { ac.enabled = on }

// Enabled reports whether the controller is acting on its body.
func (ac *AlignmentController) Enabled() bool { return ac.enabled }

// IsNearSurface reports whether the body is attached to ground or wall.
func (ac *AlignmentController) IsNearSurface() bool { return ac.state != SurfaceNone }

// State returns the current attachment classification.
func (ac *AlignmentController) State() SurfaceState { return ac.state }

// CurrentNormal returns the last winning surface normal (world-up when
// detached).
func (ac *AlignmentController) CurrentNormal() mgl64.Vec3 { return ac.normal }

// SmoothedUp returns the damped up vector the rotation tracks.
func (ac *AlignmentController) SmoothedUp() mgl64.Vec3 { return ac.smoothedUp }

// Update runs one tick: classify the probe result, damp the up vector,
// rotate the body, and accumulate attachment forces on it. The integrator
// scales the accumulated force by the physics step.
func (ac *AlignmentController) Update(dt float64, body Body, sample SurfaceSample, found bool) {
	if !ac.enabled || dt <= 0 {
		return
	}
	worldUp := mgl64.Vec3{0, 1, 0}

	// State transition: a hit only attaches within the alignment threshold.
	ac.state = SurfaceNone
	if found && sample.Distance <= ac.AlignmentThreshold {
		if sample.Wall {
			ac.state = SurfaceWall
		} else {
			ac.state = SurfaceGround
		}
	}

	if ac.state == SurfaceNone {
		ac.targetUp = worldUp
		ac.normal = worldUp
	} else {
		ac.targetUp = sample.Normal
		ac.normal = sample.Normal
	}

	// Critically damped smoothing is not norm-preserving; renormalize, and
	// reset outright if damping collapsed the vector.
	ac.smoothedUp = smoothDampVec3(ac.smoothedUp, ac.targetUp, &ac.upVelocity, ac.SmoothTime, dt)
	if ac.smoothedUp.Len() < 1e-4 {
		ac.smoothedUp = worldUp
		ac.upVelocity = mgl64.Vec3{}
	} else {
		ac.smoothedUp = ac.smoothedUp.Normalize()
	}

	ac.rotate(dt, body)

	// Forces track any detected hit, attached or not: suction reels the
	// body back within detection range and slam handles the far case. With
	// nothing in range the world-up bias above is the whole recovery path.
	if found {
		ac.applyForces(body, sample)
	}
}

func (ac *AlignmentController) rotate(dt float64, body Body) {
	rot := body.Rotation()
	up := ac.smoothedUp

	forward := projectOnPlane(rot.Rotate(mgl64.Vec3{0, 0, 1}), up)
	if forward.Len() < 1e-6 {
		// Forward is parallel to the normal; derive it from the right axis
		// so the look rotation stays well-defined. right x up keeps the
		// body's right axis where it is instead of mirroring it.
		right := projectOnPlane(rot.Rotate(mgl64.Vec3{1, 0, 0}), up)
		forward = right.Cross(up)
	}
	forward = safeNormalize(forward, mgl64.Vec3{0, 0, 1})

	target := lookRotation(forward, up)
	rate := ac.AlignmentSpeed
	if ac.state == SurfaceNone {
		rate = ac.BiasRate
	}
	body.SetRotation(slerpClamped(rot, target, rate, dt))
}

func (ac *AlignmentController) applyForces(body Body, sample SurfaceSample) {
	n := sample.Normal
	dist := sample.Distance

	// Suction: pull along -normal, weaker the closer the body is so it is
	// never crushed into the surface.
	mult := lerpF(ac.SuctionNearScale, ac.SuctionFarScale, dist/ac.MaxSuctionDistance)
	body.AddForce(n.Mul(-ac.SuctionForce * mult))

	// Damp approach velocity only near the surface; free-fall from height
	// must stay undamped.
	if dist < ac.SuctionDampingDist {
		vn := body.Velocity().Dot(n)
		body.AddForce(n.Mul(-vn * ac.SuctionDamping))
	}

	// Hover: spring away from the surface below the target height, silent
	// above it (it never pulls the body down).
	if ac.HoverEnabled && dist < ac.HoverHeight {
		k := 1 - dist/ac.HoverHeight
		body.AddForce(n.Mul(ac.HoverForce * k * k))
	}

	// Slam: the body drifted abnormally far from an attractive surface;
	// shove it back hard.
	if ac.SlamEnabled && dist > ac.SlamThreshold {
		body.AddForce(n.Mul(-ac.SlamForce))
	}
}
