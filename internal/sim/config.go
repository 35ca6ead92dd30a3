package sim

// Window defaults.
const (
	WindowWidth  = 1024
	WindowHeight = 768
)

// Curve sampling.
const (
	CurveResolution = 16 // subdivisions per control-point segment
)

// Road mesh defaults.
const (
	DefaultRoadWidth      = 12.0
	DefaultWidthSegments  = 16
	DefaultLengthSegments = 160
)

// Wave field.
const (
	MinWavelength = 1e-3 // zero-wavelength guard, never divide by less
	NormalEpsilon = 0.1  // finite-difference offset for surface normals
)

// Surface tracking.
const (
	DetectionDistance = 8.0
	WallDetectRange   = 4.0 // wall candidacy floor: closer than this to count as a wall
	WallVerticality   = 0.5 // |dot(normal, up)| below this is wall-like
)

// Alignment and attachment forces.
const (
	AlignmentThreshold = 3.0  // max hit distance to enter a near-surface state
	AlignmentSpeed     = 8.0  // slerp rate toward the surface rotation, 1/s
	UpSmoothTime       = 0.12 // smoothed-up damping time constant, s
	NoSurfaceBiasRate  = 1.5  // world-up recovery slerp rate when detached, 1/s

	SuctionForce       = 60.0
	SuctionNearScale   = 0.25 // distance multiplier at contact
	SuctionFarScale    = 1.0  // distance multiplier at MaxSuctionDistance
	MaxSuctionDistance = 4.0
	SuctionDamping     = 4.0
	SuctionDampingDist = 1.5 // damping only this close, free-fall stays undamped

	HoverHeight = 2.0
	HoverForce  = 80.0

	SlamThreshold = 6.0
	SlamForce     = 120.0
)

// Rigid-body integration.
const (
	PhysicsStep  = 1.0 / 120.0
	GravityY     = -9.81
	VehicleMass  = 1.0
	VehicleAccel = 30.0
	MaxDriveLag  = 0.25 // cap on accumulated frame time fed to the fixed stepper
)

// Hull contact: the built-in body rides this high above the surface; the
// clamp stands in for the penetration resolution a full engine would do.
const (
	ContactRideHeight = 0.6
	ContactCastBack   = 2.0 // lift the contact ray origin to catch penetration
)

// Spray particles.
const (
	MaxSprayParticles = 4000
	SprayGravity      = -14.0
)
