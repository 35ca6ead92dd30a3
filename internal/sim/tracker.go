package sim

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// SurfaceSample is a transient per-probe result; never persisted across ticks.
type SurfaceSample struct {
	Point       mgl64.Vec3
	Normal      mgl64.Vec3
	Distance    float64
	Verticality float64 // |dot(normal, world-up)|: ~1 floor-like, ~0 wall-like
	Wall        bool
}

// SurfaceTracker probes for the surface around a body with a fan of rays and
// disambiguates floor-like from wall-like hits.
type SurfaceTracker struct {
	DetectionDistance float64
	WallDetectRange   float64 // wall candidacy floor: wall hits beyond this are ignored
	WallVerticality   float64

	dirs [5]mgl64.Vec3 // body-frame ray fan, reused every probe
}

func NewSurfaceTracker() *SurfaceTracker {
	return &SurfaceTracker{
		DetectionDistance: DetectionDistance,
		WallDetectRange:   WallDetectRange,
		WallVerticality:   WallVerticality,
		dirs: [5]mgl64.Vec3{
			{0, -1, 0},                 // straight down
			{0, -1, 1},                 // forward-angled-down
			{0, 0, 1},                  // forward
			{0.6, -0.35, 1},            // diagonal forward right
			{-0.6, -0.35, 1},           // diagonal forward left
		},
	}
}

// RayDirections returns the world-space ray fan for the given orientation.
// Exposed so a viewer can draw the active probe rays.
func (st *SurfaceTracker) RayDirections(rot mgl64.Quat, out []mgl64.Vec3) []mgl64.Vec3 {
	out = out[:0]
	for _, d := range st.dirs {
		out = append(out, rot.Rotate(d.Normalize()))
	}
	return out
}

// Probe casts the ray fan from origin with the body's orientation and picks
// the winning hit: the best-scoring wall candidate if any exists inside the
// wall range, otherwise the nearest ground hit. Returns false when nothing
// is within DetectionDistance — an expected condition, not an error.
func (st *SurfaceTracker) Probe(origin mgl64.Vec3, rot mgl64.Quat, caster Raycaster) (SurfaceSample, bool) {
	worldUp := mgl64.Vec3{0, 1, 0}

	var bestWall SurfaceSample
	bestWallScore := math.Inf(-1)
	haveWall := false

	var bestGround SurfaceSample
	bestGround.Distance = math.Inf(1)
	haveGround := false

	for _, local := range st.dirs {
		dir := rot.Rotate(local.Normalize())
		hit, ok := caster.CastRay(origin, dir, st.DetectionDistance)
		if !ok {
			continue
		}
		vert := math.Abs(hit.Normal.Dot(worldUp))
		if vert < st.WallVerticality {
			if hit.Distance > st.WallDetectRange {
				continue
			}
			// Reward more-vertical and closer wall hits.
			score := (st.WallVerticality - vert) + (1 - hit.Distance/st.DetectionDistance)
			if score > bestWallScore {
				bestWallScore = score
				bestWall = SurfaceSample{
					Point:       hit.Point,
					Normal:      hit.Normal,
					Distance:    hit.Distance,
					Verticality: vert,
					Wall:        true,
				}
				haveWall = true
			}
			continue
		}
		if hit.Distance < bestGround.Distance {
			bestGround = SurfaceSample{
				Point:       hit.Point,
				Normal:      hit.Normal,
				Distance:    hit.Distance,
				Verticality: vert,
			}
			haveGround = true
		}
	}

	if haveWall {
		return bestWall, true
	}
	if haveGround {
		return bestGround, true
	}
	return SurfaceSample{}, false
}
