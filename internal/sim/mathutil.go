package sim

import (
	"github.com/go-gl/mathgl/mgl64"
)

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func lerpF(a, b, t float64) float64 {
	return a + (b-a)*clampF(t, 0, 1)
}

func approach(cur, target, maxDelta float64) float64 {
	if cur < target {
		cur += maxDelta
		if cur > target {
			cur = target
		}
		return cur
	}
	if cur > target {
		cur -= maxDelta
		if cur < target {
			cur = target
		}
	}
	return cur
}

// safeNormalize returns the unit vector, or fallback when the input is too
// short to normalize without amplifying noise into NaN.
func safeNormalize(v, fallback mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l < 1e-8 {
		return fallback
	}
	return v.Mul(1 / l)
}

// projectOnPlane removes the component of v along the (unit) plane normal.
func projectOnPlane(v, normal mgl64.Vec3) mgl64.Vec3 {
	return v.Sub(normal.Mul(v.Dot(normal)))
}

// smoothDampVec3 critically-damped-springs current toward target over roughly
// smoothTime seconds. velocity persists across calls and must be owned by the
// caller. Standard Game Programming Gems formulation.
func smoothDampVec3(current, target mgl64.Vec3, velocity *mgl64.Vec3, smoothTime, dt float64) mgl64.Vec3 {
	if smoothTime < 1e-4 {
		smoothTime = 1e-4
	}
	omega := 2.0 / smoothTime
	x := omega * dt
	exp := 1.0 / (1.0 + x + 0.48*x*x + 0.235*x*x*x)

	change := current.Sub(target)
	temp := velocity.Add(change.Mul(omega)).Mul(dt)
	*velocity = velocity.Sub(temp.Mul(omega)).Mul(exp)
	return target.Add(change.Add(temp).Mul(exp))
}

// lookRotation builds the orientation whose +Z is forward and +Y is up.
// forward and up must be non-parallel; forward wins, up is re-orthogonalized.
func lookRotation(forward, up mgl64.Vec3) mgl64.Quat {
	f := safeNormalize(forward, mgl64.Vec3{0, 0, 1})
	r := safeNormalize(up.Cross(f), mgl64.Vec3{1, 0, 0})
	u := f.Cross(r)
	m := mgl64.Mat3FromCols(r, u, f)
	return mgl64.Mat4ToQuat(m.Mat4()).Normalize()
}

// slerpClamped slerps from a to b by rate*dt, saturating at b.
func slerpClamped(a, b mgl64.Quat, rate, dt float64) mgl64.Quat {
	t := clampF(rate*dt, 0, 1)
	return mgl64.QuatSlerp(a.Normalize(), b.Normalize(), t)
}

// Rand is a tiny deterministic RNG (xorshift64*).
type Rand struct {
	s uint64
}

func NewRand(seed uint64) *Rand {
	if seed == 0 {
		seed = 1
	}
	return &Rand{s: seed}
}

func (r *Rand) NextU64() uint64 {
	x := r.s
	x ^= x >> 12
	x ^= x << 25
	x ^= x >> 27
	r.s = x
	return x * 2685821657736338717
}

func (r *Rand) Float64() float64 {
	return float64(r.NextU64()>>11) * (1.0 / (1 << 53))
}

func (r *Rand) RangeF(min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + (max-min)*r.Float64()
}
