package sim

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrTooFewControlPoints is returned by BuildPathCurve when fewer than two
// control points are supplied. The returned curve is still usable: every
// query answers an identity fallback instead of panicking.
var ErrTooFewControlPoints = errors.New("path curve needs at least 2 control points")

// CurvePoint is one arc-length-addressable sample of the centerline.
type CurvePoint struct {
	Position mgl64.Vec3
	Tangent  mgl64.Vec3 // unit
	Normal   mgl64.Vec3 // unit, roughly world-up, orthogonal to Tangent
}

// PathCurve is a Catmull-Rom centerline sampled into an arc-length table.
// Immutable after construction; rebuild when control points change.
type PathCurve struct {
	samples []CurvePoint
	cumLen  []float64 // cumLen[i] = arc length from sample 0 to sample i
	total   float64
	closed  bool
}

// BuildPathCurve interpolates the ordered control points with Catmull-Rom
// splines at the given subdivisions per segment. Open curves clamp the
// neighbor indices at the ends; closed curves wrap them and also wrap
// distance queries past the seam.
func BuildPathCurve(controlPoints []mgl64.Vec3, closed bool, resolution int) (*PathCurve, error) {
	if resolution < 1 {
		resolution = CurveResolution
	}
	c := &PathCurve{closed: closed}
	if len(controlPoints) < 2 {
		return c, ErrTooFewControlPoints
	}

	n := len(controlPoints)
	segs := n - 1
	if closed {
		segs = n
	}

	idx := func(i int) int {
		if closed {
			return ((i % n) + n) % n
		}
		if i < 0 {
			return 0
		}
		if i >= n {
			return n - 1
		}
		return i
	}

	c.samples = make([]CurvePoint, 0, segs*resolution+1)
	for s := 0; s < segs; s++ {
		p0 := controlPoints[idx(s-1)]
		p1 := controlPoints[idx(s)]
		p2 := controlPoints[idx(s+1)]
		p3 := controlPoints[idx(s+2)]
		last := resolution
		if !closed && s == segs-1 {
			last = resolution + 1 // include the final control point once
		}
		for i := 0; i < last; i++ {
			t := float64(i) / float64(resolution)
			pos := catmullRom(p0, p1, p2, p3, t)
			tan := catmullRomTangent(p0, p1, p2, p3, t)
			c.samples = append(c.samples, newCurvePoint(pos, tan))
		}
	}

	c.cumLen = make([]float64, len(c.samples))
	for i := 1; i < len(c.samples); i++ {
		d := c.samples[i].Position.Sub(c.samples[i-1].Position).Len()
		c.cumLen[i] = c.cumLen[i-1] + d
	}
	c.total = c.cumLen[len(c.cumLen)-1]
	if closed && len(c.samples) > 0 {
		// Seam segment back to the first sample.
		c.total += c.samples[0].Position.Sub(c.samples[len(c.samples)-1].Position).Len()
	}
	return c, nil
}

func newCurvePoint(pos, tangent mgl64.Vec3) CurvePoint {
	tan := safeNormalize(tangent, mgl64.Vec3{0, 0, 1})
	up := mgl64.Vec3{0, 1, 0}
	// Orthonormalize world-up against the tangent; vertical tangents fall
	// back to +Z so the cross-section frame never collapses.
	norm := safeNormalize(projectOnPlane(up, tan), mgl64.Vec3{0, 0, 1})
	return CurvePoint{Position: pos, Tangent: tan, Normal: norm}
}

func catmullRom(p0, p1, p2, p3 mgl64.Vec3, t float64) mgl64.Vec3 {
	t2 := t * t
	t3 := t2 * t
	a := p1.Mul(2)
	b := p2.Sub(p0).Mul(t)
	cc := p0.Mul(2).Sub(p1.Mul(5)).Add(p2.Mul(4)).Sub(p3).Mul(t2)
	d := p1.Mul(3).Sub(p0).Sub(p2.Mul(3)).Add(p3).Mul(t3)
	return a.Add(b).Add(cc).Add(d).Mul(0.5)
}

func catmullRomTangent(p0, p1, p2, p3 mgl64.Vec3, t float64) mgl64.Vec3 {
	t2 := t * t
	b := p2.Sub(p0)
	cc := p0.Mul(2).Sub(p1.Mul(5)).Add(p2.Mul(4)).Sub(p3).Mul(2 * t)
	d := p1.Mul(3).Sub(p0).Sub(p2.Mul(3)).Add(p3).Mul(3 * t2)
	return b.Add(cc).Add(d).Mul(0.5)
}

// Empty reports whether the curve was built from degenerate input.
func (c *PathCurve) Empty() bool { return len(c.samples) == 0 }

// SampleCount returns the number of arc-length samples.
func (c *PathCurve) SampleCount() int { return len(c.samples) }

// TotalLength returns the summed chord length over all samples.
func (c *PathCurve) TotalLength() float64 { return c.total }

// PointAtDistance returns the interpolated centerline point at arc length d.
// Closed curves wrap d modulo TotalLength; open curves clamp it to the ends,
// so querying exactly TotalLength answers the final sample rather than
// wrapping back to the start. An empty curve yields an identity point.
// Tangent/normal interpolation between samples is linear, an approximation
// that is fine for a road surface but not watertight at high curvature.
func (c *PathCurve) PointAtDistance(d float64) CurvePoint {
	if len(c.samples) == 0 || c.total <= 0 {
		return CurvePoint{Tangent: mgl64.Vec3{0, 0, 1}, Normal: mgl64.Vec3{0, 1, 0}}
	}
	if c.closed {
		d = math.Mod(d, c.total)
		if d < 0 {
			d += c.total
		}
	} else {
		d = clampF(d, 0, c.total)
	}

	// Walk the cumulative table for the bracketing segment.
	// Binary search keeps distance queries cheap on long tracks.
	lo, hi := 0, len(c.cumLen)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if c.cumLen[mid] <= d {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	i := lo

	a := c.samples[i]
	var b CurvePoint
	var segLen float64
	if i+1 < len(c.samples) {
		b = c.samples[i+1]
		segLen = c.cumLen[i+1] - c.cumLen[i]
	} else if c.closed {
		b = c.samples[0]
		segLen = c.total - c.cumLen[i]
	} else {
		return a
	}
	if segLen <= 1e-12 {
		return a
	}
	t := (d - c.cumLen[i]) / segLen
	return CurvePoint{
		Position: a.Position.Add(b.Position.Sub(a.Position).Mul(t)),
		Tangent:  safeNormalize(a.Tangent.Add(b.Tangent.Sub(a.Tangent).Mul(t)), a.Tangent),
		Normal:   safeNormalize(a.Normal.Add(b.Normal.Sub(a.Normal).Mul(t)), a.Normal),
	}
}
