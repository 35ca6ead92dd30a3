package sim

import "github.com/go-gl/mathgl/mgl64"

// SprayParticle is one short-lived droplet thrown off the contact patch.
type SprayParticle struct {
	Pos mgl64.Vec3
	Vel mgl64.Vec3

	Size    float64
	Life    float64
	MaxLife float64
}

// SpraySystem is a fixed-capacity pool with circular overwrite when full.
// Purely cosmetic: the viewer renders it, the simulation never reads it.
type SpraySystem struct {
	Max    int
	P      []SprayParticle
	rng    *Rand
	ovrIdx int // circular overwrite index when full

	emitCarry float64 // fractional emissions carried between ticks
}

func NewSpraySystem(maxParticles int, seed uint64) *SpraySystem {
	if maxParticles <= 0 {
		maxParticles = MaxSprayParticles
	}
	return &SpraySystem{
		Max: maxParticles,
		P:   make([]SprayParticle, 0, maxParticles),
		rng: NewRand(seed),
	}
}

func (ss *SpraySystem) Clear() {
	ss.P = ss.P[:0]
	ss.ovrIdx = 0
	ss.emitCarry = 0
}

func (ss *SpraySystem) add(p SprayParticle) {
	if len(ss.P) < ss.Max {
		ss.P = append(ss.P, p)
		return
	}
	if ss.ovrIdx >= ss.Max {
		ss.ovrIdx = 0
	}
	ss.P[ss.ovrIdx] = p
	ss.ovrIdx++
}

// Emit spawns droplets at a contact point, scaled by how fast the surface is
// rising and how fast the body is moving over it.
func (ss *SpraySystem) Emit(point, normal mgl64.Vec3, surfaceRise, bodySpeed, dt float64) {
	intensity := clampF(surfaceRise*0.5+bodySpeed*0.12, 0, 6)
	if intensity < 0.2 {
		return
	}
	ss.emitCarry += intensity * 28 * dt
	n := int(ss.emitCarry)
	ss.emitCarry -= float64(n)

	for i := 0; i < n; i++ {
		jitter := mgl64.Vec3{
			ss.rng.RangeF(-0.6, 0.6),
			ss.rng.RangeF(0, 0.3),
			ss.rng.RangeF(-0.6, 0.6),
		}
		vel := normal.Mul(ss.rng.RangeF(1.5, 4.0)).Add(jitter.Mul(2))
		life := ss.rng.RangeF(0.25, 0.7)
		ss.add(SprayParticle{
			Pos:     point.Add(jitter.Mul(0.3)),
			Vel:     vel,
			Size:    ss.rng.RangeF(0.05, 0.18),
			Life:    life,
			MaxLife: life,
		})
	}
}

// Update integrates droplets under gravity and retires the expired in place.
func (ss *SpraySystem) Update(dt float64) {
	alive := ss.P[:0]
	for i := range ss.P {
		p := &ss.P[i]
		p.Life -= dt
		if p.Life <= 0 {
			continue
		}
		p.Vel[1] += SprayGravity * dt
		p.Pos = p.Pos.Add(p.Vel.Mul(dt))
		alive = append(alive, *p)
	}
	ss.P = alive
	if ss.ovrIdx > len(ss.P) {
		ss.ovrIdx = 0
	}
}

// RenderData packs live droplets into the reusable point-sprite buffer.
// Format: [x, y, z, size, alpha] * N.
func (ss *SpraySystem) RenderData(buf []float32) []float32 {
	buf = buf[:0]
	for i := range ss.P {
		p := &ss.P[i]
		a := p.Life / p.MaxLife
		buf = append(buf,
			float32(p.Pos[0]), float32(p.Pos[1]), float32(p.Pos[2]),
			float32(p.Size), float32(a))
	}
	return buf
}
