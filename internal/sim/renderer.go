package sim

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// glOffset converts a byte offset to unsafe.Pointer for OpenGL VBO offset params.
func glOffset(n int) unsafe.Pointer { return unsafe.Pointer(uintptr(n)) }

// Renderer draws the deformed surface, the vehicle marker, probe rays, and
// spray. It only ever reads the simulation's buffers; all mutation stays in
// the tick.
type Renderer struct {
	// Surface program: streaming interleaved pos+normal, static indices.
	surfProg   uint32
	surfVAO    uint32
	surfVBO    uint32
	surfEBO    uint32
	idxCount   int32
	uSurfVP    int32
	uLightDir  int32
	uAmplitude int32

	// Point sprite program (spray + vehicle marker).
	spriteProg   uint32
	spriteVAO    uint32
	spriteVBO    uint32
	uSpriteVP    int32
	uPointScale  int32
	uSpriteColor int32

	// Line program (probe rays, contact normal).
	lineProg   uint32
	lineVAO    uint32
	lineVBO    uint32
	uLineVP    int32
	uLineColor int32

	// Reusable upload buffers to avoid per-frame heap allocations.
	vertBuf   []float32
	sprayBuf  []float32
	markerBuf []float32
	lineBuf   []float32
	rayDirs   []mgl64.Vec3
}

func NewRenderer(mesh *SurfaceMesh) (*Renderer, error) {
	surfProg, err := linkProgram(surfaceVertSrc, surfaceFragSrc)
	if err != nil {
		return nil, fmt.Errorf("surface program: %w", err)
	}
	spriteProg, err := linkProgram(spriteVertSrc, spriteFragSrc)
	if err != nil {
		gl.DeleteProgram(surfProg)
		return nil, fmt.Errorf("sprite program: %w", err)
	}
	lineProg, err := linkProgram(lineVertSrc, lineFragSrc)
	if err != nil {
		gl.DeleteProgram(surfProg)
		gl.DeleteProgram(spriteProg)
		return nil, fmt.Errorf("line program: %w", err)
	}

	r := &Renderer{
		surfProg:   surfProg,
		spriteProg: spriteProg,
		lineProg:   lineProg,
	}

	// Surface VAO: streaming VBO (pos3 + normal3), static element buffer
	// with both winding orders so the strip is visible from below a crest.
	gl.GenVertexArrays(1, &r.surfVAO)
	gl.GenBuffers(1, &r.surfVBO)
	gl.GenBuffers(1, &r.surfEBO)
	gl.BindVertexArray(r.surfVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.surfVBO)
	stride := int32(6 * 4)
	gl.BufferData(gl.ARRAY_BUFFER, mesh.VertexCount()*int(stride), nil, gl.STREAM_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, glOffset(0))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, glOffset(3*4))

	indices := mesh.Indices()
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.surfEBO)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)
	r.idxCount = int32(len(indices))

	gl.UseProgram(surfProg)
	r.uSurfVP = gl.GetUniformLocation(surfProg, gl.Str("uViewProj\x00"))
	r.uLightDir = gl.GetUniformLocation(surfProg, gl.Str("uLightDir\x00"))
	r.uAmplitude = gl.GetUniformLocation(surfProg, gl.Str("uAmplitude\x00"))
	gl.Uniform3f(r.uLightDir, 0.35, 0.85, 0.4)

	// Sprite VAO: streaming [x, y, z, size, alpha].
	gl.GenVertexArrays(1, &r.spriteVAO)
	gl.GenBuffers(1, &r.spriteVBO)
	gl.BindVertexArray(r.spriteVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.spriteVBO)
	sStride := int32(5 * 4)
	gl.BufferData(gl.ARRAY_BUFFER, (MaxSprayParticles+8)*int(sStride), nil, gl.STREAM_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, sStride, glOffset(0))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 1, gl.FLOAT, false, sStride, glOffset(3*4))
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 1, gl.FLOAT, false, sStride, glOffset(4*4))

	gl.UseProgram(spriteProg)
	r.uSpriteVP = gl.GetUniformLocation(spriteProg, gl.Str("uViewProj\x00"))
	r.uPointScale = gl.GetUniformLocation(spriteProg, gl.Str("uPointScale\x00"))
	r.uSpriteColor = gl.GetUniformLocation(spriteProg, gl.Str("uColor\x00"))

	// Line VAO: streaming position pairs.
	gl.GenVertexArrays(1, &r.lineVAO)
	gl.GenBuffers(1, &r.lineVBO)
	gl.BindVertexArray(r.lineVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.lineVBO)
	gl.BufferData(gl.ARRAY_BUFFER, 64*3*4, nil, gl.STREAM_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 3*4, glOffset(0))

	gl.UseProgram(lineProg)
	r.uLineVP = gl.GetUniformLocation(lineProg, gl.Str("uViewProj\x00"))
	r.uLineColor = gl.GetUniformLocation(lineProg, gl.Str("uColor\x00"))

	gl.BindVertexArray(0)
	return r, nil
}

func (r *Renderer) Destroy() {
	for _, id := range []uint32{r.surfVBO, r.surfEBO, r.spriteVBO, r.lineVBO} {
		if id != 0 {
			gl.DeleteBuffers(1, &id)
		}
	}
	for _, id := range []uint32{r.surfVAO, r.spriteVAO, r.lineVAO} {
		if id != 0 {
			gl.DeleteVertexArrays(1, &id)
		}
	}
	for _, id := range []uint32{r.surfProg, r.spriteProg, r.lineProg} {
		if id != 0 {
			gl.DeleteProgram(id)
		}
	}
}

func (r *Renderer) BeginFrame(fbW, fbH int) {
	gl.Viewport(0, 0, int32(fbW), int32(fbH))
	gl.ClearColor(0.03, 0.05, 0.09, 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// DrawSurface streams the deformed world-space vertices and draws both
// winding sets in one call.
func (r *Renderer) DrawSurface(w *World, viewProj mgl32.Mat4) {
	cur := w.Mesh.CurrentPositions()
	nrm := w.Mesh.CurrentNormals()
	r.vertBuf = r.vertBuf[:0]
	for i := range cur {
		p := w.Xform.PointToWorld(cur[i])
		n := w.Xform.DirToWorld(nrm[i])
		r.vertBuf = append(r.vertBuf,
			float32(p[0]), float32(p[1]), float32(p[2]),
			float32(n[0]), float32(n[1]), float32(n[2]))
	}

	gl.UseProgram(r.surfProg)
	gl.BindVertexArray(r.surfVAO)
	gl.UniformMatrix4fv(r.uSurfVP, 1, false, &viewProj[0])
	gl.Uniform1f(r.uAmplitude, float32(w.Field.MaxAmplitude()))
	gl.BindBuffer(gl.ARRAY_BUFFER, r.surfVBO)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(r.vertBuf)*4, gl.Ptr(r.vertBuf))
	gl.DrawElements(gl.TRIANGLES, r.idxCount, gl.UNSIGNED_INT, glOffset(0))
}

// DrawSpray renders the droplet pool as soft white points.
func (r *Renderer) DrawSpray(spray *SpraySystem, viewProj mgl32.Mat4, fbH int) {
	r.sprayBuf = spray.RenderData(r.sprayBuf)
	if len(r.sprayBuf) == 0 {
		return
	}
	r.drawSprites(r.sprayBuf, viewProj, fbH, 0.85, 0.92, 1.0)
}

// DrawVehicle renders the body as a marker point plus its probe-ray overlay.
func (r *Renderer) DrawVehicle(v *Vehicle, viewProj mgl32.Mat4, fbH int) {
	p := v.Body.Position()
	r.markerBuf = r.markerBuf[:0]
	r.markerBuf = append(r.markerBuf,
		float32(p[0]), float32(p[1]), float32(p[2]), 0.9, 1.0)
	r.drawSprites(r.markerBuf, viewProj, fbH, 1.0, 0.45, 0.2)

	// Probe rays, tinted by attachment state.
	r.rayDirs = v.Tracker.RayDirections(v.Body.Rotation(), r.rayDirs)
	r.lineBuf = r.lineBuf[:0]
	for _, d := range r.rayDirs {
		end := p.Add(d.Mul(v.Tracker.DetectionDistance))
		r.lineBuf = append(r.lineBuf,
			float32(p[0]), float32(p[1]), float32(p[2]),
			float32(end[0]), float32(end[1]), float32(end[2]))
	}
	if v.LastTracked {
		h := v.LastSample.Point
		n := h.Add(v.LastSample.Normal.Mul(2))
		r.lineBuf = append(r.lineBuf,
			float32(h[0]), float32(h[1]), float32(h[2]),
			float32(n[0]), float32(n[1]), float32(n[2]))
	}

	cr, cg, cb := float32(0.9), float32(0.25), float32(0.25)
	if v.Alignment.IsNearSurface() {
		cr, cg, cb = 0.25, 0.9, 0.4
	}
	gl.UseProgram(r.lineProg)
	gl.BindVertexArray(r.lineVAO)
	gl.UniformMatrix4fv(r.uLineVP, 1, false, &viewProj[0])
	gl.Uniform4f(r.uLineColor, cr, cg, cb, 0.8)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.lineVBO)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(r.lineBuf)*4, gl.Ptr(r.lineBuf))
	gl.DrawArrays(gl.LINES, 0, int32(len(r.lineBuf)/3))
}

func (r *Renderer) drawSprites(buf []float32, viewProj mgl32.Mat4, fbH int, cr, cg, cb float32) {
	gl.UseProgram(r.spriteProg)
	gl.BindVertexArray(r.spriteVAO)
	gl.UniformMatrix4fv(r.uSpriteVP, 1, false, &viewProj[0])
	gl.Uniform1f(r.uPointScale, float32(fbH))
	gl.Uniform3f(r.uSpriteColor, cr, cg, cb)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.spriteVBO)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(buf)*4, gl.Ptr(buf))
	gl.DrawArrays(gl.POINTS, 0, int32(len(buf)/5))
}
