package sim

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Surface vertex shader: world-space position + normal, height passed on for
// the depth tint.
const surfaceVertSrc = `#version 410 core

layout(location = 0) in vec3 aPos;
layout(location = 1) in vec3 aNormal;

uniform mat4 uViewProj;

out vec3 vNormal;
out float vHeight;

void main() {
    gl_Position = uViewProj * vec4(aPos, 1.0);
    vNormal = aNormal;
    vHeight = aPos.y;
}
` + "\x00"

// Surface fragment shader: lambert against a fixed sun plus a trough-to-crest
// color ramp scaled by the field's amplitude bound.
const surfaceFragSrc = `#version 410 core

uniform vec3 uLightDir;   // unit, pointing toward the sun
uniform float uAmplitude; // height bound for the color ramp

in vec3 vNormal;
in float vHeight;
out vec4 FragColor;

void main() {
    vec3 n = normalize(vNormal);
    float diff = max(dot(n, uLightDir), 0.0);
    float lit = 0.25 + 0.75 * diff;
    float h = clamp(vHeight / max(uAmplitude, 0.001) * 0.5 + 0.5, 0.0, 1.0);
    vec3 trough = vec3(0.07, 0.18, 0.32);
    vec3 crest  = vec3(0.25, 0.55, 0.65);
    FragColor = vec4(mix(trough, crest, h) * lit, 1.0);
}
` + "\x00"

// Point sprite shader: world-space droplets and markers with distance-scaled
// size and per-vertex alpha.
const spriteVertSrc = `#version 410 core

layout(location = 0) in vec3 aPos;
layout(location = 1) in float aSize;
layout(location = 2) in float aAlpha;

uniform mat4 uViewProj;
uniform float uPointScale; // framebuffer-height-based perspective scale

out float vAlpha;

void main() {
    vec4 clip = uViewProj * vec4(aPos, 1.0);
    gl_Position = clip;
    float w = max(clip.w, 0.001);
    gl_PointSize = clamp(aSize * uPointScale / w, 1.0, 64.0);
    vAlpha = aAlpha;
}
` + "\x00"

const spriteFragSrc = `#version 410 core

uniform vec3 uColor;

in float vAlpha;
out vec4 FragColor;

void main() {
    float dist = length(gl_PointCoord - vec2(0.5)) * 2.0;
    if (dist > 1.0) discard;
    FragColor = vec4(uColor, vAlpha * (1.0 - dist * dist));
}
` + "\x00"

// Line shader: probe rays and surface normals overlay.
const lineVertSrc = `#version 410 core

layout(location = 0) in vec3 aPos;

uniform mat4 uViewProj;

void main() {
    gl_Position = uViewProj * vec4(aPos, 1.0);
}
` + "\x00"

const lineFragSrc = `#version 410 core

uniform vec4 uColor;

out vec4 FragColor;

void main() {
    FragColor = uColor;
}
` + "\x00"

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		buf := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(buf))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile shader: %s", strings.TrimRight(buf, "\x00"))
	}
	return shader, nil
}

func linkProgram(vertSrc, fragSrc string) (uint32, error) {
	vs, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fs, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vs)
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vs)
	gl.AttachShader(program, fs)
	gl.LinkProgram(program)

	gl.DetachShader(program, vs)
	gl.DetachShader(program, fs)
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		buf := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(program, logLen, nil, gl.Str(buf))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link program: %s", strings.TrimRight(buf, "\x00"))
	}
	return program, nil
}
