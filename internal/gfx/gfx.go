// Package gfx defines the boundary between the scene code and a graphics
// backend: primitive kinds, the draw/uniform/mask operations a backend must
// supply, and the result of building a shader program.
package gfx

import (
	"errors"
	"fmt"
	"image"

	"polar-anaglyph/internal/mathutil"
)

var (
	// ErrNoContext means no graphics context could be created. Callers show a
	// message instead of rendering.
	ErrNoContext = errors.New("gfx: graphics context unavailable")

	// ErrMalformedVertices marks a vertex buffer a backend must refuse.
	// Backends panic with it: it is a programming error, not a runtime one.
	ErrMalformedVertices = errors.New("gfx: malformed vertex buffer")
)

// Primitive selects how Draw assembles vertices.
type Primitive int

const (
	Points Primitive = iota
	Lines
	LineStrip
	LineLoop
	Triangles
	TriangleStrip
	TriangleFan
)

var primitiveNames = [...]string{"POINTS", "LINES", "LINE_STRIP", "LINE_LOOP", "TRIANGLES", "TRIANGLE_STRIP", "TRIANGLE_FAN"}

func (p Primitive) String() string {
	if p >= 0 && int(p) < len(primitiveNames) {
		return primitiveNames[p]
	}
	return fmt.Sprintf("Primitive(%d)", int(p))
}

// RGBA is a color with components in [0, 1].
type RGBA [4]float32

// Backend is the subset of a GL-like API the renderer uses.
type Backend interface {
	// Viewport returns the drawable size in pixels.
	Viewport() (width, height int)

	UseProgram(p *Program)
	UniformMatrix4(loc Location, m mathutil.Mat4)
	Uniform4f(loc Location, v RGBA)
	Uniform1f(loc Location, v float32)
	Uniform1i(loc Location, v int32)
	BindTexture(unit int, img *image.NRGBA)

	// Clear fills the color buffer (through the color mask) and resets depth.
	Clear(c RGBA)
	ClearDepth()
	ColorMask(r, g, b, a bool)
	LineWidth(w float32)

	// Draw submits one primitive batch. vertices holds xyz triples; texCoords
	// is nil or holds one uv pair per vertex.
	Draw(kind Primitive, vertices, texCoords []float32)
}

// CheckVertices validates a Draw call's buffers.
func CheckVertices(vertices, texCoords []float32) error {
	if len(vertices) == 0 || len(vertices)%3 != 0 {
		return fmt.Errorf("%w: %d floats is not a positive multiple of 3", ErrMalformedVertices, len(vertices))
	}
	if texCoords != nil && len(texCoords) != len(vertices)/3*2 {
		return fmt.Errorf("%w: %d texture floats for %d vertices", ErrMalformedVertices, len(texCoords), len(vertices)/3)
	}
	return nil
}

// Describe turns a failure to start rendering into the message shown to a
// user. Other errors are returned as is.
func Describe(err error) string {
	var be *BuildError
	switch {
	case errors.Is(err, ErrNoContext):
		return "Sorry, could not get a graphics context."
	case errors.As(err, &be):
		return fmt.Sprintf("could not initialize the graphics context: %s shader: %s", be.Stage, be.Log)
	}
	return err.Error()
}
