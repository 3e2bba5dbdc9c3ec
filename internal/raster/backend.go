// Package raster is a software implementation of gfx.Backend: a z-buffered
// rasterizer for points, lines and triangles with a per-channel color mask
// and one bilinear texture unit.
package raster

import (
	"fmt"
	"image"

	"polar-anaglyph/internal/gfx"
	"polar-anaglyph/internal/mathutil"
)

// MaxViewport bounds each side of the drawable.
const MaxViewport = 16384

// Uniform names the fixed-function pipeline reads.
const (
	UniformMVP       = "ModelViewProjectionMatrix"
	UniformColor     = "color"
	UniformColorCoef = "fColorCoef"
	UniformSampler   = "u_texture"
)

// Stats counts submitted work since the last ResetStats.
type Stats struct {
	DrawCalls [gfx.TriangleFan + 1]int
	Vertices  int
}

// Calls returns the number of Draw calls made with kind.
func (s Stats) Calls(kind gfx.Primitive) int {
	return s.DrawCalls[kind]
}

// Backend renders into a FrameBuffer. It is not safe for concurrent use;
// one render owns one Backend.
type Backend struct {
	fb        *FrameBuffer
	mask      [4]bool
	lineWidth float64

	program *gfx.Program
	locMVP  gfx.Location
	locCol  gfx.Location
	locCoef gfx.Location
	locTex  gfx.Location

	mat4s    map[gfx.Location]mathutil.Mat4
	vec4s    map[gfx.Location]gfx.RGBA
	floats   map[gfx.Location]float32
	ints     map[gfx.Location]int32
	textures map[int]*image.NRGBA

	stats   Stats
	scratch []clipVertex
	clipped []clipVertex
}

var (
	_ gfx.Backend  = (*Backend)(nil)
	_ gfx.Compiler = (*Backend)(nil)
)

// New creates a backend with a width×height drawable. It returns
// gfx.ErrNoContext when no drawable of that size can exist.
func New(width, height int) (*Backend, error) {
	if width <= 0 || height <= 0 || width > MaxViewport || height > MaxViewport {
		return nil, fmt.Errorf("%w: viewport %dx%d", gfx.ErrNoContext, width, height)
	}
	return &Backend{
		fb:        NewFrameBuffer(width, height),
		mask:      [4]bool{true, true, true, true},
		lineWidth: 1,
		locMVP:    gfx.NoLocation,
		locCol:    gfx.NoLocation,
		locCoef:   gfx.NoLocation,
		locTex:    gfx.NoLocation,
		mat4s:     make(map[gfx.Location]mathutil.Mat4),
		vec4s:     make(map[gfx.Location]gfx.RGBA),
		floats:    make(map[gfx.Location]float32),
		ints:      make(map[gfx.Location]int32),
		textures:  make(map[int]*image.NRGBA),
	}, nil
}

// Compile links src with gfx.Link.
func (b *Backend) Compile(src gfx.ProgramSource) (*gfx.Program, error) {
	return gfx.Link(src)
}

func (b *Backend) Viewport() (int, int) {
	return b.fb.Width, b.fb.Height
}

// UseProgram binds p and resolves the uniforms the pipeline reads.
func (b *Backend) UseProgram(p *gfx.Program) {
	b.program = p
	if p == nil {
		return
	}
	b.locMVP = p.Uniform(UniformMVP)
	b.locCol = p.Uniform(UniformColor)
	b.locCoef = p.Uniform(UniformColorCoef)
	b.locTex = p.Uniform(UniformSampler)
}

func (b *Backend) UniformMatrix4(loc gfx.Location, m mathutil.Mat4) {
	if loc != gfx.NoLocation {
		b.mat4s[loc] = m
	}
}

func (b *Backend) Uniform4f(loc gfx.Location, v gfx.RGBA) {
	if loc != gfx.NoLocation {
		b.vec4s[loc] = v
	}
}

func (b *Backend) Uniform1f(loc gfx.Location, v float32) {
	if loc != gfx.NoLocation {
		b.floats[loc] = v
	}
}

func (b *Backend) Uniform1i(loc gfx.Location, v int32) {
	if loc != gfx.NoLocation {
		b.ints[loc] = v
	}
}

// BindTexture attaches img to a texture unit. A nil image unbinds it.
func (b *Backend) BindTexture(unit int, img *image.NRGBA) {
	if img == nil {
		delete(b.textures, unit)
		return
	}
	b.textures[unit] = img
}

func (b *Backend) Clear(c gfx.RGBA) {
	b.fb.ClearColor(c, b.mask)
	b.fb.ClearDepth()
}

func (b *Backend) ClearDepth() {
	b.fb.ClearDepth()
}

func (b *Backend) ColorMask(r, g, bl, a bool) {
	b.mask = [4]bool{r, g, bl, a}
}

func (b *Backend) LineWidth(w float32) {
	if w <= 0 {
		return
	}
	b.lineWidth = float64(w)
}

// Mask returns the current color write mask.
func (b *Backend) Mask() [4]bool { return b.mask }

// Stats returns the work counters.
func (b *Backend) Stats() Stats { return b.stats }

// ResetStats zeroes the work counters.
func (b *Backend) ResetStats() { b.stats = Stats{} }

// FrameBuffer exposes the render target.
func (b *Backend) FrameBuffer() *FrameBuffer { return b.fb }

// Image copies the color buffer.
func (b *Backend) Image() *image.NRGBA { return b.fb.Image() }

// fragmentShader mirrors the fragment stage:
// color·fColorCoef + texture2D(u_texture, uv)·(1 − fColorCoef).
func (b *Backend) fragmentShader() shader {
	col, ok := b.vec4s[b.locCol]
	if !ok {
		col = gfx.RGBA{0, 0, 0, 0}
	}
	coef := b.floats[b.locCoef]
	if coef >= 1 {
		return func(float64, float64) gfx.RGBA { return col }
	}
	tex := b.textures[int(b.ints[b.locTex])]
	return func(u, v float64) gfx.RGBA {
		t := SampleTexture(tex, u, v)
		var out gfx.RGBA
		for k := 0; k < 4; k++ {
			out[k] = col[k]*coef + t[k]*(1-coef)
		}
		return out
	}
}

// Draw transforms, clips and rasterizes one primitive batch. Malformed
// buffers and drawing without a program panic.
func (b *Backend) Draw(kind gfx.Primitive, vertices, texCoords []float32) {
	if err := gfx.CheckVertices(vertices, texCoords); err != nil {
		panic(err)
	}
	if b.program == nil {
		panic("raster: Draw called without a program")
	}
	if kind < gfx.Points || kind > gfx.TriangleFan {
		panic(fmt.Sprintf("raster: unknown primitive %v", kind))
	}

	n := len(vertices) / 3
	b.stats.DrawCalls[kind]++
	b.stats.Vertices += n

	mvp, ok := b.mat4s[b.locMVP]
	if !ok {
		mvp = mathutil.Mat4Identity()
	}

	verts := b.scratch[:0]
	for i := 0; i < n; i++ {
		p := mathutil.Vec4{float64(vertices[3*i]), float64(vertices[3*i+1]), float64(vertices[3*i+2]), 1}
		cv := clipVertex{pos: mvp.MulVec4(p)}
		if texCoords != nil {
			cv.uv = [2]float64{float64(texCoords[2*i]), float64(texCoords[2*i+1])}
		}
		verts = append(verts, cv)
	}
	b.scratch = verts

	shade := b.fragmentShader()

	switch kind {
	case gfx.Points:
		for _, v := range verts {
			if nearDistance(v) >= 0 && v.pos[3] > 0 {
				b.fb.plotPoint(toWindow(v, b.fb.Width, b.fb.Height), shade, b.mask)
			}
		}
	case gfx.Lines:
		for i := 0; i+1 < n; i += 2 {
			b.line(verts[i], verts[i+1], shade)
		}
	case gfx.LineStrip:
		for i := 0; i+1 < n; i++ {
			b.line(verts[i], verts[i+1], shade)
		}
	case gfx.LineLoop:
		for i := 0; i+1 < n; i++ {
			b.line(verts[i], verts[i+1], shade)
		}
		if n > 2 {
			b.line(verts[n-1], verts[0], shade)
		}
	case gfx.Triangles:
		for i := 0; i+2 < n; i += 3 {
			b.triangle(verts[i], verts[i+1], verts[i+2], shade)
		}
	case gfx.TriangleStrip:
		for i := 0; i+2 < n; i++ {
			b.triangle(verts[i], verts[i+1], verts[i+2], shade)
		}
	case gfx.TriangleFan:
		for i := 1; i+1 < n; i++ {
			b.triangle(verts[0], verts[i], verts[i+1], shade)
		}
	}
}

func (b *Backend) line(p, q clipVertex, shade shader) {
	p, q, ok := clipSegmentNear(p, q)
	if !ok || p.pos[3] <= 0 || q.pos[3] <= 0 {
		return
	}
	w, h := b.fb.Width, b.fb.Height
	b.fb.rasterizeLine(toWindow(p, w, h), toWindow(q, w, h), b.lineWidth, shade, b.mask)
}

func (b *Backend) triangle(p, q, r clipVertex, shade shader) {
	poly := clipPolygonNear(b.clipped, []clipVertex{p, q, r})
	b.clipped = poly
	if len(poly) < 3 {
		return
	}
	for _, v := range poly {
		if v.pos[3] <= 0 {
			return
		}
	}
	w, h := b.fb.Width, b.fb.Height
	first := toWindow(poly[0], w, h)
	prev := toWindow(poly[1], w, h)
	for i := 2; i < len(poly); i++ {
		cur := toWindow(poly[i], w, h)
		b.fb.rasterizeTriangle(first, prev, cur, shade, b.mask)
		prev = cur
	}
}
