// Package scene draws the polar surface through a gfx.Backend: the mesh
// passes (row meridians, column meridians, optional fill, axes) and the
// per-frame orchestration that composes two color-masked eye passes into an
// anaglyph.
package scene

import (
	"fmt"
	"image"

	"go.uber.org/zap"

	"polar-anaglyph/internal/gfx"
	"polar-anaglyph/internal/mathutil"
	"polar-anaglyph/internal/stereo"
	"polar-anaglyph/internal/surface"
)

// Colors and line widths of the drawn primitives.
var (
	MeshColor = gfx.RGBA{1, 1, 0, 1}
	FillColor = gfx.RGBA{0.5, 0, 1, 1}
	AxisX     = gfx.RGBA{1, 0, 0, 1}
	AxisY     = gfx.RGBA{0, 1, 0, 1}
	AxisZ     = gfx.RGBA{0, 0, 1, 1}

	ClearColor = gfx.RGBA{0, 0, 0, 1}
)

const (
	AxisLength    = 9
	AxisLineWidth = 4
	MeshLineWidth = 1
)

// Mode selects between the stereo pair and a single full-color pass.
type Mode int

const (
	ModeAnaglyph Mode = iota
	ModeMono
)

func (m Mode) String() string {
	switch m {
	case ModeAnaglyph:
		return "anaglyph"
	case ModeMono:
		return "mono"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode accepts "anaglyph" (or "stereo") and "mono".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "anaglyph", "stereo":
		return ModeAnaglyph, nil
	case "mono":
		return ModeMono, nil
	}
	return 0, fmt.Errorf("scene: unknown mode %q", s)
}

// Options fixes everything about a renderer that does not change per frame.
// Camera.EyeSeparation and Camera.AspectRatio are replaced every frame from
// the RenderState and the viewport.
type Options struct {
	Mode    Mode
	Surface surface.Params
	Camera  stereo.Params
	Texture *image.NRGBA
}

// DefaultOptions renders the default surface as an anaglyph.
func DefaultOptions() Options {
	return Options{
		Mode:    ModeAnaglyph,
		Surface: surface.DefaultParams(),
		Camera:  stereo.DefaultParams(),
	}
}

// Renderer owns a backend for the duration of its renders. It is not safe
// for concurrent use.
type Renderer struct {
	backend gfx.Backend
	program *gfx.Program
	loc     locations
	opts    Options
	mesh    *surface.Mesh
	log     *zap.Logger

	// Pre-sized vertex and texture coordinate buffers, reused by every emit.
	verts []float32
	uvs   []float32
}

// NewRenderer builds the surface program with c and binds it on b. Program
// build failures are returned as *gfx.BuildError (wrapped).
func NewRenderer(b gfx.Backend, c gfx.Compiler, opts Options, log *zap.Logger) (*Renderer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	mesh, err := surface.Generate(opts.Surface)
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}

	prog, loc, err := buildProgram(c, SurfaceProgram())
	if err != nil {
		return nil, fmt.Errorf("scene: build program: %w", err)
	}
	b.UseProgram(prog)

	// The largest batch is a fill strip: two vertices per column.
	rows, cols := mesh.Rows(), mesh.Cols()
	maxVerts := max(rows, 2*cols, 2)

	r := &Renderer{
		backend: b,
		program: prog,
		loc:     loc,
		opts:    opts,
		mesh:    mesh,
		log:     log,
		verts:   make([]float32, 0, maxVerts*3),
		uvs:     make([]float32, 0, maxVerts*2),
	}
	b.BindTexture(0, opts.Texture)

	log.Debug("renderer ready",
		zap.Stringer("mode", opts.Mode),
		zap.Int("rows", rows),
		zap.Int("cols", cols),
		zap.Bool("textured", opts.Texture != nil),
	)
	return r, nil
}

// Options returns the renderer's fixed options.
func (r *Renderer) Options() Options { return r.opts }

// emit submits one primitive batch of n points produced by at. When uv is
// non-nil the batch carries texture coordinates and is texture-colored.
func (r *Renderer) emit(kind gfx.Primitive, c gfx.RGBA, n int, at func(k int) mathutil.Vec3, uv func(k int) [2]float32) {
	coef := float32(1)
	if uv != nil {
		coef = 0
	}
	r.backend.Uniform4f(r.loc.color, c)
	r.backend.Uniform1f(r.loc.colorCoef, coef)

	r.verts = r.verts[:0]
	for k := 0; k < n; k++ {
		p := at(k)
		r.verts = append(r.verts, float32(p[0]), float32(p[1]), float32(p[2]))
	}

	var tex []float32
	if uv != nil {
		r.uvs = r.uvs[:0]
		for k := 0; k < n; k++ {
			t := uv(k)
			r.uvs = append(r.uvs, t[0], t[1])
		}
		tex = r.uvs
	}

	r.backend.Draw(kind, r.verts, tex)
}

// drawMesh runs the mesh passes for one eye with its model-view-projection.
func (r *Renderer) drawMesh(mvp mathutil.Mat4, filled bool) {
	b := r.backend
	b.UniformMatrix4(r.loc.mvp, mvp)
	b.Uniform1i(r.loc.texture, 0)

	mesh := r.mesh
	rows, cols := mesh.Rows(), mesh.Cols()

	// Meridians of constant r.
	for i := 0; i < rows; i++ {
		row := mesh.Row(i)
		r.emit(gfx.LineStrip, MeshColor, cols, func(k int) mathutil.Vec3 { return row[k] }, nil)
	}

	// Meridians of constant θ: column j taken across all rows.
	for j := 0; j < cols; j++ {
		r.emit(gfx.LineStrip, MeshColor, rows, func(k int) mathutil.Vec3 { return mesh.At(k, j) }, nil)
	}

	if filled {
		r.drawFill(mesh)
	}

	r.drawAxes()
}

// drawFill emits one triangle strip per pair of adjacent rows, alternating
// between row i and row i+1 at each column.
func (r *Renderer) drawFill(mesh *surface.Mesh) {
	rows, cols := mesh.Rows(), mesh.Cols()
	p := mesh.Params

	var uv func(i int) func(k int) [2]float32
	if r.opts.Texture != nil {
		uv = func(i int) func(k int) [2]float32 {
			return func(k int) [2]float32 {
				return [2]float32{
					float32(normalize(mesh.ThetaAt(k/2), p.ThetaMax)),
					float32(normalize(mesh.RAt(i+k%2), p.RMax)),
				}
			}
		}
	}

	for i := 0; i+1 < rows; i++ {
		at := func(k int) mathutil.Vec3 { return mesh.At(i+k%2, k/2) }
		if uv != nil {
			r.emit(gfx.TriangleStrip, FillColor, 2*cols, at, uv(i))
		} else {
			r.emit(gfx.TriangleStrip, FillColor, 2*cols, at, nil)
		}
	}
}

func normalize(v, bound float64) float64 {
	if bound == 0 {
		return 0
	}
	return v / bound
}

// drawAxes draws the three coordinate axes with a thicker stroke and then
// restores the mesh line width.
func (r *Renderer) drawAxes() {
	axes := []struct {
		c   gfx.RGBA
		dir mathutil.Vec3
	}{
		{AxisX, mathutil.Vec3{1, 0, 0}},
		{AxisY, mathutil.Vec3{0, 1, 0}},
		{AxisZ, mathutil.Vec3{0, 0, 1}},
	}

	r.backend.LineWidth(AxisLineWidth)
	for _, a := range axes {
		ends := [2]mathutil.Vec3{a.dir.Scale(-AxisLength), a.dir.Scale(AxisLength)}
		r.emit(gfx.Lines, a.c, 2, func(k int) mathutil.Vec3 { return ends[k] }, nil)
	}
	r.backend.LineWidth(MeshLineWidth)
}
