package scene

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"polar-anaglyph/internal/input"
	"polar-anaglyph/internal/mathutil"
	"polar-anaglyph/internal/stereo"
)

// Mono projection: 90° vertical field of view, near 1, far 2000.
const (
	monoFOV  = math.Pi / 2
	monoNear = 1
	monoFar  = 2000
)

// ModelView composes the fixed scene placement with the orientation and the
// trackball view: pull-back × tilt × orientation × view.
func ModelView(s input.RenderState) mathutil.Mat4 {
	return mathutil.Mat4Chain(mathutil.ScenePullback, mathutil.SceneTilt, s.Orientation, s.View)
}

// Camera returns the stereo camera for a frame: the configured camera with
// the frame's eye separation and aspect ratio.
func (r *Renderer) Camera(s input.RenderState) (*stereo.Camera, error) {
	w, h := r.backend.Viewport()
	p := r.opts.Camera
	p.EyeSeparation = float64(s.EyeSeparation)
	p.AspectRatio = float64(w) / float64(h)
	return stereo.New(p)
}

// Draw renders one frame from s. The sequence is fixed:
//
//	clear → view matrices → stereo frustums →
//	left eye (red) → clear depth → right eye (green, blue) → clear depth →
//	full color mask
//
// In ModeMono the two eye passes are replaced by one full-color pass.
func (r *Renderer) Draw(s input.RenderState) error {
	start := time.Now()
	b := r.backend

	b.ColorMask(true, true, true, true)
	b.Clear(ClearColor)

	modelView := ModelView(s)

	if r.opts.Mode == ModeMono {
		w, h := b.Viewport()
		proj := mathutil.Perspective(monoFOV, float64(w)/float64(h), monoNear, monoFar)
		r.drawMesh(mathutil.Mat4Mul(proj, modelView), s.Filled)
		r.logFrame(s, start)
		return nil
	}

	cam, err := r.Camera(s)
	if err != nil {
		return fmt.Errorf("scene: camera: %w", err)
	}
	left := mathutil.Mat4Mul(cam.LeftProjection(), modelView)
	right := mathutil.Mat4Mul(cam.RightProjection(), modelView)

	b.ColorMask(true, false, false, false)
	r.drawMesh(left, s.Filled)
	b.ClearDepth()

	b.ColorMask(false, true, true, false)
	r.drawMesh(right, s.Filled)
	b.ClearDepth()

	b.ColorMask(true, true, true, true)

	r.logFrame(s, start)
	return nil
}

func (r *Renderer) logFrame(s input.RenderState, start time.Time) {
	r.log.Debug("frame rendered",
		zap.Stringer("mode", r.opts.Mode),
		zap.Bool("filled", s.Filled),
		zap.Int("eye_separation", s.EyeSeparation),
		zap.Duration("elapsed", time.Since(start)),
	)
}
