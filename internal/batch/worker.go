package batch

import (
	"fmt"
	"image"

	"go.uber.org/zap"

	"polar-anaglyph/internal/input"
	"polar-anaglyph/internal/postprocess"
	"polar-anaglyph/internal/raster"
	"polar-anaglyph/internal/scene"
)

// Worker owns one software backend and the renderer bound to it. A Worker is
// not safe for concurrent use; the pool gives each goroutine its own.
type Worker struct {
	backend  *raster.Backend
	renderer *scene.Renderer
	width    int
	height   int
}

// NewWorker creates a width×height renderer that draws at supersample times
// that size, reduced if needed to fit the backend. Errors wrap
// gfx.ErrNoContext or *gfx.BuildError.
func NewWorker(opts scene.Options, width, height, supersample int, log *zap.Logger) (*Worker, error) {
	supersample = postprocess.Factor(supersample, width, height, raster.MaxViewport)
	b, err := raster.New(width*supersample, height*supersample)
	if err != nil {
		return nil, fmt.Errorf("batch: %w", err)
	}
	r, err := scene.NewRenderer(b, b, opts, log)
	if err != nil {
		return nil, fmt.Errorf("batch: %w", err)
	}
	return &Worker{backend: b, renderer: r, width: width, height: height}, nil
}

// Render draws one frame and returns it at the output size.
func (w *Worker) Render(s input.RenderState) (*image.NRGBA, error) {
	if err := w.renderer.Draw(s); err != nil {
		return nil, err
	}
	img := w.backend.Image()
	return postprocess.Downsample(img, w.width, w.height), nil
}

// Stats reports the backend's accumulated draw counts.
func (w *Worker) Stats() raster.Stats {
	return w.backend.Stats()
}
