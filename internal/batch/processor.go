package batch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"polar-anaglyph/internal/input"
	"polar-anaglyph/internal/postprocess"
	"polar-anaglyph/internal/scene"
)

// Config holds all shared settings for a sweep.
type Config struct {
	Options     scene.Options
	State       input.RenderState
	OutputDir   string
	Format      string
	Width       int
	Height      int
	Supersample int
	Workers     int
	Log         *zap.Logger
}

// Frame is one device orientation to render.
type Frame struct {
	Index       int
	Orientation input.Orientation
}

// Sweep returns n frames stepping alpha evenly from `from` towards `to`
// (degrees, end exclusive), keeping base's beta and gamma.
func Sweep(base input.Orientation, n int, from, to float64) []Frame {
	if n < 1 {
		n = 1
	}
	frames := make([]Frame, n)
	step := (to - from) / float64(n)
	for i := range frames {
		o := base
		o.Alpha = from + float64(i)*step
		frames[i] = Frame{Index: i, Orientation: o}
	}
	return frames
}

// Result holds the outcome of rendering one frame.
type Result struct {
	Index       int
	Orientation input.Orientation
	Image       string
	Success     bool
	Error       string
}

// FrameName is the image file name of frame i, relative to the output dir.
func FrameName(i int, format string) string {
	return fmt.Sprintf("frame_%04d%s", i, postprocess.Ext(format))
}

// Run renders all frames using a worker pool. Each worker owns its own backend
// and renderer. Cancelling ctx stops handing out frames; frames never started
// are reported with ctx's error.
func Run(ctx context.Context, cfg Config, frames []Frame) []Result {
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}
	workers := max(cfg.Workers, 1)

	total := len(frames)
	results := make([]Result, total)
	for i, f := range frames {
		results[i] = Result{Index: f.Index, Orientation: f.Orientation}
	}
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					log.Info("progress",
						zap.Int64("done", p),
						zap.Int("total", total),
						zap.Float64("frames_per_sec", float64(p)/elapsed),
					)
				}
			}
		}
	}()

	// Worker pool
	frameChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			worker, err := NewWorker(cfg.Options, cfg.Width, cfg.Height, cfg.Supersample, log.With(zap.Int("worker", w)))
			for idx := range frameChan {
				if err != nil {
					results[idx].Error = err.Error()
				} else {
					results[idx] = processFrame(cfg, worker, frames[idx])
				}
				processed.Add(1)
			}
		}()
	}

	// Send work
	for i := range frames {
		if ctx.Err() == nil {
			select {
			case frameChan <- i:
				continue
			case <-ctx.Done():
			}
		}
		results[i].Error = ctx.Err().Error()
	}
	close(frameChan)

	wg.Wait()
	close(done)

	log.Info("sweep finished",
		zap.Int("frames", total),
		zap.Duration("elapsed", time.Since(start)),
	)
	return results
}

func processFrame(cfg Config, w *Worker, f Frame) Result {
	res := Result{Index: f.Index, Orientation: f.Orientation}

	img, err := w.Render(cfg.State.WithOrientation(f.Orientation))
	if err != nil {
		res.Error = err.Error()
		return res
	}

	name := FrameName(f.Index, cfg.Format)
	if err := postprocess.WriteFile(filepath.Join(cfg.OutputDir, name), img, cfg.Format); err != nil {
		res.Error = err.Error()
		return res
	}

	res.Image = name
	res.Success = true
	return res
}
