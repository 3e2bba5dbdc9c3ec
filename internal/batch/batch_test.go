package batch

import (
	"context"
	"encoding/json"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polar-anaglyph/internal/gfx"
	"polar-anaglyph/internal/input"
	"polar-anaglyph/internal/postprocess"
	"polar-anaglyph/internal/scene"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	return Config{
		Options:     scene.DefaultOptions(),
		State:       input.DefaultRenderState().WithFilled(true),
		OutputDir:   t.TempDir(),
		Format:      postprocess.FormatPNG,
		Width:       32,
		Height:      24,
		Supersample: 1,
		Workers:     2,
	}
}

func TestSweep(t *testing.T) {
	base := input.Orientation{Alpha: 99, Beta: 10, Gamma: -5}
	frames := Sweep(base, 4, 0, 360)
	require.Len(t, frames, 4)
	for i, f := range frames {
		assert.Equal(t, i, f.Index)
		assert.InDelta(t, float64(i)*90, f.Orientation.Alpha, 1e-12)
		assert.Equal(t, 10.0, f.Orientation.Beta)
		assert.Equal(t, -5.0, f.Orientation.Gamma)
	}

	single := Sweep(base, 0, 30, 60)
	require.Len(t, single, 1)
	assert.Equal(t, 30.0, single[0].Orientation.Alpha)
}

func TestFrameName(t *testing.T) {
	assert.Equal(t, "frame_0007.webp", FrameName(7, postprocess.FormatWebP))
	assert.Equal(t, "frame_0012.png", FrameName(12, postprocess.FormatPNG))
}

func TestWorkerRenderSize(t *testing.T) {
	w, err := NewWorker(scene.DefaultOptions(), 20, 10, 3, nil)
	require.NoError(t, err)

	img, err := w.Render(input.DefaultRenderState())
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 20, 10), img.Bounds())
	// One pass per eye.
	assert.Equal(t, 2*(18+21), w.Stats().Calls(gfx.LineStrip))
	assert.Equal(t, 2*3, w.Stats().Calls(gfx.Lines))
}

func TestWorkerNoContext(t *testing.T) {
	_, err := NewWorker(scene.DefaultOptions(), 0, 10, 1, nil)
	assert.ErrorIs(t, err, gfx.ErrNoContext)
}

func TestRunWritesFramesAndManifest(t *testing.T) {
	cfg := testConfig(t)
	frames := Sweep(input.Orientation{}, 5, 0, 360)

	results := Run(context.Background(), cfg, frames)
	require.Len(t, results, 5)
	for i, r := range results {
		require.True(t, r.Success, r.Error)
		assert.Equal(t, i, r.Index)
		assert.Equal(t, FrameName(i, cfg.Format), r.Image)
		assert.FileExists(t, filepath.Join(cfg.OutputDir, r.Image))
	}

	path := filepath.Join(cfg.OutputDir, "manifest.json")
	require.NoError(t, WriteManifest(path, results))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var entries []ManifestEntry
	require.NoError(t, json.Unmarshal(data, &entries))
	require.Len(t, entries, 5)
	assert.InDelta(t, 144.0, entries[2].Alpha, 1e-9)
	assert.Equal(t, "frame_0002.png", entries[2].Image)
	assert.Empty(t, entries[2].Error)
}

func TestRunReportsWorkerFailure(t *testing.T) {
	cfg := testConfig(t)
	cfg.Width = 0

	results := Run(context.Background(), cfg, Sweep(input.Orientation{}, 3, 0, 90))
	for _, r := range results {
		assert.False(t, r.Success)
		assert.Contains(t, r.Error, gfx.ErrNoContext.Error())
	}
}

func TestRunZeroConvergenceFailsEachFrame(t *testing.T) {
	cfg := testConfig(t)
	cfg.Options.Camera.Convergence = 0

	results := Run(context.Background(), cfg, Sweep(input.Orientation{}, 2, 0, 90))
	for _, r := range results {
		assert.False(t, r.Success)
		assert.NotEmpty(t, r.Error)
	}
	entries, err := os.ReadDir(cfg.OutputDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRunCancelled(t *testing.T) {
	cfg := testConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := Run(ctx, cfg, Sweep(input.Orientation{}, 4, 0, 360))
	for _, r := range results {
		assert.False(t, r.Success)
		assert.Equal(t, context.Canceled.Error(), r.Error)
	}
}
