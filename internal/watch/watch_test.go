package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polar-anaglyph/internal/config"
)

func startWatcher(t *testing.T, path string) (<-chan config.Config, <-chan error, context.CancelFunc) {
	t.Helper()
	renders := make(chan config.Config, 8)
	w := &Watcher{
		Path:     path,
		Flags:    config.Flags{EyeSeparation: -1},
		Debounce: 20 * time.Millisecond,
		Render: func(cfg config.Config) error {
			renders <- cfg
			return nil
		},
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	return renders, done, cancel
}

func next(t *testing.T, renders <-chan config.Config) config.Config {
	t.Helper()
	select {
	case cfg := <-renders:
		return cfg
	case <-time.After(5 * time.Second):
		t.Fatal("no render")
		return config.Config{}
	}
}

func TestRerenderOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "render.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"filled": false, "eye_separation": 70}`), 0o644))

	renders, done, cancel := startWatcher(t, path)

	first := next(t, renders)
	assert.False(t, first.Filled)
	assert.Equal(t, 70, first.EyeSeparation)

	require.NoError(t, os.WriteFile(path, []byte(`{"filled": true, "eye_separation": 20}`), 0o644))
	second := next(t, renders)
	assert.True(t, second.Filled)
	assert.Equal(t, 20, second.EyeSeparation)

	cancel()
	require.NoError(t, <-done)
}

func TestBadEditIsSkipped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "render.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o644))

	renders, done, cancel := startWatcher(t, path)
	next(t, renders)

	require.NoError(t, os.WriteFile(path, []byte(`{"filled": `), 0o644))
	time.Sleep(200 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte(`{"orientation": {"alpha": 45}}`), 0o644))

	cfg := next(t, renders)
	assert.Equal(t, 45.0, cfg.Orientation.Alpha)

	cancel()
	require.NoError(t, <-done)
}

func TestOtherFilesIgnored(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "render.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o644))

	renders, done, cancel := startWatcher(t, path)
	next(t, renders)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	select {
	case <-renders:
		t.Fatal("unexpected render")
	case <-time.After(200 * time.Millisecond):
	}

	cancel()
	require.NoError(t, <-done)
}

func TestFirstRenderErrorStops(t *testing.T) {
	path := filepath.Join(t.TempDir(), "render.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o644))

	boom := errors.New("no context")
	w := &Watcher{Path: path, Render: func(config.Config) error { return boom }}
	err := w.Run(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestMissingConfig(t *testing.T) {
	w := &Watcher{
		Path:   filepath.Join(t.TempDir(), "missing.json"),
		Render: func(config.Config) error { return nil },
	}
	assert.Error(t, w.Run(context.Background()))
}
