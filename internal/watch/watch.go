// Package watch re-renders whenever a config file changes. The file stands in
// for the fill checkbox, the eye separation slider and the orientation sensor:
// each saved edit produces one full render.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"polar-anaglyph/internal/config"
)

// DefaultDebounce coalesces the burst of events one editor save produces.
const DefaultDebounce = 100 * time.Millisecond

// RenderFunc renders one frame for cfg.
type RenderFunc func(cfg config.Config) error

// Watcher reloads Path and calls Render after every change.
type Watcher struct {
	Path     string
	Flags    config.Flags
	Render   RenderFunc
	Debounce time.Duration
	Log      *zap.Logger
}

// Run renders once, then again after each change to w.Path, until ctx is
// done. Events are handled on the calling goroutine, so renders never
// overlap. If the first render fails Run returns its error. Later configs that
// fail to load or render are logged and skipped.
func (w *Watcher) Run(ctx context.Context) error {
	log := w.Log
	if log == nil {
		log = zap.NewNop()
	}
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	path, err := filepath.Abs(w.Path)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer watcher.Close()

	// Editors often replace the file instead of writing it, so watch the
	// directory and filter by name.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	if err := w.reload(path, log); err != nil {
		return err
	}

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			timer.Reset(debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", zap.Error(err))
		case <-timer.C:
			if err := w.reload(path, log); err != nil {
				log.Warn("reload failed", zap.Error(err))
			}
		}
	}
}

func (w *Watcher) reload(path string, log *zap.Logger) error {
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	cfg.Resolve(w.Flags)

	start := time.Now()
	if err := w.Render(cfg); err != nil {
		return fmt.Errorf("watch: render: %w", err)
	}
	log.Info("rendered",
		zap.Bool("filled", cfg.Filled),
		zap.Int("eye_separation", cfg.EyeSeparation),
		zap.Float64("alpha", cfg.Orientation.Alpha),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}
