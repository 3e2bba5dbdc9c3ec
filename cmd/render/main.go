package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"polar-anaglyph/internal/batch"
	"polar-anaglyph/internal/config"
	"polar-anaglyph/internal/gfx"
	"polar-anaglyph/internal/logging"
	"polar-anaglyph/internal/postprocess"
	"polar-anaglyph/internal/scene"
	"polar-anaglyph/internal/texture"
)

func main() {
	os.Exit(run())
}

// run returns the process exit code so deferred log flushing happens first.
func run() int {
	// CLI flags
	configFile := flag.String("config", "", "Path to a .json or .toml config file")
	output := flag.String("output", "", "Output image for a single frame (default: polar.webp)")
	outputDir := flag.String("outdir", "", "Output directory for a sweep (default: frames)")
	width := flag.Int("width", 0, "Frame width in pixels (default: 512)")
	height := flag.Int("height", 0, "Frame height in pixels (default: 512)")
	supersample := flag.Int("supersample", 0, "Render at N times the size and downscale (default: 1)")
	workers := flag.Int("workers", 0, "Number of worker goroutines for a sweep (default: NumCPU)")
	mode := flag.String("mode", "", "anaglyph or mono")
	tex := flag.String("texture", "", "Texture for the filled surface (png, jpeg, tga)")
	filled := flag.Bool("filled", false, "Fill the surface")
	eyeSep := flag.Int("eyesep", -1, "Eye separation (default: 70)")
	frames := flag.Int("frames", 0, "Render an alpha sweep of N frames")
	logLevel := flag.String("log", "", "Log level: debug, info, warn, error")

	flag.Parse()

	// Load config
	cfg := config.Default()
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			return 1
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		Output:        *output,
		OutputDir:     *outputDir,
		Width:         *width,
		Height:        *height,
		Supersample:   *supersample,
		Workers:       *workers,
		Mode:          *mode,
		Texture:       *tex,
		Filled:        *filled,
		EyeSeparation: *eyeSep,
		Frames:        *frames,
		LogLevel:      *logLevel,
	})

	log, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer log.Sync()

	opts, err := cfg.SceneOptions()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if cfg.Texture != "" {
		opts.Texture, err = texture.Load(cfg.Texture)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading texture: %v\n", err)
			return 1
		}
		log.Info("texture loaded", zap.String("path", cfg.Texture), zap.Stringer("size", opts.Texture.Bounds().Size()))
	}

	if cfg.Sweep.Frames <= 1 {
		worker, err := batch.NewWorker(opts, cfg.Width, cfg.Height, cfg.Supersample, log)
		if err != nil {
			fmt.Fprintln(os.Stderr, gfx.Describe(err))
			return 1
		}
		img, err := worker.Render(cfg.State())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error rendering: %v\n", err)
			return 1
		}
		if err := postprocess.WriteFile(cfg.Output, img, cfg.Format); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing image: %v\n", err)
			return 1
		}
		log.Info("frame written", zap.String("path", cfg.Output), zap.Stringer("mode", opts.Mode))
		return 0
	}

	return sweep(cfg, log, opts)
}

func sweep(cfg config.Config, log *zap.Logger, opts scene.Options) int {
	// Fail early with the context message rather than once per frame.
	if _, err := batch.NewWorker(opts, cfg.Width, cfg.Height, cfg.Supersample, log); err != nil {
		fmt.Fprintln(os.Stderr, gfx.Describe(err))
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	frames := batch.Sweep(cfg.Orientation, cfg.Sweep.Frames, cfg.Sweep.AlphaFrom, cfg.Sweep.AlphaTo)

	log.Info("sweep",
		zap.Int("frames", len(frames)),
		zap.Int("workers", cfg.Workers),
		zap.Stringer("mode", opts.Mode),
		zap.String("output", cfg.OutputDir),
	)

	start := time.Now()
	results := batch.Run(ctx, batch.Config{
		Options:     opts,
		State:       cfg.State(),
		OutputDir:   cfg.OutputDir,
		Format:      cfg.Format,
		Width:       cfg.Width,
		Height:      cfg.Height,
		Supersample: cfg.Supersample,
		Workers:     cfg.Workers,
		Log:         log,
	}, frames)

	// Count results
	failed := 0
	for _, r := range results {
		if !r.Success {
			failed++
			if failed <= 20 {
				log.Warn("frame failed", zap.Int("index", r.Index), zap.String("error", r.Error))
			}
		}
	}
	log.Info("done",
		zap.Int("rendered", len(results)-failed),
		zap.Int("failed", failed),
		zap.Duration("elapsed", time.Since(start)),
	)

	// Write manifest
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		log.Warn("manifest write failed", zap.Error(err))
	} else if err := batch.WriteManifest(manifestPath, results); err != nil {
		log.Warn("manifest write failed", zap.Error(err))
	} else {
		log.Info("manifest written", zap.String("path", manifestPath))
	}

	if failed > 0 {
		return 1
	}
	return 0
}
