package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"polar-anaglyph/internal/batch"
	"polar-anaglyph/internal/config"
	"polar-anaglyph/internal/gfx"
	"polar-anaglyph/internal/logging"
	"polar-anaglyph/internal/postprocess"
	"polar-anaglyph/internal/texture"
	"polar-anaglyph/internal/watch"
)

func main() {
	os.Exit(run())
}

func run() int {
	configFile := flag.String("config", "", "Path to the .json or .toml config file to watch")
	output := flag.String("output", "", "Output image (overrides the config file)")
	logLevel := flag.String("log", "", "Log level: debug, info, warn, error")

	flag.Parse()

	if *configFile == "" {
		fmt.Fprintln(os.Stderr, "Error: -config is required")
		return 2
	}

	log, err := logging.New(logging.Options{Level: *logLevel})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	textures := texture.NewCache()
	w := &watch.Watcher{
		Path:   *configFile,
		Flags:  config.Flags{Output: *output, EyeSeparation: -1, LogLevel: *logLevel},
		Render: func(cfg config.Config) error { return render(cfg, textures, log) },
		Log:    log,
	}

	log.Info("watching", zap.String("config", *configFile))
	if err := w.Run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, gfx.Describe(err))
		return 1
	}
	return 0
}

// render draws one frame for cfg and writes it to cfg.Output. Textures come
// from the cache, so an unchanged texture file is decoded once.
func render(cfg config.Config, textures *texture.Cache, log *zap.Logger) error {
	opts, err := cfg.SceneOptions()
	if err != nil {
		return err
	}
	if cfg.Texture != "" {
		if opts.Texture, err = textures.Load(cfg.Texture); err != nil {
			return err
		}
	}

	worker, err := batch.NewWorker(opts, cfg.Width, cfg.Height, cfg.Supersample, log)
	if err != nil {
		return err
	}
	img, err := worker.Render(cfg.State())
	if err != nil {
		return err
	}
	return postprocess.WriteFile(cfg.Output, img, cfg.Format)
}
