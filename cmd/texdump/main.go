package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"polar-anaglyph/internal/postprocess"
	"polar-anaglyph/internal/raster"
	"polar-anaglyph/internal/texture"
)

// uv probes printed for each texture: corners, center and a wrapped coordinate.
var probes = [][2]float64{{0, 0}, {1, 0}, {0, 1}, {0.5, 0.5}, {1.25, -0.25}}

func dumpTexture(src, format string) error {
	img, err := texture.Load(src)
	if err != nil {
		return err
	}

	dst := strings.TrimSuffix(src, filepath.Ext(src)) + "_dump" + postprocess.Ext(format)
	if err := postprocess.WriteFile(dst, img, format); err != nil {
		return err
	}

	b := img.Bounds()
	fmt.Printf("OK  %s -> %s  (%dx%d)\n", src, dst, b.Dx(), b.Dy())
	for _, p := range probes {
		c := raster.SampleTexture(img, p[0], p[1])
		fmt.Printf("    uv(%5.2f, %5.2f) = rgba(%.3f, %.3f, %.3f, %.3f)\n", p[0], p[1], c[0], c[1], c[2], c[3])
	}
	return nil
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: texdump [-png] texture...")
		os.Exit(2)
	}

	format := postprocess.FormatWebP
	args := os.Args[1:]
	if args[0] == "-png" {
		format = postprocess.FormatPNG
		args = args[1:]
	}

	failed := 0
	for _, src := range args {
		if err := dumpTexture(src, format); err != nil {
			fmt.Printf("ERR %v\n", err)
			failed++
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}
