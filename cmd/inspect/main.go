package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"polar-anaglyph/internal/config"
	"polar-anaglyph/internal/gfx"
	"polar-anaglyph/internal/mathutil"
	"polar-anaglyph/internal/raster"
	"polar-anaglyph/internal/scene"
	"polar-anaglyph/internal/stereo"
	"polar-anaglyph/internal/surface"
)

func main() {
	configFile := flag.String("config", "", "Path to a .json or .toml config file")
	flag.Parse()

	cfg := config.Default()
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	}
	cfg.Resolve(config.Flags{EyeSeparation: -1})

	mesh, err := surface.Generate(cfg.Surface)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	printMesh(mesh)

	cam := cfg.Camera
	cam.EyeSeparation = float64(cfg.EyeSeparation)
	if cfg.Height > 0 {
		cam.AspectRatio = float64(cfg.Width) / float64(cfg.Height)
	}
	printCamera(cam)

	printPasses(cfg)
}

func printMesh(m *surface.Mesh) {
	minX, minY, minZ := math.Inf(1), math.Inf(1), math.Inf(1)
	maxX, maxY, maxZ := math.Inf(-1), math.Inf(-1), math.Inf(-1)
	for i := 0; i < m.Rows(); i++ {
		for _, v := range m.Row(i) {
			minX, maxX = math.Min(minX, v[0]), math.Max(maxX, v[0])
			minY, maxY = math.Min(minY, v[1]), math.Max(maxY, v[1])
			minZ, maxZ = math.Min(minZ, v[2]), math.Max(maxZ, v[2])
		}
	}
	p := m.Params
	fmt.Printf("Surface: z = %g*cos(%g*pi*r/%g)\n", p.Amplitude, p.Waves, p.Radius)
	fmt.Printf("  Grid: %d rows (r step %.4f) x %d cols (theta step %.4f)\n", m.Rows(), p.DR, m.Cols(), p.DTheta)
	fmt.Printf("  BBox: X[%.3f, %.3f] Y[%.3f, %.3f] Z[%.3f, %.3f]\n", minX, maxX, minY, maxY, minZ, maxZ)
	fmt.Printf("  Outer rim: r=%.4f\n", m.RAt(m.Rows()-1))
}

func printCamera(p stereo.Params) {
	fmt.Printf("Camera: convergence=%g eye_separation=%g aspect=%.4f fov=%g near=%g far=%g\n",
		p.Convergence, p.EyeSeparation, p.AspectRatio, p.FOV, p.Near, p.Far)
	cam, err := stereo.New(p)
	if err != nil {
		fmt.Printf("  %v\n", err)
		return
	}
	for _, eye := range []struct {
		name   string
		bounds stereo.Bounds
		proj   mathutil.Mat4
	}{
		{"left", cam.LeftBounds(), cam.LeftProjection()},
		{"right", cam.RightBounds(), cam.RightProjection()},
	} {
		b := eye.bounds
		fmt.Printf("  %-5s frustum: l=%.6f r=%.6f b=%.6f t=%.6f\n", eye.name, b.Left, b.Right, b.Bottom, b.Top)
		for row := 0; row < 4; row++ {
			fmt.Printf("    [% .5f % .5f % .5f % .5f]\n",
				eye.proj.At(row, 0), eye.proj.At(row, 1), eye.proj.At(row, 2), eye.proj.At(row, 3))
		}
	}
}

func printPasses(cfg config.Config) {
	opts, err := cfg.SceneOptions()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	b, err := raster.New(cfg.Width, cfg.Height)
	if err != nil {
		fmt.Println(gfx.Describe(err))
		return
	}
	r, err := scene.NewRenderer(b, b, opts, nil)
	if err != nil {
		fmt.Println(gfx.Describe(err))
		return
	}
	if err := r.Draw(cfg.State()); err != nil {
		fmt.Printf("Draw: %v\n", err)
		return
	}

	s := b.Stats()
	fmt.Printf("Frame (%s, filled=%v): %d vertices\n", opts.Mode, cfg.Filled, s.Vertices)
	for _, kind := range []gfx.Primitive{gfx.Lines, gfx.LineStrip, gfx.TriangleStrip} {
		fmt.Printf("  %-14s %d draws\n", kind, s.Calls(kind))
	}
}
