package postprocess

import (
	"image"

	"golang.org/x/image/draw"
)

// Downsample scales a supersampled frame down to width×height with
// Catmull-Rom filtering. The filter runs on premultiplied RGBA so partially
// covered pixels do not pick up dark fringes. Frames already no larger than
// the target are returned unchanged.
func Downsample(img *image.NRGBA, width, height int) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() <= width && b.Dy() <= height {
		return img
	}

	premul := image.NewRGBA(b)
	draw.Draw(premul, b, img, b.Min, draw.Src)

	scaled := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), premul, b, draw.Src, nil)

	out := image.NewNRGBA(scaled.Bounds())
	draw.Draw(out, out.Bounds(), scaled, image.Point{}, draw.Src)
	return out
}

// Factor returns the supersampling factor to use for a frame: at least 1, and
// small enough that the render stays within limit pixels on each side.
func Factor(requested, width, height, limit int) int {
	f := max(requested, 1)
	for f > 1 && (width*f > limit || height*f > limit) {
		f--
	}
	return f
}
