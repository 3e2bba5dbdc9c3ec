// Package texture loads the image bound to the u_texture unit.
package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"os"

	"github.com/ftrvxmtrx/tga"
)

// TGA has no signature, so anything that is neither PNG nor JPEG is tried as TGA.
var (
	pngMagic  = []byte("\x89PNG\r\n\x1a\n")
	jpegMagic = []byte{0xff, 0xd8}
)

// Load reads a PNG, JPEG or TGA file and returns it as NRGBA.
func Load(path string) (*image.NRGBA, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("texture: read %s: %w", path, err)
	}
	img, err := Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("texture: decode %s: %w", path, err)
	}
	return img, nil
}

// Decode decodes an in-memory PNG, JPEG or TGA image.
func Decode(data []byte) (*image.NRGBA, error) {
	var (
		img image.Image
		err error
	)
	r := bytes.NewReader(data)
	switch {
	case bytes.HasPrefix(data, pngMagic):
		img, err = png.Decode(r)
	case bytes.HasPrefix(data, jpegMagic):
		img, err = jpeg.Decode(r)
	default:
		img, err = tga.Decode(r)
	}
	if err != nil {
		return nil, err
	}
	return toNRGBA(img), nil
}

// toNRGBA converts any image to NRGBA with its origin at (0, 0).
func toNRGBA(src image.Image) *image.NRGBA {
	b := src.Bounds()
	if n, ok := src.(*image.NRGBA); ok && b.Min == (image.Point{}) {
		return n
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}
