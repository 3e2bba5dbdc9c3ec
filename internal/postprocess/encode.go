package postprocess

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/HugoSmits86/nativewebp"
)

// Output formats.
const (
	FormatWebP = "webp"
	FormatPNG  = "png"
)

// ErrUnknownFormat is returned for a format other than FormatWebP or FormatPNG.
var ErrUnknownFormat = errors.New("postprocess: unknown image format")

// Ext returns the file extension for format, including the dot.
func Ext(format string) string {
	if format == FormatPNG {
		return ".png"
	}
	return ".webp"
}

// Encode writes img to w. WebP output is lossless.
func Encode(w io.Writer, img image.Image, format string) error {
	switch format {
	case FormatWebP, "":
		if err := nativewebp.Encode(w, img, nil); err != nil {
			return fmt.Errorf("postprocess: webp encode: %w", err)
		}
	case FormatPNG:
		if err := png.Encode(w, img); err != nil {
			return fmt.Errorf("postprocess: png encode: %w", err)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return nil
}

// WriteFile encodes img into path, creating parent directories.
func WriteFile(path string, img image.Image, format string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("postprocess: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("postprocess: %w", err)
	}
	if err := Encode(f, img, format); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}
