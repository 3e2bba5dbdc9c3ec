package raster

import (
	"image"
	"math"

	"polar-anaglyph/internal/gfx"
)

// FrameBuffer holds the rendering target as flat slices for cache locality.
// Depth runs from 0 (near plane) to 1 (far plane); smaller is closer.
type FrameBuffer struct {
	Width  int
	Height int
	Color  []uint8   // RGBA interleaved, len = W*H*4
	ZBuf   []float64 // depth per pixel, len = W*H, cleared to +inf
}

// NewFrameBuffer allocates a zeroed color buffer and a cleared z-buffer.
func NewFrameBuffer(w, h int) *FrameBuffer {
	fb := &FrameBuffer{
		Width:  w,
		Height: h,
		Color:  make([]uint8, w*h*4),
		ZBuf:   make([]float64, w*h),
	}
	fb.ClearDepth()
	return fb
}

// ClearDepth resets every depth sample to +inf.
func (fb *FrameBuffer) ClearDepth() {
	inf := math.Inf(1)
	for i := range fb.ZBuf {
		fb.ZBuf[i] = inf
	}
}

// ClearColor fills the channels enabled in mask with c.
func (fb *FrameBuffer) ClearColor(c gfx.RGBA, mask [4]bool) {
	px := [4]uint8{clamp255(float64(c[0]) * 255), clamp255(float64(c[1]) * 255), clamp255(float64(c[2]) * 255), clamp255(float64(c[3]) * 255)}
	for i := 0; i < len(fb.Color); i += 4 {
		for k := 0; k < 4; k++ {
			if mask[k] {
				fb.Color[i+k] = px[k]
			}
		}
	}
}

// plot depth-tests one fragment and writes the enabled channels. Depth is
// written even when every color channel is masked off.
func (fb *FrameBuffer) plot(x, y int, z float64, c gfx.RGBA, mask [4]bool) {
	if x < 0 || y < 0 || x >= fb.Width || y >= fb.Height {
		return
	}
	if z < 0 || z > 1 {
		return
	}
	zIdx := y*fb.Width + x
	if z >= fb.ZBuf[zIdx] {
		return
	}
	fb.ZBuf[zIdx] = z

	pxIdx := zIdx * 4
	for k := 0; k < 4; k++ {
		if mask[k] {
			fb.Color[pxIdx+k] = clamp255(float64(c[k]) * 255)
		}
	}
}

// Image copies the color buffer into an NRGBA image.
func (fb *FrameBuffer) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	copy(img.Pix, fb.Color)
	return img
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
