package raster

import (
	"image"
	"math"

	"polar-anaglyph/internal/gfx"
)

// opaqueBlack is what sampling an unbound texture unit returns.
var opaqueBlack = gfx.RGBA{0, 0, 0, 1}

// SampleTexture performs bilinear filtering with REPEAT wrapping. Returns
// opaque black for a nil or empty texture. Accesses tex.Pix directly.
func SampleTexture(tex *image.NRGBA, u, v float64) gfx.RGBA {
	if tex == nil {
		return opaqueBlack
	}
	w := tex.Rect.Dx()
	h := tex.Rect.Dy()
	if w == 0 || h == 0 {
		return opaqueBlack
	}

	u -= math.Floor(u)
	v -= math.Floor(v)

	fx := u * float64(w-1)
	fy := v * float64(h-1)
	x0 := int(fx)
	y0 := int(fy)
	x1 := (x0 + 1) % w
	y1 := (y0 + 1) % h
	dx := fx - float64(x0)
	dy := fy - float64(y0)

	stride := tex.Stride
	pix := tex.Pix

	// Four texels
	i00 := y0*stride + x0*4
	i10 := y0*stride + x1*4
	i01 := y1*stride + x0*4
	i11 := y1*stride + x1*4

	w00 := (1 - dx) * (1 - dy)
	w10 := dx * (1 - dy)
	w01 := (1 - dx) * dy
	w11 := dx * dy

	var out gfx.RGBA
	for k := 0; k < 4; k++ {
		s := float64(pix[i00+k])*w00 + float64(pix[i10+k])*w10 + float64(pix[i01+k])*w01 + float64(pix[i11+k])*w11
		out[k] = float32(s / 255)
	}
	return out
}
