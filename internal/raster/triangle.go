package raster

import (
	"math"

	"polar-anaglyph/internal/gfx"
	"polar-anaglyph/internal/mathutil"
)

// clipVertex is a vertex after the model-view-projection transform.
type clipVertex struct {
	pos mathutil.Vec4
	uv  [2]float64
}

// winVertex is a vertex in window coordinates. u and v are pre-divided by w
// and invW is 1/w, so all fields interpolate linearly in screen space.
type winVertex struct {
	x, y, z float64
	invW    float64
	u, v    float64
}

// nearDistance is the signed distance to the near clip plane z = -w.
func nearDistance(c clipVertex) float64 {
	return c.pos[2] + c.pos[3]
}

func lerpClip(a, b clipVertex, t float64) clipVertex {
	var out clipVertex
	for k := 0; k < 4; k++ {
		out.pos[k] = a.pos[k] + (b.pos[k]-a.pos[k])*t
	}
	out.uv[0] = a.uv[0] + (b.uv[0]-a.uv[0])*t
	out.uv[1] = a.uv[1] + (b.uv[1]-a.uv[1])*t
	return out
}

// clipPolygonNear clips a convex polygon against the near plane
// (Sutherland–Hodgman with a single plane). dst is reused as scratch.
func clipPolygonNear(dst, poly []clipVertex) []clipVertex {
	dst = dst[:0]
	for i := range poly {
		cur := poly[i]
		next := poly[(i+1)%len(poly)]
		dc, dn := nearDistance(cur), nearDistance(next)
		if dc >= 0 {
			dst = append(dst, cur)
		}
		if (dc >= 0) != (dn >= 0) {
			dst = append(dst, lerpClip(cur, next, dc/(dc-dn)))
		}
	}
	return dst
}

// toWindow performs the perspective divide and viewport transform.
// Window y grows downward; depth maps NDC [-1, 1] to [0, 1].
func toWindow(c clipVertex, w, h int) winVertex {
	invW := 1 / c.pos[3]
	return winVertex{
		x:    (c.pos[0]*invW + 1) * 0.5 * float64(w),
		y:    (1 - c.pos[1]*invW) * 0.5 * float64(h),
		z:    (c.pos[2]*invW + 1) * 0.5,
		invW: invW,
		u:    c.uv[0] * invW,
		v:    c.uv[1] * invW,
	}
}

// shader computes a fragment color from perspective-corrected texture coordinates.
type shader func(u, v float64) gfx.RGBA

// rasterizeTriangle fills a window-space triangle with a z-buffer test.
// Both windings are drawn; there is no face culling.
func (fb *FrameBuffer) rasterizeTriangle(a, b, c winVertex, shade shader, mask [4]bool) {
	x0, y0 := a.x, a.y
	x1, y1 := b.x, b.y
	x2, y2 := c.x, c.y

	// Bounding box over pixel centers
	minX := int(math.Floor(math.Min(math.Min(x0, x1), x2)))
	maxX := int(math.Ceil(math.Max(math.Max(x0, x1), x2)))
	minY := int(math.Floor(math.Min(math.Min(y0, y1), y2)))
	maxY := int(math.Ceil(math.Max(math.Max(y0, y1), y2)))

	if minX < 0 {
		minX = 0
	}
	if maxX >= fb.Width {
		maxX = fb.Width - 1
	}
	if minY < 0 {
		minY = 0
	}
	if maxY >= fb.Height {
		maxY = fb.Height - 1
	}
	if minX > maxX || minY > maxY {
		return
	}

	// Barycentric setup
	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-12 && det < 1e-12 {
		return
	}
	invDet := 1.0 / det

	// Precompute edge deltas
	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) + 0.5 - y2
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) + 0.5 - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1

			if w0 < -1e-9 || w1 < -1e-9 || w2 < -1e-9 {
				continue
			}

			z := w0*a.z + w1*b.z + w2*c.z
			iw := w0*a.invW + w1*b.invW + w2*c.invW
			u := (w0*a.u + w1*b.u + w2*c.u) / iw
			v := (w0*a.v + w1*b.v + w2*c.v) / iw
			fb.plot(sx, sy, z, shade(u, v), mask)
		}
	}
}
