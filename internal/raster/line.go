package raster

import "math"

// clipSegmentNear clips a segment against the near plane. ok is false when
// the whole segment lies behind it.
func clipSegmentNear(a, b clipVertex) (clipVertex, clipVertex, bool) {
	da, db := nearDistance(a), nearDistance(b)
	switch {
	case da < 0 && db < 0:
		return a, b, false
	case da < 0:
		a = lerpClip(a, b, da/(da-db))
	case db < 0:
		b = lerpClip(a, b, da/(da-db))
	}
	return a, b, true
}

func lerpWin(a, b winVertex, t float64) winVertex {
	return winVertex{
		x:    a.x + (b.x-a.x)*t,
		y:    a.y + (b.y-a.y)*t,
		z:    a.z + (b.z-a.z)*t,
		invW: a.invW + (b.invW-a.invW)*t,
		u:    a.u + (b.u-a.u)*t,
		v:    a.v + (b.v-a.v)*t,
	}
}

// clipSegmentRect trims a window-space segment to [lo, hiX]×[lo, hiY]
// (Liang–Barsky) so that stepping cost is bounded by the viewport.
func clipSegmentRect(a, b winVertex, lo, hiX, hiY float64) (winVertex, winVertex, bool) {
	dx, dy := b.x-a.x, b.y-a.y
	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-dx, a.x - lo},
		{dx, hiX - a.x},
		{-dy, a.y - lo},
		{dy, hiY - a.y},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return a, b, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return a, b, false
			}
			if r > t0 {
				t0 = r
			}
		} else {
			if r < t0 {
				return a, b, false
			}
			if r < t1 {
				t1 = r
			}
		}
	}
	return lerpWin(a, b, t0), lerpWin(a, b, t1), true
}

// rasterizeLine steps along the segment one pixel at a time and stamps a
// width×width square at each step.
func (fb *FrameBuffer) rasterizeLine(a, b winVertex, width float64, shade shader, mask [4]bool) {
	pad := width + 1
	a, b, ok := clipSegmentRect(a, b, -pad, float64(fb.Width)+pad, float64(fb.Height)+pad)
	if !ok {
		return
	}

	n := int(width + 0.5)
	if n < 1 {
		n = 1
	}
	half := float64(n) / 2

	steps := int(math.Ceil(math.Max(math.Abs(b.x-a.x), math.Abs(b.y-a.y))))
	for i := 0; i <= steps; i++ {
		t := 0.0
		if steps > 0 {
			t = float64(i) / float64(steps)
		}
		p := lerpWin(a, b, t)
		c := shade(p.u/p.invW, p.v/p.invW)

		x0 := int(math.Floor(p.x - half + 0.5))
		y0 := int(math.Floor(p.y - half + 0.5))
		for oy := 0; oy < n; oy++ {
			for ox := 0; ox < n; ox++ {
				fb.plot(x0+ox, y0+oy, p.z, c, mask)
			}
		}
	}
}

// plotPoint draws a single-pixel point.
func (fb *FrameBuffer) plotPoint(p winVertex, shade shader, mask [4]bool) {
	fb.plot(int(math.Floor(p.x)), int(math.Floor(p.y)), p.z, shade(p.u/p.invW, p.v/p.invW), mask)
}

