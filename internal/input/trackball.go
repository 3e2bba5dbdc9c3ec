package input

import (
	"math"

	"polar-anaglyph/internal/mathutil"
)

// Trackball turns mouse drags into a rotation, like a ball under the cursor.
// The view matrix is the accumulated rotation followed by a pull-back of
// ViewDistance along -Z.
type Trackball struct {
	ViewDistance float64

	rotation mathutil.Quat
	dragging bool
	last     mathutil.Vec3
	width    int
	height   int
}

// NewTrackball returns a trackball with no rotation for a width×height surface.
func NewTrackball(width, height int, viewDistance float64) *Trackball {
	return &Trackball{
		ViewDistance: viewDistance,
		rotation:     mathutil.QuatIdentity(),
		width:        width,
		height:       height,
	}
}

// spherePoint projects a pixel onto the unit ball centered on the surface.
// Points outside the ball's silhouette land on its rim.
func (tb *Trackball) spherePoint(x, y float64) mathutil.Vec3 {
	size := math.Min(float64(tb.width), float64(tb.height))
	if size <= 0 {
		return mathutil.Vec3{0, 0, 1}
	}
	px := (2*x - float64(tb.width)) / size
	py := (float64(tb.height) - 2*y) / size
	d := px*px + py*py
	if d > 1 {
		return mathutil.Vec3{px, py, 0}.Normalize()
	}
	return mathutil.Vec3{px, py, math.Sqrt(1 - d)}
}

// Begin starts a drag at pixel (x, y).
func (tb *Trackball) Begin(x, y float64) {
	tb.dragging = true
	tb.last = tb.spherePoint(x, y)
}

// Move continues a drag and returns the updated view matrix. Moves without a
// Begin are ignored.
func (tb *Trackball) Move(x, y float64) mathutil.Mat4 {
	if !tb.dragging {
		return tb.ViewMatrix()
	}
	p := tb.spherePoint(x, y)
	axis := tb.last.Cross(p)
	dot := math.Max(-1, math.Min(1, tb.last.Dot(p)))
	if axis.Len() > 1e-12 {
		q := mathutil.QuatFromAxisAngle(axis, math.Acos(dot))
		tb.rotation = mathutil.QuatMul(q, tb.rotation).Normalize()
	}
	tb.last = p
	return tb.ViewMatrix()
}

// End finishes a drag.
func (tb *Trackball) End() {
	tb.dragging = false
}

// Drag runs a complete Begin/Move/End gesture.
func (tb *Trackball) Drag(fromX, fromY, toX, toY float64) mathutil.Mat4 {
	tb.Begin(fromX, fromY)
	m := tb.Move(toX, toY)
	tb.End()
	return m
}

// SetRotation replaces the accumulated rotation.
func (tb *Trackball) SetRotation(q mathutil.Quat) {
	tb.rotation = q.Normalize()
}

// ViewMatrix returns Translation(0, 0, -ViewDistance) × rotation.
func (tb *Trackball) ViewMatrix() mathutil.Mat4 {
	return mathutil.Mat4Mul(mathutil.Translation(0, 0, -tb.ViewDistance), mathutil.QuatToMat4(tb.rotation))
}
