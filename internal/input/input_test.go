package input

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"polar-anaglyph/internal/mathutil"
)

func TestRenderStateHandlersReturnCopies(t *testing.T) {
	base := DefaultRenderState()
	filled := base.WithFilled(true)
	wide := filled.WithEyeSeparation(120)

	assert.False(t, base.Filled)
	assert.True(t, filled.Filled)
	assert.Equal(t, 70, filled.EyeSeparation)
	assert.Equal(t, 120, wide.EyeSeparation)
	assert.True(t, base.Orientation.IsIdentity())
	assert.True(t, base.View.IsIdentity())
}

func TestOrientationMatrix(t *testing.T) {
	assert.True(t, Orientation{}.Matrix().IsIdentity())

	// A quarter turn of alpha rotates X onto Y.
	p := Orientation{Alpha: 90}.Matrix().MulPoint(mathutil.Vec3{1, 0, 0})
	assert.InDelta(t, 0, p[0], 1e-12)
	assert.InDelta(t, 1, p[1], 1e-12)

	// Beta tips the device forward around X: Y goes to Z.
	p = Orientation{Beta: 90}.Matrix().MulPoint(mathutil.Vec3{0, 1, 0})
	assert.InDelta(t, 1, p[2], 1e-12)

	s := DefaultRenderState().WithOrientation(Orientation{Alpha: 30, Beta: 10, Gamma: -5})
	assert.False(t, s.Orientation.IsIdentity())
}

func TestTrackballHorizontalDragRotatesAroundY(t *testing.T) {
	tb := NewTrackball(200, 200, 0)
	view := tb.Drag(100, 100, 150, 100)

	// Dragging right from the center spins the ball around +Y.
	want := math.Asin(0.5)
	got := view.MulPoint(mathutil.Vec3{0, 0, 1})
	assert.InDelta(t, math.Sin(want), got[0], 1e-9)
	assert.InDelta(t, 0, got[1], 1e-9)
	assert.InDelta(t, math.Cos(want), got[2], 1e-9)
}

func TestTrackballViewDistance(t *testing.T) {
	tb := NewTrackball(100, 100, 10)
	assert.Equal(t, mathutil.Vec3{0, 0, -10}, tb.ViewMatrix().MulPoint(mathutil.Vec3{}))
}

func TestTrackballIgnoresMoveWithoutBegin(t *testing.T) {
	tb := NewTrackball(100, 100, 0)
	assert.True(t, tb.Move(10, 10).IsIdentity())

	tb.Begin(50, 50)
	assert.True(t, tb.Move(50, 50).IsIdentity(), "no motion, no rotation")
	tb.End()
	assert.True(t, tb.Move(90, 90).IsIdentity())
}

func TestTrackballDragsAccumulate(t *testing.T) {
	tb := NewTrackball(200, 200, 0)
	tb.Drag(100, 100, 130, 100)
	view := tb.Drag(100, 100, 130, 100)

	one := NewTrackball(200, 200, 0)
	single := one.Drag(100, 100, 130, 100)
	assert.True(t, view.ApproxEqual(mathutil.Mat4Mul(single, single), 1e-9))
}
