package stereo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polar-anaglyph/internal/mathutil"
)

func TestFrustumsMirrorHorizontally(t *testing.T) {
	for _, sep := range []float64{1, 70, 250} {
		p := DefaultParams()
		p.EyeSeparation = sep
		p.AspectRatio = 1.6
		cam, err := New(p)
		require.NoError(t, err)

		l, r := cam.LeftBounds(), cam.RightBounds()
		assert.InDelta(t, l.Left, -r.Right, 1e-12)
		assert.InDelta(t, l.Right, -r.Left, 1e-12)
		assert.Equal(t, l.Top, r.Top)
		assert.Equal(t, l.Bottom, r.Bottom)
		assert.Equal(t, l.Near, r.Near)
		assert.Equal(t, l.Far, r.Far)
		assert.Greater(t, l.Right, -l.Left, "left eye frustum is sheared right")
	}
}

func TestZeroSeparationIsSymmetric(t *testing.T) {
	p := DefaultParams()
	p.EyeSeparation = 0
	p.AspectRatio = 1.25
	p.FOV = 60
	cam, err := New(p)
	require.NoError(t, err)

	for _, b := range []Bounds{cam.LeftBounds(), cam.RightBounds()} {
		assert.InDelta(t, -b.Left, b.Right, 1e-12)
		assert.InDelta(t, -b.Bottom, b.Top, 1e-12)
	}

	want := mathutil.Perspective(mathutil.Deg2Rad(60), 1.25, p.Near, p.Far)
	assert.True(t, cam.LeftProjection().ApproxEqual(want, 1e-9))
	assert.True(t, cam.RightProjection().ApproxEqual(want, 1e-9))
}

func TestBoundsFormula(t *testing.T) {
	p := Params{Convergence: 100, EyeSeparation: 10, AspectRatio: 2, FOV: 90, Near: 1, Far: 500}
	cam, err := New(p)
	require.NoError(t, err)

	// tan(45°) = 1: top = 1, halfBase = 200, shifts 195 and 205.
	l := cam.LeftBounds()
	assert.InDelta(t, 1, l.Top, 1e-12)
	assert.InDelta(t, -1.95, l.Left, 1e-12)
	assert.InDelta(t, 2.05, l.Right, 1e-12)

	r := cam.RightBounds()
	assert.InDelta(t, -2.05, r.Left, 1e-12)
	assert.InDelta(t, 1.95, r.Right, 1e-12)
}

func TestEyeTranslation(t *testing.T) {
	p := DefaultParams()
	p.EyeSeparation = 70
	cam, err := New(p)
	require.NoError(t, err)

	wantL := mathutil.Mat4Mul(cam.LeftBounds().Matrix(), mathutil.Translation(0.35, 0, 0))
	wantR := mathutil.Mat4Mul(cam.RightBounds().Matrix(), mathutil.Translation(-0.35, 0, 0))
	assert.True(t, cam.LeftProjection().ApproxEqual(wantL, 1e-12))
	assert.True(t, cam.RightProjection().ApproxEqual(wantR, 1e-12))
}

func TestInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"zero convergence", func(p *Params) { p.Convergence = 0 }},
		{"NaN convergence", func(p *Params) { p.Convergence = math.NaN() }},
		{"zero aspect", func(p *Params) { p.AspectRatio = 0 }},
		{"zero fov", func(p *Params) { p.FOV = 0 }},
		{"straight angle fov", func(p *Params) { p.FOV = 180 }},
		{"zero near", func(p *Params) { p.Near = 0 }},
		{"far before near", func(p *Params) { p.Far = 0.5 }},
		{"infinite separation", func(p *Params) { p.EyeSeparation = math.Inf(1) }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := DefaultParams()
			tc.mutate(&p)
			cam, err := New(p)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Nil(t, cam)
		})
	}
}

func TestDefaultsAreValid(t *testing.T) {
	cam, err := New(DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, DefaultParams(), cam.Params())
}
