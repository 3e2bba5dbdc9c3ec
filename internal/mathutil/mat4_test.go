package mathutil

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-9

// assertMatchesGL compares a row-major Mat4 against a column-major mgl64 matrix.
func assertMatchesGL(t *testing.T, want mgl64.Mat4, got Mat4) {
	t.Helper()
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			assert.InDelta(t, want.At(r, c), got.At(r, c), tol, "element (%d,%d)", r, c)
		}
	}
}

func randomMat4(rng *rand.Rand) Mat4 {
	var m Mat4
	for i := range m {
		m[i] = rng.Float64()*4 - 2
	}
	return m
}

func TestPerspectiveMatchesGL(t *testing.T) {
	assertMatchesGL(t, mgl64.Perspective(math.Pi/2, 1.5, 1, 2000), Perspective(math.Pi/2, 1.5, 1, 2000))
	assertMatchesGL(t, mgl64.Perspective(0.6, 0.75, 0.1, 50), Perspective(0.6, 0.75, 0.1, 50))
}

func TestFrustumMatchesGL(t *testing.T) {
	tests := []struct {
		name                                 string
		left, right, bottom, top, near, far float64
	}{
		{"symmetric", -1, 1, -1, 1, 1, 100},
		{"off-axis", -0.4, 0.6, -0.5, 0.5, 1, 2000},
		{"shifted vertically", -1, 1, -0.2, 0.8, 0.5, 10},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			want := mgl64.Frustum(tc.left, tc.right, tc.bottom, tc.top, tc.near, tc.far)
			got := Frustum(tc.left, tc.right, tc.bottom, tc.top, tc.near, tc.far)
			assertMatchesGL(t, want, got)
		})
	}
}

func TestFrustumReducesToPerspective(t *testing.T) {
	fovy, aspect, near, far := 1.1, 1.25, 1.0, 500.0
	top := near * math.Tan(fovy/2)
	right := top * aspect
	assert.True(t, Frustum(-right, right, -top, top, near, far).ApproxEqual(Perspective(fovy, aspect, near, far), tol))
}

func TestTranslation(t *testing.T) {
	assertMatchesGL(t, mgl64.Translate3D(1, -2, 3), Translation(1, -2, 3))
	assert.Equal(t, Vec3{2, 0, -7}, Translation(1, -2, -10).MulPoint(Vec3{1, 2, 3}))
}

func TestAxisRotationMatchesGL(t *testing.T) {
	axis := Vec3{0.707, 0.707, 0}
	want := mgl64.HomogRotate3D(0.7, mgl64.Vec3{axis[0], axis[1], axis[2]}.Normalize())
	assertMatchesGL(t, want, AxisRotation(axis, 0.7))

	// Rotating X a quarter turn around Z lands on Y.
	got := AxisRotation(Vec3{0, 0, 5}, math.Pi/2).MulPoint(Vec3{1, 0, 0})
	assert.InDelta(t, 0, got[0], tol)
	assert.InDelta(t, 1, got[1], tol)
	assert.InDelta(t, 0, got[2], tol)
}

func TestMat4MulAppliesRightOperandFirst(t *testing.T) {
	rot := AxisRotation(Vec3{0, 0, 1}, math.Pi/2)
	move := Translation(1, 0, 0)

	// rot × move: translate first, then rotate. (0,0,0) → (1,0,0) → (0,1,0).
	p := Mat4Mul(rot, move).MulPoint(Vec3{})
	assert.InDelta(t, 0, p[0], tol)
	assert.InDelta(t, 1, p[1], tol)

	assert.Equal(t, Mat4Mul(Mat4Mul(rot, move), rot), Mat4Chain(rot, move, rot))
}

func TestMat4MulAssociative(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 100; i++ {
		a, b, c := randomMat4(rng), randomMat4(rng), randomMat4(rng)
		left := Mat4Mul(Mat4Mul(a, b), c)
		right := Mat4Mul(a, Mat4Mul(b, c))
		require.True(t, left.ApproxEqual(right, 1e-9), "iteration %d", i)
	}
}

func TestMulVec4(t *testing.T) {
	p := Perspective(math.Pi/2, 1, 1, 2000)
	clip := p.MulVec4(Vec3{0, 0, -1}.Point())
	// A point on the near plane maps to NDC z = -1.
	assert.InDelta(t, -1, clip[2]/clip[3], tol)

	clip = p.MulVec4(Vec3{0, 0, -2000}.Point())
	assert.InDelta(t, 1, clip[2]/clip[3], 1e-6)
}

func TestIdentity(t *testing.T) {
	assert.True(t, Mat4Identity().IsIdentity())
	assert.True(t, Mat4Chain().IsIdentity())
	assert.False(t, Translation(0, 0, 1).IsIdentity())
}

func TestAxisRotationsMatchGL(t *testing.T) {
	for _, a := range []float64{-1.2, 0.3, math.Pi / 2} {
		assertMatchesGL(t, mgl64.HomogRotate3DX(a), RotationX(a))
		assertMatchesGL(t, mgl64.HomogRotate3DY(a), RotationY(a))
		assertMatchesGL(t, mgl64.HomogRotate3DZ(a), RotationZ(a))
	}
}
