package mathutil

import "math"

// Mat4 is a 4×4 matrix stored row-major and applied to column vectors.
// Mat4Mul(a, b) therefore applies b first, then a. Every camera and model
// transform in the renderer is composed through Mat4Mul.
type Mat4 [16]float64

func Mat4Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mat4Mul returns a × b.
func Mat4Mul(a, b Mat4) Mat4 {
	var m Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			m[r*4+c] = a[r*4+0]*b[0*4+c] + a[r*4+1]*b[1*4+c] +
				a[r*4+2]*b[2*4+c] + a[r*4+3]*b[3*4+c]
		}
	}
	return m
}

// Mat4Chain multiplies left to right: Mat4Chain(a, b, c) = a × b × c.
func Mat4Chain(ms ...Mat4) Mat4 {
	out := Mat4Identity()
	for _, m := range ms {
		out = Mat4Mul(out, m)
	}
	return out
}

// At returns the element at row r, column c.
func (m Mat4) At(r, c int) float64 {
	return m[r*4+c]
}

// MulPoint transforms a 3D point (w=1) by the affine part of the matrix.
func (m Mat4) MulPoint(v Vec3) Vec3 {
	return Vec3{
		m[0]*v[0] + m[1]*v[1] + m[2]*v[2] + m[3],
		m[4]*v[0] + m[5]*v[1] + m[6]*v[2] + m[7],
		m[8]*v[0] + m[9]*v[1] + m[10]*v[2] + m[11],
	}
}

// MulVec4 returns M × v with the full projective row.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		m[0]*v[0] + m[1]*v[1] + m[2]*v[2] + m[3]*v[3],
		m[4]*v[0] + m[5]*v[1] + m[6]*v[2] + m[7]*v[3],
		m[8]*v[0] + m[9]*v[1] + m[10]*v[2] + m[11]*v[3],
		m[12]*v[0] + m[13]*v[1] + m[14]*v[2] + m[15]*v[3],
	}
}

// FromMat3Translation builds a 4×4 affine matrix from a 3×3 rotation and translation.
func FromMat3Translation(r Mat3, t Vec3) Mat4 {
	return Mat4{
		r[0], r[1], r[2], t[0],
		r[3], r[4], r[5], t[1],
		r[6], r[7], r[8], t[2],
		0, 0, 0, 1,
	}
}

// Translation returns a matrix translating by (tx, ty, tz).
func Translation(tx, ty, tz float64) Mat4 {
	return Mat4{
		1, 0, 0, tx,
		0, 1, 0, ty,
		0, 0, 1, tz,
		0, 0, 0, 1,
	}
}

// AxisRotation rotates by angle radians (counter-clockwise) around axis.
// The axis does not need to be normalized.
func AxisRotation(axis Vec3, angle float64) Mat4 {
	return FromMat3Translation(AxisRotation3(axis, angle), Vec3{})
}

// AxisRotation3 is the 3×3 form of AxisRotation (Rodrigues).
func AxisRotation3(axis Vec3, angle float64) Mat3 {
	n := axis.Normalize()
	x, y, z := n[0], n[1], n[2]
	c, s := math.Cos(angle), math.Sin(angle)
	t := 1 - c
	return Mat3{
		t*x*x + c, t*x*y - s*z, t*x*z + s*y,
		t*x*y + s*z, t*y*y + c, t*y*z - s*x,
		t*x*z - s*y, t*y*z + s*x, t*z*z + c,
	}
}

// Frustum returns an OpenGL-style perspective projection for the given
// near-plane extents. The extents need not be symmetric (off-axis frustum).
func Frustum(left, right, bottom, top, near, far float64) Mat4 {
	rl := right - left
	tb := top - bottom
	fn := far - near
	return Mat4{
		2 * near / rl, 0, (right + left) / rl, 0,
		0, 2 * near / tb, (top + bottom) / tb, 0,
		0, 0, -(far + near) / fn, -2 * far * near / fn,
		0, 0, -1, 0,
	}
}

// Perspective returns a symmetric projection. fovy is the vertical field of view in radians.
func Perspective(fovy, aspect, near, far float64) Mat4 {
	f := 1 / math.Tan(fovy/2)
	nf := near - far
	return Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (far + near) / nf, 2 * far * near / nf,
		0, 0, -1, 0,
	}
}

// ApproxEqual reports whether every element differs by at most eps.
func (m Mat4) ApproxEqual(o Mat4, eps float64) bool {
	for i := 0; i < 16; i++ {
		if math.Abs(m[i]-o[i]) > eps {
			return false
		}
	}
	return true
}

// IsIdentity checks if the matrix is approximately identity.
func (m Mat4) IsIdentity() bool {
	return m.ApproxEqual(Mat4Identity(), 1e-8)
}
