package mathutil

import "math"

// RotationX rotates counter-clockwise around +X. Angle in radians.
func RotationX(a float64) Mat4 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat4{
		1, 0, 0, 0,
		0, c, -s, 0,
		0, s, c, 0,
		0, 0, 0, 1,
	}
}

// RotationY rotates counter-clockwise around +Y.
func RotationY(a float64) Mat4 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat4{
		c, 0, s, 0,
		0, 1, 0, 0,
		-s, 0, c, 0,
		0, 0, 0, 1,
	}
}

// RotationZ rotates counter-clockwise around +Z.
func RotationZ(a float64) Mat4 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat4{
		c, -s, 0, 0,
		s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// OrientationMatrix converts device orientation angles (radians) using the
// intrinsic Z-X'-Y'' order of a deviceorientation reading:
// Rz(alpha) · Rx(beta) · Ry(gamma).
func OrientationMatrix(alpha, beta, gamma float64) Mat4 {
	return Mat4Chain(RotationZ(alpha), RotationX(beta), RotationY(gamma))
}

func Deg2Rad(d float64) float64 {
	return d * math.Pi / 180
}

func Rad2Deg(r float64) float64 {
	return r * 180 / math.Pi
}
