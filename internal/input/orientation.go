package input

import "polar-anaglyph/internal/mathutil"

// Orientation is a device orientation reading in degrees: Alpha around Z,
// Beta around X, Gamma around Y.
type Orientation struct {
	Alpha float64 `json:"alpha" toml:"alpha"`
	Beta  float64 `json:"beta" toml:"beta"`
	Gamma float64 `json:"gamma" toml:"gamma"`
}

// Matrix returns Rz(alpha)·Rx(beta)·Ry(gamma).
func (o Orientation) Matrix() mathutil.Mat4 {
	return mathutil.OrientationMatrix(
		mathutil.Deg2Rad(o.Alpha),
		mathutil.Deg2Rad(o.Beta),
		mathutil.Deg2Rad(o.Gamma),
	)
}
