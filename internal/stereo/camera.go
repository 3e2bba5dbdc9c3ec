// Package stereo builds the off-axis projection pair used for anaglyph rendering.
//
// Both eyes share one zero-parallax plane at the convergence distance. Each eye's
// frustum is sheared horizontally so the two views line up on that plane instead
// of toeing the cameras in.
package stereo

import (
	"errors"
	"fmt"
	"math"

	"polar-anaglyph/internal/mathutil"
)

// ErrInvalidConfig is returned for camera parameters the frustum math cannot use.
var ErrInvalidConfig = errors.New("stereo: invalid camera configuration")

// Params is the per-frame camera description. FOV is the vertical field of view in degrees.
type Params struct {
	Convergence   float64 `json:"convergence" toml:"convergence"`
	EyeSeparation float64 `json:"eye_separation" toml:"eye_separation"`
	AspectRatio   float64 `json:"aspect_ratio" toml:"aspect_ratio"`
	FOV           float64 `json:"fov" toml:"fov"`
	Near          float64 `json:"near" toml:"near"`
	Far           float64 `json:"far" toml:"far"`
}

// DefaultParams returns the camera used when nothing is configured.
func DefaultParams() Params {
	return Params{
		Convergence:   2000,
		EyeSeparation: 70,
		AspectRatio:   1,
		FOV:           90,
		Near:          1,
		Far:           2000,
	}
}

// Validate rejects configurations that would divide by zero or produce an
// inverted or empty viewing volume.
func (p Params) Validate() error {
	switch {
	case p.Convergence == 0 || math.IsNaN(p.Convergence) || math.IsInf(p.Convergence, 0):
		return fmt.Errorf("%w: convergence must be non-zero and finite, got %g", ErrInvalidConfig, p.Convergence)
	case !(p.AspectRatio > 0):
		return fmt.Errorf("%w: aspect ratio must be positive, got %g", ErrInvalidConfig, p.AspectRatio)
	case !(p.FOV > 0 && p.FOV < 180):
		return fmt.Errorf("%w: fov must be in (0, 180) degrees, got %g", ErrInvalidConfig, p.FOV)
	case !(p.Near > 0) || !(p.Far > p.Near):
		return fmt.Errorf("%w: need 0 < near < far, got near=%g far=%g", ErrInvalidConfig, p.Near, p.Far)
	case math.IsNaN(p.EyeSeparation) || math.IsInf(p.EyeSeparation, 0):
		return fmt.Errorf("%w: eye separation must be finite", ErrInvalidConfig)
	}
	return nil
}

// Bounds are the near-plane extents passed to mathutil.Frustum.
type Bounds struct {
	Left, Right, Bottom, Top, Near, Far float64
}

// Matrix returns the projection for b.
func (b Bounds) Matrix() mathutil.Mat4 {
	return mathutil.Frustum(b.Left, b.Right, b.Bottom, b.Top, b.Near, b.Far)
}

// Camera holds the validated parameters with the field of view already in radians.
type Camera struct {
	params Params
	fovRad float64
}

// New validates p and returns a Camera.
func New(p Params) (*Camera, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Camera{params: p, fovRad: mathutil.Deg2Rad(p.FOV)}, nil
}

// Params returns the parameters the camera was built from.
func (c *Camera) Params() Params { return c.params }

// shifts returns the half height of the near plane and the two horizontal
// half-widths of the convergence plane, narrowed and widened by half the
// eye separation.
func (c *Camera) shifts() (top, narrow, wide float64) {
	p := c.params
	t := math.Tan(c.fovRad / 2)
	top = p.Near * t
	halfBase := p.AspectRatio * t * p.Convergence
	return top, halfBase - p.EyeSeparation/2, halfBase + p.EyeSeparation/2
}

// LeftBounds returns the left eye frustum extents.
func (c *Camera) LeftBounds() Bounds {
	p := c.params
	top, narrow, wide := c.shifts()
	k := p.Near / p.Convergence
	return Bounds{
		Left: -narrow * k, Right: wide * k,
		Bottom: -top, Top: top,
		Near: p.Near, Far: p.Far,
	}
}

// RightBounds returns the right eye frustum extents. They mirror LeftBounds
// horizontally.
func (c *Camera) RightBounds() Bounds {
	p := c.params
	top, narrow, wide := c.shifts()
	k := p.Near / p.Convergence
	return Bounds{
		Left: -wide * k, Right: narrow * k,
		Bottom: -top, Top: top,
		Near: p.Near, Far: p.Far,
	}
}

// eyeOffset is the scene translation applied for one eye.
func (c *Camera) eyeOffset() float64 {
	return c.params.EyeSeparation / 200
}

// LeftProjection is the left frustum composed with the left eye's scene shift.
func (c *Camera) LeftProjection() mathutil.Mat4 {
	return mathutil.Mat4Mul(c.LeftBounds().Matrix(), mathutil.Translation(c.eyeOffset(), 0, 0))
}

// RightProjection is the right frustum composed with the right eye's scene shift.
func (c *Camera) RightProjection() mathutil.Mat4 {
	return mathutil.Mat4Mul(c.RightBounds().Matrix(), mathutil.Translation(-c.eyeOffset(), 0, 0))
}
