// Package surface samples the bounded polar surface
//
//	x(r,θ) = r·cos θ
//	y(r,θ) = r·sin θ
//	z(r)   = a·cos(n·π·r / R)
//
// over a rectangular (r, θ) grid.
package surface

import (
	"errors"
	"fmt"
	"math"

	"polar-anaglyph/internal/mathutil"
)

// ErrInvalidParams is returned for grids that cannot be sampled.
var ErrInvalidParams = errors.New("surface: invalid parameters")

// stepSlack absorbs rounding in bound/step so that an exact multiple
// (2π / (π/10)) still counts its final sample.
const stepSlack = 1e-9

// MaxSamples caps rows×cols for a single mesh.
const MaxSamples = 1 << 22

// Params describes the sampling grid and the surface coefficients.
type Params struct {
	RMax     float64 `json:"r_max" toml:"r_max"`
	DR       float64 `json:"dr" toml:"dr"`
	ThetaMax float64 `json:"theta_max" toml:"theta_max"`
	DTheta   float64 `json:"dtheta" toml:"dtheta"`

	Amplitude float64 `json:"amplitude" toml:"amplitude"` // a
	Waves     float64 `json:"waves" toml:"waves"`         // n
	Radius    float64 `json:"radius" toml:"radius"`       // R
}

// DefaultParams returns r ∈ [0, 7] by π/8 and θ ∈ [0, 2π] by π/10 with n=a=R=1.
func DefaultParams() Params {
	return Params{
		RMax:      7,
		DR:        math.Pi / 8,
		ThetaMax:  2 * math.Pi,
		DTheta:    math.Pi / 10,
		Amplitude: 1,
		Waves:     1,
		Radius:    1,
	}
}

// Validate checks that the grid has at least one sample in each direction.
func (p Params) Validate() error {
	switch {
	case !(p.DR > 0) || !(p.DTheta > 0):
		return fmt.Errorf("%w: steps must be positive (dr=%g, dtheta=%g)", ErrInvalidParams, p.DR, p.DTheta)
	case !(p.RMax >= 0) || !(p.ThetaMax >= 0):
		return fmt.Errorf("%w: bounds must be non-negative (r_max=%g, theta_max=%g)", ErrInvalidParams, p.RMax, p.ThetaMax)
	case p.Radius == 0:
		return fmt.Errorf("%w: radius must be non-zero", ErrInvalidParams)
	case math.IsInf(p.RMax, 0) || math.IsInf(p.ThetaMax, 0):
		return fmt.Errorf("%w: bounds must be finite", ErrInvalidParams)
	}
	// Counted in float64 so a tiny step cannot overflow int.
	if n := stepCountF(p.RMax, p.DR) * stepCountF(p.ThetaMax, p.DTheta); !(n <= MaxSamples) {
		return fmt.Errorf("%w: grid exceeds %d samples (dr=%g, dtheta=%g)", ErrInvalidParams, MaxSamples, p.DR, p.DTheta)
	}
	return nil
}

// RowCount is ⌊RMax/DR⌋+1.
func (p Params) RowCount() int {
	return stepCount(p.RMax, p.DR)
}

// ColCount is ⌊ThetaMax/DTheta⌋+1.
func (p Params) ColCount() int {
	return stepCount(p.ThetaMax, p.DTheta)
}

func stepCount(bound, step float64) int {
	return int(stepCountF(bound, step))
}

func stepCountF(bound, step float64) float64 {
	return math.Floor(bound/step+stepSlack) + 1
}

// X, Y and Z evaluate the surface equations.
func (p Params) X(r, theta float64) float64 { return r * math.Cos(theta) }
func (p Params) Y(r, theta float64) float64 { return r * math.Sin(theta) }
func (p Params) Z(r float64) float64 {
	return p.Amplitude * math.Cos(p.Waves*math.Pi*r/p.Radius)
}

// Mesh holds the sampled grid. Row i is the meridian r = i·DR and
// column j is the meridian θ = j·DTheta.
type Mesh struct {
	Params Params

	rows, cols int
	points     []mathutil.Vec3 // row-major, len = rows*cols
}

// Generate samples p into a new Mesh. The output is a pure function of p.
func Generate(p Params) (*Mesh, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	rows, cols := p.RowCount(), p.ColCount()
	m := &Mesh{
		Params: p,
		rows:   rows,
		cols:   cols,
		points: make([]mathutil.Vec3, rows*cols),
	}

	// Precompute the angular terms once; they repeat for every row.
	cosT := make([]float64, cols)
	sinT := make([]float64, cols)
	for j := 0; j < cols; j++ {
		theta := float64(j) * p.DTheta
		cosT[j], sinT[j] = math.Cos(theta), math.Sin(theta)
	}

	for i := 0; i < rows; i++ {
		r := float64(i) * p.DR
		z := p.Z(r)
		row := m.points[i*cols : (i+1)*cols]
		for j := range row {
			row[j] = mathutil.Vec3{r * cosT[j], r * sinT[j], z}
		}
	}
	return m, nil
}

// Rows returns the number of r-samples.
func (m *Mesh) Rows() int { return m.rows }

// Cols returns the number of θ-samples.
func (m *Mesh) Cols() int { return m.cols }

// At returns the sample at row i, column j.
func (m *Mesh) At(i, j int) mathutil.Vec3 {
	return m.points[i*m.cols+j]
}

// Row returns row i. The slice aliases the mesh storage.
func (m *Mesh) Row(i int) []mathutil.Vec3 {
	return m.points[i*m.cols : (i+1)*m.cols]
}

// Column returns a copy of column j, one point per row.
func (m *Mesh) Column(j int) []mathutil.Vec3 {
	col := make([]mathutil.Vec3, m.rows)
	for i := range col {
		col[i] = m.At(i, j)
	}
	return col
}

// RAt and ThetaAt return the parameter values of row i and column j.
func (m *Mesh) RAt(i int) float64     { return float64(i) * m.Params.DR }
func (m *Mesh) ThetaAt(j int) float64 { return float64(j) * m.Params.DTheta }
