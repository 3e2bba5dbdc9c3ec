package surface

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultGridSize(t *testing.T) {
	p := DefaultParams()
	assert.Equal(t, 18, p.RowCount())
	assert.Equal(t, 21, p.ColCount())

	m, err := Generate(p)
	require.NoError(t, err)
	assert.Equal(t, int(math.Floor(p.RMax/p.DR))+1, m.Rows())
	assert.Equal(t, 21, m.Cols())
}

func TestSamplesLieOnCircleOfRadiusR(t *testing.T) {
	m, err := Generate(DefaultParams())
	require.NoError(t, err)

	for i := 0; i < m.Rows(); i++ {
		r := m.RAt(i)
		for j := 0; j < m.Cols(); j++ {
			p := m.At(i, j)
			assert.InDelta(t, r*r, p[0]*p[0]+p[1]*p[1], 1e-9, "sample (%d,%d)", i, j)
		}
	}
}

func TestHeightDependsOnlyOnRadius(t *testing.T) {
	m, err := Generate(DefaultParams())
	require.NoError(t, err)

	for i := 0; i < m.Rows(); i++ {
		row := m.Row(i)
		want := math.Cos(math.Pi * m.RAt(i))
		for _, p := range row {
			assert.Equal(t, row[0][2], p[2])
		}
		assert.InDelta(t, want, row[0][2], 1e-12)
	}
}

func TestRingIsClosed(t *testing.T) {
	m, err := Generate(DefaultParams())
	require.NoError(t, err)

	// θ = 2π is sampled, so the last column returns to the first.
	last := m.Cols() - 1
	assert.InDelta(t, 2*math.Pi, m.ThetaAt(last), 1e-12)
	for i := 0; i < m.Rows(); i++ {
		a, b := m.At(i, 0), m.At(i, last)
		assert.InDelta(t, a[0], b[0], 1e-9)
		assert.InDelta(t, a[1], b[1], 1e-9)
	}
}

func TestColumnIsTransposedRow(t *testing.T) {
	m, err := Generate(DefaultParams())
	require.NoError(t, err)

	col := m.Column(3)
	require.Len(t, col, m.Rows())
	for i, p := range col {
		assert.Equal(t, m.Row(i)[3], p)
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	a, err := Generate(DefaultParams())
	require.NoError(t, err)
	b, err := Generate(DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, a.points, b.points)
}

func TestCoefficients(t *testing.T) {
	p := DefaultParams()
	p.Amplitude, p.Waves, p.Radius = 2, 3, 4
	assert.InDelta(t, 2*math.Cos(3*math.Pi*1.5/4), p.Z(1.5), 1e-12)
}

func TestGenerateRejectsInvalidParams(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"zero dr", func(p *Params) { p.DR = 0 }},
		{"negative dtheta", func(p *Params) { p.DTheta = -0.1 }},
		{"NaN dr", func(p *Params) { p.DR = math.NaN() }},
		{"negative bound", func(p *Params) { p.RMax = -1 }},
		{"infinite bound", func(p *Params) { p.ThetaMax = math.Inf(1) }},
		{"zero radius", func(p *Params) { p.Radius = 0 }},
		{"tiny dr", func(p *Params) { p.DR = 1e-300 }},
		{"subnormal dtheta", func(p *Params) { p.DTheta = math.SmallestNonzeroFloat64 }},
		{"too many samples", func(p *Params) { p.DR, p.DTheta = p.RMax/4096, p.ThetaMax/4096 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := DefaultParams()
			tc.mutate(&p)
			var err error
			assert.NotPanics(t, func() { _, err = Generate(p) })
			assert.ErrorIs(t, err, ErrInvalidParams)
		})
	}
}

func TestLargestAcceptedGrid(t *testing.T) {
	p := DefaultParams()
	p.RMax, p.DR = 1023, 1
	p.ThetaMax, p.DTheta = 4095, 1
	require.Equal(t, MaxSamples, p.RowCount()*p.ColCount())
	require.NoError(t, p.Validate())
}

func TestSingleSampleGrid(t *testing.T) {
	p := DefaultParams()
	p.RMax, p.ThetaMax = 0, 0
	m, err := Generate(p)
	require.NoError(t, err)
	assert.Equal(t, 1, m.Rows())
	assert.Equal(t, 1, m.Cols())
	assert.Equal(t, 1.0, m.At(0, 0)[2])
}
