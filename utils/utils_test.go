package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestIndex(t *testing.T) {
	I := NewRange(2, 5)
	assert.Equal(t, Index{2, 3, 4, 5}, I)
	assert.Equal(t, 5, I.Max())
	assert.Equal(t, -1, Index{}.Max())
	assert.Equal(t, 0, len(NewRange(3, 1)))
	J := I.Copy()
	J[0] = 99
	assert.Equal(t, 2, I[0])
}

func TestPOW(t *testing.T) {
	for p := -10; p <= 10; p++ {
		assert.InDelta(t, math.Pow(1.3, float64(p)), POW(1.3, p), 1.e-12)
	}
	assert.Equal(t, 27, IPOW(3, 3))
	assert.Equal(t, 1, IPOW(7, 0))
	assert.True(t, Near(1., 1.+1.e-10))
	assert.False(t, Near(1., 1.1))
	assert.Equal(t, 1., Clamp(3, 0, 1))
}

func TestDeterminantAndCovariant(t *testing.T) {
	{ // Square, 3D
		A := mat.NewDense(3, 3, []float64{
			2, 1, 0,
			0, 3, 1,
			1, 0, 4,
		})
		det := Determinant(A)
		assert.InDelta(t, mat.Det(A), det, 1.e-12)
		C := CovariantForm(A)
		// C = A⁻ᵀ, so Cᵀ A = I
		var P mat.Dense
		P.Mul(C.T(), A)
		assert.True(t, mat.EqualApprox(&P, eye(3), 1.e-12))
		assert.InDelta(t, det, VolumeElement(A), 1.e-12)
	}
	{ // Square, 2D
		A := mat.NewDense(2, 2, []float64{3, 1, -1, 2})
		C := CovariantForm(A)
		var P mat.Dense
		P.Mul(C.T(), A)
		assert.True(t, mat.EqualApprox(&P, eye(2), 1.e-12))
	}
	{ // Tall, a surface in 3D: the pseudo-inverse still gives Cᵀ A = I
		A := mat.NewDense(3, 2, []float64{
			1, 0,
			0, 2,
			1, 1,
		})
		C := CovariantForm(A)
		var P mat.Dense
		P.Mul(C.T(), A)
		assert.True(t, mat.EqualApprox(&P, eye(2), 1.e-12))
		G := Gram(A)
		assert.InDelta(t, math.Sqrt(mat.Det(G)), VolumeElement(A), 1.e-12)
	}
	assert.Panics(t, func() { Determinant(mat.NewDense(2, 3, nil)) })
	assert.Panics(t, func() { SetCovariantForm(mat.NewDense(2, 3, nil), mat.NewDense(3, 2, nil)) })
}

func TestSolveSmall(t *testing.T) {
	A := mat.NewDense(2, 2, []float64{4, 1, 1, 3})
	x, err := SolveSmall(A, []float64{1, 2})
	require.NoError(t, err)
	assert.InDelta(t, 1./11., x[0], 1.e-14)
	assert.InDelta(t, 7./11., x[1], 1.e-14)
	_, err = SolveSmall(mat.NewDense(2, 2, []float64{1, 2, 2, 4}), []float64{1, 1})
	assert.Error(t, err)
	_, err = SolveSmall(A, []float64{1})
	assert.Error(t, err)
}

func eye(n int) *mat.Dense {
	I := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		I.Set(i, i, 1)
	}
	return I
}
