package utils

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Determinant of a square matrix. Sizes up to 3 are expanded explicitly, the
// metric terms of a cell never exceed that.
func Determinant(A mat.Matrix) (det float64) {
	var (
		nr, nc = A.Dims()
	)
	if nr != nc {
		panic(fmt.Errorf("determinant of a non square matrix: nr, nc = %d, %d", nr, nc))
	}
	switch nr {
	case 0:
		det = 1
	case 1:
		det = A.At(0, 0)
	case 2:
		det = A.At(0, 0)*A.At(1, 1) - A.At(0, 1)*A.At(1, 0)
	case 3:
		det = A.At(0, 0)*(A.At(1, 1)*A.At(2, 2)-A.At(1, 2)*A.At(2, 1)) -
			A.At(0, 1)*(A.At(1, 0)*A.At(2, 2)-A.At(1, 2)*A.At(2, 0)) +
			A.At(0, 2)*(A.At(1, 0)*A.At(2, 1)-A.At(1, 1)*A.At(2, 0))
	default:
		det = mat.Det(A)
	}
	return
}

// Gram returns G = Aᵀ A, the first fundamental form of the columns of A
func Gram(A mat.Matrix) (G *mat.Dense) {
	var (
		_, nc = A.Dims()
	)
	G = mat.NewDense(nc, nc, nil)
	G.Mul(A.T(), A)
	return
}

// VolumeElement is det(A) for square A and sqrt(det(AᵀA)) otherwise
func VolumeElement(A mat.Matrix) float64 {
	var (
		nr, nc = A.Dims()
	)
	if nr == nc {
		return Determinant(A)
	}
	return math.Sqrt(Determinant(Gram(A)))
}

// CovariantForm returns the transpose of the (pseudo-)inverse of A, that is
// A⁻ᵀ for square A and A (AᵀA)⁻¹ for tall A. The result has the shape of A.
// A singular A yields Inf/NaN entries, the caller checks the volume element.
func CovariantForm(A mat.Matrix) (C *mat.Dense) {
	nr, nc := A.Dims()
	C = mat.NewDense(nr, nc, nil)
	SetCovariantForm(C, A)
	return
}

// SetCovariantForm writes the covariant form of A into C, which has the shape of A
func SetCovariantForm(C *mat.Dense, A mat.Matrix) {
	var (
		nr, nc = A.Dims()
	)
	if r, c := C.Dims(); r != nr || c != nc {
		panic(fmt.Errorf("covariant form of a %dx%d matrix does not fit %dx%d", nr, nc, r, c))
	}
	if nr == nc {
		adjugateTranspose(A, C)
		return
	}
	var (
		G    = Gram(A)
		Ginv = mat.NewDense(nc, nc, nil)
	)
	adjugateTranspose(G, Ginv)
	// Ginv holds G⁻ᵀ, which equals G⁻¹ since G is symmetric
	C.Mul(A, Ginv)
}

// adjugateTranspose writes A⁻ᵀ into C using cofactors, sizes 1 to 3
func adjugateTranspose(A mat.Matrix, C *mat.Dense) {
	var (
		n, _ = A.Dims()
		det  = Determinant(A)
	)
	switch n {
	case 1:
		C.Set(0, 0, 1./det)
	case 2:
		C.Set(0, 0, A.At(1, 1)/det)
		C.Set(0, 1, -A.At(1, 0)/det)
		C.Set(1, 0, -A.At(0, 1)/det)
		C.Set(1, 1, A.At(0, 0)/det)
	case 3:
		for i := 0; i < 3; i++ {
			i1, i2 := (i+1)%3, (i+2)%3
			for j := 0; j < 3; j++ {
				j1, j2 := (j+1)%3, (j+2)%3
				C.Set(i, j, (A.At(i1, j1)*A.At(i2, j2)-A.At(i1, j2)*A.At(i2, j1))/det)
			}
		}
	default:
		var inv mat.Dense
		if err := inv.Inverse(A); err != nil {
			panic(err)
		}
		C.Copy(inv.T())
	}
}

// SolveSmall solves A x = b for a small square system
func SolveSmall(A mat.Matrix, b []float64) (x []float64, err error) {
	var (
		n, _ = A.Dims()
		xv   = mat.NewVecDense(n, nil)
	)
	if len(b) != n {
		err = fmt.Errorf("dimension mismatch: matrix is %dx%d, rhs has length %d", n, n, len(b))
		return
	}
	if math.Abs(Determinant(A)) < 1.e-300 {
		err = fmt.Errorf("unable to solve, matrix is singular")
		return
	}
	if err = xv.SolveVec(A, mat.NewVecDense(n, append([]float64(nil), b...))); err != nil {
		return
	}
	x = xv.RawVector().Data
	return
}
