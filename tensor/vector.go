package tensor

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

func Norm(v []float64) float64 { return floats.Norm(v, 2) }

func Dot(a, b []float64) float64 { return floats.Dot(a, b) }

// Normalize divides v by its Euclidean norm, changes v
func Normalize(v []float64) []float64 {
	floats.Scale(1./Norm(v), v)
	return v
}

// Cross2 is the 2D cross product of a single vector, a rotation by -90 degrees
func Cross2(a []float64) []float64 {
	return []float64{a[1], -a[0]}
}

func Cross3(a, b []float64) []float64 {
	c := r3.Cross(r3.Vec{X: a[0], Y: a[1], Z: a[2]}, r3.Vec{X: b[0], Y: b[1], Z: b[2]})
	return []float64{c.X, c.Y, c.Z}
}

// Apply computes A x, where x has length nc(A)
func Apply(A mat.Matrix, x []float64) (y []float64) {
	var (
		nr, nc = A.Dims()
	)
	if len(x) != nc {
		panic(fmt.Errorf("dimension mismatch: matrix has %d columns, vector has length %d", nc, len(x)))
	}
	y = make([]float64, nr)
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			y[i] += A.At(i, j) * x[j]
		}
	}
	return
}

// Column returns column j of A as a vector
func Column(A mat.Matrix, j int) (c []float64) {
	var (
		nr, _ = A.Dims()
	)
	c = make([]float64, nr)
	for i := range c {
		c[i] = A.At(i, j)
	}
	return
}
