// Package quadrature holds tensor product rules on the unit hypercube, their
// projections onto all faces and subfaces of a cell, and immersed surface rules.
package quadrature

import (
	"fmt"

	"github.com/notargets/fefield/refcell"
)

type Quadrature struct {
	Dim     int
	Points  [][]float64
	Weights []float64
}

func New(dim int, points [][]float64, weights []float64) Quadrature {
	if len(points) != len(weights) {
		panic(fmt.Errorf("have %d points and %d weights", len(points), len(weights)))
	}
	for i, p := range points {
		if len(p) != dim {
			panic(fmt.Errorf("point %d has dimension %d, expected %d", i, len(p), dim))
		}
	}
	return Quadrature{Dim: dim, Points: points, Weights: weights}
}

// Single is the one point rule with unit weight
func Single(p []float64) Quadrature {
	return New(len(p), [][]float64{append([]float64(nil), p...)}, []float64{1})
}

func (q Quadrature) Size() int { return len(q.Weights) }

// Gauss is the n^dim point tensor product Gauss-Legendre rule on [0,1]^dim.
// For dim == 0 it is the single point rule used on the faces of a line.
func Gauss(dim, n int) Quadrature {
	if n < 1 {
		panic(fmt.Errorf("a Gauss rule needs at least one point, have %d", n))
	}
	r, w := JacobiGQ(0, 0, n-1)
	for i := range r {
		r[i] = 0.5 * (r[i] + 1)
		w[i] *= 0.5
	}
	return TensorProduct(dim, r, w)
}

// GaussLobattoPoints are the n Gauss-Lobatto points on [0,1], n >= 2
func GaussLobattoPoints(n int) (x []float64) {
	if n < 2 {
		panic(fmt.Errorf("a Gauss-Lobatto rule needs at least two points, have %d", n))
	}
	x = JacobiGL(0, 0, n-1)
	for i := range x {
		x[i] = 0.5 * (x[i] + 1)
	}
	return
}

// TensorProduct builds the dim-fold product of a 1D rule, x fastest
func TensorProduct(dim int, x, w []float64) Quadrature {
	var (
		n     = len(x)
		total = 1
	)
	for d := 0; d < dim; d++ {
		total *= n
	}
	points := make([][]float64, total)
	weights := make([]float64, total)
	for q := 0; q < total; q++ {
		p := make([]float64, dim)
		weight := 1.
		ind := q
		for d := 0; d < dim; d++ {
			p[d] = x[ind%n]
			weight *= w[ind%n]
			ind /= n
		}
		points[q] = p
		weights[q] = weight
	}
	return New(dim, points, weights)
}

// Nodal places one point on each vertex of the reference cell
func Nodal(rc refcell.ReferenceCell) Quadrature {
	var (
		V = rc.Vertices()
		w = make([]float64, len(V))
	)
	for i := range w {
		w[i] = 1. / float64(len(V))
	}
	return New(rc.Dim(), V, w)
}

// Collection is an ordered set of rules, one per face type
type Collection []Quadrature

func (c Collection) Size() int { return len(c) }

func (c Collection) MaxNPoints() (n int) {
	for _, q := range c {
		if q.Size() > n {
			n = q.Size()
		}
	}
	return
}
