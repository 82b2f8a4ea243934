package quadrature

import (
	"fmt"

	"github.com/notargets/fefield/utils"
	"gonum.org/v1/gonum/floats"
)

// ImmersedSurface is a rule on a surface cutting through the reference cell.
// Each point carries the unit normal of the surface in reference coordinates.
type ImmersedSurface struct {
	Quadrature
	Normals [][]float64
}

func NewImmersedSurface(points [][]float64, weights []float64, normals [][]float64) ImmersedSurface {
	if len(points) == 0 {
		panic(fmt.Errorf("an immersed surface rule needs at least one point"))
	}
	q := New(len(points[0]), points, weights)
	if len(normals) != len(points) {
		panic(fmt.Errorf("have %d points and %d normals", len(points), len(normals)))
	}
	for i, n := range normals {
		if len(n) != q.Dim {
			panic(fmt.Errorf("normal %d has dimension %d, expected %d", i, len(n), q.Dim))
		}
		if !utils.Near(floats.Norm(n, 2), 1, 1.e-10) {
			panic(fmt.Errorf("normal %d is not of unit length", i))
		}
	}
	return ImmersedSurface{Quadrature: q, Normals: normals}
}
