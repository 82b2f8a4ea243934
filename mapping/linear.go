package mapping

import (
	"fmt"

	"github.com/notargets/fefield/refcell"
	"github.com/notargets/fefield/tensor"
	"github.com/notargets/fefield/utils"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// LinearMapping is the multilinear map through a cell's vertices. Its inverse
// gives the starting guess for inverting a field mapping.
type LinearMapping struct {
	rc       refcell.ReferenceCell
	spacedim int
}

func NewLinearMapping(rc refcell.ReferenceCell, spacedim int) *LinearMapping {
	return &LinearMapping{rc: rc, spacedim: spacedim}
}

// basis returns the vertex shape functions and their gradients at x
func (lm *LinearMapping) basis(x []float64) (phi []float64, grad [][]float64) {
	var (
		dim = lm.rc.Dim()
		nv  = lm.rc.NVertices()
	)
	phi = make([]float64, nv)
	grad = make([][]float64, nv)
	for v := 0; v < nv; v++ {
		f := make([]float64, dim)
		df := make([]float64, dim)
		for d := 0; d < dim; d++ {
			if (v>>d)&1 == 1 {
				f[d], df[d] = x[d], 1
			} else {
				f[d], df[d] = 1-x[d], -1
			}
		}
		phi[v] = floats.Prod(f)
		grad[v] = make([]float64, dim)
		for j := 0; j < dim; j++ {
			g := df[j]
			for d := 0; d < dim; d++ {
				if d != j {
					g *= f[d]
				}
			}
			grad[v][j] = g
		}
	}
	return
}

func (lm *LinearMapping) checkVertices(vertices [][]float64) {
	if len(vertices) != lm.rc.NVertices() {
		panic(dimensionMismatch(len(vertices), lm.rc.NVertices(), "vertices vs reference cell vertices"))
	}
}

func (lm *LinearMapping) TransformUnitToRealCell(vertices [][]float64, x []float64) (p []float64) {
	lm.checkVertices(vertices)
	phi, _ := lm.basis(x)
	p = make([]float64, lm.spacedim)
	for v, vert := range vertices {
		floats.AddScaled(p, phi[v], vert[:lm.spacedim])
	}
	return
}

func (lm *LinearMapping) Jacobian(vertices [][]float64, x []float64) (J *mat.Dense) {
	lm.checkVertices(vertices)
	_, grad := lm.basis(x)
	J = mat.NewDense(lm.spacedim, lm.rc.Dim(), nil)
	for v, vert := range vertices {
		for d := 0; d < lm.spacedim; d++ {
			for j := 0; j < lm.rc.Dim(); j++ {
				J.Set(d, j, J.At(d, j)+vert[d]*grad[v][j])
			}
		}
	}
	return
}

// TransformRealToUnitCell runs Newton on the normal equations from the centroid.
// Points outside the cell map to reference points outside the unit cell.
func (lm *LinearMapping) TransformRealToUnitCell(vertices [][]float64, p []float64, diameter float64) (x []float64, err error) {
	eps := 1.e-12 * diameter
	x = lm.rc.Centroid()
	for iter := 0; ; iter++ {
		r := lm.TransformUnitToRealCell(vertices, x)
		floats.Sub(r, p)
		if tensor.Norm(r) <= eps {
			return
		}
		if iter == newtonIterationLimit {
			return nil, fmt.Errorf("%w: linear mapping did not converge in %d iterations", ErrTransformationFailed, iter)
		}
		J := lm.Jacobian(vertices, x)
		G := utils.Gram(J)
		var delta []float64
		if delta, err = utils.SolveSmall(G, tensor.Apply(J.T(), r)); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTransformationFailed, err)
		}
		floats.Sub(x, delta)
		if floats.HasNaN(x) {
			return nil, fmt.Errorf("%w: linear mapping diverged", ErrTransformationFailed)
		}
	}
}
