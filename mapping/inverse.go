package mapping

import (
	"fmt"

	"github.com/notargets/fefield/quadrature"
	"github.com/notargets/fefield/tensor"
	"github.com/notargets/fefield/types"
	"github.com/notargets/fefield/utils"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	newtonIterationLimit = 20
	minStepLength        = 0.05
)

// TransformUnitToRealCell maps a reference point of cell into space
func (m *FieldMapping) TransformUnitToRealCell(cell types.Cell, x []float64) []float64 {
	data := m.GetData(UpdateQuadraturePoints|UpdateJacobians, quadrature.Single(x))
	m.updateInternalDoFs(cell, data)
	return m.mapPoint(data, 0)
}

func (m *FieldMapping) inverseFlags() (flags UpdateFlags) {
	flags = UpdateQuadraturePoints | UpdateJacobians
	if m.spacedim > m.dim {
		flags |= UpdateJacobianGrads
	}
	return
}

// startingGuess inverts the multilinear map through the mapped vertices, and
// falls back to the centroid when that fails
func (m *FieldMapping) startingGuess(cell types.Cell, p []float64) (x []float64) {
	var err error
	lm := NewLinearMapping(m.rc, m.spacedim)
	if x, err = lm.TransformRealToUnitCell(m.Vertices(cell), p, cell.Diameter()); err != nil {
		logger.Printf("cell %s: starting guess from the centroid: %v", cell.Key(), err)
		x = m.rc.Centroid()
	}
	return m.rc.ClosestPoint(x)
}

// TransformRealToUnitCell finds the reference point that cell maps onto p. For
// spacedim > dim the result is the point whose image is closest to p. Failure
// to converge is returned as ErrTransformationFailed.
func (m *FieldMapping) TransformRealToUnitCell(cell types.Cell, p []float64) (x []float64, err error) {
	if len(p) != m.spacedim {
		panic(dimensionMismatch(len(p), m.spacedim, "point dimension vs space dimension"))
	}
	guess := m.startingGuess(cell, p)
	data := m.GetData(m.inverseFlags(), quadrature.Single(guess))
	m.updateInternalDoFs(cell, data)
	return m.newtonRealToUnit(cell, p, guess, data)
}

// TransformPointsRealToUnitCell inverts many points of one cell with a single cache
func (m *FieldMapping) TransformPointsRealToUnitCell(cell types.Cell, points [][]float64) (X [][]float64, errs []error) {
	X = make([][]float64, len(points))
	errs = make([]error, len(points))
	if len(points) == 0 {
		return
	}
	data := m.GetData(m.inverseFlags(), quadrature.Single(m.rc.Centroid()))
	m.updateInternalDoFs(cell, data)
	for i, p := range points {
		if len(p) != m.spacedim {
			panic(dimensionMismatch(len(p), m.spacedim, "point dimension vs space dimension"))
		}
		X[i], errs[i] = m.newtonRealToUnit(cell, p, m.startingGuess(cell, p), data)
	}
	return
}

// newtonRealToUnit solves J^T (F(x) - p) = 0 with a halving line search
func (m *FieldMapping) newtonRealToUnit(cell types.Cell, p, guess []float64, data *InternalData) (x []float64, err error) {
	var (
		flags = data.updateEach
		eps   = 1.e-12 * cell.Diameter()
		DF    = mat.NewDense(m.spacedim, m.dim, nil)
		df    = mat.NewDense(m.dim, m.dim, nil)
		f     = make([]float64, m.dim)
	)
	residual := func(y []float64) []float64 {
		data.reinit(flags, quadrature.Single(y))
		r := append([]float64(nil), p...)
		floats.Sub(r, m.mapPoint(data, 0))
		return r
	}
	x = append([]float64(nil), guess...)
	pMinusF := residual(x)
	for iter := 0; floats.Dot(pMinusF, pMinusF) > eps*eps; {
		m.jacobian(data, 0, DF)
		for j := 0; j < m.dim; j++ {
			f[j] = floats.Dot(tensor.Column(DF, j), pMinusF)
			for l := 0; l < m.dim; l++ {
				df.Set(j, l, -floats.Dot(tensor.Column(DF, j), tensor.Column(DF, l)))
			}
		}
		var delta []float64
		if delta, err = utils.SolveSmall(df, f); err != nil {
			return nil, fmt.Errorf("%w: cell %s, iteration %d: %v", ErrTransformationFailed, cell.Key(), iter, err)
		}
		step := 1.
		for {
			trial := append([]float64(nil), x...)
			floats.AddScaled(trial, -step, delta)
			fTrial := residual(trial)
			if tensor.Norm(fTrial) < tensor.Norm(pMinusF) {
				x, pMinusF = trial, fTrial
				break
			}
			if step > minStepLength {
				step /= 2
				continue
			}
			return nil, fmt.Errorf("%w: cell %s, line search stalled at iteration %d", ErrTransformationFailed,
				cell.Key(), iter)
		}
		iter++
		if iter > newtonIterationLimit {
			return nil, fmt.Errorf("%w: cell %s, no convergence in %d iterations", ErrTransformationFailed,
				cell.Key(), newtonIterationLimit)
		}
	}
	return
}
