package mapping

import (
	"errors"
	"fmt"
	"testing"

	"github.com/notargets/fefield/dofs"
	"github.com/notargets/fefield/quadrature"
	"github.com/notargets/fefield/refcell"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

var unitPoints = map[int][][]float64{
	1: {{0.3}, {0.9}, {0.5}},
	2: {{0.3, 0.6}, {0.9, 0.1}, {0.5, 0.5}, {0, 1}},
	3: {{0.3, 0.6, 0.2}, {0.9, 0.1, 0.7}, {0.5, 0.5, 0.5}},
}

func TestRoundTrip(t *testing.T) {
	fields := map[int]dofs.Field{1: scaled(1.5), 2: warp2D(0.3), 3: warp3D(0.2)}
	for dim := 1; dim <= 3; dim++ {
		t.Run(fmt.Sprintf("dim=%d", dim), func(t *testing.T) {
			dh, m := newMapping(t, dim, dim, 2, fields[dim])
			for _, cell := range dh.Grid().ActiveCells() {
				for _, x := range unitPoints[dim] {
					p := m.TransformUnitToRealCell(cell, x)
					y, err := m.TransformRealToUnitCell(cell, p)
					require.NoError(t, err)
					assert.InDeltaSlice(t, x, y, 1.e-10)
				}
			}
		})
	}
}

func TestRoundTripSurface(t *testing.T) {
	dh, m := newMapping(t, 2, 3, 2, func(x []float64) []float64 { return []float64{x[0], x[1], x[0] * x[1]} })
	cell := dh.Grid().ActiveCells()[3]
	for _, x := range unitPoints[2] {
		p := m.TransformUnitToRealCell(cell, x)
		y, err := m.TransformRealToUnitCell(cell, p)
		require.NoError(t, err)
		assert.InDeltaSlice(t, x, y, 1.e-10)
	}
}

func TestTransformPointsRealToUnitCell(t *testing.T) {
	dh, m := newMapping(t, 2, 2, 2, warp2D(0.3))
	cell := dh.Grid().ActiveCells()[2]
	var points [][]float64
	for _, x := range unitPoints[2] {
		points = append(points, m.TransformUnitToRealCell(cell, x))
	}
	X, errs := m.TransformPointsRealToUnitCell(cell, points)
	require.Len(t, X, len(points))
	for i := range points {
		require.NoError(t, errs[i])
		assert.InDeltaSlice(t, unitPoints[2][i], X[i], 1.e-10)
	}
	X, errs = m.TransformPointsRealToUnitCell(cell, nil)
	assert.Empty(t, X)
	assert.Empty(t, errs)
}

func TestOutsidePoint(t *testing.T) {
	// Points outside the cell invert to reference points outside the unit cell
	dh, m := newMapping(t, 2, 2, 1, scaled(2))
	cell := dh.Grid().ActiveCells()[0]
	x, err := m.TransformRealToUnitCell(cell, []float64{1.5, 0.5})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1.5, 0.5}, x, 1.e-10)
	assert.False(t, refcell.Hypercube(2).Contains(x, 1.e-12))
	assertPanicsIs(t, ErrDimensionMismatch, func() { m.TransformRealToUnitCell(cell, []float64{0.5}) })
}

func TestLinearMapping(t *testing.T) {
	rc := refcell.Hypercube(2)
	lm := NewLinearMapping(rc, 2)
	vertices := [][]float64{{0, 0}, {2, 0}, {0.5, 1}, {2.5, 1.5}}
	for v, x := range rc.Vertices() {
		assert.InDeltaSlice(t, vertices[v], lm.TransformUnitToRealCell(vertices, x), 1.e-15)
	}
	for _, x := range unitPoints[2] {
		p := lm.TransformUnitToRealCell(vertices, x)
		y, err := lm.TransformRealToUnitCell(vertices, p, 3)
		require.NoError(t, err)
		assert.InDeltaSlice(t, x, y, 1.e-10)
	}
	J := lm.Jacobian(vertices, []float64{0, 0})
	assert.InDelta(t, 2, J.At(0, 0), 1.e-15)
	assert.InDelta(t, 0.5, J.At(0, 1), 1.e-15)
	assert.InDelta(t, 1, J.At(1, 1), 1.e-15)

	// A cell collapsed to a point has no inverse
	collapsed := [][]float64{{1, 1}, {1, 1}, {1, 1}, {1, 1}}
	_, err := lm.TransformRealToUnitCell(collapsed, []float64{0, 0}, 0)
	assert.True(t, errors.Is(err, ErrTransformationFailed))
	assertPanicsIs(t, ErrDimensionMismatch, func() { lm.TransformUnitToRealCell(vertices[:2], []float64{0, 0}) })
}

func TestCollapsedCellFallsBack(t *testing.T) {
	dh := newHandler(t, 2, 2, 1, 1)
	// Every coordinate zero collapses all cells to the origin
	m := NewFieldMapping(dh, dofs.Interpolate(dh, scaled(0)), nil)
	cell := dh.Grid().ActiveCells()[0]
	_, err := m.TransformRealToUnitCell(cell, []float64{0.1, 0.1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTransformationFailed))
}

func TestReinitKeepsBuffers(t *testing.T) {
	dh, m := newMapping(t, 2, 2, 2, warp2D(0.3))
	cell := dh.Grid().ActiveCells()[1]
	flags := RequiresUpdateFlags(UpdateInverseJacobians | UpdateJxWValues)
	data := m.GetData(flags, quadrature.Single([]float64{0.2, 0.4}))
	m.updateInternalDoFs(cell, data)
	J, C, vol := data.contravariant[0], data.covariant[0], &data.volumeElements[0]

	data.reinit(flags, quadrature.Single([]float64{0.7, 0.1}))
	assert.Same(t, J, data.contravariant[0])
	assert.Same(t, C, data.covariant[0])
	assert.Same(t, vol, &data.volumeElements[0])
	// The kept buffers hold the values of the new point
	m.maybeUpdateJacobians(0, data)
	expected := mat.NewDense(2, 2, nil)
	m.jacobian(data, 0, expected)
	assert.True(t, mat.EqualApprox(expected, data.contravariant[0], 1.e-14))
	var P mat.Dense
	P.Mul(data.covariant[0].T(), data.contravariant[0])
	assert.True(t, mat.EqualApprox(&P, mat.NewDiagDense(2, []float64{1, 1}), 1.e-12))

	data.reinit(flags, quadrature.Gauss(2, 2))
	require.Len(t, data.contravariant, 4)
	assert.NotSame(t, J, data.contravariant[0])
}
