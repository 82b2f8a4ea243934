package mapping

import (
	"testing"

	"github.com/notargets/fefield/dofs"
	"github.com/notargets/fefield/fe"
	"github.com/notargets/fefield/grid"
	"github.com/notargets/fefield/quadrature"
	"github.com/notargets/fefield/refcell"
	"github.com/notargets/fefield/types"
	"github.com/notargets/fefield/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

// Grids in the tests are 2^dim cells on the unit box, the cell width is h
const h = 0.5

func newHandler(t *testing.T, dim, spacedim, degree, levels int) *dofs.Handler {
	t.Helper()
	var (
		cells = make([]int, dim)
		lower = make([]float64, dim)
		upper = utils.ConstArray(dim, 1)
	)
	for d := range cells {
		cells[d] = int(1 / h)
	}
	if levels > 1 {
		for d := range cells {
			cells[d] >>= uint(levels - 1)
			if cells[d] == 0 {
				cells[d] = 1
			}
		}
	}
	g, err := grid.NewGrid(dim, spacedim, cells, levels, lower, upper)
	require.NoError(t, err)
	return dofs.NewHandler(g, fe.NewSystem(fe.NewFEQ(dim, degree), spacedim))
}

func newMapping(t *testing.T, dim, spacedim, degree int, f dofs.Field) (*dofs.Handler, *FieldMapping) {
	t.Helper()
	dh := newHandler(t, dim, spacedim, degree, 1)
	return dh, NewFieldMapping(dh, dofs.Interpolate(dh, f), nil)
}

func scaled(s float64) dofs.Field {
	return func(x []float64) []float64 {
		y := dofs.Identity(x)
		floats.Scale(s, y)
		return y
	}
}

// warp2D is a quadratic field, reproduced exactly by degree two elements
func warp2D(a float64) dofs.Field {
	return func(x []float64) []float64 {
		return []float64{x[0] + a*x[0]*x[1], x[1] + a*x[0]*x[0]}
	}
}

func warp3D(a float64) dofs.Field {
	return func(x []float64) []float64 {
		return []float64{x[0] + a*x[1]*x[2], x[1] + a*x[0]*x[0], x[2] + a*x[0]*x[1]}
	}
}

// assertPanicsIs checks that f panics with an error matching target
func assertPanicsIs(t *testing.T, target error, f func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a panic matching %v", target)
		err, ok := r.(error)
		require.True(t, ok, "panic value %v is not an error", r)
		assert.ErrorIs(t, err, target)
	}()
	f()
}

func TestNewFieldMapping(t *testing.T) {
	dh, m := newMapping(t, 2, 2, 2, dofs.Identity)
	assert.Equal(t, 2, m.Dim())
	assert.Equal(t, 2, m.SpaceDim())
	assert.Equal(t, 2, m.Degree())
	assert.Equal(t, fe.ComponentMask{true, true}, m.ComponentMask())
	assert.False(t, m.PreservesVertexLocations())
	assert.True(t, m.IsCompatibleWith(refcell.Hypercube(2)))
	assert.Panics(t, func() { m.IsCompatibleWith(refcell.Hypercube(3)) })

	short := dofs.Interpolate(newHandler(t, 2, 2, 1, 1), dofs.Identity)
	assertPanicsIs(t, ErrDimensionMismatch, func() { NewFieldMapping(dh, short, nil) })
	// Three components selected for a two dimensional space
	dh3 := dofs.NewHandler(dh.Grid(), fe.NewSystem(fe.NewFEQ(2, 1), 3))
	assertPanicsIs(t, ErrDimensionMismatch, func() {
		NewFieldMapping(dh3, dofs.Interpolate(dh3, func(x []float64) []float64 { return []float64{x[0], x[1], 0} }), nil)
	})
	assertPanicsIs(t, ErrDimensionMismatch, func() {
		NewFieldMappingLevels(dh, []types.VectorReader{dofs.Interpolate(dh, dofs.Identity)}, nil)
	})
}

func TestComponentMask(t *testing.T) {
	g, err := grid.NewGrid(2, 2, []int{2, 2}, 1, []float64{0, 0}, []float64{1, 1})
	require.NoError(t, err)
	dh := dofs.NewHandler(g, fe.NewSystem(fe.NewFEQ(2, 1), 3))
	// The middle component is a passive scalar that must not move the points
	euler := dofs.Interpolate(dh, func(x []float64) []float64 { return []float64{x[0], 99, x[1]} })
	m := NewFieldMapping(dh, euler, fe.ComponentMask{true, false, true})
	assert.Equal(t, []int{0, 3, 6, 9}, m.ComponentDoFs().Indices(0))
	assert.Equal(t, []int{2, 5, 8, 11}, m.ComponentDoFs().Indices(1))
	assert.Equal(t, 2, m.ComponentDoFs().Component(1))
	assert.True(t, m.ComponentDoFs().AllComponentsPrimitive())

	for _, cell := range g.ActiveCells() {
		for v, x := range m.Vertices(cell) {
			assert.InDeltaSlice(t, cell.Vertices()[v], x, 1.e-14)
		}
		x := []float64{0.25, 0.75}
		assert.InDeltaSlice(t, cell.UnitToReal(x), m.TransformUnitToRealCell(cell, x), 1.e-14)
	}
	assertPanicsIs(t, ErrDimensionMismatch, func() { NewComponentDoFs(dh.FE(), fe.ComponentMask{true, true}, 2) })
	assertPanicsIs(t, ErrIndexRange, func() { m.ComponentDoFs().Indices(2) })
}

func TestVertices(t *testing.T) {
	for dim := 1; dim <= 3; dim++ {
		for degree := 1; degree <= 2; degree++ {
			dh, m := newMapping(t, dim, dim, degree, scaled(3))
			for _, cell := range dh.Grid().ActiveCells() {
				V := m.Vertices(cell)
				require.Equal(t, cell.NVertices(), len(V))
				for v := range V {
					expected := append([]float64(nil), cell.Vertices()[v]...)
					floats.Scale(3, expected)
					assert.InDeltaSlice(t, expected, V[v], 1.e-13)
				}
			}
		}
	}
}

func TestInactiveCell(t *testing.T) {
	dh := newHandler(t, 2, 2, 1, 2)
	m := NewFieldMapping(dh, dofs.Interpolate(dh, dofs.Identity), nil)
	coarse := dh.Grid().Cell(0, 0)
	require.False(t, coarse.IsActive())
	q := quadrature.Gauss(2, 2)
	data := m.GetData(UpdateJxWValues, q)
	out := NewOutputData(UpdateJxWValues, q.Size(), 2, 2)
	assertPanicsIs(t, ErrInactiveCell, func() { m.FillFEValues(coarse, q, data, out) })
	_, err := m.FillFEValues(dh.Grid().ActiveCells()[0], q, data, out)
	assert.NoError(t, err)
}

func TestLevelMapping(t *testing.T) {
	dh := newHandler(t, 2, 2, 2, 2)
	dh.DistributeMGDoFs()
	m := NewFieldMappingLevels(dh, dofs.InterpolateLevels(dh, scaled(2)), nil)
	q := quadrature.Gauss(2, 3)
	flags := UpdateJxWValues | UpdateQuadraturePoints
	for level := 0; level < dh.NLevels(); level++ {
		for _, cell := range dh.Grid().CellsOnLevel(level) {
			data := m.GetData(flags, q)
			out := NewOutputData(flags, q.Size(), 2, 2)
			_, err := m.FillFEValues(cell, q, data, out)
			require.NoError(t, err)
			width := 2 * (cell.Vertices()[3][0] - cell.Vertices()[0][0])
			assert.InDelta(t, width*width, floats.Sum(out.JxW), 1.e-13)
			for p, x := range out.QuadraturePoints {
				expected := cell.UnitToReal(q.Points[p])
				floats.Scale(2, expected)
				assert.InDeltaSlice(t, expected, x, 1.e-13)
			}
		}
	}
	// Levels without a vector
	assertPanicsIs(t, ErrDimensionMismatch, func() {
		NewFieldMappingLevels(dh, dofs.InterpolateLevels(dh, dofs.Identity)[:1], nil)
	})
}

func TestForeignInternalData(t *testing.T) {
	dh, m1 := newMapping(t, 2, 2, 1, dofs.Identity)
	_, m2 := newMapping(t, 2, 2, 1, dofs.Identity)
	var (
		q     = quadrature.Gauss(2, 2)
		flags = UpdateQuadraturePoints
		cell  = dh.Grid().ActiveCells()[0]
		data  = m1.GetData(flags, q)
		out   = NewOutputData(flags, q.Size(), 2, 2)
	)
	assertPanicsIs(t, ErrForeignInternalData, func() { m2.FillFEValues(cell, q, data, out) })
	assertPanicsIs(t, ErrForeignInternalData, func() { m1.FillFEValues(cell, q, nil, out) })
	// A clone reads the same field and accepts the caches of the original
	c := m1.Clone()
	_, err := c.FillFEValues(cell, q, data, out)
	require.NoError(t, err)
	for p, x := range out.QuadraturePoints {
		assert.InDeltaSlice(t, cell.UnitToReal(q.Points[p]), x, 1.e-14)
	}
	assert.Equal(t, m1.ComponentDoFs().String(), c.ComponentDoFs().String())
}

func TestMemoryConsumption(t *testing.T) {
	_, m := newMapping(t, 3, 3, 2, dofs.Identity)
	q := quadrature.Gauss(3, 2)
	small := m.GetData(UpdateQuadraturePoints, q)
	large := m.GetData(UpdateQuadraturePoints|UpdateJacobianPushedForward2ndDerivatives, q)
	assert.Greater(t, small.MemoryConsumption(), 0)
	assert.Greater(t, large.MemoryConsumption(), small.MemoryConsumption())
	assert.Equal(t, q.Size(), large.NPoints())
	assert.NotZero(t, large.UpdateFlags()&UpdateCovariantTransformation)
}
