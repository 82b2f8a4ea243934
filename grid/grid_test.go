package grid

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGridValidation(t *testing.T) {
	_, err := NewGrid(0, 1, []int{}, 1, nil, nil)
	assert.Error(t, err)
	_, err = NewGrid(2, 1, []int{1, 1}, 1, []float64{0, 0}, []float64{1, 1})
	assert.Error(t, err)
	_, err = NewGrid(2, 2, []int{1}, 1, []float64{0, 0}, []float64{1, 1})
	assert.Error(t, err)
	_, err = NewGrid(2, 2, []int{1, 0}, 1, []float64{0, 0}, []float64{1, 1})
	assert.Error(t, err)
	_, err = NewGrid(2, 2, []int{1, 1}, 0, []float64{0, 0}, []float64{1, 1})
	assert.Error(t, err)
	_, err = NewGrid(2, 2, []int{1, 1}, 1, []float64{0, 1}, []float64{1, 1})
	assert.Error(t, err)
	g, err := NewGrid(2, 2, []int{2, 1}, 2, []float64{0, 0}, []float64{2, 1})
	require.NoError(t, err)
	assert.Equal(t, []int{4, 2}, g.LatticeSize(1))
	assert.Equal(t, 2, g.NCells(0))
	assert.Equal(t, 8, g.NActiveCells())
	assert.Panics(t, func() { g.LatticeSize(2) })
}

func TestCells(t *testing.T) {
	g, err := NewGrid(2, 2, []int{2, 1}, 2, []float64{0, 0}, []float64{2, 1})
	require.NoError(t, err)
	c := g.Cell(1, 5)
	assert.Equal(t, []int{1, 1}, c.IJK())
	assert.True(t, c.IsActive())
	assert.False(t, g.Cell(0, 1).IsActive())
	assert.Equal(t, 1, c.Key().Level())
	assert.Equal(t, 5, c.Key().Index())
	assert.Equal(t, [][]float64{{0.5, 0.5}, {1, 0.5}, {0.5, 1}, {1, 1}}, c.Vertices())
	assert.InDelta(t, math.Sqrt(0.5), c.Diameter(), 1.e-15)
	assert.InDeltaSlice(t, []float64{0.75, 0.75}, c.Center(), 1.e-15)
	assert.Equal(t, 4, c.NFaces())
	assert.Equal(t, uint8(1), c.CombinedFaceOrientation(3))
	assert.Panics(t, func() { c.CombinedFaceOrientation(4) })
	assert.Len(t, g.ActiveCells(), 8)
	assert.Panics(t, func() { g.Cell(0, 2) })
}

func TestEmbeddedGrid(t *testing.T) {
	g, err := NewGrid(2, 3, []int{1, 1}, 1, []float64{0, 0}, []float64{1, 1})
	require.NoError(t, err)
	c := g.Cell(0, 0)
	assert.Equal(t, []float64{1, 1, 0}, c.Vertices()[3])
	assert.True(t, c.DirectionFlag())
	g.SetDirectionFlag(false)
	assert.False(t, c.DirectionFlag())
	g.SetFaceOrientation(0)
	assert.Equal(t, uint8(0), c.CombinedFaceOrientation(0))
	assert.Panics(t, func() { g.SetFaceOrientation(9) })
}
