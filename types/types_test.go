package types

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestCellKey(t *testing.T) {
	{ // Packing and unpacking
		ck := NewCellKey(0, 0)
		assert.Equal(t, CellKey(0), ck)

		ck = NewCellKey(1, 0)
		assert.Equal(t, CellKey(1<<32), ck)
		assert.Equal(t, 1, ck.Level())
		assert.Equal(t, 0, ck.Index())

		ck = NewCellKey(3, 117)
		assert.Equal(t, CellKey(3<<32+117), ck)
		assert.Equal(t, 3, ck.Level())
		assert.Equal(t, 117, ck.Index())
		assert.Equal(t, "3.117", ck.String())

		ck = NewCellKey(math.MaxUint32, math.MaxUint32)
		assert.Equal(t, CellKey(1<<64-1), ck)
		assert.Equal(t, math.MaxUint32, ck.Level())
		assert.Equal(t, math.MaxUint32, ck.Index())
	}
	{ // Ordering within a level follows the index
		assert.Less(t, uint64(NewCellKey(2, 5)), uint64(NewCellKey(2, 6)))
		assert.Less(t, uint64(NewCellKey(1, 1000)), uint64(NewCellKey(2, 0)))
	}
	assert.Panics(t, func() { NewCellKey(-1, 0) })
	assert.Panics(t, func() { NewCellKey(0, -3) })
}

func TestVectorReader(t *testing.T) {
	var v VectorReader = mat.NewVecDense(3, []float64{1, 2, 3})
	assert.Equal(t, 3, v.Len())
	assert.Equal(t, 2., v.AtVec(1))
}
