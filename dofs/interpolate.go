package dofs

import (
	"fmt"
	"sort"

	"github.com/james-bowman/sparse"
	"github.com/notargets/fefield/grid"
	"github.com/notargets/fefield/types"
	"github.com/notargets/fefield/utils"
	"gonum.org/v1/gonum/mat"
)

// Field is evaluated at the real support points of each cell. It returns one
// value per vector component of the element.
type Field func(x []float64) []float64

// Identity is the field x -> x, its interpolant maps every cell onto itself
func Identity(x []float64) []float64 { return append([]float64(nil), x...) }

// Interpolate builds the nodal interpolant of f in the active numbering
func Interpolate(h *Handler, f Field) *mat.VecDense {
	return InterpolateLevel(h, h.grid.Levels-1, f)
}

func InterpolateLevel(h *Handler, level int, f Field) (v *mat.VecDense) {
	v = mat.NewVecDense(h.NLevelDoFs(level), nil)
	for _, cell := range h.grid.CellsOnLevel(level) {
		h.interpolateCell(cell, f, v)
	}
	return
}

// InterpolateLevels returns one interpolant per level, ready for a level mapping
func InterpolateLevels(h *Handler, f Field) (vectors []types.VectorReader) {
	vectors = make([]types.VectorReader, h.NLevels())
	for l := range vectors {
		vectors[l] = InterpolateLevel(h, l, f)
	}
	return
}

func (h *Handler) interpolateCell(cell *grid.Cell, f Field, v *mat.VecDense) {
	var (
		ind   = h.dofIndices(cell.Key())
		ncomp = h.fe.NComponents()
	)
	for i, gi := range ind {
		vals := f(cell.UnitToReal(h.fe.UnitSupportPoint(i)))
		if len(vals) != ncomp {
			panic(fmt.Errorf("field returned %d values for an element with %d components", len(vals), ncomp))
		}
		comp, _ := h.fe.SystemToComponent(i)
		v.SetVec(gi, vals[comp])
	}
}

// Perturbation is a sparse vector of length n with the given entries
func Perturbation(n int, ind []int, values []float64) *sparse.Vector {
	if len(ind) != len(values) {
		panic(fmt.Errorf("have %d indices and %d values", len(ind), len(values)))
	}
	var (
		I     = utils.Index(ind)
		order = utils.NewRange(0, len(ind)-1)
		si    = make([]int, len(ind))
		sv    = make([]float64, len(ind))
	)
	for _, i := range I {
		if i < 0 {
			panic(fmt.Errorf("perturbed dof %d out of range [0,%d)", i, n))
		}
	}
	if I.Max() >= n {
		panic(fmt.Errorf("perturbed dof %d out of range [0,%d)", I.Max(), n))
	}
	// The sparse vector expects ascending indices
	sort.Slice(order, func(a, b int) bool { return ind[order[a]] < ind[order[b]] })
	for k, o := range order {
		si[k], sv[k] = ind[o], values[o]
		if k > 0 && si[k] == si[k-1] {
			panic(fmt.Errorf("dof %d is perturbed twice in %v", si[k], ind))
		}
	}
	return sparse.NewVector(n, si, sv)
}

// SumVector reads Base + Delta without forming the sum
type SumVector struct {
	Base, Delta types.VectorReader
}

func NewSumVector(base, delta types.VectorReader) *SumVector {
	if base.Len() != delta.Len() {
		panic(fmt.Errorf("vector lengths differ: %d and %d", base.Len(), delta.Len()))
	}
	return &SumVector{Base: base, Delta: delta}
}

func (s *SumVector) AtVec(i int) float64 { return s.Base.AtVec(i) + s.Delta.AtVec(i) }

func (s *SumVector) Len() int { return s.Base.Len() }
