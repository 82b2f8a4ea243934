package mapping

import (
	"github.com/notargets/fefield/tensor"
	"gonum.org/v1/gonum/mat"
)

// CellSimilarity tells the caller whether the next cell can reuse this cell's data
type CellSimilarity uint8

const (
	NoneSimilar CellSimilarity = iota
	Translation
	InvertedTranslation
	InvalidNextCell
)

func (cs CellSimilarity) String() string {
	return [...]string{"none", "translation", "inverted_translation", "invalid_next_cell"}[cs]
}

// OutputData receives the mapped quantities at the quadrature points of one cell,
// face or subface. Only the slots of the requested flags are allocated and filled.
type OutputData struct {
	QuadraturePoints [][]float64
	JxW              []float64
	// Jacobians are spacedim x dim, InverseJacobians dim x spacedim
	Jacobians        []*mat.Dense
	InverseJacobians []*mat.Dense
	// Reference derivatives have shape spacedim x dim^k, the pushed forward ones spacedim^(k+1)
	JacobianGrads                       []*tensor.Tensor
	JacobianPushedForwardGrads          []*tensor.Tensor
	Jacobian2ndDerivatives              []*tensor.Tensor
	JacobianPushedForward2ndDerivatives []*tensor.Tensor
	Jacobian3rdDerivatives              []*tensor.Tensor
	JacobianPushedForward3rdDerivatives []*tensor.Tensor
	BoundaryForms                       [][]float64
	NormalVectors                       [][]float64
}

func NewOutputData(flags UpdateFlags, nq, dim, spacedim int) (out *OutputData) {
	out = &OutputData{}
	flags = RequiresUpdateFlags(flags)
	vectors := func() (v [][]float64) {
		v = make([][]float64, nq)
		for i := range v {
			v[i] = make([]float64, spacedim)
		}
		return
	}
	tensors := func(rank int, reference bool) (T []*tensor.Tensor) {
		shape := make([]int, rank)
		for k := range shape {
			shape[k] = spacedim
			if reference && k > 0 {
				shape[k] = dim
			}
		}
		T = make([]*tensor.Tensor, nq)
		for i := range T {
			T[i] = tensor.New(shape...)
		}
		return
	}
	if flags&UpdateQuadraturePoints != 0 {
		out.QuadraturePoints = vectors()
	}
	if flags&UpdateJxWValues != 0 {
		out.JxW = make([]float64, nq)
	}
	if flags&UpdateJacobians != 0 {
		out.Jacobians = newMatrices(nq, spacedim, dim)
	}
	if flags&UpdateInverseJacobians != 0 {
		out.InverseJacobians = newMatrices(nq, dim, spacedim)
	}
	if flags&UpdateJacobianGrads != 0 {
		out.JacobianGrads = tensors(3, true)
	}
	if flags&UpdateJacobianPushedForwardGrads != 0 {
		out.JacobianPushedForwardGrads = tensors(3, false)
	}
	if flags&UpdateJacobian2ndDerivatives != 0 {
		out.Jacobian2ndDerivatives = tensors(4, true)
	}
	if flags&UpdateJacobianPushedForward2ndDerivatives != 0 {
		out.JacobianPushedForward2ndDerivatives = tensors(4, false)
	}
	if flags&UpdateJacobian3rdDerivatives != 0 {
		out.Jacobian3rdDerivatives = tensors(5, true)
	}
	if flags&UpdateJacobianPushedForward3rdDerivatives != 0 {
		out.JacobianPushedForward3rdDerivatives = tensors(5, false)
	}
	if flags&UpdateBoundaryForms != 0 {
		out.BoundaryForms = vectors()
	}
	if flags&UpdateNormalVectors != 0 {
		out.NormalVectors = vectors()
	}
	return
}
