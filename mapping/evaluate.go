package mapping

import (
	"math"

	"github.com/notargets/fefield/tensor"
	"github.com/notargets/fefield/types"
	"github.com/notargets/fefield/utils"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// The routines below contract the cached shape tables at points offset+p with the
// cell coefficients. offset locates a face or subface block in the tables.

// mapPoint is the image of table point q
func (m *FieldMapping) mapPoint(data *InternalData, q int) (x []float64) {
	x = make([]float64, m.spacedim)
	for d := 0; d < m.spacedim; d++ {
		if m.dofs.AllComponentsPrimitive() {
			row := data.shapeValues[q*data.nShape : (q+1)*data.nShape]
			for _, i := range m.dofs.Indices(d) {
				x[d] += data.localDoFValues[i] * row[i]
			}
			continue
		}
		comp := m.dofs.Component(d)
		for _, i := range m.dofs.Indices(d) {
			x[d] += data.localDoFValues[i] * data.fe.ShapeValueComponent(i, data.points[q], comp)
		}
	}
	return
}

func (m *FieldMapping) maybeComputeQPoints(offset int, data *InternalData, out *OutputData) {
	if data.updateEach&UpdateQuadraturePoints == 0 {
		return
	}
	checkOutput(len(out.QuadraturePoints), data.nPoints, "quadrature points")
	for p := 0; p < data.nPoints; p++ {
		copy(out.QuadraturePoints[p], m.mapPoint(data, p+offset))
	}
}

// jacobian writes the contravariant matrix at table point q into J
func (m *FieldMapping) jacobian(data *InternalData, q int, J *mat.Dense) {
	J.Zero()
	for d := 0; d < m.spacedim; d++ {
		for _, i := range m.dofs.Indices(d) {
			grad := data.derivative(1, q, i)
			v := data.localDoFValues[i]
			for j := 0; j < m.dim; j++ {
				J.Set(d, j, J.At(d, j)+v*grad[j])
			}
		}
	}
}

func (m *FieldMapping) maybeUpdateJacobians(offset int, data *InternalData) {
	flags := data.updateEach
	if flags&UpdateContravariantTransformation != 0 {
		for p := range data.contravariant {
			m.jacobian(data, p+offset, data.contravariant[p])
		}
	}
	if flags&UpdateCovariantTransformation != 0 {
		checkOutput(len(data.covariant), len(data.contravariant), "covariant buffers")
		for p := range data.covariant {
			utils.SetCovariantForm(data.covariant[p], data.contravariant[p])
		}
	}
	if flags&UpdateVolumeElements != 0 {
		checkOutput(len(data.volumeElements), len(data.contravariant), "volume element buffers")
		for p := range data.volumeElements {
			data.volumeElements[p] = utils.VolumeElement(data.contravariant[p])
		}
	}
}

func (m *FieldMapping) copyJacobians(data *InternalData, out *OutputData) {
	flags := data.updateEach
	if flags&UpdateJacobians != 0 {
		checkOutput(len(out.Jacobians), len(data.contravariant), "jacobians")
		for p, J := range data.contravariant {
			out.Jacobians[p].Copy(J)
		}
	}
	if flags&UpdateInverseJacobians != 0 {
		checkOutput(len(out.InverseJacobians), len(data.covariant), "inverse jacobians")
		for p, C := range data.covariant {
			out.InverseJacobians[p].Copy(C.T())
		}
	}
}

// derivativeTensor is the order-th reference derivative of the map at table
// point q, shape spacedim x dim^order
func (m *FieldMapping) derivativeTensor(data *InternalData, order, q int) (t *tensor.Tensor) {
	shape := make([]int, order+1)
	shape[0] = m.spacedim
	for k := 1; k <= order; k++ {
		shape[k] = m.dim
	}
	t = tensor.New(shape...)
	stride := utils.IPOW(m.dim, order)
	for d := 0; d < m.spacedim; d++ {
		row := t.Data[d*stride : (d+1)*stride]
		for _, i := range m.dofs.Indices(d) {
			floats.AddScaled(row, data.localDoFValues[i], data.derivative(order, q, i))
		}
	}
	return
}

// pushForward maps every reference slot of a derivative tensor to real coordinates
func pushForward(t *tensor.Tensor, C mat.Matrix) *tensor.Tensor {
	for slot := 1; slot < t.Rank(); slot++ {
		t = t.PushForward(slot, C)
	}
	return t
}

func (m *FieldMapping) maybeUpdateJacobianDerivatives(offset int, data *InternalData, out *OutputData) {
	flags := data.updateEach
	raw := [3]UpdateFlags{UpdateJacobianGrads, UpdateJacobian2ndDerivatives, UpdateJacobian3rdDerivatives}
	pushed := [3]UpdateFlags{UpdateJacobianPushedForwardGrads,
		UpdateJacobianPushedForward2ndDerivatives, UpdateJacobianPushedForward3rdDerivatives}
	rawOut := [3][]*tensor.Tensor{out.JacobianGrads, out.Jacobian2ndDerivatives, out.Jacobian3rdDerivatives}
	pushedOut := [3][]*tensor.Tensor{out.JacobianPushedForwardGrads,
		out.JacobianPushedForward2ndDerivatives, out.JacobianPushedForward3rdDerivatives}
	for k := 0; k < 3; k++ {
		if flags&(raw[k]|pushed[k]) == 0 {
			continue
		}
		order := k + 2
		if flags&raw[k] != 0 {
			checkOutput(len(rawOut[k]), data.nPoints, raw[k].String())
		}
		if flags&pushed[k] != 0 {
			checkOutput(len(pushedOut[k]), data.nPoints, pushed[k].String())
		}
		for p := 0; p < data.nPoints; p++ {
			t := m.derivativeTensor(data, order, p+offset)
			if flags&raw[k] != 0 {
				copy(rawOut[k][p].Data, t.Data)
			}
			if flags&pushed[k] != 0 {
				copy(pushedOut[k][p].Data, pushForward(t, data.covariant[p]).Data)
			}
		}
	}
}

// checkDistortion compares a determinant with a threshold scaled to the cell size
func (m *FieldMapping) checkDistortion(cell types.Cell, det float64, p int) error {
	threshold := 1.e-12 * utils.POW(cell.Diameter()/math.Sqrt(float64(m.dim)), m.dim)
	if det > threshold {
		return nil
	}
	err := &DistortedCellError{Center: cell.Center(), Determinant: det, Point: p}
	logger.Printf("cell %s: %v", cell.Key(), err)
	return err
}

func checkOutput(have, want int, what string) {
	if have != want {
		panic(dimensionMismatch(have, want, what+" output size vs quadrature points"))
	}
}
