package mapping

import (
	"fmt"

	"github.com/notargets/fefield/quadrature"
	"github.com/notargets/fefield/tensor"
	"github.com/notargets/fefield/types"
	"github.com/notargets/fefield/utils"
)

// FillFEValues evaluates the mapping at the points of q inside cell. The field
// is different on every cell, so the result is always InvalidNextCell.
func (m *FieldMapping) FillFEValues(cell types.Cell, q quadrature.Quadrature, handle InternalDataBase,
	out *OutputData) (similarity CellSimilarity, err error) {
	similarity = InvalidNextCell
	data := m.internalData(handle)
	n := q.Size()
	checkOutput(data.nPoints, n, "cache points")

	m.updateInternalDoFs(cell, data)
	m.maybeComputeQPoints(quadrature.Cell().Offset(), data, out)
	m.maybeUpdateJacobians(quadrature.Cell().Offset(), data)

	flags := data.updateEach
	if flags&(UpdateNormalVectors|UpdateJxWValues) != 0 {
		if flags&UpdateJxWValues != 0 {
			checkOutput(len(out.JxW), n, "JxW values")
		}
		if flags&UpdateNormalVectors != 0 {
			checkOutput(len(out.NormalVectors), n, "normal vectors")
		}
		for p := 0; p < n; p++ {
			J := data.contravariant[p]
			if m.dim == m.spacedim {
				det := utils.Determinant(J)
				if err = m.checkDistortion(cell, det, p); err != nil {
					return
				}
				if flags&UpdateJxWValues != 0 {
					out.JxW[p] = q.Weights[p] * det
				}
				continue
			}
			if flags&UpdateJxWValues != 0 {
				out.JxW[p] = utils.VolumeElement(J) * q.Weights[p]
			}
			if flags&UpdateNormalVectors != 0 {
				copy(out.NormalVectors[p], m.cellNormal(cell, data, p))
			}
		}
	}
	m.copyJacobians(data, out)
	m.maybeUpdateJacobianDerivatives(quadrature.Cell().Offset(), data, out)
	return
}

// cellNormal is the unit normal of a codimension one cell at buffer point p
func (m *FieldMapping) cellNormal(cell types.Cell, data *InternalData, p int) (n []float64) {
	if m.spacedim-m.dim != 1 {
		panic(fmt.Errorf("%w: there is no cell normal in codimension %d", ErrNotImplemented, m.spacedim-m.dim))
	}
	J := data.contravariant[p]
	if m.dim == 1 {
		t := tensor.Column(J, 0)
		n = tensor.Cross2([]float64{-t[0], -t[1]})
	} else {
		n = tensor.Cross3(tensor.Column(J, 0), tensor.Column(J, 1))
	}
	tensor.Normalize(n)
	if !cell.DirectionFlag() {
		for d := range n {
			n[d] = -n[d]
		}
	}
	return
}

// FillFEFaceValues evaluates the mapping on a face of cell. The cache comes from
// GetFaceData with the same one rule collection.
func (m *FieldMapping) FillFEFaceValues(cell types.Cell, face int, qc quadrature.Collection, handle InternalDataBase,
	out *OutputData) error {
	if qc.Size() != 1 {
		panic(dimensionMismatch(qc.Size(), 1, "face quadrature collection size"))
	}
	data := m.internalData(handle)
	checkOutput(data.nPoints, qc[0].Size(), "cache points")
	m.checkFace(face)
	m.updateInternalDoFs(cell, data)
	offset := quadrature.Face(m.rc, face, cell.CombinedFaceOrientation(face), qc[0].Size())
	return m.fillFaceValues(cell, face, -1, offset.Offset(), data, out)
}

// FillFESubfaceValues evaluates the mapping on child subface of a face under
// isotropic refinement. The cache comes from GetSubfaceData with the same rule.
func (m *FieldMapping) FillFESubfaceValues(cell types.Cell, face, subface int, q quadrature.Quadrature,
	handle InternalDataBase, out *OutputData) error {
	data := m.internalData(handle)
	checkOutput(data.nPoints, q.Size(), "cache points")
	m.checkFace(face)
	if subface < 0 || subface >= m.rc.NSubfaces() {
		panic(indexRange(subface, m.rc.NSubfaces(), "subface"))
	}
	m.updateInternalDoFs(cell, data)
	offset := quadrature.Subface(m.rc, face, subface, cell.CombinedFaceOrientation(face), q.Size())
	return m.fillFaceValues(cell, face, subface, offset.Offset(), data, out)
}

func (m *FieldMapping) checkFace(face int) {
	if face < 0 || face >= m.rc.NFaces() {
		panic(indexRange(face, m.rc.NFaces(), "face"))
	}
}

func (m *FieldMapping) fillFaceValues(cell types.Cell, face, subface, offset int, data *InternalData,
	out *OutputData) error {
	m.maybeComputeQPoints(offset, data, out)
	m.maybeUpdateJacobians(offset, data)
	m.copyJacobians(data, out)
	m.maybeUpdateJacobianDerivatives(offset, data, out)
	return m.maybeComputeFaceData(cell, face, subface, offset, data, out)
}

// maybeComputeFaceData maps the reference tangentials of the face to the cell and
// forms boundary forms, JxW and normals from them. A face collapsed to zero
// measure is reported as distorted.
func (m *FieldMapping) maybeComputeFaceData(cell types.Cell, face, subface, offset int, data *InternalData,
	out *OutputData) error {
	flags := data.updateEach
	if flags&UpdateBoundaryForms == 0 {
		return nil
	}
	n := data.nPoints
	checkOutput(len(out.BoundaryForms), n, "boundary forms")
	nFaces := m.rc.NFaces()
	for k := 0; k < m.dim-1; k++ {
		t := data.unitTangentials[face+nFaces*k]
		for p := 0; p < n; p++ {
			copy(data.aux[k][p], tensor.Apply(data.contravariant[p], t))
		}
	}
	sign := 1.
	if face == 0 {
		sign = -1.
	}
	for p := 0; p < n; p++ {
		bf := out.BoundaryForms[p]
		if m.dim == m.spacedim {
			switch m.dim {
			case 1:
				bf[0] = sign
			case 2:
				copy(bf, tensor.Cross2(data.aux[0][p]))
			case 3:
				copy(bf, tensor.Cross3(data.aux[0][p], data.aux[1][p]))
			}
			continue
		}
		J := data.contravariant[p]
		switch m.dim {
		case 1:
			// J is the tangent of the curve
			t := tensor.Column(J, 0)
			norm := tensor.Norm(t)
			for d := range bf {
				bf[d] = t[d] / (sign * norm)
			}
		case 2:
			cellNormal := tensor.Normalize(tensor.Cross3(tensor.Column(J, 0), tensor.Column(J, 1)))
			copy(bf, tensor.Cross3(data.aux[0][p], cellNormal))
		}
	}
	if flags&(UpdateNormalVectors|UpdateJxWValues) == 0 {
		return nil
	}
	if flags&UpdateJxWValues != 0 {
		checkOutput(len(out.JxW), n, "JxW values")
	}
	if flags&UpdateNormalVectors != 0 {
		checkOutput(len(out.NormalVectors), n, "normal vectors")
	}
	for p := 0; p < n; p++ {
		norm := tensor.Norm(out.BoundaryForms[p])
		if !(norm > 0) {
			err := &DistortedCellError{Center: cell.Center(), Determinant: norm, Point: p}
			logger.Printf("cell %s face %d: %v", cell.Key(), face, err)
			return err
		}
		if flags&UpdateJxWValues != 0 {
			out.JxW[p] = norm * data.weights[p+offset]
			if subface >= 0 {
				out.JxW[p] *= m.rc.SubfaceRatio(subface)
			}
		}
		if flags&UpdateNormalVectors != 0 {
			for d, v := range out.BoundaryForms[p] {
				out.NormalVectors[p][d] = v / norm
			}
		}
	}
	return nil
}

// GetImmersedSurfaceData builds a cache for FillFEImmersedSurfaceValues. The
// surface normals are mapped with the covariant form, which is added to the
// request when JxW or normals are asked for.
func (m *FieldMapping) GetImmersedSurfaceData(flags UpdateFlags, q quadrature.ImmersedSurface) *InternalData {
	if flags&(UpdateJxWValues|UpdateNormalVectors) != 0 {
		flags |= UpdateCovariantTransformation
	}
	return m.GetData(flags, q.Quadrature)
}

// FillFEImmersedSurfaceValues evaluates the mapping on a surface cutting through
// the cell, available for dim == spacedim only
func (m *FieldMapping) FillFEImmersedSurfaceValues(cell types.Cell, q quadrature.ImmersedSurface,
	handle InternalDataBase, out *OutputData) (err error) {
	if m.dim != m.spacedim {
		panic(dimensionMismatch(m.dim, m.spacedim, "immersed surfaces need dim == spacedim"))
	}
	data := m.internalData(handle)
	n := q.Size()
	checkOutput(data.nPoints, n, "cache points")

	m.updateInternalDoFs(cell, data)
	m.maybeComputeQPoints(quadrature.Cell().Offset(), data, out)
	m.maybeUpdateJacobians(quadrature.Cell().Offset(), data)

	flags := data.updateEach
	if flags&(UpdateNormalVectors|UpdateJxWValues) != 0 {
		if flags&UpdateCovariantTransformation == 0 {
			panic(fmt.Errorf("%w: covariant_transformation is needed for immersed surface normals",
				ErrUninitializedField))
		}
		if flags&UpdateJxWValues != 0 {
			checkOutput(len(out.JxW), n, "JxW values")
		}
		if flags&UpdateNormalVectors != 0 {
			checkOutput(len(out.NormalVectors), n, "normal vectors")
		}
		for p := 0; p < n; p++ {
			det := data.volumeElements[p]
			if err = m.checkDistortion(cell, det, p); err != nil {
				return
			}
			// n = J^{-T} n_hat before normalization
			normal := tensor.Apply(data.covariant[p], q.Normals[p])
			norm := tensor.Norm(normal)
			if flags&UpdateJxWValues != 0 {
				out.JxW[p] = q.Weights[p] * det * norm
			}
			if flags&UpdateNormalVectors != 0 {
				for d := range normal {
					out.NormalVectors[p][d] = normal[d] / norm
				}
			}
		}
	}
	m.copyJacobians(data, out)
	m.maybeUpdateJacobianDerivatives(quadrature.Cell().Offset(), data, out)
	return
}
