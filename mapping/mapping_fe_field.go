// Package mapping implements a geometric mapping of cells whose shape is
// given by a finite element field, the "Euler vector": every spatial
// coordinate of a mapped point is the interpolant of the field's components.
// The fill routines produce quadrature points, Jacobians and their
// derivatives up to fourth order, boundary forms and normals on cells,
// faces, subfaces and immersed surfaces.
package mapping

import (
	"fmt"
	"sync/atomic"

	"github.com/notargets/fefield/fe"
	"github.com/notargets/fefield/quadrature"
	"github.com/notargets/fefield/refcell"
	"github.com/notargets/fefield/types"
)

// DoFHandler resolves cells to the global indices of the field's degrees of freedom
type DoFHandler interface {
	FE() fe.FiniteElement
	SpaceDim() int
	NDoFs() int
	NLevels() int
	NLevelDoFs(level int) int
	HasLevelDoFs() bool
	ActiveDoFIndices(cell types.Cell) []int
	LevelDoFIndices(cell types.Cell) []int
}

var tags uint64

type FieldMapping struct {
	tag           uint64
	dh            DoFHandler
	fe            fe.FiniteElement
	rc            refcell.ReferenceCell
	dim, spacedim int
	usesLevelDoFs bool
	vectors       []types.VectorReader
	mask          fe.ComponentMask
	dofs          *ComponentDoFs
	// vertexValues[d][v][i] is the value of shape function i, in the component
	// of direction d, at reference vertex v
	vertexValues [][][]float64
}

// NewFieldMapping builds a mapping from an Euler vector in the active numbering.
// An empty mask selects every component of the element.
func NewFieldMapping(dh DoFHandler, euler types.VectorReader, mask fe.ComponentMask) (m *FieldMapping) {
	m = newFieldMapping(dh, mask)
	if euler.Len() != dh.NDoFs() {
		panic(dimensionMismatch(euler.Len(), dh.NDoFs(), "Euler vector size vs number of dofs"))
	}
	m.vectors = []types.VectorReader{euler}
	return
}

// NewFieldMappingLevels builds a mapping from one Euler vector per level, as used
// on the level cells of a multigrid hierarchy
func NewFieldMappingLevels(dh DoFHandler, vectors []types.VectorReader, mask fe.ComponentMask) (m *FieldMapping) {
	if !dh.HasLevelDoFs() {
		panic(fmt.Errorf("%w: the dof handler did not distribute level dofs, level vectors make no sense",
			ErrDimensionMismatch))
	}
	if len(vectors) != dh.NLevels() {
		panic(dimensionMismatch(len(vectors), dh.NLevels(), "number of level vectors vs levels"))
	}
	m = newFieldMapping(dh, mask)
	m.usesLevelDoFs = true
	for l, v := range vectors {
		if v.Len() != dh.NLevelDoFs(l) {
			panic(dimensionMismatch(v.Len(), dh.NLevelDoFs(l), fmt.Sprintf("level %d vector size vs dofs", l)))
		}
	}
	m.vectors = append([]types.VectorReader(nil), vectors...)
	return
}

func newFieldMapping(dh DoFHandler, mask fe.ComponentMask) (m *FieldMapping) {
	element := dh.FE()
	if mask.Size() == 0 {
		mask = fe.NewComponentMask(element.NComponents(), true)
	}
	m = &FieldMapping{
		tag:      atomic.AddUint64(&tags, 1),
		dh:       dh,
		fe:       element,
		rc:       element.ReferenceCell(),
		dim:      element.Dim(),
		spacedim: dh.SpaceDim(),
		mask:     append(fe.ComponentMask(nil), mask...),
	}
	m.dofs = NewComponentDoFs(element, m.mask, m.spacedim)
	m.vertexValues = m.buildVertexTable()
	return
}

// buildVertexTable evaluates the element on the nodal rule once, the table is
// read only afterwards
func (m *FieldMapping) buildVertexTable() (table [][][]float64) {
	var (
		nodal = quadrature.Nodal(m.rc)
		n     = m.fe.NDoFsPerCell()
	)
	table = make([][][]float64, m.spacedim)
	for d := range table {
		if d > 0 && m.dofs.AllComponentsPrimitive() {
			table[d] = table[0]
			continue
		}
		table[d] = make([][]float64, nodal.Size())
		for v, x := range nodal.Points {
			table[d][v] = make([]float64, n)
			for i := 0; i < n; i++ {
				if m.dofs.AllComponentsPrimitive() {
					table[d][v][i] = m.fe.ShapeDerivative(i, 0, x)[0]
				} else {
					table[d][v][i] = m.fe.ShapeValueComponent(i, x, m.dofs.Component(d))
				}
			}
		}
	}
	return
}

// Clone returns an independent mapping over the same Euler vectors. Caches of
// the original are accepted by the clone.
func (m *FieldMapping) Clone() *FieldMapping {
	c := *m
	c.vectors = append([]types.VectorReader(nil), m.vectors...)
	c.mask = append(fe.ComponentMask(nil), m.mask...)
	c.dofs = NewComponentDoFs(m.fe, c.mask, m.spacedim)
	return &c
}

func (m *FieldMapping) Dim() int { return m.dim }

func (m *FieldMapping) SpaceDim() int { return m.spacedim }

func (m *FieldMapping) Degree() int { return m.fe.Degree() }

func (m *FieldMapping) ComponentMask() fe.ComponentMask {
	return append(fe.ComponentMask(nil), m.mask...)
}

func (m *FieldMapping) ComponentDoFs() *ComponentDoFs { return m.dofs }

// PreservesVertexLocations is false, the field may move the vertices
func (m *FieldMapping) PreservesVertexLocations() bool { return false }

func (m *FieldMapping) IsCompatibleWith(rc refcell.ReferenceCell) bool {
	if rc.Dim() != m.dim {
		panic(dimensionMismatch(rc.Dim(), m.dim, "reference cell dimension vs mapping dimension"))
	}
	return rc == m.rc
}

func (m *FieldMapping) GetData(flags UpdateFlags, q quadrature.Quadrature) *InternalData {
	data := newInternalData(m)
	data.reinit(RequiresUpdateFlags(flags), q)
	return data
}

// GetFaceData builds a cache over the projection of the face rule onto all
// faces and orientations. The collection holds exactly one rule.
func (m *FieldMapping) GetFaceData(flags UpdateFlags, qc quadrature.Collection) *InternalData {
	if qc.Size() != 1 {
		panic(dimensionMismatch(qc.Size(), 1, "face quadrature collection size"))
	}
	data := newInternalData(m)
	data.reinit(RequiresUpdateFlags(flags), quadrature.ProjectToAllFaces(m.rc, qc[0]))
	data.computeFaceData(qc[0].Size())
	return data
}

func (m *FieldMapping) GetSubfaceData(flags UpdateFlags, q quadrature.Quadrature) *InternalData {
	data := newInternalData(m)
	data.reinit(RequiresUpdateFlags(flags), quadrature.ProjectToAllSubfaces(m.rc, q))
	data.computeFaceData(q.Size())
	return data
}

// internalData is the single point where caches handed in by callers are checked
func (m *FieldMapping) internalData(handle InternalDataBase) *InternalData {
	data, ok := handle.(*InternalData)
	if !ok || data == nil {
		panic(fmt.Errorf("%w: have %T", ErrForeignInternalData, handle))
	}
	if data.tag != m.tag {
		panic(fmt.Errorf("%w: cache belongs to mapping %d, not %d", ErrForeignInternalData, data.tag, m.tag))
	}
	return data
}

// checkCell validates a cell against the registered vectors and returns the
// vector its coefficients are read from
func (m *FieldMapping) checkCell(cell types.Cell) (vector types.VectorReader) {
	if !m.usesLevelDoFs && !cell.IsActive() {
		panic(fmt.Errorf("%w: cell %s", ErrInactiveCell, cell.Key()))
	}
	if cell.NVertices() != m.rc.NVertices() {
		panic(dimensionMismatch(cell.NVertices(), m.rc.NVertices(), "cell vertices vs reference cell vertices"))
	}
	if m.usesLevelDoFs {
		level := cell.Level()
		if level < 0 || level >= len(m.vectors) {
			panic(indexRange(level, len(m.vectors), "cell level"))
		}
		if m.vectors[level].Len() != m.dh.NLevelDoFs(level) {
			panic(dimensionMismatch(m.vectors[level].Len(), m.dh.NLevelDoFs(level), "level vector size vs dofs"))
		}
		return m.vectors[level]
	}
	if m.vectors[0].Len() != m.dh.NDoFs() {
		panic(dimensionMismatch(m.vectors[0].Len(), m.dh.NDoFs(), "Euler vector size vs number of dofs"))
	}
	return m.vectors[0]
}

func (m *FieldMapping) cellDoFIndices(cell types.Cell) []int {
	if m.usesLevelDoFs {
		return m.dh.LevelDoFIndices(cell)
	}
	return m.dh.ActiveDoFIndices(cell)
}

// updateInternalDoFs loads the coefficients of the Euler field on cell into the cache
func (m *FieldMapping) updateInternalDoFs(cell types.Cell, data *InternalData) {
	vector := m.checkCell(cell)
	ind := m.cellDoFIndices(cell)
	if len(ind) != data.nShape {
		panic(dimensionMismatch(len(ind), data.nShape, "cell dofs vs shape functions"))
	}
	copy(data.localDoFIndices, ind)
	for i, gi := range data.localDoFIndices {
		data.localDoFValues[i] = vector.AtVec(gi)
	}
}

// Vertices are the images of the reference vertices under the field
func (m *FieldMapping) Vertices(cell types.Cell) (V [][]float64) {
	var (
		vector = m.checkCell(cell)
		ind    = m.cellDoFIndices(cell)
	)
	V = make([][]float64, m.rc.NVertices())
	for v := range V {
		V[v] = make([]float64, m.spacedim)
	}
	for d := 0; d < m.spacedim; d++ {
		for _, i := range m.dofs.Indices(d) {
			value := vector.AtVec(ind[i])
			for v := range V {
				V[v][d] += m.vertexValues[d][v][i] * value
			}
		}
	}
	return
}
