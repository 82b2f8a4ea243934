package mapping

import (
	"fmt"

	"github.com/notargets/fefield/fe"
	"github.com/notargets/fefield/quadrature"
	"github.com/notargets/fefield/refcell"
	"github.com/notargets/fefield/utils"
	"gonum.org/v1/gonum/mat"
)

// InternalDataBase is the opaque handle of a per request cache. Only caches
// built by a FieldMapping's GetData family are accepted back by its fill routines.
type InternalDataBase interface {
	UpdateFlags() UpdateFlags
	MemoryConsumption() int
}

// InternalData caches the field element's shape data on a quadrature rule and the
// Jacobians of the current cell. It holds per cell state and must not be shared
// between goroutines.
type InternalData struct {
	tag              uint64
	fe               fe.FiniteElement
	rc               refcell.ReferenceCell
	dim, spacedim    int
	nShape           int
	updateEach       UpdateFlags
	points           [][]float64
	nPoints, nTable  int // points filled per call, points in the shape tables
	shapeValues      []float64
	shapeDerivatives [fe.MaxDerivativeOrder][]float64
	weights          []float64
	// unitTangentials[face+k*nFaces] is tangential k of a face
	unitTangentials [][]float64
	aux             [][][]float64
	contravariant   []*mat.Dense
	covariant       []*mat.Dense
	volumeElements  []float64
	localDoFIndices []int
	localDoFValues  []float64
}

var _ InternalDataBase = (*InternalData)(nil)

func newInternalData(m *FieldMapping) *InternalData {
	n := m.fe.NDoFsPerCell()
	return &InternalData{
		tag:             m.tag,
		fe:              m.fe,
		rc:              m.rc,
		dim:             m.dim,
		spacedim:        m.spacedim,
		nShape:          n,
		localDoFIndices: make([]int, n),
		localDoFValues:  make([]float64, n),
	}
}

func (data *InternalData) UpdateFlags() UpdateFlags { return data.updateEach }

// NPoints is the number of quadrature points filled by one call
func (data *InternalData) NPoints() int { return data.nPoints }

func (data *InternalData) shape(q, i int) float64 { return data.shapeValues[q*data.nShape+i] }

// derivative returns the flattened order-th reference derivative of shape i at point q
func (data *InternalData) derivative(order, q, i int) []float64 {
	stride := utils.IPOW(data.dim, order)
	table := data.shapeDerivatives[order-1]
	if len(table) == 0 {
		panic(fmt.Errorf("%w: shape derivatives of order %d", ErrUninitializedField, order))
	}
	off := (q*data.nShape + i) * stride
	return table[off : off+stride]
}

// reinit fills the shape tables selected by flags on the points of q. The
// flags are expected to be closed under RequiresUpdateFlags.
func (data *InternalData) reinit(flags UpdateFlags, q quadrature.Quadrature) {
	if q.Dim != data.dim {
		panic(dimensionMismatch(q.Dim, data.dim, "quadrature dimension vs mapping dimension"))
	}
	data.updateEach = flags
	var (
		n = q.Size()
	)
	data.nPoints, data.nTable = n, n
	data.weights = append(data.weights[:0], q.Weights...)
	data.points = q.Points

	data.shapeValues = data.shapeValues[:0]
	if flags&UpdateQuadraturePoints != 0 {
		data.shapeValues = resize(data.shapeValues, n*data.nShape)
		for p, x := range q.Points {
			for i := 0; i < data.nShape; i++ {
				data.shapeValues[p*data.nShape+i] = data.fe.ShapeDerivative(i, 0, x)[0]
			}
		}
	}
	needed := [fe.MaxDerivativeOrder]bool{
		flags&gradientFlags != 0,
		flags&derivativeFlags[0] != 0,
		flags&derivativeFlags[1] != 0,
		flags&derivativeFlags[2] != 0,
	}
	for k := range needed {
		order := k + 1
		data.shapeDerivatives[k] = data.shapeDerivatives[k][:0]
		if !needed[k] {
			continue
		}
		stride := utils.IPOW(data.dim, order)
		table := resize(data.shapeDerivatives[k], n*data.nShape*stride)
		for p, x := range q.Points {
			for i := 0; i < data.nShape; i++ {
				copy(table[(p*data.nShape+i)*stride:], data.fe.ShapeDerivative(i, order, x))
			}
		}
		data.shapeDerivatives[k] = table
	}
	data.sizeBuffers(n)
}

// sizeBuffers keeps the per point buffers when the number of points is
// unchanged, the Newton solver reinitializes on every trial point
func (data *InternalData) sizeBuffers(n int) {
	flags := data.updateEach
	data.covariant = matrixBuffers(data.covariant, flags&UpdateCovariantTransformation != 0, n,
		data.spacedim, data.dim)
	data.contravariant = matrixBuffers(data.contravariant, flags&UpdateContravariantTransformation != 0, n,
		data.spacedim, data.dim)
	switch {
	case flags&UpdateVolumeElements == 0:
		data.volumeElements = nil
	case len(data.volumeElements) != n:
		data.volumeElements = make([]float64, n)
	}
}

// computeFaceData resizes the per point buffers from the all faces table to a
// single face rule and prepares the tangentials used for boundary forms
func (data *InternalData) computeFaceData(nOriginal int) {
	data.nPoints = nOriginal
	data.sizeBuffers(nOriginal)
	if data.dim > 1 && data.updateEach&UpdateBoundaryForms != 0 {
		data.aux = make([][][]float64, data.dim-1)
		for k := range data.aux {
			data.aux[k] = make([][]float64, nOriginal)
			for p := range data.aux[k] {
				data.aux[k][p] = make([]float64, data.spacedim)
			}
		}
		nFaces := data.rc.NFaces()
		data.unitTangentials = make([][]float64, nFaces*(data.dim-1))
		for f := 0; f < nFaces; f++ {
			for k := 0; k < data.dim-1; k++ {
				data.unitTangentials[f+k*nFaces] = data.rc.FaceTangentVector(f, k)
			}
		}
	}
}

// MemoryConsumption is the size in bytes of the tables owned by the cache
func (data *InternalData) MemoryConsumption() (bytes int) {
	const word = 8
	floats := len(data.shapeValues) + len(data.weights) + len(data.volumeElements) + len(data.localDoFValues)
	for _, t := range data.shapeDerivatives {
		floats += len(t)
	}
	for _, t := range data.unitTangentials {
		floats += len(t)
	}
	for _, a := range data.aux {
		for _, v := range a {
			floats += len(v)
		}
	}
	floats += (len(data.contravariant) + len(data.covariant)) * data.spacedim * data.dim
	return word * (floats + len(data.localDoFIndices))
}

func resize(s []float64, n int) []float64 {
	if cap(s) < n {
		return make([]float64, n)
	}
	s = s[:n]
	for i := range s {
		s[i] = 0
	}
	return s
}

func matrixBuffers(M []*mat.Dense, wanted bool, n, nr, nc int) []*mat.Dense {
	switch {
	case !wanted:
		return nil
	case len(M) == n:
		return M
	}
	return newMatrices(n, nr, nc)
}

func newMatrices(n, nr, nc int) (M []*mat.Dense) {
	M = make([]*mat.Dense, n)
	for i := range M {
		M[i] = mat.NewDense(nr, nc, nil)
	}
	return
}
