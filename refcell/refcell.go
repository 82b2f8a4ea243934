// Package refcell describes the unit hypercube reference cells [0,1]^dim, 1 <= dim <= 3,
// on which shape functions and quadrature rules are defined.
//
// Faces are numbered by axis and side: face f lies on x_{f/2} = f%2. Vertices are
// numbered lexicographically, bit d of the vertex number is coordinate d.
package refcell

import (
	"fmt"

	"github.com/notargets/fefield/utils"
)

// DefaultCombinedOrientation is the face orientation of a face seen from a
// standard oriented cell: orientation bit set, no rotation, no flip
const DefaultCombinedOrientation uint8 = 1

type ReferenceCell struct {
	dim int
}

func Hypercube(dim int) ReferenceCell {
	if dim < 1 || dim > 3 {
		panic(fmt.Errorf("hypercube reference cells exist for dim 1, 2 and 3, have %d", dim))
	}
	return ReferenceCell{dim: dim}
}

func (rc ReferenceCell) Dim() int { return rc.dim }

func (rc ReferenceCell) NVertices() int { return 1 << rc.dim }

func (rc ReferenceCell) NFaces() int { return 2 * rc.dim }

// NSubfaces is the number of children of a face under isotropic refinement
func (rc ReferenceCell) NSubfaces() int { return 1 << (rc.dim - 1) }

// NFaceOrientations is the number of distinct combined orientations of a face
func (rc ReferenceCell) NFaceOrientations() int {
	switch rc.dim {
	case 1:
		return 1
	case 2:
		return 2
	}
	return 8
}

// OrientationIndex maps a combined face orientation onto its data set slot
func (rc ReferenceCell) OrientationIndex(combined uint8) int {
	if rc.dim == 1 {
		return 0
	}
	if int(combined) >= rc.NFaceOrientations() {
		panic(fmt.Errorf("combined orientation %d is out of range for dim %d", combined, rc.dim))
	}
	return int(combined)
}

func (rc ReferenceCell) String() string {
	switch rc.dim {
	case 1:
		return "Line"
	case 2:
		return "Quadrilateral"
	}
	return "Hexahedron"
}

func (rc ReferenceCell) Vertex(v int) (p []float64) {
	if v < 0 || v >= rc.NVertices() {
		panic(fmt.Errorf("vertex %d out of range for a %s", v, rc))
	}
	p = make([]float64, rc.dim)
	for d := 0; d < rc.dim; d++ {
		p[d] = float64((v >> d) & 1)
	}
	return
}

func (rc ReferenceCell) Vertices() (V [][]float64) {
	V = make([][]float64, rc.NVertices())
	for v := range V {
		V[v] = rc.Vertex(v)
	}
	return
}

func (rc ReferenceCell) Centroid() (c []float64) {
	c = make([]float64, rc.dim)
	for d := range c {
		c[d] = 0.5
	}
	return
}

// ClosestPoint projects p onto the closed reference cell
func (rc ReferenceCell) ClosestPoint(p []float64) (c []float64) {
	c = make([]float64, rc.dim)
	for d := range c {
		c[d] = utils.Clamp(p[d], 0, 1)
	}
	return
}

func (rc ReferenceCell) Contains(p []float64, tol float64) bool {
	for d := 0; d < rc.dim; d++ {
		if p[d] < -tol || p[d] > 1+tol {
			return false
		}
	}
	return true
}

// SubfaceRatio is the area of a subface relative to its parent face
func (rc ReferenceCell) SubfaceRatio(subface int) float64 {
	if subface < 0 || subface >= rc.NSubfaces() {
		panic(fmt.Errorf("subface %d out of range for a %s", subface, rc))
	}
	return 1. / float64(rc.NSubfaces())
}

var unitTangentials = map[int][][][]float64{
	2: {
		{{0, -1}},
		{{0, 1}},
		{{1, 0}},
		{{-1, 0}},
	},
	3: {
		{{0, -1, 0}, {0, 0, 1}},
		{{0, 1, 0}, {0, 0, 1}},
		{{0, 0, -1}, {1, 0, 0}},
		{{0, 0, 1}, {1, 0, 0}},
		{{-1, 0, 0}, {0, 1, 0}},
		{{1, 0, 0}, {0, 1, 0}},
	},
}

// FaceTangentVector returns tangential i of a face. The tangentials are
// ordered so that their cross product points out of the cell.
func (rc ReferenceCell) FaceTangentVector(face, i int) (t []float64) {
	if rc.dim == 1 {
		panic(fmt.Errorf("faces of a Line are points and carry no tangentials"))
	}
	if face < 0 || face >= rc.NFaces() || i < 0 || i >= rc.dim-1 {
		panic(fmt.Errorf("tangential %d of face %d out of range for a %s", i, face, rc))
	}
	return append([]float64(nil), unitTangentials[rc.dim][face][i]...)
}

// FaceNormal is the outward unit normal of a face
func (rc ReferenceCell) FaceNormal(face int) (n []float64) {
	n = make([]float64, rc.dim)
	if face%2 == 0 {
		n[face/2] = -1
	} else {
		n[face/2] = 1
	}
	return
}

// FacePointToCell maps a point of the (dim-1) face parameter space onto the face.
// In 3D the y faces are parametrized by (z, x) so that the face axes follow the
// tangentials.
func (rc ReferenceCell) FacePointToCell(face int, u []float64) (p []float64) {
	var (
		axis = face / 2
		side = float64(face % 2)
	)
	p = make([]float64, rc.dim)
	switch rc.dim {
	case 1:
		p[0] = side
	case 2:
		p[axis] = side
		p[1-axis] = u[0]
	case 3:
		switch axis {
		case 0:
			p[0], p[1], p[2] = side, u[0], u[1]
		case 1:
			p[0], p[1], p[2] = u[1], side, u[0]
		case 2:
			p[0], p[1], p[2] = u[0], u[1], side
		}
	}
	return
}

// OrientFacePoint rearranges a face parameter point for a combined
// orientation. Bit 0 is the standard orientation, bit 1 rotation, bit 2 flip.
func (rc ReferenceCell) OrientFacePoint(combined uint8, u []float64) (r []float64) {
	r = append([]float64(nil), u...)
	switch rc.dim {
	case 2:
		if combined&1 == 0 {
			r[0] = 1 - r[0]
		}
	case 3:
		if combined&1 == 0 {
			r[0], r[1] = r[1], r[0]
		}
		if combined&4 != 0 {
			r[0], r[1] = 1-r[0], 1-r[1]
		}
		if combined&2 != 0 {
			r[0], r[1] = 1-r[1], r[0]
		}
	}
	return
}

// SubfacePoint maps a face parameter point onto child subface of the face
func (rc ReferenceCell) SubfacePoint(subface int, u []float64) (r []float64) {
	r = make([]float64, len(u))
	for d := range u {
		r[d] = 0.5 * (u[d] + float64((subface>>d)&1))
	}
	return
}
