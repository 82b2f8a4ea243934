package quadrature

import (
	"fmt"

	"github.com/notargets/fefield/refcell"
)

// DataSetDescriptor is the offset of a face or subface block within a
// projected rule. The cell itself is at offset zero.
type DataSetDescriptor int

func Cell() DataSetDescriptor { return 0 }

func Face(rc refcell.ReferenceCell, face int, orientation uint8, nQuad int) DataSetDescriptor {
	if face < 0 || face >= rc.NFaces() {
		panic(fmt.Errorf("face %d out of range for a %s", face, rc))
	}
	o := rc.OrientationIndex(orientation)
	return DataSetDescriptor((face*rc.NFaceOrientations() + o) * nQuad)
}

func Subface(rc refcell.ReferenceCell, face, subface int, orientation uint8, nQuad int) DataSetDescriptor {
	if face < 0 || face >= rc.NFaces() {
		panic(fmt.Errorf("face %d out of range for a %s", face, rc))
	}
	if subface < 0 || subface >= rc.NSubfaces() {
		panic(fmt.Errorf("subface %d out of range for a %s", subface, rc))
	}
	o := rc.OrientationIndex(orientation)
	return DataSetDescriptor(((face*rc.NFaceOrientations()+o)*rc.NSubfaces() + subface) * nQuad)
}

func (d DataSetDescriptor) Offset() int { return int(d) }

// ProjectToAllFaces lays a face rule onto every face of the cell in every
// orientation. The weights are those of the face rule.
func ProjectToAllFaces(rc refcell.ReferenceCell, q Quadrature) Quadrature {
	checkFaceRule(rc, q)
	var (
		points  [][]float64
		weights []float64
	)
	for f := 0; f < rc.NFaces(); f++ {
		for o := 0; o < rc.NFaceOrientations(); o++ {
			for i, u := range q.Points {
				points = append(points, rc.FacePointToCell(f, rc.OrientFacePoint(orientationOf(rc, o), u)))
				weights = append(weights, q.Weights[i])
			}
		}
	}
	return New(rc.Dim(), points, weights)
}

// ProjectToAllSubfaces lays a face rule onto every child of every face under
// isotropic refinement. The weights are not scaled by the subface area.
func ProjectToAllSubfaces(rc refcell.ReferenceCell, q Quadrature) Quadrature {
	checkFaceRule(rc, q)
	var (
		points  [][]float64
		weights []float64
	)
	for f := 0; f < rc.NFaces(); f++ {
		for o := 0; o < rc.NFaceOrientations(); o++ {
			for s := 0; s < rc.NSubfaces(); s++ {
				for i, u := range q.Points {
					sub := rc.SubfacePoint(s, u)
					points = append(points, rc.FacePointToCell(f, rc.OrientFacePoint(orientationOf(rc, o), sub)))
					weights = append(weights, q.Weights[i])
				}
			}
		}
	}
	return New(rc.Dim(), points, weights)
}

func checkFaceRule(rc refcell.ReferenceCell, q Quadrature) {
	if q.Dim != rc.Dim()-1 {
		panic(fmt.Errorf("face rule of dimension %d does not fit a %s", q.Dim, rc))
	}
}

func orientationOf(rc refcell.ReferenceCell, index int) uint8 {
	if rc.Dim() == 1 {
		return refcell.DefaultCombinedOrientation
	}
	return uint8(index)
}
