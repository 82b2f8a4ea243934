package fe

import (
	"fmt"

	"github.com/notargets/fefield/quadrature"
	"github.com/notargets/fefield/refcell"
	"github.com/notargets/fefield/utils"
	"gonum.org/v1/gonum/mat"
)

// FEQ is the continuous Lagrange element of a given degree on the hypercube,
// with support points on the tensor product Gauss-Lobatto lattice. Shape
// functions are numbered lexicographically, x fastest.
type FEQ struct {
	dim, degree int
	nodes       []float64
	// poly[j][k] holds the monomial coefficients of the k-th derivative of the
	// j-th 1D Lagrange polynomial
	poly [][MaxDerivativeOrder + 1][]float64
	rc   refcell.ReferenceCell
}

func NewFEQ(dim, degree int) (fe *FEQ) {
	if degree < 1 {
		panic(fmt.Errorf("FE_Q needs degree >= 1, have %d", degree))
	}
	fe = &FEQ{
		dim:    dim,
		degree: degree,
		nodes:  quadrature.GaussLobattoPoints(degree + 1),
		rc:     refcell.Hypercube(dim),
	}
	fe.poly = lagrangeCoefficients(fe.nodes)
	return
}

// lagrangeCoefficients inverts the monomial Vandermonde matrix on the nodes,
// column j of the inverse holds the coefficients of the j-th Lagrange polynomial
func lagrangeCoefficients(nodes []float64) (poly [][MaxDerivativeOrder + 1][]float64) {
	var (
		Np = len(nodes)
		V  = mat.NewDense(Np, Np, nil)
		C  mat.Dense
	)
	for i, x := range nodes {
		for m := 0; m < Np; m++ {
			V.Set(i, m, utils.POW(x, m))
		}
	}
	if err := C.Inverse(V); err != nil {
		panic(fmt.Errorf("unable to invert the Vandermonde matrix: %v", err))
	}
	poly = make([][MaxDerivativeOrder + 1][]float64, Np)
	for j := 0; j < Np; j++ {
		c := mat.Col(nil, j, &C)
		poly[j][0] = c
		for k := 1; k <= MaxDerivativeOrder; k++ {
			poly[j][k] = differentiate(poly[j][k-1])
		}
	}
	return
}

func differentiate(c []float64) (d []float64) {
	if len(c) <= 1 {
		return []float64{0}
	}
	d = make([]float64, len(c)-1)
	for m := 1; m < len(c); m++ {
		d[m-1] = float64(m) * c[m]
	}
	return
}

func horner(c []float64, x float64) (v float64) {
	for m := len(c) - 1; m >= 0; m-- {
		v = v*x + c[m]
	}
	return
}

func (fe *FEQ) Name() string { return fmt.Sprintf("FE_Q<%d>(%d)", fe.dim, fe.degree) }

func (fe *FEQ) Dim() int { return fe.dim }

func (fe *FEQ) Degree() int { return fe.degree }

func (fe *FEQ) NDoFsPerCell() int { return utils.IPOW(fe.degree+1, fe.dim) }

func (fe *FEQ) NComponents() int { return 1 }

func (fe *FEQ) ReferenceCell() refcell.ReferenceCell { return fe.rc }

func (fe *FEQ) NonzeroComponents(i int) ComponentMask {
	checkShapeIndex(fe, i)
	return ComponentMask{true}
}

func (fe *FEQ) IsPrimitive(i int) bool { return true }

func (fe *FEQ) SystemToComponent(i int) (component, base int) {
	checkShapeIndex(fe, i)
	return 0, i
}

// multiIndex splits a shape index into its 1D polynomial indices
func (fe *FEQ) multiIndex(i int) (ind []int) {
	ind = make([]int, fe.dim)
	for d := 0; d < fe.dim; d++ {
		ind[d] = i % (fe.degree + 1)
		i /= fe.degree + 1
	}
	return
}

func (fe *FEQ) UnitSupportPoint(i int) (p []float64) {
	checkShapeIndex(fe, i)
	p = make([]float64, fe.dim)
	for d, j := range fe.multiIndex(i) {
		p[d] = fe.nodes[j]
	}
	return
}

func (fe *FEQ) ShapeDerivative(i, order int, p []float64) (D []float64) {
	checkShapeIndex(fe, i)
	checkOrder(order)
	var (
		ind    = fe.multiIndex(i)
		total  = utils.IPOW(fe.dim, order)
		counts = make([]int, fe.dim)
	)
	D = make([]float64, total)
	for n := 0; n < total; n++ {
		// Count how often each direction appears in the flattened derivative index
		for d := range counts {
			counts[d] = 0
		}
		rem := n
		for k := 0; k < order; k++ {
			counts[rem%fe.dim]++
			rem /= fe.dim
		}
		v := 1.
		for d := 0; d < fe.dim; d++ {
			v *= horner(fe.poly[ind[d]][counts[d]], p[d])
		}
		D[n] = v
	}
	return
}

func (fe *FEQ) ShapeValueComponent(i int, p []float64, component int) float64 {
	if component != 0 {
		panic(fmt.Errorf("component %d out of range for scalar %s", component, fe.Name()))
	}
	return fe.ShapeDerivative(i, 0, p)[0]
}
