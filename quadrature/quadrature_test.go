package quadrature

import (
	"fmt"
	"math"
	"testing"

	"github.com/notargets/fefield/refcell"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/integrate/quad"
)

func TestJacobiGQ(t *testing.T) {
	{ // Legendre nodes for N=1 are +-1/sqrt(3)
		X, W := JacobiGQ(0, 0, 1)
		assert.InDeltaSlice(t, []float64{-1 / math.Sqrt(3), 1 / math.Sqrt(3)}, X, 1.e-14)
		assert.InDeltaSlice(t, []float64{1, 1}, W, 1.e-14)
	}
	{
		X, W := JacobiGQ(0, 0, 0)
		assert.Equal(t, []float64{0}, X)
		assert.InDeltaSlice(t, []float64{2}, W, 1.e-15)
	}
	{ // The weights of any Jacobi rule integrate the weight function exactly
		X, W := JacobiGQ(1, 0, 3)
		var sum, first float64
		for i := range X {
			sum += W[i]
			first += W[i] * X[i]
		}
		// Integrals of (1-x) and x(1-x) over [-1,1]
		assert.InDelta(t, 2, sum, 1.e-13)
		assert.InDelta(t, -2./3., first, 1.e-13)
	}
	X := JacobiGL(0, 0, 4)
	assert.InDeltaSlice(t, []float64{-1, -math.Sqrt(3./7.), 0, math.Sqrt(3./7.), 1}, X, 1.e-14)
	assert.Equal(t, []float64{-1, 1}, JacobiGL(0, 0, 1))
}

func TestGaussMatchesLegendre(t *testing.T) {
	for n := 1; n <= 6; n++ {
		q := Gauss(1, n)
		for k := 0; k <= 2*n-1; k++ {
			t.Run(fmt.Sprintf("n=%d,k=%d", n, k), func(t *testing.T) {
				f := func(x float64) float64 { return math.Pow(x, float64(k)) }
				var sum float64
				for i, p := range q.Points {
					sum += q.Weights[i] * f(p[0])
				}
				assert.InDelta(t, quad.Fixed(f, 0, 1, n, nil, 0), sum, 1.e-13)
				assert.InDelta(t, 1./float64(k+1), sum, 1.e-13)
			})
		}
	}
	assert.Panics(t, func() { Gauss(2, 0) })
}

func TestTensorProducts(t *testing.T) {
	q := Gauss(3, 3)
	require.Equal(t, 27, q.Size())
	var sum, xyz float64
	for i, p := range q.Points {
		sum += q.Weights[i]
		xyz += q.Weights[i] * p[0] * p[1] * p[1] * p[2] * p[2] * p[2]
	}
	assert.InDelta(t, 1., sum, 1.e-14)
	assert.InDelta(t, 1./2*1./3*1./4, xyz, 1.e-14)

	q0 := Gauss(0, 2)
	assert.Equal(t, 1, q0.Size())
	assert.Equal(t, 0, len(q0.Points[0]))
	assert.Equal(t, 1., q0.Weights[0])

	x := GaussLobattoPoints(3)
	assert.InDeltaSlice(t, []float64{0, 0.5, 1}, x, 1.e-14)
	assert.Panics(t, func() { GaussLobattoPoints(1) })

	s := Single([]float64{0.25, 0.5})
	assert.Equal(t, 2, s.Dim)
	assert.Equal(t, 1, s.Size())
	assert.Panics(t, func() { New(2, [][]float64{{0, 0}}, []float64{}) })
	assert.Panics(t, func() { New(2, [][]float64{{0}}, []float64{1}) })

	nodal := Nodal(refcell.Hypercube(2))
	assert.Equal(t, [][]float64{{0, 0}, {1, 0}, {0, 1}, {1, 1}}, nodal.Points)

	c := Collection{Gauss(1, 2), Gauss(1, 4)}
	assert.Equal(t, 2, c.Size())
	assert.Equal(t, 4, c.MaxNPoints())
}

func TestProjections(t *testing.T) {
	for dim := 1; dim <= 3; dim++ {
		rc := refcell.Hypercube(dim)
		qf := Gauss(dim-1, 2)
		nq := qf.Size()
		t.Run(fmt.Sprintf("faces,dim=%d", dim), func(t *testing.T) {
			all := ProjectToAllFaces(rc, qf)
			require.Equal(t, rc.NFaces()*rc.NFaceOrientations()*nq, all.Size())
			for f := 0; f < rc.NFaces(); f++ {
				off := Face(rc, f, refcell.DefaultCombinedOrientation, nq).Offset()
				var area float64
				for i := 0; i < nq; i++ {
					p := all.Points[off+i]
					assert.Equal(t, float64(f%2), p[f/2])
					area += all.Weights[off+i]
				}
				assert.InDelta(t, 1., area, 1.e-14)
			}
		})
		t.Run(fmt.Sprintf("subfaces,dim=%d", dim), func(t *testing.T) {
			all := ProjectToAllSubfaces(rc, qf)
			require.Equal(t, rc.NFaces()*rc.NFaceOrientations()*rc.NSubfaces()*nq, all.Size())
			f := rc.NFaces() - 1
			for s := 0; s < rc.NSubfaces(); s++ {
				off := Subface(rc, f, s, refcell.DefaultCombinedOrientation, nq).Offset()
				for i := 0; i < nq; i++ {
					p := all.Points[off+i]
					assert.Equal(t, 1., p[f/2])
				}
			}
		})
	}
	// Subface 1 of face 2 of a square is the right half of the bottom edge
	rc := refcell.Hypercube(2)
	all := ProjectToAllSubfaces(rc, Single([]float64{0.5}))
	off := Subface(rc, 2, 1, refcell.DefaultCombinedOrientation, 1).Offset()
	assert.Equal(t, []float64{0.75, 0}, all.Points[off])
	assert.Panics(t, func() { ProjectToAllFaces(rc, Gauss(2, 1)) })
	assert.Panics(t, func() { Face(rc, 4, 1, 1) })
	assert.Panics(t, func() { Subface(rc, 0, 2, 1, 1) })
	assert.Equal(t, 0, Cell().Offset())
}

func TestImmersedSurface(t *testing.T) {
	s := NewImmersedSurface([][]float64{{0.5, 0.25}, {0.5, 0.75}}, []float64{0.5, 0.5},
		[][]float64{{1, 0}, {1, 0}})
	assert.Equal(t, 2, s.Size())
	assert.Equal(t, 2, s.Dim)
	assert.Panics(t, func() {
		NewImmersedSurface([][]float64{{0.5, 0.5}}, []float64{1}, [][]float64{{1, 1}})
	})
	assert.Panics(t, func() {
		NewImmersedSurface([][]float64{{0.5, 0.5}}, []float64{1}, nil)
	})
}
