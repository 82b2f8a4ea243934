package quadrature

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// JacobiGQ returns the n+1 point Gauss rule on [-1,1] for the weight
// (1-x)^alpha (1+x)^beta. Points are the eigenvalues of the symmetric Jacobi
// recurrence matrix, weights are mu0 times the squared first eigenvector entries.
func JacobiGQ(alpha, beta float64, n int) (x, w []float64) {
	var (
		ab  = alpha + beta
		mu0 = jacobiMoment(alpha, beta)
	)
	if n == 0 {
		return []float64{(beta - alpha) / (ab + 2)}, []float64{mu0}
	}
	T := mat.NewSymDense(n+1, nil)
	for i := 0; i <= n; i++ {
		s := 2*float64(i) + ab
		if i == 0 {
			// (beta^2-alpha^2)/(s(s+2)) with the common factor alpha+beta removed
			T.SetSym(0, 0, (beta-alpha)/(ab+2))
		} else {
			T.SetSym(i, i, (beta*beta-alpha*alpha)/(s*(s+2)))
		}
		if i == n {
			break
		}
		k := float64(i + 1)
		T.SetSym(i, i+1, 2/(s+2)*math.Sqrt(k*(k+ab)*(k+alpha)*(k+beta)/((s+1)*(s+3))))
	}

	var eig mat.EigenSym
	if !eig.Factorize(T, true) {
		panic("eigen decomposition of the Jacobi matrix failed")
	}
	x = eig.Values(nil)
	var V mat.Dense
	eig.VectorsTo(&V)
	w = make([]float64, n+1)
	for i := range w {
		v := V.At(0, i)
		w[i] = mu0 * v * v
	}
	return
}

// JacobiGL returns the n+1 Gauss-Lobatto points on [-1,1], endpoints included
func JacobiGL(alpha, beta float64, n int) (x []float64) {
	x = make([]float64, n+1)
	if n == 0 {
		return
	}
	x[0], x[n] = -1, 1
	if n > 1 {
		interior, _ := JacobiGQ(alpha+1, beta+1, n-2)
		copy(x[1:n], interior)
	}
	return
}

// jacobiMoment is the integral of the Jacobi weight over [-1,1]
func jacobiMoment(alpha, beta float64) float64 {
	a, b := alpha+1, beta+1
	return math.Pow(2, a+b-1) * math.Gamma(a) * math.Gamma(b) / math.Gamma(a+b)
}
