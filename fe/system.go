package fe

import (
	"fmt"

	"github.com/notargets/fefield/refcell"
)

// System is n copies of a scalar base element forming a vector valued element.
// Local shape function i belongs to base shape function i/n and component i%n.
type System struct {
	base FiniteElement
	n    int
}

func NewSystem(base FiniteElement, n int) *System {
	if base.NComponents() != 1 {
		panic(fmt.Errorf("a system is built from scalar elements, %s has %d components",
			base.Name(), base.NComponents()))
	}
	if n < 1 {
		panic(fmt.Errorf("a system needs at least one copy, have %d", n))
	}
	return &System{base: base, n: n}
}

func (s *System) Base() FiniteElement { return s.base }

func (s *System) Name() string {
	return fmt.Sprintf("FESystem<%d>[%s^%d]", s.base.Dim(), s.base.Name(), s.n)
}

func (s *System) Dim() int { return s.base.Dim() }

func (s *System) Degree() int { return s.base.Degree() }

func (s *System) NDoFsPerCell() int { return s.n * s.base.NDoFsPerCell() }

func (s *System) NComponents() int { return s.n }

func (s *System) ReferenceCell() refcell.ReferenceCell { return s.base.ReferenceCell() }

func (s *System) NonzeroComponents(i int) (cm ComponentMask) {
	checkShapeIndex(s, i)
	cm = NewComponentMask(s.n, false)
	cm[i%s.n] = true
	return
}

func (s *System) IsPrimitive(i int) bool {
	checkShapeIndex(s, i)
	return true
}

func (s *System) SystemToComponent(i int) (component, base int) {
	checkShapeIndex(s, i)
	return i % s.n, i / s.n
}

func (s *System) UnitSupportPoint(i int) []float64 {
	checkShapeIndex(s, i)
	return s.base.UnitSupportPoint(i / s.n)
}

func (s *System) ShapeDerivative(i, order int, p []float64) []float64 {
	checkShapeIndex(s, i)
	return s.base.ShapeDerivative(i/s.n, order, p)
}

func (s *System) ShapeValueComponent(i int, p []float64, component int) float64 {
	checkShapeIndex(s, i)
	if component < 0 || component >= s.n {
		panic(fmt.Errorf("component %d out of range for %s", component, s.Name()))
	}
	if component != i%s.n {
		return 0
	}
	return s.base.ShapeDerivative(i/s.n, 0, p)[0]
}
