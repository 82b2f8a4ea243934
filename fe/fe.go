// Package fe provides the shape function evaluators consumed by the field
// mapping: a scalar tensor product Lagrange element and systems of copies of it.
package fe

import (
	"fmt"

	"github.com/notargets/fefield/refcell"
)

// MaxDerivativeOrder is the highest shape function derivative an element evaluates
const MaxDerivativeOrder = 4

type FiniteElement interface {
	Name() string
	Dim() int
	Degree() int
	NDoFsPerCell() int
	NComponents() int
	ReferenceCell() refcell.ReferenceCell
	// NonzeroComponents marks the vector components shape function i is nonzero in
	NonzeroComponents(i int) ComponentMask
	// IsPrimitive is true when shape function i is nonzero in exactly one component
	IsPrimitive(i int) bool
	// ShapeDerivative returns the order-th reference derivative of shape function i
	// flattened row-major into dim^order entries. Order zero is the value.
	ShapeDerivative(i, order int, p []float64) []float64
	ShapeValueComponent(i int, p []float64, component int) float64
	UnitSupportPoint(i int) []float64
	// SystemToComponent is the vector component of primitive shape function i and
	// its index within that component's base element
	SystemToComponent(i int) (component, base int)
}

type ComponentMask []bool

func NewComponentMask(n int, value bool) (cm ComponentMask) {
	cm = make(ComponentMask, n)
	for i := range cm {
		cm[i] = value
	}
	return
}

func (cm ComponentMask) Size() int { return len(cm) }

func (cm ComponentMask) NSelected() (n int) {
	for _, b := range cm {
		if b {
			n++
		}
	}
	return
}

func (cm ComponentMask) Selected(c int) bool {
	if c < 0 || c >= len(cm) {
		panic(fmt.Errorf("component %d out of range for a mask of size %d", c, len(cm)))
	}
	return cm[c]
}

// FirstSelected is the lowest selected component, -1 if none
func (cm ComponentMask) FirstSelected() int {
	for c, b := range cm {
		if b {
			return c
		}
	}
	return -1
}

func (cm ComponentMask) String() (s string) {
	s = "["
	for c, b := range cm {
		if c > 0 {
			s += ","
		}
		if b {
			s += "true"
		} else {
			s += "false"
		}
	}
	return s + "]"
}

func checkShapeIndex(fe FiniteElement, i int) {
	if i < 0 || i >= fe.NDoFsPerCell() {
		panic(fmt.Errorf("shape function %d out of range for %s with %d dofs", i, fe.Name(), fe.NDoFsPerCell()))
	}
}

func checkOrder(order int) {
	if order < 0 || order > MaxDerivativeOrder {
		panic(fmt.Errorf("derivative order %d is out of range [0,%d]", order, MaxDerivativeOrder))
	}
}
