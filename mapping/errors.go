package mapping

import (
	"errors"
	"fmt"
)

// Precondition violations panic with one of these wrapped in context; the
// numerical conditions are returned as errors.
var (
	ErrDimensionMismatch    = errors.New("dimension mismatch")
	ErrIndexRange           = errors.New("index out of range")
	ErrInactiveCell         = errors.New("cell is not active and the mapping has no level data")
	ErrNotImplemented       = errors.New("not implemented")
	ErrUninitializedField   = errors.New("access to a quantity that was not requested in the update flags")
	ErrForeignInternalData  = errors.New("internal data was not created by this mapping")
	ErrDistortedCell        = errors.New("distorted mapped cell")
	ErrTransformationFailed = errors.New("transformation of point failed")
)

// DistortedCellError reports a volume element below the distortion threshold
type DistortedCellError struct {
	Center      []float64
	Determinant float64
	Point       int
}

func (e *DistortedCellError) Error() string {
	return fmt.Sprintf("%v: the cell with center %v has determinant %g at quadrature point %d",
		ErrDistortedCell, e.Center, e.Determinant, e.Point)
}

func (e *DistortedCellError) Is(target error) bool { return target == ErrDistortedCell }

func dimensionMismatch(a, b int, what string) error {
	return fmt.Errorf("%w: %s %d != %d", ErrDimensionMismatch, what, a, b)
}

func indexRange(i, n int, what string) error {
	return fmt.Errorf("%w: %s %d not in [0,%d)", ErrIndexRange, what, i, n)
}
