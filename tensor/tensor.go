// Package tensor holds small dense tensors of arbitrary rank, used for the
// derivatives of a geometric mapping and for the fields it transforms.
package tensor

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Tensor stores its entries row-major: the last index varies fastest
type Tensor struct {
	Shape   []int
	Data    []float64
	strides []int
}

func New(shape ...int) (t *Tensor) {
	var (
		size = 1
	)
	t = &Tensor{
		Shape:   append([]int(nil), shape...),
		strides: make([]int, len(shape)),
	}
	for i := len(shape) - 1; i >= 0; i-- {
		if shape[i] < 0 {
			panic(fmt.Errorf("negative tensor extent %d in slot %d", shape[i], i))
		}
		t.strides[i] = size
		size *= shape[i]
	}
	t.Data = make([]float64, size)
	return
}

// NewFromData wraps data, which must hold exactly prod(shape) entries
func NewFromData(data []float64, shape ...int) (t *Tensor) {
	t = New(shape...)
	if len(data) != len(t.Data) {
		panic(fmt.Errorf("mismatch in allocation: tensor shape %v needs %d entries, have %d",
			shape, len(t.Data), len(data)))
	}
	copy(t.Data, data)
	return
}

func (t *Tensor) Rank() int { return len(t.Shape) }

func (t *Tensor) Len() int { return len(t.Data) }

func (t *Tensor) offset(idx []int) (ind int) {
	if len(idx) != len(t.Shape) {
		panic(fmt.Errorf("rank %d tensor accessed with %d indices", len(t.Shape), len(idx)))
	}
	for i, val := range idx {
		if val < 0 || val >= t.Shape[i] {
			panic(fmt.Errorf("index out of bounds: slot %d, index = %d, extent = %d", i, val, t.Shape[i]))
		}
		ind += val * t.strides[i]
	}
	return
}

func (t *Tensor) At(idx ...int) float64 { return t.Data[t.offset(idx)] }

func (t *Tensor) Set(val float64, idx ...int) { t.Data[t.offset(idx)] = val }

func (t *Tensor) AddAt(val float64, idx ...int) { t.Data[t.offset(idx)] += val }

func (t *Tensor) Zero() {
	for i := range t.Data {
		t.Data[i] = 0
	}
}

func (t *Tensor) Copy() (r *Tensor) {
	r = New(t.Shape...)
	copy(r.Data, t.Data)
	return
}

// Scale multiplies every entry by a, changes the receiver
func (t *Tensor) Scale(a float64) *Tensor {
	for i := range t.Data {
		t.Data[i] *= a
	}
	return t
}

// SameShape reports whether both tensors have identical extents
func (t *Tensor) SameShape(o *Tensor) bool {
	if len(t.Shape) != len(o.Shape) {
		return false
	}
	for i := range t.Shape {
		if t.Shape[i] != o.Shape[i] {
			return false
		}
	}
	return true
}

// Unravel converts a flat row-major position into a multi-index
func (t *Tensor) Unravel(ind int, idx []int) {
	for i := range t.Shape {
		idx[i] = ind / t.strides[i]
		ind -= idx[i] * t.strides[i]
	}
}

// PushForward contracts one slot with the rows of C: the slot of extent
// nc(C) is replaced by one of extent nr(C) with
//
//	out[.., j, ..] = Σ_J t[.., J, ..] C[j][J]
//
// all other slots are carried through unchanged.
func (t *Tensor) PushForward(slot int, C mat.Matrix) (r *Tensor) {
	var (
		nr, nc = C.Dims()
	)
	if slot < 0 || slot >= t.Rank() {
		panic(fmt.Errorf("push forward of slot %d on a rank %d tensor", slot, t.Rank()))
	}
	if t.Shape[slot] != nc {
		panic(fmt.Errorf("dimension mismatch: slot %d has extent %d, matrix has %d columns",
			slot, t.Shape[slot], nc))
	}
	shape := append([]int(nil), t.Shape...)
	shape[slot] = nr
	r = New(shape...)
	var (
		idx    = make([]int, r.Rank())
		stride = t.strides[slot]
	)
	for ind := range r.Data {
		r.Unravel(ind, idx)
		j := idx[slot]
		idx[slot] = 0
		base := t.offset(idx)
		var sum float64
		for J := 0; J < nc; J++ {
			sum += t.Data[base+J*stride] * C.At(j, J)
		}
		r.Data[ind] = sum
	}
	return
}

func (t *Tensor) String() string {
	var (
		sb strings.Builder
	)
	fmt.Fprintf(&sb, "Tensor%v[", t.Shape)
	for i, val := range t.Data {
		if i != 0 {
			sb.WriteString(" ")
		}
		fmt.Fprintf(&sb, "%g", val)
	}
	sb.WriteString("]")
	return sb.String()
}
