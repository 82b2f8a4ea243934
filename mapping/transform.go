package mapping

import (
	"fmt"

	"github.com/notargets/fefield/tensor"
	"gonum.org/v1/gonum/floats"
)

// MappingKind names how a tensor field is transformed from the reference cell
type MappingKind uint8

const (
	MappingCovariant MappingKind = iota
	MappingContravariant
	MappingPiola
	MappingCovariantGradient
	MappingContravariantGradient
	MappingPiolaGradient
	MappingCovariantHessian
)

func (k MappingKind) String() string {
	names := [...]string{"covariant", "contravariant", "piola", "covariant_gradient",
		"contravariant_gradient", "piola_gradient", "covariant_hessian"}
	if int(k) >= len(names) {
		return fmt.Sprintf("MappingKind(%d)", uint8(k))
	}
	return names[k]
}

func unsupportedKind(k MappingKind, what string) error {
	return fmt.Errorf("%w: %s transformation of %s", ErrNotImplemented, k, what)
}

func requireFlags(data *InternalData, flags UpdateFlags, k MappingKind) {
	if data.updateEach&flags != flags {
		panic(fmt.Errorf("%w: %s needs %s in the cache, have %s", ErrUninitializedField, k, flags, data.updateEach))
	}
}

func checkTransformInput(n int, data *InternalData) {
	if n != data.nPoints {
		panic(dimensionMismatch(n, data.nPoints, "transform inputs vs cached points"))
	}
}

// TransformVectors maps reference vectors, one per point of the last filled
// cell, face or subface
func (m *FieldMapping) TransformVectors(in [][]float64, kind MappingKind, handle InternalDataBase) (out [][]float64) {
	data := m.internalData(handle)
	checkTransformInput(len(in), data)
	out = make([][]float64, len(in))
	switch kind {
	case MappingCovariant:
		requireFlags(data, UpdateCovariantTransformation, kind)
		for p, x := range in {
			out[p] = tensor.Apply(data.covariant[p], x)
		}
	case MappingContravariant:
		requireFlags(data, UpdateContravariantTransformation, kind)
		for p, x := range in {
			out[p] = tensor.Apply(data.contravariant[p], x)
		}
	case MappingPiola:
		requireFlags(data, UpdateContravariantTransformation|UpdateVolumeElements, kind)
		for p, x := range in {
			out[p] = tensor.Apply(data.contravariant[p], x)
			floats.Scale(1/data.volumeElements[p], out[p])
		}
	default:
		panic(unsupportedKind(kind, "vectors"))
	}
	return
}

// TransformDifferentialForms maps derivative forms of shape spacedim x dim to
// spacedim x spacedim tensors
func (m *FieldMapping) TransformDifferentialForms(in []*tensor.Tensor, kind MappingKind,
	handle InternalDataBase) (out []*tensor.Tensor) {
	data := m.internalData(handle)
	checkTransformInput(len(in), data)
	if kind != MappingCovariant {
		panic(unsupportedKind(kind, "differential forms"))
	}
	requireFlags(data, UpdateCovariantTransformation, kind)
	out = make([]*tensor.Tensor, len(in))
	for p, t := range in {
		out[p] = t.PushForward(1, data.covariant[p])
	}
	return
}

// TransformRank2 maps rank two tensors, no kind is available for this field type
func (m *FieldMapping) TransformRank2(in []*tensor.Tensor, kind MappingKind, handle InternalDataBase) []*tensor.Tensor {
	m.internalData(handle)
	panic(unsupportedKind(kind, "rank 2 tensors"))
}

// TransformDerivativeForms2 maps second derivative forms of shape
// spacedim x dim x dim with the covariant form on both reference slots
func (m *FieldMapping) TransformDerivativeForms2(in []*tensor.Tensor, kind MappingKind,
	handle InternalDataBase) (out []*tensor.Tensor) {
	data := m.internalData(handle)
	checkTransformInput(len(in), data)
	if kind != MappingCovariantGradient {
		panic(unsupportedKind(kind, "second derivative forms"))
	}
	requireFlags(data, UpdateCovariantTransformation, kind)
	out = make([]*tensor.Tensor, len(in))
	for p, t := range in {
		out[p] = pushForward(t, data.covariant[p])
	}
	return
}

// TransformRank3 maps rank three tensors, no kind is available for this field type
func (m *FieldMapping) TransformRank3(in []*tensor.Tensor, kind MappingKind, handle InternalDataBase) []*tensor.Tensor {
	m.internalData(handle)
	panic(unsupportedKind(kind, "rank 3 tensors"))
}
