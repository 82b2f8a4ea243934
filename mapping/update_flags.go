package mapping

import "strings"

// UpdateFlags selects the geometric quantities computed by the fill routines
type UpdateFlags uint32

const (
	UpdateQuadraturePoints UpdateFlags = 1 << iota
	UpdateJxWValues
	UpdateNormalVectors
	UpdateBoundaryForms
	UpdateJacobians
	UpdateInverseJacobians
	UpdateJacobianGrads
	UpdateJacobianPushedForwardGrads
	UpdateJacobian2ndDerivatives
	UpdateJacobianPushedForward2ndDerivatives
	UpdateJacobian3rdDerivatives
	UpdateJacobianPushedForward3rdDerivatives
	UpdateCovariantTransformation
	UpdateContravariantTransformation
	UpdateVolumeElements
	updateSentinel
)

const UpdateDefault UpdateFlags = 0

var flagNames = []string{
	"quadrature_points",
	"JxW_values",
	"normal_vectors",
	"boundary_forms",
	"jacobians",
	"inverse_jacobians",
	"jacobian_grads",
	"jacobian_pushed_forward_grads",
	"jacobian_2nd_derivatives",
	"jacobian_pushed_forward_2nd_derivatives",
	"jacobian_3rd_derivatives",
	"jacobian_pushed_forward_3rd_derivatives",
	"covariant_transformation",
	"contravariant_transformation",
	"volume_elements",
}

// Flags needing the shape gradient table
const gradientFlags = UpdateCovariantTransformation | UpdateContravariantTransformation |
	UpdateJxWValues | UpdateBoundaryForms | UpdateNormalVectors | UpdateJacobians |
	UpdateJacobianGrads | UpdateInverseJacobians

// derivativeFlags[k] are the flags needing the (k+2)-th shape derivative table
var derivativeFlags = [3]UpdateFlags{
	UpdateJacobianGrads | UpdateJacobianPushedForwardGrads,
	UpdateJacobian2ndDerivatives | UpdateJacobianPushedForward2ndDerivatives,
	UpdateJacobian3rdDerivatives | UpdateJacobianPushedForward3rdDerivatives,
}

func (f UpdateFlags) String() string {
	if f == UpdateDefault {
		return "default"
	}
	var names []string
	for i, name := range flagNames {
		if f&(1<<uint(i)) != 0 {
			names = append(names, name)
		}
	}
	return strings.Join(names, "|")
}

// ParseUpdateFlags reads flag names as printed by String, separately or joined with '|'
func ParseUpdateFlags(names ...string) (f UpdateFlags, ok bool) {
	ok = true
	for _, n := range names {
		for _, part := range strings.Split(n, "|") {
			part = strings.TrimSpace(part)
			if part == "" || part == "default" {
				continue
			}
			found := false
			for i, name := range flagNames {
				if strings.EqualFold(part, name) {
					f |= 1 << uint(i)
					found = true
					break
				}
			}
			ok = ok && found
		}
	}
	return
}

// RequiresUpdateFlags closes a request under the dependencies between the
// computed quantities. Five passes reach the fixed point.
func RequiresUpdateFlags(in UpdateFlags) (out UpdateFlags) {
	out = in
	for i := 0; i < 5; i++ {
		// Boundary forms are ignored in the interior of a cell
		if out&(UpdateJxWValues|UpdateNormalVectors) != 0 {
			out |= UpdateBoundaryForms
		}
		if out&(UpdateCovariantTransformation|UpdateJacobianGrads|UpdateJacobians|
			UpdateBoundaryForms|UpdateNormalVectors) != 0 {
			out |= UpdateContravariantTransformation
		}
		if out&(UpdateInverseJacobians|UpdateJacobianPushedForwardGrads|
			UpdateJacobianPushedForward2ndDerivatives|UpdateJacobianPushedForward3rdDerivatives) != 0 {
			out |= UpdateCovariantTransformation
		}
		// The Piola transform needs the determinant whenever the contravariant one is there
		if out&UpdateContravariantTransformation != 0 {
			out |= UpdateVolumeElements
		}
		if out&UpdateNormalVectors != 0 {
			out |= UpdateVolumeElements
		}
	}
	return
}
