package mapping

import (
	"fmt"

	"github.com/notargets/fefield/fe"
)

// ComponentDoFs lists, per spatial direction, the local shape functions of the
// field element that contribute to that coordinate of the mapped point.
type ComponentDoFs struct {
	dofs         []int
	offsets      []int
	components   []int
	allPrimitive bool
}

func NewComponentDoFs(element fe.FiniteElement, mask fe.ComponentMask, spacedim int) (cd *ComponentDoFs) {
	if mask.Size() != element.NComponents() {
		panic(dimensionMismatch(mask.Size(), element.NComponents(), "mask size vs element components"))
	}
	if mask.NSelected() != spacedim {
		panic(dimensionMismatch(mask.NSelected(), spacedim, "selected components vs space dimension"))
	}
	cd = &ComponentDoFs{
		offsets:      make([]int, 1, spacedim+1),
		allPrimitive: true,
	}
	for comp := 0; comp < mask.Size(); comp++ {
		if !mask[comp] {
			continue
		}
		for i := 0; i < element.NDoFsPerCell(); i++ {
			if element.NonzeroComponents(i)[comp] {
				cd.dofs = append(cd.dofs, i)
				cd.allPrimitive = cd.allPrimitive && element.IsPrimitive(i)
			}
		}
		cd.offsets = append(cd.offsets, len(cd.dofs))
		cd.components = append(cd.components, comp)
	}
	return
}

func (cd *ComponentDoFs) SpaceDim() int { return len(cd.components) }

// Indices are the local shape functions of spatial direction d, ascending
func (cd *ComponentDoFs) Indices(d int) []int {
	if d < 0 || d >= cd.SpaceDim() {
		panic(indexRange(d, cd.SpaceDim(), "spatial direction"))
	}
	return cd.dofs[cd.offsets[d]:cd.offsets[d+1]]
}

// Component is the element component supplying spatial direction d
func (cd *ComponentDoFs) Component(d int) int {
	if d < 0 || d >= cd.SpaceDim() {
		panic(indexRange(d, cd.SpaceDim(), "spatial direction"))
	}
	return cd.components[d]
}

func (cd *ComponentDoFs) AllComponentsPrimitive() bool { return cd.allPrimitive }

func (cd *ComponentDoFs) String() string {
	return fmt.Sprintf("ComponentDoFs%v offsets=%v primitive=%v", cd.components, cd.offsets, cd.allPrimitive)
}
