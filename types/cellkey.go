package types

import (
	"fmt"
	"math"
)

/*
CellKey is an always positive number that stores a cell's refinement level and its index within that level.
The level is stored in the upper 32 bits, the index in the lower 32 bits, so keys on the same level sort by index.
*/
type CellKey uint64

func NewCellKey(level, index int) (packed CellKey) {
	var (
		limit = math.MaxUint32
	)
	for _, val := range [2]int{level, index} {
		if val < 0 || val > limit {
			panic(fmt.Errorf("unable to pack level and index into a uint64, have %d and %d as inputs",
				level, index))
		}
	}
	packed = CellKey(uint64(index) + uint64(level)<<32)
	return
}

func (ck CellKey) Level() int {
	return int(ck >> 32)
}

func (ck CellKey) Index() int {
	return int(ck - (ck>>32)<<32)
}

func (ck CellKey) String() string {
	return fmt.Sprintf("%d.%d", ck.Level(), ck.Index())
}
