package types

// Cell is the view of a mesh cell consumed by the geometry and DoF layers
type Cell interface {
	Key() CellKey
	Level() int
	IsActive() bool
	Diameter() float64
	Center() []float64
	NVertices() int
	NFaces() int
	// DirectionFlag is false for codimension-one cells whose orientation is reversed
	DirectionFlag() bool
	// CombinedFaceOrientation packs orientation, rotation and flip bits of a face
	CombinedFaceOrientation(face int) uint8
}

// VectorReader is the read capability required of coefficient storage. Both
// gonum's mat.Vector types and sparse vectors satisfy it.
type VectorReader interface {
	AtVec(i int) float64
	Len() int
}
