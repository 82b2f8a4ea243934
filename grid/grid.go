// Package grid is a structured, uniformly refined hyper-rectangle triangulation.
// Level l holds Cells[d]*2^l cells along direction d, the finest level is active.
// A grid with SpaceDim > Dim lies in the coordinate plane x_Dim = 0.
package grid

import (
	"fmt"
	"math"

	"github.com/notargets/fefield/refcell"
	"github.com/notargets/fefield/types"
)

type Grid struct {
	Dim, SpaceDim int
	Cells         []int // coarse cells per direction
	Levels        int
	Lower, Upper  []float64
	directionFlag bool
	orientation   uint8
	rc            refcell.ReferenceCell
}

func NewGrid(dim, spacedim int, cells []int, levels int, lower, upper []float64) (g *Grid, err error) {
	switch {
	case dim < 1 || dim > 3:
		err = fmt.Errorf("grid dimension must be 1, 2 or 3, have %d", dim)
	case spacedim < dim || spacedim > 3:
		err = fmt.Errorf("space dimension must be in [%d,3], have %d", dim, spacedim)
	case len(cells) != dim:
		err = fmt.Errorf("need %d cell counts, have %d", dim, len(cells))
	case len(lower) != dim || len(upper) != dim:
		err = fmt.Errorf("box corners need %d coordinates, have %d and %d", dim, len(lower), len(upper))
	case levels < 1:
		err = fmt.Errorf("a grid has at least one level, have %d", levels)
	}
	if err != nil {
		return
	}
	for d := 0; d < dim; d++ {
		if cells[d] < 1 {
			err = fmt.Errorf("cell count in direction %d must be positive, have %d", d, cells[d])
			return
		}
		if !(upper[d] > lower[d]) {
			err = fmt.Errorf("box is empty in direction %d: [%g,%g]", d, lower[d], upper[d])
			return
		}
	}
	g = &Grid{
		Dim:           dim,
		SpaceDim:      spacedim,
		Cells:         append([]int(nil), cells...),
		Levels:        levels,
		Lower:         append([]float64(nil), lower...),
		Upper:         append([]float64(nil), upper...),
		directionFlag: true,
		orientation:   refcell.DefaultCombinedOrientation,
		rc:            refcell.Hypercube(dim),
	}
	return
}

func (g *Grid) ReferenceCell() refcell.ReferenceCell { return g.rc }

// SetDirectionFlag reverses the orientation of all cells of a codimension one grid
func (g *Grid) SetDirectionFlag(flag bool) { g.directionFlag = flag }

// SetFaceOrientation sets the combined orientation reported for every face
func (g *Grid) SetFaceOrientation(combined uint8) {
	g.rc.OrientationIndex(combined)
	g.orientation = combined
}

func (g *Grid) checkLevel(level int) {
	if level < 0 || level >= g.Levels {
		panic(fmt.Errorf("level %d out of range [0,%d)", level, g.Levels))
	}
}

// LatticeSize is the number of cells per direction on a level
func (g *Grid) LatticeSize(level int) (n []int) {
	g.checkLevel(level)
	n = make([]int, g.Dim)
	for d := range n {
		n[d] = g.Cells[d] << level
	}
	return
}

func (g *Grid) NCells(level int) (total int) {
	total = 1
	for _, n := range g.LatticeSize(level) {
		total *= n
	}
	return
}

func (g *Grid) NActiveCells() int { return g.NCells(g.Levels - 1) }

// CellIJK splits a cell index on a level into lattice coordinates, x fastest
func (g *Grid) CellIJK(level, index int) (ijk []int) {
	n := g.LatticeSize(level)
	if index < 0 || index >= g.NCells(level) {
		panic(fmt.Errorf("cell %d out of range on level %d", index, level))
	}
	ijk = make([]int, g.Dim)
	for d := 0; d < g.Dim; d++ {
		ijk[d] = index % n[d]
		index /= n[d]
	}
	return
}

func (g *Grid) Cell(level, index int) (c *Cell) {
	c = &Cell{
		g:     g,
		level: level,
		index: index,
		ijk:   g.CellIJK(level, index),
	}
	c.vertices = c.computeVertices()
	return
}

func (g *Grid) CellsOnLevel(level int) (cells []*Cell) {
	cells = make([]*Cell, g.NCells(level))
	for i := range cells {
		cells[i] = g.Cell(level, i)
	}
	return
}

func (g *Grid) ActiveCells() []*Cell { return g.CellsOnLevel(g.Levels - 1) }

// Point embeds a point of the box into space
func (g *Grid) Point(x []float64) (p []float64) {
	p = make([]float64, g.SpaceDim)
	copy(p, x[:g.Dim])
	return
}

type Cell struct {
	g            *Grid
	level, index int
	ijk          []int
	vertices     [][]float64
}

var _ types.Cell = (*Cell)(nil)

func (c *Cell) Key() types.CellKey { return types.NewCellKey(c.level, c.index) }

func (c *Cell) Level() int { return c.level }

func (c *Cell) Index() int { return c.index }

func (c *Cell) IJK() []int { return c.ijk }

func (c *Cell) IsActive() bool { return c.level == c.g.Levels-1 }

func (c *Cell) NVertices() int { return c.g.rc.NVertices() }

func (c *Cell) NFaces() int { return c.g.rc.NFaces() }

func (c *Cell) DirectionFlag() bool { return c.g.directionFlag }

func (c *Cell) CombinedFaceOrientation(face int) uint8 {
	if face < 0 || face >= c.NFaces() {
		panic(fmt.Errorf("face %d out of range for cell %s", face, c.Key()))
	}
	return c.g.orientation
}

// UnitToReal maps a reference point onto the box cell
func (c *Cell) UnitToReal(x []float64) (p []float64) {
	var (
		n = c.g.LatticeSize(c.level)
		q = make([]float64, c.g.Dim)
	)
	for d := 0; d < c.g.Dim; d++ {
		h := (c.g.Upper[d] - c.g.Lower[d]) / float64(n[d])
		q[d] = c.g.Lower[d] + h*(float64(c.ijk[d])+x[d])
	}
	return c.g.Point(q)
}

func (c *Cell) computeVertices() (V [][]float64) {
	V = make([][]float64, c.NVertices())
	for v := range V {
		V[v] = c.UnitToReal(c.g.rc.Vertex(v))
	}
	return
}

func (c *Cell) Vertices() [][]float64 { return c.vertices }

// Diameter is the longest vertex to vertex distance
func (c *Cell) Diameter() (diam float64) {
	for i := range c.vertices {
		for j := i + 1; j < len(c.vertices); j++ {
			var s float64
			for d := range c.vertices[i] {
				dx := c.vertices[i][d] - c.vertices[j][d]
				s += dx * dx
			}
			diam = math.Max(diam, math.Sqrt(s))
		}
	}
	return
}

func (c *Cell) Center() (ctr []float64) {
	ctr = make([]float64, c.g.SpaceDim)
	for _, v := range c.vertices {
		for d := range ctr {
			ctr[d] += v[d] / float64(len(c.vertices))
		}
	}
	return
}

func (c *Cell) String() string {
	return fmt.Sprintf("cell %s ijk=%v", c.Key(), c.ijk)
}
