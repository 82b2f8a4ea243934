// Package dofs numbers the degrees of freedom of a Lagrange element, or a
// system of them, on a structured grid. Every level carries its own lattice
// numbering; the active numbering is that of the finest level.
package dofs

import (
	"fmt"

	"github.com/notargets/fefield/fe"
	"github.com/notargets/fefield/grid"
	"github.com/notargets/fefield/types"
	"github.com/notargets/fefield/utils"
)

type Handler struct {
	grid      *grid.Grid
	fe        fe.FiniteElement
	levelDoFs bool
}

func NewHandler(g *grid.Grid, element fe.FiniteElement) *Handler {
	if element.Dim() != g.Dim {
		panic(fmt.Errorf("element of dimension %d does not fit a grid of dimension %d", element.Dim(), g.Dim))
	}
	return &Handler{grid: g, fe: element}
}

// DistributeMGDoFs enables the per level numbering used by multigrid field vectors
func (h *Handler) DistributeMGDoFs() { h.levelDoFs = true }

func (h *Handler) HasLevelDoFs() bool { return h.levelDoFs }

func (h *Handler) FE() fe.FiniteElement { return h.fe }

func (h *Handler) Grid() *grid.Grid { return h.grid }

func (h *Handler) SpaceDim() int { return h.grid.SpaceDim }

func (h *Handler) NLevels() int { return h.grid.Levels }

func (h *Handler) nodesPerDirection(level int) (n []int) {
	n = h.grid.LatticeSize(level)
	for d := range n {
		n[d] = n[d]*h.fe.Degree() + 1
	}
	return
}

func (h *Handler) nNodes(level int) (total int) {
	total = 1
	for _, n := range h.nodesPerDirection(level) {
		total *= n
	}
	return
}

func (h *Handler) NDoFs() int { return h.NLevelDoFs(h.grid.Levels - 1) }

func (h *Handler) NLevelDoFs(level int) int { return h.nNodes(level) * h.fe.NComponents() }

// ActiveDoFIndices are the global indices of the local dofs of an active cell
func (h *Handler) ActiveDoFIndices(cell types.Cell) []int {
	if !cell.IsActive() {
		panic(fmt.Errorf("cell %s is not active", cell.Key()))
	}
	return h.dofIndices(cell.Key())
}

// LevelDoFIndices are the indices of the local dofs within the cell's level numbering
func (h *Handler) LevelDoFIndices(cell types.Cell) []int {
	if !h.levelDoFs {
		panic(fmt.Errorf("level dofs have not been distributed"))
	}
	return h.dofIndices(cell.Key())
}

func (h *Handler) dofIndices(key types.CellKey) (ind []int) {
	var (
		level  = key.Level()
		ijk    = h.grid.CellIJK(level, key.Index())
		nodes  = h.nodesPerDirection(level)
		p      = h.fe.Degree()
		ncomp  = h.fe.NComponents()
		dim    = h.grid.Dim
		nLocal = h.fe.NDoFsPerCell()
	)
	ind = make([]int, nLocal)
	for i := 0; i < nLocal; i++ {
		comp, base := h.fe.SystemToComponent(i)
		var node, stride int = 0, 1
		for d := 0; d < dim; d++ {
			local := (base / utils.IPOW(p+1, d)) % (p + 1)
			node += (ijk[d]*p + local) * stride
			stride *= nodes[d]
		}
		ind[i] = node*ncomp + comp
	}
	return
}
