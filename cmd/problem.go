package cmd

import (
	"fmt"
	"io/ioutil"
	"math"

	"github.com/notargets/fefield/InputParameters"
	"github.com/notargets/fefield/dofs"
	"github.com/notargets/fefield/fe"
	"github.com/notargets/fefield/grid"
	"github.com/notargets/fefield/mapping"
	"github.com/notargets/fefield/types"
)

// Problem is the grid, field and mappings described by a parameter file
type Problem struct {
	Params  *InputParameters.MappingParameters
	Grid    *grid.Grid
	Handler *dofs.Handler
	Mapping *mapping.FieldMapping
	// LevelMapping maps the cells of every level; set when the grid has more than one level
	LevelMapping *mapping.FieldMapping
	Flags        mapping.UpdateFlags
}

func readParameters(fileName string) (ip *InputParameters.MappingParameters, err error) {
	var data []byte
	if len(fileName) == 0 {
		err = fmt.Errorf("must supply an input parameters file (-I, --inputParametersFile), example:%s", exampleFile)
		return
	}
	if data, err = ioutil.ReadFile(fileName); err != nil {
		return
	}
	ip = &InputParameters.MappingParameters{}
	if err = ip.Parse(data); err != nil {
		return nil, fmt.Errorf("%s: %w", fileName, err)
	}
	return
}

const exampleFile = `
########################################
Title: "Warped box"
Dim: 2
Degree: 2
Cells: [2, 2]
Flags: [quadrature_points, JxW_values, jacobians]
Warp: 0.05
Points:
  - [0.3, 0.7]
########################################
`

// warpField is the identity plus a bump vanishing on the box boundary. On a
// surface grid the bump lifts the surface out of its plane.
func warpField(ip *InputParameters.MappingParameters) dofs.Field {
	return func(x []float64) (y []float64) {
		y = dofs.Identity(x)
		if ip.Warp == 0 {
			return
		}
		bump := ip.Warp
		for d := 0; d < ip.Dim; d++ {
			bump *= math.Sin(math.Pi * (x[d] - ip.Lower[d]) / (ip.Upper[d] - ip.Lower[d]))
		}
		if ip.SpaceDim > ip.Dim {
			y[ip.Dim] += bump
			return
		}
		for d := range y {
			y[d] += bump
		}
		return
	}
}

func NewProblem(ip *InputParameters.MappingParameters) (p *Problem, err error) {
	var ok bool
	p = &Problem{Params: ip}
	if p.Flags, ok = mapping.ParseUpdateFlags(ip.Flags...); !ok {
		return nil, fmt.Errorf("unknown update flag in %v", ip.Flags)
	}
	if p.Grid, err = grid.NewGrid(ip.Dim, ip.SpaceDim, ip.Cells, ip.Levels, ip.Lower, ip.Upper); err != nil {
		return nil, err
	}
	element := fe.NewSystem(fe.NewFEQ(ip.Dim, ip.Degree), ip.SpaceDim)
	p.Handler = dofs.NewHandler(p.Grid, element)

	var euler types.VectorReader = dofs.Interpolate(p.Handler, warpField(ip))
	if len(ip.Perturbations) != 0 {
		var (
			ind    = make([]int, len(ip.Perturbations))
			values = make([]float64, len(ip.Perturbations))
		)
		for i, pt := range ip.Perturbations {
			if pt.DoF < 0 || pt.DoF >= euler.Len() {
				return nil, fmt.Errorf("perturbed dof %d out of range [0,%d)", pt.DoF, euler.Len())
			}
			ind[i], values[i] = pt.DoF, pt.Value
		}
		euler = dofs.NewSumVector(euler, dofs.Perturbation(euler.Len(), ind, values))
	}
	p.Mapping = mapping.NewFieldMapping(p.Handler, euler, nil)
	if ip.Levels > 1 {
		p.Handler.DistributeMGDoFs()
		p.LevelMapping = mapping.NewFieldMappingLevels(p.Handler, dofs.InterpolateLevels(p.Handler, warpField(ip)), nil)
	}
	return
}

// cell returns the mapping and cell for a level and index, level -1 being the active cells
func (p *Problem) cell(level, index int) (m *mapping.FieldMapping, c *grid.Cell, err error) {
	m = p.Mapping
	if level < 0 {
		level = p.Grid.Levels - 1
	}
	if level >= p.Grid.Levels {
		return nil, nil, fmt.Errorf("level %d out of range [0,%d)", level, p.Grid.Levels)
	}
	if level != p.Grid.Levels-1 {
		if p.LevelMapping == nil {
			return nil, nil, fmt.Errorf("level %d needs a grid with more than one level", level)
		}
		m = p.LevelMapping
	}
	if index < 0 || index >= p.Grid.NCells(level) {
		return nil, nil, fmt.Errorf("cell %d out of range [0,%d) on level %d", index, p.Grid.NCells(level), level)
	}
	return m, p.Grid.Cell(level, index), nil
}
