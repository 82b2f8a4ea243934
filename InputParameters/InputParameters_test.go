package InputParameters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	fileInput := []byte(`
Title: Warped box
Dim: 2
Degree: 2
Cells: [2, 3]
Lower: [0, 0]
Upper: [2, 3]
Flags:
  - quadrature_points
  - JxW_values|jacobians
Warp: 0.05
Perturbations:
  - DoF: 12
    Value: -0.01
Points:
  - [0.5, 0.5]
  - [1.9, 2.9]
`)
	var mp MappingParameters
	require.NoError(t, mp.Parse(fileInput))
	assert.Equal(t, "Warped box", mp.Title)
	assert.Equal(t, 2, mp.SpaceDim)
	assert.Equal(t, 1, mp.Levels)
	assert.Equal(t, 3, mp.QuadratureOrder)
	assert.Equal(t, []int{2, 3}, mp.Cells)
	assert.Equal(t, []string{"quadrature_points", "JxW_values|jacobians"}, mp.Flags)
	assert.Equal(t, []Perturbation{{DoF: 12, Value: -0.01}}, mp.Perturbations)
	assert.Equal(t, [][]float64{{0.5, 0.5}, {1.9, 2.9}}, mp.Points)
	mp.Print()
}

func TestDefaults(t *testing.T) {
	var mp MappingParameters
	require.NoError(t, mp.Parse([]byte("Dim: 3\nSpaceDim: 3\n")))
	assert.Equal(t, []int{1, 1, 1}, mp.Cells)
	assert.Equal(t, []float64{0, 0, 0}, mp.Lower)
	assert.Equal(t, []float64{1, 1, 1}, mp.Upper)
	assert.Equal(t, 1, mp.Degree)
	assert.Equal(t, 2, mp.QuadratureOrder)
}

func TestValidate(t *testing.T) {
	for _, input := range []string{
		"Dim: 4",
		"Dim: 2\nSpaceDim: 1",
		"Dim: 2\nCells: [1]",
		"Dim: 1\nPoints: [[0.5, 0.5]]",
		"Dim: 2\nLower: [0, 0]",
	} {
		var mp MappingParameters
		assert.Error(t, mp.Parse([]byte(input)), input)
	}
	var mp MappingParameters
	assert.Error(t, mp.Parse([]byte("Dim: [")))
}
