package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/notargets/fefield/mapping"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"
)

// InvertCmd represents the invert command
var InvertCmd = &cobra.Command{
	Use:   "invert",
	Short: "Locate physical points in the mapped grid",
	Long: `
Finds, for each of the Points of the parameter file, the first active cell
containing it and the reference coordinates of the point in that cell.

fefield invert -I params.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		fileName, _ := cmd.Flags().GetString("inputParametersFile")
		ip, err := readParameters(fileName)
		if err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
		p, err := NewProblem(ip)
		if err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
		RunInvert(os.Stdout, p)
	},
}

func init() {
	rootCmd.AddCommand(InvertCmd)
	InvertCmd.Flags().StringP("inputParametersFile", "I", "", "YAML file with the grid, field and points")
}

// Location is where a physical point was found
type Location struct {
	Point    []float64
	Cell     string
	Unit     []float64
	Residual float64
	Err      error
}

// Locate tries the active cells in order, the first cell whose inverse lands
// inside the reference cell wins
func Locate(p *Problem, point []float64) (loc Location) {
	const tol = 1.e-10
	loc.Point = point
	rc := p.Grid.ReferenceCell()
	for _, cell := range p.Grid.ActiveCells() {
		x, err := p.Mapping.TransformRealToUnitCell(cell, point)
		if err != nil {
			if !errors.Is(err, mapping.ErrTransformationFailed) {
				loc.Err = err
				return
			}
			continue
		}
		if !rc.Contains(x, tol) {
			continue
		}
		r := p.Mapping.TransformUnitToRealCell(cell, x)
		floats.Sub(r, point)
		loc.Cell, loc.Unit, loc.Residual = cell.Key().String(), x, floats.Norm(r, 2)
		return
	}
	loc.Err = fmt.Errorf("%w: point %v is in no cell", mapping.ErrTransformationFailed, point)
	return
}

func RunInvert(w io.Writer, p *Problem) (locs []Location) {
	for _, point := range p.Params.Points {
		loc := Locate(p, point)
		locs = append(locs, loc)
		if loc.Err != nil {
			fmt.Fprintf(w, "%v: %v\n", point, loc.Err)
			continue
		}
		fmt.Fprintf(w, "%v: cell %s, unit %.8f, residual %.3e\n", point, loc.Cell, loc.Unit, loc.Residual)
	}
	return
}
