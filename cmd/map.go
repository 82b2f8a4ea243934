package cmd

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/notargets/fefield/mapping"
	"github.com/notargets/fefield/quadrature"
	"github.com/notargets/fefield/utils"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"
)

// MapCmd represents the map command
var MapCmd = &cobra.Command{
	Use:   "map",
	Short: "Evaluate the mapping at the quadrature points of a cell or face",
	Long: `
Builds the grid and Euler vector of the parameter file and prints the
quantities selected by its Flags at the Gauss points of one cell, and
optionally of one of its faces.

fefield map -I params.yaml -c 3 -f 1`,
	Run: func(cmd *cobra.Command, args []string) {
		fileName, _ := cmd.Flags().GetString("inputParametersFile")
		level, _ := cmd.Flags().GetInt("level")
		index, _ := cmd.Flags().GetInt("cell")
		face, _ := cmd.Flags().GetInt("face")
		ip, err := readParameters(fileName)
		if err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
		ip.Print()
		p, err := NewProblem(ip)
		if err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
		if err = RunMap(os.Stdout, p, level, index, face); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(MapCmd)
	MapCmd.Flags().StringP("inputParametersFile", "I", "", "YAML file with the grid, field and flags")
	MapCmd.Flags().IntP("level", "l", -1, "grid level of the cell, -1 for the active cells")
	MapCmd.Flags().IntP("cell", "c", 0, "index of the cell on its level")
	MapCmd.Flags().IntP("face", "f", -1, "face to evaluate in addition to the cell, -1 for none")
}

// RunMap fills cell values, and face values when face >= 0, and writes them as a table
func RunMap(w io.Writer, p *Problem, level, index, face int) (err error) {
	m, cell, err := p.cell(level, index)
	if err != nil {
		return
	}
	var (
		ip    = p.Params
		flags = p.Flags
		q     = quadrature.Gauss(ip.Dim, ip.QuadratureOrder)
		out   = mapping.NewOutputData(flags, q.Size(), ip.Dim, ip.SpaceDim)
	)
	fmt.Fprintf(w, "%s, flags %s, resolved %s\n", cell, flags, mapping.RequiresUpdateFlags(flags))
	similarity, err := m.FillFEValues(cell, q, m.GetData(flags, q), out)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "similarity %s\n", similarity)
	writeTable(w, q.Points, out)
	if face < 0 {
		return
	}
	if face >= cell.NFaces() {
		return fmt.Errorf("face %d out of range [0,%d)", face, cell.NFaces())
	}
	faceFlags := flags | mapping.UpdateNormalVectors | mapping.UpdateJxWValues
	qc := quadrature.Collection{quadrature.Gauss(ip.Dim-1, ip.QuadratureOrder)}
	fout := mapping.NewOutputData(faceFlags, qc[0].Size(), ip.Dim, ip.SpaceDim)
	if err = m.FillFEFaceValues(cell, face, qc, m.GetFaceData(faceFlags, qc), fout); err != nil {
		return
	}
	fmt.Fprintf(w, "face %d, measure %.10g\n", face, floats.Sum(fout.JxW))
	writeTable(w, qc[0].Points, fout)
	return
}

func writeTable(w io.Writer, points [][]float64, out *mapping.OutputData) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprint(tw, "q\tunit")
	if out.QuadraturePoints != nil {
		fmt.Fprint(tw, "\treal")
	}
	if out.JxW != nil {
		fmt.Fprint(tw, "\tJxW")
	}
	if out.Jacobians != nil {
		fmt.Fprint(tw, "\t|J|")
	}
	if out.NormalVectors != nil {
		fmt.Fprint(tw, "\tnormal")
	}
	fmt.Fprintln(tw)
	for i, x := range points {
		fmt.Fprintf(tw, "%d\t%.4f", i, x)
		if out.QuadraturePoints != nil {
			fmt.Fprintf(tw, "\t%.6f", out.QuadraturePoints[i])
		}
		if out.JxW != nil {
			fmt.Fprintf(tw, "\t%.6e", out.JxW[i])
		}
		if out.Jacobians != nil {
			fmt.Fprintf(tw, "\t%.6e", utils.VolumeElement(out.Jacobians[i]))
		}
		if out.NormalVectors != nil {
			fmt.Fprintf(tw, "\t%.6f", out.NormalVectors[i])
		}
		fmt.Fprintln(tw)
	}
	tw.Flush()
}
