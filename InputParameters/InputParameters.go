package InputParameters

import (
	"fmt"
	"strings"

	"github.com/ghodss/yaml"
)

type Perturbation struct {
	DoF   int     `json:"DoF"`
	Value float64 `json:"Value"`
}

// Parameters obtained from the YAML input file. The YAML is converted to JSON
// before decoding, so the json tags name the keys.
type MappingParameters struct {
	Title           string         `json:"Title"`
	Dim             int            `json:"Dim"`
	SpaceDim        int            `json:"SpaceDim"` // SpaceDim > Dim embeds the grid as a surface
	Degree          int            `json:"Degree"`
	Cells           []int          `json:"Cells"` // coarse cells per direction
	Levels          int            `json:"Levels"`
	Lower           []float64      `json:"Lower"`
	Upper           []float64      `json:"Upper"`
	QuadratureOrder int            `json:"QuadratureOrder"` // Gauss points per direction
	Flags           []string       `json:"Flags"`
	Warp            float64        `json:"Warp"`
	Perturbations   []Perturbation `json:"Perturbations"`
	Points          [][]float64    `json:"Points"`
}

func (mp *MappingParameters) Parse(data []byte) (err error) {
	if err = yaml.Unmarshal(data, mp); err != nil {
		return
	}
	mp.setDefaults()
	return mp.Validate()
}

func (mp *MappingParameters) setDefaults() {
	if mp.SpaceDim == 0 {
		mp.SpaceDim = mp.Dim
	}
	if mp.Degree == 0 {
		mp.Degree = 1
	}
	if mp.Levels == 0 {
		mp.Levels = 1
	}
	if mp.QuadratureOrder == 0 {
		mp.QuadratureOrder = mp.Degree + 1
	}
	if len(mp.Cells) == 0 {
		for d := 0; d < mp.Dim; d++ {
			mp.Cells = append(mp.Cells, 1)
		}
	}
	if len(mp.Lower) == 0 && len(mp.Upper) == 0 {
		mp.Lower = make([]float64, mp.Dim)
		for d := 0; d < mp.Dim; d++ {
			mp.Upper = append(mp.Upper, 1)
		}
	}
}

func (mp *MappingParameters) Validate() error {
	switch {
	case mp.Dim < 1 || mp.Dim > 3:
		return fmt.Errorf("Dim must be 1, 2 or 3, have %d", mp.Dim)
	case mp.SpaceDim < mp.Dim || mp.SpaceDim > 3:
		return fmt.Errorf("SpaceDim must be in [%d,3], have %d", mp.Dim, mp.SpaceDim)
	case mp.Degree < 1:
		return fmt.Errorf("Degree must be positive, have %d", mp.Degree)
	case mp.QuadratureOrder < 1:
		return fmt.Errorf("QuadratureOrder must be positive, have %d", mp.QuadratureOrder)
	case len(mp.Cells) != mp.Dim:
		return fmt.Errorf("Cells needs %d entries, have %d", mp.Dim, len(mp.Cells))
	case len(mp.Lower) != mp.Dim || len(mp.Upper) != mp.Dim:
		return fmt.Errorf("Lower and Upper need %d entries, have %d and %d", mp.Dim, len(mp.Lower), len(mp.Upper))
	}
	for i, p := range mp.Points {
		if len(p) != mp.SpaceDim {
			return fmt.Errorf("point %d has %d coordinates, SpaceDim is %d", i, len(p), mp.SpaceDim)
		}
	}
	return nil
}

func (mp *MappingParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", mp.Title)
	fmt.Printf("[%d/%d]\t\t\t= Dim/SpaceDim\n", mp.Dim, mp.SpaceDim)
	fmt.Printf("[%d]\t\t\t\t= Polynomial Degree\n", mp.Degree)
	fmt.Printf("%v x %d levels\t= Cells\n", mp.Cells, mp.Levels)
	fmt.Printf("%v - %v\t= Box\n", mp.Lower, mp.Upper)
	fmt.Printf("[%d]\t\t\t\t= Quadrature Order\n", mp.QuadratureOrder)
	fmt.Printf("[%s]\t= Flags\n", strings.Join(mp.Flags, "|"))
	fmt.Printf("%8.5f\t\t= Warp\n", mp.Warp)
	for _, p := range mp.Perturbations {
		fmt.Printf("Perturbation[%d] = %g\n", p.DoF, p.Value)
	}
	for i, p := range mp.Points {
		fmt.Printf("Points[%d] = %v\n", i, p)
	}
}
