package skindepth

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
)

// CSVHeader is the first row written by WriteCSV
var CSVHeader = []string{"omega", "kappa_real", "delta_const", "delta_drude"}

// WriteCSV writes one row per sample
func WriteCSV(w io.Writer, curves *Curves) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for i := 0; i < curves.Len(); i++ {
		s := curves.At(i)
		row := []string{
			formatFloat(s.Omega),
			formatFloat(s.KappaReal),
			formatFloat(s.DeltaConst),
			formatFloat(s.DeltaDrude),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the curves as a single JSON document
func WriteJSON(w io.Writer, curves *Curves) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(curves); err != nil {
		return fmt.Errorf("failed to encode curves: %w", err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// CrossoverRatio is where the Drude depth is sqrt(2) times the constant depth,
// which happens at omega == gamma.
const CrossoverRatio = math.Sqrt2

// Report summarizes an evaluation for humans
type Report struct {
	Constants Constants `json:"constants" yaml:"constants"`
	Sweep     Sweep     `json:"sweep" yaml:"sweep"`
	First     Sample    `json:"first" yaml:"first"`
	Last      Sample    `json:"last" yaml:"last"`
	Crossover *float64  `json:"crossover_omega,omitempty" yaml:"crossover_omega,omitempty"`
}

// Summary reports the sweep endpoints and the Drude crossover frequency
func Summary(curves *Curves) Report {
	r := Report{
		Constants: curves.Constants,
		Sweep:     curves.Sweep,
	}
	if curves.Len() == 0 {
		return r
	}
	r.First = curves.At(0)
	r.Last = curves.At(curves.Len() - 1)
	if w, ok := curves.Crossover(CrossoverRatio); ok {
		r.Crossover = &w
	}
	return r
}
