package store

import (
	"encoding/json"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/san-kum/odelab/internal/dynamo"
)

// Float encodes NaN and ±Inf as null. Bifurcation diagrams use NaN for
// "no equilibrium at this sample", which encoding/json rejects.
type Float float64

func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, v, 'g', -1, 64), nil
}

func (f *Float) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = Float(math.NaN())
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = Float(v)
	return nil
}

func floats(vs []float64) []Float {
	if vs == nil {
		return nil
	}
	out := make([]Float, len(vs))
	for i, v := range vs {
		out[i] = Float(v)
	}
	return out
}

type Equilibrium struct {
	State      []Float             `json:"state"`
	Class      string              `json:"class"`
	Eigen      *dynamo.Eigenvalues `json:"eigen,omitempty"`
	Derivative Float               `json:"derivative"`
}

type Diagram struct {
	Params   []Float `json:"params"`
	Stable   []Float `json:"stable"`
	Unstable []Float `json:"unstable"`
}

type Conserved struct {
	Initial            Float   `json:"initial"`
	MaxDrift           Float   `json:"max_drift"`
	FinalRelativeDrift Float   `json:"final_relative_drift"`
	Values             []Float `json:"values"`
	Drift              []Float `json:"drift"`
}

type ExportData struct {
	ID          string           `json:"id"`
	Exercise    string           `json:"exercise"`
	Steps       []dynamo.Step    `json:"steps"`
	Times       []Float          `json:"times,omitempty"`
	States      [][]Float        `json:"states,omitempty"`
	Halted      bool             `json:"halted,omitempty"`
	Equilibria  []Equilibrium    `json:"equilibria,omitempty"`
	Bifurcation *Diagram         `json:"bifurcation,omitempty"`
	Conserved   *Conserved       `json:"conserved,omitempty"`
	Info        map[string]Float `json:"info,omitempty"`
}

func NewExportData(res *dynamo.SimulationResult) *ExportData {
	data := &ExportData{
		ID:       res.ID,
		Exercise: res.Exercise,
		Steps:    res.Steps,
		Info:     infoFloats(res.Info),
	}

	if tr := res.Trajectory; tr != nil {
		data.Times = floats(tr.Times)
		data.States = make([][]Float, len(tr.States))
		for i, s := range tr.States {
			data.States[i] = floats(s)
		}
		data.Halted = tr.Halted
	}

	for _, p := range res.Equilibria {
		data.Equilibria = append(data.Equilibria, Equilibrium{
			State:      floats(p.State),
			Class:      string(p.Class),
			Eigen:      p.Eigen,
			Derivative: Float(p.Derivative),
		})
	}

	if d := res.Bifurcation; d != nil {
		data.Bifurcation = &Diagram{
			Params:   floats(d.Params),
			Stable:   floats(d.Stable),
			Unstable: floats(d.Unstable),
		}
	}

	if c := res.Conserved; c != nil {
		data.Conserved = &Conserved{
			Initial:            Float(c.Initial),
			MaxDrift:           Float(c.MaxDrift),
			FinalRelativeDrift: Float(c.FinalRelativeDrift),
			Values:             floats(c.Values),
			Drift:              floats(c.Drift),
		}
	}

	return data
}

func infoFloats(info map[string]float64) map[string]Float {
	if info == nil {
		return nil
	}
	out := make(map[string]Float, len(info))
	for k, v := range info {
		out[k] = Float(v)
	}
	return out
}

// WriteJSON encodes res as indented JSON.
func WriteJSON(w io.Writer, res *dynamo.SimulationResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewExportData(res))
}

func ExportJSON(path string, res *dynamo.SimulationResult) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteJSON(file, res)
}
