package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/odelab/internal/dynamo"
)

func sampleResult() *dynamo.SimulationResult {
	res := &dynamo.SimulationResult{
		ID:       "8f0b7a52-4c3e-4b59-9e53-2a1d1d0b6c11",
		Exercise: "linear-2d",
		Trajectory: &dynamo.Trajectory{
			Times:  []float64{0, 0.01},
			States: []dynamo.State{{1.0, 0.0}, {0.99, -0.01}},
		},
		Bifurcation: &dynamo.Diagram{
			Params:   []float64{-1, 1},
			Stable:   []float64{-1, math.NaN()},
			Unstable: []float64{1, math.NaN()},
		},
	}
	res.AddStep(dynamo.Step{Title: "Classification", Formula: "τ, Δ", Result: "stable-spiral"})
	res.SetInfo("trace", -2)
	return res
}

func TestWriteJSON_NaNAsNull(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleResult()); err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	var decoded struct {
		Bifurcation struct {
			Stable []*float64 `json:"stable"`
		} `json:"bifurcation"`
		Steps []dynamo.Step `json:"steps"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Bifurcation.Stable[0] == nil || *decoded.Bifurcation.Stable[0] != -1 {
		t.Errorf("expected -1, got %v", decoded.Bifurcation.Stable[0])
	}
	if decoded.Bifurcation.Stable[1] != nil {
		t.Errorf("expected null for undefined branch, got %v", *decoded.Bifurcation.Stable[1])
	}
	if len(decoded.Steps) != 1 || decoded.Steps[0].Result != "stable-spiral" {
		t.Errorf("steps not exported: %+v", decoded.Steps)
	}
}

func TestFloatRoundTrip(t *testing.T) {
	in := []Float{1.5, Float(math.NaN()), Float(math.Inf(1))}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[1.5,null,null]" {
		t.Errorf("unexpected encoding %s", data)
	}

	var out []Float
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if out[0] != 1.5 || !math.IsNaN(float64(out[1])) {
		t.Errorf("unexpected decoding %v", out)
	}
}

func TestCSVRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleResult().Trajectory); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "time,x0,x1\n") {
		t.Errorf("unexpected csv header: %q", strings.SplitN(buf.String(), "\n", 2)[0])
	}

	tr, err := ReadCSV(&buf)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if tr.Len() != 2 || tr.States[1][0] != 0.99 || tr.Times[1] != 0.01 {
		t.Errorf("unexpected trajectory %+v", tr)
	}
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestReadCSV_Malformed(t *testing.T) {
	if _, err := ReadCSV(strings.NewReader("time,x0\n0,abc\n")); err == nil {
		t.Error("expected parse error")
	}
	_, err := ReadCSV(strings.NewReader("time\n0\n"))
	if !errors.Is(err, dynamo.ErrInvalidConfiguration) {
		t.Errorf("expected ErrInvalidConfiguration, got %v", err)
	}
}

func TestExportFiles(t *testing.T) {
	dir := t.TempDir()
	res := sampleResult()

	csvPath := filepath.Join(dir, "states.csv")
	if err := ExportCSV(csvPath, res.Trajectory); err != nil {
		t.Fatalf("csv export failed: %v", err)
	}
	jsonPath := filepath.Join(dir, "result.json")
	if err := ExportJSON(jsonPath, res); err != nil {
		t.Fatalf("json export failed: %v", err)
	}

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatal(err)
	}
	var decoded ExportData
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("result.json is not valid: %v", err)
	}
	if decoded.ID != res.ID || decoded.Info["trace"] != -2 {
		t.Errorf("unexpected export %+v", decoded)
	}
	if _, err := os.Stat(csvPath); err != nil {
		t.Errorf("states.csv not created: %v", err)
	}
}
