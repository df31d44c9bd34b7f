package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/san-kum/odelab/internal/dynamo"
)

// WriteCSV writes one row per sample: time followed by x0, x1, ...
func WriteCSV(w io.Writer, tr *dynamo.Trajectory) error {
	cw := csv.NewWriter(w)
	if tr == nil || tr.Len() == 0 {
		cw.Flush()
		return cw.Error()
	}

	header := []string{"time"}
	for i := range tr.States[0] {
		header = append(header, fmt.Sprintf("x%d", i))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for i, x := range tr.States {
		row := []string{strconv.FormatFloat(tr.Times[i], 'g', -1, 64)}
		for _, v := range x {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func ExportCSV(path string, tr *dynamo.Trajectory) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, tr); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadCSV parses the WriteCSV format back into a trajectory.
func ReadCSV(r io.Reader) (*dynamo.Trajectory, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, err
	}

	tr := &dynamo.Trajectory{}
	for i, record := range records {
		if i == 0 {
			continue
		}
		if len(record) < 2 {
			return nil, fmt.Errorf("%w: line %d has no state columns", dynamo.ErrInvalidConfiguration, i+1)
		}
		row := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", i+1, err)
			}
			row[j] = v
		}
		tr.Times = append(tr.Times, row[0])
		tr.States = append(tr.States, dynamo.State(row[1:]))
	}
	return tr, nil
}
