package store

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/mohamedorhan/eemring/internal/energy"
)

// ExportData is the JSON export shape of one run.
type ExportData struct {
	Meta    RunMetadata `json:"meta"`
	Times   []float64   `json:"times"`
	PerCell [][]float64 `json:"per_cell_energy"`
	Total   []float64   `json:"total_energy"`
}

// ExportJSON writes a stored run to w as indented JSON.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	t, series, err := s.LoadEnergy(runID)
	if err != nil {
		return err
	}

	data := ExportData{
		Meta:    *meta,
		Times:   t,
		PerCell: series.PerCell,
		Total:   series.Total,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// ExportCSV streams a stored run's energy series to w.
func (s *Store) ExportCSV(w io.Writer, runID string) error {
	t, series, err := s.LoadEnergy(runID)
	if err != nil {
		return err
	}
	return WriteCSV(w, t, series)
}

// WriteCSV writes an energy series as CSV: time, per-cell columns, total.
func WriteCSV(w io.Writer, t []float64, series *energy.Series) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	cells := len(series.PerCell[0])
	header := []string{"time"}
	for k := 0; k < cells; k++ {
		header = append(header, "e"+strconv.Itoa(k))
	}
	header = append(header, "total")
	if err := cw.Write(header); err != nil {
		return err
	}

	for i := range t {
		row := []string{strconv.FormatFloat(t[i], 'e', 9, 64)}
		for _, e := range series.PerCell[i] {
			row = append(row, strconv.FormatFloat(e, 'e', 9, 64))
		}
		row = append(row, strconv.FormatFloat(series.Total[i], 'e', 9, 64))
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	return cw.Error()
}
