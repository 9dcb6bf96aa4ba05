// Package store persists completed runs under a data directory: one
// subdirectory per run holding metadata.json and energy.csv.
package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/mohamedorhan/eemring/internal/energy"
	"github.com/mohamedorhan/eemring/internal/ring"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata summarizes one completed simulation run.
type RunMetadata struct {
	ID            string    `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	Cells         int       `json:"cells"`
	Inductance    float64   `json:"inductance"`
	Capacitance   float64   `json:"capacitance"`
	Coupling      float64   `json:"coupling"`
	Resistance    float64   `json:"resistance"`
	Duration      float64   `json:"duration"`
	Samples       int       `json:"samples"`
	InitialCells  []int     `json:"initial_cells"`
	InitialCharge float64   `json:"initial_charge"`
	InitialEnergy float64   `json:"initial_energy"`
	FinalEnergy   float64   `json:"final_energy"`
	DecayRatio    float64   `json:"decay_ratio"`
	MemoryCell    int       `json:"memory_cell"`
	Steps         int       `json:"steps"`
}

// Save writes a run directory with metadata and the energy series, and
// returns the run ID.
func (s *Store) Save(cfg ring.Config, t []float64, series *energy.Series, memoryCell, steps int) (string, error) {
	runID := fmt.Sprintf("run_%d", time.Now().UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	initial := series.Total[0]
	final := series.Total[len(series.Total)-1]
	decay := 0.0
	if initial != 0 {
		decay = final / initial
	}

	meta := RunMetadata{
		ID:            runID,
		Timestamp:     time.Now(),
		Cells:         cfg.N,
		Inductance:    cfg.L,
		Capacitance:   cfg.C,
		Coupling:      cfg.Cc,
		Resistance:    cfg.R,
		Duration:      cfg.TFinal,
		Samples:       cfg.Samples,
		InitialCells:  cfg.InitialCells,
		InitialCharge: cfg.InitialCharge,
		InitialEnergy: initial,
		FinalEnergy:   final,
		DecayRatio:    decay,
		MemoryCell:    memoryCell,
		Steps:         steps,
	}

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}

	if err := writeEnergyCSV(filepath.Join(runDir, "energy.csv"), t, series); err != nil {
		return "", err
	}

	return runID, nil
}

// Load reads the metadata of one stored run.
func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadEnergy reads back the time and energy series of a stored run.
func (s *Store) LoadEnergy(runID string) (t []float64, series *energy.Series, err error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "energy.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return nil, nil, fmt.Errorf("store: run %s has no energy rows", runID)
	}

	cells := len(records[0]) - 2 // time, e0..e{N-1}, total
	series = &energy.Series{}

	for _, rec := range records[1:] {
		if len(rec) != cells+2 {
			return nil, nil, fmt.Errorf("store: run %s has a malformed energy row", runID)
		}
		row := make([]float64, cells)
		ts, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			return nil, nil, err
		}
		for k := 0; k < cells; k++ {
			if row[k], err = strconv.ParseFloat(rec[k+1], 64); err != nil {
				return nil, nil, err
			}
		}
		total, err := strconv.ParseFloat(rec[cells+1], 64)
		if err != nil {
			return nil, nil, err
		}
		t = append(t, ts)
		series.PerCell = append(series.PerCell, row)
		series.Total = append(series.Total, total)
	}

	return t, series, nil
}

// List returns the metadata of all stored runs, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var runs []RunMetadata
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		meta, err := s.Load(e.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeEnergyCSV(path string, t []float64, series *energy.Series) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return WriteCSV(f, t, series)
}
