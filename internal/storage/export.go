package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/gridsolver/internal/metrics"
	"github.com/san-kum/gridsolver/internal/sim"
)

type ExportData struct {
	ID      string             `json:"id"`
	Name    string             `json:"name"`
	Dt      float64            `json:"dt"`
	Steps   []ExportStep       `json:"steps"`
	Bodies  []sim.Point        `json:"bodies"`
	Metrics map[string]float64 `json:"metrics"`
}

type ExportStep struct {
	Step          int     `json:"step"`
	Live          int     `json:"live"`
	Bucketed      int     `json:"bucketed"`
	OutOfBounds   int     `json:"out_of_bounds"`
	Relocated     int     `json:"relocated"`
	Removed       int     `json:"removed"`
	Pairs         int     `json:"pairs"`
	OccupiedCells int     `json:"occupied_cells"`
	MaxBucket     int     `json:"max_bucket"`
	ElapsedUs     int64   `json:"elapsed_us"`
	KineticEnergy float64 `json:"kinetic_energy"`
}

func exportSteps(samples []metrics.Sample) []ExportStep {
	out := make([]ExportStep, len(samples))
	for i, s := range samples {
		out[i] = ExportStep{
			Step:          s.Step,
			Live:          s.Live,
			Bucketed:      s.Bucketed,
			OutOfBounds:   s.OutOfBounds,
			Relocated:     s.Relocated,
			Removed:       s.Removed,
			Pairs:         s.Pairs,
			OccupiedCells: s.OccupiedCells,
			MaxBucket:     s.MaxBucket,
			ElapsedUs:     s.Elapsed.Microseconds(),
			KineticEnergy: s.KineticEnergy,
		}
	}
	return out
}

// Export gathers a stored run into one document.
func (s *Store) Export(runID string) (*ExportData, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	samples, err := s.LoadSteps(runID)
	if err != nil {
		return nil, err
	}
	bodies, err := s.LoadBodies(runID)
	if err != nil {
		return nil, err
	}
	return &ExportData{
		ID:      meta.ID,
		Name:    meta.Name,
		Dt:      meta.Dt,
		Steps:   exportSteps(samples),
		Bodies:  bodies,
		Metrics: meta.Metrics,
	}, nil
}

// WriteJSON encodes a stored run to w.
func (s *Store) WriteJSON(runID string, w io.Writer) error {
	data, err := s.Export(runID)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// ExportJSON writes a stored run to path.
func (s *Store) ExportJSON(runID, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return s.WriteJSON(runID, file)
}
