package sim

import (
	"sort"
	"time"

	"github.com/san-kum/gridsolver/internal/metrics"
)

// Point is a body as recorded at the end of a run.
type Point struct {
	Kind     string     `json:"kind"`
	Position [3]float64 `json:"position"`
}

// Stepper advances a world one step at a time, whatever its precision.
type Stepper interface {
	Step() metrics.Sample
	Points() []Point
	// Bounds returns the world-space corners of the grid.
	Bounds() (min, max [3]float64)
	Buckets() int
}

type Observer interface {
	OnStep(step int, sample metrics.Sample)
}

type ObserverFunc func(step int, sample metrics.Sample)

func (f ObserverFunc) OnStep(step int, sample metrics.Sample) { f(step, sample) }

type Result struct {
	Samples []metrics.Sample
	Metrics map[string]float64
	Final   []Point
	Elapsed time.Duration
}

// Series extracts one per-step quantity by metric-style name.
func (r *Result) Series(name string) ([]float64, bool) {
	pick, ok := seriesFields[name]
	if !ok {
		return nil, false
	}
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = pick(s)
	}
	return out, true
}

var seriesFields = map[string]func(metrics.Sample) float64{
	"pairs":          func(s metrics.Sample) float64 { return float64(s.Pairs) },
	"live":           func(s metrics.Sample) float64 { return float64(s.Live) },
	"bucketed":       func(s metrics.Sample) float64 { return float64(s.Bucketed) },
	"out_of_bounds":  func(s metrics.Sample) float64 { return float64(s.OutOfBounds) },
	"occupied_cells": func(s metrics.Sample) float64 { return float64(s.OccupiedCells) },
	"max_bucket":     func(s metrics.Sample) float64 { return float64(s.MaxBucket) },
	"kinetic_energy": func(s metrics.Sample) float64 { return s.KineticEnergy },
	"step_ms":        func(s metrics.Sample) float64 { return float64(s.Elapsed.Microseconds()) / 1000 },
}

// SeriesNames lists the names accepted by Result.Series.
func SeriesNames() []string {
	names := make([]string, 0, len(seriesFields))
	for name := range seriesFields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
