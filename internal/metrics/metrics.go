package metrics

import (
	"sort"

	"github.com/san-kum/gridsolver/internal/solver"
)

// Sample is what a metric sees after every step.
type Sample struct {
	solver.StepStats
	// KineticEnergy is the unit-mass kinetic energy of the live bodies, when the host
	// can compute it.
	KineticEnergy float64
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

// Standard returns the metrics recorded for every run on a grid of the given bucket count.
func Standard(buckets int) []Metric {
	return []Metric{
		NewMeanPairs(),
		NewPeakBucket(),
		NewOccupancy(buckets),
		NewOutOfBounds(),
		NewRemoved(),
		NewStepTime(),
		NewEnergy(),
		NewEnergyDrift(),
	}
}

// Collect reads every metric into a map keyed by name.
func Collect(ms []Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}

// Names returns the metric names of a collected map in a stable order.
func Names(values map[string]float64) []string {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
