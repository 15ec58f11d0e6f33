package metrics

type MeanPairs struct {
	total   int
	samples int
}

func NewMeanPairs() *MeanPairs { return &MeanPairs{} }

func (m *MeanPairs) Name() string { return "mean_pairs" }

func (m *MeanPairs) Observe(s Sample) {
	m.total += s.Pairs
	m.samples++
}

func (m *MeanPairs) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return float64(m.total) / float64(m.samples)
}

func (m *MeanPairs) Reset() { *m = MeanPairs{} }

// PeakBucket is the fullest bucket seen over the run.
type PeakBucket struct {
	peak int
}

func NewPeakBucket() *PeakBucket { return &PeakBucket{} }

func (m *PeakBucket) Name() string { return "peak_bucket" }

func (m *PeakBucket) Observe(s Sample) { m.peak = max(m.peak, s.MaxBucket) }

func (m *PeakBucket) Value() float64 { return float64(m.peak) }

func (m *PeakBucket) Reset() { m.peak = 0 }

// Occupancy is the mean fraction of buckets holding at least one body.
type Occupancy struct {
	buckets int
	total   float64
	samples int
}

func NewOccupancy(buckets int) *Occupancy { return &Occupancy{buckets: buckets} }

func (m *Occupancy) Name() string { return "occupancy" }

func (m *Occupancy) Observe(s Sample) {
	if m.buckets <= 0 {
		return
	}
	m.total += float64(s.OccupiedCells) / float64(m.buckets)
	m.samples++
}

func (m *Occupancy) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.total / float64(m.samples)
}

func (m *Occupancy) Reset() {
	m.total = 0
	m.samples = 0
}

// OutOfBounds counts body-steps spent outside the grid.
type OutOfBounds struct {
	total int
}

func NewOutOfBounds() *OutOfBounds { return &OutOfBounds{} }

func (m *OutOfBounds) Name() string { return "out_of_bounds" }

func (m *OutOfBounds) Observe(s Sample) { m.total += s.OutOfBounds }

func (m *OutOfBounds) Value() float64 { return float64(m.total) }

func (m *OutOfBounds) Reset() { m.total = 0 }

type Removed struct {
	total int
}

func NewRemoved() *Removed { return &Removed{} }

func (m *Removed) Name() string { return "removed" }

func (m *Removed) Observe(s Sample) { m.total += s.Removed }

func (m *Removed) Value() float64 { return float64(m.total) }

func (m *Removed) Reset() { m.total = 0 }

// StepTime is the mean wall time of an update, in milliseconds.
type StepTime struct {
	totalMs float64
	samples int
}

func NewStepTime() *StepTime { return &StepTime{} }

func (m *StepTime) Name() string { return "step_ms" }

func (m *StepTime) Observe(s Sample) {
	m.totalMs += float64(s.Elapsed.Microseconds()) / 1000
	m.samples++
}

func (m *StepTime) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.totalMs / float64(m.samples)
}

func (m *StepTime) Reset() {
	m.totalMs = 0
	m.samples = 0
}
