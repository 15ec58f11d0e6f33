package sim

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/san-kum/gridsolver/internal/config"
	"github.com/san-kum/gridsolver/internal/metrics"
	"github.com/san-kum/gridsolver/internal/solver"
)

type Simulator struct {
	cfg       *config.Config
	logger    *log.Logger
	metrics   []metrics.Metric
	observers []Observer
}

func New(cfg *config.Config) *Simulator {
	return &Simulator{
		cfg:       cfg,
		logger:    log.Default(),
		metrics:   make([]metrics.Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m metrics.Metric) { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer)     { s.observers = append(s.observers, o) }
func (s *Simulator) SetLogger(l *log.Logger)    { s.logger = l }
func (s *Simulator) Config() *config.Config     { return s.cfg }
func (s *Simulator) Metrics() []metrics.Metric  { return s.metrics }

// Run builds the world and advances it cfg.Steps times. Cancelling ctx stops the run
// between steps; the partial result is returned together with ctx.Err().
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}

	opts := []solver.Option{solver.WithLogger(s.logger)}
	if s.cfg.Workers > 0 {
		opts = append(opts, solver.WithWorkers(s.cfg.Workers))
	}
	world, err := NewStepper(s.cfg, opts...)
	if err != nil {
		return nil, err
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	result := &Result{
		Samples: make([]metrics.Sample, 0, s.cfg.Steps),
		Metrics: make(map[string]float64),
	}
	logger := s.logger.With("run", s.cfg.Name)
	logger.Info("starting", "bodies", s.cfg.Bodies(), "steps", s.cfg.Steps, "precision", s.cfg.Precision)

	start := time.Now()
	defer func() {
		result.Elapsed = time.Since(start)
		result.Final = world.Points()
		result.Metrics = metrics.Collect(s.metrics)
	}()

	progress := max(s.cfg.Steps/10, 1)
	for i := 0; i < s.cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			logger.Warn("cancelled", "step", i, "err", ctx.Err())
			return result, ctx.Err()
		default:
		}

		sample := world.Step()
		for _, m := range s.metrics {
			m.Observe(sample)
		}
		for _, obs := range s.observers {
			obs.OnStep(i, sample)
		}
		result.Samples = append(result.Samples, sample)

		if (i+1)%progress == 0 {
			logger.Debug("progress", "step", i+1, "live", sample.Live, "pairs", sample.Pairs)
		}
	}

	logger.Info("finished", "steps", len(result.Samples), "elapsed", time.Since(start).Round(time.Millisecond))
	return result, nil
}
