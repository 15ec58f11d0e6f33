package sim

import (
	"context"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/gridsolver/internal/config"
	"github.com/san-kum/gridsolver/internal/metrics"
)

// Ensemble runs one configuration under consecutive seeds.
type Ensemble struct {
	cfg       *config.Config
	numRuns   int
	seedStart int64
	logger    *log.Logger
}

func NewEnsemble(cfg *config.Config, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{cfg: cfg, numRuns: numRuns, seedStart: seedStart, logger: log.Default()}
}

func (e *Ensemble) SetLogger(l *log.Logger) { e.logger = l }

// Run executes every member concurrently, each with the standard metrics. The first
// failure cancels the rest.
func (e *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	g, ctx := errgroup.WithContext(ctx)

	for i := 0; i < e.numRuns; i++ {
		g.Go(func() error {
			cfg := e.cfg.Clone()
			cfg.Seed = e.seedStart + int64(i)

			s := New(cfg)
			s.SetLogger(e.logger.With("seed", cfg.Seed))
			for _, m := range metrics.Standard(cfg.Buckets()) {
				s.AddMetric(m)
			}

			res, err := s.Run(ctx)
			results[i] = res
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Mean averages one metric across results.
func Mean(results []*Result, metric string) float64 {
	if len(results) == 0 {
		return 0
	}
	var total float64
	for _, r := range results {
		total += r.Metrics[metric]
	}
	return total / float64(len(results))
}
