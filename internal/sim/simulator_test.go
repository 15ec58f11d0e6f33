package sim

import (
	"context"
	"errors"
	"io"
	"math"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/san-kum/gridsolver/internal/config"
	"github.com/san-kum/gridsolver/internal/metrics"
	"github.com/san-kum/gridsolver/internal/num"
)

func smallConfig(precision string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Name = "small"
	cfg.Precision = precision
	cfg.Steps = 20
	cfg.Seed = 5
	cfg.Spawn[0].Count = 200
	return cfg
}

func quiet(s *Simulator) *Simulator {
	s.SetLogger(log.New(io.Discard))
	return s
}

type testMetric struct {
	observed int
}

func (t *testMetric) Name() string           { return "test" }
func (t *testMetric) Observe(metrics.Sample) { t.observed++ }
func (t *testMetric) Value() float64         { return float64(t.observed) }
func (t *testMetric) Reset()                 { t.observed = 0 }

func TestSimulatorRun(t *testing.T) {
	for _, precision := range []string{"f32", "f64"} {
		t.Run(precision, func(t *testing.T) {
			s := quiet(New(smallConfig(precision)))
			s.AddMetric(&testMetric{})

			var steps []int
			s.AddObserver(ObserverFunc(func(step int, _ metrics.Sample) { steps = append(steps, step) }))

			result, err := s.Run(context.Background())
			if err != nil {
				t.Fatalf("run failed: %v", err)
			}

			if len(result.Samples) != 20 || len(steps) != 20 {
				t.Errorf("expected 20 samples and notifications, got %d and %d", len(result.Samples), len(steps))
			}
			if result.Metrics["test"] != 20 {
				t.Errorf("expected test metric 20, got %f", result.Metrics["test"])
			}
			if len(result.Final) != 200 {
				t.Errorf("expected 200 final points, got %d", len(result.Final))
			}
			if last := result.Samples[19]; last.Step != 20 || last.Live != 200 {
				t.Errorf("unexpected final sample %+v", last.StepStats)
			}
		})
	}
}

func TestSimulatorIsReproducible(t *testing.T) {
	run := func() *Result {
		result, err := quiet(New(smallConfig("f64"))).Run(context.Background())
		if err != nil {
			t.Fatalf("run failed: %v", err)
		}
		return result
	}

	a, b := run(), run()
	if diff := cmp.Diff(a.Final, b.Final); diff != "" {
		t.Errorf("final positions differ (-first +second):\n%s", diff)
	}
}

func TestSimulatorCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := quiet(New(smallConfig("f32")))
	s.AddObserver(ObserverFunc(func(step int, _ metrics.Sample) {
		if step == 4 {
			cancel()
		}
	}))

	result, err := s.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(result.Samples) != 5 {
		t.Errorf("expected 5 samples before cancellation, got %d", len(result.Samples))
	}
	if len(result.Final) == 0 {
		t.Error("expected final positions on a partial result")
	}
}

func TestSimulatorRejectsInvalidConfig(t *testing.T) {
	cfg := smallConfig("f16")
	if _, err := quiet(New(cfg)).Run(context.Background()); !errors.Is(err, config.ErrInvalidPrecision) {
		t.Errorf("expected ErrInvalidPrecision, got %v", err)
	}
}

func TestKineticEnergyUnderFreeFall(t *testing.T) {
	cfg := smallConfig("f64")
	cfg.Spawn[0].Count = 1
	cfg.Spawn[0].Min = [3]float64{0, 0, 0}
	cfg.Spawn[0].Max = [3]float64{0, 0, 0}
	cfg.World.Gravity = [3]float64{0, -10, 0}

	w, err := NewWorld[num.F64](cfg)
	if err != nil {
		t.Fatal(err)
	}
	var sample metrics.Sample
	for i := 0; i < 10; i++ {
		sample = w.Step()
	}

	// After n steps the implicit velocity is g*dt*n.
	v := 10 * cfg.Dt * 10
	if math.Abs(sample.KineticEnergy-v*v/2) > 1e-9 {
		t.Errorf("expected energy %f, got %f", v*v/2, sample.KineticEnergy)
	}
}

func TestSeries(t *testing.T) {
	result, err := quiet(New(smallConfig("f32"))).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	for _, name := range SeriesNames() {
		series, ok := result.Series(name)
		if !ok || len(series) != len(result.Samples) {
			t.Errorf("%s: expected %d values, got %d (%v)", name, len(result.Samples), len(series), ok)
		}
	}
	if _, ok := result.Series("unknown"); ok {
		t.Error("expected unknown series to be rejected")
	}
}

func TestEnsemble(t *testing.T) {
	e := NewEnsemble(smallConfig("f32"), 3, 10)
	e.SetLogger(log.New(io.Discard))

	results, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if cmp.Equal(results[0].Final, results[1].Final) {
		t.Error("expected different seeds to diverge")
	}
	if Mean(results, "peak_bucket") <= 0 {
		t.Error("expected a positive mean peak bucket")
	}
}
