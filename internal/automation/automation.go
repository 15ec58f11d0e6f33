package automation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/gridsolver/internal/config"
	"github.com/san-kum/gridsolver/internal/metrics"
	"github.com/san-kum/gridsolver/internal/sim"
	"github.com/san-kum/gridsolver/internal/storage"
)

var (
	ErrUnknownPreset = errors.New("automation: unknown preset")
	ErrUnknownParam  = errors.New("automation: unknown sweep parameter")
	ErrEmptySweep    = errors.New("automation: sweep needs at least one value")
)

// Scenario is a scripted sequence of runs.
type Scenario struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Runs        []ScenarioRun `yaml:"runs"`

	dir string
}

// ScenarioRun starts from a preset or a config file and overrides the fields that
// are set.
type ScenarioRun struct {
	Preset    string   `yaml:"preset"`
	Config    string   `yaml:"config"`
	Steps     int      `yaml:"steps"`
	Dt        float64  `yaml:"dt"`
	Seed      *int64   `yaml:"seed"`
	Precision string   `yaml:"precision"`
	Policy    string   `yaml:"policy"`
	Count     int      `yaml:"count"`
	Dampening *float64 `yaml:"dampening"`
	SaveAs    string   `yaml:"save_as"`
}

type ScenarioResult struct {
	Name   string
	RunID  string
	Result *sim.Result
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("automation: parse %s: %w", path, err)
	}
	scenario.dir = filepath.Dir(path)
	return &scenario, nil
}

// Resolve produces the configuration of one run. Relative config paths are taken
// from the scenario file's directory.
func (r ScenarioRun) Resolve(dir string) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case r.Config != "":
		path := r.Config
		if !filepath.IsAbs(path) && dir != "" {
			path = filepath.Join(dir, path)
		}
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	case r.Preset != "":
		cfg = config.GetPreset(r.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPreset, r.Preset)
		}
	default:
		cfg = config.DefaultConfig()
	}

	if r.Steps > 0 {
		cfg.Steps = r.Steps
	}
	if r.Dt > 0 {
		cfg.Dt = r.Dt
	}
	if r.Seed != nil {
		cfg.Seed = *r.Seed
	}
	if r.Precision != "" {
		cfg.Precision = r.Precision
	}
	if r.Policy != "" {
		cfg.World.OutOfBounds.Policy = r.Policy
	}
	if r.Count > 0 && len(cfg.Spawn) > 0 {
		cfg.Spawn[0].Count = r.Count
	}
	if r.Dampening != nil {
		cfg.World.Dampening = [3]float64{*r.Dampening, *r.Dampening, *r.Dampening}
	}
	if r.SaveAs != "" {
		cfg.Name = r.SaveAs
	}
	return cfg, nil
}

// RunScenario executes every run in order. Runs with save_as are persisted to st
// when st is not nil.
func RunScenario(ctx context.Context, scenario *Scenario, st *storage.Store, logger *log.Logger) ([]ScenarioResult, error) {
	results := make([]ScenarioResult, 0, len(scenario.Runs))

	for i, run := range scenario.Runs {
		cfg, err := run.Resolve(scenario.dir)
		if err != nil {
			return results, fmt.Errorf("run %d: %w", i+1, err)
		}
		logger.Info("scenario run", "index", i+1, "of", len(scenario.Runs), "name", cfg.Name)

		s := sim.New(cfg)
		s.SetLogger(logger)
		for _, m := range metrics.Standard(cfg.Buckets()) {
			s.AddMetric(m)
		}
		result, err := s.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("run %d: %w", i+1, err)
		}

		entry := ScenarioResult{Name: cfg.Name, Result: result}
		if run.SaveAs != "" && st != nil {
			if entry.RunID, err = st.Save(cfg, result); err != nil {
				return results, fmt.Errorf("run %d save: %w", i+1, err)
			}
		}
		results = append(results, entry)
	}

	return results, nil
}

// ParameterSweep runs a base configuration across evenly spaced values of one
// parameter.
type ParameterSweep struct {
	Base     *config.Config
	Param    string
	Min      float64
	Max      float64
	NumSteps int
	// Repeats runs each value under this many consecutive seeds.
	Repeats int
}

type SweepResult struct {
	Value      float64
	MeanPairs  float64
	PeakBucket float64
	Occupancy  float64
	StepMs     float64
}

// SweepParams lists the parameters a sweep can vary.
var SweepParams = []string{"cell_size", "count", "dampening", "dt"}

// Apply sets param to value on cfg.
func Apply(cfg *config.Config, param string, value float64) error {
	switch param {
	case "dampening":
		cfg.World.Dampening = [3]float64{value, value, value}
	case "dt":
		cfg.Dt = value
	case "count":
		if len(cfg.Spawn) == 0 {
			return fmt.Errorf("%w: config has no spawn group", ErrUnknownParam)
		}
		cfg.Spawn[0].Count = int(math.Round(value))
	case "cell_size":
		// The world keeps its extent; the grid gains or loses cells.
		cell := max(int(math.Round(value)), 1)
		for axis := 0; axis < 3; axis++ {
			extent := cfg.World.GridSize[axis] * cfg.World.CellSize[axis]
			cfg.World.CellSize[axis] = cell
			cfg.World.GridSize[axis] = max((extent+cell-1)/cell, 1)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnknownParam, param)
	}
	return nil
}

// Values returns the parameter values visited by the sweep.
func (s *ParameterSweep) Values() []float64 {
	if s.NumSteps <= 1 {
		return []float64{s.Min}
	}
	step := (s.Max - s.Min) / float64(s.NumSteps-1)
	values := make([]float64, s.NumSteps)
	for i := range values {
		values[i] = s.Min + float64(i)*step
	}
	return values
}

func RunSweep(ctx context.Context, sweep *ParameterSweep, logger *log.Logger) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, ErrEmptySweep
	}
	repeats := max(sweep.Repeats, 1)
	values := sweep.Values()
	results := make([]SweepResult, 0, len(values))

	for i, value := range values {
		cfg := sweep.Base.Clone()
		if err := Apply(cfg, sweep.Param, value); err != nil {
			return nil, err
		}

		ensemble := sim.NewEnsemble(cfg, repeats, cfg.Seed)
		ensemble.SetLogger(logger)
		runs, err := ensemble.Run(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sweep.Param, value, err)
		}

		results = append(results, SweepResult{
			Value:      value,
			MeanPairs:  sim.Mean(runs, "mean_pairs"),
			PeakBucket: sim.Mean(runs, "peak_bucket"),
			Occupancy:  sim.Mean(runs, "occupancy"),
			StepMs:     sim.Mean(runs, "step_ms"),
		})
		logger.Info("sweep", "index", i+1, "of", len(values), sweep.Param, value)
	}

	return results, nil
}
