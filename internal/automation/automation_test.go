package automation

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/san-kum/gridsolver/internal/config"
	"github.com/san-kum/gridsolver/internal/storage"
)

var quiet = log.New(io.Discard)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadAndRunScenario(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "world.yaml"), `
name: from-file
precision: f64
steps: 5
world:
  out_of_bounds:
    policy: clamp
spawn:
  - kind: sphere
    count: 50
    min: [-10, -10, -10]
    max: [10, 10, 10]
    radius: 0.5
`)
	writeFile(t, filepath.Join(dir, "scenario.yaml"), `
name: smoke
description: two short runs
runs:
  - config: world.yaml
    save_as: spheres
  - preset: leak
    steps: 3
    count: 40
    seed: 7
`)

	scenario, err := LoadScenario(filepath.Join(dir, "scenario.yaml"))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(scenario.Runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(scenario.Runs))
	}

	st := storage.New(filepath.Join(dir, "runs"))
	results, err := RunScenario(context.Background(), scenario, st, quiet)
	if err != nil {
		t.Fatalf("scenario failed: %v", err)
	}

	if results[0].Name != "spheres" || results[0].RunID == "" {
		t.Errorf("expected first run saved as spheres, got %+v", results[0])
	}
	if len(results[0].Result.Samples) != 5 {
		t.Errorf("expected 5 steps, got %d", len(results[0].Result.Samples))
	}
	if results[1].RunID != "" || len(results[1].Result.Samples) != 3 {
		t.Errorf("expected unsaved 3-step run, got %+v", results[1])
	}

	runs, err := st.List()
	if err != nil || len(runs) != 1 {
		t.Errorf("expected 1 stored run, got %d (%v)", len(runs), err)
	}
}

func TestResolveOverrides(t *testing.T) {
	seed := int64(11)
	damp := 0.5
	run := ScenarioRun{Preset: "pile", Steps: 9, Dt: 0.02, Seed: &seed, Precision: "f32", Policy: "delete", Count: 12, Dampening: &damp}

	cfg, err := run.Resolve("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Steps != 9 || cfg.Dt != 0.02 || cfg.Seed != 11 || cfg.Precision != "f32" {
		t.Errorf("unexpected run settings %+v", cfg)
	}
	if cfg.World.OutOfBounds.Policy != "delete" || cfg.Spawn[0].Count != 12 || cfg.World.Dampening != [3]float64{0.5, 0.5, 0.5} {
		t.Errorf("unexpected world %+v", cfg.World)
	}
	if config.Presets["pile"].Steps == 9 {
		t.Error("resolve modified the preset registry")
	}

	if _, err := (ScenarioRun{Preset: "missing"}).Resolve(""); !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("expected ErrUnknownPreset, got %v", err)
	}
}

func TestApply(t *testing.T) {
	tests := []struct {
		param string
		value float64
		check func(c *config.Config) bool
	}{
		{"dampening", 0.9, func(c *config.Config) bool { return c.World.Dampening == [3]float64{0.9, 0.9, 0.9} }},
		{"dt", 0.005, func(c *config.Config) bool { return c.Dt == 0.005 }},
		{"count", 41.6, func(c *config.Config) bool { return c.Spawn[0].Count == 42 }},
		{"cell_size", 4, func(c *config.Config) bool {
			return c.World.CellSize == [3]int{4, 4, 4} && c.World.GridSize == [3]int{25, 25, 25}
		}},
		{"cell_size", 30, func(c *config.Config) bool {
			return c.World.CellSize == [3]int{30, 30, 30} && c.World.GridSize == [3]int{4, 4, 4}
		}},
	}

	for _, tt := range tests {
		cfg := config.DefaultConfig()
		if err := Apply(cfg, tt.param, tt.value); err != nil {
			t.Fatalf("%s: %v", tt.param, err)
		}
		if !tt.check(cfg) {
			t.Errorf("%s=%g: unexpected config %+v", tt.param, tt.value, cfg.World)
		}
	}

	if err := Apply(config.DefaultConfig(), "gravity", 1); !errors.Is(err, ErrUnknownParam) {
		t.Errorf("expected ErrUnknownParam, got %v", err)
	}
}

func TestRunSweep(t *testing.T) {
	base := config.DefaultConfig()
	base.Steps = 3
	base.Spawn[0].Count = 300

	sweep := &ParameterSweep{Base: base, Param: "cell_size", Min: 5, Max: 20, NumSteps: 3, Repeats: 2}
	results, err := RunSweep(context.Background(), sweep, quiet)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, want := range []float64{5, 12.5, 20} {
		if results[i].Value != want {
			t.Errorf("result %d: expected value %g, got %g", i, want, results[i].Value)
		}
	}
	// Larger cells put more bodies in each bucket.
	if results[2].PeakBucket <= results[0].PeakBucket {
		t.Errorf("expected peak bucket to grow with cell size, got %g then %g", results[0].PeakBucket, results[2].PeakBucket)
	}
	if base.World.CellSize != [3]int{10, 10, 10} {
		t.Error("sweep modified its base config")
	}

	if _, err := RunSweep(context.Background(), &ParameterSweep{Base: base, Param: "dt"}, quiet); !errors.Is(err, ErrEmptySweep) {
		t.Errorf("expected ErrEmptySweep, got %v", err)
	}
}
