package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/san-kum/gridsolver/internal/config"
	"github.com/san-kum/gridsolver/internal/metrics"
	"github.com/san-kum/gridsolver/internal/sim"
	"github.com/san-kum/gridsolver/internal/solver"
)

func testResult() *sim.Result {
	return &sim.Result{
		Samples: []metrics.Sample{
			{StepStats: solver.StepStats{Step: 1, Bodies: 3, Live: 3, Bucketed: 2, OutOfBounds: 1, Pairs: 1, OccupiedCells: 2, MaxBucket: 1, Elapsed: 1500 * time.Microsecond}, KineticEnergy: 0.5},
			{StepStats: solver.StepStats{Step: 2, Bodies: 2, Live: 2, Bucketed: 2, Removed: 1, Pairs: 0, OccupiedCells: 2, MaxBucket: 1, Elapsed: 900 * time.Microsecond}, KineticEnergy: 0.25},
		},
		Metrics: map[string]float64{"mean_pairs": 0.5},
		Final: []sim.Point{
			{Kind: "cuboid", Position: [3]float64{1, 2, 3}},
			{Kind: "sphere", Position: [3]float64{-1.5, 0, 0.25}},
		},
		Elapsed: 3 * time.Millisecond,
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.Name = "test"
	cfg.Seed = 42
	result := testResult()

	runID, err := st.Save(cfg, result)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "test_") {
		t.Errorf("expected run id prefixed test_, got %s", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Seed != 42 || meta.Steps != 2 || meta.Bodies != config.DefaultCount {
		t.Errorf("unexpected metadata %+v", meta)
	}
	if meta.Metrics["mean_pairs"] != 0.5 {
		t.Errorf("expected mean_pairs 0.5, got %f", meta.Metrics["mean_pairs"])
	}
	if diff := cmp.Diff(cfg, meta.Config); diff != "" {
		t.Errorf("stored config mismatch (-want +got):\n%s", diff)
	}

	samples, err := st.LoadSteps(runID)
	if err != nil {
		t.Fatalf("load steps failed: %v", err)
	}
	if diff := cmp.Diff(result.Samples, samples); diff != "" {
		t.Errorf("steps mismatch (-want +got):\n%s", diff)
	}

	bodies, err := st.LoadBodies(runID)
	if err != nil {
		t.Fatalf("load bodies failed: %v", err)
	}
	if diff := cmp.Diff(result.Final, bodies); diff != "" {
		t.Errorf("bodies mismatch (-want +got):\n%s", diff)
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	calls := 0
	st.now = func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Minute)
	}

	cfg := config.DefaultConfig()
	for _, name := range []string{"first", "second"} {
		cfg.Name = name
		if _, err := st.Save(cfg, testResult()); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(st.baseDir, "stray.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 || runs[0].Name != "second" || runs[1].Name != "first" {
		t.Errorf("expected newest first, got %+v", runs)
	}
}

func TestStoreSaveFailureLeavesNoRun(t *testing.T) {
	st := New(t.TempDir())
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	st.now = func() time.Time { return now }

	cfg := config.DefaultConfig()
	cfg.Name = "broken"
	runDir := st.RunDir(fmt.Sprintf("broken_%d", now.UnixNano()))
	// A directory where steps.csv belongs makes the second write fail.
	if err := os.MkdirAll(filepath.Join(runDir, stepsFile), 0755); err != nil {
		t.Fatal(err)
	}

	if _, err := st.Save(cfg, testResult()); err == nil {
		t.Fatal("expected save to fail")
	}
	if _, err := os.Stat(runDir); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected run directory removed, stat gave %v", err)
	}
	runs, err := st.List()
	if err != nil || len(runs) != 0 {
		t.Errorf("expected no runs listed, got %v, %v", runs, err)
	}
}

func TestStoreListMissingDir(t *testing.T) {
	runs, err := New(filepath.Join(t.TempDir(), "missing")).List()
	if err != nil || len(runs) != 0 {
		t.Errorf("expected empty list, got %v, %v", runs, err)
	}
}

func TestStoreLoadMissing(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
	if _, err := st.LoadSteps("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
}

func TestExportJSON(t *testing.T) {
	st := New(t.TempDir())
	cfg := config.DefaultConfig()
	runID, err := st.Save(cfg, testResult())
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "out.json")
	if err := st.ExportJSON(runID, path); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var exported ExportData
	if err := json.Unmarshal(data, &exported); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if exported.ID != runID || len(exported.Steps) != 2 || len(exported.Bodies) != 2 {
		t.Errorf("unexpected export %+v", exported)
	}
	if exported.Steps[0].ElapsedUs != 1500 || exported.Steps[1].Removed != 1 {
		t.Errorf("unexpected steps %+v", exported.Steps)
	}
}

func TestCopyFile(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save(config.DefaultConfig(), testResult())
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := st.CopyFile(runID, "bodies", &buf); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 || lines[0] != "kind,x,y,z" {
		t.Errorf("unexpected bodies table %q", buf.String())
	}
	if err := st.CopyFile(runID, "other", &buf); err == nil {
		t.Error("expected error for unknown table")
	}
}
