package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/gridsolver/internal/config"
	"github.com/san-kum/gridsolver/internal/metrics"
	"github.com/san-kum/gridsolver/internal/sim"
)

var ErrRunNotFound = errors.New("storage: run not found")

const (
	metadataFile = "metadata.json"
	stepsFile    = "steps.csv"
	bodiesFile   = "bodies.csv"
)

type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Precision string             `json:"precision"`
	Dt        float64            `json:"dt"`
	Steps     int                `json:"steps"`
	Bodies    int                `json:"bodies"`
	Policy    string             `json:"policy"`
	GridSize  [3]int             `json:"grid_size"`
	CellSize  [3]int             `json:"cell_size"`
	ElapsedMs float64            `json:"elapsed_ms"`
	Metrics   map[string]float64 `json:"metrics"`
	Config    *config.Config     `json:"config"`
}

var stepsHeader = []string{
	"step", "bodies", "live", "bucketed", "out_of_bounds", "relocated", "removed",
	"pairs", "occupied_cells", "max_bucket", "elapsed_us", "kinetic_energy",
}

// Save writes the run under a fresh directory and returns its ID.
func (s *Store) Save(cfg *config.Config, result *sim.Result) (string, error) {
	now := s.now()
	name := cfg.Name
	if name == "" {
		name = "run"
	}
	runID := fmt.Sprintf("%s_%d", name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Name:      name,
		Timestamp: now,
		Seed:      cfg.Seed,
		Precision: cfg.Precision,
		Dt:        cfg.Dt,
		Steps:     len(result.Samples),
		Bodies:    cfg.Bodies(),
		Policy:    cfg.World.OutOfBounds.Policy,
		GridSize:  cfg.World.GridSize,
		CellSize:  cfg.World.CellSize,
		ElapsedMs: float64(result.Elapsed.Microseconds()) / 1000,
		Metrics:   result.Metrics,
		Config:    cfg,
	}

	if err := writeRun(runDir, meta, result); err != nil {
		// List must never see a partial run.
		if rmErr := os.RemoveAll(runDir); rmErr != nil {
			return "", errors.Join(err, rmErr)
		}
		return "", fmt.Errorf("storage: save %s: %w", runID, err)
	}

	return runID, nil
}

func writeRun(runDir string, meta RunMetadata, result *sim.Result) error {
	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return err
	}
	if err := writeCSV(filepath.Join(runDir, stepsFile), func(w *csv.Writer) error {
		return writeSteps(w, result.Samples)
	}); err != nil {
		return err
	}
	return writeCSV(filepath.Join(runDir, bodiesFile), func(w *csv.Writer) error {
		return writeBodies(w, result.Final)
	})
}

func writeJSON(path string, v any) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeCSV(path string, fill func(w *csv.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	w := csv.NewWriter(f)
	if err := fill(w); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func itoa(v int) string { return strconv.Itoa(v) }

func ftoa(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }

func writeSteps(w *csv.Writer, samples []metrics.Sample) error {
	if err := w.Write(stepsHeader); err != nil {
		return err
	}
	for _, s := range samples {
		row := []string{
			itoa(s.Step), itoa(s.Bodies), itoa(s.Live), itoa(s.Bucketed), itoa(s.OutOfBounds),
			itoa(s.Relocated), itoa(s.Removed), itoa(s.Pairs), itoa(s.OccupiedCells),
			itoa(s.MaxBucket), strconv.FormatInt(s.Elapsed.Microseconds(), 10), ftoa(s.KineticEnergy),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func writeBodies(w *csv.Writer, points []sim.Point) error {
	if err := w.Write([]string{"kind", "x", "y", "z"}); err != nil {
		return err
	}
	for _, p := range points {
		if err := w.Write([]string{p.Kind, ftoa(p.Position[0]), ftoa(p.Position[1]), ftoa(p.Position[2])}); err != nil {
			return err
		}
	}
	return nil
}

// List returns every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: decode %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadSteps reads the per-step table back into samples. Malformed rows are skipped.
func (s *Store) LoadSteps(runID string) ([]metrics.Sample, error) {
	records, err := s.readCSV(runID, stepsFile)
	if err != nil {
		return nil, err
	}

	samples := make([]metrics.Sample, 0, len(records))
	for _, record := range records {
		if len(record) != len(stepsHeader) {
			continue
		}
		var ints [11]int
		ok := true
		for j := 0; j < 11; j++ {
			v, err := strconv.Atoi(record[j])
			if err != nil {
				ok = false
				break
			}
			ints[j] = v
		}
		energy, err := strconv.ParseFloat(record[11], 64)
		if !ok || err != nil {
			continue
		}

		var sample metrics.Sample
		sample.Step, sample.Bodies, sample.Live, sample.Bucketed = ints[0], ints[1], ints[2], ints[3]
		sample.OutOfBounds, sample.Relocated, sample.Removed = ints[4], ints[5], ints[6]
		sample.Pairs, sample.OccupiedCells, sample.MaxBucket = ints[7], ints[8], ints[9]
		sample.Elapsed = time.Duration(ints[10]) * time.Microsecond
		sample.KineticEnergy = energy
		samples = append(samples, sample)
	}
	return samples, nil
}

// LoadBodies reads the final body positions.
func (s *Store) LoadBodies(runID string) ([]sim.Point, error) {
	records, err := s.readCSV(runID, bodiesFile)
	if err != nil {
		return nil, err
	}

	points := make([]sim.Point, 0, len(records))
	for _, record := range records {
		if len(record) != 4 {
			continue
		}
		p := sim.Point{Kind: record[0]}
		ok := true
		for axis := 0; axis < 3; axis++ {
			v, err := strconv.ParseFloat(record[axis+1], 64)
			if err != nil {
				ok = false
				break
			}
			p.Position[axis] = v
		}
		if ok {
			points = append(points, p)
		}
	}
	return points, nil
}

// readCSV returns every record after the header.
func (s *Store) readCSV(runID, name string) ([][]string, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return [][]string{}, nil
	}
	return records[1:], nil
}

// RunDir returns the directory holding a run's files.
func (s *Store) RunDir(runID string) string {
	return filepath.Join(s.baseDir, runID)
}

// CopyFile streams one of a run's CSV files, "steps" or "bodies", to w.
func (s *Store) CopyFile(runID, table string, w io.Writer) error {
	var name string
	switch table {
	case "steps":
		name = stepsFile
	case "bodies":
		name = bodiesFile
	default:
		return fmt.Errorf("storage: unknown table %q", table)
	}
	f, err := os.Open(filepath.Join(s.baseDir, runID, name))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return err
	}
	defer f.Close()
	_, err = io.Copy(w, f)
	return err
}
