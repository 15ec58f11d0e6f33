package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/gridsolver/internal/body"
	"github.com/san-kum/gridsolver/internal/num"
	"github.com/san-kum/gridsolver/internal/solver"
)

const (
	DefaultDt        = 0.01
	DefaultSteps     = 500
	DefaultPrecision = "f32"
	DefaultCount     = 1000
	DefaultCell      = 10
	DefaultGrid      = 10
	DefaultOrigin    = -50.0
	DefaultHalfSize  = 0.5

	// DataDirEnv overrides the default run directory.
	DataDirEnv     = "GRIDSOLVER_DATA"
	DefaultDataDir = ".gridsolver"
)

var (
	ErrInvalidDt        = errors.New("config: dt must be positive")
	ErrInvalidSteps     = errors.New("config: steps must be positive")
	ErrInvalidPrecision = errors.New("config: precision must be f32 or f64")
	ErrInvalidSpawn     = errors.New("config: invalid spawn group")
)

type Config struct {
	Name      string        `yaml:"name,omitempty"`
	Precision string        `yaml:"precision"`
	Dt        float64       `yaml:"dt"`
	Steps     int           `yaml:"steps"`
	Seed      int64         `yaml:"seed"`
	Workers   int           `yaml:"workers,omitempty"`
	World     WorldConfig   `yaml:"world"`
	Spawn     []SpawnConfig `yaml:"spawn"`
}

type WorldConfig struct {
	Gravity     [3]float64   `yaml:"gravity"`
	Dampening   [3]float64   `yaml:"dampening"`
	GridSize    [3]int       `yaml:"grid_size"`
	CellSize    [3]int       `yaml:"cell_size"`
	Origin      [3]float64   `yaml:"origin"`
	OutOfBounds BoundsConfig `yaml:"out_of_bounds"`
}

type BoundsConfig struct {
	Policy   string     `yaml:"policy"`
	Position [3]float64 `yaml:"position,omitempty"`
}

// SpawnConfig describes Count bodies of one kind scattered uniformly in [Min, Max).
type SpawnConfig struct {
	Kind     string     `yaml:"kind"`
	Count    int        `yaml:"count"`
	Min      [3]float64 `yaml:"min"`
	Max      [3]float64 `yaml:"max"`
	HalfSize [3]float64 `yaml:"half_size,omitempty"`
	Radius   float64    `yaml:"radius,omitempty"`
	// Velocity is the initial velocity, folded into the previous position.
	Velocity [3]float64 `yaml:"velocity,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:      "default",
		Precision: DefaultPrecision,
		Dt:        DefaultDt,
		Steps:     DefaultSteps,
		World: WorldConfig{
			Gravity:     [3]float64{0, -9.81, 0},
			Dampening:   [3]float64{1, 1, 1},
			GridSize:    [3]int{DefaultGrid, DefaultGrid, DefaultGrid},
			CellSize:    [3]int{DefaultCell, DefaultCell, DefaultCell},
			Origin:      [3]float64{DefaultOrigin, DefaultOrigin, DefaultOrigin},
			OutOfBounds: BoundsConfig{Policy: solver.ContinueUpdating.String()},
		},
		Spawn: []SpawnConfig{{
			Kind:     body.KindCuboid.String(),
			Count:    DefaultCount,
			Min:      [3]float64{DefaultOrigin, DefaultOrigin, DefaultOrigin},
			Max:      [3]float64{-DefaultOrigin, -DefaultOrigin, -DefaultOrigin},
			HalfSize: [3]float64{DefaultHalfSize, DefaultHalfSize, DefaultHalfSize},
		}},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	cfg.Spawn = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if len(cfg.Spawn) == 0 {
		cfg.Spawn = DefaultConfig().Spawn
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// DataDir returns the run directory named by GRIDSOLVER_DATA, or the default.
func DataDir() string {
	if dir := os.Getenv(DataDirEnv); dir != "" {
		return dir
	}
	return DefaultDataDir
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Spawn = append([]SpawnConfig(nil), c.Spawn...)
	return &out
}

// Bodies returns the total number of bodies spawned.
func (c *Config) Bodies() int {
	n := 0
	for _, s := range c.Spawn {
		n += s.Count
	}
	return n
}

// Buckets returns the number of grid cells.
func (c *Config) Buckets() int {
	return c.World.GridSize[0] * c.World.GridSize[1] * c.World.GridSize[2]
}

// Bounds returns the world-space corners of the grid.
func (c *Config) Bounds() (lo, hi [3]float64) {
	for axis := 0; axis < 3; axis++ {
		lo[axis] = c.World.Origin[axis]
		hi[axis] = lo[axis] + float64(c.World.GridSize[axis]*c.World.CellSize[axis])
	}
	return lo, hi
}

// Validate checks the host-side settings. Grid and policy errors surface from the
// solver itself.
func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("%w, got %g", ErrInvalidDt, c.Dt)
	}
	if c.Steps <= 0 {
		return fmt.Errorf("%w, got %d", ErrInvalidSteps, c.Steps)
	}
	if c.Precision != "f32" && c.Precision != "f64" {
		return fmt.Errorf("%w, got %q", ErrInvalidPrecision, c.Precision)
	}
	for i, s := range c.Spawn {
		if _, err := body.ParseKind(s.Kind); err != nil {
			return fmt.Errorf("%w %d: %v", ErrInvalidSpawn, i, err)
		}
		if s.Count < 0 {
			return fmt.Errorf("%w %d: negative count %d", ErrInvalidSpawn, i, s.Count)
		}
		for axis := 0; axis < 3; axis++ {
			if s.Max[axis] < s.Min[axis] {
				return fmt.Errorf("%w %d: max below min on axis %d", ErrInvalidSpawn, i, axis)
			}
		}
	}
	return nil
}

func vec3[T num.Float[T]](v [3]float64) num.Vec3[T] {
	return num.Vec3[T]{num.FromF64[T](v[0]), num.FromF64[T](v[1]), num.FromF64[T](v[2])}
}

// SolverConfig converts the world section into a solver configuration.
func SolverConfig[T num.Float[T]](c *Config) (solver.Config[T], error) {
	policy, err := solver.ParsePolicy(c.World.OutOfBounds.Policy)
	if err != nil {
		return solver.Config[T]{}, err
	}
	return solver.Config[T]{
		Gravity:    vec3[T](c.World.Gravity),
		Dampening:  vec3[T](c.World.Dampening),
		GridSize:   c.World.GridSize,
		CellSize:   c.World.CellSize,
		GridOrigin: vec3[T](c.World.Origin),
		OutsideOfGridBounds: solver.OutsideOfGridBoundsBehaviour[T]{
			Policy:   policy,
			Position: vec3[T](c.World.OutOfBounds.Position),
		},
	}, nil
}

// Vec3 converts a configured triple into a vector of T.
func Vec3[T num.Float[T]](v [3]float64) num.Vec3[T] { return vec3[T](v) }
