package sim

import (
	"fmt"

	"github.com/san-kum/gridsolver/internal/body"
	"github.com/san-kum/gridsolver/internal/config"
	"github.com/san-kum/gridsolver/internal/metrics"
	"github.com/san-kum/gridsolver/internal/num"
	"github.com/san-kum/gridsolver/internal/scene"
	"github.com/san-kum/gridsolver/internal/solver"
)

// World pairs a solver of built-in bodies with the step size it is driven at.
type World[T num.Float[T]] struct {
	Solver *solver.Solver[T, body.CommonBody[T], *body.CommonBody[T]]
	dt     T
}

func NewWorld[T num.Float[T]](cfg *config.Config, opts ...solver.Option) (*World[T], error) {
	sc, err := config.SolverConfig[T](cfg)
	if err != nil {
		return nil, err
	}
	bodies, err := scene.Build[T](cfg)
	if err != nil {
		return nil, err
	}
	s, err := solver.New[T, body.CommonBody[T]](sc, bodies, opts...)
	if err != nil {
		return nil, err
	}
	return &World[T]{Solver: s, dt: num.FromF64[T](cfg.Dt)}, nil
}

// NewStepper builds a world at the configured precision.
func NewStepper(cfg *config.Config, opts ...solver.Option) (Stepper, error) {
	switch cfg.Precision {
	case "f32":
		w, err := NewWorld[num.F32](cfg, opts...)
		if err != nil {
			return nil, err
		}
		return w, nil
	case "f64":
		w, err := NewWorld[num.F64](cfg, opts...)
		if err != nil {
			return nil, err
		}
		return w, nil
	}
	return nil, fmt.Errorf("%w, got %q", config.ErrInvalidPrecision, cfg.Precision)
}

func (w *World[T]) Step() metrics.Sample {
	w.Solver.Update(w.dt)
	return metrics.Sample{StepStats: w.Solver.LastStats(), KineticEnergy: w.KineticEnergy()}
}

// KineticEnergy sums |v|^2/2 over live bodies with unit mass, v being the implicit
// Verlet velocity.
func (w *World[T]) KineticEnergy() float64 {
	if w.dt == 0 {
		return 0
	}
	var total float64
	for i := range w.Solver.Bodies() {
		b := w.Solver.Body(i)
		if b.IsNone() {
			continue
		}
		total += float64(b.Particle.Velocity(w.dt).SquaredMagnitude()) / 2
	}
	return total
}

func (w *World[T]) Points() []Point {
	points := make([]Point, 0, w.Solver.Len())
	for i := range w.Solver.Bodies() {
		b := w.Solver.Body(i)
		if b.IsNone() {
			continue
		}
		p := b.Particle.Position
		points = append(points, Point{
			Kind:     b.Kind.String(),
			Position: [3]float64{float64(p[0]), float64(p[1]), float64(p[2])},
		})
	}
	return points
}

func (w *World[T]) Bounds() (min, max [3]float64) {
	box := w.Solver.Bounds()
	for axis := 0; axis < 3; axis++ {
		min[axis] = float64(box.Min[axis])
		max[axis] = float64(box.Max[axis])
	}
	return min, max
}

func (w *World[T]) Buckets() int { return w.Solver.Grid().Len() }
