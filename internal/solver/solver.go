package solver

import (
	"fmt"
	"time"

	"github.com/san-kum/gridsolver/internal/aabb"
	"github.com/san-kum/gridsolver/internal/body"
	"github.com/san-kum/gridsolver/internal/grid"
	"github.com/san-kum/gridsolver/internal/num"
)

// Solver owns a body collection and the grid it is bucketed into. B is the stored body
// value and PB the pointer type that implements body.Body.
type Solver[T num.Float[T], B any, PB interface {
	*B
	body.Body[T, PB]
}] struct {
	cfg    Config[T]
	opts   options
	bodies []B
	grid   *grid.SpatialGrid
	bounds aabb.MinMax[T]

	neighbours grid.Neighbourhood
	removals   []int
	step       int
	stats      StepStats
}

// New validates cfg against the body type and takes ownership of bodies.
func New[T num.Float[T], B any, PB interface {
	*B
	body.Body[T, PB]
}](cfg Config[T], bodies []B, opts ...Option) (*Solver[T, B, PB], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.OutsideOfGridBounds.Policy.relocates() {
		var zero B
		if _, ok := any(PB(&zero)).(body.Relocatable[T]); !ok {
			return nil, fmt.Errorf("%w: %v needs %T to implement Relocatable",
				ErrPolicyUnsupported, cfg.OutsideOfGridBounds.Policy, PB(&zero))
		}
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	extent := cfg.Extent()
	o.logger.Debug("solver configured",
		"bodies", len(bodies),
		"grid", cfg.GridSize,
		"cell_size", cfg.CellSize,
		"origin", cfg.GridOrigin,
		"policy", cfg.OutsideOfGridBounds.Policy,
		"workers", o.workers,
	)

	var span num.Vec3[T]
	for axis := 0; axis < 3; axis++ {
		span[axis] = T(extent[axis])
	}

	return &Solver[T, B, PB]{
		cfg:    cfg,
		opts:   o,
		bodies: bodies,
		grid:   grid.New(cfg.GridSize),
		bounds: aabb.MinMax[T]{Min: cfg.GridOrigin, Max: cfg.GridOrigin.Add(span)},
	}, nil
}

func (s *Solver[T, B, PB]) Config() Config[T] { return s.cfg }

// Bodies exposes the body storage. Indices are only stable until the next Update
// under a removing policy.
func (s *Solver[T, B, PB]) Bodies() []B { return s.bodies }

func (s *Solver[T, B, PB]) Len() int { return len(s.bodies) }

// Body returns a pointer to the body at index i.
func (s *Solver[T, B, PB]) Body(i int) PB { return PB(&s.bodies[i]) }

// AddBody appends b and returns its index.
func (s *Solver[T, B, PB]) AddBody(b B) int {
	s.bodies = append(s.bodies, b)
	return len(s.bodies) - 1
}

// Bounds returns the world-space box covered by the grid.
func (s *Solver[T, B, PB]) Bounds() aabb.MinMax[T] { return s.bounds }

// Grid returns the bucket storage. It is empty between steps.
func (s *Solver[T, B, PB]) Grid() *grid.SpatialGrid { return s.grid }

// LastStats returns the statistics of the most recent Update.
func (s *Solver[T, B, PB]) LastStats() StepStats { return s.stats }

// Steps returns the number of completed updates.
func (s *Solver[T, B, PB]) Steps() int { return s.step }

func (s *Solver[T, B, PB]) AddObserver(obs Observer) {
	s.opts.observers = append(s.opts.observers, obs)
}

func (s *Solver[T, B, PB]) SetWorkers(n int) { s.opts.workers = n }

// Update advances every body by dt and resolves the collisions found afterwards.
//
// Update panics with a *BucketIndexError if a body passes the bounds check but maps
// outside the bucket array.
func (s *Solver[T, B, PB]) Update(dt T) {
	start := time.Now()
	s.stats = StepStats{Step: s.step + 1}

	s.integrate(dt)
	s.enforceBounds()
	s.assign()
	s.collide(dt)

	gs := s.grid.Stats()
	s.stats.OccupiedCells = gs.Occupied
	s.stats.MaxBucket = gs.MaxBucket
	s.grid.Clear()

	s.step++
	s.stats.Bodies = len(s.bodies)
	s.stats.Elapsed = time.Since(start)
	for _, obs := range s.opts.observers {
		obs.OnStep(s.stats)
	}
}

func (s *Solver[T, B, PB]) integrate(dt T) {
	gravity, dampening := s.cfg.Gravity, s.cfg.Dampening
	parallelFor(len(s.bodies), s.opts.minChunk, s.opts.workers, func(start, end int) {
		for i := start; i < end; i++ {
			b := PB(&s.bodies[i])
			if b.IsNone() {
				continue
			}
			b.Update(gravity, dampening, dt)
		}
	})
}

// enforceBounds applies every policy except ContinueUpdating, which assign honours by
// skipping the body.
func (s *Solver[T, B, PB]) enforceBounds() {
	policy := s.cfg.OutsideOfGridBounds.Policy
	if policy == ContinueUpdating {
		return
	}

	for i := range s.bodies {
		b := PB(&s.bodies[i])
		if b.IsNone() {
			continue
		}
		position := b.PositionUnchecked()
		if _, inside := s.cfg.locate(position); inside {
			continue
		}
		s.stats.OutOfBounds++

		switch {
		case policy.removes():
			s.removals = append(s.removals, i)
		case policy == PutParticleInBounds:
			any(b).(body.Relocatable[T]).Teleport(s.clampInside(position))
			s.stats.Relocated++
		case policy == TeleportParticleToPosition:
			any(b).(body.Relocatable[T]).Teleport(s.cfg.OutsideOfGridBounds.Position)
			s.stats.Relocated++
		}
	}

	if len(s.removals) > 0 {
		s.remove(policy)
	}
}

// clampInside limits position to the grid box, then steps any coordinate on the upper
// face down until it truncates into the last cell.
func (s *Solver[T, B, PB]) clampInside(position num.Vec3[T]) num.Vec3[T] {
	p := s.bounds.Clamp(position)
	extent := s.cfg.Extent()
	for axis := 0; axis < 3; axis++ {
		for (p[axis] - s.cfg.GridOrigin[axis]).ToIsize() > extent[axis]-1 {
			p[axis] = p[axis].NextDown()
		}
	}
	return p
}

// remove drops the bodies listed in s.removals, which is ascending.
func (s *Solver[T, B, PB]) remove(policy Policy) {
	switch policy {
	case DeleteParticle:
		keep, r := 0, 0
		for i := range s.bodies {
			if r < len(s.removals) && s.removals[r] == i {
				r++
				continue
			}
			s.bodies[keep] = s.bodies[i]
			keep++
		}
		clear(s.bodies[keep:])
		s.bodies = s.bodies[:keep]
	case SwapDeleteParticle:
		for r := len(s.removals) - 1; r >= 0; r-- {
			i, last := s.removals[r], len(s.bodies)-1
			s.bodies[i] = s.bodies[last]
			clear(s.bodies[last:])
			s.bodies = s.bodies[:last]
		}
	}
	s.stats.Removed = len(s.removals)
	s.removals = s.removals[:0]
}

// assign buckets every live body that lies in the grid.
func (s *Solver[T, B, PB]) assign() {
	for i := range s.bodies {
		b := PB(&s.bodies[i])
		if b.IsNone() {
			continue
		}
		s.stats.Live++

		position := b.PositionUnchecked()
		corrected, inside := s.cfg.locate(position)
		if !inside {
			// Only ContinueUpdating leaves bodies outside the grid by now.
			s.stats.OutOfBounds++
			continue
		}

		var cell [3]int
		for axis := 0; axis < 3; axis++ {
			cell[axis] = corrected[axis] / s.cfg.CellSize[axis]
		}
		index := s.grid.CellIndex(cell)
		if !s.grid.Insert(index, i) {
			s.fatal(i, position, cell, index)
		}
		s.stats.Bucketed++
	}
}

func (s *Solver[T, B, PB]) fatal(i int, position num.Vec3[T], cell [3]int, index int) {
	corrected := position.Sub(s.cfg.GridOrigin)
	err := &BucketIndexError{
		Body:      i,
		Position:  [3]float64{float64(position[0]), float64(position[1]), float64(position[2])},
		Corrected: [3]float64{float64(corrected[0]), float64(corrected[1]), float64(corrected[2])},
		Cell:      cell,
		Index:     index,
		Buckets:   s.grid.Len(),
	}
	s.opts.logger.Error("bucket assignment failed",
		"body", i,
		"position", err.Position,
		"corrected", err.Corrected,
		"cell", cell,
		"index", index,
		"buckets", err.Buckets,
		"grid", s.cfg.GridSize,
		"cell_size", s.cfg.CellSize,
		"origin", s.cfg.GridOrigin,
	)
	panic(err)
}

// collide sweeps occupied cells and resolves each pair found in their stencils once.
func (s *Solver[T, B, PB]) collide(dt T) {
	for cell := 0; cell < s.grid.Len(); cell++ {
		bucket := s.grid.Bucket(cell)
		if len(bucket) == 0 {
			continue
		}
		s.grid.Neighbours(cell, &s.neighbours)

		for _, lhs := range bucket {
			if !PB(&s.bodies[lhs]).CollideWithOthers() {
				continue
			}
			for n := 0; n < s.neighbours.Len(); n++ {
				for _, rhs := range s.neighbours.At(n) {
					if rhs == lhs {
						continue
					}
					// The smaller index initiates when both sides collide.
					if rhs < lhs && PB(&s.bodies[rhs]).CollideWithOthers() {
						continue
					}
					a, b := pair(s.bodies, lhs, rhs)
					PB(a).Collide(PB(b), rhs, dt)
					s.stats.Pairs++
				}
			}
		}
	}
	s.neighbours.Reset()
}
