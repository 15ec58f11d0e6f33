package solver

import "time"

// StepStats describes one completed Update.
type StepStats struct {
	Step int
	// Bodies is the slot count after removals, tombstones included.
	Bodies int
	Live   int
	// Bucketed counts bodies that took part in the narrow phase.
	Bucketed    int
	OutOfBounds int
	Relocated   int
	Removed     int
	// Pairs counts Collide calls.
	Pairs         int
	OccupiedCells int
	MaxBucket     int
	Elapsed       time.Duration
}

// Observer receives the statistics of every completed step.
type Observer interface {
	OnStep(stats StepStats)
}

type ObserverFunc func(stats StepStats)

func (f ObserverFunc) OnStep(stats StepStats) { f(stats) }
