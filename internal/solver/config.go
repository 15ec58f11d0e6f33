package solver

import (
	"fmt"
	"math"

	"github.com/san-kum/gridsolver/internal/num"
)

// Policy selects what happens to a body whose cell falls outside the grid.
type Policy uint8

const (
	// ContinueUpdating leaves the body untouched and unbucketed for the step.
	ContinueUpdating Policy = iota
	// SwapDeleteParticle removes the body by swapping in the last one.
	SwapDeleteParticle
	// DeleteParticle removes the body, keeping the order of the rest.
	DeleteParticle
	// PutParticleInBounds clamps the body onto the grid boundary.
	PutParticleInBounds
	// TeleportParticleToPosition moves the body to a fixed position.
	TeleportParticleToPosition
)

var policyNames = map[Policy]string{
	ContinueUpdating:           "continue",
	SwapDeleteParticle:         "swap_delete",
	DeleteParticle:             "delete",
	PutParticleInBounds:        "clamp",
	TeleportParticleToPosition: "teleport",
}

func (p Policy) String() string {
	if name, ok := policyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("policy(%d)", uint8(p))
}

func ParsePolicy(s string) (Policy, error) {
	for p, name := range policyNames {
		if name == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown policy %q", ErrPolicyUnsupported, s)
}

// relocates reports whether the policy moves bodies and so needs body.Relocatable.
func (p Policy) relocates() bool {
	return p == PutParticleInBounds || p == TeleportParticleToPosition
}

func (p Policy) removes() bool {
	return p == SwapDeleteParticle || p == DeleteParticle
}

// OutsideOfGridBoundsBehaviour is the per-solver out-of-bounds policy. Position is
// only read by TeleportParticleToPosition.
type OutsideOfGridBoundsBehaviour[T num.Float[T]] struct {
	Policy   Policy
	Position num.Vec3[T]
}

func Continue[T num.Float[T]]() OutsideOfGridBoundsBehaviour[T] {
	return OutsideOfGridBoundsBehaviour[T]{Policy: ContinueUpdating}
}

func SwapDelete[T num.Float[T]]() OutsideOfGridBoundsBehaviour[T] {
	return OutsideOfGridBoundsBehaviour[T]{Policy: SwapDeleteParticle}
}

func Delete[T num.Float[T]]() OutsideOfGridBoundsBehaviour[T] {
	return OutsideOfGridBoundsBehaviour[T]{Policy: DeleteParticle}
}

func PutInBounds[T num.Float[T]]() OutsideOfGridBoundsBehaviour[T] {
	return OutsideOfGridBoundsBehaviour[T]{Policy: PutParticleInBounds}
}

func TeleportTo[T num.Float[T]](position num.Vec3[T]) OutsideOfGridBoundsBehaviour[T] {
	return OutsideOfGridBoundsBehaviour[T]{Policy: TeleportParticleToPosition, Position: position}
}

// Config holds the construction parameters of a Solver. None of them have defaults.
type Config[T num.Float[T]] struct {
	Gravity num.Vec3[T]
	// Dampening is the per-axis fraction of implicit velocity kept each step; 1 is undamped.
	Dampening num.Vec3[T]
	// GridSize is the number of cells per axis.
	GridSize [3]int
	// GridOrigin is the world position of the grid's minimum corner.
	GridOrigin num.Vec3[T]
	// CellSize is the extent of one cell per axis, in world units.
	CellSize            [3]int
	OutsideOfGridBounds OutsideOfGridBoundsBehaviour[T]
}

// maxBuckets bounds the bucket array so the flat index never overflows.
const maxBuckets = math.MaxInt32

// Extent returns the world-unit size of the grid per axis.
func (c Config[T]) Extent() [3]int {
	return [3]int{c.GridSize[0] * c.CellSize[0], c.GridSize[1] * c.CellSize[1], c.GridSize[2] * c.CellSize[2]}
}

// Validate checks everything that does not depend on the body type.
func (c Config[T]) Validate() error {
	buckets := 1
	for axis := 0; axis < 3; axis++ {
		if c.GridSize[axis] <= 0 {
			return fmt.Errorf("%w: axis %d is %d", ErrInvalidGrid, axis, c.GridSize[axis])
		}
		if c.CellSize[axis] <= 0 {
			return fmt.Errorf("%w: axis %d is %d", ErrInvalidCellSize, axis, c.CellSize[axis])
		}
		if c.GridSize[axis] > maxBuckets/buckets {
			return fmt.Errorf("%w: %v", ErrGridTooLarge, c.GridSize)
		}
		buckets *= c.GridSize[axis]
		if c.CellSize[axis] > maxBuckets/c.GridSize[axis] {
			return fmt.Errorf("%w: extent of axis %d overflows", ErrGridTooLarge, axis)
		}
	}

	if _, ok := policyNames[c.OutsideOfGridBounds.Policy]; !ok {
		return fmt.Errorf("%w: %v", ErrPolicyUnsupported, c.OutsideOfGridBounds.Policy)
	}
	if c.OutsideOfGridBounds.Policy == TeleportParticleToPosition {
		if _, ok := c.locate(c.OutsideOfGridBounds.Position); !ok {
			return fmt.Errorf("%w: %v", ErrTeleportOutOfBounds, c.OutsideOfGridBounds.Position)
		}
	}
	return nil
}

// locate maps a world position to the truncated grid-relative coordinate it occupies
// and reports whether that coordinate lies within [0, extent) on every axis.
func (c Config[T]) locate(position num.Vec3[T]) ([3]int, bool) {
	corrected := position.Sub(c.GridOrigin)
	extent := c.Extent()
	var out [3]int
	inside := true
	for axis := 0; axis < 3; axis++ {
		signed := corrected[axis].ToIsize()
		if signed < 0 || signed > extent[axis]-1 {
			inside = false
		}
		out[axis] = int(corrected[axis].ToUsize())
	}
	return out, inside
}
