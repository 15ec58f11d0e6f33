package solver

import (
	"errors"
	"fmt"
)

// Configuration errors returned by New.
var (
	// ErrInvalidGrid indicates a grid axis with no cells.
	ErrInvalidGrid = errors.New("solver: grid size must be positive on every axis")

	// ErrInvalidCellSize indicates a cell axis with no extent.
	ErrInvalidCellSize = errors.New("solver: cell size must be positive on every axis")

	// ErrGridTooLarge indicates a bucket count that cannot be allocated.
	ErrGridTooLarge = errors.New("solver: grid has too many cells")

	// ErrTeleportOutOfBounds indicates a teleport target outside the grid.
	ErrTeleportOutOfBounds = errors.New("solver: teleport position is outside the grid")

	// ErrPolicyUnsupported indicates an out-of-bounds policy the body type cannot honour.
	ErrPolicyUnsupported = errors.New("solver: out-of-bounds policy not supported")

	// ErrBucketIndex indicates a bucket index outside the grid. It is never returned,
	// only raised through a panic carrying a *BucketIndexError.
	ErrBucketIndex = errors.New("solver: bucket index out of range")
)

// BucketIndexError carries the context of a failed bucket assignment. It means the
// bounds check and the stride computation disagree.
type BucketIndexError struct {
	Body      int
	Position  [3]float64
	Corrected [3]float64
	Cell      [3]int
	Index     int
	Buckets   int
}

func (e *BucketIndexError) Error() string {
	return fmt.Sprintf("%v: body %d at position %v (corrected %v) maps to cell %v, index %d, grid has %d buckets",
		ErrBucketIndex, e.Body, e.Position, e.Corrected, e.Cell, e.Index, e.Buckets)
}

func (e *BucketIndexError) Unwrap() error {
	return ErrBucketIndex
}
