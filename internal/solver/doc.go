// Package solver advances a collection of bodies in fixed steps over a uniform grid.
//
// Each call to [Solver.Update] runs, in order:
//
//   - integration of every live body, fork-joined across workers
//   - the out-of-bounds policy for bodies that left the grid
//   - bucket assignment, one bucket per live in-bounds body
//   - narrow-phase resolution over the 3x3x3 stencil of every occupied cell
//   - bucket cleanup, shrinking buckets that used at most half their storage
//
// Only the first phase runs in parallel. Pair resolution mutates two elements of the
// body slice at once, so it sweeps cells sequentially and reaches the pair through two
// windows of the slice split at the larger index.
//
// # Pair contract
//
// Every unordered pair of distinct bucketed bodies within each other's stencil is
// resolved once per step. The body with the smaller index initiates, unless it does not
// collide with others, in which case the larger index does. Collide is always called as
// bodies[lhs].Collide(&bodies[rhs], rhs, dt).
//
// # Thread Safety
//
// A Solver is NOT safe for concurrent use. Update blocks until every phase completes.
package solver
