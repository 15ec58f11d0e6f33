package solver

import "golang.org/x/sync/errgroup"

// parallelFor splits [0, n) into contiguous chunks of at least minChunk items and
// runs fn on each, returning once every chunk has finished.
func parallelFor(n, minChunk, workers int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	if workers <= 1 || n <= minChunk {
		fn(0, n)
		return
	}
	if limit := n / minChunk; limit < workers {
		workers = max(limit, 1)
	}
	chunk := (n + workers - 1) / workers

	var g errgroup.Group
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		g.Go(func() error {
			fn(start, end)
			return nil
		})
	}
	_ = g.Wait()
}

// pair returns pointers to bodies[lhs] and bodies[rhs] taken from the two windows of
// the slice either side of max(lhs, rhs). It panics when lhs == rhs.
func pair[B any](bodies []B, lhs, rhs int) (*B, *B) {
	if lhs < rhs {
		head, tail := bodies[:rhs], bodies[rhs:]
		return &head[lhs], &tail[0]
	}
	head, tail := bodies[:lhs], bodies[lhs:]
	return &tail[0], &head[rhs]
}
