// Package grid implements the uniform spatial grid used for broad-phase neighbour discovery.
//
// The grid is a flat array of buckets holding body indices. Cell coordinates are
// flattened with x varying fastest and x*y as the stride of z. Buckets keep their
// backing storage between steps; [SpatialGrid.Clear] shrinks any bucket that used at
// most half of what it retained.
package grid

import "github.com/san-kum/gridsolver/internal/num"

// MaxNeighbours is the width of the 3x3x3 stencil, centre cell included.
const MaxNeighbours = 27

type SpatialGrid struct {
	size    [3]int
	buckets [][]int
}

// New allocates an empty grid of size[0]*size[1]*size[2] buckets.
func New(size [3]int) *SpatialGrid {
	return &SpatialGrid{
		size:    size,
		buckets: make([][]int, size[0]*size[1]*size[2]),
	}
}

func (g *SpatialGrid) Size() [3]int { return g.size }
func (g *SpatialGrid) Len() int     { return len(g.buckets) }

// Contains reports whether cell lies inside [0, size) on every axis.
func (g *SpatialGrid) Contains(cell [3]int) bool {
	return cell[0] >= 0 && cell[0] < g.size[0] &&
		cell[1] >= 0 && cell[1] < g.size[1] &&
		cell[2] >= 0 && cell[2] < g.size[2]
}

func (g *SpatialGrid) CellIndex(cell [3]int) int {
	return num.IndexFromPosition3D(cell, g.size[0], g.size[1])
}

func (g *SpatialGrid) CellPosition(index int) [3]int {
	return num.PositionFromIndex3D(index, g.size[0], g.size[1])
}

// Insert appends body to the bucket at index. It returns false, leaving the grid
// untouched, when index does not address a bucket.
func (g *SpatialGrid) Insert(index, body int) bool {
	if index < 0 || index >= len(g.buckets) {
		return false
	}
	g.buckets[index] = append(g.buckets[index], body)
	return true
}

// Bucket returns the bucket at index. The slice is only valid until the next Clear.
func (g *SpatialGrid) Bucket(index int) []int { return g.buckets[index] }

// Cap returns the retained capacity of the bucket at index.
func (g *SpatialGrid) Cap(index int) int { return cap(g.buckets[index]) }

// Clear empties every bucket for reuse. A bucket whose length is at most half its
// capacity has its storage shrunk to its length first. Buckets that never grew are
// skipped.
func (g *SpatialGrid) Clear() {
	for i, b := range g.buckets {
		if cap(b) == 0 {
			continue
		}
		if len(b) <= cap(b)/2 {
			if len(b) == 0 {
				g.buckets[i] = nil
			} else {
				g.buckets[i] = make([]int, 0, len(b))
			}
			continue
		}
		g.buckets[i] = b[:0]
	}
}

// Neighbourhood is the set of existing buckets around a cell, the cell itself
// included. Only the first Len slots are populated.
type Neighbourhood struct {
	buckets [MaxNeighbours][]int
	cells   [MaxNeighbours]int
	n       int
}

func (n *Neighbourhood) Len() int { return n.n }

// Reset drops the bucket references so cleared buckets can be collected.
func (n *Neighbourhood) Reset() { *n = Neighbourhood{} }

// At returns the i-th neighbouring bucket.
func (n *Neighbourhood) At(i int) []int { return n.buckets[i] }

// CellAt returns the flat cell index of the i-th neighbouring bucket.
func (n *Neighbourhood) CellAt(i int) int { return n.cells[i] }

// Neighbours fills out with the buckets at offsets {-1,0,1}^3 around the cell at
// index, clipped to the grid. Offsets are enumerated x outermost, z innermost.
func (g *SpatialGrid) Neighbours(index int, out *Neighbourhood) {
	out.n = 0
	centre := g.CellPosition(index)
	for x := -1; x <= 1; x++ {
		for y := -1; y <= 1; y++ {
			for z := -1; z <= 1; z++ {
				cell := [3]int{centre[0] + x, centre[1] + y, centre[2] + z}
				if !g.Contains(cell) {
					continue
				}
				idx := g.CellIndex(cell)
				out.buckets[out.n] = g.buckets[idx]
				out.cells[out.n] = idx
				out.n++
			}
		}
	}
}

// Stats summarises the grid contents.
type Stats struct {
	Buckets  int
	Occupied int
	Entries  int
	// MaxBucket is the length of the fullest bucket.
	MaxBucket int
	// Retained is the summed capacity across buckets.
	Retained int
}

func (g *SpatialGrid) Stats() Stats {
	s := Stats{Buckets: len(g.buckets)}
	for _, b := range g.buckets {
		s.Retained += cap(b)
		if len(b) == 0 {
			continue
		}
		s.Occupied++
		s.Entries += len(b)
		if len(b) > s.MaxBucket {
			s.MaxBucket = len(b)
		}
	}
	return s
}
