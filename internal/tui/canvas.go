package tui

import (
	"strings"

	"github.com/san-kum/gridsolver/internal/sim"
)

// glyphs map body density to characters, emptiest first.
var glyphs = []rune(" .:-=+*#%@")

// Canvas is a top-down density map of the world: columns follow x, rows follow z.
type Canvas struct {
	width, height int
	counts        []int
}

func NewCanvas(width, height int) *Canvas {
	c := &Canvas{}
	c.Resize(width, height)
	return c
}

func (c *Canvas) Resize(width, height int) {
	c.width, c.height = max(width, 1), max(height, 1)
	c.counts = make([]int, c.width*c.height)
}

func (c *Canvas) Size() (int, int) { return c.width, c.height }

// Project counts the points that fall in each character cell. Points outside the
// bounds on x or z are dropped.
func (c *Canvas) Project(points []sim.Point, lo, hi [3]float64) {
	clear(c.counts)
	spanX, spanZ := hi[0]-lo[0], hi[2]-lo[2]
	if spanX <= 0 || spanZ <= 0 {
		return
	}
	for _, p := range points {
		fx := (p.Position[0] - lo[0]) / spanX
		fz := (p.Position[2] - lo[2]) / spanZ
		if fx < 0 || fx > 1 || fz < 0 || fz > 1 {
			continue
		}
		col := int(fx * float64(c.width))
		row := int(fz * float64(c.height))
		if col == c.width {
			col--
		}
		if row == c.height {
			row--
		}
		c.counts[row*c.width+col]++
	}
}

// At returns the number of points projected onto a character cell.
func (c *Canvas) At(col, row int) int { return c.counts[row*c.width+col] }

// Lines renders the canvas, scaling glyphs to the densest cell.
func (c *Canvas) Lines() []string {
	peak := 0
	for _, n := range c.counts {
		peak = max(peak, n)
	}

	lines := make([]string, c.height)
	var b strings.Builder
	for row := 0; row < c.height; row++ {
		b.Reset()
		for col := 0; col < c.width; col++ {
			b.WriteRune(glyph(c.counts[row*c.width+col], peak))
		}
		lines[row] = b.String()
	}
	return lines
}

func glyph(n, peak int) rune {
	if n == 0 || peak == 0 {
		return glyphs[0]
	}
	i := 1 + (n-1)*(len(glyphs)-2)/max(peak-1, 1)
	return glyphs[min(i, len(glyphs)-1)]
}
