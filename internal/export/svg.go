// Package export renders stored runs as standalone SVG documents.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/gridsolver/internal/sim"
)

var kindColors = map[string]string{
	"cuboid": "#5fd7d7",
	"sphere": "#ff87ff",
	"none":   "#444444",
}

// BodiesSVG draws a top-down view of points: x runs right and z runs down. Points
// outside [lo, hi] on x or z are left out. Tombstones are never drawn.
func BodiesSVG(w io.Writer, points []sim.Point, lo, hi [3]float64, width, height int) error {
	spanX, spanZ := hi[0]-lo[0], hi[2]-lo[2]
	if spanX <= 0 || spanZ <= 0 {
		return fmt.Errorf("export: empty bounds %v to %v", lo, hi)
	}

	var sb strings.Builder
	header(&sb, width, height)
	fmt.Fprintf(&sb, "<rect x=\"0.5\" y=\"0.5\" width=\"%d\" height=\"%d\" fill=\"none\" stroke=\"#444466\"/>\n", width-1, height-1)

	r := max(float64(width)/400, 1)
	for _, p := range points {
		if p.Kind == "none" {
			continue
		}
		fx := (p.Position[0] - lo[0]) / spanX
		fz := (p.Position[2] - lo[2]) / spanZ
		if fx < 0 || fx > 1 || fz < 0 || fz > 1 {
			continue
		}
		color, ok := kindColors[p.Kind]
		if !ok {
			color = "#ffffff"
		}
		fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\" fill=\"%s\"/>\n",
			fx*float64(width), fz*float64(height), r, color)
	}

	sb.WriteString("</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

// SeriesSVG draws values as a polyline scaled to fill the document with a ten
// percent margin on the value axis.
func SeriesSVG(w io.Writer, values []float64, width, height int, stroke string) error {
	if len(values) < 2 {
		return fmt.Errorf("export: need at least two values, got %d", len(values))
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = min(lo, v), max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}
	lo -= span * 0.1
	span *= 1.2

	var sb strings.Builder
	header(&sb, width, height)
	fmt.Fprintf(&sb, "<path fill=\"none\" stroke=\"%s\" stroke-width=\"1.5\" d=\"M", stroke)
	last := float64(len(values) - 1)
	for i, v := range values {
		x := float64(i) / last * float64(width)
		y := float64(height) - (v-lo)/span*float64(height)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}
	sb.WriteString("\"/>\n</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

func header(sb *strings.Builder, width, height int) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)
}
