package tui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/gridsolver/internal/metrics"
	"github.com/san-kum/gridsolver/internal/sim"
	"github.com/san-kum/gridsolver/internal/solver"
)

type fakeWorld struct {
	steps  int
	points []sim.Point
}

func (f *fakeWorld) Step() metrics.Sample {
	f.steps++
	return metrics.Sample{StepStats: solver.StepStats{Step: f.steps, Live: len(f.points), Pairs: f.steps}}
}
func (f *fakeWorld) Points() []sim.Point           { return f.points }
func (f *fakeWorld) Bounds() (min, max [3]float64) { return [3]float64{0, 0, 0}, [3]float64{10, 10, 10} }
func (f *fakeWorld) Buckets() int                  { return 8 }

func pointAt(x, z float64) sim.Point {
	return sim.Point{Kind: "sphere", Position: [3]float64{x, 5, z}}
}

func TestCanvasProject(t *testing.T) {
	c := NewCanvas(10, 5)
	points := []sim.Point{pointAt(0, 0), pointAt(0.5, 1), pointAt(10, 10), pointAt(5, 5), pointAt(-1, 5), pointAt(5, 11)}
	c.Project(points, [3]float64{0, 0, 0}, [3]float64{10, 10, 10})

	tests := []struct{ col, row, want int }{
		{0, 0, 2},
		{9, 4, 1},
		{5, 2, 1},
		{1, 1, 0},
	}
	for _, tt := range tests {
		if got := c.At(tt.col, tt.row); got != tt.want {
			t.Errorf("cell (%d,%d): expected %d, got %d", tt.col, tt.row, tt.want, got)
		}
	}

	lines := c.Lines()
	if len(lines) != 5 || len([]rune(lines[0])) != 10 {
		t.Fatalf("expected 5 lines of 10 glyphs, got %q", lines)
	}
	if r := []rune(lines[0])[0]; r != '@' {
		t.Errorf("expected densest glyph in the corner, got %q", r)
	}
	if r := []rune(lines[1])[1]; r != ' ' {
		t.Errorf("expected empty glyph, got %q", r)
	}
}

func TestGlyphScale(t *testing.T) {
	if glyph(0, 5) != ' ' || glyph(5, 5) != '@' || glyph(1, 5) != '.' {
		t.Errorf("unexpected glyphs %q %q %q", glyph(0, 5), glyph(5, 5), glyph(1, 5))
	}
	if glyph(1, 1) != '.' {
		t.Errorf("expected a lone body to use the lightest glyph, got %q", glyph(1, 1))
	}
}

func TestModelKeys(t *testing.T) {
	builds := 0
	m, err := NewModel("test", func() (sim.Stepper, error) {
		builds++
		return &fakeWorld{points: []sim.Point{pointAt(1, 1)}}, nil
	})
	if err != nil {
		t.Fatal(err)
	}

	m.Update(tickMsg(time.Now()))
	m.Update(tickMsg(time.Now()))
	if m.step != 2 {
		t.Errorf("expected 2 steps, got %d", m.step)
	}

	m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m.Update(tickMsg(time.Now()))
	if !m.paused || m.step != 2 {
		t.Errorf("expected paused at step 2, got paused=%v step=%d", m.paused, m.step)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	if m.step != 3 {
		t.Errorf("expected single step to 3, got %d", m.step)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'+'}})
	if m.stepsPerFrame != 2 {
		t.Errorf("expected 2 steps per frame, got %d", m.stepsPerFrame)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	if builds != 2 || m.step != 0 || len(m.history) != 0 {
		t.Errorf("expected reset world, got builds=%d step=%d", builds, m.step)
	}

	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}); cmd == nil {
		t.Error("expected quit command")
	}

	view := m.View()
	if !strings.Contains(view, "test") || !strings.Contains(view, "paused") {
		t.Errorf("view missing name or status:\n%s", view)
	}
}

func TestSparkline(t *testing.T) {
	if got := sparkline([]float64{0, 7, 14}); got != "▁▄█" {
		t.Errorf("expected ▁▄█, got %s", got)
	}
	if got := sparkline([]float64{3, 3}); got != "▁▁" {
		t.Errorf("expected flat line, got %s", got)
	}
}

func TestProgressThrottles(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf, 3, 1)
	now := time.Unix(100, 0)
	p.now = func() time.Time { return now }

	p.OnStep(0, metrics.Sample{})
	p.OnStep(1, metrics.Sample{})
	if n := strings.Count(buf.String(), "\r"); n != 1 {
		t.Errorf("expected 1 frame within the interval, got %d", n)
	}

	p.OnStep(2, metrics.Sample{})
	if !strings.HasSuffix(buf.String(), "\n") || strings.Count(buf.String(), "\r") != 2 {
		t.Errorf("expected final frame and newline, got %q", buf.String())
	}
}
