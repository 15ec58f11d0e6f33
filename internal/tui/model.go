package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/gridsolver/internal/metrics"
	"github.com/san-kum/gridsolver/internal/sim"
)

const (
	frameInterval = 33 * time.Millisecond
	historyLen    = 60
	chromeRows    = 8
)

var sparks = []rune("▁▂▃▄▅▆▇█")

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Factory builds a fresh world; the live view calls it again on reset.
type Factory func() (sim.Stepper, error)

type Model struct {
	name    string
	factory Factory
	world   sim.Stepper
	canvas  *Canvas

	paused        bool
	stepsPerFrame int
	step          int
	last          metrics.Sample
	history       []float64
	err           error

	width  int
	height int
}

func NewModel(name string, factory Factory) (*Model, error) {
	world, err := factory()
	if err != nil {
		return nil, err
	}
	return &Model{
		name:          name,
		factory:       factory,
		world:         world,
		canvas:        NewCanvas(60, 20),
		stepsPerFrame: 1,
		history:       make([]float64, 0, historyLen),
		width:         80,
		height:        28,
	}, nil
}

func (m *Model) Init() tea.Cmd { return tick() }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.canvas.Resize(m.width-4, m.height-chromeRows)
		return m, nil
	case tickMsg:
		if !m.paused {
			m.advance(m.stepsPerFrame)
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case " ":
		m.paused = !m.paused
	case "r":
		m.reset()
	case "+", "=":
		m.stepsPerFrame = min(m.stepsPerFrame*2, 64)
	case "-":
		m.stepsPerFrame = max(m.stepsPerFrame/2, 1)
	case "n":
		if m.paused {
			m.advance(1)
		}
	}
	return m, nil
}

func (m *Model) advance(n int) {
	for i := 0; i < n; i++ {
		m.last = m.world.Step()
		m.step++
	}
	m.history = append(m.history, float64(m.last.Pairs))
	if len(m.history) > historyLen {
		m.history = m.history[1:]
	}
}

func (m *Model) reset() {
	world, err := m.factory()
	if err != nil {
		m.err = err
		return
	}
	m.world = world
	m.step = 0
	m.last = metrics.Sample{}
	m.history = m.history[:0]
	m.err = nil
}

func (m *Model) View() string {
	lo, hi := m.world.Bounds()
	m.canvas.Project(m.world.Points(), lo, hi)

	status := green.Render("running")
	if m.paused {
		status = yellow.Render("paused")
	}
	title := header.Render(fmt.Sprintf("gridsolver  %s", m.name)) + "  " + status

	stats := fmt.Sprintf("%s %s  %s %s  %s %s  %s %s  %s %s",
		dim.Render("step"), white.Render(fmt.Sprint(m.step)),
		dim.Render("live"), white.Render(fmt.Sprint(m.last.Live)),
		dim.Render("pairs"), cyan.Render(fmt.Sprint(m.last.Pairs)),
		dim.Render("cells"), cyan.Render(fmt.Sprintf("%d/%d", m.last.OccupiedCells, m.world.Buckets())),
		dim.Render("oob"), magenta.Render(fmt.Sprint(m.last.OutOfBounds)),
	)
	timing := fmt.Sprintf("%s %s  %s %s  %s %s",
		dim.Render("peak"), white.Render(fmt.Sprint(m.last.MaxBucket)),
		dim.Render("step"), white.Render(m.last.Elapsed.Round(time.Microsecond).String()),
		dim.Render("x"), white.Render(fmt.Sprint(m.stepsPerFrame)),
	)

	parts := []string{
		title,
		frame.Render(strings.Join(m.canvas.Lines(), "\n")),
		stats,
		timing + "  " + dim.Render("pairs ") + sparkline(m.history),
		dimmer.Render("space pause · n step · +/- speed · r reset · q quit"),
	}
	if m.err != nil {
		parts = append(parts, magenta.Render(m.err.Error()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = min(lo, v), max(hi, v)
	}
	var b strings.Builder
	for _, v := range values {
		i := 0
		if hi > lo {
			i = int((v - lo) / (hi - lo) * float64(len(sparks)-1))
		}
		b.WriteRune(sparks[i])
	}
	return b.String()
}

// Run opens the live view full screen and blocks until the user quits.
func Run(name string, factory Factory) error {
	m, err := NewModel(name, factory)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
