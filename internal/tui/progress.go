package tui

import (
	"fmt"
	"io"
	"time"

	"github.com/san-kum/gridsolver/internal/metrics"
)

// Progress is a sim.Observer that rewrites one status line at a bounded rate.
type Progress struct {
	out       io.Writer
	total     int
	frameRate int
	lastFrame time.Time
	now       func() time.Time
}

func NewProgress(out io.Writer, total, frameRate int) *Progress {
	return &Progress{out: out, total: total, frameRate: max(frameRate, 1), now: time.Now}
}

func (p *Progress) OnStep(step int, s metrics.Sample) {
	done := step+1 == p.total
	if !done && p.now().Sub(p.lastFrame) < time.Second/time.Duration(p.frameRate) {
		return
	}
	p.lastFrame = p.now()

	line := fmt.Sprintf("%s %s  %s %s  %s %s  %s %s",
		dim.Render("step"), white.Render(fmt.Sprintf("%d/%d", step+1, p.total)),
		dim.Render("live"), white.Render(fmt.Sprint(s.Live)),
		dim.Render("pairs"), cyan.Render(fmt.Sprint(s.Pairs)),
		dim.Render("peak"), cyan.Render(fmt.Sprint(s.MaxBucket)),
	)
	fmt.Fprint(p.out, "\r\033[K"+line)
	if done {
		fmt.Fprintln(p.out)
	}
}
