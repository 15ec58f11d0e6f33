package solver

import "github.com/san-kum/gridsolver/internal/num"

type f64 = num.F64

// tracer records every call the solver makes on it. It is not Relocatable.
type tracer struct {
	index    int
	position num.Vec3[f64]
	none     bool
	passive  bool
	updates  int
	calls    *[][2]int
}

func (p *tracer) IsNone() bool                     { return p.none }
func (p *tracer) PositionUnchecked() num.Vec3[f64] { return p.position }
func (p *tracer) Update(_, _ num.Vec3[f64], _ f64) { p.updates++ }
func (p *tracer) CollideWithOthers() bool          { return !p.passive }
func (p *tracer) Collide(_ *tracer, otherIndex int, _ f64) {
	*p.calls = append(*p.calls, [2]int{p.index, otherIndex})
}

func tracers(calls *[][2]int, positions ...num.Vec3[f64]) []tracer {
	out := make([]tracer, len(positions))
	for i, pos := range positions {
		out[i] = tracer{index: i, position: pos, calls: calls}
	}
	return out
}

func vec(x, y, z float64) num.Vec3[f64] {
	return num.Vec3[f64]{f64(x), f64(y), f64(z)}
}

func unitConfig(size int, origin num.Vec3[f64]) Config[f64] {
	return Config[f64]{
		Dampening:           num.Splat[f64](1),
		GridSize:            [3]int{size, size, size},
		CellSize:            [3]int{1, 1, 1},
		GridOrigin:          origin,
		OutsideOfGridBounds: Continue[f64](),
	}
}
