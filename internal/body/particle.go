package body

import "github.com/san-kum/gridsolver/internal/num"

// Particle is a position-Verlet point. Velocity is implicit in the distance
// between the current and previous position.
type Particle[T num.Float[T]] struct {
	Position         num.Vec3[T]
	PreviousPosition num.Vec3[T]
}

// FromPosition returns a particle at rest.
func FromPosition[T num.Float[T]](position num.Vec3[T]) Particle[T] {
	return Particle[T]{Position: position, PreviousPosition: position}
}

// Update advances one step:
// position' = position + (position - previous) * dampening + gravity * dt^2.
func (p *Particle[T]) Update(gravity, dampening num.Vec3[T], dt T) {
	displacement := p.Position.Sub(p.PreviousPosition).Mul(dampening)
	p.PreviousPosition = p.Position
	p.Position = p.Position.Add(displacement).Add(gravity.Scale(dt * dt))
}

// Displacement is the distance moved during the last step.
func (p *Particle[T]) Displacement() num.Vec3[T] {
	return p.Position.Sub(p.PreviousPosition)
}

func (p *Particle[T]) Velocity(dt T) num.Vec3[T] {
	if dt == 0 {
		return num.Vec3[T]{}
	}
	return p.Displacement().DivScalar(dt)
}

func (p *Particle[T]) Teleport(position num.Vec3[T]) {
	p.Position = position
	p.PreviousPosition = position
}

// Translate moves only the current position, so the correction shows up as velocity
// on the next update.
func (p *Particle[T]) Translate(delta num.Vec3[T]) {
	p.Position = p.Position.Add(delta)
}
