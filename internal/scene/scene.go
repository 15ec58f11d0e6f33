// Package scene builds the initial body collection described by a configuration.
package scene

import (
	"math/rand"

	"github.com/san-kum/gridsolver/internal/body"
	"github.com/san-kum/gridsolver/internal/config"
	"github.com/san-kum/gridsolver/internal/num"
)

// Build scatters every spawn group uniformly within its range, in configuration
// order. The same seed always yields the same bodies.
func Build[T num.Float[T]](cfg *config.Config) ([]body.CommonBody[T], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	bodies := make([]body.CommonBody[T], 0, cfg.Bodies())
	dt := num.FromF64[T](cfg.Dt)

	for _, group := range cfg.Spawn {
		kind, _ := body.ParseKind(group.Kind)
		velocity := config.Vec3[T](group.Velocity)

		for i := 0; i < group.Count; i++ {
			if kind == body.KindNone {
				bodies = append(bodies, body.None[T]())
				continue
			}

			var p [3]float64
			for axis := 0; axis < 3; axis++ {
				p[axis] = group.Min[axis] + rng.Float64()*(group.Max[axis]-group.Min[axis])
			}
			position := config.Vec3[T](p)

			var b body.CommonBody[T]
			switch kind {
			case body.KindCuboid:
				b = body.NewCuboid(position, config.Vec3[T](group.HalfSize))
			case body.KindSphere:
				b = body.NewSphere(position, num.FromF64[T](group.Radius))
			}
			b.Particle.PreviousPosition = position.Sub(velocity.Scale(dt))
			bodies = append(bodies, b)
		}
	}
	return bodies, nil
}
