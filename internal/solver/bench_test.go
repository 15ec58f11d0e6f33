package solver

import (
	"math/rand"
	"testing"

	"github.com/san-kum/gridsolver/internal/body"
	"github.com/san-kum/gridsolver/internal/num"
)

func benchConfig() Config[num.F32] {
	return Config[num.F32]{
		Gravity:             num.Vec3[num.F32]{0, 50, 0},
		Dampening:           num.Vec3[num.F32]{0.8, 1, 0.8},
		GridSize:            [3]int{10, 10, 10},
		CellSize:            [3]int{10, 10, 10},
		GridOrigin:          num.Splat[num.F32](-50),
		OutsideOfGridBounds: Continue[num.F32](),
	}
}

func BenchmarkUpdateCuboids(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	bodies := make([]body.CommonBody[num.F32], 50000)
	for i := range bodies {
		position := num.Vec3[num.F32]{
			num.F32(rng.Float32()*100 - 50),
			num.F32(rng.Float32()*100 - 50),
			num.F32(rng.Float32()*100 - 50),
		}
		bodies[i] = body.NewCuboid(position, num.Splat[num.F32](0.5))
	}
	s, err := New[num.F32, body.CommonBody[num.F32]](benchConfig(), bodies)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Update(0.001)
	}
}

func BenchmarkUpdateNone(b *testing.B) {
	bodies := make([]body.CommonBody[num.F32], 1000)
	for i := range bodies {
		bodies[i] = body.None[num.F32]()
	}
	s, err := New[num.F32, body.CommonBody[num.F32]](benchConfig(), bodies)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Update(0.001)
	}
}
