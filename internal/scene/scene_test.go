package scene

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/san-kum/gridsolver/internal/body"
	"github.com/san-kum/gridsolver/internal/config"
	"github.com/san-kum/gridsolver/internal/num"
)

func TestBuildIsDeterministic(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Seed = 99

	a, err := Build[num.F64](cfg)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Build[num.F64](cfg)
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("same seed produced different bodies (-first +second):\n%s", diff)
	}

	cfg.Seed = 100
	c, err := Build[num.F64](cfg)
	if err != nil {
		t.Fatal(err)
	}
	if cmp.Equal(a, c) {
		t.Error("different seeds produced identical bodies")
	}
}

func TestBuildGroups(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Dt = 0.5
	cfg.Spawn = []config.SpawnConfig{
		{Kind: "cuboid", Count: 20, Min: [3]float64{-1, 0, 2}, Max: [3]float64{1, 4, 3}, HalfSize: [3]float64{0.25, 0.5, 0.25}},
		{Kind: "none", Count: 3},
		{Kind: "sphere", Count: 10, Min: [3]float64{5, 5, 5}, Max: [3]float64{5, 5, 5}, Radius: 0.5, Velocity: [3]float64{2, 0, 0}},
	}

	bodies, err := Build[num.F32](cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(bodies) != 33 {
		t.Fatalf("expected 33 bodies, got %d", len(bodies))
	}

	for i, b := range bodies[:20] {
		p := b.Particle.Position
		if b.Kind != body.KindCuboid || p[0] < -1 || p[0] > 1 || p[1] < 0 || p[1] > 4 || p[2] < 2 || p[2] > 3 {
			t.Errorf("body %d: unexpected %v at %v", i, b.Kind, p)
		}
		if b.Particle.Displacement() != (num.Vec3[num.F32]{}) {
			t.Errorf("body %d: expected rest, got displacement %v", i, b.Particle.Displacement())
		}
	}
	for i, b := range bodies[20:23] {
		if !b.IsNone() {
			t.Errorf("body %d: expected tombstone, got %v", 20+i, b.Kind)
		}
	}
	for i, b := range bodies[23:] {
		if b.Kind != body.KindSphere || b.Radius != 0.5 {
			t.Errorf("body %d: expected sphere of radius 0.5, got %+v", 23+i, b)
		}
		if got := b.Particle.Velocity(0.5); got != (num.Vec3[num.F32]{2, 0, 0}) {
			t.Errorf("body %d: expected velocity (2,0,0), got %v", 23+i, got)
		}
	}
}

func TestBuildRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Spawn[0].Kind = "capsule"
	if _, err := Build[num.F64](cfg); !errors.Is(err, config.ErrInvalidSpawn) {
		t.Errorf("expected ErrInvalidSpawn, got %v", err)
	}
}
