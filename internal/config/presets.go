package config

import (
	"sort"

	"github.com/san-kum/gridsolver/internal/solver"
)

func cube(v float64) [3]float64 { return [3]float64{v, v, v} }

var Presets = map[string]*Config{
	// The reference workload: fifty thousand unit cuboids pushed upward in a 100^3 box.
	"stress": {
		Name: "stress", Precision: "f32", Dt: 0.001, Steps: 200,
		World: WorldConfig{
			Gravity: [3]float64{0, 50, 0}, Dampening: [3]float64{0.8, 1, 0.8},
			GridSize: [3]int{10, 10, 10}, CellSize: [3]int{10, 10, 10}, Origin: cube(-50),
			OutOfBounds: BoundsConfig{Policy: solver.ContinueUpdating.String()},
		},
		Spawn: []SpawnConfig{{Kind: "cuboid", Count: 50000, Min: cube(-50), Max: cube(50), HalfSize: cube(0.5)}},
	},
	"tombstones": {
		Name: "tombstones", Precision: "f32", Dt: 0.001, Steps: 1000,
		World: WorldConfig{
			Gravity: [3]float64{0, 50, 0}, Dampening: [3]float64{0.8, 1, 0.8},
			GridSize: [3]int{10, 10, 10}, CellSize: [3]int{10, 10, 10}, Origin: cube(-50),
			OutOfBounds: BoundsConfig{Policy: solver.ContinueUpdating.String()},
		},
		Spawn: []SpawnConfig{{Kind: "none", Count: 1000}},
	},
	"rain": {
		Name: "rain", Precision: "f64", Dt: 0.01, Steps: 600,
		World: WorldConfig{
			Gravity: [3]float64{0, -9.81, 0}, Dampening: [3]float64{0.99, 1, 0.99},
			GridSize: [3]int{20, 10, 20}, CellSize: [3]int{2, 2, 2}, Origin: [3]float64{-20, 0, -20},
			OutOfBounds: BoundsConfig{Policy: solver.PutParticleInBounds.String()},
		},
		Spawn: []SpawnConfig{{Kind: "sphere", Count: 2000, Min: [3]float64{-20, 10, -20}, Max: [3]float64{20, 20, 20}, Radius: 0.4}},
	},
	"pile": {
		Name: "pile", Precision: "f64", Dt: 0.01, Steps: 800,
		World: WorldConfig{
			Gravity: [3]float64{0, -9.81, 0}, Dampening: [3]float64{0.95, 0.98, 0.95},
			GridSize: [3]int{8, 16, 8}, CellSize: [3]int{1, 1, 1}, Origin: [3]float64{-4, 0, -4},
			OutOfBounds: BoundsConfig{Policy: solver.PutParticleInBounds.String()},
		},
		Spawn: []SpawnConfig{{Kind: "cuboid", Count: 300, Min: [3]float64{-3, 4, -3}, Max: [3]float64{3, 15, 3}, HalfSize: cube(0.45)}},
	},
	"fountain": {
		Name: "fountain", Precision: "f64", Dt: 0.01, Steps: 600,
		World: WorldConfig{
			Gravity: [3]float64{0, -9.81, 0}, Dampening: cube(1),
			GridSize: [3]int{16, 16, 16}, CellSize: [3]int{2, 2, 2}, Origin: [3]float64{-16, 0, -16},
			OutOfBounds: BoundsConfig{Policy: solver.TeleportParticleToPosition.String(), Position: [3]float64{0, 1, 0}},
		},
		Spawn: []SpawnConfig{{Kind: "sphere", Count: 800, Min: [3]float64{-1, 0.5, -1}, Max: [3]float64{1, 2, 1}, Radius: 0.3, Velocity: [3]float64{0, 15, 0}}},
	},
	"leak": {
		Name: "leak", Precision: "f32", Dt: 0.01, Steps: 400,
		World: WorldConfig{
			Gravity: [3]float64{0, -9.81, 0}, Dampening: cube(1),
			GridSize: [3]int{10, 10, 10}, CellSize: [3]int{2, 2, 2}, Origin: [3]float64{-10, 0, -10},
			OutOfBounds: BoundsConfig{Policy: solver.DeleteParticle.String()},
		},
		Spawn: []SpawnConfig{{Kind: "cuboid", Count: 1500, Min: [3]float64{-10, 0, -10}, Max: [3]float64{10, 20, 10}, HalfSize: cube(0.25), Velocity: [3]float64{3, 0, 0}}},
	},
	"churn": {
		Name: "churn", Precision: "f32", Dt: 0.01, Steps: 400,
		World: WorldConfig{
			Gravity: [3]float64{0, -9.81, 0}, Dampening: cube(1),
			GridSize: [3]int{10, 10, 10}, CellSize: [3]int{2, 2, 2}, Origin: [3]float64{-10, 0, -10},
			OutOfBounds: BoundsConfig{Policy: solver.SwapDeleteParticle.String()},
		},
		Spawn: []SpawnConfig{{Kind: "sphere", Count: 1500, Min: [3]float64{-10, 0, -10}, Max: [3]float64{10, 20, 10}, Radius: 0.25, Velocity: [3]float64{0, 0, -4}}},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
