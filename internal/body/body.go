// Package body defines the capability the solver drives and the bodies shipped with it.
//
// The solver only ever talks to a body through [Body]. [CommonBody] is the closed set of
// shapes the command line tools simulate: a tombstoned slot, an axis-aligned cuboid and a
// sphere, all moved by a position-Verlet [Particle].
package body

import "github.com/san-kum/gridsolver/internal/num"

// Body is implemented by pointers to simulated entities. B is the implementing pointer
// type itself, so Collide receives another element of the same backing store.
type Body[T num.Float[T], B any] interface {
	// IsNone reports a tombstoned slot.
	IsNone() bool
	// PositionUnchecked is undefined when IsNone is true.
	PositionUnchecked() num.Vec3[T]
	Update(gravity, dampening num.Vec3[T], dt T)
	CollideWithOthers() bool
	// Collide resolves an overlap between the receiver and other, mutating both.
	Collide(other B, otherIndex int, dt T)
}

// Relocatable bodies can be moved by the out-of-bounds policies that clamp or teleport.
type Relocatable[T num.Float[T]] interface {
	// Teleport moves the body to position and discards its implicit velocity.
	Teleport(position num.Vec3[T])
}
