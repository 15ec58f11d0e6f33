package body

import (
	"fmt"

	"github.com/san-kum/gridsolver/internal/aabb"
	"github.com/san-kum/gridsolver/internal/num"
)

type Kind uint8

const (
	KindNone Kind = iota
	KindCuboid
	KindSphere
)

func (k Kind) String() string {
	switch k {
	case KindCuboid:
		return "cuboid"
	case KindSphere:
		return "sphere"
	default:
		return "none"
	}
}

func ParseKind(s string) (Kind, error) {
	switch s {
	case "none":
		return KindNone, nil
	case "cuboid":
		return KindCuboid, nil
	case "sphere":
		return KindSphere, nil
	}
	return KindNone, fmt.Errorf("unknown body kind: %s", s)
}

// CommonBody is a tagged union over the built-in shapes. HalfSize is read for
// cuboids and Radius for spheres.
type CommonBody[T num.Float[T]] struct {
	Kind     Kind
	Particle Particle[T]
	HalfSize num.Vec3[T]
	Radius   T
}

var (
	_ Body[num.F32, *CommonBody[num.F32]] = (*CommonBody[num.F32])(nil)
	_ Relocatable[num.F64]                = (*CommonBody[num.F64])(nil)
)

func None[T num.Float[T]]() CommonBody[T] {
	return CommonBody[T]{Kind: KindNone}
}

func NewCuboid[T num.Float[T]](position, halfSize num.Vec3[T]) CommonBody[T] {
	return CommonBody[T]{Kind: KindCuboid, Particle: FromPosition(position), HalfSize: halfSize}
}

func NewSphere[T num.Float[T]](position num.Vec3[T], radius T) CommonBody[T] {
	return CommonBody[T]{Kind: KindSphere, Particle: FromPosition(position), Radius: radius}
}

func (b *CommonBody[T]) IsNone() bool { return b.Kind == KindNone }

func (b *CommonBody[T]) PositionUnchecked() num.Vec3[T] { return b.Particle.Position }

func (b *CommonBody[T]) Update(gravity, dampening num.Vec3[T], dt T) {
	if b.Kind == KindNone {
		return
	}
	b.Particle.Update(gravity, dampening, dt)
}

func (b *CommonBody[T]) CollideWithOthers() bool { return b.Kind != KindNone }

func (b *CommonBody[T]) Teleport(position num.Vec3[T]) { b.Particle.Teleport(position) }

// Kill turns the body into a tombstone in place.
func (b *CommonBody[T]) Kill() { *b = None[T]() }

// Bounds returns the centred box of the body at its current position. Spheres are
// boxed by their radius.
func (b *CommonBody[T]) Bounds() aabb.CentredOrigin[T] {
	return aabb.CentredOrigin[T]{Position: b.Particle.Position, HalfSize: b.halfExtents()}
}

func (b *CommonBody[T]) previousBounds() aabb.CentredOrigin[T] {
	return aabb.CentredOrigin[T]{Position: b.Particle.PreviousPosition, HalfSize: b.halfExtents()}
}

func (b *CommonBody[T]) halfExtents() num.Vec3[T] {
	if b.Kind == KindSphere {
		return num.Splat(b.Radius)
	}
	return b.HalfSize
}

// Collide pushes both bodies apart by half the overlap each.
func (b *CommonBody[T]) Collide(other *CommonBody[T], _ int, _ T) {
	if b.Kind == KindNone || other.Kind == KindNone {
		return
	}
	if b.Kind == KindSphere && other.Kind == KindSphere {
		b.collideSpheres(other)
		return
	}
	b.collideBoxes(other)
}

func (b *CommonBody[T]) collideSpheres(other *CommonBody[T]) {
	delta := b.Particle.Position.Sub(other.Particle.Position)
	overlap := b.Radius + other.Radius - num.Magnitude(delta)
	if overlap <= 0 {
		return
	}
	normal := num.Normalise(delta)
	if normal == (num.Vec3[T]{}) {
		normal = num.Vec3[T]{1, 0, 0}
	}
	correction := normal.Scale(overlap / 2)
	b.Particle.Translate(correction)
	other.Particle.Translate(num.Neg(correction))
}

func (b *CommonBody[T]) collideBoxes(other *CommonBody[T]) {
	current, otherCurrent := b.Bounds(), other.Bounds()
	if !current.Intersects(otherCurrent) {
		return
	}
	penetration := current.Penetration(otherCurrent)

	// Prefer an axis the pair was separated along before this step.
	separated := b.previousBounds().CollisionAxis(other.previousBounds())
	axis := -1
	for i := 0; i < 3; i++ {
		if separated[i] && (axis < 0 || penetration[i] < penetration[axis]) {
			axis = i
		}
	}
	if axis < 0 {
		axis = 0
		for i := 1; i < 3; i++ {
			if penetration[i] < penetration[axis] {
				axis = i
			}
		}
	}
	if penetration[axis] <= 0 {
		return
	}

	var correction num.Vec3[T]
	correction[axis] = penetration[axis] / 2
	if b.Particle.Position[axis] < other.Particle.Position[axis] {
		correction[axis] = -correction[axis]
	}
	b.Particle.Translate(correction)
	other.Particle.Translate(num.Neg(correction))
}
