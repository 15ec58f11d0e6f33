package num

import "golang.org/x/exp/constraints"

// Number is an ordered field with remainder and a lossy conversion to an index.
type Number[T any] interface {
	constraints.Integer | constraints.Float
	Rem(other T) T
	ToUsize() uint
	MaxValue() T
}

// SignedNumber is a Number with a sign.
type SignedNumber[T any] interface {
	constraints.Signed | constraints.Float
	Rem(other T) T
	ToUsize() uint
	MaxValue() T
	Neg() T
	Abs() T
	IsSignPositive() bool
	ToIsize() int
}

// Float is a floating point SignedNumber.
type Float[T any] interface {
	constraints.Float
	Rem(other T) T
	ToUsize() uint
	MaxValue() T
	Neg() T
	Abs() T
	IsSignPositive() bool
	ToIsize() int
	Sqrt() T
	Sin() T
	Cos() T
	ToRadians() T
	// Ceil returns the smallest integer value greater than or equal to the receiver.
	Ceil() T
	// NextDown returns the largest representable value below the receiver.
	NextDown() T
}

func Zero[T Number[T]]() T { return 0 }

func One[T Number[T]]() T { return 1 }

func Max[T Number[T]]() T {
	var z T
	return z.MaxValue()
}

// Direction is the direction something happened along one axis.
type Direction int

const (
	DirectionNone Direction = iota
	DirectionPositive
	DirectionNegative
)

func (d Direction) String() string {
	switch d {
	case DirectionPositive:
		return "positive"
	case DirectionNegative:
		return "negative"
	default:
		return "none"
	}
}

// FromDirection maps None to 0, Positive to +1 and Negative to -1.
func FromDirection[T SignedNumber[T]](d Direction) T {
	switch d {
	case DirectionPositive:
		return 1
	case DirectionNegative:
		return -1
	default:
		return 0
	}
}

func DirectionsToVec3[T SignedNumber[T]](d [3]Direction) Vec3[T] {
	return Vec3[T]{FromDirection[T](d[0]), FromDirection[T](d[1]), FromDirection[T](d[2])}
}

func FromF32[T Float[T]](v float32) T { return T(v) }

func FromF64[T Float[T]](v float64) T { return T(v) }
