package num

import (
	"math"

	"github.com/chewxy/math32"
)

const (
	twoPow63 = 9223372036854775808.0
	twoPow64 = 18446744073709551616.0
)

// F32 is a hardware 32-bit float. It is the default solver representation.
type F32 float32

func (f F32) Rem(other F32) F32    { return F32(math32.Mod(float32(f), float32(other))) }
func (f F32) MaxValue() F32        { return math32.MaxFloat32 }
func (f F32) Neg() F32             { return -f }
func (f F32) Abs() F32             { return F32(math32.Abs(float32(f))) }
func (f F32) IsSignPositive() bool { return !math32.Signbit(float32(f)) }
func (f F32) Sqrt() F32            { return F32(math32.Sqrt(float32(f))) }
func (f F32) Sin() F32             { return F32(math32.Sin(float32(f))) }
func (f F32) Cos() F32             { return F32(math32.Cos(float32(f))) }
func (f F32) ToRadians() F32       { return f * F32(math32.Pi/180) }
func (f F32) Ceil() F32            { return F32(math32.Ceil(float32(f))) }
func (f F32) NextDown() F32        { return F32(math32.Nextafter(float32(f), math32.Inf(-1))) }

// ToUsize truncates toward zero. NaN and negative values give 0, values past the
// range saturate.
func (f F32) ToUsize() uint {
	switch {
	case math32.IsNaN(float32(f)) || f <= 0:
		return 0
	case f >= twoPow64:
		return math.MaxUint
	}
	return uint(f)
}

func (f F32) ToIsize() int {
	switch {
	case math32.IsNaN(float32(f)):
		return 0
	case f >= twoPow63:
		return math.MaxInt
	case f <= -twoPow63:
		return math.MinInt
	}
	return int(f)
}

// F64 is a hardware 64-bit float.
type F64 float64

func (f F64) Rem(other F64) F64    { return F64(math.Mod(float64(f), float64(other))) }
func (f F64) MaxValue() F64        { return math.MaxFloat64 }
func (f F64) Neg() F64             { return -f }
func (f F64) Abs() F64             { return F64(math.Abs(float64(f))) }
func (f F64) IsSignPositive() bool { return !math.Signbit(float64(f)) }
func (f F64) Sqrt() F64            { return F64(math.Sqrt(float64(f))) }
func (f F64) Sin() F64             { return F64(math.Sin(float64(f))) }
func (f F64) Cos() F64             { return F64(math.Cos(float64(f))) }
func (f F64) ToRadians() F64       { return f * (math.Pi / 180) }
func (f F64) Ceil() F64            { return F64(math.Ceil(float64(f))) }
func (f F64) NextDown() F64        { return F64(math.Nextafter(float64(f), math.Inf(-1))) }

func (f F64) ToUsize() uint {
	switch {
	case math.IsNaN(float64(f)) || f <= 0:
		return 0
	case f >= twoPow64:
		return math.MaxUint
	}
	return uint(f)
}

func (f F64) ToIsize() int {
	switch {
	case math.IsNaN(float64(f)):
		return 0
	case f >= twoPow63:
		return math.MaxInt
	case f <= -twoPow63:
		return math.MinInt
	}
	return int(f)
}

// Usize is the unsigned index type.
type Usize uint

// Rem returns 0 for a zero divisor rather than trapping.
func (u Usize) Rem(other Usize) Usize {
	if other == 0 {
		return 0
	}
	return u % other
}

func (u Usize) ToUsize() uint   { return uint(u) }
func (u Usize) MaxValue() Usize { return math.MaxUint }
