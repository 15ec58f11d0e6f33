// Package num provides the numeric tower the solver is generic over.
//
// Three constraints describe the capabilities a numeric representation offers:
//
//   - [Number]: ordered field arithmetic, remainder, index conversion, named constants
//   - [SignedNumber]: negation, absolute value, sign test, signed index conversion
//   - [Float]: square root, trigonometry, rounding, lossy construction from float32/float64
//
// [F32] and [F64] implement all three, [Usize] is the unsigned index type and implements
// [Number] only. Generic code is instantiated per concrete type, so the hot loops in the
// solver never go through an interface.
//
// # Example
//
//	p := num.Vec3[num.F32]{1, 2, 2}
//	m := num.Magnitude(p) // 3
package num
