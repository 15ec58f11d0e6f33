package num

// Vec3 is a 3D value laid out as x, y, z.
type Vec3[T Number[T]] [3]T

func Splat[T Number[T]](v T) Vec3[T] { return Vec3[T]{v, v, v} }

func (a Vec3[T]) Add(b Vec3[T]) Vec3[T] { return Vec3[T]{a[0] + b[0], a[1] + b[1], a[2] + b[2]} }
func (a Vec3[T]) Sub(b Vec3[T]) Vec3[T] { return Vec3[T]{a[0] - b[0], a[1] - b[1], a[2] - b[2]} }

// Mul multiplies component-wise.
func (a Vec3[T]) Mul(b Vec3[T]) Vec3[T] { return Vec3[T]{a[0] * b[0], a[1] * b[1], a[2] * b[2]} }
func (a Vec3[T]) Div(b Vec3[T]) Vec3[T] { return Vec3[T]{a[0] / b[0], a[1] / b[1], a[2] / b[2]} }

func (a Vec3[T]) AddScalar(s T) Vec3[T] { return Vec3[T]{a[0] + s, a[1] + s, a[2] + s} }
func (a Vec3[T]) Scale(s T) Vec3[T]     { return Vec3[T]{a[0] * s, a[1] * s, a[2] * s} }
func (a Vec3[T]) DivScalar(s T) Vec3[T] { return Vec3[T]{a[0] / s, a[1] / s, a[2] / s} }

func (a Vec3[T]) Dot(b Vec3[T]) T { return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] }

func (a Vec3[T]) SquaredMagnitude() T { return a.Dot(a) }

func Neg[T SignedNumber[T]](v Vec3[T]) Vec3[T] {
	return Vec3[T]{v[0].Neg(), v[1].Neg(), v[2].Neg()}
}

func Magnitude[T Float[T]](v Vec3[T]) T {
	return v.SquaredMagnitude().Sqrt()
}

// Normalise returns the unit vector of v, or the zero vector when v has no length.
func Normalise[T Float[T]](v Vec3[T]) Vec3[T] {
	m := Magnitude(v)
	if m == 0 {
		return Vec3[T]{}
	}
	return v.DivScalar(m)
}

// IndexFromPosition3D flattens a cell coordinate with x varying fastest and
// width*height as the stride of z.
func IndexFromPosition3D(p [3]int, width, height int) int {
	return p[2]*width*height + p[1]*width + p[0]
}

func PositionFromIndex3D(index, width, height int) [3]int {
	remaining := index % (width * height)
	return [3]int{remaining % width, remaining / width, index / (width * height)}
}
