// Package aabb implements axis-aligned bounding boxes in three representations.
package aabb

import "github.com/san-kum/gridsolver/internal/num"

// TopLeftOrigin is a box anchored at its minimum corner. Bounds are exclusive.
type TopLeftOrigin[T num.Number[T]] struct {
	Position num.Vec3[T]
	Size     num.Vec3[T]
}

func (a TopLeftOrigin[T]) IntersectsPoint(p num.Vec3[T]) bool {
	return p[0] < a.Position[0]+a.Size[0] && p[0] > a.Position[0] &&
		p[1] < a.Position[1]+a.Size[1] && p[1] > a.Position[1] &&
		p[2] < a.Position[2]+a.Size[2] && p[2] > a.Position[2]
}

func (a TopLeftOrigin[T]) Intersects(b TopLeftOrigin[T]) bool {
	return a.Position[0] < b.Position[0]+b.Size[0] && a.Position[0]+a.Size[0] > b.Position[0] &&
		a.Position[1] < b.Position[1]+b.Size[1] && a.Position[1]+a.Size[1] > b.Position[1] &&
		a.Position[2] < b.Position[2]+b.Size[2] && a.Position[2]+a.Size[2] > b.Position[2]
}

// CentredOrigin is a box described by its centre and half extents. Bounds are inclusive.
type CentredOrigin[T num.SignedNumber[T]] struct {
	Position num.Vec3[T]
	HalfSize num.Vec3[T]
}

func (a CentredOrigin[T]) IntersectsPoint(p num.Vec3[T]) bool {
	for i := 0; i < 3; i++ {
		if (a.Position[i] - p[i]).Abs() > a.HalfSize[i] {
			return false
		}
	}
	return true
}

func (a CentredOrigin[T]) Intersects(b CentredOrigin[T]) bool {
	for i := 0; i < 3; i++ {
		if (a.Position[i] - b.Position[i]).Abs() > a.HalfSize[i]+b.HalfSize[i] {
			return false
		}
	}
	return true
}

// CollisionAxis reports, per axis, whether the boxes are separated along it.
// Evaluated on previous positions it tells which axis was clear before a collision.
func (a CentredOrigin[T]) CollisionAxis(b CentredOrigin[T]) [3]bool {
	var out [3]bool
	for i := 0; i < 3; i++ {
		out[i] = (a.Position[i] - b.Position[i]).Abs() > a.HalfSize[i]+b.HalfSize[i]
	}
	return out
}

// Penetration returns the overlap depth per axis. Non-positive components mean
// the boxes are separated along that axis.
func (a CentredOrigin[T]) Penetration(b CentredOrigin[T]) num.Vec3[T] {
	var out num.Vec3[T]
	for i := 0; i < 3; i++ {
		out[i] = a.HalfSize[i] + b.HalfSize[i] - (a.Position[i] - b.Position[i]).Abs()
	}
	return out
}

func (a CentredOrigin[T]) MinMax() MinMax[T] {
	return MinMax[T]{Min: a.Position.Sub(a.HalfSize), Max: a.Position.Add(a.HalfSize)}
}

// MinMax is a box described by its corners. Bounds are inclusive.
type MinMax[T num.Number[T]] struct {
	Min num.Vec3[T]
	Max num.Vec3[T]
}

func (a MinMax[T]) IntersectsPoint(p num.Vec3[T]) bool {
	return p[0] >= a.Min[0] && p[0] <= a.Max[0] &&
		p[1] >= a.Min[1] && p[1] <= a.Max[1] &&
		p[2] >= a.Min[2] && p[2] <= a.Max[2]
}

func (a MinMax[T]) Intersects(b MinMax[T]) bool {
	return a.Min[0] <= b.Max[0] && a.Max[0] >= b.Min[0] &&
		a.Min[1] <= b.Max[1] && a.Max[1] >= b.Min[1] &&
		a.Min[2] <= b.Max[2] && a.Max[2] >= b.Min[2]
}

// Clamp returns p limited to the box.
func (a MinMax[T]) Clamp(p num.Vec3[T]) num.Vec3[T] {
	for i := 0; i < 3; i++ {
		if p[i] < a.Min[i] {
			p[i] = a.Min[i]
		}
		if p[i] > a.Max[i] {
			p[i] = a.Max[i]
		}
	}
	return p
}
