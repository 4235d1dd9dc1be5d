// pkg/physics/aabb.go
package physics

import "github.com/chewxy/math32"

// AABB is an axis-aligned bounding box. Bounds are inclusive.
type AABB struct {
	Min Vec2
	Max Vec2
}

// NewAABB creates a box from two opposite corners in any order.
func NewAABB(a, b Vec2) AABB {
	return AABB{
		Min: Vec2{min(a[0], b[0]), min(a[1], b[1])},
		Max: Vec2{max(a[0], b[0]), max(a[1], b[1])},
	}
}

func (a AABB) Center() Vec2 {
	return a.Min.Add(a.Max).Mul(0.5)
}

func (a AABB) Size() Vec2 {
	return a.Max.Sub(a.Min)
}

// Extend grows a to cover p.
func (a AABB) Extend(p Vec2) AABB {
	return AABB{
		Min: Vec2{min(a.Min[0], p[0]), min(a.Min[1], p[1])},
		Max: Vec2{max(a.Max[0], p[0]), max(a.Max[1], p[1])},
	}
}

// Expand grows a by margin on every side.
func (a AABB) Expand(margin float32) AABB {
	m := Vec2{margin, margin}
	return AABB{Min: a.Min.Sub(m), Max: a.Max.Add(m)}
}

func (a AABB) Contains(p Vec2) bool {
	return p[0] >= a.Min[0] && p[0] <= a.Max[0] &&
		p[1] >= a.Min[1] && p[1] <= a.Max[1]
}

// Overlaps reports whether a and b share at least one point.
func (a AABB) Overlaps(b AABB) bool {
	return a.Min[0] <= b.Max[0] && b.Min[0] <= a.Max[0] &&
		a.Min[1] <= b.Max[1] && b.Min[1] <= a.Max[1]
}

// CastPoint reports whether the segment from origin along dir, of length
// tMax in units of dir, touches a. Zero direction components are handled
// as a containment test on that axis.
func (a AABB) CastPoint(origin, dir Vec2, tMax float32) bool {
	if tMax >= 0 && a.Contains(origin) {
		return true
	}
	enter, exit := float32(0), tMax
	for i := range 2 {
		if dir[i] == 0 {
			if origin[i] < a.Min[i] || origin[i] > a.Max[i] {
				return false
			}
			continue
		}
		inv := 1 / dir[i]
		t1 := (a.Min[i] - origin[i]) * inv
		t2 := (a.Max[i] - origin[i]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		enter = max(enter, t1)
		exit = min(exit, t2)
		if enter > exit {
			return false
		}
	}
	return true
}

// CastRect reports whether moving, swept along dir for tMax, touches a.
func (a AABB) CastRect(moving AABB, dir Vec2, tMax float32) bool {
	half := moving.Size().Mul(0.5)
	grown := AABB{Min: a.Min.Sub(half), Max: a.Max.Add(half)}
	return grown.CastPoint(moving.Center(), dir, tMax)
}

// slack is the margin the solver pads boxes with before rejecting a pair,
// so that rounding in the box never disagrees with the exact tests.
func (a AABB) slack() float32 {
	reach := max(
		math32.Abs(a.Min[0]), math32.Abs(a.Min[1]),
		math32.Abs(a.Max[0]), math32.Abs(a.Max[1]),
	)
	return 1e-3 + 1e-5*reach
}
