// pkg/physics/collision.go
package physics

// Impact describes the first contact of a swept shape.
type Impact struct {
	// Time is the distance travelled along the cast direction before contact.
	Time float32
	// Normal points from the hit shape into the moving one.
	Normal Vec2
}

// TrySeparatingAxis reports whether axis separates s under tf1 from other
// under tf2. Touching intervals are not separated.
func (s Shape) TrySeparatingAxis(other Shape, tf1, tf2 Affine2, axis Vec2) bool {
	p1 := s.Project(tf1, axis)
	p2 := other.Project(tf2, axis)
	if p1[0] <= p2[0] {
		return p1[1] < p2[0]
	}
	return p2[1] < p1[0]
}

// IsSeparated runs the separating axis test, trying the normals of s
// before those of other. It returns true on the first separating axis.
func (s Shape) IsSeparated(other Shape, tf1, tf2 Affine2) bool {
	var axes [MaxAxisNormals]Vec2

	n := s.SeparatingAxes(tf1, axes[:])
	for _, axis := range axes[:n] {
		if s.TrySeparatingAxis(other, tf1, tf2, axis) {
			return true
		}
	}

	n = other.SeparatingAxes(tf2, axes[:])
	for _, axis := range axes[:n] {
		if s.TrySeparatingAxis(other, tf1, tf2, axis) {
			return true
		}
	}
	return false
}

// CandidateTimeOfImpact computes when the gap along a single axis closes
// while s moves along dir. There is no candidate when the motion barely
// moves along the axis, when the intervals already overlap, when s is
// already past other on the axis, or when contact lies beyond tMax.
func (s Shape) CandidateTimeOfImpact(other Shape, tf1, tf2 Affine2, axis, dir Vec2, tMax float32) (Impact, bool) {
	closing := axis.Dot(dir)
	if closing <= ShapeTOIEpsilon {
		return Impact{}, false
	}

	p1 := s.Project(tf1, axis)
	p2 := other.Project(tf2, axis)
	if p1[1] >= p2[0] {
		return Impact{}, false
	}

	t := (p2[0] - p1[1]) / closing
	if t <= 0 || t > tMax {
		return Impact{}, false
	}
	return Impact{Time: t, Normal: axis.Mul(-1)}, true
}

// TimeOfImpact sweeps s from tf1 along the unit vector dir for at most
// tMax and reports the first contact with other under tf2.
//
// The contact time is the largest per-axis candidate, since the shapes
// touch only once every axis has closed. A candidate is kept only if the
// shapes actually overlap just past that time; an axis that never closes
// would otherwise leave a phantom hit.
func (s Shape) TimeOfImpact(other Shape, tf1, tf2 Affine2, dir Vec2, tMax float32) (Impact, bool) {
	var (
		axes  [MaxAxisNormals]Vec2
		best  Impact
		found bool
	)

	consider := func(n int) {
		for _, axis := range axes[:n] {
			impact, ok := s.CandidateTimeOfImpact(other, tf1, tf2, axis, dir, tMax)
			if ok && (!found || impact.Time > best.Time) {
				best = impact
				found = true
			}
		}
	}
	consider(s.SeparatingAxes(tf1, axes[:]))
	consider(other.SeparatingAxes(tf2, axes[:]))

	if !found {
		return Impact{}, false
	}

	probe := tf1.Translated(dir.Mul(best.Time + 10*ShapeTOIEpsilon))
	if s.IsSeparated(other, probe, tf2) {
		return Impact{}, false
	}
	return best, true
}

// Collider pairs a shape with its world pose and collision groups.
// Colliders are rebuilt from live state every tick and never mutated.
type Collider struct {
	Shape     Shape
	Transform Affine2
	Group     Group
}

// NewCollider creates a collider. tf must be rigid.
func NewCollider(shape Shape, tf Affine2, group Group) Collider {
	if debugAsserts && !tf.IsRigid() {
		panic("physics: collider transform carries scale or shear")
	}
	return Collider{Shape: shape, Transform: tf, Group: group}
}

// Collides reports whether c and other share a group and overlap.
func (c Collider) Collides(other Collider) bool {
	if c.Group.Intersection(other.Group).IsEmpty() {
		return false
	}
	return !c.Shape.IsSeparated(other.Shape, c.Transform, other.Transform)
}

// SatisfiesFilter reports whether the groups of c include every bit of filter.
func (c Collider) SatisfiesFilter(filter Group) bool {
	return c.Group.Includes(filter)
}

// TimeOfImpact sweeps c along dir against other. Groups are ignored.
func (c Collider) TimeOfImpact(other Collider, dir Vec2, tMax float32) (Impact, bool) {
	return c.Shape.TimeOfImpact(other.Shape, c.Transform, other.Transform, dir, tMax)
}

// Bounds returns the world-space bounding box of c.
func (c Collider) Bounds() AABB {
	return c.Shape.Bounds(c.Transform)
}

// WithTransform returns a copy of c placed at tf.
func (c Collider) WithTransform(tf Affine2) Collider {
	return NewCollider(c.Shape, tf, c.Group)
}
