// pkg/world/components.go
package world

import (
	"github.com/opd-ai/go-collide/pkg/conv"
	"github.com/opd-ai/go-collide/pkg/physics"
)

// Transform is an entity pose in the world convention: Y down, radians.
type Transform struct {
	Pos   physics.Vec2
	Angle float32
}

// engine converts the pose once, at the boundary into package physics.
func (t Transform) engine() physics.Affine2 {
	return conv.TopLeftTransformToEngine(t.Pos, t.Angle)
}

// Plus returns the pose shifted by offset. The offset is applied in world
// space and does not rotate with t.
func (t Transform) Plus(offset Transform) Transform {
	return Transform{Pos: t.Pos.Add(offset.Pos), Angle: t.Angle + offset.Angle}
}

// Body makes an entity solid. Groups is the set of layers it lives in.
type Body struct {
	Shape  physics.Shape
	Groups physics.Group
}

// Kinematic moves an entity through solid bodies every tick.
type Kinematic struct {
	// Displacement is applied on every tick until the caller changes it.
	Displacement physics.Vec2
	// Collision is the set of layers the mover is blocked by.
	Collision physics.Group
	Slide     bool

	// Written by the system.
	Collided bool
	Touched  []uint64
}

// Query collects the bodies overlapping a volume attached to an entity.
// Bodies must intersect Group and include Filter to be reported.
type Query struct {
	Shape  physics.Shape
	Offset Transform
	Group  physics.Group
	Filter physics.Group
	// Max caps the number of results; zero means no cap.
	Max int

	// Written by the system.
	Overlaps []uint64
}

// HasOverlaps reports whether the last tick found anything.
func (q *Query) HasOverlaps() bool {
	return len(q.Overlaps) > 0
}
