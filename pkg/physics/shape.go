// pkg/physics/shape.go
package physics

import (
	"encoding/json"
	"fmt"

	"github.com/chewxy/math32"
)

// MaxAxisNormals is the most separating axes a single shape contributes.
// Axis buffers are sized from it, so it must cover every ShapeKind.
const MaxAxisNormals = 8

// ShapeTOIEpsilon gates axes whose closing speed is too small to divide by.
const ShapeTOIEpsilon float32 = 1.1920929e-7 * 100

// ShapeKind selects the variant held by a Shape.
type ShapeKind uint8

const (
	RectKind ShapeKind = iota + 1
	CircleKind
)

func (k ShapeKind) String() string {
	switch k {
	case RectKind:
		return "rect"
	case CircleKind:
		return "circle"
	default:
		return fmt.Sprintf("ShapeKind(%d)", uint8(k))
	}
}

// Shape is a convex primitive centered on its local origin.
//
// A rect is axis aligned in local space. A circle is approximated by a
// regular octagon whose vertices lie on the circle, so its flat sides sit
// inside the true circle by up to (1 - cos(pi/8)) of the radius. Overlap
// and impact results for circles carry that error.
type Shape struct {
	Kind   ShapeKind
	Width  float32
	Height float32
	Radius float32
}

// NewRect creates a w by h rectangle.
func NewRect(w, h float32) Shape {
	return Shape{Kind: RectKind, Width: w, Height: h}
}

// NewCircle creates a circle of radius r.
func NewCircle(r float32) Shape {
	return Shape{Kind: CircleKind, Radius: r}
}

const (
	sin45  = 0.70710677
	cos225 = 0.9238795
	sin225 = 0.38268343
)

var rectCorners = [4]Vec2{{-1, 1}, {1, 1}, {1, -1}, {-1, -1}}

var rectNormals = [4]Vec2{{0, 1}, {1, 0}, {0, -1}, {-1, 0}}

// Vertex k sits at angle k*pi/4.
var octagonVertices = [8]Vec2{
	{1, 0}, {sin45, sin45}, {0, 1}, {-sin45, sin45},
	{-1, 0}, {-sin45, -sin45}, {0, -1}, {sin45, -sin45},
}

// Normal k is the outward normal of the edge from vertex k to vertex k+1.
var octagonNormals = [8]Vec2{
	{cos225, sin225}, {sin225, cos225}, {-sin225, cos225}, {-cos225, sin225},
	{-cos225, -sin225}, {-sin225, -cos225}, {sin225, -cos225}, {cos225, -sin225},
}

func (s Shape) unknownKind() string {
	return fmt.Sprintf("physics: unknown shape kind %v", s.Kind)
}

func (s Shape) vertexCount() int {
	switch s.Kind {
	case RectKind:
		return len(rectCorners)
	case CircleKind:
		return len(octagonVertices)
	default:
		panic(s.unknownKind())
	}
}

func (s Shape) localVertex(i int) Vec2 {
	switch s.Kind {
	case RectKind:
		c := rectCorners[i]
		return Vec2{c[0] * s.Width / 2, c[1] * s.Height / 2}
	case CircleKind:
		return octagonVertices[i].Mul(s.Radius)
	default:
		panic(s.unknownKind())
	}
}

func (s Shape) localNormals() []Vec2 {
	switch s.Kind {
	case RectKind:
		return rectNormals[:]
	case CircleKind:
		return octagonNormals[:]
	default:
		panic(s.unknownKind())
	}
}

// Vertices appends the world-space vertices of s under tf to dst.
func (s Shape) Vertices(tf Affine2, dst []Vec2) []Vec2 {
	for i := range s.vertexCount() {
		dst = append(dst, tf.TransformPoint(s.localVertex(i)))
	}
	return dst
}

// Normals appends the world-space outward face normals of s under tf to dst.
func (s Shape) Normals(tf Affine2, dst []Vec2) []Vec2 {
	for _, n := range s.localNormals() {
		dst = append(dst, tf.TransformVector(n))
	}
	return dst
}

// SeparatingAxes writes the world-space candidate axes of s into out and
// returns how many were written. out must hold MaxAxisNormals entries.
func (s Shape) SeparatingAxes(tf Affine2, out []Vec2) int {
	normals := s.localNormals()
	for i, n := range normals {
		out[i] = tf.TransformVector(n)
	}
	return len(normals)
}

// Project returns the [min, max] interval of s under tf along axis.
// axis must be a unit vector.
func (s Shape) Project(tf Affine2, axis Vec2) [2]float32 {
	lo, hi := math32.Inf(1), math32.Inf(-1)
	for i := range s.vertexCount() {
		d := tf.TransformPoint(s.localVertex(i)).Dot(axis)
		lo = min(lo, d)
		hi = max(hi, d)
	}
	if debugAsserts && lo > hi {
		panic(fmt.Sprintf("physics: unordered projection [%v, %v]", lo, hi))
	}
	return [2]float32{lo, hi}
}

// Bounds returns the world-space bounding box of the vertex set of s.
func (s Shape) Bounds(tf Affine2) AABB {
	box := AABB{
		Min: Vec2{math32.Inf(1), math32.Inf(1)},
		Max: Vec2{math32.Inf(-1), math32.Inf(-1)},
	}
	for i := range s.vertexCount() {
		box = box.Extend(tf.TransformPoint(s.localVertex(i)))
	}
	return box
}

type shapeJSON struct {
	Type   string  `json:"type"`
	Width  float32 `json:"width,omitempty"`
	Height float32 `json:"height,omitempty"`
	Radius float32 `json:"radius,omitempty"`
}

// MarshalJSON encodes s as a tagged object, e.g. {"type":"circle","radius":4}.
func (s Shape) MarshalJSON() ([]byte, error) {
	switch s.Kind {
	case RectKind:
		return json.Marshal(shapeJSON{Type: "rect", Width: s.Width, Height: s.Height})
	case CircleKind:
		return json.Marshal(shapeJSON{Type: "circle", Radius: s.Radius})
	default:
		return nil, fmt.Errorf("cannot encode shape of kind %v", s.Kind)
	}
}

func (s *Shape) UnmarshalJSON(data []byte) error {
	var raw shapeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw.Type {
	case "rect":
		*s = NewRect(raw.Width, raw.Height)
	case "circle":
		*s = NewCircle(raw.Radius)
	default:
		return fmt.Errorf("unknown shape type %q", raw.Type)
	}
	return nil
}
