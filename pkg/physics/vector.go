// pkg/physics/vector.go
package physics

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Vec2 is the single-precision 2D vector used by every geometry routine.
type Vec2 = mgl32.Vec2

// rigidTolerance bounds how far a matrix may drift from orthonormal
// before it is treated as carrying scale or shear.
const rigidTolerance = 1e-3

// NormalizeOrZero returns a unit vector in the direction of v, or the zero
// vector when v has no length.
func NormalizeOrZero(v Vec2) Vec2 {
	lenSq := v.LenSqr()
	if lenSq == 0 {
		return Vec2{}
	}
	return v.Mul(1 / math32.Sqrt(lenSq))
}

// Affine2 is a rigid 2D transform: a rotation followed by a translation.
// Shape math assumes there is no scale or shear in Matrix.
type Affine2 struct {
	Matrix      mgl32.Mat2
	Translation Vec2
}

// IdentityTransform returns the transform that leaves every point in place.
func IdentityTransform() Affine2 {
	return Affine2{Matrix: mgl32.Ident2()}
}

// FromTranslation returns a pure translation.
func FromTranslation(t Vec2) Affine2 {
	return Affine2{Matrix: mgl32.Ident2(), Translation: t}
}

// FromAngle returns a pure rotation by angle radians (counter-clockwise).
func FromAngle(angle float32) Affine2 {
	return Affine2{Matrix: mgl32.Rotate2D(angle)}
}

// FromAngleTranslation returns a rotation by angle followed by a translation.
func FromAngleTranslation(angle float32, t Vec2) Affine2 {
	return Affine2{Matrix: mgl32.Rotate2D(angle), Translation: t}
}

// TransformPoint applies the rotation and the translation to p.
func (tf Affine2) TransformPoint(p Vec2) Vec2 {
	return tf.Matrix.Mul2x1(p).Add(tf.Translation)
}

// TransformVector applies only the rotation to v.
func (tf Affine2) TransformVector(v Vec2) Vec2 {
	return tf.Matrix.Mul2x1(v)
}

// Mul composes two transforms. The result applies other first, then tf.
func (tf Affine2) Mul(other Affine2) Affine2 {
	return Affine2{
		Matrix:      tf.Matrix.Mul2(other.Matrix),
		Translation: tf.TransformPoint(other.Translation),
	}
}

// Translated returns tf moved by offset in world space.
func (tf Affine2) Translated(offset Vec2) Affine2 {
	tf.Translation = tf.Translation.Add(offset)
	return tf
}

// Angle extracts the rotation angle in radians, in (-pi, pi].
func (tf Affine2) Angle() float32 {
	col := tf.Matrix.Col(0)
	return math32.Atan2(col[1], col[0])
}

// IsRigid reports whether the matrix is a pure rotation.
func (tf Affine2) IsRigid() bool {
	c0 := tf.Matrix.Col(0)
	c1 := tf.Matrix.Col(1)
	return math32.Abs(c0.LenSqr()-1) <= rigidTolerance &&
		math32.Abs(c1.LenSqr()-1) <= rigidTolerance &&
		math32.Abs(c0.Dot(c1)) <= rigidTolerance &&
		tf.Matrix.Det() > 0
}

// IsFinite reports whether every component of v is a real number.
func IsFinite(v Vec2) bool {
	return !math32.IsNaN(v[0]) && !math32.IsNaN(v[1]) &&
		!math32.IsInf(v[0], 0) && !math32.IsInf(v[1], 0)
}
