// Package conv converts between the world convention used by gameplay
// code and the convention used by the geometry in package physics.
//
// World convention: origin at the top left, Y pointing down, angles in
// radians. Engine convention: Y pointing up. A world angle a maps to the
// engine rotation pi - a, and the same formula decodes it again, so
// callers must convert at exactly one boundary.
package conv

import (
	"github.com/chewxy/math32"

	"github.com/opd-ai/go-collide/pkg/physics"
)

// TopLeftVectorToEngine converts a world vector to engine space.
func TopLeftVectorToEngine(v physics.Vec2) physics.Vec2 {
	return physics.Vec2{v[0], -v[1]}
}

// EngineVectorToTopLeft converts an engine vector to world space.
func EngineVectorToTopLeft(v physics.Vec2) physics.Vec2 {
	return physics.Vec2{v[0], -v[1]}
}

// TopLeftAngleToEngine converts a world angle to an engine rotation.
func TopLeftAngleToEngine(angle float32) float32 {
	return math32.Pi - angle
}

// EngineAngleToTopLeft converts an engine rotation back to a world angle.
func EngineAngleToTopLeft(angle float32) float32 {
	return math32.Pi - angle
}

// TopLeftTransformToEngine builds the engine transform for a world pose.
func TopLeftTransformToEngine(pos physics.Vec2, angle float32) physics.Affine2 {
	return physics.FromAngleTranslation(TopLeftAngleToEngine(angle), TopLeftVectorToEngine(pos))
}

// EngineTransformToTopLeft decodes an engine transform into a world pose.
// The angle is wrapped into (-pi, pi].
func EngineTransformToTopLeft(tf physics.Affine2) (physics.Vec2, float32) {
	return EngineVectorToTopLeft(tf.Translation), NormalizeAngle(EngineAngleToTopLeft(tf.Angle()))
}

// NormalizeAngle wraps angle into (-pi, pi].
func NormalizeAngle(angle float32) float32 {
	angle = math32.Mod(angle+math32.Pi, 2*math32.Pi)
	if angle <= 0 {
		angle += 2 * math32.Pi
	}
	return angle - math32.Pi
}
