// Package validation checks scene and movement input at the boundary, before
// it reaches the geometry core. The core itself does not guard its inputs.
package validation

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"

	"github.com/opd-ai/go-collide/pkg/physics"
)

// Limits for values read from configuration files and the environment
const (
	MaxShapeExtent    = 1e6
	MaxIterations     = 1000
	MaxSkin           = 1.0
	MaxNormalNudge    = 1.0
	MaxTickRate       = 1000
	MaxSceneBodies    = 10_000
	MaxCharacterSpeed = 1e5
)

var (
	// ErrInvalidShape reports an unknown kind or a bad dimension.
	ErrInvalidShape = errors.New("invalid shape")
	// ErrInvalidGroup reports a group id outside [0, physics.GroupCount).
	ErrInvalidGroup = errors.New("invalid group")
	// ErrNonFinite reports a NaN or infinite value.
	ErrNonFinite = errors.New("non-finite value")
	// ErrInvalidMovement reports resolver tunables out of range.
	ErrInvalidMovement = errors.New("invalid movement settings")
)

func isFinite(f float32) bool {
	return !math32.IsNaN(f) && !math32.IsInf(f, 0)
}

// ValidateShape checks that s has a known kind and positive, finite dimensions
func ValidateShape(s physics.Shape) error {
	switch s.Kind {
	case physics.RectKind:
		if err := validateExtent("width", s.Width); err != nil {
			return err
		}
		return validateExtent("height", s.Height)
	case physics.CircleKind:
		return validateExtent("radius", s.Radius)
	default:
		return fmt.Errorf("%w: unknown kind %v", ErrInvalidShape, s.Kind)
	}
}

func validateExtent(name string, v float32) error {
	if !isFinite(v) {
		return fmt.Errorf("%w: %s is %v", ErrNonFinite, name, v)
	}
	if v <= 0 {
		return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidShape, name, v)
	}
	if v > MaxShapeExtent {
		return fmt.Errorf("%w: %s too large: %v (max %v)", ErrInvalidShape, name, v, MaxShapeExtent)
	}
	return nil
}

// ValidateGroupIDs checks that every id names a real collision category
func ValidateGroupIDs(ids []int) error {
	for _, id := range ids {
		if id < 0 || id >= physics.GroupCount {
			return fmt.Errorf("%w: id %d (must be 0-%d)", ErrInvalidGroup, id, physics.GroupCount-1)
		}
	}
	return nil
}

// ValidateVector checks that both components of v are finite
func ValidateVector(name string, v physics.Vec2) error {
	if !physics.IsFinite(v) {
		return fmt.Errorf("%w: %s is (%v, %v)", ErrNonFinite, name, v[0], v[1])
	}
	return nil
}

// ValidateAngle checks that an angle in radians is finite
func ValidateAngle(name string, angle float32) error {
	if !isFinite(angle) {
		return fmt.Errorf("%w: %s is %v", ErrNonFinite, name, angle)
	}
	return nil
}

// ValidateMovement checks the kinematic resolver tunables
func ValidateMovement(maxIterations int, skin, normalNudge float32) error {
	if maxIterations < 1 || maxIterations > MaxIterations {
		return fmt.Errorf("%w: max iterations %d (must be 1-%d)", ErrInvalidMovement, maxIterations, MaxIterations)
	}
	if !isFinite(skin) || skin < 0 || skin > MaxSkin {
		return fmt.Errorf("%w: skin %v (must be 0-%v)", ErrInvalidMovement, skin, MaxSkin)
	}
	if !isFinite(normalNudge) || normalNudge < 0 || normalNudge > MaxNormalNudge {
		return fmt.Errorf("%w: normal nudge %v (must be 0-%v)", ErrInvalidMovement, normalNudge, MaxNormalNudge)
	}
	return nil
}

// ValidateSpeed validates the character speed in world units per second
func ValidateSpeed(speed float32) error {
	if !isFinite(speed) {
		return fmt.Errorf("%w: speed is %v", ErrNonFinite, speed)
	}
	if speed < 0 || speed > MaxCharacterSpeed {
		return fmt.Errorf("%w: speed %v (must be 0-%v)", ErrInvalidMovement, speed, MaxCharacterSpeed)
	}
	return nil
}

// ValidateTickRate validates the fixed simulation rate in ticks per second
func ValidateTickRate(rate int) error {
	if rate < 1 || rate > MaxTickRate {
		return fmt.Errorf("invalid tick rate: %d (must be 1-%d)", rate, MaxTickRate)
	}
	return nil
}

// ValidateBody validates a single scene body placement
func ValidateBody(shape physics.Shape, pos physics.Vec2, angle float32, groupIDs []int) error {
	if err := ValidateShape(shape); err != nil {
		return err
	}
	if err := ValidateVector("position", pos); err != nil {
		return err
	}
	if err := ValidateAngle("angle", angle); err != nil {
		return err
	}
	return ValidateGroupIDs(groupIDs)
}
