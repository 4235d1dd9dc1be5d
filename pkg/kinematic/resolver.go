// pkg/kinematic/resolver.go
package kinematic

import (
	"github.com/opd-ai/go-collide/pkg/physics"
)

const (
	// DefaultMaxIterations bounds the casts spent on one move.
	DefaultMaxIterations = 10
	// DefaultSkin is the gap left between the mover and what it hit.
	DefaultSkin float32 = 0.01
	// DefaultNormalNudge pushes leftover motion off the contact surface.
	DefaultNormalNudge float32 = 1e-3
)

// ShapeCaster finds the nearest obstacle for a swept collider.
// physics.CollisionSolver satisfies it.
type ShapeCaster[H any] interface {
	QueryShapeCast(query physics.Collider, dir physics.Vec2, tMax float32) (physics.CastHit[H], bool)
}

// Resolver holds the tunables of the move loop.
type Resolver struct {
	MaxIterations int
	Skin          float32
	NormalNudge   float32
}

func DefaultResolver() Resolver {
	return Resolver{
		MaxIterations: DefaultMaxIterations,
		Skin:          DefaultSkin,
		NormalNudge:   DefaultNormalNudge,
	}
}

// Result is the outcome of a move.
type Result[H any] struct {
	// Transform is the final pose of the mover.
	Transform physics.Affine2
	// Collided is true if any contact happened during the move.
	Collided bool
	// Iterations counts the casts performed.
	Iterations int
	// Touched lists the handles hit, in order of contact.
	Touched []H
}

// Move advances character by displacement through the obstacles reported
// by caster, stopping at each contact. With slide set, the remaining
// motion is projected onto the contact surface and the loop continues;
// otherwise the mover stops at the first contact.
//
// The character's group is used as the cast group. caster is only read.
func Move[H any](caster ShapeCaster[H], r Resolver, character physics.Collider, displacement physics.Vec2, slide bool) Result[H] {
	res := Result[H]{Transform: character.Transform}
	remaining := displacement

	for res.Iterations < r.MaxIterations {
		budget := remaining.Len()
		if budget == 0 {
			break
		}
		dir := remaining.Mul(1 / budget)

		res.Iterations++
		hit, ok := caster.QueryShapeCast(character.WithTransform(res.Transform), dir, budget)
		if !ok {
			res.Transform = res.Transform.Translated(remaining)
			break
		}

		res.Transform = res.Transform.Translated(dir.Mul(hit.Time - r.Skin))
		remaining = remaining.Sub(hit.Normal.Mul(remaining.Dot(hit.Normal)))
		remaining = remaining.Add(hit.Normal.Mul(r.NormalNudge))
		res.Collided = true
		res.Touched = append(res.Touched, hit.Handle)

		if !slide {
			break
		}
	}
	return res
}
