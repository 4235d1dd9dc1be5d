package conv

import (
	"math/rand/v2"
	"testing"

	"github.com/chewxy/math32"

	"github.com/opd-ai/go-collide/pkg/physics"
)

func TestVectorRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 8))
	for range 10_000 {
		v := physics.Vec2{rng.Float32()*2000 - 1000, rng.Float32()*2000 - 1000}
		if got := TopLeftVectorToEngine(EngineVectorToTopLeft(v)); got != v {
			t.Fatalf("TopLeftVectorToEngine(EngineVectorToTopLeft(%v)) = %v", v, got)
		}
		if got := EngineVectorToTopLeft(TopLeftVectorToEngine(v)); got != v {
			t.Fatalf("EngineVectorToTopLeft(TopLeftVectorToEngine(%v)) = %v", v, got)
		}
	}
}

func TestTopLeftVectorToEngine(t *testing.T) {
	got := TopLeftVectorToEngine(physics.Vec2{3, 4})
	if got != (physics.Vec2{3, -4}) {
		t.Errorf("TopLeftVectorToEngine() = %v, expected (3,-4)", got)
	}
}

func TestTopLeftTransformToEngine(t *testing.T) {
	tests := []struct {
		name     string
		pos      physics.Vec2
		angle    float32
		local    physics.Vec2
		expected physics.Vec2
	}{
		{
			name:     "origin_maps_to_negated_position",
			pos:      physics.Vec2{10, 20},
			angle:    0,
			local:    physics.Vec2{},
			expected: physics.Vec2{10, -20},
		},
		{
			name:     "zero_angle_is_half_turn",
			pos:      physics.Vec2{10, 20},
			angle:    0,
			local:    physics.Vec2{1, 0},
			expected: physics.Vec2{9, -20},
		},
		{
			name:     "half_turn_is_identity_rotation",
			pos:      physics.Vec2{0, 0},
			angle:    math32.Pi,
			local:    physics.Vec2{1, 2},
			expected: physics.Vec2{1, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tf := TopLeftTransformToEngine(tt.pos, tt.angle)
			got := tf.TransformPoint(tt.local)
			if math32.Abs(got[0]-tt.expected[0]) > 1e-5 || math32.Abs(got[1]-tt.expected[1]) > 1e-5 {
				t.Errorf("TransformPoint(%v) = %v, expected %v", tt.local, got, tt.expected)
			}
		})
	}
}

func TestTransformRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 4))
	for range 10_000 {
		pos := physics.Vec2{rng.Float32() * 800, rng.Float32() * 600}
		angle := rng.Float32()*2*math32.Pi - math32.Pi

		gotPos, gotAngle := EngineTransformToTopLeft(TopLeftTransformToEngine(pos, angle))
		if gotPos != pos {
			t.Fatalf("position %v decoded as %v", pos, gotPos)
		}
		diff := NormalizeAngle(gotAngle - angle)
		if math32.Abs(diff) > 1e-4 {
			t.Fatalf("angle %v decoded as %v", angle, gotAngle)
		}
		if gotAngle <= -math32.Pi-1e-5 || gotAngle > math32.Pi+1e-5 {
			t.Fatalf("decoded angle %v is outside (-pi, pi]", gotAngle)
		}
	}
}

func TestEngineTransformToTopLeft_WrapsAngle(t *testing.T) {
	tests := []struct {
		name  string
		world float32
	}{
		{"zero", 0},
		{"quarter turn", math32.Pi / 2},
		{"negative quarter turn", -math32.Pi / 2},
		{"near half turn", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, got := EngineTransformToTopLeft(TopLeftTransformToEngine(physics.Vec2{}, tt.world))
			if math32.Abs(got-tt.world) > 1e-5 {
				t.Errorf("decoded angle = %v, want %v", got, tt.world)
			}
		})
	}
}

func TestNormalizeAngle(t *testing.T) {
	tests := []struct {
		in, expected float32
	}{
		{0, 0},
		{math32.Pi, math32.Pi},
		{-math32.Pi, math32.Pi},
		{3 * math32.Pi / 2, -math32.Pi / 2},
		{-5 * math32.Pi / 2, -math32.Pi / 2},
	}

	for _, tt := range tests {
		if got := NormalizeAngle(tt.in); math32.Abs(got-tt.expected) > 1e-5 {
			t.Errorf("NormalizeAngle(%v) = %v, expected %v", tt.in, got, tt.expected)
		}
	}
}
