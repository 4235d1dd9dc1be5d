// pkg/render/engo/scene_test.go
package engo

import (
	"testing"

	"github.com/opd-ai/go-collide/pkg/config"
	"github.com/opd-ai/go-collide/pkg/physics"
	"github.com/opd-ai/go-collide/pkg/sim"
)

func newTestSim(t *testing.T, tickRate int) *sim.Simulation {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Sandbox.TickRate = tickRate
	s, err := sim.New(cfg, nil)
	if err != nil {
		t.Fatalf("sim.New() error = %v", err)
	}
	return s
}

func TestNewSandboxScene(t *testing.T) {
	s := newTestSim(t, 60)
	scene := NewSandboxScene(s, nil)

	if scene.sim != s {
		t.Error("Expected simulation to be set correctly")
	}
	if scene.logger == nil {
		t.Error("Expected a default logger")
	}
	if scene.Type() != "SandboxScene" {
		t.Errorf("Type() = %q, want %q", scene.Type(), "SandboxScene")
	}
}

func TestFixedStep_Advance(t *testing.T) {
	tests := []struct {
		name   string
		frames []float32
		want   []int
	}{
		{"short frame", []float32{0.1}, []int{0}},
		{"exact tick", []float32{0.25}, []int{1}},
		{"remainder carries", []float32{0.6, 0.2}, []int{2, 1}},
		{"short frames accumulate", []float32{0.1, 0.1, 0.1}, []int{0, 0, 1}},
		{"stall is capped and dropped", []float32{10, 0.1}, []int{maxStepsPerFrame, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := fixedStep{dt: 0.25}
			for i, frame := range tt.frames {
				if got := f.advance(frame); got != tt.want[i] {
					t.Errorf("frame %d: advance(%v) = %d, want %d", i, frame, got, tt.want[i])
				}
			}
		})
	}
}

func TestSimulationSystem_Update(t *testing.T) {
	s := newTestSim(t, 4)
	sink := newFakeSink()
	renderer := NewShapeRenderer(sink)
	camera := NewCameraSystem()
	system := NewSimulationSystem(s, renderer, camera)

	start := s.Character().Transform.Pos
	s.SetCharacterDirection(physics.Vec2{0, -1})

	system.Update(0.75)

	if s.Tick() != 3 {
		t.Errorf("Tick() = %d, want 3", s.Tick())
	}
	if got, want := renderer.Len(), len(s.Bodies())+1; got != want {
		t.Errorf("renderer has %d sprites, want %d", got, want)
	}

	pos := s.Character().Transform.Pos
	if pos[1] >= start[1] {
		t.Errorf("character did not move up: %v -> %v", start, pos)
	}
	if camera.GetCurrentPosition() != pos {
		t.Errorf("camera at %v, want the character at %v", camera.GetCurrentPosition(), pos)
	}

	system.Update(0.1)
	if s.Tick() != 3 {
		t.Errorf("a short frame should not step, Tick() = %d", s.Tick())
	}
}

func TestSimulationSystem_WithoutCamera(t *testing.T) {
	s := newTestSim(t, 4)
	system := NewSimulationSystem(s, NewShapeRenderer(newFakeSink()), nil)

	system.Update(0.25)
	if s.Tick() != 1 {
		t.Errorf("Tick() = %d, want 1", s.Tick())
	}
}

func TestSystemPriorities(t *testing.T) {
	hud := NewHUDSystem(&fakeSource{}, "")
	order := []int{
		NewInputSystem(&fakeController{}, nil).Priority(),
		(&SimulationSystem{}).Priority(),
		NewCameraSystem().Priority(),
		hud.Priority(),
	}
	for i := 1; i < len(order); i++ {
		if order[i] >= order[i-1] {
			t.Errorf("priorities %v must be strictly decreasing", order)
		}
	}
}
