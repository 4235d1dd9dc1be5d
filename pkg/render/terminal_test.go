package render

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/opd-ai/go-collide/pkg/physics"
	"github.com/opd-ai/go-collide/pkg/sim"
)

func TestNewTerminalRenderer_CreatesValidRenderer_WithCorrectDimensions(t *testing.T) {
	tests := []struct {
		name   string
		width  int
		height int
		scale  float32
	}{
		{name: "small renderer", width: 10, height: 5, scale: 1.0},
		{name: "medium renderer", width: 80, height: 24, scale: 10.0},
		{name: "large renderer", width: 120, height: 40, scale: 5.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			renderer := NewTerminalRenderer(tt.width, tt.height, tt.scale, nil)

			if renderer.width != tt.width || renderer.height != tt.height {
				t.Errorf("expected %dx%d, got %dx%d", tt.width, tt.height, renderer.width, renderer.height)
			}
			if renderer.scale != tt.scale {
				t.Errorf("expected scale %f, got %f", tt.scale, renderer.scale)
			}
			if len(renderer.buffer) != tt.height {
				t.Fatalf("expected buffer height %d, got %d", tt.height, len(renderer.buffer))
			}
			for y, row := range renderer.buffer {
				if len(row) != tt.width {
					t.Fatalf("row %d: expected width %d, got %d", y, tt.width, len(row))
				}
				for x, cell := range row {
					if cell != SymbolEmpty {
						t.Fatalf("cell (%d,%d) = %q, want blank", x, y, cell)
					}
				}
			}
		})
	}
}

func TestTerminalRenderer_WorldToScreen(t *testing.T) {
	tests := []struct {
		name   string
		center physics.Vec2
		pos    physics.Vec2
		wantX  int
		wantY  int
	}{
		{"origin maps to middle", physics.Vec2{}, physics.Vec2{0, 0}, 5, 5},
		{"top left corner", physics.Vec2{}, physics.Vec2{-5, -5}, 0, 0},
		{"just inside bottom right", physics.Vec2{}, physics.Vec2{4.9, 4.9}, 9, 9},
		{"y grows downward", physics.Vec2{}, physics.Vec2{0, 3}, 5, 8},
		{"follows center", physics.Vec2{10, 0}, physics.Vec2{10, 0}, 5, 5},
		{"left of the view", physics.Vec2{}, physics.Vec2{-6, 0}, -1, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewTerminalRenderer(10, 10, 1, nil)
			r.SetCenter(tt.center)

			x, y := r.worldToScreen(tt.pos)
			if x != tt.wantX || y != tt.wantY {
				t.Errorf("worldToScreen(%v) = (%d, %d), want (%d, %d)", tt.pos, x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

func sampleState() *sim.State {
	return &sim.State{
		Tick: 3,
		Character: &sim.CharacterState{
			ID:    1,
			Shape: physics.NewRect(2, 2),
		},
		Bodies: []sim.BodyState{
			{ID: 2, Name: "wall", Shape: physics.NewRect(1, 4), Position: physics.Vec2{3, 0}, Bumped: true},
			{ID: 3, Name: "ball", Shape: physics.NewCircle(1), Position: physics.Vec2{-3, -3}},
			{ID: 4, Name: "far", Shape: physics.NewRect(1, 1), Position: physics.Vec2{100, 100}},
		},
	}
}

func TestTerminalRenderer_Render(t *testing.T) {
	var out bytes.Buffer
	r := NewTerminalRenderer(10, 10, 1, &out)

	if err := r.Render(sampleState()); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	cells := []struct {
		name string
		x, y int
		want rune
	}{
		{"character", 5, 5, SymbolCharacter},
		{"bumped wall", 8, 5, SymbolBumped},
		{"circle", 2, 2, SymbolCircle},
		{"empty corner", 0, 9, SymbolEmpty},
	}
	for _, c := range cells {
		t.Run(c.name, func(t *testing.T) {
			if got := r.buffer[c.y][c.x]; got != c.want {
				t.Errorf("cell (%d,%d) = %q, want %q\n%s", c.x, c.y, got, c.want, r.Frame())
			}
		})
	}

	if out.String() != r.Frame() {
		t.Error("Present() should write exactly one frame")
	}
}

func TestTerminalRenderer_RenderFollowsCharacter(t *testing.T) {
	r := NewTerminalRenderer(10, 10, 1, nil)
	state := sampleState()
	state.Character.Position = physics.Vec2{50, 50}

	if err := r.Render(state); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if r.centerPos != (physics.Vec2{50, 50}) {
		t.Errorf("center = %v, want the character position", r.centerPos)
	}
	if r.buffer[5][5] != SymbolCharacter {
		t.Errorf("character not drawn at the view center\n%s", r.Frame())
	}
}

func TestBodySymbol(t *testing.T) {
	tests := []struct {
		name  string
		state sim.BodyState
		want  rune
	}{
		{"rect", sim.BodyState{Shape: physics.NewRect(1, 1)}, SymbolRect},
		{"circle", sim.BodyState{Shape: physics.NewCircle(1)}, SymbolCircle},
		{"bumped", sim.BodyState{Shape: physics.NewCircle(1), Bumped: true}, SymbolBumped},
		{"overlap wins over bump", sim.BodyState{Shape: physics.NewRect(1, 1), Bumped: true, Overlapped: true}, SymbolOverlapped},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := bodySymbol(tt.state); got != tt.want {
				t.Errorf("bodySymbol() = %q, want %q", got, tt.want)
			}
		})
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestTerminalRenderer_Present(t *testing.T) {
	t.Run("nil state draws an empty frame", func(t *testing.T) {
		var out bytes.Buffer
		r := NewTerminalRenderer(4, 2, 1, &out)
		if err := r.Render(nil); err != nil {
			t.Fatalf("Render() error = %v", err)
		}
		want := "+----+\n|    |\n|    |\n+----+\n"
		if out.String() != want {
			t.Errorf("frame = %q, want %q", out.String(), want)
		}
	})

	t.Run("clear screen prefix", func(t *testing.T) {
		var out bytes.Buffer
		r := NewTerminalRenderer(4, 2, 1, &out)
		r.SetClearScreen(true)
		if err := r.Present(); err != nil {
			t.Fatalf("Present() error = %v", err)
		}
		if !strings.HasPrefix(out.String(), "\033[H\033[2J+") {
			t.Errorf("missing clear sequence: %q", out.String())
		}
	})

	t.Run("no output", func(t *testing.T) {
		r := NewTerminalRenderer(4, 2, 1, nil)
		if err := r.Present(); err != nil {
			t.Errorf("Present() error = %v", err)
		}
	})

	t.Run("write error", func(t *testing.T) {
		r := NewTerminalRenderer(4, 2, 1, failingWriter{})
		if err := r.Present(); err == nil {
			t.Error("expected write error")
		}
	})
}
