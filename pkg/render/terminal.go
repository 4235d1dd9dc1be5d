package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/chewxy/math32"

	"github.com/opd-ai/go-collide/pkg/conv"
	"github.com/opd-ai/go-collide/pkg/physics"
	"github.com/opd-ai/go-collide/pkg/sim"
)

// Cell symbols
const (
	SymbolEmpty      = ' '
	SymbolRect       = '#'
	SymbolCircle     = 'o'
	SymbolBumped     = '+'
	SymbolOverlapped = 'x'
	SymbolCharacter  = '@'
)

// TerminalRenderer provides a simple ASCII-based rendering for terminals.
// Each cell covers scale x scale world units; a cell is filled when a shape
// touches it.
type TerminalRenderer struct {
	width     int
	height    int
	buffer    [][]rune
	scale     float32
	centerPos physics.Vec2
	out       io.Writer
	// clearScreen emits an ANSI clear before every frame
	clearScreen bool
}

// NewTerminalRenderer creates a new terminal renderer with the specified dimensions
func NewTerminalRenderer(width, height int, scale float32, out io.Writer) *TerminalRenderer {
	buffer := make([][]rune, height)
	for i := range buffer {
		buffer[i] = make([]rune, width)
	}

	r := &TerminalRenderer{
		width:  width,
		height: height,
		buffer: buffer,
		scale:  scale,
		out:    out,
	}
	r.Clear()
	return r
}

// SetCenter sets the center position of the view
func (r *TerminalRenderer) SetCenter(pos physics.Vec2) {
	r.centerPos = pos
}

// SetClearScreen toggles clearing the terminal before each frame
func (r *TerminalRenderer) SetClearScreen(enabled bool) {
	r.clearScreen = enabled
}

// worldToScreen converts world coordinates to screen coordinates
func (r *TerminalRenderer) worldToScreen(pos physics.Vec2) (int, int) {
	screenX := math32.Floor((pos[0]-r.centerPos[0])/r.scale + float32(r.width)/2)
	screenY := math32.Floor((pos[1]-r.centerPos[1])/r.scale + float32(r.height)/2)
	return int(screenX), int(screenY)
}

// cellCenter returns the world position at the middle of a cell
func (r *TerminalRenderer) cellCenter(x, y int) physics.Vec2 {
	return physics.Vec2{
		(float32(x)+0.5-float32(r.width)/2)*r.scale + r.centerPos[0],
		(float32(y)+0.5-float32(r.height)/2)*r.scale + r.centerPos[1],
	}
}

// Clear blanks the frame buffer
func (r *TerminalRenderer) Clear() {
	for y := range r.buffer {
		for x := range r.buffer[y] {
			r.buffer[y][x] = SymbolEmpty
		}
	}
}

// Render implements Renderer. The view follows the character.
func (r *TerminalRenderer) Render(state *sim.State) error {
	r.Clear()
	if state == nil {
		return r.Present()
	}

	if c := state.Character; c != nil {
		r.SetCenter(c.Position)
	}
	for _, b := range state.Bodies {
		r.drawShape(b.Shape, b.Position, b.Angle, bodySymbol(b))
	}
	if c := state.Character; c != nil {
		r.drawShape(c.Shape, c.Position, c.Angle, SymbolCharacter)
	}
	return r.Present()
}

func bodySymbol(b sim.BodyState) rune {
	switch {
	case b.Overlapped:
		return SymbolOverlapped
	case b.Bumped:
		return SymbolBumped
	case b.Shape.Kind == physics.CircleKind:
		return SymbolCircle
	default:
		return SymbolRect
	}
}

// drawShape fills every cell the shape touches. Only cells inside the
// shape's bounding box are tested.
func (r *TerminalRenderer) drawShape(shape physics.Shape, pos physics.Vec2, angle float32, symbol rune) {
	tf := conv.TopLeftTransformToEngine(pos, angle)
	bounds := shape.Bounds(tf)

	world := physics.NewAABB(conv.EngineVectorToTopLeft(bounds.Min), conv.EngineVectorToTopLeft(bounds.Max))
	x0, y0 := r.worldToScreen(world.Min)
	x1, y1 := r.worldToScreen(world.Max)
	x0, y0 = max(x0, 0), max(y0, 0)
	x1, y1 = min(x1, r.width-1), min(y1, r.height-1)

	cell := physics.NewRect(r.scale, r.scale)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			cellTf := conv.TopLeftTransformToEngine(r.cellCenter(x, y), 0)
			if !cell.IsSeparated(shape, cellTf, tf) {
				r.buffer[y][x] = symbol
			}
		}
	}
}

// Frame returns the buffer as text, one line per row.
func (r *TerminalRenderer) Frame() string {
	var sb strings.Builder
	sb.WriteString("+" + strings.Repeat("-", r.width) + "+\n")
	for y := range r.buffer {
		sb.WriteString("|")
		sb.WriteString(string(r.buffer[y]))
		sb.WriteString("|\n")
	}
	sb.WriteString("+" + strings.Repeat("-", r.width) + "+\n")
	return sb.String()
}

// Present writes the frame to the output
func (r *TerminalRenderer) Present() error {
	if r.out == nil {
		return nil
	}
	frame := r.Frame()
	if r.clearScreen {
		frame = "\033[H\033[2J" + frame
	}
	if _, err := io.WriteString(r.out, frame); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	return nil
}
