// pkg/render/engo/renderer.go
package engo

import (
	"image/color"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"
	"github.com/chewxy/math32"

	"github.com/opd-ai/go-collide/pkg/physics"
	"github.com/opd-ai/go-collide/pkg/sim"
)

// Shape tints
var (
	CharacterColor  = color.RGBA{255, 220, 64, 255}
	BodyColor       = color.RGBA{255, 255, 255, 255}
	BumpedColor     = color.RGBA{64, 96, 255, 255}
	OverlappedColor = color.RGBA{255, 48, 48, 255}
)

// renderSink is the part of common.RenderSystem the renderer feeds.
type renderSink interface {
	Add(basic *ecs.BasicEntity, render *common.RenderComponent, space *common.SpaceComponent)
	Remove(basic ecs.BasicEntity)
}

// shapeSprite is the drawable stand-in for one simulation entity.
type shapeSprite struct {
	ecs.BasicEntity
	common.RenderComponent
	common.SpaceComponent
	seen bool
}

// ShapeRenderer mirrors simulation snapshots into render entities
type ShapeRenderer struct {
	sink    renderSink
	sprites map[uint64]*shapeSprite
}

// NewShapeRenderer creates a renderer feeding sink
func NewShapeRenderer(sink renderSink) *ShapeRenderer {
	return &ShapeRenderer{
		sink:    sink,
		sprites: make(map[uint64]*shapeSprite),
	}
}

// Sync brings the render entities in line with state. Sprites are created
// for new ids and removed for ids that disappeared.
func (r *ShapeRenderer) Sync(state *sim.State) {
	if state == nil {
		return
	}
	for _, s := range r.sprites {
		s.seen = false
	}

	for _, b := range state.Bodies {
		r.update(b.ID, b.Shape, b.Position, b.Angle, bodyColor(b))
	}
	if c := state.Character; c != nil {
		r.update(c.ID, c.Shape, c.Position, c.Angle, characterColor(c))
	}

	for id, s := range r.sprites {
		if !s.seen {
			r.sink.Remove(s.BasicEntity)
			delete(r.sprites, id)
		}
	}
}

// Len returns the number of live sprites
func (r *ShapeRenderer) Len() int {
	return len(r.sprites)
}

func (r *ShapeRenderer) update(id uint64, shape physics.Shape, pos physics.Vec2, angle float32, tint color.Color) {
	s, ok := r.sprites[id]
	if !ok {
		s = &shapeSprite{BasicEntity: ecs.NewBasic()}
		s.RenderComponent.Drawable = drawableFor(shape)
		r.sprites[id] = s
		r.sink.Add(&s.BasicEntity, &s.RenderComponent, &s.SpaceComponent)
	}
	s.seen = true
	s.RenderComponent.Color = tint
	s.SpaceComponent = spaceFor(shape, pos, angle)
}

// drawableFor picks the engo primitive for a shape
func drawableFor(shape physics.Shape) common.Drawable {
	switch shape.Kind {
	case physics.RectKind:
		return common.Rectangle{}
	case physics.CircleKind:
		return common.Circle{}
	default:
		panic("engo: unknown shape kind " + shape.Kind.String())
	}
}

// spaceFor places a shape centered on pos. World and screen share the
// Y-down convention, so the world angle is a clockwise screen rotation.
func spaceFor(shape physics.Shape, pos physics.Vec2, angle float32) common.SpaceComponent {
	var w, h float32
	switch shape.Kind {
	case physics.RectKind:
		w, h = shape.Width, shape.Height
	case physics.CircleKind:
		w, h = 2*shape.Radius, 2*shape.Radius
	default:
		panic("engo: unknown shape kind " + shape.Kind.String())
	}

	space := common.SpaceComponent{
		Width:    w,
		Height:   h,
		Rotation: angle * 180 / math32.Pi,
	}
	space.SetCenter(engo.Point{X: pos[0], Y: pos[1]})
	return space
}

func bodyColor(b sim.BodyState) color.Color {
	switch {
	case b.Overlapped:
		return OverlappedColor
	case b.Bumped:
		return BumpedColor
	default:
		return BodyColor
	}
}

func characterColor(c *sim.CharacterState) color.Color {
	if c.Collided {
		return BumpedColor
	}
	return CharacterColor
}
