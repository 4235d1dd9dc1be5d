// pkg/sim/state.go
package sim

import (
	"slices"

	"github.com/opd-ai/go-collide/pkg/physics"
)

// State represents a snapshot of the simulation
type State struct {
	Tick      uint64          `json:"tick"`
	Character *CharacterState `json:"character,omitempty"`
	Bodies    []BodyState     `json:"bodies"`
}

// CharacterState represents a snapshot of the character
type CharacterState struct {
	ID       uint64        `json:"id"`
	Position physics.Vec2  `json:"position"`
	Angle    float32       `json:"angle"`
	Shape    physics.Shape `json:"shape"`
	Collided bool          `json:"collided"`
	Touched  []uint64      `json:"touched,omitempty"`
	Overlaps []uint64      `json:"overlaps,omitempty"`
}

// BodyState represents a snapshot of a static body. Bumped and Overlapped
// relate the body to the character's last tick.
type BodyState struct {
	ID         uint64        `json:"id"`
	Name       string        `json:"name,omitempty"`
	Position   physics.Vec2  `json:"position"`
	Angle      float32       `json:"angle"`
	Shape      physics.Shape `json:"shape"`
	Group      physics.Group `json:"group"`
	Bumped     bool          `json:"bumped"`
	Overlapped bool          `json:"overlapped"`
}

// GetState returns a snapshot of the current simulation state
func (s *Simulation) GetState() *State {
	s.EntityLock.RLock()
	defer s.EntityLock.RUnlock()

	return s.createStateSnapshot()
}

func (s *Simulation) createStateSnapshot() *State {
	state := &State{
		Tick:      s.System.Tick(),
		Character: s.getCharacterState(),
		Bodies:    make([]BodyState, 0, len(s.bodies)),
	}

	var touched, overlaps []uint64
	if state.Character != nil {
		touched, overlaps = state.Character.Touched, state.Character.Overlaps
	}

	for _, b := range s.bodies {
		state.Bodies = append(state.Bodies, BodyState{
			ID:         b.ID(),
			Name:       b.Name,
			Position:   b.Transform.Pos,
			Angle:      b.Transform.Angle,
			Shape:      b.Body.Shape,
			Group:      b.Body.Groups,
			Bumped:     slices.Contains(touched, b.ID()),
			Overlapped: slices.Contains(overlaps, b.ID()),
		})
	}
	return state
}

func (s *Simulation) getCharacterState() *CharacterState {
	c := s.character
	if c == nil {
		return nil
	}
	return &CharacterState{
		ID:       c.ID(),
		Position: c.Transform.Pos,
		Angle:    c.Transform.Angle,
		Shape:    c.Body.Shape,
		Collided: c.Kinematic.Collided,
		Touched:  slices.Clone(c.Kinematic.Touched),
		Overlaps: slices.Clone(c.Sensor.Overlaps),
	}
}
