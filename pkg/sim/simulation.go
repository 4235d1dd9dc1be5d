// pkg/sim/simulation.go
package sim

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/EngoEngine/ecs"

	"github.com/opd-ai/go-collide/pkg/config"
	"github.com/opd-ai/go-collide/pkg/event"
	"github.com/opd-ai/go-collide/pkg/logging"
	"github.com/opd-ai/go-collide/pkg/physics"
	"github.com/opd-ai/go-collide/pkg/validation"
	"github.com/opd-ai/go-collide/pkg/world"
)

// ErrUnknownBody is returned when an id does not name a spawned body
var ErrUnknownBody = errors.New("unknown body")

// BodySpec describes a static body. It is the config form of a body.
type BodySpec = config.BodyConfig

// Body is a static, solid entity
type Body struct {
	ecs.BasicEntity
	Name      string
	Transform world.Transform
	Body      world.Body
}

// Character is the controllable kinematic entity. Its sensor reports
// what it overlaps after each move.
type Character struct {
	ecs.BasicEntity
	Name      string
	Transform world.Transform
	Body      world.Body
	Kinematic world.Kinematic
	Sensor    world.Query

	direction physics.Vec2
}

// Stats accumulates per-tick results reported by the collision system
type Stats struct {
	Ticks    uint64
	Contacts int
	Overlaps int
}

// Simulation is a fixed-step headless collision world
type Simulation struct {
	Config   *config.Config
	World    *ecs.World
	System   *world.CollisionSystem
	EventBus *event.Bus

	EntityLock sync.RWMutex
	Running    bool
	StartTime  time.Time

	bodies    []*Body
	character *Character
	stats     Stats

	logger *logging.Logger
	ctx    context.Context
}

// New builds a simulation and spawns the configured scene
func New(cfg *config.Config, logger *logging.Logger) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid simulation config: %w", err)
	}
	if logger == nil {
		logger = logging.Discard()
	}

	ctx := logging.WithRunID(context.Background(), logging.GenerateRunID())
	bus := event.NewEventBus()

	s := &Simulation{
		Config:   cfg,
		World:    &ecs.World{},
		EventBus: bus,
		logger:   logger,
		ctx:      ctx,
	}
	s.System = world.NewCollisionSystem(world.Options{
		Resolver: cfg.Resolver(),
		Bus:      bus,
		Logger:   logger,
		Context:  ctx,
	})
	s.World.AddSystem(s.System)
	s.registerEventHandlers()

	for _, spec := range cfg.Scene.Bodies {
		if _, err := s.Spawn(spec); err != nil {
			return nil, err
		}
	}
	if _, err := s.SpawnCharacter(cfg.Scene.Character); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "simulation created",
		"bodies", len(s.bodies),
		"tick_rate", cfg.Sandbox.TickRate,
	)
	return s, nil
}

// registerEventHandlers registers handlers for collision events. They run
// inside Step, with EntityLock already held.
func (s *Simulation) registerEventHandlers() {
	s.EventBus.Subscribe(event.TickCompleted, s.handleTickCompleted)
}

func (s *Simulation) handleTickCompleted(e event.Event) {
	tick, ok := e.(*event.TickEvent)
	if !ok {
		return
	}
	s.stats.Ticks = tick.Tick
	s.stats.Contacts += tick.Contacts
	s.stats.Overlaps += tick.Overlaps
}

// Spawn adds a static body and returns its id
func (s *Simulation) Spawn(spec BodySpec) (uint64, error) {
	if err := validation.ValidateBody(spec.Shape, spec.Position, spec.Angle, spec.Groups); err != nil {
		return 0, fmt.Errorf("spawn %q: %w", spec.Name, err)
	}

	s.EntityLock.Lock()
	defer s.EntityLock.Unlock()

	b := &Body{
		BasicEntity: ecs.NewBasic(),
		Name:        spec.Name,
		Transform:   world.Transform{Pos: spec.Position, Angle: spec.Angle},
		Body:        world.Body{Shape: spec.Shape, Groups: spec.Group()},
	}
	s.System.Add(&b.BasicEntity, &b.Transform, &b.Body, nil, nil)
	s.bodies = append(s.bodies, b)

	s.logger.Debug(s.ctx, "body spawned",
		"entity_id", b.ID(),
		"name", b.Name,
		"shape", b.Body.Shape,
		"group", b.Body.Groups,
	)
	return b.ID(), nil
}

// SpawnCharacter places the character, replacing any previous one
func (s *Simulation) SpawnCharacter(spec config.CharacterConfig) (uint64, error) {
	if err := validation.ValidateBody(spec.Shape, spec.Position, spec.Angle, spec.Groups); err != nil {
		return 0, fmt.Errorf("spawn character: %w", err)
	}

	s.EntityLock.Lock()
	defer s.EntityLock.Unlock()

	if s.character != nil {
		s.World.RemoveEntity(s.character.BasicEntity)
	}

	c := &Character{
		BasicEntity: ecs.NewBasic(),
		Name:        spec.Name,
		Transform:   world.Transform{Pos: spec.Position, Angle: spec.Angle},
		Body:        world.Body{Shape: spec.Shape, Groups: spec.Group()},
		Kinematic: world.Kinematic{
			Collision: spec.CollisionGroup(),
			Slide:     s.Config.Movement.Slide,
		},
		Sensor: world.Query{
			Shape:  spec.Shape,
			Group:  spec.SensorGroup(),
			Filter: spec.SensorFilterGroup(),
		},
	}
	s.System.Add(&c.BasicEntity, &c.Transform, &c.Body, &c.Kinematic, &c.Sensor)
	s.character = c

	return c.ID(), nil
}

// RespawnCharacter puts the configured character back at its start pose
func (s *Simulation) RespawnCharacter() error {
	_, err := s.SpawnCharacter(s.Config.Scene.Character)
	return err
}

// Remove deletes a static body
func (s *Simulation) Remove(id uint64) error {
	s.EntityLock.Lock()
	defer s.EntityLock.Unlock()

	i := slices.IndexFunc(s.bodies, func(b *Body) bool { return b.ID() == id })
	if i < 0 {
		return fmt.Errorf("remove %d: %w", id, ErrUnknownBody)
	}
	s.World.RemoveEntity(s.bodies[i].BasicEntity)
	s.bodies = slices.Delete(s.bodies, i, i+1)
	return nil
}

// SetCharacterDirection sets the direction the character walks in. The
// direction is normalized; a zero vector stops the character.
func (s *Simulation) SetCharacterDirection(dir physics.Vec2) {
	s.EntityLock.Lock()
	defer s.EntityLock.Unlock()

	if s.character != nil {
		s.character.direction = physics.NormalizeOrZero(dir)
	}
}

// Step advances the simulation by one tick of dt seconds
func (s *Simulation) Step(dt float32) {
	s.EntityLock.Lock()
	defer s.EntityLock.Unlock()

	if c := s.character; c != nil {
		c.Kinematic.Displacement = c.direction.Mul(s.Config.Movement.CharacterSpeed * dt)
	}
	s.World.Update(dt)
}

// Run steps the simulation until ticks have elapsed or ctx is cancelled.
// ticks <= 0 runs until cancellation. Cancellation is checked between
// ticks and reported as ctx.Err().
func (s *Simulation) Run(ctx context.Context, ticks int, dt float32) error {
	s.EntityLock.Lock()
	s.Running = true
	s.StartTime = time.Now()
	s.EntityLock.Unlock()

	defer func() {
		s.EntityLock.Lock()
		s.Running = false
		s.EntityLock.Unlock()
	}()

	s.logger.Info(s.ctx, "simulation started", "ticks", ticks, "dt", dt)

	for i := 0; ticks <= 0 || i < ticks; i++ {
		if err := ctx.Err(); err != nil {
			s.logger.Info(s.ctx, "simulation cancelled", "tick", s.Tick())
			return err
		}
		s.Step(dt)
	}

	stats := s.Stats()
	s.logger.Info(s.ctx, "simulation finished",
		"ticks", stats.Ticks,
		"contacts", stats.Contacts,
		"overlaps", stats.Overlaps,
		"elapsed", time.Since(s.StartTime),
	)
	return nil
}

// Tick returns the number of completed ticks
func (s *Simulation) Tick() uint64 {
	s.EntityLock.RLock()
	defer s.EntityLock.RUnlock()
	return s.System.Tick()
}

// Stats returns the accumulated tick statistics
func (s *Simulation) Stats() Stats {
	s.EntityLock.RLock()
	defer s.EntityLock.RUnlock()
	return s.stats
}

// Character returns the character, or nil if none was spawned
func (s *Simulation) Character() *Character {
	s.EntityLock.RLock()
	defer s.EntityLock.RUnlock()
	return s.character
}

// Bodies returns the static bodies in spawn order
func (s *Simulation) Bodies() []*Body {
	s.EntityLock.RLock()
	defer s.EntityLock.RUnlock()
	return slices.Clone(s.bodies)
}
