// pkg/world/system.go
package world

import (
	"context"

	"github.com/EngoEngine/ecs"

	"github.com/opd-ai/go-collide/pkg/conv"
	"github.com/opd-ai/go-collide/pkg/event"
	"github.com/opd-ai/go-collide/pkg/kinematic"
	"github.com/opd-ai/go-collide/pkg/logging"
	"github.com/opd-ai/go-collide/pkg/physics"
)

// CollisionSystemPriority runs collisions before rendering and input
// systems that read the results.
const CollisionSystemPriority = 10

// contactLogWindow is the number of ticks over which contact logs are
// budgeted, per mover.
const contactLogWindow = 60

type collisionEntity struct {
	basic     *ecs.BasicEntity
	transform *Transform
	body      *Body
	kinematic *Kinematic
	query     *Query
}

// Options configures a CollisionSystem. Every field is optional.
type Options struct {
	Resolver kinematic.Resolver
	Bus      *event.Bus
	Logger   *logging.Logger
	// Context is the parent of every log record, e.g. to carry a run id.
	Context context.Context
	// ContactLogsPerWindow caps contact debug records per mover.
	ContactLogsPerWindow int
}

// CollisionSystem runs the collision pipeline once per ecs.World update:
// import every body into the solver, move kinematic entities, then
// evaluate overlap queries.
//
// Movers see other movers at their start-of-tick poses. Queries see
// bodies at their start-of-tick poses too, as the solver is filled once.
type CollisionSystem struct {
	entities []collisionEntity
	solver   *physics.CollisionSolver[uint64]
	resolver kinematic.Resolver

	bus      *event.Bus
	logger   *logging.Logger
	ctx      context.Context
	throttle *logging.Throttle

	tick     uint64
	contacts int
	overlaps int
}

// NewCollisionSystem creates a system with opts applied.
func NewCollisionSystem(opts Options) *CollisionSystem {
	if opts.Resolver.MaxIterations == 0 {
		opts.Resolver = kinematic.DefaultResolver()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.ContactLogsPerWindow == 0 {
		opts.ContactLogsPerWindow = 3
	}

	return &CollisionSystem{
		solver:   physics.NewCollisionSolver[uint64](),
		resolver: opts.Resolver,
		bus:      opts.Bus,
		logger:   opts.Logger,
		ctx:      opts.Context,
		throttle: logging.NewThrottle(opts.ContactLogsPerWindow, contactLogWindow),
	}
}

// Priority satisfies the ecs.Prioritizer interface
func (s *CollisionSystem) Priority() int {
	return CollisionSystemPriority
}

// Add registers an entity. transform is required; body, kin and query may
// each be nil. A kinematic entity without a body is never moved, since it
// has no shape to sweep.
func (s *CollisionSystem) Add(basic *ecs.BasicEntity, transform *Transform, body *Body, kin *Kinematic, query *Query) {
	if transform == nil {
		s.logger.Warn(s.ctx, "entity added without transform", "entity_id", basic.ID())
		return
	}

	s.entities = append(s.entities, collisionEntity{
		basic:     basic,
		transform: transform,
		body:      body,
		kinematic: kin,
		query:     query,
	})

	if body != nil && s.bus != nil {
		s.bus.Publish(event.NewBodyEvent(event.BodySpawned, s, basic.ID(), body.Shape, body.Groups))
	}
}

// Remove satisfies the ecs.System interface
func (s *CollisionSystem) Remove(basic ecs.BasicEntity) {
	for i, e := range s.entities {
		if e.basic.ID() != basic.ID() {
			continue
		}
		s.entities = append(s.entities[:i], s.entities[i+1:]...)
		s.throttle.Forget(basic.ID())

		if e.body != nil && s.bus != nil {
			s.bus.Publish(event.NewBodyEvent(event.BodyRemoved, s, basic.ID(), e.body.Shape, e.body.Groups))
		}
		return
	}
}

// Len returns the number of registered entities.
func (s *CollisionSystem) Len() int {
	return len(s.entities)
}

// Tick returns the number of completed updates.
func (s *CollisionSystem) Tick() uint64 {
	return s.tick
}

// Update satisfies the ecs.System interface. dt is unused: displacements
// are per tick.
func (s *CollisionSystem) Update(dt float32) {
	s.tick++
	s.contacts, s.overlaps = 0, 0
	ctx := logging.WithTick(s.ctx, s.tick)

	s.importColliders()
	s.moveKinematics(ctx)
	s.computeQueries()

	s.logger.Debug(ctx, "collision tick",
		"bodies", s.solver.Len(),
		"contacts", s.contacts,
		"overlaps", s.overlaps,
	)
	s.throttle.Prune(s.tick)

	if s.bus != nil {
		s.bus.Publish(event.NewTickEvent(s, s.tick, s.solver.Len(), s.contacts, s.overlaps))
	}
}

func (s *CollisionSystem) importColliders() {
	s.solver.Fill(func(yield func(uint64, physics.Collider) bool) {
		for _, e := range s.entities {
			if e.body == nil {
				continue
			}
			if !yield(e.basic.ID(), e.bodyCollider()) {
				return
			}
		}
	})
}

func (s *CollisionSystem) moveKinematics(ctx context.Context) {
	for _, e := range s.entities {
		kin := e.kinematic
		if kin == nil || e.body == nil {
			continue
		}

		character := e.bodyCollider()
		character.Group = kin.Collision

		displacement := conv.TopLeftVectorToEngine(kin.Displacement)
		res := kinematic.Move[uint64](s.solver, s.resolver, character, displacement, kin.Slide)

		e.transform.Pos, _ = conv.EngineTransformToTopLeft(res.Transform)
		kin.Collided = res.Collided
		kin.Touched = append(kin.Touched[:0], res.Touched...)

		if !res.Collided {
			continue
		}
		s.contacts++

		id := e.basic.ID()
		if s.throttle.Allow(id, s.tick) {
			s.logger.Debug(ctx, "kinematic contact",
				"entity_id", id,
				"touched", kin.Touched,
				"iterations", res.Iterations,
				"position", e.transform.Pos,
			)
		}
		if s.bus != nil {
			touched := append([]uint64(nil), kin.Touched...)
			s.bus.Publish(event.NewContactEvent(s, s.tick, id, touched, e.transform.Pos))
		}
	}
}

func (s *CollisionSystem) computeQueries() {
	for _, e := range s.entities {
		q := e.query
		if q == nil {
			continue
		}
		q.Overlaps = q.Overlaps[:0]
		if q.Group.IsEmpty() {
			continue
		}

		self := e.basic.ID()
		collider := physics.NewCollider(q.Shape, e.transform.Plus(q.Offset).engine(), q.Group)
		for h := range s.solver.QueryOverlaps(collider, q.Filter) {
			if h == self {
				continue
			}
			q.Overlaps = append(q.Overlaps, h)
			if q.Max > 0 && len(q.Overlaps) >= q.Max {
				break
			}
		}

		if !q.HasOverlaps() {
			continue
		}
		s.overlaps++
		if s.bus != nil {
			overlaps := append([]uint64(nil), q.Overlaps...)
			s.bus.Publish(event.NewOverlapEvent(s, s.tick, self, overlaps))
		}
	}
}

func (e collisionEntity) bodyCollider() physics.Collider {
	return physics.NewCollider(e.body.Shape, e.transform.engine(), e.body.Groups)
}
