// pkg/event/event.go
package event

import (
	"sync"

	"github.com/opd-ai/go-collide/pkg/physics"
)

// Type represents the type of event
type Type string

// Event types published by the collision pipeline
const (
	KinematicContact Type = "kinematic_contact"
	QueryOverlap     Type = "query_overlap"
	TickCompleted    Type = "tick_completed"
	BodySpawned      Type = "body_spawned"
	BodyRemoved      Type = "body_removed"
)

// Event is the base interface for all events
type Event interface {
	GetType() Type
	GetSource() interface{}
}

// BaseEvent provides common functionality for all events
type BaseEvent struct {
	EventType Type
	Source    interface{}
}

// GetType returns the event type
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// GetSource returns the event source
func (e *BaseEvent) GetSource() interface{} {
	return e.Source
}

// Handler is a function that handles events
type Handler func(Event)

// Subscription identifies a registered handler.
type Subscription struct {
	ID     uint64
	Cancel func()
}

type registeredHandler struct {
	id      uint64
	handler Handler
}

// Bus manages event subscriptions and dispatching
type Bus struct {
	handlers map[Type][]registeredHandler
	nextID   uint64
	mu       sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]registeredHandler),
		nextID:   1,
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType Type, handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.handlers[eventType] = append(b.handlers[eventType], registeredHandler{id: id, handler: handler})

	return &Subscription{
		ID:     id,
		Cancel: func() { b.Unsubscribe(eventType, id) },
	}
}

// Unsubscribe removes the handler registered under id
func (b *Bus) Unsubscribe(eventType Type, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	handlers := b.handlers[eventType]
	for i, h := range handlers {
		if h.id == id {
			// copy so in-flight publishes keep their snapshot
			rest := make([]registeredHandler, 0, len(handlers)-1)
			rest = append(rest, handlers[:i]...)
			b.handlers[eventType] = append(rest, handlers[i+1:]...)
			return
		}
	}
}

// Publish sends an event to all subscribed handlers
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	handlers := b.handlers[event.GetType()]
	b.mu.RUnlock()

	for _, h := range handlers {
		h.handler(event)
	}
}

// Specific event implementations

// ContactEvent reports the obstacles a kinematic mover ran into during a tick
type ContactEvent struct {
	BaseEvent
	Tick     uint64
	EntityID uint64
	Touched  []uint64
	Position physics.Vec2
}

// NewContactEvent creates a new kinematic contact event
func NewContactEvent(source interface{}, tick, entityID uint64, touched []uint64, pos physics.Vec2) *ContactEvent {
	return &ContactEvent{
		BaseEvent: BaseEvent{
			EventType: KinematicContact,
			Source:    source,
		},
		Tick:     tick,
		EntityID: entityID,
		Touched:  touched,
		Position: pos,
	}
}

// OverlapEvent reports the bodies a query volume overlapped during a tick
type OverlapEvent struct {
	BaseEvent
	Tick     uint64
	EntityID uint64
	Overlaps []uint64
}

// NewOverlapEvent creates a new query overlap event
func NewOverlapEvent(source interface{}, tick, entityID uint64, overlaps []uint64) *OverlapEvent {
	return &OverlapEvent{
		BaseEvent: BaseEvent{
			EventType: QueryOverlap,
			Source:    source,
		},
		Tick:     tick,
		EntityID: entityID,
		Overlaps: overlaps,
	}
}

// BodyEvent reports a body entering or leaving the simulation
type BodyEvent struct {
	BaseEvent
	EntityID uint64
	Shape    physics.Shape
	Group    physics.Group
}

// NewBodyEvent creates a new body lifecycle event
func NewBodyEvent(eventType Type, source interface{}, entityID uint64, shape physics.Shape, group physics.Group) *BodyEvent {
	return &BodyEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		EntityID: entityID,
		Shape:    shape,
		Group:    group,
	}
}

// TickEvent summarizes one completed simulation tick
type TickEvent struct {
	BaseEvent
	Tick     uint64
	Bodies   int
	Contacts int
	Overlaps int
}

// NewTickEvent creates a new tick completion event
func NewTickEvent(source interface{}, tick uint64, bodies, contacts, overlaps int) *TickEvent {
	return &TickEvent{
		BaseEvent: BaseEvent{
			EventType: TickCompleted,
			Source:    source,
		},
		Tick:     tick,
		Bodies:   bodies,
		Contacts: contacts,
		Overlaps: overlaps,
	}
}
