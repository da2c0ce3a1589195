package engine

import (
	"sync/atomic"

	"github.com/lixenwraith/turret/components"
	"github.com/lixenwraith/turret/constants"
)

// EventType identifies a queued world mutation
type EventType uint8

const (
	EventAim        EventType = iota // Payload: AimPayload
	EventFire                        // Payload: FirePayload
	EventSpawnEnemy                  // Payload: SpawnPayload
)

func (t EventType) String() string {
	switch t {
	case EventAim:
		return "Aim"
	case EventFire:
		return "Fire"
	case EventSpawnEnemy:
		return "SpawnEnemy"
	default:
		return "Unknown"
	}
}

// AimPayload carries the new facing angle in radians
type AimPayload struct {
	Angle float64
}

// FirePayload carries the aim angle at the moment of the click
type FirePayload struct {
	Angle float64
}

// SpawnPayload carries an enemy descriptor; ID is assigned on apply
type SpawnPayload struct {
	Enemy components.EnemyComponent
}

// GameEvent is a queued mutation produced outside the driver goroutine
// Generation is the World.Generation the producer observed; 0 applies to any session
type GameEvent struct {
	Type       EventType
	Generation uint64
	Payload    any
}

// Stale reports whether ev was produced for a session other than generation
func (ev GameEvent) Stale(generation uint64) bool {
	return ev.Generation != 0 && ev.Generation != generation
}

// EventQueue is a lock-free MPSC ring buffer for game events
// Thread-Safety:
//   - Push: Lock-free CAS, multiple producers OK (input, spawn scheduler, network)
//   - Consume: Single consumer (driver goroutine)
//   - Published flags prevent reading partial writes
//
// Overflow: Oldest events overwritten when full
type EventQueue struct {
	events    [constants.EventQueueSize]GameEvent
	published [constants.EventQueueSize]atomic.Bool
	head      atomic.Uint64 // Read index
	tail      atomic.Uint64 // Write index
}

func NewEventQueue() *EventQueue {
	return &EventQueue{}
}

// Push adds event using lock-free CAS with published flags pattern
func (eq *EventQueue) Push(event GameEvent) {
	for {
		currentTail := eq.tail.Load()
		nextTail := currentTail + 1

		if eq.tail.CompareAndSwap(currentTail, nextTail) {
			idx := currentTail & constants.EventBufferMask

			eq.events[idx] = event
			eq.published[idx].Store(true) // MUST be after write

			// Advance head if overwriting unread events
			currentHead := eq.head.Load()
			if nextTail-currentHead > constants.EventQueueSize {
				eq.head.CompareAndSwap(currentHead, nextTail-constants.EventQueueSize)
			}
			return
		}
	}
}

// Consume returns all pending events in FIFO order and advances head
func (eq *EventQueue) Consume() []GameEvent {
	for {
		currentHead := eq.head.Load()
		currentTail := eq.tail.Load()

		if currentTail == currentHead {
			return nil
		}

		maxAvailable := currentTail - currentHead
		if maxAvailable > constants.EventQueueSize {
			maxAvailable = constants.EventQueueSize
			currentHead = currentTail - constants.EventQueueSize
		}

		result := make([]GameEvent, 0, maxAvailable)
		for i := uint64(0); i < maxAvailable; i++ {
			idx := (currentHead + i) & constants.EventBufferMask

			if !eq.published[idx].Load() {
				break // Writer incomplete
			}

			result = append(result, eq.events[idx])
			eq.published[idx].Store(false)
		}

		newHead := currentHead + uint64(len(result))
		if eq.head.CompareAndSwap(currentHead, newHead) {
			if len(result) == 0 {
				return nil
			}
			return result
		}
	}
}

// Drain discards all pending events, used on restart so stale spawns never leak into a new session
func (eq *EventQueue) Drain() int {
	return len(eq.Consume())
}
