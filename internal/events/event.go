// Package events publishes inventory changes to a message broker.
package events

import "time"

type Type string

const (
	SweetCreated   Type = "sweet.created"
	SweetUpdated   Type = "sweet.updated"
	SweetPurchased Type = "sweet.purchased"
	SweetRestocked Type = "sweet.restocked"
	SweetDeleted   Type = "sweet.deleted"
)

// InventoryEvent describes one successful catalog mutation. Delta is the
// signed stock change for purchases and restocks, zero otherwise.
type InventoryEvent struct {
	Type       Type      `json:"type"`
	SweetID    int       `json:"sweet_id"`
	Name       string    `json:"name"`
	Quantity   int       `json:"quantity"`
	Delta      int       `json:"delta"`
	ActorID    int       `json:"actor_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Emitter accepts events without blocking the caller.
type Emitter interface {
	Emit(ev InventoryEvent)
}

// Emitters fans one event out to several emitters in order.
type Emitters []Emitter

func (es Emitters) Emit(ev InventoryEvent) {
	for _, e := range es {
		if e != nil {
			e.Emit(ev)
		}
	}
}
