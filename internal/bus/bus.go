// Package bus is the in-process publish/subscribe medium used to fan out
// collection-change notifications to independent subsystems. Delivery is
// synchronous, at-most-once, and only reaches listeners registered at
// publish time.
package bus

import (
	"sync"
	"time"
)

type EventKind string

const (
	NewOrderCreated   EventKind = "newOrderCreated"
	OrdersUpdated     EventKind = "ordersUpdated"
	OrdersForceUpdate EventKind = "ordersForceUpdate"
	DashboardUpdate   EventKind = "dashboardUpdate"
	RefundProcessed   EventKind = "refundProcessed"
	MenuItemsUpdated  EventKind = "menuItemsUpdated"
	UserDataUpdated   EventKind = "userDataUpdated"
)

type Event struct {
	Kind    EventKind
	Payload any
	At      time.Time
}

type Handler func(Event)

type Bus struct {
	mu   sync.RWMutex
	subs map[EventKind]map[int]Handler
	next int
}

func New() *Bus {
	return &Bus{subs: make(map[EventKind]map[int]Handler)}
}

// Subscribe registers fn for kind and returns the paired unsubscribe
// function. Unsubscribing is idempotent.
func (b *Bus) Subscribe(kind EventKind, fn Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs[kind] == nil {
		b.subs[kind] = make(map[int]Handler)
	}
	id := b.next
	b.next++
	b.subs[kind][id] = fn

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs[kind], id)
	}
}

// Publish delivers to every handler currently registered for kind. Handlers
// run on the publisher's goroutine; they must not block.
func (b *Bus) Publish(kind EventKind, payload any) {
	ev := Event{Kind: kind, Payload: payload, At: time.Now()}

	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs[kind]))
	for _, fn := range b.subs[kind] {
		handlers = append(handlers, fn)
	}
	b.mu.RUnlock()

	for _, fn := range handlers {
		fn(ev)
	}
}

// SubscriberCount reports how many listeners are registered for kind.
func (b *Bus) SubscriberCount(kind EventKind) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[kind])
}
