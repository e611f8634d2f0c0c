// Package broadcast carries typed list-change notifications between the
// storefront's server-side components, replacing the payload-less DOM event
// the browser widgets used to poke each other with.
package broadcast

import (
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"
)

// ListKind identifies which session-scoped list changed.
type ListKind string

const (
	ListCart     ListKind = "cart"
	ListWishlist ListKind = "wishlist"
	ListBrowsing ListKind = "browsing"
	ListConsent  ListKind = "consent"
)

// ChangeKind describes what happened, so subscribers can react precisely
// instead of re-reading the full list.
type ChangeKind string

const (
	ChangeAdded   ChangeKind = "added"
	ChangeUpdated ChangeKind = "updated"
	ChangeRemoved ChangeKind = "removed"
	ChangeCleared ChangeKind = "cleared"
)

// ListChange is the message published after every successful list mutation.
// ItemKey is empty for whole-list changes (cleared).
type ListChange struct {
	List      ListKind
	Kind      ChangeKind
	SessionID string
	ItemKey   string
	At        time.Time
}

// Handler receives published changes. Handlers run synchronously on the
// publishing goroutine and must not block.
type Handler func(ListChange)

// wildcard subscribes to every list.
const wildcard ListKind = "*"

type subscription struct {
	id      uint64
	list    ListKind
	handler Handler
}

// Bus is a synchronous in-process pub-sub bus for list changes. A panicking
// handler is recovered and logged; delivery continues to the rest.
type Bus struct {
	mu     sync.RWMutex
	subs   map[ListKind][]subscription
	nextID atomic.Uint64
	logger *slog.Logger
}

// NewBus creates an empty bus.
func NewBus(logger *slog.Logger) *Bus {
	return &Bus{
		subs:   make(map[ListKind][]subscription),
		logger: logger,
	}
}

// Subscribe registers a handler for changes to one list. The returned ID
// unsubscribes it.
func (b *Bus) Subscribe(list ListKind, handler Handler) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID.Add(1)
	b.subs[list] = append(b.subs[list], subscription{id: id, list: list, handler: handler})
	return id
}

// SubscribeAll registers a handler for changes to every list.
func (b *Bus) SubscribeAll(handler Handler) uint64 {
	return b.Subscribe(wildcard, handler)
}

// Unsubscribe removes a subscription by ID. Returns false when unknown.
func (b *Bus) Unsubscribe(id uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	for list, subs := range b.subs {
		for i, sub := range subs {
			if sub.id == id {
				b.subs[list] = append(subs[:i], subs[i+1:]...)
				return true
			}
		}
	}
	return false
}

// Publish delivers a change to the list's subscribers, then to wildcard
// subscribers, in registration order. A zero At is stamped with now.
func (b *Bus) Publish(change ListChange) {
	if change.At.IsZero() {
		change.At = time.Now().UTC()
	}

	b.mu.RLock()
	specific := make([]subscription, len(b.subs[change.List]))
	copy(specific, b.subs[change.List])
	all := make([]subscription, len(b.subs[wildcard]))
	copy(all, b.subs[wildcard])
	b.mu.RUnlock()

	for _, sub := range specific {
		b.safeCall(sub.handler, change)
	}
	for _, sub := range all {
		b.safeCall(sub.handler, change)
	}
}

func (b *Bus) safeCall(handler Handler, change ListChange) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("list-change handler panicked",
				slog.String("list", string(change.List)),
				slog.String("kind", string(change.Kind)),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)
		}
	}()
	handler(change)
}
