package runtime

import (
	"chat-rooms/contract"
	"chat-rooms/domain"
	"sync"
)

type Set map[contract.SubscriberID]struct{}

// Registry is the shared table of live listeners.
// Every subscription owns one sink; a room maps to the subscriptions listening to it.
type Registry struct {
	mu          sync.RWMutex
	Sessions    map[contract.SubscriberID]contract.EventSink
	RoomMembers map[domain.RoomID]Set
}

func NewRegistry() *Registry {
	return &Registry{
		Sessions:    make(map[contract.SubscriberID]contract.EventSink),
		RoomMembers: make(map[domain.RoomID]Set),
	}
}

// GetSinksForRoom resolves the subscriptions of a room into their sinks.
// Returns nil if nobody listens to the room.
func (r *Registry) GetSinksForRoom(roomID domain.RoomID) []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	subscribers, ok := r.RoomMembers[roomID]
	if !ok {
		return nil
	}
	activeSinks := make([]contract.EventSink, 0, len(subscribers))
	for subscriberID := range subscribers {
		if sink, exists := r.Sessions[subscriberID]; exists {
			activeSinks = append(activeSinks, sink)
		}
	}
	return activeSinks
}

// Subscribe attaches a sink to a room. The room entry is created on the fly.
func (r *Registry) Subscribe(subscriberID contract.SubscriberID, roomID domain.RoomID, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Sessions[subscriberID] = sink

	if _, ok := r.RoomMembers[roomID]; !ok {
		r.RoomMembers[roomID] = make(Set)
	}
	r.RoomMembers[roomID][subscriberID] = struct{}{}
}

// Unsubscribe removes a subscription and drops the room entry once empty.
// Unknown subscriptions are ignored.
func (r *Registry) Unsubscribe(subscriberID contract.SubscriberID, roomID domain.RoomID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.Sessions, subscriberID)

	if subscribers, ok := r.RoomMembers[roomID]; ok {
		delete(subscribers, subscriberID)

		if len(subscribers) == 0 {
			delete(r.RoomMembers, roomID)
		}
	}
}

// CountForRoom reports how many listeners are attached to a room.
func (r *Registry) CountForRoom(roomID domain.RoomID) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.RoomMembers[roomID])
}
