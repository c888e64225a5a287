package sink

import (
	"chat-rooms/domain"
	"chat-rooms/domain/event"
	"context"
	"slices"
	"sync"
)

// Timeline keeps a local, ordered copy of a room as seen through the live feed.
// Events may arrive twice or out of order; the timeline stays sorted by sequence
// and holds each message once.
type Timeline struct {
	mu       sync.Mutex
	owner    domain.UserID
	seen     map[domain.MessageID]struct{}
	messages []domain.Message
}

func NewTimeline(owner domain.UserID) *Timeline {
	return &Timeline{
		owner: owner,
		seen:  make(map[domain.MessageID]struct{}),
	}
}

func (t *Timeline) Consume(_ context.Context, e event.DomainEvent) error {
	evt, ok := e.(event.MessageAppended)
	if !ok {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, dup := t.seen[evt.Message.ID]; dup {
		return nil
	}
	t.seen[evt.Message.ID] = struct{}{}
	i, _ := slices.BinarySearchFunc(t.messages, evt.Message.Sequence, func(m domain.Message, seq int64) int {
		switch {
		case m.Sequence < seq:
			return -1
		case m.Sequence > seq:
			return 1
		}
		return 0
	})
	t.messages = slices.Insert(t.messages, i, evt.Message)
	return nil
}

func (t *Timeline) Owner() domain.UserID { return t.owner }

// Messages returns a copy ordered by sequence.
func (t *Timeline) Messages() []domain.Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.messages)
}

func (t *Timeline) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.messages)
}
