package repositories

import (
	"chat-rooms/domain"
	"chat-rooms/errors"
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// roomPartition holds the log of a single room.
// Sequence assignment and insertion happen under mu, so two appends to
// the same room are serialized while other rooms proceed in parallel.
type roomPartition struct {
	mu       sync.RWMutex
	seq      int64
	messages []domain.Message
}

type MemoryMessageRepository struct {
	partitions *shardedMap[domain.RoomID, *roomPartition]
	byID       *shardedMap[domain.MessageID, domain.Message]
	now        func() time.Time
}

func NewMemoryMessageRepository() *MemoryMessageRepository {
	return &MemoryMessageRepository{
		partitions: newShardedMap[domain.RoomID, *roomPartition](defaultShardCount),
		byID:       newShardedMap[domain.MessageID, domain.Message](defaultShardCount),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (r *MemoryMessageRepository) partition(roomID domain.RoomID) *roomPartition {
	if p, ok := r.partitions.Get(roomID); ok {
		return p
	}
	return r.partitions.Update(roomID, func(current *roomPartition, ok bool) *roomPartition {
		if ok {
			return current
		}
		return &roomPartition{}
	})
}

// Append stores the message at the tail of its room and returns it with
// its sequence, id and timestamp filled in.
func (r *MemoryMessageRepository) Append(_ context.Context, message domain.Message) (domain.Message, error) {
	if !message.HasPayload() {
		return domain.Message{}, errors.Validation("AppendMessage", "message must have content or an attachment")
	}
	if message.ID == "" {
		message.ID = domain.MessageID(uuid.NewString())
	}
	if message.Timestamp.IsZero() {
		message.Timestamp = r.now()
	}

	p := r.partition(message.RoomID)
	p.mu.Lock()
	defer p.mu.Unlock()

	message.Sequence = p.seq + 1
	if !r.byID.PutIfAbsent(message.ID, message) {
		return domain.Message{}, errors.Conflict("AppendMessage", "message id already exists")
	}
	p.seq = message.Sequence
	p.messages = append(p.messages, message)
	return message, nil
}

func (r *MemoryMessageRepository) Get(_ context.Context, id domain.MessageID) (domain.Message, error) {
	message, ok := r.byID.Get(id)
	if !ok {
		return domain.Message{}, errors.NotFound("GetMessage", "message not found")
	}
	return message, nil
}

// ListByRoom returns a copy of the room log in sequence order.
// An unknown room yields an empty list.
func (r *MemoryMessageRepository) ListByRoom(_ context.Context, roomID domain.RoomID) ([]domain.Message, error) {
	p, ok := r.partitions.Get(roomID)
	if !ok {
		return []domain.Message{}, nil
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append(make([]domain.Message, 0, len(p.messages)), p.messages...), nil
}
