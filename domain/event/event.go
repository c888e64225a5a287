package event

import (
	"chat-rooms/domain"
	"time"
)

type DomainEvent interface {
	RoomID() domain.RoomID
}

// MessageAppended is emitted once a message has been committed to the log.
type MessageAppended struct {
	Message domain.Message
	At      time.Time
}

func (m MessageAppended) RoomID() domain.RoomID {
	return m.Message.RoomID
}
