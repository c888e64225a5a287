package services

import (
	"chat-rooms/contract"
	"chat-rooms/domain"
	"context"
)

// MessageLog is the append-only, per-room ordered record of messages.
// It enforces no membership: callers authorize through RoomRegistry first.
type MessageLog struct {
	repository contract.IMessageRepository
}

func NewMessageLog(repository contract.IMessageRepository) *MessageLog {
	return &MessageLog{repository: repository}
}

func (l *MessageLog) Append(ctx context.Context, message domain.Message) (domain.Message, error) {
	return l.repository.Append(ctx, message)
}

// List returns the room log by ascending sequence, empty for an unknown room.
func (l *MessageLog) List(ctx context.Context, roomID domain.RoomID) ([]domain.Message, error) {
	messages, err := l.repository.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []domain.Message{}
	}
	return messages, nil
}

func (l *MessageLog) Get(ctx context.Context, id domain.MessageID) (domain.Message, error) {
	return l.repository.Get(ctx, id)
}
