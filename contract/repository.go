//go:generate go run go.uber.org/mock/mockgen -source=repository.go -destination=../mocks/mock_repository.go -package=mocks
package contract

import (
	"chat-rooms/domain"
	"context"
)

// IUserRepository stores identities. Create fails with a conflict when
// the id or the display name is already taken.
type IUserRepository interface {
	Create(ctx context.Context, user domain.User) error
	Get(ctx context.Context, id domain.UserID) (domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
}

type IRoomRepository interface {
	Create(ctx context.Context, room domain.Room) error
	Get(ctx context.Context, id domain.RoomID) (domain.Room, error)
	ListByMember(ctx context.Context, userID domain.UserID) ([]domain.Room, error)
	List(ctx context.Context) ([]domain.Room, error)
}

// IMessageRepository is the append-only message store.
// Append assigns the per-room sequence atomically and returns the stored message.
type IMessageRepository interface {
	Append(ctx context.Context, message domain.Message) (domain.Message, error)
	Get(ctx context.Context, id domain.MessageID) (domain.Message, error)
	ListByRoom(ctx context.Context, roomID domain.RoomID) ([]domain.Message, error)
}

// IAttachmentStore durably stores binaries and hands back an opaque reference.
// Delete is idempotent.
type IAttachmentStore interface {
	Upload(ctx context.Context, data []byte, filename string) (string, error)
	Delete(ctx context.Context, ref string) error
}
