package contract

import (
	"chat-rooms/domain"
	"context"
)

type IUserDirectory interface {
	CreateUser(ctx context.Context, displayName string) (domain.User, error)
	SaveUser(ctx context.Context, user domain.User) (domain.User, error)
	GetUser(ctx context.Context, id domain.UserID) (domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
}

// RoomSummary is one line of the membership overview.
type RoomSummary struct {
	ID          domain.RoomID
	Name        string
	MemberCount int
	Members     []domain.UserID
}

type MembershipSummary struct {
	TotalRooms int
	Rooms      []RoomSummary
}

type IRoomRegistry interface {
	CreateRoom(ctx context.Context, name string, members []domain.UserID) (domain.Room, error)
	GetRoom(ctx context.Context, callerID domain.UserID, roomID domain.RoomID) (domain.Room, error)
	ListRoomsForUser(ctx context.Context, userID domain.UserID) ([]domain.Room, error)
	IsMember(ctx context.Context, userID domain.UserID, roomID domain.RoomID) bool
	ListAllRooms(ctx context.Context) ([]domain.Room, error)
	MembershipSummary(ctx context.Context) (MembershipSummary, error)
}

type IMessageLog interface {
	Append(ctx context.Context, message domain.Message) (domain.Message, error)
	List(ctx context.Context, roomID domain.RoomID) ([]domain.Message, error)
	Get(ctx context.Context, id domain.MessageID) (domain.Message, error)
}

type IChatService interface {
	SendMessage(ctx context.Context, cmd domain.SendMessageCommand) (domain.Message, error)
	ListMessages(ctx context.Context, cmd domain.GetMessagesCommand) ([]domain.Message, error)
	GetMessage(ctx context.Context, callerID domain.UserID, id domain.MessageID) (domain.Message, error)
	Subscribe(ctx context.Context, callerID domain.UserID, roomID domain.RoomID, sink EventSink) (Subscription, error)
}
