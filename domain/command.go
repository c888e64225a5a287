package domain

import (
	"strings"

	"github.com/samber/lo"
)

type Command interface {
	RoomID() RoomID
}

// Attachment is a binary payload supplied with a send request.
type Attachment struct {
	Filename string
	Data     []byte
}

func (a *Attachment) IsEmpty() bool {
	return a == nil || len(a.Data) == 0
}

type SendMessageCommand struct {
	Room       RoomID
	SenderID   UserID
	Content    string
	Attachment *Attachment
}

func (c SendMessageCommand) RoomID() RoomID {
	return c.Room
}

// HasPayload mirrors Message.HasPayload before any upload has happened.
func (c SendMessageCommand) HasPayload() bool {
	return strings.TrimSpace(c.Content) != "" || !c.Attachment.IsEmpty()
}

type GetMessagesCommand struct {
	Room     RoomID
	CallerID UserID
}

func (c GetMessagesCommand) RoomID() RoomID {
	return c.Room
}

type CreateRoomCommand struct {
	Name    string   `validate:"required"`
	// ids end up as badger key segments, ":" is the key separator
	Members []UserID `validate:"required,min=1,dive,required,excludes=:"`
}

// Normalize trims the name, drops blank member ids and removes duplicates.
func (c CreateRoomCommand) Normalize() CreateRoomCommand {
	members := lo.FilterMap(c.Members, func(id UserID, _ int) (UserID, bool) {
		trimmed := UserID(strings.TrimSpace(string(id)))
		return trimmed, trimmed != ""
	})
	return CreateRoomCommand{
		Name:    strings.TrimSpace(c.Name),
		Members: lo.Uniq(members),
	}
}

type CreateUserCommand struct {
	ID          UserID `validate:"excludes=:"`
	DisplayName string `validate:"required"`
}
