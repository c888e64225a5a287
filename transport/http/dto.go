package http

import (
	"chat-rooms/contract"
	"chat-rooms/domain"
	"time"

	"github.com/samber/lo"
)

type CreateUserRequest struct {
	Username string `form:"username" json:"username" binding:"required"`
}

type UserResponse struct {
	UserID   domain.UserID `json:"userId"`
	Username string        `json:"username"`
}

type RoomResponse struct {
	RoomID    domain.RoomID   `json:"roomId"`
	RoomName  string          `json:"roomName"`
	Members   []domain.UserID `json:"members"`
	CreatedAt time.Time       `json:"createdAt"`
}

type MessageResponse struct {
	MessageID domain.MessageID `json:"messageId"`
	SenderID  domain.UserID    `json:"senderId"`
	RoomID    domain.RoomID    `json:"roomId"`
	Content   string           `json:"content"`
	ImageURL  *string          `json:"imageUrl"`
	Sequence  int64            `json:"sequence"`
	Timestamp time.Time        `json:"timestamp"`
}

type RoomSummaryResponse struct {
	RoomID      domain.RoomID   `json:"roomId"`
	RoomName    string          `json:"roomName"`
	MemberCount int             `json:"memberCount"`
	Members     []domain.UserID `json:"members"`
}

type MembershipSummaryResponse struct {
	Rooms      []RoomSummaryResponse `json:"rooms"`
	TotalRooms int                   `json:"totalRooms"`
}

func toUserResponse(user domain.User) UserResponse {
	return UserResponse{UserID: user.ID, Username: user.DisplayName}
}

func toRoomResponse(room domain.Room) RoomResponse {
	return RoomResponse{
		RoomID:    room.ID,
		RoomName:  room.Name,
		Members:   room.Members.Slice(),
		CreatedAt: room.CreatedAt,
	}
}

func toMessageResponse(message domain.Message) MessageResponse {
	return MessageResponse{
		MessageID: message.ID,
		SenderID:  message.SenderID,
		RoomID:    message.RoomID,
		Content:   message.Content,
		ImageURL:  message.AttachmentRef,
		Sequence:  message.Sequence,
		Timestamp: message.Timestamp,
	}
}

func toRoomResponses(rooms []domain.Room) []RoomResponse {
	return lo.Map(rooms, func(room domain.Room, _ int) RoomResponse { return toRoomResponse(room) })
}

func toMessageResponses(messages []domain.Message) []MessageResponse {
	return lo.Map(messages, func(message domain.Message, _ int) MessageResponse { return toMessageResponse(message) })
}

func toSummaryResponse(summary contract.MembershipSummary) MembershipSummaryResponse {
	return MembershipSummaryResponse{
		TotalRooms: summary.TotalRooms,
		Rooms: lo.Map(summary.Rooms, func(r contract.RoomSummary, _ int) RoomSummaryResponse {
			return RoomSummaryResponse{
				RoomID:      r.ID,
				RoomName:    r.Name,
				MemberCount: r.MemberCount,
				Members:     r.Members,
			}
		}),
	}
}
