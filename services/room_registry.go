package services

import (
	"chat-rooms/contract"
	"chat-rooms/domain"
	"chat-rooms/errors"
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// RoomRegistry owns room existence and membership.
// Membership is fixed at creation, there is no operation to change it.
type RoomRegistry struct {
	log        *slog.Logger
	repository contract.IRoomRepository
	now        func() time.Time
}

func NewRoomRegistry(log *slog.Logger, repository contract.IRoomRepository) *RoomRegistry {
	return &RoomRegistry{
		log:        log,
		repository: repository,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// CreateRoom trims blank member ids and duplicates before validating,
// so a member list made only of blanks is rejected like an empty one.
func (r *RoomRegistry) CreateRoom(ctx context.Context, name string, members []domain.UserID) (domain.Room, error) {
	cmd := domain.CreateRoomCommand{Name: name, Members: members}.Normalize()
	if err := domain.Validate("CreateRoom", cmd); err != nil {
		return domain.Room{}, err
	}
	room := domain.Room{
		ID:        domain.RoomID(uuid.NewString()),
		Name:      cmd.Name,
		Members:   domain.NewMemberSet(cmd.Members...),
		CreatedAt: r.now(),
	}
	if err := r.repository.Create(ctx, room); err != nil {
		return domain.Room{}, err
	}
	r.log.Info("Room created", "room_id", room.ID, "members", room.Members.Len())
	return room, nil
}

// GetRoom returns the room only to one of its members.
func (r *RoomRegistry) GetRoom(ctx context.Context, callerID domain.UserID, roomID domain.RoomID) (domain.Room, error) {
	room, err := r.repository.Get(ctx, roomID)
	if err != nil {
		return domain.Room{}, err
	}
	if !room.IsMember(callerID) {
		return domain.Room{}, errors.Forbidden("GetRoom", "user is not a member of this room")
	}
	return room, nil
}

func (r *RoomRegistry) ListRoomsForUser(ctx context.Context, userID domain.UserID) ([]domain.Room, error) {
	if strings.TrimSpace(string(userID)) == "" {
		return nil, errors.Validation("ListRoomsForUser", "user id is required")
	}
	return r.repository.ListByMember(ctx, userID)
}

// IsMember never fails: an unknown room or a lookup error means "not a member".
func (r *RoomRegistry) IsMember(ctx context.Context, userID domain.UserID, roomID domain.RoomID) bool {
	room, err := r.repository.Get(ctx, roomID)
	if err != nil {
		if !errors.Is(err, errors.ErrNotFound) {
			r.log.Warn("Membership lookup failed", "room_id", roomID, "error", err)
		}
		return false
	}
	return room.IsMember(userID)
}

func (r *RoomRegistry) ListAllRooms(ctx context.Context) ([]domain.Room, error) {
	return r.repository.List(ctx)
}

func (r *RoomRegistry) MembershipSummary(ctx context.Context) (contract.MembershipSummary, error) {
	rooms, err := r.repository.List(ctx)
	if err != nil {
		return contract.MembershipSummary{}, err
	}
	return contract.MembershipSummary{
		TotalRooms: len(rooms),
		Rooms: lo.Map(rooms, func(room domain.Room, _ int) contract.RoomSummary {
			return contract.RoomSummary{
				ID:          room.ID,
				Name:        room.Name,
				MemberCount: room.Members.Len(),
				Members:     room.Members.Slice(),
			}
		}),
	}, nil
}
