package repositories

import (
	"chat-rooms/domain"
	"chat-rooms/errors"
	"context"
	"slices"

	"github.com/samber/lo"
)

// MemoryRoomRepository stores rooms by id and keeps a reverse index
// user -> rooms so that listing a user's rooms does not scan every room.
type MemoryRoomRepository struct {
	rooms    *shardedMap[domain.RoomID, domain.Room]
	byMember *shardedMap[domain.UserID, []domain.RoomID]
}

func NewMemoryRoomRepository() *MemoryRoomRepository {
	return &MemoryRoomRepository{
		rooms:    newShardedMap[domain.RoomID, domain.Room](defaultShardCount),
		byMember: newShardedMap[domain.UserID, []domain.RoomID](defaultShardCount),
	}
}

func (r *MemoryRoomRepository) Create(_ context.Context, room domain.Room) error {
	room.Members = room.Members.Clone()
	if !r.rooms.PutIfAbsent(room.ID, room) {
		return errors.Conflict("CreateRoom", "room id already exists")
	}
	for member := range room.Members {
		r.byMember.Update(member, func(current []domain.RoomID, _ bool) []domain.RoomID {
			return append(slices.Clone(current), room.ID)
		})
	}
	return nil
}

func (r *MemoryRoomRepository) Get(_ context.Context, id domain.RoomID) (domain.Room, error) {
	room, ok := r.rooms.Get(id)
	if !ok {
		return domain.Room{}, errors.NotFound("GetRoom", "room not found")
	}
	return room, nil
}

func (r *MemoryRoomRepository) ListByMember(_ context.Context, userID domain.UserID) ([]domain.Room, error) {
	ids, _ := r.byMember.Get(userID)
	return lo.FilterMap(ids, func(id domain.RoomID, _ int) (domain.Room, bool) {
		return r.rooms.Get(id)
	}), nil
}

func (r *MemoryRoomRepository) List(_ context.Context) ([]domain.Room, error) {
	return r.rooms.Values(), nil
}
