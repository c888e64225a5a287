package services

import (
	"chat-rooms/domain"
	"chat-rooms/errors"
	"chat-rooms/mocks"
	"chat-rooms/repositories"
	"context"
	stderrors "errors"
	"log/slog"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestRoomRegistry_CreateRoom(t *testing.T) {
	ctx := context.Background()

	t.Run("should create a room with deduplicated members", func(t *testing.T) {
		req := require.New(t)
		registry := NewRoomRegistry(slog.Default(), repositories.NewMemoryRoomRepository())

		room, err := registry.CreateRoom(ctx, "  General  ", []domain.UserID{"alice", "bob", "alice", " "})

		req.NoError(err)
		req.NotEmpty(room.ID)
		req.Equal("General", room.Name)
		req.Equal([]domain.UserID{"alice", "bob"}, room.Members.Slice())
		req.False(room.CreatedAt.IsZero())

		// And the room is immediately visible
		fetched, err := registry.GetRoom(ctx, "alice", room.ID)
		req.NoError(err)
		req.Equal(room.ID, fetched.ID)
	})

	t.Run("should reject a blank name", func(t *testing.T) {
		req := require.New(t)
		registry := NewRoomRegistry(slog.Default(), repositories.NewMemoryRoomRepository())

		_, err := registry.CreateRoom(ctx, "   ", []domain.UserID{"alice"})

		req.ErrorIs(err, errors.ErrValidation)
	})

	t.Run("should reject members made only of blanks", func(t *testing.T) {
		req := require.New(t)
		registry := NewRoomRegistry(slog.Default(), repositories.NewMemoryRoomRepository())

		_, err := registry.CreateRoom(ctx, "General", []domain.UserID{"", "  "})
		req.ErrorIs(err, errors.ErrValidation)

		_, err = registry.CreateRoom(ctx, "General", nil)
		req.ErrorIs(err, errors.ErrValidation)

		rooms, err := registry.ListAllRooms(ctx)
		req.NoError(err)
		req.Empty(rooms)
	})

	t.Run("should not call the repository when invalid", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		repository := mocks.NewMockIRoomRepository(ctrl)
		registry := NewRoomRegistry(slog.Default(), repository)

		repository.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

		_, err := registry.CreateRoom(ctx, "", []domain.UserID{"alice"})
		req.ErrorIs(err, errors.ErrValidation)
	})

	t.Run("should reject a member id containing the key separator", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		repository := mocks.NewMockIRoomRepository(ctrl)
		registry := NewRoomRegistry(slog.Default(), repository)

		repository.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

		_, err := registry.CreateRoom(ctx, "General", []domain.UserID{"alice", "bob:x"})
		req.ErrorIs(err, errors.ErrValidation)
	})
}

func TestRoomRegistry_GetRoom(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	registry := NewRoomRegistry(slog.Default(), repositories.NewMemoryRoomRepository())
	room, err := registry.CreateRoom(ctx, "General", []domain.UserID{"alice"})
	req.NoError(err)

	_, err = registry.GetRoom(ctx, "mallory", room.ID)
	req.ErrorIs(err, errors.ErrForbidden)

	_, err = registry.GetRoom(ctx, "alice", "nowhere")
	req.ErrorIs(err, errors.ErrNotFound)
}

func TestRoomRegistry_ListRoomsForUser(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	registry := NewRoomRegistry(slog.Default(), repositories.NewMemoryRoomRepository())
	general, err := registry.CreateRoom(ctx, "General", []domain.UserID{"alice", "bob"})
	req.NoError(err)
	dev, err := registry.CreateRoom(ctx, "Dev", []domain.UserID{"alice"})
	req.NoError(err)

	rooms, err := registry.ListRoomsForUser(ctx, "alice")
	req.NoError(err)
	req.ElementsMatch([]domain.RoomID{general.ID, dev.ID}, lo.Map(rooms, func(r domain.Room, _ int) domain.RoomID { return r.ID }))

	rooms, err = registry.ListRoomsForUser(ctx, "clara")
	req.NoError(err)
	req.Empty(rooms)

	_, err = registry.ListRoomsForUser(ctx, " ")
	req.ErrorIs(err, errors.ErrValidation)
}

func TestRoomRegistry_IsMember_Never_Fails(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	repository := mocks.NewMockIRoomRepository(ctrl)
	registry := NewRoomRegistry(slog.Default(), repository)

	repository.EXPECT().Get(gomock.Any(), domain.RoomID("general")).
		Return(domain.Room{ID: "general", Members: domain.NewMemberSet("alice")}, nil).Times(2)
	repository.EXPECT().Get(gomock.Any(), domain.RoomID("nowhere")).
		Return(domain.Room{}, errors.NotFound("GetRoom", "room not found")).Times(1)
	repository.EXPECT().Get(gomock.Any(), domain.RoomID("broken")).
		Return(domain.Room{}, errors.Internal("GetRoom", stderrors.New("io"))).Times(1)

	req.True(registry.IsMember(ctx, "alice", "general"))
	req.False(registry.IsMember(ctx, "bob", "general"))
	req.False(registry.IsMember(ctx, "alice", "nowhere"))
	req.False(registry.IsMember(ctx, "alice", "broken"))
}

func TestRoomRegistry_MembershipSummary(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	registry := NewRoomRegistry(slog.Default(), repositories.NewMemoryRoomRepository())
	room, err := registry.CreateRoom(ctx, "General", []domain.UserID{"bob", "alice"})
	req.NoError(err)

	summary, err := registry.MembershipSummary(ctx)

	req.NoError(err)
	req.Equal(1, summary.TotalRooms)
	req.Len(summary.Rooms, 1)
	req.Equal(room.ID, summary.Rooms[0].ID)
	req.Equal(2, summary.Rooms[0].MemberCount)
	req.Equal([]domain.UserID{"alice", "bob"}, summary.Rooms[0].Members)
}
