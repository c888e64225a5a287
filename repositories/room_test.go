package repositories

import (
	"chat-rooms/contract"
	"chat-rooms/domain"
	"chat-rooms/errors"
	"context"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func roomRepositories(t *testing.T) map[string]contract.IRoomRepository {
	return map[string]contract.IRoomRepository{
		"memory": NewMemoryRoomRepository(),
		"badger": NewBadgerRoomRepository(openBadger(t)),
	}
}

func Test_Create_And_Get_Room(t *testing.T) {
	for name, repository := range roomRepositories(t) {
		t.Run(name, func(t *testing.T) {
			req := require.New(t)
			ctx := context.Background()
			room := domain.Room{
				ID:        "general",
				Name:      "General Chat",
				Members:   domain.NewMemberSet("alice", "bob"),
				CreatedAt: time.Now().UTC(),
			}

			req.NoError(repository.Create(ctx, room))

			fetched, err := repository.Get(ctx, room.ID)
			req.NoError(err)
			req.Equal(room.ID, fetched.ID)
			req.Equal(room.Name, fetched.Name)
			req.Equal(room.Members, fetched.Members)
			req.True(room.CreatedAt.Equal(fetched.CreatedAt))
		})
	}
}

func Test_Create_Room_Duplicate_ID(t *testing.T) {
	for name, repository := range roomRepositories(t) {
		t.Run(name, func(t *testing.T) {
			req := require.New(t)
			ctx := context.Background()
			room := domain.Room{ID: "general", Name: "General", Members: domain.NewMemberSet("alice")}

			req.NoError(repository.Create(ctx, room))
			req.ErrorIs(repository.Create(ctx, room), errors.ErrConflict)
		})
	}
}

func Test_List_Rooms_By_Member(t *testing.T) {
	for name, repository := range roomRepositories(t) {
		t.Run(name, func(t *testing.T) {
			req := require.New(t)
			ctx := context.Background()

			// Given alice belongs to two rooms and bob to one
			req.NoError(repository.Create(ctx, domain.Room{ID: "r1", Name: "One", Members: domain.NewMemberSet("alice", "bob")}))
			req.NoError(repository.Create(ctx, domain.Room{ID: "r2", Name: "Two", Members: domain.NewMemberSet("alice")}))

			alice, err := repository.ListByMember(ctx, "alice")
			req.NoError(err)
			req.ElementsMatch([]domain.RoomID{"r1", "r2"}, lo.Map(alice, func(r domain.Room, _ int) domain.RoomID { return r.ID }))

			bob, err := repository.ListByMember(ctx, "bob")
			req.NoError(err)
			req.Len(bob, 1)

			nobody, err := repository.ListByMember(ctx, "clara")
			req.NoError(err)
			req.Empty(nobody)

			all, err := repository.List(ctx)
			req.NoError(err)
			req.Len(all, 2)
		})
	}
}

func Test_Get_Unknown_Room(t *testing.T) {
	for name, repository := range roomRepositories(t) {
		t.Run(name, func(t *testing.T) {
			_, err := repository.Get(context.Background(), "nowhere")
			require.ErrorIs(t, err, errors.ErrNotFound)
		})
	}
}

func Test_Memory_Room_Members_Are_Copied(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository := NewMemoryRoomRepository()
	members := domain.NewMemberSet("alice")

	req.NoError(repository.Create(ctx, domain.Room{ID: "r1", Name: "One", Members: members}))
	members["mallory"] = struct{}{}

	room, err := repository.Get(ctx, "r1")
	req.NoError(err)
	req.False(room.IsMember("mallory"))
}

func Test_Badger_Rejects_Separator_In_Room_Keys(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository := NewBadgerRoomRepository(openBadger(t))

	// A member id with the separator would match "member:alice:" scans of another user
	err := repository.Create(ctx, domain.Room{ID: "r1", Name: "R", Members: domain.NewMemberSet("alice:x")})
	req.ErrorIs(err, errors.ErrValidation)

	err = repository.Create(ctx, domain.Room{ID: "r:1", Name: "R", Members: domain.NewMemberSet("alice")})
	req.ErrorIs(err, errors.ErrValidation)

	rooms, err := repository.ListByMember(ctx, "alice")
	req.NoError(err)
	req.Empty(rooms)
}
