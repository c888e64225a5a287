package repositories

import (
	"chat-rooms/contract"
	"chat-rooms/domain"
	"chat-rooms/errors"
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func userRepositories(t *testing.T) map[string]contract.IUserRepository {
	return map[string]contract.IUserRepository{
		"memory": NewMemoryUserRepository(),
		"badger": NewBadgerUserRepository(openBadger(t)),
	}
}

func Test_Create_And_Get_User(t *testing.T) {
	for name, repository := range userRepositories(t) {
		t.Run(name, func(t *testing.T) {
			req := require.New(t)
			ctx := context.Background()
			user := domain.User{ID: domain.UserID(uuid.NewString()), DisplayName: "alice"}

			req.NoError(repository.Create(ctx, user))

			fetched, err := repository.Get(ctx, user.ID)
			req.NoError(err)
			req.Equal(user, fetched)

			users, err := repository.List(ctx)
			req.NoError(err)
			req.Equal([]domain.User{user}, users)
		})
	}
}

func Test_Create_User_Duplicate_Name(t *testing.T) {
	for name, repository := range userRepositories(t) {
		t.Run(name, func(t *testing.T) {
			req := require.New(t)
			ctx := context.Background()

			req.NoError(repository.Create(ctx, domain.User{ID: "1", DisplayName: "alice"}))
			err := repository.Create(ctx, domain.User{ID: "2", DisplayName: "alice"})

			req.ErrorIs(err, errors.ErrConflict)
			_, err = repository.Get(ctx, "2")
			req.ErrorIs(err, errors.ErrNotFound)
		})
	}
}

func Test_Create_User_Duplicate_ID_Releases_Name(t *testing.T) {
	for name, repository := range userRepositories(t) {
		t.Run(name, func(t *testing.T) {
			req := require.New(t)
			ctx := context.Background()

			req.NoError(repository.Create(ctx, domain.User{ID: "1", DisplayName: "alice"}))
			err := repository.Create(ctx, domain.User{ID: "1", DisplayName: "bob"})
			req.ErrorIs(err, errors.ErrConflict)

			// Then the rejected name is still available
			req.NoError(repository.Create(ctx, domain.User{ID: "2", DisplayName: "bob"}))
		})
	}
}

func Test_Create_User_Concurrent_Same_Name(t *testing.T) {
	for name, repository := range userRepositories(t) {
		t.Run(name, func(t *testing.T) {
			req := require.New(t)
			ctx := context.Background()
			attempts := 20

			var wg sync.WaitGroup
			errs := make(chan error, attempts)
			for range attempts {
				wg.Add(1)
				go func() {
					defer wg.Done()
					errs <- repository.Create(ctx, domain.User{ID: domain.UserID(uuid.NewString()), DisplayName: "alice"})
				}()
			}
			wg.Wait()
			close(errs)

			succeeded := 0
			for err := range errs {
				if err == nil {
					succeeded++
					continue
				}
				req.ErrorIs(err, errors.ErrConflict)
			}
			req.Equal(1, succeeded)
		})
	}
}

func Test_Get_Unknown_User(t *testing.T) {
	for name, repository := range userRepositories(t) {
		t.Run(name, func(t *testing.T) {
			_, err := repository.Get(context.Background(), "ghost")
			require.ErrorIs(t, err, errors.ErrNotFound)
		})
	}
}

func Test_Badger_Rejects_Separator_In_User_ID(t *testing.T) {
	repository := NewBadgerUserRepository(openBadger(t))
	err := repository.Create(context.Background(), domain.User{ID: "alice:admin", DisplayName: "Alice"})
	require.ErrorIs(t, err, errors.ErrValidation)
}
