package repositories

import (
	"chat-rooms/domain"
	"chat-rooms/errors"
	"context"
)

// MemoryUserRepository keeps users in sharded maps.
// The name index is claimed first so two concurrent creations with the
// same display name cannot both succeed.
type MemoryUserRepository struct {
	users *shardedMap[domain.UserID, domain.User]
	names *shardedMap[string, domain.UserID]
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users: newShardedMap[domain.UserID, domain.User](defaultShardCount),
		names: newShardedMap[string, domain.UserID](defaultShardCount),
	}
}

func (r *MemoryUserRepository) Create(_ context.Context, user domain.User) error {
	if !r.names.PutIfAbsent(user.DisplayName, user.ID) {
		return errors.Conflict("CreateUser", "display name already taken")
	}
	if !r.users.PutIfAbsent(user.ID, user) {
		r.names.Delete(user.DisplayName)
		return errors.Conflict("CreateUser", "user id already exists")
	}
	return nil
}

func (r *MemoryUserRepository) Get(_ context.Context, id domain.UserID) (domain.User, error) {
	user, ok := r.users.Get(id)
	if !ok {
		return domain.User{}, errors.NotFound("GetUser", "user not found")
	}
	return user, nil
}

func (r *MemoryUserRepository) List(_ context.Context) ([]domain.User, error) {
	return r.users.Values(), nil
}
