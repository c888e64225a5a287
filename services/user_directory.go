package services

import (
	"chat-rooms/contract"
	"chat-rooms/domain"
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

type UserDirectory struct {
	log        *slog.Logger
	repository contract.IUserRepository
}

func NewUserDirectory(log *slog.Logger, repository contract.IUserRepository) *UserDirectory {
	return &UserDirectory{log: log, repository: repository}
}

// CreateUser registers a new identity under a fresh id.
// The display name is trimmed and must be unique.
func (d *UserDirectory) CreateUser(ctx context.Context, displayName string) (domain.User, error) {
	return d.SaveUser(ctx, domain.User{DisplayName: displayName})
}

// SaveUser stores a user whose id may already be chosen by the caller,
// which is how fixed identities get seeded. The same blank and uniqueness
// rules as CreateUser apply.
func (d *UserDirectory) SaveUser(ctx context.Context, user domain.User) (domain.User, error) {
	cmd := domain.CreateUserCommand{ID: user.ID, DisplayName: strings.TrimSpace(user.DisplayName)}
	if err := domain.Validate("CreateUser", cmd); err != nil {
		return domain.User{}, err
	}
	user.DisplayName = cmd.DisplayName
	if strings.TrimSpace(string(user.ID)) == "" {
		user.ID = domain.UserID(uuid.NewString())
	}
	if err := d.repository.Create(ctx, user); err != nil {
		return domain.User{}, err
	}
	d.log.Debug("User created", "user_id", user.ID)
	return user, nil
}

func (d *UserDirectory) GetUser(ctx context.Context, id domain.UserID) (domain.User, error) {
	return d.repository.Get(ctx, id)
}

func (d *UserDirectory) ListUsers(ctx context.Context) ([]domain.User, error) {
	return d.repository.List(ctx)
}
