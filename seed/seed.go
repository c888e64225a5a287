// Package seed fills an empty directory with demo users and rooms.
package seed

import (
	"chat-rooms/contract"
	"chat-rooms/domain"
	"context"
	"fmt"
	"log/slog"
)

const (
	DefaultUserID      domain.UserID = "default-user"
	DefaultDisplayName               = "Default Test User"
)

type Result struct {
	Users []domain.User
	Rooms []domain.Room
}

// Run is skipped when the directory already holds users, so a durable
// backend is only seeded on its first start.
func Run(ctx context.Context, log *slog.Logger, users contract.IUserDirectory, rooms contract.IRoomRegistry) (Result, error) {
	existing, err := users.ListUsers(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("seed: list users: %w", err)
	}
	if len(existing) > 0 {
		log.Info("Seed skipped, directory not empty", "users", len(existing))
		return Result{}, nil
	}

	var result Result
	for _, name := range []string{"john", "alice", "bob"} {
		user, err := users.CreateUser(ctx, name)
		if err != nil {
			return result, fmt.Errorf("seed: create user %q: %w", name, err)
		}
		result.Users = append(result.Users, user)
	}
	defaultUser, err := users.SaveUser(ctx, domain.User{ID: DefaultUserID, DisplayName: DefaultDisplayName})
	if err != nil {
		return result, fmt.Errorf("seed: save default user: %w", err)
	}
	result.Users = append(result.Users, defaultUser)

	john, alice, bob := result.Users[0].ID, result.Users[1].ID, result.Users[2].ID
	plans := []struct {
		name    string
		members []domain.UserID
	}{
		{"General Chat", []domain.UserID{john, alice, DefaultUserID}},
		{"Dev Team", []domain.UserID{john, alice, bob, DefaultUserID}},
		{"Test Room", []domain.UserID{DefaultUserID}},
	}
	for _, plan := range plans {
		room, err := rooms.CreateRoom(ctx, plan.name, plan.members)
		if err != nil {
			return result, fmt.Errorf("seed: create room %q: %w", plan.name, err)
		}
		result.Rooms = append(result.Rooms, room)
	}

	for _, u := range result.Users {
		log.Info("Seeded user", "user_id", u.ID, "username", u.DisplayName)
	}
	for _, r := range result.Rooms {
		log.Info("Seeded room", "room_id", r.ID, "room_name", r.Name, "members", r.Members.Len())
	}
	return result, nil
}
