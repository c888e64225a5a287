package repositories

import (
	"chat-rooms/domain"
	"chat-rooms/errors"
	"context"

	"github.com/dgraph-io/badger/v4"
)

type BadgerUserRepository struct {
	db *badger.DB
}

func NewBadgerUserRepository(db *badger.DB) *BadgerUserRepository {
	return &BadgerUserRepository{db: db}
}

type DiskUser struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// Create persists the user under "user:{id}" and claims "username:{name}"
// in the same transaction, so the name stays unique across the directory.
func (r *BadgerUserRepository) Create(_ context.Context, user domain.User) error {
	if err := keySegment("CreateUser", "user id", string(user.ID)); err != nil {
		return err
	}
	userKey := []byte(userPrefix + string(user.ID))
	nameKey := []byte(userNamePrefix + user.DisplayName)

	err := updateWithRetry(r.db, func(txn *badger.Txn) error {
		taken, err := exists(txn, nameKey)
		if err != nil {
			return err
		}
		if taken {
			return errors.Conflict("CreateUser", "display name already taken")
		}
		if taken, err = exists(txn, userKey); err != nil {
			return err
		} else if taken {
			return errors.Conflict("CreateUser", "user id already exists")
		}
		if err = setJSON(txn, userKey, toDiskUser(user)); err != nil {
			return err
		}
		return txn.Set(nameKey, []byte(user.ID))
	})
	return storeError("CreateUser", err)
}

func (r *BadgerUserRepository) Get(_ context.Context, id domain.UserID) (domain.User, error) {
	var disk DiskUser
	err := r.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, []byte(userPrefix+string(id)), &disk)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.User{}, errors.NotFound("GetUser", "user not found")
	}
	if err != nil {
		return domain.User{}, storeError("GetUser", err)
	}
	return fromDiskUser(disk), nil
}

func (r *BadgerUserRepository) List(_ context.Context) ([]domain.User, error) {
	var users []domain.User
	err := r.db.View(func(txn *badger.Txn) error {
		disks, err := scanJSON[DiskUser](txn, []byte(userPrefix))
		if err != nil {
			return err
		}
		users = make([]domain.User, 0, len(disks))
		for _, d := range disks {
			users = append(users, fromDiskUser(d))
		}
		return nil
	})
	return users, storeError("ListUsers", err)
}

func toDiskUser(user domain.User) DiskUser {
	return DiskUser{ID: string(user.ID), DisplayName: user.DisplayName}
}

func fromDiskUser(disk DiskUser) domain.User {
	return domain.User{ID: domain.UserID(disk.ID), DisplayName: disk.DisplayName}
}
