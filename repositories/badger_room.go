package repositories

import (
	"chat-rooms/domain"
	"chat-rooms/errors"
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"
)

type BadgerRoomRepository struct {
	db *badger.DB
}

func NewBadgerRoomRepository(db *badger.DB) *BadgerRoomRepository {
	return &BadgerRoomRepository{db: db}
}

type DiskRoom struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Members   []string  `json:"members"`
	CreatedAt time.Time `json:"createdAt"`
}

// Create writes "room:{id}" plus one "member:{user}:{room}" index key per member.
func (r *BadgerRoomRepository) Create(_ context.Context, room domain.Room) error {
	if err := keySegment("CreateRoom", "room id", string(room.ID)); err != nil {
		return err
	}
	for member := range room.Members {
		if err := keySegment("CreateRoom", "member id", string(member)); err != nil {
			return err
		}
	}
	roomKey := []byte(roomPrefix + string(room.ID))
	err := updateWithRetry(r.db, func(txn *badger.Txn) error {
		taken, err := exists(txn, roomKey)
		if err != nil {
			return err
		}
		if taken {
			return errors.Conflict("CreateRoom", "room id already exists")
		}
		if err = setJSON(txn, roomKey, toDiskRoom(room)); err != nil {
			return err
		}
		for member := range room.Members {
			if err = txn.Set(memberKey(member, room.ID), nil); err != nil {
				return err
			}
		}
		return nil
	})
	return storeError("CreateRoom", err)
}

func (r *BadgerRoomRepository) Get(_ context.Context, id domain.RoomID) (domain.Room, error) {
	var disk DiskRoom
	err := r.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, []byte(roomPrefix+string(id)), &disk)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.Room{}, errors.NotFound("GetRoom", "room not found")
	}
	if err != nil {
		return domain.Room{}, storeError("GetRoom", err)
	}
	return fromDiskRoom(disk), nil
}

// ListByMember walks the member index with a key-only prefix scan.
func (r *BadgerRoomRepository) ListByMember(_ context.Context, userID domain.UserID) ([]domain.Room, error) {
	rooms := []domain.Room{}
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte(memberPrefix + string(userID) + ":")
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()

		var roomIDs []string
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			roomIDs = append(roomIDs, string(it.Item().Key()[len(prefix):]))
		}
		for _, id := range roomIDs {
			var disk DiskRoom
			if err := getJSON(txn, []byte(roomPrefix+id), &disk); err != nil {
				return err
			}
			rooms = append(rooms, fromDiskRoom(disk))
		}
		return nil
	})
	return rooms, storeError("ListRoomsForUser", err)
}

func (r *BadgerRoomRepository) List(_ context.Context) ([]domain.Room, error) {
	var rooms []domain.Room
	err := r.db.View(func(txn *badger.Txn) error {
		disks, err := scanJSON[DiskRoom](txn, []byte(roomPrefix))
		if err != nil {
			return err
		}
		rooms = lo.Map(disks, func(d DiskRoom, _ int) domain.Room { return fromDiskRoom(d) })
		return nil
	})
	return rooms, storeError("ListRooms", err)
}

func memberKey(userID domain.UserID, roomID domain.RoomID) []byte {
	return []byte(memberPrefix + string(userID) + ":" + string(roomID))
}

func toDiskRoom(room domain.Room) DiskRoom {
	return DiskRoom{
		ID:        string(room.ID),
		Name:      room.Name,
		Members:   lo.Map(room.Members.Slice(), func(id domain.UserID, _ int) string { return string(id) }),
		CreatedAt: room.CreatedAt,
	}
}

func fromDiskRoom(disk DiskRoom) domain.Room {
	ids := lo.Map(disk.Members, func(id string, _ int) domain.UserID { return domain.UserID(id) })
	return domain.Room{
		ID:        domain.RoomID(disk.ID),
		Name:      disk.Name,
		Members:   domain.NewMemberSet(ids...),
		CreatedAt: disk.CreatedAt,
	}
}
