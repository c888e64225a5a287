package repositories

import (
	"chat-rooms/domain"
	"chat-rooms/errors"
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

type BadgerMessageRepository struct {
	db    *badger.DB
	log   *slog.Logger
	locks *shardedMap[domain.RoomID, *sync.Mutex]
}

func NewBadgerMessageRepository(db *badger.DB, log *slog.Logger) *BadgerMessageRepository {
	return &BadgerMessageRepository{
		db:    db,
		log:   log,
		locks: newShardedMap[domain.RoomID, *sync.Mutex](defaultShardCount),
	}
}

// roomLock serializes appends of one room inside this process, so that
// transaction conflicts are left to writers outside of it.
func (m *BadgerMessageRepository) roomLock(roomID domain.RoomID) *sync.Mutex {
	if mu, ok := m.locks.Get(roomID); ok {
		return mu
	}
	return m.locks.Update(roomID, func(current *sync.Mutex, ok bool) *sync.Mutex {
		if ok {
			return current
		}
		return &sync.Mutex{}
	})
}

type DiskMessage struct {
	ID            string    `json:"id"`
	SenderID      string    `json:"senderId"`
	RoomID        string    `json:"roomId"`
	Content       string    `json:"content"`
	AttachmentRef *string   `json:"attachmentRef,omitempty"`
	Sequence      int64     `json:"sequence"`
	At            time.Time `json:"at"`
}

// Append persists a message under "msg:{room}:{sequence}".
// The key carries the sequence padded to 19 digits so that a prefix scan
// returns the room log in order. The "seq:{room}" counter is read and
// written in the same transaction: two appends to the same room conflict
// and the loser is replayed with the next sequence, while appends to
// different rooms touch disjoint keys and never conflict.
func (m *BadgerMessageRepository) Append(_ context.Context, message domain.Message) (domain.Message, error) {
	if !message.HasPayload() {
		return domain.Message{}, errors.Validation("AppendMessage", "message must have content or an attachment")
	}
	if err := keySegment("AppendMessage", "room id", string(message.RoomID)); err != nil {
		return domain.Message{}, err
	}
	if message.ID == "" {
		message.ID = domain.MessageID(uuid.NewString())
	}
	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now().UTC()
	}

	seqKey := []byte(sequencePrefix + string(message.RoomID))
	idKey := []byte(messageIDKey + string(message.ID))
	attempts := 0

	mu := m.roomLock(message.RoomID)
	mu.Lock()
	defer mu.Unlock()

	err := updateWithRetry(m.db, func(txn *badger.Txn) error {
		attempts++
		taken, err := exists(txn, idKey)
		if err != nil {
			return err
		}
		if taken {
			return errors.Conflict("AppendMessage", "message id already exists")
		}
		last, err := readSequence(txn, seqKey)
		if err != nil {
			return err
		}
		message.Sequence = last + 1
		key := messageKey(message.RoomID, message.Sequence)
		if err = setJSON(txn, key, toDiskMessage(message)); err != nil {
			return err
		}
		if err = txn.Set(idKey, key); err != nil {
			return err
		}
		return txn.Set(seqKey, encodeSequence(message.Sequence))
	})
	if err != nil {
		return domain.Message{}, storeError("AppendMessage", err)
	}
	if attempts > 1 {
		m.log.Debug("Append replayed after conflict", "room_id", message.RoomID, "attempts", attempts)
	}
	return message, nil
}

func (m *BadgerMessageRepository) Get(_ context.Context, id domain.MessageID) (domain.Message, error) {
	var disk DiskMessage
	err := m.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(messageIDKey + string(id)))
		if err != nil {
			return err
		}
		key, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		return getJSON(txn, key, &disk)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.Message{}, errors.NotFound("GetMessage", "message not found")
	}
	if err != nil {
		return domain.Message{}, storeError("GetMessage", err)
	}
	return fromDiskMessage(disk), nil
}

// ListByRoom retrieves the room log with a forward prefix scan.
// Thanks to the padded sequence in the key, messages come back in order.
func (m *BadgerMessageRepository) ListByRoom(_ context.Context, roomID domain.RoomID) ([]domain.Message, error) {
	var messages []domain.Message
	err := m.db.View(func(txn *badger.Txn) error {
		disks, err := scanJSON[DiskMessage](txn, []byte(messagePrefix+string(roomID)+":"))
		if err != nil {
			return err
		}
		messages = lo.Map(disks, func(d DiskMessage, _ int) domain.Message { return fromDiskMessage(d) })
		return nil
	})
	if err != nil {
		return nil, storeError("ListMessages", err)
	}
	return messages, nil
}

func messageKey(roomID domain.RoomID, sequence int64) []byte {
	return []byte(fmt.Sprintf("%s%s:%019d", messagePrefix, roomID, sequence))
}

func readSequence(txn *badger.Txn, key []byte) (int64, error) {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	var seq int64
	err = item.Value(func(val []byte) error {
		if len(val) != 8 {
			return fmt.Errorf("corrupted sequence counter %q", key)
		}
		seq = int64(binary.BigEndian.Uint64(val))
		return nil
	})
	return seq, err
}

func encodeSequence(seq int64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(seq))
	return buf
}

func toDiskMessage(message domain.Message) DiskMessage {
	return DiskMessage{
		ID:            string(message.ID),
		SenderID:      string(message.SenderID),
		RoomID:        string(message.RoomID),
		Content:       message.Content,
		AttachmentRef: message.AttachmentRef,
		Sequence:      message.Sequence,
		At:            message.Timestamp,
	}
}

func fromDiskMessage(disk DiskMessage) domain.Message {
	return domain.Message{
		ID:            domain.MessageID(disk.ID),
		SenderID:      domain.UserID(disk.SenderID),
		RoomID:        domain.RoomID(disk.RoomID),
		Content:       disk.Content,
		AttachmentRef: disk.AttachmentRef,
		Sequence:      disk.Sequence,
		Timestamp:     disk.At.UTC(),
	}
}
