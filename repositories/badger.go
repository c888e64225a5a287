package repositories

import (
	"chat-rooms/errors"
	"encoding/json"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

const maxTxnRetries = 16

const (
	userPrefix     = "user:"
	userNamePrefix = "username:"
	roomPrefix     = "room:"
	memberPrefix   = "member:"
	messagePrefix  = "msg:"
	messageIDKey   = "msgid:"
	sequencePrefix = "seq:"

	keySeparator = ":"
)

// keySegment rejects ids that would leak into a neighbour's prefix scan,
// e.g. room "a" reading the messages of room "a:b".
func keySegment(op, field, id string) error {
	if strings.Contains(id, keySeparator) {
		return errors.Validation(op, field+" must not contain '"+keySeparator+"'")
	}
	return nil
}

// updateWithRetry runs fn in a read-write transaction and replays it
// when badger reports a conflict with a concurrent transaction.
func updateWithRetry(db *badger.DB, fn func(txn *badger.Txn) error) error {
	var err error
	for range maxTxnRetries {
		err = db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return err
}

func exists(txn *badger.Txn, key []byte) (bool, error) {
	_, err := txn.Get(key)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, badger.ErrKeyNotFound):
		return false, nil
	default:
		return false, err
	}
}

func getJSON(txn *badger.Txn, key []byte, out any) error {
	item, err := txn.Get(key)
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, out)
	})
}

func setJSON(txn *badger.Txn, key []byte, in any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return txn.Set(key, data)
}

// scanJSON decodes every value stored under prefix, in key order.
func scanJSON[T any](txn *badger.Txn, prefix []byte) ([]T, error) {
	it := txn.NewIterator(badger.DefaultIteratorOptions)
	defer it.Close()

	out := []T{}
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		var v T
		err := it.Item().Value(func(val []byte) error {
			return json.Unmarshal(val, &v)
		})
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// storeError keeps tagged errors raised inside a transaction and turns
// anything else into an internal failure.
func storeError(op string, err error) error {
	if err == nil {
		return nil
	}
	var tagged *errors.Error
	if errors.As(err, &tagged) {
		return err
	}
	if errors.Is(err, badger.ErrKeyNotFound) {
		return errors.NotFound(op, "not found")
	}
	return errors.Internal(op, err)
}
