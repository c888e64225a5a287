package internal

import (
	"strconv"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

// InspectRow is one badger entry as shown by the inspection CLI.
type InspectRow struct {
	Key       string
	Namespace string
	EntityID  string
	Detail    string
}

type RowMapper func(key string, val []byte) InspectRow

// Scan walks every key under prefix, in key order.
func Scan(db *badger.DB, prefix string, mapper RowMapper) ([]InspectRow, error) {
	if mapper == nil {
		mapper = DefaultMapper
	}
	var rows []InspectRow
	err := db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
			item := it.Item()
			key := string(item.KeyCopy(nil))
			if err := item.Value(func(val []byte) error {
				rows = append(rows, mapper(key, val))
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	})
	return rows, err
}

// DefaultMapper splits "namespace:id[:rest]" keys and reports the value size.
func DefaultMapper(key string, val []byte) InspectRow {
	row := InspectRow{
		Key:       key,
		Namespace: "raw",
		EntityID:  "-",
		Detail:    "Size: " + strconv.Itoa(len(val)) + " bytes",
	}
	parts := strings.SplitN(key, ":", 3)
	if len(parts) >= 2 {
		row.Namespace = parts[0]
		row.EntityID = parts[1]
	}
	if len(parts) == 3 && row.Namespace == "msg" {
		if seq, err := strconv.ParseInt(parts[2], 10, 64); err == nil {
			row.Detail = "Sequence: " + strconv.FormatInt(seq, 10)
		}
	}
	return row
}
