package internal

import (
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

func TestScan_Prefix(t *testing.T) {
	req := require.New(t)
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	req.NoError(err)
	defer db.Close()

	req.NoError(db.Update(func(txn *badger.Txn) error {
		for _, k := range []string{"room:r1", "room:r2", "msg:r1:0000000000000000007", "user:u1"} {
			if err := txn.Set([]byte(k), []byte("{}")); err != nil {
				return err
			}
		}
		return nil
	}))

	rows, err := Scan(db, "room:", nil)
	req.NoError(err)
	req.Len(rows, 2)
	req.Equal("room", rows[0].Namespace)
	req.Equal("r1", rows[0].EntityID)

	rows, err = Scan(db, "msg:", nil)
	req.NoError(err)
	req.Len(rows, 1)
	req.Equal("Sequence: 7", rows[0].Detail)
}
