package weavetest

import (
	"testing"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/store/iavl"
)

// CommitKVStore returns a store instance that is using a filesystem backend
// engine to store the data. The store is closed when the test finishes.
// Use it instead of MemStore when you want the exact same storage
// implementation as the daemon is using.
func CommitKVStore(t testing.TB) tokenswap.CommitKVStore {
	t.Helper()
	db, err := iavl.NewCommitStore(t.TempDir(), "weavetest")
	if err != nil {
		t.Fatalf("cannot open the database: %s", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}
