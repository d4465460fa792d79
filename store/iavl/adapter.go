/*
Package iavl provides a CommitKVStore backed by a versioned iavl tree on top
of a LevelDB database. Every commit saves a new tree version, and the root
hash of that version is the application hash.
*/
package iavl

import (
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/tendermint/iavl"
	dbm "github.com/tendermint/tendermint/libs/db"

	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/store"
)

// number of tree nodes kept in memory
const cacheSize = 10000

// CommitStore manages an iavl committed state.
//
// All writes of a cache wrap go to the working tree when the wrap is
// written. Commit saves the working tree as a new version in a single
// database batch, so that a crash leaves the last saved version intact.
type CommitStore struct {
	db   dbm.DB
	tree *iavl.MutableTree
}

var _ store.CommitKVStore = (*CommitStore)(nil)

// NewCommitStore opens (or creates) a database called name in dir and loads
// its latest version.
func NewCommitStore(dir, name string) (*CommitStore, error) {
	db, err := dbm.NewGoLevelDBWithOpts(name, dir, &opt.Options{
		BlockCacheCapacity: 16 * opt.MiB,
	})
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "open %s: %s", dir, err)
	}
	s, err := newCommitStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewMemCommitStore returns a store that keeps all versions in memory.
func NewMemCommitStore() *CommitStore {
	s, err := newCommitStore(dbm.NewMemDB())
	if err != nil {
		// an empty memory database always loads
		panic(err)
	}
	return s
}

func newCommitStore(db dbm.DB) (*CommitStore, error) {
	tree := iavl.NewMutableTree(db, cacheSize)
	if _, err := tree.Load(); err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "load tree: %s", err)
	}
	return &CommitStore{db: db, tree: tree}, nil
}

// Get returns the value at last committed state
// returns nil iff key doesn't exist. Panics on nil key.
func (s *CommitStore) Get(key []byte) ([]byte, error) {
	_, val := s.tree.GetVersioned(key, s.tree.Version())
	return val, nil
}

// Commit saves the working tree as the next version.
func (s *CommitStore) Commit() (store.CommitID, error) {
	hash, version, err := s.tree.SaveVersion()
	if err != nil {
		return store.CommitID{}, errors.Wrapf(errors.ErrDatabase, "save version: %s", err)
	}
	return store.CommitID{Version: version, Hash: hash}, nil
}

// LatestVersion returns info on the latest version saved to disk
func (s *CommitStore) LatestVersion() (store.CommitID, error) {
	return store.CommitID{
		Version: s.tree.Version(),
		Hash:    s.tree.Hash(),
	}, nil
}

// CacheWrap gives us a savepoint to perform actions. Writing it moves its
// content to the working tree.
func (s *CommitStore) CacheWrap() store.KVCacheWrap {
	return s.Adapter().CacheWrap()
}

// Adapter returns a store working directly on the uncommitted working tree.
func (s *CommitStore) Adapter() store.CacheableKVStore {
	return adapter{tree: s.tree}
}

// Close releases the database.
func (s *CommitStore) Close() error {
	s.db.Close()
	return nil
}

// adapter exposes the working tree as a KVStore.
type adapter struct {
	tree *iavl.MutableTree
}

var _ store.CacheableKVStore = adapter{}

func (a adapter) Get(key []byte) ([]byte, error) {
	_, val := a.tree.Get(key)
	return val, nil
}

func (a adapter) Has(key []byte) (bool, error) {
	return a.tree.Has(key), nil
}

func (a adapter) Set(key, value []byte) error {
	// the tree refuses nil values
	if value == nil {
		value = []byte{}
	}
	a.tree.Set(key, value)
	return nil
}

func (a adapter) Delete(key []byte) error {
	a.tree.Remove(key)
	return nil
}

// NewBatch applies all operations to the tree on Write. The tree itself is
// only persisted on Commit.
func (a adapter) NewBatch() store.Batch {
	return store.NewNonAtomicBatch(a)
}

func (a adapter) CacheWrap() store.KVCacheWrap {
	return store.NewBTreeCacheWrap(a, a.NewBatch(), nil)
}

func (a adapter) Iterator(start, end []byte) (store.Iterator, error) {
	return a.iterate(start, end, true), nil
}

func (a adapter) ReverseIterator(start, end []byte) (store.Iterator, error) {
	return a.iterate(start, end, false), nil
}

func (a adapter) iterate(start, end []byte, ascending bool) store.Iterator {
	var res []store.Model
	a.tree.IterateRange(start, end, ascending, func(key, value []byte) bool {
		res = append(res, store.Model{Key: key, Value: value})
		return false
	})
	return store.NewSliceIterator(res)
}
