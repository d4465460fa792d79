package tokenswap_test

import (
	"testing"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/store"
	"github.com/iov-one/tokenswap/weavetest/assert"
)

func TestAtomic(t *testing.T) {
	db := store.MemStore()

	err := tokenswap.Atomic(db, func(db tokenswap.KVStore) error {
		return db.Set([]byte("kept"), []byte("1"))
	})
	assert.Nil(t, err)

	err = tokenswap.Atomic(db, func(db tokenswap.KVStore) error {
		if err := db.Set([]byte("dropped"), []byte("1")); err != nil {
			return err
		}
		if err := db.Delete([]byte("kept")); err != nil {
			return err
		}
		return errors.Wrap(errors.ErrState, "abort")
	})
	assert.IsErr(t, errors.ErrState, err)

	v, err := db.Get([]byte("kept"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("1"), v)
	v, err = db.Get([]byte("dropped"))
	assert.Nil(t, err)
	assert.Nil(t, v)
}

func TestAtomicRequiresCacheableStore(t *testing.T) {
	err := tokenswap.Atomic(store.EmptyKVStore{}, func(tokenswap.KVStore) error { return nil })
	assert.IsErr(t, errors.ErrHuman, err)
}
