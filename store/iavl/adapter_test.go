package iavl

import (
	"testing"

	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/store"
	"github.com/iov-one/tokenswap/weavetest/assert"
)

func assertGetHas(t testing.TB, kv store.ReadOnlyKVStore, key, val []byte, has bool) {
	t.Helper()
	got, err := kv.Get(key)
	assert.Nil(t, err)
	assert.Equal(t, val, got)
	exists, err := kv.Has(key)
	assert.Nil(t, err)
	assert.Equal(t, has, exists)
}

func TestCacheGetSet(t *testing.T) {
	commit := NewMemCommitStore()
	defer commit.Close()

	k, v := []byte("alice"), []byte("100")
	cache := commit.CacheWrap()
	assertGetHas(t, cache, k, nil, false)
	assert.Nil(t, cache.Set(k, v))
	assertGetHas(t, cache, k, v, true)

	// dropped writes never reach the tree
	cache.Discard()
	assertGetHas(t, commit.Adapter(), k, nil, false)

	cache = commit.CacheWrap()
	assert.Nil(t, cache.Set(k, v))
	assert.Nil(t, cache.Write())
	assertGetHas(t, commit.Adapter(), k, v, true)

	// written but not committed
	got, err := commit.Get(k)
	assert.Nil(t, err)
	assert.Nil(t, got)

	_, err = commit.Commit()
	assert.Nil(t, err)
	got, err = commit.Get(k)
	assert.Nil(t, err)
	assert.Equal(t, v, got)
}

func TestIterators(t *testing.T) {
	commit := NewMemCommitStore()
	defer commit.Close()

	base := commit.Adapter()
	for _, k := range []string{"a", "b", "c", "d"} {
		assert.Nil(t, base.Set([]byte(k), []byte("v"+k)))
	}
	assert.Nil(t, base.Delete([]byte("c")))

	collect := func(it store.Iterator, err error) []string {
		t.Helper()
		assert.Nil(t, err)
		defer it.Release()
		var keys []string
		for {
			key, _, err := it.Next()
			if errors.ErrIteratorDone.Is(err) {
				return keys
			}
			assert.Nil(t, err)
			keys = append(keys, string(key))
		}
	}

	assert.Equal(t, []string{"a", "b", "d"}, collect(base.Iterator(nil, nil)))
	assert.Equal(t, []string{"b"}, collect(base.Iterator([]byte("b"), []byte("d"))))
	assert.Equal(t, []string{"d", "b", "a"}, collect(base.ReverseIterator(nil, nil)))
}

func TestCommitPersistence(t *testing.T) {
	dir := t.TempDir()
	commit, err := NewCommitStore(dir, "state")
	assert.Nil(t, err)

	id, err := commit.LatestVersion()
	assert.Nil(t, err)
	assert.Equal(t, int64(0), id.Version)

	cache := commit.CacheWrap()
	assert.Nil(t, cache.Set([]byte("alice"), []byte("100")))
	assert.Nil(t, cache.Set([]byte("bob"), []byte("50")))
	assert.Nil(t, cache.Write())
	first, err := commit.Commit()
	assert.Nil(t, err)
	assert.Equal(t, int64(1), first.Version)
	assert.Equal(t, 32, len(first.Hash))

	cache = commit.CacheWrap()
	assert.Nil(t, cache.Delete([]byte("bob")))
	assert.Nil(t, cache.Write())
	second, err := commit.Commit()
	assert.Nil(t, err)
	assert.Equal(t, int64(2), second.Version)
	if string(first.Hash) == string(second.Hash) {
		t.Fatal("hash must change with the state")
	}

	// written to the working tree but never committed
	cache = commit.CacheWrap()
	assert.Nil(t, cache.Set([]byte("carol"), []byte("7")))
	assert.Nil(t, cache.Write())
	assert.Nil(t, commit.Close())

	commit, err = NewCommitStore(dir, "state")
	assert.Nil(t, err)
	defer commit.Close()

	id, err = commit.LatestVersion()
	assert.Nil(t, err)
	assert.Equal(t, second, id)

	assertGetHas(t, commit.Adapter(), []byte("alice"), []byte("100"), true)
	assertGetHas(t, commit.Adapter(), []byte("bob"), nil, false)
	assertGetHas(t, commit.Adapter(), []byte("carol"), nil, false)
}

func TestSameStateSameHash(t *testing.T) {
	build := func() []byte {
		commit := NewMemCommitStore()
		defer commit.Close()
		cache := commit.CacheWrap()
		assert.Nil(t, cache.Set([]byte("x"), []byte("1")))
		assert.Nil(t, cache.Set([]byte("y"), nil))
		assert.Nil(t, cache.Write())
		id, err := commit.Commit()
		assert.Nil(t, err)
		return id.Hash
	}
	assert.Equal(t, build(), build())
}
