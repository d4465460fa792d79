package store

import (
	"bytes"
	"crypto/rand"
	"sort"
	"testing"

	"github.com/iov-one/tokenswap/errors"
	"github.com/stretchr/testify/require"
)

// storeConstructor returns a fresh, empty store and a function releasing
// all its resources.
type storeConstructor func(t *testing.T) (base CacheableKVStore, cleanup func())

// runStoreSuite runs the checks every CacheableKVStore must pass.
func runStoreSuite(t *testing.T, makeBase storeConstructor) {
	t.Run("get set", func(t *testing.T) { checkGetSet(t, makeBase) })
	t.Run("cache conflicts", func(t *testing.T) { checkCacheConflicts(t, makeBase) })
	t.Run("iterators", func(t *testing.T) { checkIterators(t, makeBase) })
}

func checkGetSet(t *testing.T, makeBase storeConstructor) {
	base, cleanup := makeBase(t)
	defer cleanup()

	k, v := []byte("french"), []byte("fry")
	assertGetHas(t, base, k, nil, false)
	require.NoError(t, base.Set(k, v))
	assertGetHas(t, base, k, v, true)

	// a cache sees the data of its parent
	cache := base.CacheWrap()
	assertGetHas(t, cache, k, v, true)

	// but its own writes are hidden from the parent until written
	k2, v2 := []byte("LA"), []byte("Dodgers")
	require.NoError(t, cache.Set(k2, v2))
	assertGetHas(t, cache, k2, v2, true)
	assertGetHas(t, base, k2, nil, false)

	require.NoError(t, cache.Write())
	assertGetHas(t, base, k2, v2, true)

	// discarded changes never reach the parent
	k3, v3 := []byte("Bayern"), []byte("Munich")
	discarded := base.CacheWrap()
	require.NoError(t, discarded.Set(k3, v3))
	require.NoError(t, discarded.Delete(k))
	discarded.Discard()
	assertGetHas(t, base, k, v, true)
	assertGetHas(t, base, k3, nil, false)

	// deletes are written as well
	deleting := base.CacheWrap()
	require.NoError(t, deleting.Delete(k))
	assertGetHas(t, deleting, k, nil, false)
	require.NoError(t, deleting.Write())
	assertGetHas(t, base, k, nil, false)
	assertGetHas(t, base, k2, v2, true)
}

func checkCacheConflicts(t *testing.T, makeBase storeConstructor) {
	ks := randKeys(4, 16)
	vs := randKeys(4, 40)

	base, cleanup := makeBase(t)
	defer cleanup()

	require.NoError(t, base.Set(ks[1], vs[1]))
	require.NoError(t, base.Set(ks[2], vs[2]))

	child := base.CacheWrap()
	require.NoError(t, child.Set(ks[1], vs[0]))
	require.NoError(t, child.Set(ks[3], vs[3]))
	require.NoError(t, child.Delete(ks[2]))

	assertGetHas(t, base, ks[1], vs[1], true)
	assertGetHas(t, base, ks[2], vs[2], true)
	assertGetHas(t, base, ks[3], nil, false)

	want := []Model{{Key: ks[1], Value: vs[0]}, {Key: ks[2]}, {Key: ks[3], Value: vs[3]}}
	for _, m := range want {
		assertGetHas(t, child, m.Key, m.Value, m.Value != nil)
	}

	require.NoError(t, child.Write())
	for _, m := range want {
		assertGetHas(t, base, m.Key, m.Value, m.Value != nil)
	}
}

func checkIterators(t *testing.T, makeBase storeConstructor) {
	const size = 30

	parentSet := randModels(size, 8, 20)
	childSet := randModels(size, 8, 20)
	all := sortModels(append(append([]Model{}, parentSet...), childSet...))

	// one of the parent keys is overwritten, another one deleted
	overwritten := Model{Key: parentSet[0].Key, Value: []byte("overwritten")}
	deleted := parentSet[1].Key

	var want []Model
	for _, m := range all {
		switch {
		case bytes.Equal(m.Key, deleted):
		case bytes.Equal(m.Key, overwritten.Key):
			want = append(want, overwritten)
		default:
			want = append(want, m)
		}
	}

	base, cleanup := makeBase(t)
	defer cleanup()
	for _, m := range parentSet {
		require.NoError(t, base.Set(m.Key, m.Value))
	}
	child := base.CacheWrap()
	for _, m := range childSet {
		require.NoError(t, child.Set(m.Key, m.Value))
	}
	require.NoError(t, child.Set(overwritten.Key, overwritten.Value))
	require.NoError(t, child.Delete(deleted))
	// deleting a key that never existed is not visible
	require.NoError(t, child.Delete([]byte("missing")))

	n := len(want)
	queries := map[string]struct {
		start, end []byte
		reverse    bool
		expected   []Model
	}{
		"all":                {nil, nil, false, want},
		"from start":         {want[10].Key, nil, false, want[10:]},
		"until end":          {nil, want[n-8].Key, false, want[:n-8]},
		"range":              {want[17].Key, want[28].Key, false, want[17:28]},
		"reverse all":        {nil, nil, true, reverse(want)},
		"reverse from start": {want[34].Key, nil, true, reverse(want[34:])},
		"reverse until end":  {nil, want[19].Key, true, reverse(want[:19])},
		"reverse range":      {want[6].Key, want[26].Key, true, reverse(want[6:26])},
	}

	for name, q := range queries {
		t.Run(name, func(t *testing.T) {
			var (
				it  Iterator
				err error
			)
			if q.reverse {
				it, err = child.ReverseIterator(q.start, q.end)
			} else {
				it, err = child.Iterator(q.start, q.end)
			}
			require.NoError(t, err)
			defer it.Release()

			for i, m := range q.expected {
				key, value, err := it.Next()
				require.NoError(t, err)
				require.Equal(t, m.Key, key, "key %d", i)
				require.Equal(t, m.Value, value, "value %d", i)
			}
			_, _, err = it.Next()
			if !errors.ErrIteratorDone.Is(err) {
				t.Fatalf("want iterator done, got %+v", err)
			}
		})
	}
}

func assertGetHas(t testing.TB, kv ReadOnlyKVStore, key, val []byte, has bool) {
	t.Helper()
	got, err := kv.Get(key)
	require.NoError(t, err)
	require.Equal(t, val, got)
	exists, err := kv.Has(key)
	require.NoError(t, err)
	require.Equal(t, has, exists)
}

func randBytes(length int) []byte {
	res := make([]byte, length)
	if _, err := rand.Read(res); err != nil {
		panic(err)
	}
	return res
}

func randKeys(count, size int) [][]byte {
	res := make([][]byte, count)
	for i := range res {
		res[i] = randBytes(size)
	}
	return res
}

func randModels(count, keySize, valueSize int) []Model {
	models := make([]Model, count)
	for i := range models {
		models[i] = Model{Key: randBytes(keySize), Value: randBytes(valueSize)}
	}
	return models
}

func reverse(models []Model) []Model {
	res := make([]Model, len(models))
	for i, m := range models {
		res[len(models)-1-i] = m
	}
	return res
}

func sortModels(models []Model) []Model {
	res := make([]Model, len(models))
	copy(res, models)
	sort.Slice(res, func(i, j int) bool {
		return bytes.Compare(res[i].Key, res[j].Key) < 0
	})
	return res
}
