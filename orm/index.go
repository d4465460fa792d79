package orm

import (
	"bytes"
	"math"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
)

const nativeIdxPrefix = "_x."

// nativeIndex is an index implementation that is using a database native
// storage and query in order to maintain and provide access to an index.
//
// Index key is in format:
//
//	<prefix>#<bucket name>#<index name>#<value>#<entity id>
//
// where # is the length of the following chunk. To find all entities indexed
// under a value, iterate over all keys between
//
//	<prefix>#<bucket>#<index name>#<value> and the same key followed by 255
type nativeIndex struct {
	bucket  string
	name    string
	unique  bool
	indexer Indexer
}

func (ix *nativeIndex) key(chunks ...[]byte) ([]byte, error) {
	return packNativeIdxKey(append([][]byte{[]byte(ix.bucket), []byte(ix.name)}, chunks...))
}

// update updates the index. It should be called when any of the bucket
// entities has changed in the store.
//
// prev == nil means insert
// next == nil means delete
func (ix *nativeIndex) update(db tokenswap.KVStore, prev Object, next Object) error {
	if next == nil && prev == nil {
		return errors.Wrap(errors.ErrHuman, "update requires at least one non-nil object")
	}
	if next != nil && prev != nil && !bytes.Equal(next.Key(), prev.Key()) {
		return errors.Wrap(errors.ErrHuman, "previous key is not the same as the new one")
	}

	var prevValue, nextValue []byte
	if prev != nil {
		v, err := ix.indexer(prev)
		if err != nil {
			return errors.Wrap(err, "indexer")
		}
		prevValue = v
	}
	if next != nil {
		v, err := ix.indexer(next)
		if err != nil {
			return errors.Wrap(err, "indexer")
		}
		nextValue = v
	}
	if prev != nil && next != nil && bytes.Equal(prevValue, nextValue) {
		return nil
	}

	if prevValue != nil {
		idxKey, err := ix.key(prevValue, prev.Key())
		if err != nil {
			return errors.Wrap(err, "build index key")
		}
		if err := db.Delete(idxKey); err != nil {
			return errors.Wrap(err, "db delete")
		}
	}

	if nextValue != nil {
		if ix.unique {
			keys, err := ix.keys(db, nextValue)
			if err != nil {
				return err
			}
			if len(keys) > 0 {
				return errors.Wrapf(errors.ErrDuplicate, "unique index %q", ix.name)
			}
		}
		idxKey, err := ix.key(nextValue, next.Key())
		if err != nil {
			return errors.Wrap(err, "build index key")
		}
		if err := db.Set(idxKey, []byte{}); err != nil {
			return errors.Wrap(err, "db set")
		}
	}
	return nil
}

// keys returns all primary keys of the entities indexed under given value.
func (ix *nativeIndex) keys(db tokenswap.ReadOnlyKVStore, value []byte) ([][]byte, error) {
	start, err := ix.key(value)
	if err != nil {
		return nil, errors.Wrap(err, "build index key")
	}
	end := make([]byte, len(start)+1)
	copy(end, start)
	// MaxUint8 is not used by serializer so we can use it as the maximum
	// value guard.
	end[len(end)-1] = math.MaxUint8

	it, err := db.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	defer it.Release()

	var res [][]byte
	for {
		key, _, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			return res, nil
		}
		if err != nil {
			return nil, err
		}
		chunks, err := unpackNativeIdxKey(key)
		if err != nil {
			return nil, errors.Wrap(err, "unpack native index key")
		}
		res = append(res, chunks[len(chunks)-1])
	}
}

// indexQuery serves the index through the QueryRouter. It returns the
// entities indexed under the queried value.
type indexQuery struct {
	ix     *nativeIndex
	bucket bucket
}

func (q indexQuery) Query(db tokenswap.ReadOnlyKVStore, mod string, data []byte) ([]tokenswap.Model, error) {
	if mod != tokenswap.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInput, "not implemented: %q", mod)
	}
	keys, err := q.ix.keys(db, data)
	if err != nil {
		return nil, err
	}
	res := make([]tokenswap.Model, 0, len(keys))
	for _, key := range keys {
		value, err := db.Get(q.bucket.dbKey(key))
		if err != nil {
			return nil, errors.Wrapf(err, "cannot get %X value", key)
		}
		res = append(res, tokenswap.Pair(key, value))
	}
	return res, nil
}

// packNativeIdxKey serialize a native index key from a set of values to a
// single key. This process can be reversed using unpackNativeIdxKey function.
//
// When serialized, each chunk is prefixed with its length, encoded as a uint8
// value.  If a key is created from 3 chunks, "aaa", "" and "c", that key
// representation is:
//
//	_x.<3>aaa<0><1>c
func packNativeIdxKey(chunks [][]byte) ([]byte, error) {
	var size int
	for _, b := range chunks {
		size += len(b) + 1
	}
	res := make([]byte, 0, size+len(nativeIdxPrefix))
	res = append(res, nativeIdxPrefix...)

	for _, b := range chunks {
		// MaxUint8 is reserved for the search purpose. MaxUint8 - 1 is
		// the greatest allowed length.
		if len(b) > math.MaxUint8-1 {
			return nil, errors.Wrapf(errors.ErrInput, "no chunk can be bigger than %d bytes", math.MaxUint8-1)
		}
		res = append(res, uint8(len(b)))
		res = append(res, b...)
	}
	return res, nil
}

// unpackNativeIdxKey decodes native index key and extracts all chunks that
// compose that key.
func unpackNativeIdxKey(b []byte) ([][]byte, error) {
	if !bytes.HasPrefix(b, []byte(nativeIdxPrefix)) {
		return nil, errors.Wrap(errors.ErrInput, "not a native index key")
	}
	b = b[len(nativeIdxPrefix):]
	res := make([][]byte, 0, 5)
	for len(b) > 0 {
		size := int(b[0])
		if len(b) < 1+size {
			return nil, errors.Wrap(errors.ErrInput, "malformed offset")
		}
		res = append(res, b[1:1+size])
		b = b[1+size:]
	}
	return res, nil
}
