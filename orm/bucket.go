package orm

import (
	"fmt"
	"regexp"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
)

var isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// bucket is a prefixed section of the key value store.
type bucket struct {
	name   string
	prefix []byte
}

func newBucket(name string) bucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("Illegal bucket: %s", name))
	}
	return bucket{
		name:   name,
		prefix: append([]byte(name), ':'),
	}
}

// dbKey is the full key we store in the db, including prefix
// We copy into a new array rather than use append, as we don't
// want consecutive calls to overwrite the same byte array.
func (b bucket) dbKey(key []byte) []byte {
	l := len(b.prefix)
	out := make([]byte, l+len(key))
	copy(out, b.prefix)
	copy(out[l:], key)
	return out
}

// Query handles queries from the QueryRouter. Returned keys do not contain
// the bucket prefix.
func (b bucket) Query(db tokenswap.ReadOnlyKVStore, mod string, data []byte) ([]tokenswap.Model, error) {
	switch mod {
	case tokenswap.KeyQueryMod:
		value, err := db.Get(b.dbKey(data))
		if err != nil {
			return nil, err
		}
		// return nothing on miss
		if value == nil {
			return nil, nil
		}
		return []tokenswap.Model{tokenswap.Pair(data, value)}, nil
	case tokenswap.PrefixQueryMod:
		return b.prefixScan(db, data)
	default:
		return nil, errors.Wrapf(errors.ErrInput, "not implemented: %q", mod)
	}
}

func (b bucket) prefixScan(db tokenswap.ReadOnlyKVStore, prefix []byte) ([]tokenswap.Model, error) {
	start := b.dbKey(prefix)
	it, err := db.Iterator(start, prefixEnd(start))
	if err != nil {
		return nil, err
	}
	res, err := ConsumeIterator(it)
	if err != nil {
		return nil, err
	}
	for i := range res {
		res[i].Key = res[i].Key[len(b.prefix):]
	}
	return res, nil
}

// prefixEnd returns the smallest key that is greater than all keys starting
// with given prefix, or nil if there is none.
func prefixEnd(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
