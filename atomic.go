package tokenswap

import "github.com/iov-one/tokenswap/errors"

// Atomic runs fn against a cache wrapped view of db. Changes done by fn are
// written to db only if fn returns no error, otherwise they are all dropped.
func Atomic(db KVStore, fn func(KVStore) error) error {
	cacheable, ok := db.(CacheableKVStore)
	if !ok {
		return errors.Wrap(errors.ErrHuman, "store does not support cache wrapping")
	}
	cache := cacheable.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}
