package orm

import (
	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
)

// ConsumeIterator reads all models out of the iterator and releases it.
func ConsumeIterator(it tokenswap.Iterator) ([]tokenswap.Model, error) {
	defer it.Release()

	var res []tokenswap.Model
	for {
		key, value, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			return res, nil
		}
		if err != nil {
			return nil, err
		}
		res = append(res, tokenswap.Pair(key, value))
	}
}
