package orm

import (
	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
)

// Model is implemented by any entity that can be stored using ModelBucket.
type Model interface {
	tokenswap.Persistent
	Validate() error
}

// Object is a model together with the key it is stored under. This is what
// indexers are computed from.
type Object interface {
	Key() []byte
	Value() Model
}

// SimpleObj wraps a key and a value together
type SimpleObj struct {
	key   []byte
	value Model
}

var _ Object = (*SimpleObj)(nil)

// NewSimpleObj will combine a key and value into an object
func NewSimpleObj(key []byte, value Model) *SimpleObj {
	return &SimpleObj{
		key:   key,
		value: value,
	}
}

// Value gets the value stored in the object
func (o SimpleObj) Value() Model {
	return o.value
}

// Key returns the key to store the object under
func (o SimpleObj) Key() []byte {
	return o.key
}

// Validate makes sure the fields aren't empty.
// And delegates to the value validator if present
func (o SimpleObj) Validate() error {
	if len(o.key) == 0 {
		return errors.Field("Key", errors.ErrEmpty, "missing key")
	}
	if o.value == nil {
		return errors.Field("Value", errors.ErrEmpty, "missing value")
	}
	return errors.Field("Value", o.value.Validate(), "invalid value")
}

// Indexer calculates the secondary index key for a given object. Returning
// a nil key means the object is not indexed.
type Indexer func(Object) ([]byte, error)
