package orm

import (
	"fmt"
	"reflect"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/codec"
	"github.com/iov-one/tokenswap/errors"
)

// ModelBucket is implemented by buckets that operates on Models rather than
// Objects.
type ModelBucket interface {
	// One query the database for a single model instance. Lookup is done
	// by the primary index key. Result is loaded into given destination
	// model.
	// This method returns ErrNotFound if the entity does not exist in the
	// database.
	// If given model type cannot be used to contain stored entity, ErrType
	// is returned.
	One(db tokenswap.ReadOnlyKVStore, key []byte, dest Model) error

	// Has returns nil if an entity with given primary key value exists. It
	// returns ErrNotFound if no entity can be found.
	Has(db tokenswap.ReadOnlyKVStore, key []byte) error

	// ByIndex returns all models that are referenced by given index name
	// and key value. Found models are appended to given destination,
	// which must be a pointer to a slice of model pointers. It returns
	// the primary keys of all found models, in the same order.
	// ErrNotFound is returned if no model is found.
	ByIndex(db tokenswap.ReadOnlyKVStore, indexName string, key []byte, dest interface{}) ([][]byte, error)

	// Put saves given model in the database. All indexes are updated. A
	// unique index conflict results in ErrDuplicate.
	Put(db tokenswap.KVStore, key []byte, m Model) error

	// Delete removes an entity with given primary key from the database.
	// It returns ErrNotFound if an entity with given key does not exist.
	Delete(db tokenswap.KVStore, key []byte) error

	// Register registers this bucket and all its indexes in the query
	// router, under the given name.
	Register(name string, r tokenswap.QueryRouter)
}

// ModelBucketOption is implemented by any function that can configure
// ModelBucket during creation.
type ModelBucketOption func(mb *modelBucket)

// WithIndex configures the bucket to build an index with given name. All
// entities stored in the bucket are indexed using the value returned by the
// indexer function. If an index is unique, there can be only one entity
// referenced per index value.
func WithIndex(name string, indexer Indexer, unique bool) ModelBucketOption {
	return func(mb *modelBucket) {
		if _, ok := mb.indexes[name]; ok {
			panic(fmt.Sprintf("duplicated index %q", name))
		}
		mb.indexes[name] = &nativeIndex{
			bucket:  mb.b.name,
			name:    name,
			unique:  unique,
			indexer: indexer,
		}
	}
}

// NewModelBucket returns a ModelBucket instance storing models of the same
// type as given model, under a prefix derived from name.
func NewModelBucket(name string, m Model, opts ...ModelBucketOption) ModelBucket {
	tp := reflect.TypeOf(m)
	if tp.Kind() != reflect.Ptr {
		panic("model must be a pointer")
	}
	mb := &modelBucket{
		b:       newBucket(name),
		model:   tp,
		indexes: make(map[string]*nativeIndex),
	}
	for _, fn := range opts {
		fn(mb)
	}
	return mb
}

type modelBucket struct {
	b       bucket
	model   reflect.Type
	indexes map[string]*nativeIndex
}

var _ ModelBucket = (*modelBucket)(nil)

func (mb *modelBucket) newModel() Model {
	return reflect.New(mb.model.Elem()).Interface().(Model)
}

func (mb *modelBucket) One(db tokenswap.ReadOnlyKVStore, key []byte, dest Model) error {
	if reflect.TypeOf(dest) != mb.model {
		return errors.Wrapf(errors.ErrType, "%T cannot be represented as %v", dest, mb.model)
	}
	raw, err := db.Get(mb.b.dbKey(key))
	if err != nil {
		return errors.Wrap(err, "cannot get from the database")
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%T not in the store", dest)
	}
	if err := codec.Unmarshal(raw, dest); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "cannot unmarshal %T: %s", dest, err)
	}
	return nil
}

func (mb *modelBucket) Has(db tokenswap.ReadOnlyKVStore, key []byte) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrNotFound, "empty key")
	}
	ok, err := db.Has(mb.b.dbKey(key))
	if err != nil {
		return errors.Wrap(err, "cannot query the database")
	}
	if !ok {
		return errors.ErrNotFound
	}
	return nil
}

func (mb *modelBucket) ByIndex(db tokenswap.ReadOnlyKVStore, indexName string, key []byte, dest interface{}) ([][]byte, error) {
	ix, ok := mb.indexes[indexName]
	if !ok {
		return nil, errors.Wrapf(errors.ErrHuman, "unknown index %q", indexName)
	}

	slice := reflect.ValueOf(dest)
	if slice.Kind() != reflect.Ptr || slice.Elem().Kind() != reflect.Slice {
		return nil, errors.Wrap(errors.ErrType, "destination must be a pointer to a slice of models")
	}
	if slice.Elem().Type().Elem() != mb.model {
		return nil, errors.Wrapf(errors.ErrType, "this bucket operates on %v", mb.model)
	}

	keys, err := ix.keys(db, key)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, errors.ErrNotFound
	}

	items := slice.Elem()
	for _, k := range keys {
		m := mb.newModel()
		if err := mb.One(db, k, m); err != nil {
			return nil, errors.Wrapf(err, "cannot load %X referenced by %q index", k, indexName)
		}
		items = reflect.Append(items, reflect.ValueOf(m))
	}
	slice.Elem().Set(items)
	return keys, nil
}

func (mb *modelBucket) Put(db tokenswap.KVStore, key []byte, m Model) error {
	if reflect.TypeOf(m) != mb.model {
		return errors.Wrapf(errors.ErrType, "cannot store %T in %v bucket", m, mb.model)
	}
	if err := NewSimpleObj(key, m).Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	raw, err := codec.Marshal(m)
	if err != nil {
		return errors.Wrap(err, "cannot serialize")
	}

	if len(mb.indexes) > 0 {
		prev, err := mb.load(db, key)
		if err != nil {
			return err
		}
		next := NewSimpleObj(key, m)
		for name, ix := range mb.indexes {
			if err := ix.update(db, prev, next); err != nil {
				return errors.Wrapf(err, "cannot update %q index", name)
			}
		}
	}

	if err := db.Set(mb.b.dbKey(key), raw); err != nil {
		return errors.Wrap(err, "cannot store in the database")
	}
	return nil
}

func (mb *modelBucket) Delete(db tokenswap.KVStore, key []byte) error {
	prev, err := mb.load(db, key)
	if err != nil {
		return err
	}
	if prev == nil {
		return errors.Wrapf(errors.ErrNotFound, "%X", key)
	}
	for name, ix := range mb.indexes {
		if err := ix.update(db, prev, nil); err != nil {
			return errors.Wrapf(err, "cannot update %q index", name)
		}
	}
	if err := db.Delete(mb.b.dbKey(key)); err != nil {
		return errors.Wrap(err, "cannot delete from the database")
	}
	return nil
}

// load returns the stored object or nil if it does not exist.
func (mb *modelBucket) load(db tokenswap.ReadOnlyKVStore, key []byte) (Object, error) {
	m := mb.newModel()
	switch err := mb.One(db, key, m); {
	case errors.ErrNotFound.Is(err):
		return nil, nil
	case err != nil:
		return nil, err
	}
	return NewSimpleObj(key, m), nil
}

func (mb *modelBucket) Register(name string, r tokenswap.QueryRouter) {
	if name == "" {
		name = mb.b.name
	}
	root := "/" + name
	r.Register(root, mb.b)
	for indexName, ix := range mb.indexes {
		r.Register(root+"/"+indexName, indexQuery{ix: ix, bucket: mb.b})
	}
}
