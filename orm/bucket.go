package orm

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

var isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// ModelBucket stores models of a single type under a prefixed subspace of
// the database.
type ModelBucket struct {
	name   string
	prefix []byte
	model  reflect.Type
}

var _ ledger.QueryHandler = ModelBucket{}

// NewModelBucket returns a bucket storing models of the same type as proto.
// proto must be a pointer.
func NewModelBucket(name string, proto Model) ModelBucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("Illegal bucket: %s", name))
	}
	t := reflect.TypeOf(proto)
	if t.Kind() != reflect.Ptr {
		panic(fmt.Sprintf("model must be a pointer, got %T", proto))
	}
	return ModelBucket{
		name:   name,
		prefix: append([]byte(name), ':'),
		model:  t.Elem(),
	}
}

// Name returns the bucket name.
func (b ModelBucket) Name() string {
	return b.name
}

// DBKey is the full key we store in the db, including prefix.
// We copy into a new array rather than use append, as we don't
// want consecutive calls to overwrite the same byte array.
func (b ModelBucket) DBKey(key []byte) []byte {
	l := len(b.prefix)
	out := make([]byte, l+len(key))
	copy(out, b.prefix)
	copy(out[l:], key)
	return out
}

// One loads the model stored under key into dest.
// This method returns ErrNotFound if the entity does not exist in the
// database.
func (b ModelBucket) One(db ledger.ReadOnlyKVStore, key []byte, dest Model) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "key")
	}
	if reflect.TypeOf(dest) != reflect.PtrTo(b.model) {
		return errors.Wrapf(errors.ErrInvalidType, "%T cannot be loaded from bucket %s", dest, b.name)
	}
	raw, err := db.Get(b.DBKey(key))
	if err != nil {
		return errors.Wrap(err, "cannot load from the database")
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", b.name, key)
	}
	if err := dest.Unmarshal(raw); err != nil {
		return errors.Wrapf(err, "cannot unmarshal %s", b.name)
	}
	return nil
}

// Has returns true if an entity is stored under key.
func (b ModelBucket) Has(db ledger.ReadOnlyKVStore, key []byte) (bool, error) {
	if len(key) == 0 {
		return false, errors.Wrap(errors.ErrEmpty, "key")
	}
	return db.Has(b.DBKey(key))
}

// Put saves given model in the database, overwriting any previous value.
func (b ModelBucket) Put(db ledger.KVStore, key []byte, m Model) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "key")
	}
	if reflect.TypeOf(m) != reflect.PtrTo(b.model) {
		return errors.Wrapf(errors.ErrInvalidType, "%T cannot be stored in bucket %s", m, b.name)
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	raw, err := m.Marshal()
	if err != nil {
		return errors.Wrap(err, "cannot marshal")
	}
	if err := db.Set(b.DBKey(key), raw); err != nil {
		return errors.Wrap(err, "cannot store in the database")
	}
	return nil
}

// Insert is like Put, but fails with ErrDuplicate if the key is taken.
func (b ModelBucket) Insert(db ledger.KVStore, key []byte, m Model) error {
	ok, err := b.Has(db, key)
	if err != nil {
		return err
	}
	if ok {
		return errors.Wrapf(errors.ErrDuplicate, "%s %X already exists", b.name, key)
	}
	return b.Put(db, key, m)
}

// Delete removes an entity with given primary key from the database.
// It returns ErrNotFound if an entity with given key does not exist.
func (b ModelBucket) Delete(db ledger.KVStore, key []byte) error {
	ok, err := b.Has(db, key)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", b.name, key)
	}
	return db.Delete(b.DBKey(key))
}

// Register registers this bucket for queries. You can define a name here,
// which is different than the bucket name used to prefix the data.
func (b ModelBucket) Register(name string, r ledger.QueryRouter) {
	if name == "" {
		name = b.name
	}
	r.Register("/"+name, b)
}

// Query handles queries from the QueryRouter
func (b ModelBucket) Query(db ledger.ReadOnlyKVStore, mod string, data []byte) ([]ledger.Model, error) {
	switch mod {
	case ledger.KeyQueryMod:
		key := b.DBKey(data)
		value, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		// return nothing on miss
		if value == nil {
			return nil, nil
		}
		return []ledger.Model{{Key: key, Value: value}}, nil
	case ledger.PrefixQueryMod:
		return queryPrefix(db, b.DBKey(data))
	default:
		return nil, errors.Wrapf(errors.ErrInvalidInput, "unknown mod: %s", mod)
	}
}
