package store

import (
	"github.com/iov-one/ledger/errors"
)

// SliceIterator iterates over models already loaded in memory.
type SliceIterator struct {
	data []Model
}

var _ Iterator = (*SliceIterator)(nil)

// NewSliceIterator returns an iterator over data, in slice order.
func NewSliceIterator(data []Model) *SliceIterator {
	return &SliceIterator{data: data}
}

// Next returns the next key/value pair or ErrIteratorDone.
func (s *SliceIterator) Next() (key, value []byte, err error) {
	if len(s.data) == 0 {
		return nil, nil, errors.Wrap(errors.ErrIteratorDone, "slice done")
	}
	m := s.data[0]
	s.data = s.data[1:]
	return m.Key, m.Value, nil
}

// Release drops the remaining models.
func (s *SliceIterator) Release() {
	s.data = nil
}

// EmptyKVStore holds nothing and ignores writes. It is the bottom layer
// of MemStore.
type EmptyKVStore struct{}

var _ KVStore = EmptyKVStore{}

// Get always returns nil.
func (EmptyKVStore) Get([]byte) ([]byte, error) { return nil, nil }

// Has always returns false.
func (EmptyKVStore) Has([]byte) (bool, error) { return false, nil }

// Set is a noop.
func (EmptyKVStore) Set(_, _ []byte) error { return nil }

// Delete is a noop.
func (EmptyKVStore) Delete([]byte) error { return nil }

// Iterator is always empty.
func (EmptyKVStore) Iterator(_, _ []byte) (Iterator, error) {
	return NewSliceIterator(nil), nil
}

// ReverseIterator is always empty.
func (EmptyKVStore) ReverseIterator(_, _ []byte) (Iterator, error) {
	return NewSliceIterator(nil), nil
}

// NewBatch returns a batch writing into the store.
func (e EmptyKVStore) NewBatch() Batch {
	return NewNonAtomicBatch(e)
}

// NonAtomicBatch records writes and replays them in order on Write. A
// failing write leaves the earlier ones applied, so it must only target
// stores that are themselves discarded on error, such as cache wraps.
type NonAtomicBatch struct {
	out SetDeleter
	ops []entry
}

var _ Batch = (*NonAtomicBatch)(nil)

// NewNonAtomicBatch returns an empty batch over out.
func NewNonAtomicBatch(out SetDeleter) *NonAtomicBatch {
	return &NonAtomicBatch{out: out}
}

// Set records a write.
func (b *NonAtomicBatch) Set(key, value []byte) error {
	b.ops = append(b.ops, entry{key: key, value: value})
	return nil
}

// Delete records a removal.
func (b *NonAtomicBatch) Delete(key []byte) error {
	b.ops = append(b.ops, entry{key: key, deleted: true})
	return nil
}

// Write replays all recorded operations and empties the batch.
func (b *NonAtomicBatch) Write() error {
	for _, op := range b.ops {
		var err error
		if op.deleted {
			err = b.out.Delete(op.key)
		} else {
			err = b.out.Set(op.key, op.value)
		}
		if err != nil {
			return err
		}
	}
	b.ops = nil
	return nil
}
