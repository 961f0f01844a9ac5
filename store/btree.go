package store

import (
	"bytes"

	"github.com/google/btree"
)

// btreeDegree is the branching factor of every cache tree. Caches only
// live for one transaction or block, so they stay small.
const btreeDegree = 2

// BTreeCacheable gives any KVStore a btree cache wrap.
type BTreeCacheable struct {
	KVStore
}

var _ CacheableKVStore = BTreeCacheable{}

// CacheWrap returns a cache whose Write applies all changes to the wrapped
// store.
func (b BTreeCacheable) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b.KVStore, b.NewBatch(), nil)
}

// MemStore returns a store that lives in memory only. Used by tests and
// as the genesis scratch space.
func MemStore() CacheableKVStore {
	e := EmptyKVStore{}
	return NewBTreeCacheWrap(e, e.NewBatch(), nil)
}

// BTreeCacheWrap keeps pending writes in a btree in front of a read only
// parent. Reads see pending writes first. Write replays them through the
// batch, Discard drops them.
type BTreeCacheWrap struct {
	bt    *btree.BTree
	free  *btree.FreeList
	back  ReadOnlyKVStore
	batch Batch
}

var _ KVCacheWrap = BTreeCacheWrap{}

// NewBTreeCacheWrap builds a cache over kv. All writes are mirrored into
// batch, which must target kv. A nil free list allocates a new one.
func NewBTreeCacheWrap(kv ReadOnlyKVStore, batch Batch, free *btree.FreeList) BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(btree.DefaultFreeListSize)
	}
	return BTreeCacheWrap{
		bt:    btree.NewWithFreeList(btreeDegree, free),
		free:  free,
		back:  kv,
		batch: batch,
	}
}

// CacheWrap stacks another cache on top. Nested caches share the free
// list of the outermost one.
func (b BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b, b.NewBatch(), b.free)
}

// NewBatch returns a batch writing into this cache.
func (b BTreeCacheWrap) NewBatch() Batch {
	return NewNonAtomicBatch(b)
}

// Write flushes pending writes to the parent and empties the cache.
func (b BTreeCacheWrap) Write() error {
	err := b.batch.Write()
	b.Discard()
	return err
}

// Discard drops all pending writes, returning the nodes to the free list.
func (b BTreeCacheWrap) Discard() {
	for b.bt.DeleteMin() != nil {
	}
}

// Set records the value in the cache and the batch.
func (b BTreeCacheWrap) Set(key, value []byte) error {
	b.bt.ReplaceOrInsert(entry{key: key, value: value})
	return b.batch.Set(key, value)
}

// Delete records a tombstone in the cache and the batch.
func (b BTreeCacheWrap) Delete(key []byte) error {
	b.bt.ReplaceOrInsert(entry{key: key, deleted: true})
	return b.batch.Delete(key)
}

// cached returns the pending entry for key, if any.
func (b BTreeCacheWrap) cached(key []byte) (entry, bool) {
	item := b.bt.Get(entry{key: key})
	if item == nil {
		return entry{}, false
	}
	return item.(entry), true
}

// Get prefers the pending value over the parent.
func (b BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	if e, ok := b.cached(key); ok {
		if e.deleted {
			return nil, nil
		}
		return e.value, nil
	}
	return b.back.Get(key)
}

// Has prefers the pending state over the parent.
func (b BTreeCacheWrap) Has(key []byte) (bool, error) {
	if e, ok := b.cached(key); ok {
		return !e.deleted, nil
	}
	return b.back.Has(key)
}

// Iterator merges pending entries with the parent in ascending order.
func (b BTreeCacheWrap) Iterator(start, end []byte) (Iterator, error) {
	parent, err := b.back.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return newMergedIterator(collectRange(b.bt, start, end, false), parent, false), nil
}

// ReverseIterator merges pending entries with the parent in descending
// order.
func (b BTreeCacheWrap) ReverseIterator(start, end []byte) (Iterator, error) {
	parent, err := b.back.ReverseIterator(start, end)
	if err != nil {
		return nil, err
	}
	return newMergedIterator(collectRange(b.bt, start, end, true), parent, true), nil
}

// entry is a pending write. A deleted entry hides the parent value.
type entry struct {
	key     []byte
	value   []byte
	deleted bool
}

var _ btree.Item = entry{}

// Less orders entries by key.
func (e entry) Less(than btree.Item) bool {
	return bytes.Compare(e.key, than.(entry).key) < 0
}
