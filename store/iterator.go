package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/ledger/errors"
)

// collectRange returns all cached items within [start, end) in iteration
// order. Deleted items are kept so they can shadow the parent.
func collectRange(bt *btree.BTree, start, end []byte, reverse bool) []entry {
	var items []entry
	insert := func(item btree.Item) bool {
		items = append(items, item.(entry))
		return true
	}
	switch {
	case start == nil && end == nil:
		bt.Ascend(insert)
	case start == nil:
		bt.AscendLessThan(entry{key: end}, insert)
	case end == nil:
		bt.AscendGreaterOrEqual(entry{key: start}, insert)
	default:
		bt.AscendRange(entry{key: start}, entry{key: end}, insert)
	}
	if reverse {
		for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
			items[i], items[j] = items[j], items[i]
		}
	}
	return items
}

// mergedIterator joins the cached items with the parent iterator. On equal
// keys the cache wins, and a deleted item hides the parent entry.
type mergedIterator struct {
	ours    []entry
	parent  Iterator
	reverse bool

	// one element look ahead on the parent
	pKey, pValue []byte
	pDone        bool
	pLoaded      bool
}

var _ Iterator = (*mergedIterator)(nil)

func newMergedIterator(ours []entry, parent Iterator, reverse bool) *mergedIterator {
	return &mergedIterator{
		ours:    ours,
		parent:  parent,
		reverse: reverse,
	}
}

func (m *mergedIterator) loadParent() error {
	if m.pLoaded || m.pDone {
		return nil
	}
	k, v, err := m.parent.Next()
	if err != nil {
		if errors.ErrIteratorDone.Is(err) {
			m.pDone = true
			return nil
		}
		return err
	}
	m.pKey, m.pValue, m.pLoaded = k, v, true
	return nil
}

// before returns true if a comes first in iteration order.
func (m *mergedIterator) before(a, b []byte) bool {
	if m.reverse {
		return bytes.Compare(a, b) > 0
	}
	return bytes.Compare(a, b) < 0
}

// Next returns the next visible key/value pair or ErrIteratorDone.
func (m *mergedIterator) Next() (key, value []byte, err error) {
	for {
		if err := m.loadParent(); err != nil {
			return nil, nil, err
		}
		if len(m.ours) == 0 {
			if !m.pLoaded {
				return nil, nil, errors.Wrap(errors.ErrIteratorDone, "merged iterator")
			}
			m.pLoaded = false
			return m.pKey, m.pValue, nil
		}

		item := m.ours[0]
		if m.pLoaded && m.before(m.pKey, item.key) {
			m.pLoaded = false
			return m.pKey, m.pValue, nil
		}
		// cached item shadows the parent entry with the same key
		if m.pLoaded && bytes.Equal(m.pKey, item.key) {
			m.pLoaded = false
		}
		m.ours = m.ours[1:]
		if item.deleted {
			continue
		}
		return item.key, item.value, nil
	}
}

// Release releases the parent iterator and all cached data.
func (m *mergedIterator) Release() {
	m.parent.Release()
	m.ours = nil
}
