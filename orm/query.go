package orm

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

func queryPrefix(db ledger.ReadOnlyKVStore, prefix []byte) ([]ledger.Model, error) {
	start, end := prefixRange(prefix)
	itr, err := db.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return ConsumeIterator(itr)
}

// ConsumeIterator will read all remaining data into an
// array and release the iterator
func ConsumeIterator(itr ledger.Iterator) ([]ledger.Model, error) {
	defer itr.Release()

	var res []ledger.Model
	key, value, err := itr.Next()
	for err == nil {
		res = append(res, ledger.Pair(key, value))
		key, value, err = itr.Next()
	}
	if !errors.ErrIteratorDone.Is(err) {
		return nil, err
	}
	return res, nil
}

// prefixRange turns a prefix into a (start, end) range. The end is
// the smallest key greater than every key with this prefix, or nil
// when no such key exists.
func prefixRange(prefix []byte) ([]byte, []byte) {
	if prefix == nil {
		return nil, nil
	}
	// special case: no prefix is whole range
	if len(prefix) == 0 {
		return nil, nil
	}

	// copy the prefix and update last byte
	end := make([]byte, len(prefix))
	copy(end, prefix)
	l := len(end) - 1
	end[l]++

	// wait, what if that overflowed?....
	for end[l] == 0 && l > 0 {
		l--
		end[l]++
	}

	// okay, funny guy, you gave us FFF, no end to this range...
	if l == 0 && end[0] == 0 {
		end = nil
	}
	return prefix, end
}
