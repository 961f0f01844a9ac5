package iavl

import (
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/store"
	"github.com/tendermint/iavl"
	dbm "github.com/tendermint/tendermint/libs/db"
)

// DefaultCacheSize is the number of nodes iavl keeps in memory.
const DefaultCacheSize = 10000

// CommitStore manages a iavl committed state
type CommitStore struct {
	tree *iavl.MutableTree
}

var _ store.CommitKVStore = CommitStore{}

// NewCommitStore creates a new store with disk backing in dir. An empty dir
// gives a memory backed store that is lost on exit.
func NewCommitStore(dir, name string) (CommitStore, error) {
	var db dbm.DB
	if dir == "" {
		db = dbm.NewMemDB()
	} else {
		ldb, err := dbm.NewGoLevelDB(name, dir)
		if err != nil {
			return CommitStore{}, errors.Wrapf(errors.ErrDatabase, "open %s/%s: %s", dir, name, err)
		}
		db = ldb
	}
	return CommitStore{tree: iavl.NewMutableTree(db, DefaultCacheSize)}, nil
}

// MustMemStore returns a memory backed commit store, for tests.
func MustMemStore() CommitStore {
	s, err := NewCommitStore("", "")
	if err != nil {
		panic(err)
	}
	return s
}

// Get returns the value at last committed state
// returns nil iff key doesn't exist. Panics on nil key.
func (s CommitStore) Get(key []byte) ([]byte, error) {
	_, val := s.tree.GetVersioned(key, s.tree.Version())
	return val, nil
}

// Commit the next version to disk, and returns info
func (s CommitStore) Commit() (store.CommitID, error) {
	hash, version, err := s.tree.SaveVersion()
	if err != nil {
		return store.CommitID{}, errors.Wrapf(errors.ErrDatabase, "save version: %s", err)
	}
	return store.CommitID{
		Version: version,
		Hash:    hash,
	}, nil
}

// LoadLatestVersion loads the latest persisted version.
// If there was a crash during the last commit, it is guaranteed
// to return a stable state, even if older.
func (s CommitStore) LoadLatestVersion() error {
	if _, err := s.tree.Load(); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "load: %s", err)
	}
	return nil
}

// LatestVersion returns info on the latest version saved to disk
func (s CommitStore) LatestVersion() (store.CommitID, error) {
	return store.CommitID{
		Version: s.tree.Version(),
		Hash:    s.tree.Hash(),
	}, nil
}

// CacheWrap gives us a savepoint to perform actions. Writing it applies
// the changes to the working tree, which is persisted on Commit.
func (s CommitStore) CacheWrap() store.KVCacheWrap {
	return s.Adapter().CacheWrap()
}

// Adapter returns a KVStore over the working, uncommitted tree.
func (s CommitStore) Adapter() store.CacheableKVStore {
	return adapter{tree: s.tree}
}

// adapter exposes the mutable tree as a KVStore
type adapter struct {
	tree *iavl.MutableTree
}

var _ store.CacheableKVStore = adapter{}

// Get returns nil iff key doesn't exist. Panics on nil key.
func (a adapter) Get(key []byte) ([]byte, error) {
	_, val := a.tree.Get(key)
	return val, nil
}

// Has checks if a key exists. Panics on nil key.
func (a adapter) Has(key []byte) (bool, error) {
	return a.tree.Has(key), nil
}

// Set adds a new value
func (a adapter) Set(key, value []byte) error {
	a.tree.Set(key, value)
	return nil
}

// Delete removes from the tree
func (a adapter) Delete(key []byte) error {
	a.tree.Remove(key)
	return nil
}

// NewBatch returns a batch that writes to the tree on Write
func (a adapter) NewBatch() store.Batch {
	return store.NewNonAtomicBatch(a)
}

// CacheWrap wraps us with btree
func (a adapter) CacheWrap() store.KVCacheWrap {
	return store.NewBTreeCacheWrap(a, a.NewBatch(), nil)
}

// Iterator over a domain of keys in ascending order. End is exclusive.
func (a adapter) Iterator(start, end []byte) (store.Iterator, error) {
	return a.collect(start, end, true), nil
}

// ReverseIterator over a domain of keys in descending order. End is exclusive.
func (a adapter) ReverseIterator(start, end []byte) (store.Iterator, error) {
	return a.collect(start, end, false), nil
}

func (a adapter) collect(start, end []byte, ascending bool) store.Iterator {
	var res []store.Model
	a.tree.IterateRange(start, end, ascending, func(key, value []byte) bool {
		res = append(res, store.Model{Key: key, Value: value})
		return false
	})
	return store.NewSliceIterator(res)
}
