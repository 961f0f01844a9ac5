package app

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

// CommitStore handles loading from a CommitKVStore, maintaining different
// CacheWraps for Deliver and Check, and returning useful state info.
type CommitStore struct {
	committed ledger.CommitKVStore
	deliver   ledger.KVCacheWrap
	check     ledger.KVCacheWrap
}

// NewCommitStore loads the CommitKVStore from disk and sets up the
// deliver and check caches.
func NewCommitStore(store ledger.CommitKVStore) (*CommitStore, error) {
	if err := store.LoadLatestVersion(); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return &CommitStore{
		committed: store,
		deliver:   store.CacheWrap(),
		check:     store.CacheWrap(),
	}, nil
}

// CommitInfo returns the current height and hash
func (cs *CommitStore) CommitInfo() (ledger.CommitID, error) {
	return cs.committed.LatestVersion()
}

// Commit will flush deliver to the underlying store and commit it
// to disk. It then regenerates new deliver/check caches.
// Callers serialize access, see Ledger.
func (cs *CommitStore) Commit() (ledger.CommitID, error) {
	// flush deliver to store and discard check
	if err := cs.deliver.Write(); err != nil {
		return ledger.CommitID{}, err
	}
	cs.check.Discard()

	// write the store to disk
	res, err := cs.committed.Commit()
	if err != nil {
		return res, err
	}

	// set up new caches
	cs.deliver = cs.committed.CacheWrap()
	cs.check = cs.committed.CacheWrap()
	return res, nil
}

// GenesisStore returns a cache over the working state. Once written, its
// content is seen by both the check and deliver phases.
func (cs *CommitStore) GenesisStore() ledger.KVCacheWrap {
	cs.deliver.Discard()
	cs.check.Discard()
	cs.deliver = cs.committed.CacheWrap()
	cs.check = cs.committed.CacheWrap()
	return cs.committed.CacheWrap()
}

// CheckStore returns a store implementation that must be used during the
// checking phase.
func (cs *CommitStore) CheckStore() ledger.CacheableKVStore {
	return cs.check
}

// DeliverStore returns a store implementation that must be used during the
// delivery phase.
func (cs *CommitStore) DeliverStore() ledger.CacheableKVStore {
	return cs.deliver
}

// CommittedStore returns a read view of the state as of the last Commit,
// including genesis.
func (cs *CommitStore) CommittedStore() ledger.ReadOnlyKVStore {
	return cs.committed.CacheWrap()
}

//------- storing chainID ---------

// _ledger: is a prefix for internal data
const chainIDKey = "_ledger:chainID"

// loadChainID returns the chain id stored if any
func loadChainID(kv ledger.ReadOnlyKVStore) (string, error) {
	v, err := kv.Get([]byte(chainIDKey))
	if err != nil {
		return "", errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return string(v), nil
}

// saveChainID stores a chain id in the kv store.
// Returns error if already set, or invalid name
func saveChainID(kv ledger.KVStore, chainID string) error {
	if !ledger.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInvalidInput, "chain id: %v", chainID)
	}
	k := []byte(chainIDKey)
	exists, err := kv.Has(k)
	if err != nil {
		return errors.Wrap(err, "load chainId")
	}
	if exists {
		return errors.Wrap(errors.ErrUnauthorized, "can't modify chain id after genesis init")
	}
	if err := kv.Set(k, []byte(chainID)); err != nil {
		return errors.Wrap(err, "save chainId")
	}
	return nil
}
