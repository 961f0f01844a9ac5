package gconf

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

// ReadStore is a subset of ledger.ReadOnlyKVStore.
type ReadStore interface {
	Get([]byte) ([]byte, error)
}

// Store is a subset of ledger.KVStore.
type Store interface {
	ReadStore
	Set([]byte, []byte) error
}

// ValidMarshaler is implemented by object that can serialize itself to a binary
// representation. You must add your own Validate method.
type ValidMarshaler interface {
	Marshal() ([]byte, error)
	Validate() error
}

// Unmarshaler is implemented by object that can load their state from given
// binary representation.
type Unmarshaler interface {
	Unmarshal([]byte) error
}

// Configuration is a package configuration singleton.
type Configuration interface {
	ValidMarshaler
	Unmarshaler
}

func configKey(pkg string) []byte {
	return []byte("_c:" + pkg)
}

// Save will Validate the object, before writing it to a special "configuration"
// singleton for that package name.
func Save(db Store, pkg string, src ValidMarshaler) error {
	key := configKey(pkg)
	if err := src.Validate(); err != nil {
		return errors.Wrapf(err, "validation: key %q", key)
	}
	raw, err := src.Marshal()
	if err != nil {
		return errors.Wrapf(err, "marshal: key %q", key)
	}
	return db.Set(key, raw)
}

// Load reads the configuration of given package into dst. ErrNotFound is
// returned if the package was never configured.
func Load(db ReadStore, pkg string, dst Unmarshaler) error {
	key := configKey(pkg)
	raw, err := db.Get(key)
	if err != nil {
		return err
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "key %q", key)
	}
	if err := dst.Unmarshal(raw); err != nil {
		return errors.Wrapf(err, "unmarshal: key %q", key)
	}
	return nil
}

// InitConfig will take opts["conf"][pkg], parse it into the given Configuration object
// validate it, and store under the proper key in the database
// Returns an error if anything goes wrong
func InitConfig(db Store, opts ledger.Options, pkg string, conf Configuration) error {
	var confOptions ledger.Options
	if err := opts.ReadOptions("conf", &confOptions); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, "read conf")
	}
	if confOptions[pkg] == nil {
		return errors.Wrapf(errors.ErrNotFound, "no configuration in genesis for %q package", pkg)
	}
	if err := confOptions.ReadOptions(pkg, conf); err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "read configuration for %s: %s", pkg, err)
	}
	if err := Save(db, pkg, conf); err != nil {
		return errors.Wrapf(err, "save configuration for %s", pkg)
	}
	return nil
}
