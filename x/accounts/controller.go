package accounts

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/coin"
	"github.com/iov-one/ledger/errors"
)

// Create allocates an account of given size at addr, owned by the owner
// program. The rent deposit is charged from payer. It fails with
// ErrDuplicate if the account already exists.
func Create(db ledger.KVStore, payer, addr, owner ledger.Address, size uint64) (*Metadata, error) {
	if err := addr.Validate(); err != nil {
		return nil, errors.Wrap(err, "account")
	}
	exists, err := Exists(db, addr)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.Wrapf(errors.ErrDuplicate, "account %s already in use", addr)
	}

	conf, err := LoadConfiguration(db)
	if err != nil {
		return nil, errors.Wrap(err, "rent configuration")
	}
	deposit, err := conf.RentDeposit(size)
	if err != nil {
		return nil, err
	}
	if err := Debit(db, payer, deposit); err != nil {
		return nil, errors.Wrapf(err, "rent of %s for %d bytes", deposit.Format(0), size)
	}

	meta := &Metadata{
		Owner:   owner.Clone(),
		Size:    size,
		Deposit: deposit,
	}
	if err := metadataBucket.Insert(db, addr, meta); err != nil {
		return nil, err
	}
	return meta, nil
}

// Close deletes the account and credits its deposit to refundTo. Only the
// owning program may close an account.
func Close(db ledger.KVStore, owner, addr, refundTo ledger.Address) (coin.Amount, error) {
	meta, err := Info(db, addr)
	if err != nil {
		return 0, err
	}
	if !meta.Owner.Equals(owner) {
		return 0, errors.Wrapf(errors.ErrUnauthorized, "account %s is not owned by %s", addr, owner)
	}
	if err := metadataBucket.Delete(db, addr); err != nil {
		return 0, err
	}
	if err := Credit(db, refundTo, meta.Deposit); err != nil {
		return 0, err
	}
	return meta.Deposit, nil
}

// Info returns the metadata of an allocated account, or ErrNotFound.
func Info(db ledger.ReadOnlyKVStore, addr ledger.Address) (*Metadata, error) {
	var meta Metadata
	if err := metadataBucket.One(db, addr, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// Exists returns true if an account is allocated at addr.
func Exists(db ledger.ReadOnlyKVStore, addr ledger.Address) (bool, error) {
	return metadataBucket.Has(db, addr)
}

// Balance returns the native balance of addr. Unknown addresses hold zero.
func Balance(db ledger.ReadOnlyKVStore, addr ledger.Address) (coin.Amount, error) {
	var l Lamports
	err := balanceBucket.One(db, addr, &l)
	switch {
	case err == nil:
		return l.Amount, nil
	case errors.ErrNotFound.Is(err):
		return 0, nil
	default:
		return 0, err
	}
}

// Credit adds amount to the native balance of addr.
func Credit(db ledger.KVStore, addr ledger.Address, amount coin.Amount) error {
	if err := addr.Validate(); err != nil {
		return err
	}
	bal, err := Balance(db, addr)
	if err != nil {
		return err
	}
	bal, err = bal.Add(amount)
	if err != nil {
		return err
	}
	return setBalance(db, addr, bal)
}

// Debit removes amount from the native balance of addr, failing with
// ErrInsufficientAmount if the balance is too low.
func Debit(db ledger.KVStore, addr ledger.Address, amount coin.Amount) error {
	bal, err := Balance(db, addr)
	if err != nil {
		return err
	}
	bal, err = bal.Sub(amount)
	if err != nil {
		return errors.Wrapf(err, "payer %s", addr)
	}
	return setBalance(db, addr, bal)
}

func setBalance(db ledger.KVStore, addr ledger.Address, bal coin.Amount) error {
	if bal.IsZero() {
		ok, err := balanceBucket.Has(db, addr)
		if err != nil || !ok {
			return err
		}
		return balanceBucket.Delete(db, addr)
	}
	return balanceBucket.Put(db, addr, &Lamports{Amount: bal})
}
