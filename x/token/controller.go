package token

import (
	"context"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/coin"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/x/accounts"
)

// AssociatedAddress returns the address of the token account holding mint
// for owner, together with its bump.
func AssociatedAddress(owner, mint ledger.Address) (ledger.Address, uint8, error) {
	if err := owner.Validate(); err != nil {
		return nil, 0, errors.Wrap(err, "owner")
	}
	if err := mint.Validate(); err != nil {
		return nil, 0, errors.Wrap(err, "mint")
	}
	return ledger.FindProgramAddress(ProgramID, owner, mint)
}

// CreateMint allocates a new mint at addr. The rent is charged from payer.
func CreateMint(db ledger.KVStore, payer, addr, authority ledger.Address, decimals uint8) (*Mint, error) {
	m := &Mint{Authority: authority.Clone(), Decimals: decimals}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if _, err := accounts.Create(db, payer, addr, ProgramID, MintSize); err != nil {
		return nil, errors.Wrap(err, "allocate mint")
	}
	if err := mintBucket.Insert(db, addr, m); err != nil {
		return nil, err
	}
	return m, nil
}

// GetMint loads a mint or returns ErrNotFound.
func GetMint(db ledger.ReadOnlyKVStore, addr ledger.Address) (*Mint, error) {
	var m Mint
	if err := mintBucket.One(db, addr, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// MintTo issues amount new tokens into the account at to. The authority
// must speak for the mint authority.
func MintTo(ctx context.Context, db ledger.KVStore, auth Authority, mint, to ledger.Address, amount coin.Amount) error {
	m, err := GetMint(db, mint)
	if err != nil {
		return errors.Wrap(err, "mint")
	}
	if err := auth.Authorize(ctx, m.Authority); err != nil {
		return errors.Wrap(err, "mint authority")
	}
	return issue(db, mint, m, to, amount)
}

func issue(db ledger.KVStore, mint ledger.Address, m *Mint, to ledger.Address, amount coin.Amount) error {
	acc, err := GetAccount(db, to)
	if err != nil {
		return errors.Wrap(err, "destination")
	}
	if !acc.Mint.Equals(mint) {
		return errors.Wrapf(errors.ErrInvalidInput, "account %s does not hold mint %s", to, mint)
	}
	if m.Supply, err = m.Supply.Add(amount); err != nil {
		return errors.Wrap(err, "supply")
	}
	if acc.Amount, err = acc.Amount.Add(amount); err != nil {
		return errors.Wrap(err, "balance")
	}
	if err := mintBucket.Put(db, mint, m); err != nil {
		return err
	}
	return accountBucket.Put(db, to, acc)
}

// InitAccount allocates a token account for mint at addr, owned by owner.
// The rent is charged from payer. ErrDuplicate is returned if the address
// is already in use.
func InitAccount(db ledger.KVStore, payer, addr, mint, owner ledger.Address) (*Account, error) {
	if _, err := GetMint(db, mint); err != nil {
		return nil, errors.Wrap(err, "mint")
	}
	acc := &Account{Mint: mint.Clone(), Owner: owner.Clone()}
	if err := acc.Validate(); err != nil {
		return nil, err
	}
	if _, err := accounts.Create(db, payer, addr, ProgramID, AccountSize); err != nil {
		return nil, errors.Wrap(err, "allocate token account")
	}
	if err := accountBucket.Insert(db, addr, acc); err != nil {
		return nil, err
	}
	return acc, nil
}

// InitAssociatedAccount creates the associated token account of owner for
// mint and returns its address.
func InitAssociatedAccount(db ledger.KVStore, payer, owner, mint ledger.Address) (ledger.Address, error) {
	addr, _, err := AssociatedAddress(owner, mint)
	if err != nil {
		return nil, err
	}
	if _, err := InitAccount(db, payer, addr, mint, owner); err != nil {
		return nil, err
	}
	return addr, nil
}

// EnsureAssociatedAccount returns the associated token account of owner for
// mint, creating it first if it does not exist yet. An existing account at
// that address must hold mint and belong to owner.
func EnsureAssociatedAccount(db ledger.KVStore, payer, owner, mint ledger.Address) (ledger.Address, error) {
	addr, _, err := AssociatedAddress(owner, mint)
	if err != nil {
		return nil, err
	}
	acc, err := GetAccount(db, addr)
	switch {
	case err == nil:
		if !acc.Mint.Equals(mint) || !acc.Owner.Equals(owner) {
			return nil, errors.Wrapf(errors.ErrInvalidState, "account %s is not the associated account", addr)
		}
		return addr, nil
	case errors.ErrNotFound.Is(err):
		if _, err := InitAccount(db, payer, addr, mint, owner); err != nil {
			return nil, err
		}
		return addr, nil
	default:
		return nil, err
	}
}

// GetAccount loads a token account or returns ErrNotFound.
func GetAccount(db ledger.ReadOnlyKVStore, addr ledger.Address) (*Account, error) {
	var acc Account
	if err := accountBucket.One(db, addr, &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

// Balance returns the amount held by a token account.
func Balance(db ledger.ReadOnlyKVStore, addr ledger.Address) (coin.Amount, error) {
	acc, err := GetAccount(db, addr)
	if err != nil {
		return 0, err
	}
	return acc.Amount, nil
}

// Transfer moves amount between two token accounts of the same mint. The
// authority must speak for the owner of the source account.
func Transfer(ctx context.Context, db ledger.KVStore, auth Authority, from, to ledger.Address, amount coin.Amount) error {
	src, err := GetAccount(db, from)
	if err != nil {
		return errors.Wrap(err, "source")
	}
	dst, err := GetAccount(db, to)
	if err != nil {
		return errors.Wrap(err, "destination")
	}
	if !src.Mint.Equals(dst.Mint) {
		return errors.Wrapf(errors.ErrInvalidInput, "mint mismatch: %s != %s", src.Mint, dst.Mint)
	}
	if err := auth.Authorize(ctx, src.Owner); err != nil {
		return errors.Wrap(err, "source owner")
	}

	if src.Amount, err = src.Amount.Sub(amount); err != nil {
		return errors.Wrapf(err, "source %s", from)
	}
	if from.Equals(to) {
		// balance check above still applies, nothing moves
		return nil
	}
	if dst.Amount, err = dst.Amount.Add(amount); err != nil {
		return errors.Wrapf(err, "destination %s", to)
	}
	if err := accountBucket.Put(db, from, src); err != nil {
		return err
	}
	return accountBucket.Put(db, to, dst)
}

// CloseAccount removes an empty token account and returns its rent deposit
// to refundTo. The authority must speak for the account owner.
func CloseAccount(ctx context.Context, db ledger.KVStore, auth Authority, addr, refundTo ledger.Address) error {
	acc, err := GetAccount(db, addr)
	if err != nil {
		return err
	}
	if err := auth.Authorize(ctx, acc.Owner); err != nil {
		return errors.Wrap(err, "account owner")
	}
	if !acc.Amount.IsZero() {
		return errors.Wrapf(errors.ErrInvalidState, "account %s still holds %d", addr, acc.Amount)
	}
	if err := accountBucket.Delete(db, addr); err != nil {
		return err
	}
	if _, err := accounts.Close(db, ProgramID, addr, refundTo); err != nil {
		return errors.Wrap(err, "release token account")
	}
	return nil
}
