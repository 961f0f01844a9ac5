package token

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/coin"
	"github.com/iov-one/ledger/errors"
)

const optKey = "token"

// GenesisMint declares a mint. Its rent is paid by the authority.
type GenesisMint struct {
	Address   ledger.Address `json:"address"`
	Authority ledger.Address `json:"authority"`
	Decimals  uint8          `json:"decimals"`
}

// GenesisBalance funds the associated account of owner for mint. The
// account rent is paid by the owner.
type GenesisBalance struct {
	Owner  ledger.Address `json:"owner"`
	Mint   ledger.Address `json:"mint"`
	Amount coin.Amount    `json:"amount"`
}

// Genesis is the "token" section of the genesis file.
type Genesis struct {
	Mints    []GenesisMint    `json:"mints"`
	Balances []GenesisBalance `json:"balances"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file. It must run after the accounts initializer, which
// funds the rent payers.
type Initializer struct{}

var _ ledger.Initializer = Initializer{}

// FromGenesis creates all mints and funded accounts.
func (Initializer) FromGenesis(opts ledger.Options, kv ledger.KVStore) error {
	var gen Genesis
	if err := opts.ReadOptions(optKey, &gen); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	for i, m := range gen.Mints {
		if _, err := CreateMint(kv, m.Authority, m.Address, m.Authority, m.Decimals); err != nil {
			return errors.Wrapf(err, "mint %d", i)
		}
	}
	for i, b := range gen.Balances {
		addr, err := EnsureAssociatedAccount(kv, b.Owner, b.Owner, b.Mint)
		if err != nil {
			return errors.Wrapf(err, "balance %d", i)
		}
		m, err := GetMint(kv, b.Mint)
		if err != nil {
			return errors.Wrapf(err, "balance %d", i)
		}
		if err := issue(kv, b.Mint, m, addr, b.Amount); err != nil {
			return errors.Wrapf(err, "balance %d", i)
		}
	}
	return nil
}
