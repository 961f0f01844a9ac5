package accounts

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/coin"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/gconf"
)

const optKey = "accounts"

// GenesisAccount is used to parse the json from genesis file.
type GenesisAccount struct {
	Address  ledger.Address `json:"address"`
	Lamports coin.Amount    `json:"lamports"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ ledger.Initializer = Initializer{}

// FromGenesis stores the rent configuration, if any, and funds the native
// balances listed under "accounts".
func (Initializer) FromGenesis(opts ledger.Options, kv ledger.KVStore) error {
	var conf Configuration
	if err := gconf.InitConfig(kv, opts, packageName, &conf); err != nil && !errors.ErrNotFound.Is(err) {
		return err
	}

	var accts []GenesisAccount
	if err := opts.ReadOptions(optKey, &accts); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	for _, acct := range accts {
		if err := acct.Address.Validate(); err != nil {
			return err
		}
		if err := Credit(kv, acct.Address, acct.Lamports); err != nil {
			return err
		}
	}
	return nil
}
