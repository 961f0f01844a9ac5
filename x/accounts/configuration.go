package accounts

import (
	"github.com/iov-one/ledger/codec"
	"github.com/iov-one/ledger/coin"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/gconf"
)

const packageName = "accounts"

// Configuration holds the rent parameters.
type Configuration struct {
	// LamportsPerByte is charged for every stored byte.
	LamportsPerByte coin.Amount `json:"lamports_per_byte"`
	// AccountOverhead is the number of bytes charged on top of the data
	// size for every account.
	AccountOverhead uint64 `json:"account_overhead"`
}

// DefaultConfiguration is used when the genesis does not configure rent.
var DefaultConfiguration = Configuration{
	LamportsPerByte: 6960,
	AccountOverhead: 128,
}

// Validate checks the rent parameters.
func (c *Configuration) Validate() error {
	if c.LamportsPerByte == 0 {
		return errors.Wrap(errors.ErrInvalidModel, "lamports per byte must be positive")
	}
	return nil
}

// Marshal encodes the configuration.
func (c *Configuration) Marshal() ([]byte, error) {
	return codec.NewEncoder().
		Uint64(1, uint64(c.LamportsPerByte)).
		Uint64(2, c.AccountOverhead).
		Result(), nil
}

// Unmarshal decodes the configuration.
func (c *Configuration) Unmarshal(raw []byte) error {
	*c = Configuration{}
	return codec.Walk(raw, func(f codec.Field) error {
		var err error
		switch f.Num {
		case 1:
			var v uint64
			v, err = f.Uint64()
			c.LamportsPerByte = coin.Amount(v)
		case 2:
			c.AccountOverhead, err = f.Uint64()
		}
		return err
	})
}

// LoadConfiguration returns the stored rent parameters, or the defaults if
// none were stored.
func LoadConfiguration(db gconf.ReadStore) (Configuration, error) {
	var conf Configuration
	err := gconf.Load(db, packageName, &conf)
	switch {
	case err == nil:
		return conf, nil
	case errors.ErrNotFound.Is(err):
		return DefaultConfiguration, nil
	default:
		return Configuration{}, err
	}
}

// RentDeposit returns the deposit required to allocate an account holding
// size bytes.
func (c Configuration) RentDeposit(size uint64) (coin.Amount, error) {
	bytes, err := coin.Amount(size).Add(coin.Amount(c.AccountOverhead))
	if err != nil {
		return 0, err
	}
	return bytes.Mul(c.LamportsPerByte)
}
