package token

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/codec"
	"github.com/iov-one/ledger/coin"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/orm"
)

// ProgramID is the identity of the token program. It owns every mint and
// token account.
var ProgramID = ledger.NewProgramID("token")

const (
	// MintSize is the storage paid for a mint.
	MintSize = 82
	// AccountSize is the storage paid for a token account.
	AccountSize = 165
	// MaxDecimals bounds the precision of a mint.
	MaxDecimals = 18
)

// Mint describes an asset.
type Mint struct {
	Authority ledger.Address
	Decimals  uint8
	Supply    coin.Amount
}

var _ orm.Model = (*Mint)(nil)

// Validate checks the mint.
func (m *Mint) Validate() error {
	if err := m.Authority.Validate(); err != nil {
		return errors.Wrap(err, "authority")
	}
	if m.Decimals > MaxDecimals {
		return errors.Wrapf(errors.ErrInvalidModel, "decimals %d", m.Decimals)
	}
	return nil
}

// Marshal encodes the mint.
func (m *Mint) Marshal() ([]byte, error) {
	return codec.NewEncoder().
		Bytes(1, m.Authority).
		Uint32(2, uint32(m.Decimals)).
		Uint64(3, uint64(m.Supply)).
		Result(), nil
}

// Unmarshal decodes the mint.
func (m *Mint) Unmarshal(raw []byte) error {
	*m = Mint{}
	return codec.Walk(raw, func(f codec.Field) error {
		switch f.Num {
		case 1:
			b, err := f.Bytes()
			m.Authority = b
			return err
		case 2:
			v, err := f.Uint32()
			if err == nil && v > 255 {
				err = errors.Wrap(errors.ErrOverflow, "decimals")
			}
			m.Decimals = uint8(v)
			return err
		case 3:
			v, err := f.Uint64()
			m.Supply = coin.Amount(v)
			return err
		}
		return nil
	})
}

// Account is a balance of a single mint.
type Account struct {
	Mint   ledger.Address
	Owner  ledger.Address
	Amount coin.Amount
}

var _ orm.Model = (*Account)(nil)

// Validate checks the account.
func (a *Account) Validate() error {
	if err := a.Mint.Validate(); err != nil {
		return errors.Wrap(err, "mint")
	}
	if err := a.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	return nil
}

// Marshal encodes the account.
func (a *Account) Marshal() ([]byte, error) {
	return codec.NewEncoder().
		Bytes(1, a.Mint).
		Bytes(2, a.Owner).
		Uint64(3, uint64(a.Amount)).
		Result(), nil
}

// Unmarshal decodes the account.
func (a *Account) Unmarshal(raw []byte) error {
	*a = Account{}
	return codec.Walk(raw, func(f codec.Field) error {
		switch f.Num {
		case 1:
			b, err := f.Bytes()
			a.Mint = b
			return err
		case 2:
			b, err := f.Bytes()
			a.Owner = b
			return err
		case 3:
			v, err := f.Uint64()
			a.Amount = coin.Amount(v)
			return err
		}
		return nil
	})
}

var (
	mintBucket    = orm.NewModelBucket("mints", &Mint{})
	accountBucket = orm.NewModelBucket("tokens", &Account{})
)

// RegisterQuery exposes "/mints" and "/tokens".
func RegisterQuery(qr ledger.QueryRouter) {
	mintBucket.Register("", qr)
	accountBucket.Register("", qr)
}
