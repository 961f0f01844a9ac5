package accounts

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/codec"
	"github.com/iov-one/ledger/coin"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/orm"
)

const (
	metadataBucketName = "accounts"
	balanceBucketName  = "lamports"
)

// Metadata describes an allocated account.
type Metadata struct {
	// Owner is the program allowed to modify and close the account.
	Owner ledger.Address
	// Size is the number of bytes paid for.
	Size uint64
	// Deposit is the rent held by the account, returned on close.
	Deposit coin.Amount
}

var _ orm.Model = (*Metadata)(nil)

// Validate ensures the metadata is consistent.
func (m *Metadata) Validate() error {
	if err := m.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	return nil
}

// Marshal encodes the metadata.
func (m *Metadata) Marshal() ([]byte, error) {
	return codec.NewEncoder().
		Bytes(1, m.Owner).
		Uint64(2, m.Size).
		Uint64(3, uint64(m.Deposit)).
		Result(), nil
}

// Unmarshal decodes the metadata.
func (m *Metadata) Unmarshal(raw []byte) error {
	*m = Metadata{}
	return codec.Walk(raw, func(f codec.Field) error {
		var err error
		switch f.Num {
		case 1:
			var b []byte
			b, err = f.Bytes()
			m.Owner = b
		case 2:
			m.Size, err = f.Uint64()
		case 3:
			var v uint64
			v, err = f.Uint64()
			m.Deposit = coin.Amount(v)
		}
		return err
	})
}

// Lamports is the native balance of an address.
type Lamports struct {
	Amount coin.Amount
}

var _ orm.Model = (*Lamports)(nil)

// Validate always passes, a zero balance is stored as a missing entry.
func (l *Lamports) Validate() error {
	return nil
}

// Marshal encodes the balance.
func (l *Lamports) Marshal() ([]byte, error) {
	return codec.NewEncoder().Uint64(1, uint64(l.Amount)).Result(), nil
}

// Unmarshal decodes the balance.
func (l *Lamports) Unmarshal(raw []byte) error {
	*l = Lamports{}
	return codec.Walk(raw, func(f codec.Field) error {
		if f.Num != 1 {
			return nil
		}
		v, err := f.Uint64()
		l.Amount = coin.Amount(v)
		return err
	})
}

var (
	metadataBucket = orm.NewModelBucket(metadataBucketName, &Metadata{})
	balanceBucket  = orm.NewModelBucket(balanceBucketName, &Lamports{})
)

// RegisterQuery exposes "/accounts" and "/lamports".
func RegisterQuery(qr ledger.QueryRouter) {
	metadataBucket.Register("", qr)
	balanceBucket.Register("", qr)
}
