package escrow

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/codec"
	"github.com/iov-one/ledger/coin"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/orm"
)

// EscrowSize is the storage paid by the maker for an escrow record: a
// discriminator, three addresses, nonce, expected amount and bump.
const EscrowSize = 8 + 3*ledger.AddressLength + 8 + 8 + 1

// Escrow is an open offer. The deposited amount is not stored, the vault
// balance is the only source of truth for it.
type Escrow struct {
	Maker          ledger.Address
	MintA          ledger.Address
	MintB          ledger.Address
	Nonce          uint64
	AmountExpected coin.Amount
	Bump           uint8
}

var _ orm.Model = (*Escrow)(nil)

// Validate ensures the escrow is valid
func (e *Escrow) Validate() error {
	if err := e.Maker.Validate(); err != nil {
		return errors.Wrap(err, "maker")
	}
	if err := e.MintA.Validate(); err != nil {
		return errors.Wrap(err, "mint a")
	}
	if err := e.MintB.Validate(); err != nil {
		return errors.Wrap(err, "mint b")
	}
	if e.AmountExpected.IsZero() {
		return errors.Wrap(errors.ErrInvalidModel, "zero expected amount")
	}
	return nil
}

// Marshal encodes the escrow.
func (e *Escrow) Marshal() ([]byte, error) {
	return codec.NewEncoder().
		Bytes(1, e.Maker).
		Bytes(2, e.MintA).
		Bytes(3, e.MintB).
		Uint64(4, e.Nonce).
		Uint64(5, uint64(e.AmountExpected)).
		Uint32(6, uint32(e.Bump)).
		Result(), nil
}

// Unmarshal decodes the escrow.
func (e *Escrow) Unmarshal(raw []byte) error {
	*e = Escrow{}
	return codec.Walk(raw, func(f codec.Field) error {
		var err error
		switch f.Num {
		case 1:
			e.Maker, err = f.Bytes()
		case 2:
			e.MintA, err = f.Bytes()
		case 3:
			e.MintB, err = f.Bytes()
		case 4:
			e.Nonce, err = f.Uint64()
		case 5:
			var v uint64
			v, err = f.Uint64()
			e.AmountExpected = coin.Amount(v)
		case 6:
			var v uint32
			v, err = f.Uint32()
			if err == nil && v > 255 {
				err = errors.Wrap(errors.ErrOverflow, "bump")
			}
			e.Bump = uint8(v)
		}
		return err
	})
}

var escrowBucket = orm.NewModelBucket("escrow", &Escrow{})

// RegisterQuery will register this bucket as "/escrows"
func RegisterQuery(qr ledger.QueryRouter) {
	escrowBucket.Register("escrows", qr)
}

// GetEscrow loads the escrow stored at addr. ErrNotFound is returned for
// escrows never created or already closed.
func GetEscrow(db ledger.ReadOnlyKVStore, addr ledger.Address) (*Escrow, error) {
	var e Escrow
	if err := escrowBucket.One(db, addr, &e); err != nil {
		return nil, errors.Wrapf(err, "escrow %s", addr)
	}
	return &e, nil
}
