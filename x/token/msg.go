package token

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/codec"
	"github.com/iov-one/ledger/coin"
	"github.com/iov-one/ledger/errors"
)

const (
	pathCreateMintMsg              = "token/create_mint"
	pathMintToMsg                  = "token/mint_to"
	pathCreateAssociatedAccountMsg = "token/create_associated_account"
	pathTransferMsg                = "token/transfer"
)

var _ ledger.Msg = (*CreateMintMsg)(nil)
var _ ledger.Msg = (*MintToMsg)(nil)
var _ ledger.Msg = (*CreateAssociatedAccountMsg)(nil)
var _ ledger.Msg = (*TransferMsg)(nil)

// CreateMintMsg allocates a new mint. Both the payer and the mint address
// must sign.
type CreateMintMsg struct {
	Payer     ledger.Address
	Mint      ledger.Address
	Authority ledger.Address
	Decimals  uint8
}

// Path fulfills ledger.Msg interface to allow routing
func (CreateMintMsg) Path() string {
	return pathCreateMintMsg
}

// Validate makes sure that this is sensible
func (m *CreateMintMsg) Validate() error {
	if err := m.Payer.Validate(); err != nil {
		return errors.Wrap(err, "payer")
	}
	if err := m.Mint.Validate(); err != nil {
		return errors.Wrap(err, "mint")
	}
	if err := m.Authority.Validate(); err != nil {
		return errors.Wrap(err, "authority")
	}
	if m.Decimals > MaxDecimals {
		return errors.Wrapf(errors.ErrInvalidMsg, "decimals %d", m.Decimals)
	}
	return nil
}

// Marshal encodes the message.
func (m *CreateMintMsg) Marshal() ([]byte, error) {
	return codec.NewEncoder().
		Bytes(1, m.Payer).
		Bytes(2, m.Mint).
		Bytes(3, m.Authority).
		Uint32(4, uint32(m.Decimals)).
		Result(), nil
}

// Unmarshal decodes the message.
func (m *CreateMintMsg) Unmarshal(raw []byte) error {
	*m = CreateMintMsg{}
	return codec.Walk(raw, func(f codec.Field) error {
		switch f.Num {
		case 1:
			return readAddress(f, &m.Payer)
		case 2:
			return readAddress(f, &m.Mint)
		case 3:
			return readAddress(f, &m.Authority)
		case 4:
			v, err := f.Uint32()
			if err == nil && v > 255 {
				err = errors.Wrap(errors.ErrOverflow, "decimals")
			}
			m.Decimals = uint8(v)
			return err
		}
		return nil
	})
}

// MintToMsg issues new tokens. The mint authority must sign.
type MintToMsg struct {
	Mint        ledger.Address
	Destination ledger.Address
	Amount      coin.Amount
}

// Path fulfills ledger.Msg interface to allow routing
func (MintToMsg) Path() string {
	return pathMintToMsg
}

// Validate makes sure that this is sensible
func (m *MintToMsg) Validate() error {
	if err := m.Mint.Validate(); err != nil {
		return errors.Wrap(err, "mint")
	}
	if err := m.Destination.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	if m.Amount.IsZero() {
		return errors.Wrap(errors.ErrInvalidAmount, "zero amount")
	}
	return nil
}

// Marshal encodes the message.
func (m *MintToMsg) Marshal() ([]byte, error) {
	return codec.NewEncoder().
		Bytes(1, m.Mint).
		Bytes(2, m.Destination).
		Uint64(3, uint64(m.Amount)).
		Result(), nil
}

// Unmarshal decodes the message.
func (m *MintToMsg) Unmarshal(raw []byte) error {
	*m = MintToMsg{}
	return codec.Walk(raw, func(f codec.Field) error {
		switch f.Num {
		case 1:
			return readAddress(f, &m.Mint)
		case 2:
			return readAddress(f, &m.Destination)
		case 3:
			return readAmount(f, &m.Amount)
		}
		return nil
	})
}

// CreateAssociatedAccountMsg creates the associated token account of owner
// for mint. The payer must sign, the owner does not have to.
type CreateAssociatedAccountMsg struct {
	Payer ledger.Address
	Owner ledger.Address
	Mint  ledger.Address
}

// Path fulfills ledger.Msg interface to allow routing
func (CreateAssociatedAccountMsg) Path() string {
	return pathCreateAssociatedAccountMsg
}

// Validate makes sure that this is sensible
func (m *CreateAssociatedAccountMsg) Validate() error {
	if err := m.Payer.Validate(); err != nil {
		return errors.Wrap(err, "payer")
	}
	if err := m.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if err := m.Mint.Validate(); err != nil {
		return errors.Wrap(err, "mint")
	}
	return nil
}

// Marshal encodes the message.
func (m *CreateAssociatedAccountMsg) Marshal() ([]byte, error) {
	return codec.NewEncoder().
		Bytes(1, m.Payer).
		Bytes(2, m.Owner).
		Bytes(3, m.Mint).
		Result(), nil
}

// Unmarshal decodes the message.
func (m *CreateAssociatedAccountMsg) Unmarshal(raw []byte) error {
	*m = CreateAssociatedAccountMsg{}
	return codec.Walk(raw, func(f codec.Field) error {
		switch f.Num {
		case 1:
			return readAddress(f, &m.Payer)
		case 2:
			return readAddress(f, &m.Owner)
		case 3:
			return readAddress(f, &m.Mint)
		}
		return nil
	})
}

// TransferMsg moves tokens between two accounts of the same mint. The owner
// of the source account must sign.
type TransferMsg struct {
	Source      ledger.Address
	Destination ledger.Address
	Amount      coin.Amount
}

// Path fulfills ledger.Msg interface to allow routing
func (TransferMsg) Path() string {
	return pathTransferMsg
}

// Validate makes sure that this is sensible
func (m *TransferMsg) Validate() error {
	if err := m.Source.Validate(); err != nil {
		return errors.Wrap(err, "source")
	}
	if err := m.Destination.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	if m.Amount.IsZero() {
		return errors.Wrap(errors.ErrInvalidAmount, "zero amount")
	}
	return nil
}

// Marshal encodes the message.
func (m *TransferMsg) Marshal() ([]byte, error) {
	return codec.NewEncoder().
		Bytes(1, m.Source).
		Bytes(2, m.Destination).
		Uint64(3, uint64(m.Amount)).
		Result(), nil
}

// Unmarshal decodes the message.
func (m *TransferMsg) Unmarshal(raw []byte) error {
	*m = TransferMsg{}
	return codec.Walk(raw, func(f codec.Field) error {
		switch f.Num {
		case 1:
			return readAddress(f, &m.Source)
		case 2:
			return readAddress(f, &m.Destination)
		case 3:
			return readAmount(f, &m.Amount)
		}
		return nil
	})
}

func readAddress(f codec.Field, dst *ledger.Address) error {
	b, err := f.Bytes()
	*dst = b
	return err
}

func readAmount(f codec.Field, dst *coin.Amount) error {
	v, err := f.Uint64()
	*dst = coin.Amount(v)
	return err
}
