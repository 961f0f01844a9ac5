package escrow

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/codec"
	"github.com/iov-one/ledger/coin"
	"github.com/iov-one/ledger/errors"
)

const (
	pathInitializeMsg = "escrow/initialize"
	pathExchangeMsg   = "escrow/exchange"
	pathRefundMsg     = "escrow/refund"
)

var _ ledger.Msg = (*InitializeMsg)(nil)
var _ ledger.Msg = (*ExchangeMsg)(nil)
var _ ledger.Msg = (*RefundMsg)(nil)

// InitializeMsg opens an escrow. The maker deposits AmountDeposited of
// MintA from MakerAccountA and asks for AmountExpected of MintB.
type InitializeMsg struct {
	Maker           ledger.Address
	MintA           ledger.Address
	MintB           ledger.Address
	MakerAccountA   ledger.Address
	Escrow          ledger.Address
	Vault           ledger.Address
	Nonce           uint64
	AmountExpected  coin.Amount
	AmountDeposited coin.Amount
}

// Path fulfills ledger.Msg interface to allow routing
func (InitializeMsg) Path() string {
	return pathInitializeMsg
}

// Validate makes sure that this is sensible
func (m *InitializeMsg) Validate() error {
	if err := validateAddresses([]namedAddress{
		{"maker", m.Maker},
		{"mint a", m.MintA},
		{"mint b", m.MintB},
		{"maker account a", m.MakerAccountA},
		{"escrow", m.Escrow},
		{"vault", m.Vault},
	}); err != nil {
		return err
	}
	if m.AmountExpected.IsZero() {
		return errors.Wrap(errors.ErrInvalidAmount, "zero expected amount")
	}
	if m.AmountDeposited.IsZero() {
		return errors.Wrap(errors.ErrInvalidAmount, "zero deposited amount")
	}
	return nil
}

// Marshal encodes the message.
func (m *InitializeMsg) Marshal() ([]byte, error) {
	return codec.NewEncoder().
		Bytes(1, m.Maker).
		Bytes(2, m.MintA).
		Bytes(3, m.MintB).
		Bytes(4, m.MakerAccountA).
		Bytes(5, m.Escrow).
		Bytes(6, m.Vault).
		Uint64(7, m.Nonce).
		Uint64(8, uint64(m.AmountExpected)).
		Uint64(9, uint64(m.AmountDeposited)).
		Result(), nil
}

// Unmarshal decodes the message.
func (m *InitializeMsg) Unmarshal(raw []byte) error {
	*m = InitializeMsg{}
	return codec.Walk(raw, func(f codec.Field) error {
		switch f.Num {
		case 1:
			return readAddress(f, &m.Maker)
		case 2:
			return readAddress(f, &m.MintA)
		case 3:
			return readAddress(f, &m.MintB)
		case 4:
			return readAddress(f, &m.MakerAccountA)
		case 5:
			return readAddress(f, &m.Escrow)
		case 6:
			return readAddress(f, &m.Vault)
		case 7:
			v, err := f.Uint64()
			m.Nonce = v
			return err
		case 8:
			return readAmount(f, &m.AmountExpected)
		case 9:
			return readAmount(f, &m.AmountDeposited)
		}
		return nil
	})
}

// ExchangeMsg fulfills an open escrow. The taker pays the expected amount
// of MintB from TakerAccountB and receives the vault content into
// TakerAccountA.
type ExchangeMsg struct {
	Maker         ledger.Address
	Taker         ledger.Address
	MintA         ledger.Address
	MintB         ledger.Address
	MakerAccountB ledger.Address
	TakerAccountA ledger.Address
	TakerAccountB ledger.Address
	Escrow        ledger.Address
	Vault         ledger.Address
}

// Path fulfills ledger.Msg interface to allow routing
func (ExchangeMsg) Path() string {
	return pathExchangeMsg
}

// Validate makes sure that this is sensible
func (m *ExchangeMsg) Validate() error {
	return validateAddresses([]namedAddress{
		{"maker", m.Maker},
		{"taker", m.Taker},
		{"mint a", m.MintA},
		{"mint b", m.MintB},
		{"maker account b", m.MakerAccountB},
		{"taker account a", m.TakerAccountA},
		{"taker account b", m.TakerAccountB},
		{"escrow", m.Escrow},
		{"vault", m.Vault},
	})
}

// Marshal encodes the message.
func (m *ExchangeMsg) Marshal() ([]byte, error) {
	return codec.NewEncoder().
		Bytes(1, m.Maker).
		Bytes(2, m.Taker).
		Bytes(3, m.MintA).
		Bytes(4, m.MintB).
		Bytes(5, m.MakerAccountB).
		Bytes(6, m.TakerAccountA).
		Bytes(7, m.TakerAccountB).
		Bytes(8, m.Escrow).
		Bytes(9, m.Vault).
		Result(), nil
}

// Unmarshal decodes the message.
func (m *ExchangeMsg) Unmarshal(raw []byte) error {
	*m = ExchangeMsg{}
	fields := []*ledger.Address{
		&m.Maker, &m.Taker, &m.MintA, &m.MintB,
		&m.MakerAccountB, &m.TakerAccountA, &m.TakerAccountB,
		&m.Escrow, &m.Vault,
	}
	return codec.Walk(raw, func(f codec.Field) error {
		if f.Num < 1 || f.Num > len(fields) {
			return nil
		}
		return readAddress(f, fields[f.Num-1])
	})
}

// RefundMsg cancels an open escrow and returns the vault content to the
// maker.
type RefundMsg struct {
	Maker         ledger.Address
	MintA         ledger.Address
	MakerAccountA ledger.Address
	Escrow        ledger.Address
	Vault         ledger.Address
}

// Path fulfills ledger.Msg interface to allow routing
func (RefundMsg) Path() string {
	return pathRefundMsg
}

// Validate makes sure that this is sensible
func (m *RefundMsg) Validate() error {
	return validateAddresses([]namedAddress{
		{"maker", m.Maker},
		{"mint a", m.MintA},
		{"maker account a", m.MakerAccountA},
		{"escrow", m.Escrow},
		{"vault", m.Vault},
	})
}

// Marshal encodes the message.
func (m *RefundMsg) Marshal() ([]byte, error) {
	return codec.NewEncoder().
		Bytes(1, m.Maker).
		Bytes(2, m.MintA).
		Bytes(3, m.MakerAccountA).
		Bytes(4, m.Escrow).
		Bytes(5, m.Vault).
		Result(), nil
}

// Unmarshal decodes the message.
func (m *RefundMsg) Unmarshal(raw []byte) error {
	*m = RefundMsg{}
	fields := []*ledger.Address{
		&m.Maker, &m.MintA, &m.MakerAccountA, &m.Escrow, &m.Vault,
	}
	return codec.Walk(raw, func(f codec.Field) error {
		if f.Num < 1 || f.Num > len(fields) {
			return nil
		}
		return readAddress(f, fields[f.Num-1])
	})
}

type namedAddress struct {
	name string
	addr ledger.Address
}

func validateAddresses(addrs []namedAddress) error {
	for _, a := range addrs {
		if err := a.addr.Validate(); err != nil {
			return errors.Wrap(err, a.name)
		}
	}
	return nil
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
