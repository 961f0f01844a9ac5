package app

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/codec"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/x/escrow"
	"github.com/iov-one/ledger/x/sigs"
	"github.com/iov-one/ledger/x/token"
)

// Field numbers of the message sum. Exactly one is set on the wire.
const (
	fieldInitialize = 1
	fieldExchange   = 2
	fieldRefund     = 3

	fieldCreateMint              = 10
	fieldMintTo                  = 11
	fieldCreateAssociatedAccount = 12
	fieldTransfer                = 13

	fieldSignatures = 20
)

// StdTx is the transaction this ledger accepts: a single instruction
// together with the signatures of everyone it requires.
type StdTx struct {
	Msg        ledger.Msg
	Signatures []*sigs.StdSignature
}

var _ ledger.Tx = (*StdTx)(nil)
var _ sigs.SignedTx = (*StdTx)(nil)

// GetMsg returns the single msg.
func (tx *StdTx) GetMsg() (ledger.Msg, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "transaction has no message")
	}
	return tx.Msg, nil
}

// GetSignatures returns the signatures on this tx.
func (tx *StdTx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the encoded transaction without its signatures.
func (tx *StdTx) GetSignBytes() ([]byte, error) {
	return (&StdTx{Msg: tx.Msg}).Marshal()
}

// Marshal encodes the message in its sum field followed by all
// signatures.
func (tx *StdTx) Marshal() ([]byte, error) {
	num, err := msgField(tx.Msg)
	if err != nil {
		return nil, err
	}
	enc := codec.NewEncoder()
	if err := enc.Message(num, tx.Msg); err != nil {
		return nil, err
	}
	for _, sig := range tx.Signatures {
		if err := enc.Message(fieldSignatures, sig); err != nil {
			return nil, err
		}
	}
	return enc.Result(), nil
}

// Unmarshal decodes a transaction. More than one message is rejected.
func (tx *StdTx) Unmarshal(raw []byte) error {
	*tx = StdTx{}
	return codec.Walk(raw, func(f codec.Field) error {
		b, err := f.Bytes()
		if err != nil {
			return err
		}
		if f.Num == fieldSignatures {
			var sig sigs.StdSignature
			if err := sig.Unmarshal(b); err != nil {
				return errors.Wrap(err, "signature")
			}
			tx.Signatures = append(tx.Signatures, &sig)
			return nil
		}
		msg := newMsg(f.Num)
		if msg == nil {
			return errors.Wrapf(errors.ErrInvalidType, "unknown message field %d", f.Num)
		}
		if tx.Msg != nil {
			return errors.Wrap(errors.ErrInvalidInput, "more than one message")
		}
		if err := msg.Unmarshal(b); err != nil {
			return errors.Wrap(err, msg.Path())
		}
		tx.Msg = msg
		return nil
	})
}

// Decode is the ledger.TxDecoder of StdTx.
func Decode(raw []byte) (ledger.Tx, error) {
	var tx StdTx
	if err := tx.Unmarshal(raw); err != nil {
		return nil, err
	}
	return &tx, nil
}

func msgField(msg ledger.Msg) (int, error) {
	switch msg.(type) {
	case *escrow.InitializeMsg:
		return fieldInitialize, nil
	case *escrow.ExchangeMsg:
		return fieldExchange, nil
	case *escrow.RefundMsg:
		return fieldRefund, nil
	case *token.CreateMintMsg:
		return fieldCreateMint, nil
	case *token.MintToMsg:
		return fieldMintTo, nil
	case *token.CreateAssociatedAccountMsg:
		return fieldCreateAssociatedAccount, nil
	case *token.TransferMsg:
		return fieldTransfer, nil
	case nil:
		return 0, errors.Wrap(errors.ErrEmpty, "transaction has no message")
	}
	return 0, errors.Wrapf(errors.ErrInvalidType, "%T", msg)
}

func newMsg(field int) ledger.Msg {
	switch field {
	case fieldInitialize:
		return &escrow.InitializeMsg{}
	case fieldExchange:
		return &escrow.ExchangeMsg{}
	case fieldRefund:
		return &escrow.RefundMsg{}
	case fieldCreateMint:
		return &token.CreateMintMsg{}
	case fieldMintTo:
		return &token.MintToMsg{}
	case fieldCreateAssociatedAccount:
		return &token.CreateAssociatedAccountMsg{}
	case fieldTransfer:
		return &token.TransferMsg{}
	}
	return nil
}
