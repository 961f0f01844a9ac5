package sigs

import (
	"context"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/ledgertest"
)

// StdTx is a minimal signed transaction used in tests.
type StdTx struct {
	ledgertest.Tx
	Signatures []*StdSignature
}

var _ SignedTx = (*StdTx)(nil)

func NewStdTx(payload []byte) *StdTx {
	return &StdTx{Tx: ledgertest.Tx{Msg: &ledgertest.Msg{Serialized: payload}}}
}

func (tx *StdTx) GetSignBytes() ([]byte, error) {
	return tx.Tx.Marshal()
}

func (tx *StdTx) GetSignatures() []*StdSignature {
	return tx.Signatures
}

// SigCheckHandler stores the seen signers on each call
type SigCheckHandler struct {
	Signers []ledger.Address
}

var _ ledger.Handler = (*SigCheckHandler)(nil)

func (s *SigCheckHandler) Check(ctx context.Context, store ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	s.Signers = Authenticate{}.GetAddresses(ctx)
	return &ledger.CheckResult{}, nil
}

func (s *SigCheckHandler) Deliver(ctx context.Context, store ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	s.Signers = Authenticate{}.GetAddresses(ctx)
	return &ledger.DeliverResult{}, nil
}
