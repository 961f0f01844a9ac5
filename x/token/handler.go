package token

import (
	"context"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/x"
)

const (
	createMintCost    int64 = 100
	mintToCost        int64 = 50
	createAccountCost int64 = 100
	transferCost      int64 = 50
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r ledger.Registry, auth x.Authenticator) {
	r.Handle(&CreateMintMsg{}, CreateMintHandler{auth: auth})
	r.Handle(&MintToMsg{}, MintToHandler{auth: auth})
	r.Handle(&CreateAssociatedAccountMsg{}, CreateAssociatedAccountHandler{auth: auth})
	r.Handle(&TransferMsg{}, TransferHandler{auth: auth})
}

// CreateMintHandler allocates new mints.
type CreateMintHandler struct {
	auth x.Authenticator
}

var _ ledger.Handler = CreateMintHandler{}

// Check just verifies it is properly formed and returns
// the cost of executing it.
func (h CreateMintHandler) Check(ctx context.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &ledger.CheckResult{GasAllocated: createMintCost}, nil
}

// Deliver allocates the mint.
func (h CreateMintHandler) Deliver(ctx context.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if _, err := CreateMint(db, msg.Payer, msg.Mint, msg.Authority, msg.Decimals); err != nil {
		return nil, err
	}
	return &ledger.DeliverResult{Data: msg.Mint}, nil
}

func (h CreateMintHandler) validate(ctx context.Context, tx ledger.Tx) (*CreateMintMsg, error) {
	var msg CreateMintMsg
	if err := ledger.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !x.HasAllAddresses(ctx, h.auth, []ledger.Address{msg.Payer, msg.Mint}) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "payer and mint must sign")
	}
	return &msg, nil
}

// MintToHandler issues tokens.
type MintToHandler struct {
	auth x.Authenticator
}

var _ ledger.Handler = MintToHandler{}

// Check just verifies it is properly formed and returns
// the cost of executing it.
func (h MintToHandler) Check(ctx context.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	var msg MintToMsg
	if err := ledger.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	return &ledger.CheckResult{GasAllocated: mintToCost}, nil
}

// Deliver issues tokens if the mint authority signed.
func (h MintToHandler) Deliver(ctx context.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	var msg MintToMsg
	if err := ledger.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := MintTo(ctx, db, SignerAuthority{Auth: h.auth}, msg.Mint, msg.Destination, msg.Amount); err != nil {
		return nil, err
	}
	return &ledger.DeliverResult{}, nil
}

// CreateAssociatedAccountHandler creates associated token accounts.
type CreateAssociatedAccountHandler struct {
	auth x.Authenticator
}

var _ ledger.Handler = CreateAssociatedAccountHandler{}

// Check just verifies it is properly formed and returns
// the cost of executing it.
func (h CreateAssociatedAccountHandler) Check(ctx context.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &ledger.CheckResult{GasAllocated: createAccountCost}, nil
}

// Deliver creates the account and returns its address.
func (h CreateAssociatedAccountHandler) Deliver(ctx context.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	addr, err := InitAssociatedAccount(db, msg.Payer, msg.Owner, msg.Mint)
	if err != nil {
		return nil, err
	}
	return &ledger.DeliverResult{Data: addr}, nil
}

func (h CreateAssociatedAccountHandler) validate(ctx context.Context, tx ledger.Tx) (*CreateAssociatedAccountMsg, error) {
	var msg CreateAssociatedAccountMsg
	if err := ledger.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Payer) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "payer must sign")
	}
	return &msg, nil
}

// TransferHandler moves tokens between accounts.
type TransferHandler struct {
	auth x.Authenticator
}

var _ ledger.Handler = TransferHandler{}

// Check just verifies it is properly formed and returns
// the cost of executing it.
func (h TransferHandler) Check(ctx context.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	var msg TransferMsg
	if err := ledger.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	return &ledger.CheckResult{GasAllocated: transferCost}, nil
}

// Deliver moves the tokens if the source owner signed.
func (h TransferHandler) Deliver(ctx context.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	var msg TransferMsg
	if err := ledger.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := Transfer(ctx, db, SignerAuthority{Auth: h.auth}, msg.Source, msg.Destination, msg.Amount); err != nil {
		return nil, err
	}
	return &ledger.DeliverResult{}, nil
}
