package escrow

import (
	"context"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/coin"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/x"
	"github.com/iov-one/ledger/x/accounts"
	"github.com/iov-one/ledger/x/token"
)

const (
	// pay escrow cost up-front
	initializeCost int64 = 300
	exchangeCost   int64 = 100
	refundCost     int64 = 50
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r ledger.Registry, auth x.Authenticator) {
	r.Handle(&InitializeMsg{}, InitializeHandler{auth: auth})
	r.Handle(&ExchangeMsg{}, ExchangeHandler{auth: auth})
	r.Handle(&RefundMsg{}, RefundHandler{auth: auth})
}

// InitializeHandler opens new escrows.
type InitializeHandler struct {
	auth x.Authenticator
}

var _ ledger.Handler = InitializeHandler{}

// Check just verifies it is properly formed and returns
// the cost of executing it.
func (h InitializeHandler) Check(ctx context.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &ledger.CheckResult{GasAllocated: initializeCost}, nil
}

// Deliver allocates the escrow record and its vault and moves the deposit
// into the vault.
//
// The vault may already exist if someone created it up front, in which
// case they paid its rent. Closing the escrow always returns that rent to
// the maker.
func (h InitializeHandler) Deliver(ctx context.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	msg, bump, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	if _, err := accounts.Create(db, msg.Maker, msg.Escrow, ProgramID, EscrowSize); err != nil {
		return nil, errors.Wrap(err, "allocate escrow")
	}
	e := &Escrow{
		Maker:          msg.Maker,
		MintA:          msg.MintA,
		MintB:          msg.MintB,
		Nonce:          msg.Nonce,
		AmountExpected: msg.AmountExpected,
		Bump:           bump,
	}
	if err := escrowBucket.Insert(db, msg.Escrow, e); err != nil {
		return nil, err
	}
	if _, err := token.EnsureAssociatedAccount(db, msg.Maker, msg.Escrow, msg.MintA); err != nil {
		return nil, errors.Wrap(err, "allocate vault")
	}
	maker := token.SignerAuthority{Auth: h.auth}
	if err := token.Transfer(ctx, db, maker, msg.MakerAccountA, msg.Vault, msg.AmountDeposited); err != nil {
		return nil, errors.Wrap(err, "deposit")
	}
	return &ledger.DeliverResult{Data: msg.Escrow, Log: "escrow initialized"}, nil
}

// validate returns the message and the canonical bump of the escrow.
func (h InitializeHandler) validate(ctx context.Context, db ledger.KVStore, tx ledger.Tx) (*InitializeMsg, uint8, error) {
	var msg InitializeMsg
	if err := ledger.LoadMsg(tx, &msg); err != nil {
		return nil, 0, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Maker) {
		return nil, 0, errors.Wrap(errors.ErrUnauthorized, "maker must sign")
	}

	escrow, bump, err := EscrowAddress(msg.Maker, msg.Nonce)
	if err != nil {
		return nil, 0, err
	}
	if !escrow.Equals(msg.Escrow) {
		return nil, 0, errors.Wrapf(errors.ErrInvalidInput, "escrow must be %s", escrow)
	}
	vault, err := VaultAddress(escrow, msg.MintA)
	if err != nil {
		return nil, 0, err
	}
	if !vault.Equals(msg.Vault) {
		return nil, 0, errors.Wrapf(errors.ErrInvalidInput, "vault must be %s", vault)
	}

	switch exists, err := escrowBucket.Has(db, escrow); {
	case err != nil:
		return nil, 0, err
	case exists:
		return nil, 0, errors.Wrapf(errors.ErrDuplicate, "escrow %s already exists", escrow)
	}
	// A vault may have been created up front by anyone, but it must not
	// hold funds that were not deposited by the maker.
	switch acc, err := token.GetAccount(db, vault); {
	case errors.ErrNotFound.Is(err):
	case err != nil:
		return nil, 0, errors.Wrap(err, "vault")
	case !acc.Amount.IsZero():
		return nil, 0, errors.Wrapf(errors.ErrInvalidState, "vault %s is not empty", vault)
	}

	if _, err := token.GetMint(db, msg.MintA); err != nil {
		return nil, 0, errors.Wrap(err, "mint a")
	}
	if _, err := token.GetMint(db, msg.MintB); err != nil {
		return nil, 0, errors.Wrap(err, "mint b")
	}
	if err := requireTokens(db, msg.MakerAccountA, msg.MintA, msg.Maker, msg.AmountDeposited); err != nil {
		return nil, 0, errors.Wrap(err, "maker account a")
	}
	return &msg, bump, nil
}

// ExchangeHandler fulfills open escrows.
type ExchangeHandler struct {
	auth x.Authenticator
}

var _ ledger.Handler = ExchangeHandler{}

// Check just verifies it is properly formed and returns
// the cost of executing it.
func (h ExchangeHandler) Check(ctx context.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &ledger.CheckResult{GasAllocated: exchangeCost}, nil
}

// Deliver pays the maker, releases the vault to the taker and closes the
// escrow.
func (h ExchangeHandler) Deliver(ctx context.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	msg, e, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	// Receiving accounts are created on demand, the taker pays the rent.
	if _, err := token.EnsureAssociatedAccount(db, msg.Taker, msg.Maker, msg.MintB); err != nil {
		return nil, errors.Wrap(err, "maker account b")
	}
	if _, err := token.EnsureAssociatedAccount(db, msg.Taker, msg.Taker, msg.MintA); err != nil {
		return nil, errors.Wrap(err, "taker account a")
	}

	taker := token.SignerAuthority{Auth: h.auth}
	if err := token.Transfer(ctx, db, taker, msg.TakerAccountB, msg.MakerAccountB, e.AmountExpected); err != nil {
		return nil, errors.Wrap(err, "payment")
	}
	if err := release(ctx, db, e, msg.Escrow, msg.Vault, msg.TakerAccountA); err != nil {
		return nil, err
	}
	return &ledger.DeliverResult{Data: msg.Escrow, Log: "escrow exchanged"}, nil
}

func (h ExchangeHandler) validate(ctx context.Context, db ledger.KVStore, tx ledger.Tx) (*ExchangeMsg, *Escrow, error) {
	var msg ExchangeMsg
	if err := ledger.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	e, err := GetEscrow(db, msg.Escrow)
	if err != nil {
		return nil, nil, err
	}
	if !h.auth.HasAddress(ctx, msg.Taker) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "taker must sign")
	}
	if err := verifyEscrow(e, msg.Escrow, msg.Maker, msg.MintA, msg.Vault); err != nil {
		return nil, nil, err
	}
	if !e.MintB.Equals(msg.MintB) {
		return nil, nil, errors.Wrapf(errors.ErrInvalidInput, "mint b must be %s", e.MintB)
	}

	if err := requireAssociated(msg.MakerAccountB, e.Maker, e.MintB); err != nil {
		return nil, nil, errors.Wrap(err, "maker account b")
	}
	if err := requireAssociated(msg.TakerAccountA, msg.Taker, e.MintA); err != nil {
		return nil, nil, errors.Wrap(err, "taker account a")
	}
	if err := requireAssociated(msg.TakerAccountB, msg.Taker, e.MintB); err != nil {
		return nil, nil, errors.Wrap(err, "taker account b")
	}
	if err := requireTokens(db, msg.TakerAccountB, e.MintB, msg.Taker, e.AmountExpected); err != nil {
		return nil, nil, errors.Wrap(err, "taker account b")
	}
	return &msg, e, nil
}

// RefundHandler cancels open escrows.
type RefundHandler struct {
	auth x.Authenticator
}

var _ ledger.Handler = RefundHandler{}

// Check just verifies it is properly formed and returns
// the cost of executing it.
func (h RefundHandler) Check(ctx context.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &ledger.CheckResult{GasAllocated: refundCost}, nil
}

// Deliver returns the vault content to the maker and closes the escrow.
func (h RefundHandler) Deliver(ctx context.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	msg, e, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if _, err := token.EnsureAssociatedAccount(db, msg.Maker, msg.Maker, msg.MintA); err != nil {
		return nil, errors.Wrap(err, "maker account a")
	}
	if err := release(ctx, db, e, msg.Escrow, msg.Vault, msg.MakerAccountA); err != nil {
		return nil, err
	}
	return &ledger.DeliverResult{Data: msg.Escrow, Log: "escrow refunded"}, nil
}

func (h RefundHandler) validate(ctx context.Context, db ledger.KVStore, tx ledger.Tx) (*RefundMsg, *Escrow, error) {
	var msg RefundMsg
	if err := ledger.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	e, err := GetEscrow(db, msg.Escrow)
	if err != nil {
		return nil, nil, err
	}
	if !e.Maker.Equals(msg.Maker) || !h.auth.HasAddress(ctx, e.Maker) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "only the maker can refund")
	}
	if err := verifyEscrow(e, msg.Escrow, msg.Maker, msg.MintA, msg.Vault); err != nil {
		return nil, nil, err
	}
	if err := requireAssociated(msg.MakerAccountA, e.Maker, e.MintA); err != nil {
		return nil, nil, errors.Wrap(err, "maker account a")
	}
	return &msg, e, nil
}

// verifyEscrow checks the accounts every terminal instruction shares
// against the stored record.
func verifyEscrow(e *Escrow, escrow, maker, mintA, vault ledger.Address) error {
	if err := VerifyEscrowAddress(e, escrow); err != nil {
		return err
	}
	if !e.Maker.Equals(maker) {
		return errors.Wrapf(errors.ErrInvalidInput, "maker must be %s", e.Maker)
	}
	if !e.MintA.Equals(mintA) {
		return errors.Wrapf(errors.ErrInvalidInput, "mint a must be %s", e.MintA)
	}
	want, err := VaultAddress(escrow, e.MintA)
	if err != nil {
		return err
	}
	if !want.Equals(vault) {
		return errors.Wrapf(errors.ErrInvalidInput, "vault must be %s", want)
	}
	return nil
}

// release moves the whole vault balance to dest under the escrow authority,
// then closes the vault and the record. Both rent deposits go to the maker.
func release(ctx context.Context, db ledger.KVStore, e *Escrow, escrow, vault, dest ledger.Address) error {
	signer := escrowSigner(e)
	amount, err := token.Balance(db, vault)
	if err != nil {
		return errors.Wrap(err, "vault")
	}
	if err := token.Transfer(ctx, db, signer, vault, dest, amount); err != nil {
		return errors.Wrap(err, "release vault")
	}
	if err := token.CloseAccount(ctx, db, signer, vault, e.Maker); err != nil {
		return errors.Wrap(err, "close vault")
	}
	if err := escrowBucket.Delete(db, escrow); err != nil {
		return err
	}
	if _, err := accounts.Close(db, ProgramID, escrow, e.Maker); err != nil {
		return errors.Wrap(err, "close escrow")
	}
	return nil
}

func requireAssociated(addr, owner, mint ledger.Address) error {
	want, _, err := token.AssociatedAddress(owner, mint)
	if err != nil {
		return err
	}
	if !want.Equals(addr) {
		return errors.Wrapf(errors.ErrInvalidInput, "must be %s", want)
	}
	return nil
}

// requireTokens checks that addr is a token account of mint owned by owner
// holding at least amount.
func requireTokens(db ledger.ReadOnlyKVStore, addr, mint, owner ledger.Address, amount coin.Amount) error {
	acc, err := token.GetAccount(db, addr)
	switch {
	case errors.ErrNotFound.Is(err):
		return errors.Wrapf(errors.ErrInsufficientAmount, "no token account %s", addr)
	case err != nil:
		return err
	}
	if !acc.Mint.Equals(mint) {
		return errors.Wrapf(errors.ErrInvalidInput, "holds %s, not %s", acc.Mint, mint)
	}
	if !acc.Owner.Equals(owner) {
		return errors.Wrapf(errors.ErrInvalidInput, "owned by %s, not %s", acc.Owner, owner)
	}
	if acc.Amount < amount {
		return errors.Wrapf(errors.ErrInsufficientAmount, "balance %d, need %d", acc.Amount, amount)
	}
	return nil
}
