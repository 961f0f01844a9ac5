/*
Package sigs provides basic authentication
middleware to verify the signatures on the transaction,
and maintain nonces for replay protection.
*/
package sigs

import (
	"context"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

const (
	signatureVerifyCost = 500
)

// RegisterQuery will register this bucket as "/auth"
func RegisterQuery(qr ledger.QueryRouter) {
	NewBucket().Register("auth", qr)
}

// Decorator verifies the signatures and adds them to the context
type Decorator struct {
	allowMissingSigs bool
}

var _ ledger.Decorator = Decorator{}

// NewDecorator returns a default authentication decorator,
// which appends the chainID before checking the signature,
// and requires at least one signature to be present
func NewDecorator() Decorator {
	return Decorator{
		allowMissingSigs: false,
	}
}

// AllowMissingSigs allows us to pass along items with no signatures
func (d Decorator) AllowMissingSigs() Decorator {
	d.allowMissingSigs = true
	return d
}

func (d Decorator) verify(ctx context.Context, store ledger.KVStore, tx ledger.Tx) (context.Context, int, error) {
	stx, ok := tx.(SignedTx)
	if !ok {
		return ctx, 0, nil
	}
	signers, err := VerifyTxSignatures(store, stx, ledger.GetChainID(ctx))
	if err != nil {
		return nil, 0, errors.Wrap(err, "cannot verify signatures")
	}
	if len(signers) == 0 && !d.allowMissingSigs {
		return nil, 0, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return withSigners(ctx, signers), len(signers), nil
}

// Check verifies signatures before calling down the stack.
func (d Decorator) Check(ctx context.Context, store ledger.KVStore, tx ledger.Tx, next ledger.Checker) (*ledger.CheckResult, error) {
	ctx, n, err := d.verify(ctx, store, tx)
	if err != nil {
		return nil, err
	}
	res, err := next.Check(ctx, store, tx)
	if err != nil {
		return nil, err
	}
	// The most expensive operation is the signature validation.
	res.GasAllocated += int64(n * signatureVerifyCost)
	return res, nil
}

// Deliver verifies signatures before calling down the stack.
func (d Decorator) Deliver(ctx context.Context, store ledger.KVStore, tx ledger.Tx, next ledger.Deliverer) (*ledger.DeliverResult, error) {
	ctx, _, err := d.verify(ctx, store, tx)
	if err != nil {
		return nil, err
	}
	return next.Deliver(ctx, store, tx)
}
