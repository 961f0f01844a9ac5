package x

import (
	"context"

	"github.com/iov-one/ledger"
)

// Authenticator is an interface we can use to extract authentication info
// from the context. This should be passed into the constructor of
// handlers, so we can plug in another authentication system,
// rather than hard-coding x/sigs for all extensions.
type Authenticator interface {
	// GetAddresses reveals all addresses that authorized the current
	// transaction, in signing order.
	GetAddresses(context.Context) []ledger.Address
	// HasAddress checks if given address authorized the transaction.
	HasAddress(context.Context, ledger.Address) bool
}

// MultiAuth chains together many Authenticators into one
type MultiAuth struct {
	impls []Authenticator
}

var _ Authenticator = MultiAuth{}

// ChainAuth groups together a series of Authenticator
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth{impls}
}

// GetAddresses combines all addresses from all Authenticators. Duplicates
// are dropped, the first occurrence keeps its position.
func (m MultiAuth) GetAddresses(ctx context.Context) []ledger.Address {
	var res []ledger.Address
	for _, impl := range m.impls {
		for _, a := range impl.GetAddresses(ctx) {
			if !containsAddress(res, a) {
				res = append(res, a)
			}
		}
	}
	return res
}

// HasAddress returns true iff any Authenticator support this
func (m MultiAuth) HasAddress(ctx context.Context, addr ledger.Address) bool {
	for _, impl := range m.impls {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// MainSigner returns the first signer if any, otherwise nil
func MainSigner(ctx context.Context, auth Authenticator) ledger.Address {
	signers := auth.GetAddresses(ctx)
	if len(signers) == 0 {
		return nil
	}
	return signers[0]
}

// HasAllAddresses returns true if all elements in required are
// also in context.
func HasAllAddresses(ctx context.Context, auth Authenticator, required []ledger.Address) bool {
	for _, r := range required {
		if !auth.HasAddress(ctx, r) {
			return false
		}
	}
	return true
}

func containsAddress(list []ledger.Address, a ledger.Address) bool {
	for _, x := range list {
		if x.Equals(a) {
			return true
		}
	}
	return false
}
