package ledgertest

import (
	"context"
	"fmt"

	"github.com/iov-one/ledger"
)

// Auth is a mock implementing x.Authenticator interface.
//
// This structure authenticates any of referenced addresses.
// You can use either Signer or Signers (or both) attributes to reference
// addresses. Each time all signers are considered.
type Auth struct {
	// Signer represents an authentication of a single signer.
	Signer ledger.Address

	// Signers represents an authentication of multiple signers.
	Signers []ledger.Address
}

func (a *Auth) GetAddresses(context.Context) []ledger.Address {
	if a.Signer != nil {
		return append([]ledger.Address{a.Signer}, a.Signers...)
	}
	return a.Signers
}

func (a *Auth) HasAddress(ctx context.Context, addr ledger.Address) bool {
	for _, s := range a.GetAddresses(ctx) {
		if addr.Equals(s) {
			return true
		}
	}
	return false
}

// CtxAuth is a mock implementing x.Authenticator interface.
//
// This implementation is using context to store and retrieve signers.
type CtxAuth struct {
	// Key used to set and retrieve signers from the context. For
	// convenience only string type keys are allowed.
	Key string
}

type ctxAuthKey string

// SetSigners returns a context authenticating given addresses.
func (a *CtxAuth) SetSigners(ctx context.Context, signers ...ledger.Address) context.Context {
	return context.WithValue(ctx, ctxAuthKey(a.Key), signers)
}

func (a *CtxAuth) GetAddresses(ctx context.Context) []ledger.Address {
	val := ctx.Value(ctxAuthKey(a.Key))
	if val == nil {
		return nil
	}
	signers, ok := val.([]ledger.Address)
	if !ok {
		panic(fmt.Sprintf("instead of []ledger.Address got %T", val))
	}
	return signers
}

func (a *CtxAuth) HasAddress(ctx context.Context, addr ledger.Address) bool {
	for _, s := range a.GetAddresses(ctx) {
		if addr.Equals(s) {
			return true
		}
	}
	return false
}
