package token

import (
	"context"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/x"
)

// Authority decides whether the current instruction may act on behalf of
// an owner address.
//
// Two kinds exist and they are never interchangeable. SignerAuthority
// accepts addresses that signed the transaction. ProgramAuthority accepts
// only the program address its seeds derive to. A ProgramAuthority must be
// built by program code from its own state, never from user input.
type Authority interface {
	Authorize(ctx context.Context, owner ledger.Address) error
}

// SignerAuthority authorizes addresses that signed the transaction.
type SignerAuthority struct {
	Auth x.Authenticator
}

var _ Authority = SignerAuthority{}

// Authorize fails unless owner signed.
func (a SignerAuthority) Authorize(ctx context.Context, owner ledger.Address) error {
	if !a.Auth.HasAddress(ctx, owner) {
		return errors.Wrapf(errors.ErrUnauthorized, "%s did not sign", owner)
	}
	return nil
}

// ProgramAuthority authorizes the program derived address of Program with
// given seeds and bump.
type ProgramAuthority struct {
	Program ledger.Address
	Seeds   [][]byte
	Bump    uint8
}

var _ Authority = ProgramAuthority{}

// Address re-derives the address this authority speaks for.
func (a ProgramAuthority) Address() (ledger.Address, error) {
	seeds := make([][]byte, 0, len(a.Seeds)+1)
	seeds = append(seeds, a.Seeds...)
	seeds = append(seeds, []byte{a.Bump})
	return ledger.CreateProgramAddress(a.Program, seeds...)
}

// Authorize fails unless the seeds derive to owner.
func (a ProgramAuthority) Authorize(ctx context.Context, owner ledger.Address) error {
	addr, err := a.Address()
	if err != nil {
		return errors.Wrap(errors.ErrUnauthorized, "cannot derive program signer")
	}
	if !addr.Equals(owner) {
		return errors.Wrapf(errors.ErrUnauthorized, "program signer %s is not %s", addr, owner)
	}
	return nil
}
