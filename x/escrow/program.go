package escrow

import (
	"encoding/binary"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/x/token"
)

// ProgramID is the identity of the escrow program. It owns every escrow
// record and is the only party able to sign for an escrow address.
var ProgramID = ledger.NewProgramID("escrow")

var escrowSeed = []byte("escrow")

func nonceSeed(nonce uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, nonce)
	return b
}

// EscrowAddress returns the address of the escrow of maker with given
// nonce and the canonical bump that derives it.
func EscrowAddress(maker ledger.Address, nonce uint64) (ledger.Address, uint8, error) {
	if err := maker.Validate(); err != nil {
		return nil, 0, errors.Wrap(err, "maker")
	}
	return ledger.FindProgramAddress(ProgramID, escrowSeed, maker, nonceSeed(nonce))
}

// VaultAddress returns the token account holding the deposit of an escrow.
func VaultAddress(escrow, mintA ledger.Address) (ledger.Address, error) {
	addr, _, err := token.AssociatedAddress(escrow, mintA)
	return addr, err
}

// VerifyEscrowAddress re-derives the address of a stored escrow using its
// bump and fails unless it is addr.
func VerifyEscrowAddress(e *Escrow, addr ledger.Address) error {
	want, err := escrowSigner(e).Address()
	if err != nil {
		return errors.Wrap(errors.ErrInvalidModel, "escrow seeds do not derive an address")
	}
	if !want.Equals(addr) {
		return errors.Wrapf(errors.ErrInvalidInput, "escrow %s does not derive from its record", addr)
	}
	return nil
}

// escrowSigner is the authority of the escrow address. Built only from
// stored state.
func escrowSigner(e *Escrow) token.ProgramAuthority {
	return token.ProgramAuthority{
		Program: ProgramID,
		Seeds:   [][]byte{escrowSeed, e.Maker, nonceSeed(e.Nonce)},
		Bump:    e.Bump,
	}
}
