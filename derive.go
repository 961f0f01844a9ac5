package ledger

import (
	"crypto/sha256"

	"filippo.io/edwards25519"
	"github.com/iov-one/ledger/errors"
)

const (
	// MaxSeeds is the maximum number of seeds accepted by the program
	// address derivation, bump included.
	MaxSeeds = 16

	// MaxSeedLength is the maximum length of a single seed.
	MaxSeedLength = 32
)

// programAddressMarker is appended to every derivation so that a program
// address never matches a hash computed for any other purpose.
var programAddressMarker = []byte("ProgramDerivedAddress")

// CreateProgramAddress derives an address from the program identity and
// the seeds. The result is rejected when it is a valid ed25519 point,
// because such an address could have a private key and would not be
// exclusively controlled by the program.
//
// Derivation is a pure function: the same input always yields the same
// address.
func CreateProgramAddress(program Address, seeds ...[]byte) (Address, error) {
	if err := validateSeeds(program, seeds, MaxSeeds); err != nil {
		return nil, err
	}
	addr := hashSeeds(program, seeds)
	if IsOnCurve(addr) {
		return nil, errors.Wrap(errors.ErrInvalidInput, "derived address is on curve")
	}
	return addr, nil
}

// FindProgramAddress searches for the canonical bump, the highest value
// in 255..0 that, appended as the last seed, yields an off curve address.
// Both the address and the bump are returned so callers can store the bump
// and later re-derive the same address with CreateProgramAddress.
func FindProgramAddress(program Address, seeds ...[]byte) (Address, uint8, error) {
	if err := validateSeeds(program, seeds, MaxSeeds-1); err != nil {
		return nil, 0, err
	}
	withBump := make([][]byte, len(seeds)+1)
	copy(withBump, seeds)
	for bump := 255; bump >= 0; bump-- {
		withBump[len(seeds)] = []byte{uint8(bump)}
		if addr := hashSeeds(program, withBump); !IsOnCurve(addr) {
			return addr, uint8(bump), nil
		}
	}
	return nil, 0, errors.Wrap(errors.ErrInvalidState, "no viable bump")
}

func validateSeeds(program Address, seeds [][]byte, limit int) error {
	if err := program.Validate(); err != nil {
		return errors.Wrap(err, "program")
	}
	if len(seeds) > limit {
		return errors.Wrapf(errors.ErrInvalidInput, "too many seeds: %d", len(seeds))
	}
	for i, s := range seeds {
		if len(s) > MaxSeedLength {
			return errors.Wrapf(errors.ErrInvalidInput, "seed %d too long", i)
		}
	}
	return nil
}

func hashSeeds(program Address, seeds [][]byte) Address {
	h := sha256.New()
	for _, s := range seeds {
		h.Write(s)
	}
	h.Write(program)
	h.Write(programAddressMarker)
	return Address(h.Sum(nil))
}

// IsOnCurve returns true if given bytes are a valid compressed ed25519
// point, meaning a private key may exist for it.
func IsOnCurve(b []byte) bool {
	if len(b) != 32 {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(b)
	return err == nil
}

// NewProgramID returns the identity of a built-in program. The identity is
// a stable function of the name and never lies on the curve.
func NewProgramID(name string) Address {
	h := sha256.Sum256([]byte("program:" + name))
	for IsOnCurve(h[:]) {
		h = sha256.Sum256(h[:])
	}
	return Address(h[:])
}
