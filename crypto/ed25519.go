/*
Package crypto wraps ed25519 keys. A keyed account on the ledger is
addressed by its raw public key, so the address of a key is the key.
*/
package crypto

import (
	"io"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"golang.org/x/crypto/ed25519"
)

// Signer can create signatures for the address it owns.
type Signer interface {
	Sign(message []byte) ([]byte, error)
	Address() ledger.Address
}

// PrivateKey is an ed25519 private key.
type PrivateKey struct {
	key ed25519.PrivateKey
}

var _ Signer = (*PrivateKey)(nil)

// GenPrivKeyEd25519 returns a random new private key.
func GenPrivKeyEd25519() *PrivateKey {
	k, err := GenPrivKeyEd25519From(nil)
	if err != nil {
		panic(err)
	}
	return k
}

// GenPrivKeyEd25519From returns a new private key using given source of
// randomness. A nil reader means crypto/rand.
func GenPrivKeyEd25519From(rand io.Reader) (*PrivateKey, error) {
	_, priv, err := ed25519.GenerateKey(rand)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidState, "generate key: %s", err)
	}
	return &PrivateKey{key: priv}, nil
}

// PrivKeyEd25519FromSeed will deterministically generate a private key from
// a given seed. Use if you have a strong source of external randomness,
// or for deterministic keys in test cases.
func PrivKeyEd25519FromSeed(seed []byte) (*PrivateKey, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "seed must be %d bytes", ed25519.SeedSize)
	}
	return &PrivateKey{key: ed25519.NewKeyFromSeed(seed)}, nil
}

// Sign returns a matching signature for this private key
func (p *PrivateKey) Sign(message []byte) ([]byte, error) {
	return ed25519.Sign(p.key, message), nil
}

// Address returns the public key, which is also the account address.
func (p *PrivateKey) Address() ledger.Address {
	pub := p.key.Public().(ed25519.PublicKey)
	return ledger.Address(pub)
}

// Seed returns the 32 byte seed this key can be restored from.
func (p *PrivateKey) Seed() []byte {
	return p.key.Seed()
}

// Verify checks the signature was created over message by the key behind
// given address. Program addresses never verify.
func Verify(addr ledger.Address, message, sig []byte) bool {
	if len(addr) != ed25519.PublicKeySize || len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(addr), message, sig)
}
