package ledgertest

import (
	"crypto/sha256"
	"encoding/binary"
	"sync/atomic"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/crypto"
)

// NewKey returns a random private key and the address it signs for.
func NewKey() (*crypto.PrivateKey, ledger.Address) {
	k := crypto.GenPrivKeyEd25519()
	return k, k.Address()
}

var addrSeq uint64

// NewProgramAddress returns a unique address that lies off the curve, so no
// key can sign for it. Useful as a program identity in tests.
func NewProgramAddress() ledger.Address {
	for {
		var raw [8]byte
		binary.BigEndian.PutUint64(raw[:], atomic.AddUint64(&addrSeq, 1))
		h := sha256.Sum256(raw[:])
		if !ledger.IsOnCurve(h[:]) {
			return ledger.Address(h[:])
		}
	}
}
