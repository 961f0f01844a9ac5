package sigs

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/codec"
	"github.com/iov-one/ledger/errors"
)

// SignedTx represents a transaction that contains signatures,
// which can be verified by the sigs.Decorator
type SignedTx interface {
	// GetSignBytes returns the canonical byte representation of the Msg.
	// Equivalent to ledger.MustMarshal(tx.GetMsg()) if Msg has a
	// deterministic serialization.
	GetSignBytes() ([]byte, error)

	// GetSignatures returns the signature of signers who signed the Msg.
	GetSignatures() []*StdSignature
}

// StdSignature is a single ed25519 signature together with the signing
// key and the sequence it was created for.
type StdSignature struct {
	Pubkey    ledger.Address
	Signature []byte
	Sequence  int64
}

// Validate ensures the StdSignature meets basic standards
func (s *StdSignature) Validate() error {
	if s.Sequence < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	}
	if len(s.Pubkey) == 0 {
		return errors.Wrap(errors.ErrUnauthorized, "missing public key")
	}
	if err := s.Pubkey.Validate(); err != nil {
		return errors.Wrap(errors.ErrUnauthorized, "malformed public key")
	}
	if len(s.Signature) == 0 {
		return errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return nil
}

// Marshal encodes the signature.
func (s *StdSignature) Marshal() ([]byte, error) {
	return codec.NewEncoder().
		Bytes(1, s.Pubkey).
		Bytes(2, s.Signature).
		Int64(3, s.Sequence).
		Result(), nil
}

// Unmarshal decodes the signature.
func (s *StdSignature) Unmarshal(raw []byte) error {
	*s = StdSignature{}
	return codec.Walk(raw, func(f codec.Field) error {
		var err error
		switch f.Num {
		case 1:
			var b []byte
			b, err = f.Bytes()
			s.Pubkey = b
		case 2:
			s.Signature, err = f.Bytes()
		case 3:
			s.Sequence, err = f.Int64()
		}
		return err
	})
}
