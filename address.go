package ledger

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/iov-one/ledger/crypto/bech32"
	"github.com/iov-one/ledger/errors"
	"github.com/mr-tron/base58"
)

// AddressLength is the length of all addresses. Keyed addresses are raw
// ed25519 public keys, program addresses are digests of the same size.
const AddressLength = 32

// Address identifies an account on the ledger.
//
// An address is either an ed25519 public key, in which case the holder of
// the matching private key can sign for it, or a program derived address
// that lies off the curve and can only be authorized by the program that
// derived it. See CreateProgramAddress.
type Address []byte

// Equals checks if two addresses are the same
func (a Address) Equals(b Address) bool {
	return bytes.Equal(a, b)
}

// Clone returns a copy that does not share memory with a.
func (a Address) Clone() Address {
	if a == nil {
		return nil
	}
	cpy := make(Address, len(a))
	copy(cpy, a)
	return cpy
}

// String returns the base58 representation.
func (a Address) String() string {
	if len(a) == 0 {
		return "(nil)"
	}
	return base58.Encode(a)
}

// Bech32 returns the bech32 representation using given human readable part.
func (a Address) Bech32(hrp string) (string, error) {
	return bech32.Encode(hrp, a)
}

// Validate returns an error if the address is not the valid size
func (a Address) Validate() error {
	if len(a) != AddressLength {
		return errors.Wrapf(errors.ErrInvalidInput, "address: %X", []byte(a))
	}
	return nil
}

// MarshalJSON provides a base58 representation for JSON,
// to override the standard base64 []byte encoding
func (a Address) MarshalJSON() ([]byte, error) {
	if len(a) == 0 {
		return json.Marshal("")
	}
	return json.Marshal(base58.Encode(a))
}

// UnmarshalJSON accepts base58 (default), "hex:" and "bech32:" prefixed
// strings.
func (a *Address) UnmarshalJSON(raw []byte) error {
	var enc string
	if err := json.Unmarshal(raw, &enc); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, "cannot decode json")
	}
	addr, err := ParseAddress(enc)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// ParseAddress decodes the human readable representation of an address.
// An empty string decodes to a nil address.
func ParseAddress(enc string) (Address, error) {
	// If the encoded string starts with a prefix, cut it off and use
	// specified decoding method instead of default one.
	chunks := strings.SplitN(enc, ":", 2)
	format := chunks[0]
	if len(chunks) == 1 {
		format = "base58"
	} else {
		enc = chunks[1]
	}

	if len(enc) == 0 {
		return nil, nil
	}

	var (
		val []byte
		err error
	)
	switch format {
	case "base58":
		val, err = base58.Decode(enc)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInvalidInput, "base58: %s", err)
		}
	case "hex":
		val, err = hex.DecodeString(enc)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInvalidInput, "hex: %s", err)
		}
	case "bech32":
		_, val, err = bech32.Decode(enc)
		if err != nil {
			return nil, err
		}
	default:
		return nil, errors.Wrapf(errors.ErrInvalidType, "unknown format %q", format)
	}
	addr := Address(val)
	if err := addr.Validate(); err != nil {
		return nil, err
	}
	return addr, nil
}

// MustParseAddress is like ParseAddress but panics on error. Use only with
// compile time constants.
func MustParseAddress(enc string) Address {
	addr, err := ParseAddress(enc)
	if err != nil {
		panic(err)
	}
	return addr
}
