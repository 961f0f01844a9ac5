package sigs

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/codec"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/orm"
)

// BucketName is where we store the accounts
const BucketName = "sigs"

// maxSequenceValue is limited by the client. The greatest supported
// nonce value at client side is
//
//	Number.MAX_SAFE_INTEGER = 9007199254740991 = 2^53 - 1
const maxSequenceValue = (1 << 53) - 1

// UserData holds the replay protection counter of a single signer.
type UserData struct {
	Pubkey   ledger.Address
	Sequence int64
}

var _ orm.Model = (*UserData)(nil)

// Validate checks the counter is sane.
func (u *UserData) Validate() error {
	if u.Sequence < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	}
	if err := u.Pubkey.Validate(); err != nil {
		return errors.Wrap(err, "pubkey")
	}
	return nil
}

// Marshal encodes the user data.
func (u *UserData) Marshal() ([]byte, error) {
	return codec.NewEncoder().
		Bytes(1, u.Pubkey).
		Int64(2, u.Sequence).
		Result(), nil
}

// Unmarshal decodes the user data.
func (u *UserData) Unmarshal(raw []byte) error {
	*u = UserData{}
	return codec.Walk(raw, func(f codec.Field) error {
		var err error
		switch f.Num {
		case 1:
			var b []byte
			b, err = f.Bytes()
			u.Pubkey = b
		case 2:
			u.Sequence, err = f.Int64()
		}
		return err
	})
}

// CheckAndIncrementSequence implements check and increment operation.
// If current sequence value is the same as given expected value then it is
// incremented. Otherwise an error is returned.
func (u *UserData) CheckAndIncrementSequence(expected int64) error {
	if u.Sequence != expected {
		return errors.Wrapf(ErrInvalidSequence, "mismatch expected %d, got %d", expected, u.Sequence)
	}
	next := u.Sequence + 1
	if next <= 0 || next > maxSequenceValue {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	u.Sequence = next
	return nil
}

// Bucket stores UserData under the signer address.
type Bucket struct {
	orm.ModelBucket
}

// NewBucket creates the proper bucket for this extension
func NewBucket() Bucket {
	return Bucket{
		ModelBucket: orm.NewModelBucket(BucketName, &UserData{}),
	}
}

// GetOrCreate loads the user data, or returns a fresh record with a zero
// sequence if the signer was never seen.
func (b Bucket) GetOrCreate(db ledger.ReadOnlyKVStore, pubkey ledger.Address) (*UserData, error) {
	var u UserData
	err := b.One(db, pubkey, &u)
	switch {
	case err == nil:
		return &u, nil
	case errors.ErrNotFound.Is(err):
		return &UserData{Pubkey: pubkey.Clone()}, nil
	default:
		return nil, err
	}
}
