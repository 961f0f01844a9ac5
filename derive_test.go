package ledger_test

import (
	"bytes"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/crypto"
	"github.com/iov-one/ledger/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindProgramAddress(t *testing.T) {
	program := ledger.NewProgramID("escrow")
	seeds := [][]byte{[]byte("escrow"), []byte("maker")}

	addr, bump, err := ledger.FindProgramAddress(program, seeds...)
	require.NoError(t, err)
	assert.False(t, ledger.IsOnCurve(addr))
	require.NoError(t, addr.Validate())

	again, againBump, err := ledger.FindProgramAddress(program, seeds...)
	require.NoError(t, err)
	assert.Equal(t, addr, again)
	assert.Equal(t, bump, againBump)

	// the stored bump re-derives the same address
	derived, err := ledger.CreateProgramAddress(program, append(seeds, []byte{bump})...)
	require.NoError(t, err)
	assert.Equal(t, addr, derived)

	other, _, err := ledger.FindProgramAddress(ledger.NewProgramID("token"), seeds...)
	require.NoError(t, err)
	assert.NotEqual(t, addr, other)
}

func TestDerivationLimits(t *testing.T) {
	program := ledger.NewProgramID("escrow")

	_, _, err := ledger.FindProgramAddress(program, bytes.Repeat([]byte{1}, ledger.MaxSeedLength+1))
	assert.True(t, errors.ErrInvalidInput.Is(err), "got %+v", err)

	seeds := make([][]byte, ledger.MaxSeeds)
	_, _, err = ledger.FindProgramAddress(program, seeds...)
	assert.True(t, errors.ErrInvalidInput.Is(err), "bump needs a slot: %+v", err)
	_, err = ledger.CreateProgramAddress(program, append(seeds, nil)...)
	assert.True(t, errors.ErrInvalidInput.Is(err), "got %+v", err)

	_, err = ledger.CreateProgramAddress(ledger.Address("short"))
	assert.True(t, errors.ErrInvalidInput.Is(err), "got %+v", err)
}

func TestCurveCheck(t *testing.T) {
	key := crypto.GenPrivKeyEd25519()
	assert.True(t, ledger.IsOnCurve(key.Address()))
	assert.False(t, ledger.IsOnCurve([]byte{1, 2, 3}))

	for _, name := range []string{"escrow", "token", "accounts"} {
		id := ledger.NewProgramID(name)
		assert.False(t, ledger.IsOnCurve(id), name)
		assert.Equal(t, id, ledger.NewProgramID(name))
	}
}
