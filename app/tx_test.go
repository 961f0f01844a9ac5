package app

import (
	"testing"

	"github.com/iov-one/ledger/codec"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/ledgertest"
	"github.com/iov-one/ledger/x/escrow"
	"github.com/iov-one/ledger/x/sigs"
	"github.com/iov-one/ledger/x/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStdTxDecode(t *testing.T) {
	key, maker := ledgertest.NewKey()
	_, mint := ledgertest.NewKey()
	refund := &escrow.RefundMsg{Maker: maker, MintA: mint, MakerAccountA: maker, Escrow: mint, Vault: mint}

	tx := &StdTx{Msg: refund}
	sig, err := sigs.SignTx(key, tx, testChainID, 3)
	require.NoError(t, err)
	tx.Signatures = append(tx.Signatures, sig)

	raw, err := tx.Marshal()
	require.NoError(t, err)
	decoded, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, tx, decoded)

	// signatures are not part of what is signed
	signBytes, err := tx.GetSignBytes()
	require.NoError(t, err)
	unsigned, err := (&StdTx{Msg: refund}).Marshal()
	require.NoError(t, err)
	assert.Equal(t, unsigned, signBytes)
	assert.NotEqual(t, raw, signBytes)
}

func TestStdTxRejects(t *testing.T) {
	_, a := ledgertest.NewKey()
	refund, err := (&escrow.RefundMsg{Maker: a}).Marshal()
	require.NoError(t, err)

	cases := map[string]struct {
		raw     []byte
		wantErr *errors.Error
	}{
		"two messages": {
			raw:     codec.NewEncoder().Bytes(fieldRefund, refund).Bytes(fieldInitialize, refund).Result(),
			wantErr: errors.ErrInvalidInput,
		},
		"unknown message": {
			raw:     codec.NewEncoder().Bytes(99, refund).Result(),
			wantErr: errors.ErrInvalidType,
		},
		"varint where a message belongs": {
			raw:     codec.NewEncoder().Uint64(fieldExchange, 1).Result(),
			wantErr: errors.ErrInvalidInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			_, err := Decode(tc.raw)
			assert.True(t, tc.wantErr.Is(err), "got %+v", err)
		})
	}

	// an empty transaction decodes but carries nothing to run
	tx, err := Decode(nil)
	require.NoError(t, err)
	_, err = tx.GetMsg()
	assert.True(t, errors.ErrEmpty.Is(err))
}

func TestStdTxMarshalUnknownMsg(t *testing.T) {
	_, err := (&StdTx{Msg: &ledgertest.Msg{RoutePath: "foo/bar"}}).Marshal()
	assert.True(t, errors.ErrInvalidType.Is(err), "got %+v", err)

	_, err = (&StdTx{}).Marshal()
	assert.True(t, errors.ErrEmpty.Is(err), "got %+v", err)

	_, err = (&StdTx{Msg: &token.TransferMsg{}}).Marshal()
	assert.NoError(t, err)
}
