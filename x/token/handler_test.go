package token

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/ledgertest"
	"github.com/iov-one/ledger/store"
	"github.com/iov-one/ledger/x/accounts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlers(t *testing.T) {
	db := store.MemStore()
	_, payer := ledgertest.NewKey()
	_, mint := ledgertest.NewKey()
	_, bob := ledgertest.NewKey()
	require.NoError(t, accounts.Credit(db, payer, 1e9))

	auth := &ledgertest.CtxAuth{Key: "sig"}
	rt := newTestRouter()
	RegisterRoutes(rt, auth)

	deliver := func(msg ledger.Msg, signers ...ledger.Address) (*ledger.DeliverResult, error) {
		ctx := auth.SetSigners(context.Background(), signers...)
		h := rt.handlers[msg.Path()]
		require.NotNil(t, h, msg.Path())
		tx := &ledgertest.Tx{Msg: msg}
		if _, err := h.Check(ctx, db, tx); err != nil {
			return nil, err
		}
		return h.Deliver(ctx, db, tx)
	}

	create := &CreateMintMsg{Payer: payer, Mint: mint, Authority: payer, Decimals: 2}
	_, err := deliver(create, payer)
	assert.True(t, errors.ErrUnauthorized.Is(err), "mint must sign: %+v", err)
	_, err = deliver(create, payer, mint)
	require.NoError(t, err)

	res, err := deliver(&CreateAssociatedAccountMsg{Payer: payer, Owner: payer, Mint: mint}, payer)
	require.NoError(t, err)
	payerAcc := ledger.Address(res.Data)
	res, err = deliver(&CreateAssociatedAccountMsg{Payer: payer, Owner: bob, Mint: mint}, payer)
	require.NoError(t, err)
	bobAcc := ledger.Address(res.Data)

	_, err = deliver(&MintToMsg{Mint: mint, Destination: payerAcc, Amount: 500}, bob)
	assert.True(t, errors.ErrUnauthorized.Is(err), "got %+v", err)
	_, err = deliver(&MintToMsg{Mint: mint, Destination: payerAcc, Amount: 500}, payer)
	require.NoError(t, err)

	_, err = deliver(&TransferMsg{Source: payerAcc, Destination: bobAcc, Amount: 0}, payer)
	assert.True(t, errors.ErrInvalidAmount.Is(err), "got %+v", err)
	_, err = deliver(&TransferMsg{Source: payerAcc, Destination: bobAcc, Amount: 200}, payer)
	require.NoError(t, err)
	assertTokens(t, db, bobAcc, 200)
	assertTokens(t, db, payerAcc, 300)
}

func TestMsgEncoding(t *testing.T) {
	_, a := ledgertest.NewKey()
	_, b := ledgertest.NewKey()
	msg := &TransferMsg{Source: a, Destination: b, Amount: 42}
	raw, err := msg.Marshal()
	require.NoError(t, err)

	var got TransferMsg
	require.NoError(t, got.Unmarshal(raw))
	assert.Equal(t, msg, &got)

	// decoding into a different message type fails on the wire type
	var other CreateMintMsg
	assert.Error(t, other.Unmarshal(raw))
}

func TestGenesis(t *testing.T) {
	_, authority := ledgertest.NewKey()
	_, mint := ledgertest.NewKey()
	_, alice := ledgertest.NewKey()

	raw := `{
		"accounts": [
			{"address": "` + authority.String() + `", "lamports": 100000000},
			{"address": "` + alice.String() + `", "lamports": 100000000}
		],
		"token": {
			"mints": [{"address": "` + mint.String() + `", "authority": "` + authority.String() + `", "decimals": 6}],
			"balances": [{"owner": "` + alice.String() + `", "mint": "` + mint.String() + `", "amount": 77}]
		}
	}`
	var opts ledger.Options
	require.NoError(t, json.Unmarshal([]byte(raw), &opts))

	db := store.MemStore()
	initializer := ledger.ChainInitializers(accounts.Initializer{}, Initializer{})
	require.NoError(t, initializer.FromGenesis(opts, db))

	acc, _, err := AssociatedAddress(alice, mint)
	require.NoError(t, err)
	assertTokens(t, db, acc, 77)
	m, err := GetMint(db, mint)
	require.NoError(t, err)
	assert.Equal(t, uint8(6), m.Decimals)
}

type testRouter struct {
	handlers map[string]ledger.Handler
}

func newTestRouter() *testRouter {
	return &testRouter{handlers: make(map[string]ledger.Handler)}
}

func (r *testRouter) Handle(m ledger.Msg, h ledger.Handler) {
	r.handlers[m.Path()] = h
}
