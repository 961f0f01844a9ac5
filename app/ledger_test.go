package app

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/coin"
	"github.com/iov-one/ledger/crypto"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/ledgertest"
	"github.com/iov-one/ledger/store/iavl"
	"github.com/iov-one/ledger/x/escrow"
	"github.com/iov-one/ledger/x/sigs"
	"github.com/iov-one/ledger/x/token"
	"github.com/iov-one/ledger/x/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testChainID = "test-chain-1"

type testNet struct {
	t       *testing.T
	ledger  *Ledger
	metrics *utils.Metrics

	maker, taker *crypto.PrivateKey
	mintA, mintB ledger.Address
}

// newTestNet starts a ledger where the maker holds 10 A and the taker
// holds 5 B.
func newTestNet(t *testing.T) *testNet {
	t.Helper()
	authority, _ := ledgertest.NewKey()
	maker, _ := ledgertest.NewKey()
	taker, _ := ledgertest.NewKey()
	_, mintA := ledgertest.NewKey()
	_, mintB := ledgertest.NewKey()

	metrics := utils.NewMetrics("test", prometheus.NewRegistry())
	l, err := NewLedger(Config{
		Store:       iavl.MustMemStore(),
		Handler:     Stack(metrics),
		Queries:     QueryRouter(),
		Initializer: Initializer(),
	})
	require.NoError(t, err)

	genesis := map[string]interface{}{
		"accounts": []interface{}{
			map[string]interface{}{"address": authority.Address(), "lamports": uint64(1e9)},
			map[string]interface{}{"address": maker.Address(), "lamports": uint64(1e9)},
			map[string]interface{}{"address": taker.Address(), "lamports": uint64(1e9)},
		},
		"token": token.Genesis{
			Mints: []token.GenesisMint{
				{Address: mintA, Authority: authority.Address()},
				{Address: mintB, Authority: authority.Address()},
			},
			Balances: []token.GenesisBalance{
				{Owner: maker.Address(), Mint: mintA, Amount: 10},
				{Owner: taker.Address(), Mint: mintB, Amount: 5},
			},
		},
	}
	raw, err := json.Marshal(genesis)
	require.NoError(t, err)
	var opts ledger.Options
	require.NoError(t, json.Unmarshal(raw, &opts))
	require.NoError(t, l.InitGenesis(testChainID, opts))

	return &testNet{
		t:       t,
		ledger:  l,
		metrics: metrics,
		maker:   maker,
		taker:   taker,
		mintA:   mintA,
		mintB:   mintB,
	}
}

// sign builds a transaction signed by all keys, using their next
// sequence in the pending state.
func (n *testNet) sign(msg ledger.Msg, keys ...*crypto.PrivateKey) *StdTx {
	n.t.Helper()
	tx := &StdTx{Msg: msg}
	for _, k := range keys {
		seq, err := sigs.NextSequence(n.ledger.store.DeliverStore(), k.Address())
		require.NoError(n.t, err)
		sig, err := sigs.SignTx(k, tx, testChainID, seq)
		require.NoError(n.t, err)
		tx.Signatures = append(tx.Signatures, sig)
	}
	return tx
}

func (n *testNet) associated(owner, mint ledger.Address) ledger.Address {
	addr, _, err := token.AssociatedAddress(owner, mint)
	require.NoError(n.t, err)
	return addr
}

func (n *testNet) balance(owner, mint ledger.Address) coin.Amount {
	bal, err := token.Balance(n.ledger.store.DeliverStore(), n.associated(owner, mint))
	if errors.ErrNotFound.Is(err) {
		return 0
	}
	require.NoError(n.t, err)
	return bal
}

func (n *testNet) initMsg(nonce uint64, deposit, expected coin.Amount) *escrow.InitializeMsg {
	addr, _, err := escrow.EscrowAddress(n.maker.Address(), nonce)
	require.NoError(n.t, err)
	vault, err := escrow.VaultAddress(addr, n.mintA)
	require.NoError(n.t, err)
	return &escrow.InitializeMsg{
		Maker:           n.maker.Address(),
		MintA:           n.mintA,
		MintB:           n.mintB,
		MakerAccountA:   n.associated(n.maker.Address(), n.mintA),
		Escrow:          addr,
		Vault:           vault,
		Nonce:           nonce,
		AmountExpected:  expected,
		AmountDeposited: deposit,
	}
}

func (n *testNet) exchangeMsg(init *escrow.InitializeMsg) *escrow.ExchangeMsg {
	taker := n.taker.Address()
	return &escrow.ExchangeMsg{
		Maker:         init.Maker,
		Taker:         taker,
		MintA:         init.MintA,
		MintB:         init.MintB,
		MakerAccountB: n.associated(init.Maker, init.MintB),
		TakerAccountA: n.associated(taker, init.MintA),
		TakerAccountB: n.associated(taker, init.MintB),
		Escrow:        init.Escrow,
		Vault:         init.Vault,
	}
}

func (n *testNet) refundMsg(init *escrow.InitializeMsg) *escrow.RefundMsg {
	return &escrow.RefundMsg{
		Maker:         init.Maker,
		MintA:         init.MintA,
		MakerAccountA: init.MakerAccountA,
		Escrow:        init.Escrow,
		Vault:         init.Vault,
	}
}

func (n *testNet) openEscrows() int {
	models, err := n.ledger.Query("/escrows?prefix", nil)
	require.NoError(n.t, err)
	return len(models)
}

func TestLedgerExchange(t *testing.T) {
	n := newTestNet(t)
	ctx := context.Background()
	maker, taker := n.maker.Address(), n.taker.Address()

	init := n.initMsg(100, 10, 2)
	tx := n.sign(init, n.maker)
	_, err := n.ledger.Check(ctx, tx)
	require.NoError(t, err)
	res, err := n.ledger.Deliver(ctx, tx)
	require.NoError(t, err)
	assert.Equal(t, []byte(init.Escrow), res.Data)
	assert.Equal(t, coin.Amount(0), n.balance(maker, n.mintA))

	// queries read committed state only
	assert.Equal(t, 0, n.openEscrows())
	_, err = n.ledger.Commit()
	require.NoError(t, err)
	assert.Equal(t, 1, n.openEscrows())

	_, err = n.ledger.Deliver(ctx, n.sign(n.exchangeMsg(init), n.taker))
	require.NoError(t, err)
	assert.Equal(t, coin.Amount(10), n.balance(taker, n.mintA))
	assert.Equal(t, coin.Amount(3), n.balance(taker, n.mintB))
	assert.Equal(t, coin.Amount(2), n.balance(maker, n.mintB))

	id, err := n.ledger.Commit()
	require.NoError(t, err)
	assert.Equal(t, int64(2), id.Version)
	assert.NotEmpty(t, id.Hash)
	assert.Equal(t, 0, n.openEscrows())

	assert.Equal(t, 1.0, testutil.ToFloat64(n.metrics.TxCounter("deliver", "escrow/initialize", 0)))
	assert.Equal(t, 1.0, testutil.ToFloat64(n.metrics.TxCounter("deliver", "escrow/exchange", 0)))
}

func TestFailedTransactionLeavesNoTrace(t *testing.T) {
	n := newTestNet(t)
	ctx := context.Background()
	maker, taker := n.maker.Address(), n.taker.Address()

	cheap := n.initMsg(1, 4, 2)
	_, err := n.ledger.Deliver(ctx, n.sign(cheap, n.maker))
	require.NoError(t, err)
	pricey := n.initMsg(2, 1, 6)
	_, err = n.ledger.Deliver(ctx, n.sign(pricey, n.maker))
	require.NoError(t, err)

	seq, err := sigs.NextSequence(n.ledger.store.DeliverStore(), taker)
	require.NoError(t, err)

	// only the maker can refund
	_, err = n.ledger.Deliver(ctx, n.sign(n.refundMsg(cheap), n.taker))
	assert.True(t, errors.ErrUnauthorized.Is(err), "got %+v", err)

	// the taker holds 5 B only
	_, err = n.ledger.Deliver(ctx, n.sign(n.exchangeMsg(pricey), n.taker))
	assert.True(t, errors.ErrInsufficientAmount.Is(err), "got %+v", err)

	again, err := sigs.NextSequence(n.ledger.store.DeliverStore(), taker)
	require.NoError(t, err)
	assert.Equal(t, seq, again)
	assert.Equal(t, coin.Amount(5), n.balance(taker, n.mintB))
	assert.Equal(t, coin.Amount(0), n.balance(taker, n.mintA))

	_, err = n.ledger.Deliver(ctx, n.sign(n.refundMsg(cheap), n.maker))
	require.NoError(t, err)
	assert.Equal(t, coin.Amount(9), n.balance(maker, n.mintA))
}

func TestExchangeRefundRace(t *testing.T) {
	n := newTestNet(t)
	ctx := context.Background()

	init := n.initMsg(7, 10, 2)
	_, err := n.ledger.Deliver(ctx, n.sign(init, n.maker))
	require.NoError(t, err)

	txs := []ledger.Tx{
		n.sign(n.exchangeMsg(init), n.taker),
		n.sign(n.refundMsg(init), n.maker),
	}
	errs := make([]error, len(txs))
	var wg sync.WaitGroup
	for i, tx := range txs {
		wg.Add(1)
		go func(i int, tx ledger.Tx) {
			defer wg.Done()
			_, errs[i] = n.ledger.Deliver(ctx, tx)
		}(i, tx)
	}
	wg.Wait()

	var won int
	for _, err := range errs {
		if err == nil {
			won++
			continue
		}
		assert.True(t, errors.ErrNotFound.Is(err), "got %+v", err)
	}
	assert.Equal(t, 1, won)

	// the deposit went to exactly one side
	maker, taker := n.maker.Address(), n.taker.Address()
	assert.Equal(t, coin.Amount(10), n.balance(maker, n.mintA)+n.balance(taker, n.mintA))
}

func TestGenesisOnlyOnce(t *testing.T) {
	n := newTestNet(t)
	err := n.ledger.InitGenesis("other-chain", ledger.Options{})
	assert.True(t, errors.ErrInvalidState.Is(err), "got %+v", err)
	assert.Equal(t, testChainID, n.ledger.ChainID())
}

func TestLedgerRequiresGenesis(t *testing.T) {
	l, err := NewLedger(Config{
		Store:   iavl.MustMemStore(),
		Handler: Stack(nil),
		Queries: QueryRouter(),
	})
	require.NoError(t, err)
	_, err = l.Deliver(context.Background(), &StdTx{Msg: &escrow.RefundMsg{}})
	assert.True(t, errors.ErrInvalidState.Is(err), "got %+v", err)

	err = l.InitGenesis("bad id!", ledger.Options{})
	assert.True(t, errors.ErrInvalidInput.Is(err), "got %+v", err)
	assert.Equal(t, "", l.ChainID())
}

func TestLedgerQuery(t *testing.T) {
	n := newTestNet(t)
	_, err := n.ledger.Query("/nothing", nil)
	assert.True(t, errors.ErrNotFound.Is(err), "got %+v", err)

	init := n.initMsg(3, 4, 1)
	_, err = n.ledger.Deliver(context.Background(), n.sign(init, n.maker))
	require.NoError(t, err)
	_, err = n.ledger.Commit()
	require.NoError(t, err)

	models, err := n.ledger.Query("/escrows", init.Escrow)
	require.NoError(t, err)
	require.Len(t, models, 1)
	var e escrow.Escrow
	require.NoError(t, e.Unmarshal(models[0].Value))
	assert.Equal(t, init.Nonce, e.Nonce)
	assert.NoError(t, escrow.VerifyEscrowAddress(&e, init.Escrow))
}
