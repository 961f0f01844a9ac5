package app

import (
	"context"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/ledgertest"
	"github.com/iov-one/ledger/store"
	"github.com/iov-one/ledger/x/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder appends its name to a shared log on every call.
type recorder struct {
	name string
	log  *[]string
}

func (r recorder) Check(ctx context.Context, db ledger.KVStore, tx ledger.Tx, next ledger.Checker) (*ledger.CheckResult, error) {
	*r.log = append(*r.log, r.name)
	return next.Check(ctx, db, tx)
}

func (r recorder) Deliver(ctx context.Context, db ledger.KVStore, tx ledger.Tx, next ledger.Deliverer) (*ledger.DeliverResult, error) {
	*r.log = append(*r.log, r.name)
	return next.Deliver(ctx, db, tx)
}

func TestChainDecorators(t *testing.T) {
	var calls []string
	var metrics *utils.Metrics
	h := &ledgertest.Handler{}

	stack := ChainDecorators(
		recorder{"first", &calls},
		nil,
		metrics,
	).Chain(
		recorder{"second", &calls},
	).WithHandler(h)

	tx := &ledgertest.Tx{Msg: &ledgertest.Msg{RoutePath: "escrow/exchange"}}
	_, err := stack.Deliver(context.Background(), store.MemStore(), tx)
	require.NoError(t, err)
	_, err = stack.Check(context.Background(), store.MemStore(), tx)
	require.NoError(t, err)

	assert.Equal(t, []string{"first", "second", "first", "second"}, calls)
	assert.Equal(t, 1, h.DeliverCallCount())
	assert.Equal(t, 1, h.CheckCallCount())
}

func TestResultSet(t *testing.T) {
	models := []ledger.Model{
		ledger.Pair([]byte("a"), []byte("1")),
		ledger.Pair([]byte("b"), nil),
	}
	keys, err := ResultsFromKeys(models).Marshal()
	require.NoError(t, err)
	values, err := ResultsFromValues(models).Marshal()
	require.NoError(t, err)

	var k, v ResultSet
	require.NoError(t, k.Unmarshal(keys))
	require.NoError(t, v.Unmarshal(values))
	joined, err := JoinResults(&k, &v)
	require.NoError(t, err)
	require.Len(t, joined, 2)
	assert.Equal(t, []byte("b"), joined[1].Key)
	assert.Empty(t, joined[1].Value)

	_, err = JoinResults(&k, &ResultSet{})
	assert.Error(t, err)
}
