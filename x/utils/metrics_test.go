package utils

import (
	"context"
	"testing"

	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/ledgertest"
	"github.com/iov-one/ledger/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	m := NewMetrics("ledger", prometheus.NewRegistry())
	ctx := context.Background()
	db := store.MemStore()
	tx := &ledgertest.Tx{Msg: &ledgertest.Msg{RoutePath: "escrow/exchange"}}

	ok := &ledgertest.Handler{}
	_, _ = m.Deliver(ctx, db, tx, ok)
	_, _ = m.Deliver(ctx, db, tx, ok)
	_, _ = m.Check(ctx, db, tx, ok)

	failing := &ledgertest.Handler{DeliverErr: errors.Wrap(errors.ErrInsufficientAmount, "taker")}
	_, err := m.Deliver(ctx, db, tx, failing)
	assert.True(t, errors.ErrInsufficientAmount.Is(err))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.TxCounter("deliver", "escrow/exchange", 0)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TxCounter("check", "escrow/exchange", 0)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TxCounter("deliver", "escrow/exchange", 12)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.TxCounter("deliver", "escrow/refund", 0)))
}

func TestMetricsRegisterOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetrics("ledger", reg)
	assert.Panics(t, func() { NewMetrics("ledger", reg) })
}
