package utils

import (
	"context"
	"strconv"
	"time"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts every processed transaction by phase, message path and
// result code, and observes how long the rest of the stack took.
type Metrics struct {
	txs      *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var _ ledger.Decorator = (*Metrics)(nil)

// NewMetrics creates the collectors and registers them with the given
// registerer. Pass prometheus.NewRegistry() in tests to stay isolated.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		txs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tx_total",
			Help:      "Total number of processed transactions.",
		}, []string{"phase", "path", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tx_duration_seconds",
			Help:      "Transaction processing latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"phase", "path"}),
	}
	reg.MustRegister(m.txs, m.duration)
	return m
}

// Check records a check phase result.
func (m *Metrics) Check(ctx context.Context, db ledger.KVStore, tx ledger.Tx, next ledger.Checker) (*ledger.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, db, tx)
	m.observe("check", tx, start, err)
	return res, err
}

// Deliver records a deliver phase result.
func (m *Metrics) Deliver(ctx context.Context, db ledger.KVStore, tx ledger.Tx, next ledger.Deliverer) (*ledger.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, db, tx)
	m.observe("deliver", tx, start, err)
	return res, err
}

// TxCounter returns the counter for a single label combination. Mostly
// useful for tests.
func (m *Metrics) TxCounter(phase, path string, code uint32) prometheus.Counter {
	return m.txs.WithLabelValues(phase, path, strconv.FormatUint(uint64(code), 10))
}

func (m *Metrics) observe(phase string, tx ledger.Tx, start time.Time, err error) {
	path := ledger.GetPath(tx)
	code, _ := errors.ABCIInfo(err, false)
	m.txs.WithLabelValues(phase, path, strconv.FormatUint(uint64(code), 10)).Inc()
	m.duration.WithLabelValues(phase, path).Observe(time.Since(start).Seconds())
}
