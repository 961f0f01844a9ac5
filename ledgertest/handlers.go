package ledgertest

import (
	"context"

	"github.com/iov-one/ledger"
)

// Handler is a mock implementation of the ledger.Handler interface.
//
// It optionally writes a key/value pair before returning, in both Check
// and Deliver, so tests can check what a decorator persists on success
// and on failure.
type Handler struct {
	checkCall   int
	CheckResult ledger.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult ledger.DeliverResult
	DeliverErr    error

	// Key and Value, if Key is set, are written on every call.
	Key, Value []byte
	// Panic if set is raised by Deliver after writing.
	Panic interface{}
}

var _ ledger.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx context.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	h.checkCall++
	if h.Key != nil {
		if err := db.Set(h.Key, h.Value); err != nil {
			return nil, err
		}
	}
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx context.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	h.deliverCall++
	if h.Key != nil {
		if err := db.Set(h.Key, h.Value); err != nil {
			return nil, err
		}
	}
	if h.Panic != nil {
		panic(h.Panic)
	}
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}

// Decorate returns a handler with the decorator applied.
func Decorate(h ledger.Handler, d ledger.Decorator) ledger.Handler {
	return &decoratedHandler{hn: h, dc: d}
}

type decoratedHandler struct {
	hn ledger.Handler
	dc ledger.Decorator
}

var _ ledger.Handler = (*decoratedHandler)(nil)

func (d *decoratedHandler) Check(ctx context.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	return d.dc.Check(ctx, db, tx, d.hn)
}

func (d *decoratedHandler) Deliver(ctx context.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	return d.dc.Deliver(ctx, db, tx, d.hn)
}
