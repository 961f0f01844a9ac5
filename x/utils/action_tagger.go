package utils

import (
	"context"

	"github.com/iov-one/ledger"
	"github.com/tendermint/tendermint/libs/common"
)

// ActionTagger will inspect the message being executed and add a tag
// `action = msg.Path()`, so clients have a standard way to search or
// subscribe to eg. escrow exchanges.
//
// When the result carries data it is also tagged as `subject`. Escrow
// instructions return the escrow address there, which makes the whole
// history of a single escrow searchable.
type ActionTagger struct{}

var _ ledger.Decorator = ActionTagger{}

const (
	// ActionKey is used by ActionTagger as the Key in the Tag it appends
	ActionKey = "action"
	// SubjectKey tags the data returned by the handler.
	SubjectKey = "subject"
)

// NewActionTagger creates a ActionTagger decorator
func NewActionTagger() ActionTagger {
	return ActionTagger{}
}

// Check just passes the request along
func (ActionTagger) Check(ctx context.Context, db ledger.KVStore, tx ledger.Tx, next ledger.Checker) (*ledger.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

// Deliver appends a tag on the result if there is a success.
func (ActionTagger) Deliver(ctx context.Context, db ledger.KVStore, tx ledger.Tx, next ledger.Deliverer) (*ledger.DeliverResult, error) {
	// if we error in reporting, let's do so early before dispatching
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}

	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res.Tags = append(res.Tags, common.KVPair{
		Key:   []byte(ActionKey),
		Value: []byte(msg.Path()),
	})
	if len(res.Data) != 0 {
		res.Tags = append(res.Tags, common.KVPair{
			Key:   []byte(SubjectKey),
			Value: []byte(ledger.Address(res.Data).String()),
		})
	}
	return res, nil
}
