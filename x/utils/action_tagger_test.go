package utils_test

import (
	"context"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/ledgertest"
	"github.com/iov-one/ledger/store"
	"github.com/iov-one/ledger/x/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/common"
)

func stringTag(key, value string) common.KVPair {
	return common.KVPair{
		Key:   []byte(key),
		Value: []byte(value),
	}
}

func TestActionTagger(t *testing.T) {
	_, escrow := ledgertest.NewKey()

	cases := map[string]struct {
		handler *ledgertest.Handler
		tx      ledger.Tx
		err     *errors.Error
		tags    []common.KVPair
	}{
		"simple call": {
			handler: &ledgertest.Handler{},
			tx:      &ledgertest.Tx{Msg: &ledgertest.Msg{RoutePath: "escrow/refund"}},
			tags:    []common.KVPair{stringTag(utils.ActionKey, "escrow/refund")},
		},
		"passes through error": {
			handler: &ledgertest.Handler{DeliverErr: errors.ErrUnauthorized},
			tx:      &ledgertest.Tx{Msg: &ledgertest.Msg{RoutePath: "escrow/refund"}},
			err:     errors.ErrUnauthorized,
		},
		"missing message fails early": {
			handler: &ledgertest.Handler{},
			tx:      &ledgertest.Tx{Err: errors.ErrEmpty},
			err:     errors.ErrEmpty,
		},
		"tags are additive": {
			handler: &ledgertest.Handler{
				DeliverResult: ledger.DeliverResult{Tags: []common.KVPair{stringTag(utils.ActionKey, "random")}},
			},
			tx:   &ledgertest.Tx{Msg: &ledgertest.Msg{RoutePath: "escrow/exchange"}},
			tags: []common.KVPair{stringTag(utils.ActionKey, "random"), stringTag(utils.ActionKey, "escrow/exchange")},
		},
		"returned data is the subject": {
			handler: &ledgertest.Handler{DeliverResult: ledger.DeliverResult{Data: escrow}},
			tx:      &ledgertest.Tx{Msg: &ledgertest.Msg{RoutePath: "escrow/initialize"}},
			tags: []common.KVPair{
				stringTag(utils.ActionKey, "escrow/initialize"),
				stringTag(utils.SubjectKey, escrow.String()),
			},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			stack := ledgertest.Decorate(tc.handler, utils.NewActionTagger())

			res, err := stack.Deliver(context.Background(), store.MemStore(), tc.tx)
			if tc.err != nil {
				assert.True(t, tc.err.Is(err), "got %+v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.tags, res.Tags)
		})
	}
}
