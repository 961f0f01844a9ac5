package ledger_test

import (
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoQuery struct{}

func (echoQuery) Query(db ledger.ReadOnlyKVStore, mod string, data []byte) ([]ledger.Model, error) {
	return []ledger.Model{ledger.Pair([]byte(mod), data)}, nil
}

func TestQueryRouter(t *testing.T) {
	r := ledger.NewQueryRouter()
	r.RegisterAll(func(r ledger.QueryRouter) {
		r.Register("/escrows", echoQuery{})
		r.Register("/accounts", echoQuery{})
	})
	assert.Equal(t, []string{"/accounts", "/escrows"}, r.Paths())
	assert.NotNil(t, r.Handler("/escrows"))
	assert.Nil(t, r.Handler("/vaults"))

	assert.Panics(t, func() { r.Register("/escrows", echoQuery{}) })
	assert.Panics(t, func() { r.Register("escrows", echoQuery{}) })
	assert.Panics(t, func() { r.Register("/escrows?prefix", echoQuery{}) })

	db := store.MemStore()
	res, err := r.Query(db, "/escrows?prefix", []byte("maker"))
	require.NoError(t, err)
	assert.Equal(t, []ledger.Model{ledger.Pair([]byte(ledger.PrefixQueryMod), []byte("maker"))}, res)

	res, err = r.Query(db, "/escrows", []byte("addr"))
	require.NoError(t, err)
	assert.Equal(t, []byte(ledger.KeyQueryMod), res[0].Key)

	_, err = r.Query(db, "/vaults", nil)
	assert.True(t, errors.ErrNotFound.Is(err), "got %+v", err)
}

func TestSplitQueryPath(t *testing.T) {
	path, mod := ledger.SplitQueryPath("/escrows?prefix")
	assert.Equal(t, "/escrows", path)
	assert.Equal(t, "prefix", mod)

	path, mod = ledger.SplitQueryPath("/escrows")
	assert.Equal(t, "/escrows", path)
	assert.Equal(t, ledger.KeyQueryMod, mod)
}
