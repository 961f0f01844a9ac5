package orm

import (
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/codec"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counter struct {
	Count uint64
}

func (c *counter) Marshal() ([]byte, error) {
	return codec.NewEncoder().Uint64(1, c.Count).Result(), nil
}

func (c *counter) Unmarshal(raw []byte) error {
	*c = counter{}
	return codec.Walk(raw, func(f codec.Field) error {
		if f.Num != 1 {
			return nil
		}
		v, err := f.Uint64()
		c.Count = v
		return err
	})
}

func (c *counter) Validate() error {
	if c.Count == 0 {
		return errors.Wrap(errors.ErrInvalidModel, "zero count")
	}
	return nil
}

type other struct{ counter }

func TestModelBucket(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts", &counter{})

	key := []byte("one")
	var c counter
	err := b.One(db, key, &c)
	assert.True(t, errors.ErrNotFound.Is(err), "got %+v", err)

	require.NoError(t, b.Insert(db, key, &counter{Count: 5}))
	require.NoError(t, b.One(db, key, &c))
	assert.Equal(t, uint64(5), c.Count)

	// insert refuses to overwrite, put does not
	err = b.Insert(db, key, &counter{Count: 6})
	assert.True(t, errors.ErrDuplicate.Is(err), "got %+v", err)
	require.NoError(t, b.Put(db, key, &counter{Count: 7}))
	require.NoError(t, b.One(db, key, &c))
	assert.Equal(t, uint64(7), c.Count)

	// invalid models are never stored
	err = b.Put(db, []byte("two"), &counter{})
	assert.True(t, errors.ErrInvalidModel.Is(err), "got %+v", err)

	// wrong destination type
	err = b.One(db, key, &other{})
	assert.True(t, errors.ErrInvalidType.Is(err), "got %+v", err)

	ok, err := b.Has(db, key)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, b.Delete(db, key))
	err = b.Delete(db, key)
	assert.True(t, errors.ErrNotFound.Is(err), "got %+v", err)
	ok, err = b.Has(db, key)
	require.NoError(t, err)
	assert.False(t, ok)

	err = b.One(db, nil, &c)
	assert.True(t, errors.ErrEmpty.Is(err))
}

func TestModelBucketQuery(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts", &counter{})
	require.NoError(t, b.Put(db, []byte("aa"), &counter{Count: 1}))
	require.NoError(t, b.Put(db, []byte("ab"), &counter{Count: 2}))
	require.NoError(t, b.Put(db, []byte("b"), &counter{Count: 3}))

	qr := ledger.NewQueryRouter()
	b.Register("counters", qr)
	h := qr.Handler("/counters")
	require.NotNil(t, h)

	res, err := h.Query(db, ledger.KeyQueryMod, []byte("ab"))
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, b.DBKey([]byte("ab")), res[0].Key)

	res, err = h.Query(db, ledger.KeyQueryMod, []byte("zz"))
	require.NoError(t, err)
	assert.Empty(t, res)

	res, err = h.Query(db, ledger.PrefixQueryMod, []byte("a"))
	require.NoError(t, err)
	assert.Len(t, res, 2)

	// the prefix query never leaks outside the bucket
	require.NoError(t, db.Set([]byte("cnts;"), []byte("x")))
	res, err = h.Query(db, ledger.PrefixQueryMod, nil)
	require.NoError(t, err)
	assert.Len(t, res, 3)

	_, err = h.Query(db, "bogus", nil)
	assert.True(t, errors.ErrInvalidInput.Is(err))
}

func TestPrefixRange(t *testing.T) {
	cases := map[string]struct {
		prefix []byte
		end    []byte
	}{
		"normal":                 {[]byte{1, 3, 4}, []byte{1, 3, 5}},
		"normal short":           {[]byte{79}, []byte{80}},
		"empty cases":            {nil, nil},
		"roll-over example 1":    {[]byte{17, 28, 255}, []byte{17, 29, 0}},
		"roll-over example 2":    {[]byte{15, 42, 255, 255}, []byte{15, 43, 0, 0}},
		"pathological roll-over": {[]byte{255, 255, 255, 255}, nil},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			start, end := prefixRange(tc.prefix)
			assert.Equal(t, tc.prefix, start)
			assert.Equal(t, tc.end, end)
		})
	}
}
