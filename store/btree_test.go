package store

import (
	"testing"

	"github.com/iov-one/ledger/errors"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustGet(t testing.TB, kv ReadOnlyKVStore, key []byte) []byte {
	t.Helper()
	v, err := kv.Get(key)
	require.NoError(t, err)
	return v
}

func mustHas(t testing.TB, kv ReadOnlyKVStore, key []byte) bool {
	t.Helper()
	ok, err := kv.Has(key)
	require.NoError(t, err)
	return ok
}

func readAll(t testing.TB, it Iterator) []Model {
	t.Helper()
	defer it.Release()
	var res []Model
	k, v, err := it.Next()
	for err == nil {
		res = append(res, Model{Key: k, Value: v})
		k, v, err = it.Next()
	}
	require.True(t, errors.ErrIteratorDone.Is(err), "unexpected error: %+v", err)
	return res
}

// TestBTreeCacheGetSet checks that writes are visible only in the layer they
// were made in, until written down.
func TestBTreeCacheGetSet(t *testing.T) {
	devnull := BTreeCacheable{EmptyKVStore{}}
	base := devnull.CacheWrap()

	k, v := []byte("vault"), []byte("10")
	assert.Nil(t, mustGet(t, base, k))
	assert.False(t, mustHas(t, base, k))
	require.NoError(t, base.Set(k, v))
	assert.Equal(t, v, mustGet(t, base, k))
	assert.True(t, mustHas(t, base, k))

	cache := base.CacheWrap()
	assert.Equal(t, v, mustGet(t, cache, k))

	k2, v2 := []byte("escrow"), []byte("record")
	require.NoError(t, cache.Set(k2, v2))
	assert.Equal(t, v2, mustGet(t, cache, k2))
	assert.Nil(t, mustGet(t, base, k2))

	require.NoError(t, cache.Write())
	assert.Equal(t, v2, mustGet(t, base, k2))

	// discarded changes never reach the base
	k3 := []byte("maker")
	c2 := base.CacheWrap()
	require.NoError(t, c2.Set(k3, []byte("x")))
	require.NoError(t, c2.Delete(k))
	c2.Discard()
	assert.Nil(t, mustGet(t, base, k3))
	assert.Equal(t, v, mustGet(t, base, k))

	c3 := base.CacheWrap()
	require.NoError(t, c3.Delete(k))
	assert.False(t, mustHas(t, c3, k))
	assert.True(t, mustHas(t, base, k))
	require.NoError(t, c3.Write())
	assert.Nil(t, mustGet(t, base, k))

	require.NoError(t, base.Write())
	assert.Nil(t, mustGet(t, devnull, k2))
}

func TestBTreeCacheIterators(t *testing.T) {
	base := MemStore()
	for _, k := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, base.Set([]byte(k), []byte("base-"+k)))
	}

	cache := base.CacheWrap()
	require.NoError(t, cache.Set([]byte("b"), []byte("new-b")))
	require.NoError(t, cache.Delete([]byte("c")))
	require.NoError(t, cache.Set([]byte("cc"), []byte("new-cc")))
	require.NoError(t, cache.Delete([]byte("zz")))

	cases := map[string]struct {
		start, end []byte
		reverse    bool
		want       []string
	}{
		"full ascending": {
			want: []string{"a", "b", "cc", "d", "e"},
		},
		"full descending": {
			reverse: true,
			want:    []string{"e", "d", "cc", "b", "a"},
		},
		"bounded ascending": {
			start: []byte("b"),
			end:   []byte("d"),
			want:  []string{"b", "cc"},
		},
		"bounded descending": {
			start:   []byte("b"),
			end:     []byte("e"),
			reverse: true,
			want:    []string{"d", "cc", "b"},
		},
		"open start": {
			end:  []byte("c"),
			want: []string{"a", "b"},
		},
		"open end": {
			start: []byte("d"),
			want:  []string{"d", "e"},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var (
				it  Iterator
				err error
			)
			if tc.reverse {
				it, err = cache.ReverseIterator(tc.start, tc.end)
			} else {
				it, err = cache.Iterator(tc.start, tc.end)
			}
			require.NoError(t, err)
			got := readAll(t, it)
			keys := make([]string, len(got))
			for i, m := range got {
				keys[i] = string(m.Key)
			}
			assert.Equal(t, tc.want, keys)
		})
	}

	it, err := cache.Iterator(nil, nil)
	require.NoError(t, err)
	got := readAll(t, it)
	require.Len(t, got, 5)
	assert.Equal(t, []byte("new-b"), got[1].Value)
}

func TestNonAtomicBatch(t *testing.T) {
	base := MemStore()
	b := NewNonAtomicBatch(base)
	require.NoError(t, b.Set([]byte("one"), []byte("1")))
	require.NoError(t, b.Set([]byte("two"), []byte("2")))
	require.NoError(t, b.Delete([]byte("one")))

	// nothing lands before Write
	assert.Nil(t, mustGet(t, base, []byte("two")))
	require.NoError(t, b.Write())
	assert.Nil(t, mustGet(t, base, []byte("one")))
	assert.Equal(t, []byte("2"), mustGet(t, base, []byte("two")))
}

func TestNestedSavepoints(t *testing.T) {
	Convey("Given a store with a funded vault", t, func() {
		base := MemStore()
		So(base.Set([]byte("vault"), []byte("10")), ShouldBeNil)

		Convey("a savepoint that fails halfway leaves no trace", func() {
			sp := base.CacheWrap()
			So(sp.Set([]byte("vault"), []byte("0")), ShouldBeNil)
			So(sp.Set([]byte("taker"), []byte("10")), ShouldBeNil)
			sp.Discard()

			v, err := base.Get([]byte("vault"))
			So(err, ShouldBeNil)
			So(string(v), ShouldEqual, "10")
			ok, err := base.Has([]byte("taker"))
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)
		})

		Convey("an inner savepoint only lands when the outer one is written", func() {
			outer := base.CacheWrap()
			inner := outer.CacheWrap()
			So(inner.Delete([]byte("vault")), ShouldBeNil)
			So(inner.Write(), ShouldBeNil)

			ok, err := base.Has([]byte("vault"))
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)

			So(outer.Write(), ShouldBeNil)
			ok, err = base.Has([]byte("vault"))
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)
		})
	})
}
