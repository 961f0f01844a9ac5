package iavl

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeCommitStore(t *testing.T) (CommitStore, func()) {
	t.Helper()
	tmpDir, err := ioutil.TempDir("", "iavl-adapter-")
	require.NoError(t, err)
	commit, err := NewCommitStore(tmpDir, "base")
	require.NoError(t, err)
	return commit, func() { os.RemoveAll(tmpDir) }
}

func assertGetHas(t testing.TB, kv store.ReadOnlyKVStore, key, val []byte, has bool) {
	t.Helper()
	got, err := kv.Get(key)
	require.NoError(t, err)
	assert.Equal(t, val, got)
	exists, err := kv.Has(key)
	require.NoError(t, err)
	assert.Equal(t, has, exists)
}

func TestCacheGetSet(t *testing.T) {
	commit, cleanup := makeCommitStore(t)
	defer cleanup()
	base := commit.Adapter()

	k, v := []byte("escrow"), []byte("record")
	assertGetHas(t, base, k, nil, false)
	require.NoError(t, base.Set(k, v))
	assertGetHas(t, base, k, v, true)

	cache := base.CacheWrap()
	assertGetHas(t, cache, k, v, true)

	k2, v2 := []byte("vault"), []byte("10")
	require.NoError(t, cache.Set(k2, v2))
	assertGetHas(t, cache, k2, v2, true)
	assertGetHas(t, base, k2, nil, false)

	require.NoError(t, cache.Write())
	assertGetHas(t, base, k2, v2, true)

	c2 := base.CacheWrap()
	require.NoError(t, c2.Delete(k))
	c2.Discard()
	assertGetHas(t, base, k, v, true)
}

func TestCommitAndReload(t *testing.T) {
	commit, cleanup := makeCommitStore(t)
	defer cleanup()

	k, v := []byte("maker"), []byte("alice")

	cache := commit.CacheWrap()
	require.NoError(t, cache.Set(k, v))
	require.NoError(t, cache.Write())

	// not visible in the committed view until Commit
	got, err := commit.Get(k)
	require.NoError(t, err)
	assert.Nil(t, got)

	id, err := commit.Commit()
	require.NoError(t, err)
	assert.Equal(t, int64(1), id.Version)
	assert.NotEmpty(t, id.Hash)

	got, err = commit.Get(k)
	require.NoError(t, err)
	assert.Equal(t, v, got)

	latest, err := commit.LatestVersion()
	require.NoError(t, err)
	assert.Equal(t, id, latest)

	// second commit without changes keeps the hash
	id2, err := commit.Commit()
	require.NoError(t, err)
	assert.Equal(t, int64(2), id2.Version)
	assert.Equal(t, id.Hash, id2.Hash)
}

func TestAdapterIterators(t *testing.T) {
	commit := MustMemStore()
	base := commit.Adapter()
	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, base.Set([]byte(k), []byte(k)))
	}

	collect := func(it store.Iterator) []string {
		defer it.Release()
		var keys []string
		k, _, err := it.Next()
		for err == nil {
			keys = append(keys, string(k))
			k, _, err = it.Next()
		}
		require.True(t, errors.ErrIteratorDone.Is(err))
		return keys
	}

	it, err := base.Iterator([]byte("a"), []byte("c"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, collect(it))

	it, err = base.ReverseIterator(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, collect(it))

	// a cache layer merges with the tree
	cache := base.CacheWrap()
	require.NoError(t, cache.Delete([]byte("b")))
	require.NoError(t, cache.Set([]byte("d"), []byte("d")))
	it, err = cache.Iterator(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c", "d"}, collect(it))
}
