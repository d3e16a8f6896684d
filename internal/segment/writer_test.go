package segment_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/galagoread/galagoread/internal/indexer"
	"github.com/galagoread/galagoread/internal/segment"
)

func writeKeyFile(t *testing.T, path string, keys []uint32, valueOf func(uint32) uint32, pageSize uint32) {
	t.Helper()
	w, err := segment.CreateU32KeyWriter(path, uint32(len(keys)), pageSize)
	require.NoError(t, err)

	it := indexer.NewChunkedKeysIter(keys, int(pageSize))
	for {
		_, ok := it.Next()
		if !ok {
			break
		}
		page := it.Keys
		require.NoError(t, w.StartKeyBlock(page))
		for _, k := range page {
			_, err := w.WriteV32(valueOf(k))
			require.NoError(t, err)
		}
	}
	require.NoError(t, w.Finish())
}

func TestDenseRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dense.keys")
	const n = 10000
	keys := make([]uint32, n)
	for i := range keys {
		keys[i] = uint32(i)
	}
	writeKeyFile(t, path, keys, func(k uint32) uint32 { return k * 3 }, 64)

	r, err := segment.Open(path)
	require.NoError(t, err)
	defer r.Close()

	require.Equal(t, uint32(n), r.TotalKeys)
	require.Equal(t, uint32(64), r.PageSize)

	for i := uint32(0); i < n; i++ {
		ref, ok, err := r.FindKeyU32(i)
		require.NoError(t, err)
		require.True(t, ok)
		for j := uint32(0); j < ref.Offset; j++ {
			_, err := ref.Stream.ReadVByte()
			require.NoError(t, err)
		}
		value, err := ref.Stream.ReadVByte()
		require.NoError(t, err)
		require.Equal(t, uint64(i*3), value)
	}
}

func TestSparseRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sparse.keys")
	const n = 1000
	keys := make([]uint32, n)
	for i := range keys {
		keys[i] = uint32(i) * 7
	}
	writeKeyFile(t, path, keys, func(k uint32) uint32 { return (k / 7) * 3 }, 64)

	r, err := segment.Open(path)
	require.NoError(t, err)
	defer r.Close()

	for i := uint32(0); i < n; i++ {
		key := i * 7
		expected := i * 3
		ref, ok, err := r.FindKeyU32(key)
		require.NoError(t, err)
		require.True(t, ok)
		for j := uint32(0); j < ref.Offset; j++ {
			_, err := ref.Stream.ReadVByte()
			require.NoError(t, err)
		}
		value, err := ref.Stream.ReadVByte()
		require.NoError(t, err)
		require.Equal(t, uint64(expected), value)
	}
}

func TestFindKeyU32MissingKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.keys")
	keys := []uint32{2, 4, 6, 8, 10}
	writeKeyFile(t, path, keys, func(k uint32) uint32 { return k }, 4)

	r, err := segment.Open(path)
	require.NoError(t, err)
	defer r.Close()

	_, ok, err := r.FindKeyU32(3)
	require.NoError(t, err)
	require.False(t, ok)

	_, ok, err = r.FindKeyU32(1000)
	require.NoError(t, err)
	require.False(t, ok)
}
