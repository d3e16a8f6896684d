package indexer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/galagoread/galagoread/internal/indexer"
)

func TestChunkedIntListSpansMultipleChunks(t *testing.T) {
	var list indexer.ChunkedIntList
	const n = indexer.IndexChunkSize + 10
	for i := uint32(0); i < n; i++ {
		list.Push(i)
	}
	require.Equal(t, uint32(n), uint32(list.Len()))

	flat := list.ToSlice()
	require.Len(t, flat, n)
	for i := uint32(0); i < n; i++ {
		require.Equal(t, i, flat[i])
	}
}

func TestCompressedSortedIntSetDeltaGaps(t *testing.T) {
	var set indexer.CompressedSortedIntSet
	for _, v := range []uint32{1, 2, 3, 4} {
		set.Push(v)
	}
	require.Equal(t, 4, set.Len())

	encoded := set.EncodeVByte()
	// First value raw, then gaps of 1: four one-byte vbytes of 1.
	require.Equal(t, []byte{0x81, 0x81, 0x81, 0x81}, encoded)
}

func TestIsContiguous(t *testing.T) {
	require.True(t, indexer.IsContiguous(nil))
	require.True(t, indexer.IsContiguous([]uint32{5, 6, 7, 8}))
	require.False(t, indexer.IsContiguous([]uint32{5, 6, 8}))
}

func TestChunkedKeysIterPagesLikeSliceChunks(t *testing.T) {
	keys := make([]uint32, 1000)
	for i := range keys {
		keys[i] = uint32(i)
	}

	it := indexer.NewChunkedKeysIter(keys, 75)
	pos := 0
	for {
		first, ok := it.Next()
		if !ok {
			require.Equal(t, len(keys), pos)
			break
		}
		require.Equal(t, keys[pos], first)
		require.True(t, indexer.IsContiguous(it.Keys))
		pos += len(it.Keys)
	}
}

func newFixture(t *testing.T) (*indexer.Indexer, indexer.FieldID, indexer.FieldID) {
	t.Helper()
	ix := indexer.New()
	idField := ix.DeclareField("id", indexer.FieldMetadata{Kind: indexer.FieldKindCategorical, Stored: true})
	bodyField := ix.DeclareField("body", indexer.FieldMetadata{
		Kind:    indexer.FieldKindTextual,
		Options: indexer.TextOptionsPositions,
		Stored:  true,
	})
	return ix, idField, bodyField
}

func TestInsertDocumentBuildsVocabAndPostings(t *testing.T) {
	ix, idField, bodyField := newFixture(t)

	var doc0 indexer.DocFields
	doc0.WithCategorical(idField, "doc0").WithTextual(bodyField, "hello world hello")
	d0, err := ix.InsertDocument(doc0.Fields())
	require.NoError(t, err)
	require.Equal(t, uint32(0), uint32(d0))

	var doc1 indexer.DocFields
	doc1.WithCategorical(idField, "doc1").WithTextual(bodyField, "hello yolo yolo yolo")
	d1, err := ix.InsertDocument(doc1.Fields())
	require.NoError(t, err)
	require.Equal(t, uint32(1), uint32(d1))

	helloID, ok := ix.FindTermID(bodyField, "hello")
	require.True(t, ok)

	posting, ok := ix.Posting(bodyField, helloID)
	require.True(t, ok)
	require.Equal(t, 2, posting.NumDocs())
	require.Equal(t, uint64(3), posting.TotalTermFrequency) // 2 in doc0, 1 in doc1

	yoloID, ok := ix.FindTermID(bodyField, "yolo")
	require.True(t, ok)
	yoloPosting, ok := ix.Posting(bodyField, yoloID)
	require.True(t, ok)
	require.Equal(t, 1, yoloPosting.NumDocs())
	require.Equal(t, uint64(3), yoloPosting.TotalTermFrequency)

	lengths, ok := ix.LengthColumn(bodyField)
	require.True(t, ok)
	require.Equal(t, uint32(2), lengths.NumDocs())
	require.Equal(t, uint64(3+4), lengths.Total)

	stored, ok := ix.StoredValue(idField, d1)
	require.True(t, ok)
	require.Equal(t, "doc1", stored.Text)
}

func TestGetStatsReflectsPostingsAndLengths(t *testing.T) {
	ix, _, bodyField := newFixture(t)

	var doc0 indexer.DocFields
	doc0.WithTextual(bodyField, "the cat sat on the mat")
	_, err := ix.InsertDocument(doc0.Fields())
	require.NoError(t, err)

	theID, ok := ix.FindTermID(bodyField, "the")
	require.True(t, ok)

	st, ok := ix.GetStats(bodyField, theID)
	require.True(t, ok)
	require.Equal(t, uint64(1), st.DocumentFrequency)
	require.Equal(t, uint64(2), st.CollectionFrequency)
	require.Equal(t, uint64(1), st.DocumentCount)
	require.Equal(t, uint64(6), st.CollectionLength)
}

func TestInsertDocumentRejectsUndeclaredField(t *testing.T) {
	ix := indexer.New()
	var doc indexer.DocFields
	doc.WithCategorical(indexer.FieldID(99), "x")
	_, err := ix.InsertDocument(doc.Fields())
	require.Error(t, err)
}

func TestDenseFloatFieldRoundTripsBits(t *testing.T) {
	ix := indexer.New()
	score := ix.DeclareField("score", indexer.FieldMetadata{Kind: indexer.FieldKindDenseFloat})

	var doc indexer.DocFields
	doc.WithFloat(score, 3.5)
	_, err := ix.InsertDocument(doc.Fields())
	require.NoError(t, err)

	column, ok := ix.DenseField(score)
	require.True(t, ok)
	require.Len(t, column.Blob, 1)
}
