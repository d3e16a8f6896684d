package segment_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/galagoread/galagoread/internal/indexer"
	"github.com/galagoread/galagoread/internal/segment"
)

func buildChapterIndex(t *testing.T) (*indexer.Indexer, indexer.FieldID, indexer.FieldID) {
	t.Helper()
	ix := indexer.New()
	title := ix.DeclareField("title", indexer.FieldMetadata{Kind: indexer.FieldKindCategorical})
	body := ix.DeclareField("body", indexer.FieldMetadata{
		Kind: indexer.FieldKindTextual, Options: indexer.TextOptionsPositions, Stored: true,
	})

	chapters := []string{
		"the cat sat on the mat",
		"the dog ran in the park",
		"the bird flew over the tree",
		"the fish swam under the bridge",
		"the fox jumped through the grass",
	}
	for i, text := range chapters {
		doc := (&indexer.DocFields{}).
			WithCategorical(title, "chapter").
			WithTextual(body, text)
		_, err := ix.InsertDocument(doc.Fields())
		require.NoError(t, err)
		require.Equal(t, uint32(i+1), ix.MaxDocument())
	}
	return ix, title, body
}

func TestFlushAndReopenTermLookup(t *testing.T) {
	ix, _, body := buildChapterIndex(t)

	dir, err := segment.Flush(ix, segment.FlushOptions{
		DataDir:   t.TempDir(),
		Directory: "segments",
		Prefix:    "segment",
		PageSize:  64,
	})
	require.NoError(t, err)

	seg, err := segment.OpenSegment(dir)
	require.NoError(t, err)
	defer seg.Close()

	require.Equal(t, uint32(5), seg.Metadata.MaximumDocument)

	bodyName, ok := ix.FieldName(body)
	require.True(t, ok)

	record, found, err := seg.FindTerm(bodyName, "the")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 5, record.NumDocs())

	vocab, err := segment.ReadVocab(dir, bodyName)
	require.NoError(t, err)
	_, inVocab := vocab["the"]
	require.True(t, inVocab)

	_, _, err = seg.FindTerm(bodyName, "nonexistentword")
	require.NoError(t, err)
}

func TestFlushSegmentDirectoryRotation(t *testing.T) {
	ix, _, _ := buildChapterIndex(t)
	dataDir := t.TempDir()
	opts := segment.FlushOptions{DataDir: dataDir, Directory: "segments", Prefix: "segment", PageSize: 64}

	first, err := segment.Flush(ix, opts)
	require.NoError(t, err)

	second, err := segment.Flush(ix, opts)
	require.NoError(t, err)

	require.NotEqual(t, first, second)
	require.Equal(t, filepath.Dir(first), filepath.Dir(second))
}

func TestFlushStoredBodyField(t *testing.T) {
	ix, _, body := buildChapterIndex(t)
	dir, err := segment.Flush(ix, segment.FlushOptions{
		DataDir: t.TempDir(), Directory: "segments", Prefix: "segment", PageSize: 64,
	})
	require.NoError(t, err)

	seg, err := segment.OpenSegment(dir)
	require.NoError(t, err)
	defer seg.Close()

	bodyName, _ := ix.FieldName(body)
	records, err := seg.StoredValues(bodyName)
	require.NoError(t, err)
	require.Len(t, records, 5)
	require.Equal(t, "the cat sat on the mat", records[0].Text)
}

func TestFlushTermFrequencyMatchesOccurrences(t *testing.T) {
	ix, _, body := buildChapterIndex(t)
	dir, err := segment.Flush(ix, segment.FlushOptions{
		DataDir: t.TempDir(), Directory: "segments", Prefix: "segment", PageSize: 64,
	})
	require.NoError(t, err)

	seg, err := segment.OpenSegment(dir)
	require.NoError(t, err)
	defer seg.Close()

	bodyName, _ := ix.FieldName(body)
	record, found, err := seg.FindTerm(bodyName, "the")
	require.NoError(t, err)
	require.True(t, found)

	// Each of the 5 chapters uses "the" exactly twice.
	require.Equal(t, uint64(10), record.TotalTermFrequency)
	for _, positions := range record.Positions {
		require.Len(t, positions, 2)
	}
}
