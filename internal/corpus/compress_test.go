package corpus_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/galagoread/galagoread/internal/btree"
	"github.com/galagoread/galagoread/internal/corpus"
)

func TestCompressDecompressRoundTrip(t *testing.T) {
	doc := corpus.Document{
		Identifier: 7,
		Name:       "chapter-three",
		Metadata:   []corpus.MetadataPair{{Key: "author", Value: "lovelace"}, {Key: "year", Value: "1843"}},
		Text:       "the analytical engine weaves algebraic patterns",
	}

	raw := corpus.Compress(doc)
	got, err := corpus.Decompress(btree.ValueEntry{Source: raw, Start: 0, End: len(raw)})
	require.NoError(t, err)
	require.Equal(t, doc, got)
}

func TestCompressEmptyMetadata(t *testing.T) {
	doc := corpus.Document{Identifier: 1, Name: "doc0", Text: "hello"}

	raw := corpus.Compress(doc)
	got, err := corpus.Decompress(btree.ValueEntry{Source: raw, Start: 0, End: len(raw)})
	require.NoError(t, err)
	require.Equal(t, uint64(1), got.Identifier)
	require.Equal(t, "doc0", got.Name)
	require.Equal(t, "hello", got.Text)
	require.Empty(t, got.Metadata)
}
