package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/galagoread/galagoread/internal/config"
	"github.com/galagoread/galagoread/internal/galogger"
	"github.com/galagoread/galagoread/internal/query"
)

func newTestEngine(t *testing.T, dataDir string) *Engine {
	t.Helper()
	opts := config.NewDefaultOptions()
	opts.DataDir = dataDir
	eng, err := New(context.Background(), &Config{Options: &opts, Logger: galogger.NewDevelopment("engine-test")})
	require.NoError(t, err)
	return eng
}

// TestEngineSearchBM25OverRealCorpus drives a real query.Node through
// Engine.Search against a hand-built legacy corpus directory (postings,
// lengths, and names trees, not fakes), confirming the documented
// compile/mover/scorer/heap pipeline produces the expected ranking.
func TestEngineSearchBM25OverRealCorpus(t *testing.T) {
	dir := writeFixtureCorpus(t)
	eng := newTestEngine(t, dir)
	defer eng.Close()

	root := query.BM25{Child: query.Text{Term: "hello", Field: DefaultFieldName, DataNeeded: query.DataCounts}}
	results, err := eng.Search(root, 10)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// doc 0 carries "hello" twice in a five-word document, doc 2 once in
	// a six-word document; shorter length and higher term frequency both
	// push BM25 up, so doc 0 outranks doc 2.
	require.NoError(t, results[0].Error)
	require.Equal(t, uint32(0), uint32(results[0].Doc.Doc))
	require.Equal(t, "doc-zero", results[0].Name)
	require.Greater(t, results[0].Doc.Score, results[1].Doc.Score)

	require.NoError(t, results[1].Error)
	require.Equal(t, uint32(2), uint32(results[1].Doc.Doc))
	require.Equal(t, "doc-two", results[1].Name)
}

func TestEngineSearchSingleDocumentMatch(t *testing.T) {
	dir := writeFixtureCorpus(t)
	eng := newTestEngine(t, dir)
	defer eng.Close()

	root := query.BM25{Child: query.Text{Term: "world", Field: DefaultFieldName, DataNeeded: query.DataCounts}}
	results, err := eng.Search(root, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, uint32(1), uint32(results[0].Doc.Doc))
	require.Equal(t, "doc-one", results[0].Name)
}

func TestEngineSearchMissingTermReturnsNoResults(t *testing.T) {
	dir := writeFixtureCorpus(t)
	eng := newTestEngine(t, dir)
	defer eng.Close()

	root := query.BM25{Child: query.Text{Term: "nonexistent", Field: DefaultFieldName, DataNeeded: query.DataCounts}}
	results, err := eng.Search(root, 10)
	require.NoError(t, err)
	require.Empty(t, results)
}

func TestEngineSearchRespectsTopK(t *testing.T) {
	dir := writeFixtureCorpus(t)
	eng := newTestEngine(t, dir)
	defer eng.Close()

	root := query.BM25{Child: query.Text{Term: "hello", Field: DefaultFieldName, DataNeeded: query.DataCounts}}
	results, err := eng.Search(root, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, uint32(0), uint32(results[0].Doc.Doc))
}

func TestEngineCloseTwiceReturnsErrEngineClosed(t *testing.T) {
	dir := writeFixtureCorpus(t)
	eng := newTestEngine(t, dir)

	require.NoError(t, eng.Close())
	require.ErrorIs(t, eng.Close(), ErrEngineClosed)

	_, err := eng.Search(query.BM25{Child: query.Text{Term: "hello", Field: DefaultFieldName, DataNeeded: query.DataCounts}}, 10)
	require.ErrorIs(t, err, ErrEngineClosed)
}
