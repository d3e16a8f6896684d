package scoring_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/galagoread/galagoread/internal/docid"
	"github.com/galagoread/galagoread/internal/scoring"
)

// constEval is a minimal scoring.EvalNode stand-in: always at the same
// document, always matching, with a fixed score.
type constEval struct {
	doc   docid.DocID
	score float32
}

func (c *constEval) CurrentDocument() docid.DocID            { return c.doc }
func (c *constEval) SyncTo(d docid.DocID) (docid.DocID, error) { return c.doc, nil }
func (c *constEval) Count(docid.DocID) uint32                 { return 1 }
func (c *constEval) Score(docid.DocID) float32                { return c.score }
func (c *constEval) Matches(doc docid.DocID) bool              { return doc == c.doc }
func (c *constEval) EstimateDF() uint64                        { return 1 }
func (c *constEval) Explain(doc docid.DocID) scoring.Explanation {
	if c.Matches(doc) {
		return scoring.Match(c.score, "const", nil)
	}
	return scoring.Miss("const", nil)
}

func TestWeightedSumScoresOnlyMatchingChildren(t *testing.T) {
	a := &constEval{doc: 5, score: 2.0}
	b := &constEval{doc: 7, score: 3.0}
	eval := scoring.NewWeightedSumEval([]scoring.EvalNode{a, b}, []float32{0.5, 1.0})

	require.True(t, eval.Matches(5))
	require.Equal(t, float32(1.0), eval.Score(5)) // only a matches: 0.5*2.0

	require.True(t, eval.Matches(7))
	require.Equal(t, float32(3.0), eval.Score(7)) // only b matches: 1.0*3.0

	require.False(t, eval.Matches(9))
	require.Equal(t, float32(0), eval.Score(9))
}

func TestWeightedSumCurrentDocumentIsMinimumAcrossChildren(t *testing.T) {
	a := &constEval{doc: 5}
	b := &constEval{doc: 2}
	eval := scoring.NewWeightedSumEval([]scoring.EvalNode{a, b}, []float32{1, 1})
	require.Equal(t, docid.DocID(2), eval.CurrentDocument())
}

func TestWeightedSumEstimateDFIsMaxAcrossChildren(t *testing.T) {
	a := missingDFEval{df: 3}
	b := missingDFEval{df: 9}
	eval := scoring.NewWeightedSumEval([]scoring.EvalNode{a, b}, []float32{1, 1})
	require.Equal(t, uint64(9), eval.EstimateDF())
}

type missingDFEval struct{ df uint64 }

func (m missingDFEval) CurrentDocument() docid.DocID             { return docid.NoMore }
func (m missingDFEval) SyncTo(docid.DocID) (docid.DocID, error)  { return docid.NoMore, nil }
func (m missingDFEval) Count(docid.DocID) uint32                 { return 0 }
func (m missingDFEval) Score(docid.DocID) float32                { return 0 }
func (m missingDFEval) Matches(docid.DocID) bool                 { return false }
func (m missingDFEval) EstimateDF() uint64                       { return m.df }
func (m missingDFEval) Explain(docid.DocID) scoring.Explanation  { return scoring.Miss("missing", nil) }

func TestMissingTermEvalNeverMatches(t *testing.T) {
	var m scoring.MissingTermEval
	require.False(t, m.Matches(0))
	require.True(t, m.CurrentDocument().IsDone())
	require.Equal(t, uint64(0), m.EstimateDF())
}
