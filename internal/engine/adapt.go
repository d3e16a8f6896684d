package engine

import (
	"github.com/galagoread/galagoread/internal/docid"
	"github.com/galagoread/galagoread/internal/postings"
	"github.com/galagoread/galagoread/internal/scoring"
)

// termIter is the subset of DocsIter/CountsIter/PositionsIter's movement
// contract an adapter needs. Its Matches returns an error because the
// underlying decoder can hit corruption mid-block; scoring.EvalNode has no
// channel for that, so the adapter stores the first error it sees and
// treats a failed Matches call as "does not match" until asked.
type termIter interface {
	CurrentDocument() docid.DocID
	SyncTo(document docid.DocID) (docid.DocID, error)
	Matches(doc docid.DocID) (bool, error)
	EstimateDF() uint64
	Explain(doc docid.DocID) scoring.Explanation
}

// termEval adapts a postings decoder (DocsIter, CountsIter, or
// PositionsIter) to scoring.EvalNode. countFn is nil for a docs-only
// iterator, which carries no per-document frequency at all.
type termEval struct {
	iter    termIter
	countFn func(docid.DocID) uint32
	err     error
}

// Err reports the first decode error this adapter observed, if any. The
// query compiler checks this after a search completes rather than
// threading an error return through every EvalNode method.
func (e *termEval) Err() error { return e.err }

func (e *termEval) CurrentDocument() docid.DocID { return e.iter.CurrentDocument() }

func (e *termEval) SyncTo(document docid.DocID) (docid.DocID, error) {
	d, err := e.iter.SyncTo(document)
	if err != nil && e.err == nil {
		e.err = err
	}
	return d, err
}

func (e *termEval) Count(doc docid.DocID) uint32 {
	if e.countFn == nil {
		return 0
	}
	return e.countFn(doc)
}

// Score is never called directly on a bare term adapter; callers wrap it
// in scoring.NewBM25Eval or scoring.NewWeightedSumEval, which compute the
// score themselves from Count/Matches.
func (e *termEval) Score(docid.DocID) float32 { return 0 }

func (e *termEval) Matches(doc docid.DocID) bool {
	ok, err := e.iter.Matches(doc)
	if err != nil && e.err == nil {
		e.err = err
	}
	return err == nil && ok
}

func (e *termEval) EstimateDF() uint64 { return e.iter.EstimateDF() }

func (e *termEval) Explain(doc docid.DocID) scoring.Explanation { return e.iter.Explain(doc) }

// newDocsEval adapts a docs-only iterator. It has no counts: Count always
// returns 0, so it can only be used under a boolean combinator, never BM25.
func newDocsEval(it *postings.DocsIter) *termEval {
	return &termEval{iter: it}
}

// newCountsEval adapts a counts iterator, exposing per-document term count.
func newCountsEval(it *postings.CountsIter) *termEval {
	return &termEval{iter: it, countFn: it.Count}
}

// newPositionsEval adapts a positions iterator, exposing per-document term
// count (positions themselves are reached separately via GetPositions for
// window operators).
func newPositionsEval(it *postings.PositionsIter) *termEval {
	return &termEval{iter: it, countFn: it.Count}
}
