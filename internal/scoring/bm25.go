package scoring

import (
	"math"

	"github.com/galagoread/galagoread/internal/docid"
	"github.com/galagoread/galagoread/internal/stats"
)

// BM25Eval scores a term's postings against a document-length column using
// Okapi BM25. idf is precomputed once at construction from the term's
// corpus-wide stats, matching Galago's own BM25 (log2 would be cheaper but
// this follows Galago's choice of natural log).
type BM25Eval struct {
	b, k      float32
	averageDL float32
	idf       float32
	child     EvalNode
	lengths   EvalNode
}

// NewBM25Eval builds a BM25 scorer over child (a term's postings) and
// lengths (the field's document-length column).
func NewBM25Eval(child, lengths EvalNode, b, k float32, s stats.CountStats) *BM25Eval {
	idf := float64(s.DocumentCount) / (float64(s.DocumentFrequency) + 0.5)
	return &BM25Eval{
		b:         b,
		k:         k,
		child:     child,
		lengths:   lengths,
		averageDL: s.AverageDocLength(),
		idf:       float32(math.Log(idf)),
	}
}

func (e *BM25Eval) CurrentDocument() docid.DocID { return e.child.CurrentDocument() }

func (e *BM25Eval) SyncTo(document docid.DocID) (docid.DocID, error) {
	return e.child.SyncTo(document)
}

func (e *BM25Eval) Count(doc docid.DocID) uint32 { return e.child.Count(doc) }

// Score computes idf * tf*(k+1) / (tf + k*(1-b+b*dl/avgdl)).
func (e *BM25Eval) Score(doc docid.DocID) float32 {
	count := float32(e.child.Count(doc))
	length := float32(e.lengths.Count(doc))
	num := count * (e.k + 1.0)
	denom := count + e.k*(1.0-e.b+(e.b*length/e.averageDL))
	return e.idf * num / denom
}

func (e *BM25Eval) Matches(doc docid.DocID) bool { return e.child.Matches(doc) }
func (e *BM25Eval) EstimateDF() uint64           { return e.child.EstimateDF() }

func (e *BM25Eval) Explain(doc docid.DocID) Explanation {
	info := "bm25"
	child := []Explanation{e.child.Explain(doc)}
	if e.Matches(doc) {
		return Match(e.Score(doc), info, child)
	}
	return Miss(info, child)
}
