package postings

import (
	"fmt"

	"github.com/galagoread/galagoread/internal/docid"
	"github.com/galagoread/galagoread/internal/scoring"
)

// Explain implements scoring.EvalNode for a dense length column: it always
// matches, reporting the decoded length as its "score".
func (l *Lengths) Explain(doc docid.DocID) scoring.Explanation {
	info := "lengths"
	return scoring.Match(float32(l.Count(doc)), info, nil)
}

// CurrentDocument reports the document a lengths column is parked at: the
// last document passed to SyncTo. A lengths part covers every document, so
// the scorer that owns it always queries by explicit doc id via Count.
func (l *Lengths) CurrentDocument() docid.DocID { return l.currentForMovement }

// SyncTo updates the column's notion of "current" document for callers
// that track movement generically; Count itself never depends on it.
func (l *Lengths) SyncTo(document docid.DocID) (docid.DocID, error) {
	l.currentForMovement = document
	return document, nil
}

// Score is not meaningful for a raw length column; callers compose BM25Eval
// (or another scorer) around it instead of scoring it directly.
func (l *Lengths) Score(docid.DocID) float32 {
	panic("postings: Lengths has no standalone score, wrap it in a scorer")
}

func (it *DocsIter) Explain(doc docid.DocID) scoring.Explanation {
	if ok, _ := it.Matches(doc); ok {
		return scoring.Match(1.0, "docs", nil)
	}
	return scoring.Miss("docs", nil)
}

// Score is not meaningful for a bare docs iterator; see Lengths.Score.
func (it *DocsIter) Score(docid.DocID) float32 {
	panic("postings: DocsIter has no standalone score, wrap it in a scorer")
}

// Count is unsupported on a docs-only iterator: it carries no per-document
// frequency information, only presence.
func (it *DocsIter) Count(docid.DocID) uint32 {
	panic("postings: DocsIter does not track counts")
}

func (it *CountsIter) Explain(doc docid.DocID) scoring.Explanation {
	if ok, _ := it.Matches(doc); ok {
		return scoring.Match(float32(it.Count(doc)), "counts", nil)
	}
	return scoring.Miss("counts", nil)
}

func (it *CountsIter) Score(docid.DocID) float32 {
	panic("postings: CountsIter has no standalone score, wrap it in a scorer")
}

func (it *PositionsIter) Explain(doc docid.DocID) scoring.Explanation {
	info := fmt.Sprintf("positions(count=%d)", it.currentCount)
	if ok, _ := it.Matches(doc); ok {
		return scoring.Match(float32(it.Count(doc)), info, nil)
	}
	return scoring.Miss(info, nil)
}

func (it *PositionsIter) Score(docid.DocID) float32 {
	panic("postings: PositionsIter has no standalone score, wrap it in a scorer")
}
