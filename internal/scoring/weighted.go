package scoring

import "github.com/galagoread/galagoread/internal/docid"

// WeightedSumEval combines several child scorers into one weighted linear
// combination. Score sums only over children currently matching doc — a
// non-matching child contributes a score of exactly 0 rather than whatever
// value its Score method would otherwise return for an unsynced document.
type WeightedSumEval struct {
	children []EvalNode
	weights  []float32
}

// NewWeightedSumEval pairs each child with its weight; len(children) must
// equal len(weights).
func NewWeightedSumEval(children []EvalNode, weights []float32) *WeightedSumEval {
	return &WeightedSumEval{children: children, weights: weights}
}

func (e *WeightedSumEval) CurrentDocument() docid.DocID {
	min := docid.NoMore
	for _, c := range e.children {
		min = docid.Min(c.CurrentDocument(), min)
	}
	return min
}

func (e *WeightedSumEval) SyncTo(document docid.DocID) (docid.DocID, error) {
	min := docid.NoMore
	for _, c := range e.children {
		d, err := c.SyncTo(document)
		if err != nil {
			return 0, err
		}
		min = docid.Min(d, min)
	}
	return min, nil
}

func (e *WeightedSumEval) Count(docid.DocID) uint32 {
	panic("scoring: WeightedSumEval has no single count, score its children instead")
}

// Score sums weight*score over only the children that currently match doc.
func (e *WeightedSumEval) Score(doc docid.DocID) float32 {
	var total float32
	for i, c := range e.children {
		if c.Matches(doc) {
			total += c.Score(doc) * e.weights[i]
		}
	}
	return total
}

// Matches reports whether any child matches doc.
func (e *WeightedSumEval) Matches(doc docid.DocID) bool {
	for _, c := range e.children {
		if c.Matches(doc) {
			return true
		}
	}
	return false
}

func (e *WeightedSumEval) EstimateDF() uint64 {
	var max uint64
	for _, c := range e.children {
		if df := c.EstimateDF(); df > max {
			max = df
		}
	}
	return max
}

func (e *WeightedSumEval) Explain(doc docid.DocID) Explanation {
	children := make([]Explanation, len(e.children))
	for i, c := range e.children {
		children[i] = c.Explain(doc)
	}
	info := "weighted-sum"
	if e.Matches(doc) {
		return Match(e.Score(doc), info, children)
	}
	return Miss(info, children)
}

// MissingTermEval is the null EvalNode for a term that does not occur
// anywhere in the corpus: it never matches and is always exhausted.
type MissingTermEval struct{}

func (MissingTermEval) CurrentDocument() docid.DocID                 { return docid.NoMore }
func (MissingTermEval) SyncTo(docid.DocID) (docid.DocID, error)      { return docid.NoMore, nil }
func (MissingTermEval) Count(docid.DocID) uint32                     { return 0 }
func (MissingTermEval) Score(docid.DocID) float32                    { return 0 }
func (MissingTermEval) Matches(docid.DocID) bool                     { return false }
func (MissingTermEval) EstimateDF() uint64                           { return 0 }
func (MissingTermEval) Explain(docid.DocID) Explanation              { return Miss("missing-term", nil) }
