// Package scoring implements the scorer tree: BM25 and weighted-sum
// combination nodes evaluated over the EvalNode/Movement contract, grounded
// on original_source/src/scoring.rs and src/movement.rs.
package scoring

import "github.com/galagoread/galagoread/internal/docid"

// Explanation is a recursive trace of why a scorer did or didn't match a
// document, for debugging query evaluation.
type Explanation struct {
	Matched  bool
	Score    float32
	Info     string
	Children []Explanation
}

// Miss builds a non-matching Explanation node.
func Miss(info string, children []Explanation) Explanation {
	return Explanation{Matched: false, Info: info, Children: children}
}

// Match builds a matching Explanation node.
func Match(score float32, info string, children []Explanation) Explanation {
	return Explanation{Matched: true, Score: score, Info: info, Children: children}
}

// EvalNode is the common contract every scorer-tree node satisfies: movable
// to a document, scoreable, and able to report whether it matches.
type EvalNode interface {
	CurrentDocument() docid.DocID
	SyncTo(document docid.DocID) (docid.DocID, error)
	Count(doc docid.DocID) uint32
	Score(doc docid.DocID) float32
	Matches(doc docid.DocID) bool
	EstimateDF() uint64
	Explain(doc docid.DocID) Explanation
}

// IsDone reports whether node has been advanced past every document.
func IsDone(node EvalNode) bool {
	return node.CurrentDocument().IsDone()
}

// MovePast advances node to the first document strictly greater than its
// current one. Every EvalNode gets this for free from SyncTo, matching the
// blanket Movement impl in the original.
func MovePast(node EvalNode) (docid.DocID, error) {
	return node.SyncTo(node.CurrentDocument() + 1)
}
