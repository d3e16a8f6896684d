// Package query implements the tagged query AST, its validator, and the
// field-gathering visitor used to plan which index parts a query will touch.
package query

import "math"

// DataNeeded tells an index part what shape of iterator a term node
// requires: presence only, frequency, or full positions.
type DataNeeded int

const (
	DataDocs DataNeeded = iota
	DataCounts
	DataPositions
)

// Node is any query-tree element. Concrete node types below each embed
// nothing; type-switch on the concrete type to visit.
type Node interface {
	isNode()
}

// Require/Reject gate a scored subtree on whether a required/forbidden
// condition node matches.
type Require struct{ Condition, Scored Node }
type Reject struct{ Condition, Scored Node }

// Must behaves like Require, but names the historical Galago operator
// (#require) distinctly from the newer spelling.
type Must struct{ Condition, Scored Node }

// And requires every child to match; Or requires any child to match.
type And struct{ Children []Node }
type Or struct{ Children []Node }
type Not struct{ Child Node }

// AlwaysMatch/NeverMatch are the boolean identity leaves.
type AlwaysMatch struct{}
type NeverMatch struct{}

// Sum/Combine/Mult/Max/Weighted are scoring combinators.
type Sum struct{ Children []Node }
type Combine struct {
	Children []Node
	Weights  []float64
}
type Mult struct{ Children []Node }
type Max struct{ Children []Node }
type Weighted struct {
	Weight float64
	Child  Node
}

// Text is a term lookup against a field.
type Text struct {
	Term       string
	Field      string
	StatsField string
	DataNeeded DataNeeded
}

// Lengths references a field's document-length column directly.
type Lengths struct{ Field string }

// LongParam/FloatParam are literal scalar leaves usable inside scoring
// expressions (e.g. smoothing parameters).
type LongParam struct{ Value int64 }
type FloatParam struct{ Value float64 }

// OrderedWindow requires its children's terms within step positions of
// each other, in order. UnorderedWindow requires them within width
// positions, in any order.
type OrderedWindow struct {
	Step     int
	Children []Node
}
type UnorderedWindow struct {
	Width    int
	Children []Node
}

// Synonym treats its children as interchangeable occurrences of one term.
type Synonym struct{ Children []Node }

// BM25/LinearQL/DirQL are scoring-model nodes wrapping a term or
// combination subtree with explicit stats.
type BM25 struct {
	B, K  float64
	Child Node
}
type LinearQL struct {
	Lambda float64
	Child  Node
}
type DirQL struct {
	Mu    float64
	Child Node
}

func (Require) isNode()         {}
func (Reject) isNode()          {}
func (Must) isNode()            {}
func (And) isNode()             {}
func (Or) isNode()              {}
func (Not) isNode()             {}
func (AlwaysMatch) isNode()     {}
func (NeverMatch) isNode()      {}
func (Sum) isNode()             {}
func (Combine) isNode()         {}
func (Mult) isNode()            {}
func (Max) isNode()             {}
func (Weighted) isNode()        {}
func (Text) isNode()            {}
func (Lengths) isNode()         {}
func (LongParam) isNode()       {}
func (FloatParam) isNode()      {}
func (OrderedWindow) isNode()   {}
func (UnorderedWindow) isNode() {}
func (Synonym) isNode()         {}
func (BM25) isNode()            {}
func (LinearQL) isNode()        {}
func (DirQL) isNode()           {}

// IssueKind tags a validation failure's nature. Names match the error
// kinds a query planner needs to report, not a fixed vocabulary of magic
// strings scattered through Check.
type IssueKind int

const (
	IssueEmptyTerm IssueKind = iota
	IssueNaNOrInfiniteWeight
	IssueNegativeWeight
	IssueOrderedWindowBadStep
	IssueUnorderedWindowBadWidth
	IssueBadFrequencies
	IssueBadLengths
	IssueBadDocProb
	IssueBadTermProb
)

// Issue is one validation failure found while walking a query tree. Check
// never repairs a tree; it only reports every problem it finds.
type Issue struct {
	Kind IssueKind
	Path string
	Note string
}

func isBadFloat(f float64) bool {
	return math.IsNaN(f) || math.IsInf(f, 0)
}
