package engine

import (
	"github.com/galagoread/galagoread/internal/config"
	"github.com/galagoread/galagoread/internal/docid"
	"github.com/galagoread/galagoread/internal/errs"
	"github.com/galagoread/galagoread/internal/postings"
	"github.com/galagoread/galagoread/internal/query"
	"github.com/galagoread/galagoread/internal/scoring"
	"github.com/galagoread/galagoread/internal/stats"
)

// Compile turns a validated query.Node into a scorer tree (an EvalNode
// to call Score/Matches on) and its paired Mover (the independent
// candidate-document enumeration scoring.Mover drives). Callers should
// run query.Check first; Compile does not re-validate.
func Compile(root query.Node, c *Corpus, scoringOpts config.ScoringOptions) (scoring.EvalNode, scoring.Mover, error) {
	return compileNode(root, c, scoringOpts)
}

func compileNode(n query.Node, c *Corpus, opts config.ScoringOptions) (scoring.EvalNode, scoring.Mover, error) {
	switch node := n.(type) {
	case query.Text:
		return compileText(node, c)
	case query.Lengths:
		lengths, err := c.Lengths(node.Field)
		if err != nil {
			return nil, scoring.Mover{}, err
		}
		return lengths, scoring.Mover{Kind: scoring.AllMover}, nil

	case query.AlwaysMatch:
		return &alwaysEval{}, scoring.Mover{Kind: scoring.AllMover}, nil
	case query.NeverMatch:
		return scoring.MissingTermEval{}, scoring.Mover{Kind: scoring.EmptyMover}, nil

	case query.LongParam:
		return &constEval{score: float32(node.Value)}, scoring.Mover{Kind: scoring.AllMover}, nil
	case query.FloatParam:
		return &constEval{score: float32(node.Value)}, scoring.Mover{Kind: scoring.AllMover}, nil

	case query.And:
		return compileAnd(node.Children, c, opts)
	case query.Or:
		return compileOr(node.Children, c, opts)
	case query.Not:
		return compileNot(node.Child, c, opts)

	case query.Require:
		return compileGate(node.Condition, node.Scored, c, opts, true)
	case query.Must:
		return compileGate(node.Condition, node.Scored, c, opts, true)
	case query.Reject:
		return compileGate(node.Condition, node.Scored, c, opts, false)

	case query.Sum:
		return compileWeightedChildren(node.Children, nil, c, opts)
	case query.Combine:
		return compileWeightedChildren(node.Children, node.Weights, c, opts)
	case query.Weighted:
		return compileWeightedChildren([]query.Node{node.Child}, []float64{node.Weight}, c, opts)
	case query.Mult:
		return compileMult(node.Children, c, opts)
	case query.Max:
		return compileMax(node.Children, c, opts)

	case query.Synonym:
		// Children are interchangeable occurrences of one term; treated
		// as an unweighted sum over an Or-movement, which double counts
		// co-occurring spellings rather than merging their postings.
		return compileWeightedChildren(node.Children, nil, c, opts)

	case query.BM25:
		return compileBM25(node, c, opts)

	case query.OrderedWindow, query.UnorderedWindow, query.LinearQL, query.DirQL:
		return nil, scoring.Mover{}, errs.NewQueryInitError(nodeKindName(n), "unsupported", "this node kind has no positional-window or query-likelihood compiler yet")

	default:
		return nil, scoring.Mover{}, errs.NewQueryInitError(nodeKindName(n), "unknown", "unrecognized query node kind")
	}
}

func nodeKindName(n query.Node) string {
	switch n.(type) {
	case query.OrderedWindow:
		return "OrderedWindow"
	case query.UnorderedWindow:
		return "UnorderedWindow"
	case query.LinearQL:
		return "LinearQL"
	case query.DirQL:
		return "DirQL"
	default:
		return "Node"
	}
}

func compileText(node query.Text, c *Corpus) (scoring.EvalNode, scoring.Mover, error) {
	positions, ok, err := c.FindPositions(node.Field, node.Term)
	if err != nil {
		return nil, scoring.Mover{}, err
	}
	if !ok {
		return scoring.MissingTermEval{}, scoring.Mover{Kind: scoring.EmptyMover}, nil
	}

	var eval *termEval
	switch node.DataNeeded {
	case query.DataDocs:
		it, err := postings.NewDocsIter(positions)
		if err != nil {
			return nil, scoring.Mover{}, err
		}
		eval = newDocsEval(it)
	case query.DataCounts:
		it, err := postings.NewCountsIter(positions)
		if err != nil {
			return nil, scoring.Mover{}, err
		}
		eval = newCountsEval(it)
	default:
		it, err := postings.NewPositionsIter(positions)
		if err != nil {
			return nil, scoring.Mover{}, err
		}
		eval = newPositionsEval(it)
	}
	return eval, scoring.NewRealMover(eval), nil
}

// termStats gathers corpus-wide counts for a Text leaf's (field, term)
// pair, needed by BM25: document/collection frequency from the term's own
// posting list, document count/collection length from the stats field's
// length column.
func termStats(node query.Text, c *Corpus) (stats.CountStats, error) {
	field := node.StatsField
	if field == "" {
		field = node.Field
	}
	lengths, err := c.Lengths(field)
	if err != nil {
		return stats.CountStats{}, err
	}
	out := stats.CountStats{
		DocumentCount:    lengths.TotalDocumentCount,
		CollectionLength: lengths.CollectionLength,
	}
	positions, ok, err := c.FindPositions(node.Field, node.Term)
	if err != nil {
		return stats.CountStats{}, err
	}
	if ok {
		out.DocumentFrequency = positions.DocumentCount
		out.CollectionFrequency = positions.TotalPositionCount
	}
	return out, nil
}

func compileBM25(node query.BM25, c *Corpus, opts config.ScoringOptions) (scoring.EvalNode, scoring.Mover, error) {
	text, ok := node.Child.(query.Text)
	if !ok {
		return nil, scoring.Mover{}, errs.NewQueryInitError("BM25", "child-kind", "BM25 currently requires a direct Text child")
	}
	text.DataNeeded = query.DataCounts

	child, mover, err := compileText(text, c)
	if err != nil {
		return nil, scoring.Mover{}, err
	}
	lengthsField := text.StatsField
	if lengthsField == "" {
		lengthsField = text.Field
	}
	lengths, err := c.Lengths(lengthsField)
	if err != nil {
		return nil, scoring.Mover{}, err
	}

	s, err := termStats(text, c)
	if err != nil {
		return nil, scoring.Mover{}, err
	}

	b, k := float32(node.B), float32(node.K)
	if b == 0 && k == 0 {
		b, k = opts.B, opts.K
	}
	return scoring.NewBM25Eval(child, lengths, b, k, s), mover, nil
}

func compileChildren(children []query.Node, c *Corpus, opts config.ScoringOptions) ([]scoring.EvalNode, []scoring.Mover, error) {
	evals := make([]scoring.EvalNode, 0, len(children))
	movers := make([]scoring.Mover, 0, len(children))
	for _, child := range children {
		eval, mover, err := compileNode(child, c, opts)
		if err != nil {
			return nil, nil, err
		}
		evals = append(evals, eval)
		movers = append(movers, mover)
	}
	return evals, movers, nil
}

func compileWeightedChildren(children []query.Node, weights []float64, c *Corpus, opts config.ScoringOptions) (scoring.EvalNode, scoring.Mover, error) {
	evals, movers, err := compileChildren(children, c, opts)
	if err != nil {
		return nil, scoring.Mover{}, err
	}
	w := make([]float32, len(evals))
	for i := range evals {
		if weights == nil {
			w[i] = 1
		} else {
			w[i] = float32(weights[i])
		}
	}
	return scoring.NewWeightedSumEval(evals, w), scoring.CreateOr(movers), nil
}

func compileAnd(children []query.Node, c *Corpus, opts config.ScoringOptions) (scoring.EvalNode, scoring.Mover, error) {
	evals, movers, err := compileChildren(children, c, opts)
	if err != nil {
		return nil, scoring.Mover{}, err
	}
	return &boolAllEval{children: evals}, scoring.CreateAnd(movers), nil
}

func compileOr(children []query.Node, c *Corpus, opts config.ScoringOptions) (scoring.EvalNode, scoring.Mover, error) {
	evals, movers, err := compileChildren(children, c, opts)
	if err != nil {
		return nil, scoring.Mover{}, err
	}
	return &boolAnyEval{children: evals}, scoring.CreateOr(movers), nil
}

func compileNot(child query.Node, c *Corpus, opts config.ScoringOptions) (scoring.EvalNode, scoring.Mover, error) {
	eval, _, err := compileNode(child, c, opts)
	if err != nil {
		return nil, scoring.Mover{}, err
	}
	return &notEval{child: eval}, scoring.Mover{Kind: scoring.AllMover}, nil
}

func compileGate(condition, scored query.Node, c *Corpus, opts config.ScoringOptions, require bool) (scoring.EvalNode, scoring.Mover, error) {
	conditionEval, conditionMover, err := compileNode(condition, c, opts)
	if err != nil {
		return nil, scoring.Mover{}, err
	}
	scoredEval, scoredMover, err := compileNode(scored, c, opts)
	if err != nil {
		return nil, scoring.Mover{}, err
	}
	gate := &gateEval{condition: conditionEval, scored: scoredEval, require: require}
	if require {
		return gate, scoring.CreateAnd([]scoring.Mover{conditionMover, scoredMover}), nil
	}
	return gate, scoredMover, nil
}

func compileMult(children []query.Node, c *Corpus, opts config.ScoringOptions) (scoring.EvalNode, scoring.Mover, error) {
	evals, movers, err := compileChildren(children, c, opts)
	if err != nil {
		return nil, scoring.Mover{}, err
	}
	return &multEval{children: evals}, scoring.CreateAnd(movers), nil
}

func compileMax(children []query.Node, c *Corpus, opts config.ScoringOptions) (scoring.EvalNode, scoring.Mover, error) {
	evals, movers, err := compileChildren(children, c, opts)
	if err != nil {
		return nil, scoring.Mover{}, err
	}
	return &maxEval{children: evals}, scoring.CreateOr(movers), nil
}

// alwaysEval matches every document with a score of 0, the scorer-tree
// analogue of scoring.AllMover.
type alwaysEval struct{ current docid.DocID }

func (e *alwaysEval) CurrentDocument() docid.DocID { return e.current }
func (e *alwaysEval) SyncTo(d docid.DocID) (docid.DocID, error) {
	e.current = d
	return d, nil
}
func (e *alwaysEval) Count(docid.DocID) uint32             { return 1 }
func (e *alwaysEval) Score(docid.DocID) float32            { return 0 }
func (e *alwaysEval) Matches(docid.DocID) bool             { return true }
func (e *alwaysEval) EstimateDF() uint64                   { return 0 }
func (e *alwaysEval) Explain(docid.DocID) scoring.Explanation {
	return scoring.Match(0, "always", nil)
}

// constEval is a literal scalar leaf (LongParam/FloatParam): it matches
// every document and always scores exactly its configured value.
type constEval struct {
	current docid.DocID
	score   float32
}

func (e *constEval) CurrentDocument() docid.DocID { return e.current }
func (e *constEval) SyncTo(d docid.DocID) (docid.DocID, error) {
	e.current = d
	return d, nil
}
func (e *constEval) Count(docid.DocID) uint32  { return 1 }
func (e *constEval) Score(docid.DocID) float32 { return e.score }
func (e *constEval) Matches(docid.DocID) bool  { return true }
func (e *constEval) EstimateDF() uint64        { return 0 }
func (e *constEval) Explain(docid.DocID) scoring.Explanation {
	return scoring.Match(e.score, "param", nil)
}

// boolAllEval is an And combinator: it matches a document only when every
// child does, and its own score is irrelevant (it is only ever used as a
// Require/Reject condition or nested inside another boolean node).
type boolAllEval struct{ children []scoring.EvalNode }

func (e *boolAllEval) CurrentDocument() docid.DocID { return minCurrent(e.children) }
func (e *boolAllEval) SyncTo(d docid.DocID) (docid.DocID, error) {
	return syncAll(e.children, d, true)
}
func (e *boolAllEval) Count(docid.DocID) uint32 { return 0 }
func (e *boolAllEval) Score(docid.DocID) float32 { return 0 }
func (e *boolAllEval) Matches(doc docid.DocID) bool {
	for _, c := range e.children {
		if !c.Matches(doc) {
			return false
		}
	}
	return len(e.children) > 0
}
func (e *boolAllEval) EstimateDF() uint64 { return minDF(e.children) }
func (e *boolAllEval) Explain(doc docid.DocID) scoring.Explanation {
	return explainChildren(e.children, doc, "and", e.Matches(doc))
}

// boolAnyEval is an Or combinator: it matches when any child does.
type boolAnyEval struct{ children []scoring.EvalNode }

func (e *boolAnyEval) CurrentDocument() docid.DocID { return minCurrent(e.children) }
func (e *boolAnyEval) SyncTo(d docid.DocID) (docid.DocID, error) {
	return syncAll(e.children, d, false)
}
func (e *boolAnyEval) Count(docid.DocID) uint32  { return 0 }
func (e *boolAnyEval) Score(docid.DocID) float32 { return 0 }
func (e *boolAnyEval) Matches(doc docid.DocID) bool {
	for _, c := range e.children {
		if c.Matches(doc) {
			return true
		}
	}
	return false
}
func (e *boolAnyEval) EstimateDF() uint64 { return maxDF(e.children) }
func (e *boolAnyEval) Explain(doc docid.DocID) scoring.Explanation {
	return explainChildren(e.children, doc, "or", e.Matches(doc))
}

// notEval negates its child's Matches. Its movement is AllMover (the
// absence of a term has no enumerable posting list of its own), so a Not
// node should only ever be used as a Require/Reject condition alongside a
// positively-enumerable sibling.
type notEval struct {
	child   scoring.EvalNode
	current docid.DocID
}

func (e *notEval) CurrentDocument() docid.DocID { return e.current }
func (e *notEval) SyncTo(d docid.DocID) (docid.DocID, error) {
	e.current = d
	_, err := e.child.SyncTo(d)
	return d, err
}
func (e *notEval) Count(docid.DocID) uint32  { return 0 }
func (e *notEval) Score(docid.DocID) float32 { return 0 }
func (e *notEval) Matches(doc docid.DocID) bool {
	if _, err := e.child.SyncTo(doc); err != nil {
		return false
	}
	return !e.child.Matches(doc)
}
func (e *notEval) EstimateDF() uint64 { return 0 }
func (e *notEval) Explain(doc docid.DocID) scoring.Explanation {
	return scoring.Miss("not", []scoring.Explanation{e.child.Explain(doc)})
}

// gateEval implements Require/Must (require=true) and Reject
// (require=false): it scores as scored but only matches when condition's
// verdict agrees with require.
type gateEval struct {
	condition, scored scoring.EvalNode
	require           bool
}

func (e *gateEval) CurrentDocument() docid.DocID { return e.scored.CurrentDocument() }
func (e *gateEval) SyncTo(d docid.DocID) (docid.DocID, error) {
	if _, err := e.condition.SyncTo(d); err != nil {
		return 0, err
	}
	return e.scored.SyncTo(d)
}
func (e *gateEval) Count(doc docid.DocID) uint32 { return e.scored.Count(doc) }
func (e *gateEval) Score(doc docid.DocID) float32 {
	if !e.Matches(doc) {
		return 0
	}
	return e.scored.Score(doc)
}
func (e *gateEval) Matches(doc docid.DocID) bool {
	if _, err := e.condition.SyncTo(doc); err != nil {
		return false
	}
	conditionMatches := e.condition.Matches(doc)
	if conditionMatches != e.require {
		return false
	}
	return e.scored.Matches(doc)
}
func (e *gateEval) EstimateDF() uint64 { return e.scored.EstimateDF() }
func (e *gateEval) Explain(doc docid.DocID) scoring.Explanation {
	info := "require"
	if !e.require {
		info = "reject"
	}
	children := []scoring.Explanation{e.condition.Explain(doc), e.scored.Explain(doc)}
	if e.Matches(doc) {
		return scoring.Match(e.Score(doc), info, children)
	}
	return scoring.Miss(info, children)
}

// multEval scores matching documents as the product of every child's
// score, and only matches when every child does (the scoring analogue of
// boolAllEval).
type multEval struct{ children []scoring.EvalNode }

func (e *multEval) CurrentDocument() docid.DocID { return minCurrent(e.children) }
func (e *multEval) SyncTo(d docid.DocID) (docid.DocID, error) {
	return syncAll(e.children, d, true)
}
func (e *multEval) Count(docid.DocID) uint32 { return 0 }
func (e *multEval) Score(doc docid.DocID) float32 {
	product := float32(1)
	for _, c := range e.children {
		product *= c.Score(doc)
	}
	return product
}
func (e *multEval) Matches(doc docid.DocID) bool {
	for _, c := range e.children {
		if !c.Matches(doc) {
			return false
		}
	}
	return len(e.children) > 0
}
func (e *multEval) EstimateDF() uint64 { return minDF(e.children) }
func (e *multEval) Explain(doc docid.DocID) scoring.Explanation {
	return explainChildren(e.children, doc, "mult", e.Matches(doc))
}

// maxEval scores matching documents as the best-scoring matching child.
type maxEval struct{ children []scoring.EvalNode }

func (e *maxEval) CurrentDocument() docid.DocID { return minCurrent(e.children) }
func (e *maxEval) SyncTo(d docid.DocID) (docid.DocID, error) {
	return syncAll(e.children, d, false)
}
func (e *maxEval) Count(docid.DocID) uint32 { return 0 }
func (e *maxEval) Score(doc docid.DocID) float32 {
	var best float32
	found := false
	for _, c := range e.children {
		if !c.Matches(doc) {
			continue
		}
		if s := c.Score(doc); !found || s > best {
			best, found = s, true
		}
	}
	return best
}
func (e *maxEval) Matches(doc docid.DocID) bool {
	for _, c := range e.children {
		if c.Matches(doc) {
			return true
		}
	}
	return false
}
func (e *maxEval) EstimateDF() uint64 { return maxDF(e.children) }
func (e *maxEval) Explain(doc docid.DocID) scoring.Explanation {
	return explainChildren(e.children, doc, "max", e.Matches(doc))
}

func minCurrent(children []scoring.EvalNode) docid.DocID {
	min := docid.NoMore
	for _, c := range children {
		min = docid.Min(min, c.CurrentDocument())
	}
	return min
}

// syncAll advances every child to document, returning the highest
// resulting position (all-mode, for And/Mult-style combinators that need
// every child to converge) or the lowest (any-mode, for Or/Max-style
// combinators where the first child to arrive is enough).
func syncAll(children []scoring.EvalNode, document docid.DocID, allMode bool) (docid.DocID, error) {
	result := docid.NoMore
	first := true
	for _, c := range children {
		d, err := c.SyncTo(document)
		if err != nil {
			return 0, err
		}
		if first {
			result, first = d, false
			continue
		}
		if allMode {
			result = docid.Max(result, d)
		} else {
			result = docid.Min(result, d)
		}
	}
	return result, nil
}

func minDF(children []scoring.EvalNode) uint64 {
	var min uint64
	first := true
	for _, c := range children {
		df := c.EstimateDF()
		if first || df < min {
			min, first = df, false
		}
	}
	return min
}

func maxDF(children []scoring.EvalNode) uint64 {
	var max uint64
	for _, c := range children {
		if df := c.EstimateDF(); df > max {
			max = df
		}
	}
	return max
}

func explainChildren(children []scoring.EvalNode, doc docid.DocID, info string, matched bool) scoring.Explanation {
	out := make([]scoring.Explanation, len(children))
	for i, c := range children {
		out[i] = c.Explain(doc)
	}
	if matched {
		return scoring.Match(0, info, out)
	}
	return scoring.Miss(info, out)
}
