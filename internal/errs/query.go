package errs

// QueryError carries validator context: which AST node kind failed
// which structural rule.
type QueryError struct {
	*baseError
	nodeKind string
	rule     string
}

// NewQueryInitError reports that a query AST is structurally invalid.
// callers collect these into a list before refusing to evaluate.
func NewQueryInitError(nodeKind, rule, detail string) *QueryError {
	return &QueryError{
		baseError: NewBaseError(nil, ErrorCodeQueryInit, detail),
		nodeKind:  nodeKind,
		rule:      rule,
	}
}

func (qe *QueryError) NodeKind() string { return qe.nodeKind }
func (qe *QueryError) Rule() string     { return qe.rule }
