package query

import "fmt"

// Check walks root and returns every problem found, never stopping at the
// first one and never attempting to repair the tree.
func Check(root Node) []Issue {
	var issues []Issue
	walk(root, "$", &issues)
	return issues
}

func walk(n Node, path string, issues *[]Issue) {
	switch node := n.(type) {
	case Require:
		walk(node.Condition, path+".condition", issues)
		walk(node.Scored, path+".scored", issues)
	case Reject:
		walk(node.Condition, path+".condition", issues)
		walk(node.Scored, path+".scored", issues)
	case Must:
		walk(node.Condition, path+".condition", issues)
		walk(node.Scored, path+".scored", issues)
	case And:
		walkChildren(node.Children, path, issues)
	case Or:
		walkChildren(node.Children, path, issues)
	case Not:
		walk(node.Child, path+".child", issues)
	case Sum:
		walkChildren(node.Children, path, issues)
	case Mult:
		walkChildren(node.Children, path, issues)
	case Max:
		walkChildren(node.Children, path, issues)
	case Synonym:
		walkChildren(node.Children, path, issues)
	case Combine:
		if len(node.Weights) != len(node.Children) {
			*issues = append(*issues, Issue{
				Kind: IssueBadFrequencies, Path: path,
				Note: "combine has mismatched weight/child counts",
			})
		}
		for _, w := range node.Weights {
			checkWeight(w, path, issues)
		}
		walkChildren(node.Children, path, issues)
	case Weighted:
		checkWeight(node.Weight, path, issues)
		walk(node.Child, path+".child", issues)
	case Text:
		if node.Term == "" {
			*issues = append(*issues, Issue{Kind: IssueEmptyTerm, Path: path, Note: "empty term text"})
		}
	case Lengths:
		if node.Field == "" {
			*issues = append(*issues, Issue{Kind: IssueBadLengths, Path: path, Note: "empty field name"})
		}
	case OrderedWindow:
		if node.Step <= 0 {
			*issues = append(*issues, Issue{
				Kind: IssueOrderedWindowBadStep, Path: path,
				Note: fmt.Sprintf("step must be positive, got %d", node.Step),
			})
		}
		walkChildren(node.Children, path, issues)
	case UnorderedWindow:
		if node.Width <= 0 {
			*issues = append(*issues, Issue{
				Kind: IssueUnorderedWindowBadWidth, Path: path,
				Note: fmt.Sprintf("width must be positive, got %d", node.Width),
			})
		}
		walkChildren(node.Children, path, issues)
	case BM25:
		if node.B < 0 || node.B > 1 {
			*issues = append(*issues, Issue{Kind: IssueBadFrequencies, Path: path, Note: "bm25 b must be in [0,1]"})
		}
		if node.K < 0 {
			*issues = append(*issues, Issue{Kind: IssueBadFrequencies, Path: path, Note: "bm25 k must be >= 0"})
		}
		walk(node.Child, path+".child", issues)
	case LinearQL:
		if node.Lambda < 0 || node.Lambda > 1 {
			*issues = append(*issues, Issue{Kind: IssueBadDocProb, Path: path, Note: "linear smoothing lambda must be in [0,1]"})
		}
		walk(node.Child, path+".child", issues)
	case DirQL:
		if node.Mu < 0 {
			*issues = append(*issues, Issue{Kind: IssueBadTermProb, Path: path, Note: "dirichlet mu must be >= 0"})
		}
		walk(node.Child, path+".child", issues)
	case FloatParam:
		if isBadFloat(node.Value) {
			*issues = append(*issues, Issue{Kind: IssueNaNOrInfiniteWeight, Path: path, Note: "non-finite literal"})
		}
	}
}

func walkChildren(children []Node, path string, issues *[]Issue) {
	for i, c := range children {
		walk(c, fmt.Sprintf("%s[%d]", path, i), issues)
	}
}

func checkWeight(w float64, path string, issues *[]Issue) {
	if isBadFloat(w) {
		*issues = append(*issues, Issue{Kind: IssueNaNOrInfiniteWeight, Path: path, Note: "weight is NaN or infinite"})
		return
	}
	if w < 0 {
		*issues = append(*issues, Issue{Kind: IssueNegativeWeight, Path: path, Note: "weight is negative"})
	}
}

// FindFields collects the distinct field names a query touches, across
// both Text leaves and explicit Lengths references.
func FindFields(root Node) []string {
	seen := map[string]bool{}
	var order []string
	var visit func(Node)
	visit = func(n Node) {
		switch node := n.(type) {
		case Require:
			visit(node.Condition)
			visit(node.Scored)
		case Reject:
			visit(node.Condition)
			visit(node.Scored)
		case Must:
			visit(node.Condition)
			visit(node.Scored)
		case And:
			visitAll(node.Children, visit)
		case Or:
			visitAll(node.Children, visit)
		case Not:
			visit(node.Child)
		case Sum:
			visitAll(node.Children, visit)
		case Mult:
			visitAll(node.Children, visit)
		case Max:
			visitAll(node.Children, visit)
		case Synonym:
			visitAll(node.Children, visit)
		case Combine:
			visitAll(node.Children, visit)
		case Weighted:
			visit(node.Child)
		case OrderedWindow:
			visitAll(node.Children, visit)
		case UnorderedWindow:
			visitAll(node.Children, visit)
		case BM25:
			visit(node.Child)
		case LinearQL:
			visit(node.Child)
		case DirQL:
			visit(node.Child)
		case Text:
			addField(node.Field, seen, &order)
			if node.StatsField != "" {
				addField(node.StatsField, seen, &order)
			}
		case Lengths:
			addField(node.Field, seen, &order)
		}
	}
	visit(root)
	return order
}

func visitAll(children []Node, visit func(Node)) {
	for _, c := range children {
		visit(c)
	}
}

func addField(field string, seen map[string]bool, order *[]string) {
	if field == "" || seen[field] {
		return
	}
	seen[field] = true
	*order = append(*order, field)
}
