package query_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/galagoread/galagoread/internal/query"
)

func TestCheckCollectsMultipleIssues(t *testing.T) {
	tree := query.Sum{Children: []query.Node{
		query.Text{Term: "", Field: "document"},
		query.Weighted{Weight: math.NaN(), Child: query.Text{Term: "ok", Field: "document"}},
		query.OrderedWindow{Step: 0, Children: []query.Node{
			query.Text{Term: "a", Field: "document"},
			query.Text{Term: "b", Field: "document"},
		}},
	}}

	issues := query.Check(tree)
	require.Len(t, issues, 3)

	kinds := map[query.IssueKind]bool{}
	for _, i := range issues {
		kinds[i.Kind] = true
	}
	require.True(t, kinds[query.IssueEmptyTerm])
	require.True(t, kinds[query.IssueNaNOrInfiniteWeight])
	require.True(t, kinds[query.IssueOrderedWindowBadStep])
}

func TestCheckPassesValidTree(t *testing.T) {
	tree := query.BM25{B: 0.75, K: 1.2, Child: query.Text{Term: "cat", Field: "document"}}
	require.Empty(t, query.Check(tree))
}

func TestFindFieldsDedupesAcrossTree(t *testing.T) {
	tree := query.And{Children: []query.Node{
		query.Text{Term: "cat", Field: "document"},
		query.Text{Term: "dog", Field: "title"},
		query.Text{Term: "cat", Field: "document"},
		query.Lengths{Field: "document"},
	}}

	require.Equal(t, []string{"document", "title"}, query.FindFields(tree))
}
