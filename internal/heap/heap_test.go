package heap_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/galagoread/galagoread/internal/docid"
	"github.com/galagoread/galagoread/internal/heap"
)

func TestScoringHeapKeepsWorstAtTop(t *testing.T) {
	h := heap.New(10)
	h.Offer(0.6, docid.DocID(1))
	top, ok := h.Top()
	require.True(t, ok)
	require.Equal(t, docid.DocID(1), top.Doc)

	h.Offer(0.8, docid.DocID(2))
	top, _ = h.Top()
	require.Equal(t, docid.DocID(1), top.Doc)

	h.Offer(0.7, docid.DocID(3))
	top, _ = h.Top()
	require.Equal(t, docid.DocID(1), top.Doc)

	out := h.IntoSorted()
	require.Equal(t, docid.DocID(2), out[0].Doc)
	require.Equal(t, docid.DocID(3), out[1].Doc)
	require.Equal(t, docid.DocID(1), out[2].Doc)
}

func TestScoringHeapEvictsWorstWhenFull(t *testing.T) {
	h := heap.New(2)
	h.Offer(0.6, docid.DocID(1))
	top, _ := h.Top()
	require.Equal(t, docid.DocID(1), top.Doc)

	h.Offer(0.8, docid.DocID(2))
	top, _ = h.Top()
	require.Equal(t, docid.DocID(1), top.Doc)

	h.Offer(0.7, docid.DocID(3))
	top, _ = h.Top()
	require.Equal(t, docid.DocID(3), top.Doc)
}
