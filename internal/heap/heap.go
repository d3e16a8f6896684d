// Package heap implements the bounded top-K scoring collector, grounded on
// original_source/src/heap_collection.rs. Where the original inverts Rust's
// max-heap Ord to get a min-at-top heap, this package just writes the
// min-heap comparator directly against container/heap.
package heap

import (
	stdheap "container/heap"
	"sort"

	"github.com/galagoread/galagoread/internal/docid"
)

// ScoreDoc pairs a document with its score.
type ScoreDoc struct {
	Score float32
	Doc   docid.DocID
}

// scoreDocHeap is a min-heap ordered so the worst-scoring retained document
// (lowest score, ties broken toward the highest doc id) sits at the root —
// the natural candidate to evict when a better document arrives.
type scoreDocHeap []ScoreDoc

func (h scoreDocHeap) Len() int { return len(h) }
func (h scoreDocHeap) Less(i, j int) bool {
	if h[i].Score != h[j].Score {
		return h[i].Score < h[j].Score
	}
	return h[i].Doc > h[j].Doc
}
func (h scoreDocHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *scoreDocHeap) Push(x any)   { *h = append(*h, x.(ScoreDoc)) }
func (h *scoreDocHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// ScoringHeap retains only the Size best-scoring documents offered to it.
type ScoringHeap struct {
	size int
	heap scoreDocHeap
}

// New builds a ScoringHeap that retains at most size documents.
func New(size int) *ScoringHeap {
	return &ScoringHeap{size: size}
}

// Offer considers (score, doc) for inclusion: it is kept outright while the
// heap has room, or when it beats the current worst retained document (in
// which case the worst is evicted).
func (s *ScoringHeap) Offer(score float32, doc docid.DocID) {
	if len(s.heap) < s.size {
		stdheap.Push(&s.heap, ScoreDoc{Score: score, Doc: doc})
		return
	}
	if top, ok := s.Top(); ok && score > top.Score {
		stdheap.Push(&s.heap, ScoreDoc{Score: score, Doc: doc})
		stdheap.Pop(&s.heap)
	}
}

// Top returns the worst-scoring document currently retained.
func (s *ScoringHeap) Top() (ScoreDoc, bool) {
	if len(s.heap) == 0 {
		return ScoreDoc{}, false
	}
	return s.heap[0], true
}

// Len reports how many documents are currently retained.
func (s *ScoringHeap) Len() int { return len(s.heap) }

// IntoSorted drains the heap into a slice sorted descending by score,
// breaking ties by ascending doc id.
func (s *ScoringHeap) IntoSorted() []ScoreDoc {
	out := make([]ScoreDoc, len(s.heap))
	copy(out, s.heap)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Doc < out[j].Doc
	})
	return out
}
