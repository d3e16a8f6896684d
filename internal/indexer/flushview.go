package indexer

import (
	"slices"

	"github.com/galagoread/galagoread/internal/docid"
)

// MaxDocument is the number of documents inserted so far, i.e. the next
// doc id that would be assigned.
func (ix *Indexer) MaxDocument() uint32 { return ix.nextID }

// FieldName looks up the declared name for a field id. Used by the
// flush writer to build segment metadata and by tests.
func (ix *Indexer) FieldName(id FieldID) (string, bool) {
	for name, fid := range ix.fields {
		if fid == id {
			return name, true
		}
	}
	return "", false
}

// SortedFieldIDs returns every declared field id in ascending order.
func (ix *Indexer) SortedFieldIDs() []FieldID {
	ids := make([]FieldID, 0, len(ix.schema))
	for id := range ix.schema {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// FieldMetadata looks up the declared schema for a field id.
func (ix *Indexer) FieldMetadata(id FieldID) (FieldMetadata, bool) {
	m, ok := ix.schema[id]
	return m, ok
}

// SortedTermIDs returns every term id seen for field, in ascending order.
func (ix *Indexer) SortedTermIDs(field FieldID) []TermID {
	postings := ix.postings[field]
	ids := make([]TermID, 0, len(postings))
	for id := range postings {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// VocabEntry pairs one token with the term id the indexer assigned it
// within a field's vocabulary.
type VocabEntry struct {
	Term string
	ID   TermID
}

// SortedVocab returns every token recorded for field, ordered by
// ascending term id, for flush writers that need to rebuild a
// text-to-id lookup table alongside the field's postings tree.
func (ix *Indexer) SortedVocab(field FieldID) []VocabEntry {
	terms := ix.vocab[field]
	entries := make([]VocabEntry, 0, len(terms))
	for term, id := range terms {
		entries = append(entries, VocabEntry{Term: term, ID: id})
	}
	slices.SortFunc(entries, func(a, b VocabEntry) int {
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
	return entries
}

// Posting returns the posting-list builder for field/term, if any
// documents recorded it.
func (ix *Indexer) Posting(field FieldID, term TermID) (*PostingListBuilder, bool) {
	b, ok := ix.postings[field][term]
	return b, ok
}

// DenseField returns field's dense column, if it has one.
func (ix *Indexer) DenseField(field FieldID) (*DenseU32FieldBuilder, bool) {
	b, ok := ix.denseFields[field]
	return b, ok
}

// LengthColumn returns field's length column, if it has one.
func (ix *Indexer) LengthColumn(field FieldID) (*DenseU32FieldBuilder, bool) {
	b, ok := ix.lengths[field]
	return b, ok
}

// SortedStoredDocIDs returns every doc id with a stored value for field,
// in ascending order.
func (ix *Indexer) SortedStoredDocIDs(field FieldID) []docid.DocID {
	column := ix.storedFields[field]
	ids := make([]docid.DocID, 0, len(column))
	for id := range column {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// StoredValue returns the stored field value recorded for doc, if any.
func (ix *Indexer) StoredValue(field FieldID, doc docid.DocID) (FieldValue, bool) {
	v, ok := ix.storedFields[field][doc]
	return v, ok
}

// ChunkedKeysIter pages a sorted key slice in fixed-size windows,
// mirroring the original BTreeMapChunkedIter's page-at-a-time walk over
// an ordered map: each call to Next fills Keys with up to pageSize
// consecutive keys and reports the first one, or reports done when
// exhausted.
type ChunkedKeysIter[K any] struct {
	keys     []K
	pageSize int
	pos      int
	Keys     []K
}

// NewChunkedKeysIter pages through keys (assumed already sorted)
// pageSize at a time.
func NewChunkedKeysIter[K any](keys []K, pageSize int) *ChunkedKeysIter[K] {
	return &ChunkedKeysIter[K]{keys: keys, pageSize: pageSize}
}

// Next advances to the next page, reports its first key and whether a
// page was produced at all.
func (it *ChunkedKeysIter[K]) Next() (first K, ok bool) {
	if it.pos >= len(it.keys) {
		it.Keys = nil
		return first, false
	}
	end := it.pos + it.pageSize
	if end > len(it.keys) {
		end = len(it.keys)
	}
	it.Keys = it.keys[it.pos:end]
	it.pos = end
	return it.Keys[0], true
}

// IsContiguous reports whether ids is a run of strictly consecutive
// ascending uint32s, the condition under which a segment writer can
// choose a dense leaf block encoding instead of a sparse one.
func IsContiguous(ids []uint32) bool {
	if len(ids) == 0 {
		return true
	}
	prev := ids[0]
	for _, cur := range ids[1:] {
		if prev+1 != cur {
			return false
		}
		prev = cur
	}
	return true
}
