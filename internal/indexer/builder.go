package indexer

import "github.com/galagoread/galagoread/internal/docid"

// PostingListBuilder accumulates one term's occurrences across documents
// as they're inserted: docs and counts are index-paired, positions holds
// one encoded delta-gapped blob per document that recorded any (nil for
// docs-only or counts-only terms).
type PostingListBuilder struct {
	Docs               ChunkedIntList
	Counts             ChunkedIntList
	Positions          [][]byte
	TotalTermFrequency uint64
}

func newPostingListBuilder() *PostingListBuilder {
	return &PostingListBuilder{Docs: newChunkedIntList(), Counts: newChunkedIntList()}
}

// NumDocs is this term's document frequency.
func (b *PostingListBuilder) NumDocs() int { return b.Docs.Len() }

func (b *PostingListBuilder) pushDoc(doc docid.DocID) {
	b.Docs.Push(uint32(doc))
}

func (b *PostingListBuilder) pushCounts(doc docid.DocID, count uint32) {
	b.Docs.Push(uint32(doc))
	b.Counts.Push(count)
	b.TotalTermFrequency += uint64(count)
}

func (b *PostingListBuilder) pushPositions(doc docid.DocID, positions *CompressedSortedIntSet) {
	b.Docs.Push(uint32(doc))
	count := uint32(positions.Len())
	b.Counts.Push(count)
	b.Positions = append(b.Positions, positions.EncodeVByte())
	b.TotalTermFrequency += uint64(count)
}

// DenseU32FieldBuilder holds one uint32 per document for a dense column
// (lengths, dense int/float fields with floats bit-reinterpreted).
type DenseU32FieldBuilder struct {
	Total uint64
	Blob  []uint32
}

// NumDocs is the number of documents that have (possibly zero-padded)
// entries in this column.
func (b *DenseU32FieldBuilder) NumDocs() uint32 { return uint32(len(b.Blob)) }

// Insert records x for doc, zero-padding any skipped document ids first.
func (b *DenseU32FieldBuilder) Insert(doc docid.DocID, x uint32) {
	docIndex := int(doc)
	for len(b.Blob) < docIndex {
		b.Blob = append(b.Blob, 0)
	}
	b.Blob = append(b.Blob, x)
	b.Total += uint64(x)
}
