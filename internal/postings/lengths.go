// Package postings decodes the two value formats stored behind a btree
// lookup: dense document-length arrays and delta-gapped positional posting
// lists, grounded on original_source/src/galago/postings.rs.
package postings

import (
	"encoding/binary"
	"math"

	"github.com/galagoread/galagoread/internal/docid"
)

// Lengths is a decoded field-length value: a fixed statistics header
// followed by one big-endian u32 per document, dense from doc 0.
type Lengths struct {
	source []byte

	TotalDocumentCount   uint64
	NonZeroDocumentCount uint64
	CollectionLength     uint64
	AvgLength            float64
	MaxLength            uint64
	MinLength            uint64
	FirstDoc             docid.DocID
	LastDoc              docid.DocID

	valuesOffset        int
	currentForMovement  docid.DocID
}

const lengthsHeaderSize = 8 * 8

// NewLengths parses the fixed 64-byte header (8 big-endian u64 fields,
// avg_length reinterpreted from its bit pattern) that precedes the dense
// length array.
func NewLengths(value []byte) (*Lengths, error) {
	if len(value) < lengthsHeaderSize {
		return nil, errTruncated(len(value))
	}
	u64 := func(i int) uint64 { return binary.BigEndian.Uint64(value[i*8 : i*8+8]) }

	l := &Lengths{
		source:               value,
		TotalDocumentCount:   u64(0),
		NonZeroDocumentCount: u64(1),
		CollectionLength:     u64(2),
		AvgLength:            math.Float64frombits(u64(3)),
		MaxLength:            u64(4),
		MinLength:            u64(5),
		FirstDoc:             docid.DocID(u64(6)),
		LastDoc:              docid.DocID(u64(7)),
		valuesOffset:         lengthsHeaderSize,
	}
	l.currentForMovement = l.FirstDoc
	return l, nil
}

// NumEntries reports how many documents this length array spans.
func (l *Lengths) NumEntries() int {
	return int(l.LastDoc-l.FirstDoc) + 1
}

// ToSlice decodes the whole dense length array.
func (l *Lengths) ToSlice() []uint32 {
	n := l.NumEntries()
	out := make([]uint32, n)
	begin := l.valuesOffset
	for i := 0; i < n; i++ {
		out[i] = binary.BigEndian.Uint32(l.source[begin+i*4 : begin+i*4+4])
	}
	return out
}

// Count returns doc's length, or 0 if doc falls outside [FirstDoc, LastDoc].
func (l *Lengths) Count(doc docid.DocID) uint32 {
	if doc < l.FirstDoc || doc > l.LastDoc {
		return 0
	}
	offset := int(doc-l.FirstDoc) * 4
	begin := l.valuesOffset + offset
	if begin+4 > len(l.source) {
		return 0
	}
	return binary.BigEndian.Uint32(l.source[begin : begin+4])
}

// Matches is always true: a lengths part covers every document by
// definition (padded with zero where a document never set the field).
func (l *Lengths) Matches(docid.DocID) bool { return true }

// EstimateDF returns the total document count as the iterator's
// document-frequency estimate.
func (l *Lengths) EstimateDF() uint64 { return l.TotalDocumentCount }
