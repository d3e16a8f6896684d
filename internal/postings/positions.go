package postings

import (
	"github.com/galagoread/galagoread/internal/bytestream"
	"github.com/galagoread/galagoread/internal/docid"
)

const (
	hasSkips    uint8 = 0b1
	hasMaxTF    uint8 = 0b10
	hasInlining uint8 = 0b100
)

// Positions is the parsed header of a positional posting list value: byte
// ranges for the delta-gapped document-id, count, and position streams.
// Skip-list metadata is parsed (to stay aligned) and discarded — this
// format has never been observed to carry real skip data.
type Positions struct {
	source []byte

	DocumentCount        uint64
	TotalPositionCount   uint64
	MaximumPositionCount uint32
	hasMaxTF             bool
	inlineMinimum        uint32
	hasInlining          bool

	documents [2]int
	counts    [2]int
	positionsRange [2]int
}

// NewPositions parses the fixed-shape header in front of a positions value.
func NewPositions(value []byte) (*Positions, error) {
	r := bytestream.New(value)

	optionsByte, err := r.ReadVByte()
	if err != nil {
		return nil, err
	}
	options := uint8(optionsByte)
	skips := options&hasSkips != 0
	maxtf := options&hasMaxTF != 0
	inlining := options&hasInlining != 0

	p := &Positions{source: value, hasMaxTF: maxtf, hasInlining: inlining}

	if inlining {
		v, err := r.ReadVByte()
		if err != nil {
			return nil, err
		}
		p.inlineMinimum = uint32(v)
	}

	documentCount, err := r.ReadVByte()
	if err != nil {
		return nil, err
	}
	p.DocumentCount = documentCount

	totalPositionCount, err := r.ReadVByte()
	if err != nil {
		return nil, err
	}
	p.TotalPositionCount = totalPositionCount

	if maxtf {
		v, err := r.ReadVByte()
		if err != nil {
			return nil, err
		}
		p.MaximumPositionCount = uint32(v)
	}

	if skips {
		if _, err := r.ReadVByte(); err != nil { // distance
			return nil, err
		}
		if _, err := r.ReadVByte(); err != nil { // reset_distance
			return nil, err
		}
		if _, err := r.ReadVByte(); err != nil { // total
			return nil, err
		}
	}

	documentsLength, err := r.ReadVByte()
	if err != nil {
		return nil, err
	}
	countsLength, err := r.ReadVByte()
	if err != nil {
		return nil, err
	}
	positionsLength, err := r.ReadVByte()
	if err != nil {
		return nil, err
	}
	if skips {
		if _, err := r.ReadVByte(); err != nil { // skips_length
			return nil, err
		}
		if _, err := r.ReadVByte(); err != nil { // skip_positions_length
			return nil, err
		}
	}

	documentsStart := r.Tell()
	countsStart := documentsStart + int(documentsLength)
	positionsStart := countsStart + int(countsLength)
	positionsEnd := positionsStart + int(positionsLength)

	p.documents = [2]int{documentsStart, countsStart}
	p.counts = [2]int{countsStart, positionsStart}
	p.positionsRange = [2]int{positionsStart, positionsEnd}

	return p, nil
}

func (p *Positions) substream(span [2]int) *bytestream.Reader {
	return bytestream.New(p.source[span[0]:span[1]])
}

// currentPositionsHasLength reports whether count-many positions for the
// current posting were written with a leading byte-length prefix, which
// only happens above the inlining threshold.
func (p *Positions) currentPositionsHasLength(count uint32) bool {
	return p.hasInlining && count > p.inlineMinimum
}

// DocsIter walks only the document-id stream — cheapest way to test
// presence without decoding counts or positions.
type DocsIter struct {
	positions       *Positions
	documents       *bytestream.Reader
	documentIndex   uint64
	currentDocument docid.DocID
}

// NewDocsIter builds a DocsIter from a parsed Positions value.
func NewDocsIter(p *Positions) (*DocsIter, error) {
	documents := p.substream(p.documents)
	start, err := documents.ReadVByte()
	if err != nil {
		return nil, err
	}
	return &DocsIter{positions: p, documents: documents, currentDocument: docid.DocID(start)}, nil
}

func (it *DocsIter) CurrentDocument() docid.DocID { return it.currentDocument }
func (it *DocsIter) IsDone() bool                 { return it.currentDocument.IsDone() }

// SyncTo advances a linear scan of the document-id stream until reaching or
// passing document.
func (it *DocsIter) SyncTo(document docid.DocID) (docid.DocID, error) {
	for document > it.currentDocument && it.documentIndex < it.positions.DocumentCount {
		it.documentIndex++
		if it.documentIndex >= it.positions.DocumentCount {
			it.currentDocument = docid.NoMore
			break
		}
		delta, err := it.documents.ReadVByte()
		if err != nil {
			return 0, err
		}
		it.currentDocument += docid.DocID(delta)
	}
	return it.currentDocument, nil
}

// MovePast advances to the first document strictly after the current one.
func (it *DocsIter) MovePast() (docid.DocID, error) {
	if it.IsDone() {
		return it.currentDocument, nil
	}
	return it.SyncTo(it.currentDocument + 1)
}

// Matches reports whether doc is present in this posting list.
func (it *DocsIter) Matches(doc docid.DocID) (bool, error) {
	found, err := it.SyncTo(doc)
	return found == doc, err
}

func (it *DocsIter) EstimateDF() uint64 { return it.positions.DocumentCount }

// CountsIter walks the document-id and count streams together, skipping
// positions entirely.
type CountsIter struct {
	positions       *Positions
	documents       *bytestream.Reader
	counts          *bytestream.Reader
	documentIndex   uint64
	currentDocument docid.DocID
	currentCount    uint32
}

// NewCountsIter builds a CountsIter from a parsed Positions value.
func NewCountsIter(p *Positions) (*CountsIter, error) {
	documents := p.substream(p.documents)
	counts := p.substream(p.counts)
	start, err := documents.ReadVByte()
	if err != nil {
		return nil, err
	}
	count, err := counts.ReadVByte()
	if err != nil {
		return nil, err
	}
	return &CountsIter{
		positions: p, documents: documents, counts: counts,
		currentDocument: docid.DocID(start), currentCount: uint32(count),
	}, nil
}

func (it *CountsIter) CurrentDocument() docid.DocID { return it.currentDocument }
func (it *CountsIter) IsDone() bool                 { return it.currentDocument.IsDone() }

func (it *CountsIter) SyncTo(document docid.DocID) (docid.DocID, error) {
	for document > it.currentDocument && it.documentIndex < it.positions.DocumentCount {
		it.documentIndex++
		if it.documentIndex >= it.positions.DocumentCount {
			it.currentDocument = docid.NoMore
			break
		}
		delta, err := it.documents.ReadVByte()
		if err != nil {
			return 0, err
		}
		it.currentDocument += docid.DocID(delta)
		count, err := it.counts.ReadVByte()
		if err != nil {
			return 0, err
		}
		it.currentCount = uint32(count)
	}
	return it.currentDocument, nil
}

func (it *CountsIter) MovePast() (docid.DocID, error) {
	if it.IsDone() {
		return it.currentDocument, nil
	}
	return it.SyncTo(it.currentDocument + 1)
}

func (it *CountsIter) Matches(doc docid.DocID) (bool, error) {
	found, err := it.SyncTo(doc)
	return found == doc, err
}

// Count returns doc's term frequency, or 0 if doc is not current.
func (it *CountsIter) Count(doc docid.DocID) uint32 {
	if doc != it.currentDocument {
		return 0
	}
	return it.currentCount
}

func (it *CountsIter) EstimateDF() uint64 { return it.positions.DocumentCount }

// PositionsIter walks document ids, counts, and delta-gapped term
// positions, lazily decoding the position array only on demand.
type PositionsIter struct {
	positions *Positions
	documents *bytestream.Reader
	counts    *bytestream.Reader
	positionsStream *bytestream.Reader

	documentIndex     uint64
	currentDocument   docid.DocID
	currentCount      uint32
	positionsBuffer   []uint32
	positionsLoaded   bool
	positionsByteSize int
}

// NewPositionsIter builds a full iterator and primes its first posting.
func NewPositionsIter(p *Positions) (*PositionsIter, error) {
	it := &PositionsIter{
		positions:       p,
		documents:       p.substream(p.documents),
		counts:          p.substream(p.counts),
		positionsStream: p.substream(p.positionsRange),
		positionsLoaded: true,
	}
	if err := it.loadNextPosting(); err != nil {
		return nil, err
	}
	return it, nil
}

func (it *PositionsIter) loadNextPosting() error {
	if it.documentIndex >= it.positions.DocumentCount {
		it.positionsBuffer = it.positionsBuffer[:0]
		it.currentCount = 0
		it.currentDocument = docid.NoMore
		return nil
	}

	if !it.positionsLoaded {
		if it.positions.currentPositionsHasLength(it.currentCount) {
			if _, err := it.positionsStream.Advance(it.positionsByteSize); err != nil {
				return err
			}
		} else {
			for i := uint32(0); i < it.currentCount; i++ {
				if _, err := it.positionsStream.ReadVByte(); err != nil {
					return err
				}
			}
		}
	}

	delta, err := it.documents.ReadVByte()
	if err != nil {
		return err
	}
	it.currentDocument += docid.DocID(delta)

	count, err := it.counts.ReadVByte()
	if err != nil {
		return err
	}
	it.currentCount = uint32(count)
	it.positionsLoaded = false

	if it.positions.currentPositionsHasLength(it.currentCount) {
		size, err := it.positionsStream.ReadVByte()
		if err != nil {
			return err
		}
		it.positionsByteSize = int(size)
	} else {
		if err := it.loadPositions(); err != nil {
			return err
		}
	}

	return nil
}

func (it *PositionsIter) loadPositions() error {
	if it.positionsLoaded {
		return nil
	}
	it.positionsBuffer = it.positionsBuffer[:0]
	var position uint32
	for i := uint32(0); i < it.currentCount; i++ {
		delta, err := it.positionsStream.ReadVByte()
		if err != nil {
			return err
		}
		position += uint32(delta)
		it.positionsBuffer = append(it.positionsBuffer, position)
	}
	it.positionsLoaded = true
	return nil
}

// GetPositions returns the decoded positions of the current posting,
// loading them lazily if they were inlined with a length prefix.
func (it *PositionsIter) GetPositions() ([]uint32, error) {
	if it.IsDone() {
		return nil, nil
	}
	if err := it.loadPositions(); err != nil {
		return nil, err
	}
	return it.positionsBuffer, nil
}

func (it *PositionsIter) CurrentDocument() docid.DocID { return it.currentDocument }
func (it *PositionsIter) IsDone() bool                 { return it.currentDocument.IsDone() }

// SyncTo walks postings forward one at a time until reaching or passing
// document.
func (it *PositionsIter) SyncTo(document docid.DocID) (docid.DocID, error) {
	for document > it.currentDocument && it.documentIndex < it.positions.DocumentCount {
		it.documentIndex++
		if err := it.loadNextPosting(); err != nil {
			return 0, err
		}
	}
	return it.currentDocument, nil
}

// MovePast advances to the first document strictly after the current one.
func (it *PositionsIter) MovePast() (docid.DocID, error) {
	if it.IsDone() {
		return it.currentDocument, nil
	}
	return it.SyncTo(it.currentDocument + 1)
}

func (it *PositionsIter) Matches(doc docid.DocID) (bool, error) {
	found, err := it.SyncTo(doc)
	return found == doc, err
}

// Count returns doc's term frequency, or 0 if doc is not current.
func (it *PositionsIter) Count(doc docid.DocID) uint32 {
	if doc != it.currentDocument {
		return 0
	}
	return it.currentCount
}

func (it *PositionsIter) EstimateDF() uint64 { return it.positions.DocumentCount }
