package btree

import (
	"github.com/galagoread/galagoread/internal/bytestream"
)

// blockValue is one decoded (key, value-span) pair's span, keyed implicitly
// by whatever BlockIter's caller accumulated into its key buffer.
type blockValue struct {
	start int
	end   int
}

// BlockIter walks the prefix-compressed key stream of a single vocabulary
// block, yielding each key (via a caller-owned, reused buffer) and the byte
// range of its value. Mirrors VocabularyBlockIter in the original.
type BlockIter struct {
	stream   *bytestream.Reader
	valueEnd int
	lastEnd  int
	keyIndex int
	keyCount int
	first    *blockValue
}

// NewBlockIterator prepares an iterator over block, reading its header (key
// count, first key, first value end-offset) out of source immediately.
// keyBuffer is reset and filled with the block's first key.
func NewBlockIterator(source []byte, block VocabularyBlock, keyBuffer *[]byte) (*BlockIter, error) {
	valueStart := block.Begin + int(block.HeaderLength)
	header := bytestream.New(source[block.Begin:valueStart])

	keyCount, err := header.ReadU64()
	if err != nil {
		return nil, err
	}

	firstKeyLength, err := header.ReadVByte()
	if err != nil {
		return nil, err
	}
	firstKey, err := header.Advance(int(firstKeyLength))
	if err != nil {
		return nil, err
	}

	endValueOffset, err := header.ReadVByte()
	if err != nil {
		return nil, err
	}
	lastEnd := block.End - int(endValueOffset)

	*keyBuffer = append((*keyBuffer)[:0], firstKey...)

	return &BlockIter{
		stream:   header,
		valueEnd: block.End,
		lastEnd:  lastEnd,
		keyCount: int(keyCount),
		keyIndex: 1,
		first:    &blockValue{start: valueStart, end: lastEnd},
	}, nil
}

// ReadNext decodes the next key into keyBuffer (overwriting its contents)
// and returns that key's value span. It returns ok=false once the block is
// exhausted.
func (it *BlockIter) ReadNext(keyBuffer *[]byte) (start, end int, ok bool, err error) {
	if it.first != nil {
		f := it.first
		it.first = nil
		return f.start, f.end, true, nil
	}
	if it.keyIndex >= it.keyCount {
		return 0, 0, false, nil
	}

	start = it.lastEnd
	common, err := it.stream.ReadVByte()
	if err != nil {
		return 0, 0, false, err
	}
	keyLength, err := it.stream.ReadVByte()
	if err != nil {
		return 0, 0, false, err
	}
	suffix, err := it.stream.Advance(int(keyLength) - int(common))
	if err != nil {
		return 0, 0, false, err
	}
	endValueOffset, err := it.stream.ReadVByte()
	if err != nil {
		return 0, 0, false, err
	}
	it.lastEnd = it.valueEnd - int(endValueOffset)

	*keyBuffer = append((*keyBuffer)[:common], suffix...)
	it.keyIndex++

	return start, it.lastEnd, true, nil
}
