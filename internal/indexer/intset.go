package indexer

import "github.com/galagoread/galagoread/internal/bytestream"

// IndexChunkSize bounds each backing buffer of a ChunkedIntList so a
// posting list grows by fixed-size slabs instead of one big reallocating
// slice.
const IndexChunkSize = 65536

// ChunkedIntList is an append-only list of uint32s, stored as a sequence
// of fixed-capacity chunks rather than one contiguous growing slice.
type ChunkedIntList struct {
	buffers [][]uint32
}

func newChunkedIntList() ChunkedIntList {
	return ChunkedIntList{buffers: [][]uint32{make([]uint32, 0, IndexChunkSize)}}
}

func (c *ChunkedIntList) appendChunk() {
	c.buffers = append(c.buffers, make([]uint32, 0, IndexChunkSize))
}

// Push appends n, opening a new chunk first if the last one is full.
func (c *ChunkedIntList) Push(n uint32) {
	if len(c.buffers) == 0 {
		c.buffers = append(c.buffers, make([]uint32, 0, IndexChunkSize))
	}
	last := &c.buffers[len(c.buffers)-1]
	if len(*last) == IndexChunkSize {
		c.appendChunk()
		last = &c.buffers[len(c.buffers)-1]
	}
	*last = append(*last, n)
}

// Len returns the total number of pushed values.
func (c *ChunkedIntList) Len() int {
	if len(c.buffers) == 0 {
		return 0
	}
	return (len(c.buffers)-1)*IndexChunkSize + len(c.buffers[len(c.buffers)-1])
}

// ToSlice flattens the chunks into one contiguous slice, for flush time.
func (c *ChunkedIntList) ToSlice() []uint32 {
	out := make([]uint32, 0, c.Len())
	for _, chunk := range c.buffers {
		out = append(out, chunk...)
	}
	return out
}

// CompressedSortedIntSet accumulates a strictly ascending run of uint32
// positions as delta gaps, ready for variable-byte encoding.
type CompressedSortedIntSet struct {
	deltas []uint32
	prev   uint32
	seen   bool
}

// Push appends n, which must be strictly greater than the previous push.
// The first push may be any value; it is stored as-is rather than as a gap.
func (s *CompressedSortedIntSet) Push(n uint32) {
	if s.seen {
		s.deltas = append(s.deltas, n-s.prev)
	} else {
		s.deltas = append(s.deltas, n)
		s.seen = true
	}
	s.prev = n
}

// Len returns the number of pushed positions.
func (s *CompressedSortedIntSet) Len() int { return len(s.deltas) }

// EncodeVByte serializes the delta-gapped run using the shared
// high-bit-terminator vbyte convention. The original indexer reaches for
// a SIMD stream-vbyte crate here; no equivalent exists among the
// example repos, and a scalar vbyte round-trips identically, so
// internal/bytestream's existing codec is reused instead of adding a
// dependency that has no grounded Go analogue.
func (s *CompressedSortedIntSet) EncodeVByte() []byte {
	buf := make([]byte, 0, 5*len(s.deltas))
	for _, d := range s.deltas {
		buf = bytestream.WriteVByte(uint64(d), buf)
	}
	return buf
}
