package segment

import (
	"encoding/binary"
	"math"

	"github.com/galagoread/galagoread/internal/indexer"
)

// lengthsHeaderSize matches internal/postings.NewLengths's expected
// layout, so a flushed length column is directly readable by the same
// decoder the legacy on-disk reader uses.
const lengthsHeaderSize = 8 * 8

// EncodeLengths serializes a dense length column into the same
// fixed 64-byte-header-plus-dense-array shape internal/postings.Lengths
// decodes, letting a freshly flushed segment reuse that reader verbatim.
func EncodeLengths(b *indexer.DenseU32FieldBuilder) []byte {
	n := b.NumDocs()
	out := make([]byte, lengthsHeaderSize+int(n)*4)

	var nonZero, maxLength uint64
	minLength := uint64(math.MaxUint64)
	for _, v := range b.Blob {
		if v != 0 {
			nonZero++
		}
		if uint64(v) > maxLength {
			maxLength = uint64(v)
		}
		if uint64(v) < minLength {
			minLength = uint64(v)
		}
	}
	if n == 0 {
		minLength = 0
	}

	var avg float64
	if n > 0 {
		avg = float64(b.Total) / float64(n)
	}

	u64 := func(i int, v uint64) { binary.BigEndian.PutUint64(out[i*8:i*8+8], v) }
	u64(0, uint64(n))
	u64(1, nonZero)
	u64(2, b.Total)
	u64(3, math.Float64bits(avg))
	u64(4, maxLength)
	u64(5, minLength)
	u64(6, 0)
	lastDoc := uint64(0)
	if n > 0 {
		lastDoc = uint64(n - 1)
	}
	u64(7, lastDoc)

	for i, v := range b.Blob {
		begin := lengthsHeaderSize + i*4
		binary.BigEndian.PutUint32(out[begin:begin+4], v)
	}
	return out
}
