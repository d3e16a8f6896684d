package engine

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/galagoread/galagoread/internal/bytestream"
	"github.com/galagoread/galagoread/internal/btree"
)

// buildTree assembles a minimal one-block, single-file legacy tree holding
// the given ordered (key, value) pairs, matching the on-disk layout:
// [value strip + block header][vocabulary][manifest json][footer]. Keys
// must already be in ascending byte order, mirroring the real writer's
// requirement that vocabulary blocks are sorted.
func buildTree(t *testing.T, readerClass string, pairs [][2][]byte) []byte {
	t.Helper()

	var values []byte
	endOffsets := make([]int, len(pairs))
	for _, p := range pairs {
		values = append(values, p[1]...)
	}

	cursor := 0
	for i, p := range pairs {
		cursor += len(p[1])
		endOffsets[i] = len(values) - cursor
	}

	var header []byte
	keyCountBuf := make([]byte, 8)
	binary.BigEndian.PutUint64(keyCountBuf, uint64(len(pairs)))
	header = append(header, keyCountBuf...)

	header = bytestream.WriteVByte(uint64(len(pairs[0][0])), header)
	header = append(header, pairs[0][0]...)
	header = bytestream.WriteVByte(uint64(endOffsets[0]), header)

	prevKey := pairs[0][0]
	for i := 1; i < len(pairs); i++ {
		key := pairs[i][0]
		common := commonPrefixLen(prevKey, key)
		suffix := key[common:]
		header = bytestream.WriteVByte(uint64(common), header)
		header = bytestream.WriteVByte(uint64(len(key)), header)
		header = append(header, suffix...)
		header = bytestream.WriteVByte(uint64(endOffsets[i]), header)
		prevKey = key
	}

	headerLength := len(header)
	block := append(header, values...)
	blockEnd := len(block)

	var vocab []byte
	vocab = append(vocab, 0, 0, 0, 0) // final key length = 0, vestigial
	vocab = bytestream.WriteVByte(uint64(len(pairs[0][0])), vocab)
	vocab = append(vocab, pairs[0][0]...)
	vocab = bytestream.WriteVByte(0, vocab) // block begin offset = 0
	vocab = bytestream.WriteVByte(uint64(headerLength), vocab)

	manifestJSON := `{"maxKeySize":64,"blockCount":1,"blockSize":` +
		itoa(headerLength) + `,"emptyIndexFile":false,"fileName":"test.keys",` +
		`"readerClass":"` + readerClass + `","keyCount":` +
		itoa(len(pairs)) + `}`

	vocabularyOffset := uint64(blockEnd)
	manifestOffset := vocabularyOffset + uint64(len(vocab))

	out := make([]byte, 0, int(manifestOffset)+len(manifestJSON)+28)
	out = append(out, block...)
	out = append(out, vocab...)
	out = append(out, []byte(manifestJSON)...)

	footer := make([]byte, 28)
	binary.BigEndian.PutUint64(footer[0:8], vocabularyOffset)
	binary.BigEndian.PutUint64(footer[8:16], manifestOffset)
	binary.BigEndian.PutUint32(footer[16:20], uint32(headerLength))
	binary.BigEndian.PutUint64(footer[20:28], btree.MagicNumber)
	out = append(out, footer...)

	return out
}

func commonPrefixLen(a, b []byte) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

// encodePostingFixture builds a minimal positions value: no skips, no
// max-term-frequency hint, no inlining, delta-gapped document ids paired
// with a parallel plain (non delta-gapped) count stream, and an empty
// positions stream, matching the header internal/postings.NewPositions
// parses.
func encodePostingFixture(docs []uint32, counts []uint32) []byte {
	var docsBuf, countsBuf []byte
	prev := uint32(0)
	for i, d := range docs {
		if i == 0 {
			docsBuf = bytestream.WriteVByte(uint64(d), docsBuf)
		} else {
			docsBuf = bytestream.WriteVByte(uint64(d-prev), docsBuf)
		}
		prev = d
	}
	var total uint64
	for _, c := range counts {
		countsBuf = bytestream.WriteVByte(uint64(c), countsBuf)
		total += uint64(c)
	}

	var out []byte
	out = bytestream.WriteVByte(0, out) // optionsByte: no skips/maxtf/inlining
	out = bytestream.WriteVByte(uint64(len(docs)), out)
	out = bytestream.WriteVByte(total, out)
	out = bytestream.WriteVByte(uint64(len(docsBuf)), out)
	out = bytestream.WriteVByte(uint64(len(countsBuf)), out)
	out = bytestream.WriteVByte(0, out) // positionsLength
	out = append(out, docsBuf...)
	out = append(out, countsBuf...)
	return out
}

// encodeLengthsFixture builds a postings/lengths-style dense length column
// value: the fixed 64-byte statistics header internal/postings.NewLengths
// decodes, followed by one big-endian u32 per document from doc 0.
func encodeLengthsFixture(perDoc []uint32) []byte {
	var total, max uint64
	min := uint64(perDoc[0])
	for _, v := range perDoc {
		total += uint64(v)
		if uint64(v) > max {
			max = uint64(v)
		}
		if uint64(v) < min {
			min = uint64(v)
		}
	}
	avg := float64(total) / float64(len(perDoc))

	out := make([]byte, 64+4*len(perDoc))
	binary.BigEndian.PutUint64(out[0:8], uint64(len(perDoc)))
	binary.BigEndian.PutUint64(out[8:16], uint64(len(perDoc)))
	binary.BigEndian.PutUint64(out[16:24], total)
	binary.BigEndian.PutUint64(out[24:32], math.Float64bits(avg))
	binary.BigEndian.PutUint64(out[32:40], max)
	binary.BigEndian.PutUint64(out[40:48], min)
	binary.BigEndian.PutUint64(out[48:56], 0)
	binary.BigEndian.PutUint64(out[56:64], uint64(len(perDoc)-1))
	for i, v := range perDoc {
		binary.BigEndian.PutUint32(out[64+i*4:68+i*4], v)
	}
	return out
}

func docIDKey(id uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], id)
	return b[:]
}

// writeFixtureCorpus lays out a legacy corpus directory with a "postings",
// "lengths", and "names" part built from a small hand-picked three
// document collection over the default field, ready to be driven through
// OpenCorpus and Engine.Search.
func writeFixtureCorpus(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	postingsPairs := [][2][]byte{
		{[]byte("hello"), encodePostingFixture([]uint32{0, 2}, []uint32{2, 1})},
		{[]byte("world"), encodePostingFixture([]uint32{1}, []uint32{3})},
	}
	postingsData := buildTree(t, "org.lemurproject.galago.core.index.disk.DiskPositionIndexReader", postingsPairs)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "postings"), postingsData, 0o644))

	lengthsPairs := [][2][]byte{
		{[]byte(DefaultFieldName), encodeLengthsFixture([]uint32{5, 4, 6})},
	}
	lengthsData := buildTree(t, "org.lemurproject.galago.core.index.disk.DiskLengthsReader", lengthsPairs)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lengths"), lengthsData, 0o644))

	namesPairs := [][2][]byte{
		{docIDKey(0), []byte("doc-zero")},
		{docIDKey(1), []byte("doc-one")},
		{docIDKey(2), []byte("doc-two")},
	}
	namesData := buildTree(t, "org.lemurproject.galago.core.index.disk.DiskNameReader", namesPairs)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "names"), namesData, 0o644))

	return dir
}
