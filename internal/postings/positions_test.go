package postings_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/galagoread/galagoread/internal/bytestream"
	"github.com/galagoread/galagoread/internal/docid"
	"github.com/galagoread/galagoread/internal/postings"
)

// encodePositionsValue builds a minimal positions value: no skips, no
// max-term-frequency hint, no inlining. docs must already be absolute,
// ascending document ids; positionsPerDoc[i] holds the ascending term
// positions within document docs[i], with counts[i] == len(positionsPerDoc[i]).
func encodePositionsValue(docs []uint32, positionsPerDoc [][]uint32) []byte {
	var docsBuf, countsBuf, positionsBuf []byte
	prevDoc := uint32(0)
	var total uint64
	for i, d := range docs {
		if i == 0 {
			docsBuf = bytestream.WriteVByte(uint64(d), docsBuf)
		} else {
			docsBuf = bytestream.WriteVByte(uint64(d-prevDoc), docsBuf)
		}
		prevDoc = d

		positions := positionsPerDoc[i]
		countsBuf = bytestream.WriteVByte(uint64(len(positions)), countsBuf)
		total += uint64(len(positions))

		prevPos := uint32(0)
		for _, p := range positions {
			positionsBuf = bytestream.WriteVByte(uint64(p-prevPos), positionsBuf)
			prevPos = p
		}
	}

	var out []byte
	out = bytestream.WriteVByte(0, out) // optionsByte
	out = bytestream.WriteVByte(uint64(len(docs)), out)
	out = bytestream.WriteVByte(total, out)
	out = bytestream.WriteVByte(uint64(len(docsBuf)), out)
	out = bytestream.WriteVByte(uint64(len(countsBuf)), out)
	out = bytestream.WriteVByte(uint64(len(positionsBuf)), out)
	out = append(out, docsBuf...)
	out = append(out, countsBuf...)
	out = append(out, positionsBuf...)
	return out
}

// TestPositionsIteratorExhaustsWithMatchingTotal walks a two-document
// posting list ("the", as it might appear across the reference corpus)
// to exhaustion and confirms the positions actually decoded sum to the
// header's own total_position_count, the first half of scenario #2.
func TestPositionsIteratorExhaustsWithMatchingTotal(t *testing.T) {
	value := encodePositionsValue(
		[]uint32{0, 5},
		[][]uint32{{5, 12, 47}, {0, 100}},
	)

	p, err := postings.NewPositions(value)
	require.NoError(t, err)
	require.Equal(t, uint64(2), p.DocumentCount)
	require.Equal(t, uint64(5), p.TotalPositionCount)

	it, err := postings.NewPositionsIter(p)
	require.NoError(t, err)

	var decoded uint64
	for !it.IsDone() {
		positions, err := it.GetPositions()
		require.NoError(t, err)
		decoded += uint64(len(positions))
		_, err = it.MovePast()
		require.NoError(t, err)
	}

	require.Equal(t, p.TotalPositionCount, decoded)
	require.True(t, it.IsDone())
	require.Equal(t, docid.NoMore, it.CurrentDocument())
}

func TestPositionsIteratorDecodesPositionsPerDocument(t *testing.T) {
	value := encodePositionsValue(
		[]uint32{0, 5},
		[][]uint32{{5, 12, 47}, {0, 100}},
	)
	p, err := postings.NewPositions(value)
	require.NoError(t, err)
	it, err := postings.NewPositionsIter(p)
	require.NoError(t, err)

	require.Equal(t, docid.DocID(0), it.CurrentDocument())
	positions, err := it.GetPositions()
	require.NoError(t, err)
	require.Equal(t, []uint32{5, 12, 47}, positions)

	doc, err := it.MovePast()
	require.NoError(t, err)
	require.Equal(t, docid.DocID(5), doc)
	positions, err = it.GetPositions()
	require.NoError(t, err)
	require.Equal(t, []uint32{0, 100}, positions)
}

// TestPostingListLengthGrowsWithOccurrenceCount reproduces scenario #3: a
// term like "the" that occurs far more often than "chapter" encodes to a
// strictly longer byte span.
func TestPostingListLengthGrowsWithOccurrenceCount(t *testing.T) {
	theValue := encodePositionsValue(
		[]uint32{0, 5},
		[][]uint32{{5, 12, 47}, {0, 100}},
	)
	chapterValue := encodePositionsValue(
		[]uint32{0},
		[][]uint32{{3}},
	)

	require.Greater(t, len(theValue), len(chapterValue))
}

func TestDocsIterSyncToSkipsAhead(t *testing.T) {
	value := encodePositionsValue(
		[]uint32{0, 3, 7},
		[][]uint32{{1}, {1}, {1}},
	)
	p, err := postings.NewPositions(value)
	require.NoError(t, err)
	it, err := postings.NewDocsIter(p)
	require.NoError(t, err)

	doc, err := it.SyncTo(5)
	require.NoError(t, err)
	require.Equal(t, docid.DocID(7), doc)

	matches, err := it.Matches(7)
	require.NoError(t, err)
	require.True(t, matches)

	doc, err = it.MovePast()
	require.NoError(t, err)
	require.True(t, doc.IsDone())
}

func TestCountsIterTracksPerDocumentFrequency(t *testing.T) {
	value := encodePositionsValue(
		[]uint32{0, 2},
		[][]uint32{{1, 2, 3}, {10}},
	)
	p, err := postings.NewPositions(value)
	require.NoError(t, err)
	it, err := postings.NewCountsIter(p)
	require.NoError(t, err)

	require.Equal(t, uint32(3), it.Count(docid.DocID(0)))

	doc, err := it.MovePast()
	require.NoError(t, err)
	require.Equal(t, docid.DocID(2), doc)
	require.Equal(t, uint32(1), it.Count(docid.DocID(2)))
	require.Equal(t, uint32(0), it.Count(docid.DocID(0)))
}
