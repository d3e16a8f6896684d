package scoring_test

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/galagoread/galagoread/internal/bytestream"
	"github.com/galagoread/galagoread/internal/docid"
	"github.com/galagoread/galagoread/internal/postings"
	"github.com/galagoread/galagoread/internal/scoring"
	"github.com/galagoread/galagoread/internal/stats"
)

func encodeCountsPosting(docs, counts []uint32) []byte {
	var docsBuf, countsBuf []byte
	prev := uint32(0)
	var total uint64
	for i, d := range docs {
		if i == 0 {
			docsBuf = bytestream.WriteVByte(uint64(d), docsBuf)
		} else {
			docsBuf = bytestream.WriteVByte(uint64(d-prev), docsBuf)
		}
		prev = d
	}
	for _, c := range counts {
		countsBuf = bytestream.WriteVByte(uint64(c), countsBuf)
		total += uint64(c)
	}

	var out []byte
	out = bytestream.WriteVByte(0, out)
	out = bytestream.WriteVByte(uint64(len(docs)), out)
	out = bytestream.WriteVByte(total, out)
	out = bytestream.WriteVByte(uint64(len(docsBuf)), out)
	out = bytestream.WriteVByte(uint64(len(countsBuf)), out)
	out = bytestream.WriteVByte(0, out)
	out = append(out, docsBuf...)
	out = append(out, countsBuf...)
	return out
}

func encodeLengthsColumn(perDoc []uint32) []byte {
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

// TestBM25EvalScoresAgreeWithHandComputation builds a real counts posting
// and length column (no fakes) for a term occurring twice in a five-word
// document and once in a six-word document out of a three-document, 15-word
// collection, and checks the scorer's output against the closed-form BM25
// value computed by hand from the same inputs.
func TestBM25EvalScoresAgreeWithHandComputation(t *testing.T) {
	postingValue := encodeCountsPosting([]uint32{0, 2}, []uint32{2, 1})
	p, err := postings.NewPositions(postingValue)
	require.NoError(t, err)
	counts, err := postings.NewCountsIter(p)
	require.NoError(t, err)

	lengthsValue := encodeLengthsColumn([]uint32{5, 4, 6})
	lengths, err := postings.NewLengths(lengthsValue)
	require.NoError(t, err)

	s := stats.CountStats{DocumentCount: 3, DocumentFrequency: 2, CollectionLength: 15, CollectionFrequency: 3}
	eval := scoring.NewBM25Eval(counts, lengths, 0.75, 1.2, s)

	idf := math.Log(3.0 / 2.5)
	avgdl := 15.0 / 3.0

	score0 := idf * (2 * 2.2) / (2 + 1.2*(0.25+0.75*5/avgdl))
	require.InDelta(t, score0, float64(eval.Score(docid.DocID(0))), 1e-4)

	_, err = counts.MovePast()
	require.NoError(t, err)
	score2 := idf * (1 * 2.2) / (1 + 1.2*(0.25+0.75*6/avgdl))
	require.InDelta(t, score2, float64(eval.Score(docid.DocID(2))), 1e-4)

	require.Greater(t, score0, score2, "fewer words and more occurrences should outrank a longer, sparser document")
}

func TestBM25EvalMatchesDelegatesToChild(t *testing.T) {
	postingValue := encodeCountsPosting([]uint32{1}, []uint32{4})
	p, err := postings.NewPositions(postingValue)
	require.NoError(t, err)
	counts, err := postings.NewCountsIter(p)
	require.NoError(t, err)

	lengths, err := postings.NewLengths(encodeLengthsColumn([]uint32{10, 20}))
	require.NoError(t, err)

	eval := scoring.NewBM25Eval(counts, lengths, 0.75, 1.2, stats.CountStats{DocumentCount: 2, DocumentFrequency: 1, CollectionLength: 30})
	require.True(t, eval.Matches(docid.DocID(1)))
	require.False(t, eval.Matches(docid.DocID(0)))
}
