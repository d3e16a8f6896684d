package segment

import (
	"github.com/galagoread/galagoread/internal/bytestream"
	"github.com/galagoread/galagoread/internal/indexer"
)

// EncodePosting serializes a term's in-memory posting-list builder into
// the byte blob stored behind its key in a flushed field's postings
// skip-tree. This is a private, self-contained format (see DESIGN.md's
// Open Question on position encoding): doc ids are delta-gapped, and
// counts/positions are written only when the builder actually carries
// them, so a docs-only posting costs nothing beyond its doc id stream.
func EncodePosting(b *indexer.PostingListBuilder) []byte {
	docs := b.Docs.ToSlice()
	counts := b.Counts.ToSlice()
	hasCounts := len(counts) > 0
	hasPositions := len(b.Positions) > 0

	var out []byte
	out = bytestream.WriteVByte(uint64(len(docs)), out)
	out = bytestream.WriteVByte(b.TotalTermFrequency, out)
	out = append(out, boolByte(hasCounts), boolByte(hasPositions))

	var prev uint32
	for i, doc := range docs {
		out = bytestream.WriteVByte(uint64(doc-prev), out)
		prev = doc
		if hasCounts {
			out = bytestream.WriteVByte(uint64(counts[i]), out)
		}
		if hasPositions {
			blob := b.Positions[i]
			out = bytestream.WriteVByte(uint64(len(blob)), out)
			out = append(out, blob...)
		}
	}
	return out
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// PostingRecord is a decoded posting list, as produced by DecodePosting.
type PostingRecord struct {
	TotalTermFrequency uint64
	Docs               []uint32
	Counts             []uint32
	Positions          [][]uint32
}

// NumDocs is this term's document frequency.
func (p *PostingRecord) NumDocs() int { return len(p.Docs) }

// DecodePosting parses a blob previously produced by EncodePosting.
func DecodePosting(data []byte) (*PostingRecord, error) {
	r := bytestream.New(data)

	numDocs, err := r.ReadVByte()
	if err != nil {
		return nil, err
	}
	totalTermFrequency, err := r.ReadVByte()
	if err != nil {
		return nil, err
	}
	flags, err := r.Advance(2)
	if err != nil {
		return nil, err
	}
	hasCounts := flags[0] != 0
	hasPositions := flags[1] != 0

	rec := &PostingRecord{TotalTermFrequency: totalTermFrequency}
	rec.Docs = make([]uint32, 0, numDocs)
	if hasCounts {
		rec.Counts = make([]uint32, 0, numDocs)
	}
	if hasPositions {
		rec.Positions = make([][]uint32, 0, numDocs)
	}

	var prev uint32
	for i := uint64(0); i < numDocs; i++ {
		delta, err := r.ReadVByte()
		if err != nil {
			return nil, err
		}
		prev += uint32(delta)
		rec.Docs = append(rec.Docs, prev)

		if hasCounts {
			count, err := r.ReadVByte()
			if err != nil {
				return nil, err
			}
			rec.Counts = append(rec.Counts, uint32(count))
		}
		if hasPositions {
			length, err := r.ReadVByte()
			if err != nil {
				return nil, err
			}
			raw, err := r.Advance(int(length))
			if err != nil {
				return nil, err
			}
			positions, err := decodePositionBlob(raw)
			if err != nil {
				return nil, err
			}
			rec.Positions = append(rec.Positions, positions)
		}
	}
	return rec, nil
}

// decodePositionBlob decodes one document's delta-gapped position run, as
// encoded by indexer.CompressedSortedIntSet.EncodeVByte.
func decodePositionBlob(raw []byte) ([]uint32, error) {
	r := bytestream.New(raw)
	var out []uint32
	var pos uint32
	first := true
	for !r.EOF() {
		delta, err := r.ReadVByte()
		if err != nil {
			return nil, err
		}
		if first {
			pos = uint32(delta)
			first = false
		} else {
			pos += uint32(delta)
		}
		out = append(out, pos)
	}
	return out, nil
}

// ReadFramedValue reads one length-prefixed byte blob from r: a vbyte
// length followed by that many raw bytes. Used by readers walking a
// block that holds one variable-length value per key.
func ReadFramedValue(r *bytestream.Reader) ([]byte, error) {
	n, err := r.ReadVByte()
	if err != nil {
		return nil, err
	}
	return r.Advance(int(n))
}

// SkipFramedValues discards n consecutive length-prefixed values from r,
// used to walk from the start of a block to a key's own value once
// FindKeyU32 has reported its offset within the block.
func SkipFramedValues(r *bytestream.Reader, n uint32) error {
	for i := uint32(0); i < n; i++ {
		if _, err := ReadFramedValue(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteFramedValue writes one length-prefixed byte blob to w: a vbyte
// length followed by data verbatim.
func WriteFramedValue(w *U32KeyWriter, data []byte) error {
	if _, err := w.WriteV64(uint64(len(data))); err != nil {
		return err
	}
	_, err := w.WriteBytes(data)
	return err
}
