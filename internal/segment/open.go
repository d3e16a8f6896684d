package segment

import (
	"encoding/binary"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/galagoread/galagoread/internal/docid"
	"github.com/galagoread/galagoread/internal/errs"
)

// Segment is a reopened flush directory: its metadata plus whatever
// per-field readers have been opened so far. Fields are opened lazily
// on first use and cached for the Segment's lifetime.
type Segment struct {
	Dir      string
	Metadata Metadata

	postings map[string]*Reader
	vocab    map[string]map[string]uint32
}

// OpenSegment reads dir's metadata.json and prepares a Segment for
// lazy field access. It does not open any field's postings, dense, or
// lengths file until FindTerm/DenseColumn/Lengths is called for it.
func OpenSegment(dir string) (*Segment, error) {
	m, err := ReadMetadata(dir)
	if err != nil {
		return nil, err
	}
	return &Segment{
		Dir:      dir,
		Metadata: m,
		postings: map[string]*Reader{},
		vocab:    map[string]map[string]uint32{},
	}, nil
}

// Close releases every field reader this Segment has opened.
func (s *Segment) Close() error {
	var firstErr error
	for _, r := range s.postings {
		if err := r.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (s *Segment) postingsReader(field string) (*Reader, error) {
	if r, ok := s.postings[field]; ok {
		return r, nil
	}
	r, err := Open(filepath.Join(s.Dir, field+".postings"))
	if err != nil {
		return nil, err
	}
	s.postings[field] = r
	return r, nil
}

func (s *Segment) vocabFor(field string) (map[string]uint32, error) {
	if v, ok := s.vocab[field]; ok {
		return v, nil
	}
	v, err := ReadVocab(s.Dir, field)
	if err != nil {
		return nil, err
	}
	s.vocab[field] = v
	return v, nil
}

// FindTerm resolves term's text to its term id via the field's
// vocabulary side table, looks it up in the field's postings
// skip-tree, and decodes the posting it finds.
func (s *Segment) FindTerm(field, term string) (*PostingRecord, bool, error) {
	vocab, err := s.vocabFor(field)
	if err != nil {
		return nil, false, err
	}
	id, ok := vocab[term]
	if !ok {
		return nil, false, nil
	}

	reader, err := s.postingsReader(field)
	if err != nil {
		return nil, false, err
	}
	ref, ok, err := reader.FindKeyU32(id)
	if err != nil || !ok {
		return nil, ok, err
	}
	if err := SkipFramedValues(ref.Stream, ref.Offset); err != nil {
		return nil, false, err
	}
	raw, err := ReadFramedValue(ref.Stream)
	if err != nil {
		return nil, false, err
	}
	record, err := DecodePosting(raw)
	if err != nil {
		return nil, false, err
	}
	return record, true, nil
}

// DenseColumn reads field's flushed dense int/float/boolean column.
func (s *Segment) DenseColumn(field string) ([]uint32, error) {
	data, err := os.ReadFile(filepath.Join(s.Dir, field+".dense"))
	if err != nil {
		return nil, errs.NewPathError(s.Dir, err)
	}
	if len(data) < 4 {
		return nil, errs.NewTruncatedError(int64(len(data)))
	}
	n := binary.BigEndian.Uint32(data[0:4])
	out := make([]uint32, n)
	for i := range out {
		begin := 4 + i*4
		out[i] = binary.BigEndian.Uint32(data[begin : begin+4])
	}
	return out, nil
}

// Lengths opens field's flushed length column, in the same shape
// internal/postings.Lengths decodes.
func (s *Segment) Lengths(field string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.Dir, field+".lengths"))
	if err != nil {
		return nil, errs.NewPathError(s.Dir, err)
	}
	return data, nil
}

// StoredRecord is one field's stored value for one document, as
// flushed by segment.Flush.
type StoredRecord struct {
	Doc   docid.DocID
	Text  string
	Int   uint32
	Float float32
	Kind  int
}

// StoredValues reads every stored value recorded for field.
func (s *Segment) StoredValues(field string) ([]StoredRecord, error) {
	data, err := os.ReadFile(filepath.Join(s.Dir, field+".stored"))
	if err != nil {
		return nil, errs.NewPathError(s.Dir, err)
	}
	var raw []storedRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errs.NewBadManifestError("invalid stored field json", err)
	}
	out := make([]StoredRecord, len(raw))
	for i, r := range raw {
		out[i] = StoredRecord{Doc: docid.DocID(r.Doc), Text: r.Text, Int: r.Int, Float: r.Float, Kind: r.Kind}
	}
	return out, nil
}
