package engine

import (
	"encoding/binary"
	"path/filepath"

	"github.com/galagoread/galagoread/internal/btree"
	"github.com/galagoread/galagoread/internal/corpus"
	"github.com/galagoread/galagoread/internal/docid"
	"github.com/galagoread/galagoread/internal/errs"
	"github.com/galagoread/galagoread/internal/postings"
)

// DefaultFieldName is the field a bare Text/Lengths node resolves to when
// its corpus was built with a single textual field, matching the worked
// "document" field of the reference corpus.
const DefaultFieldName = "document"

// Corpus is an opened legacy on-disk index directory: the named parts
// (postings, lengths, names, names.reverse, corpus) it finds there, opened
// lazily and cached for the Corpus's lifetime.
type Corpus struct {
	dir string

	postings map[string]*btree.Reader
	lengths  map[string]*btree.Reader
	names    *btree.Reader
	reverse  *btree.Reader
	stored   *btree.Reader
}

// OpenCorpus prepares a legacy on-disk corpus directory for queries. It
// does not require every part to exist: a directory holding only
// "postings" and "lengths" supports search, while "names"/"names.reverse"
// are only needed to resolve document identities and "corpus" only to
// fetch stored document text.
func OpenCorpus(dir string) *Corpus {
	return &Corpus{
		dir:      dir,
		postings: map[string]*btree.Reader{},
		lengths:  map[string]*btree.Reader{},
	}
}

// Close releases every part this Corpus has opened.
func (c *Corpus) Close() error {
	var firstErr error
	closeAll := func(readers ...*btree.Reader) {
		for _, r := range readers {
			if r == nil {
				continue
			}
			if err := r.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	for _, r := range c.postings {
		closeAll(r)
	}
	for _, r := range c.lengths {
		closeAll(r)
	}
	closeAll(c.names, c.reverse, c.stored)
	return firstErr
}

func (c *Corpus) partPath(name string) string { return filepath.Join(c.dir, name) }

func postingsPartName(field string) string {
	if field == "" || field == DefaultFieldName {
		return "postings"
	}
	return field + ".postings"
}

func lengthsPartName(field string) string {
	if field == "" || field == DefaultFieldName {
		return "lengths"
	}
	return field + ".lengths"
}

func (c *Corpus) openPostings(field string) (*btree.Reader, error) {
	name := postingsPartName(field)
	if r, ok := c.postings[name]; ok {
		return r, nil
	}
	r, err := btree.Open(c.partPath(name))
	if err != nil {
		return nil, err
	}
	c.postings[name] = r
	return r, nil
}

func (c *Corpus) openLengths(field string) (*btree.Reader, error) {
	name := lengthsPartName(field)
	if r, ok := c.lengths[name]; ok {
		return r, nil
	}
	r, err := btree.Open(c.partPath(name))
	if err != nil {
		return nil, err
	}
	c.lengths[name] = r
	return r, nil
}

// FindPositions looks up term's positional posting list for field, or
// ok=false if the term never occurs.
func (c *Corpus) FindPositions(field, term string) (*postings.Positions, bool, error) {
	reader, err := c.openPostings(field)
	if err != nil {
		return nil, false, err
	}
	value, ok, err := reader.FindStr(term)
	if err != nil || !ok {
		return nil, ok, err
	}
	p, err := postings.NewPositions(value.Bytes())
	if err != nil {
		return nil, false, err
	}
	return p, true, nil
}

// Lengths opens field's document-length column.
func (c *Corpus) Lengths(field string) (*postings.Lengths, error) {
	name := field
	if name == "" {
		name = DefaultFieldName
	}
	reader, err := c.openLengths(field)
	if err != nil {
		return nil, err
	}
	value, ok, err := reader.FindStr(name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errs.NewMissingFieldError(name)
	}
	return postings.NewLengths(value.Bytes())
}

func (c *Corpus) namesReader() (*btree.Reader, error) {
	if c.names != nil {
		return c.names, nil
	}
	r, err := btree.Open(c.partPath("names"))
	if err != nil {
		return nil, err
	}
	c.names = r
	return r, nil
}

func (c *Corpus) reverseReader() (*btree.Reader, error) {
	if c.reverse != nil {
		return c.reverse, nil
	}
	r, err := btree.Open(c.partPath("names.reverse"))
	if err != nil {
		return nil, err
	}
	c.reverse = r
	return r, nil
}

// DocumentName resolves doc's external identifier via the "names" part,
// keyed the same big-endian-u64 width "names.reverse" uses for its values.
func (c *Corpus) DocumentName(doc docid.DocID) (string, error) {
	reader, err := c.namesReader()
	if err != nil {
		return "", err
	}
	var key [8]byte
	binary.BigEndian.PutUint64(key[:], uint64(doc))
	value, ok, err := reader.FindBytes(key[:])
	if err != nil {
		return "", err
	}
	if !ok {
		return "", errs.NewMissingFieldError("document name")
	}
	return value.String(), nil
}

// DocumentID resolves name's internal doc id via the "names.reverse" part.
func (c *Corpus) DocumentID(name string) (docid.DocID, bool, error) {
	reader, err := c.reverseReader()
	if err != nil {
		return 0, false, err
	}
	value, ok, err := reader.FindStr(name)
	if err != nil || !ok {
		return 0, ok, err
	}
	if value.Len() < 8 {
		return 0, false, errs.NewTruncatedError(int64(value.Len()))
	}
	return docid.DocID(binary.BigEndian.Uint64(value.Bytes())), true, nil
}

// StoredDocument fetches doc's stored text and metadata from the "corpus"
// part.
func (c *Corpus) StoredDocument(doc docid.DocID) (corpus.Document, error) {
	if c.stored == nil {
		r, err := btree.Open(c.partPath("corpus"))
		if err != nil {
			return corpus.Document{}, err
		}
		c.stored = r
	}
	var key [8]byte
	binary.BigEndian.PutUint64(key[:], uint64(doc))
	value, ok, err := c.stored.FindBytes(key[:])
	if err != nil {
		return corpus.Document{}, err
	}
	if !ok {
		return corpus.Document{}, errs.NewMissingFieldError("stored document")
	}
	return corpus.Decompress(value)
}
