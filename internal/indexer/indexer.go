// Package indexer builds an in-memory posting/dense-column/stored-field
// index one document at a time, ready for a single flush to paged
// key-value segment files.
package indexer

import (
	"fmt"
	"math"

	"github.com/galagoread/galagoread/internal/docid"
	"github.com/galagoread/galagoread/internal/errs"
	"github.com/galagoread/galagoread/internal/stats"
)

// Indexer is an in-memory index under construction. Build one with New;
// the zero value's maps are nil and DeclareField panics on it. Go has no
// built-in ordered map, so the fields below use plain maps; flush-time
// consumers that need sorted order (the skip-tree segment writer) sort
// keys at iteration time via SortedFieldIDs/SortedTermIDs, then page them
// with ChunkedKeysIter, rather than paying map-sort cost on every insert.
type Indexer struct {
	nextID uint32

	// vocab maps each field's tokens to term ids, scoped per field.
	vocab map[FieldID]map[string]TermID
	// fields maps a declared field name to its id.
	fields map[string]FieldID
	// schema maps a field id to its declared metadata.
	schema map[FieldID]FieldMetadata
	// postings maps field -> term -> that term's posting-list builder.
	postings map[FieldID]map[TermID]*PostingListBuilder
	// denseFields holds dense int/float columns (not length columns).
	denseFields map[FieldID]*DenseU32FieldBuilder
	// storedFields holds the original field value, keyed by doc id, for
	// fields declared with Stored: true.
	storedFields map[FieldID]map[docid.DocID]FieldValue
	// lengths holds each textual field's per-document token count.
	lengths map[FieldID]*DenseU32FieldBuilder
}

// New returns an empty Indexer.
func New() *Indexer {
	return &Indexer{
		vocab:        map[FieldID]map[string]TermID{},
		fields:       map[string]FieldID{},
		schema:       map[FieldID]FieldMetadata{},
		postings:     map[FieldID]map[TermID]*PostingListBuilder{},
		denseFields:  map[FieldID]*DenseU32FieldBuilder{},
		storedFields: map[FieldID]map[docid.DocID]FieldValue{},
		lengths:      map[FieldID]*DenseU32FieldBuilder{},
	}
}

// NextDocID reports the id that will be assigned to the next inserted
// document, which is also the current document count.
func (ix *Indexer) NextDocID() docid.DocID { return docid.DocID(ix.nextID) }

func (ix *Indexer) nextDocID() docid.DocID {
	n := docid.DocID(ix.nextID)
	ix.nextID++
	return n
}

// DeclareField registers name with the given metadata and returns its
// assigned field id, creating the id if name hasn't been seen before.
func (ix *Indexer) DeclareField(name string, metadata FieldMetadata) FieldID {
	id := ix.fieldToID(name)
	metadata.Index = id
	ix.schema[id] = metadata
	return id
}

func (ix *Indexer) fieldToID(field string) FieldID {
	if id, ok := ix.fields[field]; ok {
		return id
	}
	id := FieldID(len(ix.fields))
	ix.fields[field] = id
	return id
}

// FindTermID looks up token's id within field's vocabulary, if it has
// been seen.
func (ix *Indexer) FindTermID(field FieldID, token string) (TermID, bool) {
	terms, ok := ix.vocab[field]
	if !ok {
		return 0, false
	}
	id, ok := terms[token]
	return id, ok
}

func (ix *Indexer) tokenToID(field FieldID, token string) TermID {
	terms, ok := ix.vocab[field]
	if !ok {
		terms = map[string]TermID{}
		ix.vocab[field] = terms
	}
	if id, ok := terms[token]; ok {
		return id
	}
	id := TermID(len(terms))
	terms[token] = id
	return id
}

// GetStats computes collection statistics for one field/term pair,
// reading document count and collection length from the field's length
// column and document/collection frequency from the term's posting
// list (zero if the term was never seen). It reports false if field has
// no length column at all (never declared as a textual field).
func (ix *Indexer) GetStats(field FieldID, term TermID) (stats.CountStats, bool) {
	var out stats.CountStats
	fieldLengths, ok := ix.lengths[field]
	if !ok {
		return out, false
	}
	out.DocumentCount = uint64(fieldLengths.NumDocs())
	out.CollectionLength = fieldLengths.Total

	if termPostings, ok := ix.postings[field][term]; ok {
		out.DocumentFrequency = uint64(termPostings.NumDocs())
		out.CollectionFrequency = termPostings.TotalTermFrequency
	}
	return out, true
}

// InsertDocument assigns the document the next id, dispatches every
// field value by its declared kind, and records any Stored fields
// verbatim. It fails if a field was never declared, if a textual value
// targets a field not declared textual, or if a dense int or float value
// targets a field that is not dense. A categorical value is accepted for
// any declared field, and a dense int or float value is accepted for any
// dense field whatever its declared kind.
func (ix *Indexer) InsertDocument(fields []DocField) (docid.DocID, error) {
	doc := ix.nextDocID()

	var stored []DocField
	for _, f := range fields {
		schema, ok := ix.schema[f.Field]
		if !ok {
			return 0, errs.NewIndexError(fmt.Sprintf("field %d", f.Field), "field was never declared")
		}
		if schema.Stored {
			stored = append(stored, f)
		}

		switch f.Value.Kind {
		case FieldKindCategorical:
			ix.insertTextField(doc, f.Field, []string{f.Value.Text}, TextOptionsDocs)
		case FieldKindTextual:
			if schema.Kind != FieldKindTextual {
				return 0, errs.NewIndexError(fmt.Sprintf("field %d", f.Field), "value is textual but field is not declared textual")
			}
			tokens := WhitespaceTokenizer{}.Tokenize(f.Value.Text)
			ix.insertTextField(doc, f.Field, tokens, schema.Options)
		case FieldKindDenseInt:
			if !schema.Dense() {
				return 0, errs.NewIndexError(fmt.Sprintf("field %d", f.Field), "sparse integer fields are not yet supported")
			}
			ix.denseField(f.Field).Insert(doc, f.Value.IntValue)
		case FieldKindDenseFloat:
			if !schema.Dense() {
				return 0, errs.NewIndexError(fmt.Sprintf("field %d", f.Field), "sparse float fields are not yet supported")
			}
			// Stored as the float's IEEE-754 bit pattern in a u32 slot; the
			// flushed dense column writes it big-endian like every other
			// dense value.
			word := math.Float32bits(f.Value.FloatValue)
			ix.denseField(f.Field).Insert(doc, word)
		}
	}

	for _, f := range stored {
		column, ok := ix.storedFields[f.Field]
		if !ok {
			column = map[docid.DocID]FieldValue{}
			ix.storedFields[f.Field] = column
		}
		column[doc] = f.Value
	}

	return doc, nil
}

func (ix *Indexer) denseField(field FieldID) *DenseU32FieldBuilder {
	b, ok := ix.denseFields[field]
	if !ok {
		b = &DenseU32FieldBuilder{}
		ix.denseFields[field] = b
	}
	return b
}

func (ix *Indexer) insertTextField(doc docid.DocID, field FieldID, tokens []string, options TextOptions) {
	fieldPostings, ok := ix.postings[field]
	if !ok {
		fieldPostings = map[TermID]*PostingListBuilder{}
		ix.postings[field] = fieldPostings
	}

	switch options {
	case TextOptionsDocs:
		for _, token := range tokens {
			termID := ix.tokenToID(field, token)
			posting := termPosting(fieldPostings, termID)
			posting.pushDoc(doc)
		}
	case TextOptionsCounts:
		ix.lengthColumn(field).Insert(doc, uint32(len(tokens)))

		counts := map[TermID]uint32{}
		for _, token := range tokens {
			counts[ix.tokenToID(field, token)]++
		}
		for termID, count := range counts {
			termPosting(fieldPostings, termID).pushCounts(doc, count)
		}
	case TextOptionsPositions:
		ix.lengthColumn(field).Insert(doc, uint32(len(tokens)))

		positions := map[TermID]*CompressedSortedIntSet{}
		for index, token := range tokens {
			termID := ix.tokenToID(field, token)
			set, ok := positions[termID]
			if !ok {
				set = &CompressedSortedIntSet{}
				positions[termID] = set
			}
			set.Push(uint32(index))
		}
		for termID, set := range positions {
			termPosting(fieldPostings, termID).pushPositions(doc, set)
		}
	}
}

func (ix *Indexer) lengthColumn(field FieldID) *DenseU32FieldBuilder {
	b, ok := ix.lengths[field]
	if !ok {
		b = &DenseU32FieldBuilder{}
		ix.lengths[field] = b
	}
	return b
}

func termPosting(fieldPostings map[TermID]*PostingListBuilder, term TermID) *PostingListBuilder {
	b, ok := fieldPostings[term]
	if !ok {
		b = newPostingListBuilder()
		fieldPostings[term] = b
	}
	return b
}
