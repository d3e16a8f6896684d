package segment

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/galagoread/galagoread/internal/errs"
	"github.com/galagoread/galagoread/internal/indexer"
)

// FieldSchema is one field's flushed schema entry, mirroring the
// (FieldId, String, FieldMetadata) tuples original_source/src/mem/flush.rs
// collects into its SegmentMetadata before the actual byte-level flush
// (which the retrieval pack never implements beyond that struct).
type FieldSchema struct {
	ID      uint16 `json:"id"`
	Name    string `json:"name"`
	Kind    int    `json:"kind"`
	Options int    `json:"options"`
	Stored  bool   `json:"stored"`
}

// Metadata is the JSON manifest written alongside a flushed segment's
// key files: enough to reopen the segment without access to the
// in-memory Indexer that produced it.
type Metadata struct {
	MaximumDocument uint32        `json:"maximumDocument"`
	Fields          []FieldSchema `json:"fields"`
}

// BuildMetadata captures idx's field schema and current document count.
func BuildMetadata(idx *indexer.Indexer) Metadata {
	var fields []FieldSchema
	for _, id := range idx.SortedFieldIDs() {
		meta, _ := idx.FieldMetadata(id)
		name, _ := idx.FieldName(id)
		fields = append(fields, FieldSchema{
			ID:      uint16(id),
			Name:    name,
			Kind:    int(meta.Kind),
			Options: int(meta.Options),
			Stored:  meta.Stored,
		})
	}
	return Metadata{MaximumDocument: idx.MaxDocument(), Fields: fields}
}

const metadataFileName = "metadata.json"

// WriteMetadata writes m as dir/metadata.json.
func WriteMetadata(dir string, m Metadata) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return errs.NewBadManifestError("failed to encode segment metadata", err)
	}
	return os.WriteFile(filepath.Join(dir, metadataFileName), data, 0644)
}

// ReadMetadata reads dir/metadata.json.
func ReadMetadata(dir string) (Metadata, error) {
	data, err := os.ReadFile(filepath.Join(dir, metadataFileName))
	if err != nil {
		return Metadata{}, errs.NewPathError(dir, err)
	}
	var m Metadata
	if err := json.Unmarshal(data, &m); err != nil {
		return Metadata{}, errs.NewBadManifestError("invalid segment metadata json", err)
	}
	return m, nil
}

// VocabEntry maps one field's token text to the term id used as its key
// in that field's postings skip-tree.
type VocabEntry struct {
	Term string `json:"term"`
	ID   uint32 `json:"id"`
}

func vocabFileName(field string) string { return field + ".vocab.json" }

// WriteVocab writes a field's term -> id mapping as JSON, small enough
// for this to be a reasonable format: the skip-tree itself is keyed by
// the numeric term id, so resolving a query's term text back to an id
// after a segment is reopened needs this side table.
func WriteVocab(dir, field string, entries []VocabEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return errs.NewBadManifestError("failed to encode vocabulary", err)
	}
	return os.WriteFile(filepath.Join(dir, vocabFileName(field)), data, 0644)
}

// ReadVocab reads a field's term -> id mapping back into a lookup map.
func ReadVocab(dir, field string) (map[string]uint32, error) {
	data, err := os.ReadFile(filepath.Join(dir, vocabFileName(field)))
	if err != nil {
		return nil, errs.NewPathError(dir, err)
	}
	var entries []VocabEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, errs.NewBadManifestError("invalid vocabulary json", err)
	}
	out := make(map[string]uint32, len(entries))
	for _, e := range entries {
		out[e.Term] = e.ID
	}
	return out, nil
}
