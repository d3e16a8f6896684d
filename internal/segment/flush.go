package segment

import (
	"encoding/binary"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/galagoread/galagoread/internal/fsutil"
	"github.com/galagoread/galagoread/internal/indexer"
	"github.com/galagoread/galagoread/internal/segnaming"
)

// FlushOptions controls where a flushed segment directory is placed and
// how its skip-trees are paged. It mirrors internal/config.SegmentOptions
// directly; engine.Flush passes that struct's fields through unchanged.
type FlushOptions struct {
	DataDir   string
	Directory string
	Prefix    string
	PageSize  uint32
}

// Flush writes every field of idx to a freshly created segment
// directory and returns its path. The directory is named using the
// teacher's segment-rotation sequence convention (prefix_NNNNN_ts),
// discovering the previous highest sequence number the same way the
// teacher's Storage bootstrap did for its append-only log segments —
// generalized here to pick the next *segment directory* rather than
// the next file to keep appending to, since a flush is a one-shot bulk
// write rather than a continuously open append target.
func Flush(idx *indexer.Indexer, opts FlushOptions) (string, error) {
	segRoot := filepath.Join(opts.DataDir, opts.Directory)
	if err := fsutil.CreateDir(segRoot, 0755, true); err != nil {
		return "", err
	}

	nextID := uint64(1)
	if lastName, err := segnaming.GetLastSegmentName(segRoot, opts.Prefix); err != nil {
		return "", err
	} else if lastName != "" {
		if id, err := segnaming.ParseSegmentID(lastName, opts.Prefix); err == nil {
			nextID = id + 1
		}
	}

	name := segnaming.GenerateName(nextID, opts.Prefix, time.Now().UnixNano())
	outDir := filepath.Join(segRoot, name)
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", err
	}

	if err := WriteMetadata(outDir, BuildMetadata(idx)); err != nil {
		return "", err
	}

	pageSize := opts.PageSize
	if pageSize == 0 {
		pageSize = 128
	}

	for _, fieldID := range idx.SortedFieldIDs() {
		meta, _ := idx.FieldMetadata(fieldID)
		name, _ := idx.FieldName(fieldID)

		if err := flushPostings(idx, fieldID, name, outDir, pageSize); err != nil {
			return "", err
		}
		if meta.Dense() {
			if dense, ok := idx.DenseField(fieldID); ok {
				if err := writeDenseColumn(outDir, name, dense); err != nil {
					return "", err
				}
			}
		}
		if lengths, ok := idx.LengthColumn(fieldID); ok {
			if err := os.WriteFile(filepath.Join(outDir, name+".lengths"), EncodeLengths(lengths), 0644); err != nil {
				return "", err
			}
		}
		if meta.Stored {
			if err := flushStoredValues(idx, fieldID, name, outDir); err != nil {
				return "", err
			}
		}
	}

	return outDir, nil
}

func flushPostings(idx *indexer.Indexer, fieldID indexer.FieldID, fieldName, outDir string, pageSize uint32) error {
	termIDs := idx.SortedTermIDs(fieldID)
	if len(termIDs) == 0 {
		return nil
	}

	keys := make([]uint32, len(termIDs))
	for i, term := range termIDs {
		keys[i] = uint32(term)
	}

	vocab := idx.SortedVocab(fieldID)
	entries := make([]VocabEntry, len(vocab))
	for i, v := range vocab {
		entries[i] = VocabEntry{Term: v.Term, ID: uint32(v.ID)}
	}
	if err := WriteVocab(outDir, fieldName, entries); err != nil {
		return err
	}

	path := filepath.Join(outDir, fieldName+".postings")
	w, err := CreateU32KeyWriter(path, uint32(len(keys)), pageSize)
	if err != nil {
		return err
	}

	it := indexer.NewChunkedKeysIter(keys, int(pageSize))
	idx2 := 0
	for {
		_, ok := it.Next()
		if !ok {
			break
		}
		page := it.Keys
		if err := w.StartKeyBlock(page); err != nil {
			return err
		}
		for range page {
			term := termIDs[idx2]
			idx2++
			posting, _ := idx.Posting(fieldID, term)
			if err := WriteFramedValue(w, EncodePosting(posting)); err != nil {
				return err
			}
		}
	}
	return w.Finish()
}

func writeDenseColumn(outDir, fieldName string, b *indexer.DenseU32FieldBuilder) error {
	out := make([]byte, 4+len(b.Blob)*4)
	binary.BigEndian.PutUint32(out[0:4], b.NumDocs())
	for i, v := range b.Blob {
		begin := 4 + i*4
		binary.BigEndian.PutUint32(out[begin:begin+4], v)
	}
	return os.WriteFile(filepath.Join(outDir, fieldName+".dense"), out, 0644)
}

// storedRecord is the JSON-encoded shape of one stored field value,
// scoped to this private flush format (the Snappy corpus format in
// internal/corpus is reserved for the legacy on-disk "corpus" part).
type storedRecord struct {
	Doc   uint32 `json:"doc"`
	Text  string `json:"text,omitempty"`
	Int   uint32 `json:"int,omitempty"`
	Float float32 `json:"float,omitempty"`
	Kind  int    `json:"kind"`
}

func flushStoredValues(idx *indexer.Indexer, fieldID indexer.FieldID, fieldName, outDir string) error {
	docIDs := idx.SortedStoredDocIDs(fieldID)
	if len(docIDs) == 0 {
		return nil
	}
	records := make([]storedRecord, 0, len(docIDs))
	for _, doc := range docIDs {
		value, _ := idx.StoredValue(fieldID, doc)
		records = append(records, storedRecord{
			Doc: uint32(doc), Text: value.Text, Int: value.IntValue,
			Float: value.FloatValue, Kind: int(value.Kind),
		})
	}
	data, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outDir, fieldName+".stored"), data, 0644)
}
