// Package btree implements the memory-mapped, prefix-compressed external
// B-tree reader that backs every on-disk index part (vocabulary, postings,
// lengths, names, corpus). It is grounded on original_source/src/galago/btree.rs.
package btree

import (
	"encoding/json"

	"github.com/galagoread/galagoread/internal/errs"
)

// Manifest is the JSON trailer describing a tree: how it was built, how
// many keys it holds, and which reader should interpret its values. Unknown
// fields (the writer/merger class names, stemmer, cache-group-size, and
// anything index-part-specific) are preserved in Extra rather than dropped.
type Manifest struct {
	MaxKeySize      int             `json:"maxKeySize"`
	BlockCount      uint64          `json:"blockCount"`
	BlockSize       int             `json:"blockSize"`
	EmptyIndexFile  bool            `json:"emptyIndexFile"`
	CacheGroupSize  *int            `json:"cacheGroupSize,omitempty"`
	FileName        string          `json:"fileName"`
	ReaderClass     string          `json:"readerClass"`
	WriterClass     string          `json:"writerClass,omitempty"`
	MergerClass     string          `json:"mergerClass,omitempty"`
	Stemmer         string          `json:"stemmer,omitempty"`
	KeyCount        uint64          `json:"keyCount"`
	Extra           map[string]any  `json:"-"`
}

// manifestAlias lets fileName round-trip under either its documented
// camelCase spelling or the all-lowercase "filename" that real writers
// actually emit.
type manifestAlias struct {
	MaxKeySize     int            `json:"maxKeySize"`
	BlockCount     uint64         `json:"blockCount"`
	BlockSize      int            `json:"blockSize"`
	EmptyIndexFile bool           `json:"emptyIndexFile"`
	CacheGroupSize *int           `json:"cacheGroupSize,omitempty"`
	FileNameCamel  string         `json:"fileName,omitempty"`
	FileNameLower  string         `json:"filename,omitempty"`
	ReaderClass    string         `json:"readerClass"`
	WriterClass    string         `json:"writerClass,omitempty"`
	MergerClass    string         `json:"mergerClass,omitempty"`
	Stemmer        string         `json:"stemmer,omitempty"`
	KeyCount       uint64         `json:"keyCount"`
}

// ParseManifest decodes the JSON manifest stored between the vocabulary and
// the footer. Fields not named on Manifest are kept in Extra, matching the
// original's #[serde(flatten)] catch-all.
func ParseManifest(data []byte) (*Manifest, error) {
	var alias manifestAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return nil, errs.NewBadManifestError("invalid json", err)
	}

	var extra map[string]any
	if err := json.Unmarshal(data, &extra); err != nil {
		return nil, errs.NewBadManifestError("invalid json", err)
	}
	for _, known := range []string{
		"maxKeySize", "blockCount", "blockSize", "emptyIndexFile",
		"cacheGroupSize", "fileName", "filename", "readerClass",
		"writerClass", "mergerClass", "stemmer", "keyCount",
	} {
		delete(extra, known)
	}

	fileName := alias.FileNameCamel
	if fileName == "" {
		fileName = alias.FileNameLower
	}

	return &Manifest{
		MaxKeySize:     alias.MaxKeySize,
		BlockCount:     alias.BlockCount,
		BlockSize:      alias.BlockSize,
		EmptyIndexFile: alias.EmptyIndexFile,
		CacheGroupSize: alias.CacheGroupSize,
		FileName:       fileName,
		ReaderClass:    alias.ReaderClass,
		WriterClass:    alias.WriterClass,
		MergerClass:    alias.MergerClass,
		Stemmer:        alias.Stemmer,
		KeyCount:       alias.KeyCount,
		Extra:          extra,
	}, nil
}
