package btree

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"github.com/galagoread/galagoread/internal/bytestream"
	"github.com/galagoread/galagoread/internal/errs"
	"github.com/galagoread/galagoread/internal/mmapfile"
)

// MagicNumber is the trailing 8 bytes of every legacy Galago tree file.
const MagicNumber uint64 = 0x1a2b3c4d5e6f7a8d

// ValueMagicNumber is the trailing 8 bytes of a split tree's sibling value
// files.
const ValueMagicNumber uint64 = 0x2b3c4d5e6f7a8b9c

// footerSize is len(vocabulary_offset u64, manifest_offset u64,
// block_size u32, magic_number u64).
const footerSize = 8 + 8 + 4 + 8

// locationKind distinguishes a tree stored as one file from one split into
// a keys file plus numbered sibling value files.
type locationKind int

const (
	locationSingleFile locationKind = iota
	locationSplitKeys
)

// Reader is an open, memory-mapped external B-tree. It is safe for
// concurrent point lookups and iteration: the only mutable state is the
// lazily-filled split-tree value file cache, which is internally locked.
type Reader struct {
	keysHandle *mmapfile.Handle
	data       []byte
	kind       locationKind
	keysPath   string

	BlockSize  uint32
	Manifest   *Manifest
	Vocabulary *Vocabulary

	valueFiles *mmapfile.ValueFileMap
}

// resolveLocation decides whether path names a single tree file or a
// directory holding a split.keys file plus numbered value siblings.
func resolveLocation(path string) (locationKind, string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, "", errs.NewPathError(path, err)
	}
	if !info.IsDir() {
		return locationSingleFile, path, nil
	}
	inner := filepath.Join(path, "split.keys")
	innerInfo, err := os.Stat(inner)
	if err != nil || innerInfo.IsDir() {
		return 0, "", errs.NewPathError(path, nil).WithMessage("missing split.keys in directory")
	}
	return locationSplitKeys, inner, nil
}

// openFileMagic memory-maps path and verifies its trailing 8 bytes (big-
// endian) equal magic.
func openFileMagic(path string, magic uint64) (*mmapfile.Handle, error) {
	h, err := mmapfile.Open(path)
	if err != nil {
		return nil, errs.NewPathError(path, err)
	}
	data := h.Bytes()
	if len(data) < 8 {
		h.Close()
		return nil, errs.NewTruncatedError(int64(len(data)))
	}
	found := binary.BigEndian.Uint64(data[len(data)-8:])
	if found != magic {
		h.Close()
		return nil, errs.NewBadMagicError(found, magic, path)
	}
	return h, nil
}

// Open reads a tree's footer, manifest, and vocabulary, mapping the tree
// file (and, for a split tree, leaving its sibling value files to be opened
// lazily on first lookup).
func Open(path string) (*Reader, error) {
	kind, keysPath, err := resolveLocation(path)
	if err != nil {
		return nil, err
	}

	handle, err := openFileMagic(keysPath, MagicNumber)
	if err != nil {
		return nil, err
	}

	data := handle.Bytes()
	fileLength := len(data)
	if fileLength < footerSize {
		handle.Close()
		return nil, errs.NewTruncatedError(int64(fileLength))
	}

	footerStart := fileLength - footerSize
	footer := bytestream.New(data[footerStart:])

	vocabularyOffset, err := footer.ReadU64()
	if err != nil {
		handle.Close()
		return nil, err
	}
	manifestOffset, err := footer.ReadU64()
	if err != nil {
		handle.Close()
		return nil, err
	}
	blockSize, err := footer.ReadU32()
	if err != nil {
		handle.Close()
		return nil, err
	}
	magicNumber, err := footer.ReadU64()
	if err != nil {
		handle.Close()
		return nil, err
	}
	if magicNumber != MagicNumber {
		handle.Close()
		return nil, errs.NewBadMagicError(magicNumber, MagicNumber, keysPath)
	}

	manifest, err := ParseManifest(data[manifestOffset:footerStart])
	if err != nil {
		handle.Close()
		return nil, err
	}

	vocabStart := int(vocabularyOffset)
	vocabEnd := int(manifestOffset)
	vocabReader := bytestream.New(data[vocabStart:vocabEnd])
	vocabulary, err := ReadVocabulary(vocabReader, vocabStart)
	if err != nil {
		handle.Close()
		return nil, err
	}

	r := &Reader{
		keysHandle: handle,
		data:       data,
		kind:       kind,
		keysPath:   keysPath,
		BlockSize:  blockSize,
		Manifest:   manifest,
		Vocabulary: vocabulary,
	}

	if kind == locationSplitKeys {
		dir := filepath.Dir(keysPath)
		r.valueFiles = mmapfile.NewValueFileMap(dir,
			func(dir string, fileID uint32) string {
				return filepath.Join(dir, fmt.Sprintf("%d", fileID))
			},
			func(h *mmapfile.Handle) (uint64, error) {
				data := h.Bytes()
				if len(data) < 8 {
					return 0, errs.NewTruncatedError(int64(len(data)))
				}
				found := binary.BigEndian.Uint64(data[len(data)-8:])
				if found != ValueMagicNumber {
					return 0, errs.NewBadMagicError(found, ValueMagicNumber, dir)
				}
				return found, nil
			},
		)
	}

	return r, nil
}

// Close unmaps the tree's keys file and any opened sibling value files.
func (r *Reader) Close() error {
	var firstErr error
	if r.valueFiles != nil {
		if err := r.valueFiles.CloseAll(); err != nil {
			firstErr = err
		}
	}
	if err := r.keysHandle.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// FileName returns the base name of the tree's keys file.
func (r *Reader) FileName() (string, error) {
	name := filepath.Base(r.keysPath)
	if name == "" || name == "." {
		return "", errs.NewBadFileNameError(r.keysPath)
	}
	return name, nil
}

// PartKind classifies this tree's values via its manifest's reader class.
func (r *Reader) PartKind() (PartKind, error) {
	return ClassifyReaderClass(r.Manifest.ReaderClass)
}

func (r *Reader) valueSource(fileID uint32) ([]byte, error) {
	switch r.kind {
	case locationSingleFile:
		return r.data, nil
	default:
		h, err := r.valueFiles.Get(fileID)
		if err != nil {
			return nil, err
		}
		return h.Bytes(), nil
	}
}

// FindStr looks up key as UTF-8 text.
func (r *Reader) FindStr(key string) (ValueEntry, bool, error) {
	return r.FindBytes([]byte(key))
}

// FindBytes performs a point lookup: binary search to the candidate block,
// then a linear scan of that block's prefix-compressed keys. It returns
// ok=false, not an error, when the key is absent.
func (r *Reader) FindBytes(key []byte) (ValueEntry, bool, error) {
	if len(r.Vocabulary.Blocks) == 0 {
		return ValueEntry{}, false, nil
	}

	blockIndex := r.Vocabulary.BlockBinarySearch(key)
	var keyBuffer []byte

	iter, err := NewBlockIterator(r.data, r.Vocabulary.Blocks[blockIndex], &keyBuffer)
	if err != nil {
		return ValueEntry{}, false, err
	}

	for {
		start, end, ok, err := iter.ReadNext(&keyBuffer)
		if err != nil {
			return ValueEntry{}, false, err
		}
		if !ok {
			return ValueEntry{}, false, nil
		}

		switch {
		case bytes.Equal(key, keyBuffer):
			return r.resolveValue(start, end)
		case bytes.Compare(keyBuffer, key) > 0:
			return ValueEntry{}, false, nil
		}
	}
}

// resolveValue turns a raw (start, end) span from the keys file into a
// ValueEntry, chasing a split tree's (fileID, start, length) indirection
// record when necessary.
func (r *Reader) resolveValue(start, end int) (ValueEntry, bool, error) {
	if r.kind == locationSingleFile {
		return ValueEntry{Source: r.data, Start: start, End: end}, true, nil
	}

	indirection := bytestream.New(r.data[start:end])
	fileID, err := indirection.ReadU32()
	if err != nil {
		return ValueEntry{}, false, err
	}
	valueStart64, err := indirection.ReadU64()
	if err != nil {
		return ValueEntry{}, false, err
	}
	length64, err := indirection.ReadU64()
	if err != nil {
		return ValueEntry{}, false, err
	}

	source, err := r.valueSource(fileID)
	if err != nil {
		return ValueEntry{}, false, err
	}
	valueStart := int(valueStart64)
	return ValueEntry{Source: source, Start: valueStart, End: valueStart + int(length64)}, true, nil
}

// CollectStringKeys decodes every key in the tree as UTF-8 text, in
// ascending order. Intended for small, single-key-per-field trees like
// lengths, not general-purpose corpora.
func (r *Reader) CollectStringKeys() ([]string, error) {
	output := make([]string, 0, r.Manifest.KeyCount)
	var keyBuffer []byte

	for _, block := range r.Vocabulary.Blocks {
		iter, err := NewBlockIterator(r.data, block, &keyBuffer)
		if err != nil {
			return nil, err
		}
		for {
			_, _, ok, err := iter.ReadNext(&keyBuffer)
			if err != nil {
				return nil, err
			}
			if !ok {
				break
			}
			output = append(output, string(keyBuffer))
		}
	}

	return output, nil
}

// ReadNameToID decodes a names.reverse tree into a name -> legacy document
// id map. Each value is a bare big-endian u64, the width the legacy format
// always used for document identifiers.
func (r *Reader) ReadNameToID() (map[string]uint64, error) {
	output := make(map[string]uint64, r.Manifest.KeyCount)
	var keyBuffer []byte

	for _, block := range r.Vocabulary.Blocks {
		iter, err := NewBlockIterator(r.data, block, &keyBuffer)
		if err != nil {
			return nil, err
		}
		for {
			start, end, ok, err := iter.ReadNext(&keyBuffer)
			if err != nil {
				return nil, err
			}
			if !ok {
				break
			}
			valueReader := bytestream.New(r.data[start:end])
			docID, err := valueReader.ReadU64()
			if err != nil {
				return nil, err
			}
			output[string(keyBuffer)] = docID
		}
	}

	return output, nil
}
