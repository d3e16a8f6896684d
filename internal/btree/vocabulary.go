package btree

import (
	"bytes"

	"github.com/galagoread/galagoread/internal/bytestream"
)

// VocabularyBlock records the first key of one on-disk block plus the byte
// range (within the tree's value strip) that block's header and keys
// occupy. Mirrors VocabularyReader.IndexBlockInfo in the original Java/Rust.
type VocabularyBlock struct {
	FirstKey     []byte
	Begin        int
	End          int
	HeaderLength uint32
}

// Vocabulary is the ordered list of block descriptors read from a tree's
// trailer. Blocks are in ascending first-key order.
type Vocabulary struct {
	Blocks []VocabularyBlock
}

// ReadVocabulary parses the vocabulary region written between the value
// strip and the manifest. valueDataEnd is the offset (within the tree file)
// where the value strip ends; it becomes the End of the final block, since
// the format only ever records block starts.
//
// The vocabulary begins with a now-vestigial "final key" that historical
// writers recorded for binary-search convenience: a u32 length followed by
// that many key bytes. It is skipped here and never used for lookup.
func ReadVocabulary(vocab *bytestream.Reader, valueDataEnd int) (*Vocabulary, error) {
	finalKeyLength, err := vocab.ReadU32()
	if err != nil {
		return nil, err
	}
	if _, err := vocab.Advance(int(finalKeyLength)); err != nil {
		return nil, err
	}

	var blocks []VocabularyBlock
	for !vocab.EOF() {
		length, err := vocab.ReadVByte()
		if err != nil {
			return nil, err
		}
		key, err := vocab.Advance(int(length))
		if err != nil {
			return nil, err
		}
		offset, err := vocab.ReadVByte()
		if err != nil {
			return nil, err
		}
		headerLength, err := vocab.ReadVByte()
		if err != nil {
			return nil, err
		}

		if n := len(blocks); n > 0 {
			blocks[n-1].End = int(offset)
		}

		blocks = append(blocks, VocabularyBlock{
			Begin:        int(offset),
			HeaderLength: uint32(headerLength),
			FirstKey:     key,
			End:          valueDataEnd,
		})
	}

	return &Vocabulary{Blocks: blocks}, nil
}

// BlockBinarySearch returns the index of the block that may contain key:
// the last block whose FirstKey is <= key among ascending-sorted blocks, or
// block 0 if key sorts before every block's first key. Returns -1 for an
// empty vocabulary; callers must check len(v.Blocks) first.
func (v *Vocabulary) BlockBinarySearch(key []byte) int {
	if len(v.Blocks) == 0 {
		return -1
	}

	left := 0
	right := len(v.Blocks) - 1

	for right-left > 1 {
		middle := (right-left)/2 + left
		switch bytes.Compare(key, v.Blocks[middle].FirstKey) {
		case 0:
			return middle
		case -1:
			right = middle
		default:
			left = middle
		}
	}

	if bytes.Compare(key, v.Blocks[right].FirstKey) < 0 {
		return left
	}
	return right
}
