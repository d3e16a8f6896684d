package segment

import (
	"encoding/binary"

	"github.com/galagoread/galagoread/internal/bytestream"
	"github.com/galagoread/galagoread/internal/mmapfile"
)

const footerSize = 32 // root_addr(8) + nodes_start(8) + total_keys(4) + page_size(4) + magic(8)

// KeyRef is the result of a successful FindKeyU32: a stream positioned
// at the first value in the leaf block that held the key, and the
// zero-based index of that key's value within the block.
type KeyRef struct {
	Key    uint32
	Stream *bytestream.Reader
	Offset uint32
}

type nodePointer struct {
	id         uint32
	targetAddr uint64
}

// Reader walks a skip-indexed key file written by U32KeyWriter.
type Reader struct {
	handle     *mmapfile.Handle
	data       []byte
	path       string
	PageSize   uint32
	TotalKeys  uint32
	RootAddr   uint64
	NodesStart uint64
}

// Open mmaps path and parses its footer.
func Open(path string) (*Reader, error) {
	handle, err := mmapfile.Open(path)
	if err != nil {
		return nil, err
	}
	data := handle.Bytes()
	if len(data) < footerSize {
		return nil, errCorruptBlock(0, uint64(len(data)), path)
	}

	// The skip-tree footer is little-endian throughout (it mirrors
	// key_val_files.rs's to_le_bytes calls), unlike the legacy on-disk
	// format's big-endian fixed-width fields, so it's parsed directly
	// rather than through bytestream's big-endian ReadU32/ReadU64.
	footer := data[len(data)-footerSize:]
	rootAddr := binary.LittleEndian.Uint64(footer[0:8])
	nodesStart := binary.LittleEndian.Uint64(footer[8:16])
	totalKeys := binary.LittleEndian.Uint32(footer[16:20])
	pageSize := binary.LittleEndian.Uint32(footer[20:24])
	magic := binary.LittleEndian.Uint64(footer[24:32])
	if magic != DenseKeyWriterMagic {
		handle.Close()
		return nil, errBadMagic(magic, path)
	}

	return &Reader{
		handle:     handle,
		data:       data,
		path:       path,
		PageSize:   pageSize,
		TotalKeys:  totalKeys,
		RootAddr:   rootAddr,
		NodesStart: nodesStart,
	}, nil
}

// Close releases the underlying mmap.
func (r *Reader) Close() error { return r.handle.Close() }

// maxTreeDepth bounds the root-to-leaf walk; a 128-way tree reaches
// billions of keys well within 10 levels, so exceeding it means the
// file is corrupt rather than merely very large.
const maxTreeDepth = 10

// FindKeyU32 walks the tree from the root looking for key, returning a
// KeyRef positioned at its leaf block's value region, or ok=false if
// key isn't present.
func (r *Reader) FindKeyU32(key uint32) (KeyRef, bool, error) {
	if r.TotalKeys == 0 {
		return KeyRef{}, false, nil
	}
	current := nodePointer{id: 0, targetAddr: r.RootAddr}

	for depth := 0; depth < maxTreeDepth; depth++ {
		block := bytestream.NewAt(r.data, int(current.targetAddr))
		tag, err := block.U8()
		if err != nil {
			return KeyRef{}, false, err
		}

		switch tag {
		case DenseLeafBlock:
			numKeys, err := block.ReadVByte()
			if err != nil {
				return KeyRef{}, false, err
			}
			first, err := block.ReadVByte()
			if err != nil {
				return KeyRef{}, false, err
			}
			if key < uint32(first) {
				return KeyRef{}, false, nil
			}
			offset := key - uint32(first)
			if uint64(offset) < numKeys {
				return KeyRef{Key: key, Stream: block, Offset: offset}, true, nil
			}
			return KeyRef{}, false, nil

		case SparseLeafBlock:
			numKeys, err := block.ReadVByte()
			if err != nil {
				return KeyRef{}, false, err
			}
			first, err := block.ReadVByte()
			if err != nil {
				return KeyRef{}, false, err
			}
			current32 := uint32(first)
			var foundOffset uint32
			found := current32 == key
			if found {
				foundOffset = 0
			}
			for i := uint64(1); i < numKeys; i++ {
				delta, err := block.ReadVByte()
				if err != nil {
					return KeyRef{}, false, err
				}
				current32 += uint32(delta)
				if current32 == key {
					found = true
					foundOffset = uint32(i)
				}
			}
			if found {
				return KeyRef{Key: key, Stream: block, Offset: foundOffset}, true, nil
			}
			return KeyRef{}, false, nil

		case NodeBlock:
			numPointers, err := block.ReadVByte()
			if err != nil {
				return KeyRef{}, false, err
			}
			var lastSeen *nodePointer
			var chosen *nodePointer
			for i := uint64(0); i < numPointers; i++ {
				id, err := block.ReadVByte()
				if err != nil {
					return KeyRef{}, false, err
				}
				addr, err := block.ReadVByte()
				if err != nil {
					return KeyRef{}, false, err
				}
				ptr := nodePointer{id: uint32(id), targetAddr: addr}
				if key < ptr.id {
					chosen = lastSeen
					break
				}
				lastSeen = &ptr
				if key == ptr.id {
					chosen = lastSeen
					break
				}
			}
			if chosen == nil {
				chosen = lastSeen
			}
			if chosen == nil {
				return KeyRef{}, false, nil
			}
			current = *chosen

		default:
			return KeyRef{}, false, errCorruptBlock(tag, current.targetAddr, r.path)
		}
	}

	return KeyRef{}, false, errCorruptBlock(0, current.targetAddr, r.path)
}
