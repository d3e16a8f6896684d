// Package segment implements the skip-indexed key-value file format the
// in-memory indexer flushes to: a paged writer producing dense or
// sparse leaf blocks plus logarithmic internal node blocks, and a
// reader that walks the same tree to find a u32 key's value offset.
package segment

import (
	"encoding/binary"
	"os"

	"github.com/galagoread/galagoread/internal/bytestream"
	"github.com/galagoread/galagoread/internal/indexer"
)

// DenseKeyWriterMagic tags both ends of a skip-tree key file. The
// original names this two different ways across its writer and reader
// modules (DENSE_KEY_WRITER_MAGIC / U32_KEY_WRITER_MAGIC); both name the
// same on-disk constant, so this package keeps one.
const DenseKeyWriterMagic uint64 = 0xf1e2d3c4b5a60001

// Leaf and node block tags.
const (
	DenseLeafBlock  byte = 0xaf
	SparseLeafBlock byte = 0xa0
	NodeBlock       byte = 0x10
)

const page4K = 4096

// CountingFileWriter buffers writes in page-sized windows before
// flushing to disk, tracking the total byte offset written so callers
// can record block addresses as they go.
type CountingFileWriter struct {
	file    *os.File
	path    string
	buffer  []byte
	written uint64
}

// CreateCountingFileWriter prepares a fresh write to path; the file itself
// is created (truncating any existing one) on the first buffer flush.
func CreateCountingFileWriter(path string) *CountingFileWriter {
	return &CountingFileWriter{path: path, buffer: make([]byte, 0, page4K)}
}

// Tell reports the total number of logical bytes written so far,
// including anything still buffered.
func (w *CountingFileWriter) Tell() uint64 { return w.written }

// Write appends buf, flushing the internal buffer first if it has grown
// past one page.
func (w *CountingFileWriter) Write(buf []byte) (int, error) {
	if len(w.buffer) > page4K {
		if err := w.flushBuffer(); err != nil {
			return 0, err
		}
	}
	w.buffer = append(w.buffer, buf...)
	w.written += uint64(len(buf))
	return len(buf), nil
}

// Put appends a single byte.
func (w *CountingFileWriter) Put(x byte) {
	w.buffer = append(w.buffer, x)
	w.written++
}

func (w *CountingFileWriter) flushBuffer() error {
	if len(w.buffer) == 0 {
		return nil
	}
	if w.file == nil {
		f, err := os.Create(w.path)
		if err != nil {
			return err
		}
		w.file = f
	}
	if _, err := w.file.Write(w.buffer); err != nil {
		return err
	}
	w.buffer = w.buffer[:0]
	return nil
}

// Flush pushes any buffered bytes to disk and closes the underlying file
// (without an fsync).
func (w *CountingFileWriter) Flush() error {
	if err := w.flushBuffer(); err != nil {
		return err
	}
	if w.file != nil {
		return w.file.Close()
	}
	return nil
}

type idAndValueAddr struct {
	id   uint32
	addr uint64
}

// U32KeyWriter writes one skip-indexed key file: a sequence of leaf
// blocks (each introduced by StartKeyBlock, with value bytes written in
// between by the caller), followed by Finish's logarithmic internal
// node passes and a fixed footer.
type U32KeyWriter struct {
	output      *CountingFileWriter
	skips       []idAndValueAddr
	totalKeys   uint32
	keysWritten uint32
	nodesStart  uint64
	rootAddr    uint64
	pageSize    uint32
}

// CreateU32KeyWriter opens path and writes the leading magic number.
func CreateU32KeyWriter(path string, totalKeys, pageSize uint32) (*U32KeyWriter, error) {
	w := &U32KeyWriter{
		output:    CreateCountingFileWriter(path),
		totalKeys: totalKeys,
		pageSize:  pageSize,
	}
	var magic [8]byte
	binary.LittleEndian.PutUint64(magic[:], DenseKeyWriterMagic)
	if _, err := w.output.Write(magic[:]); err != nil {
		return nil, err
	}
	return w, nil
}

// StartKeyBlock begins one leaf block for keys, choosing a dense
// encoding (num_keys, first_key) when keys are contiguous and a sparse
// one (num_keys, delta-gapped keys) otherwise. The caller writes that
// block's values immediately afterward via WriteV32/WriteV64/WriteBytes/Put.
func (w *U32KeyWriter) StartKeyBlock(keys []uint32) error {
	w.skips = append(w.skips, idAndValueAddr{id: keys[0], addr: w.output.Tell()})

	numKeys := uint32(len(keys))
	if indexer.IsContiguous(keys) {
		w.output.Put(DenseLeafBlock)
		if _, err := w.WriteV32(numKeys); err != nil {
			return err
		}
		if _, err := w.WriteV32(keys[0]); err != nil {
			return err
		}
	} else {
		w.output.Put(SparseLeafBlock)
		if _, err := w.WriteV32(numKeys); err != nil {
			return err
		}
		var prev uint32
		for _, k := range keys {
			if _, err := w.WriteV32(k - prev); err != nil {
				return err
			}
			prev = k
		}
	}
	w.keysWritten += numKeys
	return nil
}

// WriteV64 appends x using the shared high-bit-terminator vbyte codec.
func (w *U32KeyWriter) WriteV64(x uint64) (int, error) {
	buf := bytestream.WriteVByte(x, nil)
	return w.output.Write(buf)
}

// WriteV32 appends x using the shared vbyte codec.
func (w *U32KeyWriter) WriteV32(x uint32) (int, error) {
	return w.WriteV64(uint64(x))
}

// WriteBytes appends x verbatim.
func (w *U32KeyWriter) WriteBytes(x []byte) (int, error) {
	return w.output.Write(x)
}

// Put appends a single byte.
func (w *U32KeyWriter) Put(x byte) { w.output.Put(x) }

// Tell reports the writer's current logical offset.
func (w *U32KeyWriter) Tell() uint64 { return w.output.Tell() }

// Finish writes the logarithmic internal-node passes over the leaf
// block pointers, then a 64-byte-aligned footer
// (root_addr, nodes_start, total_keys, page_size, magic). It must be
// called exactly once, after every leaf block has been written.
func (w *U32KeyWriter) Finish() error {
	if w.keysWritten != w.totalKeys {
		return errTotalKeysMismatch(w.keysWritten, w.totalKeys)
	}
	w.nodesStart = w.output.Tell()

	for len(w.skips) > 1 {
		currentLevel := w.skips
		w.skips = nil
		for start := 0; start < len(currentLevel); start += int(w.pageSize) {
			end := start + int(w.pageSize)
			if end > len(currentLevel) {
				end = len(currentLevel)
			}
			ptrs := currentLevel[start:end]

			here := w.output.Tell()
			w.skips = append(w.skips, idAndValueAddr{id: ptrs[0].id, addr: here})

			w.output.Put(NodeBlock)
			if _, err := w.WriteV32(uint32(len(ptrs))); err != nil {
				return err
			}
			for _, link := range ptrs {
				if _, err := w.WriteV32(link.id); err != nil {
					return err
				}
				if _, err := w.WriteV64(link.addr); err != nil {
					return err
				}
			}
		}
	}

	if len(w.skips) == 1 {
		w.rootAddr = w.skips[0].addr
	}

	for w.output.Tell()%64 != 0 {
		w.output.Put(0)
	}

	var footer [32]byte
	binary.LittleEndian.PutUint64(footer[0:8], w.rootAddr)
	binary.LittleEndian.PutUint64(footer[8:16], w.nodesStart)
	binary.LittleEndian.PutUint32(footer[16:20], w.totalKeys)
	binary.LittleEndian.PutUint32(footer[20:24], w.pageSize)
	binary.LittleEndian.PutUint64(footer[24:32], DenseKeyWriterMagic)
	if _, err := w.output.Write(footer[:]); err != nil {
		return err
	}

	return w.output.Flush()
}
