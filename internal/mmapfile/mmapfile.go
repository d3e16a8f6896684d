// Package mmapfile maps on-disk tree and segment files read-only and
// hands out shared-ownership views, matching original_source/src/io_helper.rs's
// open_mmap_file plus the Arc-wrapped mmap it threads through readers.
package mmapfile

import (
	"os"

	"github.com/edsrzf/mmap-go"
)

// Handle is a read-only mapping of a single file. Multiple readers can
// hold the same *Handle, but it is not reference-counted: Close unmaps
// the file at once, and every slice obtained from Bytes becomes invalid
// for all holders.
type Handle struct {
	data mmap.MMap
	file *os.File
}

// Open memory-maps path read-only in its entirety.
func Open(path string) (*Handle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}

	return &Handle{data: data, file: f}, nil
}

// Bytes returns the whole mapped extent. The returned slice is valid
// until Close is called; the mapping and file descriptor are released
// only by that explicit Close, never by the garbage collector.
func (h *Handle) Bytes() []byte {
	return h.data
}

// Len returns the mapped file's size in bytes.
func (h *Handle) Len() int {
	return len(h.data)
}

// Close unmaps the file and releases the file descriptor.
func (h *Handle) Close() error {
	if err := h.data.Unmap(); err != nil {
		h.file.Close()
		return err
	}
	return h.file.Close()
}
