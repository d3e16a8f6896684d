package mmapfile

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/galagoread/galagoread/internal/errs"
)

// ValueFileMap lazily opens the numbered sibling value files of a
// split tree (split.keys + file_id.values) on first access, verifying
// each one's magic number before caching it. A single mutex guards the
// fill-or-get: the critical section covers lookup-or-insert only, so a
// losing racer's freshly opened Handle is simply discarded and closed.
type ValueFileMap struct {
	dir          string
	valueMagic   uint64
	mu           sync.Mutex
	handles      map[uint32]*Handle
	poisoned     bool
	verifyMagic  func(*Handle) (uint64, error)
	nameForFile  func(dir string, fileID uint32) string
}

// NewValueFileMap builds a map rooted at dir (the split tree's
// directory), using nameFor to derive each sibling file's path from
// its numeric id and verifyMagic to read back its footer magic.
func NewValueFileMap(dir string, nameFor func(dir string, fileID uint32) string, verifyMagic func(*Handle) (uint64, error)) *ValueFileMap {
	if nameFor == nil {
		nameFor = func(dir string, fileID uint32) string {
			return filepath.Join(dir, fmt.Sprintf("%d.values", fileID))
		}
	}
	return &ValueFileMap{
		dir:         dir,
		handles:     make(map[uint32]*Handle),
		verifyMagic: verifyMagic,
		nameForFile: nameFor,
	}
}

// Get returns the mmap handle for fileID, opening and caching it on
// first access. Concurrent callers racing the first open each do their
// own mmap.Open outside the lock; only the winner's Handle is kept.
func (v *ValueFileMap) Get(fileID uint32) (handle *Handle, err error) {
	defer func() {
		if r := recover(); r != nil {
			v.mu.Lock()
			v.poisoned = true
			v.mu.Unlock()
			handle, err = nil, errs.ErrThreadFailure
		}
	}()

	v.mu.Lock()
	if v.poisoned {
		v.mu.Unlock()
		return nil, errs.ErrThreadFailure
	}
	if h, ok := v.handles[fileID]; ok {
		v.mu.Unlock()
		return h, nil
	}
	v.mu.Unlock()

	path := v.nameForFile(v.dir, fileID)
	opened, err := Open(path)
	if err != nil {
		return nil, err
	}
	if v.verifyMagic != nil {
		if _, err := v.verifyMagic(opened); err != nil {
			opened.Close()
			return nil, err
		}
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if h, ok := v.handles[fileID]; ok {
		// Lost the race; discard our own open.
		opened.Close()
		return h, nil
	}
	v.handles[fileID] = opened
	return opened, nil
}

// CloseAll unmaps every cached sibling value file.
func (v *ValueFileMap) CloseAll() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	var firstErr error
	for id, h := range v.handles {
		if err := h.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(v.handles, id)
	}
	return firstErr
}
