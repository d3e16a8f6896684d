// Package segnaming manages the naming convention for flushed segment
// files, reused from the teacher's Bitcask segment-rotation naming
// scheme: prefix_NNNNN_timestamp.seg, the zero-padded sequence number
// enabling plain lexicographic "latest segment" discovery.
package segnaming

import (
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/galagoread/galagoread/internal/fsutil"
)

// GenerateName builds a segment filename for sequence id under prefix.
func GenerateName(id uint64, prefix string, unixNano int64) string {
	if prefix == "" {
		prefix = "segment"
	}
	return fmt.Sprintf("%s_%05d_%d.seg", prefix, id, unixNano)
}

// ParseSegmentID extracts the sequence id from a segment filename.
func ParseSegmentID(fullPath, prefix string) (uint64, error) {
	_, filename := filepath.Split(fullPath)
	if !strings.HasPrefix(filename, prefix) {
		return 0, fmt.Errorf("filename %s does not start with expected prefix %s", filename, prefix)
	}

	withoutPrefix := strings.TrimPrefix(filename, prefix)
	withoutExtension := strings.Split(withoutPrefix, ".")[0]
	parts := strings.Split(withoutExtension, "_")
	if len(parts) < 3 {
		return 0, fmt.Errorf("filename %s has unexpected format, expected prefix_ID_timestamp.seg", filename)
	}

	id, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse segment ID %q: %w", parts[1], err)
	}
	return id, nil
}

// GetLastSegmentName returns the full path of the highest-sequence
// segment file in segmentDir matching prefix, or "" if none exist.
func GetLastSegmentName(segmentDir, prefix string) (string, error) {
	pattern := filepath.Join(segmentDir, prefix+"*.seg")
	matches, err := fsutil.ReadDir(pattern)
	if err != nil {
		return "", fmt.Errorf("failed to read segment directory with pattern %s: %w", pattern, err)
	}
	if len(matches) == 0 {
		return "", nil
	}
	slices.Sort(matches)
	return matches[len(matches)-1], nil
}
