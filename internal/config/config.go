// Package config defines data structures and functions for configuring
// the galagoread reader and segment writer: page sizing, BM25 defaults,
// and where the in-memory indexer's flush writer places segment files.
package config

import "strings"

// SegmentOptions controls the flush writer's paging and output naming.
type SegmentOptions struct {
	// PageSize is the number of keys per leaf/node block in the
	// skip-tree segment writer.
	//
	//  - Default: 128
	PageSize uint32 `json:"pageSize"`

	// Directory is where flushed segment files are written, relative
	// to DataDir.
	//
	// Default: "/segments"
	Directory string `json:"directory"`

	// Prefix is the filename prefix for segment files. Final filename
	// is "prefix_NNNNN_timestamp.seg".
	//
	// Default: "segment"
	Prefix string `json:"prefix"`
}

// ScoringOptions holds default BM25 parameters, used when a query's
// BM25 node omits explicit b/k.
type ScoringOptions struct {
	// B is the BM25 length-normalization weight.
	//
	// Default: 0.75
	B float32 `json:"b"`

	// K is the BM25 term-frequency saturation parameter.
	//
	// Default: 1.2
	K float32 `json:"k"`
}

// Options defines the configuration parameters for a galagoread
// reader/writer instance.
type Options struct {
	// DataDir is the base path under which opened corpora and written
	// segments live.
	//
	// Default: "/var/lib/galagoread"
	DataDir string `json:"dataDir"`

	// SegmentOptions configures the flush writer.
	SegmentOptions *SegmentOptions `json:"segmentOptions"`

	// ScoringOptions configures default BM25 parameters.
	ScoringOptions *ScoringOptions `json:"scoringOptions"`
}

// OptionFunc mutates an Options during construction.
type OptionFunc func(*Options)

// WithDefaultOptions resets Options to the package defaults.
func WithDefaultOptions() OptionFunc {
	return func(o *Options) {
		opts := NewDefaultOptions()
		o.DataDir = opts.DataDir
		o.SegmentOptions = opts.SegmentOptions
		o.ScoringOptions = opts.ScoringOptions
	}
}

// WithDataDir sets the base data directory.
func WithDataDir(directory string) OptionFunc {
	return func(o *Options) {
		directory = strings.TrimSpace(directory)
		if directory != "" {
			o.DataDir = directory
		}
	}
}

// WithSegmentDir sets the directory for flushed segment files.
func WithSegmentDir(directory string) OptionFunc {
	return func(o *Options) {
		directory = strings.TrimSpace(directory)
		if directory != "" {
			o.SegmentOptions.Directory = directory
		}
	}
}

// WithSegmentPrefix sets the segment filename prefix.
func WithSegmentPrefix(prefix string) OptionFunc {
	return func(o *Options) {
		prefix = strings.TrimSpace(prefix)
		if prefix != "" {
			o.SegmentOptions.Prefix = prefix
		}
	}
}

// WithPageSize sets the skip-tree page size (keys per block).
func WithPageSize(size uint32) OptionFunc {
	return func(o *Options) {
		if size >= MinPageSize && size <= MaxPageSize {
			o.SegmentOptions.PageSize = size
		}
	}
}

// WithBM25Defaults overrides the default b/k used when a query omits them.
func WithBM25Defaults(b, k float32) OptionFunc {
	return func(o *Options) {
		if b >= 0 && k > 0 {
			o.ScoringOptions.B = b
			o.ScoringOptions.K = k
		}
	}
}
