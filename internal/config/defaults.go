package config

const (
	// DefaultDataDir is used when no data directory is supplied.
	DefaultDataDir = "/var/lib/galagoread"

	// MinPageSize and MaxPageSize bound the skip-tree page size.
	MinPageSize uint32 = 16
	MaxPageSize uint32 = 4096

	// DefaultPageSize matches the 128-key pages used throughout
	// original_source/src/mem/readers.rs's round-trip tests.
	DefaultPageSize uint32 = 128

	// DefaultSegmentDirectory is relative to DataDir.
	DefaultSegmentDirectory = "/segments"

	// DefaultSegmentPrefix names flushed segment files.
	DefaultSegmentPrefix = "segment"

	// DefaultBM25B and DefaultBM25K match the Galago defaults named in
	// spec.md §4.6.
	DefaultBM25B float32 = 0.75
	DefaultBM25K float32 = 1.2
)

var defaultOptions = Options{
	DataDir: DefaultDataDir,
	SegmentOptions: &SegmentOptions{
		PageSize:  DefaultPageSize,
		Prefix:    DefaultSegmentPrefix,
		Directory: DefaultSegmentDirectory,
	},
	ScoringOptions: &ScoringOptions{
		B: DefaultBM25B,
		K: DefaultBM25K,
	},
}

// NewDefaultOptions returns a fresh copy of the package defaults.
func NewDefaultOptions() Options {
	opts := defaultOptions
	segCopy := *defaultOptions.SegmentOptions
	scoreCopy := *defaultOptions.ScoringOptions
	opts.SegmentOptions = &segCopy
	opts.ScoringOptions = &scoreCopy
	return opts
}
