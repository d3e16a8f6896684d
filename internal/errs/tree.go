package errs

// TreeError carries location context for failures while opening or
// reading a B-tree/segment file: which path, which file, what byte
// offset, what magic number was actually found.
type TreeError struct {
	*baseError
	path     string
	fileName string
	offset   int64
	found    uint64
}

func newTreeError(err error, code ErrorCode, msg string) *TreeError {
	return &TreeError{baseError: NewBaseError(err, code, msg)}
}

func (te *TreeError) WithPath(path string) *TreeError {
	te.path = path
	return te
}

func (te *TreeError) WithFileName(name string) *TreeError {
	te.fileName = name
	return te
}

func (te *TreeError) WithOffset(offset int64) *TreeError {
	te.offset = offset
	return te
}

func (te *TreeError) WithFound(found uint64) *TreeError {
	te.found = found
	return te
}

func (te *TreeError) Path() string     { return te.path }
func (te *TreeError) FileName() string { return te.fileName }
func (te *TreeError) Offset() int64    { return te.offset }
func (te *TreeError) Found() uint64    { return te.found }

// NewPathError reports that a path is missing or the wrong shape
// (neither a single tree file nor a split.keys directory).
func NewPathError(path string, cause error) *TreeError {
	return newTreeError(cause, ErrorCodePathNotOK, "path is not a valid tree location").WithPath(path)
}

// NewBadMagicError reports a footer or value-file magic mismatch.
func NewBadMagicError(found, expected uint64, path string) *TreeError {
	return newTreeError(nil, ErrorCodeBadMagic, "magic number mismatch").
		WithPath(path).WithFound(found).
		baseDetail("expected", expected)
}

// NewBadManifestError reports a manifest JSON parse failure.
func NewBadManifestError(detail string, cause error) *TreeError {
	return newTreeError(cause, ErrorCodeBadManifest, "bad manifest: "+detail)
}

// NewBadFileNameError reports a filename that cannot be classified
// into a tree/segment role.
func NewBadFileNameError(path string) *TreeError {
	return newTreeError(nil, ErrorCodeBadFileName, "cannot classify file name").WithPath(path)
}

// NewTruncatedError reports a stream that ended mid-value.
func NewTruncatedError(offset int64) *TreeError {
	return newTreeError(nil, ErrorCodeTruncated, "stream truncated").WithOffset(offset)
}

// NewUtf8DecodeError reports key bytes that were not valid UTF-8 where
// text was expected.
func NewUtf8DecodeError(detail string) *TreeError {
	return newTreeError(nil, ErrorCodeUtf8Decode, "invalid utf-8: "+detail)
}

// NewMissingFieldError reports an unknown part class or missing
// manifest field.
func NewMissingFieldError(name string) *TreeError {
	return newTreeError(nil, ErrorCodeMissingField, "missing field or reader: "+name)
}

// NewBadDocIDError reports a zero or negative document id where the
// legacy API disallows it.
func NewBadDocIDError(n int64) *TreeError {
	return newTreeError(nil, ErrorCodeBadDocID, "bad document id").baseDetailInt("docId", n)
}

// NewCompressionError reports a Snappy/zlib failure or missing header
// in a stored-document value.
func NewCompressionError(detail string, cause error) *TreeError {
	return newTreeError(cause, ErrorCodeCompression, "compression error: "+detail)
}

// ErrThreadFailure is returned when the value-file mutex's critical
// section is observed to have poisoned the reader; callers must reopen.
var ErrThreadFailure = newTreeError(nil, ErrorCodeThreadFailure, "value-file map is unusable, reopen the tree")

// WithContext wraps err with a breadcrumb message, preserving the
// wrapped error's code when it is one of ours.
func WithContext(msg string, inner error) error {
	code := ErrorCodeInternal
	if coded, ok := inner.(interface{ Code() ErrorCode }); ok {
		code = coded.Code()
	}
	return NewBaseError(inner, code, msg)
}

func (te *TreeError) baseDetail(key string, value any) *TreeError {
	te.baseError.WithDetail(key, value)
	return te
}

func (te *TreeError) baseDetailInt(key string, value int64) *TreeError {
	te.baseError.WithDetail(key, value)
	return te
}
