package errs

// IndexError reports a problem building the in-memory index: an
// undeclared field, a field value that doesn't match its declared
// kind, or similar schema mismatches caught at insert time.
type IndexError struct {
	*baseError
	field string
}

// NewIndexError reports that field could not be inserted as given.
func NewIndexError(field, detail string) *IndexError {
	return &IndexError{
		baseError: NewBaseError(nil, ErrorCodeMissingField, detail),
		field:     field,
	}
}

func (ie *IndexError) Field() string { return ie.field }
