package errs

import stdErrors "errors"

// IsTreeError reports whether err is, or wraps, a TreeError.
func IsTreeError(err error) bool {
	var te *TreeError
	return stdErrors.As(err, &te)
}

// IsQueryError reports whether err is, or wraps, a QueryError.
func IsQueryError(err error) bool {
	var qe *QueryError
	return stdErrors.As(err, &qe)
}

// AsTreeError extracts a TreeError from an error chain.
func AsTreeError(err error) (*TreeError, bool) {
	var te *TreeError
	if stdErrors.As(err, &te) {
		return te, true
	}
	return nil, false
}

// AsQueryError extracts a QueryError from an error chain.
func AsQueryError(err error) (*QueryError, bool) {
	var qe *QueryError
	if stdErrors.As(err, &qe) {
		return qe, true
	}
	return nil, false
}

// Code extracts the ErrorCode from any error that supports it, or
// ErrorCodeInternal otherwise.
func Code(err error) ErrorCode {
	if te, ok := AsTreeError(err); ok {
		return te.Code()
	}
	if qe, ok := AsQueryError(err); ok {
		return qe.Code()
	}
	return ErrorCodeInternal
}
