// Package errs implements the error kinds named in the on-disk format
// and query layers as a small chained-error hierarchy, rather than a
// flat set of sentinels. Every domain error wraps a baseError so that
// Unwrap/errors.As keep working across the chain.
package errs

// baseError is a custom error type that can hold extra information.
// This struct follows the error wrapping pattern, allowing us to chain
// errors while preserving context and adding structured details.
type baseError struct {
	cause   error
	message string
	code    ErrorCode
	details map[string]any
}

// NewBaseError creates a new baseError with the given underlying error and message.
func NewBaseError(err error, code ErrorCode, msg string) *baseError {
	return &baseError{cause: err, code: code, message: msg}
}

func (be *baseError) WithMessage(msg string) *baseError {
	be.message = msg
	return be
}

func (be *baseError) WithCode(code ErrorCode) *baseError {
	be.code = code
	return be
}

// WithDetail adds contextual information to help with debugging and logging.
// The details map is lazily initialized to avoid allocating when unused.
func (be *baseError) WithDetail(key string, value any) *baseError {
	if be.details == nil {
		be.details = make(map[string]any)
	}
	be.details[key] = value
	return be
}

func (b *baseError) Error() string {
	if b.cause != nil {
		return b.message + ": " + b.cause.Error()
	}
	return b.message
}

func (b *baseError) Unwrap() error {
	return b.cause
}

func (b *baseError) Code() ErrorCode {
	return b.code
}

func (b *baseError) Details() map[string]any {
	return b.details
}
