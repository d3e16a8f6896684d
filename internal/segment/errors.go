package segment

import (
	"fmt"

	"github.com/galagoread/galagoread/internal/errs"
)

func errTotalKeysMismatch(written, total uint32) error {
	return errs.NewMissingFieldError(fmt.Sprintf("wrote %d keys but declared %d up front", written, total))
}

func errBadMagic(got uint64, path string) error {
	return errs.NewBadMagicError(got, DenseKeyWriterMagic, path)
}

func errCorruptBlock(tag byte, addr uint64, path string) error {
	return errs.NewBadFileNameError(path).WithMessage(fmt.Sprintf("corrupt block tag %#x at offset %d", tag, addr))
}
