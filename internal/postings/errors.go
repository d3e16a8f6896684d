package postings

import "github.com/galagoread/galagoread/internal/errs"

func errTruncated(offset int) error {
	return errs.NewTruncatedError(int64(offset))
}
