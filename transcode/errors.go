package transcode

import (
	"errors"
	"fmt"
)

/*
Errors returned by the transcode package.
*/

////////////////////////////////////////////////////////////////////////////////

// ErrInvalidUTF8 is wrapped by an EncodingError when UTF-8 input is malformed.
var ErrInvalidUTF8 = errors.New("invalid UTF-8")

// EncodingError is returned when text cannot be represented in the target
// character set, or is not valid in the source character set.
type EncodingError struct {
	From   CCSID
	To     CCSID
	Offset int
	Err    error
}

// Error returns a string representation of the error.
func (e EncodingError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("cannot convert %s to %s at byte %d: %v", e.From, e.To, e.Offset, e.Err)
	}
	return fmt.Sprintf("cannot convert %s to %s: %v", e.From, e.To, e.Err)
}

// Unwrap returns the underlying error.
func (e EncodingError) Unwrap() error {
	return e.Err
}

// Is returns true if the target error is an EncodingError.
func (e EncodingError) Is(target error) bool {
	_, ok := target.(EncodingError)
	return ok
}

// UnsupportedPairError is returned when a conversion names a character set
// the package does not know.
type UnsupportedPairError struct {
	From CCSID
	To   CCSID
}

// Error returns a string representation of the error.
func (e UnsupportedPairError) Error() string {
	return fmt.Sprintf("unsupported conversion from %s to %s", e.From, e.To)
}

// Is returns true if the target error is an UnsupportedPairError.
func (e UnsupportedPairError) Is(target error) bool {
	_, ok := target.(UnsupportedPairError)
	return ok
}
