package kvjson

import (
	"errors"
	"fmt"
)

/*
Errors that can be returned by the kvjson package.
*/

////////////////////////////////////////////////////////////////////////////////

// ErrBufferExhausted is returned when the input ends before the document is
// complete. It is wrapped in a SyntaxError giving the position.
var ErrBufferExhausted = errors.New("buffer exhausted")

// ErrMalformedTree is returned by the generator when node depths do not
// describe a well-formed document.
var ErrMalformedTree = errors.New("malformed tree")

// SyntaxError describes input that does not match the JSON grammar.
type SyntaxError struct {
	Offset   int
	Line     int
	Column   int
	Expected string
	Near     string
	Err      error
}

func (e *SyntaxError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s at line %d, column %d (offset %d): expected %s",
			e.Err, e.Line, e.Column, e.Offset, e.Expected)
	}
	return fmt.Sprintf("syntax error at line %d, column %d (offset %d): expected %s near %q",
		e.Line, e.Column, e.Offset, e.Expected, e.Near)
}

// Unwrap returns the underlying cause, if any.
func (e *SyntaxError) Unwrap() error {
	return e.Err
}
