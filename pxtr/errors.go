package pxtr

import (
	"errors"
	"fmt"
)

/*
Errors that can be returned by the pxtr package.
*/

////////////////////////////////////////////////////////////////////////////////

// ErrBadEyecatcher is returned when a record or parameter list does not begin
// with the PXTR eyecatcher.
var ErrBadEyecatcher = errors.New("bad eyecatcher")

// BoundsError is returned when a structure or datum in a record lies outside
// the record, or outside the length the record declares for itself.
type BoundsError struct {
	What   string
	Offset int
	Length int
	Limit  int
}

func (e BoundsError) Error() string {
	return fmt.Sprintf("%s at offset %d length %d exceeds limit %d", e.What, e.Offset, e.Length, e.Limit)
}

// Is returns true if the target is a BoundsError.
func (e BoundsError) Is(target error) bool {
	_, ok := target.(BoundsError)
	return ok
}

// MalformedRecordError is returned when record structures are in range but
// inconsistent with one another.
type MalformedRecordError struct {
	Offset int
	Reason string
}

func (e MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record at offset %d: %s", e.Offset, e.Reason)
}

// Is returns true if the target is a MalformedRecordError.
func (e MalformedRecordError) Is(target error) bool {
	_, ok := target.(MalformedRecordError)
	return ok
}

// ProfileNameError is returned when a profile name cannot be placed in a
// parameter list.
type ProfileNameError struct {
	Name   string
	Reason string
}

func (e ProfileNameError) Error() string {
	return fmt.Sprintf("invalid profile name %q: %s", e.Name, e.Reason)
}

// Is returns true if the target is a ProfileNameError.
func (e ProfileNameError) Is(target error) bool {
	_, ok := target.(ProfileNameError)
	return ok
}
