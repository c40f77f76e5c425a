package kv

import (
	"errors"
	"fmt"
)

/*
Errors that can be returned by the kv package.
*/

////////////////////////////////////////////////////////////////////////////////

// ErrNoCurrentNode is returned when a value or a nest is applied to a tree
// with no node to receive it.
var ErrNoCurrentNode = errors.New("no current node")

// ErrDepthUnderflow is returned when a nest is exited at the root depth.
var ErrDepthUnderflow = errors.New("depth underflow")

// ShapeConflictError is returned when an operation does not fit the shape
// of the tail node, such as a value appended to a nested node.
type ShapeConflictError struct {
	Key   string
	Shape Shape
	Op    string
}

func (e ShapeConflictError) Error() string {
	return fmt.Sprintf("cannot %s on %s node %q", e.Op, e.Shape, e.Key)
}

// Is returns true if the target is a ShapeConflictError.
func (e ShapeConflictError) Is(target error) bool {
	_, ok := target.(ShapeConflictError)
	return ok
}

// RequiredKeyMissingError is returned by Find when a required key has no
// node at the requested occurrence.
type RequiredKeyMissingError struct {
	Key        string
	Occurrence int
}

func (e RequiredKeyMissingError) Error() string {
	if e.Occurrence > 1 {
		return fmt.Sprintf("required key %q (occurrence %d) not found", e.Key, e.Occurrence)
	}
	return fmt.Sprintf("required key %q not found", e.Key)
}

// Is returns true if the target is a RequiredKeyMissingError.
func (e RequiredKeyMissingError) Is(target error) bool {
	_, ok := target.(RequiredKeyMissingError)
	return ok
}

// MalformedTreeError describes a structural problem found by Validate.
type MalformedTreeError struct {
	Index  int
	Node   string
	Reason string
}

func (e MalformedTreeError) Error() string {
	return fmt.Sprintf("malformed tree at node %d (%s): %s", e.Index, e.Node, e.Reason)
}

// Is returns true if the target is a MalformedTreeError.
func (e MalformedTreeError) Is(target error) bool {
	_, ok := target.(MalformedTreeError)
	return ok
}
