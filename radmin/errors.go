package radmin

import (
	"fmt"
)

/*
Errors that can be returned by the radmin package.
*/

////////////////////////////////////////////////////////////////////////////////

// UnknownFunctionError is returned for a function code outside the known
// set.
type UnknownFunctionError struct {
	Code int
}

func (e UnknownFunctionError) Error() string {
	return fmt.Sprintf("function code %d not recognized", e.Code)
}

// Is returns true if the target is an UnknownFunctionError.
func (e UnknownFunctionError) Is(target error) bool {
	_, ok := target.(UnknownFunctionError)
	return ok
}

// UnsupportedFunctionError is returned for a known function this package
// does not implement.
type UnsupportedFunctionError struct {
	Code  FunctionCode
	Group FunctionGroup
}

func (e UnsupportedFunctionError) Error() string {
	return fmt.Sprintf("%s (%s) is not supported", e.Code, e.Group)
}

// Is returns true if the target is an UnsupportedFunctionError.
func (e UnsupportedFunctionError) Is(target error) bool {
	_, ok := target.(UnsupportedFunctionError)
	return ok
}

// ServiceError is returned when the directory service completes a call with
// a nonzero status.
type ServiceError struct {
	Code   FunctionCode
	Status Status
}

func (e ServiceError) Error() string {
	return fmt.Sprintf("%s failed: %s", e.Code, e.Status)
}

// Is returns true if the target is a ServiceError.
func (e ServiceError) Is(target error) bool {
	_, ok := target.(ServiceError)
	return ok
}

// InvalidRequestError is returned when a request document is missing a
// value or holds one of the wrong kind.
type InvalidRequestError struct {
	Key    string
	Reason string
}

func (e InvalidRequestError) Error() string {
	return fmt.Sprintf("invalid request: %s: %s", e.Key, e.Reason)
}

// Is returns true if the target is an InvalidRequestError.
func (e InvalidRequestError) Is(target error) bool {
	_, ok := target.(InvalidRequestError)
	return ok
}
