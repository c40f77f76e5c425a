package kvpath

import "fmt"

// PathError is returned for a path expression that does not parse.
type PathError struct {
	Expr string
	Err  error
}

func (e PathError) Error() string {
	return fmt.Sprintf("invalid path %q: %v", e.Expr, e.Err)
}

func (e PathError) Unwrap() error {
	return e.Err
}

// Is returns true if the target is a PathError.
func (e PathError) Is(target error) bool {
	_, ok := target.(PathError)
	return ok
}
