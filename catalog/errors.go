package catalog

import "fmt"

// ProfileNotFoundError is returned when the catalog has no entry for a
// profile, or no entry after it.
type ProfileNotFoundError struct {
	Class   string
	Profile string
}

func (e ProfileNotFoundError) Error() string {
	return fmt.Sprintf("profile %s in class %s not found", e.Profile, e.Class)
}

func (e ProfileNotFoundError) Is(target error) bool {
	_, ok := target.(ProfileNotFoundError)
	return ok
}
