package storage

import (
	"context"
	"errors"
)

/*
Package storage holds captured directory-service records. Records are small
and are always read whole, so providers store opaque objects by id.
*/

////////////////////////////////////////////////////////////////////////////////

// ErrObjectNotFound is returned when an object does not exist.
var ErrObjectNotFound = errors.New("object not found")

// Provider is an object store.
type Provider interface {
	// Put stores data under id, replacing any existing object.
	Put(ctx context.Context, id string, data []byte) error
	// Get returns the object stored under id.
	Get(ctx context.Context, id string) ([]byte, error)
	// Delete removes the object stored under id. Deleting an object that
	// does not exist is not an error.
	Delete(ctx context.Context, id string) error
	String() string
}
