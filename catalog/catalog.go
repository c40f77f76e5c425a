package catalog

import (
	"context"
	"strings"
)

/*
The catalog associates a profile, named by class and profile name, with the
id of the object holding its captured record in storage. Together with a
storage provider it stands in for the directory service: lookups resolve
through the catalog, and the "next" extract functions walk profiles in
catalog order.

Class and profile names are case-insensitive and stored upper-cased. Profiles
within a class are ordered by the bytes of their names.
*/

////////////////////////////////////////////////////////////////////////////////

// Entry is one catalogued profile.
type Entry struct {
	Class     string `json:"class"`
	Profile   string `json:"profile"`
	ObjectID  string `json:"objectId"`
	Timestamp string `json:"timestamp"`
}

// Catalog maps profiles to object ids.
type Catalog interface {
	// Put records the object id for a profile, replacing any existing entry.
	Put(ctx context.Context, class, profile, objectID string) error
	// Get returns the object id recorded for a profile.
	Get(ctx context.Context, class, profile string) (string, error)
	// Next returns the entry for the first profile in class ordered after
	// profile. An empty profile returns the first entry of the class.
	Next(ctx context.Context, class, profile string) (Entry, error)
	// List returns the entries of a class in order.
	List(ctx context.Context, class string) ([]Entry, error)
}

func normalize(class, profile string) (string, string) {
	return strings.ToUpper(class), strings.ToUpper(profile)
}
