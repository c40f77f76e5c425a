package catalog

import (
	"context"
	"sort"
	"sync"
	"time"
)

/*
memcatalog is an in-memory implementation of the catalog interface. It is
only suitable for usage in testing.
*/

////////////////////////////////////////////////////////////////////////////////

type memcatalog struct {
	entries map[string][]Entry
	mtx     *sync.RWMutex
}

func NewMemCatalog() Catalog {
	return &memcatalog{
		entries: make(map[string][]Entry),
		mtx:     &sync.RWMutex{},
	}
}

func (c *memcatalog) Put(_ context.Context, class, profile, objectID string) error {
	class, profile = normalize(class, profile)
	c.mtx.Lock()
	defer c.mtx.Unlock()
	entries := c.entries[class]
	entry := Entry{
		Class:     class,
		Profile:   profile,
		ObjectID:  objectID,
		Timestamp: time.Now().UTC().Format(time.DateTime),
	}
	i := sort.Search(len(entries), func(i int) bool { return entries[i].Profile >= profile })
	if i < len(entries) && entries[i].Profile == profile {
		entries[i] = entry
		return nil
	}
	entries = append(entries, Entry{})
	copy(entries[i+1:], entries[i:])
	entries[i] = entry
	c.entries[class] = entries
	return nil
}

func (c *memcatalog) Get(_ context.Context, class, profile string) (string, error) {
	class, profile = normalize(class, profile)
	c.mtx.RLock()
	defer c.mtx.RUnlock()
	entries := c.entries[class]
	i := sort.Search(len(entries), func(i int) bool { return entries[i].Profile >= profile })
	if i < len(entries) && entries[i].Profile == profile {
		return entries[i].ObjectID, nil
	}
	return "", ProfileNotFoundError{class, profile}
}

func (c *memcatalog) Next(_ context.Context, class, profile string) (Entry, error) {
	class, profile = normalize(class, profile)
	c.mtx.RLock()
	defer c.mtx.RUnlock()
	entries := c.entries[class]
	i := sort.Search(len(entries), func(i int) bool { return entries[i].Profile > profile })
	if i < len(entries) {
		return entries[i], nil
	}
	return Entry{}, ProfileNotFoundError{class, profile}
}

func (c *memcatalog) List(_ context.Context, class string) ([]Entry, error) {
	class, _ = normalize(class, "")
	c.mtx.RLock()
	defer c.mtx.RUnlock()
	return append([]Entry{}, c.entries[class]...), nil
}
