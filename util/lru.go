package util

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrValueTooLarge is returned when a value outweighs the whole cache.
var ErrValueTooLarge = errors.New("value is too large")

// LRU is a least-recently-used cache bounded by the total weight of its
// values. It is safe for concurrent use.
type LRU[K comparable, V any] struct {
	entries    map[K]*lruEntry[K, V]
	head, tail *lruEntry[K, V]
	weight     int64
	capacity   int64
	weigh      func(V) int64
	mtx        sync.Mutex
}

type lruEntry[K comparable, V any] struct {
	key        K
	value      V
	weight     int64
	prev, next *lruEntry[K, V]
}

// NewLRU returns a cache holding up to capacity units of weight. A nil weigh
// gives every value a weight of one.
func NewLRU[K comparable, V any](capacity int64, weigh func(V) int64) *LRU[K, V] {
	if weigh == nil {
		weigh = func(V) int64 { return 1 }
	}
	lru := &LRU[K, V]{
		head:     &lruEntry[K, V]{},
		tail:     &lruEntry[K, V]{},
		capacity: capacity,
		weigh:    weigh,
	}
	lru.reset()
	return lru
}

// Reset clears the cache.
func (lru *LRU[K, V]) Reset() {
	lru.mtx.Lock()
	defer lru.mtx.Unlock()
	lru.reset()
}

func (lru *LRU[K, V]) reset() {
	lru.entries = make(map[K]*lruEntry[K, V])
	lru.head.next = lru.tail
	lru.tail.prev = lru.head
	lru.weight = 0
}

func (lru *LRU[K, V]) pushFront(e *lruEntry[K, V]) {
	e.next = lru.head.next
	e.prev = lru.head
	lru.head.next.prev = e
	lru.head.next = e
}

func (lru *LRU[K, V]) unlink(e *lruEntry[K, V]) {
	e.prev.next = e.next
	e.next.prev = e.prev
}

// Put adds or replaces the value for key, evicting the least recently used
// values until the cache is within capacity.
func (lru *LRU[K, V]) Put(key K, value V) error {
	weight := lru.weigh(value)
	if weight > lru.capacity {
		return fmt.Errorf("%w: weight %d exceeds capacity %d", ErrValueTooLarge, weight, lru.capacity)
	}
	lru.mtx.Lock()
	defer lru.mtx.Unlock()
	if e, ok := lru.entries[key]; ok {
		lru.weight -= e.weight
		e.value, e.weight = value, weight
		lru.unlink(e)
		lru.pushFront(e)
	} else {
		e := &lruEntry[K, V]{key: key, value: value, weight: weight}
		lru.entries[key] = e
		lru.pushFront(e)
	}
	lru.weight += weight
	for lru.weight > lru.capacity {
		lru.evict()
	}
	return nil
}

// Get returns the value for key and whether it was present, marking it
// recently used.
func (lru *LRU[K, V]) Get(key K) (V, bool) {
	lru.mtx.Lock()
	defer lru.mtx.Unlock()
	if e, ok := lru.entries[key]; ok {
		lru.unlink(e)
		lru.pushFront(e)
		return e.value, true
	}
	var v V
	return v, false
}

// Delete removes key from the cache.
func (lru *LRU[K, V]) Delete(key K) {
	lru.mtx.Lock()
	defer lru.mtx.Unlock()
	if e, ok := lru.entries[key]; ok {
		lru.unlink(e)
		delete(lru.entries, key)
		lru.weight -= e.weight
	}
}

func (lru *LRU[K, V]) evict() {
	last := lru.tail.prev
	if last == lru.head {
		return
	}
	lru.unlink(last)
	delete(lru.entries, last.key)
	lru.weight -= last.weight
}

// String lists the keys from most to least recently used.
func (lru *LRU[K, V]) String() string {
	lru.mtx.Lock()
	defer lru.mtx.Unlock()
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "(%d/%d) [", lru.weight, lru.capacity)
	for e := lru.head.next; e != lru.tail; e = e.next {
		fmt.Fprintf(sb, "%v", e.key)
		if e.next != lru.tail {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}
