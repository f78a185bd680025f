// Package keyindex holds the in-memory key to file-identifier table.
//
// The table is a derived view: it is rebuilt from the storage directory
// on every store construction and is never persisted. It answers "is this
// key tracked" and "which file holds it", nothing else; values never pass
// through it.
package keyindex

import "sync"

// Index maps keys to file identifiers.
//
// All methods are safe for concurrent use. None of them touch disk or
// can fail; identifier generation happens at the caller so a losing
// racer's candidate is simply discarded.
type Index[K comparable] struct {
	mu  sync.RWMutex
	ids map[K]string
}

// New returns an empty index.
func New[K comparable]() *Index[K] {
	return &Index[K]{ids: make(map[K]string)}
}

// ResolveOrCreate returns the identifier mapped to key, recording next
// as its identifier first if the key is untracked. Exactly one caller
// wins a concurrent first resolve for the same key; every caller gets
// the winner's identifier. The second result reports whether this call
// recorded the mapping.
func (ix *Index[K]) ResolveOrCreate(key K, next string) (string, bool) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if id, ok := ix.ids[key]; ok {
		return id, false
	}

	ix.ids[key] = next

	return next, true
}

// Lookup returns the identifier mapped to key, if any.
func (ix *Index[K]) Lookup(key K) (string, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	id, ok := ix.ids[key]

	return id, ok
}

// Forget removes the mapping for key. No-op if the key is untracked.
func (ix *Index[K]) Forget(key K) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	delete(ix.ids, key)
}

// Take removes the mapping for key and returns the identifier it held.
// Under concurrent Takes of the same key, exactly one caller receives
// the identifier.
func (ix *Index[K]) Take(key K) (string, bool) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	id, ok := ix.ids[key]
	if ok {
		delete(ix.ids, key)
	}

	return id, ok
}

// Contains reports whether key is tracked.
func (ix *Index[K]) Contains(key K) bool {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	_, ok := ix.ids[key]

	return ok
}

// Keys returns a point-in-time copy of all tracked keys.
// Mutations after the call do not affect the returned slice.
func (ix *Index[K]) Keys() []K {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	keys := make([]K, 0, len(ix.ids))
	for key := range ix.ids {
		keys = append(keys, key)
	}

	return keys
}

// Len returns the number of tracked keys.
func (ix *Index[K]) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	return len(ix.ids)
}

// Reset drops every mapping.
func (ix *Index[K]) Reset() {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	clear(ix.ids)
}
