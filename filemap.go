package filemap

import (
	"errors"
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"github.com/calvinalkan/filemap/codec"
	"github.com/calvinalkan/filemap/internal/keyindex"
	"github.com/calvinalkan/filemap/internal/storage"
)

// DefaultDir is the storage directory used when Open receives an empty
// path, resolved relative to the working directory.
const DefaultDir = ".filemap"

// Entry pairs a key with its current value.
type Entry[K comparable, V any] struct {
	Key   K
	Value V
}

// Map is a key-value store backed by a directory of entry files, one
// file per key. The directory is the durable source of truth; the
// in-memory key index is rebuilt from it on every [Open] and never
// persisted.
//
// # Concurrency
//
// A Map is safe for concurrent use within one process. Index updates
// are atomic per key; file writes are not serialized beyond that, so
// concurrent Puts of the same key end with whichever write finishes
// last. Two handles over one directory (same process or not) hold
// independent indexes and do not see each other's changes.
//
// There is no Close. Abandon the value when done; all durable state
// lives in the directory.
type Map[K comparable, V any] struct {
	index *keyindex.Index[K]
	store *storage.Store
	enc   codec.Codec
	log   *zap.Logger
	met   *metrics
}

// Open creates dir if needed (including parents), rebuilds the key
// index by scanning its entry files, and returns an operational store.
// An empty dir selects [DefaultDir].
//
// Entry files that cannot be read or decoded are skipped silently; use
// [WithLogger] or [WithMetrics] to observe them. Directory-level
// failures (cannot create, cannot list) fail construction.
func Open[K comparable, V any](dir string, opts ...Option) (*Map[K, V], error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if dir == "" {
		dir = DefaultDir
	}

	store, err := storage.Init(dir, o.fsys, o.atomicWrites, o.logger)
	if err != nil {
		return nil, fmt.Errorf("filemap: %w", err)
	}

	raw, skipped, err := store.Scan()
	if err != nil {
		return nil, fmt.Errorf("filemap: %w", err)
	}

	index := keyindex.New[K]()

	for _, entry := range raw {
		var key K

		decodeErr := o.codec.Unmarshal(entry.Key, &key)
		if decodeErr != nil {
			skipped++
			o.logger.Warn("skipping entry file with undecodable key",
				zap.String("file", entry.ID), zap.Error(decodeErr))

			continue
		}

		_, created := index.ResolveOrCreate(key, entry.ID)
		if !created {
			// Two files decoded to the same key; the first one scanned
			// stays authoritative, the other is unreachable until removed.
			o.logger.Warn("ignoring entry file with duplicate key", zap.String("file", entry.ID))
		}
	}

	m := &Map[K, V]{
		index: index,
		store: store,
		enc:   o.codec,
		log:   o.logger,
		met:   newMetrics(o.registerer, dir, index.Len),
	}

	m.met.skipped(skipped)
	o.logger.Debug("store opened",
		zap.String("dir", dir),
		zap.Int("keys", index.Len()),
		zap.Int("skipped_files", skipped))

	return m, nil
}

// Get returns the current value for key, read from disk. The second
// result is false when the key is untracked, its file is missing, or
// the file content cannot be decoded. A missing file also drops the key
// from the index, so the index heals after out-of-band deletions.
func (m *Map[K, V]) Get(key K) (V, bool) {
	m.met.op("get")

	return m.get(key)
}

// Put stores value under key and returns the value it replaced, if any.
// The key must be non-nil ([ErrNilKey] otherwise, with no state change).
// A write failure is returned to the caller; when it was the key's
// first write, the key ends up untracked again.
func (m *Map[K, V]) Put(key K, value V) (V, bool, error) {
	m.met.op("put")

	var zero V

	if isNilKey(key) {
		return zero, false, ErrNilKey
	}

	prev, hadPrev := m.get(key)

	id, ok := m.index.Lookup(key)
	created := false

	if !ok {
		candidate, err := storage.NewFileID()
		if err != nil {
			return zero, false, fmt.Errorf("filemap: put: %w", err)
		}

		id, created = m.index.ResolveOrCreate(key, candidate)
	}

	rawKey, err := m.enc.Marshal(key)
	if err != nil {
		if created {
			m.index.Forget(key)
		}

		return zero, false, fmt.Errorf("filemap: put: encode key: %w", err)
	}

	rawValue, err := m.enc.Marshal(value)
	if err != nil {
		if created {
			m.index.Forget(key)
		}

		return zero, false, fmt.Errorf("filemap: put: encode value: %w", err)
	}

	err = m.store.WriteEntry(id, rawKey, rawValue)
	if err != nil {
		if created {
			m.index.Forget(key)
		}

		return zero, false, fmt.Errorf("filemap: put: %w", err)
	}

	return prev, hadPrev, nil
}

// Remove deletes key and returns the value it held. Removing an
// untracked key is a no-op. File deletion is best effort: a failure is
// swallowed while the key is forgotten anyway, which can leave an
// orphaned file behind until the next out-of-band cleanup.
func (m *Map[K, V]) Remove(key K) (V, bool) {
	m.met.op("remove")

	return m.remove(key)
}

// ContainsKey reports whether key is currently tracked. This is a pure
// index probe; it does not notice out-of-band file deletions until a
// Get of the key does.
func (m *Map[K, V]) ContainsKey(key K) bool {
	m.met.op("contains_key")

	return m.index.Contains(key)
}

// ContainsValue reports whether any tracked key currently holds value.
// It re-reads one file per tracked key and compares decoded values with
// [reflect.DeepEqual].
func (m *Map[K, V]) ContainsValue(value V) bool {
	m.met.op("contains_value")

	for _, key := range m.index.Keys() {
		current, ok := m.get(key)
		if ok && reflect.DeepEqual(current, value) {
			return true
		}
	}

	return false
}

// Keys returns a point-in-time snapshot of all tracked keys, in no
// particular order.
func (m *Map[K, V]) Keys() []K {
	m.met.op("keys")

	return m.index.Keys()
}

// Values returns the current value of every tracked key, re-read from
// disk. Entries whose file is missing or undecodable are skipped.
func (m *Map[K, V]) Values() []V {
	m.met.op("values")

	keys := m.index.Keys()
	values := make([]V, 0, len(keys))

	for _, key := range keys {
		value, ok := m.get(key)
		if ok {
			values = append(values, value)
		}
	}

	return values
}

// Entries returns a snapshot of all (key, value) pairs, built the same
// way as [Map.Values].
func (m *Map[K, V]) Entries() []Entry[K, V] {
	m.met.op("entries")

	keys := m.index.Keys()
	entries := make([]Entry[K, V], 0, len(keys))

	for _, key := range keys {
		value, ok := m.get(key)
		if ok {
			entries = append(entries, Entry[K, V]{Key: key, Value: value})
		}
	}

	return entries
}

// Len returns the number of tracked keys.
func (m *Map[K, V]) Len() int {
	m.met.op("len")

	return m.index.Len()
}

// IsEmpty reports whether no keys are tracked.
func (m *Map[K, V]) IsEmpty() bool {
	return m.index.Len() == 0
}

// Clear removes every tracked key with Remove semantics (best-effort
// file deletion), then resets the index.
func (m *Map[K, V]) Clear() {
	m.met.op("clear")

	for _, key := range m.index.Keys() {
		m.remove(key)
	}

	m.index.Reset()
}

// PutAll stores every pair from entries, stopping at the first failed
// write. Map iteration order is randomized, so which pairs landed
// before a failure is unspecified.
func (m *Map[K, V]) PutAll(entries map[K]V) error {
	for key, value := range entries {
		_, _, err := m.Put(key, value)
		if err != nil {
			return err
		}
	}

	return nil
}

// Dir returns the storage directory backing this map.
func (m *Map[K, V]) Dir() string {
	return m.store.Dir()
}

// get is the shared read path: resolve the key, read and decode its
// file, heal the index when the file has vanished.
func (m *Map[K, V]) get(key K) (V, bool) {
	var zero V

	id, ok := m.index.Lookup(key)
	if !ok {
		return zero, false
	}

	_, rawValue, err := m.store.ReadEntry(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			m.index.Forget(key)
			m.met.selfHeal()
			m.log.Debug("dropped key with vanished entry file", zap.String("file", id))
		}

		return zero, false
	}

	var value V

	err = m.enc.Unmarshal(rawValue, &value)
	if err != nil {
		return zero, false
	}

	return value, true
}

// remove is the shared delete path used by Remove and Clear.
func (m *Map[K, V]) remove(key K) (V, bool) {
	var prev V

	id, ok := m.index.Take(key)
	if !ok {
		return prev, false
	}

	hadPrev := false

	_, rawValue, err := m.store.ReadEntry(id)
	if err == nil {
		var v V
		if m.enc.Unmarshal(rawValue, &v) == nil {
			prev, hadPrev = v, true
		}
	}

	err = m.store.DeleteEntry(id)
	if err != nil {
		m.met.swallowedDelete()
		m.log.Warn("leaving entry file behind after failed delete",
			zap.String("file", id), zap.Error(err))
	}

	return prev, hadPrev
}

// isNilKey reports whether key is a nil reference: a nil interface
// value, or a nil pointer, chan, func, map, or slice behind one.
func isNilKey[K comparable](key K) bool {
	rv := reflect.ValueOf(key)
	if !rv.IsValid() {
		return true
	}

	switch rv.Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.Chan, reflect.Func, reflect.Map, reflect.Slice:
		return rv.IsNil()
	default:
		return false
	}
}
