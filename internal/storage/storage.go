// Package storage owns the physical directory behind a store: it creates
// the directory, frames encoded key/value pairs into entry files, scans
// the directory on startup, and performs the byte-level read, write, and
// delete of individual entries.
//
// Entry files are the durable source of truth. Everything above this
// package (the key index in particular) is derived state that can be
// rebuilt from a [Store.Scan].
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/calvinalkan/fileproc"
	"go.uber.org/zap"

	"github.com/calvinalkan/filemap/internal/fs"
)

const (
	dirPerm  = 0o750
	filePerm = 0o644
)

// ErrNotFound is returned by [Store.ReadEntry] when no file exists for
// the identifier. Callers use it to tell a vanished entry apart from a
// corrupt one.
var ErrNotFound = errors.New("storage: entry file not found")

// Store performs entry-file I/O inside one directory.
type Store struct {
	dir    string
	fsys   fs.FS
	atomic bool
	log    *zap.Logger
}

// Init creates the directory (and parents) if needed and returns a Store
// for it. A path already occupied by a non-directory fails. When atomic
// is set, writes go through temp-file + rename instead of truncating in
// place.
func Init(dir string, fsys fs.FS, atomic bool, log *zap.Logger) (*Store, error) {
	if fsys == nil {
		fsys = fs.NewReal()
	}

	if log == nil {
		log = zap.NewNop()
	}

	err := fsys.MkdirAll(dir, dirPerm)
	if err != nil {
		return nil, fmt.Errorf("storage: create directory %s: %w", dir, err)
	}

	return &Store{dir: dir, fsys: fsys, atomic: atomic, log: log}, nil
}

// Dir returns the directory this store operates on.
func (s *Store) Dir() string {
	return s.dir
}

// Entry is one scan result: a file identifier and the encoded key
// recovered from its leading frame segment.
type Entry struct {
	ID  string
	Key []byte
}

// Scan enumerates every entry file in the directory and decodes the key
// segment of each. Files that cannot be read or whose frame is invalid
// are skipped and counted, never fatal; only directory-level walk
// failures abort the scan. Result order is unspecified.
func (s *Store) Scan() (entries []Entry, skipped int, err error) {
	var skippedFiles atomic.Int64

	results, errs := fileproc.Process(context.Background(), s.dir, func(f *fileproc.File, _ *fileproc.FileWorker) (*Entry, error) {
		name := string(f.RelPath())

		data, readErr := f.ReadAll()
		if readErr != nil {
			skippedFiles.Add(1)
			s.log.Warn("skipping unreadable entry file", zap.String("file", name), zap.Error(readErr))

			return nil, fileproc.ErrSkip
		}

		key, keyErr := decodeFrameKey(data)
		if keyErr != nil {
			skippedFiles.Add(1)
			s.log.Warn("skipping undecodable entry file", zap.String("file", name), zap.Error(keyErr))

			return nil, fileproc.ErrSkip
		}

		// key sub-slices ReadAll's buffer, which fileproc reuses once
		// the callback returns; it must be copied to outlive this call.
		return &Entry{ID: name, Key: append([]byte(nil), key...)}, nil
	}, fileproc.WithSuffix(FileSuffix))

	if len(errs) > 0 {
		return nil, 0, fmt.Errorf("storage: scan %s: %w", s.dir, errors.Join(errs...))
	}

	entries = make([]Entry, 0, len(results))

	for i := range results {
		if results[i] == nil {
			continue
		}

		entries = append(entries, *results[i])
	}

	return entries, int(skippedFiles.Load()), nil
}

// ReadEntry loads and decodes the entry file for id. Returns
// [ErrNotFound] when the file does not exist and an error matching
// [ErrCorrupt] when its frame cannot be decoded.
func (s *Store) ReadEntry(id string) (key, value []byte, err error) {
	data, err := s.fsys.ReadFile(filepath.Join(s.dir, id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, ErrNotFound
		}

		return nil, nil, fmt.Errorf("storage: read entry %s: %w", id, err)
	}

	return decodeFrame(data)
}

// WriteEntry persists the encoded key and value as the full content of
// the entry file for id, replacing any previous content.
func (s *Store) WriteEntry(id string, key, value []byte) error {
	path := filepath.Join(s.dir, id)
	frame := encodeFrame(key, value)

	var err error
	if s.atomic {
		err = s.fsys.WriteFileAtomic(path, frame, filePerm)
	} else {
		err = s.fsys.WriteFile(path, frame, filePerm)
	}

	if err != nil {
		return fmt.Errorf("storage: write entry %s: %w", id, err)
	}

	return nil
}

// DeleteEntry removes the entry file for id. An already-absent file is
// not an error; anything else is reported to the caller, who decides
// whether to swallow it.
func (s *Store) DeleteEntry(id string) error {
	err := s.fsys.Remove(filepath.Join(s.dir, id))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("storage: delete entry %s: %w", id, err)
	}

	return nil
}
