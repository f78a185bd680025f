// Package fs provides the filesystem abstraction used by the store.
//
// The main types are:
//   - [FS]: interface for the file operations the store performs
//   - [Real]: production implementation using the [os] package
//   - [Faulty]: testing implementation that injects deterministic failures
//
// The store only ever touches whole files (one entry per file), so the
// interface is deliberately narrow: no open handles, no seeking, no
// directory walking.
package fs

import "os"

// FS defines the file operations needed to persist, load, and discard
// entry files.
//
// Two implementations are provided:
//   - [Real]: production use, wraps the [os] package
//   - [Faulty]: testing use, injects failures per operation
type FS interface {
	// ReadFile reads an entire file into memory. See [os.ReadFile].
	ReadFile(path string) ([]byte, error)

	// WriteFile writes data to a file, creating it or truncating any
	// previous content. See [os.WriteFile].
	WriteFile(path string, data []byte, perm os.FileMode) error

	// WriteFileAtomic writes data to a file atomically.
	// Uses a temp file + rename so readers never observe a partial write.
	WriteFileAtomic(path string, data []byte, perm os.FileMode) error

	// Remove deletes a file. See [os.Remove].
	// Returns an error matching [os.ErrNotExist] when the file is absent.
	Remove(path string) error

	// MkdirAll creates a directory and all parents. See [os.MkdirAll].
	// No error if the directory already exists.
	MkdirAll(path string, perm os.FileMode) error

	// Stat returns file info. See [os.Stat].
	// Returns an error matching [os.ErrNotExist] if the path is absent.
	Stat(path string) (os.FileInfo, error)
}
