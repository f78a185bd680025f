package fs

import (
	"os"
	"sync"
)

// Faulty wraps another [FS] and injects deterministic failures.
//
// Unlike random fault injection, every failure is scripted by the test:
// set an error for an operation class and every call of that class fails
// with it until cleared. The zero value is not usable; use [NewFaulty].
type Faulty struct {
	under FS

	mu        sync.Mutex
	readErr   error
	writeErr  error
	removeErr error
}

// NewFaulty returns a [Faulty] delegating to under.
func NewFaulty(under FS) *Faulty {
	return &Faulty{under: under}
}

// FailReads makes all subsequent ReadFile calls return err.
// Pass nil to restore normal behavior.
func (f *Faulty) FailReads(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.readErr = err
}

// FailWrites makes all subsequent WriteFile and WriteFileAtomic calls
// return err. Pass nil to restore normal behavior.
func (f *Faulty) FailWrites(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.writeErr = err
}

// FailRemoves makes all subsequent Remove calls return err.
// Pass nil to restore normal behavior.
func (f *Faulty) FailRemoves(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.removeErr = err
}

func (f *Faulty) ReadFile(path string) ([]byte, error) {
	f.mu.Lock()
	err := f.readErr
	f.mu.Unlock()

	if err != nil {
		return nil, err
	}

	return f.under.ReadFile(path)
}

func (f *Faulty) WriteFile(path string, data []byte, perm os.FileMode) error {
	f.mu.Lock()
	err := f.writeErr
	f.mu.Unlock()

	if err != nil {
		return err
	}

	return f.under.WriteFile(path, data, perm)
}

func (f *Faulty) WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	f.mu.Lock()
	err := f.writeErr
	f.mu.Unlock()

	if err != nil {
		return err
	}

	return f.under.WriteFileAtomic(path, data, perm)
}

func (f *Faulty) Remove(path string) error {
	f.mu.Lock()
	err := f.removeErr
	f.mu.Unlock()

	if err != nil {
		return err
	}

	return f.under.Remove(path)
}

func (f *Faulty) MkdirAll(path string, perm os.FileMode) error {
	return f.under.MkdirAll(path, perm)
}

func (f *Faulty) Stat(path string) (os.FileInfo, error) {
	return f.under.Stat(path)
}

// Compile-time interface check.
var _ FS = (*Faulty)(nil)
