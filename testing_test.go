package filemap_test

import (
	"os"
	"strings"
	"testing"

	"github.com/calvinalkan/filemap"
)

// record is the value fixture used across these tests.
type record struct {
	ID   int
	Name string
	Tags []string
}

// openRecords opens a string-keyed store of records rooted at dir.
func openRecords(t *testing.T, dir string, opts ...filemap.Option) *filemap.Map[string, record] {
	t.Helper()

	m, err := filemap.Open[string, record](dir, opts...)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	return m
}

// mustPut stores value under key, failing the test on any write error.
func mustPut(t *testing.T, m *filemap.Map[string, record], key string, value record) {
	t.Helper()

	_, _, err := m.Put(key, value)
	if err != nil {
		t.Fatalf("put %q: %v", key, err)
	}
}

// entryFiles lists the entry file names in dir, sorted by name.
func entryFiles(t *testing.T, dir string) []string {
	t.Helper()

	listing, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read storage dir: %v", err)
	}

	var files []string

	for _, entry := range listing {
		if strings.HasSuffix(entry.Name(), ".dat") {
			files = append(files, entry.Name())
		}
	}

	return files
}

// corruptFile overwrites path with bytes no entry frame could contain.
func corruptFile(t *testing.T, path string) {
	t.Helper()

	err := os.WriteFile(path, []byte("not an entry frame"), 0o644)
	if err != nil {
		t.Fatalf("corrupt %s: %v", path, err)
	}
}
