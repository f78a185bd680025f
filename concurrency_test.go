package filemap_test

import (
	"fmt"
	"testing"

	"github.com/calvinalkan/filemap"
)

func Test_Concurrent_Puts_Succeed_When_Keys_Distinct(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	m := openRecords(t, dir)

	const writers = 16

	errs := make(chan error, writers)

	for i := range writers {
		go func() {
			key := fmt.Sprintf("user:%03d", i)
			_, _, err := m.Put(key, record{ID: i, Name: key, Tags: []string{"load"}})
			errs <- err
		}()
	}

	for range writers {
		err := <-errs
		if err != nil {
			t.Errorf("concurrent put failed: %v", err)
		}
	}

	if m.Len() != writers {
		t.Fatalf("len = %d, want %d", m.Len(), writers)
	}

	if files := entryFiles(t, dir); len(files) != writers {
		t.Fatalf("entry files = %d, want %d", len(files), writers)
	}

	for i := range writers {
		key := fmt.Sprintf("user:%03d", i)
		if _, ok := m.Get(key); !ok {
			t.Errorf("get %q should find the key", key)
		}
	}
}

func Test_Concurrent_First_Puts_Converge_When_Key_Shared(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	m := openRecords(t, dir)

	const writers = 16

	errs := make(chan error, writers)

	for i := range writers {
		go func() {
			_, _, err := m.Put("shared", record{ID: i, Name: "shared", Tags: []string{"race"}})
			errs <- err
		}()
	}

	for range writers {
		err := <-errs
		if err != nil {
			t.Errorf("concurrent put failed: %v", err)
		}
	}

	if m.Len() != 1 {
		t.Fatalf("len = %d, want 1", m.Len())
	}

	// All writers settled on one file; losing candidates left nothing behind.
	if files := entryFiles(t, dir); len(files) != 1 {
		t.Fatalf("entry files = %d, want 1", len(files))
	}

	got, ok := m.Get("shared")
	if !ok {
		t.Fatal("get should find the key")
	}

	if got.ID < 0 || got.ID >= writers {
		t.Fatalf("value id = %d, want one of the written records", got.ID)
	}
}

func Test_Concurrent_Removes_Yield_One_Winner_When_Key_Shared(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	m := openRecords(t, dir)

	mustPut(t, m, "shared", record{ID: 1, Name: "shared", Tags: []string{"race"}})

	const removers = 8

	wins := make(chan bool, removers)

	for range removers {
		go func() {
			_, ok := m.Remove("shared")
			wins <- ok
		}()
	}

	winners := 0

	for range removers {
		if <-wins {
			winners++
		}
	}

	if winners != 1 {
		t.Fatalf("winners = %d, want exactly 1", winners)
	}

	if m.Len() != 0 {
		t.Fatalf("len = %d, want 0", m.Len())
	}

	if files := entryFiles(t, dir); len(files) != 0 {
		t.Fatalf("entry files = %d, want 0", len(files))
	}
}

func Test_Concurrent_Reads_Never_Miss_When_Writes_Are_Atomic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	m := openRecords(t, dir, filemap.WithAtomicWrites())

	mustPut(t, m, "shared", record{ID: 0, Name: "shared", Tags: []string{"seed"}})

	const writes = 50

	writerDone := make(chan error, 1)

	go func() {
		var failed error

		for i := 1; i <= writes; i++ {
			_, _, err := m.Put("shared", record{ID: i, Name: "shared", Tags: []string{"seed"}})
			if err != nil {
				failed = err

				break
			}
		}

		writerDone <- failed
	}()

	// Rename-based replacement means a reader sees the old frame or the
	// new one, never a torn file.
	for range 200 {
		got, ok := m.Get("shared")
		if !ok {
			t.Error("reader observed a missing or torn entry")

			break
		}

		if got.ID < 0 || got.ID > writes {
			t.Errorf("value id = %d, out of range", got.ID)

			break
		}
	}

	err := <-writerDone
	if err != nil {
		t.Fatalf("writer failed: %v", err)
	}
}
