package filemap_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/calvinalkan/filemap"
	"github.com/calvinalkan/filemap/internal/fs"
)

var errDiskFull = errors.New("disk full")

func Test_Put_Propagates_Error_When_Write_Fails(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	fsys := fs.NewFaulty(fs.NewReal())
	m := openRecords(t, dir, filemap.ExportWithFS(fsys))

	fsys.FailWrites(errDiskFull)

	_, _, err := m.Put("user:1", record{ID: 1, Name: "ada", Tags: []string{"admin"}})
	if !errors.Is(err, errDiskFull) {
		t.Fatalf("err = %v, want wrapped disk error", err)
	}

	// The failed first write must leave the key untracked.
	if m.ContainsKey("user:1") {
		t.Fatal("key should not be tracked after a failed first write")
	}

	if m.Len() != 0 {
		t.Fatalf("len = %d, want 0", m.Len())
	}

	if files := entryFiles(t, dir); len(files) != 0 {
		t.Fatalf("entry files = %d, want 0", len(files))
	}

	fsys.FailWrites(nil)

	mustPut(t, m, "user:1", record{ID: 1, Name: "ada", Tags: []string{"admin"}})

	if _, ok := m.Get("user:1"); !ok {
		t.Fatal("retry after the fault cleared should succeed")
	}
}

func Test_Put_Keeps_Old_State_When_Overwrite_Fails(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	fsys := fs.NewFaulty(fs.NewReal())
	m := openRecords(t, dir, filemap.ExportWithFS(fsys))

	want := record{ID: 1, Name: "ada", Tags: []string{"admin"}}
	mustPut(t, m, "user:1", want)

	fsys.FailWrites(errDiskFull)

	_, _, err := m.Put("user:1", record{ID: 2, Name: "ada", Tags: []string{"root"}})
	if !errors.Is(err, errDiskFull) {
		t.Fatalf("err = %v, want wrapped disk error", err)
	}

	// The key was already tracked, so the failed overwrite changes nothing.
	if !m.ContainsKey("user:1") {
		t.Fatal("key should stay tracked after a failed overwrite")
	}

	fsys.FailWrites(nil)

	got, ok := m.Get("user:1")
	if !ok {
		t.Fatal("get should find the key")
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("value mismatch (-want +got):\n%s", diff)
	}
}

func Test_Remove_Forgets_Key_When_Delete_Fails(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	fsys := fs.NewFaulty(fs.NewReal())
	m := openRecords(t, dir, filemap.ExportWithFS(fsys))

	want := record{ID: 1, Name: "ada", Tags: []string{"admin"}}
	mustPut(t, m, "user:1", want)

	fsys.FailRemoves(errDiskFull)

	prev, ok := m.Remove("user:1")
	if !ok {
		t.Fatal("remove should still report the removed value")
	}

	if diff := cmp.Diff(want, prev); diff != "" {
		t.Fatalf("removed value mismatch (-want +got):\n%s", diff)
	}

	if m.ContainsKey("user:1") {
		t.Fatal("key should be forgotten even though the delete failed")
	}

	// The orphaned file stays behind and a later scan resurrects it.
	if files := entryFiles(t, dir); len(files) != 1 {
		t.Fatalf("entry files = %d, want 1", len(files))
	}

	reopened := openRecords(t, dir)

	if !reopened.ContainsKey("user:1") {
		t.Fatal("orphaned entry should reappear on the next open")
	}
}

func Test_Clear_Forgets_All_Keys_When_Deletes_Fail(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	fsys := fs.NewFaulty(fs.NewReal())
	m := openRecords(t, dir, filemap.ExportWithFS(fsys))

	mustPut(t, m, "user:1", record{ID: 1, Name: "ada", Tags: []string{"admin"}})
	mustPut(t, m, "user:2", record{ID: 2, Name: "grace", Tags: []string{"ops"}})

	fsys.FailRemoves(errDiskFull)

	m.Clear()

	if !m.IsEmpty() {
		t.Fatal("cleared store should be empty even when deletes fail")
	}

	if files := entryFiles(t, dir); len(files) != 2 {
		t.Fatalf("entry files = %d, want 2", len(files))
	}
}

func Test_Get_Returns_False_When_Read_Fails(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	fsys := fs.NewFaulty(fs.NewReal())
	m := openRecords(t, dir, filemap.ExportWithFS(fsys))

	want := record{ID: 1, Name: "ada", Tags: []string{"admin"}}
	mustPut(t, m, "user:1", want)

	fsys.FailReads(errDiskFull)

	if _, ok := m.Get("user:1"); ok {
		t.Fatal("get should miss while reads fail")
	}

	// An IO failure is not a vanished file; the key stays tracked.
	if !m.ContainsKey("user:1") {
		t.Fatal("key should stay tracked after a read failure")
	}

	fsys.FailReads(nil)

	got, ok := m.Get("user:1")
	if !ok {
		t.Fatal("get should recover once reads work again")
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("value mismatch (-want +got):\n%s", diff)
	}
}

func Test_Remove_Still_Deletes_When_Previous_Value_Unreadable(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	fsys := fs.NewFaulty(fs.NewReal())
	m := openRecords(t, dir, filemap.ExportWithFS(fsys))

	mustPut(t, m, "user:1", record{ID: 1, Name: "ada", Tags: []string{"admin"}})

	fsys.FailReads(errDiskFull)

	_, ok := m.Remove("user:1")
	if ok {
		t.Fatal("remove should not report a value it could not read")
	}

	if m.ContainsKey("user:1") {
		t.Fatal("key should be forgotten")
	}

	if files := entryFiles(t, dir); len(files) != 0 {
		t.Fatalf("entry files = %d, want 0", len(files))
	}
}

func Test_Open_Fails_When_Directory_Path_Is_A_File(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "occupied")

	err := os.WriteFile(path, []byte("x"), 0o644)
	if err != nil {
		t.Fatalf("write blocking file: %v", err)
	}

	_, err = filemap.Open[string, int](path)
	if err == nil {
		t.Fatal("open should fail when the directory path is a file")
	}
}
