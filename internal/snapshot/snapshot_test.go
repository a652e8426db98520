package snapshot_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/keshon/filevault/internal/fs"
	"github.com/keshon/filevault/internal/snapshot"
)

func TestRunDir_TimestampName(t *testing.T) {
	started := time.Date(2025, 1, 2, 3, 4, 5, 0, time.Local)
	got := snapshot.RunDir("/backup", started)
	want := filepath.Join("/backup", "20250102_030405")
	if got != want {
		t.Fatalf("RunDir = %q, want %q", got, want)
	}
}

func TestIsRunDir(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"20250102_030405", true},
		{"20251231_235959", true},
		{"files_by_md5", false},
		{"2025-01-02", false},
		{"20250102", false},
	}
	for _, tt := range cases {
		if got := snapshot.IsRunDir(tt.name); got != tt.want {
			t.Errorf("IsRunDir(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestRecord_Simple(t *testing.T) {
	tmp := t.TempDir()
	root := filepath.Join(tmp, "source")
	runDir := filepath.Join(tmp, "20250102_030405")
	os.MkdirAll(root, 0o755)

	rc := snapshot.NewContext(runDir, fs.NewOSFS())
	src := filepath.Join(root, "test.txt")

	if err := rc.Record(src, root, "/store/5d/abc"); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(runDir, "test.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "/store/5d/abc" {
		t.Fatalf("record content %q", data)
	}
}

func TestRecord_NestedPreservesStructure(t *testing.T) {
	tmp := t.TempDir()
	root := filepath.Join(tmp, "source")
	runDir := filepath.Join(tmp, "run")

	rc := snapshot.NewContext(runDir, fs.NewOSFS())
	src := filepath.Join(root, "nested", "dir", "file.txt")

	if err := rc.Record(src, root, "/store/ab/cdef"); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(runDir, "nested", "dir", "file.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "/store/ab/cdef" {
		t.Fatalf("record content %q", data)
	}
}

func TestRecord_OutsideRoot(t *testing.T) {
	rc := snapshot.NewContext(filepath.Join(t.TempDir(), "run"), fs.NewOSFS())

	err := rc.Record("/elsewhere/file.txt", "/source/root", "/store/x")
	if err == nil {
		t.Fatal("expected error for path outside root")
	}
	if !errors.Is(err, snapshot.ErrOutsideRoot) {
		t.Fatalf("expected ErrOutsideRoot, got %v", err)
	}
}

func TestRecord_MemoryFS(t *testing.T) {
	m := fs.NewMemoryFS()
	rc := snapshot.NewContext("run", m)

	if err := rc.Record(filepath.Join("src", "a.txt"), "src", "/store/aa/bb"); err != nil {
		t.Fatal(err)
	}

	data, err := m.ReadFile("run/a.txt")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "/store/aa/bb" {
		t.Fatalf("record content %q", data)
	}
}

func TestCountRecords(t *testing.T) {
	m := fs.NewMemoryFS()
	rc := snapshot.NewContext("run", m)

	root := "src"
	for _, p := range []string{"a.txt", "sub/b.txt", "sub/deep/c.txt"} {
		if err := rc.Record(filepath.Join(root, p), root, "/store/x"); err != nil {
			t.Fatal(err)
		}
	}

	count, err := rc.CountRecords()
	if err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Fatalf("expected 3 records, got %d", count)
	}
}
