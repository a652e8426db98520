package fs_test

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/keshon/filevault/internal/fs"
)

func TestOSFS_RealFileRoundTrip(t *testing.T) {
	osfs := fs.NewOSFS()
	path := filepath.Join(t.TempDir(), "sub", "file.txt")

	if err := osfs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	content := []byte("round trip")
	if err := osfs.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	rc, err := osfs.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer rc.Close()
	read, err := io.ReadAll(rc)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(read, content) {
		t.Fatalf("read %q, want %q", read, content)
	}
}

func TestOSFS_ExistsAndIsDir(t *testing.T) {
	osfs := fs.NewOSFS()
	dir := t.TempDir()
	file := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if !osfs.Exists(dir) || !osfs.IsDir(dir) {
		t.Fatal("dir should exist and be a dir")
	}
	if !osfs.Exists(file) || osfs.IsDir(file) {
		t.Fatal("file should exist and not be a dir")
	}
	if osfs.Exists(filepath.Join(dir, "missing")) {
		t.Fatal("missing path reported as existing")
	}
}

func TestOSFS_CreateTempFileAndRename(t *testing.T) {
	osfs := fs.NewOSFS()
	dir := t.TempDir()

	wc, name, err := osfs.CreateTempFile(dir, ".vault-*")
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Dir(name) != dir {
		t.Fatalf("temp file %q created outside %q", name, dir)
	}
	if _, err := wc.Write([]byte("payload")); err != nil {
		t.Fatal(err)
	}
	if err := wc.Close(); err != nil {
		t.Fatal(err)
	}

	final := filepath.Join(dir, "final")
	if err := osfs.Rename(name, final); err != nil {
		t.Fatal(err)
	}

	data, err := osfs.ReadFile(final)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "payload" {
		t.Fatalf("read %q", data)
	}
}

func TestOSFS_IsNotExist(t *testing.T) {
	osfs := fs.NewOSFS()
	_, err := osfs.Stat(filepath.Join(t.TempDir(), "missing"))
	if !osfs.IsNotExist(err) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestOSFS_OpenHookOverride(t *testing.T) {
	orig := fs.GetOpen()
	defer fs.SetOpen(orig)

	sentinel := errors.New("open intercepted")
	fs.SetOpen(func(string) (*os.File, error) {
		return nil, sentinel
	})

	if _, err := fs.NewOSFS().Open("anything"); !errors.Is(err, sentinel) {
		t.Fatalf("hook not used, got %v", err)
	}
}

func TestOSFS_WriteFileHookOverride(t *testing.T) {
	orig := fs.GetWriteFile()
	defer fs.SetWriteFile(orig)

	var gotPath string
	var gotData []byte
	fs.SetWriteFile(func(path string, data []byte, _ os.FileMode) error {
		gotPath = path
		gotData = data
		return nil
	})

	if err := fs.NewOSFS().WriteFile("some/path", []byte("abc"), 0o644); err != nil {
		t.Fatal(err)
	}
	if gotPath != "some/path" || string(gotData) != "abc" {
		t.Fatalf("hook saw %q %q", gotPath, gotData)
	}
}

func TestOSFS_CreateTempHookOverride(t *testing.T) {
	orig := fs.GetCreateTemp()
	defer fs.SetCreateTemp(orig)

	sentinel := errors.New("no temp space")
	fs.SetCreateTemp(func(string, string) (*os.File, error) {
		return nil, sentinel
	})

	if _, _, err := fs.NewOSFS().CreateTempFile("dir", "pat-*"); !errors.Is(err, sentinel) {
		t.Fatalf("hook not used, got %v", err)
	}
}
