package store

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/keshon/filevault/internal/fs"
)

// DirPrefix is the base name prefix of the store root directory; the digest
// algorithm name completes it (files_by_md5 for the default).
const DirPrefix = "files_by_"

// DirName returns the store directory name for a digest algorithm.
func DirName(alg string) string {
	return DirPrefix + alg
}

// Context handles content-addressed storage under a single root directory.
// Entries live at <root>/<first-2-hex-chars>/<full-fingerprint>, one physical
// copy per distinct fingerprint.
type Context struct {
	Root string
	FS   fs.FS
}

// NewContext creates a store Context rooted at root.
func NewContext(root string, fsys fs.FS) *Context {
	return &Context{Root: root, FS: fsys}
}

// EntryPath returns the on-disk path for a fingerprint inside the store.
func (sc *Context) EntryPath(sum string) string {
	return filepath.Join(sc.Root, sum[:2], sum)
}

// Put stores the content read from src under the given fingerprint and
// returns the resolved absolute location of the entry. If an entry for the
// fingerprint already exists the copy is skipped entirely; the store never
// rewrites an existing entry.
func (sc *Context) Put(src io.Reader, sum string) (string, error) {
	if len(sum) < 3 {
		return "", fmt.Errorf("invalid fingerprint %q", sum)
	}

	dst := sc.EntryPath(sum)
	shard := filepath.Dir(dst)
	if err := sc.FS.MkdirAll(shard, 0o755); err != nil {
		return "", fmt.Errorf("create shard dir %q: %w", shard, err)
	}

	resolved, err := filepath.Abs(dst)
	if err != nil {
		resolved = dst
	}

	// Dedup short-circuit: the entry on disk is the index.
	if sc.FS.Exists(dst) {
		return resolved, nil
	}

	tmp, tmpPath, err := sc.FS.CreateTempFile(shard, ".tmp-*")
	if err != nil {
		return "", fmt.Errorf("create temp file in %q: %w", shard, err)
	}
	defer sc.FS.Remove(tmpPath)

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		return "", fmt.Errorf("copy entry %q: %w", sum, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp file %q: %w", tmpPath, err)
	}

	if err := sc.FS.Rename(tmpPath, dst); err != nil {
		return "", fmt.Errorf("rename temp %q to %q: %w", tmpPath, dst, err)
	}

	return resolved, nil
}

// Count walks the shard directories and returns the number of stored entries.
func (sc *Context) Count() (int, error) {
	shards, err := sc.FS.ReadDir(sc.Root)
	if err != nil {
		return 0, fmt.Errorf("read store root %q: %w", sc.Root, err)
	}

	total := 0
	for _, s := range shards {
		if !s.IsDir() {
			continue
		}
		entries, err := sc.FS.ReadDir(filepath.Join(sc.Root, s.Name()))
		if err != nil {
			return 0, fmt.Errorf("read shard %q: %w", s.Name(), err)
		}
		for _, e := range entries {
			if !e.IsDir() {
				total++
			}
		}
	}
	return total, nil
}
