package digest

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"strings"

	"github.com/zeebo/blake3"
	"github.com/zeebo/xxh3"
	"golang.org/x/exp/mmap"

	"github.com/keshon/filevault/internal/fs"
	"github.com/keshon/filevault/internal/util"
)

// Supported algorithm names.
const (
	MD5     = "md5"
	SHA256  = "sha256"
	XXH3    = "xxh3"
	BLAKE3  = "blake3"
	Default = MD5
)

const (
	mmapThreshold = 4 * 1024 * 1024 // files at least this large are memory-mapped
	readBufSize   = 32 * 1024
)

var algorithms = map[string]func() hash.Hash{
	MD5:    md5.New,
	SHA256: sha256.New,
	XXH3:   func() hash.Hash { return &xxh3Hash{h: xxh3.New()} },
	BLAKE3: func() hash.Hash { return blake3.New() },
}

// Known reports whether name is a supported algorithm.
func Known(name string) bool {
	_, ok := algorithms[name]
	return ok
}

// Names returns the supported algorithm names sorted alphabetically.
func Names() []string {
	return util.SortedKeys(algorithms)
}

// Engine computes content fingerprints for whole files.
type Engine struct {
	Alg string
	FS  fs.FS

	// Mmap enables the memory-mapped read path for large files. It bypasses
	// the FS abstraction, so it is only valid for on-disk sources.
	Mmap bool
}

// NewEngine creates an Engine for the given algorithm.
func NewEngine(alg string, fsys fs.FS) (*Engine, error) {
	if alg == "" {
		alg = Default
	}
	if !Known(alg) {
		return nil, fmt.Errorf("unknown hash algorithm %q (supported: %s)",
			alg, strings.Join(Names(), ", "))
	}
	return &Engine{Alg: alg, FS: fsys}, nil
}

// File reads the full contents of path and returns its hex fingerprint.
// Identical bytes always produce identical fingerprints.
func (e *Engine) File(path string) (string, error) {
	if e.Mmap {
		if fi, err := e.FS.Stat(path); err == nil && fi.Size() >= mmapThreshold {
			return e.fileMmap(path)
		}
	}

	f, err := e.FS.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file %q: %w", path, err)
	}
	defer f.Close()

	h := algorithms[e.Alg]()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("read file %q: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// fileMmap hashes a file through a memory-mapped reader in fixed windows.
func (e *Engine) fileMmap(path string) (string, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file %q: %w", path, err)
	}
	defer r.Close()

	h := algorithms[e.Alg]()
	buf := make([]byte, readBufSize)
	size := int64(r.Len())

	for off := int64(0); off < size; off += int64(len(buf)) {
		n := int64(len(buf))
		if off+n > size {
			n = size - off
		}
		if _, err := r.ReadAt(buf[:n], off); err != nil {
			return "", fmt.Errorf("read file %q at %d: %w", path, off, err)
		}
		h.Write(buf[:n])
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// xxh3Hash adapts the streaming xxh3 hasher to hash.Hash with a 128-bit sum.
type xxh3Hash struct {
	h *xxh3.Hasher
}

func (x *xxh3Hash) Write(p []byte) (int, error) { return x.h.Write(p) }
func (x *xxh3Hash) Reset()                      { x.h.Reset() }
func (x *xxh3Hash) Size() int                   { return 16 }
func (x *xxh3Hash) BlockSize() int              { return x.h.BlockSize() }
func (x *xxh3Hash) Sum(b []byte) []byte {
	s := x.h.Sum128().Bytes()
	return append(b, s[:]...)
}
