package fs

import (
	"bytes"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
)

// CompressedFS wraps another FS and gzip-compresses all file writes.
// Reads transparently decompress, so callers see the original bytes.
type CompressedFS struct {
	underlying FS
}

func NewCompressedFS(base FS) *CompressedFS {
	return &CompressedFS{underlying: base}
}

func (c *CompressedFS) Open(path string) (io.ReadCloser, error) {
	rc, err := c.underlying.Open(path)
	if err != nil {
		return nil, err
	}

	gz, err := gzip.NewReader(rc)
	if err != nil {
		rc.Close()
		return nil, err
	}
	return &gzipReadCloser{gz: gz, raw: rc}, nil
}

type gzipReadCloser struct {
	gz  *gzip.Reader
	raw io.ReadCloser
}

func (g *gzipReadCloser) Read(p []byte) (int, error) { return g.gz.Read(p) }
func (g *gzipReadCloser) Close() error {
	err := g.gz.Close()
	if cerr := g.raw.Close(); err == nil {
		err = cerr
	}
	return err
}

func (c *CompressedFS) ReadFile(path string) ([]byte, error) {
	rc, err := c.Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (c *CompressedFS) WriteFile(path string, data []byte, perm os.FileMode) error {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(data); err != nil {
		return err
	}
	if err := gz.Close(); err != nil {
		return err
	}
	return c.underlying.WriteFile(path, buf.Bytes(), perm)
}

// CreateTempFile compresses writes too, so temp-and-rename copies stay
// consistent with WriteFile.
func (c *CompressedFS) CreateTempFile(dir, pattern string) (io.WriteCloser, string, error) {
	wc, name, err := c.underlying.CreateTempFile(dir, pattern)
	if err != nil {
		return nil, "", err
	}
	return &gzipWriteCloser{gz: gzip.NewWriter(wc), raw: wc}, name, nil
}

type gzipWriteCloser struct {
	gz  *gzip.Writer
	raw io.WriteCloser
}

func (g *gzipWriteCloser) Write(p []byte) (int, error) { return g.gz.Write(p) }
func (g *gzipWriteCloser) Close() error {
	err := g.gz.Close()
	if cerr := g.raw.Close(); err == nil {
		err = cerr
	}
	return err
}

// Pass-through for other operations
func (c *CompressedFS) MkdirAll(path string, perm os.FileMode) error {
	return c.underlying.MkdirAll(path, perm)
}
func (c *CompressedFS) Remove(path string) error { return c.underlying.Remove(path) }
func (c *CompressedFS) Rename(oldPath, newPath string) error {
	return c.underlying.Rename(oldPath, newPath)
}
func (c *CompressedFS) Stat(path string) (os.FileInfo, error)      { return c.underlying.Stat(path) }
func (c *CompressedFS) ReadDir(path string) ([]os.DirEntry, error) { return c.underlying.ReadDir(path) }
func (c *CompressedFS) IsNotExist(err error) bool                  { return c.underlying.IsNotExist(err) }
func (c *CompressedFS) IsDir(path string) bool                     { return c.underlying.IsDir(path) }
func (c *CompressedFS) Exists(path string) bool                    { return c.underlying.Exists(path) }
