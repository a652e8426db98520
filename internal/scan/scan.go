package scan

import (
	"os"
	"path/filepath"
	"strings"
)

// Scanner walks a source tree and selects the regular files to archive.
//
// Hidden entries (leading dot) are excluded; a hidden directory prunes its
// entire subtree. A file is selected only if its extension, lowercased, is in
// Extensions. Files without an extension are never selected.
type Scanner struct {
	Root       string
	Extensions map[string]struct{}
	Ignore     *Ignore
}

// NewScanner creates a Scanner over root for the accepted extension set.
func NewScanner(root string, extensions map[string]struct{}, ignore *Ignore) *Scanner {
	if ignore == nil {
		ignore = &Ignore{}
	}
	return &Scanner{Root: root, Extensions: extensions, Ignore: ignore}
}

// Walk calls fn for each selected file, depth-first. An error from fn aborts
// the walk; selection order across siblings follows the filesystem.
func (s *Scanner) Walk(fn func(path string) error) error {
	return filepath.WalkDir(s.Root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		clean := filepath.Clean(path)
		if clean == filepath.Clean(s.Root) {
			return nil
		}

		rel, err := filepath.Rel(s.Root, clean)
		if err != nil {
			return err
		}

		if d.IsDir() {
			if hidden(d.Name()) || s.Ignore.Match(rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if hidden(d.Name()) || s.Ignore.Match(rel) {
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if !s.accepted(d.Name()) {
			return nil
		}

		return fn(clean)
	})
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// accepted checks the extension (after the final dot, lowercased) against the
// accepted set.
func (s *Scanner) accepted(name string) bool {
	ext := filepath.Ext(name)
	if ext == "" {
		return false
	}
	_, ok := s.Extensions[strings.ToLower(strings.TrimPrefix(ext, "."))]
	return ok
}
