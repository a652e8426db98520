package scan

import (
	"bufio"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/keshon/filevault/internal/fs"
)

// IgnoreFile is the optional per-source ignore file, one glob per line.
const IgnoreFile = ".filevault-ignore"

// Ignore matches source-relative paths against glob patterns.
type Ignore struct {
	patterns []string
}

// NewIgnore combines explicit patterns with the source root's ignore file, if
// present. Invalid patterns are dropped rather than failing the run.
func NewIgnore(root string, patterns []string, fsys fs.FS) *Ignore {
	m := &Ignore{}
	for _, p := range patterns {
		m.add(p)
	}

	f, err := fsys.Open(filepath.Join(root, IgnoreFile))
	if err != nil {
		return m
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		m.add(line)
	}
	return m
}

func (m *Ignore) add(pattern string) {
	pattern = filepath.ToSlash(strings.TrimSpace(pattern))
	if pattern == "" || !doublestar.ValidatePattern(pattern) {
		return
	}
	m.patterns = append(m.patterns, pattern)
}

// Match returns true if the source-relative path should be ignored.
func (m *Ignore) Match(rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, p := range m.patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}
