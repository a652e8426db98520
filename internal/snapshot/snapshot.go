package snapshot

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/keshon/filevault/internal/fs"
)

// TimestampLayout names run directories; second granularity, lexically
// sortable, so directory order equals chronological order.
const TimestampLayout = "20060102_150405"

// ErrOutsideRoot reports a source path that is not rooted under the scanned
// source directory.
var ErrOutsideRoot = errors.New("source path outside source root")

// RunDir returns the directory path of a snapshot run started at the given
// time, rooted under base. The directory is not created.
func RunDir(base string, started time.Time) string {
	return filepath.Join(base, started.Format(TimestampLayout))
}

// IsRunDir reports whether name looks like a snapshot run directory name.
func IsRunDir(name string) bool {
	_, err := time.Parse(TimestampLayout, name)
	return err == nil
}

// Context writes pointer records for one snapshot run.
type Context struct {
	Dir string // run directory, <target_base>/<timestamp>
	FS  fs.FS
}

// NewContext creates a recorder for the given run directory.
func NewContext(dir string, fsys fs.FS) *Context {
	return &Context{Dir: dir, FS: fsys}
}

// Record writes a pointer record for sourcePath at the run-relative location
// mirroring its position under sourceRoot. The record's entire content is the
// resolved store location of the file's bytes.
func (rc *Context) Record(sourcePath, sourceRoot, storeLocation string) error {
	rel, err := filepath.Rel(sourceRoot, sourcePath)
	if err != nil {
		return fmt.Errorf("relativize %q against %q: %w", sourcePath, sourceRoot, ErrOutsideRoot)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("relativize %q against %q: %w", sourcePath, sourceRoot, ErrOutsideRoot)
	}

	recordPath := filepath.Join(rc.Dir, rel)
	if err := rc.FS.MkdirAll(filepath.Dir(recordPath), 0o755); err != nil {
		return fmt.Errorf("create record dir for %q: %w", recordPath, err)
	}

	if err := rc.FS.WriteFile(recordPath, []byte(storeLocation), 0o644); err != nil {
		return fmt.Errorf("write record %q: %w", recordPath, err)
	}
	return nil
}

// CountRecords returns the number of pointer records in the run directory.
func (rc *Context) CountRecords() (int, error) {
	var total int
	var walk func(dir string) error
	walk = func(dir string) error {
		entries, err := rc.FS.ReadDir(dir)
		if err != nil {
			return fmt.Errorf("read run dir %q: %w", dir, err)
		}
		for _, e := range entries {
			if e.IsDir() {
				if err := walk(filepath.Join(dir, e.Name())); err != nil {
					return err
				}
				continue
			}
			total++
		}
		return nil
	}
	if err := walk(rc.Dir); err != nil {
		return 0, err
	}
	return total, nil
}
