package archive

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/keshon/filevault/internal/config"
	"github.com/keshon/filevault/internal/digest"
	"github.com/keshon/filevault/internal/fs"
	"github.com/keshon/filevault/internal/progress"
	"github.com/keshon/filevault/internal/scan"
	"github.com/keshon/filevault/internal/snapshot"
	"github.com/keshon/filevault/internal/store"
	"github.com/keshon/filevault/internal/util"
)

// Options configures one archive run.
type Options struct {
	Source     string // read-only traversal root
	TargetBase string // owns the content store and all snapshot runs
	Config     config.Config

	Log      logrus.FieldLogger // defaults to the standard logger
	Progress bool               // show a spinner while processing
	Now      func() time.Time   // defaults to time.Now; tests pin the run timestamp
}

// Stats summarizes one run.
type Stats struct {
	Processed int // files stored and recorded
	Deduped   int // processed files whose content was already in the store
	Failed    int // files skipped after a per-file error
}

// Run executes one archive invocation: create the run's directories, walk the
// source tree, and for each accepted file hash, store, and record it, in that
// order. Per-file failures are logged and skipped; only setup failures abort
// the run.
func Run(opts Options) (Stats, error) {
	var stats Stats

	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	srcFS := fs.NewOSFS()
	var storeFS fs.FS = srcFS
	if opts.Config.Compress {
		storeFS = fs.NewCompressedFS(srcFS)
	}

	eng, err := digest.NewEngine(opts.Config.Hash, srcFS)
	if err != nil {
		return stats, err
	}
	eng.Mmap = true

	storeDir := filepath.Join(opts.TargetBase, store.DirName(eng.Alg))
	runDir := snapshot.RunDir(opts.TargetBase, now())
	for _, dir := range []string{storeDir, runDir} {
		if err := srcFS.MkdirAll(dir, 0o755); err != nil {
			return stats, fmt.Errorf("create directory %q: %w", dir, err)
		}
	}

	sc := store.NewContext(storeDir, storeFS)
	rec := snapshot.NewContext(runDir, srcFS)

	exts := opts.Config.ExtensionSet()
	ignore := scan.NewIgnore(opts.Source, opts.Config.Ignore, srcFS)
	scanner := scan.NewScanner(opts.Source, exts, ignore)

	log.Debugf("archiving %s into %s (hash=%s, extensions=%s)",
		opts.Source, opts.TargetBase, eng.Alg, strings.Join(util.SortedKeys(exts), ","))

	var bar *progress.ProgressTracker
	if opts.Progress {
		bar = progress.NewProgress(0, "Archiving ")
		defer bar.Finish()
	}

	err = scanner.Walk(func(path string) error {
		deduped, err := processFile(path, opts.Source, srcFS, eng, sc, rec)
		if err != nil {
			log.Errorf("Error processing %s: %v", path, err)
			stats.Failed++
			return nil
		}
		stats.Processed++
		if deduped {
			stats.Deduped++
		}
		if bar != nil {
			bar.Increment()
		}
		return nil
	})
	if err != nil {
		return stats, fmt.Errorf("scan source %q: %w", opts.Source, err)
	}
	return stats, nil
}

// processFile runs the per-file pipeline: fingerprint, dedup-copy into the
// store, pointer record into the run directory.
func processFile(path, sourceRoot string, srcFS fs.FS, eng *digest.Engine, sc *store.Context, rec *snapshot.Context) (deduped bool, err error) {
	sum, err := eng.File(path)
	if err != nil {
		return false, err
	}

	deduped = sc.FS.Exists(sc.EntryPath(sum))

	f, err := srcFS.Open(path)
	if err != nil {
		return false, fmt.Errorf("open file %q: %w", path, err)
	}
	defer f.Close()

	location, err := sc.Put(f, sum)
	if err != nil {
		return false, err
	}

	if err := rec.Record(path, sourceRoot, location); err != nil {
		return false, err
	}
	return deduped, nil
}
