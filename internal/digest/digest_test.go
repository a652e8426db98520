package digest_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/keshon/filevault/internal/digest"
	"github.com/keshon/filevault/internal/fs"
)

func writeTemp(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "file.bin")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFile_MD5KnownValue(t *testing.T) {
	path := writeTemp(t, []byte("hello"))

	eng, err := digest.NewEngine(digest.MD5, fs.NewOSFS())
	if err != nil {
		t.Fatal(err)
	}

	sum, err := eng.File(path)
	if err != nil {
		t.Fatal(err)
	}
	if sum != "5d41402abc4b2a76b9719d911017c592" {
		t.Fatalf("unexpected md5 %q", sum)
	}
}

func TestFile_SHA256KnownValue(t *testing.T) {
	path := writeTemp(t, []byte("hello"))

	eng, err := digest.NewEngine(digest.SHA256, fs.NewOSFS())
	if err != nil {
		t.Fatal(err)
	}

	sum, err := eng.File(path)
	if err != nil {
		t.Fatal(err)
	}
	if sum != "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824" {
		t.Fatalf("unexpected sha256 %q", sum)
	}
}

func TestFile_DeterministicPerAlgorithm(t *testing.T) {
	hexLen := map[string]int{
		digest.MD5:    32,
		digest.SHA256: 64,
		digest.XXH3:   32,
		digest.BLAKE3: 64,
	}

	a := writeTemp(t, []byte("same content"))
	b := writeTemp(t, []byte("same content"))
	c := writeTemp(t, []byte("different content"))

	for alg, want := range hexLen {
		eng, err := digest.NewEngine(alg, fs.NewOSFS())
		if err != nil {
			t.Fatal(err)
		}

		sumA, err := eng.File(a)
		if err != nil {
			t.Fatalf("%s: %v", alg, err)
		}
		sumB, _ := eng.File(b)
		sumC, _ := eng.File(c)

		if len(sumA) != want {
			t.Errorf("%s: fingerprint length %d, want %d", alg, len(sumA), want)
		}
		if sumA != sumB {
			t.Errorf("%s: identical bytes produced %q and %q", alg, sumA, sumB)
		}
		if sumA == sumC {
			t.Errorf("%s: different bytes produced the same fingerprint", alg)
		}
	}
}

func TestFile_EmptyAlgorithmDefaultsToMD5(t *testing.T) {
	path := writeTemp(t, []byte("hello"))

	eng, err := digest.NewEngine("", fs.NewOSFS())
	if err != nil {
		t.Fatal(err)
	}
	if eng.Alg != digest.MD5 {
		t.Fatalf("expected default algorithm md5, got %q", eng.Alg)
	}

	sum, err := eng.File(path)
	if err != nil {
		t.Fatal(err)
	}
	if sum != "5d41402abc4b2a76b9719d911017c592" {
		t.Fatalf("unexpected default fingerprint %q", sum)
	}
}

func TestNewEngine_UnknownAlgorithm(t *testing.T) {
	if _, err := digest.NewEngine("crc32", fs.NewOSFS()); err == nil {
		t.Fatal("expected error for unknown algorithm")
	}
}

func TestFile_MissingFile(t *testing.T) {
	eng, err := digest.NewEngine(digest.MD5, fs.NewOSFS())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := eng.File(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestFile_MemoryFS(t *testing.T) {
	m := fs.NewMemoryFS()
	m.MkdirAll("d", 0o755)
	m.WriteFile("d/f.txt", []byte("hello"), 0o644)

	eng, err := digest.NewEngine(digest.MD5, m)
	if err != nil {
		t.Fatal(err)
	}

	sum, err := eng.File("d/f.txt")
	if err != nil {
		t.Fatal(err)
	}
	if sum != "5d41402abc4b2a76b9719d911017c592" {
		t.Fatalf("unexpected fingerprint %q", sum)
	}
}

func TestFile_MmapMatchesStreaming(t *testing.T) {
	// Larger than the mmap threshold so the mapped path is actually taken.
	data := bytes.Repeat([]byte("abcdefgh"), 1<<19) // 4 MiB
	data = append(data, "tail"...)
	path := writeTemp(t, data)

	eng, err := digest.NewEngine(digest.MD5, fs.NewOSFS())
	if err != nil {
		t.Fatal(err)
	}

	plain, err := eng.File(path)
	if err != nil {
		t.Fatal(err)
	}

	eng.Mmap = true
	mapped, err := eng.File(path)
	if err != nil {
		t.Fatal(err)
	}

	if plain != mapped {
		t.Fatalf("mmap fingerprint %q differs from streaming %q", mapped, plain)
	}
}
