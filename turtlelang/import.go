package turtlelang

import (
	"encoding/binary"
	"os"
	"path/filepath"

	"github.com/glycerine/blake2b"
)

// Importer resolves `import "path"` statements relative to a base
// directory and de-duplicates by content hash (not by path) so that
// the same file reached via two different relative paths is only
// ever parsed once -- matching the original's "import file ids"
// design, ported onto blake2b/Blake2bUint64 the way the teacher hashes
// things elsewhere in its own package.
type Importer struct {
	baseDir string
	seen    map[uint64]bool
}

func NewImporter(baseDir string) *Importer {
	return &Importer{baseDir: baseDir, seen: make(map[uint64]bool)}
}

// Load reads path (resolved against baseDir), hashes its content, and
// reports whether this is the first time that content has been seen.
// Content already imported is reported with fresh=false and an empty
// source string, so the caller can skip it.
func (im *Importer) Load(path string) (src string, fresh bool, err error) {
	full := path
	if !filepath.IsAbs(full) {
		full = filepath.Join(im.baseDir, path)
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return "", false, err
	}
	id, err := fileID(data)
	if err != nil {
		return "", false, err
	}
	if im.seen[id] {
		return "", false, nil
	}
	im.seen[id] = true
	return string(data), true, nil
}

// fileID hashes file content down to a uint64 using blake2b with an
// 8-byte digest, the same Config{Size: 8} + Write + Sum pattern the
// teacher's own blake2.go helper uses.
func fileID(data []byte) (uint64, error) {
	h, err := blake2b.New(&blake2b.Config{Size: 8})
	if err != nil {
		return 0, err
	}
	if _, err := h.Write(data); err != nil {
		return 0, err
	}
	sum := h.Sum(nil)
	return binary.LittleEndian.Uint64(sum), nil
}
