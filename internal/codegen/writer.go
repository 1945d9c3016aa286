package codegen

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/spf13/afero"
)

// DefaultHashCacheSize bounds the number of remembered file hashes.
const DefaultHashCacheSize = 1024

// Writer writes generated files, skipping files whose content is unchanged since the
// last write and which still exist on disk. A Writer is safe for concurrent use and is
// meant to live as long as the process so reloads benefit from it.
type Writer struct {
	fs     afero.Fs
	hashes *lru.Cache[string, string]
}

// NewWriter creates a Writer on fsys remembering up to size file hashes.
func NewWriter(fsys afero.Fs, size int) (*Writer, error) {
	if size <= 0 {
		size = DefaultHashCacheSize
	}
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, err
	}
	return &Writer{fs: fsys, hashes: cache}, nil
}

// Fs returns the filesystem the writer writes to.
func (w *Writer) Fs() afero.Fs {
	return w.fs
}

// WriteFile writes content to path unless an identical write already happened.
// It reports whether the file was written.
func (w *Writer) WriteFile(path string, content []byte) (bool, error) {
	sum := sha256.Sum256(content)
	hash := hex.EncodeToString(sum[:])

	if last, ok := w.hashes.Get(path); ok && last == hash {
		if exists, err := afero.Exists(w.fs, path); err == nil && exists {
			return false, nil
		}
	}

	if err := w.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("create directory for %s: %w", path, err)
	}
	if err := afero.WriteFile(w.fs, path, content, 0o644); err != nil {
		w.hashes.Remove(path)
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	w.hashes.Add(path, hash)
	return true, nil
}
