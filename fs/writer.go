package fs

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	comphysearch "github.com/comphy-lab/comphy-search"
)

// Ensure Writer implements comphysearch.IndexWriter at compile time.
var _ comphysearch.IndexWriter = (*Writer)(nil)

// Writer persists the search index as a whole-file replacement: it
// serializes to a temporary file in the target directory and renames it
// into place, so readers never observe a partial artifact.
type Writer struct{}

// NewWriter creates a new Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Write serializes the index to path and reports whether the artifact's
// bytes changed relative to the previously published version.
func (w *Writer) Write(path string, index comphysearch.Index) (bool, error) {
	// Marshal the empty index as [] rather than null.
	if index == nil {
		index = comphysearch.Index{}
	}

	data, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return false, err
	}
	data = append(data, '\n')

	if prev, err := os.ReadFile(path); err == nil {
		if xxhash.Sum64(prev) == xxhash.Sum64(data) {
			return false, nil
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return false, err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return false, err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return false, err
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return false, err
	}
	return true, nil
}
