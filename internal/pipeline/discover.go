package pipeline

import (
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/backmassage/rasterconv/internal/naming"
)

// Discover walks inputDir and returns every regular file except auxiliary
// .xml sidecars, sorted lexicographically for a deterministic processing
// order. Extensions are not filtered: whether a file is a raster is up to
// the driver that opens it.
func Discover(inputDir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(inputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if naming.IsAuxiliary(path) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
