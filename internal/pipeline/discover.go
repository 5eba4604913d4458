package pipeline

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Discover lists files in inputDir whose extension (case-insensitive) is one
// of formats (without dot). Sub-directories are walked only when recursive
// is set. Paths are sorted lexicographically for deterministic processing
// order.
func Discover(inputDir string, formats []string, recursive bool) ([]string, error) {
	exts := make(map[string]bool, len(formats))
	for _, f := range formats {
		exts["."+strings.ToLower(strings.TrimPrefix(f, "."))] = true
	}
	match := func(name string) bool {
		return exts[strings.ToLower(filepath.Ext(name))]
	}

	var files []string
	if !recursive {
		entries, err := os.ReadDir(inputDir)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if e.Type().IsRegular() && match(e.Name()) {
				files = append(files, filepath.Join(inputDir, e.Name()))
			}
		}
		sort.Strings(files)
		return files, nil
	}

	err := filepath.WalkDir(inputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() && match(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
