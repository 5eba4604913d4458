package naming

import (
	"fmt"
	"path/filepath"
	"strings"
)

// OutputPath mirrors source's location below inputRoot under outputRoot and
// replaces its extension with ext (without dot).
//
//	OutputPath("/in", "/in-converted", "/in/s1/ep01.mkv", "mp4") = "/in-converted/s1/ep01.mp4"
func OutputPath(inputRoot, outputRoot, source, ext string) (string, error) {
	rel, err := filepath.Rel(inputRoot, source)
	if err != nil {
		return "", fmt.Errorf("output path for %q: %w", source, err)
	}
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("output path for %q: not below %q", source, inputRoot)
	}
	return filepath.Join(outputRoot, ReplaceExt(rel, ext)), nil
}

// ReplaceExt swaps the extension of path for ext (without dot).
func ReplaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + "." + strings.TrimPrefix(ext, ".")
}

// dupPath returns the n-th rename candidate for path:
// "ep01.mp4" → "ep01 - dup1.mp4".
func dupPath(path string, n int) string {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return filepath.Join(dir, fmt.Sprintf("%s - dup%d%s", stem, n, ext))
}
