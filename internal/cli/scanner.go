package cli

import (
	"path/filepath"
	"strings"

	"github.com/toyz/ctrlgen/internal/errors"
	"github.com/toyz/ctrlgen/internal/utils"
)

// DirectoryScanner handles recursive directory scanning for Go files
type DirectoryScanner struct {
	fileProcessor *utils.FileProcessor
	exclude       []string
}

// NewDirectoryScanner creates a new directory scanner. Directories whose
// name or path matches one of the exclude patterns are skipped.
func NewDirectoryScanner(fp *utils.FileProcessor, exclude []string) *DirectoryScanner {
	return &DirectoryScanner{
		fileProcessor: fp,
		exclude:       exclude,
	}
}

// ScanDirectories returns the package directories under the given patterns.
// Supports Go-style patterns like "./..." for recursive scanning.
func (s *DirectoryScanner) ScanDirectories(patterns []string) ([]string, error) {
	var dirs []string
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		root, recursive := splitPattern(pattern)
		found, err := s.fileProcessor.ScanDirectories([]string{root}, recursive)
		if err != nil {
			return nil, errors.WrapWithOperation("scan", pattern, err)
		}
		for _, dir := range found {
			if seen[dir] || s.excluded(dir) {
				continue
			}
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	return dirs, nil
}

func (s *DirectoryScanner) excluded(dir string) bool {
	rel := dir
	if wd, err := filepath.Abs("."); err == nil {
		if r, err := filepath.Rel(wd, dir); err == nil {
			rel = filepath.ToSlash(r)
		}
	}
	for _, pattern := range s.exclude {
		pattern = strings.TrimSuffix(filepath.ToSlash(pattern), "/")
		if ok, _ := filepath.Match(pattern, filepath.Base(dir)); ok {
			return true
		}
		if ok, _ := filepath.Match(strings.TrimPrefix(pattern, "./"), rel); ok {
			return true
		}
	}
	return false
}

// splitPattern separates the recursive /... suffix from a directory pattern
func splitPattern(pattern string) (string, bool) {
	if pattern == "..." {
		return ".", true
	}
	if base, ok := strings.CutSuffix(pattern, "/..."); ok {
		if base == "" {
			base = "."
		}
		return base, true
	}
	return pattern, false
}
