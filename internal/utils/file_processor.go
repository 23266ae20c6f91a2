package utils

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/toyz/ctrlgen/internal/errors"
)

// DefaultGeneratedSuffix names the file written next to each source file
const DefaultGeneratedSuffix = "_ctrlgen.go"

// FileProcessor provides utilities for common file processing operations
type FileProcessor struct {
	suffix string
}

// NewFileProcessor creates a file processor that treats files ending in
// suffix as generated output. An empty suffix selects the default.
func NewFileProcessor(suffix string) *FileProcessor {
	if suffix == "" {
		suffix = DefaultGeneratedSuffix
	}
	return &FileProcessor{suffix: suffix}
}

// Suffix returns the generated file suffix
func (fp *FileProcessor) Suffix() string {
	return fp.suffix
}

// FileFilter defines a function that determines whether a file should be processed
type FileFilter func(path string, info os.DirEntry) bool

// DirectoryFilter defines a function that determines whether a directory should be processed
type DirectoryFilter func(path string, info os.DirEntry) bool

// SourceFileFilter selects .go files, excluding tests and generated output
func (fp *FileProcessor) SourceFileFilter() FileFilter {
	return func(path string, info os.DirEntry) bool {
		if info.IsDir() {
			return false
		}
		name := info.Name()
		return strings.HasSuffix(name, ".go") &&
			!strings.HasSuffix(name, "_test.go") &&
			!strings.HasSuffix(name, fp.suffix)
	}
}

// GeneratedFileFilter selects files carrying the generated suffix
func (fp *FileProcessor) GeneratedFileFilter() FileFilter {
	return func(path string, info os.DirEntry) bool {
		return !info.IsDir() && strings.HasSuffix(info.Name(), fp.suffix)
	}
}

// DefaultDirectoryFilter skips directories the go tool ignores and common
// non-source directories
func DefaultDirectoryFilter() DirectoryFilter {
	skipDirs := map[string]bool{
		"vendor":       true,
		"node_modules": true,
		"testdata":     true,
	}

	return func(path string, info os.DirEntry) bool {
		if !info.IsDir() {
			return true
		}
		name := info.Name()
		if name == "." || name == ".." {
			return true
		}
		if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
			return false
		}
		return !skipDirs[name]
	}
}

// ScanDirectories returns the directories holding Go source files. Roots
// are descended into when recursive is set.
func (fp *FileProcessor) ScanDirectories(roots []string, recursive bool) ([]string, error) {
	var packageDirs []string
	visited := make(map[string]bool)

	for _, root := range roots {
		dirs, err := fp.scanDirectory(root, recursive, visited)
		if err != nil {
			return nil, err
		}
		packageDirs = append(packageDirs, dirs...)
	}
	return packageDirs, nil
}

func (fp *FileProcessor) scanDirectory(dir string, recursive bool, visited map[string]bool) ([]string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.WrapFileSystemError("resolve", dir, err)
	}
	if visited[absDir] {
		return nil, nil
	}
	visited[absDir] = true

	var packageDirs []string

	hasGoFiles, err := fp.HasGoFiles(absDir)
	if err != nil {
		return nil, err
	}
	if hasGoFiles {
		packageDirs = append(packageDirs, absDir)
	}
	if !recursive {
		return packageDirs, nil
	}

	entries, err := os.ReadDir(absDir)
	if err != nil {
		return nil, errors.WrapFileSystemError("read directory", absDir, err)
	}

	directoryFilter := DefaultDirectoryFilter()
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		entryPath := filepath.Join(absDir, entry.Name())
		if !directoryFilter(entryPath, entry) {
			continue
		}
		subDirs, err := fp.scanDirectory(entryPath, recursive, visited)
		if err != nil {
			return nil, err
		}
		packageDirs = append(packageDirs, subDirs...)
	}

	return packageDirs, nil
}

// HasGoFiles checks if a directory contains any source files
func (fp *FileProcessor) HasGoFiles(dir string) (bool, error) {
	files, err := fp.ListFiles(dir, fp.SourceFileFilter())
	if err != nil {
		return false, err
	}
	return len(files) > 0, nil
}

// ListFiles returns the paths in dir accepted by filter, sorted by name
func (fp *FileProcessor) ListFiles(dir string, filter FileFilter) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.WrapFileSystemError("read directory", dir, err)
	}

	var files []string
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if filter(path, entry) {
			files = append(files, path)
		}
	}
	slices.Sort(files)
	return files, nil
}

// WriteFile writes generated content, creating the directory if needed
func (fp *FileProcessor) WriteFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.WrapFileSystemError("create directory for", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return errors.WrapFileSystemError("write", path, err)
	}
	return nil
}

