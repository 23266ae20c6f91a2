package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
)

// GoModule is the module that owns a directory
type GoModule struct {
	Path string // module path from the module directive
	Dir  string // directory holding go.mod
}

// ParseModuleName extracts the module name from a go.mod file
func ParseModuleName(goModPath string) (string, error) {
	cleanPath := filepath.Clean(goModPath)
	if filepath.Base(cleanPath) != "go.mod" {
		return "", fmt.Errorf("file is not a go.mod file: %s", goModPath)
	}

	content, err := os.ReadFile(cleanPath)
	if err != nil {
		return "", fmt.Errorf("failed to read go.mod file: %w", err)
	}

	path := modfile.ModulePath(content)
	if path == "" {
		// ModulePath is lenient; Parse reports what is actually wrong
		if _, err := modfile.Parse(cleanPath, content, nil); err != nil {
			return "", fmt.Errorf("failed to parse go.mod file: %w", err)
		}
		return "", fmt.Errorf("no module declaration found in go.mod")
	}
	return path, nil
}

// FindGoModFile searches for go.mod starting from the given directory and
// walking up
func FindGoModFile(startDir string) (string, error) {
	currentDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		goModPath := filepath.Join(currentDir, "go.mod")
		if info, err := os.Stat(goModPath); err == nil && !info.IsDir() {
			return goModPath, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return "", fmt.Errorf("go.mod file not found")
}

// FindModule resolves the module owning dir
func FindModule(dir string) (GoModule, error) {
	goMod, err := FindGoModFile(dir)
	if err != nil {
		return GoModule{}, err
	}
	path, err := ParseModuleName(goMod)
	if err != nil {
		return GoModule{}, err
	}
	return GoModule{Path: path, Dir: filepath.Dir(goMod)}, nil
}

// ImportPath returns the import path of the package in dir, which must lie
// inside the module
func (m GoModule) ImportPath(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(m.Dir, abs)
	if err != nil {
		return "", err
	}
	if rel == "." {
		return m.Path, nil
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside module %s", dir, m.Path)
	}
	return m.Path + "/" + filepath.ToSlash(rel), nil
}
