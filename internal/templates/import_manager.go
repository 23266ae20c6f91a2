package templates

import (
	"fmt"
	"sort"
	"strings"

	"github.com/toyz/ctrlgen/internal/errors"
)

// ImportManager handles import generation and deduplication
type ImportManager struct {
	unnamed map[string]bool   // path
	named   map[string]string // name -> path
	names   func(path string) string
}

// NewImportManager creates a new import manager. guess returns the package
// name of an unnamed import.
func NewImportManager(guess func(path string) string) *ImportManager {
	return &ImportManager{
		unnamed: make(map[string]bool),
		named:   make(map[string]string),
		names:   guess,
	}
}

// AddImport adds an unnamed import
func (im *ImportManager) AddImport(importPath string) error {
	if importPath == "" {
		return nil
	}
	if err := im.claim(im.names(importPath), importPath); err != nil {
		return err
	}
	im.unnamed[importPath] = true
	return nil
}

// AddNamedImport adds an import with an explicit name. Dot imports are
// kept as written.
func (im *ImportManager) AddNamedImport(name, importPath string) error {
	if name == "" {
		return im.AddImport(importPath)
	}
	if name != "." && name != "_" {
		if err := im.claim(name, importPath); err != nil {
			return err
		}
	}
	im.named[name+" "+importPath] = importPath
	return nil
}

// claim fails when name is already bound to another path
func (im *ImportManager) claim(name, importPath string) error {
	for path := range im.unnamed {
		if path != importPath && im.names(path) == name {
			return conflict(name, path, importPath)
		}
	}
	for key, path := range im.named {
		if path != importPath && strings.HasPrefix(key, name+" ") {
			return conflict(name, path, importPath)
		}
	}
	return nil
}

func conflict(name, have, want string) error {
	return errors.Newf(errors.GenerationErrorCode, "import name `%s` refers to both %q and %q", name, have, want).
		WithSuggestion("give one of the imports in the source file an explicit name")
}

// IsEmpty reports whether no import was added
func (im *ImportManager) IsEmpty() bool {
	return len(im.unnamed) == 0 && len(im.named) == 0
}

// GenerateImports generates the import section: standard library first,
// then the rest, each group sorted by path
func (im *ImportManager) GenerateImports() string {
	if im.IsEmpty() {
		return ""
	}

	var std, other []string
	add := func(path, spec string) {
		if isStandardLibrary(path) {
			std = append(std, spec)
		} else {
			other = append(other, spec)
		}
	}
	for path := range im.unnamed {
		add(path, fmt.Sprintf("%q", path))
	}
	for key, path := range im.named {
		name := key[:strings.IndexByte(key, ' ')]
		add(path, fmt.Sprintf("%s %q", name, path))
	}

	byPath := func(specs []string) {
		sort.Slice(specs, func(i, j int) bool {
			return specPath(specs[i]) < specPath(specs[j]) ||
				specPath(specs[i]) == specPath(specs[j]) && specs[i] < specs[j]
		})
	}
	byPath(std)
	byPath(other)

	var result strings.Builder
	result.WriteString("import (\n")
	for _, spec := range std {
		result.WriteString("\t" + spec + "\n")
	}
	if len(std) > 0 && len(other) > 0 {
		result.WriteString("\n")
	}
	for _, spec := range other {
		result.WriteString("\t" + spec + "\n")
	}
	result.WriteString(")\n")

	return result.String()
}

func specPath(spec string) string {
	return spec[strings.IndexByte(spec, '"'):]
}

// isStandardLibrary reports whether the first path element has no dot
func isStandardLibrary(importPath string) bool {
	first, _, _ := strings.Cut(importPath, "/")
	return !strings.Contains(first, ".")
}
