package parser

import (
	"go/ast"
	"path"
	"regexp"
	"strings"

	"github.com/toyz/ctrlgen/internal/errors"
	"github.com/toyz/ctrlgen/internal/models"
)

var majorVersion = regexp.MustCompile(`^v[0-9]+$`)

// ImportName guesses the package name of an unnamed import from its path:
// the last element without a major-version suffix, a .vN suffix or a
// go- style prefix
func ImportName(importPath string) string {
	elem := path.Base(importPath)
	if majorVersion.MatchString(elem) {
		if parent := path.Dir(importPath); parent != "." && parent != "/" {
			elem = path.Base(parent)
		}
	}
	if i := strings.Index(elem, ".v"); i > 0 && majorVersion.MatchString(elem[i+1:]) {
		elem = elem[:i]
	}
	if i := strings.LastIndexByte(elem, '-'); i >= 0 && i+1 < len(elem) {
		elem = elem[i+1:]
	}
	return strings.ReplaceAll(elem, ".", "_")
}

// importSet collects the imports of the files contributing to a service
type importSet struct {
	list   []models.Import
	byName map[string]string // effective name -> path
}

func newImportSet() *importSet {
	return &importSet{byName: make(map[string]string)}
}

// addFile copies the imports of file. Blank imports are skipped.
func (s *importSet) addFile(pkg *Package, file *ast.File) error {
	for _, spec := range file.Imports {
		imp := models.Import{Path: importPath(spec)}
		if spec.Name != nil {
			imp.Name = spec.Name.Name
		}
		if imp.Name == "_" {
			continue
		}

		name := imp.Name
		if name == "" {
			name = ImportName(imp.Path)
		}
		loc := errors.LocationOf(pkg.Fset, spec.Pos())

		if name == RuntimeQualifier && imp.Path != RuntimeImportPath {
			return errors.Validationf(loc, "import name `%s` is reserved for %s", RuntimeQualifier, RuntimeImportPath).
				WithSuggestion("import the package under a different name")
		}
		if name == "." {
			s.list = append(s.list, imp)
			continue
		}
		if existing, ok := s.byName[name]; ok {
			if existing != imp.Path {
				return errors.Validationf(loc, "files of the service import both %q and %q as `%s`", existing, imp.Path, name).
					WithSuggestion("give one of the imports an explicit name")
			}
			continue
		}
		s.byName[name] = imp.Path
		s.list = append(s.list, imp)
	}
	return nil
}

// has reports whether a qualifier resolves to an import
func (s *importSet) has(name string) bool {
	if name == RuntimeQualifier {
		return true
	}
	_, ok := s.byName[name]
	return ok
}
