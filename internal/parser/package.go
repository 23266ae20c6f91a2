package parser

import (
	"fmt"
	"go/ast"
	"go/build/constraint"
	"go/parser"
	"go/token"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/toyz/ctrlgen/internal/errors"
)

// SourceFile is one parsed file of a package
type SourceFile struct {
	Path   string
	AST    *ast.File
	Bundle bool // constrained with //go:build ctrlgen
}

// Package is the set of files the analyzer works on. The ASTs are mutable;
// analysis strips ctrlgen directives from them.
type Package struct {
	Name       string
	Dir        string
	ImportPath string
	Fset       *token.FileSet
	Files      []*SourceFile // ordered by path
}

// LoadPackage parses the given files, which must belong to one package.
// Files excluded by an ignore constraint are left out.
func LoadPackage(fset *token.FileSet, dir string, paths []string) (*Package, error) {
	pkg := &Package{Dir: dir, Fset: fset}

	for _, path := range paths {
		file, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
		if err != nil {
			return nil, errors.Wrapf(errors.SyntaxErrorCode, err, "failed to parse %s", filepath.Base(path))
		}
		if err := pkg.add(path, file); err != nil {
			return nil, err
		}
	}

	if len(pkg.Files) == 0 {
		return nil, errors.Newf(errors.FileSystemErrorCode, "no Go files found in %s", dir)
	}
	return pkg, nil
}

// ParseSource builds a single-file package from source text
func ParseSource(fset *token.FileSet, filename, source string) (*Package, error) {
	file, err := parser.ParseFile(fset, filename, source, parser.ParseComments)
	if err != nil {
		return nil, errors.Wrap(errors.SyntaxErrorCode, "failed to parse source", err)
	}

	pkg := &Package{Dir: filepath.Dir(filename), Fset: fset}
	if err := pkg.add(filename, file); err != nil {
		return nil, err
	}
	return pkg, nil
}

func (p *Package) add(path string, file *ast.File) error {
	include, bundle := buildMode(file)
	if !include {
		return nil
	}

	name := file.Name.Name
	if p.Name == "" {
		p.Name = name
	} else if name != p.Name {
		return errors.Newf(errors.ValidationErrorCode, "multiple packages found in %s: %s and %s", p.Dir, p.Name, name).
			WithLocation(errors.LocationOf(p.Fset, file.Name.Pos()))
	}

	p.Files = append(p.Files, &SourceFile{Path: path, AST: file, Bundle: bundle})
	return nil
}

// buildMode reports whether a file takes part in generation and whether it
// is a bundle template. A file is a bundle when its constraint holds with
// the ctrlgen tag and fails without it.
func buildMode(file *ast.File) (include, bundle bool) {
	expr := buildConstraint(file)
	if expr == nil {
		return true, false
	}

	with := expr.Eval(func(tag string) bool { return tag != "ignore" })
	without := expr.Eval(func(tag string) bool { return tag != "ignore" && tag != BuildTag })
	return with, with && !without
}

func buildConstraint(file *ast.File) constraint.Expr {
	for _, group := range file.Comments {
		if group.Pos() >= file.Package {
			break
		}
		for _, c := range group.List {
			if !constraint.IsGoBuild(c.Text) {
				continue
			}
			expr, err := constraint.Parse(c.Text)
			if err != nil {
				return nil
			}
			return expr
		}
	}
	return nil
}

// IsBuildLine reports whether a comment is a //go:build or // +build line
func IsBuildLine(text string) bool {
	return constraint.IsGoBuild(text) || constraint.IsPlusBuild(text)
}

// StripBuildConstraints removes the //go:build and // +build lines above
// the package clause
func StripBuildConstraints(file *ast.File) {
	kept := file.Comments[:0]
	for _, group := range file.Comments {
		if group.Pos() < file.Package {
			group.List = slices.DeleteFunc(group.List, func(c *ast.Comment) bool {
				return IsBuildLine(c.Text)
			})
			if len(group.List) == 0 {
				continue
			}
		}
		kept = append(kept, group)
	}
	file.Comments = kept
}

// ContextImportName returns the name the file imports "context" under, or
// "" when it does not
func ContextImportName(file *ast.File) string {
	for _, spec := range file.Imports {
		if importPath(spec) != ContextImportPath {
			continue
		}
		if spec.Name == nil {
			return "context"
		}
		if spec.Name.Name == "_" || spec.Name.Name == "." {
			return ""
		}
		return spec.Name.Name
	}
	return ""
}

func importPath(spec *ast.ImportSpec) string {
	path, err := strconv.Unquote(spec.Path.Value)
	if err != nil {
		return spec.Path.Value
	}
	return path
}

// String describes the package for diagnostics
func (p *Package) String() string {
	if p.ImportPath != "" {
		return p.ImportPath
	}
	return fmt.Sprintf("%s (%s)", p.Name, p.Dir)
}
