package parser

import (
	"bytes"
	"go/ast"
	"go/parser"
	"go/printer"
	"go/token"

	"golang.org/x/tools/go/ast/astutil"
)

// typePrinter prints type expressions of a method block. rename maps the
// receiver's type parameter names to the ones on the type declaration.
type typePrinter struct {
	fset   *token.FileSet
	rename map[string]string
}

var exprConfig = printer.Config{Mode: printer.RawFormat}

// String returns the source text of expr with type parameters renamed
func (tp typePrinter) String(expr ast.Expr) (string, error) {
	text, err := printExpr(tp.fset, expr)
	if err != nil || len(tp.rename) == 0 {
		return text, err
	}

	// rename on a fresh copy so the source AST stays untouched
	fset := token.NewFileSet()
	clone, err := parser.ParseExprFrom(fset, "", text, 0)
	if err != nil {
		return text, err
	}
	return printExpr(fset, renameIdents(clone, tp.rename))
}

// Normalize reprints a type expression written in a directive so it can be
// compared against printed parameter types
func Normalize(expr string) (string, error) {
	fset := token.NewFileSet()
	parsed, err := parser.ParseExprFrom(fset, "", expr, 0)
	if err != nil {
		return "", err
	}
	return printExpr(fset, parsed)
}

func printExpr(fset *token.FileSet, expr ast.Expr) (string, error) {
	var buf bytes.Buffer
	if err := exprConfig.Fprint(&buf, fset, expr); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// renameIdents replaces identifiers in type position. Selected names and
// field or method names are left alone.
func renameIdents(expr ast.Expr, rename map[string]string) ast.Expr {
	out := astutil.Apply(expr, func(c *astutil.Cursor) bool {
		id, ok := c.Node().(*ast.Ident)
		if !ok {
			return true
		}
		switch c.Parent().(type) {
		case *ast.SelectorExpr:
			if c.Name() == "Sel" {
				return true
			}
		case *ast.Field:
			if c.Name() == "Names" {
				return true
			}
		}
		if to, ok := rename[id.Name]; ok {
			c.Replace(ast.NewIdent(to))
		}
		return true
	}, nil)
	return out.(ast.Expr)
}

// qualifiers returns the package names used as selectors in expr
func qualifiers(expr ast.Expr) []string {
	var names []string
	ast.Inspect(expr, func(n ast.Node) bool {
		sel, ok := n.(*ast.SelectorExpr)
		if !ok {
			return true
		}
		if id, ok := sel.X.(*ast.Ident); ok {
			names = append(names, id.Name)
		}
		return true
	})
	return names
}

func parseTypeExpr(expr string) (ast.Expr, error) {
	return parser.ParseExprFrom(token.NewFileSet(), "", expr, 0)
}
