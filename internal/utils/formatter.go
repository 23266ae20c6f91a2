package utils

import (
	"fmt"
	"go/format"
	"go/parser"
	"go/token"

	"golang.org/x/tools/imports"
)

// FormatGoCode formats generated source with goimports. Unused imports
// copied from the source files are dropped.
func FormatGoCode(filename string, source []byte) ([]byte, error) {
	return imports.Process(filename, source, &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: false,
	})
}

// FormatGoCodeString formats Go source, falling back to gofmt rules when
// goimports fails and to the raw source when the code does not parse
func FormatGoCodeString(filename, source string) (string, error) {
	formatted, err := FormatGoCode(filename, []byte(source))
	if err == nil {
		return string(formatted), nil
	}

	plain, fmtErr := format.Source([]byte(source))
	if fmtErr == nil {
		return string(plain), nil
	}

	if parseErr := ValidateGoCode(source); parseErr != nil {
		return source, fmt.Errorf("invalid Go syntax: %w (format error: %v)", parseErr, err)
	}
	return source, fmtErr
}

// ValidateGoCode checks if the provided code is valid Go syntax
func ValidateGoCode(code string) error {
	fset := token.NewFileSet()
	_, err := parser.ParseFile(fset, "", code, parser.ParseComments)
	return err
}
