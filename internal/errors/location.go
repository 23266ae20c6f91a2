package errors

import (
	"fmt"
	"go/token"
)

// SourceLocation is a 1-based position in a Go source file. Zero Line or
// Column means unknown.
type SourceLocation struct {
	File   string
	Line   int
	Column int
}

// LocationOf resolves pos against fset.
func LocationOf(fset *token.FileSet, pos token.Pos) SourceLocation {
	if fset == nil || !pos.IsValid() {
		return SourceLocation{}
	}
	p := fset.Position(pos)
	return SourceLocation{File: p.Filename, Line: p.Line, Column: p.Column}
}

// String formats the location the way the Go toolchain does, file:line:col
func (s SourceLocation) String() string {
	switch {
	case s.File == "":
		return "unknown location"
	case s.Line == 0:
		return s.File
	case s.Column == 0:
		return fmt.Sprintf("%s:%d", s.File, s.Line)
	}
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
}

// IsEmpty reports whether the file is unknown
func (s SourceLocation) IsEmpty() bool {
	return s.File == ""
}

// Offset moves the location n columns to the right. Directive text is
// parsed on its own, so positions inside it are offsets from the comment.
func (s SourceLocation) Offset(n int) SourceLocation {
	if s.Column != 0 {
		s.Column += n
	}
	return s
}
