package parser

import (
	"go/ast"
	"slices"
	"strings"

	"github.com/toyz/ctrlgen/internal/annotations"
)

// firstDirective returns the first ctrlgen directive of doc, or nil
func firstDirective(doc *ast.CommentGroup) *ast.Comment {
	if doc == nil {
		return nil
	}
	for _, c := range doc.List {
		if annotations.IsDirective(c.Text) {
			return c
		}
	}
	return nil
}

// stripDirectives removes ctrlgen directives from *doc. A group left empty
// is dropped from the file and *doc is cleared.
func stripDirectives(file *ast.File, doc **ast.CommentGroup) {
	group := *doc
	if group == nil {
		return
	}
	group.List = slices.DeleteFunc(group.List, func(c *ast.Comment) bool {
		return annotations.IsDirective(c.Text)
	})
	if len(group.List) > 0 {
		return
	}
	file.Comments = slices.DeleteFunc(file.Comments, func(g *ast.CommentGroup) bool {
		return g == group
	})
	*doc = nil
}

// docLines returns the documentation lines of doc as written. Directive
// lines are dropped along with trailing empty comment lines.
func docLines(doc *ast.CommentGroup) []string {
	if doc == nil {
		return nil
	}
	var lines []string
	for _, c := range doc.List {
		if annotations.IsGoDirective(c.Text) {
			continue
		}
		lines = append(lines, c.Text)
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "//" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
