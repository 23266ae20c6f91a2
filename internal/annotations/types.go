package annotations

import "strings"

const (
	// DirectivePrefix starts every ctrlgen directive comment
	DirectivePrefix = "//ctrlgen:"

	// ServiceDirective marks a type as a service
	ServiceDirective = "service"
)

// Clause names accepted after the message type name
const (
	ClauseEnumAttr  = "enum_attr"
	ClauseReturnval = "returnval"
	ClauseProxy     = "proxy"
	ClauseContext   = "context"
)

// Method directive names
const (
	MethodEnumAttr   = "enum_attr"
	MethodReturnAttr = "return_attr"
	MethodArg        = "arg"
	MethodSkip       = "skip"
)

var knownClauses = map[string]bool{
	ClauseEnumAttr:  true,
	ClauseReturnval: true,
	ClauseProxy:     true,
	ClauseContext:   true,
}

// Directive is a //ctrlgen: comment split into its name and body
type Directive struct {
	Name string // word after the prefix
	Body string // text after the name
	Raw  string // full comment text
	// BodyOffset is the byte offset of Body within Raw
	BodyOffset int
}

// SplitDirective splits a comment into a Directive. It reports false for
// comments that are not ctrlgen directives.
func SplitDirective(comment string) (Directive, bool) {
	if !strings.HasPrefix(comment, DirectivePrefix) {
		return Directive{}, false
	}
	rest := comment[len(DirectivePrefix):]
	end := 0
	for end < len(rest) && isWordByte(rest[end]) {
		end++
	}
	return Directive{
		Name:       rest[:end],
		Body:       rest[end:],
		Raw:        comment,
		BodyOffset: len(DirectivePrefix) + end,
	}, true
}

// IsDirective reports whether the comment is a ctrlgen directive
func IsDirective(comment string) bool {
	return strings.HasPrefix(comment, DirectivePrefix)
}

// IsGoDirective reports whether a comment line is a directive in the
// //name:arg form, which Go tooling excludes from documentation
func IsGoDirective(comment string) bool {
	if !strings.HasPrefix(comment, "//") {
		return false
	}
	c := comment[2:]
	colon := strings.IndexByte(c, ':')
	if colon <= 0 || colon+1 >= len(c) {
		return false
	}
	for i := 0; i < colon; i++ {
		b := c[i]
		if !('a' <= b && b <= 'z' || '0' <= b && b <= '9') {
			return false
		}
	}
	b := c[colon+1]
	return 'a' <= b && b <= 'z' || '0' <= b && b <= '9'
}

func isWordByte(b byte) bool {
	return b == '_' || 'a' <= b && b <= 'z' || 'A' <= b && b <= 'Z' || '0' <= b && b <= '9'
}
