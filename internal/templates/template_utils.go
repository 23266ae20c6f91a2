package templates

import (
	"strings"

	"github.com/toyz/ctrlgen/internal/models"
)

// TypeParamList returns the declaration list of params, or "" when there
// are none
func TypeParamList(params []models.TypeParam) string {
	if len(params) == 0 {
		return ""
	}
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.Name + " " + p.Constraint
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// TypeArgList returns the instantiation list for names, or "" when there
// are none
func TypeArgList(names []string) string {
	if len(names) == 0 {
		return ""
	}
	return "[" + strings.Join(names, ", ") + "]"
}

// StructTag joins field attributes into one raw string tag
func StructTag(attrs []models.Attr) string {
	if len(attrs) == 0 {
		return ""
	}
	parts := make([]string, len(attrs))
	for i, a := range attrs {
		parts[i] = strings.TrimSpace(a.Text)
	}
	return "`" + strings.Join(parts, " ") + "`"
}

// AttrLines returns the text of attributes rendered as //-comments
func AttrLines(attrs []models.Attr) []string {
	lines := make([]string, len(attrs))
	for i, a := range attrs {
		lines[i] = strings.TrimSpace(a.Text)
	}
	return lines
}

// Param is a name and type pair of a generated signature
type Param struct {
	Name string
	Type string
}

// ParamList renders params as a signature parameter list
func ParamList(params ...Param) string {
	parts := make([]string, 0, len(params))
	for _, p := range params {
		parts = append(parts, p.Name+" "+p.Type)
	}
	return strings.Join(parts, ", ")
}
