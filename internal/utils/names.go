package utils

import (
	"go/token"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// UpperCamel converts an identifier to its exported UpperCamel form.
// Underscores separate words; the case of letters after the first of each
// word is kept, so incrementBy and increment_by both become IncrementBy.
func UpperCamel(name string) string {
	// a Caser is stateful, so one per call
	title := cases.Title(language.Und, cases.NoLower)

	var b strings.Builder
	for _, part := range strings.Split(name, "_") {
		if part == "" {
			continue
		}
		b.WriteString(title.String(part))
	}
	return b.String()
}

// LowerFirst lowercases the first rune of name
func LowerFirst(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToLower(r)) + name[size:]
}

// UpperFirst uppercases the first rune of name
func UpperFirst(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}

// IsExported reports whether name starts with an upper-case letter
func IsExported(name string) bool {
	return token.IsExported(name)
}

// NameSet hands out identifiers that do not clash with the names it holds
type NameSet map[string]bool

// NewNameSet creates a set holding the given names
func NewNameSet(names ...string) NameSet {
	s := make(NameSet, len(names))
	for _, n := range names {
		s[n] = true
	}
	return s
}

// Fresh returns base, or base followed by the smallest number that is free,
// and reserves the result
func (s NameSet) Fresh(base string) string {
	name := base
	for i := 1; s[name] || token.IsKeyword(name); i++ {
		name = base + strconv.Itoa(i)
	}
	s[name] = true
	return name
}
